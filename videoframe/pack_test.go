// This file is part of glvideo.
//
// glvideo is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// glvideo is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with glvideo.  If not, see <https://www.gnu.org/licenses/>.

package videoframe_test

import (
	"testing"

	"github.com/jetsetilly/glvideo/curated"
	"github.com/jetsetilly/glvideo/test"
	"github.com/jetsetilly/glvideo/videoframe"
)

// fill the frame with values that identify the plane, row and column
func patterned(w, h int) *videoframe.Frame {
	f := videoframe.NewYV12(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			f.Buf[f.Offsets[0]+y*f.Pitches[0]+x] = uint8(y*16 + x)
		}
	}
	for y := 0; y < (h+1)/2; y++ {
		for x := 0; x < (w+1)/2; x++ {
			f.Buf[f.Offsets[1]+y*f.Pitches[1]+x] = uint8(0x80 + y*16 + x)
			f.Buf[f.Offsets[2]+y*f.Pitches[2]+x] = uint8(0xc0 + y*16 + x)
		}
	}
	return f
}

func TestNewYV12(t *testing.T) {
	f := videoframe.NewYV12(720, 480)
	test.ExpectEquality(t, len(f.Buf), 720*480*3/2)
	test.ExpectEquality(t, f.Pitches, [3]int{720, 360, 360})
	test.ExpectEquality(t, f.Offsets, [3]int{0, 720 * 480, 720*480 + 360*240})
	test.ExpectSuccess(t, f.Check(720, 480))

	// odd dimensions round the chroma planes up
	f = videoframe.NewYV12(5, 3)
	test.ExpectEquality(t, f.Pitches, [3]int{5, 3, 3})
	test.ExpectEquality(t, len(f.Buf), 5*3+3*2*2)
	test.ExpectSuccess(t, f.Check(5, 3))
}

func TestCheck(t *testing.T) {
	f := videoframe.NewYV12(16, 16)

	err := f.Check(16, 8)
	test.ExpectSuccess(t, curated.Is(err, videoframe.InvalidDimensions))

	f.Codec = videoframe.CodecNV12
	err = f.Check(16, 16)
	test.ExpectSuccess(t, curated.Is(err, videoframe.UnsupportedCodec))

	f = videoframe.NewYV12(16, 16)
	f.Buf = f.Buf[:len(f.Buf)-1]
	err = f.Check(16, 16)
	test.ExpectSuccess(t, curated.Is(err, videoframe.ShortBuffer))

	f = videoframe.NewYV12(16, 16)
	f.Pitches[2] = 4
	err = f.Check(16, 16)
	test.ExpectFailure(t, err)

	f = videoframe.NewYV12(16, 16)
	f.Offsets[1] = -4
	err = f.Check(16, 16)
	test.ExpectSuccess(t, curated.Is(err, videoframe.ShortBuffer))

	f = videoframe.NewYV12(16, 16)
	f.Pitches[0] = 1 << 62
	err = f.Check(16, 16)
	test.ExpectSuccess(t, curated.Is(err, videoframe.ShortBuffer))

	f = videoframe.NewYV12(16, 16)
	f.Offsets[2] = len(f.Buf) + 1
	err = f.Check(16, 16)
	test.ExpectSuccess(t, curated.Is(err, videoframe.ShortBuffer))

	// a larger pitch is fine if the buffer is large enough
	f = videoframe.NewYV12(16, 16)
	f.Pitches[0] = 32
	f.Offsets = [3]int{0, 32 * 16, 32*16 + 8*8}
	f.Buf = make([]byte, 32*16+8*8*2)
	test.ExpectSuccess(t, f.Check(16, 16))

	f = &videoframe.Frame{Codec: videoframe.CodecYV12}
	err = f.Check(0, 0)
	test.ExpectSuccess(t, curated.Is(err, videoframe.InvalidDimensions))
}

func TestPackYV12(t *testing.T) {
	f := patterned(4, 4)
	dst := make([]byte, 4*4*videoframe.TexelSize)
	videoframe.PackYV12(dst, f)

	texel := func(x, y int) []byte {
		o := (y*4 + x) * videoframe.TexelSize
		return dst[o : o+videoframe.TexelSize]
	}

	// pixel (3,2) uses chroma from row 1 column 1
	tx := texel(3, 2)
	test.ExpectEquality(t, tx[0], uint8(2*16+3))
	test.ExpectEquality(t, tx[1], uint8(0x80+1*16+1))
	test.ExpectEquality(t, tx[2], uint8(0xc0+1*16+1))
	test.ExpectEquality(t, tx[3], uint8(0xff))
}

func TestPackYV12Interlaced(t *testing.T) {
	f := patterned(2, 8)
	dst := make([]byte, 2*8*videoframe.TexelSize)
	videoframe.PackYV12Interlaced(dst, f)

	chromaRow := func(y int) int {
		cb := dst[y*2*videoframe.TexelSize+1]
		return int(cb-0x80) / 16
	}

	// lines of the same field share chroma rows
	expected := []int{0, 1, 0, 1, 2, 3, 2, 3}
	for y, e := range expected {
		test.ExpectEquality(t, chromaRow(y), e, y)
	}

	// odd number of lines must not read past the chroma plane
	f = patterned(2, 6)
	dst = make([]byte, 2*6*videoframe.TexelSize)
	videoframe.PackYV12Interlaced(dst, f)
	test.ExpectEquality(t, chromaRow(4), 2)
	test.ExpectEquality(t, chromaRow(5), 2)
}

func TestPitches(t *testing.T) {
	// a frame with padding at the end of each line packs the same as a frame
	// without padding
	f := patterned(4, 4)
	padded := &videoframe.Frame{
		Width:   4,
		Height:  4,
		Codec:   videoframe.CodecYV12,
		Pitches: [3]int{8, 4, 4},
		Offsets: [3]int{0, 32, 40},
		Buf:     make([]byte, 48),
	}
	for y := 0; y < 4; y++ {
		copy(padded.Buf[y*8:], f.Buf[f.Offsets[0]+y*4:f.Offsets[0]+y*4+4])
	}
	for y := 0; y < 2; y++ {
		copy(padded.Buf[32+y*4:], f.Buf[f.Offsets[1]+y*2:f.Offsets[1]+y*2+2])
		copy(padded.Buf[40+y*4:], f.Buf[f.Offsets[2]+y*2:f.Offsets[2]+y*2+2])
	}
	test.DemandSuccess(t, padded.Check(4, 4))

	a := make([]byte, 4*4*videoframe.TexelSize)
	b := make([]byte, 4*4*videoframe.TexelSize)
	videoframe.PackYV12(a, f)
	videoframe.PackYV12(b, padded)
	test.ExpectEquality(t, string(a), string(b))
}
