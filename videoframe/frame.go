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

package videoframe

import (
	"fmt"
	"image"

	"github.com/jetsetilly/glvideo/curated"
)

// Codec is the pixel layout of the frame data.
type Codec int

// List of valid Codec values.
const (
	CodecNone Codec = iota
	CodecYV12
	CodecNV12
	CodecRGBA
)

func (c Codec) String() string {
	switch c {
	case CodecNone:
		return "none"
	case CodecYV12:
		return "YV12"
	case CodecNV12:
		return "NV12"
	case CodecRGBA:
		return "RGBA"
	}
	return fmt.Sprintf("codec(%d)", int(c))
}

// Scan describes which field of an interlaced frame is being displayed.
type Scan int

// List of valid Scan values.
const (
	ScanProgressive Scan = iota

	// the first field of an interlaced frame
	ScanInterlaced

	// the second field of an interlaced frame
	ScanIntr2ndField
)

func (s Scan) String() string {
	switch s {
	case ScanProgressive:
		return "progressive"
	case ScanInterlaced:
		return "interlaced"
	case ScanIntr2ndField:
		return "2nd field"
	}
	return "unknown scan"
}

// Frame is a single decoded video frame.
type Frame struct {
	Buf    []byte
	Width  int
	Height int
	Codec  Codec

	// start of each plane in Buf and the number of bytes in a row of each
	// plane
	Offsets [3]int
	Pitches [3]int

	Interlaced    bool
	TopFieldFirst bool

	FrameNumber int64
}

// Error patterns returned by Check().
const (
	UnsupportedCodec  = "frame: unsupported codec (%v)"
	InvalidDimensions = "frame: dimensions (%dx%d) do not match %dx%d"
	ShortBuffer       = "frame: buffer too short for %dx%d %v"
	ChromaPitch       = "frame: chroma pitches differ (%d and %d)"
)

// NewYV12 creates a frame with a buffer large enough for the dimensions.
// Pitches are the minimum possible for the width.
func NewYV12(width int, height int) *Frame {
	cw, ch := chromaSize(width, height)

	f := &Frame{
		Width:  width,
		Height: height,
		Codec:  CodecYV12,
	}
	f.Pitches = [3]int{width, cw, cw}
	f.Offsets = [3]int{0, width * height, width*height + cw*ch}
	f.Buf = make([]byte, width*height+cw*ch*2)

	return f
}

// the dimensions of a chroma plane for a 4:2:0 image
func chromaSize(width int, height int) (int, int) {
	return (width + 1) / 2, (height + 1) / 2
}

// Check returns an error if the frame cannot be used as input for a pipeline
// configured for the specified dimensions.
func (f *Frame) Check(width int, height int) error {
	if f.Codec != CodecYV12 {
		return curated.Errorf(UnsupportedCodec, f.Codec)
	}
	if f.Width < 1 || f.Height < 1 || f.Width != width || f.Height != height {
		return curated.Errorf(InvalidDimensions, f.Width, f.Height, width, height)
	}

	cw, ch := chromaSize(f.Width, f.Height)
	planes := [3][2]int{{f.Width, f.Height}, {cw, ch}, {cw, ch}}
	for i, pl := range planes {
		if !f.planeFits(i, pl[0], pl[1]) {
			return curated.Errorf(ShortBuffer, f.Width, f.Height, f.Codec)
		}
	}
	if f.Pitches[1] != f.Pitches[2] {
		return curated.Errorf(ChromaPitch, f.Pitches[1], f.Pitches[2])
	}

	return nil
}

// planeFits is true if a plane of w by h bytes, at the offset and pitch
// recorded for the plane, lies entirely inside the buffer. The comparison is
// arranged so that a huge pitch cannot overflow.
func (f *Frame) planeFits(plane int, w int, h int) bool {
	off := f.Offsets[plane]
	pitch := f.Pitches[plane]
	if off < 0 || pitch < w || off > len(f.Buf) {
		return false
	}
	avail := len(f.Buf) - off
	if h > 1 && pitch > (avail-w)/(h-1) {
		return false
	}
	return w <= avail
}

// YCbCr returns an image.YCbCr that shares the memory of the frame. The frame
// should have been checked with Check() before calling this function.
func (f *Frame) YCbCr() *image.YCbCr {
	cw, ch := chromaSize(f.Width, f.Height)
	return &image.YCbCr{
		Y:              f.Buf[f.Offsets[0] : f.Offsets[0]+f.Pitches[0]*(f.Height-1)+f.Width],
		Cb:             f.Buf[f.Offsets[1] : f.Offsets[1]+f.Pitches[1]*(ch-1)+cw],
		Cr:             f.Buf[f.Offsets[2] : f.Offsets[2]+f.Pitches[2]*(ch-1)+cw],
		YStride:        f.Pitches[0],
		CStride:        f.Pitches[1],
		SubsampleRatio: image.YCbCrSubsampleRatio420,
		Rect:           image.Rect(0, 0, f.Width, f.Height),
	}
}
