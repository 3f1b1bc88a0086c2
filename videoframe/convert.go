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
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// ToRGBA converts the frame to RGBA. The destination must be at least
// Width*Height*4 bytes long.
func ToRGBA(dst []byte, f *Frame) {
	img := &image.RGBA{
		Pix:    dst,
		Stride: f.Width * 4,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}
	draw.Draw(img, img.Rect, f.YCbCr(), image.Point{}, draw.Src)
}

// ToUYVY converts the frame to packed 4:2:2 YUV. Each pair of pixels is
// stored in four bytes in the order Cb, Y0, Cr, Y1. The destination must be
// at least Width*Height*2 bytes long.
//
// A trailing odd pixel on each line is stored with its own chroma.
func ToUYVY(dst []byte, f *Frame) {
	yp := f.Buf[f.Offsets[0]:]
	up := f.Buf[f.Offsets[1]:]
	vp := f.Buf[f.Offsets[2]:]

	d := 0
	for y := 0; y < f.Height; y++ {
		yrow := yp[y*f.Pitches[0]:]
		urow := up[(y>>1)*f.Pitches[1]:]
		vrow := vp[(y>>1)*f.Pitches[2]:]

		x := 0
		for ; x+1 < f.Width; x += 2 {
			dst[d] = urow[x>>1]
			dst[d+1] = yrow[x]
			dst[d+2] = vrow[x>>1]
			dst[d+3] = yrow[x+1]
			d += 4
		}
		if x < f.Width {
			dst[d] = urow[x>>1]
			dst[d+1] = yrow[x]
			d += 2
		}
	}
}

// FromImage creates a YV12 frame from any image. The frame has the same
// dimensions as the image bounds.
func FromImage(img image.Image) *Frame {
	bounds := img.Bounds()
	f := NewYV12(bounds.Dx(), bounds.Dy())

	// draw.Draw() does not convert to YCbCr so the conversion is done
	// here. chroma is taken from the top-left pixel of each block
	ycbcr := f.YCbCr()
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			c := color.RGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.RGBA)
			yy, cb, cr := color.RGBToYCbCr(c.R, c.G, c.B)
			ycbcr.Y[ycbcr.YOffset(x, y)] = yy
			if x&1 == 0 && y&1 == 0 {
				c := ycbcr.COffset(x, y)
				ycbcr.Cb[c] = cb
				ycbcr.Cr[c] = cr
			}
		}
	}

	return f
}
