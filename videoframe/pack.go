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

// TexelSize is the number of bytes in a packed texel.
const TexelSize = 4

// texels are packed as Y, Cb, Cr, A. the alpha channel is always opaque
const texelAlpha = 0xff

// PackYV12 packs the planes of a progressive frame into texels. The
// destination must be at least Width*Height*TexelSize bytes long. Each chroma
// sample is shared by a two by two block of luma samples.
func PackYV12(dst []byte, f *Frame) {
	pack(dst, f, func(y int) int {
		return y >> 1
	})
}

// PackYV12Interlaced packs the planes of an interlaced frame into texels.
// Chroma samples are shared between alternate lines of the same field, so
// lines 0 and 2 share chroma row 0 and lines 1 and 3 share chroma row 1.
func PackYV12Interlaced(dst []byte, f *Frame) {
	_, ch := chromaSize(f.Width, f.Height)
	pack(dst, f, func(y int) int {
		return min(((y>>2)<<1)|(y&1), ch-1)
	})
}

// pack uses the chromaRow function to select the chroma row for each line
func pack(dst []byte, f *Frame, chromaRow func(y int) int) {
	yp := f.Buf[f.Offsets[0]:]
	up := f.Buf[f.Offsets[1]:]
	vp := f.Buf[f.Offsets[2]:]

	d := 0
	for y := 0; y < f.Height; y++ {
		yrow := yp[y*f.Pitches[0]:]
		cy := chromaRow(y)
		urow := up[cy*f.Pitches[1]:]
		vrow := vp[cy*f.Pitches[2]:]

		for x := 0; x < f.Width; x++ {
			dst[d] = yrow[x]
			dst[d+1] = urow[x>>1]
			dst[d+2] = vrow[x>>1]
			dst[d+3] = texelAlpha
			d += TexelSize
		}
	}
}
