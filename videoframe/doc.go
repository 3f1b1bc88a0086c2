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

// Package videoframe describes decoded video frames as they arrive from a
// decoder and provides the functions that prepare a frame for upload to the
// GPU.
//
// Only planar YUV 4:2:0 frames (CodecYV12) are handled. The planes are in the
// order Y, Cb, Cr and are located in the frame buffer with the Offsets and
// Pitches fields.
//
// PackYV12() and PackYV12Interlaced() create four byte texels in the order Y,
// Cb, Cr, A for GPU colourspace conversion. ToRGBA() and ToUYVY() are
// software conversions used when the GPU cannot perform the conversion
// itself.
package videoframe
