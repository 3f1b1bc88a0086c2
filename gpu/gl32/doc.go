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


// Package gl32 implements gpu.Context with an OpenGL 3.2 core profile context
// created through SDL.
//
// The core profile has no fixed function pipeline. Every draw uses a small
// vertex shader that maps pixel coordinates to the viewport, linked with the
// fragment program given to DrawBitmap(). When no program is given a
// passthrough program is used.
//
// The core profile has no packed YCbCr texture format. Textures created with
// the gpu.TexturePackedYUV purpose are uploaded to a half-width staging
// texture and unpacked to RGB by a fragment program. The result is the same
// as sampling a native YCbCr texture.
package gl32
