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


// Package player drives a videogl.VideoGL with frames from a Source. Each
// call to Step() uploads one frame and prepares one or two fields, depending
// on whether the frame is interlaced and on the active deinterlacer.
//
// The package has no knowledge of windows or timing. The Present function
// given to NewPlayer() is called after each field has been prepared and is
// where the caller swaps buffers and waits.
package player
