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

// Package gpu defines the rendering context used by the video pipeline. The
// context is an opaque service that creates and destroys textures,
// framebuffers and fragment programs and that draws textured rectangles.
//
// Implementations of the Context interface are found in the gl32 and headless
// sub-packages. The gl32 package uses a real OpenGL 3.2 core context. The
// headless package records calls and is used for testing and for probing the
// behaviour of the pipeline for a given feature set.
//
// All methods of a Context must be called while the context is current. The
// Lock() function makes the context current and returns the function that
// releases it. Use it with defer:
//
//	defer gpu.Lock(ctx)()
//
// Lock() is re-entrant. The implementation counts the depth and only releases
// the context when the outermost lock is released.
//
// Handles of value zero are never valid. For framebuffers, the zero handle
// refers to the default display surface.
package gpu
