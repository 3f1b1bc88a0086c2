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


// Package videogl draws decoded video frames to a gpu.Context.
//
// A VideoGL instance holds a chain of filter stages. The first stage samples
// the input texture and each subsequent stage samples the framebuffers of the
// stage before it. The last stage draws to the display surface. The stages
// are, in order:
//
//	master   YUV to RGB conversion, with optional deinterlacing
//	resize   linear scaling
//	bicubic  bicubic upscaling
//
// The chain is decided by Init() from the features of the context and the
// exclusions in the options string. See ParseOptions() for the list of
// exclusions. It is adjusted by CheckResize() whenever the deinterlacing
// state changes.
//
// Frames are given to the instance with UpdateInputFrame() and drawn with
// PrepareFrame(). Hardware deinterlacing is added with AddDeinterlacer() and
// switched on and off with SetDeinterlacing(). The deinterlacers that use
// previous frames keep a ring of reference textures that is rotated on every
// call to UpdateInputFrame() while deinterlacing is on.
//
// Every GPU resource is owned by the instance and released by Teardown().
// All functions make the context current for their duration.
package videogl
