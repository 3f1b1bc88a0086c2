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

// Package headless implements gpu.Context without a GPU. Every call is
// recorded so that the behaviour of the video pipeline can be inspected.
//
// Creation of textures, framebuffers and programs can be made to fail with
// SetFault(). Live resources are tracked and can be queried with Live(),
// which is how tests prove that nothing has leaked.
//
// The context checks that every call is made while the context is current
// and from the goroutine that made it current. Failures of these checks are
// recorded and returned by Violations().
package headless
