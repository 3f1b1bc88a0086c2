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

package videogl

import (
	"image"
	"slices"

	"github.com/jetsetilly/glvideo/colourspace"
	"github.com/jetsetilly/glvideo/gpu"
)

// Initialised returns true if Init() has succeeded and Teardown() has not been
// called since.
func (vid *VideoGL) Initialised() bool {
	return vid.initialised
}

// Features returns the features used by the session.
func (vid *VideoGL) Features() gpu.Feature {
	return vid.features
}

// DefaultUpsize returns the filter used when the video must be enlarged.
func (vid *VideoGL) DefaultUpsize() FilterType {
	return vid.defaultUpsize
}

// TextureTarget returns the coordinate mode of the video textures.
func (vid *VideoGL) TextureTarget() gpu.TextureTarget {
	return vid.textureTarget
}

// InputTextureSize returns the actual size of the input texture.
func (vid *VideoGL) InputTextureSize() image.Point {
	return vid.inputTextureSize
}

// VideoDim returns the displayed size of the video and the size of the
// decoded frames.
func (vid *VideoGL) VideoDim() (display image.Point, actual image.Point) {
	return vid.videoDim, vid.actualVideoDim
}

// ViewportSize returns the size of the viewport requested by SetViewPort().
func (vid *VideoGL) ViewportSize() image.Point {
	return vid.viewportSize
}

// UsingPackedYUV returns true if frames are uploaded as packed YUV.
func (vid *VideoGL) UsingPackedYUV() bool {
	return vid.usingPackedYUV
}

// UsingHardwareTextures returns true if a hardware decoder renders into the
// input texture.
func (vid *VideoGL) UsingHardwareTextures() bool {
	return vid.hardwareAccel
}

// ReferenceTextures returns a copy of the reference ring. The most recent
// frame is first.
func (vid *VideoGL) ReferenceTextures() []gpu.Texture {
	return slices.Clone(vid.referenceTextures)
}

// RefsNeeded returns the number of frames that must be uploaded before the
// deinterlacing programs are used.
func (vid *VideoGL) RefsNeeded() int {
	return vid.refsNeeded
}

// HardwareDeinterlacer returns the name of the active deinterlacer and
// whether deinterlacing is on.
func (vid *VideoGL) HardwareDeinterlacer() (string, bool) {
	return vid.hardwareDeinterlacer, vid.hardwareDeinterlacing
}

// SoftwareDeinterlacer returns the name given to SetSoftwareDeinterlacer().
func (vid *VideoGL) SoftwareDeinterlacer() string {
	return vid.softwareDeinterlacer
}

// HelperTexture returns the texture used by the bicubic stage.
func (vid *VideoGL) HelperTexture() gpu.Texture {
	return vid.helperTexture
}

// ColourSpace returns the picture attributes used by the conversion stage.
func (vid *VideoGL) ColourSpace() *colourspace.ColourSpace {
	return vid.colourSpace
}

// LiveResources returns the number of GPU handles owned by the instance.
func (vid *VideoGL) LiveResources() int {
	return vid.pool.live()
}
