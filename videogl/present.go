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
	"image/color"

	"github.com/jetsetilly/glvideo/curated"
	"github.com/jetsetilly/glvideo/gpu"
	"github.com/jetsetilly/glvideo/videoframe"
)

var (
	borderColour   = color.RGBA{R: 127, A: 255}
	letterboxGray  = color.RGBA{R: 127, G: 127, B: 127, A: 127}
	clearColour    = color.RGBA{}
	borderDistance = 10
)

// UpdateInputFrame copies the frame into the input texture. The frame is
// packed for conversion by the GPU or converted in software if there is no
// conversion stage. If softBob is true, interlaced frames are packed as
// progressive frames.
//
// Frames that do not match the configured dimensions and format are rejected
// and the previous frame remains in the input texture.
func (vid *VideoGL) UpdateInputFrame(frame *videoframe.Frame, softBob bool) error {
	if !vid.initialised || len(vid.inputTextures) == 0 {
		return curated.Errorf(NotInitialised)
	}

	if frame == nil {
		vid.metrics.rejected("nil")
		return curated.Errorf(FrameError, "no frame")
	}

	if err := frame.Check(vid.actualVideoDim.X, vid.actualVideoDim.Y); err != nil {
		switch {
		case curated.Is(err, videoframe.UnsupportedCodec):
			vid.metrics.rejected("codec")
		case curated.Is(err, videoframe.InvalidDimensions):
			vid.metrics.rejected("dimensions")
		default:
			vid.metrics.rejected("layout")
		}
		return curated.Errorf(FrameError, err)
	}

	defer gpu.Lock(vid.ctx)()

	if vid.hardwareDeinterlacing {
		vid.rotateTextures()
	}

	buf := vid.ctx.TextureBuffer(vid.inputTextures[0])
	if buf == nil {
		return curated.Errorf(FrameError, curated.Errorf(ResourceError, "texture", "no buffer for input texture"))
	}

	switch {
	case vid.filters[FilterYUV2RGB] == nil && vid.usingPackedYUV:
		videoframe.ToUYVY(buf, frame)
	case vid.filters[FilterYUV2RGB] == nil:
		videoframe.ToRGBA(buf, frame)
	case frame.Interlaced && !softBob:
		videoframe.PackYV12Interlaced(buf, frame)
	default:
		videoframe.PackYV12(buf, frame)
	}

	if err := vid.ctx.UpdateTexture(vid.inputTextures[0]); err != nil {
		return curated.Errorf(FrameError, err)
	}

	vid.inputUpdated = true
	vid.metrics.uploaded()

	return nil
}

// SetInputUpdated is used when the input texture has been drawn to directly,
// for example by a hardware decoder.
func (vid *VideoGL) SetInputUpdated() {
	vid.inputUpdated = true
}

// InputUpdated returns true if the input texture has changed since the last
// call to PrepareFrame().
func (vid *VideoGL) InputUpdated() bool {
	return vid.inputUpdated
}

// RotateTextures moves the input texture to the front of the reference ring.
// The oldest reference texture becomes the new input texture.
func (vid *VideoGL) RotateTextures() {
	if !vid.initialised {
		return
	}
	vid.rotateTextures()
}

func (vid *VideoGL) rotateTextures() {
	if len(vid.referenceTextures) < 2 || len(vid.inputTextures) == 0 {
		return
	}

	if vid.refsNeeded > 0 {
		vid.refsNeeded--
	}

	last := len(vid.referenceTextures) - 1
	tmp := vid.referenceTextures[last]
	copy(vid.referenceTextures[1:], vid.referenceTextures[:last])
	vid.referenceTextures[0] = vid.inputTextures[0]
	vid.inputTextures[0] = tmp
}

// PrepareFrame draws the input texture through the filter chain. The last
// stage draws to the display surface.
//
// The topFieldFirst and scan arguments select the field drawn by the
// deinterlacing programs. The softwareDeinterlacing argument says whether the
// decoder has deinterlaced the frame. The frame number is recorded for
// CurrentFrame(). A border is drawn around the video if drawBorder is true.
func (vid *VideoGL) PrepareFrame(topFieldFirst bool, scan videoframe.Scan, softwareDeinterlacing bool, frame int64, drawBorder bool) {
	if !vid.initialised || len(vid.inputTextures) == 0 {
		return
	}

	chain := vid.chain()
	if len(chain) == 0 {
		return
	}

	defer gpu.Lock(vid.ctx)()

	// software bob draws one field of a 1088 line frame at half height
	softwarebob := vid.softwareDeinterlacer == softwareBob && softwareDeinterlacing

	inputs := vid.inputTextures
	inputSize := vid.inputTextureSize
	realSize := textureSize(vid.videoDim, vid.textureTarget == gpu.TargetRect)

	for i, t := range chain {
		f := vid.filters[t]
		terminal := f.output == OutputDefault
		actual := softwarebob && terminal

		// source coordinates
		trueHeight := float32(vid.videoDim.Y)
		if actual {
			trueHeight = float32(vid.actualVideoDim.Y)
		}
		trect := gpu.RectF{Right: float32(vid.videoDim.X), Bottom: trueHeight}

		// overscan is only removed by the last stage
		if terminal {
			trect = gpu.RectFromImage(vid.videoRect)
		}

		if vid.textureTarget != gpu.TargetRect && inputSize.Y > 0 {
			trueHeight /= float32(inputSize.Y)
		}

		if actual {
			top := (scan == videoframe.ScanIntr2ndField && topFieldFirst) ||
				(scan == videoframe.ScanInterlaced && !topFieldFirst)
			bot := (scan == videoframe.ScanInterlaced && topFieldFirst) ||
				(scan == videoframe.ScanIntr2ndField && !topFieldFirst)
			first := len(chain) < 2
			bob := (trueHeight / float32(vid.videoDim.Y)) / 4.0

			if (top && !first) || (bot && first) {
				trect.Bottom /= 2
				trect.Top /= 2
				trect = trect.Adjust(0, bob, 0, bob)
			}
			if (bot && !first) || (top && first) {
				trect.Top = (trueHeight / 2) + (trect.Top / 2)
				trect.Bottom = (trueHeight / 2) + (trect.Bottom / 2)
				trect = trect.Adjust(0, -bob, 0, -bob)
			}
		}

		// destination coordinates
		display := vid.frameBufferRect
		visible := vid.frameBufferRect
		if terminal {
			display = vid.displayVideoRect
			visible = vid.displayVisibleRect
		}
		vrect := gpu.RectFromImage(display)

		// the first stage is drawn upside down
		if i == 0 {
			vrect.Top = float32(visible.Dy() - display.Min.Y)
			vrect.Bottom = vrect.Top - float32(display.Dy())
		}

		if terminal && vid.hardwareDeinterlacing && vid.hardwareDeinterlacer == hardwareBob {
			bob := vid.bobOffset(topFieldFirst, scan, display)
			vrect = vrect.Adjust(0, bob, 0, bob)
		}

		vid.ctx.SetBackground(clearColour)

		target := gpu.DefaultSurface
		switch f.output {
		case OutputDefault:
			vid.ctx.BindFramebuffer(gpu.DefaultSurface)
			if vid.viewportControl {
				if vid.letterbox == LetterboxGray25 {
					vid.ctx.SetBackground(letterboxGray)
				}
				vid.ctx.ClearFramebuffer()
				vid.ctx.SetViewPort(vid.displayVisibleRect.Size())
			} else {
				vid.ctx.SetViewPort(vid.masterViewportSize)
			}
		case OutputFrameBuffer:
			if len(f.frameBuffers) == 0 {
				continue
			}
			target = f.frameBuffers[0]
			vid.ctx.BindFramebuffer(target)
			vid.ctx.SetViewPort(vid.frameBufferRect.Size())
		}

		if drawBorder && terminal {
			b := vrect.Adjust(-float32(borderDistance), -float32(borderDistance), float32(borderDistance), float32(borderDistance))
			vid.ctx.DrawRect(image.Rect(int(b.Left), int(b.Top), int(b.Right), int(b.Bottom)), borderColour)
		}

		textures := make([]gpu.Texture, 0, 4)
		textures = append(textures, inputs...)
		if t == FilterYUV2RGB && vid.hardwareDeinterlacing {
			textures = append(textures, vid.referenceTextures...)
		}
		if t == FilterBicubic && vid.helperTexture != 0 {
			textures = append(textures, vid.helperTexture)
		}

		var prog gpu.Program
		if filterTable[t].program && len(f.programs) > 0 {
			prog = f.programs[vid.programVariant(t, f, topFieldFirst, scan)]
		}

		if t == FilterYUV2RGB {
			vid.ctx.SetFragmentParams(prog, vid.colourSpace.Matrix())
		}

		vid.ctx.DrawBitmap(textures, target, trect, vrect, prog)

		inputs = f.frameBufferTextures
		inputSize = realSize
	}

	vid.currentFrameNum = frame
	vid.inputUpdated = false
	vid.metrics.prepared()
}

// programVariant returns the index of the program to use for the stage. the
// deinterlacing programs are only used once the reference ring is full
func (vid *VideoGL) programVariant(t FilterType, f *filter, topFieldFirst bool, scan videoframe.Scan) int {
	if t != FilterYUV2RGB || !vid.hardwareDeinterlacing || len(f.programs) != 3 || vid.refsNeeded > 0 {
		return 0
	}
	switch scan {
	case videoframe.ScanInterlaced:
		if topFieldFirst {
			return 1
		}
		return 2
	case videoframe.ScanIntr2ndField:
		if topFieldFirst {
			return 2
		}
		return 1
	}
	return 0
}

// bobOffset returns the vertical offset of the destination for the bob
// deinterlacer. the offset is half a source line scaled to the display. the
// first field of a top field first frame moves up
func (vid *VideoGL) bobOffset(topFieldFirst bool, scan videoframe.Scan, display image.Rectangle) float32 {
	if vid.videoRect.Dy() == 0 {
		return 0
	}
	bob := (float32(display.Dy()) / float32(vid.videoRect.Dy())) / 2.0
	field := float32(1.0)
	if scan == videoframe.ScanInterlaced {
		field = -1.0
	}
	if topFieldFirst {
		return bob * field
	}
	return bob * -field
}

// InputTexture returns the texture holding the current frame. It is used to
// composite overlays onto the video before PrepareFrame().
func (vid *VideoGL) InputTexture() gpu.Texture {
	if len(vid.inputTextures) == 0 {
		return 0
	}
	return vid.inputTextures[0]
}

// CurrentFrame returns the frame number passed to the most recent call to
// PrepareFrame(). The value is -1 if no frame has been prepared.
func (vid *VideoGL) CurrentFrame() int64 {
	return vid.currentFrameNum
}
