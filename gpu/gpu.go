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

package gpu

import (
	"image"
	"image/color"

	"golang.org/x/image/math/f32"
)

// Texture is a handle to a GPU texture.
type Texture uint32

// FrameBuffer is a handle to an offscreen framebuffer. The zero value is the
// default display surface.
type FrameBuffer uint32

// DefaultSurface is the framebuffer handle for the display surface.
const DefaultSurface FrameBuffer = 0

// Program is a handle to a compiled fragment program.
type Program uint32

// TextureTarget is the coordinate mode of a texture.
type TextureTarget int

// List of valid TextureTarget values.
const (
	// normalised coordinates. texture dimensions are a power of two
	Target2D TextureTarget = iota

	// pixel coordinates. texture dimensions are the same as the image
	TargetRect
)

func (t TextureTarget) String() string {
	switch t {
	case Target2D:
		return "2D"
	case TargetRect:
		return "rect"
	}
	return "unknown target"
}

// TexturePurpose describes the pixel format of a texture's data.
type TexturePurpose int

// List of valid TexturePurpose values.
const (
	// four bytes per pixel
	TextureRGBA TexturePurpose = iota

	// two bytes per pixel in UYVY order. converted to RGB by the GPU when
	// sampled
	TexturePackedYUV

	// four bytes per pixel, rendered into by a hardware decoder. always
	// sampled with linear filtering
	TextureRGBALinear
)

func (p TexturePurpose) String() string {
	switch p {
	case TextureRGBA:
		return "RGBA"
	case TexturePackedYUV:
		return "packed YUV"
	case TextureRGBALinear:
		return "RGBA (hardware)"
	}
	return "unknown purpose"
}

// BytesPerPixel returns the size of a pixel in the texture buffer.
func (p TexturePurpose) BytesPerPixel() int {
	if p == TexturePackedYUV {
		return 2
	}
	return 4
}

// TextureSpec describes a texture to be created.
type TextureSpec struct {
	// the size of the image held by the texture
	Size image.Point

	// the size of the texture. this will be larger than Size if the target
	// requires power of two dimensions
	Actual image.Point

	Target  TextureTarget
	Purpose TexturePurpose

	// use a pixel buffer object for uploads
	PBO bool
}

// RectF is a rectangle with floating point coordinates. Unlike
// image.Rectangle, Top may be greater than Bottom. This is how a vertically
// inverted destination is described.
type RectF struct {
	Left, Top, Right, Bottom float32
}

// RectFromImage converts an image.Rectangle to a RectF.
func RectFromImage(r image.Rectangle) RectF {
	return RectF{
		Left:   float32(r.Min.X),
		Top:    float32(r.Min.Y),
		Right:  float32(r.Max.X),
		Bottom: float32(r.Max.Y),
	}
}

// Width of the rectangle.
func (r RectF) Width() float32 {
	return r.Right - r.Left
}

// Height of the rectangle. The height is negative if the rectangle is
// inverted.
func (r RectF) Height() float32 {
	return r.Bottom - r.Top
}

// Adjust moves each edge of the rectangle by the specified amount.
func (r RectF) Adjust(left, top, right, bottom float32) RectF {
	return RectF{
		Left:   r.Left + left,
		Top:    r.Top + top,
		Right:  r.Right + right,
		Bottom: r.Bottom + bottom,
	}
}

// Context is the interface to the GPU. Creation functions return an error if
// the resource could not be created. Delete functions ignore invalid handles.
type Context interface {
	// MakeCurrent and DoneCurrent are paired. Prefer the Lock() function
	// over calling these directly.
	MakeCurrent()
	DoneCurrent()

	// Features returns the features supported by the context.
	Features() Feature

	// SetFeatures narrows the features used by the context itself. Features
	// not reported by Features() cannot be added.
	SetFeatures(Feature)

	// SetFence inserts a fence into the command stream if fences are
	// supported. The context waits on the fence before swapping.
	SetFence()

	CreateTexture(spec TextureSpec) (Texture, error)
	DeleteTexture(tex Texture)

	// TextureBuffer returns the memory that will be uploaded to the texture
	// by UpdateTexture(). The buffer is sized for the logical size of the
	// texture and the bytes per pixel of the texture purpose.
	TextureBuffer(tex Texture) []byte
	UpdateTexture(tex Texture) error

	// SetTextureFilters chooses between linear and nearest neighbour
	// sampling. Textures are always clamped to the edge.
	SetTextureFilters(tex Texture, linear bool)

	// CreateHelperTexture creates a one dimensional floating point texture
	// with four components per texel. The length of the table must be a
	// multiple of four.
	CreateHelperTexture(table []float32) (Texture, error)

	CreateFrameBuffer(tex Texture) (FrameBuffer, error)
	DeleteFrameBuffer(fbo FrameBuffer)
	BindFramebuffer(fbo FrameBuffer)

	CreateFragmentProgram(source string) (Program, error)
	DeleteFragmentProgram(prog Program)

	// SetFragmentParams sets the colour matrix uniform of the program. The
	// matrix is in row major order.
	SetFragmentParams(prog Program, matrix f32.Mat4)

	SetViewPort(size image.Point)
	SetBackground(col color.RGBA)
	ClearFramebuffer()

	// DrawRect draws a filled rectangle in the current framebuffer.
	DrawRect(area image.Rectangle, fill color.RGBA)

	// DrawBitmap draws the textures to the target framebuffer using the
	// program. The textures are bound to texture units in order. The source
	// rectangle is in pixels of the first texture. A program value of zero
	// uses a simple passthrough program.
	DrawBitmap(textures []Texture, target FrameBuffer, src RectF, dst RectF, prog Program)
}

// Lock makes the context current and returns the function that releases it.
func Lock(ctx Context) func() {
	ctx.MakeCurrent()
	return ctx.DoneCurrent
}
