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


package gl32

import (
	"image"

	"github.com/go-gl/gl/v3.2-core/gl"
	"github.com/jetsetilly/glvideo/curated"
	"github.com/jetsetilly/glvideo/gpu"
)

type texture struct {
	id     uint32
	target uint32
	spec   gpu.TextureSpec
	helper bool

	// memory returned by TextureBuffer()
	buffer []byte

	// pixel buffer object. zero if uploads are direct
	pbo uint32

	// half width texture that packed YUV data is uploaded to before being
	// unpacked into the texture proper
	staging uint32
}

func glTarget(t gpu.TextureTarget) uint32 {
	if t == gpu.TargetRect {
		return gl.TEXTURE_RECTANGLE
	}
	return gl.TEXTURE_2D
}

func allocate(target uint32, size [2]int32) uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(target, id)
	gl.TexImage2D(target, 0, gl.RGBA8, size[0], size[1], 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(target, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(target, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(target, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(target, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	return id
}

// CreateTexture implements the gpu.Context interface.
func (ctx *Context) CreateTexture(spec gpu.TextureSpec) (gpu.Texture, error) {
	if spec.Size.X < 1 || spec.Size.Y < 1 {
		return 0, curated.Errorf(TextureError, curated.Errorf("invalid size (%v)", spec.Size))
	}
	if spec.Purpose == gpu.TexturePackedYUV && spec.Size.X%2 != 0 {
		return 0, curated.Errorf(TextureError, curated.Errorf("packed YUV texture must have an even width (%d)", spec.Size.X))
	}
	if spec.Actual.X < spec.Size.X || spec.Actual.Y < spec.Size.Y {
		spec.Actual = spec.Size
	}

	t := &texture{
		target: glTarget(spec.Target),
		spec:   spec,
		buffer: make([]byte, spec.Size.X*spec.Size.Y*spec.Purpose.BytesPerPixel()),
	}

	t.id = allocate(t.target, [2]int32{int32(spec.Actual.X), int32(spec.Actual.Y)})

	if spec.Purpose == gpu.TexturePackedYUV {
		// two pixels of UYVY data fit into one RGBA texel
		t.staging = allocate(gl.TEXTURE_2D, [2]int32{int32(spec.Size.X / 2), int32(spec.Size.Y)})
	}

	if spec.PBO && ctx.features.Has(gpu.FeaturePixelBufferObject) {
		gl.GenBuffers(1, &t.pbo)
		gl.BindBuffer(gl.PIXEL_UNPACK_BUFFER, t.pbo)
		gl.BufferData(gl.PIXEL_UNPACK_BUFFER, len(t.buffer), nil, gl.STREAM_DRAW)
		gl.BindBuffer(gl.PIXEL_UNPACK_BUFFER, 0)
	}

	if err := glError(); err != nil {
		ctx.release(t)
		return 0, curated.Errorf(TextureError, err)
	}

	tex := gpu.Texture(t.id)
	ctx.textures[tex] = t
	return tex, nil
}

func (ctx *Context) release(t *texture) {
	if t.pbo != 0 {
		gl.DeleteBuffers(1, &t.pbo)
	}
	if t.staging != 0 {
		gl.DeleteTextures(1, &t.staging)
	}
	gl.DeleteTextures(1, &t.id)
}

// DeleteTexture implements the gpu.Context interface.
func (ctx *Context) DeleteTexture(tex gpu.Texture) {
	ctx.deleteTexture(tex)
}

func (ctx *Context) deleteTexture(tex gpu.Texture) {
	t, ok := ctx.textures[tex]
	if !ok {
		return
	}
	ctx.release(t)
	delete(ctx.textures, tex)
}

// TextureBuffer implements the gpu.Context interface.
func (ctx *Context) TextureBuffer(tex gpu.Texture) []byte {
	t, ok := ctx.textures[tex]
	if !ok || t.helper {
		return nil
	}
	return t.buffer
}

// UpdateTexture implements the gpu.Context interface.
func (ctx *Context) UpdateTexture(tex gpu.Texture) error {
	t, ok := ctx.textures[tex]
	if !ok || t.helper {
		return curated.Errorf(TextureError, curated.Errorf("invalid handle (%d)", tex))
	}

	target := t.target
	id := t.id
	w := int32(t.spec.Size.X)
	h := int32(t.spec.Size.Y)
	if t.staging != 0 {
		target = gl.TEXTURE_2D
		id = t.staging
		w /= 2
	}

	gl.BindTexture(target, id)
	if t.pbo != 0 {
		gl.BindBuffer(gl.PIXEL_UNPACK_BUFFER, t.pbo)

		// orphan the previous contents so the upload does not wait for the
		// GPU to finish with them
		gl.BufferData(gl.PIXEL_UNPACK_BUFFER, len(t.buffer), nil, gl.STREAM_DRAW)
		gl.BufferSubData(gl.PIXEL_UNPACK_BUFFER, 0, len(t.buffer), gl.Ptr(t.buffer))
		gl.TexSubImage2D(target, 0, 0, 0, w, h, gl.RGBA, gl.UNSIGNED_BYTE, gl.PtrOffset(0))
		gl.BindBuffer(gl.PIXEL_UNPACK_BUFFER, 0)
	} else {
		gl.TexSubImage2D(target, 0, 0, 0, w, h, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(t.buffer))
	}

	if t.staging != 0 {
		ctx.unpackTexture(t)
	}

	if err := glError(); err != nil {
		return curated.Errorf(TextureError, err)
	}
	return nil
}

// unpackTexture converts the staging texture of a packed YUV texture into
// RGB. The state of the context is restored afterwards.
func (ctx *Context) unpackTexture(t *texture) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, ctx.unpackFBO)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, t.target, t.id, 0)
	gl.Viewport(0, 0, int32(t.spec.Size.X), int32(t.spec.Size.Y))

	gl.UseProgram(ctx.unpack.id)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, t.staging)
	gl.Uniform1i(ctx.unpack.samplers[0], 0)

	// the unpack program works in fragment coordinates so the quad only
	// needs to cover the viewport
	ctx.drawQuad(ctx.unpack, [2]float32{1, 1}, gpu.RectF{Right: 1, Bottom: 1}, gpu.RectF{Right: 1, Bottom: 1})

	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, t.target, 0, 0)
	ctx.bindFramebuffer(ctx.bound)
	gl.Viewport(0, 0, int32(ctx.viewport.X), int32(ctx.viewport.Y))
}

// SetTextureFilters implements the gpu.Context interface.
func (ctx *Context) SetTextureFilters(tex gpu.Texture, linear bool) {
	t, ok := ctx.textures[tex]
	if !ok {
		return
	}

	// textures written by a hardware decoder are always sampled linearly
	if t.spec.Purpose == gpu.TextureRGBALinear {
		linear = true
	}

	var filter int32 = gl.NEAREST
	if linear {
		filter = gl.LINEAR
	}
	gl.BindTexture(t.target, t.id)
	gl.TexParameteri(t.target, gl.TEXTURE_MIN_FILTER, filter)
	gl.TexParameteri(t.target, gl.TEXTURE_MAG_FILTER, filter)
}

// CreateHelperTexture implements the gpu.Context interface.
func (ctx *Context) CreateHelperTexture(table []float32) (gpu.Texture, error) {
	if len(table) == 0 || len(table)%4 != 0 {
		return 0, curated.Errorf(TextureError, curated.Errorf("table length must be a multiple of four (%d)", len(table)))
	}

	t := &texture{
		target: gl.TEXTURE_1D,
		helper: true,
		spec: gpu.TextureSpec{
			Size:   image.Pt(len(table)/4, 1),
			Actual: image.Pt(len(table)/4, 1),
		},
	}

	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_1D, t.id)
	gl.TexImage1D(gl.TEXTURE_1D, 0, gl.RGBA32F, int32(len(table)/4), 0, gl.RGBA, gl.FLOAT, gl.Ptr(table))
	gl.TexParameteri(gl.TEXTURE_1D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_1D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_1D, gl.TEXTURE_WRAP_S, gl.REPEAT)

	if err := glError(); err != nil {
		gl.DeleteTextures(1, &t.id)
		return 0, curated.Errorf(TextureError, err)
	}

	tex := gpu.Texture(t.id)
	ctx.textures[tex] = t
	return tex, nil
}
