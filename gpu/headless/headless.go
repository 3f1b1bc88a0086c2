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

package headless

import (
	"fmt"
	"image"
	"image/color"
	"slices"

	"github.com/jetsetilly/glvideo/assert"
	"github.com/jetsetilly/glvideo/curated"
	"github.com/jetsetilly/glvideo/gpu"
	"github.com/jetsetilly/glvideo/logger"
	"golang.org/x/image/math/f32"
)

// Resource identifies a class of GPU resource.
type Resource int

// List of valid Resource values.
const (
	ResTexture Resource = iota
	ResFrameBuffer
	ResProgram
	ResHelper
	numResources
)

func (r Resource) String() string {
	switch r {
	case ResTexture:
		return "texture"
	case ResFrameBuffer:
		return "framebuffer"
	case ResProgram:
		return "program"
	case ResHelper:
		return "helper texture"
	}
	return "unknown resource"
}

// Error patterns returned by creation functions.
const (
	FaultInjected = "headless: %s: fault injected"
	InvalidHandle = "headless: %s: invalid handle (%d)"
)

type texture struct {
	spec   gpu.TextureSpec
	helper bool
	linear bool
	buffer []byte
	data   []byte
}

// Draw records a call to DrawBitmap().
type Draw struct {
	Textures []gpu.Texture
	Target   gpu.FrameBuffer
	Src      gpu.RectF
	Dst      gpu.RectF
	Program  gpu.Program

	// state of the context at the time of the draw
	Viewport   image.Point
	Background color.RGBA
	Matrix     f32.Mat4
}

// Rect records a call to DrawRect().
type Rect struct {
	Target gpu.FrameBuffer
	Area   image.Rectangle
	Fill   color.RGBA
}

// Context implements the gpu.Context interface.
type Context struct {
	features gpu.Feature
	narrowed gpu.Feature

	owner assert.Owner
	depth int

	violations []string

	// handles are allocated from a single counter so that a handle is never
	// reused
	nextHandle uint32

	textures     map[gpu.Texture]*texture
	frameBuffers map[gpu.FrameBuffer]gpu.Texture
	programs     map[gpu.Program]string
	matrices     map[gpu.Program]f32.Mat4

	// fault injection. a negative value means never fail. a value of zero
	// means fail the next creation. positive values are decremented on each
	// successful creation
	faults [numResources]int

	bound      gpu.FrameBuffer
	viewport   image.Point
	background color.RGBA
	fences     int
	clears     int

	draws []Draw
	rects []Rect
}

// NewContext is the preferred method of initialisation for the Context type.
// The context reports the specified features.
func NewContext(features gpu.Feature) *Context {
	ctx := &Context{
		features:     features,
		narrowed:     features,
		textures:     make(map[gpu.Texture]*texture),
		frameBuffers: make(map[gpu.FrameBuffer]gpu.Texture),
		programs:     make(map[gpu.Program]string),
		matrices:     make(map[gpu.Program]f32.Mat4),
	}
	for i := range ctx.faults {
		ctx.faults[i] = -1
	}
	return ctx
}

func (ctx *Context) violation(format string, args ...any) {
	v := fmt.Sprintf(format, args...)
	ctx.violations = append(ctx.violations, v)
	logger.Log(logger.Allow, "headless", v)
}

// check is called at the start of every context function.
func (ctx *Context) check(fn string) {
	if ctx.depth == 0 {
		ctx.violation("%s: context is not current", fn)
		return
	}
	if !ctx.owner.IsOwner() {
		ctx.violation("%s: called from goroutine that does not own the context", fn)
	}
}

func (ctx *Context) handle() uint32 {
	ctx.nextHandle++
	return ctx.nextHandle
}

// fault returns true if creation of the resource should fail.
func (ctx *Context) fault(r Resource) bool {
	switch {
	case ctx.faults[r] == 0:
		ctx.faults[r] = -1
		return true
	case ctx.faults[r] > 0:
		ctx.faults[r]--
	}
	return false
}

// SetFault causes creation of the resource to fail after the specified
// number of successful creations. A negative value cancels the fault.
func (ctx *Context) SetFault(r Resource, after int) {
	ctx.faults[r] = after
}

// MakeCurrent implements the gpu.Context interface.
func (ctx *Context) MakeCurrent() {
	if !ctx.owner.Claim() {
		ctx.violation("MakeCurrent: context is current on another goroutine")
		return
	}
	ctx.depth++
}

// DoneCurrent implements the gpu.Context interface.
func (ctx *Context) DoneCurrent() {
	if ctx.depth == 0 {
		ctx.violation("DoneCurrent: context is not current")
		return
	}
	if !ctx.owner.IsOwner() {
		ctx.violation("DoneCurrent: called from goroutine that does not own the context")
		return
	}
	ctx.depth--
	if ctx.depth == 0 {
		ctx.owner.Release()
	}
}

// Features implements the gpu.Context interface.
func (ctx *Context) Features() gpu.Feature {
	return ctx.features
}

// SetFeatures implements the gpu.Context interface.
func (ctx *Context) SetFeatures(f gpu.Feature) {
	ctx.check("SetFeatures")
	ctx.narrowed = f & ctx.features
}

// SetFence implements the gpu.Context interface.
func (ctx *Context) SetFence() {
	ctx.check("SetFence")
	if ctx.narrowed.Has(gpu.FeatureFence) {
		ctx.fences++
	}
}

// CreateTexture implements the gpu.Context interface.
func (ctx *Context) CreateTexture(spec gpu.TextureSpec) (gpu.Texture, error) {
	ctx.check("CreateTexture")
	if spec.Size.X < 1 || spec.Size.Y < 1 {
		return 0, curated.Errorf("headless: texture: invalid size (%v)", spec.Size)
	}
	if ctx.fault(ResTexture) {
		return 0, curated.Errorf(FaultInjected, ResTexture)
	}
	tex := gpu.Texture(ctx.handle())
	ctx.textures[tex] = &texture{
		spec:   spec,
		linear: true,
		buffer: make([]byte, spec.Size.X*spec.Size.Y*spec.Purpose.BytesPerPixel()),
	}
	return tex, nil
}

// DeleteTexture implements the gpu.Context interface.
func (ctx *Context) DeleteTexture(tex gpu.Texture) {
	ctx.check("DeleteTexture")
	if _, ok := ctx.textures[tex]; !ok {
		ctx.violation("DeleteTexture: unknown texture (%d)", tex)
		return
	}
	delete(ctx.textures, tex)
}

// TextureBuffer implements the gpu.Context interface.
func (ctx *Context) TextureBuffer(tex gpu.Texture) []byte {
	ctx.check("TextureBuffer")
	t, ok := ctx.textures[tex]
	if !ok || t.helper {
		return nil
	}
	return t.buffer
}

// UpdateTexture implements the gpu.Context interface.
func (ctx *Context) UpdateTexture(tex gpu.Texture) error {
	ctx.check("UpdateTexture")
	t, ok := ctx.textures[tex]
	if !ok || t.helper {
		return curated.Errorf(InvalidHandle, ResTexture, tex)
	}
	t.data = slices.Clone(t.buffer)
	return nil
}

// SetTextureFilters implements the gpu.Context interface.
func (ctx *Context) SetTextureFilters(tex gpu.Texture, linear bool) {
	ctx.check("SetTextureFilters")
	if t, ok := ctx.textures[tex]; ok {
		t.linear = linear
	}
}

// CreateHelperTexture implements the gpu.Context interface.
func (ctx *Context) CreateHelperTexture(table []float32) (gpu.Texture, error) {
	ctx.check("CreateHelperTexture")
	if len(table) == 0 || len(table)%4 != 0 {
		return 0, curated.Errorf("headless: helper texture: table length must be a multiple of four (%d)", len(table))
	}
	if ctx.fault(ResHelper) {
		return 0, curated.Errorf(FaultInjected, ResHelper)
	}
	tex := gpu.Texture(ctx.handle())
	ctx.textures[tex] = &texture{
		spec: gpu.TextureSpec{
			Size:   image.Pt(len(table)/4, 1),
			Actual: image.Pt(len(table)/4, 1),
		},
		helper: true,
		linear: true,
	}
	return tex, nil
}

// CreateFrameBuffer implements the gpu.Context interface.
func (ctx *Context) CreateFrameBuffer(tex gpu.Texture) (gpu.FrameBuffer, error) {
	ctx.check("CreateFrameBuffer")
	if !ctx.features.Has(gpu.FeatureFrameBufferObject) {
		return 0, curated.Errorf("headless: framebuffer: not supported")
	}
	if _, ok := ctx.textures[tex]; !ok {
		return 0, curated.Errorf(InvalidHandle, ResTexture, tex)
	}
	if ctx.fault(ResFrameBuffer) {
		return 0, curated.Errorf(FaultInjected, ResFrameBuffer)
	}
	fbo := gpu.FrameBuffer(ctx.handle())
	ctx.frameBuffers[fbo] = tex
	return fbo, nil
}

// DeleteFrameBuffer implements the gpu.Context interface.
func (ctx *Context) DeleteFrameBuffer(fbo gpu.FrameBuffer) {
	ctx.check("DeleteFrameBuffer")
	if _, ok := ctx.frameBuffers[fbo]; !ok {
		ctx.violation("DeleteFrameBuffer: unknown framebuffer (%d)", fbo)
		return
	}
	delete(ctx.frameBuffers, fbo)
	if ctx.bound == fbo {
		ctx.bound = gpu.DefaultSurface
	}
}

// BindFramebuffer implements the gpu.Context interface.
func (ctx *Context) BindFramebuffer(fbo gpu.FrameBuffer) {
	ctx.check("BindFramebuffer")
	if fbo != gpu.DefaultSurface {
		if _, ok := ctx.frameBuffers[fbo]; !ok {
			ctx.violation("BindFramebuffer: unknown framebuffer (%d)", fbo)
			return
		}
	}
	ctx.bound = fbo
}

// CreateFragmentProgram implements the gpu.Context interface.
func (ctx *Context) CreateFragmentProgram(source string) (gpu.Program, error) {
	ctx.check("CreateFragmentProgram")
	if !ctx.features.Has(gpu.FeatureFragmentProgram) {
		return 0, curated.Errorf("headless: program: not supported")
	}
	if source == "" {
		return 0, curated.Errorf("headless: program: empty source")
	}
	if ctx.fault(ResProgram) {
		return 0, curated.Errorf(FaultInjected, ResProgram)
	}
	prog := gpu.Program(ctx.handle())
	ctx.programs[prog] = source
	return prog, nil
}

// DeleteFragmentProgram implements the gpu.Context interface.
func (ctx *Context) DeleteFragmentProgram(prog gpu.Program) {
	ctx.check("DeleteFragmentProgram")
	if _, ok := ctx.programs[prog]; !ok {
		ctx.violation("DeleteFragmentProgram: unknown program (%d)", prog)
		return
	}
	delete(ctx.programs, prog)
	delete(ctx.matrices, prog)
}

// SetFragmentParams implements the gpu.Context interface.
func (ctx *Context) SetFragmentParams(prog gpu.Program, matrix f32.Mat4) {
	ctx.check("SetFragmentParams")
	if _, ok := ctx.programs[prog]; !ok {
		ctx.violation("SetFragmentParams: unknown program (%d)", prog)
		return
	}
	ctx.matrices[prog] = matrix
}

// SetViewPort implements the gpu.Context interface.
func (ctx *Context) SetViewPort(size image.Point) {
	ctx.check("SetViewPort")
	ctx.viewport = size
}

// SetBackground implements the gpu.Context interface.
func (ctx *Context) SetBackground(col color.RGBA) {
	ctx.check("SetBackground")
	ctx.background = col
}

// ClearFramebuffer implements the gpu.Context interface.
func (ctx *Context) ClearFramebuffer() {
	ctx.check("ClearFramebuffer")
	ctx.clears++
}

// DrawRect implements the gpu.Context interface.
func (ctx *Context) DrawRect(area image.Rectangle, fill color.RGBA) {
	ctx.check("DrawRect")
	ctx.rects = append(ctx.rects, Rect{
		Target: ctx.bound,
		Area:   area,
		Fill:   fill,
	})
}

// DrawBitmap implements the gpu.Context interface.
func (ctx *Context) DrawBitmap(textures []gpu.Texture, target gpu.FrameBuffer, src gpu.RectF, dst gpu.RectF, prog gpu.Program) {
	ctx.check("DrawBitmap")

	for _, tex := range textures {
		if _, ok := ctx.textures[tex]; !ok {
			ctx.violation("DrawBitmap: unknown texture (%d)", tex)
		}
	}
	if target != ctx.bound {
		ctx.violation("DrawBitmap: target (%d) is not the bound framebuffer (%d)", target, ctx.bound)
	}
	if prog != 0 {
		if _, ok := ctx.programs[prog]; !ok {
			ctx.violation("DrawBitmap: unknown program (%d)", prog)
		}
	}

	// a framebuffer cannot be sampled while it is being drawn to
	if target != gpu.DefaultSurface {
		if slices.Contains(textures, ctx.frameBuffers[target]) {
			ctx.violation("DrawBitmap: framebuffer (%d) texture is also a source", target)
		}
	}

	ctx.draws = append(ctx.draws, Draw{
		Textures:   slices.Clone(textures),
		Target:     target,
		Src:        src,
		Dst:        dst,
		Program:    prog,
		Viewport:   ctx.viewport,
		Background: ctx.background,
		Matrix:     ctx.matrices[prog],
	})
}
