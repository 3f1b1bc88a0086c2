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
	"fmt"
	"image"
	"image/color"
	"runtime"

	"github.com/go-gl/gl/v3.2-core/gl"
	"github.com/jetsetilly/glvideo/assert"
	"github.com/jetsetilly/glvideo/curated"
	"github.com/jetsetilly/glvideo/gpu"
	"github.com/jetsetilly/glvideo/logger"
	"github.com/veandco/go-sdl2/sdl"
)

const logTag = "gl32"

// Error patterns returned by the context.
const (
	ContextError  = "gl32: context: %v"
	TextureError  = "gl32: texture: %v"
	FrameBufError = "gl32: framebuffer: %v"
	ProgramError  = "gl32: program: %v"
)

// how long to wait on a fence before swapping, in nanoseconds
const fenceTimeout = 100 * 1000 * 1000

// Context implements the gpu.Context interface.
type Context struct {
	window    *sdl.Window
	glContext sdl.GLContext

	features gpu.Feature
	narrowed gpu.Feature

	owner assert.Owner
	depth int

	textures     map[gpu.Texture]*texture
	frameBuffers map[gpu.FrameBuffer]gpu.Texture
	programs     map[gpu.Program]*program

	// programs used by the context itself
	passthrough     *program
	passthroughRect *program
	unpack          *program

	// vertex array and buffer for the single quad drawn by DrawBitmap()
	vao uint32
	vbo uint32

	// framebuffer used when unpacking packed YUV textures
	unpackFBO uint32

	bound      gpu.FrameBuffer
	viewport   image.Point
	background color.RGBA

	fence uintptr
}

// NewContext creates an OpenGL 3.2 core context for the window. The window
// must have been created with the sdl.WINDOW_OPENGL flag and NewContext()
// must be called from the main thread.
func NewContext(window *sdl.Window) (*Context, error) {
	_ = sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 3)
	_ = sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 2)
	_ = sdl.GLSetAttribute(sdl.GL_CONTEXT_FLAGS, sdl.GL_CONTEXT_FORWARD_COMPATIBLE_FLAG)
	_ = sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	_ = sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)

	glContext, err := window.GLCreateContext()
	if err != nil {
		return nil, curated.Errorf(ContextError, err)
	}

	ctx := &Context{
		window:       window,
		glContext:    glContext,
		textures:     make(map[gpu.Texture]*texture),
		frameBuffers: make(map[gpu.FrameBuffer]gpu.Texture),
		programs:     make(map[gpu.Program]*program),
	}

	ctx.MakeCurrent()

	err = gl.Init()
	if err != nil {
		ctx.DoneCurrent()
		sdl.GLDeleteContext(glContext)
		return nil, curated.Errorf(ContextError, err)
	}

	logger.Logf(logger.Allow, logTag, "vendor: %s", gl.GoStr(gl.GetString(gl.VENDOR)))
	logger.Logf(logger.Allow, logTag, "renderer: %s", gl.GoStr(gl.GetString(gl.RENDERER)))
	logger.Logf(logger.Allow, logTag, "driver: %s", gl.GoStr(gl.GetString(gl.VERSION)))
	logger.Logf(logger.Allow, logTag, "glsl: %s", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION)))

	// the core profile guarantees everything except control of the swap
	// interval
	ctx.features = gpu.FeatureFence | gpu.FeaturePixelBufferObject |
		gpu.FeatureFrameBufferObject | gpu.FeatureFragmentProgram |
		gpu.FeatureRectTexture | gpu.FeaturePackedYUV
	if sdl.GLSetSwapInterval(1) == nil {
		ctx.features |= gpu.FeatureSwapControl
	}
	ctx.narrowed = ctx.features
	logger.Logf(logger.Allow, logTag, "features: %s", ctx.features)

	err = ctx.setup()
	if err != nil {
		ctx.destroy()
		ctx.DoneCurrent()
		return nil, err
	}

	ctx.DoneCurrent()
	return ctx, nil
}

// setup creates the objects used by the context itself.
func (ctx *Context) setup() error {
	gl.GenVertexArrays(1, &ctx.vao)
	gl.BindVertexArray(ctx.vao)
	gl.GenBuffers(1, &ctx.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, ctx.vbo)
	gl.EnableVertexAttribArray(attribPosition)
	gl.EnableVertexAttribArray(attribTexCoord)
	gl.VertexAttribPointerWithOffset(attribPosition, 2, gl.FLOAT, false, vertexStride, 0)
	gl.VertexAttribPointerWithOffset(attribTexCoord, 2, gl.FLOAT, false, vertexStride, 2*4)

	gl.GenFramebuffers(1, &ctx.unpackFBO)

	w, h := ctx.window.GLGetDrawableSize()
	ctx.SetViewPort(image.Pt(int(w), int(h)))

	var err error

	ctx.passthrough, err = compileProgram(passthroughSource("sampler2D"))
	if err != nil {
		return err
	}
	ctx.passthroughRect, err = compileProgram(passthroughSource("sampler2DRect"))
	if err != nil {
		return err
	}
	ctx.unpack, err = compileProgram(unpackSource)
	if err != nil {
		return err
	}

	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.BLEND)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)

	return nil
}

// Destroy releases every resource created by the context and then deletes
// the context itself.
func (ctx *Context) Destroy() {
	defer gpu.Lock(ctx)()
	ctx.destroy()
}

func (ctx *Context) destroy() {
	for tex := range ctx.textures {
		ctx.deleteTexture(tex)
	}
	for fbo := range ctx.frameBuffers {
		ctx.deleteFrameBuffer(fbo)
	}
	for p := range ctx.programs {
		ctx.programs[p].destroy()
		delete(ctx.programs, p)
	}
	for _, p := range []*program{ctx.passthrough, ctx.passthroughRect, ctx.unpack} {
		if p != nil {
			p.destroy()
		}
	}
	if ctx.fence != 0 {
		gl.DeleteSync(ctx.fence)
		ctx.fence = 0
	}
	gl.DeleteFramebuffers(1, &ctx.unpackFBO)
	gl.DeleteBuffers(1, &ctx.vbo)
	gl.DeleteVertexArrays(1, &ctx.vao)
	sdl.GLDeleteContext(ctx.glContext)
}

// MakeCurrent implements the gpu.Context interface.
func (ctx *Context) MakeCurrent() {
	if !ctx.owner.Claim() {
		logger.Log(logger.Allow, logTag, "MakeCurrent: context is current on another goroutine")
		return
	}
	ctx.depth++
	if ctx.depth == 1 {
		// an OpenGL context belongs to a thread, not a goroutine
		runtime.LockOSThread()
		if err := ctx.window.GLMakeCurrent(ctx.glContext); err != nil {
			logger.Log(logger.Allow, logTag, err)
		}
	}
}

// DoneCurrent implements the gpu.Context interface.
func (ctx *Context) DoneCurrent() {
	if ctx.depth == 0 || !ctx.owner.IsOwner() {
		logger.Log(logger.Allow, logTag, "DoneCurrent: context is not current")
		return
	}
	ctx.depth--
	if ctx.depth == 0 {
		runtime.UnlockOSThread()
		ctx.owner.Release()
	}
}

// Features implements the gpu.Context interface.
func (ctx *Context) Features() gpu.Feature {
	return ctx.features
}

// SetFeatures implements the gpu.Context interface.
func (ctx *Context) SetFeatures(f gpu.Feature) {
	ctx.narrowed = f & ctx.features
	if ctx.features.Has(gpu.FeatureSwapControl) {
		interval := 0
		if ctx.narrowed.Has(gpu.FeatureSwapControl) {
			interval = 1
		}
		if err := sdl.GLSetSwapInterval(interval); err != nil {
			logger.Log(logger.Allow, logTag, err)
		}
	}
}

// SetFence implements the gpu.Context interface.
func (ctx *Context) SetFence() {
	if !ctx.narrowed.Has(gpu.FeatureFence) {
		return
	}
	if ctx.fence != 0 {
		gl.DeleteSync(ctx.fence)
	}
	ctx.fence = gl.FenceSync(gl.SYNC_GPU_COMMANDS_COMPLETE, 0)
}

// Swap waits for any outstanding fence and then presents the default
// surface.
func (ctx *Context) Swap() {
	defer gpu.Lock(ctx)()
	if ctx.fence != 0 {
		if gl.ClientWaitSync(ctx.fence, gl.SYNC_FLUSH_COMMANDS_BIT, fenceTimeout) == gl.TIMEOUT_EXPIRED {
			logger.Log(logger.Allow, logTag, "fence timeout")
		}
		gl.DeleteSync(ctx.fence)
		ctx.fence = 0
	}
	ctx.window.GLSwap()
}

// SetViewPort implements the gpu.Context interface.
func (ctx *Context) SetViewPort(size image.Point) {
	ctx.viewport = size
	gl.Viewport(0, 0, int32(size.X), int32(size.Y))
}

// SetBackground implements the gpu.Context interface.
func (ctx *Context) SetBackground(col color.RGBA) {
	ctx.background = col
	r, g, b, a := normalise(col)
	gl.ClearColor(r, g, b, a)
}

// ClearFramebuffer implements the gpu.Context interface.
func (ctx *Context) ClearFramebuffer() {
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// DrawRect implements the gpu.Context interface.
func (ctx *Context) DrawRect(area image.Rectangle, fill color.RGBA) {
	area = area.Canon()

	gl.Enable(gl.SCISSOR_TEST)
	gl.Scissor(int32(area.Min.X), int32(area.Min.Y), int32(area.Dx()), int32(area.Dy()))
	r, g, b, a := normalise(fill)
	gl.ClearColor(r, g, b, a)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.Disable(gl.SCISSOR_TEST)

	r, g, b, a = normalise(ctx.background)
	gl.ClearColor(r, g, b, a)
}

func normalise(col color.RGBA) (float32, float32, float32, float32) {
	return float32(col.R) / 255, float32(col.G) / 255, float32(col.B) / 255, float32(col.A) / 255
}

// glError returns the most recent OpenGL error as a Go error or nil if there
// is no error.
func glError() error {
	if e := gl.GetError(); e != gl.NO_ERROR {
		return fmt.Errorf("error code %#04x", e)
	}
	return nil
}
