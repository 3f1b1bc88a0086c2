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
	"strings"

	"github.com/go-gl/gl/v3.2-core/gl"
	"github.com/jetsetilly/glvideo/curated"
	"github.com/jetsetilly/glvideo/gpu"
	"golang.org/x/image/math/f32"
)

// vertex attribute locations. bound before the program is linked
const (
	attribPosition = 0
	attribTexCoord = 1
)

// two floats for position and two floats for the texture coordinate
const vertexStride = 4 * 4

// maximum number of textures bound to a program
const maxTextures = 4

// positions are in pixels with the origin at the bottom left of the viewport.
// this is why the first stage of a filter chain is drawn with an inverted
// destination rectangle
const vertexSource = `#version 150
in vec2 Position;
in vec2 VertTexCoord;
out vec2 TexCoord;
uniform vec2 Viewport;
void main() {
	TexCoord = VertTexCoord;
	gl_Position = vec4(Position.x / Viewport.x * 2.0 - 1.0, Position.y / Viewport.y * 2.0 - 1.0, 0.0, 1.0);
}
`

func passthroughSource(sampler string) string {
	return fmt.Sprintf(`#version 150
in vec2 TexCoord;
out vec4 FragColor;
uniform %s Texture0;
void main() {
	FragColor = texture(Texture0, TexCoord);
}
`, sampler)
}

// each texel of the source holds two pixels in UYVY order. the conversion is
// BT.601 with studio levels
const unpackSource = `#version 150
in vec2 TexCoord;
out vec4 FragColor;
uniform sampler2D Texture0;
void main() {
	ivec2 p = ivec2(gl_FragCoord.xy);
	vec4 uyvy = texelFetch(Texture0, ivec2(p.x / 2, p.y), 0);
	float y = 1.164 * (((p.x % 2) == 0 ? uyvy.g : uyvy.a) - 0.0625);
	float u = uyvy.r - 0.5;
	float v = uyvy.b - 0.5;
	FragColor = vec4(y + 1.596 * v, y - 0.391 * u - 0.813 * v, y + 2.018 * u, 1.0);
}
`

type program struct {
	id uint32

	// uniforms
	viewport int32
	matrix   int32
	samplers [maxTextures]int32
}

func (p *program) destroy() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}

// compileProgram compiles the fragment source and links it with the vertex
// shader used by every draw.
func compileProgram(fragSource string) (*program, error) {
	vertHandle := gl.CreateShader(gl.VERTEX_SHADER)
	defer gl.DeleteShader(vertHandle)
	fragHandle := gl.CreateShader(gl.FRAGMENT_SHADER)
	defer gl.DeleteShader(fragHandle)

	glShaderSource := func(handle uint32, source string) {
		csource, free := gl.Strs(source + "\x00")
		defer free()
		gl.ShaderSource(handle, 1, csource, nil)
	}

	glShaderSource(vertHandle, vertexSource)
	glShaderSource(fragHandle, fragSource)

	gl.CompileShader(vertHandle)
	if log := getShaderCompileError(vertHandle); log != "" {
		return nil, curated.Errorf(ProgramError, log)
	}

	gl.CompileShader(fragHandle)
	if log := getShaderCompileError(fragHandle); log != "" {
		return nil, curated.Errorf(ProgramError, log)
	}

	p := &program{id: gl.CreateProgram()}
	gl.AttachShader(p.id, vertHandle)
	gl.AttachShader(p.id, fragHandle)
	gl.BindAttribLocation(p.id, attribPosition, gl.Str("Position\x00"))
	gl.BindAttribLocation(p.id, attribTexCoord, gl.Str("VertTexCoord\x00"))
	gl.BindFragDataLocation(p.id, 0, gl.Str("FragColor\x00"))
	gl.LinkProgram(p.id)

	if log := getProgramLinkError(p.id); log != "" {
		p.destroy()
		return nil, curated.Errorf(ProgramError, log)
	}

	p.viewport = gl.GetUniformLocation(p.id, gl.Str("Viewport\x00"))
	p.matrix = gl.GetUniformLocation(p.id, gl.Str("ColourMatrix\x00"))
	for i := range p.samplers {
		p.samplers[i] = gl.GetUniformLocation(p.id, gl.Str(fmt.Sprintf("Texture%d\x00", i)))
	}

	return p, nil
}

// getShaderCompileError returns the most recent error generated
// by the shader compiler.
func getShaderCompileError(shader uint32) string {
	var isCompiled int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &isCompiled)
	if isCompiled == 0 {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		if logLength > 0 {
			log := strings.Repeat("\x00", int(logLength+1))
			gl.GetShaderInfoLog(shader, logLength, &logLength, gl.Str(log))
			return strings.TrimRight(log, "\x00")
		}
		return "shader did not compile"
	}
	return ""
}

func getProgramLinkError(prog uint32) string {
	var isLinked int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &isLinked)
	if isLinked == 0 {
		var logLength int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLength)
		if logLength > 0 {
			log := strings.Repeat("\x00", int(logLength+1))
			gl.GetProgramInfoLog(prog, logLength, &logLength, gl.Str(log))
			return strings.TrimRight(log, "\x00")
		}
		return "program did not link"
	}
	return ""
}

// CreateFragmentProgram implements the gpu.Context interface.
func (ctx *Context) CreateFragmentProgram(source string) (gpu.Program, error) {
	if source == "" {
		return 0, curated.Errorf(ProgramError, "empty source")
	}
	p, err := compileProgram(source)
	if err != nil {
		return 0, err
	}
	prog := gpu.Program(p.id)
	ctx.programs[prog] = p
	return prog, nil
}

// DeleteFragmentProgram implements the gpu.Context interface.
func (ctx *Context) DeleteFragmentProgram(prog gpu.Program) {
	if p, ok := ctx.programs[prog]; ok {
		p.destroy()
		delete(ctx.programs, prog)
	}
}

// SetFragmentParams implements the gpu.Context interface.
func (ctx *Context) SetFragmentParams(prog gpu.Program, matrix f32.Mat4) {
	p, ok := ctx.programs[prog]
	if !ok || p.matrix < 0 {
		return
	}
	gl.UseProgram(p.id)
	gl.UniformMatrix4fv(p.matrix, 1, true, &matrix[0])
}

// CreateFrameBuffer implements the gpu.Context interface.
func (ctx *Context) CreateFrameBuffer(tex gpu.Texture) (gpu.FrameBuffer, error) {
	if !ctx.features.Has(gpu.FeatureFrameBufferObject) {
		return 0, curated.Errorf(FrameBufError, "not supported")
	}
	t, ok := ctx.textures[tex]
	if !ok || t.helper {
		return 0, curated.Errorf(FrameBufError, curated.Errorf("invalid texture (%d)", tex))
	}

	var id uint32
	gl.GenFramebuffers(1, &id)
	gl.BindFramebuffer(gl.FRAMEBUFFER, id)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, t.target, t.id, 0)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	ctx.bindFramebuffer(ctx.bound)

	if status != gl.FRAMEBUFFER_COMPLETE {
		gl.DeleteFramebuffers(1, &id)
		return 0, curated.Errorf(FrameBufError, curated.Errorf("incomplete (%#04x)", status))
	}

	fbo := gpu.FrameBuffer(id)
	ctx.frameBuffers[fbo] = tex
	return fbo, nil
}

// DeleteFrameBuffer implements the gpu.Context interface.
func (ctx *Context) DeleteFrameBuffer(fbo gpu.FrameBuffer) {
	ctx.deleteFrameBuffer(fbo)
}

func (ctx *Context) deleteFrameBuffer(fbo gpu.FrameBuffer) {
	if _, ok := ctx.frameBuffers[fbo]; !ok {
		return
	}
	if ctx.bound == fbo {
		ctx.BindFramebuffer(gpu.DefaultSurface)
	}
	id := uint32(fbo)
	gl.DeleteFramebuffers(1, &id)
	delete(ctx.frameBuffers, fbo)
}

// BindFramebuffer implements the gpu.Context interface.
func (ctx *Context) BindFramebuffer(fbo gpu.FrameBuffer) {
	if fbo != gpu.DefaultSurface {
		if _, ok := ctx.frameBuffers[fbo]; !ok {
			return
		}
	}
	ctx.bound = fbo
	ctx.bindFramebuffer(fbo)
}

func (ctx *Context) bindFramebuffer(fbo gpu.FrameBuffer) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(fbo))
}

// DrawBitmap implements the gpu.Context interface.
func (ctx *Context) DrawBitmap(textures []gpu.Texture, target gpu.FrameBuffer, src gpu.RectF, dst gpu.RectF, prog gpu.Program) {
	if len(textures) == 0 {
		return
	}
	first, ok := ctx.textures[textures[0]]
	if !ok {
		return
	}

	p, ok := ctx.programs[prog]
	if !ok {
		p = ctx.passthrough
		if first.target == gl.TEXTURE_RECTANGLE {
			p = ctx.passthroughRect
		}
	}

	if target != ctx.bound {
		ctx.BindFramebuffer(target)
	}

	gl.UseProgram(p.id)
	for i, tex := range textures {
		if i >= maxTextures {
			break
		}
		t, ok := ctx.textures[tex]
		if !ok {
			continue
		}
		gl.ActiveTexture(gl.TEXTURE0 + uint32(i))
		gl.BindTexture(t.target, t.id)
		gl.Uniform1i(p.samplers[i], int32(i))
	}
	gl.ActiveTexture(gl.TEXTURE0)

	// normalised coordinates for everything except rectangle textures
	if first.target != gl.TEXTURE_RECTANGLE {
		w := float32(first.spec.Actual.X)
		h := float32(first.spec.Actual.Y)
		src = gpu.RectF{
			Left:   src.Left / w,
			Top:    src.Top / h,
			Right:  src.Right / w,
			Bottom: src.Bottom / h,
		}
	}

	ctx.drawQuad(p, [2]float32{float32(ctx.viewport.X), float32(ctx.viewport.Y)}, src, dst)
}

// drawQuad draws the destination rectangle as a triangle strip.
func (ctx *Context) drawQuad(p *program, viewport [2]float32, src gpu.RectF, dst gpu.RectF) {
	vertices := [16]float32{
		dst.Left, dst.Top, src.Left, src.Top,
		dst.Right, dst.Top, src.Right, src.Top,
		dst.Left, dst.Bottom, src.Left, src.Bottom,
		dst.Right, dst.Bottom, src.Right, src.Bottom,
	}

	gl.UseProgram(p.id)
	gl.Uniform2f(p.viewport, viewport[0], viewport[1])

	gl.BindVertexArray(ctx.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, ctx.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(&vertices[0]), gl.STREAM_DRAW)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
}
