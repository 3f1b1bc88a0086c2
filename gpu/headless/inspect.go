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
	"image"
	"maps"
	"slices"

	"github.com/jetsetilly/glvideo/gpu"
)

// Live returns the number of live resources of the specified type.
func (ctx *Context) Live(r Resource) int {
	switch r {
	case ResTexture:
		n := 0
		for _, t := range ctx.textures {
			if !t.helper {
				n++
			}
		}
		return n
	case ResHelper:
		n := 0
		for _, t := range ctx.textures {
			if t.helper {
				n++
			}
		}
		return n
	case ResFrameBuffer:
		return len(ctx.frameBuffers)
	case ResProgram:
		return len(ctx.programs)
	}
	return 0
}

// LiveTotal returns the number of live resources of all types.
func (ctx *Context) LiveTotal() int {
	return len(ctx.textures) + len(ctx.frameBuffers) + len(ctx.programs)
}

// IsLiveTexture returns true if the texture has not been deleted.
func (ctx *Context) IsLiveTexture(tex gpu.Texture) bool {
	_, ok := ctx.textures[tex]
	return ok
}

// LiveTextures returns the handles of all live textures in ascending order.
func (ctx *Context) LiveTextures() []gpu.Texture {
	return slices.Sorted(maps.Keys(ctx.textures))
}

// TextureSpec returns the specification used to create the texture.
func (ctx *Context) TextureSpec(tex gpu.Texture) (gpu.TextureSpec, bool) {
	t, ok := ctx.textures[tex]
	if !ok {
		return gpu.TextureSpec{}, false
	}
	return t.spec, true
}

// IsLinear returns true if the texture uses linear sampling.
func (ctx *Context) IsLinear(tex gpu.Texture) bool {
	t, ok := ctx.textures[tex]
	return ok && t.linear
}

// TextureData returns the data uploaded by the most recent UpdateTexture().
func (ctx *Context) TextureData(tex gpu.Texture) []byte {
	t, ok := ctx.textures[tex]
	if !ok {
		return nil
	}
	return t.data
}

// FrameBufferTexture returns the texture backing the framebuffer.
func (ctx *Context) FrameBufferTexture(fbo gpu.FrameBuffer) (gpu.Texture, bool) {
	tex, ok := ctx.frameBuffers[fbo]
	return tex, ok
}

// ProgramSource returns the source of a live program.
func (ctx *Context) ProgramSource(prog gpu.Program) (string, bool) {
	s, ok := ctx.programs[prog]
	return s, ok
}

// ActiveFeatures returns the features after narrowing by SetFeatures().
func (ctx *Context) ActiveFeatures() gpu.Feature {
	return ctx.narrowed
}

// Fences returns the number of fences placed by SetFence().
func (ctx *Context) Fences() int {
	return ctx.fences
}

// Clears returns the number of calls to ClearFramebuffer().
func (ctx *Context) Clears() int {
	return ctx.clears
}

// Viewport returns the most recent viewport.
func (ctx *Context) Viewport() image.Point {
	return ctx.viewport
}

// Draws returns the recorded DrawBitmap() calls.
func (ctx *Context) Draws() []Draw {
	return ctx.draws
}

// Rects returns the recorded DrawRect() calls.
func (ctx *Context) Rects() []Rect {
	return ctx.rects
}

// ResetDraws forgets recorded draws and rects.
func (ctx *Context) ResetDraws() {
	ctx.draws = nil
	ctx.rects = nil
	ctx.clears = 0
}

// Violations returns the contract violations that have been detected.
func (ctx *Context) Violations() []string {
	return ctx.violations
}

// Depth returns the number of outstanding MakeCurrent() calls.
func (ctx *Context) Depth() int {
	return ctx.depth
}
