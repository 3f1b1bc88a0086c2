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

	"github.com/jetsetilly/glvideo/curated"
	"github.com/jetsetilly/glvideo/gpu"
)

// the smallest dimension of a power of two texture
const minTextureDimension = 64

// textureSize returns the actual size of a texture that holds an image of the
// specified size. rectangle textures are the same size as the image.
func textureSize(size image.Point, rect bool) image.Point {
	if rect {
		return size
	}
	return image.Point{X: pow2(size.X), Y: pow2(size.Y)}
}

func pow2(v int) int {
	p := minTextureDimension
	for p < v {
		p <<= 1
	}
	return p
}

// pool creates and deletes GPU resources on behalf of VideoGL. every live
// handle is recorded so that teardown can release everything that remains.
// filter stages and the texture lists in VideoGL hold copies of these handles
// but the pool is the owner.
type pool struct {
	ctx     gpu.Context
	metrics *Metrics

	textures     map[gpu.Texture]gpu.TextureSpec
	helpers      map[gpu.Texture]bool
	frameBuffers map[gpu.FrameBuffer]gpu.Texture
	programs     map[gpu.Program]bool
}

func newPool(metrics *Metrics) pool {
	return pool{
		metrics:      metrics,
		textures:     make(map[gpu.Texture]gpu.TextureSpec),
		helpers:      make(map[gpu.Texture]bool),
		frameBuffers: make(map[gpu.FrameBuffer]gpu.Texture),
		programs:     make(map[gpu.Program]bool),
	}
}

// createTexture creates a texture for an image of the specified size. the
// actual size of the texture is returned along with the handle.
func (p *pool) createTexture(size image.Point, target gpu.TextureTarget, purpose gpu.TexturePurpose, pbo bool) (gpu.Texture, image.Point, error) {
	spec := gpu.TextureSpec{
		Size:    size,
		Actual:  textureSize(size, target == gpu.TargetRect),
		Target:  target,
		Purpose: purpose,
		PBO:     pbo,
	}

	tex, err := p.ctx.CreateTexture(spec)
	if err != nil {
		return 0, image.Point{}, curated.Errorf(ResourceError, "texture", err)
	}

	p.textures[tex] = spec
	p.update()
	return tex, spec.Actual, nil
}

func (p *pool) deleteTexture(tex gpu.Texture) {
	if _, ok := p.textures[tex]; ok {
		delete(p.textures, tex)
	} else if p.helpers[tex] {
		delete(p.helpers, tex)
	} else {
		return
	}
	p.ctx.DeleteTexture(tex)
	p.update()
}

func (p *pool) deleteTextures(textures []gpu.Texture) {
	for _, tex := range textures {
		p.deleteTexture(tex)
	}
}

// createFrameBuffer creates a framebuffer and the texture it renders into.
// the texture is deleted if the framebuffer cannot be created.
func (p *pool) createFrameBuffer(size image.Point, target gpu.TextureTarget) (gpu.FrameBuffer, gpu.Texture, error) {
	tex, _, err := p.createTexture(size, target, gpu.TextureRGBA, false)
	if err != nil {
		return 0, 0, err
	}

	fbo, err := p.ctx.CreateFrameBuffer(tex)
	if err != nil {
		p.deleteTexture(tex)
		return 0, 0, curated.Errorf(ResourceError, "framebuffer", err)
	}

	p.frameBuffers[fbo] = tex
	p.update()
	return fbo, tex, nil
}

// deleteFrameBuffer deletes the framebuffer and the texture it renders into.
func (p *pool) deleteFrameBuffer(fbo gpu.FrameBuffer) {
	tex, ok := p.frameBuffers[fbo]
	if !ok {
		return
	}
	delete(p.frameBuffers, fbo)
	p.ctx.DeleteFrameBuffer(fbo)
	p.deleteTexture(tex)
	p.update()
}

func (p *pool) createProgram(source string) (gpu.Program, error) {
	prog, err := p.ctx.CreateFragmentProgram(source)
	if err != nil {
		return 0, curated.Errorf(ResourceError, "program", err)
	}
	p.programs[prog] = true
	p.update()
	return prog, nil
}

func (p *pool) deleteProgram(prog gpu.Program) {
	if !p.programs[prog] {
		return
	}
	delete(p.programs, prog)
	p.ctx.DeleteFragmentProgram(prog)
	p.update()
}

func (p *pool) createHelperTexture() (gpu.Texture, error) {
	tex, err := p.ctx.CreateHelperTexture(bicubicTable())
	if err != nil {
		return 0, curated.Errorf(ResourceError, "helper texture", err)
	}
	p.helpers[tex] = true
	p.update()
	return tex, nil
}

// live returns the number of handles owned by the pool. a framebuffer and its
// texture count as two handles.
func (p *pool) live() int {
	return len(p.textures) + len(p.helpers) + len(p.frameBuffers) + len(p.programs)
}

// releaseAll deletes every handle still owned by the pool.
func (p *pool) releaseAll() {
	if p.ctx == nil {
		return
	}
	for fbo := range p.frameBuffers {
		p.deleteFrameBuffer(fbo)
	}
	for prog := range p.programs {
		p.deleteProgram(prog)
	}
	for tex := range p.textures {
		p.deleteTexture(tex)
	}
	for tex := range p.helpers {
		p.deleteTexture(tex)
	}
}

func (p *pool) update() {
	p.metrics.setLive(p.live())
}
