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

package headless_test

import (
	"image"
	"image/color"
	"sync"
	"testing"

	"github.com/jetsetilly/glvideo/curated"
	"github.com/jetsetilly/glvideo/gpu"
	"github.com/jetsetilly/glvideo/gpu/headless"
	"github.com/jetsetilly/glvideo/test"
)

func texSpec(w, h int) gpu.TextureSpec {
	return gpu.TextureSpec{
		Size:   image.Pt(w, h),
		Actual: image.Pt(w, h),
	}
}

func TestLock(t *testing.T) {
	ctx := headless.NewContext(gpu.FeatureAll)

	func() {
		defer gpu.Lock(ctx)()
		test.ExpectEquality(t, ctx.Depth(), 1)

		// locking is re-entrant
		func() {
			defer gpu.Lock(ctx)()
			test.ExpectEquality(t, ctx.Depth(), 2)
		}()
		test.ExpectEquality(t, ctx.Depth(), 1)
	}()
	test.ExpectEquality(t, ctx.Depth(), 0)
	test.ExpectEquality(t, len(ctx.Violations()), 0)
}

func TestCurrencyViolations(t *testing.T) {
	ctx := headless.NewContext(gpu.FeatureAll)

	// not current
	ctx.ClearFramebuffer()
	test.ExpectEquality(t, len(ctx.Violations()), 1)

	// current on another goroutine
	unlock := gpu.Lock(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ctx.MakeCurrent()
	}()
	wg.Wait()
	unlock()
	test.ExpectEquality(t, len(ctx.Violations()), 2)
	test.ExpectEquality(t, ctx.Depth(), 0)
}

func TestResources(t *testing.T) {
	ctx := headless.NewContext(gpu.FeatureAll)
	defer gpu.Lock(ctx)()

	tex, err := ctx.CreateTexture(texSpec(16, 8))
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, len(ctx.TextureBuffer(tex)), 16*8*4)
	test.ExpectEquality(t, ctx.Live(headless.ResTexture), 1)

	fbo, err := ctx.CreateFrameBuffer(tex)
	test.DemandSuccess(t, err)
	backing, ok := ctx.FrameBufferTexture(fbo)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, backing, tex)

	prog, err := ctx.CreateFragmentProgram("void main() {}")
	test.DemandSuccess(t, err)
	src, ok := ctx.ProgramSource(prog)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, src, "void main() {}")

	helper, err := ctx.CreateHelperTexture(make([]float32, 256*4))
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, ctx.Live(headless.ResHelper), 1)
	test.ExpectEquality(t, ctx.Live(headless.ResTexture), 1)
	test.ExpectEquality(t, ctx.LiveTotal(), 4)

	ctx.DeleteFragmentProgram(prog)
	ctx.DeleteFrameBuffer(fbo)
	ctx.DeleteTexture(tex)
	ctx.DeleteTexture(helper)
	test.ExpectEquality(t, ctx.LiveTotal(), 0)

	// deleting twice is a violation
	ctx.DeleteTexture(tex)
	test.ExpectEquality(t, len(ctx.Violations()), 1)
}

func TestFaults(t *testing.T) {
	ctx := headless.NewContext(gpu.FeatureAll)
	defer gpu.Lock(ctx)()

	ctx.SetFault(headless.ResTexture, 1)
	_, err := ctx.CreateTexture(texSpec(16, 16))
	test.ExpectSuccess(t, err)
	_, err = ctx.CreateTexture(texSpec(16, 16))
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, headless.FaultInjected))

	// fault only happens once
	_, err = ctx.CreateTexture(texSpec(16, 16))
	test.ExpectSuccess(t, err)

	ctx.SetFault(headless.ResProgram, 0)
	_, err = ctx.CreateFragmentProgram("void main() {}")
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, ctx.Live(headless.ResProgram), 0)
}

func TestUnsupported(t *testing.T) {
	ctx := headless.NewContext(gpu.FeatureNone)
	defer gpu.Lock(ctx)()

	tex, err := ctx.CreateTexture(texSpec(16, 16))
	test.DemandSuccess(t, err)
	_, err = ctx.CreateFrameBuffer(tex)
	test.ExpectFailure(t, err)
	_, err = ctx.CreateFragmentProgram("void main() {}")
	test.ExpectFailure(t, err)
}

func TestSetFeatures(t *testing.T) {
	ctx := headless.NewContext(gpu.FeatureFence | gpu.FeatureFragmentProgram)
	defer gpu.Lock(ctx)()

	// features cannot be widened
	ctx.SetFeatures(gpu.FeatureAll)
	test.ExpectEquality(t, ctx.ActiveFeatures(), gpu.FeatureFence|gpu.FeatureFragmentProgram)

	ctx.SetFence()
	test.ExpectEquality(t, ctx.Fences(), 1)

	ctx.SetFeatures(gpu.FeatureFragmentProgram)
	ctx.SetFence()
	test.ExpectEquality(t, ctx.Fences(), 1)
}

func TestDraw(t *testing.T) {
	ctx := headless.NewContext(gpu.FeatureAll)
	defer gpu.Lock(ctx)()

	tex, _ := ctx.CreateTexture(texSpec(16, 16))
	out, _ := ctx.CreateTexture(texSpec(16, 16))
	fbo, _ := ctx.CreateFrameBuffer(out)

	ctx.BindFramebuffer(fbo)
	ctx.SetViewPort(image.Pt(16, 16))
	ctx.DrawBitmap([]gpu.Texture{tex}, fbo, gpu.RectF{Right: 16, Bottom: 16}, gpu.RectF{Right: 16, Bottom: 16}, 0)

	ctx.BindFramebuffer(gpu.DefaultSurface)
	ctx.SetBackground(color.RGBA{A: 255})
	ctx.DrawRect(image.Rect(0, 0, 10, 10), color.RGBA{R: 127, A: 255})
	ctx.DrawBitmap([]gpu.Texture{out}, gpu.DefaultSurface, gpu.RectF{Right: 16, Bottom: 16}, gpu.RectF{Right: 32, Bottom: 32}, 0)

	test.DemandEquality(t, len(ctx.Draws()), 2)
	test.ExpectEquality(t, ctx.Draws()[0].Target, fbo)
	test.ExpectEquality(t, ctx.Draws()[0].Viewport, image.Pt(16, 16))
	test.ExpectEquality(t, ctx.Draws()[1].Background, color.RGBA{A: 255})
	test.ExpectEquality(t, len(ctx.Rects()), 1)
	test.ExpectEquality(t, len(ctx.Violations()), 0)

	// drawing to a framebuffer that is not bound is a violation
	ctx.DrawBitmap([]gpu.Texture{tex}, fbo, gpu.RectF{}, gpu.RectF{}, 0)
	test.ExpectEquality(t, len(ctx.Violations()), 1)

	// as is sampling from the framebuffer being drawn to
	ctx.BindFramebuffer(fbo)
	ctx.DrawBitmap([]gpu.Texture{out}, fbo, gpu.RectF{}, gpu.RectF{}, 0)
	test.ExpectEquality(t, len(ctx.Violations()), 2)

	ctx.ResetDraws()
	test.ExpectEquality(t, len(ctx.Draws()), 0)
}

func TestUpdateTexture(t *testing.T) {
	ctx := headless.NewContext(gpu.FeatureAll)
	defer gpu.Lock(ctx)()

	tex, _ := ctx.CreateTexture(gpu.TextureSpec{
		Size:    image.Pt(4, 2),
		Actual:  image.Pt(64, 64),
		Purpose: gpu.TexturePackedYUV,
	})

	buf := ctx.TextureBuffer(tex)
	test.DemandEquality(t, len(buf), 4*2*2)
	buf[0] = 0xff
	test.ExpectEquality(t, len(ctx.TextureData(tex)), 0)

	test.ExpectSuccess(t, ctx.UpdateTexture(tex))
	test.ExpectEquality(t, ctx.TextureData(tex)[0], uint8(0xff))

	// data is a copy of the buffer at the time of the update
	buf[0] = 0x00
	test.ExpectEquality(t, ctx.TextureData(tex)[0], uint8(0xff))

	test.ExpectFailure(t, ctx.UpdateTexture(gpu.Texture(1000)))
}
