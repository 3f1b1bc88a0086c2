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

package videogl_test

import (
	"image"
	"slices"
	"testing"

	"github.com/jetsetilly/glvideo/colourspace"
	"github.com/jetsetilly/glvideo/curated"
	"github.com/jetsetilly/glvideo/gpu"
	"github.com/jetsetilly/glvideo/gpu/headless"
	"github.com/jetsetilly/glvideo/test"
	"github.com/jetsetilly/glvideo/videogl"
)

// config for a video of size v drawn to the whole of a display of size d
func config(v image.Point, d image.Point, options string) videogl.Config {
	return videogl.Config{
		VideoDim:           v,
		DisplayVisibleRect: image.Rectangle{Max: d},
		DisplayVideoRect:   image.Rectangle{Max: d},
		VideoRect:          image.Rectangle{Max: v},
		ViewportControl:    true,
		Options:            options,
	}
}

func setup(t *testing.T, features gpu.Feature, cfg videogl.Config) (*headless.Context, *videogl.VideoGL) {
	t.Helper()
	ctx := headless.NewContext(features)
	vid := videogl.NewVideoGL(nil)
	test.DemandSuccess(t, vid.Init(ctx, cfg))
	return ctx, vid
}

func chainTypes(vid *videogl.VideoGL) []videogl.FilterType {
	var c []videogl.FilterType
	for _, s := range vid.Chain() {
		c = append(c, s.Type)
	}
	return c
}

// checkChain tests the invariants of the filter chain and the resources it
// holds
func checkChain(t *testing.T, ctx *headless.Context, vid *videogl.VideoGL) {
	t.Helper()

	chain := vid.Chain()
	for i, s := range chain {
		if i == len(chain)-1 {
			test.ExpectEquality(t, s.Output, videogl.OutputDefault, s.Type)
			test.ExpectEquality(t, s.FrameBuffers, 0, s.Type)
		} else {
			test.ExpectEquality(t, s.Output, videogl.OutputFrameBuffer, s.Type)
			test.ExpectEquality(t, s.FrameBuffers, chain[i+1].NumInputs, s.Type)
		}
	}

	test.ExpectEquality(t, vid.LiveResources(), ctx.LiveTotal())
	test.ExpectEquality(t, len(ctx.Violations()), 0)
	test.ExpectEquality(t, ctx.Depth(), 0)
}

var (
	sd      = image.Pt(720, 480)
	fullHD  = image.Pt(1920, 1080)
	fragFBO = gpu.FeatureFragmentProgram | gpu.FeatureFrameBufferObject
)

func TestUpscaleBicubic(t *testing.T) {
	ctx, vid := setup(t, fragFBO, config(sd, fullHD, ""))
	checkChain(t, ctx, vid)

	test.ExpectEquality(t, slices.Equal(chainTypes(vid), []videogl.FilterType{videogl.FilterYUV2RGB, videogl.FilterBicubic}), true)
	test.ExpectEquality(t, vid.DefaultUpsize(), videogl.FilterBicubic)
	test.ExpectEquality(t, vid.TextureTarget(), gpu.Target2D)
	test.ExpectEquality(t, vid.InputTextureSize(), image.Pt(1024, 512))

	test.ExpectInequality(t, vid.HelperTexture(), 0)
	test.ExpectEquality(t, ctx.IsLiveTexture(vid.HelperTexture()), true)
	test.ExpectEquality(t, ctx.Live(headless.ResHelper), 1)
	test.ExpectEquality(t, ctx.Live(headless.ResProgram), 2)
	test.ExpectEquality(t, ctx.Live(headless.ResFrameBuffer), 1)

	// colour conversion is done by the GPU
	test.ExpectEquality(t, vid.ColourSpace().SupportedAttributes(), colourspace.AttrAll)
}

func TestUpscaleWithoutFrameBuffers(t *testing.T) {
	ctx, vid := setup(t, fragFBO, config(sd, fullHD, "opengloptions=nofbo"))
	checkChain(t, ctx, vid)

	test.ExpectEquality(t, slices.Equal(chainTypes(vid), []videogl.FilterType{videogl.FilterYUV2RGB}), true)
	test.ExpectEquality(t, vid.Features().Has(gpu.FeatureFrameBufferObject), false)
	test.ExpectEquality(t, vid.DefaultUpsize(), videogl.FilterResize)
	test.ExpectEquality(t, ctx.Live(headless.ResFrameBuffer), 0)
	test.ExpectEquality(t, vid.HelperTexture(), 0)
}

func TestNoBicubic(t *testing.T) {
	ctx, vid := setup(t, fragFBO, config(sd, fullHD, "opengloptions=nobicubic"))
	checkChain(t, ctx, vid)
	test.ExpectEquality(t, vid.DefaultUpsize(), videogl.FilterResize)
	test.ExpectEquality(t, slices.Equal(chainTypes(vid), []videogl.FilterType{videogl.FilterYUV2RGB, videogl.FilterResize}), true)
	test.ExpectEquality(t, ctx.Live(headless.ResHelper), 0)
}

func TestRectTextures(t *testing.T) {
	ctx, vid := setup(t, gpu.FeatureAll, config(sd, fullHD, "opengloptions=nobicubic"))
	checkChain(t, ctx, vid)
	test.ExpectEquality(t, vid.TextureTarget(), gpu.TargetRect)
	test.ExpectEquality(t, vid.InputTextureSize(), sd)

	spec, ok := ctx.TextureSpec(vid.InputTexture())
	test.ExpectEquality(t, ok, true)
	test.ExpectEquality(t, spec.Target, gpu.TargetRect)
	test.ExpectEquality(t, spec.PBO, true)
}

func TestSoftwareConversion(t *testing.T) {
	ctx, vid := setup(t, gpu.FeatureNone, config(sd, fullHD, ""))
	checkChain(t, ctx, vid)

	test.ExpectEquality(t, slices.Equal(chainTypes(vid), []videogl.FilterType{videogl.FilterResize}), true)
	test.ExpectEquality(t, vid.UsingPackedYUV(), false)
	test.ExpectEquality(t, vid.ColourSpace().SupportedAttributes(), colourspace.AttrNone)

	spec, _ := ctx.TextureSpec(vid.InputTexture())
	test.ExpectEquality(t, spec.Purpose, gpu.TextureRGBA)
	test.ExpectEquality(t, spec.PBO, false)
}

func TestPackedYUV(t *testing.T) {
	ctx, vid := setup(t, gpu.FeatureFragmentProgram|gpu.FeaturePackedYUV, config(sd, fullHD, ""))
	checkChain(t, ctx, vid)

	test.ExpectEquality(t, vid.UsingPackedYUV(), true)
	test.ExpectEquality(t, slices.Equal(chainTypes(vid), []videogl.FilterType{videogl.FilterResize}), true)
	test.ExpectEquality(t, vid.ColourSpace().SupportedAttributes(), colourspace.AttrNone)

	spec, _ := ctx.TextureSpec(vid.InputTexture())
	test.ExpectEquality(t, spec.Purpose, gpu.TexturePackedYUV)

	// packed YUV is not used if the conversion can be done in a program
	ctx, vid = setup(t, fragFBO|gpu.FeaturePackedYUV, config(sd, fullHD, ""))
	checkChain(t, ctx, vid)
	test.ExpectEquality(t, vid.UsingPackedYUV(), false)
}

func TestHardwareAccel(t *testing.T) {
	cfg := config(sd, sd, "")
	cfg.HardwareAccel = true
	ctx, vid := setup(t, gpu.FeatureAll, cfg)
	checkChain(t, ctx, vid)

	test.ExpectEquality(t, vid.UsingHardwareTextures(), true)
	test.ExpectEquality(t, slices.Equal(chainTypes(vid), []videogl.FilterType{videogl.FilterResize}), true)

	spec, _ := ctx.TextureSpec(vid.InputTexture())
	test.ExpectEquality(t, spec.Purpose, gpu.TextureRGBALinear)
	test.ExpectEquality(t, spec.Target, gpu.Target2D)
	test.ExpectEquality(t, spec.PBO, false)
}

func TestInitFallback(t *testing.T) {
	ctx := headless.NewContext(gpu.FeatureAll)

	// the conversion program cannot be created
	ctx.SetFault(headless.ResProgram, 0)

	vid := videogl.NewVideoGL(nil)
	test.DemandSuccess(t, vid.Init(ctx, config(sd, sd, "")))
	checkChain(t, ctx, vid)

	test.ExpectEquality(t, slices.Equal(chainTypes(vid), []videogl.FilterType{videogl.FilterResize}), true)
	test.ExpectEquality(t, ctx.Live(headless.ResTexture), 1)
	test.ExpectEquality(t, ctx.Live(headless.ResProgram), 0)
}

func TestInitFailure(t *testing.T) {
	ctx := headless.NewContext(gpu.FeatureNone)
	ctx.SetFault(headless.ResTexture, 0)

	vid := videogl.NewVideoGL(nil)
	err := vid.Init(ctx, config(sd, sd, ""))
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, curated.Is(err, videogl.InitError), true)
	test.ExpectEquality(t, vid.Initialised(), false)
	test.ExpectEquality(t, ctx.LiveTotal(), 0)
	test.ExpectEquality(t, ctx.Depth(), 0)

	// instance is unusable but safe
	vid.Teardown()
	err = vid.AddFilter(videogl.FilterResize)
	test.ExpectEquality(t, curated.Is(err, videogl.NotInitialised), true)
	err = vid.RemoveFilter(videogl.FilterResize)
	test.ExpectEquality(t, curated.Is(err, videogl.NotInitialised), true)

	// and can be initialised again
	test.ExpectSuccess(t, vid.Init(ctx, config(sd, sd, "")))
	checkChain(t, ctx, vid)

	// invalid configuration
	test.ExpectFailure(t, vid.Init(ctx, config(image.Point{}, sd, "")))
	test.ExpectFailure(t, vid.Init(nil, config(sd, sd, "")))
}

func TestTeardown(t *testing.T) {
	ctx, vid := setup(t, gpu.FeatureAll, config(sd, fullHD, ""))
	test.DemandSuccess(t, vid.AddDeinterlacer("openglyadif"))
	test.ExpectInequality(t, ctx.LiveTotal(), 0)

	vid.Teardown()
	test.ExpectEquality(t, ctx.LiveTotal(), 0)
	test.ExpectEquality(t, vid.LiveResources(), 0)
	test.ExpectEquality(t, vid.Initialised(), false)
	test.ExpectEquality(t, len(vid.Chain()), 0)
	test.ExpectEquality(t, vid.InputTexture(), 0)

	// teardown is always safe
	vid.Teardown()
	videogl.NewVideoGL(nil).Teardown()

	test.ExpectEquality(t, len(ctx.Violations()), 0)
	test.ExpectEquality(t, ctx.Depth(), 0)
}

func TestReinit(t *testing.T) {
	ctx, vid := setup(t, gpu.FeatureAll, config(sd, fullHD, ""))

	// a second call to Init() releases the first configuration
	test.DemandSuccess(t, vid.Init(ctx, config(fullHD, fullHD, "")))
	checkChain(t, ctx, vid)
	test.ExpectEquality(t, slices.Equal(chainTypes(vid), []videogl.FilterType{videogl.FilterYUV2RGB}), true)
	test.ExpectEquality(t, ctx.Live(headless.ResTexture), 1)
}

func TestAddRemoveFilter(t *testing.T) {
	ctx, vid := setup(t, gpu.FeatureAll, config(sd, sd, ""))
	checkChain(t, ctx, vid)
	test.ExpectEquality(t, slices.Equal(chainTypes(vid), []videogl.FilterType{videogl.FilterYUV2RGB}), true)
	initial := ctx.LiveTotal()

	test.ExpectSuccess(t, vid.AddFilter(videogl.FilterResize))
	checkChain(t, ctx, vid)
	live := ctx.LiveTotal()

	// adding again changes nothing
	test.ExpectSuccess(t, vid.AddFilter(videogl.FilterResize))
	checkChain(t, ctx, vid)
	test.ExpectEquality(t, ctx.LiveTotal(), live)

	test.ExpectSuccess(t, vid.AddFilter(videogl.FilterBicubic))
	checkChain(t, ctx, vid)
	test.ExpectEquality(t, slices.Equal(chainTypes(vid), []videogl.FilterType{videogl.FilterYUV2RGB, videogl.FilterResize, videogl.FilterBicubic}), true)

	test.ExpectSuccess(t, vid.RemoveFilter(videogl.FilterResize))
	checkChain(t, ctx, vid)
	test.ExpectSuccess(t, vid.RemoveFilter(videogl.FilterBicubic))
	checkChain(t, ctx, vid)
	test.ExpectEquality(t, vid.HelperTexture(), 0)

	// removing again changes nothing and is not an error
	test.ExpectSuccess(t, vid.RemoveFilter(videogl.FilterBicubic))
	test.ExpectSuccess(t, vid.RemoveFilter(videogl.FilterNone))
	checkChain(t, ctx, vid)
	test.ExpectEquality(t, ctx.LiveTotal(), initial)

	test.ExpectFailure(t, vid.AddFilter(videogl.FilterNone))
}

func TestAddFilterRefused(t *testing.T) {
	ctx, vid := setup(t, fragFBO, config(sd, sd, "opengloptions=nofbo"))
	initial := ctx.LiveTotal()

	err := vid.AddFilter(videogl.FilterResize)
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, curated.Is(err, videogl.FilterError), true)

	test.ExpectFailure(t, vid.AddFilter(videogl.FilterBicubic))

	checkChain(t, ctx, vid)
	test.ExpectEquality(t, ctx.LiveTotal(), initial)
	test.ExpectEquality(t, slices.Equal(chainTypes(vid), []videogl.FilterType{videogl.FilterYUV2RGB}), true)
}

func TestAddFilterRollback(t *testing.T) {
	ctx, vid := setup(t, gpu.FeatureAll, config(sd, sd, ""))
	initial := ctx.LiveTotal()

	// the conversion stage cannot get a framebuffer
	ctx.SetFault(headless.ResFrameBuffer, 0)
	test.ExpectFailure(t, vid.AddFilter(videogl.FilterBicubic))
	checkChain(t, ctx, vid)
	test.ExpectEquality(t, ctx.LiveTotal(), initial)
	test.ExpectEquality(t, vid.HelperTexture(), 0)

	// the bicubic program cannot be created
	ctx.SetFault(headless.ResProgram, 0)
	test.ExpectFailure(t, vid.AddFilter(videogl.FilterBicubic))
	checkChain(t, ctx, vid)
	test.ExpectEquality(t, ctx.LiveTotal(), initial)

	// the helper texture cannot be created
	ctx.SetFault(headless.ResHelper, 0)
	test.ExpectFailure(t, vid.AddFilter(videogl.FilterBicubic))
	checkChain(t, ctx, vid)
	test.ExpectEquality(t, ctx.LiveTotal(), initial)

	test.ExpectEquality(t, slices.Equal(chainTypes(vid), []videogl.FilterType{videogl.FilterYUV2RGB}), true)

	// faults have cleared
	test.ExpectSuccess(t, vid.AddFilter(videogl.FilterBicubic))
	checkChain(t, ctx, vid)
}

func TestBicubicFallback(t *testing.T) {
	ctx := headless.NewContext(gpu.FeatureAll)

	// the first program succeeds and the bicubic program fails
	ctx.SetFault(headless.ResProgram, 1)

	vid := videogl.NewVideoGL(nil)
	test.DemandSuccess(t, vid.Init(ctx, config(sd, fullHD, "")))
	checkChain(t, ctx, vid)
	test.ExpectEquality(t, slices.Equal(chainTypes(vid), []videogl.FilterType{videogl.FilterYUV2RGB, videogl.FilterResize}), true)
	test.ExpectEquality(t, ctx.Live(headless.ResHelper), 0)
}

func TestCheckResize(t *testing.T) {
	ctx, vid := setup(t, gpu.FeatureAll, config(fullHD, image.Pt(1280, 720), ""))
	checkChain(t, ctx, vid)

	// downscaling only happens while deinterlacing
	test.ExpectEquality(t, slices.Equal(chainTypes(vid), []videogl.FilterType{videogl.FilterYUV2RGB}), true)

	vid.SetDeinterlacing(true)
	checkChain(t, ctx, vid)
	test.ExpectEquality(t, slices.Equal(chainTypes(vid), []videogl.FilterType{videogl.FilterYUV2RGB, videogl.FilterResize}), true)

	vid.SetDeinterlacing(false)
	checkChain(t, ctx, vid)
	test.ExpectEquality(t, slices.Equal(chainTypes(vid), []videogl.FilterType{videogl.FilterYUV2RGB}), true)

	// resizing is not allowed
	vid.CheckResize(true, false)
	checkChain(t, ctx, vid)
	test.ExpectEquality(t, slices.Equal(chainTypes(vid), []videogl.FilterType{videogl.FilterYUV2RGB}), true)
}

func TestSoftwareBobDisablesResize(t *testing.T) {
	ctx, vid := setup(t, gpu.FeatureAll, config(sd, fullHD, ""))

	vid.SetSoftwareDeinterlacer("bobdeint")
	checkChain(t, ctx, vid)
	test.ExpectEquality(t, slices.Equal(chainTypes(vid), []videogl.FilterType{videogl.FilterYUV2RGB}), true)
	test.ExpectEquality(t, ctx.Live(headless.ResHelper), 0)

	vid.SetSoftwareDeinterlacer("")
	checkChain(t, ctx, vid)
	test.ExpectEquality(t, slices.Equal(chainTypes(vid), []videogl.FilterType{videogl.FilterYUV2RGB, videogl.FilterBicubic}), true)
}

func TestSoftwareConversionKeepsResize(t *testing.T) {
	ctx, vid := setup(t, gpu.FeatureNone, config(sd, fullHD, ""))

	// the resize stage is the only stage and can not be removed
	vid.SetSoftwareDeinterlacer("bobdeint")
	checkChain(t, ctx, vid)
	test.ExpectEquality(t, slices.Equal(chainTypes(vid), []videogl.FilterType{videogl.FilterResize}), true)
}

func TestFiltering(t *testing.T) {
	ctx, vid := setup(t, gpu.FeatureAll, config(sd, sd, ""))

	// single stage chains sample linearly
	test.ExpectEquality(t, ctx.IsLinear(vid.InputTexture()), true)

	test.DemandSuccess(t, vid.AddFilter(videogl.FilterResize))
	test.DemandSuccess(t, vid.AddFilter(videogl.FilterBicubic))

	// inputs to a multi-stage chain are sampled with nearest neighbour
	test.ExpectEquality(t, ctx.IsLinear(vid.InputTexture()), false)

	// the output of the stage before the terminal stage is sampled linearly.
	// earlier framebuffers are sampled with nearest neighbour
	ctx.ResetDraws()
	vid.PrepareFrame(true, 0, false, 0, false)
	draws := ctx.Draws()
	test.DemandEquality(t, len(draws), 3)

	yuv, _ := ctx.FrameBufferTexture(draws[0].Target)
	resize, _ := ctx.FrameBufferTexture(draws[1].Target)
	test.ExpectEquality(t, ctx.IsLinear(yuv), false)
	test.ExpectEquality(t, ctx.IsLinear(resize), true)
}

func TestViewPort(t *testing.T) {
	ctx, vid := setup(t, gpu.FeatureAll, config(sd, fullHD, ""))
	test.ExpectEquality(t, vid.ViewportSize(), fullHD)
	test.ExpectEquality(t, ctx.Viewport(), fullHD)

	// never smaller than the video
	vid.SetViewPort(image.Pt(100, 1000))
	test.ExpectEquality(t, vid.ViewportSize(), image.Pt(720, 1000))
	test.ExpectEquality(t, ctx.Viewport(), image.Pt(720, 1000))

	// the context viewport is not changed without viewport control
	cfg := config(sd, fullHD, "")
	cfg.ViewportControl = false
	ctx, vid = setup(t, gpu.FeatureAll, cfg)
	vid.SetViewPort(image.Pt(800, 600))
	test.ExpectEquality(t, vid.ViewportSize(), image.Pt(800, 600))
	test.ExpectEquality(t, ctx.Viewport(), image.Point{})
	test.ExpectEquality(t, ctx.Fences(), 0)
}

func TestFeatureNarrowing(t *testing.T) {
	ctx, vid := setup(t, gpu.FeatureAll, config(sd, fullHD, "opengloptions=nofence+noswap"))
	test.ExpectEquality(t, vid.Features().Has(gpu.FeatureFence), false)
	test.ExpectEquality(t, vid.Features().Has(gpu.FeatureSwapControl), false)
	test.ExpectEquality(t, ctx.ActiveFeatures(), vid.Features())
	test.ExpectEquality(t, ctx.Fences(), 0)

	ctx, _ = setup(t, gpu.FeatureAll, config(sd, fullHD, ""))
	test.ExpectEquality(t, ctx.Fences(), 1)
}

func TestTallVideo(t *testing.T) {
	ctx, vid := setup(t, gpu.FeatureAll, config(image.Pt(1920, 1088), fullHD, ""))
	checkChain(t, ctx, vid)

	display, actual := vid.VideoDim()
	test.ExpectEquality(t, display, fullHD)
	test.ExpectEquality(t, actual, image.Pt(1920, 1088))

	spec, _ := ctx.TextureSpec(vid.InputTexture())
	test.ExpectEquality(t, spec.Size, image.Pt(1920, 1088))
}
