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


package player_test

import (
	"image"
	"testing"

	"github.com/jetsetilly/glvideo/curated"
	"github.com/jetsetilly/glvideo/gpu"
	"github.com/jetsetilly/glvideo/gpu/headless"
	"github.com/jetsetilly/glvideo/player"
	"github.com/jetsetilly/glvideo/test"
	"github.com/jetsetilly/glvideo/videoframe"
	"github.com/jetsetilly/glvideo/videogl"
)

var (
	video   = image.Pt(64, 48)
	display = image.Pt(128, 96)
)

func setup(t *testing.T) (*headless.Context, *videogl.VideoGL) {
	t.Helper()
	ctx := headless.NewContext(gpu.FeatureAll)
	vid := videogl.NewVideoGL(nil)
	test.DemandSuccess(t, vid.Init(ctx, videogl.Config{
		VideoDim:           video,
		DisplayVisibleRect: image.Rectangle{Max: display},
		DisplayVideoRect:   image.Rectangle{Max: display},
		VideoRect:          image.Rectangle{Max: video},
		ViewportControl:    true,
	}))
	return ctx, vid
}

func TestProgressive(t *testing.T) {
	ctx, vid := setup(t)

	var presented int
	plr := player.NewPlayer(vid, videoframe.NewTestCard(video.X, video.Y, false), func() {
		presented++
	})

	for range 3 {
		test.DemandSuccess(t, plr.Step())
	}

	frames, fields := plr.Count()
	test.ExpectEquality(t, frames, int64(3))
	test.ExpectEquality(t, fields, int64(3))
	test.ExpectEquality(t, presented, 3)
	test.ExpectEquality(t, vid.CurrentFrame(), int64(2))
	test.ExpectEquality(t, len(ctx.Violations()), 0)
}

func TestInterlaced(t *testing.T) {
	_, vid := setup(t)
	test.DemandSuccess(t, vid.AddDeinterlacer("opengldoubleratelinearblend"))
	vid.SetDeinterlacing(true)

	plr := player.NewPlayer(vid, videoframe.NewTestCard(video.X, video.Y, true), nil)
	for range 2 {
		test.DemandSuccess(t, plr.Step())
	}
	frames, fields := plr.Count()
	test.ExpectEquality(t, frames, int64(2))
	test.ExpectEquality(t, fields, int64(4))

	// single rate deinterlacers show the first field only
	test.DemandSuccess(t, vid.AddDeinterlacer("openglyadif"))
	test.DemandSuccess(t, plr.Step())
	frames, fields = plr.Count()
	test.ExpectEquality(t, frames, int64(3))
	test.ExpectEquality(t, fields, int64(5))
}

func TestScans(t *testing.T) {
	_, vid := setup(t)

	progressive := videoframe.NewTestCard(video.X, video.Y, false).Next()
	interlaced := videoframe.NewTestCard(video.X, video.Y, true).Next()

	test.ExpectEquality(t, len(player.Scans(progressive, vid)), 1)

	// no deinterlacer
	scans := player.Scans(interlaced, vid)
	test.ExpectEquality(t, len(scans), 1)
	test.ExpectEquality(t, scans[0], videoframe.ScanProgressive)

	// deinterlacer present but switched off
	test.DemandSuccess(t, vid.AddDeinterlacer("openglbobdeint"))
	vid.SetDeinterlacing(false)
	test.ExpectEquality(t, len(player.Scans(interlaced, vid)), 1)

	vid.SetDeinterlacing(true)
	scans = player.Scans(interlaced, vid)
	test.ExpectEquality(t, len(scans), 2)
	test.ExpectEquality(t, scans[0], videoframe.ScanInterlaced)
	test.ExpectEquality(t, scans[1], videoframe.ScanIntr2ndField)

	// the software bob hint shows both fields whatever the hardware
	// deinterlacer
	vid.TearDownDeinterlacer()
	vid.SetSoftwareDeinterlacer("bobdeint")
	test.ExpectEquality(t, len(player.Scans(interlaced, vid)), 2)
	test.ExpectEquality(t, len(player.Scans(progressive, vid)), 1)
}

type emptySource struct{}

func (emptySource) Next() *videoframe.Frame {
	return nil
}

type badSource struct{}

func (badSource) Next() *videoframe.Frame {
	return videoframe.NewYV12(video.X/2, video.Y)
}

func TestStepErrors(t *testing.T) {
	_, vid := setup(t)

	err := player.NewPlayer(vid, emptySource{}, nil).Step()
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, player.StepError))

	plr := player.NewPlayer(vid, badSource{}, nil)
	err = plr.Step()
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Has(err, videogl.FrameError))

	frames, fields := plr.Count()
	test.ExpectEquality(t, frames, int64(0))
	test.ExpectEquality(t, fields, int64(0))
}
