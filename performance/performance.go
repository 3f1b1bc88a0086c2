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


package performance

import (
	"errors"
	"fmt"
	"image"
	"io"
	"time"

	"github.com/jetsetilly/glvideo/curated"
	"github.com/jetsetilly/glvideo/gpu"
	"github.com/jetsetilly/glvideo/gpu/headless"
	"github.com/jetsetilly/glvideo/player"
	"github.com/jetsetilly/glvideo/videoframe"
	"github.com/jetsetilly/glvideo/videogl"
)

// CheckError is the pattern used for errors returned by Check().
const CheckError = "performance: %v"

// sentinal error returned by the runner loop.
var timedOut = errors.New("performance timed out")

// the longest time allowed for the frame rate to settle before measurement
// begins
const maxLeadTime = 2 * time.Second

// Options for the Check() function.
type Options struct {
	// features reported by the headless context
	Features gpu.Feature

	VideoDim image.Point
	Display  image.Point

	Interlaced   bool
	Deinterlacer string

	// passed to videogl.Config
	Options string

	Duration time.Duration

	// the frame rate the measured rate is compared against
	Target float64
}

// Result of the Check() function.
type Result struct {
	Frames   int64
	Fields   int64
	Duration time.Duration
	FPS      float64
	Accuracy float64
}

func (r Result) String() string {
	return fmt.Sprintf("%.2f fps (%d frames, %d fields in %.2f seconds) %.1f%%",
		r.FPS, r.Frames, r.Fields, r.Duration.Seconds(), r.Accuracy)
}

// Check the performance of the video pipeline with the supplied options. The
// result is written to output as well as being returned.
func Check(output io.Writer, profile Profile, opts Options) (Result, error) {
	if opts.Duration <= 0 {
		return Result{}, curated.Errorf(CheckError, fmt.Sprintf("invalid duration (%v)", opts.Duration))
	}

	ctx := headless.NewContext(opts.Features)
	vid := videogl.NewVideoGL(nil)
	err := vid.Init(ctx, videogl.Config{
		VideoDim:           opts.VideoDim,
		DisplayVisibleRect: image.Rectangle{Max: opts.Display},
		DisplayVideoRect:   image.Rectangle{Max: opts.Display},
		VideoRect:          image.Rectangle{Max: opts.VideoDim},
		ViewportControl:    true,
		Options:            opts.Options,
	})
	if err != nil {
		return Result{}, curated.Errorf(CheckError, err)
	}
	defer vid.Teardown()

	if opts.Deinterlacer != "" {
		if err := vid.AddDeinterlacer(opts.Deinterlacer); err != nil {
			return Result{}, curated.Errorf(CheckError, err)
		}
		vid.SetDeinterlacing(true)
	}

	// the headless context records every draw. reset the record every frame
	// so that memory use does not grow with the duration
	plr := player.NewPlayer(vid, videoframe.NewTestCard(opts.VideoDim.X, opts.VideoDim.Y, opts.Interlaced), ctx.ResetDraws)

	leadTime := min(maxLeadTime, opts.Duration/2)

	var startFrames, startFields int64

	runner := func() error {
		// signals false when the leadtime has elapsed and true when the
		// measurement period has finished
		timerChan := make(chan bool, 1)
		time.AfterFunc(leadTime, func() {
			timerChan <- false
			time.AfterFunc(opts.Duration, func() {
				timerChan <- true
			})
		})

		for {
			select {
			case v := <-timerChan:
				if v {
					return timedOut
				}
				startFrames, startFields = plr.Count()
			default:
			}

			if err := plr.Step(); err != nil {
				return err
			}
		}
	}

	err = RunProfiler(profile, "performance", runner)
	if err != nil && !errors.Is(err, timedOut) {
		return Result{}, curated.Errorf(CheckError, err)
	}

	frames, fields := plr.Count()
	res := Result{
		Frames:   frames - startFrames,
		Fields:   fields - startFields,
		Duration: opts.Duration,
	}
	res.FPS, res.Accuracy = CalcFPS(opts.Target, res.Frames, opts.Duration.Seconds())

	if len(ctx.Violations()) > 0 {
		return res, curated.Errorf(CheckError, ctx.Violations()[0])
	}

	fmt.Fprintln(output, res)

	return res, nil
}
