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


package main

import (
	"errors"
	"fmt"
	"image"
	"net/http"
	"time"

	"github.com/jetsetilly/glvideo/gpu/gl32"
	"github.com/jetsetilly/glvideo/logger"
	"github.com/jetsetilly/glvideo/performance"
	"github.com/jetsetilly/glvideo/performance/limiter"
	"github.com/jetsetilly/glvideo/player"
	"github.com/jetsetilly/glvideo/statsview"
	"github.com/jetsetilly/glvideo/version"
	"github.com/jetsetilly/glvideo/videoframe"
	"github.com/jetsetilly/glvideo/videogl"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
	"github.com/veandco/go-sdl2/sdl"
)

func playCommand() *cli.Command {
	flags := videoFlags("")
	flags = append(flags,
		&cli.StringFlag{
			Name:  "software-deinterlacer",
			Usage: "name of the software deinterlacer used by the decoder. bobdeint disables resizing",
		},
		&cli.StringFlag{
			Name:  "letterbox",
			Value: "black",
			Usage: "letterbox colour (black or gray)",
		},
		&cli.Float64Flag{
			Name:  "rate",
			Value: 50,
			Usage: "fields per second",
		},
		&cli.IntFlag{
			Name:  "frames",
			Usage: "number of frames to play. zero plays until the window is closed",
		},
		&cli.BoolFlag{
			Name:  "border",
			Usage: "draw a border around the video",
		},
		&cli.StringFlag{
			Name:  "metrics",
			Usage: "serve prometheus metrics on the address. for example localhost:9090",
		},
		&cli.BoolFlag{
			Name:  "statsview",
			Usage: fmt.Sprintf("serve runtime statistics on %s (requires the statsview build tag)", statsview.DefaultAddress),
		},
		&cli.StringFlag{
			Name:  "profile",
			Usage: "write profiles of the play session (cpu, mem, trace, all)",
		},
	)

	return &cli.Command{
		Name:   "play",
		Usage:  "play a test card in a window",
		Flags:  flags,
		Action: play,
	}
}

func parseLetterbox(s string) (videogl.Letterbox, error) {
	switch s {
	case "black", "":
		return videogl.LetterboxBlack, nil
	case "gray", "grey":
		return videogl.LetterboxGray25, nil
	}
	return videogl.LetterboxBlack, fmt.Errorf("unknown letterbox colour: %s", s)
}

func serveMetrics(addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Log(logger.Allow, "metrics", err)
	}
}

func play(c *cli.Context) error {
	video, display, err := videoDims(c)
	if err != nil {
		return err
	}
	letterbox, err := parseLetterbox(c.String("letterbox"))
	if err != nil {
		return err
	}
	profile, err := performance.ParseProfile(c.String("profile"))
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	metrics := videogl.NewMetrics(reg)
	if addr := c.String("metrics"); addr != "" {
		go serveMetrics(addr, reg)
		fmt.Fprintf(c.App.Writer, "metrics available at %s/metrics\n", addr)
	}

	if c.Bool("statsview") {
		if statsview.Available() {
			statsview.Launch(c.App.Writer, "")
		} else {
			logger.Log(logger.Allow, "statsview", "not available in this build")
		}
	}

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return fmt.Errorf("sdl: %w", err)
	}
	defer sdl.Quit()

	window, err := sdl.CreateWindow(version.ApplicationName,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(display.X), int32(display.Y), sdl.WINDOW_OPENGL)
	if err != nil {
		return fmt.Errorf("sdl: %w", err)
	}
	defer window.Destroy()

	ctx, err := gl32.NewContext(window)
	if err != nil {
		return err
	}
	defer ctx.Destroy()

	vid := videogl.NewVideoGL(metrics)
	err = vid.Init(ctx, videogl.Config{
		VideoDim:           video,
		DisplayVisibleRect: image.Rectangle{Max: display},
		DisplayVideoRect:   fitRect(video, display),
		VideoRect:          image.Rectangle{Max: video},
		ViewportControl:    true,
		Options:            c.String("options"),
		Letterbox:          letterbox,
	})
	if err != nil {
		return err
	}
	defer vid.Teardown()

	vid.SetSoftwareDeinterlacer(c.String("software-deinterlacer"))
	if name := c.String("deinterlacer"); name != "" {
		if err := vid.AddDeinterlacer(name); err != nil {
			return err
		}
		vid.SetDeinterlacing(true)
	}

	lim, err := limiter.NewFPSLimiter(c.Float64("rate"))
	if err != nil {
		return err
	}
	defer lim.Stop()

	plr := player.NewPlayer(vid, videoframe.NewTestCard(video.X, video.Y, c.Bool("interlaced")), func() {
		lim.Wait()
		ctx.Swap()
	})
	plr.Border = c.Bool("border")

	maxFrames := int64(c.Int("frames"))
	start := time.Now()

	err = performance.RunProfiler(profile, "play", func() error {
		for {
			for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
				if _, ok := ev.(*sdl.QuitEvent); ok {
					return nil
				}
			}

			if frames, _ := plr.Count(); maxFrames > 0 && frames >= maxFrames {
				return nil
			}

			if err := plr.Step(); err != nil {
				return err
			}
		}
	})
	if err != nil {
		return err
	}

	_, fields := plr.Count()
	fps, accuracy := performance.CalcFPS(lim.Limit(), fields, time.Since(start).Seconds())
	fmt.Fprintf(c.App.Writer, "%.2f fields per second (%.1f%%)\n", fps, accuracy)

	return nil
}
