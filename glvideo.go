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
	"fmt"
	"image"
	"os"
	"runtime"
	"strings"

	"github.com/jetsetilly/glvideo/logger"
	"github.com/jetsetilly/glvideo/version"
	"github.com/jetsetilly/glvideo/videogl"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"
)

// SDL requires that window events and the OpenGL context are serviced from
// the main thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "* error: %v\n", err)
		os.Exit(10)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    version.ApplicationName,
		Usage:   "draw decoded video frames through an OpenGL filter chain",
		Version: version.String(),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "log",
				Usage: "echo log entries to stderr as they happen",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("log") {
				echoLog()
			}
			return nil
		},
		After: func(c *cli.Context) error {
			logger.SetEcho(nil, false)
			return nil
		},
		Commands: []*cli.Command{
			playCommand(),
			probeCommand(),
			shadersCommand(),
			benchCommand(),
		},
	}
}

// echoLog sends log entries to stderr. Entries are coloured if stderr is a
// terminal.
func echoLog() {
	fd := os.Stderr.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		logger.SetEcho(logger.NewColorizer(os.Stderr), true)
		return
	}
	logger.SetEcho(os.Stderr, true)
}

// parseDim parses dimensions in the form WIDTHxHEIGHT.
func parseDim(s string) (image.Point, error) {
	var p image.Point
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return p, fmt.Errorf("dimensions should be WIDTHxHEIGHT: %s", s)
	}
	if _, err := fmt.Sscanf(w+" "+h, "%d %d", &p.X, &p.Y); err != nil {
		return p, fmt.Errorf("dimensions should be WIDTHxHEIGHT: %s", s)
	}
	if p.X < 1 || p.Y < 1 {
		return p, fmt.Errorf("dimensions must be positive: %s", s)
	}
	return p, nil
}

// fitRect returns the largest rectangle with the aspect ratio of video that
// fits in the centre of display.
func fitRect(video image.Point, display image.Point) image.Rectangle {
	w := display.X
	h := display.X * video.Y / video.X
	if h > display.Y {
		h = display.Y
		w = display.Y * video.X / video.Y
	}
	tl := image.Pt((display.X-w)/2, (display.Y-h)/2)
	return image.Rectangle{Min: tl, Max: tl.Add(image.Pt(w, h))}
}

// videoFlags are shared by every command that creates a pipeline.
func videoFlags(defaultFeatures string) []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:  "video",
			Value: "720x576",
			Usage: "dimensions of the decoded frames",
		},
		&cli.StringFlag{
			Name:  "display",
			Value: "1280x720",
			Usage: "dimensions of the display surface",
		},
		&cli.BoolFlag{
			Name:  "interlaced",
			Usage: "generate interlaced frames",
		},
		&cli.StringFlag{
			Name:  "deinterlacer",
			Usage: fmt.Sprintf("hardware deinterlacer (%s)", strings.Join(videogl.Deinterlacers(), ", ")),
		},
		&cli.StringFlag{
			Name:  "options",
			Usage: "pipeline options. for example opengloptions=nofbo+nopbo",
		},
	}
	if defaultFeatures != "" {
		flags = append(flags, &cli.StringFlag{
			Name:  "features",
			Value: defaultFeatures,
			Usage: "features reported by the headless context (fence|swap|pbo|fbo|frag|rect|ycbcr or all)",
		})
	}
	return flags
}

// videoDims returns the video and display dimensions from the flags.
func videoDims(c *cli.Context) (image.Point, image.Point, error) {
	video, err := parseDim(c.String("video"))
	if err != nil {
		return video, image.Point{}, err
	}
	display, err := parseDim(c.String("display"))
	if err != nil {
		return video, display, err
	}
	return video, display, nil
}
