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
	"time"

	"github.com/jetsetilly/glvideo/gpu"
	"github.com/jetsetilly/glvideo/performance"
	"github.com/urfave/cli/v2"
)

func benchCommand() *cli.Command {
	flags := videoFlags("all")
	flags = append(flags,
		&cli.DurationFlag{
			Name:  "duration",
			Value: 5 * time.Second,
			Usage: "length of the measurement period",
		},
		&cli.Float64Flag{
			Name:  "target",
			Value: 25,
			Usage: "frame rate the measurement is compared against",
		},
		&cli.StringFlag{
			Name:  "profile",
			Usage: "write profiles of the measurement (cpu, mem, trace, all)",
		},
	)

	return &cli.Command{
		Name:   "bench",
		Usage:  "measure the CPU cost of the pipeline with a headless context",
		Flags:  flags,
		Action: bench,
	}
}

func bench(c *cli.Context) error {
	video, display, err := videoDims(c)
	if err != nil {
		return err
	}
	profile, err := performance.ParseProfile(c.String("profile"))
	if err != nil {
		return err
	}

	_, err = performance.Check(c.App.Writer, profile, performance.Options{
		Features:     gpu.ParseFeatures(c.String("features")),
		VideoDim:     video,
		Display:      display,
		Interlaced:   c.Bool("interlaced"),
		Deinterlacer: c.String("deinterlacer"),
		Options:      c.String("options"),
		Duration:     c.Duration("duration"),
		Target:       c.Float64("target"),
	})
	return err
}
