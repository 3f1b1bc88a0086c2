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
	"slices"

	"github.com/jetsetilly/glvideo/gpu"
	"github.com/jetsetilly/glvideo/videoframe"
	"github.com/jetsetilly/glvideo/videogl"
	"github.com/urfave/cli/v2"
)

func shadersCommand() *cli.Command {
	return &cli.Command{
		Name:  "shaders",
		Usage: "print the fragment program generated for a filter",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "filter",
				Value: videogl.FilterYUV2RGB.String(),
				Usage: "filter name (master or bicubic)",
			},
			&cli.StringFlag{
				Name:  "deinterlacer",
				Usage: "deinterlacer used by the master filter",
			},
			&cli.StringFlag{
				Name:  "scan",
				Value: "interlaced",
				Usage: "field selected by the deinterlacer (interlaced or 2nd)",
			},
			&cli.BoolFlag{
				Name:  "rect",
				Usage: "generate for rectangle textures",
			},
			&cli.StringFlag{
				Name:  "video",
				Value: "720x576",
				Usage: "dimensions of the decoded frames",
			},
		},
		Action: shaders,
	}
}

func shaders(c *cli.Context) error {
	kind, ok := videogl.ParseFilterType(c.String("filter"))
	if !ok {
		return fmt.Errorf("unknown filter: %s", c.String("filter"))
	}

	video, err := parseDim(c.String("video"))
	if err != nil {
		return err
	}

	var scan videoframe.Scan
	switch c.String("scan") {
	case "interlaced":
		scan = videoframe.ScanInterlaced
	case "2nd":
		scan = videoframe.ScanIntr2ndField
	default:
		return fmt.Errorf("unknown scan: %s", c.String("scan"))
	}

	deint := c.String("deinterlacer")
	if deint != "" && !slices.Contains(videogl.Deinterlacers(), deint) {
		return fmt.Errorf("unknown deinterlacer: %s", deint)
	}

	target := gpu.Target2D
	if c.Bool("rect") {
		target = gpu.TargetRect
	}
	params := videogl.NewProgramParams(video, target)

	src := videogl.ProgramSource(kind, deint, scan, params)
	if src == "" {
		return fmt.Errorf("the %s filter does not use a program", kind)
	}
	fmt.Fprint(c.App.Writer, src)

	return nil
}
