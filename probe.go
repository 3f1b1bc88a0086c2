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
	"io"
	"os"

	"github.com/bradleyjkemp/memviz"
	"github.com/jetsetilly/glvideo/gpu"
	"github.com/jetsetilly/glvideo/gpu/headless"
	"github.com/jetsetilly/glvideo/videogl"
	"github.com/urfave/cli/v2"
)

func probeCommand() *cli.Command {
	flags := videoFlags("all")
	flags = append(flags,
		&cli.StringFlag{
			Name:  "memviz",
			Usage: "write a graphviz description of the pipeline to the file",
		},
	)

	return &cli.Command{
		Name:   "probe",
		Usage:  "show the filter chain built for a set of GPU features",
		Flags:  flags,
		Action: probe,
	}
}

func probe(c *cli.Context) error {
	video, display, err := videoDims(c)
	if err != nil {
		return err
	}

	ctx := headless.NewContext(gpu.ParseFeatures(c.String("features")))
	vid := videogl.NewVideoGL(nil)
	err = vid.Init(ctx, videogl.Config{
		VideoDim:           video,
		DisplayVisibleRect: image.Rectangle{Max: display},
		DisplayVideoRect:   image.Rectangle{Max: display},
		VideoRect:          image.Rectangle{Max: video},
		ViewportControl:    true,
		Options:            c.String("options"),
	})
	if err != nil {
		return err
	}
	defer vid.Teardown()

	if name := c.String("deinterlacer"); name != "" {
		if err := vid.AddDeinterlacer(name); err != nil {
			return err
		}
		vid.SetDeinterlacing(true)
	}

	describe(c.App.Writer, ctx, vid)

	if fn := c.String("memviz"); fn != "" {
		f, err := os.Create(fn)
		if err != nil {
			return err
		}
		memviz.Map(f, vid)
		if err := f.Close(); err != nil {
			return err
		}
	}

	return nil
}

// describe writes a summary of the pipeline state.
func describe(w io.Writer, ctx *headless.Context, vid *videogl.VideoGL) {
	display, actual := vid.VideoDim()

	fmt.Fprintf(w, "features: %s (reported %s)\n", vid.Features(), ctx.Features())
	fmt.Fprintf(w, "video: %dx%d (decoded %dx%d)\n", display.X, display.Y, actual.X, actual.Y)
	fmt.Fprintf(w, "textures: %s", vid.TextureTarget())
	if vid.UsingPackedYUV() {
		fmt.Fprintf(w, " packed YUV")
	}
	size := vid.InputTextureSize()
	fmt.Fprintf(w, " %dx%d\n", size.X, size.Y)
	fmt.Fprintf(w, "upsize: %s\n", vid.DefaultUpsize())

	if name, on := vid.HardwareDeinterlacer(); name != "" {
		fmt.Fprintf(w, "deinterlacer: %s (on: %v, reference textures: %d)\n", name, on, len(vid.ReferenceTextures()))
	}

	for i, s := range vid.Chain() {
		fmt.Fprintf(w, "%d: %s -> %s (programs: %d, inputs: %d, framebuffers: %d)\n",
			i, s.Type, s.Output, s.Programs, s.NumInputs, s.FrameBuffers)
	}

	fmt.Fprintf(w, "live resources: %d\n", vid.LiveResources())
}
