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

package videoframe

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
)

// seventy five percent colour bars
var bars = []color.RGBA{
	{R: 191, G: 191, B: 191, A: 255},
	{R: 191, G: 191, B: 0, A: 255},
	{R: 0, G: 191, B: 191, A: 255},
	{R: 0, G: 191, B: 0, A: 255},
	{R: 191, G: 0, B: 191, A: 255},
	{R: 191, G: 0, B: 0, A: 255},
	{R: 0, G: 0, B: 191, A: 255},
}

// TestCard generates frames showing colour bars and a moving vertical bar.
// For interlaced test cards each field is drawn at a different moment in
// time, so the moving bar shows combing if the frame is not deinterlaced.
type TestCard struct {
	width         int
	height        int
	interlaced    bool
	topFieldFirst bool

	// the static part of the test card
	background *image.RGBA

	frameNum int64
}

// NewTestCard is the preferred method of initialisation for the TestCard type.
func NewTestCard(width int, height int, interlaced bool) *TestCard {
	tc := &TestCard{
		width:         width,
		height:        height,
		interlaced:    interlaced,
		topFieldFirst: true,
	}

	dc := gg.NewContext(width, height)
	dc.SetRGB(0, 0, 0)
	dc.Clear()

	bw := float64(width) / float64(len(bars))
	bh := float64(height) * 2 / 3
	for i, c := range bars {
		dc.SetColor(c)
		dc.DrawRectangle(float64(i)*bw, 0, bw+1, bh)
		dc.Fill()
	}

	// greyscale ramp along the bottom
	steps := 8
	sw := float64(width) / float64(steps)
	for i := 0; i < steps; i++ {
		v := float64(i) / float64(steps-1)
		dc.SetRGB(v, v, v)
		dc.DrawRectangle(float64(i)*sw, float64(height)*5/6, sw+1, float64(height)/6)
		dc.Fill()
	}

	tc.background = dc.Image().(*image.RGBA)

	return tc
}

// draw the test card at the moment in time. time is measured in fields
func (tc *TestCard) draw(t float64) *image.RGBA {
	img := image.NewRGBA(tc.background.Rect)
	copy(img.Pix, tc.background.Pix)

	dc := gg.NewContextForRGBA(img)

	// the moving bar crosses the screen once every 120 fields
	period := 120.0
	x := float64(tc.width) * (t - period*float64(int64(t/period))) / period
	dc.SetRGB(1, 1, 1)
	dc.DrawRectangle(x, float64(tc.height)*2/3, float64(tc.width)/40+1, float64(tc.height)/6)
	dc.Fill()

	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(fmt.Sprintf("%d", tc.frameNum), float64(tc.width)/2, float64(tc.height)*3/4, 0.5, 0.5)

	return img
}

// Next returns the next frame of the test card.
func (tc *TestCard) Next() *Frame {
	var img *image.RGBA

	if tc.interlaced {
		first := tc.draw(float64(tc.frameNum * 2))
		second := tc.draw(float64(tc.frameNum*2 + 1))

		// the first field occupies the even lines if the top field is first
		img = first
		start := 1
		if !tc.topFieldFirst {
			start = 0
		}
		for y := start; y < tc.height; y += 2 {
			o := y * img.Stride
			copy(img.Pix[o:o+img.Stride], second.Pix[o:o+img.Stride])
		}
	} else {
		img = tc.draw(float64(tc.frameNum * 2))
	}

	f := FromImage(img)
	f.Interlaced = tc.interlaced
	f.TopFieldFirst = tc.interlaced && tc.topFieldFirst
	f.FrameNumber = tc.frameNum
	tc.frameNum++

	return f
}
