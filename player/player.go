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


package player

import (
	"strings"

	"github.com/jetsetilly/glvideo/curated"
	"github.com/jetsetilly/glvideo/videoframe"
	"github.com/jetsetilly/glvideo/videogl"
)

// Source is anything that can supply decoded frames. The videoframe.TestCard
// type satisfies the interface.
type Source interface {
	Next() *videoframe.Frame
}

// Pipeline is the part of videogl.VideoGL used by the player.
type Pipeline interface {
	UpdateInputFrame(frame *videoframe.Frame, softBob bool) error
	PrepareFrame(topFieldFirst bool, scan videoframe.Scan, softwareDeinterlacing bool, frame int64, drawBorder bool)
	HardwareDeinterlacer() (string, bool)
	SoftwareDeinterlacer() string
}

// StepError is the pattern used for errors returned by Step().
const StepError = "player: frame %d: %v"

// software deinterlacer hint that draws each field separately
const softwareBob = "bobdeint"

// Player presents frames from a Source.
type Player struct {
	vid     Pipeline
	src     Source
	present func()

	// draw a border around the video
	Border bool

	frames int64
	fields int64
}

// NewPlayer is the preferred method of initialisation for the Player type.
// The present argument can be nil.
func NewPlayer(vid Pipeline, src Source, present func()) *Player {
	if present == nil {
		present = func() {}
	}
	return &Player{
		vid:     vid,
		src:     src,
		present: present,
	}
}

// Scans returns the fields that are displayed for the frame. Double rate
// deinterlacers and bob deinterlacers show both fields of an interlaced
// frame. Other deinterlacers show the first field only. Progressive frames
// and frames that are not being deinterlaced are shown once.
func Scans(frame *videoframe.Frame, vid Pipeline) []videoframe.Scan {
	if !frame.Interlaced {
		return []videoframe.Scan{videoframe.ScanProgressive}
	}

	if vid.SoftwareDeinterlacer() == softwareBob {
		return []videoframe.Scan{videoframe.ScanInterlaced, videoframe.ScanIntr2ndField}
	}

	name, deinterlacing := vid.HardwareDeinterlacer()
	if !deinterlacing || name == "" {
		return []videoframe.Scan{videoframe.ScanProgressive}
	}

	if strings.Contains(name, "doublerate") || strings.Contains(name, "bobdeint") {
		return []videoframe.Scan{videoframe.ScanInterlaced, videoframe.ScanIntr2ndField}
	}
	return []videoframe.Scan{videoframe.ScanInterlaced}
}

// Step uploads the next frame from the source and prepares every field of
// it. The present function is called after each field.
func (p *Player) Step() error {
	frame := p.src.Next()
	if frame == nil {
		return curated.Errorf(StepError, p.frames, "no frame")
	}

	softBob := p.vid.SoftwareDeinterlacer() == softwareBob

	if err := p.vid.UpdateInputFrame(frame, softBob); err != nil {
		return curated.Errorf(StepError, frame.FrameNumber, err)
	}

	for _, scan := range Scans(frame, p.vid) {
		p.vid.PrepareFrame(frame.TopFieldFirst, scan, softBob && frame.Interlaced, frame.FrameNumber, p.Border)
		p.present()
		p.fields++
	}
	p.frames++

	return nil
}

// Count returns the number of frames uploaded and the number of fields
// presented.
func (p *Player) Count() (frames int64, fields int64) {
	return p.frames, p.fields
}

// make sure VideoGL satisfies the Pipeline interface
var _ Pipeline = (*videogl.VideoGL)(nil)
