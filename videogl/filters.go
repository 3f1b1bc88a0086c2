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

package videogl

import (
	"github.com/jetsetilly/glvideo/gpu"
)

// FilterType identifies a stage of the filter chain. Stages are rendered in
// ascending FilterType order.
type FilterType int

// List of valid FilterType values.
const (
	FilterNone FilterType = iota
	FilterYUV2RGB
	FilterResize
	FilterBicubic
	numFilterTypes
)

// the properties of each filter type
var filterTable = [numFilterTypes]struct {
	name string

	// the filter uses a fragment program. filters without a program are
	// drawn with the context's passthrough program
	program bool

	// the filter samples the bicubic helper texture
	helper bool

	// features required to create the filter
	requires gpu.Feature
}{
	FilterNone:    {name: "none"},
	FilterYUV2RGB: {name: "master", program: true, requires: gpu.FeatureFragmentProgram},
	FilterResize:  {name: "resize"},
	FilterBicubic: {name: "bicubic", program: true, helper: true, requires: gpu.FeatureFragmentProgram | gpu.FeatureFrameBufferObject},
}

func (t FilterType) String() string {
	if t < 0 || t >= numFilterTypes {
		return "unknown"
	}
	return filterTable[t].name
}

// ParseFilterType is the reverse of String(). The second return value is
// false if the name is not recognised.
func ParseFilterType(name string) (FilterType, bool) {
	for t := FilterNone + 1; t < numFilterTypes; t++ {
		if filterTable[t].name == name {
			return t, true
		}
	}
	return FilterNone, false
}

// Output is the render target of a stage.
type Output int

// List of valid Output values.
const (
	OutputDefault Output = iota
	OutputFrameBuffer
)

func (o Output) String() string {
	switch o {
	case OutputDefault:
		return "default"
	case OutputFrameBuffer:
		return "framebuffer"
	}
	return "unknown"
}

// filter is a single stage of the chain. handles are owned by the pool.
type filter struct {
	programs            []gpu.Program
	numInputs           int
	frameBuffers        []gpu.FrameBuffer
	frameBufferTextures []gpu.Texture
	output              Output
}

// Stage describes a stage of the filter chain. It is returned by Chain() for
// inspection.
type Stage struct {
	Type         FilterType
	Programs     int
	NumInputs    int
	FrameBuffers int
	Output       Output
}

// chain returns the types of the stages in render order
func (vid *VideoGL) chain() []FilterType {
	var c []FilterType
	for t := FilterNone; t < numFilterTypes; t++ {
		if vid.filters[t] != nil {
			c = append(c, t)
		}
	}
	return c
}

// Chain returns a description of the filter chain in render order.
func (vid *VideoGL) Chain() []Stage {
	var s []Stage
	for _, t := range vid.chain() {
		f := vid.filters[t]
		s = append(s, Stage{
			Type:         t,
			Programs:     len(f.programs),
			NumInputs:    f.numInputs,
			FrameBuffers: len(f.frameBuffers),
			Output:       f.output,
		})
	}
	return s
}
