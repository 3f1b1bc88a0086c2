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

package gpu

import (
	"strings"
)

// Feature is a bit set of GPU features.
type Feature uint32

// List of valid Feature values.
const (
	FeatureFence Feature = 1 << iota
	FeatureSwapControl
	FeaturePixelBufferObject
	FeatureFrameBufferObject
	FeatureFragmentProgram
	FeatureRectTexture
	FeaturePackedYUV

	// every feature
	FeatureAll = FeatureFence | FeatureSwapControl | FeaturePixelBufferObject |
		FeatureFrameBufferObject | FeatureFragmentProgram | FeatureRectTexture |
		FeaturePackedYUV

	// no feature
	FeatureNone Feature = 0
)

var featureNames = []struct {
	f    Feature
	name string
}{
	{FeatureFence, "fence"},
	{FeatureSwapControl, "swap"},
	{FeaturePixelBufferObject, "pbo"},
	{FeatureFrameBufferObject, "fbo"},
	{FeatureFragmentProgram, "frag"},
	{FeatureRectTexture, "rect"},
	{FeaturePackedYUV, "ycbcr"},
}

// Has returns true if every feature in g is present.
func (f Feature) Has(g Feature) bool {
	return f&g == g
}

func (f Feature) String() string {
	if f == FeatureNone {
		return "none"
	}
	s := strings.Builder{}
	for _, n := range featureNames {
		if f&n.f == n.f {
			if s.Len() > 0 {
				s.WriteRune('|')
			}
			s.WriteString(n.name)
		}
	}
	return s.String()
}

// ParseFeatures is the reverse of String(). Names are separated by a vertical
// bar, a comma or a space. Unrecognised names are ignored. The name "all"
// selects every feature.
func ParseFeatures(s string) Feature {
	var f Feature
	for _, n := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == '|' || r == ',' || r == ' '
	}) {
		if n == "all" {
			f |= FeatureAll
			continue
		}
		for _, fn := range featureNames {
			if fn.name == n {
				f |= fn.f
			}
		}
	}
	return f
}
