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

// Package colourspace creates the matrix that converts YCbCr texels to RGB.
// The matrix incorporates the picture attributes (brightness, contrast,
// colour and hue) and the choice between studio and full range levels.
//
// Attributes are prefs values in the range 0 to 100. Changing an attribute
// invalidates the cached matrix. Attributes can be disabled with
// SetSupportedAttributes() in which case the neutral value is used when
// calculating the matrix, regardless of the attribute's value.
package colourspace

import (
	"math"
	"strings"
	"sync"

	"github.com/jetsetilly/glvideo/prefs"
	"golang.org/x/image/math/f32"
)

// Attribute is a bit set of picture attributes.
type Attribute int

// List of valid Attribute values.
const (
	AttrBrightness Attribute = 1 << iota
	AttrContrast
	AttrColour
	AttrHue
	AttrStudioLevels

	AttrNone Attribute = 0
	AttrAll            = AttrBrightness | AttrContrast | AttrColour | AttrHue | AttrStudioLevels
)

func (a Attribute) String() string {
	if a == AttrNone {
		return "none"
	}
	var s []string
	for _, n := range []struct {
		a    Attribute
		name string
	}{
		{AttrBrightness, "brightness"},
		{AttrContrast, "contrast"},
		{AttrColour, "colour"},
		{AttrHue, "hue"},
		{AttrStudioLevels, "studio"},
	} {
		if a&n.a == n.a {
			s = append(s, n.name)
		}
	}
	return strings.Join(s, "|")
}

// BT.601 conversion coefficients
const (
	kr = 1.402
	kg = 0.344136
	kb = 0.714136
	kc = 1.772
)

// ColourSpace holds the picture attributes and the matrix derived from them.
type ColourSpace struct {
	Brightness   prefs.Float
	Contrast     prefs.Float
	Colour       prefs.Float
	Hue          prefs.Float
	StudioLevels prefs.Bool

	crit      sync.Mutex
	supported Attribute
	changed   bool
	matrix    f32.Mat4
}

// NewColourSpace is the preferred method of initialisation for the
// ColourSpace type. All attributes are supported and set to their neutral
// values.
func NewColourSpace() *ColourSpace {
	cs := &ColourSpace{
		supported: AttrAll,
		changed:   true,
	}

	cs.Brightness.SetRange(0, 100, 50)
	cs.Contrast.SetRange(0, 100, 50)
	cs.Colour.SetRange(0, 100, 50)
	cs.Hue.SetRange(0, 100, 0)

	invalidate := func(prefs.Value) error {
		cs.crit.Lock()
		defer cs.crit.Unlock()
		cs.changed = true
		return nil
	}
	cs.Brightness.SetHookPost(invalidate)
	cs.Contrast.SetHookPost(invalidate)
	cs.Colour.SetHookPost(invalidate)
	cs.Hue.SetHookPost(invalidate)
	cs.StudioLevels.SetHookPost(invalidate)

	cs.SetDefaults()

	return cs
}

// SetDefaults sets every attribute to its neutral value.
func (cs *ColourSpace) SetDefaults() {
	cs.Brightness.Reset()
	cs.Contrast.Reset()
	cs.Colour.Reset()
	cs.Hue.Reset()
	cs.StudioLevels.Reset()
}

// SetSupportedAttributes limits the attributes that affect the matrix.
func (cs *ColourSpace) SetSupportedAttributes(supported Attribute) {
	cs.crit.Lock()
	defer cs.crit.Unlock()
	cs.supported = supported
	cs.changed = true
}

// SupportedAttributes returns the attributes that affect the matrix.
func (cs *ColourSpace) SupportedAttributes() Attribute {
	cs.crit.Lock()
	defer cs.crit.Unlock()
	return cs.supported
}

// attribute returns the value of the pref or the neutral value if the
// attribute is not supported.
func (cs *ColourSpace) attribute(a Attribute, p *prefs.Float, neutral float64) float64 {
	if cs.supported&a != a {
		return neutral
	}
	return p.Get().(float64)
}

// Matrix returns the conversion matrix in row major order. The matrix is
// applied to the vector (Y, Cb, Cr, 1) with each component in the range 0 to
// 1.
func (cs *ColourSpace) Matrix() f32.Mat4 {
	cs.crit.Lock()
	defer cs.crit.Unlock()

	if !cs.changed {
		return cs.matrix
	}
	cs.changed = false

	brightness := cs.attribute(AttrBrightness, &cs.Brightness, 50)*0.02 - 1.0
	contrast := cs.attribute(AttrContrast, &cs.Contrast, 50) * 0.02
	saturation := cs.attribute(AttrColour, &cs.Colour, 50) * 0.02
	hue := cs.attribute(AttrHue, &cs.Hue, 0) * -3.6 * math.Pi / 180.0

	studio := cs.supported&AttrStudioLevels == AttrStudioLevels && cs.StudioLevels.Get().(bool)

	lumaRange := 219.0
	chromaRange := 224.0
	lumaOffset := -16.0 / 255.0
	if studio {
		lumaRange = 255.0
		chromaRange = 255.0
		lumaOffset = 0.0
	}

	ls := contrast * 255.0 / lumaRange
	cscale := contrast * saturation * 255.0 / chromaRange
	uc := cscale * math.Cos(hue)
	us := cscale * math.Sin(hue)

	// coefficients for the centred chroma values. the hue rotation is
	// applied before the BT.601 conversion
	rows := [3][2]float64{
		{kr * us, kr * uc},
		{-kg*uc - kb*us, kg*us - kb*uc},
		{kc * uc, -kc * us},
	}

	for i, r := range rows {
		cs.matrix[i*4+0] = float32(ls)
		cs.matrix[i*4+1] = float32(r[0])
		cs.matrix[i*4+2] = float32(r[1])
		cs.matrix[i*4+3] = float32(ls*lumaOffset + brightness - 0.5*(r[0]+r[1]))
	}
	cs.matrix[12] = 0
	cs.matrix[13] = 0
	cs.matrix[14] = 0
	cs.matrix[15] = 1

	return cs.matrix
}
