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
	"strings"

	"github.com/jetsetilly/glvideo/gpu"
	"github.com/jetsetilly/glvideo/prefs"
)

// the key of the option that lists the features to exclude
const optionsKey = "opengloptions"

// exclusion words are matched as substrings of the opengloptions value. each
// word has a longer alias
var exclusions = []struct {
	word    string
	alias   string
	feature gpu.Feature
}{
	{"nofence", "disable-fence", gpu.FeatureFence},
	{"noswap", "disable-swap-control", gpu.FeatureSwapControl},
	{"nopbo", "disable-fast-upload", gpu.FeaturePixelBufferObject},
	{"nofbo", "disable-offscreen-buffers", gpu.FeatureFrameBufferObject},
	{"nofrag", "disable-fragment-programs", gpu.FeatureFragmentProgram},
	{"norect", "disable-rectangle-textures", gpu.FeatureRectTexture},
	{"noycbcr", "disable-packed-yuv-texture", gpu.FeaturePackedYUV},
}

// option words that are not exclusions
const (
	optionBicubic   = "openglbicubic"
	optionNoBicubic = "nobicubic"
)

// ParseOptions returns the features permitted by the options string. The
// string is a comma separated list of key=value pairs. Exclusion words are
// looked for in the value of the first pair with the key "opengloptions". The
// long form of an exclusion is also accepted as a key in its own right. Unknown
// keys and words are ignored.
func ParseOptions(options string) gpu.Feature {
	permitted := gpu.FeatureAll

	opts := prefs.SplitOptions(options)
	v, _ := opts.First(optionsKey)
	v = strings.ToLower(v)

	for _, ex := range exclusions {
		_, standalone := opts.First(ex.alias)
		if standalone || strings.Contains(v, ex.word) || strings.Contains(v, ex.alias) {
			permitted &^= ex.feature
		}
	}

	return permitted
}

// bicubicPreference returns whether bicubic was explicitly requested and
// whether it was explicitly refused.
func bicubicPreference(options string) (requested bool, refused bool) {
	opts := prefs.SplitOptions(options)
	requested = opts.Contains(optionBicubic)
	if v, ok := opts.First(optionsKey); ok {
		refused = strings.Contains(strings.ToLower(v), optionNoBicubic)
	}
	return requested, refused
}
