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

package videogl_test

import (
	"testing"

	"github.com/jetsetilly/glvideo/gpu"
	"github.com/jetsetilly/glvideo/test"
	"github.com/jetsetilly/glvideo/videogl"
)

func TestParseOptions(t *testing.T) {
	tests := []struct {
		options  string
		excluded gpu.Feature
	}{
		{"", gpu.FeatureNone},
		{"opengloptions=", gpu.FeatureNone},
		{"foo=nofbo", gpu.FeatureNone},
		{"nofbo", gpu.FeatureNone},
		{"opengloptions=nofence", gpu.FeatureFence},
		{"opengloptions=disable-fence", gpu.FeatureFence},
		{"opengloptions=noswap", gpu.FeatureSwapControl},
		{"opengloptions=disable-swap-control", gpu.FeatureSwapControl},
		{"opengloptions=nopbo", gpu.FeaturePixelBufferObject},
		{"opengloptions=disable-fast-upload", gpu.FeaturePixelBufferObject},
		{"opengloptions=nofbo", gpu.FeatureFrameBufferObject},
		{"opengloptions=disable-offscreen-buffers", gpu.FeatureFrameBufferObject},
		{"opengloptions=nofrag", gpu.FeatureFragmentProgram},
		{"opengloptions=disable-fragment-programs", gpu.FeatureFragmentProgram},
		{"opengloptions=norect", gpu.FeatureRectTexture},
		{"opengloptions=disable-rectangle-textures", gpu.FeatureRectTexture},
		{"opengloptions=noycbcr", gpu.FeaturePackedYUV},
		{"opengloptions=disable-packed-yuv-texture", gpu.FeaturePackedYUV},

		// words are matched anywhere in the value
		{"opengloptions=nofbo+nopbo", gpu.FeatureFrameBufferObject | gpu.FeaturePixelBufferObject},
		{"opengloptions=NoRect-NoFrag", gpu.FeatureRectTexture | gpu.FeatureFragmentProgram},
		{"OpenGLOptions = nofence", gpu.FeatureFence},

		// other keys are ignored
		{"openglbicubic=1,opengloptions=noswap,foo=bar", gpu.FeatureSwapControl},

		// only the first opengloptions is used
		{"opengloptions=nofence,opengloptions=nofbo", gpu.FeatureFence},

		// long forms are accepted outside of opengloptions
		{"disable-fence", gpu.FeatureFence},
		{"foo=bar, Disable-Offscreen-Buffers", gpu.FeatureFrameBufferObject},
		{"opengloptions=nofence,disable-fast-upload", gpu.FeatureFence | gpu.FeaturePixelBufferObject},
		{"disable-rectangle-textures=1", gpu.FeatureRectTexture},

		// unknown words are ignored
		{"opengloptions=nothing", gpu.FeatureNone},
	}

	for _, tt := range tests {
		test.ExpectEquality(t, videogl.ParseOptions(tt.options), gpu.FeatureAll&^tt.excluded, tt.options)
	}
}

func TestOptionsNeverAddFeatures(t *testing.T) {
	for _, o := range []string{"", "opengloptions=nofbo", "openglbicubic"} {
		test.ExpectEquality(t, videogl.ParseOptions(o)&^gpu.FeatureAll, gpu.FeatureNone, o)
	}
}
