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
	"image"
	"strconv"
	"strings"

	"github.com/jetsetilly/glvideo/gpu"
	"github.com/jetsetilly/glvideo/videoframe"
)

// ProgramParams are the numeric values substituted into program source.
type ProgramParams struct {
	// coordinate mode of the input textures
	Target gpu.TextureTarget

	// the distance between texels in texture coordinates
	LineHeight float32
	ColWidth   float32

	// size of the framebuffer textures. used by the bicubic filter
	FrameBuffer image.Point
}

const programHeader = `#version 150

in vec2 TexCoord;
out vec4 FragColor;

`

const conversionSamplers = `uniform %TEXTYPE% Texture0;
uniform %TEXTYPE% Texture1;
uniform %TEXTYPE% Texture2;
uniform %TEXTYPE% Texture3;
uniform mat4 ColourMatrix;

`

const bicubicSamplers = `uniform sampler2D Texture0;
uniform sampler1D Texture1;

`

// cmp() selects a when c is negative and b otherwise, for each component
const cmpFunction = `vec4 cmp(vec4 c, vec4 a, vec4 b) {
	return mix(b, a, vec4(lessThan(c, vec4(0.0))));
}

`

const mainStart = "void main() {\n"

const programEnd = "}\n"

const varConversion = "\tvec4 res;\n"

const texConversion = "\tres = texture(Texture0, TexCoord);\n"

const endConversion = "\tFragColor = vec4((ColourMatrix * vec4(res.rgb, 1.0)).rgb, res.a);\n"

const varDeint = `	const vec2 lh = vec2(0.0, %LINEHEIGHT%);
	const vec2 lh2 = vec2(0.0, %LINEHEIGHT2%);
	const vec2 cw = vec2(%COLWIDTH%, 0.0);
	vec4 other;
	vec4 current;
`

// field is negative on the lines of the first field
const fieldCalc = "\tfloat field = fract(TexCoord.y * %FIELDSIZE%) - 0.5;\n"

const deintEndFirst = "\tres = field < 0.0 ? current : other;\n"

const deintEndSecond = "\tres = field < 0.0 ? other : current;\n"

var bobDeint = [2]string{
	fieldCalc +
		"\tother = texture(Texture0, TexCoord + lh);\n" +
		"\tres = field < 0.0 ? res : other;\n",
	fieldCalc +
		"\tother = texture(Texture0, TexCoord - lh);\n" +
		"\tres = field < 0.0 ? other : res;\n",
}

var linearBlend = [2]string{
	"\tcurrent = texture(Texture1, TexCoord);\n" +
		"\tother = mix(texture(Texture1, TexCoord + lh), texture(Texture1, TexCoord - lh), 0.5);\n" +
		fieldCalc + deintEndFirst,
	"\tcurrent = texture(Texture1, TexCoord);\n" +
		"\tother = mix(texture(Texture1, TexCoord - lh), texture(Texture1, TexCoord + lh), 0.5);\n" +
		fieldCalc + deintEndSecond,
}

var kernelDeint = [2]string{
	"\tcurrent = texture(Texture1, TexCoord);\n" +
		"\tother = 0.125 * texture(Texture2, TexCoord) + 0.125 * current;\n" +
		"\tother += 0.5 * texture(Texture1, TexCoord + lh);\n" +
		"\tother += 0.5 * texture(Texture1, TexCoord - lh);\n" +
		"\tother -= 0.0625 * texture(Texture1, TexCoord + lh2);\n" +
		"\tother -= 0.0625 * texture(Texture2, TexCoord + lh2);\n" +
		"\tother -= 0.0625 * texture(Texture1, TexCoord - lh2);\n" +
		"\tother -= 0.0625 * texture(Texture2, TexCoord - lh2);\n" +
		fieldCalc + deintEndFirst,
	"\tcurrent = texture(Texture1, TexCoord);\n" +
		"\tother = 0.125 * res + 0.125 * current;\n" +
		"\tother += 0.5 * texture(Texture1, TexCoord + lh);\n" +
		"\tother += 0.5 * texture(Texture1, TexCoord - lh);\n" +
		"\tother -= 0.0625 * texture(Texture1, TexCoord + lh2);\n" +
		"\tother -= 0.0625 * texture(Texture0, TexCoord + lh2);\n" +
		"\tother -= 0.0625 * texture(Texture1, TexCoord - lh2);\n" +
		"\tother -= 0.0625 * texture(Texture0, TexCoord - lh2);\n" +
		fieldCalc + deintEndSecond,
}

// samples of the current frame for the spatial prediction. up[] is the line
// above and dn[] is the line below. index 3 is the centre column
const yadifSpatialSample = `	vec4 up[7];
	vec4 dn[7];
	for (int n = 0; n < 7; n++) {
		up[n] = texture(Texture1, TexCoord + lh + cw * float(n - 3));
		dn[n] = texture(Texture1, TexCoord - lh + cw * float(n - 3));
	}
`

// a, b: previous and current frame around the line above
// c, h: the line two above
// d, i: temporal neighbours of the missing sample
// e, j: the line two below
// f, g: current frame one line above and below
// k, l: next frame one line above and below
const yadifCalc = `	vec4 p0 = mix(c, h, 0.5);
	vec4 p1 = f;
	vec4 p2 = mix(d, i, 0.5);
	vec4 p3 = g;
	vec4 p4 = mix(e, j, 0.5);

	vec4 diff0 = abs(d - i);
	vec4 diff1 = mix(abs(b - g), abs(a - f), 0.5);
	vec4 diff2 = mix(abs(g - l), abs(k - f), 0.5);
	diff0 = max(diff0, max(diff1, diff2));

	vec4 dmax = max(min(p0 - p1, p4 - p3), max(p2 - p1, p2 - p3));
	vec4 dmin = min(max(p0 - p1, p4 - p3), min(p2 - p1, p2 - p3));
	diff0 = max(diff0, max(dmin, -dmax));

	vec4 spred = mix(up[3], dn[3], 0.5);
	vec4 sscore = abs(up[2] - dn[2]) + abs(up[3] - dn[3]) + abs(up[4] - dn[4]) - 1.0;

	vec4 score1 = abs(up[1] - dn[3]) + abs(up[2] - dn[4]) + abs(up[3] - dn[5]);
	vec4 score2 = abs(up[0] - dn[4]) + abs(up[1] - dn[5]) + abs(up[2] - dn[6]);
	vec4 score3 = abs(up[3] - dn[1]) + abs(up[4] - dn[2]) + abs(up[5] - dn[3]);
	vec4 score4 = abs(up[4] - dn[0]) + abs(up[5] - dn[1]) + abs(up[6] - dn[2]);

	vec4 if1 = sscore - score1;
	vec4 if2 = cmp(if1, vec4(-1.0), score1 - score2);
	spred = cmp(if1, spred, mix(up[2], dn[4], 0.5));
	spred = cmp(if2, spred, mix(up[1], dn[5], 0.5));
	sscore = cmp(if1, sscore, score1);
	sscore = cmp(if2, sscore, score2);

	if1 = sscore - score3;
	if2 = cmp(if1, vec4(-1.0), score3 - score4);
	spred = cmp(if1, spred, mix(up[4], dn[2], 0.5));
	spred = cmp(if2, spred, mix(up[5], dn[1], 0.5));

	vec4 hi = p2 + diff0;
	vec4 lo = p2 - diff0;
	spred = cmp(hi - spred, hi, spred);
	spred = cmp(spred - lo, lo, spred);
`

var yadif = [2]string{
	"\tcurrent = texture(Texture1, TexCoord);\n" +
		"\tvec4 d = texture(Texture2, TexCoord);\n" +
		"\tvec4 i = current;\n" +
		"\tvec4 a = texture(Texture2, TexCoord + lh);\n" +
		"\tvec4 f = texture(Texture1, TexCoord + lh);\n" +
		"\tvec4 k = texture(Texture0, TexCoord + lh);\n" +
		"\tvec4 c = texture(Texture2, TexCoord + lh2);\n" +
		"\tvec4 h = texture(Texture1, TexCoord + lh2);\n" +
		"\tvec4 b = texture(Texture2, TexCoord - lh);\n" +
		"\tvec4 g = texture(Texture1, TexCoord - lh);\n" +
		"\tvec4 l = texture(Texture0, TexCoord - lh);\n" +
		"\tvec4 e = texture(Texture2, TexCoord - lh2);\n" +
		"\tvec4 j = texture(Texture1, TexCoord - lh2);\n" +
		yadifSpatialSample + yadifCalc + fieldCalc +
		"\tres = field < 0.0 ? current : spred;\n",
	"\tcurrent = texture(Texture1, TexCoord);\n" +
		"\tvec4 d = current;\n" +
		"\tvec4 i = texture(Texture0, TexCoord);\n" +
		"\tvec4 a = texture(Texture2, TexCoord + lh);\n" +
		"\tvec4 f = texture(Texture1, TexCoord + lh);\n" +
		"\tvec4 k = texture(Texture0, TexCoord + lh);\n" +
		"\tvec4 c = texture(Texture1, TexCoord + lh2);\n" +
		"\tvec4 h = texture(Texture0, TexCoord + lh2);\n" +
		"\tvec4 b = texture(Texture2, TexCoord - lh);\n" +
		"\tvec4 g = texture(Texture1, TexCoord - lh);\n" +
		"\tvec4 l = texture(Texture0, TexCoord - lh);\n" +
		"\tvec4 e = texture(Texture1, TexCoord - lh2);\n" +
		"\tvec4 j = texture(Texture0, TexCoord - lh2);\n" +
		yadifSpatialSample + yadifCalc + fieldCalc +
		"\tres = field < 0.0 ? spred : current;\n",
}

// the helper texture holds the offsets (r and g) and the weight (b) of the
// two linear samples that make up each cubic B-spline sample
const bicubic = `	vec2 coord = TexCoord * vec2(%FBWIDTH%, %FBHEIGHT%) + vec2(0.5);
	vec4 parmx = texture(Texture1, coord.x);
	vec4 parmy = texture(Texture1, coord.y);
	vec4 cdelta = vec4(-parmx.r * %COLWIDTH%, -parmy.r * %LINEHEIGHT%, parmx.g * %COLWIDTH%, parmy.g * %LINEHEIGHT%);
	vec4 a = texture(Texture0, TexCoord + cdelta.xy);
	vec4 b = texture(Texture0, TexCoord + cdelta.xw);
	vec4 c = texture(Texture0, TexCoord + cdelta.zy);
	vec4 d = texture(Texture0, TexCoord + cdelta.zw);
	a = mix(b, a, parmy.b);
	c = mix(d, c, parmy.b);
	FragColor = mix(c, a, parmx.b);
`

func formatFloat(v float32, prec int) string {
	return strconv.FormatFloat(float64(v), 'f', prec, 32)
}

// ProgramSource returns the source of the fragment program for the filter.
// For the conversion filter, the deinterlacer and scan select the
// deinterlacing variant. An empty deinterlacer name or a scan of
// ScanProgressive selects plain conversion. The function returns the empty
// string for filters that do not use a program.
//
// The same arguments always produce the same source.
func ProgramSource(kind FilterType, deint string, scan videoframe.Scan, params ProgramParams) string {
	s := strings.Builder{}
	s.WriteString(programHeader)

	switch kind {
	case FilterYUV2RGB:
		needTex := true
		body := ""
		helpers := ""

		if deint != "" && scan != videoframe.ScanProgressive {
			field := 0
			if scan == videoframe.ScanIntr2ndField {
				field = 1
			}

			switch lookupDeinterlacer(deint).family {
			case familyBob:
				body = bobDeint[field]
			case familyLinearBlend:
				body = linearBlend[field]
				needTex = field == 1
			case familyKernel:
				body = kernelDeint[field]
				needTex = field == 1
			case familyYadif:
				body = yadif[field]
				helpers = cmpFunction
				needTex = false
			}
		}

		s.WriteString(conversionSamplers)
		s.WriteString(helpers)
		s.WriteString(mainStart)
		s.WriteString(varConversion)
		if body != "" {
			s.WriteString(varDeint)
		}
		if needTex {
			s.WriteString(texConversion)
		}
		s.WriteString(body)
		s.WriteString(endConversion)

	case FilterBicubic:
		s.WriteString(bicubicSamplers)
		s.WriteString(mainStart)
		s.WriteString(bicubic)

	default:
		return ""
	}

	s.WriteString(programEnd)

	texType := "sampler2D"
	if params.Target == gpu.TargetRect {
		texType = "sampler2DRect"
	}

	fieldSize := float32(0.5)
	if params.LineHeight > 0 {
		fieldSize = 1.0 / (params.LineHeight * 2.0)
	}

	r := strings.NewReplacer(
		"%TEXTYPE%", texType,
		"%FIELDSIZE%", formatFloat(fieldSize, 8),
		"%LINEHEIGHT2%", formatFloat(params.LineHeight*2.0, 8),
		"%LINEHEIGHT%", formatFloat(params.LineHeight, 8),
		"%COLWIDTH%", formatFloat(params.ColWidth, 8),
		"%FBWIDTH%", formatFloat(float32(params.FrameBuffer.X), 1),
		"%FBHEIGHT%", formatFloat(float32(params.FrameBuffer.Y), 1),
	)

	return r.Replace(s.String())
}

// the number of entries in the bicubic helper texture
const bicubicTableSize = 256

// bicubicTable returns the contents of the bicubic helper texture. Each entry
// has four components: the offset of the left sample, the offset of the right
// sample, the weight of the left sample and zero.
func bicubicTable() []float32 {
	t := make([]float32, 0, bicubicTableSize*4)

	for i := 0; i < bicubicTableSize; i++ {
		x := (float64(i) + 0.5) / bicubicTableSize

		w0 := (((-x+3)*x-3)*x + 1) / 6
		w1 := ((3*x-6)*x*x + 4) / 6
		w2 := (((-3*x+3)*x+3)*x + 1) / 6
		w3 := x * x * x / 6

		h0 := 1 - w1/(w0+w1) + x
		h1 := 1 + w3/(w2+w3) - x
		g0 := w0 + w1

		t = append(t, float32(h0), float32(h1), float32(g0), 0)
	}

	return t
}
