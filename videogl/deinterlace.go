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
	"slices"

	"github.com/jetsetilly/glvideo/curated"
	"github.com/jetsetilly/glvideo/gpu"
	"github.com/jetsetilly/glvideo/logger"
	"github.com/jetsetilly/glvideo/videoframe"
)

// the software deinterlacer that draws single fields at half height
const softwareBob = "bobdeint"

// the hardware deinterlacer that offsets the destination by half a line
const hardwareBob = "openglbobdeint"

type deinterlacerFamily int

const (
	familyNone deinterlacerFamily = iota
	familyBob
	familyLinearBlend
	familyKernel
	familyYadif
)

type deinterlacer struct {
	family deinterlacerFamily

	// the number of previous frames sampled by the programs
	refs int
}

var deinterlacers = map[string]deinterlacer{
	"openglbobdeint":              {family: familyBob},
	"openglonefield":              {family: familyBob},
	"opengldoubleratefieldorder":  {family: familyBob},
	"opengllinearblend":           {family: familyLinearBlend, refs: 2},
	"opengldoubleratelinearblend": {family: familyLinearBlend, refs: 2},
	"openglkerneldeint":           {family: familyKernel, refs: 2},
	"opengldoubleratekerneldeint": {family: familyKernel, refs: 2},
	"openglyadif":                 {family: familyYadif, refs: 3},
	"opengldoublerateyadif":       {family: familyYadif, refs: 3},
}

// lookupDeinterlacer returns the zero value for unknown names
func lookupDeinterlacer(name string) deinterlacer {
	return deinterlacers[name]
}

// Deinterlacers returns the names of the hardware deinterlacers in
// alphabetical order.
func Deinterlacers() []string {
	n := make([]string, 0, len(deinterlacers))
	for k := range deinterlacers {
		n = append(n, k)
	}
	slices.Sort(n)
	return n
}

// AddDeinterlacer adds deinterlacing to the conversion stage. Adding the
// deinterlacer that is already active does nothing. Any other deinterlacer
// is removed first. On failure no deinterlacer is active.
func (vid *VideoGL) AddDeinterlacer(name string) error {
	if !vid.initialised {
		return curated.Errorf(NotInitialised)
	}

	if !vid.features.Has(gpu.FeatureFragmentProgram) {
		return curated.Errorf(DeinterlacerError, name, "fragment programs not available")
	}

	defer gpu.Lock(vid.ctx)()

	if vid.filters[FilterYUV2RGB] == nil {
		return curated.Errorf(DeinterlacerError, name, "no conversion stage")
	}

	if vid.hardwareDeinterlacer == name {
		return nil
	}

	d, ok := deinterlacers[name]
	if !ok {
		return curated.Errorf(DeinterlacerError, name, "unknown deinterlacer")
	}

	vid.tearDownDeinterlacer()

	if err := vid.buildDeinterlacer(name, d); err != nil {
		vid.tearDownDeinterlacer()
		return curated.Errorf(DeinterlacerError, name, err)
	}

	vid.hardwareDeinterlacer = name
	vid.setFiltering()
	vid.checkResize(vid.hardwareDeinterlacing, true)

	logger.Logf(logger.Allow, logTag, "using %s deinterlacer with %d reference textures", name, d.refs)

	return nil
}

// buildDeinterlacer allocates the reference ring and the two field programs.
// resources are attached as they are created so that tearDownDeinterlacer()
// can release a partial build.
func (vid *VideoGL) buildDeinterlacer(name string, d deinterlacer) error {
	vid.refsNeeded = d.refs

	for range d.refs {
		tex, _, err := vid.pool.createTexture(vid.actualVideoDim, vid.textureTarget, vid.inputPurpose, vid.usePBO)
		if err != nil {
			return err
		}
		vid.referenceTextures = append(vid.referenceTextures, tex)
	}

	f := vid.filters[FilterYUV2RGB]
	params := vid.programParams()

	for _, scan := range []videoframe.Scan{videoframe.ScanInterlaced, videoframe.ScanIntr2ndField} {
		prog, err := vid.pool.createProgram(ProgramSource(FilterYUV2RGB, name, scan, params))
		if err != nil {
			return err
		}
		f.programs = append(f.programs, prog)
	}

	return nil
}

// TearDownDeinterlacer removes deinterlacing from the conversion stage. It is
// always safe to call.
func (vid *VideoGL) TearDownDeinterlacer() {
	if !vid.initialised {
		return
	}
	defer gpu.Lock(vid.ctx)()
	vid.tearDownDeinterlacer()
}

func (vid *VideoGL) tearDownDeinterlacer() {
	if f := vid.filters[FilterYUV2RGB]; f != nil {
		for len(f.programs) > 1 {
			last := len(f.programs) - 1
			vid.pool.deleteProgram(f.programs[last])
			f.programs = f.programs[:last]
		}
	}

	vid.pool.deleteTextures(vid.referenceTextures)
	vid.referenceTextures = nil
	vid.refsNeeded = 0
	vid.hardwareDeinterlacer = ""
}

// SetDeinterlacing turns hardware deinterlacing on or off. The deinterlacer
// must have been added with AddDeinterlacer().
func (vid *VideoGL) SetDeinterlacing(deinterlacing bool) {
	if deinterlacing == vid.hardwareDeinterlacing {
		return
	}
	vid.hardwareDeinterlacing = deinterlacing

	if !vid.initialised {
		return
	}
	defer gpu.Lock(vid.ctx)()
	vid.checkResize(vid.hardwareDeinterlacing, true)
}

// SetSoftwareDeinterlacer is a hint naming the software deinterlacer used by
// the decoder. Resizing is disabled for the "bobdeint" deinterlacer.
func (vid *VideoGL) SetSoftwareDeinterlacer(name string) {
	if name == vid.softwareDeinterlacer {
		return
	}
	vid.softwareDeinterlacer = name

	if !vid.initialised {
		return
	}
	defer gpu.Lock(vid.ctx)()
	vid.checkResize(false, name != softwareBob)
}
