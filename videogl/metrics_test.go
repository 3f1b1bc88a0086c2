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
	"github.com/jetsetilly/glvideo/gpu/headless"
	"github.com/jetsetilly/glvideo/test"
	"github.com/jetsetilly/glvideo/videogl"
	"github.com/jetsetilly/glvideo/videoframe"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func gauge(t *testing.T, families []*dto.MetricFamily, name string) float64 {
	t.Helper()
	for _, mf := range families {
		if mf.GetName() == name {
			test.DemandEquality(t, len(mf.GetMetric()), 1)
			return mf.GetMetric()[0].GetGauge().GetValue()
		}
	}
	t.Fatalf("no metric family named %s", name)
	return 0
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := videogl.NewMetrics(reg)

	ctx := headless.NewContext(gpu.FeatureAll)
	vid := videogl.NewVideoGL(m)
	test.DemandSuccess(t, vid.Init(ctx, config(sd, fullHD, "")))

	families, err := reg.Gather()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, gauge(t, families, "glvideo_chain_length"), 2.0)
	test.ExpectEquality(t, gauge(t, families, "glvideo_live_resources"), float64(ctx.LiveTotal()))

	test.ExpectEquality(t, testutil.ToFloat64(m.ChainChanges.WithLabelValues("master", "added")), 1.0)
	test.ExpectEquality(t, testutil.ToFloat64(m.ChainChanges.WithLabelValues("bicubic", "added")), 1.0)

	tc := videoframe.NewTestCard(sd.X, sd.Y, false)
	for range 3 {
		test.DemandSuccess(t, vid.UpdateInputFrame(tc.Next(), false))
		vid.PrepareFrame(true, videoframe.ScanProgressive, false, 0, false)
	}
	test.ExpectEquality(t, testutil.ToFloat64(m.FramesUploaded), 3.0)
	test.ExpectEquality(t, testutil.ToFloat64(m.FramesPrepared), 3.0)

	test.ExpectFailure(t, vid.UpdateInputFrame(videoframe.NewYV12(16, 16), false))
	test.ExpectEquality(t, testutil.ToFloat64(m.FramesRejected.WithLabelValues("dimensions")), 1.0)
	test.ExpectEquality(t, testutil.ToFloat64(m.FramesUploaded), 3.0)

	vid.SetSoftwareDeinterlacer("bobdeint")
	test.ExpectEquality(t, testutil.ToFloat64(m.ChainChanges.WithLabelValues("bicubic", "removed")), 1.0)
	test.ExpectEquality(t, testutil.ToFloat64(m.ChainLength), 1.0)

	vid.Teardown()
	test.ExpectEquality(t, testutil.ToFloat64(m.LiveResources), 0.0)
	test.ExpectEquality(t, testutil.ToFloat64(m.ChainLength), 0.0)
}

func TestNilMetrics(t *testing.T) {
	// a nil Metrics records nothing and does not panic
	ctx, vid := setup(t, gpu.FeatureAll, config(sd, fullHD, ""))
	test.DemandSuccess(t, vid.UpdateInputFrame(videoframe.NewYV12(sd.X, sd.Y), false))
	vid.PrepareFrame(true, videoframe.ScanProgressive, false, 0, false)
	vid.Teardown()
	test.ExpectEquality(t, ctx.LiveTotal(), 0)
}
