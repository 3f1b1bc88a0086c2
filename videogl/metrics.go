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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics for a VideoGL instance. A nil Metrics is valid and records nothing.
type Metrics struct {
	FramesPrepared prometheus.Counter
	FramesUploaded prometheus.Counter
	FramesRejected *prometheus.CounterVec
	ChainChanges   *prometheus.CounterVec
	LiveResources  prometheus.Gauge
	ChainLength    prometheus.Gauge
}

// NewMetrics creates the metrics and registers them with the registerer. The
// default registerer is used if reg is nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Metrics{
		FramesPrepared: f.NewCounter(prometheus.CounterOpts{
			Name: "glvideo_frames_prepared_total",
			Help: "Total number of frames drawn through the filter chain",
		}),
		FramesUploaded: f.NewCounter(prometheus.CounterOpts{
			Name: "glvideo_frames_uploaded_total",
			Help: "Total number of frames uploaded to the input texture",
		}),
		FramesRejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "glvideo_frames_rejected_total",
			Help: "Total number of frames rejected by UpdateInputFrame",
		}, []string{"reason"}),
		ChainChanges: f.NewCounterVec(prometheus.CounterOpts{
			Name: "glvideo_chain_changes_total",
			Help: "Total number of filter stages added or removed",
		}, []string{"filter", "change"}),
		LiveResources: f.NewGauge(prometheus.GaugeOpts{
			Name: "glvideo_live_resources",
			Help: "Number of GPU handles currently owned by the pipeline",
		}),
		ChainLength: f.NewGauge(prometheus.GaugeOpts{
			Name: "glvideo_chain_length",
			Help: "Number of stages in the filter chain",
		}),
	}
}

func (m *Metrics) prepared() {
	if m == nil {
		return
	}
	m.FramesPrepared.Inc()
}

func (m *Metrics) uploaded() {
	if m == nil {
		return
	}
	m.FramesUploaded.Inc()
}

func (m *Metrics) rejected(reason string) {
	if m == nil {
		return
	}
	m.FramesRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) chainChanged(t FilterType, added bool, length int) {
	if m == nil {
		return
	}
	change := "removed"
	if added {
		change = "added"
	}
	m.ChainChanges.WithLabelValues(t.String(), change).Inc()
	m.ChainLength.Set(float64(length))
}

func (m *Metrics) setChainLength(length int) {
	if m == nil {
		return
	}
	m.ChainLength.Set(float64(length))
}

func (m *Metrics) setLive(n int) {
	if m == nil {
		return
	}
	m.LiveResources.Set(float64(n))
}
