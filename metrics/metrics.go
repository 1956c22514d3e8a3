//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

// Package metrics counts model events and view repaints with prometheus.
package metrics

import (
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/timburks/fortplan/grid"
	"github.com/timburks/fortplan/level"
)

// Redraw kinds recorded by raster views.
const (
	RedrawFull    = "full"
	RedrawBlock   = "block"
	RedrawOverlay = "overlay"
)

type Metrics struct {
	registry *prometheus.Registry
	events   *prometheus.CounterVec
	cells    prometheus.Counter
	redraws  *prometheus.CounterVec
}

// New returns counters registered on a private registry so that several
// editors in one process never collide.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fortplan",
				Subsystem: "level",
				Name:      "events_total",
				Help:      "Total number of level notifications",
			},
			[]string{"kind"},
		),
		cells: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "fortplan",
				Subsystem: "level",
				Name:      "region_cells_total",
				Help:      "Total number of cells covered by region updates",
			},
		),
		redraws: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fortplan",
				Subsystem: "view",
				Name:      "redraws_total",
				Help:      "Total number of raster repaints",
			},
			[]string{"layer", "kind"},
		),
	}
	m.registry.MustRegister(m.events, m.cells, m.redraws)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveEvent records one level notification.
func (m *Metrics) ObserveEvent(kind level.EventKind) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(kind.String()).Inc()
}

// ObserveRedraw records one repaint of a raster layer.
func (m *Metrics) ObserveRedraw(layer, kind string) {
	if m == nil {
		return
	}
	m.redraws.WithLabelValues(layer, kind).Inc()
}

// Observer returns a listener that counts every notification of a level.
// Subscribe it with Level.Listen and remove it with Level.Unlisten.
func (m *Metrics) Observer() *level.Listener {
	return &level.Listener{
		Cells: func(x, y int, c *level.Cell) error {
			m.ObserveEvent(level.CellChanged)
			return nil
		},
		Regions: func(r grid.Region, p level.Patch) error {
			m.ObserveEvent(level.RegionChanged)
			m.cells.Add(float64(r.Area()))
			return nil
		},
		Size: func() error {
			m.ObserveEvent(level.SizeChanged)
			return nil
		},
	}
}

// A Sample is one counter value with its labels flattened into Name.
type Sample struct {
	Name  string
	Value float64
}

// Samples gathers every counter in the registry, sorted by name.
func (m *Metrics) Samples() ([]Sample, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return nil, err
	}
	var samples []Sample
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			samples = append(samples, Sample{
				Name:  family.GetName() + labels(metric),
				Value: metric.GetCounter().GetValue(),
			})
		}
	}
	sort.Slice(samples, func(i, j int) bool {
		return samples[i].Name < samples[j].Name
	})
	return samples, nil
}

func labels(metric *dto.Metric) string {
	pairs := metric.GetLabel()
	if len(pairs) == 0 {
		return ""
	}
	s := "{"
	for i, pair := range pairs {
		if i > 0 {
			s += ","
		}
		s += pair.GetName() + "=" + pair.GetValue()
	}
	return s + "}"
}

// Value returns the sample named name, or 0 when it has not been recorded.
func (m *Metrics) Value(name string) float64 {
	samples, err := m.Samples()
	if err != nil {
		return 0
	}
	for _, s := range samples {
		if s.Name == name {
			return s.Value
		}
	}
	return 0
}
