package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PipelineCollector bundles Prometheus metrics for the shield pipeline and
// provides helpers to wire them into stage hooks and HTTP handlers.
type PipelineCollector struct {
	gatherer prometheus.Gatherer

	FeaturesProcessed prometheus.Counter
	PointsGenerated   prometheus.Counter
	PointsRetained    *prometheus.CounterVec
	PointsDiscarded   *prometheus.CounterVec
	StageDurations    *prometheus.HistogramVec
	LayerPoints       *prometheus.GaugeVec
}

// NewPipelineCollector registers pipeline Prometheus metrics against the
// provided registerer, defaulting to the global Prometheus registry when nil.
func NewPipelineCollector(reg prometheus.Registerer) (*PipelineCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	features, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shieldgen_features_total",
		Help: "Total number of line features fed into node generation.",
	}), "shieldgen_features_total")
	if err != nil {
		return nil, err
	}

	generated, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shieldgen_points_generated_total",
		Help: "Total number of dense anchor candidates produced by node generation.",
	}), "shieldgen_points_generated_total")
	if err != nil {
		return nil, err
	}

	retained := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shieldgen_points_retained_total",
		Help: "Points retained by thinning, labeled by zoom band.",
	}, []string{"zoom"})
	retained, err = registerCounterVec(reg, retained, "shieldgen_points_retained_total")
	if err != nil {
		return nil, err
	}

	discarded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shieldgen_points_discarded_total",
		Help: "Points discarded by thinning, labeled by zoom band.",
	}, []string{"zoom"})
	discarded, err = registerCounterVec(reg, discarded, "shieldgen_points_discarded_total")
	if err != nil {
		return nil, err
	}

	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shieldgen_stage_duration_seconds",
		Help:    "Pipeline stage latency in seconds.",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
	}, []string{"stage"})
	durations, err = registerHistogramVec(reg, durations, "shieldgen_stage_duration_seconds")
	if err != nil {
		return nil, err
	}

	layerPoints := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "shieldgen_layer_points",
		Help: "Current number of points held per output layer.",
	}, []string{"layer"})
	layerPoints, err = registerGaugeVec(reg, layerPoints, "shieldgen_layer_points")
	if err != nil {
		return nil, err
	}

	return &PipelineCollector{
		gatherer:          gatherer,
		FeaturesProcessed: features,
		PointsGenerated:   generated,
		PointsRetained:    retained,
		PointsDiscarded:   discarded,
		StageDurations:    durations,
		LayerPoints:       layerPoints,
	}, nil
}

// ObserveStage records one stage execution's duration.
func (c *PipelineCollector) ObserveStage(stage string, d time.Duration) {
	if c == nil || c.StageDurations == nil {
		return
	}
	c.StageDurations.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordBand records the retained/discarded split for one thinning band.
func (c *PipelineCollector) RecordBand(zoom int, in, retained int) {
	if c == nil {
		return
	}
	label := fmt.Sprintf("%d", zoom)
	if c.PointsRetained != nil {
		c.PointsRetained.WithLabelValues(label).Add(float64(retained))
	}
	if c.PointsDiscarded != nil {
		c.PointsDiscarded.WithLabelValues(label).Add(float64(in - retained))
	}
}

// SetLayerCount satisfies the layer store's subscriber shape so gauges track
// layer sizes directly from Put events.
func (c *PipelineCollector) SetLayerCount(layer string, count int) {
	if c == nil || c.LayerPoints == nil {
		return
	}
	c.LayerPoints.WithLabelValues(layer).Set(float64(count))
}

// Handler exposes a ready-to-use /metrics handler.
func (c *PipelineCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGaugeVec(reg prometheus.Registerer, vec *prometheus.GaugeVec, name string) (*prometheus.GaugeVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
