package observability

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// APICollector bundles Prometheus metrics for the query API surface and
// provides helpers to wire them into gin and plain HTTP handlers.
type APICollector struct {
	gatherer prometheus.Gatherer

	APIRequests  *prometheus.CounterVec
	APIDurations *prometheus.HistogramVec

	TopologyDevices        prometheus.Gauge
	TopologyConnections    prometheus.Gauge
	TopologySegments       prometheus.Gauge
	TopologyViableSegments prometheus.Gauge
}

// NewAPICollector registers the API Prometheus metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewAPICollector(reg prometheus.Registerer) (*APICollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "topology_api_requests_total",
		Help: "Total number of handled API requests, labeled by method, route, and HTTP status code.",
	}, []string{"method", "route", "code"})
	requests, err := registerCounterVec(reg, requests, "topology_api_requests_total")
	if err != nil {
		return nil, err
	}

	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "topology_api_request_duration_seconds",
		Help:    "API request latency in seconds.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"method", "route"})
	durations, err = registerHistogramVec(reg, durations, "topology_api_request_duration_seconds")
	if err != nil {
		return nil, err
	}

	devices, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "topology_devices",
		Help: "Current number of devices in the workspace.",
	}), "topology_devices")
	if err != nil {
		return nil, err
	}
	connections, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "topology_connections",
		Help: "Current number of connections in the workspace.",
	}), "topology_connections")
	if err != nil {
		return nil, err
	}
	segments, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "topology_segments",
		Help: "Number of network segments in the latest snapshot.",
	}), "topology_segments")
	if err != nil {
		return nil, err
	}
	viable, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "topology_viable_segments",
		Help: "Number of viable network segments in the latest snapshot.",
	}), "topology_viable_segments")
	if err != nil {
		return nil, err
	}

	return &APICollector{
		gatherer:               gatherer,
		APIRequests:            requests,
		APIDurations:           durations,
		TopologyDevices:        devices,
		TopologyConnections:    connections,
		TopologySegments:       segments,
		TopologyViableSegments: viable,
	}, nil
}

// Middleware records request counts and durations for every handled route.
// The route label is the registered pattern, not the raw path, so metric
// cardinality stays bounded.
func (c *APICollector) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		if c == nil {
			return
		}
		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := ctx.Request.Method
		code := strconv.Itoa(ctx.Writer.Status())

		if c.APIRequests != nil {
			c.APIRequests.WithLabelValues(method, route, code).Inc()
		}
		if c.APIDurations != nil {
			c.APIDurations.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		}
	}
}

// Handler exposes a ready-to-use /metrics handler.
func (c *APICollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetTopologyCounts drives the gauge values; the server calls it after every
// workspace mutation and snapshot rebuild.
func (c *APICollector) SetTopologyCounts(devices, connections, segments, viableSegments int) {
	if c == nil {
		return
	}
	if c.TopologyDevices != nil {
		c.TopologyDevices.Set(float64(devices))
	}
	if c.TopologyConnections != nil {
		c.TopologyConnections.Set(float64(connections))
	}
	if c.TopologySegments != nil {
		c.TopologySegments.Set(float64(segments))
	}
	if c.TopologyViableSegments != nil {
		c.TopologyViableSegments.Set(float64(viableSegments))
	}
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

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
