// Package metrics exports the envelopes produced by a rest.Client as
// Prometheus metrics.
package metrics

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pgiacomo69/FluentRestAdapter/pkg/rest"
)

const namespace = "fluentrest"

// Collector is a rest.Observer counting envelopes, failures and timings.
// Pass it to rest.WithObserver.
type Collector struct {
	envelopes           *prometheus.CounterVec
	failures            *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	deserializeDuration *prometheus.HistogramVec
}

var _ rest.Observer = (*Collector)(nil)

// NewCollector registers the collector's metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		envelopes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "envelopes_total",
				Help:      "Number of result envelopes handed to callers, by status code. Local failures have status 0.",
			},
			[]string{"mode", "status"},
		),
		failures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "failures_total",
				Help:      "Number of failed envelopes by kind of failure.",
			},
			[]string{"mode", "kind"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "Duration of the network phase of each call.",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
			},
			[]string{"mode"},
		),
		deserializeDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "deserialization_duration_seconds",
				Help:      "Decode time of each value; for streams, time since the stream was opened.",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{"mode"},
		),
	}
}

func (c *Collector) Observe(mode rest.Mode, seq int, status rest.Status) {
	m := string(mode)
	c.envelopes.WithLabelValues(m, strconv.Itoa(status.StatusCode)).Inc()

	// Every envelope of a stream carries the same request time.
	if seq == 0 {
		c.requestDuration.WithLabelValues(m).Observe(status.RequestTime.Seconds())
	}

	if status.Err != nil {
		c.failures.WithLabelValues(m, kind(status.Err)).Inc()
		return
	}
	if status.DeserializationTime > 0 {
		c.deserializeDuration.WithLabelValues(m).Observe(status.DeserializationTime.Seconds())
	}
}

func kind(err error) string {
	var (
		terr *rest.StreamTerminationError
		derr *rest.DecodeError
		cerr *rest.ConnectionError
	)
	switch {
	case errors.As(err, &terr):
		return "termination"
	case errors.As(err, &derr):
		return "decode"
	case errors.As(err, &cerr):
		return "connection"
	default:
		return "other"
	}
}
