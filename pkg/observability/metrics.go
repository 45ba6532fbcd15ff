package observability

import (
	"errors"

	"github.com/aretw0/eio/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the collectors exported by EIO components.
type Metrics struct {
	StreamsOpened *prometheus.CounterVec
	StreamBytes   *prometheus.CounterVec
	Records       *prometheus.CounterVec
	EndOfSequence *prometheus.CounterVec
	Failures      *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg leaves them unregistered (useful in tests).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		StreamsOpened: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eio_streams_opened_total",
				Help: "Total number of model streams opened",
			},
			[]string{"kind", "mode"},
		),
		StreamBytes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eio_stream_bytes_total",
				Help: "Bytes moved through model streams",
			},
			[]string{"kind", "direction"},
		),
		Records: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eio_records_total",
				Help: "Records serialized or reconstructed by agents",
			},
			[]string{"kind", "op"},
		),
		EndOfSequence: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eio_cursor_wraps_total",
				Help: "Cursor reads that reached the declared bound",
			},
			[]string{"kind"},
		),
		Failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eio_record_failures_total",
				Help: "Record operations that failed, by reason",
			},
			[]string{"kind", "reason"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.StreamsOpened, m.StreamBytes, m.Records, m.EndOfSequence, m.Failures)
	}
	return m
}

// StreamOpened counts one opened stream.
func (m *Metrics) StreamOpened(kind domain.StreamKind, mode domain.Mode) {
	if m == nil {
		return
	}
	m.StreamsOpened.WithLabelValues(string(kind), mode.String()).Inc()
}

// BytesRead counts bytes read from a stream.
func (m *Metrics) BytesRead(kind domain.StreamKind, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.StreamBytes.WithLabelValues(string(kind), "in").Add(float64(n))
}

// BytesWritten counts bytes written to a stream.
func (m *Metrics) BytesWritten(kind domain.StreamKind, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.StreamBytes.WithLabelValues(string(kind), "out").Add(float64(n))
}

// RecordWritten counts one serialized record.
func (m *Metrics) RecordWritten(kind domain.StreamKind) {
	if m == nil {
		return
	}
	m.Records.WithLabelValues(string(kind), "write").Inc()
}

// RecordRead counts one reconstructed record.
func (m *Metrics) RecordRead(kind domain.StreamKind) {
	if m == nil {
		return
	}
	m.Records.WithLabelValues(string(kind), "read").Inc()
}

// CursorWrapped counts one end-of-sequence signal.
func (m *Metrics) CursorWrapped(kind domain.StreamKind) {
	if m == nil {
		return
	}
	m.EndOfSequence.WithLabelValues(string(kind)).Inc()
}

// Failed counts a failed record operation, classified by its error.
func (m *Metrics) Failed(kind domain.StreamKind, err error) {
	if m == nil || err == nil {
		return
	}
	m.Failures.WithLabelValues(string(kind), Reason(err)).Inc()
}

// Reason maps an error onto a low-cardinality label value.
func Reason(err error) string {
	var pe *domain.ParseError
	switch {
	case errors.Is(err, domain.ErrShortRecord):
		return "short_record"
	case errors.As(err, &pe):
		return "parse"
	case errors.Is(err, domain.ErrFieldCount):
		return "field_count"
	case errors.Is(err, domain.ErrWrongMode), errors.Is(err, domain.ErrNotOpen):
		return "state"
	default:
		return "io"
	}
}
