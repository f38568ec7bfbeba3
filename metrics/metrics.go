// Package metrics exports engine statistics to Prometheus.
//
// The Observer implements engine.Observer. Register it once and pass it to
// engine.New:
//
//	obs := metrics.NewObserver(prometheus.DefaultRegisterer)
//	eng, err := engine.New(engine.WithObserver(obs))
//
// Exported series, all prefixed with zbewalgo_:
//   - compress_total{result}: calls by outcome, compressed or not_compressible
//   - pipeline_wins_total{pipeline}: winning pipeline prefixes
//   - pipelines_tried: distribution of pipelines run per call
//   - early_abort_total: searches that stopped before the last pipeline
//   - compressed_bytes_total, input_bytes_total: block and input volume
//   - decompress_total{result}: calls by outcome, ok or error
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/arloliu/zbewalgo/engine"
	"github.com/arloliu/zbewalgo/format"
	"github.com/arloliu/zbewalgo/pipeline"
)

const namespace = "zbewalgo"

// Observer records engine statistics as Prometheus metrics. It is safe for
// concurrent use.
type Observer struct {
	compressTotal   *prometheus.CounterVec
	pipelineWins    *prometheus.CounterVec
	pipelinesTried  prometheus.Histogram
	earlyAborts     prometheus.Counter
	inputBytes      prometheus.Counter
	compressedBytes prometheus.Counter
	decompressTotal *prometheus.CounterVec
}

var _ engine.Observer = (*Observer)(nil)

// NewObserver creates an Observer and registers its collectors with reg.
// A nil reg creates unregistered collectors, which is useful in tests.
func NewObserver(reg prometheus.Registerer) *Observer {
	factory := promauto.With(reg)

	return &Observer{
		compressTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compress_total",
			Help:      "Compression calls by result.",
		}, []string{"result"}),
		pipelineWins: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_wins_total",
			Help:      "Compressed blocks by the pipeline prefix that produced them.",
		}, []string{"pipeline"}),
		pipelinesTried: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipelines_tried",
			Help:      "Pipelines run per compression call.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 9),
		}),
		earlyAborts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "early_abort_total",
			Help:      "Searches that stopped before trying every pipeline.",
		}),
		inputBytes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "input_bytes_total",
			Help:      "Bytes passed to Compress.",
		}),
		compressedBytes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compressed_bytes_total",
			Help:      "Bytes of compressed blocks, headers included.",
		}),
		decompressTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decompress_total",
			Help:      "Decompression calls by result.",
		}, []string{"result"}),
	}
}

// ObserveCompress implements engine.Observer.
func (o *Observer) ObserveCompress(s engine.CompressStats) {
	o.inputBytes.Add(float64(s.InputSize))
	o.pipelinesTried.Observe(float64(s.Tried))
	if s.EarlyAbort {
		o.earlyAborts.Inc()
	}

	if !s.Compressed {
		o.compressTotal.WithLabelValues("not_compressible").Inc()
		return
	}
	o.compressTotal.WithLabelValues("compressed").Inc()
	o.compressedBytes.Add(float64(s.OutputSize + format.BlockHeaderSize))
	o.pipelineWins.WithLabelValues(s.Pipeline.String()).Inc()
}

// ObserveDecompress implements engine.Observer.
func (o *Observer) ObserveDecompress(_ pipeline.Pipeline, _ int, err error) {
	if err != nil {
		o.decompressTotal.WithLabelValues("error").Inc()
		return
	}
	o.decompressTotal.WithLabelValues("ok").Inc()
}
