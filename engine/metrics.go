package engine

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters of one rank.
type Metrics struct {
	Records           prometheus.Counter
	DeltaRecords      prometheus.Counter
	FlushedBytes      prometheus.Counter
	InternedFilenames prometheus.Counter
	DroppedRecords    prometheus.Counter
}

// NewMetrics creates the counters of a rank and registers them with reg when
// reg is not nil.
func NewMetrics(reg prometheus.Registerer, rank int) (*Metrics, error) {
	labels := prometheus.Labels{"rank": strconv.Itoa(rank)}
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		})
	}

	m := &Metrics{
		Records:           counter("recorder_records_total", "Records passed to the encoder."),
		DeltaRecords:      counter("recorder_delta_records_total", "Records written as a peephole delta."),
		FlushedBytes:      counter("recorder_flushed_bytes_total", "Bytes written to the trace file."),
		InternedFilenames: counter("recorder_interned_filenames_total", "Distinct filenames interned."),
		DroppedRecords:    counter("recorder_dropped_records_total", "Records dropped because encoding failed."),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{
			m.Records, m.DeltaRecords, m.FlushedBytes, m.InternedFilenames, m.DroppedRecords,
		} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}

	return m, nil
}
