package encoding

import (
	"io"

	"github.com/hpcrec/recorder/format"
	"github.com/hpcrec/recorder/internal/pool"
	"github.com/hpcrec/recorder/record"
)

// PeepholeEncoder writes binary records with peephole delta compression
// (format.ModeRecorder).
//
// Every record is compared against the three most recently received records.
// When a close enough match exists the record is written as a delta: the
// status carries the delta flag and the changed position mask, the function
// byte carries the window slot, and only the changed arguments follow.
type PeepholeEncoder struct {
	w      io.Writer
	cfg    Config
	window record.Window
	stats  Stats
}

var _ Encoder = (*PeepholeEncoder)(nil)

// NewPeepholeEncoder creates a delta compressing encoder writing to w.
func NewPeepholeEncoder(w io.Writer, cfg Config) *PeepholeEncoder {
	return &PeepholeEncoder{w: w, cfg: cfg}
}

// Encode writes r, as a delta when possible. The window receives the raw
// record either way, even when the write fails, so it stays in step with
// the sequence of Encode calls.
func (e *PeepholeEncoder) Encode(r *record.Record) error {
	defer e.window.Push(r)

	bb := pool.GetRecordBuffer()
	defer pool.PutRecordBuffer(bb)

	var clamped int
	m, isDelta := e.window.BestMatch(r)
	if isDelta {
		delta, target := record.DeltaRecord(r, m)
		bb.B, clamped = AppendBinary(bb.B, delta.Status, target.Byte(), &delta, e.cfg)
	} else {
		bb.B, clamped = AppendBinary(bb.B, 0, r.FunctionID, r, e.cfg)
	}

	if _, err := e.w.Write(bb.B); err != nil {
		return err
	}
	e.stats.Records++
	e.stats.ClampedTimestamps += int64(clamped)
	if isDelta {
		e.stats.DeltaRecords++
	}

	return nil
}

// Close is a no-op.
func (e *PeepholeEncoder) Close() error {
	return nil
}

// Mode returns format.ModeRecorder.
func (e *PeepholeEncoder) Mode() format.CompressionMode {
	return format.ModeRecorder
}

// Stats returns the encoder's counters.
func (e *PeepholeEncoder) Stats() Stats {
	return e.stats
}
