package encoding

import (
	"io"

	"github.com/hpcrec/recorder/endian"
	"github.com/hpcrec/recorder/format"
	"github.com/hpcrec/recorder/internal/pool"
	"github.com/hpcrec/recorder/record"
)

var traceEngine = endian.GetTraceEngine()

// AppendBinary appends the binary form of r: the format.HeaderSize byte header
// followed by the argument tail. fn is written as the header's function byte
// as is, so delta records pass their window slot here.
//
// The returned count tells how many of the two timestamps had to be
// saturated to fit the int32 tick range.
func AppendBinary(buf []byte, status record.Status, fn uint8, r *record.Record, cfg Config) ([]byte, int) {
	clamped := 0
	tstart, ok := record.RelativeTicks(r.TimeStart, cfg.Epoch, cfg.Resolution)
	if !ok {
		clamped++
	}
	tend, ok := record.RelativeTicks(r.TimeEnd, cfg.Epoch, cfg.Resolution)
	if !ok {
		clamped++
	}

	buf = append(buf, byte(status))
	buf = endian.AppendInt32(traceEngine, buf, tstart)
	buf = endian.AppendInt32(traceEngine, buf, tend)
	buf = append(buf, fn)

	return AppendArgs(buf, r.Args), clamped
}

// BinaryEncoder writes fixed binary records (format.ModeBinary).
type BinaryEncoder struct {
	w     io.Writer
	cfg   Config
	stats Stats
}

var _ Encoder = (*BinaryEncoder)(nil)

// NewBinaryEncoder creates a binary encoder writing to w.
func NewBinaryEncoder(w io.Writer, cfg Config) *BinaryEncoder {
	return &BinaryEncoder{w: w, cfg: cfg}
}

// Encode writes r as a full record. The delta flag is never set in this mode.
func (e *BinaryEncoder) Encode(r *record.Record) error {
	bb := pool.GetRecordBuffer()
	defer pool.PutRecordBuffer(bb)

	var clamped int
	bb.B, clamped = AppendBinary(bb.B, r.Status&^record.StatusDelta, r.FunctionID, r, e.cfg)

	if _, err := e.w.Write(bb.B); err != nil {
		return err
	}
	e.stats.Records++
	e.stats.ClampedTimestamps += int64(clamped)

	return nil
}

// Close is a no-op.
func (e *BinaryEncoder) Close() error {
	return nil
}

// Mode returns format.ModeBinary.
func (e *BinaryEncoder) Mode() format.CompressionMode {
	return format.ModeBinary
}

// Stats returns the encoder's counters.
func (e *BinaryEncoder) Stats() Stats {
	return e.stats
}
