package encoding

import (
	"io"

	"github.com/hpcrec/recorder/format"
	"github.com/hpcrec/recorder/internal/pool"
	"github.com/hpcrec/recorder/record"
)

// TextEncoder writes one human readable line per record (format.ModeText).
type TextEncoder struct {
	w     io.Writer
	cfg   Config
	stats Stats
}

var _ Encoder = (*TextEncoder)(nil)

// NewTextEncoder creates a text encoder writing to w.
func NewTextEncoder(w io.Writer, cfg Config) *TextEncoder {
	return &TextEncoder{w: w, cfg: cfg}
}

// Encode writes the text line of r with a single Write call.
func (e *TextEncoder) Encode(r *record.Record) error {
	bb := pool.GetLineBuffer()
	defer pool.PutLineBuffer(bb)

	line, err := AppendTextLine(bb.B, e.cfg.Functions, r)
	if err != nil {
		return err
	}
	bb.B = line

	if _, err := e.w.Write(bb.B); err != nil {
		return err
	}
	e.stats.Records++
	e.stats.TextBytes += int64(len(bb.B))

	return nil
}

// Close is a no-op; text output has no trailer.
func (e *TextEncoder) Close() error {
	return nil
}

// Mode returns format.ModeText.
func (e *TextEncoder) Mode() format.CompressionMode {
	return format.ModeText
}

// Stats returns the encoder's counters.
func (e *TextEncoder) Stats() Stats {
	return e.stats
}
