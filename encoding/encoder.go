package encoding

import (
	"fmt"
	"io"

	"github.com/hpcrec/recorder/errs"
	"github.com/hpcrec/recorder/format"
	"github.com/hpcrec/recorder/functab"
	"github.com/hpcrec/recorder/record"
)

// Encoder writes records to an underlying writer.
//
// Note: Encoders are NOT thread-safe; the engine serializes calls.
type Encoder interface {
	// Encode writes one record. An error means the record was dropped; the
	// encoder stays usable.
	Encode(r *record.Record) error
	// Close finishes the encoding. Streaming encoders emit their end of
	// stream marker; the underlying writer is never closed.
	Close() error
	// Mode returns the mode the encoder writes.
	Mode() format.CompressionMode
	// Stats returns the encoder's counters.
	Stats() Stats
}

// Config carries what every encoder needs to know about the rank.
type Config struct {
	// Epoch is the rank's start timestamp in seconds.
	Epoch float64
	// Resolution is the size of one relative time tick in seconds.
	Resolution float64
	// Functions names function ids for the text based modes.
	Functions functab.Table
}

// Stats counts what an encoder produced.
type Stats struct {
	Records           int64 // records written
	DeltaRecords      int64 // records written as a delta (Recorder mode)
	ClampedTimestamps int64 // timestamps saturated to the int32 range
	TextBytes         int64 // uncompressed text bytes (streaming modes)
	CompressedBytes   int64 // bytes produced by the stream (streaming modes)
}

// New creates the encoder for mode on top of w.
//
// Parameters:
//   - mode: trace mode; must be valid (normalize configuration first)
//   - w: destination, typically a staging buffer
//   - cfg: rank level encoding parameters
//
// Returns:
//   - Encoder: encoder for the mode
//   - error: ErrInvalidMode, ErrInvalidTimeResolution or a codec error
func New(mode format.CompressionMode, w io.Writer, cfg Config) (Encoder, error) {
	if cfg.Resolution <= 0 {
		return nil, fmt.Errorf("%w: %g", errs.ErrInvalidTimeResolution, cfg.Resolution)
	}
	if cfg.Functions == nil {
		cfg.Functions = functab.Default
	}

	switch {
	case mode == format.ModeText:
		return NewTextEncoder(w, cfg), nil
	case mode == format.ModeBinary:
		return NewBinaryEncoder(w, cfg), nil
	case mode == format.ModeRecorder:
		return NewPeepholeEncoder(w, cfg), nil
	case mode.IsStream():
		return NewStreamEncoder(mode, w, cfg)
	default:
		return nil, fmt.Errorf("%w: %d", errs.ErrInvalidMode, int32(mode))
	}
}
