package encoding

import (
	"io"

	"github.com/hpcrec/recorder/compress"
	"github.com/hpcrec/recorder/errs"
	"github.com/hpcrec/recorder/format"
	"github.com/hpcrec/recorder/internal/pool"
	"github.com/hpcrec/recorder/record"
)

// countingWriter counts the bytes a compression stream hands downstream.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)

	return n, err
}

// StreamEncoder feeds text lines through one continuous compression stream
// (format.ModeZlib, ModeZstd, ModeS2, ModeLZ4).
//
// The stream stays open for the lifetime of the encoder; Close terminates it
// and drains the compressor's remaining output.
type StreamEncoder struct {
	mode   format.CompressionMode
	cfg    Config
	out    *countingWriter
	stream io.WriteCloser
	closed bool
	stats  Stats
}

var _ Encoder = (*StreamEncoder)(nil)

// NewStreamEncoder opens a compression stream of the given mode over w.
func NewStreamEncoder(mode format.CompressionMode, w io.Writer, cfg Config) (*StreamEncoder, error) {
	codec, err := compress.GetCodec(mode)
	if err != nil {
		return nil, err
	}

	out := &countingWriter{w: w}
	stream, err := codec.NewWriter(out)
	if err != nil {
		return nil, err
	}

	return &StreamEncoder{mode: mode, cfg: cfg, out: out, stream: stream}, nil
}

// Encode compresses the text line of r.
func (e *StreamEncoder) Encode(r *record.Record) error {
	if e.closed {
		return errs.ErrEncoderClosed
	}

	bb := pool.GetLineBuffer()
	defer pool.PutLineBuffer(bb)

	line, err := AppendTextLine(bb.B, e.cfg.Functions, r)
	if err != nil {
		return err
	}
	bb.B = line

	if _, err := e.stream.Write(bb.B); err != nil {
		return err
	}
	e.stats.Records++
	e.stats.TextBytes += int64(len(bb.B))

	return nil
}

// Close finishes the compression stream. Calling it again is a no-op.
func (e *StreamEncoder) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true

	return e.stream.Close()
}

// Mode returns the stream's mode.
func (e *StreamEncoder) Mode() format.CompressionMode {
	return e.mode
}

// Stats returns the encoder's counters. CompressedBytes is only final after
// Close.
func (e *StreamEncoder) Stats() Stats {
	s := e.stats
	s.CompressedBytes = e.out.n

	return s
}

// CompressionStats reports the stream's compression figures.
func (e *StreamEncoder) CompressionStats() compress.Stats {
	return compress.Stats{
		Mode:           e.mode,
		OriginalSize:   e.stats.TextBytes,
		CompressedSize: e.out.n,
	}
}
