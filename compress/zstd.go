package compress

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// ZstdCodec streams Zstandard frames.
//
// Encoders and decoders run single threaded so a rank's tracing never spawns
// background goroutines of its own.
type ZstdCodec struct{}

var _ StreamCodec = (*ZstdCodec)(nil)

// NewZstdCodec creates a zstd codec with default settings.
func NewZstdCodec() ZstdCodec {
	return ZstdCodec{}
}

// NewWriter starts a zstd stream on w.
func (c ZstdCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	enc, err := zstd.NewWriter(w,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		return nil, fmt.Errorf("zstd writer: %w", err)
	}

	return enc, nil
}

// NewReader reads a zstd stream from r.
func (c ZstdCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(r,
		zstd.WithDecoderConcurrency(1),
	)
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}

	return dec.IOReadCloser(), nil
}
