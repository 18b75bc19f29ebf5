package compress

import (
	"fmt"
	"io"

	"github.com/hpcrec/recorder/errs"
	"github.com/hpcrec/recorder/format"
)

// StreamCompressor opens compression streams over an underlying writer.
type StreamCompressor interface {
	// NewWriter returns a writer that compresses everything written to it
	// into w. Closing the returned writer emits the end of stream marker and
	// flushes all pending output to w, but never closes w itself.
	NewWriter(w io.Writer) (io.WriteCloser, error)
}

// StreamDecompressor opens decompression streams over an underlying reader.
type StreamDecompressor interface {
	// NewReader returns a reader producing the decompressed content of r.
	// Closing the returned reader releases decoder resources only.
	NewReader(r io.Reader) (io.ReadCloser, error)
}

// StreamCodec combines both directions of one algorithm.
type StreamCodec interface {
	StreamCompressor
	StreamDecompressor
}

// Stats describes how much a stream compressed its input.
type Stats struct {
	// Mode identifies the trace mode the stream belongs to.
	Mode format.CompressionMode

	// OriginalSize is the number of bytes written into the stream.
	OriginalSize int64

	// CompressedSize is the number of bytes the stream produced.
	CompressedSize int64
}

// CompressionRatio returns compressed size / original size.
//
// Returns 0.0 if nothing was written.
func (s Stats) CompressionRatio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the space savings as a percentage (0-100%).
func (s Stats) SpaceSavings() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return (1.0 - s.CompressionRatio()) * 100.0
}

// CreateCodec creates a new codec for a compressed trace mode.
//
// Parameters:
//   - mode: one of the streaming modes (Zlib, Zstd, S2, LZ4)
//
// Returns:
//   - StreamCodec: codec instance for the mode
//   - error: ErrInvalidMode if the mode does not use a compression stream
func CreateCodec(mode format.CompressionMode) (StreamCodec, error) {
	switch mode {
	case format.ModeZlib:
		return NewZlibCodec(), nil
	case format.ModeZstd:
		return NewZstdCodec(), nil
	case format.ModeS2:
		return NewS2Codec(), nil
	case format.ModeLZ4:
		return NewLZ4Codec(), nil
	default:
		return nil, fmt.Errorf("%w: %s has no compression stream", errs.ErrInvalidMode, mode)
	}
}

var builtinCodecs = map[format.CompressionMode]StreamCodec{
	format.ModeZlib: NewZlibCodec(),
	format.ModeZstd: NewZstdCodec(),
	format.ModeS2:   NewS2Codec(),
	format.ModeLZ4:  NewLZ4Codec(),
}

// GetCodec retrieves the shared built-in codec for a streaming mode.
func GetCodec(mode format.CompressionMode) (StreamCodec, error) {
	if codec, ok := builtinCodecs[mode]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %s has no compression stream", errs.ErrInvalidMode, mode)
}
