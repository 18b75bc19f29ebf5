package compress

import (
	"io"

	"github.com/pierrec/lz4/v4"
)

// LZ4Codec streams lz4 frames.
type LZ4Codec struct{}

var _ StreamCodec = (*LZ4Codec)(nil)

// NewLZ4Codec creates a new lz4 codec.
func NewLZ4Codec() LZ4Codec {
	return LZ4Codec{}
}

// NewWriter starts an lz4 frame on w.
func (c LZ4Codec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	zw := lz4.NewWriter(w)
	if err := zw.Apply(lz4.ConcurrencyOption(1)); err != nil {
		return nil, err
	}

	return zw, nil
}

// NewReader reads an lz4 frame from r.
func (c LZ4Codec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(lz4.NewReader(r)), nil
}
