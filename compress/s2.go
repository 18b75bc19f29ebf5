package compress

import (
	"io"

	"github.com/klauspost/compress/s2"
)

// S2Codec streams s2 framed data.
type S2Codec struct{}

var _ StreamCodec = (*S2Codec)(nil)

// NewS2Codec creates a new s2 codec.
func NewS2Codec() S2Codec {
	return S2Codec{}
}

// NewWriter starts an s2 stream on w.
func (c S2Codec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return s2.NewWriter(w, s2.WriterConcurrency(1)), nil
}

// NewReader reads an s2 stream from r.
func (c S2Codec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(s2.NewReader(r)), nil
}
