package compress

import (
	"io"

	"github.com/klauspost/compress/zlib"
)

// ZlibCodec streams deflate data with a zlib header and adler32 trailer.
type ZlibCodec struct {
	level int
}

var _ StreamCodec = (*ZlibCodec)(nil)

// NewZlibCodec creates a zlib codec using the default compression level.
func NewZlibCodec() ZlibCodec {
	return ZlibCodec{level: zlib.DefaultCompression}
}

// NewZlibCodecLevel creates a zlib codec with an explicit level
// (zlib.BestSpeed through zlib.BestCompression).
func NewZlibCodecLevel(level int) ZlibCodec {
	return ZlibCodec{level: level}
}

// NewWriter starts a zlib stream on w.
func (c ZlibCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return zlib.NewWriterLevel(w, c.level)
}

// NewReader reads a zlib stream from r.
func (c ZlibCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return zlib.NewReader(r)
}
