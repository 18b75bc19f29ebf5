package metadata

import (
	"fmt"
	"io"

	"github.com/hpcrec/recorder/endian"
	"github.com/hpcrec/recorder/errs"
	"github.com/hpcrec/recorder/format"
)

const (
	// GlobalSize is the encoded size of the global metadata.
	GlobalSize = 8 + 4 + 4 + 4
	// MaxRanks bounds the rank count a global metadata file may claim.
	MaxRanks = 1 << 22
)

var engine = endian.GetTraceEngine()

// Global describes the whole trace run.
type Global struct {
	// TimeResolution is the size of one relative tick in seconds.
	TimeResolution float64
	// Ranks is the number of processes that recorded.
	Ranks int32
	// Mode is the compression mode every rank used.
	Mode format.CompressionMode
	// WindowSize is the peephole window capacity, always format.WindowSize.
	WindowSize int32
}

// NewGlobal creates the global metadata of a run.
func NewGlobal(resolution float64, ranks int, mode format.CompressionMode) Global {
	return Global{
		TimeResolution: resolution,
		Ranks:          int32(ranks), //nolint:gosec
		Mode:           mode,
		WindowSize:     format.WindowSize,
	}
}

// Bytes serializes the global metadata.
func (g *Global) Bytes() []byte {
	b := make([]byte, 0, GlobalSize)
	b = endian.AppendFloat64(engine, b, g.TimeResolution)
	b = endian.AppendInt32(engine, b, g.Ranks)
	b = endian.AppendInt32(engine, b, int32(g.Mode))
	b = endian.AppendInt32(engine, b, g.WindowSize)

	return b
}

// Parse parses the global metadata from data.
//
// Parameters:
//   - data: exactly GlobalSize bytes
//
// Returns:
//   - error: ErrInvalidMetadata on a size mismatch or implausible values
func (g *Global) Parse(data []byte) error {
	if len(data) != GlobalSize {
		return fmt.Errorf("%w: global metadata is %d bytes, want %d", errs.ErrInvalidMetadata, len(data), GlobalSize)
	}

	g.TimeResolution = endian.Float64(engine, data[0:8])
	g.Ranks = endian.Int32(engine, data[8:12])
	g.Mode = format.CompressionMode(endian.Int32(engine, data[12:16]))
	g.WindowSize = endian.Int32(engine, data[16:20])

	return g.Validate()
}

// Validate checks that a decoder can work with the metadata.
func (g *Global) Validate() error {
	switch {
	case !(g.TimeResolution > 0):
		return fmt.Errorf("%w: time resolution %g", errs.ErrInvalidMetadata, g.TimeResolution)
	case g.Ranks <= 0 || g.Ranks > MaxRanks:
		return fmt.Errorf("%w: rank count %d outside [1, %d]", errs.ErrInvalidMetadata, g.Ranks, MaxRanks)
	case !g.Mode.IsValid():
		return fmt.Errorf("%w: %w: %d", errs.ErrInvalidMetadata, errs.ErrInvalidMode, int32(g.Mode))
	case g.WindowSize != format.WindowSize:
		return fmt.Errorf("%w: window size %d, want %d", errs.ErrInvalidMetadata, g.WindowSize, format.WindowSize)
	}

	return nil
}

// WriteTo writes the serialized metadata to w.
func (g *Global) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(g.Bytes())
	return int64(n), err
}

// ReadGlobal reads and validates global metadata from r.
func ReadGlobal(r io.Reader) (Global, error) {
	var buf [GlobalSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Global{}, fmt.Errorf("%w: read global metadata: %w", errs.ErrInvalidMetadata, err)
	}

	var g Global
	if err := g.Parse(buf[:]); err != nil {
		return Global{}, err
	}

	return g, nil
}
