package encoding

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hpcrec/recorder/compress"
	"github.com/hpcrec/recorder/endian"
	"github.com/hpcrec/recorder/errs"
	"github.com/hpcrec/recorder/format"
	"github.com/hpcrec/recorder/functab"
	"github.com/hpcrec/recorder/record"
)

const readBufferSize = 64 * 1024

// Entry is one record as read off the wire.
//
// For delta entries Target is a window slot, Record.Args holds only the
// changed arguments and Record.FunctionID is meaningless until the entry is
// resolved against a record.Window.
type Entry struct {
	Target record.Target
	Record record.Record
}

// RecordReader reads entries from a trace stream.
type RecordReader interface {
	// Next returns the next entry. It returns io.EOF when the stream ended
	// cleanly on a record boundary; any other error means the remaining
	// stream cannot be trusted.
	Next() (Entry, error)
	// Close releases decompressor resources. The underlying reader is not
	// closed.
	Close() error
}

// NewReader creates the reader matching mode.
//
// cfg must describe the same rank the stream was written for: Epoch and
// Resolution turn relative ticks back into absolute time, Functions maps
// names of text lines back to ids.
func NewReader(mode format.CompressionMode, r io.Reader, cfg Config) (RecordReader, error) {
	if cfg.Functions == nil {
		cfg.Functions = functab.Default
	}

	switch {
	case mode == format.ModeText:
		return NewTextReader(r, cfg.Functions), nil
	case mode.IsBinary():
		if cfg.Resolution <= 0 {
			return nil, fmt.Errorf("%w: %g", errs.ErrInvalidTimeResolution, cfg.Resolution)
		}

		return NewBinaryReader(r, cfg), nil
	case mode.IsStream():
		codec, err := compress.GetCodec(mode)
		if err != nil {
			return nil, err
		}
		rc, err := codec.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("open %s stream: %w", mode, err)
		}
		tr := NewTextReader(rc, cfg.Functions)
		tr.closer = rc

		return tr, nil
	default:
		return nil, fmt.Errorf("%w: %d", errs.ErrInvalidMode, int32(mode))
	}
}

// BinaryReader reads the binary record layout of format.ModeBinary and
// format.ModeRecorder.
type BinaryReader struct {
	r   *bufio.Reader
	cfg Config
	hdr [format.HeaderSize]byte
	n   int64
}

var _ RecordReader = (*BinaryReader)(nil)

// NewBinaryReader creates a binary record reader.
func NewBinaryReader(r io.Reader, cfg Config) *BinaryReader {
	return &BinaryReader{r: bufio.NewReaderSize(r, readBufferSize), cfg: cfg}
}

// Next reads one header and its argument tail.
func (br *BinaryReader) Next() (Entry, error) {
	_, err := io.ReadFull(br.r, br.hdr[:])
	switch {
	case errors.Is(err, io.EOF):
		return Entry{}, io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		return Entry{}, fmt.Errorf("%w: truncated header of record %d", errs.ErrUnexpectedEOF, br.n)
	case err != nil:
		return Entry{}, err
	}

	status := record.Status(br.hdr[0])
	tstart := endian.Int32(traceEngine, br.hdr[1:5])
	tend := endian.Int32(traceEngine, br.hdr[5:9])
	fn := br.hdr[9]

	target, err := record.TargetFor(status, fn)
	if err != nil {
		return Entry{}, fmt.Errorf("record %d: %w", br.n, err)
	}

	tail, err := br.r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Entry{}, fmt.Errorf("%w: record %d", errs.ErrMissingNewline, br.n)
		}

		return Entry{}, err
	}

	args, err := SplitArgs(tail[:len(tail)-1])
	if err != nil {
		return Entry{}, fmt.Errorf("record %d: %w", br.n, err)
	}
	br.n++

	return Entry{
		Target: target,
		Record: record.Record{
			FunctionID: fn,
			Status:     status,
			TimeStart:  record.AbsoluteTime(tstart, br.cfg.Epoch, br.cfg.Resolution),
			TimeEnd:    record.AbsoluteTime(tend, br.cfg.Epoch, br.cfg.Resolution),
			Args:       args,
		},
	}, nil
}

// Close is a no-op.
func (br *BinaryReader) Close() error {
	return nil
}

// TextReader reads text lines, plain or out of a decompression stream.
type TextReader struct {
	r      *bufio.Reader
	funcs  functab.Table
	closer io.Closer
	n      int64
}

var _ RecordReader = (*TextReader)(nil)

// NewTextReader creates a text line reader. funcs maps function names back
// to ids.
func NewTextReader(r io.Reader, funcs functab.Table) *TextReader {
	return &TextReader{r: bufio.NewReaderSize(r, readBufferSize), funcs: funcs}
}

// Next parses one line.
func (tr *TextReader) Next() (Entry, error) {
	line, err := tr.r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			if line == "" {
				return Entry{}, io.EOF
			}

			return Entry{}, fmt.Errorf("%w: line %d", errs.ErrMissingNewline, tr.n+1)
		}

		return Entry{}, err
	}
	tr.n++

	rec, err := parseTextLine(line[:len(line)-1], tr.funcs)
	if err != nil {
		return Entry{}, fmt.Errorf("line %d: %w", tr.n, err)
	}

	return Entry{Target: record.FunctionTarget(rec.FunctionID), Record: rec}, nil
}

// Close closes the decompression stream, if any.
func (tr *TextReader) Close() error {
	if tr.closer == nil {
		return nil
	}

	return tr.closer.Close()
}

func parseTextLine(line string, funcs functab.Table) (record.Record, error) {
	fields := strings.SplitN(line, " ", 4)
	if len(fields) < 3 {
		return record.Record{}, fmt.Errorf("%w: %q", errs.ErrMalformedTextLine, line)
	}

	tstart, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return record.Record{}, fmt.Errorf("%w: start time: %w", errs.ErrMalformedTextLine, err)
	}
	tend, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return record.Record{}, fmt.Errorf("%w: end time: %w", errs.ErrMalformedTextLine, err)
	}

	id, ok := funcs.Lookup(fields[2])
	if !ok {
		return record.Record{}, fmt.Errorf("%w: %q", errs.ErrUnknownFunction, fields[2])
	}

	var args []string
	if len(fields) == 4 {
		args = strings.Split(fields[3], " ")
	}

	return record.Record{FunctionID: id, TimeStart: tstart, TimeEnd: tend, Args: args}, nil
}
