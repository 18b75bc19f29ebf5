package metadata

import (
	"fmt"
	"io"
	"sort"

	"github.com/hpcrec/recorder/endian"
	"github.com/hpcrec/recorder/errs"
	"github.com/hpcrec/recorder/format"
)

const (
	// LocalFixedSize is the size of the local metadata before the filename
	// entries.
	LocalFixedSize = 8 + format.MaxFunctions*8 + 4 + 8 + 8

	fileEntryFixedSize = 4 + 8 + 4
)

// FileEntry is one interned filename.
type FileEntry struct {
	ID   int32
	Size uint64
	Name string
}

// Local describes what one rank recorded.
type Local struct {
	// TotalRecords counts every record passed to the engine.
	TotalRecords int64
	// FunctionCounts counts records per function id.
	FunctionCounts [format.MaxFunctions]int64
	// StartTime and EndTime bound the rank's recording, in seconds. Binary
	// timestamps are relative to StartTime.
	StartTime float64
	EndTime   float64
	// Files lists the interned filenames in id order.
	Files []FileEntry
}

// Bytes serializes the local metadata. Files are written in ascending id
// order regardless of their order in the slice.
func (l *Local) Bytes() []byte {
	size := LocalFixedSize
	for _, f := range l.Files {
		size += fileEntryFixedSize + len(f.Name)
	}

	b := make([]byte, 0, size)
	b = endian.AppendInt64(engine, b, l.TotalRecords)
	for _, c := range l.FunctionCounts {
		b = endian.AppendInt64(engine, b, c)
	}
	b = endian.AppendInt32(engine, b, int32(len(l.Files))) //nolint:gosec
	b = endian.AppendFloat64(engine, b, l.StartTime)
	b = endian.AppendFloat64(engine, b, l.EndTime)

	files := l.Files
	if !sort.SliceIsSorted(files, func(i, j int) bool { return files[i].ID < files[j].ID }) {
		files = append([]FileEntry(nil), files...)
		sort.Slice(files, func(i, j int) bool { return files[i].ID < files[j].ID })
	}
	for _, f := range files {
		b = endian.AppendInt32(engine, b, f.ID)
		b = engine.AppendUint64(b, f.Size)
		b = endian.AppendInt32(engine, b, int32(len(f.Name))) //nolint:gosec
		b = append(b, f.Name...)
	}

	return b
}

// Parse parses local metadata from data, which must hold exactly one
// serialized Local.
func (l *Local) Parse(data []byte) error {
	if len(data) < LocalFixedSize {
		return fmt.Errorf("%w: local metadata is %d bytes, want at least %d",
			errs.ErrInvalidMetadata, len(data), LocalFixedSize)
	}

	l.TotalRecords = endian.Int64(engine, data[0:8])
	off := 8
	for i := range l.FunctionCounts {
		l.FunctionCounts[i] = endian.Int64(engine, data[off:off+8])
		off += 8
	}
	count := endian.Int32(engine, data[off:off+4])
	off += 4
	l.StartTime = endian.Float64(engine, data[off:off+8])
	off += 8
	l.EndTime = endian.Float64(engine, data[off:off+8])
	off += 8

	if count < 0 {
		return fmt.Errorf("%w: negative filename count %d", errs.ErrInvalidMetadata, count)
	}

	// Every entry takes at least its fixed part; cap the allocation by what
	// the data can hold.
	l.Files = make([]FileEntry, 0, min(int(count), (len(data)-off)/fileEntryFixedSize))
	for i := range int(count) {
		if len(data)-off < fileEntryFixedSize {
			return fmt.Errorf("%w: filename entry %d truncated", errs.ErrInvalidMetadata, i)
		}
		var f FileEntry
		f.ID = endian.Int32(engine, data[off:off+4])
		f.Size = engine.Uint64(data[off+4 : off+12])
		n := int(endian.Int32(engine, data[off+12:off+16]))
		off += fileEntryFixedSize

		if n < 0 || n > len(data)-off {
			return fmt.Errorf("%w: filename entry %d has name length %d", errs.ErrInvalidMetadata, i, n)
		}
		f.Name = string(data[off : off+n])
		off += n

		l.Files = append(l.Files, f)
	}

	if off != len(data) {
		return fmt.Errorf("%w: %d trailing bytes", errs.ErrInvalidMetadata, len(data)-off)
	}

	return nil
}

// WriteTo writes the serialized metadata to w.
func (l *Local) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(l.Bytes())
	return int64(n), err
}

// ReadLocal reads local metadata from r until EOF.
func ReadLocal(r io.Reader) (Local, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Local{}, fmt.Errorf("read local metadata: %w", err)
	}

	var l Local
	if err := l.Parse(data); err != nil {
		return Local{}, err
	}

	return l, nil
}

// FilenameTable maps filename ids to names.
func (l *Local) FilenameTable() map[int32]string {
	m := make(map[int32]string, len(l.Files))
	for _, f := range l.Files {
		m[f.ID] = f.Name
	}

	return m
}
