// Package staging implements the in-memory region every encoded byte passes
// through on its way to a rank's trace file.
//
// Appends are copied into a fixed-capacity region. When an append would
// overflow the remaining space, the region is flushed first; an append larger
// than the whole region is written straight to the file after flushing what
// is pending. Each flush is one sequential Write call, so bytes reach the file
// in exactly the order they were appended.
package staging

import (
	"fmt"
	"io"

	"github.com/hpcrec/recorder/errs"
	"github.com/hpcrec/recorder/internal/options"
	"github.com/hpcrec/recorder/internal/pool"
)

// DefaultSize is the default capacity of the staging region (12 MiB).
const DefaultSize = 12 * 1024 * 1024

// Stats counts the traffic through a Buffer.
type Stats struct {
	Appends      int64 // number of Append calls
	Flushes      int64 // number of region flushes that wrote bytes
	DirectWrites int64 // appends that bypassed the region
	BytesWritten int64 // total bytes handed to the underlying writer
}

// Buffer stages bytes for a single writer. It is not safe for concurrent use.
type Buffer struct {
	w        io.Writer
	region   *pool.ByteBuffer
	size     int
	released bool
	onWrite  func(n int)
	stats    Stats
}

// Option configures a Buffer.
type Option = options.Option[*Buffer]

// WithWriteHook registers fn to be called with the byte count of every write
// that reaches the underlying writer.
func WithWriteHook(fn func(n int)) Option {
	return options.NoError(func(b *Buffer) {
		b.onWrite = fn
	})
}

// New creates a staging buffer of size bytes in front of w.
//
// Parameters:
//   - w: destination, typically the rank's trace file
//   - size: region capacity in bytes (must be positive)
//
// Returns:
//   - *Buffer: the staging buffer
//   - error: ErrInvalidBufferSize for a non-positive size
func New(w io.Writer, size int, opts ...Option) (*Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", errs.ErrInvalidBufferSize, size)
	}

	b := &Buffer{
		w:      w,
		region: pool.NewByteBuffer(size),
		size:   size,
	}
	if err := options.Apply(b, opts...); err != nil {
		return nil, err
	}

	return b, nil
}

// Append stages p, flushing first when p does not fit in the remaining space.
// The bytes of p are copied; the caller may reuse p immediately.
func (b *Buffer) Append(p []byte) error {
	if b.released {
		return errs.ErrBufferReleased
	}
	b.stats.Appends++

	if len(p) > b.size {
		if err := b.Flush(); err != nil {
			return err
		}
		b.stats.DirectWrites++

		return b.write(p)
	}

	if b.region.Len()+len(p) > b.size {
		if err := b.Flush(); err != nil {
			return err
		}
	}
	b.region.MustWrite(p)

	return nil
}

// Write implements io.Writer on top of Append.
func (b *Buffer) Write(p []byte) (int, error) {
	if err := b.Append(p); err != nil {
		return 0, err
	}

	return len(p), nil
}

// Flush writes the staged bytes to the underlying writer and empties the
// region. The region is emptied even when the write fails, so a failed flush
// never causes bytes to be written twice.
func (b *Buffer) Flush() error {
	if b.released {
		return errs.ErrBufferReleased
	}
	if b.region.Len() == 0 {
		return nil
	}

	err := b.write(b.region.Bytes())
	b.region.Reset()
	if err == nil {
		b.stats.Flushes++
	}

	return err
}

// Release drops the region. Pending bytes that were not flushed are lost;
// further calls return ErrBufferReleased.
func (b *Buffer) Release() {
	b.released = true
	b.region = pool.NewByteBuffer(0)
}

// Buffered returns the number of staged bytes not yet written.
func (b *Buffer) Buffered() int {
	return b.region.Len()
}

// Size returns the region capacity.
func (b *Buffer) Size() int {
	return b.size
}

// Stats returns the traffic counters.
func (b *Buffer) Stats() Stats {
	return b.stats
}

func (b *Buffer) write(p []byte) error {
	n, err := b.w.Write(p)
	b.stats.BytesWritten += int64(n)
	if b.onWrite != nil && n > 0 {
		b.onWrite(n)
	}
	if err != nil {
		return fmt.Errorf("staging write: %w", err)
	}
	if n != len(p) {
		return fmt.Errorf("staging write: %w", io.ErrShortWrite)
	}

	return nil
}
