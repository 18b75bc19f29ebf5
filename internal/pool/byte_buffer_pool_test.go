package pool

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewByteBuffer(t *testing.T) {
	bb := NewByteBuffer(1024)

	require.NotNil(t, bb)
	assert.Equal(t, 0, bb.Len())
	assert.Equal(t, 1024, bb.Cap())
	assert.Equal(t, 1024, bb.Available())
}

func TestByteBuffer_Writes(t *testing.T) {
	bb := NewByteBuffer(4)

	bb.MustWrite([]byte("12.5"))
	require.NoError(t, bb.WriteByte(' '))
	n, err := bb.WriteString("open")
	require.NoError(t, err)
	require.Equal(t, 4, n)
	n, err = bb.Write([]byte(" 3\n"))
	require.NoError(t, err)
	require.Equal(t, 3, n)

	assert.Equal(t, "12.5 open 3\n", string(bb.Bytes()))
}

func TestByteBuffer_Reset(t *testing.T) {
	bb := NewByteBuffer(64)
	bb.MustWrite([]byte("some data"))
	originalCap := bb.Cap()

	bb.Reset()

	assert.Equal(t, 0, bb.Len())
	assert.Equal(t, originalCap, bb.Cap())
}

func TestByteBuffer_Grow(t *testing.T) {
	t.Run("sufficient capacity is a no-op", func(t *testing.T) {
		bb := NewByteBuffer(128)
		bb.MustWrite([]byte("abc"))
		bb.Grow(100)
		assert.Equal(t, 128, bb.Cap())
	})

	t.Run("small buffer grows by default size", func(t *testing.T) {
		bb := NewByteBuffer(8)
		bb.MustWrite([]byte("12345678"))
		bb.Grow(1)
		assert.Equal(t, 8+RecordBufferDefaultSize, bb.Cap())
		assert.Equal(t, "12345678", string(bb.Bytes()))
	})

	t.Run("large buffer grows by a quarter", func(t *testing.T) {
		size := 8 * RecordBufferDefaultSize
		bb := NewByteBuffer(size)
		bb.MustWrite(make([]byte, size))
		bb.Grow(1)
		assert.Equal(t, size+size/4, bb.Cap())
	})

	t.Run("large request wins", func(t *testing.T) {
		bb := NewByteBuffer(0)
		bb.Grow(10 * RecordBufferDefaultSize)
		assert.GreaterOrEqual(t, bb.Available(), 10*RecordBufferDefaultSize)
	})
}

type errorWriter struct{}

func (errorWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestByteBuffer_WriteTo(t *testing.T) {
	bb := NewByteBuffer(16)
	bb.MustWrite([]byte("record\n"))

	var out bytes.Buffer
	n, err := bb.WriteTo(&out)
	require.NoError(t, err)
	require.Equal(t, int64(7), n)
	require.Equal(t, "record\n", out.String())

	_, err = bb.WriteTo(errorWriter{})
	require.EqualError(t, err, "disk full")
}

func TestByteBufferPool(t *testing.T) {
	t.Run("get returns empty buffers", func(t *testing.T) {
		p := NewByteBufferPool(32, 0)
		bb := p.Get()
		bb.MustWrite([]byte("dirty"))
		p.Put(bb)

		bb = p.Get()
		require.Equal(t, 0, bb.Len())
	})

	t.Run("put ignores nil", func(t *testing.T) {
		p := NewByteBufferPool(32, 0)
		require.NotPanics(t, func() { p.Put(nil) })
	})

	t.Run("oversized buffers are discarded", func(t *testing.T) {
		p := NewByteBufferPool(16, 32)
		bb := p.Get()
		bb.Grow(1024)
		p.Put(bb)

		for range 8 {
			got := p.Get()
			require.LessOrEqual(t, got.Cap(), 32)
		}
	})
}

func TestDefaultPools(t *testing.T) {
	rb := GetRecordBuffer()
	require.NotNil(t, rb)
	require.Equal(t, 0, rb.Len())
	PutRecordBuffer(rb)

	lb := GetLineBuffer()
	require.NotNil(t, lb)
	require.GreaterOrEqual(t, lb.Cap(), 0)
	PutLineBuffer(lb)
}

func TestPool_ConcurrentAccess(t *testing.T) {
	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			bb := GetRecordBuffer()
			defer PutRecordBuffer(bb)
			for range 100 {
				bb.MustWrite([]byte{byte(i)})
			}
			assert.Equal(t, 100, bb.Len())
		}(i)
	}
	wg.Wait()
}

func BenchmarkRecordBuffer_GetWritePut(b *testing.B) {
	line := []byte("0.000012 0.000020 write 3 4096 0x7ffd\n")
	for b.Loop() {
		bb := GetRecordBuffer()
		bb.MustWrite(line)
		PutRecordBuffer(bb)
	}
}
