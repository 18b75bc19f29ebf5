package staging

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpcrec/recorder/errs"
)

// recordingWriter remembers every Write call separately.
type recordingWriter struct {
	calls [][]byte
	err   error
}

func (w *recordingWriter) Write(p []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	w.calls = append(w.calls, append([]byte(nil), p...))

	return len(p), nil
}

func (w *recordingWriter) joined() []byte {
	return bytes.Join(w.calls, nil)
}

func TestNew_InvalidSize(t *testing.T) {
	_, err := New(&bytes.Buffer{}, 0)
	require.ErrorIs(t, err, errs.ErrInvalidBufferSize)
	_, err = New(&bytes.Buffer{}, -5)
	require.ErrorIs(t, err, errs.ErrInvalidBufferSize)
}

func TestBuffer_AppendAndFlush(t *testing.T) {
	w := &recordingWriter{}
	b, err := New(w, 16)
	require.NoError(t, err)

	require.NoError(t, b.Append([]byte("hello ")))
	require.NoError(t, b.Append([]byte("world")))
	require.Empty(t, w.calls, "nothing is written before the region fills")
	require.Equal(t, 11, b.Buffered())

	require.NoError(t, b.Flush())
	require.Equal(t, [][]byte{[]byte("hello world")}, w.calls)
	require.Equal(t, 0, b.Buffered())

	require.NoError(t, b.Flush(), "flushing an empty region is a no-op")
	require.Len(t, w.calls, 1)
}

func TestBuffer_FlushOnOverflow(t *testing.T) {
	w := &recordingWriter{}
	b, err := New(w, 8)
	require.NoError(t, err)

	require.NoError(t, b.Append([]byte("12345")))
	require.NoError(t, b.Append([]byte("678"))) // exactly full
	require.Empty(t, w.calls)

	require.NoError(t, b.Append([]byte("9")))
	require.Equal(t, [][]byte{[]byte("12345678")}, w.calls)
	require.Equal(t, 1, b.Buffered())
}

func TestBuffer_OversizedAppendBypasses(t *testing.T) {
	w := &recordingWriter{}
	b, err := New(w, 4)
	require.NoError(t, err)

	require.NoError(t, b.Append([]byte("ab")))
	require.NoError(t, b.Append([]byte("0123456789")))

	// pending bytes go out first, then the large append in one direct write
	require.Equal(t, [][]byte{[]byte("ab"), []byte("0123456789")}, w.calls)
	require.Equal(t, 0, b.Buffered())
	require.Equal(t, int64(1), b.Stats().DirectWrites)
}

func TestBuffer_NoLossNoReorder(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, size := range []int{1, 7, 64, 1024} {
		w := &recordingWriter{}
		b, err := New(w, size)
		require.NoError(t, err)

		var want bytes.Buffer
		for i := range 2000 {
			n := rng.Intn(size + 1)
			p := make([]byte, n)
			for j := range p {
				p[j] = byte(i + j)
			}
			want.Write(p)
			_, err := b.Write(p)
			require.NoError(t, err)
		}
		require.NoError(t, b.Flush())
		require.Equal(t, want.Bytes(), w.joined(), "size=%d", size)

		for _, call := range w.calls {
			require.LessOrEqual(t, len(call), size)
		}
	}
}

func TestBuffer_CopiesInput(t *testing.T) {
	w := &recordingWriter{}
	b, err := New(w, 32)
	require.NoError(t, err)

	p := []byte("abc")
	require.NoError(t, b.Append(p))
	p[0] = 'X'
	require.NoError(t, b.Flush())
	require.Equal(t, "abc", string(w.joined()))
}

func TestBuffer_Release(t *testing.T) {
	b, err := New(&bytes.Buffer{}, 32)
	require.NoError(t, err)
	b.Release()

	require.ErrorIs(t, b.Append([]byte("x")), errs.ErrBufferReleased)
	require.ErrorIs(t, b.Flush(), errs.ErrBufferReleased)
	_, err = b.Write([]byte("x"))
	require.ErrorIs(t, err, errs.ErrBufferReleased)
}

func TestBuffer_WriteError(t *testing.T) {
	boom := errors.New("quota exceeded")
	w := &recordingWriter{err: boom}
	b, err := New(w, 4)
	require.NoError(t, err)

	require.NoError(t, b.Append([]byte("abcd")))
	err = b.Append([]byte("e"))
	require.ErrorIs(t, err, boom)
	require.Equal(t, 0, b.Buffered(), "failed flush still empties the region")

	w.err = nil
	require.NoError(t, b.Append([]byte("fg")))
	require.NoError(t, b.Flush())
	require.Equal(t, "fg", string(w.joined()))
}

type shortWriter struct{}

func (shortWriter) Write(p []byte) (int, error) { return len(p) / 2, nil }

func TestBuffer_ShortWrite(t *testing.T) {
	b, err := New(shortWriter{}, 8)
	require.NoError(t, err)
	require.NoError(t, b.Append([]byte("abcd")))
	require.Error(t, b.Flush())
}

func TestBuffer_WriteHookAndStats(t *testing.T) {
	var hooked int
	b, err := New(&bytes.Buffer{}, 4, WithWriteHook(func(n int) { hooked += n }))
	require.NoError(t, err)

	require.NoError(t, b.Append([]byte("abc")))
	require.NoError(t, b.Append([]byte("de")))
	require.NoError(t, b.Append([]byte("0123456789")))
	require.NoError(t, b.Flush())

	st := b.Stats()
	require.Equal(t, int64(3), st.Appends)
	require.Equal(t, int64(2), st.Flushes)
	require.Equal(t, int64(1), st.DirectWrites)
	require.Equal(t, int64(15), st.BytesWritten)
	require.Equal(t, 15, hooked)
	require.Equal(t, 4, b.Size())
}
