package compress

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpcrec/recorder/errs"
	"github.com/hpcrec/recorder/format"
)

var streamModes = []format.CompressionMode{
	format.ModeZlib,
	format.ModeZstd,
	format.ModeS2,
	format.ModeLZ4,
}

// traceLines produces text records with the locality of a real trace.
func traceLines(n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("%.6f %.6f write 3 4096 %d\n", float64(i)*0.00001, float64(i)*0.00001+0.000004, i*4096)
	}

	return lines
}

func TestCreateCodec(t *testing.T) {
	for _, mode := range streamModes {
		codec, err := CreateCodec(mode)
		require.NoError(t, err, mode.String())
		require.NotNil(t, codec)

		shared, err := GetCodec(mode)
		require.NoError(t, err)
		require.NotNil(t, shared)
	}

	for _, mode := range []format.CompressionMode{format.ModeText, format.ModeBinary, format.ModeRecorder, 99} {
		_, err := CreateCodec(mode)
		require.ErrorIs(t, err, errs.ErrInvalidMode)
		_, err = GetCodec(mode)
		require.ErrorIs(t, err, errs.ErrInvalidMode)
	}
}

func TestStreamCodec_RoundTrip(t *testing.T) {
	lines := traceLines(2000)
	want := strings.Join(lines, "")

	for _, mode := range streamModes {
		t.Run(mode.String(), func(t *testing.T) {
			codec, err := GetCodec(mode)
			require.NoError(t, err)

			var compressed bytes.Buffer
			w, err := codec.NewWriter(&compressed)
			require.NoError(t, err)

			// one write per record, the way the streaming encoder feeds it
			for _, line := range lines {
				n, err := io.WriteString(w, line)
				require.NoError(t, err)
				require.Equal(t, len(line), n)
			}
			require.NoError(t, w.Close())
			require.Less(t, compressed.Len(), len(want), "trace text must compress")

			r, err := codec.NewReader(&compressed)
			require.NoError(t, err)
			defer r.Close()

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			require.Equal(t, want, string(got))
		})
	}
}

func TestStreamCodec_EmptyStream(t *testing.T) {
	for _, mode := range streamModes {
		t.Run(mode.String(), func(t *testing.T) {
			codec, err := GetCodec(mode)
			require.NoError(t, err)

			var compressed bytes.Buffer
			w, err := codec.NewWriter(&compressed)
			require.NoError(t, err)
			require.NoError(t, w.Close())

			r, err := codec.NewReader(&compressed)
			require.NoError(t, err)
			defer r.Close()

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			require.Empty(t, got)
		})
	}
}

func TestStreamCodec_TruncatedStream(t *testing.T) {
	// Without the finish signal the zlib trailer is missing and the reader
	// must not report a clean end of stream.
	codec := NewZlibCodec()

	var compressed bytes.Buffer
	w, err := codec.NewWriter(&compressed)
	require.NoError(t, err)
	for _, line := range traceLines(500) {
		_, err := io.WriteString(w, line)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	truncated := compressed.Bytes()[:compressed.Len()-6]
	r, err := codec.NewReader(bytes.NewReader(truncated))
	require.NoError(t, err)
	_, err = io.ReadAll(r)
	require.Error(t, err)
}

func TestNoOpCodec(t *testing.T) {
	codec := NewNoOpCodec()

	var out bytes.Buffer
	w, err := codec.NewWriter(&out)
	require.NoError(t, err)
	_, err = w.Write([]byte("0.1 0.2 open 0 2\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.Equal(t, "0.1 0.2 open 0 2\n", out.String())

	r, err := codec.NewReader(&out)
	require.NoError(t, err)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, "0.1 0.2 open 0 2\n", string(got))
}

func TestZlibCodecLevel(t *testing.T) {
	lines := strings.Join(traceLines(1000), "")

	sizes := map[int]int{}
	for _, level := range []int{1, 9} {
		var out bytes.Buffer
		w, err := NewZlibCodecLevel(level).NewWriter(&out)
		require.NoError(t, err)
		_, err = io.WriteString(w, lines)
		require.NoError(t, err)
		require.NoError(t, w.Close())
		sizes[level] = out.Len()
	}
	require.LessOrEqual(t, sizes[9], sizes[1])

	_, err := NewZlibCodecLevel(42).NewWriter(io.Discard)
	require.Error(t, err)
}

func TestStats(t *testing.T) {
	s := Stats{Mode: format.ModeZlib, OriginalSize: 1000, CompressedSize: 250}
	require.InDelta(t, 0.25, s.CompressionRatio(), 1e-9)
	require.InDelta(t, 75.0, s.SpaceSavings(), 1e-9)

	empty := Stats{}
	require.Equal(t, 0.0, empty.CompressionRatio())
	require.Equal(t, 0.0, empty.SpaceSavings())
}

func BenchmarkStreamCodec_Write(b *testing.B) {
	lines := traceLines(1024)
	for _, mode := range streamModes {
		b.Run(mode.String(), func(b *testing.B) {
			codec, _ := GetCodec(mode)
			w, _ := codec.NewWriter(io.Discard)
			b.ResetTimer()
			i := 0
			for b.Loop() {
				_, _ = io.WriteString(w, lines[i&1023])
				i++
			}
			_ = w.Close()
		})
	}
}
