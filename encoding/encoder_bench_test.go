package encoding

import (
	"io"
	"strconv"
	"testing"

	"github.com/hpcrec/recorder/format"
	"github.com/hpcrec/recorder/record"
)

func benchRecords(n int) []*record.Record {
	out := make([]*record.Record, n)
	for i := range out {
		t := 100 + float64(i)*0.001
		out[i] = rec(fnWrite, t, t+0.0005, "3", "buf", strconv.Itoa(4096*(i%4)))
	}

	return out
}

func BenchmarkEncode(b *testing.B) {
	records := benchRecords(1024)
	cfg := Config{Epoch: 100, Resolution: format.DefaultTimeRes, Functions: testFuncs}

	for _, mode := range []format.CompressionMode{
		format.ModeText, format.ModeBinary, format.ModeRecorder,
		format.ModeZlib, format.ModeZstd, format.ModeS2, format.ModeLZ4,
	} {
		b.Run(mode.String(), func(b *testing.B) {
			enc, err := New(mode, io.Discard, cfg)
			if err != nil {
				b.Fatal(err)
			}
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if err := enc.Encode(records[i%len(records)]); err != nil {
					b.Fatal(err)
				}
			}
			b.StopTimer()
			_ = enc.Close()
		})
	}
}
