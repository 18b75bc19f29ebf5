// Package compress provides the streaming compressors behind the compressed
// text trace modes.
//
// Compressed modes format every record as a text line and push it through one
// continuous compression stream whose state persists across records. Output
// is produced whenever the stream's internal window fills, so a trace file is
// only complete after the stream has been closed with a finish signal and
// drained.
//
// # Supported Algorithms
//
//   - Zlib (format.ModeZlib): deflate with a zlib wrapper, the default
//     compressed mode.
//   - Zstd (format.ModeZstd): better ratio on long traces, more memory.
//   - S2 (format.ModeS2): fastest, weakest ratio.
//   - LZ4 (format.ModeLZ4): lz4 frame format, fast decompression.
//   - None: pass-through, used by tests and by the plain text mode.
//
// # Usage
//
//	codec, err := compress.GetCodec(format.ModeZlib)
//	if err != nil {
//	    return err
//	}
//	w, err := codec.NewWriter(traceFile)
//	...
//	w.Write(line)
//	...
//	w.Close() // emits the finish marker; does not close traceFile
//
// Readers mirror writers:
//
//	r, err := codec.NewReader(traceFile)
//	defer r.Close()
//
// # Thread Safety
//
// Codecs are stateless and safe for concurrent use. The writers and readers
// they return are not; each belongs to a single rank's stream.
package compress
