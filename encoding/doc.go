// Package encoding implements the four record encodings of a trace file and
// the readers that parse them back.
//
// # Encodings
//
// Text (format.ModeText) writes one line per record:
//
//	<tstart> <tend> <function>[ <arg>]...\n
//
// with absolute timestamps printed with six decimals.
//
// Binary (format.ModeBinary) writes a fixed 10 byte header followed by the
// same argument tail:
//
//	+--------+-------------+-------------+-------------+
//	| status | tstart int32| tend int32  | function/slot|  then  [ <arg>]...\n
//	+--------+-------------+-------------+-------------+
//
// Timestamps are relative to the rank's start timestamp in units of the time
// resolution, little endian.
//
// Recorder (format.ModeRecorder) is Binary plus peephole delta compression:
// a record matching one of the three previous records closely is written as
// a delta whose function byte names the window slot and whose arguments are
// only the changed ones (see package record).
//
// Zlib, Zstd, S2 and LZ4 (format.ModeZlib ...) feed the text lines through one
// continuous compression stream (see package compress).
//
// # Readers
//
// NewReader returns a RecordReader for any mode. Readers yield Entries, the
// record as found on the wire: delta entries still reference a window slot
// and filename arguments still hold interned ids. Resolving both is the
// decoder's job.
package encoding
