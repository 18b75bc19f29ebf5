// Package record defines the unit of trace data and the peephole machinery
// shared by the encoder and the decoder.
//
// A Record is one intercepted call: a function id, a start/end interval, a
// status byte and an ordered list of string arguments. The delta binary mode
// compares every new record with the three most recent ones held in a Window
// and, when a same-function record with the same argument count differs in
// fewer positions than it has arguments, writes only the differing arguments
// plus a Status mask naming their positions.
//
// Status layout:
//
//	bit 7     record is delta encoded against a window slot
//	bits 0-6  argument position i changed (delta records only)
//
// Records with more than MaxDeltaArgs arguments are never delta encoded, so
// every argument position of an eligible record fits in the 7-bit mask.
package record
