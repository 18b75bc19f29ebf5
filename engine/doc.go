// Package engine is the per-rank recording engine: the single entry point the
// call-interception shims hand records to.
//
// An Engine owns the rank's trace file, its staging buffer, the active
// encoder, the filename interner and the local metadata counters. It is
// created once per process with New and finished with Close, which flushes
// everything and writes the rank's metadata.
//
// # Concurrency
//
// Write serializes every caller behind one lock; concurrent callers block
// while another record is encoded or the staging buffer is flushed, and no
// record is lost. The engine's own file I/O goes to the real files directly
// and never passes back through Write.
//
// # Suppression
//
// Shims that perform I/O on the engine's behalf, such as opening a file the
// engine needs, can open an explicit scope with Suppress. Calls made while a
// scope is open are dropped and counted in Stats.SuppressedRecords. The scope
// is process wide, so it must only span the caller's own I/O.
//
// # Errors
//
// Write never panics and a failing record never disturbs the traced program:
// the record is dropped, counted, and the first failure of each kind is
// logged. Write still returns the error for callers that want it.
package engine
