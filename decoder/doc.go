// Package decoder turns a trace directory back into readable text.
//
// For every rank the decoder reads the global and local metadata, replays the
// encoder's peephole window to resolve delta records, maps interned filename
// ids back to names and writes one line per record:
//
//	<status> <tstart> <tend> <function>[ <arg>]...
//
// Ranks are decoded in parallel and independently: a malformed rank is
// reported and the other ranks are still decoded.
package decoder
