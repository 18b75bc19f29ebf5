// Package metadata defines the two metadata files that make a trace directory
// self-describing.
//
// The global file (recorder.mt) is written once by rank 0:
//
//	+----------------+-----------+-----------+-------------+
//	| resolution f64 | ranks i32 | mode i32  | window i32  |
//	+----------------+-----------+-----------+-------------+
//
// Each rank writes a local file (<rank>.mt) at shutdown:
//
//	+-----------+----------------------+-----------+-----------+---------+
//	| total i64 | 256 x per-func i64   | files i32 | start f64 | end f64 |
//	+-----------+----------------------+-----------+-----------+---------+
//	followed by, per interned filename in id order:
//	+--------+----------+-------------+------------+
//	| id i32 | size u64 | namelen i32 | name bytes |
//	+--------+----------+-------------+------------+
//
// All integers and floats are little endian.
package metadata
