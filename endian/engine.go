// Package endian provides the byte order used by every binary layout of a trace.
//
// Record headers, global metadata and local metadata are all written with the
// engine returned by GetTraceEngine (little endian), so traces captured on one
// host decode on any other. The package combines encoding/binary's ByteOrder
// and AppendByteOrder and adds signed and floating point helpers for the
// int32/int64/float64 fields those layouts carry.
//
// # Basic Usage
//
//	engine := endian.GetTraceEngine()
//	buf = endian.AppendInt32(engine, buf, tstart)
//	buf = endian.AppendFloat64(engine, buf, resolution)
//
// # Thread Safety
//
// All functions in this package are safe for concurrent use.
package endian

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface.
//
// binary.LittleEndian and binary.BigEndian both satisfy it.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// CheckEndianness uses a fixed integer value to determine the host's byte order.
func CheckEndianness() binary.ByteOrder {
	var i uint16 = 0x0100

	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

func IsNativeLittleEndian() bool {
	return CheckEndianness() == binary.LittleEndian
}

// GetTraceEngine returns the engine used for all trace and metadata files.
func GetTraceEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// AppendInt32 appends v as a two's complement 32-bit value.
func AppendInt32(engine EndianEngine, buf []byte, v int32) []byte {
	return engine.AppendUint32(buf, uint32(v)) //nolint:gosec
}

// Int32 reads a two's complement 32-bit value from the first 4 bytes of b.
func Int32(engine EndianEngine, b []byte) int32 {
	return int32(engine.Uint32(b)) //nolint:gosec
}

// AppendInt64 appends v as a two's complement 64-bit value.
func AppendInt64(engine EndianEngine, buf []byte, v int64) []byte {
	return engine.AppendUint64(buf, uint64(v)) //nolint:gosec
}

// Int64 reads a two's complement 64-bit value from the first 8 bytes of b.
func Int64(engine EndianEngine, b []byte) int64 {
	return int64(engine.Uint64(b)) //nolint:gosec
}

// AppendFloat64 appends the IEEE 754 bits of v.
func AppendFloat64(engine EndianEngine, buf []byte, v float64) []byte {
	return engine.AppendUint64(buf, math.Float64bits(v))
}

// Float64 reads an IEEE 754 double from the first 8 bytes of b.
func Float64(engine EndianEngine, b []byte) float64 {
	return math.Float64frombits(engine.Uint64(b))
}
