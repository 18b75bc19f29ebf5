package record

import (
	"math"
	"time"

	"github.com/hpcrec/recorder/format"
)

// Record is one intercepted call.
type Record struct {
	// FunctionID indexes the external function table.
	FunctionID uint8
	// Status is zero for full records; see Status for delta records.
	Status Status
	// TimeStart and TimeEnd are absolute timestamps in seconds.
	TimeStart float64
	TimeEnd   float64
	// Args holds the call arguments in order. An empty string marks a
	// missing argument and is written as format.MissingArgument.
	Args []string
}

// ArgCount returns the number of arguments.
func (r *Record) ArgCount() int {
	return len(r.Args)
}

// Clone returns a copy whose argument slice is not shared with r.
func (r *Record) Clone() Record {
	c := *r
	if r.Args != nil {
		c.Args = make([]string, len(r.Args))
		copy(c.Args, r.Args)
	}

	return c
}

// Equal reports whether two records carry the same function, status,
// timestamps and arguments.
func (r *Record) Equal(o *Record) bool {
	if r.FunctionID != o.FunctionID || r.Status != o.Status ||
		r.TimeStart != o.TimeStart || r.TimeEnd != o.TimeEnd || len(r.Args) != len(o.Args) {
		return false
	}
	for i := range r.Args {
		if r.Args[i] != o.Args[i] {
			return false
		}
	}

	return true
}

// DeltaEligible reports whether the record may be delta encoded at all.
func (r *Record) DeltaEligible() bool {
	n := len(r.Args)
	return n > 0 && n <= format.MaxDeltaArgs
}

// Seconds converts t to the floating point seconds used by Record.
func Seconds(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

// RelativeTicks converts an absolute timestamp into the 4-byte relative form:
// (t - epoch) / resolution, rounded to the nearest tick. The second result is
// false when the value did not fit and was saturated.
func RelativeTicks(t, epoch, resolution float64) (int32, bool) {
	ticks := math.Round((t - epoch) / resolution)
	switch {
	case math.IsNaN(ticks):
		return 0, false
	case ticks > math.MaxInt32:
		return math.MaxInt32, false
	case ticks < math.MinInt32:
		return math.MinInt32, false
	}

	return int32(ticks), true
}

// AbsoluteTime is the inverse of RelativeTicks.
func AbsoluteTime(ticks int32, epoch, resolution float64) float64 {
	return float64(ticks)*resolution + epoch
}
