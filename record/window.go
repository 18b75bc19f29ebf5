package record

import (
	"fmt"

	"github.com/hpcrec/recorder/errs"
	"github.com/hpcrec/recorder/format"
)

// Window holds the format.WindowSize most recent records, most recent first.
//
// The encoder pushes every raw record it receives and the decoder pushes every
// record it fully resolves, so both sides hold identical windows at each step.
type Window struct {
	slots [format.WindowSize]Record
	used  [format.WindowSize]bool
}

// Push inserts a copy of r at slot 0, evicting the oldest slot.
func (w *Window) Push(r *Record) {
	copy(w.slots[1:], w.slots[:format.WindowSize-1])
	copy(w.used[1:], w.used[:format.WindowSize-1])
	w.slots[0] = r.Clone()
	w.used[0] = true
}

// At returns slot i, or false if it has never been populated.
func (w *Window) At(i int) (*Record, bool) {
	if i < 0 || i >= format.WindowSize || !w.used[i] {
		return nil, false
	}

	return &w.slots[i], true
}

// Len returns the number of populated slots.
func (w *Window) Len() int {
	n := 0
	for _, u := range w.used {
		if u {
			n++
		}
	}

	return n
}

// Reset empties the window.
func (w *Window) Reset() {
	*w = Window{}
}

// Match is the best delta candidate for a record.
type Match struct {
	// Slot is the window slot the diff was computed against.
	Slot int
	// Diff holds the changed arguments and the delta status.
	Diff Diff
}

// BestMatch selects the slot to delta encode r against.
//
// A slot qualifies when it holds a record of the same function with the same,
// non-zero argument count, r itself is delta eligible, and fewer than
// r.ArgCount() positions differ. Among qualifying slots the one with the
// fewest differences wins; ties go to the lower (more recent) slot.
func (w *Window) BestMatch(r *Record) (Match, bool) {
	if !r.DeltaEligible() {
		return Match{}, false
	}

	best := Match{Slot: -1}
	for i := range format.WindowSize {
		old, ok := w.At(i)
		if !ok || old.FunctionID != r.FunctionID || old.ArgCount() == 0 {
			continue
		}

		d, ok := ComputeDiff(old, r)
		if !ok || d.Count() >= r.ArgCount() {
			continue
		}

		if best.Slot < 0 || d.Count() < best.Diff.Count() {
			best = Match{Slot: i, Diff: d}
		}
	}

	return best, best.Slot >= 0
}

// Resolve rebuilds a full record from a delta record read off the wire.
//
// delta carries the header status, the timestamps and only the changed
// arguments; target must be a slot reference. Function id and argument count
// come from the slot, changed positions are overwritten in ascending order.
func (w *Window) Resolve(target Target, delta *Record) (Record, error) {
	if !target.IsSlot() {
		return Record{}, fmt.Errorf("%w: %s is not a slot reference", errs.ErrInvalidSlot, target)
	}

	base, ok := w.At(target.Slot())
	if !ok {
		return Record{}, fmt.Errorf("%w: slot %d", errs.ErrEmptyWindowSlot, target.Slot())
	}

	if want := delta.Status.ChangedCount(); want != delta.ArgCount() {
		return Record{}, fmt.Errorf("%w: mask has %d positions, payload has %d arguments",
			errs.ErrDiffArgMismatch, want, delta.ArgCount())
	}

	out := base.Clone()
	out.Status = delta.Status
	out.TimeStart = delta.TimeStart
	out.TimeEnd = delta.TimeEnd

	next := 0
	for pos := range 7 {
		if !delta.Status.Changed(pos) {
			continue
		}
		if pos >= len(out.Args) {
			return Record{}, fmt.Errorf("%w: position %d, slot has %d arguments",
				errs.ErrMaskOutOfRange, pos, len(out.Args))
		}
		out.Args[pos] = delta.Args[next]
		next++
	}

	return out, nil
}
