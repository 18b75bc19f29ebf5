package record

import (
	"fmt"

	"github.com/hpcrec/recorder/errs"
	"github.com/hpcrec/recorder/format"
)

// Target is the decoded meaning of a binary header's function byte: either
// a real function id, or, in delta records, the index of the window slot the
// record was diffed against.
type Target struct {
	slot  bool
	value uint8
}

// FunctionTarget refers to a function table entry.
func FunctionTarget(id uint8) Target {
	return Target{value: id}
}

// SlotTarget refers to window slot i (0 is the most recent record).
func SlotTarget(i int) (Target, error) {
	if i < 0 || i >= format.WindowSize {
		return Target{}, fmt.Errorf("%w: %d", errs.ErrInvalidSlot, i)
	}

	return Target{slot: true, value: uint8(i)}, nil //nolint:gosec
}

// TargetFor interprets the function byte of a header carrying status s.
func TargetFor(s Status, b uint8) (Target, error) {
	if s.IsDelta() {
		return SlotTarget(int(b))
	}

	return FunctionTarget(b), nil
}

// IsSlot reports whether the target is a window slot reference.
func (t Target) IsSlot() bool {
	return t.slot
}

// Slot returns the referenced window slot. Only valid when IsSlot is true.
func (t Target) Slot() int {
	return int(t.value)
}

// FunctionID returns the referenced function. Only valid when IsSlot is false.
func (t Target) FunctionID() uint8 {
	return t.value
}

// Byte returns the wire value of the target.
func (t Target) Byte() uint8 {
	return t.value
}

func (t Target) String() string {
	if t.slot {
		return fmt.Sprintf("slot(%d)", t.value)
	}

	return fmt.Sprintf("func(%d)", t.value)
}
