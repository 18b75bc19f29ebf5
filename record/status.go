package record

import "fmt"

// Status is the per-record flag byte.
type Status uint8

const (
	// StatusDelta marks a record written as a diff against a window slot.
	StatusDelta Status = 0x80
	// StatusMaskBits covers the argument positions representable in the mask.
	StatusMaskBits Status = 0x7f
)

// IsDelta reports whether bit 7 is set.
func (s Status) IsDelta() bool {
	return s&StatusDelta != 0
}

// Changed reports whether argument position pos is flagged as changed.
// Positions outside 0-6 are never flagged.
func (s Status) Changed(pos int) bool {
	if pos < 0 || pos > 6 {
		return false
	}

	return s&(1<<pos) != 0
}

// WithChanged returns s with argument position pos flagged.
func (s Status) WithChanged(pos int) Status {
	if pos < 0 || pos > 6 {
		return s
	}

	return s | 1<<pos
}

// ChangedCount returns the number of flagged positions.
func (s Status) ChangedCount() int {
	n := 0
	for m := s & StatusMaskBits; m != 0; m &= m - 1 {
		n++
	}

	return n
}

func (s Status) String() string {
	if !s.IsDelta() {
		return fmt.Sprintf("%d", uint8(s))
	}

	return fmt.Sprintf("delta(%07b)", uint8(s&StatusMaskBits))
}
