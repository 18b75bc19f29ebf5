// Package functab describes the intercepted functions: the ordered name table
// that function ids index into, and which argument positions of each function
// carry filenames.
//
// The table is a collaborator of the recording engine and the decoder. Both
// must use the same table for a trace to decode correctly.
package functab

import (
	"fmt"

	"github.com/hpcrec/recorder/errs"
	"github.com/hpcrec/recorder/format"
)

// Table maps function ids to names and filename-argument masks.
type Table interface {
	// Len returns the number of known functions. Valid ids are [0, Len()).
	Len() int
	// Name returns the function name, or "" when id is out of range.
	Name(id uint8) string
	// Lookup returns the id of a function name.
	Lookup(name string) (uint8, bool)
	// FilenameMask returns a bitmask whose bit i is set when argument i of
	// the function is a filename. Out of range ids return 0.
	FilenameMask(id uint8) uint8
}

// Entry is one function of a StaticTable.
type Entry struct {
	Name string
	// FilenameArgs lists the argument positions (0-7) holding filenames.
	FilenameArgs []int
}

// StaticTable is an immutable Table built from a list of entries.
type StaticTable struct {
	names []string
	masks []uint8
	ids   map[string]uint8
}

var _ Table = (*StaticTable)(nil)

// New builds a table; entry i gets function id i.
func New(entries []Entry) (*StaticTable, error) {
	if len(entries) > format.MaxFunctions {
		return nil, fmt.Errorf("%w: %d entries", errs.ErrTooManyFunctions, len(entries))
	}

	t := &StaticTable{
		names: make([]string, len(entries)),
		masks: make([]uint8, len(entries)),
		ids:   make(map[string]uint8, len(entries)),
	}
	for i, e := range entries {
		if _, dup := t.ids[e.Name]; dup {
			return nil, fmt.Errorf("duplicate function %q in table", e.Name)
		}
		var mask uint8
		for _, pos := range e.FilenameArgs {
			if pos < 0 || pos > 7 {
				return nil, fmt.Errorf("function %q: filename position %d out of range", e.Name, pos)
			}
			mask |= 1 << pos
		}
		t.names[i] = e.Name
		t.masks[i] = mask
		t.ids[e.Name] = uint8(i) //nolint:gosec
	}

	return t, nil
}

// MustNew is like New but panics on error. Intended for package level tables.
func MustNew(entries []Entry) *StaticTable {
	t, err := New(entries)
	if err != nil {
		panic(err)
	}

	return t
}

func (t *StaticTable) Len() int {
	return len(t.names)
}

func (t *StaticTable) Name(id uint8) string {
	if int(id) >= len(t.names) {
		return ""
	}

	return t.names[id]
}

func (t *StaticTable) Lookup(name string) (uint8, bool) {
	id, ok := t.ids[name]
	return id, ok
}

func (t *StaticTable) FilenameMask(id uint8) uint8 {
	if int(id) >= len(t.masks) {
		return 0
	}

	return t.masks[id]
}

// IsFilenameArg reports whether argument pos of function id is a filename.
func IsFilenameArg(t Table, id uint8, pos int) bool {
	if pos < 0 || pos > 7 || int(id) >= t.Len() {
		return false
	}

	return t.FilenameMask(id)&(1<<pos) != 0
}
