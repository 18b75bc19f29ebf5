// Package intern replaces filename arguments with small integer ids.
//
// Ids are assigned in first-seen order starting at 0 and stay stable for the
// lifetime of a rank's recording. Lookups are keyed by the xxHash64 of the
// name; names that collide on the hash share a bucket and are told apart by
// comparing the strings, so a collision costs a comparison, never a wrong id.
package intern

import (
	"strconv"

	"github.com/hpcrec/recorder/functab"
	"github.com/hpcrec/recorder/internal/hash"
	"github.com/hpcrec/recorder/record"
)

// Table is the string to id mapping of one rank. It is not safe for
// concurrent use; the engine serializes access.
type Table struct {
	buckets    map[uint64][]int32 // name hash -> ids
	names      []string           // id -> name
	collisions int
}

// New creates an empty table.
func New() *Table {
	return &Table{
		buckets: make(map[uint64][]int32),
	}
}

// Intern returns the id of name, assigning the next id if it is new.
func (t *Table) Intern(name string) (id int32, added bool) {
	h := hash.ID(name)
	bucket := t.buckets[h]
	for _, id := range bucket {
		if t.names[id] == name {
			return id, false
		}
	}
	if len(bucket) > 0 {
		t.collisions++
	}

	id = int32(len(t.names)) //nolint:gosec
	t.names = append(t.names, name)
	t.buckets[h] = append(bucket, id)

	return id, true
}

// Lookup returns the name assigned to id.
func (t *Table) Lookup(id int32) (string, bool) {
	if id < 0 || int(id) >= len(t.names) {
		return "", false
	}

	return t.names[id], true
}

// Len returns the number of interned names.
func (t *Table) Len() int {
	return len(t.names)
}

// Names returns the interned names indexed by id. The slice is shared with
// the table and must not be modified.
func (t *Table) Names() []string {
	return t.names
}

// Collisions returns how many names landed in an already used hash bucket.
func (t *Table) Collisions() int {
	return t.collisions
}

// Reset drops all names. Ids restart at 0.
func (t *Table) Reset() {
	clear(t.buckets)
	t.names = t.names[:0]
	t.collisions = 0
}

// InternRecord replaces every filename argument of r, as flagged by tab, with
// the decimal string of its id. The argument slice is copied before the first
// replacement so the caller's slice is never modified. It returns the number
// of names seen for the first time.
//
// Records whose function id is outside tab are left untouched.
func (t *Table) InternRecord(tab functab.Table, r *record.Record) int {
	if int(r.FunctionID) >= tab.Len() {
		return 0
	}
	mask := tab.FilenameMask(r.FunctionID)
	if mask == 0 {
		return 0
	}

	added := 0
	copied := false
	for pos := 0; pos < 8 && pos < len(r.Args); pos++ {
		if mask&(1<<pos) == 0 {
			continue
		}
		id, isNew := t.Intern(r.Args[pos])
		if isNew {
			added++
		}
		if !copied {
			args := make([]string, len(r.Args))
			copy(args, r.Args)
			r.Args = args
			copied = true
		}
		r.Args[pos] = strconv.FormatInt(int64(id), 10)
	}

	return added
}
