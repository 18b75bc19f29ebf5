package record

// Diff is the delta payload of a record against an older one.
type Diff struct {
	// Status has StatusDelta set plus one bit per differing position.
	Status Status
	// Args holds the differing arguments of the newer record, in order.
	Args []string
}

// Count returns the number of differing positions.
func (d Diff) Count() int {
	return len(d.Args)
}

// ComputeDiff compares newer against older position by position.
//
// The records are comparable only when their argument counts match; the
// second result is false otherwise.
func ComputeDiff(older, newer *Record) (Diff, bool) {
	if older.ArgCount() != newer.ArgCount() {
		return Diff{}, false
	}

	d := Diff{Status: StatusDelta}
	for i, arg := range newer.Args {
		if older.Args[i] == arg {
			continue
		}
		d.Args = append(d.Args, arg)
		d.Status = d.Status.WithChanged(i)
	}

	return d, true
}

// DeltaRecord builds the record actually written for a match: the window
// slot replaces the function id, the timestamps are r's own and the
// arguments are the diff payload.
func DeltaRecord(r *Record, m Match) (Record, Target) {
	t, _ := SlotTarget(m.Slot)

	return Record{
		FunctionID: t.Byte(),
		Status:     m.Diff.Status,
		TimeStart:  r.TimeStart,
		TimeEnd:    r.TimeEnd,
		Args:       m.Diff.Args,
	}, t
}
