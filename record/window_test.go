package record

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpcrec/recorder/errs"
)

func rec(fn uint8, args ...string) *Record {
	return &Record{FunctionID: fn, Args: args}
}

func TestWindow_PushEvictsOldest(t *testing.T) {
	var w Window
	require.Equal(t, 0, w.Len())
	_, ok := w.At(0)
	require.False(t, ok)

	for i := range 4 {
		w.Push(rec(uint8(i), "x"))
	}
	require.Equal(t, 3, w.Len())

	for slot, want := range []uint8{3, 2, 1} {
		r, ok := w.At(slot)
		require.True(t, ok)
		require.Equal(t, want, r.FunctionID)
	}
	_, ok = w.At(3)
	require.False(t, ok)
	_, ok = w.At(-1)
	require.False(t, ok)

	w.Reset()
	require.Equal(t, 0, w.Len())
}

func TestWindow_PushCopiesArgs(t *testing.T) {
	var w Window
	r := rec(1, "a", "b")
	w.Push(r)
	r.Args[0] = "mutated"

	got, _ := w.At(0)
	require.Equal(t, "a", got.Args[0])
}

func TestComputeDiff(t *testing.T) {
	d, ok := ComputeDiff(rec(1, "a", "b", "c"), rec(1, "a", "x", "y"))
	require.True(t, ok)
	require.Equal(t, 2, d.Count())
	require.Equal(t, []string{"x", "y"}, d.Args)
	require.Equal(t, StatusDelta|0b110, d.Status)

	d, ok = ComputeDiff(rec(1, "a"), rec(1, "a"))
	require.True(t, ok)
	require.Equal(t, 0, d.Count())
	require.Equal(t, StatusDelta, d.Status)

	_, ok = ComputeDiff(rec(1, "a"), rec(1, "a", "b"))
	require.False(t, ok, "different argument counts are not comparable")
}

func TestWindow_BestMatch_FewestDifferences(t *testing.T) {
	var w Window
	w.Push(rec(5, "a", "b", "c")) // slot 2
	w.Push(rec(5, "a", "x", "y")) // slot 1
	w.Push(rec(5, "q", "x", "y")) // slot 0

	m, ok := w.BestMatch(rec(5, "a", "b", "y"))
	require.True(t, ok)
	// slot 0: 2 diffs, slot 1: 1 diff, slot 2: 1 diff -> slot 1 (more recent tie)
	require.Equal(t, 1, m.Slot)
	require.Equal(t, []string{"b"}, m.Diff.Args)
	require.Equal(t, StatusDelta|0b010, m.Diff.Status)
}

func TestWindow_BestMatch_TieGoesToMostRecent(t *testing.T) {
	// R1..R5: R3 and R5 share the function of R2 and each differs from it in
	// exactly one position.
	r1 := rec(0, "init")
	r2 := rec(1, "fd3", "4096", "0")
	r3 := rec(1, "fd3", "4096", "4096")
	r4 := rec(2, "fd3")
	r5 := rec(1, "fd3", "4096", "8192")

	var w Window
	for _, r := range []*Record{r1, r2, r3} {
		w.Push(r)
	}

	m, ok := w.BestMatch(r4)
	require.False(t, ok, "no record of function 2 in the window")
	w.Push(r4)

	m, ok = w.BestMatch(r5)
	require.True(t, ok)
	// window: [r4, r3, r2]; r3 and r2 each differ in one position
	require.Equal(t, 1, m.Slot)
	require.Equal(t, []string{"8192"}, m.Diff.Args)
	require.True(t, m.Diff.Status.Changed(2))
}

func TestWindow_BestMatch_Eligibility(t *testing.T) {
	var w Window
	w.Push(rec(1))
	_, ok := w.BestMatch(rec(1))
	require.False(t, ok, "argCount == 0 is never delta encoded")

	eight := []string{"1", "2", "3", "4", "5", "6", "7", "8"}
	w.Push(rec(1, eight...))
	_, ok = w.BestMatch(rec(1, eight...))
	require.False(t, ok, "argCount >= 8 is never delta encoded")

	seven := eight[:7]
	w.Push(rec(1, seven...))
	m, ok := w.BestMatch(rec(1, seven...))
	require.True(t, ok, "argCount == 7 is eligible")
	require.Equal(t, 0, m.Slot)
	require.Equal(t, 0, m.Diff.Count())
}

func TestWindow_BestMatch_NotBeneficial(t *testing.T) {
	var w Window
	w.Push(rec(1, "a", "b"))

	_, ok := w.BestMatch(rec(1, "x", "y"))
	require.False(t, ok, "all positions differ")

	_, ok = w.BestMatch(rec(2, "a", "b"))
	require.False(t, ok, "different function")

	_, ok = w.BestMatch(rec(1, "a", "b", "c"))
	require.False(t, ok, "different argument count")
}

func TestWindow_BestMatch_IdenticalRecord(t *testing.T) {
	// ["a","b"], ["a","c"], ["a","c"]
	var w Window
	first := rec(9, "a", "b")
	second := rec(9, "a", "c")
	third := rec(9, "a", "c")

	_, ok := w.BestMatch(first)
	require.False(t, ok)
	w.Push(first)

	m, ok := w.BestMatch(second)
	require.True(t, ok)
	require.Equal(t, 0, m.Slot)
	require.Equal(t, StatusDelta|0b10, m.Diff.Status)
	require.Equal(t, []string{"c"}, m.Diff.Args)
	w.Push(second)

	m, ok = w.BestMatch(third)
	require.True(t, ok, "zero differences is still fewer than two arguments")
	require.Equal(t, 0, m.Slot)
	require.Equal(t, StatusDelta, m.Diff.Status)
	require.Empty(t, m.Diff.Args)
}

func TestDeltaRecord(t *testing.T) {
	r := &Record{FunctionID: 17, TimeStart: 1.5, TimeEnd: 1.75, Args: []string{"a", "c"}}
	m := Match{Slot: 2, Diff: Diff{Status: StatusDelta | 0b10, Args: []string{"c"}}}

	out, target := DeltaRecord(r, m)
	require.True(t, target.IsSlot())
	require.Equal(t, uint8(2), out.FunctionID)
	require.Equal(t, m.Diff.Status, out.Status)
	require.Equal(t, 1.5, out.TimeStart)
	require.Equal(t, 1.75, out.TimeEnd)
	require.Equal(t, []string{"c"}, out.Args)
}

func TestWindow_Resolve(t *testing.T) {
	var w Window
	w.Push(rec(4, "fd3", "4096", "0"))
	w.Push(rec(8, "other"))

	target, err := SlotTarget(1)
	require.NoError(t, err)

	delta := &Record{Status: StatusDelta | 0b100, TimeStart: 2, TimeEnd: 3, Args: []string{"4096"}}
	got, err := w.Resolve(target, delta)
	require.NoError(t, err)
	require.Equal(t, uint8(4), got.FunctionID)
	require.Equal(t, []string{"fd3", "4096", "4096"}, got.Args)
	require.Equal(t, 2.0, got.TimeStart)
	require.Equal(t, 3.0, got.TimeEnd)

	base, _ := w.At(1)
	require.Equal(t, "0", base.Args[2], "resolve must not modify the window slot")

	t.Run("empty payload", func(t *testing.T) {
		got, err := w.Resolve(target, &Record{Status: StatusDelta})
		require.NoError(t, err)
		require.Equal(t, []string{"fd3", "4096", "0"}, got.Args)
	})

	t.Run("empty slot", func(t *testing.T) {
		empty, _ := SlotTarget(2)
		_, err := w.Resolve(empty, &Record{Status: StatusDelta})
		require.ErrorIs(t, err, errs.ErrEmptyWindowSlot)
	})

	t.Run("function target", func(t *testing.T) {
		_, err := w.Resolve(FunctionTarget(1), &Record{Status: StatusDelta})
		require.ErrorIs(t, err, errs.ErrInvalidSlot)
	})

	t.Run("payload mismatch", func(t *testing.T) {
		_, err := w.Resolve(target, &Record{Status: StatusDelta | 0b11, Args: []string{"x"}})
		require.ErrorIs(t, err, errs.ErrDiffArgMismatch)
	})

	t.Run("mask beyond slot arguments", func(t *testing.T) {
		_, err := w.Resolve(target, &Record{Status: StatusDelta | 0b1000, Args: []string{"x"}})
		require.ErrorIs(t, err, errs.ErrMaskOutOfRange)
	})
}
