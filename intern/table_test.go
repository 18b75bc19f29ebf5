package intern

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpcrec/recorder/functab"
	"github.com/hpcrec/recorder/internal/hash"
	"github.com/hpcrec/recorder/record"
)

func TestTable_Intern(t *testing.T) {
	tab := New()

	id, added := tab.Intern("/data/in.h5")
	require.True(t, added)
	require.Equal(t, int32(0), id)

	id, added = tab.Intern("/data/out.h5")
	require.True(t, added)
	require.Equal(t, int32(1), id)

	id, added = tab.Intern("/data/in.h5")
	require.False(t, added, "interning twice returns the same id")
	require.Equal(t, int32(0), id)

	require.Equal(t, 2, tab.Len())
	require.Equal(t, []string{"/data/in.h5", "/data/out.h5"}, tab.Names())

	name, ok := tab.Lookup(1)
	require.True(t, ok)
	require.Equal(t, "/data/out.h5", name)
	_, ok = tab.Lookup(2)
	require.False(t, ok)
	_, ok = tab.Lookup(-1)
	require.False(t, ok)
}

func TestTable_FirstSeenOrder(t *testing.T) {
	tab := New()
	for i := range 1000 {
		id, added := tab.Intern(fmt.Sprintf("/scratch/f%04d", i))
		require.True(t, added)
		require.Equal(t, int32(i), id)
	}
	for i := range 1000 {
		id, added := tab.Intern(fmt.Sprintf("/scratch/f%04d", i))
		require.False(t, added)
		require.Equal(t, int32(i), id)
	}
	require.Equal(t, 0, tab.Collisions())
}

func TestTable_SharedBucket(t *testing.T) {
	// plant a different name in the bucket "x" hashes to
	tab := New()
	tab.names = []string{"decoy"}
	tab.buckets[hash.ID("x")] = []int32{0}

	id, added := tab.Intern("x")
	require.True(t, added)
	require.Equal(t, int32(1), id)
	require.Equal(t, 1, tab.Collisions())

	id, added = tab.Intern("x")
	require.False(t, added)
	require.Equal(t, int32(1), id)
}

func TestTable_Reset(t *testing.T) {
	tab := New()
	tab.Intern("a")
	tab.Intern("b")
	tab.Reset()
	require.Equal(t, 0, tab.Len())

	id, added := tab.Intern("b")
	require.True(t, added)
	require.Equal(t, int32(0), id)
}

func TestTable_InternRecord(t *testing.T) {
	ft := functab.MustNew([]functab.Entry{
		{Name: "open", FilenameArgs: []int{0}},
		{Name: "write"},
		{Name: "rename", FilenameArgs: []int{0, 1}},
	})
	tab := New()

	args := []string{"/tmp/a", "O_RDONLY"}
	r := &record.Record{FunctionID: 0, Args: args}
	require.Equal(t, 1, tab.InternRecord(ft, r))
	require.Equal(t, []string{"0", "O_RDONLY"}, r.Args)
	require.Equal(t, "/tmp/a", args[0], "caller's slice is not modified")

	r = &record.Record{FunctionID: 2, Args: []string{"/tmp/a", "/tmp/b"}}
	require.Equal(t, 1, tab.InternRecord(ft, r))
	require.Equal(t, []string{"0", "1"}, r.Args)

	r = &record.Record{FunctionID: 1, Args: []string{"3", "/tmp/a"}}
	require.Equal(t, 0, tab.InternRecord(ft, r))
	require.Equal(t, []string{"3", "/tmp/a"}, r.Args, "write has no filename arguments")

	r = &record.Record{FunctionID: 50, Args: []string{"/tmp/z"}}
	require.Equal(t, 0, tab.InternRecord(ft, r), "unknown functions are not interned")
	require.Equal(t, "/tmp/z", r.Args[0])

	r = &record.Record{FunctionID: 2, Args: []string{"/tmp/c"}}
	require.Equal(t, 1, tab.InternRecord(ft, r), "missing positions are skipped")
	require.Equal(t, []string{"2"}, r.Args)
}
