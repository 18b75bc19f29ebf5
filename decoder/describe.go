package decoder

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/c2h5oh/datasize"
	"go.uber.org/multierr"

	"github.com/hpcrec/recorder/functab"
	"github.com/hpcrec/recorder/metadata"
)

// RankInfo is the metadata of one rank.
type RankInfo struct {
	Rank      int
	Local     metadata.Local
	TraceSize int64
	Err       error
}

// Description is the metadata of a whole trace directory.
type Description struct {
	Global metadata.Global
	Ranks  []RankInfo
}

// Describe reads the metadata of dir without decoding any trace.
func Describe(dir string) (Description, error) {
	g, err := ReadGlobal(dir)
	if err != nil {
		return Description{}, err
	}

	desc := Description{Global: g, Ranks: make([]RankInfo, g.Ranks)}
	var combined error
	for rank := range desc.Ranks {
		info := RankInfo{Rank: rank}
		info.Local, info.Err = ReadLocal(dir, rank)
		if info.Err == nil {
			if fi, err := os.Stat(metadata.TracePath(dir, rank)); err == nil {
				info.TraceSize = fi.Size()
			} else {
				info.Err = err
			}
		}
		if info.Err != nil {
			info.Err = fmt.Errorf("rank %d: %w", rank, info.Err)
			combined = multierr.Append(combined, info.Err)
		}
		desc.Ranks[rank] = info
	}

	return desc, combined
}

// WriteReport prints the description in a human readable layout. Function
// names come from tab; only functions that were called are listed.
func (d *Description) WriteReport(w io.Writer, tab functab.Table) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "ranks:\t%d\n", d.Global.Ranks)
	fmt.Fprintf(tw, "mode:\t%s (%d)\n", d.Global.Mode, int32(d.Global.Mode))
	fmt.Fprintf(tw, "time resolution:\t%gs\n", d.Global.TimeResolution)
	fmt.Fprintf(tw, "window size:\t%d\n", d.Global.WindowSize)

	for _, r := range d.Ranks {
		fmt.Fprintf(tw, "\nrank %d\n", r.Rank)
		if r.Err != nil {
			fmt.Fprintf(tw, "  error:\t%v\n", r.Err)
			continue
		}
		l := r.Local
		fmt.Fprintf(tw, "  records:\t%d\n", l.TotalRecords)
		fmt.Fprintf(tw, "  trace size:\t%s\n", datasize.ByteSize(r.TraceSize).HR()) //nolint:gosec
		fmt.Fprintf(tw, "  duration:\t%.6fs\n", l.EndTime-l.StartTime)
		for id, n := range l.FunctionCounts {
			if n == 0 {
				continue
			}
			name := tab.Name(uint8(id)) //nolint:gosec
			if name == "" {
				name = fmt.Sprintf("#%d", id)
			}
			fmt.Fprintf(tw, "  %s\t%d\n", name, n)
		}
		for _, f := range l.Files {
			fmt.Fprintf(tw, "  file %d\t%s\t%s\n", f.ID, datasize.ByteSize(f.Size).HR(), f.Name)
		}
	}

	return tw.Flush()
}
