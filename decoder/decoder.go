package decoder

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hpcrec/recorder/encoding"
	"github.com/hpcrec/recorder/errs"
	"github.com/hpcrec/recorder/format"
	"github.com/hpcrec/recorder/functab"
	"github.com/hpcrec/recorder/internal/options"
	"github.com/hpcrec/recorder/internal/pool"
	"github.com/hpcrec/recorder/metadata"
	"github.com/hpcrec/recorder/record"
)

const outputBufferSize = 256 * 1024

// Decoder decodes trace directories.
type Decoder struct {
	logger   *zap.Logger
	funcs    functab.Table
	parallel int
	outDir   string
}

// RankResult reports the outcome of one rank.
type RankResult struct {
	Rank int
	// Output is the decoded file, empty when DecodeRank wrote to a caller
	// supplied writer.
	Output string
	// Records is the number of lines written.
	Records int64
	// UnknownFilenames counts filename arguments replaced by the placeholder.
	UnknownFilenames int64
	// Err is the rank's failure, nil on success. Lines written before the
	// failure are kept.
	Err error
}

// Summary reports the outcome of DecodeDir.
type Summary struct {
	Global metadata.Global
	Ranks  []RankResult
}

// New creates a decoder.
func New(opts ...Option) (*Decoder, error) {
	d := &Decoder{
		logger:   zap.NewNop(),
		funcs:    functab.Default,
		parallel: defaultParallelism(),
	}
	if err := options.Apply(d, opts...); err != nil {
		return nil, err
	}

	return d, nil
}

// ReadGlobal reads the global metadata of a trace directory.
func ReadGlobal(dir string) (metadata.Global, error) {
	f, err := os.Open(metadata.GlobalPath(dir))
	if err != nil {
		return metadata.Global{}, fmt.Errorf("open global metadata: %w", err)
	}
	defer f.Close()

	return metadata.ReadGlobal(f)
}

// ReadLocal reads the local metadata of one rank.
func ReadLocal(dir string, rank int) (metadata.Local, error) {
	f, err := os.Open(metadata.LocalPath(dir, rank))
	if err != nil {
		return metadata.Local{}, fmt.Errorf("open local metadata: %w", err)
	}
	defer f.Close()

	return metadata.ReadLocal(f)
}

// DecodeDir decodes every rank listed in the directory's global metadata
// into <rank>.itf.txt files.
//
// Ranks run in parallel. A failing rank does not stop the others; the
// returned error combines the failures of all ranks, and the summary holds
// a result per rank either way. Only a missing or invalid global metadata
// file fails the whole directory.
func (d *Decoder) DecodeDir(ctx context.Context, dir string) (Summary, error) {
	g, err := ReadGlobal(dir)
	if err != nil {
		return Summary{}, err
	}

	outDir := d.outDir
	if outDir == "" {
		outDir = dir
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("create output directory: %w", err)
	}

	d.logger.Info("decoding trace directory",
		zap.String("dir", dir),
		zap.Int32("ranks", g.Ranks),
		zap.Stringer("mode", g.Mode),
		zap.Float64("time_resolution", g.TimeResolution))

	results := make([]RankResult, g.Ranks)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(d.parallel)
	for rank := range int(g.Ranks) {
		eg.Go(func() error {
			results[rank] = d.decodeRankFile(egCtx, dir, outDir, g, rank)
			// Rank failures are reported through results, never through the
			// group, so one rank cannot cancel another.
			return nil
		})
	}
	_ = eg.Wait()

	var combined error
	for _, r := range results {
		if r.Err != nil {
			d.logger.Error("rank decode failed", zap.Int("rank", r.Rank), zap.Error(r.Err))
			combined = multierr.Append(combined, r.Err)
		}
	}

	return Summary{Global: g, Ranks: results}, combined
}

func (d *Decoder) decodeRankFile(ctx context.Context, dir, outDir string, g metadata.Global, rank int) RankResult {
	out := metadata.DecodedPath(outDir, rank)
	res := RankResult{Rank: rank, Output: out}

	f, err := os.Create(out)
	if err != nil {
		res.Err = fmt.Errorf("rank %d: create output: %w", rank, err)
		return res
	}

	bw := bufio.NewWriterSize(f, outputBufferSize)
	res, err = d.DecodeRank(ctx, dir, g, rank, bw)
	res.Output = out
	err = multierr.Append(err, bw.Flush())
	err = multierr.Append(err, f.Close())
	if err != nil {
		res.Err = fmt.Errorf("rank %d: %w", rank, err)
	}

	return res
}

// DecodeRank decodes one rank of dir to w.
//
// Decoding stops at the first format error: the rest of the stream cannot be
// trusted. Unknown filename ids are not errors; they are replaced by the
// placeholder and counted.
func (d *Decoder) DecodeRank(ctx context.Context, dir string, g metadata.Global, rank int, w io.Writer) (RankResult, error) {
	res := RankResult{Rank: rank}

	local, err := ReadLocal(dir, rank)
	if err != nil {
		return res, err
	}

	f, err := os.Open(metadata.TracePath(dir, rank))
	if err != nil {
		return res, fmt.Errorf("open trace: %w", err)
	}
	defer f.Close()

	rr, err := encoding.NewReader(g.Mode, f, encoding.Config{
		Epoch:      local.StartTime,
		Resolution: g.TimeResolution,
		Functions:  d.funcs,
	})
	if err != nil {
		return res, err
	}
	defer rr.Close()

	p := &pipeline{
		funcs:  d.funcs,
		files:  local.FilenameTable(),
		logger: d.logger.With(zap.Int("rank", rank)),
	}
	err = p.run(ctx, rr, w)
	res.Records = p.records
	res.UnknownFilenames = p.unknown

	return res, err
}

// pipeline resolves the entries of one rank in order.
type pipeline struct {
	funcs   functab.Table
	files   map[int32]string
	logger  *zap.Logger
	window  record.Window
	records int64
	unknown int64
	warned  bool
}

func (p *pipeline) run(ctx context.Context, rr encoding.RecordReader, w io.Writer) error {
	bb := pool.GetLineBuffer()
	defer pool.PutLineBuffer(bb)

	for {
		if p.records%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		e, err := rr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("record %d: %w", p.records, err)
		}

		rec, err := p.resolve(e)
		if err != nil {
			return fmt.Errorf("record %d: %w", p.records, err)
		}

		bb.Reset()
		bb.B = p.appendLine(bb.B, &rec)
		if _, err := w.Write(bb.B); err != nil {
			return err
		}
		p.records++
	}
}

// resolve rebuilds the full record of e and pushes it onto the window. The
// window holds records with filename ids, exactly like the encoder's.
func (p *pipeline) resolve(e encoding.Entry) (record.Record, error) {
	rec := e.Record
	if e.Target.IsSlot() {
		var err error
		if rec, err = p.window.Resolve(e.Target, &e.Record); err != nil {
			return record.Record{}, err
		}
	}
	p.window.Push(&rec)

	return rec, nil
}

func (p *pipeline) appendLine(buf []byte, rec *record.Record) []byte {
	buf = strconv.AppendUint(buf, uint64(rec.Status), 10)
	buf = append(buf, ' ')
	buf = encoding.AppendTimestamp(buf, rec.TimeStart)
	buf = append(buf, ' ')
	buf = encoding.AppendTimestamp(buf, rec.TimeEnd)
	buf = append(buf, ' ')

	name := p.funcs.Name(rec.FunctionID)
	if name == "" {
		p.warn("function id outside of function table", zap.Uint8("function", rec.FunctionID))
		name = format.MissingArgument
	}
	buf = append(buf, name...)

	mask := p.funcs.FilenameMask(rec.FunctionID)
	if mask == 0 {
		return encoding.AppendArgs(buf, rec.Args)
	}

	args := make([]string, len(rec.Args))
	for i, arg := range rec.Args {
		if i < 8 && mask&(1<<i) != 0 {
			arg = p.filename(arg)
		}
		args[i] = arg
	}

	return encoding.AppendArgs(buf, args)
}

func (p *pipeline) filename(arg string) string {
	id, err := strconv.ParseInt(arg, 10, 32)
	if err != nil {
		p.unknown++
		p.warn("filename argument is not an id", zap.Error(fmt.Errorf("%w: %q", errs.ErrInvalidFilenameArg, arg)))

		return format.MissingArgument
	}

	name, ok := p.files[int32(id)]
	if !ok {
		p.unknown++
		p.warn("unknown filename id", zap.Error(fmt.Errorf("%w: %d", errs.ErrUnknownFilenameID, id)))

		return format.MissingArgument
	}

	return name
}

func (p *pipeline) warn(msg string, fields ...zap.Field) {
	if p.warned {
		return
	}
	p.warned = true
	p.logger.Warn(msg+" (further inconsistencies are counted, not logged)", fields...)
}
