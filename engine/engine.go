package engine

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/hpcrec/recorder/encoding"
	"github.com/hpcrec/recorder/errs"
	"github.com/hpcrec/recorder/format"
	"github.com/hpcrec/recorder/functab"
	"github.com/hpcrec/recorder/intern"
	"github.com/hpcrec/recorder/internal/options"
	"github.com/hpcrec/recorder/metadata"
	"github.com/hpcrec/recorder/record"
	"github.com/hpcrec/recorder/staging"
)

// Stats is a snapshot of an engine's counters.
type Stats struct {
	Records           int64 // records accepted by Write
	DroppedRecords    int64 // records that failed to encode
	SuppressedRecords int64 // calls dropped inside a suppression scope
	Filenames         int   // distinct filenames interned
	Encoder           encoding.Stats
	Staging           staging.Stats
}

// Engine records the calls of one rank.
type Engine struct {
	rank   int
	ranks  int
	cfg    Config
	mode   format.CompressionMode
	epoch  float64
	logger *zap.Logger

	now        func() time.Time
	funcs      functab.Table
	fileSize   FileSizeFunc
	registerer prometheus.Registerer
	metrics    *Metrics

	recording  atomic.Bool
	suppressed atomic.Int32
	suppressN  atomic.Int64

	mu      sync.Mutex
	trace   *os.File
	meta    *os.File
	staging *staging.Buffer
	enc     encoding.Encoder
	names   *intern.Table
	local   metadata.Local
	dropped int64
	warned  map[string]struct{}
}

// New opens the trace and metadata files of rank and starts recording.
//
// Rank 0 also writes the run's global metadata. Resource errors are fatal:
// the returned engine is nil and nothing is recorded for the rank.
//
// Parameters:
//   - rank: this process's rank in [0, ranks)
//   - ranks: total number of ranks in the run
//   - cfg: recording settings (see DefaultConfig)
//   - opts: runtime collaborators
//
// Returns:
//   - *Engine: recording engine
//   - error: ErrInvalidRank, configuration errors or file errors
func New(rank, ranks int, cfg Config, opts ...Option) (*Engine, error) {
	if ranks <= 0 || ranks > metadata.MaxRanks || rank < 0 || rank >= ranks {
		return nil, fmt.Errorf("%w: rank %d of %d", errs.ErrInvalidRank, rank, ranks)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Dir == "" {
		cfg.Dir = DefaultDir
	}

	e := &Engine{
		rank:     rank,
		ranks:    ranks,
		cfg:      cfg,
		logger:   zap.NewNop(),
		now:      time.Now,
		funcs:    functab.Default,
		fileSize: statFileSize,
		names:    intern.New(),
		warned:   make(map[string]struct{}),
	}
	if err := options.Apply(e, opts...); err != nil {
		return nil, err
	}
	e.logger = e.logger.With(zap.Int("rank", rank))

	mode, err := cfg.Mode()
	if err != nil {
		e.logger.Warn("unsupported compression mode, falling back",
			zap.String("compression", cfg.Compression),
			zap.Stringer("fallback", mode),
			zap.Error(err))
	}
	e.mode = mode

	metrics, err := NewMetrics(e.registerer, rank)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}
	e.metrics = metrics

	if err := e.open(); err != nil {
		return nil, err
	}

	e.recording.Store(true)
	e.logger.Info("recording started",
		zap.String("dir", cfg.Dir),
		zap.Stringer("mode", e.mode),
		zap.String("buffer", cfg.BufferSize.HR()),
		zap.Float64("time_resolution", cfg.TimeResolution),
		zap.Int("ranks", ranks))

	return e, nil
}

func (e *Engine) open() (err error) {
	if err := os.MkdirAll(e.cfg.Dir, 0o755); err != nil {
		return fmt.Errorf("create trace directory: %w", err)
	}

	defer func() {
		if err != nil {
			if e.trace != nil {
				_ = e.trace.Close()
			}
			if e.meta != nil {
				_ = e.meta.Close()
			}
		}
	}()

	if e.trace, err = os.Create(metadata.TracePath(e.cfg.Dir, e.rank)); err != nil {
		return fmt.Errorf("open trace file: %w", err)
	}
	if e.meta, err = os.Create(metadata.LocalPath(e.cfg.Dir, e.rank)); err != nil {
		return fmt.Errorf("open metadata file: %w", err)
	}

	if e.rank == 0 {
		if err = e.writeGlobal(); err != nil {
			return err
		}
	}

	e.epoch = record.Seconds(e.now())
	e.local.StartTime = e.epoch

	e.staging, err = staging.New(e.trace, int(e.cfg.BufferSize.Bytes()), //nolint:gosec
		staging.WithWriteHook(func(n int) { e.metrics.FlushedBytes.Add(float64(n)) }))
	if err != nil {
		return err
	}

	e.enc, err = encoding.New(e.mode, e.staging, encoding.Config{
		Epoch:      e.epoch,
		Resolution: e.cfg.TimeResolution,
		Functions:  e.funcs,
	})

	return err
}

func (e *Engine) writeGlobal() error {
	g := metadata.NewGlobal(e.cfg.TimeResolution, e.ranks, e.mode)
	if err := os.WriteFile(metadata.GlobalPath(e.cfg.Dir), g.Bytes(), 0o644); err != nil { //nolint:gosec
		return fmt.Errorf("write global metadata: %w", err)
	}

	return nil
}

// Write records one call.
//
// Per-function counters are updated before encoding, filename arguments are
// replaced by their interned ids, and the record is handed to the active
// encoder. r is not modified. Calls made inside a suppression scope are
// dropped and return nil.
func (e *Engine) Write(r *record.Record) error {
	if e.Suppressed() {
		e.suppressN.Add(1)
		return nil
	}
	if !e.recording.Load() {
		return errs.ErrNotRecording
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.recording.Load() {
		return errs.ErrNotRecording
	}

	e.local.TotalRecords++
	e.local.FunctionCounts[r.FunctionID]++
	e.metrics.Records.Inc()

	rec := *r
	if added := e.names.InternRecord(e.funcs, &rec); added > 0 {
		e.metrics.InternedFilenames.Add(float64(added))
	}

	before := e.enc.Stats()
	err := e.enc.Encode(&rec)
	after := e.enc.Stats()

	if d := after.DeltaRecords - before.DeltaRecords; d > 0 {
		e.metrics.DeltaRecords.Add(float64(d))
	}
	if after.ClampedTimestamps > before.ClampedTimestamps {
		e.warnOnce("clamped", "timestamp outside the relative tick range was saturated",
			zap.Float64("time_start", r.TimeStart), zap.Float64("time_end", r.TimeEnd))
	}

	if err != nil {
		e.dropped++
		e.metrics.DroppedRecords.Inc()
		e.warnOnce(errorKind(err), "record dropped",
			zap.Uint8("function", r.FunctionID), zap.Error(err))

		return fmt.Errorf("record dropped: %w", err)
	}

	return nil
}

// Record builds a record from wall clock times and writes it.
func (e *Engine) Record(fn uint8, start, end time.Time, args ...string) error {
	return e.Write(&record.Record{
		FunctionID: fn,
		TimeStart:  record.Seconds(start),
		TimeEnd:    record.Seconds(end),
		Args:       args,
	})
}

// Suppress opens an explicit suppression scope and returns the function
// closing it. Scopes nest. Write drops every call made while a scope is open,
// from any goroutine, so keep the scope around the caller's own I/O only.
func (e *Engine) Suppress() (restore func()) {
	e.suppressed.Add(1)

	var once sync.Once

	return func() {
		once.Do(func() { e.suppressed.Add(-1) })
	}
}

// Suppressed reports whether a suppression scope is open.
func (e *Engine) Suppressed() bool {
	return e.suppressed.Load() > 0
}

// Recording reports whether the engine accepts records.
func (e *Engine) Recording() bool {
	return e.recording.Load()
}

// Close stops recording and finishes the rank: the encoder's stream is
// terminated, the staging buffer is flushed, the trace file is closed and
// the local metadata is written. Every step runs even when an earlier one
// fails; all failures are returned together.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.recording.CompareAndSwap(true, false) {
		return errs.ErrNotRecording
	}

	var err error
	err = multierr.Append(err, wrap("finish encoder", e.enc.Close()))
	err = multierr.Append(err, wrap("flush staging buffer", e.staging.Flush()))
	stagingStats := e.staging.Stats()
	e.staging.Release()
	err = multierr.Append(err, wrap("close trace file", e.trace.Close()))

	e.local.EndTime = record.Seconds(e.now())
	e.local.Files = e.fileEntries()
	_, werr := e.local.WriteTo(e.meta)
	err = multierr.Append(err, wrap("write local metadata", werr))
	err = multierr.Append(err, wrap("close metadata file", e.meta.Close()))

	fields := []zap.Field{
		zap.Int64("records", e.local.TotalRecords),
		zap.Int64("dropped", e.dropped),
		zap.Int("filenames", e.names.Len()),
		zap.String("written", datasize.ByteSize(stagingStats.BytesWritten).HR()), //nolint:gosec
	}
	if err != nil {
		e.logger.Error("recording finished with errors", append(fields, zap.Error(err))...)
	} else {
		e.logger.Info("recording finished", fields...)
	}

	return err
}

// Stats returns a snapshot of the engine's counters.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Stats{
		Records:           e.local.TotalRecords,
		DroppedRecords:    e.dropped,
		SuppressedRecords: e.suppressN.Load(),
		Filenames:         e.names.Len(),
		Encoder:           e.enc.Stats(),
	}
	if e.staging != nil {
		s.Staging = e.staging.Stats()
	}

	return s
}

// Rank returns the engine's rank.
func (e *Engine) Rank() int {
	return e.rank
}

// Mode returns the compression mode in use, after fallback.
func (e *Engine) Mode() format.CompressionMode {
	return e.mode
}

// Epoch returns the rank's start timestamp in seconds.
func (e *Engine) Epoch() float64 {
	return e.epoch
}

// Dir returns the trace directory.
func (e *Engine) Dir() string {
	return e.cfg.Dir
}

// Metrics returns the engine's counters.
func (e *Engine) Metrics() *Metrics {
	return e.metrics
}

func (e *Engine) fileEntries() []metadata.FileEntry {
	names := e.names.Names()
	files := make([]metadata.FileEntry, len(names))
	for id, name := range names {
		files[id] = metadata.FileEntry{
			ID:   int32(id), //nolint:gosec
			Size: e.fileSize(name),
			Name: name,
		}
	}

	return files
}

// warnOnce logs the first occurrence of each kind. Callers hold e.mu.
func (e *Engine) warnOnce(kind, msg string, fields ...zap.Field) {
	if _, ok := e.warned[kind]; ok {
		return
	}
	e.warned[kind] = struct{}{}
	e.logger.Warn(msg+" (further occurrences are not logged)", fields...)
}

func errorKind(err error) string {
	for _, kind := range []error{errs.ErrUnknownFunction, errs.ErrBufferReleased, errs.ErrEncoderClosed} {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}

	return "write"
}

func wrap(step string, err error) error {
	if err == nil {
		return nil
	}

	return fmt.Errorf("%s: %w", step, err)
}
