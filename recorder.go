// Package recorder records the I/O and communication calls of parallel
// programs into compact per-rank trace files, and decodes them back.
//
// Every process (rank) of a run owns one Engine. Interception shims hand it
// one Record per call; the engine interns filename arguments, encodes the
// record with the configured mode and stages the bytes in memory until
// shutdown. Rank 0 also writes the run's global metadata. After the run, the
// decoder turns the directory back into one text file per rank.
//
// # Core Features
//
//   - Four encodings: text, fixed binary, peephole delta binary, and text
//     through a streaming compressor (zlib, zstd, s2, lz4)
//   - Peephole delta compression against the three previous records
//   - Filename interning: every path is stored once per rank
//   - Self-describing directories: global and per-rank metadata
//   - Parallel, per-rank fault isolated decoding
//
// # Basic Usage
//
// Recording:
//
//	cfg := recorder.DefaultConfig()
//	cfg.Dir = "traces"
//	rec, _ := recorder.Open(rank, ranks, cfg)
//	start := time.Now()
//	// ... intercepted call ...
//	rec.Record(recorder.FunctionID("open"), start, time.Now(), "/data/in.h5", "0")
//	rec.Close()
//
// Decoding:
//
//	summary, err := recorder.DecodeDir(ctx, "traces")
//
// # Package Structure
//
// This package provides top-level wrappers around the engine and decoder
// packages for the most common use cases. Use those packages directly for
// fine-grained control.
package recorder

import (
	"context"

	"github.com/hpcrec/recorder/decoder"
	"github.com/hpcrec/recorder/engine"
	"github.com/hpcrec/recorder/functab"
)

// Config is the recording configuration.
type Config = engine.Config

// DefaultConfig returns the default recording configuration.
func DefaultConfig() Config {
	return engine.DefaultConfig()
}

// LoadConfig reads a YAML configuration file and applies the RECORDER_*
// environment overrides on top of it. An empty path starts from
// DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := engine.DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = engine.LoadConfig(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Open starts recording rank of a run with ranks processes.
func Open(rank, ranks int, cfg Config, opts ...engine.Option) (*engine.Engine, error) {
	return engine.New(rank, ranks, cfg, opts...)
}

// FunctionID returns the id of a function of the default function table.
//
// It panics if the function is unknown; ids are meant to be resolved once
// when shims are installed.
func FunctionID(name string) uint8 {
	id, ok := functab.Default.Lookup(name)
	if !ok {
		panic("recorder: unknown function " + name)
	}

	return id
}

// DecodeDir decodes every rank of a trace directory next to the traces.
func DecodeDir(ctx context.Context, dir string, opts ...decoder.Option) (decoder.Summary, error) {
	d, err := decoder.New(opts...)
	if err != nil {
		return decoder.Summary{}, err
	}

	return d.DecodeDir(ctx, dir)
}

// Describe reads the metadata of a trace directory.
func Describe(dir string) (decoder.Description, error) {
	return decoder.Describe(dir)
}
