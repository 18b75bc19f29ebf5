package engine

import (
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/hpcrec/recorder/functab"
	"github.com/hpcrec/recorder/internal/options"
)

// Option configures the runtime collaborators of an Engine.
type Option = options.Option[*Engine]

// FileSizeFunc reports the size of a file at shutdown. Files that cannot be
// inspected report 0.
type FileSizeFunc func(name string) uint64

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return options.NoError(func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	})
}

// WithClock sets the time source used for the rank's start and end
// timestamps.
func WithClock(now func() time.Time) Option {
	return options.New(func(e *Engine) error {
		if now == nil {
			return fmt.Errorf("engine: nil clock")
		}
		e.now = now

		return nil
	})
}

// WithFunctionTable sets the function table. The decoder must use the same
// table. Defaults to functab.Default.
func WithFunctionTable(tab functab.Table) Option {
	return options.New(func(e *Engine) error {
		if tab == nil {
			return fmt.Errorf("engine: nil function table")
		}
		e.funcs = tab

		return nil
	})
}

// WithFileSizeFunc sets how interned filenames are sized at shutdown.
// Defaults to os.Stat.
func WithFileSizeFunc(fn FileSizeFunc) Option {
	return options.NoError(func(e *Engine) {
		if fn != nil {
			e.fileSize = fn
		}
	})
}

// WithRegisterer registers the engine's counters with reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return options.NoError(func(e *Engine) {
		e.registerer = reg
	})
}

func statFileSize(name string) uint64 {
	fi, err := os.Stat(name)
	if err != nil || fi.Size() < 0 {
		return 0
	}

	return uint64(fi.Size())
}
