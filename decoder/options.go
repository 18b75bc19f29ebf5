package decoder

import (
	"fmt"
	"runtime"

	"go.uber.org/zap"

	"github.com/hpcrec/recorder/functab"
	"github.com/hpcrec/recorder/internal/options"
)

// Option configures a Decoder.
type Option = options.Option[*Decoder]

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return options.NoError(func(d *Decoder) {
		if logger != nil {
			d.logger = logger
		}
	})
}

// WithFunctionTable sets the function table the trace was recorded with.
// Defaults to functab.Default.
func WithFunctionTable(tab functab.Table) Option {
	return options.New(func(d *Decoder) error {
		if tab == nil {
			return fmt.Errorf("decoder: nil function table")
		}
		d.funcs = tab

		return nil
	})
}

// WithParallelism limits how many ranks DecodeDir decodes at once.
// Defaults to runtime.GOMAXPROCS(0).
func WithParallelism(n int) Option {
	return options.New(func(d *Decoder) error {
		if n <= 0 {
			return fmt.Errorf("decoder: parallelism must be positive, got %d", n)
		}
		d.parallel = n

		return nil
	})
}

// WithOutputDir writes decoded files to dir instead of next to the traces.
func WithOutputDir(dir string) Option {
	return options.NoError(func(d *Decoder) {
		d.outDir = dir
	})
}

func defaultParallelism() int {
	return runtime.GOMAXPROCS(0)
}
