package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hpcrec/recorder/decoder"
	"github.com/hpcrec/recorder/functab"
)

type rootFlags struct {
	out      string
	parallel int
	logLevel string
}

func newRootCmd() *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:   "recorder2text <trace-dir>",
		Short: "Decode a trace directory into readable text",
		Long: `Decode every rank of a trace directory into <rank>.itf.txt, one line per
record: status, start time, end time, function name and arguments.

Ranks are decoded in parallel; a malformed rank is reported and does not
stop the others.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(flags.logLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			return decodeDir(cmd, args[0], flags, logger)
		},
	}

	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	cmd.Flags().StringVarP(&flags.out, "out", "o", "", "output directory (default: the trace directory)")
	cmd.Flags().IntVarP(&flags.parallel, "parallel", "p", runtime.GOMAXPROCS(0), "ranks decoded at once")

	cmd.AddCommand(newDescribeCmd(&flags))

	return cmd
}

func decodeDir(cmd *cobra.Command, dir string, flags rootFlags, logger *zap.Logger) error {
	d, err := decoder.New(
		decoder.WithLogger(logger),
		decoder.WithParallelism(flags.parallel),
		decoder.WithOutputDir(flags.out),
		decoder.WithFunctionTable(functab.Default),
	)
	if err != nil {
		return err
	}

	summary, err := d.DecodeDir(cmd.Context(), dir)
	for _, r := range summary.Ranks {
		if r.Err != nil {
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "rank %d: %d records -> %s\n", r.Rank, r.Records, r.Output)
		if r.UnknownFilenames > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "rank %d: %d unknown filename ids\n", r.Rank, r.UnknownFilenames)
		}
	}

	return err
}

func newDescribeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <trace-dir>",
		Short: "Print the metadata of a trace directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := zapcore.ParseLevel(flags.logLevel); err != nil {
				return fmt.Errorf("invalid --log-level: %w", err)
			}

			desc, err := decoder.Describe(args[0])
			if len(desc.Ranks) > 0 {
				if werr := desc.WriteReport(cmd.OutOrStdout(), functab.Default); werr != nil {
					return werr
				}
			}

			return err
		},
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
