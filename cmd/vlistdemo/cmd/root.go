// Package cmd provides the CLI commands for vlistdemo.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	vlisterrors "github.com/aman-cerp/vlist/internal/errors"
	"github.com/aman-cerp/vlist/internal/logging"
	"github.com/aman-cerp/vlist/internal/profiling"
	"github.com/aman-cerp/vlist/pkg/version"
)

// Profiling flags.
var (
	profileCPU   string
	profileMem   string
	profileTrace string
	profiler     = profiling.NewProfiler()
	cpuCleanup   func()
	traceCleanup func()
)

// Debug logging flag.
var (
	debugMode      bool
	loggingCleanup func()
)

// NewRootCmd creates the root command for the vlistdemo CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "vlistdemo",
		Short:   "Drive and inspect a vlist.List from the command line",
		Long:    `vlistdemo builds an in-memory vlist.List and exposes it through a few subcommands, for poking at viewport resolution, resident-set eviction, and resize behavior without wiring vlist into a real UI.`,
		Version: version.Version,
	}

	cmd.SetVersionTemplate("vlistdemo version {{.Version}}\n")
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	cmd.PersistentFlags().StringVar(&profileCPU, "profile-cpu", "", "Write CPU profile to file")
	cmd.PersistentFlags().StringVar(&profileMem, "profile-mem", "", "Write memory profile to file")
	cmd.PersistentFlags().StringVar(&profileTrace, "profile-trace", "", "Write execution trace to file")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.vlist/logs/")

	cmd.PersistentPreRunE = startProfilingAndLogging
	cmd.PersistentPostRunE = stopProfilingAndLogging

	cmd.AddCommand(newScrollCmd())
	cmd.AddCommand(newBenchCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func startProfilingAndLogging(_ *cobra.Command, _ []string) error {
	var err error

	if debugMode {
		logger, cleanup, err := logging.Setup(logging.DebugConfig())
		if err != nil {
			return fmt.Errorf("failed to setup debug logging: %w", err)
		}
		loggingCleanup = cleanup
		slog.SetDefault(logger)
		slog.Info("debug logging enabled", slog.String("log_file", logging.DefaultLogPath()))
	}

	if profileCPU != "" {
		cpuCleanup, err = profiler.StartCPU(profileCPU)
		if err != nil {
			return fmt.Errorf("failed to start CPU profile: %w", err)
		}
	}

	if profileTrace != "" {
		traceCleanup, err = profiler.StartTrace(profileTrace)
		if err != nil {
			if cpuCleanup != nil {
				cpuCleanup()
			}
			return fmt.Errorf("failed to start trace: %w", err)
		}
	}

	return nil
}

func stopProfilingAndLogging(_ *cobra.Command, _ []string) error {
	if cpuCleanup != nil {
		cpuCleanup()
		cpuCleanup = nil
	}

	if traceCleanup != nil {
		traceCleanup()
		traceCleanup = nil
	}

	if profileMem != "" {
		if err := profiler.WriteHeap(profileMem); err != nil {
			return fmt.Errorf("failed to write memory profile: %w", err)
		}
	}

	if loggingCleanup != nil {
		slog.Info("debug logging stopped")
		loggingCleanup()
		loggingCleanup = nil
	}

	return nil
}

// Execute runs the root command. A failing command's error is rendered
// with the same formatting a host would use for a failing List call,
// rather than cobra's default one-line error print.
func Execute() error {
	return executeRoot(NewRootCmd())
}

// executeRoot runs root and formats any returned error to its error
// output stream, factored out so tests can supply their own root and
// capture the formatted output without touching os.Stderr.
func executeRoot(root *cobra.Command) error {
	if err := root.Execute(); err != nil {
		fmt.Fprint(root.ErrOrStderr(), vlisterrors.FormatForCLI(err))
		return err
	}
	return nil
}
