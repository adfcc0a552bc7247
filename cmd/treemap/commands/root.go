// Package commands implements the subcommands of the treemap CLI.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/treemap/pkg/codec"
	"github.com/Sumatoshi-tech/treemap/pkg/config"
	"github.com/Sumatoshi-tech/treemap/pkg/observability"
	"github.com/Sumatoshi-tech/treemap/pkg/rbtree"
	"github.com/Sumatoshi-tech/treemap/pkg/snapshot"
	"github.com/Sumatoshi-tech/treemap/pkg/treemap"
	"github.com/Sumatoshi-tech/treemap/pkg/version"
)

const (
	rootCmdUse   = "treemap"
	rootCmdShort = "Build, inspect and query ordered int-keyed map snapshots"
	rootCmdLong  = `treemap loads key/value documents into a red-black tree backed ordered
map, stores it as a compact ordered snapshot, and answers range and
navigation queries against snapshots.

Commands:
  load      Load a YAML or JSON document into a snapshot
  dump      Print a key range of a snapshot as a table
  query     Answer get/floor/ceiling/higher/lower/first/last queries
  stats     Show tree shape and snapshot statistics
  merge     Merge two snapshots
  dot       Export the tree as Graphviz DOT`

	outputFlag  = "output"
	outputShort = "o"
)

// ErrNoOutput is returned when a command that writes a snapshot has no --output.
var ErrNoOutput = errors.New("output snapshot is required (use --output)")

// app carries the state shared by all subcommands of one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	verbose    bool
	quiet      bool

	cfg      *config.Config
	logger   *slog.Logger
	tracer   trace.Tracer
	red      *observability.REDMetrics
	shutdown func(ctx context.Context) error
}

// Execute runs the treemap CLI with args, writing to stdout and stderr.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	a := &app{stdout: stdout, stderr: stderr}

	root := newRootCommand(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)

	return errors.Join(err, a.close(ctx))
}

func newRootCommand(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           rootCmdUse,
		Short:         rootCmdShort,
		Long:          rootCmdLong,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default .treemap.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "suppress output")

	rootCmd.AddCommand(
		newLoadCommand(a),
		newDumpCommand(a),
		newQueryCommand(a),
		newStatsCommand(a),
		newMergeCommand(a),
		newDotCommand(a),
		newVersionCommand(a),
	)

	return rootCmd
}

func (a *app) init(ctx context.Context) error {
	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return err
	}

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Environment = cfg.Telemetry.Environment
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(cfg.Telemetry.OTLPHeaders)
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obsCfg.SampleRatio = cfg.Telemetry.SampleRatio
	obsCfg.MetricsFile = cfg.Telemetry.MetricsFile
	obsCfg.LogJSON = cfg.Logging.Format == "json"
	obsCfg.LogOutput = a.stderr
	obsCfg.LogLevel = cfg.Logging.SlogLevel()

	switch {
	case a.verbose:
		obsCfg.LogLevel = slog.LevelDebug
	case a.quiet:
		obsCfg.LogLevel = slog.LevelError
	}

	providers, err := observability.Init(ctx, obsCfg)
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	red, err := observability.NewREDMetrics(providers.Meter)
	if err != nil {
		return errors.Join(err, providers.Shutdown(ctx))
	}

	a.cfg = cfg
	a.logger = providers.Logger
	a.tracer = providers.Tracer
	a.red = red
	a.shutdown = providers.Shutdown

	return nil
}

func (a *app) close(ctx context.Context) error {
	if a.shutdown == nil {
		return nil
	}

	return a.shutdown(ctx)
}

// run instruments a subcommand body.
func (a *app) run(cmd *cobra.Command, fn func(ctx context.Context) error) error {
	return observability.RunCommand(cmd.Context(), a.tracer, a.red, cmd.Name(), fn)
}

// printf writes informational output unless --quiet is set.
func (a *app) printf(format string, args ...any) {
	if a.quiet {
		return
	}

	fmt.Fprintf(a.stdout, format, args...)
}

func (a *app) comparator() rbtree.Comparator {
	if a.cfg.Snapshot.Descending {
		return rbtree.Reverse(nil)
	}

	return nil
}

func (a *app) newMap() *treemap.Map[string] {
	return treemap.NewWithComparator[string](a.comparator())
}

func (a *app) snapshotOptions() []snapshot.Option {
	opts := []snapshot.Option{
		snapshot.WithComparator(a.comparator()),
		snapshot.WithLogger(a.logger),
	}

	if a.cfg.Snapshot.Compress {
		opts = append(opts, snapshot.WithLZ4())
	}

	return opts
}

// loadSnapshot reads the snapshot at path with the configured codec.
func (a *app) loadSnapshot(ctx context.Context, path string) (*treemap.Map[string], error) {
	valueCodec, err := codec.ByName[string](a.cfg.Snapshot.Codec)
	if err != nil {
		return nil, err
	}

	m, err := snapshot.LoadFile(path, valueCodec, a.snapshotOptions()...)
	if err != nil {
		return nil, err
	}

	if stat, statErr := os.Stat(path); statErr == nil {
		a.red.RecordSnapshot(ctx, observability.DirectionRead, m.Len(), stat.Size())
	}

	a.logger.DebugContext(ctx, "snapshot loaded", "path", path, "pairs", m.Len())

	return m, nil
}

// saveSnapshot writes m to path with the configured codec and returns the
// file size.
func (a *app) saveSnapshot(ctx context.Context, path string, m *treemap.Map[string]) (int64, error) {
	valueCodec, err := codec.ByName[string](a.cfg.Snapshot.Codec)
	if err != nil {
		return 0, err
	}

	err = snapshot.SaveFile(path, m, valueCodec, a.snapshotOptions()...)
	if err != nil {
		return 0, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat snapshot: %w", err)
	}

	a.red.RecordSnapshot(ctx, observability.DirectionWrite, m.Len(), stat.Size())
	a.logger.DebugContext(ctx, "snapshot saved", "path", path, "pairs", m.Len(), "bytes", stat.Size())

	return stat.Size(), nil
}
