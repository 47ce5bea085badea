package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/provc/provc/internal/diag"
	"github.com/provc/provc/internal/gen"
	"github.com/provc/provc/internal/process"
	"github.com/provc/provc/internal/store"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	OutDir    string // artifact output directory
	DBPath    string // optional sqlite ledger path
	Package   string // package name for generated sources
	MaxRounds int    // upper bound on processing rounds
}

// GenerationSummary holds generation results for CLI output.
type GenerationSummary struct {
	Modules   int      `json:"modules"`
	Processed int      `json:"processed"`
	Artifacts int      `json:"artifacts"`
	Rounds    int      `json:"rounds"`
	Deferred  []string `json:"deferred,omitempty"` // modules never resolved
	Errors    int      `json:"errors"`
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate <manifest-dir>",
		Short: "Validate provider modules and generate their factories",
		Long: `Run the full provider pipeline over a manifest directory.

Validates produces and binds methods, validates each module, builds
provision bindings for clean modules whose methods all passed, and
emits one generated factory source per produces method. Modules whose
declarations are not yet fully resolved are retried in later rounds;
each module is processed at most once.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.OutDir, "out-dir", "o", "", "directory to write generated sources to")
	cmd.Flags().StringVar(&opts.DBPath, "db", "", "sqlite artifact ledger path")
	cmd.Flags().StringVar(&opts.Package, "package", "factories", "package name for generated sources")
	cmd.Flags().IntVar(&opts.MaxRounds, "max-rounds", 10, "maximum processing rounds")

	return cmd
}

func runGenerate(opts *GenerateOptions, manifestDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	loadResult, loadErrors := LoadManifests(manifestDir, LoadModeCollectAll)
	if len(loadErrors) > 0 {
		return outputLoadErrors(formatter, loadErrors)
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, manifestDir)

	memory := gen.NewMemorySink()
	sinks := gen.MultiSink{memory}
	if opts.OutDir != "" {
		sinks = append(sinks, gen.DirSink{Dir: opts.OutDir})
	}
	if opts.DBPath != "" {
		ledger, err := store.Open(opts.DBPath)
		if err != nil {
			_ = formatter.Error(ErrCodeWriteFailed, err.Error(), nil)
			return NewExitError(ExitCommandError, err.Error())
		}
		defer ledger.Close()
		formatter.VerboseLog("Recording artifacts in %s (session %s)", opts.DBPath, ledger.SessionID())
		sinks = append(sinks, ledger)
	}

	sink := diag.NewCollector()
	generator := gen.NewGenerator(opts.Package, sinks)
	step := process.NewStep(sink, generator, process.WithLogger(stepLogger(opts, cmd)))

	// The host round loop: re-offer deferred modules until nothing is
	// deferred or a round stops making progress.
	grouping := loadResult.Grouping()
	rounds := 0
	lastDeferred := len(loadResult.Modules) + 1
	var deferred []string
	for rounds < opts.MaxRounds {
		rounds++
		remaining := step.Process(grouping)
		formatter.VerboseLog("Round %d: %d module(s) deferred", rounds, len(remaining))
		if len(remaining) == 0 {
			deferred = nil
			break
		}
		// Stop when a round makes no progress or the budget is spent;
		// either way the survivors are reported below.
		if len(remaining) >= lastDeferred || rounds == opts.MaxRounds {
			deferred = deferred[:0]
			for _, m := range remaining {
				deferred = append(deferred, m.Name)
			}
			break
		}
		lastDeferred = len(remaining)
	}

	for _, name := range deferred {
		sink.Report(diag.Warningf(ErrCodeUnresolved, name,
			"module %q was never fully resolved; skipped", name))
	}

	summary := GenerationSummary{
		Modules:   len(loadResult.Modules),
		Processed: step.Processed().Len(),
		Artifacts: len(memory.Artifacts()),
		Rounds:    rounds,
		Deferred:  deferred,
	}
	for _, d := range sink.Items() {
		if d.Severity >= diag.SevError {
			summary.Errors++
		}
	}

	if summary.Errors > 0 {
		if err := formatter.Error(ErrCodeGeneric, fmt.Sprintf("%d error(s) found", summary.Errors), sink.Items()); err != nil {
			return err
		}
		return NewExitError(ExitFailure, "generation failed")
	}

	if formatter.Format == "json" {
		return formatter.Success(summary, sink.Items())
	}
	formatter.PrintDiagnostics(sink.Items())
	fmt.Fprintf(formatter.Writer, "✓ Processed %d module(s) in %d round(s), %d artifact(s) emitted\n",
		summary.Processed, summary.Rounds, summary.Artifacts)
	return nil
}

// stepLogger wires slog output to stderr in verbose mode; otherwise
// the step's default discard logger is kept.
func stepLogger(opts *GenerateOptions, cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// ErrCodeUnresolved marks a module that stayed unresolved across all
// rounds.
const ErrCodeUnresolved = "W010"
