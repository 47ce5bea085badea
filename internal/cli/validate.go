package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/provc/provc/internal/diag"
	"github.com/provc/provc/internal/entity"
	"github.com/provc/provc/internal/validate"
)

// ValidationSummary holds validation results for CLI output.
type ValidationSummary struct {
	Valid        bool `json:"valid"`
	Modules      int  `json:"modules"`
	Methods      int  `json:"methods"`
	ErrorCount   int  `json:"error_count"`
	WarningCount int  `json:"warning_count"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <manifest-dir>",
		Short: "Validate provider modules without generating factories",
		Long: `Validate provider module manifests without generating code.

Runs the per-method validators for produces and binds methods and the
aggregate module validator, and reports every diagnostic found. Faster
than generate for development feedback.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, manifestDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	loadResult, loadErrors := LoadManifests(manifestDir, LoadModeFailFast)
	if len(loadErrors) > 0 {
		return outputLoadErrors(formatter, loadErrors)
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, manifestDir)

	grouping := loadResult.Grouping()
	sink := diag.NewCollector()

	validate.NewProducesValidator().Validate(sink, grouping.MethodsIn(entity.MarkerProduces))
	validate.NewBindsValidator().Validate(sink, grouping.MethodsIn(entity.MarkerBinds))

	moduleValidator := validate.NewModuleValidator()
	for _, module := range loadResult.Modules {
		moduleValidator.Validate(module).PrintTo(sink)
	}

	summary := summarize(loadResult, sink)
	if !summary.Valid {
		if err := formatter.Error(ErrCodeGeneric, fmt.Sprintf("%d error(s) found", summary.ErrorCount), sink.Items()); err != nil {
			return err
		}
		return NewExitError(ExitFailure, "validation failed")
	}

	if formatter.Format == "json" {
		return formatter.Success(summary, sink.Items())
	}
	formatter.PrintDiagnostics(sink.Items())
	fmt.Fprintf(formatter.Writer, "✓ %d module(s), %d provider method(s) valid\n", summary.Modules, summary.Methods)
	return nil
}

func summarize(loadResult *LoadResult, sink *diag.Collector) ValidationSummary {
	summary := ValidationSummary{Modules: len(loadResult.Modules)}
	for _, module := range loadResult.Modules {
		for _, m := range module.Methods {
			if m.HasMarker(entity.MarkerProduces) || m.HasMarker(entity.MarkerBinds) {
				summary.Methods++
			}
		}
	}
	for _, d := range sink.Items() {
		switch d.Severity {
		case diag.SevError:
			summary.ErrorCount++
		case diag.SevWarning:
			summary.WarningCount++
		}
	}
	summary.Valid = summary.ErrorCount == 0
	return summary
}

// outputLoadErrors reports manifest loading failures as command errors.
func outputLoadErrors(formatter *OutputFormatter, loadErrors []error) error {
	var loadErr *LoadError
	code := ErrCodeGeneric
	message := loadErrors[0].Error()
	if errors.As(loadErrors[0], &loadErr) {
		code = loadErr.Code
		message = loadErr.Message
		if loadErr.Pos.IsValid() {
			message = fmt.Sprintf("%s:%d:%d: %s", loadErr.Pos.Filename(), loadErr.Pos.Line(), loadErr.Pos.Column(), loadErr.Message)
		}
	}
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}
