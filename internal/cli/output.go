package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/provc/provc/internal/diag"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Validation/generation failure (error diagnostics reported)
	ExitCommandError = 2 // Command error (invalid paths, bad manifests, etc.)
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status      string            `json:"status"` // "ok" or "error"
	Data        interface{}       `json:"data,omitempty"`
	Diagnostics []diag.Diagnostic `json:"diagnostics,omitempty"`
	Error       *CLIError         `json:"error,omitempty"`
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string      `json:"code"`    // "E001", "E002", etc.
	Message string      `json:"message"` // human-readable message
	Details interface{} `json:"details,omitempty"`
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data interface{}, diagnostics []diag.Diagnostic) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status:      "ok",
			Data:        data,
			Diagnostics: diagnostics,
		})
	}

	f.PrintDiagnostics(diagnostics)
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, diagnostics []diag.Diagnostic) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status:      "error",
			Diagnostics: diagnostics,
			Error: &CLIError{
				Code:    code,
				Message: message,
			},
		})
	}

	f.PrintDiagnostics(diagnostics)
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	return nil
}

// PrintDiagnostics renders diagnostics one per line in report order.
// JSON output embeds diagnostics in the response instead.
func (f *OutputFormatter) PrintDiagnostics(diagnostics []diag.Diagnostic) {
	if f.Format == "json" {
		return
	}
	for _, d := range diagnostics {
		fmt.Fprintln(f.Writer, d.String())
	}
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, so JSON output is never corrupted.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}
