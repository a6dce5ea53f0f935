package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/roach88/reptrack/internal/config"
	"github.com/roach88/reptrack/internal/model"
	"github.com/roach88/reptrack/internal/store"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Operation failed (constraint violation, not found, etc.)
	ExitCommandError = 2 // Command error (bad input, unreadable config, database won't open)
)

// Error codes for CLI responses.
const (
	ErrCodeGeneric        = "E001" // Generic/unknown error
	ErrCodeInvalidInput   = "E002" // Argument or field value rejected
	ErrCodeConstraint     = "E003" // Uniqueness or NOT NULL violation
	ErrCodeNotFound       = "E004" // Row does not exist
	ErrCodeSchemaMismatch = "E005" // On-disk schema differs from the expected one
	ErrCodeOpenFailed     = "E006" // Database could not be opened
	ErrCodeConfig         = "E007" // Configuration unreadable or invalid
	ErrCodeConfirm        = "E008" // Destructive command run without --yes
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

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitSuccess for nil and ExitFailure if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
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
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "E001", "E002", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	fmt.Fprintln(f.Writer, data)
	return nil
}

// Emit writes data as JSON, or text as-is in text mode.
func (f *OutputFormatter) Emit(data any, text string) error {
	if f.Format == "json" {
		return f.Success(data)
	}
	fmt.Fprintln(f.Writer, text)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Fail reports err in the configured format and returns the matching
// ExitError for the command to return.
func (f *OutputFormatter) Fail(err error) error {
	code, exit := classifyError(err)

	var details any
	var mismatch *store.SchemaMismatchError
	if errors.As(err, &mismatch) {
		details = mismatch
	}

	_ = f.Error(code, err.Error(), details)
	return WrapExitError(exit, code, err)
}

// VerboseLog outputs a message only if verbose mode is enabled.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

// errNotFound marks lookups that matched no row.
var errNotFound = errors.New("not found")

func classifyError(err error) (code string, exit int) {
	switch {
	case errors.Is(err, model.ErrInvalid):
		return ErrCodeInvalidInput, ExitCommandError
	case errors.Is(err, store.ErrConstraint):
		return ErrCodeConstraint, ExitFailure
	case errors.Is(err, errNotFound):
		return ErrCodeNotFound, ExitFailure
	case store.IsSchemaMismatch(err), errors.Is(err, store.ErrFutureSchema):
		return ErrCodeSchemaMismatch, ExitCommandError
	case errors.Is(err, config.ErrInvalid):
		return ErrCodeConfig, ExitCommandError
	case errors.Is(err, errOpen):
		return ErrCodeOpenFailed, ExitCommandError
	case errors.Is(err, errNotConfirmed):
		return ErrCodeConfirm, ExitCommandError
	default:
		return ErrCodeGeneric, ExitFailure
	}
}
