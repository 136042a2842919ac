package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/ironsheep/wcs-tools-mcp/internal/wcs"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // The transform could not produce a result (degenerate geometry, off-image position)
	ExitCommandError = 2 // Command error (bad arguments, unreadable or invalid header)
)

// Error codes reported in CLI responses.
const (
	ErrCodeGeneric         = "E001" // Generic/unknown error
	ErrCodeInvalidArgument = "E002" // Argument is not a number or out of range
	ErrCodeHeaderNotFound  = "E003" // Header file cannot be read
	ErrCodeHeaderInvalid   = "E004" // Header cannot be parsed
	ErrCodeUnsupported     = "E005" // CTYPE is not RA---TAN / DEC--TAN
	ErrCodeMissingKeyword  = "E006" // Keyword needed by the transform is absent
	ErrCodeDimension       = "E007" // More pixel coordinates than NAXIS
	ErrCodeDegenerate      = "E008" // Position cannot be projected
	ErrCodeImage           = "E009" // Image cannot be loaded or rendered
	ErrCodeWriteFailed     = "E010" // Output file write error
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
// Returns ExitFailure (1) if the error is not an ExitError.
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
	Status  string      `json:"status"`             // "ok" or "error"
	Data    interface{} `json:"data,omitempty"`     // success payload
	Error   *CLIError   `json:"error,omitempty"`    // error details
	TraceID string      `json:"trace_id,omitempty"` // correlates a response with verbose logs
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string      `json:"code"`              // "E001", "E002", etc.
	Message string      `json:"message"`           // human-readable message
	Details interface{} `json:"details,omitempty"` // additional context
}

func newTraceID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data interface{}) error {
	if f.Format == "json" {
		enc := json.NewEncoder(f.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(CLIResponse{
			Status:  "ok",
			Data:    data,
			TraceID: newTraceID(),
		})
	}

	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details interface{}) error {
	if f.Format == "json" {
		enc := json.NewEncoder(f.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
			TraceID: newTraceID(),
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

// Fail writes err in the configured format and returns the ExitError the
// command should return.
func (f *OutputFormatter) Fail(err error) error {
	code, exit := classify(err)
	_ = f.Error(code, err.Error(), nil)
	return WrapExitError(exit, code, err)
}

// classify maps an error to its response code and exit code.
func classify(err error) (string, int) {
	var missing *wcs.MissingKeywordError
	var dim *wcs.DimensionMismatchError
	var arg *argError
	var hdr *headerError

	switch {
	case errors.As(err, &arg):
		return ErrCodeInvalidArgument, ExitCommandError
	case errors.Is(err, wcs.ErrUnsupportedTransform):
		return ErrCodeUnsupported, ExitCommandError
	case errors.As(err, &hdr):
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, os.ErrPermission) {
			return ErrCodeHeaderNotFound, ExitCommandError
		}
		return ErrCodeHeaderInvalid, ExitCommandError
	case errors.As(err, &missing):
		return ErrCodeMissingKeyword, ExitCommandError
	case errors.As(err, &dim):
		return ErrCodeDimension, ExitCommandError
	case errors.Is(err, wcs.ErrDegenerateGeometry):
		return ErrCodeDegenerate, ExitFailure
	case errors.Is(err, errImage):
		return ErrCodeImage, ExitFailure
	case errors.Is(err, errWrite):
		return ErrCodeWriteFailed, ExitCommandError
	}
	return ErrCodeGeneric, ExitFailure
}
