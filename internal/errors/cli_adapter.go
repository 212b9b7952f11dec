package errors

import (
	"fmt"
	"log/slog"
)

// CLIErrorAdapter handles error presentation and exit code determination for the CLI.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
	}
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}

	if dse, ok := err.(*DocSearchError); ok {
		return a.exitCodeFromDocSearch(dse)
	}

	return 1
}

// exitCodeFromDocSearch maps DocSearchError to exit codes.
func (a *CLIErrorAdapter) exitCodeFromDocSearch(err *DocSearchError) int {
	switch err.Category {
	case CategoryValidation:
		return 2 // Invalid usage
	case CategoryConfig:
		return 7 // Configuration error
	case CategoryNetwork, CategoryGit:
		return 8 // External system error
	case CategoryBuild, CategoryFileSystem:
		return 11 // Build error
	case CategoryRuntime:
		return 12 // Runtime error
	case CategoryInternal:
		return 10 // Internal error
	default:
		return 1 // General error
	}
}

// FormatError formats an error for user-friendly display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}

	if dse, ok := err.(*DocSearchError); ok {
		return a.formatDocSearch(dse)
	}

	return fmt.Sprintf("Error: %v", err)
}

// formatDocSearch formats a DocSearchError for display.
func (a *CLIErrorAdapter) formatDocSearch(err *DocSearchError) string {
	if a.verbose {
		return err.Error()
	}

	msg := err.Message
	if field, ok := err.Context["field"]; ok {
		msg = fmt.Sprintf("%s (field: %v)", msg, field)
	}
	if reason, ok := err.Context["reason"]; ok {
		msg = fmt.Sprintf("%s: %v", msg, reason)
	}
	return fmt.Sprintf("Error: %s", msg)
}

// LogError logs an error with structured context.
func (a *CLIErrorAdapter) LogError(err error) {
	if err == nil {
		return
	}

	if dse, ok := err.(*DocSearchError); ok {
		attrs := []any{
			slog.String("category", string(dse.Category)),
			slog.String("severity", string(dse.Severity)),
		}
		for k, v := range dse.Context {
			attrs = append(attrs, slog.Any(k, v))
		}
		if dse.Cause != nil {
			attrs = append(attrs, slog.String("cause", dse.Cause.Error()))
		}
		a.logger.Error(dse.Message, attrs...)
		return
	}

	a.logger.Error(err.Error())
}
