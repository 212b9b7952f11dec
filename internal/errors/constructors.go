package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *DocSearchError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigInvalid(path string, cause error) *DocSearchError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "configuration file invalid").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *DocSearchError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Build pipeline errors

func DiscoveryError(cause error) *DocSearchError {
	return Wrap(cause, CategoryBuild, SeverityFatal, "documentation discovery failed")
}

func PageReadError(path string, cause error) *DocSearchError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "page read failed").
		WithContext("path", path)
}

func IndexWriteError(path string, cause error) *DocSearchError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "search index write failed").
		WithContext("path", path)
}

func WorkspaceError(operation string, cause error) *DocSearchError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "workspace operation failed").
		WithContext("operation", operation)
}

// Git errors

func GitCloneError(repo string, cause error) *DocSearchError {
	return Wrap(cause, CategoryGit, SeverityFatal, "repository clone failed").
		WithContext("repository", repo)
}

// Watch mode errors

func WatchError(cause error) *DocSearchError {
	return Wrap(cause, CategoryRuntime, SeverityFatal, "watch mode failed")
}

func NotifyError(cause error) *DocSearchError {
	return WrapRetryable(cause, CategoryNetwork, SeverityWarning, "rebuild notification failed")
}
