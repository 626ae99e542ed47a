// Package errors provides structured error types for avmeta operations.
package errors

import (
	"errors"
	"fmt"
	"os/exec"
)

// ErrorKind represents the category of an error.
type ErrorKind int

const (
	// KindIO represents I/O errors.
	KindIO ErrorKind = iota
	// KindPath represents path-related errors.
	KindPath
	// KindCommand represents external command execution errors.
	KindCommand
	// KindJSONParse represents JSON parsing errors.
	KindJSONParse
	// KindOpen represents a container that could not be opened or parsed.
	KindOpen
	// KindCodecResolution represents a stream whose decoder view or codec
	// identity could not be resolved.
	KindCodecResolution
	// KindInvariantViolation represents a collaborator answer that contradicts
	// the enumerated stream list.
	KindInvariantViolation
	// KindConfig represents configuration validation errors.
	KindConfig
	// KindCache represents snapshot cache failures.
	KindCache
	// KindNoFilesFound represents no suitable media files found.
	KindNoFilesFound
	// KindCancelled represents user-cancelled operations.
	KindCancelled
)

// String returns a string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case KindIO:
		return "I/O error"
	case KindPath:
		return "Path error"
	case KindCommand:
		return "Command error"
	case KindJSONParse:
		return "JSON parse error"
	case KindOpen:
		return "Open error"
	case KindCodecResolution:
		return "Codec resolution error"
	case KindInvariantViolation:
		return "Invariant violation"
	case KindConfig:
		return "Configuration error"
	case KindCache:
		return "Cache error"
	case KindNoFilesFound:
		return "No files found"
	case KindCancelled:
		return "Operation cancelled"
	default:
		return "Unknown error"
	}
}

// CommandErrorKind represents the type of command error.
type CommandErrorKind int

const (
	// CommandStart means the command failed to start.
	CommandStart CommandErrorKind = iota
	// CommandFailed means the command returned non-zero exit status.
	CommandFailed
)

// CommandError represents an error from executing an external command.
type CommandError struct {
	Command    string
	Kind       CommandErrorKind
	ExitCode   int
	Stderr     string
	Underlying error
}

func (e *CommandError) Error() string {
	switch e.Kind {
	case CommandStart:
		return fmt.Sprintf("failed to execute %s: %v", e.Command, e.Underlying)
	case CommandFailed:
		if e.Stderr != "" {
			return fmt.Sprintf("command %s failed with exit code %d: %s", e.Command, e.ExitCode, e.Stderr)
		}
		return fmt.Sprintf("command %s failed with exit code %d", e.Command, e.ExitCode)
	default:
		return fmt.Sprintf("command %s error: %v", e.Command, e.Underlying)
	}
}

func (e *CommandError) Unwrap() error {
	return e.Underlying
}

// StreamError identifies the stream a projection failure belongs to.
type StreamError struct {
	Index      int
	MediaKind  string
	Underlying error
}

func (e *StreamError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("stream %d (%s): %v", e.Index, e.MediaKind, e.Underlying)
	}
	return fmt.Sprintf("stream %d (%s)", e.Index, e.MediaKind)
}

func (e *StreamError) Unwrap() error {
	return e.Underlying
}

// CoreError is the main error type for avmeta operations.
type CoreError struct {
	Kind       ErrorKind
	Message    string
	Underlying error
}

func (e *CoreError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *CoreError) Unwrap() error {
	return e.Underlying
}

// Is reports whether target matches this error's kind.
func (e *CoreError) Is(target error) bool {
	t, ok := target.(*CoreError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// NewIOError creates a new I/O error.
func NewIOError(message string, underlying error) *CoreError {
	return &CoreError{Kind: KindIO, Message: message, Underlying: underlying}
}

// NewPathError creates a new path-related error.
func NewPathError(message string) *CoreError {
	return &CoreError{Kind: KindPath, Message: message}
}

// NewCommandStartError creates an error for when a command fails to start.
func NewCommandStartError(cmd string, err error) *CoreError {
	cmdErr := &CommandError{Command: cmd, Kind: CommandStart, Underlying: err}
	return &CoreError{Kind: KindCommand, Message: cmdErr.Error(), Underlying: cmdErr}
}

// NewCommandFailedError creates an error for when a command returns non-zero exit status.
func NewCommandFailedError(cmd string, exitCode int, stderr string) *CoreError {
	cmdErr := &CommandError{
		Command:  cmd,
		Kind:     CommandFailed,
		ExitCode: exitCode,
		Stderr:   stderr,
	}
	return &CoreError{Kind: KindCommand, Message: cmdErr.Error(), Underlying: cmdErr}
}

// NewJSONParseError creates a new JSON parsing error.
func NewJSONParseError(message string, underlying error) *CoreError {
	return &CoreError{Kind: KindJSONParse, Message: message, Underlying: underlying}
}

// NewOpenError creates an error for a container that could not be opened.
func NewOpenError(path string, underlying error) *CoreError {
	return &CoreError{Kind: KindOpen, Message: fmt.Sprintf("cannot open %s", path), Underlying: underlying}
}

// NewCodecResolutionError creates an error for a stream whose codec could not
// be resolved. underlying may be nil when the codec identity is simply absent.
func NewCodecResolutionError(index int, mediaKind string, underlying error) *CoreError {
	streamErr := &StreamError{Index: index, MediaKind: mediaKind, Underlying: underlying}
	return &CoreError{
		Kind:       KindCodecResolution,
		Message:    "codec could not be resolved",
		Underlying: streamErr,
	}
}

// NewInvariantViolation creates an error for an inconsistent collaborator answer.
func NewInvariantViolation(message string) *CoreError {
	return &CoreError{Kind: KindInvariantViolation, Message: message}
}

// NewConfigError creates a new configuration error.
func NewConfigError(message string, underlying error) *CoreError {
	return &CoreError{Kind: KindConfig, Message: message, Underlying: underlying}
}

// NewCacheError creates a new snapshot cache error.
func NewCacheError(message string, underlying error) *CoreError {
	return &CoreError{Kind: KindCache, Message: message, Underlying: underlying}
}

// NewNoFilesFoundError creates an error for when no media files are found.
func NewNoFilesFoundError(dir string) *CoreError {
	return &CoreError{Kind: KindNoFilesFound, Message: fmt.Sprintf("no suitable media files found in %s", dir)}
}

// NewCancelledError creates an error for user-cancelled operations.
func NewCancelledError(underlying error) *CoreError {
	return &CoreError{Kind: KindCancelled, Message: "operation was cancelled", Underlying: underlying}
}

// IsKind checks if any error in err's chain has the specified kind.
func IsKind(err error, kind ErrorKind) bool {
	return errors.Is(err, &CoreError{Kind: kind})
}

// IsCancelled checks if the error is a cancellation error.
func IsCancelled(err error) bool {
	return IsKind(err, KindCancelled)
}

// IsNoFilesFound checks if the error is a no-files-found error.
func IsNoFilesFound(err error) bool {
	return IsKind(err, KindNoFilesFound)
}

// IsCodecResolution checks if the error is a codec resolution error.
func IsCodecResolution(err error) bool {
	return IsKind(err, KindCodecResolution)
}

// WrapExecError wraps an exec.ExitError into a CoreError.
func WrapExecError(cmd string, err error, stderr string) *CoreError {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return NewCommandFailedError(cmd, exitErr.ExitCode(), stderr)
	}
	return NewCommandStartError(cmd, err)
}
