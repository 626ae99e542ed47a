package errors

import (
	"errors"
	"fmt"
	"os/exec"
	"testing"
)

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind     ErrorKind
		expected string
	}{
		{KindIO, "I/O error"},
		{KindPath, "Path error"},
		{KindCommand, "Command error"},
		{KindJSONParse, "JSON parse error"},
		{KindOpen, "Open error"},
		{KindCodecResolution, "Codec resolution error"},
		{KindInvariantViolation, "Invariant violation"},
		{KindConfig, "Configuration error"},
		{KindCache, "Cache error"},
		{KindNoFilesFound, "No files found"},
		{KindCancelled, "Operation cancelled"},
		{ErrorKind(99), "Unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.expected {
				t.Errorf("ErrorKind.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCoreErrorError(t *testing.T) {
	underlying := errors.New("underlying error")
	err := &CoreError{
		Kind:       KindIO,
		Message:    "test message",
		Underlying: underlying,
	}

	got := err.Error()
	expected := "I/O error: test message: underlying error"
	if got != expected {
		t.Errorf("CoreError.Error() = %v, want %v", got, expected)
	}

	err2 := &CoreError{
		Kind:    KindConfig,
		Message: "config issue",
	}

	got2 := err2.Error()
	expected2 := "Configuration error: config issue"
	if got2 != expected2 {
		t.Errorf("CoreError.Error() = %v, want %v", got2, expected2)
	}
}

func TestCoreErrorUnwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	err := &CoreError{
		Kind:       KindIO,
		Message:    "test",
		Underlying: underlying,
	}

	if err.Unwrap() != underlying {
		t.Error("Unwrap() should return underlying error")
	}
}

func TestCoreErrorIs(t *testing.T) {
	err1 := &CoreError{Kind: KindIO, Message: "test1"}
	err2 := &CoreError{Kind: KindIO, Message: "test2"}
	err3 := &CoreError{Kind: KindConfig, Message: "test3"}

	if !err1.Is(err2) {
		t.Error("Same kind errors should match")
	}

	if err1.Is(err3) {
		t.Error("Different kind errors should not match")
	}

	wrapped := fmt.Errorf("probe: %w", err1)
	if !errors.Is(wrapped, &CoreError{Kind: KindIO}) {
		t.Error("errors.Is should match kind through wrapping")
	}
}

func TestCommandError(t *testing.T) {
	startErr := &CommandError{
		Command:    "ffprobe",
		Kind:       CommandStart,
		Underlying: errors.New("not found"),
	}
	if got := startErr.Error(); got != "failed to execute ffprobe: not found" {
		t.Errorf("CommandStart error = %v", got)
	}

	failedErr := &CommandError{
		Command:  "ffprobe",
		Kind:     CommandFailed,
		ExitCode: 1,
		Stderr:   "file not found",
	}
	expected := "command ffprobe failed with exit code 1: file not found"
	if got := failedErr.Error(); got != expected {
		t.Errorf("CommandFailed error = %v, want %v", got, expected)
	}

	bare := &CommandError{Command: "ffprobe", Kind: CommandFailed, ExitCode: 2}
	if got := bare.Error(); got != "command ffprobe failed with exit code 2" {
		t.Errorf("CommandFailed without stderr = %v", got)
	}
}

func TestStreamError(t *testing.T) {
	err := NewCodecResolutionError(3, "audio", errors.New("no decoder"))

	var streamErr *StreamError
	if !errors.As(err, &streamErr) {
		t.Fatal("codec resolution error should carry a StreamError")
	}
	if streamErr.Index != 3 {
		t.Errorf("Index = %d, want 3", streamErr.Index)
	}
	if streamErr.MediaKind != "audio" {
		t.Errorf("MediaKind = %q, want audio", streamErr.MediaKind)
	}

	want := "Codec resolution error: codec could not be resolved: stream 3 (audio): no decoder"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	missing := NewCodecResolutionError(1, "video", nil)
	if got := missing.Error(); got != "Codec resolution error: codec could not be resolved: stream 1 (video)" {
		t.Errorf("Error() = %q", got)
	}
}

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *CoreError
		kind ErrorKind
	}{
		{"NewIOError", NewIOError("disk full", errors.New("no space")), KindIO},
		{"NewPathError", NewPathError("invalid path"), KindPath},
		{"NewCommandStartError", NewCommandStartError("ffprobe", errors.New("missing")), KindCommand},
		{"NewCommandFailedError", NewCommandFailedError("ffprobe", 1, "boom"), KindCommand},
		{"NewJSONParseError", NewJSONParseError("bad json", errors.New("eof")), KindJSONParse},
		{"NewOpenError", NewOpenError("/tmp/a.mkv", errors.New("eof")), KindOpen},
		{"NewCodecResolutionError", NewCodecResolutionError(0, "audio", nil), KindCodecResolution},
		{"NewInvariantViolation", NewInvariantViolation("best stream 9 missing"), KindInvariantViolation},
		{"NewConfigError", NewConfigError("invalid workers", nil), KindConfig},
		{"NewCacheError", NewCacheError("open cache", errors.New("locked")), KindCache},
		{"NewNoFilesFoundError", NewNoFilesFoundError("/test/dir"), KindNoFilesFound},
		{"NewCancelledError", NewCancelledError(nil), KindCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("Expected %v, got %v", tt.kind, tt.err.Kind)
			}
		})
	}
}

func TestIsKind(t *testing.T) {
	err := NewConfigError("test", nil)

	if !IsKind(err, KindConfig) {
		t.Error("IsKind should return true for matching kind")
	}

	if IsKind(err, KindIO) {
		t.Error("IsKind should return false for non-matching kind")
	}

	if IsKind(errors.New("plain error"), KindConfig) {
		t.Error("IsKind should return false for non-CoreError")
	}

	nested := NewOpenError("/media/a.mkv", NewCommandFailedError("ffprobe", 1, "moov atom not found"))
	if !IsKind(nested, KindOpen) || !IsKind(nested, KindCommand) {
		t.Error("IsKind should match every kind in the chain")
	}
}

func TestKindHelpers(t *testing.T) {
	if !IsCancelled(NewCancelledError(nil)) {
		t.Error("IsCancelled should return true for cancelled error")
	}
	if IsCancelled(NewConfigError("test", nil)) {
		t.Error("IsCancelled should return false for non-cancelled error")
	}
	if !IsNoFilesFound(NewNoFilesFoundError("/test")) {
		t.Error("IsNoFilesFound should return true for no-files-found error")
	}
	if !IsCodecResolution(fmt.Errorf("wrap: %w", NewCodecResolutionError(2, "subtitle", nil))) {
		t.Error("IsCodecResolution should see through wrapping")
	}
}

func TestWrapExecError(t *testing.T) {
	err := WrapExecError("ffprobe", exec.ErrNotFound, "")
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatal("expected CommandError")
	}
	if cmdErr.Kind != CommandStart {
		t.Errorf("Kind = %v, want CommandStart", cmdErr.Kind)
	}
}
