// Package errs defines codelens's error taxonomy: a closed set of sentinel
// errors grouped into four kinds, plus a wrapping type that carries the
// failing operation and path for logging and for errors.Is/As dispatch by
// callers.
package errs

import (
	"errors"
	"fmt"
)

// Kind buckets every sentinel into one of four recovery strategies: retry,
// fix the input, treat the cache as corrupt, or give up.
type Kind int

const (
	KindTransient Kind = iota
	KindInput
	KindData
	KindFatal
)

func (k Kind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	case KindInput:
		return "input"
	case KindData:
		return "data"
	case KindFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

var (
	// Transient: callers may retry without changing the request.
	ErrModelNotLoaded    = errors.New("embedding model is not loaded or reachable")
	ErrBuildInProgress   = errors.New("an index build is already in progress")
	ErrInferenceTimeout  = errors.New("embedding inference timed out")

	// Input: the caller must change the request; index state is untouched.
	ErrInvalidQuery      = errors.New("query is empty or malformed")
	ErrUnknownFilePath   = errors.New("file path is not present in the index")
	ErrDimensionMismatch = errors.New("vector dimension does not match index")

	// Data: a single entry failed; accumulated in an error list, build continues.
	ErrParseError = errors.New("failed to parse file")
	ErrWalkError  = errors.New("failed to walk directory entry")

	// Fatal: abort the current operation, leave any previous Ready snapshot intact.
	ErrRootNotFound         = errors.New("root path does not exist or is not a directory")
	ErrFullTextCommitFailed = errors.New("full-text index commit failed")
	ErrCachePersistFailed   = errors.New("failed to persist index cache to disk")
	ErrSerializationError   = errors.New("failed to serialize or deserialize index data")
	ErrCacheCorrupt         = errors.New("index cache is corrupt or unreadable")
	ErrIndexNotReady        = errors.New("index has not finished building")
	ErrCancelled            = errors.New("operation was cancelled")
)

// CodeLensError wraps a sentinel with the operation and path it occurred
// on, the way pkg/errors.AppError does in the sibling search platform repo,
// adapted from an HTTP-status taxonomy to codelens's four Kinds.
type CodeLensError struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *CodeLensError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (%s): %v", e.Op, e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *CodeLensError) Unwrap() error {
	return e.Err
}

// New wraps a sentinel error with operation context.
func New(kind Kind, op string, path string, err error) *CodeLensError {
	return &CodeLensError{Kind: kind, Op: op, Path: path, Err: err}
}

// KindOf returns the Kind carried by err, or KindFatal if err does not wrap
// a *CodeLensError (an unclassified error is treated conservatively).
func KindOf(err error) Kind {
	var ce *CodeLensError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindFatal
}

// Retryable reports whether callers should retry the operation that
// produced err without changing anything about the request.
func Retryable(err error) bool {
	return KindOf(err) == KindTransient
}
