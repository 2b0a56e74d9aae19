package service

import (
	"errors"
	"strings"
)

// Error variables
var (
	ErrNotInitialized = errors.New("snippet manager not initialized")
	ErrRemoteFetch    = errors.New("remote fetch failed")
)

// DeleteStatus tags the outcome of a delete.
type DeleteStatus int

const (
	Deleted DeleteStatus = iota
	// Aborted means the user declined or dismissed the prompt. It is not an error.
	Aborted
	ValidationFailed
)

func (s DeleteStatus) String() string {
	switch s {
	case Deleted:
		return "deleted"
	case Aborted:
		return "aborted"
	case ValidationFailed:
		return "validation_failed"
	default:
		return "unknown"
	}
}

// DeleteResult is the outcome of Delete and DeleteAll.
type DeleteResult struct {
	Status DeleteStatus
	Reason string
}

// RemoteFetchError carries human-readable reasons a playlist could not be retrieved.
type RemoteFetchError struct {
	Messages []string
	Err      error
}

func (e *RemoteFetchError) Error() string {
	return strings.Join(e.Messages, " ")
}

// Is makes errors.Is(err, ErrRemoteFetch) hold.
func (e *RemoteFetchError) Is(target error) bool { return target == ErrRemoteFetch }

func (e *RemoteFetchError) Unwrap() error { return e.Err }

// ErrorMessages flattens joined errors into one message each.
func ErrorMessages(err error) []string {
	if err == nil {
		return nil
	}
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		var out []string
		for _, e := range j.Unwrap() {
			out = append(out, ErrorMessages(e)...)
		}
		return out
	}
	return []string{err.Error()}
}
