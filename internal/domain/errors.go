package domain

import "errors"

// ErrInterrupted reports that a signal cancelled the run.
var ErrInterrupted = errors.New("interrupted")

// ErrorKind classifies every failure the tool can report.
type ErrorKind int

const (
	InvalidFormat ErrorKind = iota + 1
	InvalidURL
	InvalidPort
	EmptyHost
	ResolutionFailed
	NoAddresses
	ConnectFailed
	RequestFailed
	HTTPStatusFailed
	Timeout
	SpawnFailed
)

var kindNames = map[ErrorKind]string{
	InvalidFormat:    "invalid_format",
	InvalidURL:       "invalid_url",
	InvalidPort:      "invalid_port",
	EmptyHost:        "empty_host",
	ResolutionFailed: "resolution_failed",
	NoAddresses:      "no_addresses",
	ConnectFailed:    "connect_failed",
	RequestFailed:    "request_failed",
	HTTPStatusFailed: "http_status_failed",
	Timeout:          "timeout",
	SpawnFailed:      "spawn_failed",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Error is a classified failure. Msg is shown to the user as is; Err, when
// set, is the underlying cause and is appended after a colon.
type Error struct {
	Kind   ErrorKind
	Msg    string
	Status int // HTTP status for HTTPStatusFailed
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, &Error{Kind: Timeout})
// works without comparing messages.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// Retryable reports whether the retry loop may try again after err.
func Retryable(err error) bool {
	switch KindOf(err) {
	case ConnectFailed, RequestFailed, HTTPStatusFailed:
		return true
	}
	return false
}
