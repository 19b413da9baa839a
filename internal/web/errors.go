package web

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"runtime"
)

// Kind classifies a request failure. Every Kind maps to exactly one status.
type Kind int

const (
	KindUnexpected Kind = iota
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindUnexpected:
		return "Unexpected"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) Status() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindUnexpected:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

// Error is the only failure type the error presenter understands. Anything
// else reaching it is treated as KindUnexpected.
type Error struct {
	Kind Kind
	// Description is shown above the error details and may contain markup.
	Description template.HTML
	Err         error
	// Location is where the error was raised: file:line, or a goroutine
	// stack for recovered panics. It is logged, never rendered.
	Location string
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Status() int { return e.Kind.Status() }

func NotFound(err error, description template.HTML) *Error {
	return &Error{Kind: KindNotFound, Description: description, Err: err, Location: caller(1)}
}

func Unexpected(err error) *Error {
	return &Error{Kind: KindUnexpected, Err: err, Location: caller(1)}
}

// classify maps any error to an *Error.
func classify(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: KindUnexpected, Err: err}
}

func caller(skip int) string {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return "unknown"
	}
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}
