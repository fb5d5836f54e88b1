// Package stacktrace annotates errors with the call sites they passed
// through, so that a failure deep inside a build (a template that will not
// parse, a source file that will not read) can be traced back without
// re-running the build under a debugger.
package stacktrace

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"strings"
)

// Error is an error carrying the file:line call sites captured at wrap time.
type Error struct {
	Err     error
	Callers []string
}

var _ error = (*Error)(nil)

// New wraps err with the stack trace of the caller. Wrapping an error that
// already carries a trace (directly or anywhere in its chain) returns it
// unchanged, so it is safe to call at every level of a call stack.
//
// Capturing a trace is expensive. Reserve it for errors on paths that are
// not expected to fail, and never wrap the error coming out of an
// errgroup.Wait: that error originated in a child goroutine and was wrapped
// there.
func New(err error) error {
	if _, ok := err.(*Error); ok {
		return err
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{
		Err:     err,
		Callers: callers(),
	}
}

// RecoverPanic recovers an in-flight panic and stores it in *err as an
// Error whose trace points at the panic site. Meant to be deferred at the
// top of goroutines:
//
//	defer stacktrace.RecoverPanic(&err)
func RecoverPanic(err *error) {
	if v := recover(); v != nil {
		if err != nil {
			*err = &Error{
				Err:     fmt.Errorf("panic: %v", v),
				Callers: callers(),
			}
		}
	}
}

func callers() []string {
	var pc [30]uintptr
	n := runtime.Callers(3, pc[:])
	frames := runtime.CallersFrames(pc[:n])
	sites := make([]string, 0, n)
	for frame, more := frames.Next(); more; frame, more = frames.Next() {
		sites = append(sites, frame.File+":"+strconv.Itoa(frame.Line))
	}
	return sites
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Error prints the call sites outermost first, followed by the wrapped
// error's message.
func (e *Error) Error() string {
	var b strings.Builder
	last := len(e.Callers) - 1
	for i := last; i >= 0; i-- {
		if i < last {
			b.WriteString(" -> ")
		}
		b.WriteString(e.Callers[i])
	}
	if e.Err == nil {
		b.WriteString(": <nil>")
	} else {
		b.WriteString(": " + e.Err.Error())
	}
	return b.String()
}
