package obs

import (
	"fmt"
	"runtime"
	"strings"
)

// Disposable is a handle to resources that can be released. Subscription
// teardown lists hold Disposables; a value meant to be removed again
// later must be comparable.
type Disposable interface {
	Dispose() error
}

type cleanup struct {
	fn func() error
}

// Cleanup wraps a plain function into a Disposable. Every call returns a
// distinct handle, so the same function can be registered several times
// and removed one occurrence at a time.
func Cleanup(fn func() error) Disposable {
	return &cleanup{fn: fn}
}

func (c *cleanup) Dispose() error {
	if c.fn == nil {
		return nil
	}

	return c.fn()
}

// TeardownError aggregates every failure collected while disposing a
// subscription. Failures of nested subscriptions are spliced in flat
// rather than wrapped.
type TeardownError struct {
	Errs []error
}

func (e *TeardownError) Error() string {
	if len(e.Errs) == 1 {
		return fmt.Sprintf("obs: teardown failed: %v", e.Errs[0])
	}

	msgs := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		msgs[i] = err.Error()
	}

	return fmt.Sprintf("obs: %d teardowns failed: %s", len(e.Errs), strings.Join(msgs, "; "))
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (e *TeardownError) Unwrap() []error {
	return e.Errs
}

// collect appends err, splicing nested teardown errors flat.
func collect(errs []error, err error) []error {
	if err == nil {
		return errs
	}

	if te, ok := err.(*TeardownError); ok {
		return append(errs, te.Errs...)
	}

	return append(errs, err)
}

// PanicError carries a panic recovered from user code so it can travel
// as a regular error value.
type PanicError struct {
	// Value is the original value passed to panic().
	Value any

	// Stack is the goroutine stack trace at the point of panic.
	Stack string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("obs: panic: %v\n\n%s", e.Value, e.Stack)
}

func newPanicError(v any) *PanicError {
	// runtime.Stack truncates gracefully if the buffer is too small
	buf := make([]byte, 8192)
	n := runtime.Stack(buf, false)

	return &PanicError{Value: v, Stack: string(buf[:n])}
}

// runSafely invokes one teardown step, converting a panic into an error
// so the remaining steps still get to run.
func runSafely(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newPanicError(r)
		}
	}()

	return fn()
}
