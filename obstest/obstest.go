// Package obstest provides helpers for asserting on stream output.
package obstest

import (
	"slices"
	"sync"

	"github.com/AnatoleLucet/obs"
)

// Recorder captures every message delivered to a subscription so tests
// can assert on the exact sequence afterwards. Safe for use with
// producers that emit from their own goroutines.
type Recorder[T any] struct {
	mu    sync.Mutex
	notes []obs.Notification[T]

	done chan struct{}
}

func NewRecorder[T any]() *Recorder[T] {
	return &Recorder[T]{done: make(chan struct{})}
}

// Observer returns the callback set to subscribe with. It must be used
// through Stream.Subscribe, which guarantees a single terminal.
func (r *Recorder[T]) Observer() obs.Observer[T] {
	return obs.Observer[T]{
		Next:     func(v T) { r.record(obs.Next(v)) },
		Error:    func(err error) { r.record(obs.Error[T](err)) },
		Complete: func() { r.record(obs.Complete[T]()) },
	}
}

func (r *Recorder[T]) record(n obs.Notification[T]) {
	r.mu.Lock()
	r.notes = append(r.notes, n)
	r.mu.Unlock()

	if n.Kind.Terminal() {
		close(r.done)
	}
}

// Notifications returns a copy of everything recorded so far.
func (r *Recorder[T]) Notifications() []obs.Notification[T] {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.notes)
}

// Values returns the payloads of the recorded next messages.
func (r *Recorder[T]) Values() []T {
	r.mu.Lock()
	defer r.mu.Unlock()

	var values []T
	for _, n := range r.notes {
		if n.Kind == obs.KindNext {
			values = append(values, n.Value)
		}
	}

	return values
}

// Err returns the recorded terminal error, or nil.
func (r *Recorder[T]) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range r.notes {
		if n.Kind == obs.KindError {
			return n.Err
		}
	}

	return nil
}

// Terminated reports whether a terminal message arrived.
func (r *Recorder[T]) Terminated() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

// Done is closed when the terminal message arrives. Useful to wait on
// producers that emit from their own goroutines.
func (r *Recorder[T]) Done() <-chan struct{} {
	return r.done
}
