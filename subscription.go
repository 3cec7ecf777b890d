package obs

import (
	"slices"
	"sync"
	"sync/atomic"
)

// Subscription is a disposable handle to a running producer. It owns an
// ordered list of teardowns executed exactly once when the subscription
// is disposed, and can be nested under other subscriptions to form a
// cancellation tree.
//
// The zero value is an open subscription with no release action.
type Subscription struct {
	closed atomic.Bool

	mu sync.Mutex

	// producer shutdown action, runs before the registered teardowns
	// and is dropped after its first run
	release func() error

	// parent back-references. most subscriptions have zero or one
	// parent, so a single slot is kept before growing a slice.
	parent  *Subscription
	parents []*Subscription

	teardowns []Disposable

	done chan struct{}
}

// NewSubscription creates a subscription whose release action runs first
// during disposal. A nil release is allowed.
func NewSubscription(release func() error) *Subscription {
	return &Subscription{release: release}
}

// Closed reports whether the subscription has been disposed.
func (s *Subscription) Closed() bool {
	return s.closed.Load()
}

// Done returns a channel that is closed when the subscription is
// disposed, before any of its teardowns run.
func (s *Subscription) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done == nil {
		s.done = make(chan struct{})
	}

	return s.done
}

// Dispose closes the subscription, detaches it from its parents, then
// runs the release action and every registered teardown in order. All
// failures of the pass are collected into a single *TeardownError.
// Only the first call does any work; later calls return nil.
func (s *Subscription) Dispose() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	s.mu.Lock()
	release := s.release
	s.release = nil

	parent := s.parent
	parents := s.parents
	s.parent = nil
	s.parents = nil

	teardowns := s.teardowns
	s.teardowns = nil

	if s.done == nil {
		s.done = make(chan struct{})
	}
	close(s.done)
	s.mu.Unlock()

	if parent != nil {
		parent.Remove(s)
	}
	for _, p := range parents {
		p.Remove(s)
	}

	var errs []error

	if release != nil {
		errs = collect(errs, runSafely(release))
	}

	for _, td := range teardowns {
		errs = collect(errs, runSafely(td.Dispose))
	}

	if len(errs) > 0 {
		return &TeardownError{Errs: errs}
	}

	return nil
}

// Add registers td to run when s is disposed. Teardowns run in
// registration order. Adding to an already-closed subscription disposes
// td immediately, discarding its error. Adding s to itself is a no-op.
//
// When td is a child *Subscription, s is also recorded as a parent so
// the child detaches itself once disposed on its own. Adding the same
// child twice keeps a single registration; a closed child is skipped.
func (s *Subscription) Add(td Disposable) {
	if td == nil {
		return
	}

	child, _ := td.(*Subscription)
	if child == s {
		return
	}

	if child != nil && !child.addParent(s) {
		// closed or already tracked under this parent
		return
	}

	s.mu.Lock()
	if s.closed.Load() {
		s.mu.Unlock()

		if child != nil {
			child.removeParent(s)
		}

		// late registration, run the teardown now instead of storing it
		td.Dispose()
		return
	}

	s.teardowns = append(s.teardowns, td)
	s.mu.Unlock()
}

// AddFunc wraps fn into a teardown, registers it, and returns the handle
// so it can be removed again.
func (s *Subscription) AddFunc(fn func() error) Disposable {
	td := Cleanup(fn)
	s.Add(td)
	return td
}

// Remove drops the first registered occurrence of td without running it.
// Removing a child *Subscription also clears its parent back-reference.
func (s *Subscription) Remove(td Disposable) {
	if td == nil {
		return
	}

	s.mu.Lock()
	if i := slices.Index(s.teardowns, td); i != -1 {
		s.teardowns = slices.Delete(s.teardowns, i, i+1)
	}
	s.mu.Unlock()

	if child, ok := td.(*Subscription); ok && child != s {
		child.removeParent(s)
	}
}

// addParent records p as a parent of s. It reports false when s is
// already closed or p is already registered.
func (s *Subscription) addParent(p *Subscription) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return false
	}

	switch {
	case s.parent == p || slices.Contains(s.parents, p):
		return false
	case s.parent == nil && s.parents == nil:
		s.parent = p
	case s.parent != nil:
		s.parents = []*Subscription{s.parent, p}
		s.parent = nil
	default:
		s.parents = append(s.parents, p)
	}

	return true
}

func (s *Subscription) removeParent(p *Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.parent == p {
		s.parent = nil
		return
	}

	if i := slices.Index(s.parents, p); i != -1 {
		s.parents = slices.Delete(s.parents, i, i+1)
	}
}
