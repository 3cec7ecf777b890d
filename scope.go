package obs

import "github.com/AnatoleLucet/obs/internal/gls"

// Current returns the calling goroutine's innermost running scope, or
// nil when there is none.
func Current() *Subscription {
	s, _ := gls.Get().(*Subscription)
	return s
}

// Run makes s the calling goroutine's current scope for the duration of
// fn. Subscriptions opened by Subscribe inside fn are added to s, so
// disposing s tears them all down. Scopes nest; the previous one is
// restored when fn returns.
//
// The scope is goroutine-local: goroutines started inside fn don't
// inherit it.
func (s *Subscription) Run(fn func()) {
	prev := gls.Swap(s)
	defer gls.Swap(prev)

	fn()
}

// OnCleanup attaches fn to the current scope and returns its handle.
// Without a scope it does nothing and returns nil.
func OnCleanup(fn func() error) Disposable {
	scope := Current()
	if scope == nil {
		return nil
	}

	return scope.AddFunc(fn)
}
