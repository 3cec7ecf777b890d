package obs

import "sync/atomic"

// Stream is a lazily-evaluated sequence of values. Each Subscribe call
// runs the underlying source from the start.
//
// The zero value is an empty stream that completes immediately.
type Stream[T any] struct {
	source Source[T]
}

// Wrap lifts a raw source into a Stream.
func Wrap[T any](source Source[T]) Stream[T] {
	return Stream[T]{source: source}
}

// Source returns the underlying protocol function.
func (s Stream[T]) Source() Source[T] {
	return s.source
}

// Observer receives the decoded messages of one subscription. Nil
// callbacks drop the corresponding message.
type Observer[T any] struct {
	Next     func(T)
	Error    func(error)
	Complete func()
}

// Subscribe runs the source against o and returns the subscription
// controlling the transfer. At most one terminal callback is delivered,
// nothing is delivered after it or after the subscription is disposed,
// and the subscription disposes itself right after the terminal.
//
// If the calling goroutine has a current scope (see Run), the returned
// subscription is added to it.
func (s Stream[T]) Subscribe(o Observer[T]) *Subscription {
	sub := NewSubscription(nil)

	if scope := Current(); scope != nil {
		scope.Add(sub)
	}

	sink := guard(o)

	// a nil source has nothing to produce. a subscription killed by a
	// closed scope must not start the producer at all.
	if s.source == nil || sub.Closed() {
		sink(Complete[T](), sub)
		return sub
	}

	// a panic in the synchronous part of the source becomes the
	// failure terminal
	func() {
		defer func() {
			if r := recover(); r != nil {
				sink(Error[T](newPanicError(r)), sub)
			}
		}()

		s.source(sink, sub)
	}()

	return sub
}

// guard routes raw messages to the observer while enforcing the
// delivery contract: drop everything after close or a terminal, latch
// the terminal exactly once, then dispose the subscription.
func guard[T any](o Observer[T]) Sink[T] {
	var terminated atomic.Bool

	return func(n Notification[T], sub *Subscription) {
		if n.Kind == KindNext {
			if terminated.Load() || sub.Closed() {
				return
			}

			if o.Next != nil {
				o.Next(n.Value)
			}
			return
		}

		if sub.Closed() || !terminated.CompareAndSwap(false, true) {
			return
		}

		switch n.Kind {
		case KindError:
			if o.Error != nil {
				o.Error(n.Err)
			}
		case KindComplete:
			if o.Complete != nil {
				o.Complete()
			}
		}

		// the sequence is over, release whatever the producer attached.
		// teardown failures have no caller to flow to here.
		sub.Dispose()
	}
}
