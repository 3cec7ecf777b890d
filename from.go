package obs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
)

// ErrUnconvertible is returned by From when the input matches none of
// the supported producer shapes.
var ErrUnconvertible = errors.New("obs: value cannot be converted to a stream")

// ErrBadObservable is delivered as the failure terminal when an interop
// value hands out a nil observable.
var ErrBadObservable = errors.New("obs: interop value returned a nil observable")

// Thenable is a deferred single value. Then arranges for exactly one of
// the two callbacks to fire once the value settles.
type Thenable[T any] interface {
	Then(onResolve func(T), onReject func(error))
}

// Observable is the subscribe side of a foreign push stream. The return
// value is an opaque cancellation handle; Disposable implementations,
// Unsubscribe/Cancel/Stop methods and plain funcs are all recognized.
type Observable[T any] interface {
	Subscribe(o Observer[T]) any
}

// InteropObservable marks a value that can expose itself as an
// Observable. This method is the conversion hook From looks for.
type InteropObservable[T any] interface {
	AsObservable() Observable[T]
}

// Iterator is an async pull sequence. Next blocks until an element is
// available and returns io.EOF once the sequence is exhausted. Next
// should honor ctx, which is canceled when the subscription is disposed.
type Iterator[T any] interface {
	Next(ctx context.Context) (T, error)
}

// From builds a Stream from any supported producer shape. Inputs are
// classified in a fixed order, first match wins:
//
//  1. Stream[T], Source[T] and raw source funcs pass through
//  2. Thenable[T]
//  3. []T
//  4. iter.Seq[T]
//  5. InteropObservable[T]
//  6. Iterator[T]
//  7. channels of T
//  8. func(context.Context) (T, error), a deferred computation
//
// Anything else reports ErrUnconvertible.
func From[T any](v any) (Stream[T], error) {
	switch src := v.(type) {
	case Stream[T]:
		return src, nil
	case Source[T]:
		return Wrap(src), nil
	case func(Sink[T], *Subscription):
		return Wrap(Source[T](src)), nil
	case Thenable[T]:
		return Wrap(fromThenable(src)), nil
	case []T:
		return Wrap(fromSlice(src)), nil
	case iter.Seq[T]:
		return Wrap(fromSeq(src)), nil
	case func(func(T) bool):
		return Wrap(fromSeq(iter.Seq[T](src))), nil
	case InteropObservable[T]:
		return Wrap(fromInterop(src)), nil
	case Iterator[T]:
		return Wrap(fromIterator(src)), nil
	case <-chan T:
		return Wrap(fromChan(src)), nil
	case chan T:
		return Wrap(fromChan((<-chan T)(src))), nil
	case func(context.Context) (T, error):
		return Wrap(fromFunc(src)), nil
	}

	return Stream[T]{}, fmt.Errorf("%w: %T", ErrUnconvertible, v)
}

// MustFrom is From for statically known inputs; it panics instead of
// returning ErrUnconvertible.
func MustFrom[T any](v any) Stream[T] {
	s, err := From[T](v)
	if err != nil {
		panic(err)
	}

	return s
}

func fromThenable[T any](t Thenable[T]) Source[T] {
	return func(sink Sink[T], sub *Subscription) {
		t.Then(
			func(v T) {
				if sub.Closed() {
					return
				}

				sink(Next(v), sub)
				sink(Complete[T](), sub)
			},
			func(err error) {
				if sub.Closed() {
					return
				}

				sink(Error[T](err), sub)
			},
		)
	}
}

func fromSlice[T any](items []T) Source[T] {
	return func(sink Sink[T], sub *Subscription) {
		for _, item := range items {
			if sub.Closed() {
				return
			}

			sink(Next(item), sub)
		}

		if sub.Closed() {
			return
		}

		sink(Complete[T](), sub)
	}
}

func fromSeq[T any](seq iter.Seq[T]) Source[T] {
	return func(sink Sink[T], sub *Subscription) {
		next, stop := iter.Pull(seq)
		defer stop()

		for {
			// cancellation is checked before every pull so an
			// infinite sequence can be walked away from
			if sub.Closed() {
				return
			}

			v, ok := next()
			if !ok {
				sink(Complete[T](), sub)
				return
			}

			sink(Next(v), sub)
		}
	}
}

func fromInterop[T any](in InteropObservable[T]) Source[T] {
	return func(sink Sink[T], sub *Subscription) {
		observable := in.AsObservable()
		if observable == nil {
			sink(Error[T](ErrBadObservable), sub)
			return
		}

		handle := observable.Subscribe(Observer[T]{
			Next:     func(v T) { sink(Next(v), sub) },
			Error:    func(err error) { sink(Error[T](err), sub) },
			Complete: func() { sink(Complete[T](), sub) },
		})

		// if the foreign stream finished synchronously the
		// subscription is closed by now and Add cancels right away
		if td := cancelHandle(handle); td != nil {
			sub.Add(td)
		}
	}
}

// cancelHandle adapts whatever a foreign Subscribe returned into a
// teardown. Handles without a recognized cancel capability are ignored.
func cancelHandle(h any) Disposable {
	switch h := h.(type) {
	case nil:
		return nil
	case Disposable:
		return h
	case interface{ Unsubscribe() }:
		return Cleanup(func() error { h.Unsubscribe(); return nil })
	case interface{ Cancel() }:
		return Cleanup(func() error { h.Cancel(); return nil })
	case interface{ Stop() }:
		return Cleanup(func() error { h.Stop(); return nil })
	case func() error:
		return Cleanup(h)
	case func():
		return Cleanup(func() error { h(); return nil })
	}

	return nil
}

func fromIterator[T any](it Iterator[T]) Source[T] {
	return func(sink Sink[T], sub *Subscription) {
		ctx, cancel := context.WithCancel(context.Background())
		sub.Add(Cleanup(func() error {
			cancel()
			return nil
		}))

		go func() {
			defer cancel()

			for {
				// checked before every pull, a disposed
				// subscription must not keep draining the iterator
				if sub.Closed() {
					return
				}

				v, err := pull(ctx, it.Next)
				switch {
				case err == nil:
					sink(Next(v), sub)
				case errors.Is(err, io.EOF):
					sink(Complete[T](), sub)
					return
				default:
					sink(Error[T](err), sub)
					return
				}
			}
		}()
	}
}

func fromChan[T any](ch <-chan T) Source[T] {
	return func(sink Sink[T], sub *Subscription) {
		done := sub.Done()

		go func() {
			for {
				select {
				case v, ok := <-ch:
					if !ok {
						sink(Complete[T](), sub)
						return
					}

					sink(Next(v), sub)
				case <-done:
					return
				}
			}
		}()
	}
}

func fromFunc[T any](fn func(context.Context) (T, error)) Source[T] {
	return func(sink Sink[T], sub *Subscription) {
		ctx, cancel := context.WithCancel(context.Background())
		sub.Add(Cleanup(func() error {
			cancel()
			return nil
		}))

		go func() {
			defer cancel()

			v, err := pull(ctx, fn)
			if sub.Closed() {
				return
			}

			if err != nil {
				sink(Error[T](err), sub)
				return
			}

			sink(Next(v), sub)
			sink(Complete[T](), sub)
		}()
	}
}

// pull guards a single producer step, converting a panic into an error.
func pull[T any](ctx context.Context, next func(context.Context) (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newPanicError(r)
		}
	}()

	return next(ctx)
}
