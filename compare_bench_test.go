package obs_test

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/AnatoleLucet/obs"
)

// ─────────────────────────────────────────────────────────────────────────────
// 1. Tree teardown: build a width³ tree of cancellation handles, tear down root
// ─────────────────────────────────────────────────────────────────────────────

func BenchmarkTreeDispose_Obs(b *testing.B) {
	for _, width := range []int{2, 8} {
		b.Run(fmt.Sprintf("width=%d", width), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				root := obs.NewSubscription(nil)
				grow(root, width, 3)
				_ = root.Dispose()
			}
		})
	}
}

func BenchmarkTreeDispose_Context(b *testing.B) {
	for _, width := range []int{2, 8} {
		b.Run(fmt.Sprintf("width=%d", width), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				root, cancel := context.WithCancel(context.Background())

				var cancels []context.CancelFunc
				growCtx(root, width, 3, &cancels)

				cancel()
			}
		})
	}
}

func grow(parent *obs.Subscription, width, depth int) {
	if depth == 0 {
		return
	}

	for range width {
		child := obs.NewSubscription(nil)
		parent.Add(child)
		grow(child, width, depth-1)
	}
}

func growCtx(parent context.Context, width, depth int, cancels *[]context.CancelFunc) {
	if depth == 0 {
		return
	}

	for range width {
		ctx, cancel := context.WithCancel(parent)
		*cancels = append(*cancels, cancel)
		growCtx(ctx, width, depth-1, cancels)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// 2. Cancellation fan-out: unblock N waiting goroutines
// ─────────────────────────────────────────────────────────────────────────────

var errStop = errors.New("stop")

func BenchmarkCancelFanOut_Obs(b *testing.B) {
	for _, n := range []int{10, 100} {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				sub := obs.NewSubscription(nil)
				done := sub.Done()

				var wg sync.WaitGroup
				for range n {
					wg.Go(func() {
						<-done
					})
				}

				_ = sub.Dispose()
				wg.Wait()
			}
		})
	}
}

func BenchmarkCancelFanOut_Context(b *testing.B) {
	for _, n := range []int{10, 100} {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				ctx, cancel := context.WithCancel(context.Background())

				var wg sync.WaitGroup
				for range n {
					wg.Go(func() {
						<-ctx.Done()
					})
				}

				cancel()
				wg.Wait()
			}
		})
	}
}

func BenchmarkCancelFanOut_Errgroup(b *testing.B) {
	for _, n := range []int{10, 100} {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				g, ctx := errgroup.WithContext(context.Background())
				for range n {
					g.Go(func() error {
						<-ctx.Done()
						return nil
					})
				}

				g.Go(func() error { return errStop })
				_ = g.Wait()
			}
		})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// 3. Delivery: push n values through a fresh subscription
// ─────────────────────────────────────────────────────────────────────────────

var benchSink int

func BenchmarkDeliver_Stream(b *testing.B) {
	for _, n := range []int{16, 1024} {
		stream := obs.MustFrom[int](make([]int, n))

		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				sum := 0
				stream.Subscribe(obs.Observer[int]{
					Next: func(v int) { sum += v },
				})
				benchSink = sum
			}
		})
	}
}

func BenchmarkDeliver_StreamSeq(b *testing.B) {
	for _, n := range []int{16, 1024} {
		stream := obs.MustFrom[int](slices.Values(make([]int, n)))

		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				sum := 0
				stream.Subscribe(obs.Observer[int]{
					Next: func(v int) { sum += v },
				})
				benchSink = sum
			}
		})
	}
}

func BenchmarkDeliver_Native(b *testing.B) {
	for _, n := range []int{16, 1024} {
		values := make([]int, n)

		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				sum := 0
				for _, v := range values {
					sum += v
				}
				benchSink = sum
			}
		})
	}
}
