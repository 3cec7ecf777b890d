package obs_test

import (
	"fmt"

	"github.com/AnatoleLucet/obs"
)

func ExampleFrom() {
	stream := obs.MustFrom[int]([]int{1, 2, 3})

	stream.Subscribe(obs.Observer[int]{
		Next:     func(v int) { fmt.Println("next", v) },
		Complete: func() { fmt.Println("done") },
	})

	// Output:
	// next 1
	// next 2
	// next 3
	// done
}

func ExampleWrap() {
	clock := obs.Wrap(func(sink obs.Sink[string], sub *obs.Subscription) {
		sink(obs.Next("tick"), sub)
		sink(obs.Next("tock"), sub)
		sink(obs.Complete[string](), sub)
	})

	clock.Subscribe(obs.Observer[string]{
		Next: func(v string) { fmt.Println(v) },
	})

	// Output:
	// tick
	// tock
}

func ExampleSubscription_Add() {
	parent := obs.NewSubscription(nil)

	child := obs.NewSubscription(nil)
	child.AddFunc(func() error {
		fmt.Println("child cleaned up")
		return nil
	})

	parent.Add(child)
	parent.Dispose()

	fmt.Println(child.Closed())

	// Output:
	// child cleaned up
	// true
}

func ExampleSubscription_Run() {
	scope := obs.NewSubscription(nil)

	scope.Run(func() {
		obs.MustFrom[int]([]int{1, 2}).Subscribe(obs.Observer[int]{
			Next: func(v int) { fmt.Println("got", v) },
		})

		obs.OnCleanup(func() error {
			fmt.Println("scope closed")
			return nil
		})
	})

	scope.Dispose()

	// Output:
	// got 1
	// got 2
	// scope closed
}
