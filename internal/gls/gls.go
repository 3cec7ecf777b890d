//go:build !wasm

// Package gls keeps one slot of goroutine-local state.
package gls

import (
	"sync"

	"github.com/petermattis/goid"
)

var slots sync.Map

// Get returns the calling goroutine's slot value, or nil.
func Get() any {
	v, _ := slots.Load(goid.Get())
	return v
}

// Swap stores v in the calling goroutine's slot and returns the previous
// value. Storing nil clears the slot so finished goroutines don't pile
// up in the map.
func Swap(v any) any {
	gid := goid.Get()

	prev, _ := slots.Load(gid)

	if v == nil {
		slots.Delete(gid)
	} else {
		slots.Store(gid, v)
	}

	return prev
}
