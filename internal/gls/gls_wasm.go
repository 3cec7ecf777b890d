//go:build wasm

package gls

// wasm is single-threaded, one global slot is enough

var slot any

func Get() any {
	return slot
}

func Swap(v any) any {
	prev := slot
	slot = v
	return prev
}
