package obs

// Kind discriminates the messages a producer can emit.
type Kind uint8

const (
	// KindNext carries one element of the sequence.
	KindNext Kind = iota

	// KindError terminates the sequence with a failure.
	KindError

	// KindComplete terminates the sequence successfully.
	KindComplete
)

func (k Kind) String() string {
	switch k {
	case KindNext:
		return "next"
	case KindError:
		return "error"
	case KindComplete:
		return "complete"
	}

	return "unknown"
}

// Terminal reports whether the kind ends the sequence.
func (k Kind) Terminal() bool {
	return k == KindError || k == KindComplete
}

// Notification is a single protocol message. A producer delivers any
// number of next messages followed by at most one terminal; nothing may
// follow a terminal.
type Notification[T any] struct {
	Kind  Kind
	Value T     // set for next
	Err   error // set for error
}

// Next builds a next message carrying v.
func Next[T any](v T) Notification[T] {
	return Notification[T]{Kind: KindNext, Value: v}
}

// Error builds the failure terminal.
func Error[T any](err error) Notification[T] {
	return Notification[T]{Kind: KindError, Err: err}
}

// Complete builds the success terminal.
func Complete[T any]() Notification[T] {
	return Notification[T]{Kind: KindComplete}
}

// Sink receives protocol messages from a producer. The subscription that
// initiated the transfer always travels with the message.
type Sink[T any] func(n Notification[T], sub *Subscription)

// Source produces a sequence of messages when invoked. Calling the
// source is the subscribe itself: it must honor sub's closed state and
// never emit past a terminal.
type Source[T any] func(sink Sink[T], sub *Subscription)
