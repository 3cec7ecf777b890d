// Package obs is the execution core of a push-based stream library:
// subscriptions that form a cancellation tree with ordered teardown and
// aggregated disposal errors, a minimal next/error/complete protocol,
// and adapters that turn ordinary Go values (slices, iterators,
// channels, deferred results, foreign streams) into sources speaking
// that protocol.
//
// It deliberately stops below operators: scheduling policy and
// combinators belong to layers built on top.
package obs
