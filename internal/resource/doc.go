// Package resource accounts for heap memory held by matrix generations.
//
// A Budget is a non-blocking byte quota. Callers reserve before allocating
// and release after dropping the allocation; a reservation that would
// exceed the limit fails immediately with ErrMemoryLimitExceeded. A nil
// *Budget accepts everything.
package resource
