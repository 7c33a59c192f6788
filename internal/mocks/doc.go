// Package mocks provides hand-written mock implementations of the
// application's interfaces for use in tests. Mocks use function fields
// for custom behavior with sensible fallbacks, so tests override only
// what they assert on.
package mocks
