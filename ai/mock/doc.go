// Package mock provides test doubles for the ai package interfaces.
//
// The mock embedder produces deterministic vectors derived from a hash of the
// input text, with a configurable native dimension so tests can exercise the
// adapter's pad and truncate paths.
package mock
