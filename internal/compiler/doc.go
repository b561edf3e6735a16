// Package compiler runs the per-vector pipeline over an ingested corpus.
//
// Each candidate is checked against the skip list, resolved to a fork and
// an outcome, normalized, refined and finally overridden. The stages are
// pure, so vectors may be compiled concurrently; results are always
// returned in corpus order.
package compiler
