// Package emit serializes compiled vectors into fixture artifacts: a C++
// header for the execution-test harness, the arrays-only body spliced into
// an existing header, and a canonical JSON fixture.
//
// Emitters never reorder or rewrite vectors. Chunks are contiguous slices
// of the compiled order.
package emit
