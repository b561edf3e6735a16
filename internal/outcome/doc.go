// Package outcome maps the corpus's expected-outcome labels onto the
// canonical outcome taxonomy and refines generic script failures into
// arithmetic-specific ones.
//
// Mapping is a pure table lookup. Labels the table does not know map to
// ir.OutcomeUnknown and keep the raw label so emitters can surface it.
package outcome
