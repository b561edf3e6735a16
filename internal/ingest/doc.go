// Package ingest turns raw corpus rows into candidate test vectors.
//
// A corpus is a JSON array of rows. Each row is an array of strings:
// a single descriptive string (a section comment), or a tuple
//
//	[input_script, output_script, flags, expected_outcome, comment?]
//
// Ingestion never fails on a single bad row. Malformed rows become
// ir.Diagnostic entries and are dropped; only an unreadable corpus is fatal.
package ingest
