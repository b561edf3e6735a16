// Package testutil holds test helpers shared across packages: a corpus
// builder for writing script test corpora and a stepping clock for
// deterministic ledger timestamps.
package testutil
