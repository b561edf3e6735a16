// Package override holds the side table of per-vector overrides and skip
// entries.
//
// The table is built once through a fallible Builder, which rejects
// ambiguous specifications, and is read-only afterwards. Skip entries are
// keyed by the script pair alone; override entries are keyed by the script
// pair, optionally narrowed to one flags string.
package override
