// Package ir provides the typed representation shared by every stage of the
// script test-vector compiler.
//
// This package contains type definitions and serialization only. All other
// internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - ForkRule is a totally ordered enumeration; higher ranks imply lower ranks
//   - OutcomeCode is a closed enumeration with an explicit OutcomeUnknown variant
//   - All JSON tags use snake_case
//   - Canonical JSON (RFC 8785) is the only encoding used for content IDs
package ir
