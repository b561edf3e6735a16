// Package script rewrites script text from the corpus dialect into the
// dialect the execution-test harness parses.
//
// Normalize is an ordered pipeline of pure text rewrites. Quoted literals
// are masked before the first rewrite and restored after the last one, and
// hex payloads are copied through byte for byte. Only opcode names change
// case.
package script
