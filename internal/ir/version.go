package ir

// Version constants for the fixture format and the compiler.
const (
	// FixtureVersion is the JSON fixture schema version.
	FixtureVersion = "1"

	// CompilerVersion is the scriptvec compiler version.
	CompilerVersion = "0.1.0"
)
