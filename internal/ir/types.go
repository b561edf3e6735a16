package ir

// NoFlags is the explicit "no activation flags" sentinel.
const NoFlags = "NONE"

// RawVector is one candidate corpus row after ingestion.
// Index is the 1-based position of the row in the corpus.
type RawVector struct {
	Index           int    `json:"index"`
	InputScript     string `json:"input_script"`
	OutputScript    string `json:"output_script"`
	Flags           string `json:"flags"`
	ExpectedOutcome string `json:"expected_outcome"`
	Comment         string `json:"comment"`
}

// CompiledVector is the output unit of the compiler.
type CompiledVector struct {
	ID           string      `json:"id"`
	Index        int         `json:"index"`
	InputScript  string      `json:"input_script"`
	OutputScript string      `json:"output_script"`
	Fork         ForkRule    `json:"fork"`
	Outcome      OutcomeCode `json:"outcome"`
	Comment      string      `json:"comment"`

	// UnmappedOutcome holds the label that resolved to OutcomeUnknown.
	UnmappedOutcome string `json:"unmapped_outcome,omitempty"`

	// Provenance, emitted as a trailing annotation only.
	OriginalFlags   string   `json:"original_flags"`
	OriginalOutcome string   `json:"original_outcome"`
	Notes           []string `json:"notes,omitempty"`
}

// DiagnosticKind classifies a recoverable compilation problem.
type DiagnosticKind string

const (
	DiagUnknownFlag    DiagnosticKind = "unknown_flag"
	DiagUnknownOutcome DiagnosticKind = "unknown_outcome"
	DiagMalformedRow   DiagnosticKind = "malformed_row"
)

// Diagnostic is one recoverable problem found while compiling.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	Row     int            `json:"row"`
	Message string         `json:"message"`
}

// SkipRecord is a vector dropped by a skip entry.
type SkipRecord struct {
	Row          int    `json:"row"`
	ScriptSig    string `json:"script_sig"`
	ScriptPubKey string `json:"script_pub_key"`
	KeyFork      string `json:"key_fork,omitempty"`
	Reason       string `json:"reason"`
}
