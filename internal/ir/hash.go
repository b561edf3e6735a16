package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainVector = "scriptvec/vector/v1"
	DomainCorpus = "scriptvec/corpus/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// VectorID computes the content address of a compiled vector.
// Only the functional fields take part: comment and provenance do not,
// so re-annotating a vector keeps its identity.
func VectorID(v CompiledVector) (string, error) {
	canonical, err := MarshalCanonical(map[string]any{
		"input_script":  v.InputScript,
		"output_script": v.OutputScript,
		"fork":          v.Fork.String(),
		"outcome":       string(v.Outcome),
	})
	if err != nil {
		return "", fmt.Errorf("VectorID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainVector, canonical), nil
}

// CorpusHash computes the content address of raw corpus bytes.
func CorpusHash(data []byte) string {
	return hashWithDomain(DomainCorpus, data)
}

// VectorObject returns the canonical JSON object form of v.
func VectorObject(v CompiledVector) map[string]any {
	obj := map[string]any{
		"id":               v.ID,
		"index":            v.Index,
		"input_script":     v.InputScript,
		"output_script":    v.OutputScript,
		"fork":             v.Fork.String(),
		"outcome":          string(v.Outcome),
		"comment":          v.Comment,
		"original_flags":   v.OriginalFlags,
		"original_outcome": v.OriginalOutcome,
	}
	if v.UnmappedOutcome != "" {
		obj["unmapped_outcome"] = v.UnmappedOutcome
	}
	if len(v.Notes) > 0 {
		obj["notes"] = v.Notes
	}
	return obj
}
