package emit

import (
	"fmt"
	"io"

	"github.com/roach88/scriptvec/internal/compiler"
	"github.com/roach88/scriptvec/internal/ir"
)

// WriteJSON writes the canonical JSON fixture: identical compilations
// produce identical bytes.
func WriteJSON(w io.Writer, res *compiler.Result, opts Options) error {
	opts = opts.withDefaults()
	chunks, err := Chunk(res.Vectors, opts.ChunkSize)
	if err != nil {
		return err
	}

	index := make([]string, len(chunks))
	chunkObjs := make([]any, len(chunks))
	for i, chunk := range chunks {
		index[i] = ChunkName(i)
		vectors := make([]any, len(chunk))
		for j, v := range chunk {
			vectors[j] = ir.VectorObject(v)
		}
		chunkObjs[i] = vectors
	}

	doc := map[string]any{
		"version":          ir.FixtureVersion,
		"compiler_version": ir.CompilerVersion,
		"source":           opts.Source,
		"chunk_size":       opts.ChunkSize,
		"total":            len(res.Vectors),
		"index":            index,
		"chunks":           chunkObjs,
		"report":           reportObject(res.Report),
		"skipped":          skippedObjects(res.Report),
	}
	data, err := ir.MarshalCanonical(doc)
	if err != nil {
		return fmt.Errorf("encoding fixture: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func reportObject(r *compiler.Report) map[string]any {
	if r == nil {
		r = &compiler.Report{}
	}
	diags := make([]any, len(r.Diagnostics))
	for i, d := range r.Diagnostics {
		diags[i] = map[string]any{
			"kind":    string(d.Kind),
			"row":     d.Row,
			"message": d.Message,
		}
	}
	return map[string]any{
		"rows":        r.Rows,
		"processed":   r.Processed,
		"excluded":    r.Excluded,
		"overridden":  r.Overridden,
		"clean":       r.Clean(),
		"diagnostics": diags,
	}
}

func skippedObjects(r *compiler.Report) []any {
	if r == nil {
		return []any{}
	}
	out := make([]any, len(r.Skipped))
	for i, s := range r.Skipped {
		obj := map[string]any{
			"row":            s.Row,
			"script_sig":     s.ScriptSig,
			"script_pub_key": s.ScriptPubKey,
			"reason":         s.Reason,
		}
		if s.KeyFork != "" {
			obj["key_fork"] = s.KeyFork
		}
		out[i] = obj
	}
	return out
}
