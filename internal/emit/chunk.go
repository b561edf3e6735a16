package emit

import (
	"errors"
	"fmt"

	"github.com/roach88/scriptvec/internal/ir"
)

// DefaultChunkSize bounds the number of vectors per emitted table.
const DefaultChunkSize = 100

// ErrChunkSize is returned for a non-positive chunk size.
var ErrChunkSize = errors.New("chunk size must be positive")

// Chunk splits vectors into contiguous chunks of at most size vectors.
// The chunks share the backing array of vectors.
func Chunk(vectors []ir.CompiledVector, size int) ([][]ir.CompiledVector, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrChunkSize, size)
	}
	chunks := make([][]ir.CompiledVector, 0, (len(vectors)+size-1)/size)
	for start := 0; start < len(vectors); start += size {
		end := min(start+size, len(vectors))
		chunks = append(chunks, vectors[start:end:end])
	}
	return chunks, nil
}

// ChunkName is the C++ identifier of chunk i.
func ChunkName(i int) string {
	return fmt.Sprintf("script_tests_from_json_%d", i)
}
