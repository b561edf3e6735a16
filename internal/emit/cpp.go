package emit

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/roach88/scriptvec/internal/compiler"
	"github.com/roach88/scriptvec/internal/ir"
)

// WriteHeader writes a freestanding C++ header holding every chunk, the
// chunk index, iteration helpers and the compilation report.
func WriteHeader(w io.Writer, res *compiler.Result, opts Options) error {
	opts = opts.withDefaults()
	chunks, err := Chunk(res.Vectors, opts.ChunkSize)
	if err != nil {
		return err
	}

	var b bytes.Buffer
	writePreamble(&b, opts)
	writeChunks(&b, chunks, len(res.Vectors), opts)
	writeIndex(&b, len(chunks))
	b.WriteString(helpers)
	writeAlias(&b, len(chunks))
	writeReport(&b, res.Report)

	_, err = w.Write(b.Bytes())
	return err
}

// WriteArrays writes only the chunk tables and the compilation report, for
// splicing into an existing header that declares everything else.
func WriteArrays(w io.Writer, res *compiler.Result, opts Options) error {
	opts = opts.withDefaults()
	chunks, err := Chunk(res.Vectors, opts.ChunkSize)
	if err != nil {
		return err
	}

	var b bytes.Buffer
	writeChunks(&b, chunks, len(res.Vectors), opts)
	writeReport(&b, res.Report)

	_, err = w.Write(b.Bytes())
	return err
}

func writePreamble(b *bytes.Buffer, opts Options) {
	forkNS, forkName := opts.forkEnumParts()

	fmt.Fprintf(b, "// Auto-generated from %s by scriptvec\n", lineComment(opts.Source))
	b.WriteString("// DO NOT EDIT MANUALLY\n\n")
	b.WriteString("#pragma once\n\n")
	b.WriteString("#include <cstdint>\n#include <iostream>\n#include <string>\n#include <vector>\n\n")
	b.WriteString("// Forward declarations - adjust includes as needed for your project\n")
	fmt.Fprintf(b, "namespace %s {\n    enum %s;\n}\n\n", opts.ErrorNamespace, opts.ErrorEnum)
	if forkNS != "" {
		fmt.Fprintf(b, "namespace %s {\n    enum %s : uint32_t;\n}\n\n", forkNS, forkName)
	} else {
		fmt.Fprintf(b, "enum %s : uint32_t;\n\n", forkName)
	}

	b.WriteString("/**\n * Structure representing a single script test case.\n */\n")
	b.WriteString("struct script_test {\n")
	b.WriteString("    std::string script_sig;         ///< The scriptSig (input script)\n")
	b.WriteString("    std::string script_pub_key;     ///< The scriptPubKey (output script)\n")
	fmt.Fprintf(b, "    uint32_t forks;                 ///< Highest active fork rule (%s)\n", opts.ForkEnum)
	fmt.Fprintf(b, "    %s::%s expected_error; ///< Expected error code\n", opts.ErrorNamespace, opts.ErrorEnum)
	b.WriteString("    std::string comment;            ///< Test description/comment\n")
	b.WriteString("};\n\n")
	b.WriteString("using script_test_list = std::vector<script_test>;\n\n")
}

func writeChunks(b *bytes.Buffer, chunks [][]ir.CompiledVector, total int, opts Options) {
	first := 0
	for i, chunk := range chunks {
		last := min(first+opts.ChunkSize, total) - 1
		fmt.Fprintf(b, "/**\n * Script test chunk %d (tests %d to %d)\n */\n", i, first, last)
		fmt.Fprintf(b, "script_test_list const %s{\n", ChunkName(i))
		for j, v := range chunk {
			b.WriteString(vectorLine(v, j == len(chunk)-1, opts))
			b.WriteByte('\n')
		}
		b.WriteString("};\n\n")
		first += opts.ChunkSize
	}
}

// vectorLine renders one table row. Every row but the last of its chunk
// carries a separating comma before the trailing annotation.
func vectorLine(v ir.CompiledVector, last bool, opts Options) string {
	var b strings.Builder
	fmt.Fprintf(&b, `    {"%s", "%s", %s::%s, %s, "%s"}`,
		cString(v.InputScript),
		cString(v.OutputScript),
		opts.ForkEnum, v.Fork,
		outcomeCell(v, opts),
		cString(v.Comment))
	if !last {
		b.WriteByte(',')
	}
	fmt.Fprintf(&b, " // flags: %s, expected: %s", lineComment(v.OriginalFlags), lineComment(v.OriginalOutcome))
	if len(v.Notes) > 0 {
		b.WriteString(" | ERRORS: ")
		b.WriteString(lineComment(strings.Join(v.Notes, "; ")))
	}
	return b.String()
}

func outcomeCell(v ir.CompiledVector, opts Options) string {
	if v.Outcome == ir.OutcomeUnknown {
		return fmt.Sprintf("/* UNKNOWN_ERROR: %s */ %s::%s",
			blockComment(lineComment(v.UnmappedOutcome)), opts.ErrorNamespace, ir.OutcomeUnknown)
	}
	return fmt.Sprintf("%s::%s", opts.ErrorNamespace, v.Outcome)
}

func writeIndex(b *bytes.Buffer, n int) {
	b.WriteString("/**\n * Array of all test chunks for easy iteration\n */\n")
	b.WriteString("std::vector<script_test_list const*> const all_script_test_chunks{\n")
	for i := 0; i < n; i++ {
		comma := ","
		if i == n-1 {
			comma = ""
		}
		fmt.Fprintf(b, "    &%s%s\n", ChunkName(i), comma)
	}
	b.WriteString("};\n\n")
}

const helpers = `/**
 * Run tests on every chunk with progress output
 */
template<typename TestFunc>
void run_script_tests_chunked(TestFunc test_func) {
    for (size_t chunk_idx = 0; chunk_idx < all_script_test_chunks.size(); ++chunk_idx) {
        std::cout << "Testing chunk " << chunk_idx << " ("
                  << all_script_test_chunks[chunk_idx]->size() << " tests)..." << std::endl;

        for (size_t test_idx = 0; test_idx < all_script_test_chunks[chunk_idx]->size(); ++test_idx) {
            const auto& test = (*all_script_test_chunks[chunk_idx])[test_idx];
            test_func(test, chunk_idx, test_idx);
        }

        std::cout << "Chunk " << chunk_idx << " completed." << std::endl;
    }
}

/**
 * Get total number of tests across all chunks
 */
inline size_t get_total_script_tests_count() {
    size_t total = 0;
    for (const auto* chunk : all_script_test_chunks) {
        total += chunk->size();
    }
    return total;
}

`

func writeAlias(b *bytes.Buffer, n int) {
	b.WriteString("/**\n * Backward compatibility: reference to first chunk\n */\n")
	if n > 0 {
		fmt.Fprintf(b, "script_test_list const& script_tests_from_json = %s;\n\n", ChunkName(0))
	} else {
		b.WriteString("script_test_list const script_tests_from_json{};\n\n")
	}
}

func writeReport(b *bytes.Buffer, r *compiler.Report) {
	if r == nil {
		return
	}
	if len(r.Diagnostics) > 0 {
		b.WriteString("/*\nPARSING ERRORS ENCOUNTERED:\n")
		for _, d := range r.Diagnostics {
			fmt.Fprintf(b, " * %s\n", blockComment(lineComment(d.Message)))
		}
		b.WriteString("*/\n")
	}
	if len(r.Skipped) > 0 {
		b.WriteString("\n/*\nSKIPPED TESTS:\n")
		b.WriteString("The following tests were skipped during generation:\n\n")
		for i, s := range r.Skipped {
			fmt.Fprintf(b, " * Test %d:\n", i+1)
			fmt.Fprintf(b, " *   row: %d\n", s.Row)
			fmt.Fprintf(b, " *   script_sig: \"%s\"\n", blockComment(cString(s.ScriptSig)))
			fmt.Fprintf(b, " *   script_pub_key: \"%s\"\n", blockComment(cString(s.ScriptPubKey)))
			if s.KeyFork != "" {
				fmt.Fprintf(b, " *   key_fork: \"%s\"\n", blockComment(cString(s.KeyFork)))
			}
			fmt.Fprintf(b, " *   reason: %s\n", blockComment(cString(s.Reason)))
			b.WriteString(" *\n")
		}
		b.WriteString("*/\n")
	}
}
