// Package codegen emits Go source for a cycle table so that it can be
// compiled into a binary as constant data.
package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"go/token"

	"github.com/oisee/gbtiming/pkg/timing"
)

const timingImport = "github.com/oisee/gbtiming/pkg/timing"

// Options controls the emitted file.
type Options struct {
	Package string // Go package of the emitted file
	Var     string // Name of the emitted variable (or prefix of the two arrays)
	Source  string // Sheet name recorded in the generated-code header
}

// DefaultOptions returns the options that produce the builtin table of the
// timing package.
func DefaultOptions() Options {
	return Options{
		Package: "timing",
		Var:     "builtin",
		Source:  "opcode_timings.txt",
	}
}

// Source returns a gofmt'd Go file declaring t. Emitted into package timing
// it declares a Table value; emitted anywhere else it declares two
// [256]timing.Cycles arrays, <Var>Taken and <Var>NotTaken, for passing to
// timing.NewTable. Output is a pure function of t and opts.
func Source(t *timing.Table, opts Options) ([]byte, error) {
	if !token.IsIdentifier(opts.Package) {
		return nil, fmt.Errorf("codegen: invalid package name %q", opts.Package)
	}
	if !token.IsIdentifier(opts.Var) {
		return nil, fmt.Errorf("codegen: invalid variable name %q", opts.Var)
	}

	taken, notTaken := t.Arrays()

	var b bytes.Buffer
	if opts.Source != "" {
		fmt.Fprintf(&b, "// Code generated by gbtiming gen from %s; DO NOT EDIT.\n\n", opts.Source)
	} else {
		b.WriteString("// Code generated by gbtiming gen; DO NOT EDIT.\n\n")
	}
	fmt.Fprintf(&b, "package %s\n\n", opts.Package)

	if opts.Package == "timing" {
		fmt.Fprintf(&b, "var %s = Table{\n", opts.Var)
		writeArray(&b, "taken: [256]Cycles{", "},", &taken)
		writeArray(&b, "notTaken: [256]Cycles{", "},", &notTaken)
		b.WriteString("}\n")
	} else {
		fmt.Fprintf(&b, "import %q\n\n", timingImport)
		writeArray(&b, fmt.Sprintf("var %sTaken = [256]timing.Cycles{", opts.Var), "}\n", &taken)
		writeArray(&b, fmt.Sprintf("var %sNotTaken = [256]timing.Cycles{", opts.Var), "}", &notTaken)
	}

	out, err := format.Source(b.Bytes())
	if err != nil {
		return nil, fmt.Errorf("codegen: formatting generated source: %w", err)
	}
	return out, nil
}

// writeArray writes one 256 entry literal as 16 rows, each preceded by the
// opcode of its first column.
func writeArray(b *bytes.Buffer, head, tail string, tbl *[256]timing.Cycles) {
	b.WriteString(head)
	b.WriteByte('\n')
	for row := 0; row < 16; row++ {
		fmt.Fprintf(b, "// 0x%02X\n", row*16)
		for col := 0; col < 16; col++ {
			if col > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(b, "%d,", tbl[row*16+col])
		}
		b.WriteByte('\n')
	}
	b.WriteString(tail)
	b.WriteByte('\n')
}
