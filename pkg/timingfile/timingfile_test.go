package timingfile

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oisee/gbtiming/pkg/timing"
)

// builtinSheet returns the canonical sheet text for the builtin table.
func builtinSheet(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	if err := Write(&buf, timing.Builtin()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return buf.String()
}

// TestRoundTrip verifies Parse(Write(t)) == t and Write is stable.
func TestRoundTrip(t *testing.T) {
	sheet := builtinSheet(t)

	tbl, err := Parse(strings.NewReader(sheet))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !tbl.Equal(timing.Builtin()) {
		t.Fatal("parsed sheet differs from builtin table")
	}

	var again bytes.Buffer
	if err := Write(&again, tbl); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if again.String() != sheet {
		t.Fatal("Write is not stable across a round trip")
	}
}

// TestWriteShape verifies the canonical layout.
func TestWriteShape(t *testing.T) {
	lines := strings.Split(strings.TrimSuffix(builtinSheet(t), "\n"), "\n")
	if len(lines) != 2*Rows+1 {
		t.Fatalf("got %d lines, want %d", len(lines), 2*Rows+1)
	}
	if lines[Rows] != "" {
		t.Fatalf("line %d should be the blank separator, got %q", Rows+1, lines[Rows])
	}
	if lines[0] != "4 12 8 8 4 4 8 4 20 8 8 8 4 4 8 4" {
		t.Errorf("first row: got %q", lines[0])
	}
}

// TestParseTolerance verifies comments and extra blank lines are accepted.
func TestParseTolerance(t *testing.T) {
	lines := strings.Split(builtinSheet(t), "\n")

	var b strings.Builder
	b.WriteString("# LR35902 cycle costs\n\n\n")
	for i, l := range lines {
		if i == 3 {
			b.WriteString("# comment inside a block\n")
		}
		if i == Rows {
			b.WriteString("\n   \n")
		}
		b.WriteString("  " + strings.ReplaceAll(l, " ", "\t") + "  \n")
	}
	b.WriteString("\n\n")

	tbl, err := Parse(strings.NewReader(b.String()))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !tbl.Equal(timing.Builtin()) {
		t.Fatal("parsed sheet differs from builtin table")
	}
}

// TestParseErrors verifies each malformed sheet class is rejected.
func TestParseErrors(t *testing.T) {
	lines := strings.Split(strings.TrimSuffix(builtinSheet(t), "\n"), "\n")
	taken := lines[:Rows]
	notTaken := lines[Rows+1:]

	join := func(parts ...[]string) string {
		var all []string
		for _, p := range parts {
			all = append(all, p...)
		}
		return strings.Join(all, "\n") + "\n"
	}
	replace := func(block []string, i int, s string) []string {
		c := append([]string(nil), block...)
		c[i] = s
		return c
	}

	tests := []struct {
		name  string
		sheet string
		want  error
	}{
		{"empty", "", ErrBlocks},
		{"one block", join(taken), ErrBlocks},
		{"three blocks", join(taken, []string{""}, notTaken, []string{""}, taken), ErrBlocks},
		{"no separator", join(taken, notTaken), ErrSeparator},
		{"short first block", join(taken[:15], []string{""}, notTaken), ErrRows},
		{"short second block", join(taken, []string{""}, notTaken[:10]), ErrRows},
		{"short row", join(replace(taken, 4, "4 4 4 4"), []string{""}, notTaken), ErrColumns},
		{"long row", join(taken, []string{""}, replace(notTaken, 0, notTaken[0]+" 4")), ErrColumns},
		{"word", join(replace(taken, 0, "4 12 8 8 4 4 8 4 twenty 8 8 8 4 4 8 4"), []string{""}, notTaken), ErrValue},
		{"negative", join(taken, []string{""}, replace(notTaken, 1, "-4 12 8 8 4 4 8 4 12 8 8 8 4 4 8 4")), ErrValue},
		{"hex", join(replace(taken, 0, "0x4 12 8 8 4 4 8 4 20 8 8 8 4 4 8 4"), []string{""}, notTaken), ErrValue},
		{"zero entry", join(replace(taken, 0, "0 12 8 8 4 4 8 4 20 8 8 8 4 4 8 4"), []string{""}, replace(notTaken, 0, "0 12 8 8 4 4 8 4 20 8 8 8 4 4 8 4")), timing.ErrZeroEntry},
		{"blocks diverge", join(replace(taken, 0, "8 12 8 8 4 4 8 4 20 8 8 8 4 4 8 4"), []string{""}, notTaken), timing.ErrBranchMismatch},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tbl, err := Parse(strings.NewReader(tc.sheet))
			if !errors.Is(err, tc.want) {
				t.Fatalf("got error %v, want %v", err, tc.want)
			}
			if tbl != nil {
				t.Fatal("Parse should not return a table on error")
			}
		})
	}
}

// TestParseFile verifies reading from disk and path context in errors.
func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.txt")
	if err := os.WriteFile(good, []byte(builtinSheet(t)), 0o644); err != nil {
		t.Fatal(err)
	}
	tbl, err := ParseFile(good)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if !tbl.Equal(timing.Builtin()) {
		t.Fatal("parsed file differs from builtin table")
	}

	bad := filepath.Join(dir, "bad.txt")
	if err := os.WriteFile(bad, []byte("4 4 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = ParseFile(bad)
	if !errors.Is(err, ErrColumns) {
		t.Fatalf("got error %v, want %v", err, ErrColumns)
	}
	if !strings.Contains(err.Error(), "bad.txt") {
		t.Errorf("error should name the file: %v", err)
	}

	if _, err := ParseFile(filepath.Join(dir, "missing.txt")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
