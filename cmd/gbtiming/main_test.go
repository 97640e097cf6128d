package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oisee/gbtiming/pkg/result"
)

const sheetPath = "../../pkg/timing/opcode_timings.txt"

// run executes the command line and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// TestLookup verifies the printed costs.
func TestLookup(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"lookup", "00"}, "00     NOP: 4 cycles\n"},
		{[]string{"lookup", "20"}, "20     JR NZ, e: 12 cycles taken, 8 not taken\n"},
		{[]string{"lookup", "0xC4"}, "C4     CALL NZ, nn: 24 cycles taken, 12 not taken\n"},
		{[]string{"lookup", "CB", "06"}, "CB 06  RLC (HL): 16 cycles\n"},
		{[]string{"lookup", "cb", "7Ch"}, "CB 7C  BIT 7, H: 8 cycles\n"},
		{[]string{"lookup", "--taken", "20"}, "12\n"},
		{[]string{"lookup", "--taken=false", "20"}, "8\n"},
		{[]string{"lookup", "-t", "CB", "0E"}, "16\n"},
	}
	for _, tc := range tests {
		t.Run(strings.Join(tc.args, " "), func(t *testing.T) {
			got, err := run(t, tc.args...)
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Errorf("got %q want %q", got, tc.want)
			}
		})
	}

	if _, err := run(t, "lookup", "100"); err == nil {
		t.Error("expected an error for an out of range opcode")
	}
}

// TestGenMatchesBuiltin verifies gen reproduces the checked-in table.
func TestGenMatchesBuiltin(t *testing.T) {
	got, err := run(t, "gen", sheetPath)
	if err != nil {
		t.Fatal(err)
	}
	want, err := os.ReadFile("../../pkg/timing/builtin_gen.go")
	if err != nil {
		t.Fatal(err)
	}
	if got != string(want) {
		t.Fatal("gen output differs from pkg/timing/builtin_gen.go")
	}

	// writing to a file gives the same bytes
	out := filepath.Join(t.TempDir(), "table_gen.go")
	if _, err := run(t, "gen", "--output", out, sheetPath); err != nil {
		t.Fatal(err)
	}
	written, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(written, want) {
		t.Fatal("gen --output differs from stdout form")
	}
}

// TestVerify verifies sheet validation and comparison with the builtin table.
func TestVerify(t *testing.T) {
	got, err := run(t, "verify", sheetPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "OK (16 conditional opcodes)") {
		t.Errorf("unexpected output %q", got)
	}

	orig, err := os.ReadFile(sheetPath)
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()

	// valid but different: LD BC, nn at 16 cycles in both blocks
	changed := filepath.Join(dir, "changed.txt")
	lines := strings.Split(string(orig), "\n")
	lines[0] = strings.Replace(lines[0], "4 12", "4 16", 1)
	lines[17] = strings.Replace(lines[17], "4 12", "4 16", 1)
	if err := os.WriteFile(changed, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "verify", changed); err == nil {
		t.Error("expected an error for a sheet that differs from the builtin table")
	}
	if _, err := run(t, "verify", "--against-builtin=false", changed); err != nil {
		t.Errorf("valid sheet should verify on its own: %v", err)
	}

	// malformed
	broken := filepath.Join(dir, "broken.txt")
	if err := os.WriteFile(broken, orig[:len(orig)/2], 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "verify", "--against-builtin=false", broken); err == nil {
		t.Error("expected an error for a truncated sheet")
	}
}

// TestDump verifies each output format.
func TestDump(t *testing.T) {
	text, err := run(t, "dump")
	if err != nil {
		t.Fatal(err)
	}
	want, err := os.ReadFile(sheetPath)
	if err != nil {
		t.Fatal(err)
	}
	if text != string(want) {
		t.Error("dump text differs from opcode_timings.txt")
	}

	js, err := run(t, "dump", "-f", "json")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(js, `"notTaken": [`) {
		t.Errorf("json output missing notTaken: %.60s", js)
	}

	list, err := run(t, "dump", "-f", "list", "--cb")
	if err != nil {
		t.Fatal(err)
	}
	rows := strings.Split(strings.TrimSuffix(list, "\n"), "\n")
	if len(rows) != 512 {
		t.Fatalf("list: got %d rows, want 512", len(rows))
	}
	if !strings.HasSuffix(rows[0x20], "12/8") {
		t.Errorf("list row 0x20: %q", rows[0x20])
	}
	if !strings.HasSuffix(rows[256+0x06], "16") {
		t.Errorf("list row CB 06: %q", rows[256+0x06])
	}

	if _, err := run(t, "dump", "-f", "yaml"); err == nil {
		t.Error("expected an error for an unknown format")
	}
}

// TestTrace verifies trace costing and JSON output.
func TestTrace(t *testing.T) {
	out := filepath.Join(t.TempDir(), "costs.json")
	got, err := run(t, "trace", "--workers", "2", "--output", out,
		"../../pkg/trace/testdata/boot.trace", "../../pkg/trace/testdata/loop.trace")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "total 120 cycles") {
		t.Errorf("unexpected output %q", got)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	entries, err := result.ReadJSON(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].Name != "boot.trace" || entries[0].Cycles != 80 {
		t.Errorf("unexpected entries %+v", entries)
	}
}

// TestParseByte verifies accepted hex spellings.
func TestParseByte(t *testing.T) {
	tests := []struct {
		in   string
		want uint8
	}{
		{"00", 0x00},
		{"cb", 0xCB},
		{"CB", 0xCB},
		{"0x20", 0x20},
		{"0XfF", 0xFF},
		{"7Ch", 0x7C},
		{"0FFh", 0xFF},
	}
	for _, tc := range tests {
		got, err := parseByte(tc.in)
		if err != nil {
			t.Errorf("parseByte(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("parseByte(%q): got 0x%02X want 0x%02X", tc.in, got, tc.want)
		}
	}
	for _, bad := range []string{"", "x", "100", "0x"} {
		if _, err := parseByte(bad); err == nil {
			t.Errorf("parseByte(%q) should fail", bad)
		}
	}
}
