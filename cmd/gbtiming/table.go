package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/oisee/gbtiming/pkg/inst"
	"github.com/oisee/gbtiming/pkg/timing"
	"github.com/oisee/gbtiming/pkg/timingfile"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

// addSheetFlag registers --sheet, which replaces the builtin table.
func addSheetFlag(fs *pflag.FlagSet, sheet *string) {
	fs.StringVarP(sheet, "sheet", "s", "", "Timing sheet to use instead of the builtin table")
}

// loadTable returns the table from sheet, or the builtin table if sheet is empty.
func loadTable(sheet string) (*timing.Table, error) {
	if sheet == "" {
		return timing.Builtin(), nil
	}
	tbl, err := timingfile.ParseFile(sheet)
	if err != nil {
		return nil, err
	}
	log.WithField("sheet", sheet).Debug("using cycle table from sheet")
	return tbl, nil
}

// parseByte parses a hex byte: 20, 0x20, 20h or CB.
func parseByte(s string) (uint8, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty")
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
	} else if strings.HasSuffix(s, "h") || strings.HasSuffix(s, "H") {
		s = s[:len(s)-1]
	}
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid byte %q", s)
	}
	return uint8(v), nil
}

// formatOpcode renders an opcode with its mnemonic, e.g. "CB 7C  BIT 7, H".
func formatOpcode(prefix, op uint8) string {
	if prefix == timing.PrefixCB {
		return fmt.Sprintf("CB %02X  %s", op, inst.Disassemble(prefix, op))
	}
	return fmt.Sprintf("%02X     %s", op, inst.Disassemble(prefix, op))
}

type tableDiff struct {
	op      uint8
	outcome string
	sheet   timing.Cycles
	builtin timing.Cycles
}

// diffTables lists every entry where a differs from b.
func diffTables(a, b *timing.Table) []tableDiff {
	var diffs []tableDiff
	for i := 0; i < 256; i++ {
		op := uint8(i)
		if a.Taken(op) != b.Taken(op) {
			diffs = append(diffs, tableDiff{op, "taken", a.Taken(op), b.Taken(op)})
		}
		if a.NotTaken(op) != b.NotTaken(op) {
			diffs = append(diffs, tableDiff{op, "not-taken", a.NotTaken(op), b.NotTaken(op)})
		}
	}
	if len(diffs) > 0 {
		log.WithFields(logrus.Fields{"entries": len(diffs)}).Debug("tables differ")
	}
	return diffs
}
