// Package timingfile reads and writes the text sheet that cycle tables are
// authored in.
//
// A sheet holds two blocks of 16 rows. Each row has 16 whitespace separated
// decimal cycle counts for the opcodes starting at a 0x10 aligned boundary.
// The first block is the cost when an instruction's condition was met, the
// second block the cost when it was not. Blocks are separated by one or more
// blank lines. Lines starting with '#' are ignored.
//
// A malformed sheet is always an error. There is no sensible default for a
// missing cycle count.
package timingfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/oisee/gbtiming/pkg/timing"
)

// Sheet shape.
const (
	Rows    = 16
	Columns = 16
	Blocks  = 2
)

// Parse failures.
var (
	ErrColumns   = errors.New("wrong number of values in row")
	ErrRows      = errors.New("wrong number of rows in block")
	ErrValue     = errors.New("invalid cycle count")
	ErrSeparator = errors.New("missing blank line between blocks")
	ErrBlocks    = errors.New("wrong number of blocks")
)

// Parse reads a sheet and returns the validated table it describes.
func Parse(r io.Reader) (*timing.Table, error) {
	var blocks [Blocks][256]timing.Cycles

	block := 0
	row := 0
	blank := true // a block may start on the first line
	line := 0

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(text, "#") {
			continue
		}

		if text == "" {
			if row > 0 && row < Rows {
				return nil, fmt.Errorf("%w: block %d has %d rows, want %d [line %d]", ErrRows, block+1, row, Rows, line)
			}
			blank = true
			continue
		}

		// start of the next block
		if row == Rows {
			if !blank {
				return nil, fmt.Errorf("%w [line %d]", ErrSeparator, line)
			}
			block++
			row = 0
		}
		if block >= Blocks {
			return nil, fmt.Errorf("%w: more than %d [line %d]", ErrBlocks, Blocks, line)
		}
		blank = false

		fields := strings.Fields(text)
		if len(fields) != Columns {
			return nil, fmt.Errorf("%w: got %d, want %d [line %d]", ErrColumns, len(fields), Columns, line)
		}
		for col, f := range fields {
			n, err := strconv.ParseUint(f, 10, 16)
			if err != nil {
				return nil, fmt.Errorf("%w: %q for opcode 0x%02X [line %d]", ErrValue, f, row*Columns+col, line)
			}
			blocks[block][row*Columns+col] = timing.Cycles(n)
		}
		row++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("timingfile: %w", err)
	}

	if row < Rows {
		if row == 0 && block == 0 {
			return nil, fmt.Errorf("%w: got 0, want %d", ErrBlocks, Blocks)
		}
		return nil, fmt.Errorf("%w: block %d has %d rows, want %d", ErrRows, block+1, row, Rows)
	}
	if block != Blocks-1 {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrBlocks, block+1, Blocks)
	}

	t, err := timing.NewTable(blocks[0], blocks[1])
	if err != nil {
		return nil, fmt.Errorf("timingfile: %w", err)
	}
	return t, nil
}

// ParseFile reads the sheet at path.
func ParseFile(path string) (*timing.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("timingfile: %w", err)
	}
	defer f.Close()

	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Write emits the canonical sheet for a table. Parse(Write(t)) equals t.
func Write(w io.Writer, t *timing.Table) error {
	taken, notTaken := t.Arrays()
	bw := bufio.NewWriter(w)
	for b, tbl := range [Blocks]*[256]timing.Cycles{&taken, &notTaken} {
		if b > 0 {
			bw.WriteByte('\n')
		}
		for row := 0; row < Rows; row++ {
			for col := 0; col < Columns; col++ {
				if col > 0 {
					bw.WriteByte(' ')
				}
				bw.WriteString(strconv.FormatUint(uint64(tbl[row*Columns+col]), 10))
			}
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}
