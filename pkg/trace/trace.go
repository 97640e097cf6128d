package trace

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

// Clock rates of the DMG.
const (
	CPUFrequency    = 4194304 // cycles per second
	VBlankFrequency = 59.73   // frames per second
)

// ErrSyntax is returned for a trace line that cannot be decoded.
var ErrSyntax = errors.New("invalid trace line")

// Step is one executed instruction: the opcode space, the opcode and
// whether its condition was met.
type Step struct {
	Prefix uint8
	Opcode uint8
	Taken  bool
}

// ParseTrace reads a recorded instruction stream. Each line holds a hex
// prefix ("00" for none, "CB" for the extended space), a hex opcode and an
// optional taken flag ("0" or "1", default 0). Blank lines and lines starting
// with '#' are ignored.
func ParseTrace(r io.Reader) ([]Step, error) {
	var steps []Step
	line := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		if len(fields) < 2 || len(fields) > 3 {
			return nil, fmt.Errorf("%w: want 2 or 3 fields, got %d [line %d]", ErrSyntax, len(fields), line)
		}

		prefix, err := strconv.ParseUint(fields[0], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("%w: prefix %q [line %d]", ErrSyntax, fields[0], line)
		}
		opcode, err := strconv.ParseUint(fields[1], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("%w: opcode %q [line %d]", ErrSyntax, fields[1], line)
		}

		step := Step{Prefix: uint8(prefix), Opcode: uint8(opcode)}
		if len(fields) == 3 {
			switch fields[2] {
			case "0":
			case "1":
				step.Taken = true
			default:
				return nil, fmt.Errorf("%w: taken flag %q [line %d]", ErrSyntax, fields[2], line)
			}
		}
		steps = append(steps, step)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}
	return steps, nil
}

// ParseTraceFile reads the trace at path.
func ParseTraceFile(path string) ([]Step, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}
	defer f.Close()

	steps, err := ParseTrace(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return steps, nil
}

// Cost returns the total cycles of a sequence of steps.
func Cost(t *timing.Table, steps []Step) uint64 {
	var n uint64
	for i := range steps {
		n += uint64(t.Cycles(steps[i].Prefix, steps[i].Opcode, steps[i].Taken))
	}
	return n
}

// Frames converts a cycle count into video frames.
func Frames(cycles uint64) float64 {
	return float64(cycles) * VBlankFrequency / CPUFrequency
}
