package timing

import "github.com/oisee/gbtiming/pkg/inst"

// Cycles is a count of CPU clock cycles (4194304 per second).
type Cycles uint

// PrefixCB switches decoding to the extended opcode space.
const PrefixCB = inst.PrefixCB

// CB-prefixed costs. The (HL) operand column adds one read/write pair. This
// holds for the LR35902 only and must be re-derived for another CPU.
const (
	cbRegisterCycles = 8
	cbIndirectCycles = 16
	cbIndirectLow    = 0x06
	cbIndirectHigh   = 0x0E
)

// PrefixedCycles returns the cost of a CB-prefixed opcode. No CB opcode has a
// condition so the branch outcome does not apply.
func PrefixedCycles(opcode uint8) Cycles {
	switch opcode & 0x0F {
	case cbIndirectLow, cbIndirectHigh:
		return cbIndirectCycles
	}
	return cbRegisterCycles
}

// Builtin returns the process-wide table compiled from opcode_timings.txt.
func Builtin() *Table {
	return &builtin
}

// OpCycles returns how many cycles an instruction takes. The prefix is
// PrefixCB for the extended space and anything else for the unprefixed space.
// taken reports whether the instruction's condition was met and is ignored
// for instructions that have no condition.
func OpCycles(prefix, opcode uint8, taken bool) Cycles {
	return builtin.Cycles(prefix, opcode, taken)
}

func init() {
	if err := builtin.Validate(); err != nil {
		panic("timing: builtin table is invalid: " + err.Error())
	}
}
