package inst

// PrefixCB selects the extended (bit/rotate/shift) opcode space.
const PrefixCB uint8 = 0xCB

// Info holds static metadata for one opcode of the LR35902.
type Info struct {
	Mnemonic    string // Assembly mnemonic with operand placeholders (e.g., "LD B, n")
	Length      int    // Encoded length in bytes, including prefix and operands
	Conditional bool   // Cost depends on whether the condition was met
	Illegal     bool   // Unused encoding; locks up real hardware
}

// register operand order used by both the 0x40-0xBF block and the CB space.
// Index 6 is the indirect (HL) operand.
var regNames = [8]string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}

// indirectHL is the register field that selects the (HL) operand.
const indirectHL = 6

// IsConditional returns true if the unprefixed opcode has a taken and a
// not-taken cost (JR cc, JP cc, CALL cc, RET cc).
func IsConditional(op uint8) bool {
	return Catalog[op].Conditional
}

// IsIllegal returns true if the unprefixed opcode is not a valid instruction.
func IsIllegal(op uint8) bool {
	return Catalog[op].Illegal
}

// ConditionalOps returns all conditional unprefixed opcodes in ascending order.
func ConditionalOps() []uint8 {
	ops := make([]uint8, 0, 16)
	for i := 0; i < 256; i++ {
		if Catalog[i].Conditional {
			ops = append(ops, uint8(i))
		}
	}
	return ops
}

// UsesIndirectHL returns true if the CB-prefixed opcode reads its operand
// through (HL) rather than a register.
func UsesIndirectHL(op uint8) bool {
	return op&0x07 == indirectHL
}

// Lookup returns the catalog entry for an opcode in the space selected by prefix.
func Lookup(prefix, op uint8) *Info {
	if prefix == PrefixCB {
		return &CBCatalog[op]
	}
	return &Catalog[op]
}

// Disassemble returns assembly text for an opcode. Operand placeholders
// are left in place since only the opcode byte is known.
func Disassemble(prefix, op uint8) string {
	return Lookup(prefix, op).Mnemonic
}
