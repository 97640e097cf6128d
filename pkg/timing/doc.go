// Package timing resolves the cycle cost of every LR35902 instruction.
//
// The unprefixed opcode space is costed from two 256-entry tables, one for
// the case where an instruction's condition was met and one for when it was
// not. Instructions without a condition carry the same cost in both. The
// CB-prefixed space follows a fixed rule: 8 cycles, or 16 when the operand is
// (HL).
//
// The tables are authored in opcode_timings.txt and compiled into
// builtin_gen.go by the gbtiming tool. The builtin table is validated when
// the package is initialised, so lookups never observe a partial or zeroed
// table. Tables are immutable and safe for concurrent use.
package timing

//go:generate go run ../../cmd/gbtiming gen --package timing --output builtin_gen.go opcode_timings.txt
