package inst

import "strings"

// Catalog maps each unprefixed opcode to its Info.
var Catalog [256]Info

// CBCatalog maps each CB-prefixed opcode to its Info.
var CBCatalog [256]Info

// AllOps returns every opcode value (for enumeration).
func AllOps() []uint8 {
	ops := make([]uint8, 256)
	for i := range ops {
		ops[i] = uint8(i)
	}
	return ops
}

// operandLength returns the number of operand bytes implied by a mnemonic's
// placeholders: "nn" is a 16-bit immediate, "n" or "e" an 8-bit one.
func operandLength(mnemonic string) int {
	fields := strings.FieldsFunc(mnemonic, func(r rune) bool {
		return r == ' ' || r == ',' || r == '(' || r == ')' || r == '+'
	})
	for _, f := range fields[1:] {
		switch f {
		case "nn":
			return 2
		case "n", "e":
			return 1
		}
	}
	return 0
}

func appendHex8(buf []byte, v uint8) []byte {
	const hex = "0123456789ABCDEF"
	if v >= 0xA0 {
		buf = append(buf, '0')
	}
	buf = append(buf, hex[v>>4], hex[v&0x0F], 'h')
	return buf
}

func init() {
	// Explicit entries for the irregular blocks 0x00-0x3F and 0xC0-0xFF.
	// An empty string marks an illegal encoding.
	irregular := map[uint8]string{
		0x00: "NOP", 0x01: "LD BC, nn", 0x02: "LD (BC), A", 0x03: "INC BC",
		0x04: "INC B", 0x05: "DEC B", 0x06: "LD B, n", 0x07: "RLCA",
		0x08: "LD (nn), SP", 0x09: "ADD HL, BC", 0x0A: "LD A, (BC)", 0x0B: "DEC BC",
		0x0C: "INC C", 0x0D: "DEC C", 0x0E: "LD C, n", 0x0F: "RRCA",

		0x10: "STOP n", 0x11: "LD DE, nn", 0x12: "LD (DE), A", 0x13: "INC DE",
		0x14: "INC D", 0x15: "DEC D", 0x16: "LD D, n", 0x17: "RLA",
		0x18: "JR e", 0x19: "ADD HL, DE", 0x1A: "LD A, (DE)", 0x1B: "DEC DE",
		0x1C: "INC E", 0x1D: "DEC E", 0x1E: "LD E, n", 0x1F: "RRA",

		0x20: "JR NZ, e", 0x21: "LD HL, nn", 0x22: "LD (HL+), A", 0x23: "INC HL",
		0x24: "INC H", 0x25: "DEC H", 0x26: "LD H, n", 0x27: "DAA",
		0x28: "JR Z, e", 0x29: "ADD HL, HL", 0x2A: "LD A, (HL+)", 0x2B: "DEC HL",
		0x2C: "INC L", 0x2D: "DEC L", 0x2E: "LD L, n", 0x2F: "CPL",

		0x30: "JR NC, e", 0x31: "LD SP, nn", 0x32: "LD (HL-), A", 0x33: "INC SP",
		0x34: "INC (HL)", 0x35: "DEC (HL)", 0x36: "LD (HL), n", 0x37: "SCF",
		0x38: "JR C, e", 0x39: "ADD HL, SP", 0x3A: "LD A, (HL-)", 0x3B: "DEC SP",
		0x3C: "INC A", 0x3D: "DEC A", 0x3E: "LD A, n", 0x3F: "CCF",

		0xC0: "RET NZ", 0xC1: "POP BC", 0xC2: "JP NZ, nn", 0xC3: "JP nn",
		0xC4: "CALL NZ, nn", 0xC5: "PUSH BC", 0xC6: "ADD A, n", 0xC7: "RST 00h",
		0xC8: "RET Z", 0xC9: "RET", 0xCA: "JP Z, nn", 0xCB: "PREFIX CB",
		0xCC: "CALL Z, nn", 0xCD: "CALL nn", 0xCE: "ADC A, n", 0xCF: "RST 08h",

		0xD0: "RET NC", 0xD1: "POP DE", 0xD2: "JP NC, nn", 0xD3: "",
		0xD4: "CALL NC, nn", 0xD5: "PUSH DE", 0xD6: "SUB n", 0xD7: "RST 10h",
		0xD8: "RET C", 0xD9: "RETI", 0xDA: "JP C, nn", 0xDB: "",
		0xDC: "CALL C, nn", 0xDD: "", 0xDE: "SBC A, n", 0xDF: "RST 18h",

		0xE0: "LDH (n), A", 0xE1: "POP HL", 0xE2: "LD (C), A", 0xE3: "",
		0xE4: "", 0xE5: "PUSH HL", 0xE6: "AND n", 0xE7: "RST 20h",
		0xE8: "ADD SP, e", 0xE9: "JP HL", 0xEA: "LD (nn), A", 0xEB: "",
		0xEC: "", 0xED: "", 0xEE: "XOR n", 0xEF: "RST 28h",

		0xF0: "LDH A, (n)", 0xF1: "POP AF", 0xF2: "LD A, (C)", 0xF3: "DI",
		0xF4: "", 0xF5: "PUSH AF", 0xF6: "OR n", 0xF7: "RST 30h",
		0xF8: "LD HL, SP+e", 0xF9: "LD SP, HL", 0xFA: "LD A, (nn)", 0xFB: "EI",
		0xFC: "", 0xFD: "", 0xFE: "CP n", 0xFF: "RST 38h",
	}
	for op, mnemonic := range irregular {
		if mnemonic == "" {
			Catalog[op] = Info{
				Mnemonic: string(appendHex8([]byte("DB "), op)),
				Length:   1,
				Illegal:  true,
			}
			continue
		}
		Catalog[op] = Info{Mnemonic: mnemonic, Length: 1 + operandLength(mnemonic)}
	}

	// Conditional flow: JR cc, JP cc, CALL cc, RET cc for NZ, Z, NC, C
	for _, op := range []uint8{
		0x20, 0x28, 0x30, 0x38, // JR cc, e
		0xC0, 0xC8, 0xD0, 0xD8, // RET cc
		0xC2, 0xCA, 0xD2, 0xDA, // JP cc, nn
		0xC4, 0xCC, 0xD4, 0xDC, // CALL cc, nn
	} {
		Catalog[op].Conditional = true
	}

	// LD r, r': 01 ddd sss, except 0x76 which is HALT
	for dst := 0; dst < 8; dst++ {
		for src := 0; src < 8; src++ {
			op := 0x40 | uint8(dst<<3) | uint8(src)
			if dst == indirectHL && src == indirectHL {
				Catalog[op] = Info{Mnemonic: "HALT", Length: 1}
				continue
			}
			Catalog[op] = Info{Mnemonic: "LD " + regNames[dst] + ", " + regNames[src], Length: 1}
		}
	}

	// ALU A, r: 10 ooo sss
	aluNames := [8]string{"ADD A, ", "ADC A, ", "SUB ", "SBC A, ", "AND ", "XOR ", "OR ", "CP "}
	for alu := 0; alu < 8; alu++ {
		for src := 0; src < 8; src++ {
			op := 0x80 | uint8(alu<<3) | uint8(src)
			Catalog[op] = Info{Mnemonic: aluNames[alu] + regNames[src], Length: 1}
		}
	}

	// CB-prefix rotate/shift: CB [00 ooo rrr]
	rotNames := [8]string{"RLC", "RRC", "RL", "RR", "SLA", "SRA", "SWAP", "SRL"}
	for rot := 0; rot < 8; rot++ {
		for ri := 0; ri < 8; ri++ {
			enc := uint8(rot<<3) | uint8(ri)
			CBCatalog[enc] = Info{Mnemonic: rotNames[rot] + " " + regNames[ri], Length: 2}
		}
	}

	// BIT/RES/SET n, r: CB [01|10|11 bbb rrr] where bbb=bit number
	bitNames := [3]string{"BIT", "RES", "SET"}
	for group := 0; group < 3; group++ {
		for bit := 0; bit < 8; bit++ {
			for ri := 0; ri < 8; ri++ {
				enc := uint8((group+1)<<6) | uint8(bit<<3) | uint8(ri)
				CBCatalog[enc] = Info{
					Mnemonic: bitNames[group] + " " + string('0'+byte(bit)) + ", " + regNames[ri],
					Length:   2,
				}
			}
		}
	}
}
