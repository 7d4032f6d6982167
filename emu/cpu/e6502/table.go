/*
 * PCE - 6502 opcode table
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package e6502

// Addressing modes.
const (
	modeImp = iota // Implied.
	modeAcc        // Accumulator.
	modeImm        // #nn
	modeZp         // nn
	modeZpx        // nn,X
	modeZpy        // nn,Y
	modeAbs        // nnnn
	modeAbx        // nnnn,X
	modeAby        // nnnn,Y
	modeInd        // (nnnn)
	modeIzx        // (nn,X)
	modeIzy        // (nn),Y
	modeRel        // Branch offset.
)

// Bytes following the opcode for each mode.
var modeLen = [...]uint32{
	modeImp: 0, modeAcc: 0, modeImm: 1, modeZp: 1, modeZpx: 1, modeZpy: 1,
	modeAbs: 2, modeAbx: 2, modeAby: 2, modeInd: 2, modeIzx: 1, modeIzy: 1, modeRel: 1,
}

// Compute effective address of current instruction.
func (c *CPU) address() {
	c.crossed = false
	switch c.mode {
	case modeImm:
		c.ea = c.pc
		c.pc++
	case modeZp:
		c.ea = uint16(c.fetch())
	case modeZpx:
		c.ea = uint16(c.fetch() + c.x)
	case modeZpy:
		c.ea = uint16(c.fetch() + c.y)
	case modeAbs:
		c.ea = c.fetch16()
	case modeAbx:
		c.indexed(c.fetch16(), c.x)
	case modeAby:
		c.indexed(c.fetch16(), c.y)
	case modeInd:
		c.ea = c.read16Page(c.fetch16())
	case modeIzx:
		c.ea = c.read16Page(uint16(c.fetch() + c.x))
	case modeIzy:
		c.indexed(c.read16Page(uint16(c.fetch())), c.y)
	case modeRel:
		off := int8(c.fetch())
		c.ea = c.pc + uint16(off)
		c.crossed = (c.pc^c.ea)&0xff00 != 0
	}
}

func (c *CPU) indexed(base uint16, index uint8) {
	c.ea = base + uint16(index)
	c.crossed = (base^c.ea)&0xff00 != 0
}

func (c *CPU) createTable() {
	type op struct {
		code  uint8
		name  string
		mode  int
		cyc   uint64
		cross bool
		fn    func()
	}
	ops := []op{
		{0x00, "BRK", modeImp, 7, false, c.opBrk},
		{0x01, "ORA", modeIzx, 6, false, c.opOra},
		{0x03, "*SLO", modeIzx, 8, false, c.undefined},
		{0x04, "*NOP", modeZp, 3, false, c.undefined},
		{0x05, "ORA", modeZp, 3, false, c.opOra},
		{0x06, "ASL", modeZp, 5, false, c.opAsl},
		{0x07, "*SLO", modeZp, 5, false, c.undefined},
		{0x08, "PHP", modeImp, 3, false, c.opPhp},
		{0x09, "ORA", modeImm, 2, false, c.opOra},
		{0x0a, "ASL", modeAcc, 2, false, c.opAsl},
		{0x0b, "*ANC", modeImm, 2, false, c.undefined},
		{0x0c, "*NOP", modeAbs, 4, false, c.undefined},
		{0x0d, "ORA", modeAbs, 4, false, c.opOra},
		{0x0e, "ASL", modeAbs, 6, false, c.opAsl},
		{0x0f, "*SLO", modeAbs, 6, false, c.undefined},
		{0x10, "BPL", modeRel, 2, false, c.branch(flagN, false)},
		{0x11, "ORA", modeIzy, 5, true, c.opOra},
		{0x13, "*SLO", modeIzy, 8, false, c.undefined},
		{0x14, "*NOP", modeZpx, 4, false, c.undefined},
		{0x15, "ORA", modeZpx, 4, false, c.opOra},
		{0x16, "ASL", modeZpx, 6, false, c.opAsl},
		{0x17, "*SLO", modeZpx, 6, false, c.undefined},
		{0x18, "CLC", modeImp, 2, false, c.flag(flagC, false)},
		{0x19, "ORA", modeAby, 4, true, c.opOra},
		{0x1a, "*NOP", modeImp, 2, false, c.undefined},
		{0x1b, "*SLO", modeAby, 7, false, c.undefined},
		{0x1c, "*NOP", modeAbx, 4, true, c.undefined},
		{0x1d, "ORA", modeAbx, 4, true, c.opOra},
		{0x1e, "ASL", modeAbx, 7, false, c.opAsl},
		{0x1f, "*SLO", modeAbx, 7, false, c.undefined},
		{0x20, "JSR", modeAbs, 6, false, c.opJsr},
		{0x21, "AND", modeIzx, 6, false, c.opAnd},
		{0x23, "*RLA", modeIzx, 8, false, c.undefined},
		{0x24, "BIT", modeZp, 3, false, c.opBit},
		{0x25, "AND", modeZp, 3, false, c.opAnd},
		{0x26, "ROL", modeZp, 5, false, c.opRol},
		{0x27, "*RLA", modeZp, 5, false, c.undefined},
		{0x28, "PLP", modeImp, 4, false, c.opPlp},
		{0x29, "AND", modeImm, 2, false, c.opAnd},
		{0x2a, "ROL", modeAcc, 2, false, c.opRol},
		{0x2b, "*ANC", modeImm, 2, false, c.undefined},
		{0x2c, "BIT", modeAbs, 4, false, c.opBit},
		{0x2d, "AND", modeAbs, 4, false, c.opAnd},
		{0x2e, "ROL", modeAbs, 6, false, c.opRol},
		{0x2f, "*RLA", modeAbs, 6, false, c.undefined},
		{0x30, "BMI", modeRel, 2, false, c.branch(flagN, true)},
		{0x31, "AND", modeIzy, 5, true, c.opAnd},
		{0x33, "*RLA", modeIzy, 8, false, c.undefined},
		{0x34, "*NOP", modeZpx, 4, false, c.undefined},
		{0x35, "AND", modeZpx, 4, false, c.opAnd},
		{0x36, "ROL", modeZpx, 6, false, c.opRol},
		{0x37, "*RLA", modeZpx, 6, false, c.undefined},
		{0x38, "SEC", modeImp, 2, false, c.flag(flagC, true)},
		{0x39, "AND", modeAby, 4, true, c.opAnd},
		{0x3a, "*NOP", modeImp, 2, false, c.undefined},
		{0x3b, "*RLA", modeAby, 7, false, c.undefined},
		{0x3c, "*NOP", modeAbx, 4, true, c.undefined},
		{0x3d, "AND", modeAbx, 4, true, c.opAnd},
		{0x3e, "ROL", modeAbx, 7, false, c.opRol},
		{0x3f, "*RLA", modeAbx, 7, false, c.undefined},
		{0x40, "RTI", modeImp, 6, false, c.opRti},
		{0x41, "EOR", modeIzx, 6, false, c.opEor},
		{0x43, "*SRE", modeIzx, 8, false, c.undefined},
		{0x44, "*NOP", modeZp, 3, false, c.undefined},
		{0x45, "EOR", modeZp, 3, false, c.opEor},
		{0x46, "LSR", modeZp, 5, false, c.opLsr},
		{0x47, "*SRE", modeZp, 5, false, c.undefined},
		{0x48, "PHA", modeImp, 3, false, c.opPha},
		{0x49, "EOR", modeImm, 2, false, c.opEor},
		{0x4a, "LSR", modeAcc, 2, false, c.opLsr},
		{0x4b, "*ALR", modeImm, 2, false, c.undefined},
		{0x4c, "JMP", modeAbs, 3, false, c.opJmp},
		{0x4d, "EOR", modeAbs, 4, false, c.opEor},
		{0x4e, "LSR", modeAbs, 6, false, c.opLsr},
		{0x4f, "*SRE", modeAbs, 6, false, c.undefined},
		{0x50, "BVC", modeRel, 2, false, c.branch(flagV, false)},
		{0x51, "EOR", modeIzy, 5, true, c.opEor},
		{0x53, "*SRE", modeIzy, 8, false, c.undefined},
		{0x54, "*NOP", modeZpx, 4, false, c.undefined},
		{0x55, "EOR", modeZpx, 4, false, c.opEor},
		{0x56, "LSR", modeZpx, 6, false, c.opLsr},
		{0x57, "*SRE", modeZpx, 6, false, c.undefined},
		{0x58, "CLI", modeImp, 2, false, c.flag(flagI, false)},
		{0x59, "EOR", modeAby, 4, true, c.opEor},
		{0x5a, "*NOP", modeImp, 2, false, c.undefined},
		{0x5b, "*SRE", modeAby, 7, false, c.undefined},
		{0x5c, "*NOP", modeAbx, 4, true, c.undefined},
		{0x5d, "EOR", modeAbx, 4, true, c.opEor},
		{0x5e, "LSR", modeAbx, 7, false, c.opLsr},
		{0x5f, "*SRE", modeAbx, 7, false, c.undefined},
		{0x60, "RTS", modeImp, 6, false, c.opRts},
		{0x61, "ADC", modeIzx, 6, false, c.opAdc},
		{0x63, "*RRA", modeIzx, 8, false, c.undefined},
		{0x64, "*NOP", modeZp, 3, false, c.undefined},
		{0x65, "ADC", modeZp, 3, false, c.opAdc},
		{0x66, "ROR", modeZp, 5, false, c.opRor},
		{0x67, "*RRA", modeZp, 5, false, c.undefined},
		{0x68, "PLA", modeImp, 4, false, c.opPla},
		{0x69, "ADC", modeImm, 2, false, c.opAdc},
		{0x6a, "ROR", modeAcc, 2, false, c.opRor},
		{0x6b, "*ARR", modeImm, 2, false, c.undefined},
		{0x6c, "JMP", modeInd, 5, false, c.opJmp},
		{0x6d, "ADC", modeAbs, 4, false, c.opAdc},
		{0x6e, "ROR", modeAbs, 6, false, c.opRor},
		{0x6f, "*RRA", modeAbs, 6, false, c.undefined},
		{0x70, "BVS", modeRel, 2, false, c.branch(flagV, true)},
		{0x71, "ADC", modeIzy, 5, true, c.opAdc},
		{0x73, "*RRA", modeIzy, 8, false, c.undefined},
		{0x74, "*NOP", modeZpx, 4, false, c.undefined},
		{0x75, "ADC", modeZpx, 4, false, c.opAdc},
		{0x76, "ROR", modeZpx, 6, false, c.opRor},
		{0x77, "*RRA", modeZpx, 6, false, c.undefined},
		{0x78, "SEI", modeImp, 2, false, c.flag(flagI, true)},
		{0x79, "ADC", modeAby, 4, true, c.opAdc},
		{0x7a, "*NOP", modeImp, 2, false, c.undefined},
		{0x7b, "*RRA", modeAby, 7, false, c.undefined},
		{0x7c, "*NOP", modeAbx, 4, true, c.undefined},
		{0x7d, "ADC", modeAbx, 4, true, c.opAdc},
		{0x7e, "ROR", modeAbx, 7, false, c.opRor},
		{0x7f, "*RRA", modeAbx, 7, false, c.undefined},
		{0x80, "*NOP", modeImm, 2, false, c.undefined},
		{0x81, "STA", modeIzx, 6, false, c.store(&c.a)},
		{0x82, "*NOP", modeImm, 2, false, c.undefined},
		{0x83, "*SAX", modeIzx, 6, false, c.undefined},
		{0x84, "STY", modeZp, 3, false, c.store(&c.y)},
		{0x85, "STA", modeZp, 3, false, c.store(&c.a)},
		{0x86, "STX", modeZp, 3, false, c.store(&c.x)},
		{0x87, "*SAX", modeZp, 3, false, c.undefined},
		{0x88, "DEY", modeImp, 2, false, c.step(&c.y, 0xff)},
		{0x89, "*NOP", modeImm, 2, false, c.undefined},
		{0x8a, "TXA", modeImp, 2, false, c.transfer(&c.x, &c.a)},
		{0x8b, "*XAA", modeImm, 2, false, c.undefined},
		{0x8c, "STY", modeAbs, 4, false, c.store(&c.y)},
		{0x8d, "STA", modeAbs, 4, false, c.store(&c.a)},
		{0x8e, "STX", modeAbs, 4, false, c.store(&c.x)},
		{0x8f, "*SAX", modeAbs, 4, false, c.undefined},
		{0x90, "BCC", modeRel, 2, false, c.branch(flagC, false)},
		{0x91, "STA", modeIzy, 6, false, c.store(&c.a)},
		{0x93, "*AHX", modeIzy, 6, false, c.undefined},
		{0x94, "STY", modeZpx, 4, false, c.store(&c.y)},
		{0x95, "STA", modeZpx, 4, false, c.store(&c.a)},
		{0x96, "STX", modeZpy, 4, false, c.store(&c.x)},
		{0x97, "*SAX", modeZpy, 4, false, c.undefined},
		{0x98, "TYA", modeImp, 2, false, c.transfer(&c.y, &c.a)},
		{0x99, "STA", modeAby, 5, false, c.store(&c.a)},
		{0x9a, "TXS", modeImp, 2, false, c.opTxs},
		{0x9b, "*TAS", modeAby, 5, false, c.undefined},
		{0x9c, "*SHY", modeAbx, 5, false, c.undefined},
		{0x9d, "STA", modeAbx, 5, false, c.store(&c.a)},
		{0x9e, "*SHX", modeAby, 5, false, c.undefined},
		{0x9f, "*AHX", modeAby, 5, false, c.undefined},
		{0xa0, "LDY", modeImm, 2, false, c.load(&c.y)},
		{0xa1, "LDA", modeIzx, 6, false, c.load(&c.a)},
		{0xa2, "LDX", modeImm, 2, false, c.load(&c.x)},
		{0xa3, "*LAX", modeIzx, 6, false, c.undefined},
		{0xa4, "LDY", modeZp, 3, false, c.load(&c.y)},
		{0xa5, "LDA", modeZp, 3, false, c.load(&c.a)},
		{0xa6, "LDX", modeZp, 3, false, c.load(&c.x)},
		{0xa7, "*LAX", modeZp, 3, false, c.undefined},
		{0xa8, "TAY", modeImp, 2, false, c.transfer(&c.a, &c.y)},
		{0xa9, "LDA", modeImm, 2, false, c.load(&c.a)},
		{0xaa, "TAX", modeImp, 2, false, c.transfer(&c.a, &c.x)},
		{0xab, "*LAX", modeImm, 2, false, c.undefined},
		{0xac, "LDY", modeAbs, 4, false, c.load(&c.y)},
		{0xad, "LDA", modeAbs, 4, false, c.load(&c.a)},
		{0xae, "LDX", modeAbs, 4, false, c.load(&c.x)},
		{0xaf, "*LAX", modeAbs, 4, false, c.undefined},
		{0xb0, "BCS", modeRel, 2, false, c.branch(flagC, true)},
		{0xb1, "LDA", modeIzy, 5, true, c.load(&c.a)},
		{0xb3, "*LAX", modeIzy, 5, true, c.undefined},
		{0xb4, "LDY", modeZpx, 4, false, c.load(&c.y)},
		{0xb5, "LDA", modeZpx, 4, false, c.load(&c.a)},
		{0xb6, "LDX", modeZpy, 4, false, c.load(&c.x)},
		{0xb7, "*LAX", modeZpy, 4, false, c.undefined},
		{0xb8, "CLV", modeImp, 2, false, c.flag(flagV, false)},
		{0xb9, "LDA", modeAby, 4, true, c.load(&c.a)},
		{0xba, "TSX", modeImp, 2, false, c.transfer(&c.s, &c.x)},
		{0xbb, "*LAS", modeAby, 4, true, c.undefined},
		{0xbc, "LDY", modeAbx, 4, true, c.load(&c.y)},
		{0xbd, "LDA", modeAbx, 4, true, c.load(&c.a)},
		{0xbe, "LDX", modeAby, 4, true, c.load(&c.x)},
		{0xbf, "*LAX", modeAby, 4, true, c.undefined},
		{0xc0, "CPY", modeImm, 2, false, c.compare(&c.y)},
		{0xc1, "CMP", modeIzx, 6, false, c.compare(&c.a)},
		{0xc2, "*NOP", modeImm, 2, false, c.undefined},
		{0xc3, "*DCP", modeIzx, 8, false, c.undefined},
		{0xc4, "CPY", modeZp, 3, false, c.compare(&c.y)},
		{0xc5, "CMP", modeZp, 3, false, c.compare(&c.a)},
		{0xc6, "DEC", modeZp, 5, false, c.opDec},
		{0xc7, "*DCP", modeZp, 5, false, c.undefined},
		{0xc8, "INY", modeImp, 2, false, c.step(&c.y, 1)},
		{0xc9, "CMP", modeImm, 2, false, c.compare(&c.a)},
		{0xca, "DEX", modeImp, 2, false, c.step(&c.x, 0xff)},
		{0xcb, "*AXS", modeImm, 2, false, c.undefined},
		{0xcc, "CPY", modeAbs, 4, false, c.compare(&c.y)},
		{0xcd, "CMP", modeAbs, 4, false, c.compare(&c.a)},
		{0xce, "DEC", modeAbs, 6, false, c.opDec},
		{0xcf, "*DCP", modeAbs, 6, false, c.undefined},
		{0xd0, "BNE", modeRel, 2, false, c.branch(flagZ, false)},
		{0xd1, "CMP", modeIzy, 5, true, c.compare(&c.a)},
		{0xd3, "*DCP", modeIzy, 8, false, c.undefined},
		{0xd4, "*NOP", modeZpx, 4, false, c.undefined},
		{0xd5, "CMP", modeZpx, 4, false, c.compare(&c.a)},
		{0xd6, "DEC", modeZpx, 6, false, c.opDec},
		{0xd7, "*DCP", modeZpx, 6, false, c.undefined},
		{0xd8, "CLD", modeImp, 2, false, c.flag(flagD, false)},
		{0xd9, "CMP", modeAby, 4, true, c.compare(&c.a)},
		{0xda, "*NOP", modeImp, 2, false, c.undefined},
		{0xdb, "*DCP", modeAby, 7, false, c.undefined},
		{0xdc, "*NOP", modeAbx, 4, true, c.undefined},
		{0xdd, "CMP", modeAbx, 4, true, c.compare(&c.a)},
		{0xde, "DEC", modeAbx, 7, false, c.opDec},
		{0xdf, "*DCP", modeAbx, 7, false, c.undefined},
		{0xe0, "CPX", modeImm, 2, false, c.compare(&c.x)},
		{0xe1, "SBC", modeIzx, 6, false, c.opSbc},
		{0xe2, "*NOP", modeImm, 2, false, c.undefined},
		{0xe3, "*ISC", modeIzx, 8, false, c.undefined},
		{0xe4, "CPX", modeZp, 3, false, c.compare(&c.x)},
		{0xe5, "SBC", modeZp, 3, false, c.opSbc},
		{0xe6, "INC", modeZp, 5, false, c.opInc},
		{0xe7, "*ISC", modeZp, 5, false, c.undefined},
		{0xe8, "INX", modeImp, 2, false, c.step(&c.x, 1)},
		{0xe9, "SBC", modeImm, 2, false, c.opSbc},
		{0xea, "NOP", modeImp, 2, false, c.opNop},
		{0xeb, "*SBC", modeImm, 2, false, c.undefined},
		{0xec, "CPX", modeAbs, 4, false, c.compare(&c.x)},
		{0xed, "SBC", modeAbs, 4, false, c.opSbc},
		{0xee, "INC", modeAbs, 6, false, c.opInc},
		{0xef, "*ISC", modeAbs, 6, false, c.undefined},
		{0xf0, "BEQ", modeRel, 2, false, c.branch(flagZ, true)},
		{0xf1, "SBC", modeIzy, 5, true, c.opSbc},
		{0xf3, "*ISC", modeIzy, 8, false, c.undefined},
		{0xf4, "*NOP", modeZpx, 4, false, c.undefined},
		{0xf5, "SBC", modeZpx, 4, false, c.opSbc},
		{0xf6, "INC", modeZpx, 6, false, c.opInc},
		{0xf7, "*ISC", modeZpx, 6, false, c.undefined},
		{0xf8, "SED", modeImp, 2, false, c.flag(flagD, true)},
		{0xf9, "SBC", modeAby, 4, true, c.opSbc},
		{0xfa, "*NOP", modeImp, 2, false, c.undefined},
		{0xfb, "*ISC", modeAby, 7, false, c.undefined},
		{0xfc, "*NOP", modeAbx, 4, true, c.undefined},
		{0xfd, "SBC", modeAbx, 4, true, c.opSbc},
		{0xfe, "INC", modeAbx, 7, false, c.opInc},
		{0xff, "*ISC", modeAbx, 7, false, c.undefined},
	}

	// The remaining twelve opcodes are JAMs.
	for i := range c.table {
		c.table[i] = opEntry{name: "*JAM", mode: modeImp, cyc: 2, fn: c.opJam}
	}
	for _, o := range ops {
		c.table[o.code] = opEntry{name: o.name, mode: o.mode, cyc: o.cyc, cross: o.cross, fn: o.fn}
	}
}
