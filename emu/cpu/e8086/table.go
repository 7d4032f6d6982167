/*
 * PCE - 8086 opcode table
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

package e8086

/*
   Operand layout tokens used by the disassembler:

   Eb Ev   ModRM register or memory operand.
   Gb Gv   ModRM reg field register.
   Sw      ModRM reg field segment register.
   M Mp    ModRM memory operand only.
   Ib Iw Iv Is   Immediate byte, word, operand size, sign extended byte.
   Jb Jv   Relative branch target.
   Ap      Far pointer seg:off.
   Ob Ov   Direct memory address.
   rb rv   Register from the low three opcode bits.
   AL AX CL DX 1   Fixed operands.
*/

var condNames = [16]string{
	"JO", "JNO", "JB", "JNB", "JZ", "JNZ", "JBE", "JA",
	"JS", "JNS", "JP", "JNP", "JL", "JGE", "JLE", "JG",
}

func (c *CPU) set(op uint8, name, args string, fn func(), cyc, mcyc uint64) {
	c.table[op] = opEntry{name: name, args: args, fn: fn, cyc: cyc, mcyc: mcyc}
}

// Build opcode table for the current model.
func (c *CPU) createTable() {
	for i := range c.table {
		c.table[i] = opEntry{name: "???", fn: c.undefined, cyc: 2, mcyc: 2}
	}

	for a := range uint8(8) {
		base := a << 3
		name := aluNames[a]
		c.set(base+0, name, "Eb,Gb", c.opAluRM, 3, 16)
		c.set(base+1, name, "Ev,Gv", c.opAluRM, 3, 16)
		c.set(base+2, name, "Gb,Eb", c.opAluRM, 3, 9)
		c.set(base+3, name, "Gv,Ev", c.opAluRM, 3, 9)
		c.set(base+4, name, "AL,Ib", c.opAluAcc, 4, 4)
		c.set(base+5, name, "AX,Iv", c.opAluAcc, 4, 4)
	}

	for s, n := range []string{"ES", "CS", "SS", "DS"} {
		op := uint8(s) << 3
		c.set(op+6, "PUSH", n, c.opPushSeg, 10, 10)
		c.set(op+7, "POP", n, c.opPopSeg, 8, 8)
		c.set(op+0x26, n+":", "", c.opNop, 2, 2)
	}
	if c.level != level8086 {
		c.set(0x0f, "???", "", c.undefined, 2, 2)
	}
	c.set(0x27, "DAA", "", c.opDaa, 4, 4)
	c.set(0x2f, "DAS", "", c.opDas, 4, 4)
	c.set(0x37, "AAA", "", c.opAsciiAdjust, 8, 8)
	c.set(0x3f, "AAS", "", c.opAsciiAdjust, 8, 8)

	for r := range uint8(8) {
		c.set(0x40+r, "INC", "rv", c.opIncDecReg, 3, 3)
		c.set(0x48+r, "DEC", "rv", c.opIncDecReg, 3, 3)
		c.set(0x50+r, "PUSH", "rv", c.opPushReg, 11, 11)
		c.set(0x58+r, "POP", "rv", c.opPopReg, 8, 8)
		c.set(0x90+r, "XCHG", "AX,rv", c.opXchgAX, 3, 3)
		c.set(0xb0+r, "MOV", "rb,Ib", c.opMovRegImm, 4, 4)
		c.set(0xb8+r, "MOV", "rv,Iv", c.opMovRegImm, 4, 4)
		c.set(0xd8+r, "ESC", "Ev", c.opEsc, 2, 2)
	}
	c.set(0x90, "NOP", "", c.opXchgAX, 3, 3)

	for cc := range uint8(16) {
		c.set(0x70+cc, condNames[cc], "Jb", c.opJcc, 4, 4)
	}

	c.set(0x80, "grp1", "Eb,Ib", c.opGroup1, 4, 17)
	c.set(0x81, "grp1", "Ev,Iv", c.opGroup1, 4, 17)
	c.set(0x82, "grp1", "Eb,Ib", c.opGroup1, 4, 17)
	c.set(0x83, "grp1", "Ev,Is", c.opGroup1, 4, 17)
	c.set(0x84, "TEST", "Eb,Gb", c.opTest, 3, 9)
	c.set(0x85, "TEST", "Ev,Gv", c.opTest, 3, 9)
	c.set(0x86, "XCHG", "Eb,Gb", c.opXchg, 4, 17)
	c.set(0x87, "XCHG", "Ev,Gv", c.opXchg, 4, 17)
	c.set(0x88, "MOV", "Eb,Gb", c.opMov, 2, 9)
	c.set(0x89, "MOV", "Ev,Gv", c.opMov, 2, 9)
	c.set(0x8a, "MOV", "Gb,Eb", c.opMov, 2, 8)
	c.set(0x8b, "MOV", "Gv,Ev", c.opMov, 2, 8)
	c.set(0x8c, "MOV", "Ev,Sw", c.opMovFromSeg, 2, 9)
	c.set(0x8d, "LEA", "Gv,M", c.opLea, 2, 2)
	c.set(0x8e, "MOV", "Sw,Ev", c.opMovToSeg, 2, 8)
	c.set(0x8f, "POP", "Ev", c.opPopRM, 8, 17)

	c.set(0x98, "CBW", "", c.opCbw, 2, 2)
	c.set(0x99, "CWD", "", c.opCwd, 5, 5)
	c.set(0x9a, "CALL", "Ap", c.opCallFar, 28, 28)
	c.set(0x9b, "WAIT", "", c.opNop, 3, 3)
	c.set(0x9c, "PUSHF", "", c.opPushf, 10, 10)
	c.set(0x9d, "POPF", "", c.opPopf, 8, 8)
	c.set(0x9e, "SAHF", "", c.opSahf, 4, 4)
	c.set(0x9f, "LAHF", "", c.opLahf, 4, 4)

	c.set(0xa0, "MOV", "AL,Ob", c.opMovAccMem, 10, 10)
	c.set(0xa1, "MOV", "AX,Ov", c.opMovAccMem, 10, 10)
	c.set(0xa2, "MOV", "Ob,AL", c.opMovAccMem, 10, 10)
	c.set(0xa3, "MOV", "Ov,AX", c.opMovAccMem, 10, 10)
	c.set(0xa4, "MOVSB", "", c.opMovs, 18, 18)
	c.set(0xa5, "MOVSW", "", c.opMovs, 18, 18)
	c.set(0xa6, "CMPSB", "", c.opCmps, 22, 22)
	c.set(0xa7, "CMPSW", "", c.opCmps, 22, 22)
	c.set(0xa8, "TEST", "AL,Ib", c.opTestAcc, 4, 4)
	c.set(0xa9, "TEST", "AX,Iv", c.opTestAcc, 4, 4)
	c.set(0xaa, "STOSB", "", c.opStos, 11, 11)
	c.set(0xab, "STOSW", "", c.opStos, 11, 11)
	c.set(0xac, "LODSB", "", c.opLods, 12, 12)
	c.set(0xad, "LODSW", "", c.opLods, 12, 12)
	c.set(0xae, "SCASB", "", c.opScas, 15, 15)
	c.set(0xaf, "SCASW", "", c.opScas, 15, 15)

	c.set(0xc2, "RET", "Iw", c.opRet, 20, 20)
	c.set(0xc3, "RET", "", c.opRet, 16, 16)
	c.set(0xc4, "LES", "Gv,Mp", c.opLoadPtr, 16, 16)
	c.set(0xc5, "LDS", "Gv,Mp", c.opLoadPtr, 16, 16)
	c.set(0xc6, "MOV", "Eb,Ib", c.opMovRMImm, 4, 10)
	c.set(0xc7, "MOV", "Ev,Iv", c.opMovRMImm, 4, 10)
	c.set(0xca, "RETF", "Iw", c.opRetf, 25, 25)
	c.set(0xcb, "RETF", "", c.opRetf, 26, 26)
	c.set(0xcc, "INT3", "", c.opInt3, 52, 52)
	c.set(0xcd, "INT", "Ib", c.opInt, 51, 51)
	c.set(0xce, "INTO", "", c.opInto, 4, 4)
	c.set(0xcf, "IRET", "", c.opIret, 32, 32)

	c.set(0xd0, "grp2", "Eb,1", c.opGroup2, 2, 15)
	c.set(0xd1, "grp2", "Ev,1", c.opGroup2, 2, 15)
	c.set(0xd2, "grp2", "Eb,CL", c.opGroup2, 8, 20)
	c.set(0xd3, "grp2", "Ev,CL", c.opGroup2, 8, 20)
	c.set(0xd4, "AAM", "Ib", c.opAam, 83, 83)
	c.set(0xd5, "AAD", "Ib", c.opAad, 60, 60)
	c.set(0xd7, "XLAT", "", c.opXlat, 11, 11)

	c.set(0xe0, "LOOPNZ", "Jb", c.opLoop, 5, 5)
	c.set(0xe1, "LOOPZ", "Jb", c.opLoop, 6, 6)
	c.set(0xe2, "LOOP", "Jb", c.opLoop, 5, 5)
	c.set(0xe3, "JCXZ", "Jb", c.opJcxz, 6, 6)
	c.set(0xe4, "IN", "AL,Ib", c.opInOut, 10, 10)
	c.set(0xe5, "IN", "AX,Ib", c.opInOut, 10, 10)
	c.set(0xe6, "OUT", "Ib,AL", c.opInOut, 10, 10)
	c.set(0xe7, "OUT", "Ib,AX", c.opInOut, 10, 10)
	c.set(0xe8, "CALL", "Jv", c.opCallNear, 19, 19)
	c.set(0xe9, "JMP", "Jv", c.opJmpNear, 15, 15)
	c.set(0xea, "JMP", "Ap", c.opJmpFar, 15, 15)
	c.set(0xeb, "JMP", "Jb", c.opJmpShort, 15, 15)
	c.set(0xec, "IN", "AL,DX", c.opInOut, 8, 8)
	c.set(0xed, "IN", "AX,DX", c.opInOut, 8, 8)
	c.set(0xee, "OUT", "DX,AL", c.opInOut, 8, 8)
	c.set(0xef, "OUT", "DX,AX", c.opInOut, 8, 8)

	c.set(0xf0, "LOCK", "", c.opNop, 2, 2)
	c.set(0xf2, "REPNE", "", c.opNop, 2, 2)
	c.set(0xf3, "REP", "", c.opNop, 2, 2)
	c.set(0xf4, "HLT", "", c.opHlt, 2, 2)
	c.set(0xf5, "CMC", "", c.opCmc, 2, 2)
	c.set(0xf6, "grp3", "Eb", c.opGroup3, 3, 16)
	c.set(0xf7, "grp3", "Ev", c.opGroup3, 3, 16)
	for i, n := range []string{"CLC", "STC", "CLI", "STI", "CLD", "STD"} {
		c.set(0xf8+uint8(i), n, "", c.opFlag, 2, 2)
	}
	c.set(0xfe, "grp4", "Eb", c.opGroup4, 3, 15)
	c.set(0xff, "grp5", "Ev", c.opGroup5, 3, 15)

	if c.level == level8086 {
		// Unused encodings decode as their neighbours.
		for i := range uint8(16) {
			c.table[0x60+i] = c.table[0x70+i]
		}
		c.table[0xc0] = c.table[0xc2]
		c.table[0xc1] = c.table[0xc3]
		c.table[0xc8] = c.table[0xca]
		c.table[0xc9] = c.table[0xcb]
		return
	}

	c.set(0x60, "PUSHA", "", c.opPusha, 36, 36)
	c.set(0x61, "POPA", "", c.opPopa, 51, 51)
	c.set(0x62, "BOUND", "Gv,M", c.opBound, 33, 33)
	c.set(0x68, "PUSH", "Iv", c.opPushImm, 10, 10)
	c.set(0x69, "IMUL", "Gv,Ev,Iv", c.opImulImm, 22, 25)
	c.set(0x6a, "PUSH", "Is", c.opPushImm, 10, 10)
	c.set(0x6b, "IMUL", "Gv,Ev,Is", c.opImulImm, 22, 25)
	c.set(0x6c, "INSB", "", c.opIns, 14, 14)
	c.set(0x6d, "INSW", "", c.opIns, 14, 14)
	c.set(0x6e, "OUTSB", "", c.opOuts, 14, 14)
	c.set(0x6f, "OUTSW", "", c.opOuts, 14, 14)
	c.set(0xc0, "grp2", "Eb,Ib", c.opGroup2, 5, 17)
	c.set(0xc1, "grp2", "Ev,Ib", c.opGroup2, 5, 17)
	c.set(0xc8, "ENTER", "Iw,Ib", c.opEnter, 15, 15)
	c.set(0xc9, "LEAVE", "", c.opLeave, 8, 8)
}
