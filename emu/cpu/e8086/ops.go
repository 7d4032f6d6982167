/*
 * PCE - 8086 instructions
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

import (
	"github.com/rcornwell/pce/emu/cpu"
)

func (c *CPU) wide() bool {
	return c.op&1 != 0
}

// ALU Eb,Gb / Ev,Gv / Gb,Eb / Gv,Ev.
func (c *CPU) opAluRM() {
	op := int(c.op>>3) & 7
	w := c.wide()
	c.decodeModRM()
	if c.op&2 != 0 {
		r := c.alu(op, c.getReg(w, c.reg), c.getRM(w), w)
		if op != aluCMP {
			c.setReg(w, c.reg, r)
		}
		return
	}
	r := c.alu(op, c.getRM(w), c.getReg(w, c.reg), w)
	if op != aluCMP {
		c.setRM(w, r)
	}
}

// ALU AL,Ib / AX,Iv.
func (c *CPU) opAluAcc() {
	op := int(c.op>>3) & 7
	w := c.wide()
	imm := c.fetchImm(w)
	r := c.alu(op, c.getReg(w, regAX), imm, w)
	if op != aluCMP {
		c.setReg(w, regAX, r)
	}
}

// Immediate group 80-83.
func (c *CPU) opGroup1() {
	w := c.wide()
	c.decodeModRM()
	var imm uint32
	if c.op == 0x83 {
		imm = uint32(uint16(int8(c.fetch8())))
	} else {
		imm = c.fetchImm(w)
	}
	op := int(c.reg)
	r := c.alu(op, c.getRM(w), imm, w)
	if op != aluCMP {
		c.setRM(w, r)
	}
}

func (c *CPU) opPushSeg() {
	c.push(c.sregs[(c.op>>3)&3])
}

// POP segment, 0F is POP CS on the 8086.
func (c *CPU) opPopSeg() {
	s := (c.op >> 3) & 3
	c.sregs[s] = c.pop()
	if s == segSS {
		c.inhibit = true
	}
}

func (c *CPU) opDaa() {
	al := c.getReg8(0)
	old, cf := al, c.flags&flagCF != 0
	if al&0x0f > 9 || c.flags&flagAF != 0 {
		cf = cf || al > 0xf9
		al += 6
		c.flags |= flagAF
	} else {
		c.flags &^= flagAF
	}
	if old > 0x99 || c.flags&flagCF != 0 {
		al += 0x60
		cf = true
	}
	c.setFlag(flagCF, cf)
	c.setReg8(0, al)
	c.setSZP(uint32(al), false)
}

func (c *CPU) opDas() {
	al := c.getReg8(0)
	old, cf := al, c.flags&flagCF != 0
	if al&0x0f > 9 || c.flags&flagAF != 0 {
		cf = cf || al < 6
		al -= 6
		c.flags |= flagAF
	} else {
		c.flags &^= flagAF
	}
	if old > 0x99 || c.flags&flagCF != 0 {
		al -= 0x60
		cf = true
	}
	c.setFlag(flagCF, cf)
	c.setReg8(0, al)
	c.setSZP(uint32(al), false)
}

// AAA and AAS.
func (c *CPU) opAsciiAdjust() {
	sub := c.op == 0x3f
	al := c.getReg8(0)
	if al&0x0f > 9 || c.flags&flagAF != 0 {
		switch {
		case sub:
			c.setReg8(0, al-6)
			c.setReg8(4, c.getReg8(4)-1)
		case c.level >= level186:
			c.regs[regAX] += 0x106
		default:
			c.setReg8(0, al+6)
			c.setReg8(4, c.getReg8(4)+1)
		}
		c.flags |= flagAF | flagCF
	} else {
		c.flags &^= flagAF | flagCF
	}
	c.setReg8(0, c.getReg8(0)&0x0f)
}

func (c *CPU) opIncDecReg() {
	r := c.op & 7
	c.regs[r] = uint16(c.incDec(uint32(c.regs[r]), c.op&8 != 0, true))
}

// PUSH SP stores the decremented value before the 80286.
func (c *CPU) opPushReg() {
	r := c.op & 7
	if r == regSP && c.level < level286 {
		c.regs[regSP] -= 2
		c.writeWord(c.sregs[segSS], c.regs[regSP], c.regs[regSP])
		return
	}
	c.push(c.regs[r])
}

func (c *CPU) opPopReg() {
	v := c.pop()
	c.regs[c.op&7] = v
}

func (c *CPU) opPusha() {
	sp := c.regs[regSP]
	for r := range 8 {
		if r == regSP {
			c.push(sp)
			continue
		}
		c.push(c.regs[r])
	}
}

func (c *CPU) opPopa() {
	for r := 7; r >= 0; r-- {
		v := c.pop()
		if r != regSP {
			c.regs[r] = v
		}
	}
}

func (c *CPU) opBound() {
	c.decodeModRM()
	if !c.isMem() {
		c.undefined()
		return
	}
	seg := c.sregs[c.eaSeg]
	lo := int16(c.readWord(seg, c.eaOff))
	hi := int16(c.readWord(seg, c.eaOff+2))
	v := int16(c.regs[c.reg])
	if v < lo || v > hi {
		c.fault(intBound)
	}
}

func (c *CPU) opPushImm() {
	if c.op == 0x6a {
		c.push(uint16(int8(c.fetch8())))
		return
	}
	c.push(c.fetch16())
}

// IMUL Gv,Ev,Iv.
func (c *CPU) opImulImm() {
	c.decodeModRM()
	src := int32(int16(c.getRM16()))
	var imm int32
	if c.op == 0x6b {
		imm = int32(int8(c.fetch8()))
	} else {
		imm = int32(int16(c.fetch16()))
	}
	r := src * imm
	c.regs[c.reg] = uint16(r)
	ext := r == int32(int16(r))
	c.setFlag(flagCF, !ext)
	c.setFlag(flagOF, !ext)
}

// Condition codes 0-15 as used by Jcc.
func (c *CPU) cond(cc uint8) bool {
	f := c.flags
	var r bool
	switch cc >> 1 {
	case 0:
		r = f&flagOF != 0
	case 1:
		r = f&flagCF != 0
	case 2:
		r = f&flagZF != 0
	case 3:
		r = f&(flagCF|flagZF) != 0
	case 4:
		r = f&flagSF != 0
	case 5:
		r = f&flagPF != 0
	case 6:
		r = (f&flagSF != 0) != (f&flagOF != 0)
	case 7:
		r = f&flagZF != 0 || (f&flagSF != 0) != (f&flagOF != 0)
	}
	if cc&1 != 0 {
		return !r
	}
	return r
}

func (c *CPU) opJcc() {
	disp := uint16(int8(c.fetch8()))
	if c.cond(c.op & 15) {
		c.ip += disp
		c.cyc += 12
	}
}

func (c *CPU) opTest() {
	w := c.wide()
	c.decodeModRM()
	c.logic(c.getRM(w)&c.getReg(w, c.reg), w)
}

func (c *CPU) opXchg() {
	w := c.wide()
	c.decodeModRM()
	v := c.getRM(w)
	c.setRM(w, c.getReg(w, c.reg))
	c.setReg(w, c.reg, v)
}

func (c *CPU) opMov() {
	w := c.wide()
	c.decodeModRM()
	if c.op&2 != 0 {
		c.setReg(w, c.reg, c.getRM(w))
		return
	}
	c.setRM(w, c.getReg(w, c.reg))
}

func (c *CPU) opMovFromSeg() {
	c.decodeModRM()
	c.setRM16(c.sregs[c.reg&3])
}

func (c *CPU) opLea() {
	c.decodeModRM()
	if !c.isMem() {
		c.undefined()
		return
	}
	c.regs[c.reg] = c.eaOff
}

func (c *CPU) opMovToSeg() {
	c.decodeModRM()
	s := c.reg & 3
	if s == segCS && c.level >= level186 {
		c.undefined()
		return
	}
	c.sregs[s] = c.getRM16()
	if s == segSS {
		c.inhibit = true
	}
}

func (c *CPU) opPopRM() {
	c.decodeModRM()
	c.setRM16(c.pop())
}

func (c *CPU) opXchgAX() {
	r := c.op & 7
	c.regs[r], c.regs[regAX] = c.regs[regAX], c.regs[r]
}

func (c *CPU) opCbw() {
	c.regs[regAX] = uint16(int8(c.regs[regAX]))
}

func (c *CPU) opCwd() {
	if c.regs[regAX]&0x8000 != 0 {
		c.regs[regDX] = 0xffff
	} else {
		c.regs[regDX] = 0
	}
}

func (c *CPU) opCallFar() {
	off := c.fetch16()
	seg := c.fetch16()
	c.push(c.sregs[segCS])
	c.push(c.ip)
	c.sregs[segCS] = seg
	c.ip = off
}

func (c *CPU) opNop() {
}

func (c *CPU) opPushf() {
	c.push(c.pushFlags())
}

func (c *CPU) opPopf() {
	c.flags = c.pop() & flagMask
}

func (c *CPU) opSahf() {
	c.flags = c.flags&0xff00 | uint16(c.getReg8(4))&0xd5
}

func (c *CPU) opLahf() {
	c.setReg8(4, uint8(c.flags&0xd5)|0x02)
}

// MOV AL/AX to or from a direct address.
func (c *CPU) opMovAccMem() {
	w := c.wide()
	off := c.fetch16()
	seg := c.dataSeg(segDS)
	if c.op&2 == 0 {
		c.setReg(w, regAX, c.readW(seg, off, w))
		return
	}
	c.writeW(seg, off, w, c.getReg(w, regAX))
}

func (c *CPU) opTestAcc() {
	w := c.wide()
	c.logic(c.getReg(w, regAX)&c.fetchImm(w), w)
}

func (c *CPU) opMovRegImm() {
	w := c.op&8 != 0
	c.setReg(w, c.op&7, c.fetchImm(w))
}

// Shift group C0/C1 by immediate, D0/D1 by one, D2/D3 by CL.
func (c *CPU) opGroup2() {
	w := c.wide()
	c.decodeModRM()
	var count uint8
	switch c.op & 0xfe {
	case 0xc0:
		count = c.fetch8()
		c.cyc += uint64(count)
	case 0xd0:
		count = 1
	default:
		count = c.getReg8(1)
		c.cyc += 4 * uint64(count)
	}
	c.setRM(w, c.shift(int(c.reg), c.getRM(w), count, w))
}

// RET and RET n.
func (c *CPU) opRet() {
	var n uint16
	if c.op&1 == 0 {
		n = c.fetch16()
	}
	c.ip = c.pop()
	c.regs[regSP] += n
}

func (c *CPU) opRetf() {
	var n uint16
	if c.op&1 == 0 {
		n = c.fetch16()
	}
	c.ip = c.pop()
	c.sregs[segCS] = c.pop()
	c.regs[regSP] += n
}

// LES and LDS.
func (c *CPU) opLoadPtr() {
	c.decodeModRM()
	if !c.isMem() {
		c.undefined()
		return
	}
	seg := c.sregs[c.eaSeg]
	c.regs[c.reg] = c.readWord(seg, c.eaOff)
	s := segES
	if c.op == 0xc5 {
		s = segDS
	}
	c.sregs[s] = c.readWord(seg, c.eaOff+2)
}

func (c *CPU) opMovRMImm() {
	w := c.wide()
	c.decodeModRM()
	c.setRM(w, c.fetchImm(w))
}

func (c *CPU) opEnter() {
	size := c.fetch16()
	nest := c.fetch8() & 31
	c.push(c.regs[regBP])
	frame := c.regs[regSP]
	if nest > 0 {
		for range nest - 1 {
			c.regs[regBP] -= 2
			c.push(c.readWord(c.sregs[segSS], c.regs[regBP]))
			c.cyc += 4
		}
		c.push(frame)
	}
	c.regs[regBP] = frame
	c.regs[regSP] -= size
}

func (c *CPU) opLeave() {
	c.regs[regSP] = c.regs[regBP]
	c.regs[regBP] = c.pop()
}

func (c *CPU) opInt3() {
	c.interrupt(intBreak)
}

func (c *CPU) opInt() {
	c.interrupt(c.fetch8())
}

func (c *CPU) opInto() {
	if c.flags&flagOF != 0 {
		c.interrupt(intOverflow)
		c.cyc += 49
	}
}

func (c *CPU) opIret() {
	c.ip = c.pop()
	c.sregs[segCS] = c.pop()
	c.flags = c.pop() & flagMask
}

func (c *CPU) opAam() {
	base := c.fetch8()
	if base == 0 {
		c.divideError()
		return
	}
	al := c.getReg8(0)
	c.setReg8(4, al/base)
	c.setReg8(0, al%base)
	c.setSZP(uint32(al%base), false)
}

func (c *CPU) opAad() {
	base := c.fetch8()
	al := c.getReg8(0) + c.getReg8(4)*base
	c.regs[regAX] = uint16(al)
	c.setSZP(uint32(al), false)
}

func (c *CPU) opXlat() {
	off := c.regs[regBX] + uint16(c.getReg8(0))
	c.setReg8(0, c.readByte(c.dataSeg(segDS), off))
}

// Coprocessor escape, no coprocessor present.
func (c *CPU) opEsc() {
	c.decodeModRM()
}

// LOOPNZ, LOOPZ, LOOP.
func (c *CPU) opLoop() {
	disp := uint16(int8(c.fetch8()))
	c.regs[regCX]--
	taken := c.regs[regCX] != 0
	switch c.op {
	case 0xe0:
		taken = taken && c.flags&flagZF == 0
	case 0xe1:
		taken = taken && c.flags&flagZF != 0
	}
	if taken {
		c.ip += disp
		c.cyc += 12
	}
}

func (c *CPU) opJcxz() {
	disp := uint16(int8(c.fetch8()))
	if c.regs[regCX] == 0 {
		c.ip += disp
		c.cyc += 12
	}
}

// IN and OUT with immediate port or DX.
func (c *CPU) opInOut() {
	w := c.wide()
	var port uint16
	if c.op&0x08 == 0 {
		port = uint16(c.fetch8())
	} else {
		port = c.regs[regDX]
	}
	if c.op&2 == 0 {
		c.setReg(w, regAX, c.portIn(port, w))
		return
	}
	c.portOut(port, w, c.getReg(w, regAX))
}

func (c *CPU) portIn(port uint16, w bool) uint32 {
	if w {
		return uint32(c.io.GetUint16(uint32(port)))
	}
	return uint32(c.io.GetUint8(uint32(port)))
}

func (c *CPU) portOut(port uint16, w bool, v uint32) {
	if w {
		c.io.SetUint16(uint32(port), uint16(v))
		return
	}
	c.io.SetUint8(uint32(port), uint8(v))
}

func (c *CPU) opCallNear() {
	rel := c.fetch16()
	c.push(c.ip)
	c.ip += rel
}

func (c *CPU) opJmpNear() {
	rel := c.fetch16()
	c.ip += rel
}

func (c *CPU) opJmpFar() {
	off := c.fetch16()
	c.sregs[segCS] = c.fetch16()
	c.ip = off
}

func (c *CPU) opJmpShort() {
	c.ip += uint16(int8(c.fetch8()))
}

func (c *CPU) opHlt() {
	c.state = cpu.Halted
}

func (c *CPU) opCmc() {
	c.flags ^= flagCF
}

// CLC STC CLI STI CLD STD.
func (c *CPU) opFlag() {
	f := [3]uint16{flagCF, flagIF, flagDF}[(c.op-0xf8)>>1]
	c.setFlag(f, c.op&1 != 0)
	if c.op == 0xfb {
		c.inhibit = true
	}
}

// Extra cycles over the register form for MUL, IMUL, DIV, IDIV.
var group3Cycles = [2][4]uint64{
	{67, 77, 77, 98},
	{115, 125, 141, 162},
}

// TEST, NOT, NEG, MUL, IMUL, DIV, IDIV.
func (c *CPU) opGroup3() {
	w := c.wide()
	c.decodeModRM()
	v := c.getRM(w)
	mask, _ := widthMask(w)
	switch c.reg {
	case 0, 1:
		c.logic(v&c.fetchImm(w), w)
	case 2:
		c.setRM(w, ^v&mask)
	case 3:
		c.setRM(w, c.sub(0, v, 0, w))
	case 4, 5:
		c.multiply(v, c.reg == 5, w)
	case 6, 7:
		if !c.divide(v, c.reg == 7, w) {
			c.divideError()
		}
	}
	if c.reg >= 4 {
		wi := 0
		if w {
			wi = 1
		}
		c.cyc += group3Cycles[wi][c.reg-4]
	}
}

// INC and DEC Eb.
func (c *CPU) opGroup4() {
	c.decodeModRM()
	if c.reg > 1 {
		c.undefined()
		return
	}
	c.setRM8(uint8(c.incDec(uint32(c.getRM8()), c.reg == 1, false)))
}

var group5Cycles = [8]uint64{0, 0, 13, 34, 8, 21, 8, 0}

// INC, DEC, CALL, CALL far, JMP, JMP far, PUSH on Ev.
func (c *CPU) opGroup5() {
	c.decodeModRM()
	c.cyc += group5Cycles[c.reg]
	switch c.reg {
	case 0, 1:
		c.setRM16(uint16(c.incDec(uint32(c.getRM16()), c.reg == 1, true)))
	case 2:
		target := c.getRM16()
		c.push(c.ip)
		c.ip = target
	case 4:
		c.ip = c.getRM16()
	case 3, 5:
		if !c.isMem() {
			c.undefined()
			return
		}
		seg := c.sregs[c.eaSeg]
		off := c.readWord(seg, c.eaOff)
		sel := c.readWord(seg, c.eaOff+2)
		if c.reg == 3 {
			c.push(c.sregs[segCS])
			c.push(c.ip)
		}
		c.sregs[segCS] = sel
		c.ip = off
	case 6:
		c.push(c.getRM16())
	default:
		c.undefined()
	}
}
