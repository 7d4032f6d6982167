/*
 * PCE - PowerPC 405 integer instructions
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

package ppc405

import (
	"math/bits"
)

// Instruction fields.
func (c *CPU) rD() uint32 {
	return (c.ir >> 21) & 31
}

func (c *CPU) rA() uint32 {
	return (c.ir >> 16) & 31
}

func (c *CPU) rB() uint32 {
	return (c.ir >> 11) & 31
}

func (c *CPU) simm() uint32 {
	return uint32(int32(int16(c.ir)))
}

func (c *CPU) uimm() uint32 {
	return c.ir & 0xffff
}

func (c *CPU) rc() bool {
	return c.ir&1 != 0
}

func (c *CPU) oe() bool {
	return c.ir&0x400 != 0
}

// Value of rA, or zero when the field is zero.
func (c *CPU) baseA() uint32 {
	if ra := c.rA(); ra != 0 {
		return c.gpr[ra]
	}
	return 0
}

// Set CR field n, field 0 is the most significant nibble.
func (c *CPU) setCRField(n uint32, f uint32) {
	shift := 28 - 4*(n&7)
	c.cr = (c.cr &^ (0xf << shift)) | (f&0xf)<<shift
}

func (c *CPU) crField(n uint32) uint32 {
	return (c.cr >> (28 - 4*(n&7))) & 0xf
}

// Compare result LT, GT or EQ with SO copied from XER.
func (c *CPU) compareBits(lt, gt bool) uint32 {
	var f uint32
	switch {
	case lt:
		f = 8
	case gt:
		f = 4
	default:
		f = 2
	}
	if c.xer&xerSO != 0 {
		f |= 1
	}
	return f
}

func (c *CPU) setCR0(res uint32) {
	c.setCRField(0, c.compareBits(int32(res) < 0, int32(res) > 0))
}

func (c *CPU) setCA(ca bool) {
	if ca {
		c.xer |= xerCA
	} else {
		c.xer &^= xerCA
	}
}

func (c *CPU) setOV(ov bool) {
	if ov {
		c.xer |= xerOV | xerSO
	} else {
		c.xer &^= xerOV
	}
}

func (c *CPU) carry() uint32 {
	if c.xer&xerCA != 0 {
		return 1
	}
	return 0
}

// Add with carry in, returns result, carry out and signed overflow.
func addCarry(a, b, ci uint32) (uint32, bool, bool) {
	sum := uint64(a) + uint64(b) + uint64(ci)
	r := uint32(sum)
	return r, sum>>32 != 0, ((a^r)&(b^r))>>31 != 0
}

// Store XO form result.
func (c *CPU) xoResult(r uint32, ov bool) uint32 {
	c.gpr[c.rD()] = r
	if c.oe() {
		c.setOV(ov)
	}
	if c.rc() {
		c.setCR0(r)
	}
	return excNone
}

// Carrying XO form, a + b + ci.
func (c *CPU) xoCarry(a, b, ci uint32, setCA bool) uint32 {
	r, ca, ov := addCarry(a, b, ci)
	if setCA {
		c.setCA(ca)
	}
	return c.xoResult(r, ov)
}

func (c *CPU) opAdd() uint32 {
	return c.xoCarry(c.gpr[c.rA()], c.gpr[c.rB()], 0, false)
}

func (c *CPU) opAddc() uint32 {
	return c.xoCarry(c.gpr[c.rA()], c.gpr[c.rB()], 0, true)
}

func (c *CPU) opAdde() uint32 {
	return c.xoCarry(c.gpr[c.rA()], c.gpr[c.rB()], c.carry(), true)
}

func (c *CPU) opAddme() uint32 {
	return c.xoCarry(c.gpr[c.rA()], 0xffffffff, c.carry(), true)
}

func (c *CPU) opAddze() uint32 {
	return c.xoCarry(c.gpr[c.rA()], 0, c.carry(), true)
}

func (c *CPU) opSubf() uint32 {
	return c.xoCarry(^c.gpr[c.rA()], c.gpr[c.rB()], 1, false)
}

func (c *CPU) opSubfc() uint32 {
	return c.xoCarry(^c.gpr[c.rA()], c.gpr[c.rB()], 1, true)
}

func (c *CPU) opSubfe() uint32 {
	return c.xoCarry(^c.gpr[c.rA()], c.gpr[c.rB()], c.carry(), true)
}

func (c *CPU) opSubfme() uint32 {
	return c.xoCarry(^c.gpr[c.rA()], 0xffffffff, c.carry(), true)
}

func (c *CPU) opSubfze() uint32 {
	return c.xoCarry(^c.gpr[c.rA()], 0, c.carry(), true)
}

func (c *CPU) opNeg() uint32 {
	a := c.gpr[c.rA()]
	return c.xoResult(-a, a == 0x80000000)
}

func (c *CPU) opMullw() uint32 {
	p := int64(int32(c.gpr[c.rA()])) * int64(int32(c.gpr[c.rB()]))
	c.cyc += 4
	return c.xoResult(uint32(p), p != int64(int32(p)))
}

func (c *CPU) opMulhw() uint32 {
	p := int64(int32(c.gpr[c.rA()])) * int64(int32(c.gpr[c.rB()]))
	c.cyc += 4
	return c.xoResult(uint32(p>>32), false)
}

func (c *CPU) opMulhwu() uint32 {
	hi, _ := bits.Mul32(c.gpr[c.rA()], c.gpr[c.rB()])
	c.cyc += 4
	return c.xoResult(hi, false)
}

func (c *CPU) opDivw() uint32 {
	a := int32(c.gpr[c.rA()])
	b := int32(c.gpr[c.rB()])
	c.cyc += 34
	if b == 0 || (a == -0x80000000 && b == -1) {
		var r uint32
		if a < 0 {
			r = 0xffffffff
		}
		return c.xoResult(r, true)
	}
	return c.xoResult(uint32(a/b), false)
}

func (c *CPU) opDivwu() uint32 {
	a := c.gpr[c.rA()]
	b := c.gpr[c.rB()]
	c.cyc += 34
	if b == 0 {
		return c.xoResult(0, true)
	}
	return c.xoResult(a/b, false)
}

func (c *CPU) opAddi() uint32 {
	c.gpr[c.rD()] = c.baseA() + c.simm()
	return excNone
}

func (c *CPU) opAddis() uint32 {
	c.gpr[c.rD()] = c.baseA() + c.ir<<16
	return excNone
}

func (c *CPU) opAddic() uint32 {
	r, ca, _ := addCarry(c.gpr[c.rA()], c.simm(), 0)
	c.setCA(ca)
	c.gpr[c.rD()] = r
	if c.ir>>26 == 13 {
		c.setCR0(r)
	}
	return excNone
}

func (c *CPU) opSubfic() uint32 {
	r, ca, _ := addCarry(^c.gpr[c.rA()], c.simm(), 1)
	c.setCA(ca)
	c.gpr[c.rD()] = r
	return excNone
}

func (c *CPU) opMulli() uint32 {
	c.gpr[c.rD()] = uint32(int32(c.gpr[c.rA()]) * int32(c.simm()))
	c.cyc += 3
	return excNone
}

// Compare instructions, crfD in bits 25-23.
func (c *CPU) crfD() uint32 {
	return (c.ir >> 23) & 7
}

func (c *CPU) opCmp() uint32 {
	a := int32(c.gpr[c.rA()])
	b := int32(c.gpr[c.rB()])
	c.setCRField(c.crfD(), c.compareBits(a < b, a > b))
	return excNone
}

func (c *CPU) opCmpl() uint32 {
	a := c.gpr[c.rA()]
	b := c.gpr[c.rB()]
	c.setCRField(c.crfD(), c.compareBits(a < b, a > b))
	return excNone
}

func (c *CPU) opCmpi() uint32 {
	a := int32(c.gpr[c.rA()])
	b := int32(c.simm())
	c.setCRField(c.crfD(), c.compareBits(a < b, a > b))
	return excNone
}

func (c *CPU) opCmpli() uint32 {
	a := c.gpr[c.rA()]
	b := c.uimm()
	c.setCRField(c.crfD(), c.compareBits(a < b, a > b))
	return excNone
}

// Store logical result to rA, CR0 when Rc set.
func (c *CPU) logical(r uint32) uint32 {
	c.gpr[c.rA()] = r
	if c.rc() {
		c.setCR0(r)
	}
	return excNone
}

// rS is in the rD field for logical instructions.
func (c *CPU) rS() uint32 {
	return c.gpr[c.rD()]
}

func (c *CPU) opOri() uint32 {
	c.gpr[c.rA()] = c.rS() | c.uimm()
	return excNone
}

func (c *CPU) opOris() uint32 {
	c.gpr[c.rA()] = c.rS() | c.uimm()<<16
	return excNone
}

func (c *CPU) opXori() uint32 {
	c.gpr[c.rA()] = c.rS() ^ c.uimm()
	return excNone
}

func (c *CPU) opXoris() uint32 {
	c.gpr[c.rA()] = c.rS() ^ c.uimm()<<16
	return excNone
}

func (c *CPU) opAndi() uint32 {
	r := c.rS() & c.uimm()
	c.gpr[c.rA()] = r
	c.setCR0(r)
	return excNone
}

func (c *CPU) opAndis() uint32 {
	r := c.rS() & (c.uimm() << 16)
	c.gpr[c.rA()] = r
	c.setCR0(r)
	return excNone
}

// X form logical operation on rS and rB.
func (c *CPU) logicX(f func(s, b uint32) uint32) func() uint32 {
	return func() uint32 {
		return c.logical(f(c.rS(), c.gpr[c.rB()]))
	}
}

func (c *CPU) opSlw() uint32 {
	n := c.gpr[c.rB()] & 0x3f
	var r uint32
	if n < 32 {
		r = c.rS() << n
	}
	return c.logical(r)
}

func (c *CPU) opSrw() uint32 {
	n := c.gpr[c.rB()] & 0x3f
	var r uint32
	if n < 32 {
		r = c.rS() >> n
	}
	return c.logical(r)
}

// Shift right algebraic, CA set if negative and one bits are lost.
func (c *CPU) sra(s uint32, n uint32) uint32 {
	if n > 31 {
		neg := int32(s) < 0
		c.setCA(neg)
		if neg {
			return 0xffffffff
		}
		return 0
	}
	r := uint32(int32(s) >> n)
	lost := s & ((1 << n) - 1)
	c.setCA(int32(s) < 0 && lost != 0)
	return r
}

func (c *CPU) opSraw() uint32 {
	return c.logical(c.sra(c.rS(), c.gpr[c.rB()]&0x3f))
}

func (c *CPU) opSrawi() uint32 {
	return c.logical(c.sra(c.rS(), c.rB()))
}

func (c *CPU) opCntlzw() uint32 {
	return c.logical(uint32(bits.LeadingZeros32(c.rS())))
}

func (c *CPU) opExtsb() uint32 {
	return c.logical(uint32(int32(int8(c.rS()))))
}

func (c *CPU) opExtsh() uint32 {
	return c.logical(uint32(int32(int16(c.rS()))))
}

// Mask from bit mb to bit me, bit 0 being the most significant.
func rotMask(mb, me uint32) uint32 {
	m1 := uint32(0xffffffff) >> mb
	m2 := uint32(0xffffffff) << (31 - me)
	if mb <= me {
		return m1 & m2
	}
	return m1 | m2
}

func (c *CPU) mbme() (uint32, uint32) {
	return (c.ir >> 6) & 31, (c.ir >> 1) & 31
}

func (c *CPU) opRlwinm() uint32 {
	mb, me := c.mbme()
	return c.logical(bits.RotateLeft32(c.rS(), int(c.rB())) & rotMask(mb, me))
}

func (c *CPU) opRlwnm() uint32 {
	mb, me := c.mbme()
	return c.logical(bits.RotateLeft32(c.rS(), int(c.gpr[c.rB()]&31)) & rotMask(mb, me))
}

func (c *CPU) opRlwimi() uint32 {
	mb, me := c.mbme()
	m := rotMask(mb, me)
	r := bits.RotateLeft32(c.rS(), int(c.rB()))
	return c.logical((r & m) | (c.gpr[c.rA()] &^ m))
}

// Check trap conditions TO against a and b.
func (c *CPU) trap(a, b uint32) uint32 {
	to := c.rD()
	sa := int32(a)
	sb := int32(b)
	if (to&0x10 != 0 && sa < sb) ||
		(to&0x08 != 0 && sa > sb) ||
		(to&0x04 != 0 && a == b) ||
		(to&0x02 != 0 && a < b) ||
		(to&0x01 != 0 && a > b) {
		return c.program(esrPTR)
	}
	return excNone
}

func (c *CPU) opTw() uint32 {
	return c.trap(c.gpr[c.rA()], c.gpr[c.rB()])
}

func (c *CPU) opTwi() uint32 {
	return c.trap(c.gpr[c.rA()], c.simm())
}
