/*
 * PCE - 68000 arithmetic instructions
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

package e68000

// Binary operation on source and destination, returns result and sets flags.
type aluFunc func(c *CPU, s, d uint32, size int) uint32

// Operand size of current instruction.
func (c *CPU) opSize() int {
	return c.table[c.ir>>6].size
}

// Replace flags in mask with val.
func (c *CPU) setCC(mask, val uint16) {
	c.sr = (c.sr &^ mask) | (val & mask)
}

// N and Z for a result.
func nz(res uint32, size int) uint16 {
	var f uint16
	if res&sizeMask(size) == 0 {
		f |= flagZ
	}
	if res&signBit(size) != 0 {
		f |= flagN
	}
	return f
}

// Flags for r = d + s.
func addFlags(s, d, r uint32, size int) uint16 {
	m := signBit(size)
	f := nz(r, size)
	if ((s&d)|(^r&(s|d)))&m != 0 {
		f |= flagC | flagX
	}
	if ((s^r)&(d^r))&m != 0 {
		f |= flagV
	}
	return f
}

// Flags for r = d - s.
func subFlags(s, d, r uint32, size int) uint16 {
	m := signBit(size)
	f := nz(r, size)
	if ((s&^d)|(r&^d)|(s&r))&m != 0 {
		f |= flagC | flagX
	}
	if ((s^d)&(r^d))&m != 0 {
		f |= flagV
	}
	return f
}

// Set N and Z, clear V and C.
func (c *CPU) logicFlags(res uint32, size int) {
	c.setCC(flagN|flagZ|flagV|flagC, nz(res, size))
}

func aluAdd(c *CPU, s, d uint32, size int) uint32 {
	r := (d + s) & sizeMask(size)
	c.setCC(ccrMask, addFlags(s, d, r, size))
	return r
}

func aluSub(c *CPU, s, d uint32, size int) uint32 {
	r := (d - s) & sizeMask(size)
	c.setCC(ccrMask, subFlags(s, d, r, size))
	return r
}

func aluCmp(c *CPU, s, d uint32, size int) uint32 {
	r := (d - s) & sizeMask(size)
	c.setCC(flagN|flagZ|flagV|flagC, subFlags(s, d, r, size))
	return r
}

func aluAnd(c *CPU, s, d uint32, size int) uint32 {
	r := (d & s) & sizeMask(size)
	c.logicFlags(r, size)
	return r
}

func aluOr(c *CPU, s, d uint32, size int) uint32 {
	r := (d | s) & sizeMask(size)
	c.logicFlags(r, size)
	return r
}

func aluEor(c *CPU, s, d uint32, size int) uint32 {
	r := (d ^ s) & sizeMask(size)
	c.logicFlags(r, size)
	return r
}

// <ea> op Dn, result to Dn when store is set.
func (c *CPU) toDn(size int, allowed int, f aluFunc, store bool) uint16 {
	s, exc := c.srcValue(size, allowed)
	if exc != vecNone {
		return exc
	}
	dn := (c.ir >> 9) & 7
	r := f(c, s, c.d[dn]&sizeMask(size), size)
	if store {
		c.d[dn] = merge(c.d[dn], r, size)
	}
	c.cyc += 4
	if size == 4 {
		c.cyc += 4
	}
	return vecNone
}

// Dn op <ea>, result to <ea>.
func (c *CPU) toEA(size int, allowed int, f aluFunc) uint16 {
	op, exc := c.srcEA(size, allowed)
	if exc != vecNone {
		return exc
	}
	d, exc := c.readOp(&op, size)
	if exc != vecNone {
		return exc
	}
	r := f(c, c.d[(c.ir>>9)&7]&sizeMask(size), d, size)
	if exc := c.writeOp(&op, size, r); exc != vecNone {
		return exc
	}
	if op.kind == opData {
		c.cyc += 4
	} else {
		c.cyc += 8
	}
	if size == 4 {
		c.cyc += 4
	}
	return vecNone
}

// Source modes allowed for arithmetic to register.
func arithSrc(size int) int {
	if size == 1 {
		return eaData
	}
	return eaAll
}

func (c *CPU) opAdd() uint16 {
	size := c.opSize()
	if c.ir&0x100 == 0 {
		return c.toDn(size, arithSrc(size), aluAdd, true)
	}
	return c.toEA(size, eaMemAlt, aluAdd)
}

func (c *CPU) opSub() uint16 {
	size := c.opSize()
	if c.ir&0x100 == 0 {
		return c.toDn(size, arithSrc(size), aluSub, true)
	}
	return c.toEA(size, eaMemAlt, aluSub)
}

func (c *CPU) opCmp() uint16 {
	size := c.opSize()
	return c.toDn(size, arithSrc(size), aluCmp, false)
}

// ADDA, SUBA and CMPA share source decoding.
func (c *CPU) addrSrc() (uint32, int, uint16) {
	size := c.opSize()
	s, exc := c.srcValue(size, eaAll)
	if exc != vecNone {
		return 0, size, exc
	}
	c.cyc += 8
	return signExtend(s, size), size, vecNone
}

func (c *CPU) opAdda() uint16 {
	s, _, exc := c.addrSrc()
	if exc != vecNone {
		return exc
	}
	an := (c.ir >> 9) & 7
	c.a[an] += s
	return vecNone
}

func (c *CPU) opSuba() uint16 {
	s, _, exc := c.addrSrc()
	if exc != vecNone {
		return exc
	}
	an := (c.ir >> 9) & 7
	c.a[an] -= s
	return vecNone
}

func (c *CPU) opCmpa() uint16 {
	s, _, exc := c.addrSrc()
	if exc != vecNone {
		return exc
	}
	aluCmp(c, s, c.a[(c.ir>>9)&7], 4)
	c.cyc -= 2
	return vecNone
}

// Operands for ADDX, SUBX, ABCD and SBCD: Dy,Dx or -(Ay),-(Ax).
func (c *CPU) extendOperands(size int) (operand, uint32, uint32, uint16) {
	rx := uint8(c.ir>>9) & 7
	ry := uint8(c.ir) & 7
	if c.ir&0x08 == 0 {
		c.cyc += 4
		return operand{kind: opData, reg: rx}, c.d[ry] & sizeMask(size), c.d[rx] & sizeMask(size), vecNone
	}
	src, exc := c.ea(4, ry, size)
	if exc != vecNone {
		return operand{}, 0, 0, exc
	}
	s, exc := c.readOp(&src, size)
	if exc != vecNone {
		return operand{}, 0, 0, exc
	}
	dst, exc := c.ea(4, rx, size)
	if exc != vecNone {
		return operand{}, 0, 0, exc
	}
	d, exc := c.readOp(&dst, size)
	if exc != vecNone {
		return operand{}, 0, 0, exc
	}
	c.cyc += 6
	return dst, s, d, vecNone
}

// Z is only cleared by a non zero result.
func (c *CPU) stickyZ(flags uint16, res uint32, size int) uint16 {
	flags &^= flagZ
	if res&sizeMask(size) == 0 {
		flags |= c.sr & flagZ
	}
	return flags
}

func (c *CPU) xbit() uint32 {
	if c.sr&flagX != 0 {
		return 1
	}
	return 0
}

func (c *CPU) opAddx() uint16 {
	size := c.opSize()
	dst, s, d, exc := c.extendOperands(size)
	if exc != vecNone {
		return exc
	}
	r := (d + s + c.xbit()) & sizeMask(size)
	c.setCC(ccrMask, c.stickyZ(addFlags(s, d, r, size), r, size))
	return c.writeOp(&dst, size, r)
}

func (c *CPU) opSubx() uint16 {
	size := c.opSize()
	dst, s, d, exc := c.extendOperands(size)
	if exc != vecNone {
		return exc
	}
	r := (d - s - c.xbit()) & sizeMask(size)
	c.setCC(ccrMask, c.stickyZ(subFlags(s, d, r, size), r, size))
	return c.writeOp(&dst, size, r)
}

// Quick data from bits 11-9, zero means eight.
func (c *CPU) quick() uint32 {
	q := uint32(c.ir>>9) & 7
	if q == 0 {
		q = 8
	}
	return q
}

func (c *CPU) quickOp(f aluFunc, sign uint32) uint16 {
	size := c.opSize()
	mode := (c.ir >> 3) & 7
	if mode == 1 {
		if size == 1 {
			return c.undefined()
		}
		an := c.ir & 7
		c.a[an] += c.quick() * sign
		c.cyc += 8
		return vecNone
	}
	op, exc := c.srcEA(size, eaDataAlt)
	if exc != vecNone {
		return exc
	}
	d, exc := c.readOp(&op, size)
	if exc != vecNone {
		return exc
	}
	r := f(c, c.quick(), d, size)
	if op.kind == opData {
		c.cyc += 4
		if size == 4 {
			c.cyc += 4
		}
	} else {
		c.cyc += 8
		if size == 4 {
			c.cyc += 4
		}
	}
	return c.writeOp(&op, size, r)
}

func (c *CPU) opAddq() uint16 {
	return c.quickOp(aluAdd, 1)
}

func (c *CPU) opSubq() uint16 {
	return c.quickOp(aluSub, 0xffffffff)
}

// Fetch immediate operand of size.
func (c *CPU) immediate(size int) (uint32, uint16) {
	if size == 4 {
		return c.fetchLong()
	}
	w, exc := c.fetchWord()
	return uint32(w) & sizeMask(size), exc
}

// ADDI, SUBI and CMPI.
func (c *CPU) immArith(f aluFunc, store bool, allowed int) uint16 {
	size := c.opSize()
	imm, exc := c.immediate(size)
	if exc != vecNone {
		return exc
	}
	op, exc := c.srcEA(size, allowed)
	if exc != vecNone {
		return exc
	}
	d, exc := c.readOp(&op, size)
	if exc != vecNone {
		return exc
	}
	r := f(c, imm, d, size)
	c.cyc += 8
	if size == 4 {
		c.cyc += 8
	}
	if !store {
		return vecNone
	}
	return c.writeOp(&op, size, r)
}

func (c *CPU) opAddi() uint16 {
	return c.immArith(aluAdd, true, eaDataAlt)
}

func (c *CPU) opSubi() uint16 {
	return c.immArith(aluSub, true, eaDataAlt)
}

func (c *CPU) opCmpi() uint16 {
	return c.immArith(aluCmp, false, eaDataAlt)
}

// Single operand read-modify-write.
func (c *CPU) unary(f func(d uint32, size int) uint32) uint16 {
	size := c.opSize()
	op, exc := c.srcEA(size, eaDataAlt)
	if exc != vecNone {
		return exc
	}
	d, exc := c.readOp(&op, size)
	if exc != vecNone {
		return exc
	}
	r := f(d, size)
	if op.kind == opData {
		c.cyc += 4
		if size == 4 {
			c.cyc += 2
		}
	} else {
		c.cyc += 8
		if size == 4 {
			c.cyc += 4
		}
	}
	return c.writeOp(&op, size, r)
}

func (c *CPU) opNeg() uint16 {
	return c.unary(func(d uint32, size int) uint32 {
		return aluSub(c, d, 0, size)
	})
}

func (c *CPU) opNegx() uint16 {
	return c.unary(func(d uint32, size int) uint32 {
		r := (0 - d - c.xbit()) & sizeMask(size)
		c.setCC(ccrMask, c.stickyZ(subFlags(d, 0, r, size), r, size))
		return r
	})
}

func (c *CPU) opNot() uint16 {
	return c.unary(func(d uint32, size int) uint32 {
		r := ^d & sizeMask(size)
		c.logicFlags(r, size)
		return r
	})
}

func (c *CPU) opClr() uint16 {
	size := c.opSize()
	op, exc := c.srcEA(size, eaDataAlt)
	if exc != vecNone {
		return exc
	}
	c.cyc += 4
	if size == 4 {
		c.cyc += 2
	}
	if exc := c.writeOp(&op, size, 0); exc != vecNone {
		return exc
	}
	c.setCC(flagN|flagZ|flagV|flagC, flagZ)
	return vecNone
}

func (c *CPU) opTst() uint16 {
	size := c.opSize()
	v, exc := c.srcValue(size, eaDataAlt)
	if exc != vecNone {
		return exc
	}
	c.logicFlags(v, size)
	c.cyc += 4
	return vecNone
}

func (c *CPU) opMulu() uint16 {
	s, exc := c.srcValue(2, eaData)
	if exc != vecNone {
		return exc
	}
	dn := (c.ir >> 9) & 7
	r := (c.d[dn] & 0xffff) * s
	c.d[dn] = r
	c.logicFlags(r, 4)
	c.cyc += 70
	return vecNone
}

func (c *CPU) opMuls() uint16 {
	s, exc := c.srcValue(2, eaData)
	if exc != vecNone {
		return exc
	}
	dn := (c.ir >> 9) & 7
	r := uint32(int32(int16(c.d[dn])) * int32(int16(s)))
	c.d[dn] = r
	c.logicFlags(r, 4)
	c.cyc += 70
	return vecNone
}

func (c *CPU) opDivu() uint16 {
	s, exc := c.srcValue(2, eaData)
	if exc != vecNone {
		return exc
	}
	if s == 0 {
		c.cyc += 38
		return vecZeroDivide
	}
	dn := (c.ir >> 9) & 7
	q := c.d[dn] / s
	rem := c.d[dn] % s
	c.cyc += 140
	if q > 0xffff {
		c.setCC(flagV|flagC, flagV)
		return vecNone
	}
	c.d[dn] = rem<<16 | q
	c.logicFlags(q, 2)
	return vecNone
}

func (c *CPU) opDivs() uint16 {
	s, exc := c.srcValue(2, eaData)
	if exc != vecNone {
		return exc
	}
	if s == 0 {
		c.cyc += 38
		return vecZeroDivide
	}
	dn := (c.ir >> 9) & 7
	dividend := int64(int32(c.d[dn]))
	divisor := int64(int16(s))
	q := dividend / divisor
	rem := dividend % divisor
	c.cyc += 158
	if q < -32768 || q > 32767 {
		c.setCC(flagV|flagC, flagV)
		return vecNone
	}
	c.d[dn] = uint32(rem&0xffff)<<16 | uint32(q&0xffff)
	c.logicFlags(uint32(q), 2)
	return vecNone
}

func (c *CPU) opChk() uint16 {
	bound, exc := c.srcValue(2, eaData)
	if exc != vecNone {
		return exc
	}
	val := int16(c.d[(c.ir>>9)&7])
	c.cyc += 10
	if val < 0 {
		c.setCC(flagN, flagN)
		return vecCHK
	}
	if val > int16(bound) {
		c.setCC(flagN, 0)
		return vecCHK
	}
	return vecNone
}

// Decimal add of bytes with extend.
func bcdAdd(s, d, x uint32) (uint32, bool) {
	res := (s & 0x0f) + (d & 0x0f) + x
	if res > 9 {
		res += 6
	}
	res += (s & 0xf0) + (d & 0xf0)
	carry := res > 0x99
	if carry {
		res -= 0xa0
	}
	return res & 0xff, carry
}

// Decimal subtract s from d with extend.
func bcdSub(s, d, x uint32) (uint32, bool) {
	res := (d & 0x0f) - (s & 0x0f) - x
	if res > 9 {
		res -= 6
	}
	res += (d & 0xf0) - (s & 0xf0)
	borrow := res > 0x99
	if borrow {
		res += 0xa0
	}
	return res & 0xff, borrow
}

// Flags after decimal arithmetic.
func (c *CPU) bcdFlags(res uint32, carry bool) {
	f := c.stickyZ(nz(res, 1), res, 1)
	if carry {
		f |= flagC | flagX
	}
	c.setCC(flagX|flagN|flagZ|flagC, f)
}

// OR Dn,<ea> byte or SBCD.
func (c *CPU) opOrSbcd() uint16 {
	if (c.ir>>3)&7 >= 2 {
		return c.toEA(1, eaMemAlt, aluOr)
	}
	dst, s, d, exc := c.extendOperands(1)
	if exc != vecNone {
		return exc
	}
	r, borrow := bcdSub(s, d, c.xbit())
	c.bcdFlags(r, borrow)
	c.cyc += 2
	return c.writeOp(&dst, 1, r)
}

// AND Dn,<ea> byte or ABCD.
func (c *CPU) opAndAbcd() uint16 {
	if (c.ir>>3)&7 >= 2 {
		return c.toEA(1, eaMemAlt, aluAnd)
	}
	dst, s, d, exc := c.extendOperands(1)
	if exc != vecNone {
		return exc
	}
	r, carry := bcdAdd(s, d, c.xbit())
	c.bcdFlags(r, carry)
	c.cyc += 2
	return c.writeOp(&dst, 1, r)
}

func (c *CPU) opNbcd() uint16 {
	op, exc := c.srcEA(1, eaDataAlt)
	if exc != vecNone {
		return exc
	}
	d, exc := c.readOp(&op, 1)
	if exc != vecNone {
		return exc
	}
	r, borrow := bcdSub(d, 0, c.xbit())
	c.bcdFlags(r, borrow)
	c.cyc += 6
	return c.writeOp(&op, 1, r)
}
