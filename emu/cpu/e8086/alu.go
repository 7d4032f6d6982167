/*
 * PCE - 8086 arithmetic and flags
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
	"math/bits"
)

// ALU operations in encoding order.
const (
	aluADD = iota
	aluOR
	aluADC
	aluSBB
	aluAND
	aluSUB
	aluXOR
	aluCMP
)

var aluNames = [8]string{"ADD", "OR", "ADC", "SBB", "AND", "SUB", "XOR", "CMP"}

func widthMask(w bool) (uint32, uint32) {
	if w {
		return 0xffff, 0x8000
	}
	return 0xff, 0x80
}

func (c *CPU) setFlag(f uint16, on bool) {
	if on {
		c.flags |= f
	} else {
		c.flags &^= f
	}
}

func (c *CPU) carry() uint32 {
	return uint32(c.flags & flagCF)
}

// Sign, zero and parity of the low byte.
func (c *CPU) setSZP(r uint32, w bool) {
	mask, sign := widthMask(w)
	r &= mask
	c.setFlag(flagZF, r == 0)
	c.setFlag(flagSF, r&sign != 0)
	c.setFlag(flagPF, bits.OnesCount8(uint8(r))%2 == 0)
}

func (c *CPU) add(a, b, ci uint32, w bool) uint32 {
	mask, sign := widthMask(w)
	sum := a + b + ci
	r := sum & mask
	c.setFlag(flagCF, sum > mask)
	c.setFlag(flagAF, (a^b^r)&0x10 != 0)
	c.setFlag(flagOF, (a^r)&(b^r)&sign != 0)
	c.setSZP(r, w)
	return r
}

func (c *CPU) sub(a, b, bi uint32, w bool) uint32 {
	mask, sign := widthMask(w)
	r := (a - b - bi) & mask
	c.setFlag(flagCF, a < b+bi)
	c.setFlag(flagAF, (a^b^r)&0x10 != 0)
	c.setFlag(flagOF, (a^b)&(a^r)&sign != 0)
	c.setSZP(r, w)
	return r
}

func (c *CPU) logic(r uint32, w bool) uint32 {
	c.flags &^= flagCF | flagOF | flagAF
	c.setSZP(r, w)
	mask, _ := widthMask(w)
	return r & mask
}

// Apply ALU operation, CMP returns a unchanged.
func (c *CPU) alu(op int, a, b uint32, w bool) uint32 {
	switch op {
	case aluADD:
		return c.add(a, b, 0, w)
	case aluOR:
		return c.logic(a|b, w)
	case aluADC:
		return c.add(a, b, c.carry(), w)
	case aluSBB:
		return c.sub(a, b, c.carry(), w)
	case aluAND:
		return c.logic(a&b, w)
	case aluSUB:
		return c.sub(a, b, 0, w)
	case aluXOR:
		return c.logic(a^b, w)
	default:
		c.sub(a, b, 0, w)
		return a
	}
}

// INC and DEC leave CF alone.
func (c *CPU) incDec(v uint32, dec bool, w bool) uint32 {
	cf := c.flags & flagCF
	if dec {
		v = c.sub(v, 1, 0, w)
	} else {
		v = c.add(v, 1, 0, w)
	}
	c.flags = c.flags&^flagCF | cf
	return v
}

// Shift and rotate operations in encoding order.
const (
	shROL = iota
	shROR
	shRCL
	shRCR
	shSHL
	shSHR
	shSAL
	shSAR
)

var shiftNames = [8]string{"ROL", "ROR", "RCL", "RCR", "SHL", "SHR", "SAL", "SAR"}

// Shift v by count bits one at a time.
func (c *CPU) shift(op int, v uint32, count uint8, w bool) uint32 {
	if c.level >= level186 {
		count &= 31
	}
	if count == 0 {
		return v
	}
	mask, sign := widthMask(w)
	orig := v
	cf := c.flags&flagCF != 0
	for range count {
		switch op {
		case shROL:
			cf = v&sign != 0
			v = (v << 1) & mask
			if cf {
				v |= 1
			}
		case shROR:
			cf = v&1 != 0
			v >>= 1
			if cf {
				v |= sign
			}
		case shRCL:
			out := v&sign != 0
			v = (v << 1) & mask
			if cf {
				v |= 1
			}
			cf = out
		case shRCR:
			out := v&1 != 0
			v >>= 1
			if cf {
				v |= sign
			}
			cf = out
		case shSHL, shSAL:
			cf = v&sign != 0
			v = (v << 1) & mask
		case shSHR:
			cf = v&1 != 0
			v >>= 1
		case shSAR:
			cf = v&1 != 0
			v = v>>1 | v&sign
		}
	}
	c.setFlag(flagCF, cf)
	msb := v&sign != 0
	switch op {
	case shROL, shRCL, shSHL, shSAL:
		c.setFlag(flagOF, msb != cf)
	case shROR, shRCR:
		c.setFlag(flagOF, msb != (v&(sign>>1) != 0))
	case shSHR:
		c.setFlag(flagOF, orig&sign != 0)
	case shSAR:
		c.flags &^= flagOF
	}
	if op >= shSHL {
		c.setSZP(v, w)
	}
	return v
}

// MUL and IMUL into AX or DX:AX.
func (c *CPU) multiply(src uint32, signed bool, w bool) {
	var hi uint32
	var ext bool
	if w {
		var r uint32
		if signed {
			r = uint32(int32(int16(c.regs[regAX])) * int32(int16(src)))
			ext = int32(r) == int32(int16(r))
		} else {
			r = uint32(c.regs[regAX]) * src
			ext = r>>16 == 0
		}
		c.regs[regAX] = uint16(r)
		c.regs[regDX] = uint16(r >> 16)
		hi = r >> 16
	} else {
		var r uint16
		if signed {
			r = uint16(int16(int8(c.regs[regAX])) * int16(int8(src)))
			ext = int16(r) == int16(int8(r))
		} else {
			r = uint16(uint8(c.regs[regAX])) * uint16(src)
			ext = r>>8 == 0
		}
		c.regs[regAX] = r
		hi = uint32(r >> 8)
	}
	c.setFlag(flagCF, !ext)
	c.setFlag(flagOF, !ext)
	c.setFlag(flagZF, hi == 0)
}

// DIV and IDIV, false on divide error.
func (c *CPU) divide(src uint32, signed bool, w bool) bool {
	if src == 0 {
		return false
	}
	// The 8086 cannot return the most negative quotient.
	minQ8, minQ16 := int64(-127), int64(-32767)
	if c.level >= level186 {
		minQ8, minQ16 = -128, -32768
	}
	if w {
		num := uint32(c.regs[regDX])<<16 | uint32(c.regs[regAX])
		if signed {
			n := int64(int32(num))
			d := int64(int16(src))
			q, r := n/d, n%d
			if q > 32767 || q < minQ16 {
				return false
			}
			c.regs[regAX] = uint16(q)
			c.regs[regDX] = uint16(r)
			return true
		}
		q, r := num/src, num%src
		if q > 0xffff {
			return false
		}
		c.regs[regAX] = uint16(q)
		c.regs[regDX] = uint16(r)
		return true
	}

	num := uint32(c.regs[regAX])
	if signed {
		n := int64(int16(num))
		d := int64(int8(src))
		q, r := n/d, n%d
		if q > 127 || q < minQ8 {
			return false
		}
		c.setReg8(0, uint8(q))
		c.setReg8(4, uint8(r))
		return true
	}
	q, r := num/src, num%src
	if q > 0xff {
		return false
	}
	c.setReg8(0, uint8(q))
	c.setReg8(4, uint8(r))
	return true
}
