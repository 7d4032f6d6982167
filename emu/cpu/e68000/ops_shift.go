/*
 * PCE - 68000 shift, rotate and bit instructions
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

// Shift types in bits 4-3 of register forms and 10-9 of memory forms.
const (
	shiftAS = iota
	shiftLS
	shiftROX
	shiftRO
)

var shiftNames = [4]string{"as", "ls", "rox", "ro"}

var bitNames = [4]string{"btst", "bchg", "bclr", "bset"}

// Shift val by count, setting flags.
func (c *CPU) shift(kind int, left bool, val uint32, count uint32, size int) uint32 {
	m := sizeMask(size)
	msb := signBit(size)
	val &= m
	x := c.sr&flagX != 0
	carry := false
	overflow := false
	for range count {
		switch kind {
		case shiftAS:
			if left {
				carry = val&msb != 0
				val = (val << 1) & m
				if (val&msb != 0) != carry {
					overflow = true
				}
			} else {
				carry = val&1 != 0
				val = (val >> 1) | (val & msb)
			}
		case shiftLS:
			if left {
				carry = val&msb != 0
				val = (val << 1) & m
			} else {
				carry = val&1 != 0
				val >>= 1
			}
		case shiftROX:
			if left {
				carry = val&msb != 0
				val = (val << 1) & m
				if x {
					val |= 1
				}
			} else {
				carry = val&1 != 0
				val >>= 1
				if x {
					val |= msb
				}
			}
			x = carry
		case shiftRO:
			if left {
				carry = val&msb != 0
				val = (val << 1) & m
				if carry {
					val |= 1
				}
			} else {
				carry = val&1 != 0
				val >>= 1
				if carry {
					val |= msb
				}
			}
		}
	}

	f := nz(val, size)
	if overflow {
		f |= flagV
	}
	mask := flagN | flagZ | flagV | flagC
	switch {
	case count == 0:
		if kind == shiftROX && x {
			f |= flagC
		}
	case kind == shiftRO:
		if carry {
			f |= flagC
		}
	default:
		mask |= flagX
		if carry {
			f |= flagC | flagX
		}
	}
	c.setCC(mask, f)
	return val
}

// Shift or rotate data register.
func (c *CPU) opShiftReg() uint16 {
	size := c.opSize()
	kind := int(c.ir>>3) & 3
	left := c.ir&0x100 != 0
	dn := c.ir & 7
	count := uint32(c.ir>>9) & 7
	if c.ir&0x20 != 0 {
		count = c.d[count] & 63
	} else if count == 0 {
		count = 8
	}
	r := c.shift(kind, left, c.d[dn], count, size)
	c.d[dn] = merge(c.d[dn], r, size)
	c.cyc += 6 + 2*uint64(count)
	if size == 4 {
		c.cyc += 2
	}
	return vecNone
}

// Shift or rotate memory word by one.
func (c *CPU) opShiftMem() uint16 {
	op, exc := c.srcEA(2, eaMemAlt)
	if exc != vecNone {
		return exc
	}
	v, exc := c.readOp(&op, 2)
	if exc != vecNone {
		return exc
	}
	r := c.shift(int(c.ir>>9)&3, c.ir&0x100 != 0, v, 1, 2)
	c.cyc += 8
	return c.writeOp(&op, 2, r)
}

// Apply bit operation to operand, Z reflects the old bit.
func (c *CPU) bitOp(bit uint32, allowed int) uint16 {
	kind := (c.ir >> 6) & 3
	if kind != 0 {
		allowed &= eaDataAlt
	}
	mode := (c.ir >> 3) & 7
	size := 1
	if mode == 0 {
		size = 4
		bit &= 31
		c.cyc += 2
	} else {
		bit &= 7
	}
	op, exc := c.srcEA(size, allowed)
	if exc != vecNone {
		return exc
	}
	v, exc := c.readOp(&op, size)
	if exc != vecNone {
		return exc
	}
	mask := uint32(1) << bit
	if v&mask == 0 {
		c.setCC(flagZ, flagZ)
	} else {
		c.setCC(flagZ, 0)
	}
	c.cyc += 4
	switch kind {
	case 0:
		return vecNone
	case 1:
		v ^= mask
	case 2:
		v &^= mask
	case 3:
		v |= mask
	}
	c.cyc += 4
	return c.writeOp(&op, size, v)
}

// Bit operation numbered by data register, or MOVEP.
func (c *CPU) opBitDyn() uint16 {
	if (c.ir>>3)&7 == 1 {
		return c.movep()
	}
	return c.bitOp(c.d[(c.ir>>9)&7], eaData)
}

// Bit operation numbered by immediate.
func (c *CPU) opBitImm() uint16 {
	bit, exc := c.fetchWord()
	if exc != vecNone {
		return exc
	}
	c.cyc += 4
	return c.bitOp(uint32(bit), eaData&^eaImm)
}

// Transfer alternate bytes between a data register and memory.
func (c *CPU) movep() uint16 {
	disp, exc := c.fetchWord()
	if exc != vecNone {
		return exc
	}
	dn := (c.ir >> 9) & 7
	addr := c.a[c.ir&7] + uint32(int32(int16(disp)))
	n := 2
	if c.ir&0x40 != 0 {
		n = 4
	}
	if c.ir&0x80 != 0 {
		for i := range n {
			shift := uint(8 * (n - 1 - i))
			c.mem.SetUint8((addr+uint32(2*i))&addrMask, uint8(c.d[dn]>>shift))
		}
	} else {
		var v uint32
		for i := range n {
			v = v<<8 | uint32(c.mem.GetUint8((addr+uint32(2*i))&addrMask))
		}
		c.d[dn] = merge(c.d[dn], v, n)
	}
	c.cyc += 8 + 4*uint64(n)
	return vecNone
}
