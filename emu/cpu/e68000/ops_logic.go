/*
 * PCE - 68000 logical instructions
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

func (c *CPU) opOr() uint16 {
	size := c.opSize()
	if c.ir&0x100 == 0 {
		return c.toDn(size, eaData, aluOr, true)
	}
	return c.toEA(size, eaMemAlt, aluOr)
}

func (c *CPU) opAnd() uint16 {
	size := c.opSize()
	if c.ir&0x100 == 0 {
		return c.toDn(size, eaData, aluAnd, true)
	}
	return c.toEA(size, eaMemAlt, aluAnd)
}

// EOR Dn,<ea> or CMPM (Ay)+,(Ax)+.
func (c *CPU) opEorCmpm() uint16 {
	size := c.opSize()
	if (c.ir>>3)&7 != 1 {
		return c.toEA(size, eaDataAlt, aluEor)
	}
	src, exc := c.ea(3, uint8(c.ir)&7, size)
	if exc != vecNone {
		return exc
	}
	s, exc := c.readOp(&src, size)
	if exc != vecNone {
		return exc
	}
	dst, exc := c.ea(3, uint8(c.ir>>9)&7, size)
	if exc != vecNone {
		return exc
	}
	d, exc := c.readOp(&dst, size)
	if exc != vecNone {
		return exc
	}
	aluCmp(c, s, d, size)
	c.cyc += 4
	return vecNone
}

// AND Dn,<ea> or EXG.
func (c *CPU) opAndExg() uint16 {
	om := (c.ir >> 6) & 7
	mode := (c.ir >> 3) & 7
	rx := (c.ir >> 9) & 7
	ry := c.ir & 7
	switch {
	case om == 5 && mode == 0:
		c.d[rx], c.d[ry] = c.d[ry], c.d[rx]
	case om == 5 && mode == 1:
		c.a[rx], c.a[ry] = c.a[ry], c.a[rx]
	case om == 6 && mode == 1:
		c.d[rx], c.a[ry] = c.a[ry], c.d[rx]
	default:
		return c.toEA(c.opSize(), eaMemAlt, aluAnd)
	}
	c.cyc += 6
	return vecNone
}

// ORI, ANDI and EORI, including the CCR and SR forms.
func (c *CPU) immLogic(f aluFunc, op func(a, b uint16) uint16) uint16 {
	if c.ir&0x3f != 0x3c {
		return c.immArith(f, true, eaDataAlt)
	}
	size := c.opSize()
	switch size {
	case 1:
		imm, exc := c.fetchWord()
		if exc != vecNone {
			return exc
		}
		c.sr = (c.sr &^ ccrMask) | (op(c.sr, imm) & ccrMask)
	case 2:
		if exc := c.privileged(); exc != vecNone {
			return exc
		}
		imm, exc := c.fetchWord()
		if exc != vecNone {
			return exc
		}
		c.setSR(op(c.sr, imm))
	default:
		return c.undefined()
	}
	c.cyc += 20
	return vecNone
}

func (c *CPU) opOri() uint16 {
	return c.immLogic(aluOr, func(a, b uint16) uint16 { return a | b })
}

func (c *CPU) opAndi() uint16 {
	return c.immLogic(aluAnd, func(a, b uint16) uint16 { return a & b })
}

func (c *CPU) opEori() uint16 {
	return c.immLogic(aluEor, func(a, b uint16) uint16 { return a ^ b })
}
