/*
 * PCE - 68000 data movement instructions
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

// Destination field of move instructions.
func (c *CPU) moveDest(size int) (operand, uint16) {
	mode := uint8(c.ir>>6) & 7
	reg := uint8(c.ir>>9) & 7
	if !eaValid(mode, reg, eaDataAlt) {
		return operand{}, c.undefined()
	}
	op, exc := c.ea(mode, reg, size)
	if mode == 4 {
		c.cyc -= 2
	}
	return op, exc
}

func (c *CPU) opMove() uint16 {
	size := c.opSize()
	s, exc := c.srcValue(size, arithSrc(size))
	if exc != vecNone {
		return exc
	}
	dst, exc := c.moveDest(size)
	if exc != vecNone {
		return exc
	}
	c.cyc += 4
	if exc := c.writeOp(&dst, size, s); exc != vecNone {
		return exc
	}
	c.logicFlags(s, size)
	return vecNone
}

func (c *CPU) opMovea() uint16 {
	size := c.opSize()
	s, exc := c.srcValue(size, eaAll)
	if exc != vecNone {
		return exc
	}
	c.a[(c.ir>>9)&7] = signExtend(s, size)
	c.cyc += 4
	return vecNone
}

func (c *CPU) opMoveq() uint16 {
	v := uint32(int32(int8(c.ir)))
	c.d[(c.ir>>9)&7] = v
	c.logicFlags(v, 4)
	c.cyc += 4
	return vecNone
}

func (c *CPU) opLea() uint16 {
	op, exc := c.srcEA(4, eaControl)
	if exc != vecNone {
		return exc
	}
	c.a[(c.ir>>9)&7] = op.addr
	c.cyc += 4
	return vecNone
}

// SWAP Dn or PEA <ea>.
func (c *CPU) opSwapPea() uint16 {
	if (c.ir>>3)&7 == 0 {
		dn := c.ir & 7
		v := c.d[dn]<<16 | c.d[dn]>>16
		c.d[dn] = v
		c.logicFlags(v, 4)
		c.cyc += 4
		return vecNone
	}
	op, exc := c.srcEA(4, eaControl)
	if exc != vecNone {
		return exc
	}
	c.cyc += 12
	return c.push(4, op.addr)
}

// EXT Dn or MOVEM registers to memory.
func (c *CPU) opExtMovemOut() uint16 {
	size := c.opSize()
	if (c.ir>>3)&7 == 0 {
		dn := c.ir & 7
		if size == 2 {
			c.d[dn] = merge(c.d[dn], signExtend(c.d[dn], 1), 2)
		} else {
			c.d[dn] = signExtend(c.d[dn], 2)
		}
		c.logicFlags(c.d[dn], size)
		c.cyc += 4
		return vecNone
	}

	mask, exc := c.fetchWord()
	if exc != vecNone {
		return exc
	}
	mode := uint8(c.ir>>3) & 7
	reg := uint8(c.ir) & 7
	if !eaValid(mode, reg, eaMovemOut) {
		return c.undefined()
	}

	if mode == 4 {
		addr := c.a[reg]
		for i := range 16 {
			if mask&(1<<i) == 0 {
				continue
			}
			addr -= uint32(size)
			if exc := c.write(size, addr, c.regN(15-i)); exc != vecNone {
				return exc
			}
			c.cyc += uint64(2 * size)
		}
		c.a[reg] = addr
		c.cyc += 8
		return vecNone
	}

	op, exc := c.ea(mode, reg, size)
	if exc != vecNone {
		return exc
	}
	addr := op.addr
	for i := range 16 {
		if mask&(1<<i) == 0 {
			continue
		}
		if exc := c.write(size, addr, c.regN(i)); exc != vecNone {
			return exc
		}
		addr += uint32(size)
		c.cyc += uint64(2 * size)
	}
	c.cyc += 4
	return vecNone
}

// MOVEM memory to registers.
func (c *CPU) opMovemIn() uint16 {
	size := c.opSize()
	mask, exc := c.fetchWord()
	if exc != vecNone {
		return exc
	}
	mode := uint8(c.ir>>3) & 7
	reg := uint8(c.ir) & 7
	if !eaValid(mode, reg, eaMovemIn) {
		return c.undefined()
	}
	var addr uint32
	if mode == 3 {
		addr = c.a[reg]
	} else {
		op, exc := c.ea(mode, reg, size)
		if exc != vecNone {
			return exc
		}
		addr = op.addr
	}
	for i := range 16 {
		if mask&(1<<i) == 0 {
			continue
		}
		v, exc := c.read(size, addr)
		if exc != vecNone {
			return exc
		}
		c.setRegN(i, signExtend(v, size))
		addr += uint32(size)
		c.cyc += uint64(2 * size)
	}
	if mode == 3 {
		c.a[reg] = addr
	}
	c.cyc += 12
	return vecNone
}

// Register by MOVEM number, D0-D7 then A0-A7.
func (c *CPU) regN(n int) uint32 {
	if n < 8 {
		return c.d[n]
	}
	return c.a[n-8]
}

func (c *CPU) setRegN(n int, v uint32) {
	if n < 8 {
		c.d[n] = v
	} else {
		c.a[n-8] = v
	}
}

func (c *CPU) opMoveFromSR() uint16 {
	op, exc := c.srcEA(2, eaDataAlt)
	if exc != vecNone {
		return exc
	}
	c.cyc += 6
	return c.writeOp(&op, 2, uint32(c.sr))
}

func (c *CPU) opMoveToCCR() uint16 {
	v, exc := c.srcValue(2, eaData)
	if exc != vecNone {
		return exc
	}
	c.sr = (c.sr &^ ccrMask) | (uint16(v) & ccrMask)
	c.cyc += 12
	return vecNone
}

func (c *CPU) opMoveToSR() uint16 {
	if exc := c.privileged(); exc != vecNone {
		return exc
	}
	v, exc := c.srcValue(2, eaData)
	if exc != vecNone {
		return exc
	}
	c.setSR(uint16(v))
	c.cyc += 12
	return vecNone
}

// TAS, or ILLEGAL for the immediate form.
func (c *CPU) opTas() uint16 {
	op, exc := c.srcEA(1, eaDataAlt)
	if exc != vecNone {
		return exc
	}
	v, exc := c.readOp(&op, 1)
	if exc != vecNone {
		return exc
	}
	c.logicFlags(v, 1)
	c.cyc += 4
	if op.kind != opData {
		c.cyc += 6
	}
	return c.writeOp(&op, 1, v|0x80)
}
