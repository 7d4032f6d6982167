/*
 * PCE - 6502 instructions
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

// Operand of current instruction.
func (c *CPU) operand() uint8 {
	if c.mode == modeAcc {
		return c.a
	}
	return c.mem.GetUint8(uint32(c.ea))
}

func (c *CPU) setOperand(v uint8) {
	if c.mode == modeAcc {
		c.a = v
		return
	}
	c.mem.SetUint8(uint32(c.ea), v)
}

func (c *CPU) setFlag(f uint8, on bool) {
	if on {
		c.p |= f
	} else {
		c.p &^= f
	}
}

func (c *CPU) setNZ(v uint8) {
	c.setFlag(flagZ, v == 0)
	c.setFlag(flagN, v&0x80 != 0)
}

func (c *CPU) load(r *uint8) func() {
	return func() {
		*r = c.operand()
		c.setNZ(*r)
	}
}

func (c *CPU) store(r *uint8) func() {
	return func() {
		c.setOperand(*r)
	}
}

func (c *CPU) transfer(src, dst *uint8) func() {
	return func() {
		*dst = *src
		c.setNZ(*dst)
	}
}

func (c *CPU) opTxs() {
	c.s = c.x
}

// INX, INY, DEX and DEY.
func (c *CPU) step(r *uint8, delta uint8) func() {
	return func() {
		*r += delta
		c.setNZ(*r)
	}
}

func (c *CPU) flag(f uint8, on bool) func() {
	return func() {
		c.setFlag(f, on)
	}
}

func (c *CPU) opOra() {
	c.a |= c.operand()
	c.setNZ(c.a)
}

func (c *CPU) opAnd() {
	c.a &= c.operand()
	c.setNZ(c.a)
}

func (c *CPU) opEor() {
	c.a ^= c.operand()
	c.setNZ(c.a)
}

func (c *CPU) carry() uint16 {
	return uint16(c.p & flagC)
}

func (c *CPU) opAdc() {
	m := c.operand()
	if c.p&flagD != 0 && c.decimal {
		c.adcDecimal(m)
		return
	}
	c.adcBinary(m)
}

func (c *CPU) adcBinary(m uint8) {
	sum := uint16(c.a) + uint16(m) + c.carry()
	r := uint8(sum)
	c.setFlag(flagC, sum > 0xff)
	c.setFlag(flagV, (^(c.a^m))&(c.a^r)&0x80 != 0)
	c.a = r
	c.setNZ(r)
}

// NMOS decimal add, Z comes from the binary sum, N and V from the
// intermediate high digit.
func (c *CPU) adcDecimal(m uint8) {
	bin := c.a + m + uint8(c.carry())
	lo := uint16(c.a&0x0f) + uint16(m&0x0f) + c.carry()
	if lo > 9 {
		lo += 6
	}
	hi := uint16(c.a>>4) + uint16(m>>4)
	if lo > 0x0f {
		hi++
	}
	c.setFlag(flagZ, bin == 0)
	c.setFlag(flagN, hi&0x08 != 0)
	c.setFlag(flagV, (uint16(c.a)^(hi<<4))&^uint16(c.a^m)&0x80 != 0)
	if hi > 9 {
		hi += 6
	}
	c.setFlag(flagC, hi > 0x0f)
	c.a = uint8(hi<<4) | uint8(lo&0x0f)
}

func (c *CPU) opSbc() {
	m := c.operand()
	if c.p&flagD == 0 || !c.decimal {
		c.adcBinary(^m)
		return
	}
	// Flags follow the binary result.
	a := c.a
	borrow := 1 - int(c.carry())
	lo := int(a&0x0f) - int(m&0x0f) - borrow
	hi := int(a>>4) - int(m>>4)
	if lo < 0 {
		lo -= 6
		hi--
	}
	if hi < 0 {
		hi -= 6
	}
	c.adcBinary(^m)
	c.a = uint8(hi<<4) | uint8(lo&0x0f)
}

func (c *CPU) compare(r *uint8) func() {
	return func() {
		m := c.operand()
		c.setFlag(flagC, *r >= m)
		c.setNZ(*r - m)
	}
}

func (c *CPU) opBit() {
	m := c.operand()
	c.setFlag(flagZ, c.a&m == 0)
	c.setFlag(flagN, m&0x80 != 0)
	c.setFlag(flagV, m&0x40 != 0)
}

func (c *CPU) opAsl() {
	m := c.operand()
	c.setFlag(flagC, m&0x80 != 0)
	m <<= 1
	c.setOperand(m)
	c.setNZ(m)
}

func (c *CPU) opLsr() {
	m := c.operand()
	c.setFlag(flagC, m&1 != 0)
	m >>= 1
	c.setOperand(m)
	c.setNZ(m)
}

func (c *CPU) opRol() {
	m := c.operand()
	ci := c.p & flagC
	c.setFlag(flagC, m&0x80 != 0)
	m = m<<1 | ci
	c.setOperand(m)
	c.setNZ(m)
}

func (c *CPU) opRor() {
	m := c.operand()
	ci := (c.p & flagC) << 7
	c.setFlag(flagC, m&1 != 0)
	m = m>>1 | ci
	c.setOperand(m)
	c.setNZ(m)
}

func (c *CPU) opInc() {
	m := c.operand() + 1
	c.setOperand(m)
	c.setNZ(m)
}

func (c *CPU) opDec() {
	m := c.operand() - 1
	c.setOperand(m)
	c.setNZ(m)
}

// Branch when flag f equals set. Taken costs one, two if page crossed.
func (c *CPU) branch(f uint8, set bool) func() {
	return func() {
		if (c.p&f != 0) != set {
			return
		}
		c.cyc++
		if c.crossed {
			c.cyc++
		}
		c.pc = c.ea
	}
}

func (c *CPU) opJmp() {
	c.pc = c.ea
}

func (c *CPU) opJsr() {
	c.push16(c.pc - 1)
	c.pc = c.ea
}

func (c *CPU) opRts() {
	c.pc = c.pull16() + 1
}

func (c *CPU) opRti() {
	c.p = (c.pull() | flagU) &^ flagB
	c.pc = c.pull16()
}

// BRK skips a signature byte.
func (c *CPU) opBrk() {
	c.interrupt(vecIRQ, c.pc+1, true)
}

func (c *CPU) opPhp() {
	c.push(c.p | flagB | flagU)
}

func (c *CPU) opPlp() {
	c.p = (c.pull() | flagU) &^ flagB
}

func (c *CPU) opPha() {
	c.push(c.a)
}

func (c *CPU) opPla() {
	c.a = c.pull()
	c.setNZ(c.a)
}

func (c *CPU) opNop() {
}
