/*
 * PCE - 8086 operand decoding
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

// Twenty bit linear address.
func linear(seg, off uint16) uint32 {
	return (uint32(seg)<<4 + uint32(off)) & 0xfffff
}

func (c *CPU) readByte(seg uint16, off uint16) uint8 {
	return c.mem.GetUint8(linear(seg, off))
}

// Word access, the offset wraps within the segment.
func (c *CPU) readWord(seg uint16, off uint16) uint16 {
	if c.byteBus {
		c.cyc += 4
	}
	lo := uint16(c.readByte(seg, off))
	return lo | uint16(c.readByte(seg, off+1))<<8
}

func (c *CPU) writeByte(seg uint16, off uint16, v uint8) {
	c.mem.SetUint8(linear(seg, off), v)
}

func (c *CPU) writeWord(seg uint16, off uint16, v uint16) {
	if c.byteBus {
		c.cyc += 4
	}
	c.writeByte(seg, off, uint8(v))
	c.writeByte(seg, off+1, uint8(v>>8))
}

func (c *CPU) fetch8() uint8 {
	v := c.readByte(c.sregs[segCS], c.ip)
	c.ip++
	return v
}

func (c *CPU) fetch16() uint16 {
	lo := uint16(c.fetch8())
	return lo | uint16(c.fetch8())<<8
}

func (c *CPU) push(v uint16) {
	c.regs[regSP] -= 2
	c.writeWord(c.sregs[segSS], c.regs[regSP], v)
}

func (c *CPU) pop() uint16 {
	v := c.readWord(c.sregs[segSS], c.regs[regSP])
	c.regs[regSP] += 2
	return v
}

// Segment for a data access, default unless overridden.
func (c *CPU) dataSeg(def int) uint16 {
	if c.segOver >= 0 {
		return c.sregs[c.segOver]
	}
	return c.sregs[def]
}

// Byte registers AL CL DL BL AH CH DH BH.
func (c *CPU) getReg8(r uint8) uint8 {
	if r < 4 {
		return uint8(c.regs[r])
	}
	return uint8(c.regs[r-4] >> 8)
}

func (c *CPU) setReg8(r uint8, v uint8) {
	if r < 4 {
		c.regs[r] = c.regs[r]&0xff00 | uint16(v)
		return
	}
	c.regs[r-4] = c.regs[r-4]&0x00ff | uint16(v)<<8
}

// Effective address base registers and times for each rm value.
var eaBase = [8]struct {
	base, index int
	seg         int
	cyc         uint64
}{
	{regBX, regSI, segDS, 7},
	{regBX, regDI, segDS, 8},
	{regBP, regSI, segSS, 8},
	{regBP, regDI, segSS, 7},
	{regSI, -1, segDS, 5},
	{regDI, -1, segDS, 5},
	{regBP, -1, segSS, 5},
	{regBX, -1, segDS, 5},
}

// Decode ModRM byte and effective address. Memory forms are charged the
// memory cycle count of the current entry plus the address time.
func (c *CPU) decodeModRM() {
	b := c.fetch8()
	c.mod = b >> 6
	c.reg = (b >> 3) & 7
	c.rm = b & 7
	if c.mod == 3 {
		return
	}

	e := eaBase[c.rm]
	var off uint16
	var cyc uint64
	switch {
	case c.mod == 0 && c.rm == 6:
		off = c.fetch16()
		e.seg = segDS
		cyc = 6
	default:
		off = c.regs[e.base]
		if e.index >= 0 {
			off += c.regs[e.index]
		}
		cyc = e.cyc
		switch c.mod {
		case 1:
			off += uint16(int8(c.fetch8()))
			cyc += 4
		case 2:
			off += c.fetch16()
			cyc += 4
		}
	}
	c.eaSeg = e.seg
	if c.segOver >= 0 {
		c.eaSeg = c.segOver
		cyc += 2
	}
	c.eaOff = off
	c.cyc += c.cur.mcyc - c.cur.cyc + cyc
}

func (c *CPU) isMem() bool {
	return c.mod != 3
}

func (c *CPU) getRM8() uint8 {
	if c.mod == 3 {
		return c.getReg8(c.rm)
	}
	return c.readByte(c.sregs[c.eaSeg], c.eaOff)
}

func (c *CPU) setRM8(v uint8) {
	if c.mod == 3 {
		c.setReg8(c.rm, v)
		return
	}
	c.writeByte(c.sregs[c.eaSeg], c.eaOff, v)
}

func (c *CPU) getRM16() uint16 {
	if c.mod == 3 {
		return c.regs[c.rm]
	}
	return c.readWord(c.sregs[c.eaSeg], c.eaOff)
}

func (c *CPU) setRM16(v uint16) {
	if c.mod == 3 {
		c.regs[c.rm] = v
		return
	}
	c.writeWord(c.sregs[c.eaSeg], c.eaOff, v)
}

// Operand of width w, byte when w is false.
func (c *CPU) getRM(w bool) uint32 {
	if w {
		return uint32(c.getRM16())
	}
	return uint32(c.getRM8())
}

func (c *CPU) setRM(w bool, v uint32) {
	if w {
		c.setRM16(uint16(v))
		return
	}
	c.setRM8(uint8(v))
}

func (c *CPU) getReg(w bool, r uint8) uint32 {
	if w {
		return uint32(c.regs[r])
	}
	return uint32(c.getReg8(r))
}

func (c *CPU) setReg(w bool, r uint8, v uint32) {
	if w {
		c.regs[r] = uint16(v)
		return
	}
	c.setReg8(r, uint8(v))
}

// Immediate of width w.
func (c *CPU) fetchImm(w bool) uint32 {
	if w {
		return uint32(c.fetch16())
	}
	return uint32(c.fetch8())
}
