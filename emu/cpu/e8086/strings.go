/*
 * PCE - 8086 string instructions
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

func (c *CPU) readW(seg, off uint16, w bool) uint32 {
	if w {
		return uint32(c.readWord(seg, off))
	}
	return uint32(c.readByte(seg, off))
}

func (c *CPU) writeW(seg, off uint16, w bool, v uint32) {
	if w {
		c.writeWord(seg, off, uint16(v))
		return
	}
	c.writeByte(seg, off, uint8(v))
}

// Index step by operand size and direction.
func (c *CPU) step() uint16 {
	n := uint16(1)
	if c.wide() {
		n = 2
	}
	if c.flags&flagDF != 0 {
		return -n
	}
	return n
}

// Run one iteration of a string instruction. With a repeat prefix the
// instruction restarts from its first prefix until CX reaches zero, so
// interrupts are taken between iterations.
func (c *CPU) repeat(fn func(), compare bool) {
	if c.rep != 0 && c.regs[regCX] == 0 {
		return
	}
	fn()
	if c.rep == 0 {
		return
	}
	c.regs[regCX]--
	if c.regs[regCX] == 0 {
		return
	}
	if compare {
		zf := c.flags&flagZF != 0
		if (c.rep == 0xf3) != zf {
			return
		}
	}
	c.sregs[segCS] = c.prevCS
	c.ip = c.prevIP
}

func (c *CPU) opMovs() {
	c.repeat(func() {
		w := c.wide()
		v := c.readW(c.dataSeg(segDS), c.regs[regSI], w)
		c.writeW(c.sregs[segES], c.regs[regDI], w, v)
		s := c.step()
		c.regs[regSI] += s
		c.regs[regDI] += s
	}, false)
}

func (c *CPU) opCmps() {
	c.repeat(func() {
		w := c.wide()
		a := c.readW(c.dataSeg(segDS), c.regs[regSI], w)
		b := c.readW(c.sregs[segES], c.regs[regDI], w)
		c.sub(a, b, 0, w)
		s := c.step()
		c.regs[regSI] += s
		c.regs[regDI] += s
	}, true)
}

func (c *CPU) opStos() {
	c.repeat(func() {
		w := c.wide()
		c.writeW(c.sregs[segES], c.regs[regDI], w, c.getReg(w, regAX))
		c.regs[regDI] += c.step()
	}, false)
}

func (c *CPU) opLods() {
	c.repeat(func() {
		w := c.wide()
		c.setReg(w, regAX, c.readW(c.dataSeg(segDS), c.regs[regSI], w))
		c.regs[regSI] += c.step()
	}, false)
}

func (c *CPU) opScas() {
	c.repeat(func() {
		w := c.wide()
		c.sub(c.getReg(w, regAX), c.readW(c.sregs[segES], c.regs[regDI], w), 0, w)
		c.regs[regDI] += c.step()
	}, true)
}

func (c *CPU) opIns() {
	c.repeat(func() {
		w := c.wide()
		c.writeW(c.sregs[segES], c.regs[regDI], w, c.portIn(c.regs[regDX], w))
		c.regs[regDI] += c.step()
	}, false)
}

func (c *CPU) opOuts() {
	c.repeat(func() {
		w := c.wide()
		c.portOut(c.regs[regDX], w, c.readW(c.dataSeg(segDS), c.regs[regSI], w))
		c.regs[regSI] += c.step()
	}, false)
}
