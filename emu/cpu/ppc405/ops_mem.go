/*
 * PCE - PowerPC 405 load and store instructions
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

type loadFunc func(c *CPU, ea uint32) (uint32, uint32)

type storeFunc func(c *CPU, ea uint32, val uint32) uint32

var (
	ldByte loadFunc = (*CPU).load8
	ldHalf loadFunc = (*CPU).load16
	ldWord loadFunc = (*CPU).load32

	stByte storeFunc = (*CPU).store8
	stHalf storeFunc = (*CPU).store16
	stWord storeFunc = (*CPU).store32
)

func ldHalfAlg(c *CPU, ea uint32) (uint32, uint32) {
	v, exc := c.load16(ea)
	return uint32(int32(int16(v))), exc
}

func ldHalfRev(c *CPU, ea uint32) (uint32, uint32) {
	v, exc := c.load16(ea)
	return uint32(bits.ReverseBytes16(uint16(v))), exc
}

func ldWordRev(c *CPU, ea uint32) (uint32, uint32) {
	v, exc := c.load32(ea)
	return bits.ReverseBytes32(v), exc
}

func stHalfRev(c *CPU, ea uint32, val uint32) uint32 {
	return c.store16(ea, uint32(bits.ReverseBytes16(uint16(val))))
}

func stWordRev(c *CPU, ea uint32, val uint32) uint32 {
	return c.store32(ea, bits.ReverseBytes32(val))
}

// Effective address for D form, update forms use rA directly.
func (c *CPU) eaD(update bool) uint32 {
	if update {
		return c.gpr[c.rA()] + c.simm()
	}
	return c.baseA() + c.simm()
}

// Effective address for X form.
func (c *CPU) eaX(update bool) uint32 {
	if update {
		return c.gpr[c.rA()] + c.gpr[c.rB()]
	}
	return c.baseA() + c.gpr[c.rB()]
}

func (c *CPU) load(f loadFunc, ea uint32, update bool) uint32 {
	if update && (c.rA() == 0 || c.rA() == c.rD()) {
		return c.undefined()
	}
	v, exc := f(c, ea)
	if exc != excNone {
		return exc
	}
	c.gpr[c.rD()] = v
	if update {
		c.gpr[c.rA()] = ea
	}
	c.cyc++
	return excNone
}

func (c *CPU) store(f storeFunc, ea uint32, update bool) uint32 {
	if update && c.rA() == 0 {
		return c.undefined()
	}
	if exc := f(c, ea, c.rS()); exc != excNone {
		return exc
	}
	if update {
		c.gpr[c.rA()] = ea
	}
	c.cyc++
	return excNone
}

// D form load handler.
func (c *CPU) loadD(f loadFunc, update bool) func() uint32 {
	return func() uint32 {
		return c.load(f, c.eaD(update), update)
	}
}

// X form load handler.
func (c *CPU) loadX(f loadFunc, update bool) func() uint32 {
	return func() uint32 {
		return c.load(f, c.eaX(update), update)
	}
}

func (c *CPU) storeD(f storeFunc, update bool) func() uint32 {
	return func() uint32 {
		return c.store(f, c.eaD(update), update)
	}
}

func (c *CPU) storeX(f storeFunc, update bool) func() uint32 {
	return func() uint32 {
		return c.store(f, c.eaX(update), update)
	}
}

func (c *CPU) opLmw() uint32 {
	ea := c.eaD(false)
	for r := c.rD(); r < 32; r++ {
		v, exc := c.load32(ea)
		if exc != excNone {
			return exc
		}
		if r != c.rA() || r == 31 {
			c.gpr[r] = v
		}
		ea += 4
		c.cyc++
	}
	return excNone
}

func (c *CPU) opStmw() uint32 {
	ea := c.eaD(false)
	for r := c.rD(); r < 32; r++ {
		if exc := c.store32(ea, c.gpr[r]); exc != excNone {
			return exc
		}
		ea += 4
		c.cyc++
	}
	return excNone
}

// Load n bytes into consecutive registers starting at rD.
func (c *CPU) loadString(ea uint32, n uint32) uint32 {
	r := (c.rD() + 31) & 31
	var shift uint32
	for i := range n {
		if shift == 0 {
			r = (r + 1) & 31
			c.gpr[r] = 0
			shift = 32
		}
		v, exc := c.load8(ea + i)
		if exc != excNone {
			return exc
		}
		shift -= 8
		c.gpr[r] |= v << shift
		c.cyc++
	}
	return excNone
}

// Store n bytes from consecutive registers starting at rS.
func (c *CPU) storeString(ea uint32, n uint32) uint32 {
	r := (c.rD() + 31) & 31
	var shift uint32
	for i := range n {
		if shift == 0 {
			r = (r + 1) & 31
			shift = 32
		}
		shift -= 8
		if exc := c.store8(ea+i, c.gpr[r]>>shift); exc != excNone {
			return exc
		}
		c.cyc++
	}
	return excNone
}

// String byte count from NB field, zero means 32.
func (c *CPU) nb() uint32 {
	n := c.rB()
	if n == 0 {
		n = 32
	}
	return n
}

func (c *CPU) opLswi() uint32 {
	return c.loadString(c.baseA(), c.nb())
}

func (c *CPU) opLswx() uint32 {
	return c.loadString(c.eaX(false), c.xer&0x7f)
}

func (c *CPU) opStswi() uint32 {
	return c.storeString(c.baseA(), c.nb())
}

func (c *CPU) opStswx() uint32 {
	return c.storeString(c.eaX(false), c.xer&0x7f)
}

// Word aligned access required, raise alignment otherwise.
func (c *CPU) aligned(ea uint32) uint32 {
	if ea&3 != 0 {
		c.dear = ea
		return excAlignment
	}
	return excNone
}

func (c *CPU) opLwarx() uint32 {
	ea := c.eaX(false)
	if exc := c.aligned(ea); exc != excNone {
		return exc
	}
	ra, exc := c.translate(ea, accRead)
	if exc != excNone {
		return exc
	}
	c.gpr[c.rD()] = c.mem.GetUint32(ra)
	c.reserve = true
	c.resAddr = ra
	c.cyc++
	return excNone
}

func (c *CPU) opStwcx() uint32 {
	ea := c.eaX(false)
	if exc := c.aligned(ea); exc != excNone {
		return exc
	}
	ra, exc := c.translate(ea, accWrite)
	if exc != excNone {
		return exc
	}
	f := uint32(0)
	if c.reserve && c.resAddr == ra {
		c.mem.SetUint32(ra, c.rS())
		f = 2
	}
	c.reserve = false
	if c.xer&xerSO != 0 {
		f |= 1
	}
	c.setCRField(0, f)
	c.cyc++
	return excNone
}

// Zero a 32 byte cache line.
func (c *CPU) opDcbz() uint32 {
	ea := c.eaX(false) &^ 31
	for i := uint32(0); i < 32; i += 4 {
		if exc := c.store32(ea+i, 0); exc != excNone {
			return exc
		}
	}
	c.cyc += 4
	return excNone
}

// Cache instructions without a cache model.
func (c *CPU) opCache() uint32 {
	return excNone
}

// Privileged cache instructions.
func (c *CPU) opCachePriv() uint32 {
	return c.privileged()
}
