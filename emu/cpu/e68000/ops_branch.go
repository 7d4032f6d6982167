/*
 * PCE - 68000 program control instructions
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

import (
	"github.com/rcornwell/pce/emu/cpu"
	"github.com/rcornwell/pce/util/debug"
)

// Opcode reserved for emulator hooks, followed by an argument word.
const hookOpcode uint16 = 0xffff

// Evaluate condition code.
func (c *CPU) testCond(cond uint16) bool {
	carry := c.sr&flagC != 0
	over := c.sr&flagV != 0
	zero := c.sr&flagZ != 0
	neg := c.sr&flagN != 0
	switch cond & 0xf {
	case 0:
		return true
	case 1:
		return false
	case 2:
		return !carry && !zero
	case 3:
		return carry || zero
	case 4:
		return !carry
	case 5:
		return carry
	case 6:
		return !zero
	case 7:
		return zero
	case 8:
		return !over
	case 9:
		return over
	case 10:
		return !neg
	case 11:
		return neg
	case 12:
		return neg == over
	case 13:
		return neg != over
	case 14:
		return !zero && neg == over
	}
	return zero || neg != over
}

// Scc <ea>, or DBcc Dn,disp.
func (c *CPU) opScc() uint16 {
	cond := (c.ir >> 8) & 0xf
	if (c.ir>>3)&7 == 1 {
		base := c.pc
		disp, exc := c.fetchWord()
		if exc != vecNone {
			return exc
		}
		if c.testCond(cond) {
			c.cyc += 12
			return vecNone
		}
		dn := c.ir & 7
		cnt := (c.d[dn] - 1) & 0xffff
		c.d[dn] = merge(c.d[dn], cnt, 2)
		if cnt == 0xffff {
			c.cyc += 14
			return vecNone
		}
		c.pc = (base + uint32(int32(int16(disp)))) & addrMask
		c.cyc += 10
		return vecNone
	}
	op, exc := c.srcEA(1, eaDataAlt)
	if exc != vecNone {
		return exc
	}
	var v uint32
	if c.testCond(cond) {
		v = 0xff
		c.cyc += 2
	}
	c.cyc += 4
	return c.writeOp(&op, 1, v)
}

// Branch target, fetching a word displacement when the byte is zero.
func (c *CPU) branchTarget() (uint32, uint16) {
	base := c.pc
	disp := uint32(int32(int8(c.ir)))
	if disp == 0 {
		w, exc := c.fetchWord()
		if exc != vecNone {
			return 0, exc
		}
		disp = uint32(int32(int16(w)))
	}
	return (base + disp) & addrMask, vecNone
}

func (c *CPU) opBcc() uint16 {
	target, exc := c.branchTarget()
	if exc != vecNone {
		return exc
	}
	if c.testCond(c.ir >> 8) {
		c.pc = target
		c.cyc += 10
		return vecNone
	}
	if c.ir&0xff == 0 {
		c.cyc += 12
	} else {
		c.cyc += 8
	}
	return vecNone
}

func (c *CPU) opBsr() uint16 {
	target, exc := c.branchTarget()
	if exc != vecNone {
		return exc
	}
	if exc := c.push(4, c.pc); exc != vecNone {
		return exc
	}
	c.pc = target
	c.cyc += 18
	return vecNone
}

func (c *CPU) opJmp() uint16 {
	op, exc := c.srcEA(4, eaControl)
	if exc != vecNone {
		return exc
	}
	c.pc = op.addr & addrMask
	c.cyc += 4
	return vecNone
}

func (c *CPU) opJsr() uint16 {
	op, exc := c.srcEA(4, eaControl)
	if exc != vecNone {
		return exc
	}
	if exc := c.push(4, c.pc); exc != vecNone {
		return exc
	}
	c.pc = op.addr & addrMask
	c.cyc += 12
	return vecNone
}

// Instructions in the range 4e40-4e7f.
func (c *CPU) opMisc4E() uint16 {
	low := c.ir & 0x3f
	reg := c.ir & 7
	switch {
	case low < 0x10:
		c.cyc += 4
		return vecTrap + low
	case low < 0x18:
		disp, exc := c.fetchWord()
		if exc != vecNone {
			return exc
		}
		if exc := c.push(4, c.a[reg]); exc != vecNone {
			return exc
		}
		c.a[reg] = c.a[7]
		c.a[7] += uint32(int32(int16(disp)))
		c.cyc += 16
		return vecNone
	case low < 0x20:
		c.a[7] = c.a[reg]
		v, exc := c.pop(4)
		if exc != vecNone {
			return exc
		}
		c.a[reg] = v
		c.cyc += 12
		return vecNone
	case low < 0x28:
		if exc := c.privileged(); exc != vecNone {
			return exc
		}
		c.usp = c.a[reg]
		c.cyc += 4
		return vecNone
	case low < 0x30:
		if exc := c.privileged(); exc != vecNone {
			return exc
		}
		c.a[reg] = c.usp
		c.cyc += 4
		return vecNone
	}

	switch low {
	case 0x30: // RESET
		if exc := c.privileged(); exc != vecNone {
			return exc
		}
		c.resetLine.Set(true)
		c.resetLine.Set(false)
		c.cyc += 132
	case 0x31: // NOP
		c.cyc += 4
	case 0x32: // STOP
		if exc := c.privileged(); exc != vecNone {
			return exc
		}
		imm, exc := c.fetchWord()
		if exc != vecNone {
			return exc
		}
		c.setSR(imm)
		c.state = cpu.Halted
		debug.Debugf("68000", c.debugMsk, debugExcept, "stop %04x", imm)
		c.cyc += 4
	case 0x33: // RTE
		if exc := c.privileged(); exc != vecNone {
			return exc
		}
		sr, exc := c.pop(2)
		if exc != vecNone {
			return exc
		}
		pc, exc := c.pop(4)
		if exc != vecNone {
			return exc
		}
		c.pc = pc & addrMask
		c.setSR(uint16(sr))
		c.cyc += 20
	case 0x35: // RTS
		pc, exc := c.pop(4)
		if exc != vecNone {
			return exc
		}
		c.pc = pc & addrMask
		c.cyc += 16
	case 0x36: // TRAPV
		c.cyc += 4
		if c.sr&flagV != 0 {
			return vecTRAPV
		}
	case 0x37: // RTR
		ccr, exc := c.pop(2)
		if exc != vecNone {
			return exc
		}
		pc, exc := c.pop(4)
		if exc != vecNone {
			return exc
		}
		c.sr = (c.sr &^ ccrMask) | (uint16(ccr) & ccrMask)
		c.pc = pc & addrMask
		c.cyc += 20
	default:
		return c.undefined()
	}
	return vecNone
}

func (c *CPU) opLineA() uint16 {
	if c.hooks.OnUndefined(c.prevPC, uint32(c.ir)) {
		return vecHandled
	}
	c.cyc += 4
	return vecLineA
}

// Line F emulator trap, 0xffff calls the hook with the next word.
func (c *CPU) opLineF() uint16 {
	if c.ir == hookOpcode {
		arg, exc := c.fetchWord()
		if exc != vecNone {
			return exc
		}
		c.hooks.OnHook(c.prevPC, uint32(arg))
		c.cyc += 4
		return vecNone
	}
	if c.hooks.OnUndefined(c.prevPC, uint32(c.ir)) {
		return vecHandled
	}
	c.cyc += 4
	return vecLineF
}
