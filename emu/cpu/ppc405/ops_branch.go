/*
 * PCE - PowerPC 405 branch and condition register instructions
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
	"github.com/rcornwell/pce/emu/cpu"
)

func (c *CPU) link() {
	if c.ir&1 != 0 {
		c.lr = c.prevPC + 4
	}
}

func (c *CPU) opB() uint32 {
	li := uint32(int32(c.ir<<6) >> 6) &^ 3
	target := c.prevPC + li
	if c.ir&2 != 0 {
		target = li
	}
	c.link()
	c.pc = target
	c.cyc++
	return excNone
}

// Evaluate BO and BI, decrementing CTR when BO asks for it.
func (c *CPU) branchTaken(useCTR bool) bool {
	bo := c.rD()
	bi := c.rA()
	ctrOK := true
	if useCTR && bo&0x04 == 0 {
		c.ctr--
		ctrOK = (c.ctr != 0) != (bo&0x02 != 0)
	}
	condOK := bo&0x10 != 0 || ((c.cr>>(31-bi))&1 != 0) == (bo&0x08 != 0)
	return ctrOK && condOK
}

func (c *CPU) opBc() uint32 {
	taken := c.branchTaken(true)
	bd := uint32(int32(int16(c.ir))) &^ 3
	target := c.prevPC + bd
	if c.ir&2 != 0 {
		target = bd
	}
	c.link()
	if taken {
		c.pc = target
		c.cyc++
	}
	return excNone
}

func (c *CPU) opBclr() uint32 {
	taken := c.branchTaken(true)
	target := c.lr &^ 3
	c.link()
	if taken {
		c.pc = target
		c.cyc++
	}
	return excNone
}

func (c *CPU) opBcctr() uint32 {
	taken := c.branchTaken(false)
	target := c.ctr &^ 3
	c.link()
	if taken {
		c.pc = target
		c.cyc++
	}
	return excNone
}

// Condition register bit operation.
func (c *CPU) crLogical(f func(a, b bool) bool) func() uint32 {
	return func() uint32 {
		a := (c.cr>>(31-c.rA()))&1 != 0
		b := (c.cr>>(31-c.rB()))&1 != 0
		bit := uint32(1) << (31 - c.rD())
		if f(a, b) {
			c.cr |= bit
		} else {
			c.cr &^= bit
		}
		return excNone
	}
}

func (c *CPU) opMcrf() uint32 {
	c.setCRField(c.crfD(), c.crField((c.ir>>18)&7))
	return excNone
}

func (c *CPU) opMcrxr() uint32 {
	c.setCRField(c.crfD(), c.xer>>28)
	c.xer &^= xerSO | xerOV | xerCA
	return excNone
}

func (c *CPU) opSc() uint32 {
	c.cyc += 3
	return excSyscall
}

func (c *CPU) opRfi() uint32 {
	if exc := c.privileged(); exc != excNone {
		return exc
	}
	c.pc = c.srr[0] &^ 3
	c.setMSR(c.srr[1])
	c.cyc += 3
	return excNone
}

func (c *CPU) opRfci() uint32 {
	if exc := c.privileged(); exc != excNone {
		return exc
	}
	c.pc = c.srr[2] &^ 3
	c.setMSR(c.srr[3])
	c.cyc += 3
	return excNone
}

// Emulator hook, primary opcode 1 with argument in the low 26 bits.
func (c *CPU) opHook() uint32 {
	c.hooks.OnHook(c.prevPC, c.ir&0x03ffffff)
	return excNone
}

func (c *CPU) opNop() uint32 {
	return excNone
}

// Load MSR, setting WE enters the wait state.
func (c *CPU) setMSR(val uint32) {
	c.msr = val & msrMask
	if c.msr&msrWE != 0 {
		c.state = cpu.Halted
	}
}
