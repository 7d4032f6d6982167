/*
 * PCE - PowerPC 405 disassembler
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
	"fmt"
)

// Disassemble word at real address addr, always four bytes.
func (c *CPU) Disassemble(addr uint32) (string, uint32) {
	ir := c.mem.GetUint32(addr)
	e := c.decode(ir)
	return format(e, ir, addr), 4
}

func format(e *opEntry, ir uint32, addr uint32) string {
	d := (ir >> 21) & 31
	a := (ir >> 16) & 31
	b := (ir >> 11) & 31
	simm := int16(ir)
	name := e.name
	switch ir >> 26 {
	case 31:
		xo := (ir >> 1) & 0x3ff
		if ir&1 != 0 && xo != 150 {
			name += "."
		}
	case 16, 18:
		if ir&1 != 0 {
			name += "l"
		}
		if ir&2 != 0 {
			name += "a"
		}
	case 19:
		if ir&1 != 0 {
			name += "l"
		}
	case 20, 21, 23:
		if ir&1 != 0 {
			name += "."
		}
	}

	switch e.form {
	case fDAB:
		return fmt.Sprintf("%s r%d,r%d,r%d", name, d, a, b)
	case fDA:
		return fmt.Sprintf("%s r%d,r%d", name, d, a)
	case fDAI:
		return fmt.Sprintf("%s r%d,r%d,%d", name, d, a, simm)
	case fASU:
		return fmt.Sprintf("%s r%d,r%d,0x%x", name, a, d, ir&0xffff)
	case fASB:
		return fmt.Sprintf("%s r%d,r%d,r%d", name, a, d, b)
	case fAS:
		return fmt.Sprintf("%s r%d,r%d", name, a, d)
	case fASH:
		return fmt.Sprintf("%s r%d,r%d,%d", name, a, d, b)
	case fRot:
		return fmt.Sprintf("%s r%d,r%d,%d,%d,%d", name, a, d, b, (ir>>6)&31, (ir>>1)&31)
	case fRotB:
		return fmt.Sprintf("%s r%d,r%d,r%d,%d,%d", name, a, d, b, (ir>>6)&31, (ir>>1)&31)
	case fMem:
		return fmt.Sprintf("%s r%d,%d(r%d)", name, d, simm, a)
	case fMemX, fTLB:
		return fmt.Sprintf("%s r%d,r%d,%d", name, d, a, b)
	case fNB:
		return fmt.Sprintf("%s r%d,r%d,%d", name, d, a, b)
	case fCmp:
		return fmt.Sprintf("%s cr%d,r%d,r%d", name, d>>2, a, b)
	case fCmpI:
		return fmt.Sprintf("%s cr%d,r%d,%d", name, d>>2, a, simm)
	case fCmpU:
		return fmt.Sprintf("%s cr%d,r%d,0x%x", name, d>>2, a, ir&0xffff)
	case fB:
		li := uint32(int32(ir<<6)>>6) &^ 3
		if ir&2 == 0 {
			li += addr
		}
		return fmt.Sprintf("%s 0x%08x", name, li)
	case fBC:
		bd := uint32(int32(int16(ir))) &^ 3
		if ir&2 == 0 {
			bd += addr
		}
		return fmt.Sprintf("%s %d,%d,0x%08x", name, d, a, bd)
	case fBCR:
		return fmt.Sprintf("%s %d,%d", name, d, a)
	case fCR:
		return fmt.Sprintf("%s %d,%d,%d", name, d, a, b)
	case fMcrf:
		return fmt.Sprintf("%s cr%d,cr%d", name, d>>2, a>>2)
	case fD, fS:
		return fmt.Sprintf("%s r%d", name, d)
	case fSPR:
		return fmt.Sprintf("%s r%d,%d", name, d, a|b<<5)
	case fMTSPR:
		return fmt.Sprintf("%s %d,r%d", name, a|b<<5, d)
	case fMtcrf:
		return fmt.Sprintf("%s 0x%02x,r%d", name, (ir>>12)&0xff, d)
	case fTrap:
		return fmt.Sprintf("%s %d,r%d,r%d", name, d, a, b)
	case fTrapI:
		return fmt.Sprintf("%s %d,r%d,%d", name, d, a, simm)
	case fAB:
		return fmt.Sprintf("%s r%d,r%d", name, a, b)
	case fCrfD:
		return fmt.Sprintf("%s cr%d", name, d>>2)
	case fWrteei:
		return fmt.Sprintf("%s %d", name, (ir>>15)&1)
	case fHook:
		return fmt.Sprintf("%s 0x%x", name, ir&0x03ffffff)
	}
	if e.name == "illegal" {
		return fmt.Sprintf(".long 0x%08x", ir)
	}
	return name
}
