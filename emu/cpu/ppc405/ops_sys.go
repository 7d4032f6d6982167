/*
 * PCE - PowerPC 405 system instructions
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
	"log/slog"
)

// Special purpose register numbers.
const (
	sprXER    = 1
	sprLR     = 8
	sprCTR    = 9
	sprSRR0   = 26
	sprSRR1   = 27
	sprUSPRG0 = 256
	sprSPRG4R = 260 // 260-263 user read of SPRG4-7.
	sprTBLR   = 268
	sprTBUR   = 269
	sprSPRG0  = 272 // 272-279.
	sprTBLW   = 284
	sprTBUW   = 285
	sprPVR    = 287
	sprZPR    = 944
	sprPID    = 945
	sprESR    = 980
	sprDEAR   = 981
	sprEVPR   = 982
	sprTSR    = 984
	sprTCR    = 986
	sprPIT    = 987
	sprSRR2   = 990
	sprSRR3   = 991
)

// SPR and DCR numbers are encoded with the halves swapped.
func (c *CPU) sprNum() uint32 {
	return ((c.ir >> 16) & 0x1f) | ((c.ir >> 6) & 0x3e0)
}

// Read special purpose register, ok false if not implemented.
func (c *CPU) getSPR(n uint32) (uint32, bool) {
	switch {
	case n >= sprSPRG4R && n < sprSPRG4R+4:
		return c.sprg[4+n-sprSPRG4R], true
	case n >= sprSPRG0 && n < sprSPRG0+8:
		return c.sprg[n-sprSPRG0], true
	}
	switch n {
	case sprXER:
		return c.xer, true
	case sprLR:
		return c.lr, true
	case sprCTR:
		return c.ctr, true
	case sprSRR0:
		return c.srr[0], true
	case sprSRR1:
		return c.srr[1], true
	case sprSRR2:
		return c.srr[2], true
	case sprSRR3:
		return c.srr[3], true
	case sprUSPRG0:
		return c.spr[sprUSPRG0], true
	case sprTBLR:
		return uint32(c.tb), true
	case sprTBUR:
		return uint32(c.tb >> 32), true
	case sprPVR:
		return c.pvr, true
	case sprZPR:
		return c.zpr, true
	case sprPID:
		return c.pid, true
	case sprESR:
		return c.esr, true
	case sprDEAR:
		return c.dear, true
	case sprEVPR:
		return c.evpr, true
	case sprTSR:
		return c.tsr, true
	case sprTCR:
		return c.tcr, true
	case sprPIT:
		return c.pit, true
	}
	v, ok := c.spr[n]
	if !ok {
		_, ok = storageSPR[n]
	}
	return v, ok
}

// Storage attribute, cache and debug registers kept as plain state.
var storageSPR = map[uint32]string{
	947:  "ccr0",
	953:  "sgr",
	954:  "dcwr",
	955:  "sler",
	956:  "su0r",
	957:  "dbcr1",
	1008: "dbsr",
	1010: "dbcr0",
	1012: "iac1",
	1013: "iac2",
	1014: "dac1",
	1015: "dac2",
	1018: "dccr",
	1019: "iccr",
}

// Write special purpose register, false if not implemented.
func (c *CPU) setSPR(n uint32, v uint32) bool {
	if n >= sprSPRG0 && n < sprSPRG0+8 {
		c.sprg[n-sprSPRG0] = v
		return true
	}
	switch n {
	case sprXER:
		c.xer = v & (xerSO | xerOV | xerCA | 0x7f)
	case sprLR:
		c.lr = v
	case sprCTR:
		c.ctr = v
	case sprSRR0:
		c.srr[0] = v
	case sprSRR1:
		c.srr[1] = v
	case sprSRR2:
		c.srr[2] = v
	case sprSRR3:
		c.srr[3] = v
	case sprUSPRG0:
		c.spr[sprUSPRG0] = v
	case sprTBLW:
		c.tb = (c.tb &^ 0xffffffff) | uint64(v)
	case sprTBUW:
		c.tb = (c.tb & 0xffffffff) | uint64(v)<<32
	case sprZPR:
		c.zpr = v
	case sprPID:
		c.pid = v & 0xff
	case sprESR:
		c.esr = v
	case sprDEAR:
		c.dear = v
	case sprEVPR:
		c.evpr = v & 0xffff0000
	case sprTSR:
		c.tsr &^= v
	case sprTCR:
		c.tcr = v
	case sprPIT:
		c.pit = v
		c.pitReload = v
	default:
		if _, ok := storageSPR[n]; !ok {
			return false
		}
		c.spr[n] = v
	}
	return true
}

// SPR numbers with bit 4 set need supervisor state.
func sprPrivileged(n uint32) bool {
	return n&0x10 != 0
}

func (c *CPU) opMfspr() uint32 {
	n := c.sprNum()
	if sprPrivileged(n) {
		if exc := c.privileged(); exc != excNone {
			return exc
		}
	}
	v, ok := c.getSPR(n)
	if !ok {
		return c.undefined()
	}
	c.gpr[c.rD()] = v
	return excNone
}

func (c *CPU) opMtspr() uint32 {
	n := c.sprNum()
	if sprPrivileged(n) {
		if exc := c.privileged(); exc != excNone {
			return exc
		}
	}
	if n == sprPVR || (n >= sprSPRG4R && n < sprSPRG4R+4) || n == sprTBLR || n == sprTBUR {
		return c.undefined()
	}
	if !c.setSPR(n, c.rS()) {
		return c.undefined()
	}
	return excNone
}

func (c *CPU) opMftb() uint32 {
	switch c.sprNum() {
	case sprTBLR:
		c.gpr[c.rD()] = uint32(c.tb)
	case sprTBUR:
		c.gpr[c.rD()] = uint32(c.tb >> 32)
	default:
		return c.undefined()
	}
	return excNone
}

func (c *CPU) opMfmsr() uint32 {
	if exc := c.privileged(); exc != excNone {
		return exc
	}
	c.gpr[c.rD()] = c.msr
	return excNone
}

func (c *CPU) opMtmsr() uint32 {
	if exc := c.privileged(); exc != excNone {
		return exc
	}
	c.setMSR(c.rS())
	return excNone
}

func (c *CPU) opWrtee() uint32 {
	if exc := c.privileged(); exc != excNone {
		return exc
	}
	c.msr = (c.msr &^ msrEE) | (c.rS() & msrEE)
	return excNone
}

func (c *CPU) opWrteei() uint32 {
	if exc := c.privileged(); exc != excNone {
		return exc
	}
	c.msr = (c.msr &^ msrEE) | (c.ir & msrEE)
	return excNone
}

func (c *CPU) opMfcr() uint32 {
	c.gpr[c.rD()] = c.cr
	return excNone
}

func (c *CPU) opMtcrf() uint32 {
	fxm := (c.ir >> 12) & 0xff
	var mask uint32
	for i := range uint32(8) {
		if fxm&(0x80>>i) != 0 {
			mask |= 0xf0000000 >> (4 * i)
		}
	}
	c.cr = (c.cr &^ mask) | (c.rS() & mask)
	return excNone
}

func (c *CPU) opMfdcr() uint32 {
	if exc := c.privileged(); exc != excNone {
		return exc
	}
	n := c.sprNum()
	var v uint32
	ok := false
	if c.dcr != nil {
		v, ok = c.dcr.GetDCR(n)
	}
	if !ok {
		slog.Debug("PPC405 read of undefined DCR", "dcr", n, "pc", c.prevPC)
	}
	c.gpr[c.rD()] = v
	return excNone
}

func (c *CPU) opMtdcr() uint32 {
	if exc := c.privileged(); exc != excNone {
		return exc
	}
	n := c.sprNum()
	if c.dcr == nil || !c.dcr.SetDCR(n, c.rS()) {
		slog.Debug("PPC405 write of undefined DCR", "dcr", n, "pc", c.prevPC)
	}
	return excNone
}

func (c *CPU) opTlbre() uint32 {
	if exc := c.privileged(); exc != excNone {
		return exc
	}
	ws := c.rB()
	if ws > 1 {
		return c.undefined()
	}
	c.gpr[c.rD()] = c.tlbRead(c.gpr[c.rA()], ws)
	return excNone
}

func (c *CPU) opTlbwe() uint32 {
	if exc := c.privileged(); exc != excNone {
		return exc
	}
	ws := c.rB()
	if ws > 1 {
		return c.undefined()
	}
	c.tlbWrite(c.gpr[c.rA()], ws, c.rS())
	return excNone
}

func (c *CPU) opTlbsx() uint32 {
	if exc := c.privileged(); exc != excNone {
		return exc
	}
	i := c.tlbSearch(c.eaX(false), uint8(c.pid))
	if i >= 0 {
		c.gpr[c.rD()] = uint32(i)
	}
	if c.rc() {
		f := uint32(0)
		if i >= 0 {
			f = 2
		}
		if c.xer&xerSO != 0 {
			f |= 1
		}
		c.setCRField(0, f)
	}
	return excNone
}

func (c *CPU) opTlbia() uint32 {
	if exc := c.privileged(); exc != excNone {
		return exc
	}
	for i := range c.tlb {
		c.tlb[i].hi &^= tlbValid
	}
	return excNone
}
