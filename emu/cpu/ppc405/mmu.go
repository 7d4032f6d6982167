/*
 * PCE - PowerPC 405 address translation
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
	"github.com/rcornwell/pce/util/debug"
)

// TLBHI fields.
const (
	tlbEPN   uint32 = 0xfffffc00
	tlbSize  uint32 = 0x00000380
	tlbValid uint32 = 0x00000040
	tlbE     uint32 = 0x00000020 // Little endian, kept as state.
	tlbU0    uint32 = 0x00000010
)

// TLBLO fields.
const (
	tlbRPN  uint32 = 0xfffffc00
	tlbEX   uint32 = 0x00000200
	tlbWR   uint32 = 0x00000100
	tlbZSEL uint32 = 0x000000f0
	tlbWIMG uint32 = 0x0000000f
)

type tlbEntry struct {
	hi  uint32
	lo  uint32
	tid uint8
}

// Page size in bytes, 1K to 16M.
func (t *tlbEntry) size() uint32 {
	return 1024 << (2 * ((t.hi & tlbSize) >> 7))
}

// Check entry maps ea for process id.
func (t *tlbEntry) match(ea uint32, pid uint8) bool {
	if t.hi&tlbValid == 0 {
		return false
	}
	if t.tid != 0 && t.tid != pid {
		return false
	}
	mask := ^(t.size() - 1)
	return (ea & mask) == (t.hi & tlbEPN & mask)
}

// Search TLB, returns index or -1.
func (c *CPU) tlbSearch(ea uint32, pid uint8) int {
	for i := range c.tlb {
		if c.tlb[i].match(ea, pid) {
			return i
		}
	}
	return -1
}

// Access types.
const (
	accRead = iota
	accWrite
	accExec
)

// Translate effective address, returns real address or exception.
func (c *CPU) translate(ea uint32, acc int) (uint32, uint32) {
	relocate := c.msr & msrDR
	if acc == accExec {
		relocate = c.msr & msrIR
	}
	if relocate == 0 {
		return ea, excNone
	}

	i := c.tlbSearch(ea, uint8(c.pid))
	if i < 0 {
		debug.Debugf("PPC405", c.debugMsk, debugTLB, "tlb miss %08x pid %d", ea, c.pid)
		if acc == accExec {
			return 0, excITLBMiss
		}
		c.dear = ea
		c.esr = 0
		if acc == accWrite {
			c.esr = esrDST
		}
		return 0, excDTLBMiss
	}

	t := &c.tlb[i]
	if exc := c.protect(t, ea, acc); exc != excNone {
		return 0, exc
	}
	mask := t.size() - 1
	return (t.lo & tlbRPN &^ mask) | (ea & mask), excNone
}

// Zone and page protection check.
func (c *CPU) protect(t *tlbEntry, ea uint32, acc int) uint32 {
	zone := (c.zpr >> (30 - 2*((t.lo&tlbZSEL)>>4))) & 3
	user := c.msr&msrPR != 0
	full := zone == 3 || (!user && zone == 2)
	allowed := true
	zoneFault := false
	switch {
	case full:
	case user && zone == 0:
		allowed = false
		zoneFault = true
	case acc == accExec:
		allowed = t.lo&tlbEX != 0
	case acc == accWrite:
		allowed = t.lo&tlbWR != 0
	}
	if allowed {
		return excNone
	}
	debug.Debugf("PPC405", c.debugMsk, debugTLB, "protection %08x zone %d", ea, zone)
	if acc == accExec {
		return excISI
	}
	c.dear = ea
	c.esr = 0
	if acc == accWrite {
		c.esr |= esrDST
	}
	if zoneFault {
		c.esr |= esrDIZ
	}
	return excDSI
}

// Fetch instruction word.
func (c *CPU) fetch(ea uint32) (uint32, uint32) {
	ra, exc := c.translate(ea, accExec)
	if exc != excNone {
		return 0, exc
	}
	return c.mem.GetUint32(ra), excNone
}

func (c *CPU) load8(ea uint32) (uint32, uint32) {
	ra, exc := c.translate(ea, accRead)
	if exc != excNone {
		return 0, exc
	}
	return uint32(c.mem.GetUint8(ra)), excNone
}

func (c *CPU) load16(ea uint32) (uint32, uint32) {
	ra, exc := c.translate(ea, accRead)
	if exc != excNone {
		return 0, exc
	}
	return uint32(c.mem.GetUint16(ra)), excNone
}

func (c *CPU) load32(ea uint32) (uint32, uint32) {
	ra, exc := c.translate(ea, accRead)
	if exc != excNone {
		return 0, exc
	}
	return c.mem.GetUint32(ra), excNone
}

func (c *CPU) store8(ea uint32, val uint32) uint32 {
	ra, exc := c.translate(ea, accWrite)
	if exc != excNone {
		return exc
	}
	c.mem.SetUint8(ra, uint8(val))
	c.clearReserve(ra)
	return excNone
}

func (c *CPU) store16(ea uint32, val uint32) uint32 {
	ra, exc := c.translate(ea, accWrite)
	if exc != excNone {
		return exc
	}
	c.mem.SetUint16(ra, uint16(val))
	c.clearReserve(ra)
	return excNone
}

func (c *CPU) store32(ea uint32, val uint32) uint32 {
	ra, exc := c.translate(ea, accWrite)
	if exc != excNone {
		return exc
	}
	c.mem.SetUint32(ra, val)
	c.clearReserve(ra)
	return excNone
}

// Store to reserved word drops the reservation.
func (c *CPU) clearReserve(ra uint32) {
	if c.reserve && ra&^3 == c.resAddr {
		c.reserve = false
	}
}

// Read TLB entry word, ws 0 is TLBHI and also loads PID.
func (c *CPU) tlbRead(idx uint32, ws uint32) uint32 {
	t := &c.tlb[idx&63]
	if ws == 0 {
		c.pid = uint32(t.tid)
		return t.hi
	}
	return t.lo
}

// Write TLB entry word, ws 0 also takes TID from PID.
func (c *CPU) tlbWrite(idx uint32, ws uint32, val uint32) {
	t := &c.tlb[idx&63]
	if ws == 0 {
		t.hi = val & (tlbEPN | tlbSize | tlbValid | tlbE | tlbU0)
		t.tid = uint8(c.pid)
	} else {
		t.lo = val & (tlbRPN | tlbEX | tlbWR | tlbZSEL | tlbWIMG)
	}
	debug.Debugf("PPC405", c.debugMsk, debugTLB, "tlbwe %d ws %d %08x", idx&63, ws, val)
}
