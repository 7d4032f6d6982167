/*
 * PCE - PowerPC 405 execution core
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

	"github.com/rcornwell/pce/emu/cpu"
	"github.com/rcornwell/pce/emu/device"
	"github.com/rcornwell/pce/util/debug"
)

/*
   The 405 is a 32 bit embedded PowerPC with thirty two general registers,
   a software managed 64 entry TLB and on chip timers. Bit numbering below
   follows the usual Go convention, bit 0 is the least significant.

   Instructions are one word. The primary opcode in the top six bits
   selects a handler from a 64 entry table, opcodes 19 and 31 use the ten
   bit extended opcode to select from secondary tables.

   Exceptions save PC and MSR in SRR0/SRR1, or SRR2/SRR3 for critical
   exceptions, and branch to EVPR plus a fixed offset. Nothing is written
   to memory, so the only double fault is a machine check taken while
   MSR[ME] is clear, which checkstops the processor.
*/

// MSR bits.
const (
	msrWE uint32 = 0x00040000 // Wait state enable.
	msrCE uint32 = 0x00020000 // Critical interrupt enable.
	msrEE uint32 = 0x00008000 // External interrupt enable.
	msrPR uint32 = 0x00004000 // Problem state.
	msrME uint32 = 0x00001000 // Machine check enable.
	msrDE uint32 = 0x00000200 // Debug enable.
	msrIR uint32 = 0x00000020 // Instruction relocate.
	msrDR uint32 = 0x00000010 // Data relocate.

	msrMask = msrWE | msrCE | msrEE | msrPR | msrME | msrDE | msrIR | msrDR
)

// XER bits.
const (
	xerSO uint32 = 0x80000000
	xerOV uint32 = 0x40000000
	xerCA uint32 = 0x20000000
)

// ESR bits.
const (
	esrMCI uint32 = 0x80000000 // Machine check instruction.
	esrPIL uint32 = 0x08000000 // Illegal instruction.
	esrPPR uint32 = 0x04000000 // Privileged instruction.
	esrPTR uint32 = 0x02000000 // Trap.
	esrDST uint32 = 0x00800000 // Data store.
	esrDIZ uint32 = 0x00400000 // Zone fault.
)

// TCR bits.
const (
	tcrWP  uint32 = 0xc0000000 // Watchdog period.
	tcrWRC uint32 = 0x30000000 // Watchdog reset control.
	tcrWIE uint32 = 0x08000000 // Watchdog interrupt enable.
	tcrPIE uint32 = 0x04000000 // PIT interrupt enable.
	tcrFP  uint32 = 0x03000000 // FIT period.
	tcrFIE uint32 = 0x00800000 // FIT interrupt enable.
	tcrARE uint32 = 0x00400000 // PIT auto reload.
)

// TSR bits.
const (
	tsrENW uint32 = 0x80000000 // Enable next watchdog.
	tsrWIS uint32 = 0x40000000 // Watchdog interrupt status.
	tsrWRS uint32 = 0x30000000 // Watchdog reset status.
	tsrPIS uint32 = 0x08000000 // PIT interrupt status.
	tsrFIS uint32 = 0x04000000 // FIT interrupt status.
)

// Exception offsets from EVPR, zero means none.
const (
	excNone      uint32 = 0
	excCritical  uint32 = 0x0100
	excMachine   uint32 = 0x0200
	excDSI       uint32 = 0x0300
	excISI       uint32 = 0x0400
	excExternal  uint32 = 0x0500
	excAlignment uint32 = 0x0600
	excProgram   uint32 = 0x0700
	excSyscall   uint32 = 0x0c00
	excPIT       uint32 = 0x1000
	excFIT       uint32 = 0x1010
	excWatchdog  uint32 = 0x1020
	excDTLBMiss  uint32 = 0x1100
	excITLBMiss  uint32 = 0x1200
	excDebug     uint32 = 0x2000

	excHandled uint32 = 0xffffffff // Hook handled instruction.
)

// Processor version registers.
var models = map[string]uint32{
	"405":   0x40110000,
	"405gp": 0x40110000,
	"405cr": 0x40110041,
	"405ep": 0x51210950,
}

const (
	// Debug options.
	debugInst = 1 << iota
	debugExcept
	debugIRQ
	debugTLB
)

var debugOption = map[string]int{
	"INST":   debugInst,
	"EXCEPT": debugExcept,
	"IRQ":    debugIRQ,
	"TLB":    debugTLB,
}

// DCR is the device control register bus.
type DCR interface {
	GetDCR(num uint32) (uint32, bool)
	SetDCR(num uint32, val uint32) bool
}

type opEntry struct {
	name string
	fn   func() uint32
	form int
}

// CPU is one PowerPC 405 core.
type CPU struct {
	gpr  [32]uint32
	cr   uint32
	lr   uint32
	ctr  uint32
	xer  uint32
	msr  uint32
	pc   uint32
	srr  [4]uint32
	esr  uint32
	dear uint32
	evpr uint32
	pvr  uint32
	sprg [8]uint32
	pid  uint32
	zpr  uint32
	tb   uint64
	pit  uint32
	tcr  uint32
	tsr  uint32

	pitReload uint32
	spr       map[uint32]uint32 // Storage attribute and debug registers kept as state.
	tlb       [64]tlbEntry

	ir      uint32
	prevPC  uint32
	reserve bool // Reservation from lwarx.
	resAddr uint32

	extIRQ  bool // External input from UIC.
	critIRQ bool // Critical input from UIC.
	mcheck  bool // Machine check pending.

	mem   cpu.Bus
	dcr   DCR
	hooks device.Hooks

	table   [64]opEntry
	table19 [1024]opEntry
	table31 [1024]opEntry

	cycles uint64
	cyc    uint64
	credit cpu.Credit
	state  cpu.State
	fault  error

	model    string
	debugMsk int
}

// Option configures a CPU at construction.
type Option func(*CPU)

func WithHooks(h device.Hooks) Option {
	return func(c *CPU) {
		c.hooks = h
	}
}

// Attach device control register bus.
func WithDCR(d DCR) Option {
	return func(c *CPU) {
		c.dcr = d
	}
}

// Create new 405 on big endian bus.
func New(mem cpu.Bus, opts ...Option) *CPU {
	c := &CPU{mem: mem, hooks: device.NopHooks{}, model: "405", pvr: models["405"]}
	for _, opt := range opts {
		opt(c)
	}
	c.createTable()
	return c
}

func (c *CPU) SetModel(name string) error {
	pvr, ok := models[name]
	if !ok {
		slog.Warn("unknown 405 model, using 405", "model", name)
		c.model = "405"
		c.pvr = models["405"]
		return cpu.ErrUnknownModel
	}
	c.model = name
	c.pvr = pvr
	return nil
}

func (c *CPU) Model() string {
	return c.model
}

func (c *CPU) Debug(opt string) error {
	return debug.SetOption("PPC405", debugOption, &c.debugMsk, opt)
}

// Reset processor, execution starts at the last word of memory.
func (c *CPU) Reset() {
	c.gpr = [32]uint32{}
	c.cr = 0
	c.lr = 0
	c.ctr = 0
	c.xer = 0
	c.msr = 0
	c.pc = 0xfffffffc
	c.srr = [4]uint32{}
	c.esr = 0
	c.dear = 0
	c.evpr = 0
	c.tcr = 0
	c.tsr = 0
	c.pit = 0
	c.pitReload = 0
	c.tb = 0
	c.pid = 0
	c.zpr = 0
	c.spr = map[uint32]uint32{}
	for i := range c.tlb {
		c.tlb[i] = tlbEntry{}
	}
	c.reserve = false
	c.mcheck = false
	c.state = cpu.Running
	c.fault = nil
	c.credit.Reset()
}

func (c *CPU) PC() uint32 {
	return c.pc
}

func (c *CPU) Cycles() uint64 {
	return c.cycles
}

func (c *CPU) State() cpu.State {
	return c.state
}

func (c *CPU) Fault() error {
	return c.fault
}

// External interrupt input, level sensitive.
func (c *CPU) SetExternal(level bool) {
	c.extIRQ = level
	debug.Debugf("PPC405", c.debugMsk, debugIRQ, "external %v", level)
}

// Critical interrupt input, level sensitive.
func (c *CPU) SetCritical(level bool) {
	c.critIRQ = level
	debug.Debugf("PPC405", c.debugMsk, debugIRQ, "critical %v", level)
}

// Signal a machine check from the bus.
func (c *CPU) MachineCheck() {
	c.mcheck = true
}

// Run processor for n cycles.
func (c *CPU) Clock(n uint64) {
	c.credit.Add(n)
	for c.credit.Available() {
		if c.state == cpu.Stopped {
			c.cycles += c.credit.Drain()
			return
		}
		before := c.cycles
		c.Execute()
		c.credit.Spend(c.cycles - before)
	}
}

// Execute one instruction or take one interrupt.
func (c *CPU) Execute() {
	if c.state == cpu.Stopped {
		return
	}
	c.cyc = 0
	defer func() {
		if c.cyc == 0 {
			c.cyc = 1
		}
		c.cycles += c.cyc
		c.timers(c.cyc)
	}()

	if c.checkInterrupt() {
		return
	}
	if c.state == cpu.Halted {
		return
	}

	c.prevPC = c.pc
	ir, exc := c.fetch(c.pc)
	if exc == excNone {
		c.ir = ir
		c.pc += 4
		op := c.decode(ir)
		debug.Debugf("PPC405", c.debugMsk, debugInst, "%08x %08x %s", c.prevPC, ir, op.name)
		exc = op.fn()
		c.cyc++
	}
	switch exc {
	case excNone, excHandled:
	case excSyscall:
		c.exception(exc, c.pc)
	default:
		c.exception(exc, c.prevPC)
	}
}

// Find handler for instruction word.
func (c *CPU) decode(ir uint32) *opEntry {
	switch op := ir >> 26; op {
	case 19:
		return &c.table19[(ir>>1)&0x3ff]
	case 31:
		return &c.table31[(ir>>1)&0x3ff]
	default:
		return &c.table[op]
	}
}

// Take highest priority pending asynchronous exception.
func (c *CPU) checkInterrupt() bool {
	exc := excNone
	switch {
	case c.critIRQ && c.msr&msrCE != 0:
		exc = excCritical
	case c.tsr&tsrWIS != 0 && c.tcr&tcrWIE != 0 && c.msr&msrCE != 0:
		exc = excWatchdog
	case c.mcheck:
		c.mcheck = false
		exc = excMachine
	case c.tsr&tsrPIS != 0 && c.tcr&tcrPIE != 0 && c.msr&msrEE != 0:
		exc = excPIT
	case c.tsr&tsrFIS != 0 && c.tcr&tcrFIE != 0 && c.msr&msrEE != 0:
		exc = excFIT
	case c.extIRQ && c.msr&msrEE != 0:
		exc = excExternal
	default:
		return false
	}
	debug.Debugf("PPC405", c.debugMsk, debugIRQ, "interrupt %04x at %08x", exc, c.pc)
	c.state = cpu.Running
	c.exception(exc, c.pc)
	c.cyc += 2
	return true
}

// Enter exception handler, saving pc as return address.
func (c *CPU) exception(exc uint32, pc uint32) {
	c.hooks.OnException(exc)
	debug.Debugf("PPC405", c.debugMsk, debugExcept, "exception %04x pc %08x msr %08x esr %08x", exc, pc, c.msr, c.esr)

	switch exc {
	case excMachine:
		if c.msr&msrME == 0 {
			c.checkstop(exc)
			return
		}
		c.srr[2] = pc
		c.srr[3] = c.msr
		c.msr &^= msrWE | msrCE | msrEE | msrPR | msrME | msrDE | msrIR | msrDR
	case excCritical, excWatchdog, excDebug:
		c.srr[2] = pc
		c.srr[3] = c.msr
		c.msr &^= msrWE | msrCE | msrEE | msrPR | msrDE | msrIR | msrDR
	default:
		c.srr[0] = pc
		c.srr[1] = c.msr
		c.msr &^= msrWE | msrEE | msrPR | msrIR | msrDR
	}
	c.reserve = false
	c.pc = (c.evpr & 0xffff0000) | exc
	c.cyc += 2
}

// Machine check with machine checks disabled.
func (c *CPU) checkstop(exc uint32) {
	c.state = cpu.Stopped
	c.fault = cpu.ErrDoubleFault
	slog.Error("PPC405 checkstop, processor halted", "pc", c.prevPC, "exception", exc, "msr", c.msr)
}

// Program exception with reason in ESR.
func (c *CPU) program(reason uint32) uint32 {
	c.esr = reason
	return excProgram
}

func (c *CPU) undefined() uint32 {
	if c.hooks.OnUndefined(c.prevPC, c.ir) {
		return excHandled
	}
	slog.Debug("PPC405 illegal instruction", "pc", c.prevPC, "ir", c.ir)
	return c.program(esrPIL)
}

func (c *CPU) privileged() uint32 {
	if c.msr&msrPR != 0 {
		return c.program(esrPPR)
	}
	return excNone
}

// Update time base, PIT, FIT and watchdog by n cycles.
func (c *CPU) timers(n uint64) {
	old := c.tb
	c.tb += n

	if c.pit != 0 {
		if uint64(c.pit) <= n {
			c.tsr |= tsrPIS
			if c.tcr&tcrARE != 0 && c.pitReload != 0 {
				c.pit = c.pitReload - uint32(n-uint64(c.pit))%c.pitReload
			} else {
				c.pit = 0
			}
		} else {
			c.pit -= uint32(n)
		}
	}

	fit := [4]uint{9, 13, 17, 21}[(c.tcr&tcrFP)>>24]
	if old>>fit != c.tb>>fit {
		c.tsr |= tsrFIS
	}

	wdt := [4]uint{17, 21, 25, 29}[(c.tcr&tcrWP)>>30]
	if old>>wdt != c.tb>>wdt {
		c.watchdog()
	}
}

// Watchdog period expired.
func (c *CPU) watchdog() {
	switch {
	case c.tsr&tsrENW == 0:
		c.tsr |= tsrENW
	case c.tsr&tsrWIS == 0:
		c.tsr |= tsrWIS
	default:
		rc := (c.tcr & tcrWRC) >> 28
		if rc == 0 {
			return
		}
		slog.Warn("PPC405 watchdog reset", "pc", c.pc, "tcr", c.tcr)
		tsr := (c.tsr &^ tsrWRS) | rc<<28
		c.Reset()
		c.tsr = tsr
	}
}
