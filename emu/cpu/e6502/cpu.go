/*
 * PCE - 6502 execution core
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

import (
	"log/slog"

	"github.com/rcornwell/pce/emu/cpu"
	"github.com/rcornwell/pce/emu/device"
	"github.com/rcornwell/pce/util/debug"
)

/*
   The 6502 has an accumulator, two index registers, an eight bit stack
   pointer into page one and a status register:

        7  6  5  4  3  2  1  0
      +--+--+--+--+--+--+--+--+
      |N |V |1 |B |D |I |Z |C |
      +--+--+--+--+--+--+--+--+

   Every opcode byte selects an entry giving the mnemonic, addressing
   mode, base cycle count and handler. The effective address is worked
   out before the handler runs. Indexed reads that cross a page cost one
   more cycle.

   There is no illegal instruction trap. Undocumented opcodes are passed
   to the undefined hook and otherwise behave as NOPs of their length,
   the JAM opcodes lock the processor until reset.
*/

const (
	flagC uint8 = 0x01
	flagZ uint8 = 0x02
	flagI uint8 = 0x04
	flagD uint8 = 0x08
	flagB uint8 = 0x10
	flagU uint8 = 0x20
	flagV uint8 = 0x40
	flagN uint8 = 0x80
)

// Vectors.
const (
	vecNMI   uint16 = 0xfffa
	vecReset uint16 = 0xfffc
	vecIRQ   uint16 = 0xfffe
)

const stackBase uint16 = 0x0100

// Models, value is true when decimal mode works.
var models = map[string]bool{
	"6502": true,
	"6510": true,
	"2a03": false,
}

const (
	// Debug options.
	debugInst = 1 << iota
	debugIRQ
)

var debugOption = map[string]int{
	"INST": debugInst,
	"IRQ":  debugIRQ,
}

type opEntry struct {
	name  string // Mnemonic, undocumented opcodes start with '*'.
	mode  int    // Addressing mode.
	cyc   uint64 // Base cycle count.
	cross bool   // Extra cycle on page crossing.
	fn    func()
}

// CPU is one 6502 core.
type CPU struct {
	a  uint8
	x  uint8
	y  uint8
	s  uint8
	p  uint8
	pc uint16

	ir      uint8
	prevPC  uint16
	mode    int    // Addressing mode of current instruction.
	ea      uint16 // Effective address of current instruction.
	crossed bool   // Indexing crossed a page.

	irq        bool // IRQ input level.
	nmi        bool // NMI input level.
	nmiPending bool // NMI edge seen.
	jammed     bool // Locked by a JAM opcode.

	mem   cpu.Bus
	hooks device.Hooks
	table [256]opEntry

	cycles uint64
	cyc    uint64
	credit cpu.Credit
	state  cpu.State

	model    string
	decimal  bool
	debugMsk int
}

// Option configures a CPU at construction.
type Option func(*CPU)

func WithHooks(h device.Hooks) Option {
	return func(c *CPU) {
		c.hooks = h
	}
}

// Create a new 6502 on a little endian bus.
func New(mem cpu.Bus, opts ...Option) *CPU {
	c := &CPU{mem: mem, hooks: device.NopHooks{}, model: "6502", decimal: true}
	for _, opt := range opts {
		opt(c)
	}
	c.createTable()
	return c
}

func (c *CPU) SetModel(name string) error {
	dec, ok := models[name]
	if !ok {
		slog.Warn("unknown 6502 model, using 6502", "model", name)
		c.model = "6502"
		c.decimal = true
		return cpu.ErrUnknownModel
	}
	c.model = name
	c.decimal = dec
	return nil
}

func (c *CPU) Model() string {
	return c.model
}

func (c *CPU) Debug(opt string) error {
	return debug.SetOption("6502", debugOption, &c.debugMsk, opt)
}

// Reset processor, PC from the reset vector.
func (c *CPU) Reset() {
	c.a = 0
	c.x = 0
	c.y = 0
	c.s = 0xfd
	c.p = flagU | flagI
	c.pc = c.read16(vecReset)
	c.nmiPending = false
	c.jammed = false
	c.state = cpu.Running
	c.credit.Reset()
	c.cycles += 7
}

func (c *CPU) PC() uint32 {
	return uint32(c.pc)
}

func (c *CPU) Cycles() uint64 {
	return c.cycles
}

func (c *CPU) State() cpu.State {
	return c.state
}

// The 6502 has no double fault.
func (c *CPU) Fault() error {
	return nil
}

// IRQ input, level sensitive.
func (c *CPU) SetIRQ(level bool) {
	c.irq = level
	debug.Debugf("6502", c.debugMsk, debugIRQ, "irq %v", level)
}

// NMI input, taken on the falling edge of /NMI.
func (c *CPU) SetNMI(level bool) {
	if level && !c.nmi {
		c.nmiPending = true
	}
	c.nmi = level
	debug.Debugf("6502", c.debugMsk, debugIRQ, "nmi %v", level)
}

// Run processor for n cycles.
func (c *CPU) Clock(n uint64) {
	c.credit.Add(n)
	for c.credit.Available() {
		before := c.cycles
		c.Execute()
		c.credit.Spend(c.cycles - before)
	}
}

// Execute one instruction or take one interrupt.
func (c *CPU) Execute() {
	c.cyc = 0
	if c.jammed {
		c.cycles++
		return
	}
	if c.checkInterrupt() {
		c.cycles += c.cyc
		return
	}

	c.prevPC = c.pc
	c.ir = c.fetch()
	op := &c.table[c.ir]
	c.mode = op.mode
	c.address()
	debug.Debugf("6502", c.debugMsk, debugInst, "%04x %02x %s", c.prevPC, c.ir, op.name)
	c.cyc = op.cyc
	if op.cross && c.crossed {
		c.cyc++
	}
	op.fn()
	c.cycles += c.cyc
}

// Take NMI, or IRQ when not masked.
func (c *CPU) checkInterrupt() bool {
	var vec uint16
	switch {
	case c.nmiPending:
		c.nmiPending = false
		vec = vecNMI
	case c.irq && c.p&flagI == 0:
		vec = vecIRQ
	default:
		return false
	}
	debug.Debugf("6502", c.debugMsk, debugIRQ, "interrupt %04x at %04x", vec, c.pc)
	c.interrupt(vec, c.pc, false)
	c.cyc = 7
	return true
}

// Push return address and status then jump through vector.
func (c *CPU) interrupt(vec uint16, ret uint16, brk bool) {
	c.hooks.OnException(uint32(vec))
	c.push16(ret)
	p := (c.p | flagU) &^ flagB
	if brk {
		p |= flagB
	}
	c.push(p)
	c.p |= flagI
	c.pc = c.read16(vec)
}

func (c *CPU) fetch() uint8 {
	v := c.mem.GetUint8(uint32(c.pc))
	c.pc++
	return v
}

func (c *CPU) fetch16() uint16 {
	lo := uint16(c.fetch())
	return lo | uint16(c.fetch())<<8
}

func (c *CPU) read16(addr uint16) uint16 {
	lo := uint16(c.mem.GetUint8(uint32(addr)))
	return lo | uint16(c.mem.GetUint8(uint32(addr+1)))<<8
}

// Pointer read that wraps within a page.
func (c *CPU) read16Page(addr uint16) uint16 {
	lo := uint16(c.mem.GetUint8(uint32(addr)))
	hi := (addr & 0xff00) | uint16(uint8(addr)+1)
	return lo | uint16(c.mem.GetUint8(uint32(hi)))<<8
}

func (c *CPU) push(v uint8) {
	c.mem.SetUint8(uint32(stackBase|uint16(c.s)), v)
	c.s--
}

func (c *CPU) pull() uint8 {
	c.s++
	return c.mem.GetUint8(uint32(stackBase | uint16(c.s)))
}

func (c *CPU) push16(v uint16) {
	c.push(uint8(v >> 8))
	c.push(uint8(v))
}

func (c *CPU) pull16() uint16 {
	lo := uint16(c.pull())
	return lo | uint16(c.pull())<<8
}

// Undocumented opcode, a NOP of its length unless a hook takes it.
func (c *CPU) undefined() {
	if c.hooks.OnUndefined(uint32(c.prevPC), uint32(c.ir)) {
		return
	}
	slog.Debug("6502 undefined opcode", "pc", c.prevPC, "op", c.ir)
}

// JAM, only reset recovers.
func (c *CPU) opJam() {
	c.hooks.OnUndefined(uint32(c.prevPC), uint32(c.ir))
	slog.Warn("6502 jammed", "pc", c.prevPC, "op", c.ir)
	c.jammed = true
	c.state = cpu.Halted
	c.pc = c.prevPC
}
