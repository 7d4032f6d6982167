/*
 * PCE - 8086 execution core
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

import (
	"log/slog"

	"github.com/rcornwell/pce/emu/cpu"
	"github.com/rcornwell/pce/emu/device"
	"github.com/rcornwell/pce/util/debug"
)

/*
   The 8086 family has eight sixteen bit general registers, four segment
   registers and a twenty bit address space formed by segment*16+offset.
   Ports are a separate sixteen bit address space reached by IN and OUT.

   The first byte of an instruction selects the handler through a 256
   entry table. Prefix bytes are consumed before the table lookup.
   Handlers with a ModRM byte decode it through decodeModRM which also
   charges the effective address time for memory operands.

   Interrupts push FLAGS, CS and IP and load CS:IP from the vector table at
   address zero. Nothing in real mode can fault while building the frame.

   The 80186 adds a handful of instructions and raises interrupt 6 on
   undefined opcodes, the 8086 runs them as NOPs.
*/

const (
	flagCF uint16 = 0x0001
	flagPF uint16 = 0x0004
	flagAF uint16 = 0x0010
	flagZF uint16 = 0x0040
	flagSF uint16 = 0x0080
	flagTF uint16 = 0x0100
	flagIF uint16 = 0x0200
	flagDF uint16 = 0x0400
	flagOF uint16 = 0x0800

	flagMask uint16 = 0x0fd5
)

// General register numbers as encoded in instructions.
const (
	regAX = iota
	regCX
	regDX
	regBX
	regSP
	regBP
	regSI
	regDI
)

// Segment register numbers.
const (
	segES = iota
	segCS
	segSS
	segDS
)

// Interrupt types raised by the processor.
const (
	intDivide    = 0
	intStep      = 1
	intNMI       = 2
	intBreak     = 3
	intOverflow  = 4
	intBound     = 5
	intUndefined = 6
)

// Instruction set level of each model.
const (
	level8086 = iota
	level186
	level286
)

type model struct {
	level   int
	byteBus bool // Eight bit data bus, word transfers cost four more cycles.
}

var models = map[string]model{
	"8086":  {level8086, false},
	"8088":  {level8086, true},
	"80186": {level186, false},
	"80188": {level186, true},
	"80286": {level286, false},
}

const (
	// Debug options.
	debugInst = 1 << iota
	debugIRQ
	debugIO
)

var debugOption = map[string]int{
	"INST": debugInst,
	"IRQ":  debugIRQ,
	"IO":   debugIO,
}

type opEntry struct {
	name string // Mnemonic or group name.
	args string // Operand layout for disassembly.
	fn   func()
	cyc  uint64 // Register form cycles.
	mcyc uint64 // Memory form cycles before effective address time.
}

// CPU is one 8086 family core.
type CPU struct {
	regs  [8]uint16
	sregs [4]uint16
	ip    uint16
	flags uint16

	op     uint8
	cur    *opEntry
	prevCS uint16 // Start of instruction including prefixes.
	prevIP uint16

	segOver int   // Segment override, -1 if none.
	rep     uint8 // Repeat prefix.

	// Decoded ModRM byte.
	mod   uint8
	reg   uint8
	rm    uint8
	eaSeg int
	eaOff uint16

	inhibit    bool // No interrupt after this instruction.
	intr       bool // INTR input level.
	nmi        bool
	nmiPending bool

	mem    cpu.Bus
	io     cpu.Bus
	hooks  device.Hooks
	intAck func() uint8
	table  [256]opEntry

	cycles uint64
	cyc    uint64
	credit cpu.Credit
	state  cpu.State

	model    string
	level    int
	byteBus  bool
	debugMsk int
}

// Option configures a CPU at construction.
type Option func(*CPU)

func WithHooks(h device.Hooks) Option {
	return func(c *CPU) {
		c.hooks = h
	}
}

// Interrupt acknowledge, returns the interrupt type from the PIC.
func WithInterruptAck(ack func() uint8) Option {
	return func(c *CPU) {
		c.intAck = ack
	}
}

// Create a new 8086 with memory and port buses.
func New(mem cpu.Bus, io cpu.Bus, opts ...Option) *CPU {
	c := &CPU{mem: mem, io: io, hooks: device.NopHooks{}, model: "8086"}
	for _, opt := range opts {
		opt(c)
	}
	c.createTable()
	return c
}

func (c *CPU) SetModel(name string) error {
	m, ok := models[name]
	if !ok {
		slog.Warn("unknown 8086 model, using 8086", "model", name)
		name = "8086"
		m = models[name]
	}
	c.model = name
	c.level = m.level
	c.byteBus = m.byteBus
	c.createTable()
	if !ok {
		return cpu.ErrUnknownModel
	}
	return nil
}

func (c *CPU) Model() string {
	return c.model
}

func (c *CPU) Debug(opt string) error {
	return debug.SetOption("8086", debugOption, &c.debugMsk, opt)
}

// Reset processor, execution starts at FFFF:0000.
func (c *CPU) Reset() {
	c.regs = [8]uint16{}
	c.sregs = [4]uint16{}
	c.sregs[segCS] = 0xffff
	c.ip = 0
	c.flags = 0
	c.inhibit = false
	c.nmiPending = false
	c.state = cpu.Running
	c.credit.Reset()
}

// Linear address of CS:IP.
func (c *CPU) PC() uint32 {
	return linear(c.sregs[segCS], c.ip)
}

func (c *CPU) Segment() uint16 {
	return c.sregs[segCS]
}

func (c *CPU) Offset() uint16 {
	return c.ip
}

func (c *CPU) Cycles() uint64 {
	return c.cycles
}

func (c *CPU) State() cpu.State {
	return c.state
}

// Real mode never double faults.
func (c *CPU) Fault() error {
	return nil
}

// INTR input, level sensitive.
func (c *CPU) SetINTR(level bool) {
	c.intr = level
	debug.Debugf("8086", c.debugMsk, debugIRQ, "intr %v", level)
}

// NMI input, rising edge.
func (c *CPU) SetNMI(level bool) {
	if level && !c.nmi {
		c.nmiPending = true
	}
	c.nmi = level
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
	if c.inhibit {
		c.inhibit = false
	} else if c.checkInterrupt() {
		c.cycles += c.cyc
		return
	}
	if c.state == cpu.Halted {
		c.cycles += 2
		return
	}

	trace := c.flags&flagTF != 0
	c.prevCS = c.sregs[segCS]
	c.prevIP = c.ip
	c.segOver = -1
	c.rep = 0
	for {
		c.op = c.fetch8()
		switch c.op {
		case 0x26, 0x2e, 0x36, 0x3e:
			c.segOver = int(c.op>>3) & 3
			c.cyc += 2
			continue
		case 0xf0:
			c.cyc += 2
			continue
		case 0xf2, 0xf3:
			c.rep = c.op
			c.cyc += 2
			continue
		}
		break
	}

	c.cur = &c.table[c.op]
	debug.Debugf("8086", c.debugMsk, debugInst, "%04x:%04x %02x %s", c.prevCS, c.prevIP, c.op, c.cur.name)
	c.cyc += c.cur.cyc
	c.cur.fn()
	if trace && c.state == cpu.Running {
		c.interrupt(intStep)
	}
	c.cycles += c.cyc
}

// Take NMI, or INTR when enabled.
func (c *CPU) checkInterrupt() bool {
	switch {
	case c.nmiPending:
		c.nmiPending = false
		c.interrupt(intNMI)
		c.cyc += 50
	case c.intr && c.flags&flagIF != 0:
		vec := uint8(8)
		if c.intAck != nil {
			vec = c.intAck()
		}
		debug.Debugf("8086", c.debugMsk, debugIRQ, "intr type %02x at %04x:%04x", vec, c.sregs[segCS], c.ip)
		c.interrupt(vec)
		c.cyc += 61
	default:
		return false
	}
	return true
}

// Push FLAGS, CS and IP and enter handler for type n.
func (c *CPU) interrupt(n uint8) {
	c.hooks.OnException(uint32(n))
	c.push(c.pushFlags())
	c.push(c.sregs[segCS])
	c.push(c.ip)
	c.flags &^= flagIF | flagTF
	vec := uint16(n) * 4
	c.ip = c.readWord(0, vec)
	c.sregs[segCS] = c.readWord(0, vec+2)
	c.state = cpu.Running
}

// Fault that returns to the start of the instruction.
func (c *CPU) fault(n uint8) {
	c.sregs[segCS] = c.prevCS
	c.ip = c.prevIP
	c.interrupt(n)
}

// Divide error returns past the instruction before the 80286.
func (c *CPU) divideError() {
	if c.level >= level286 {
		c.fault(intDivide)
		return
	}
	c.interrupt(intDivide)
}

// FLAGS as stored on the stack.
func (c *CPU) pushFlags() uint16 {
	if c.level >= level286 {
		return c.flags&flagMask | 0x0002
	}
	return c.flags&flagMask | 0xf002
}

// Undefined opcode, the 8086 ignores it.
func (c *CPU) undefined() {
	if c.hooks.OnUndefined(linear(c.prevCS, c.prevIP), uint32(c.op)) {
		return
	}
	slog.Debug("8086 undefined opcode", "cs", c.prevCS, "ip", c.prevIP, "op", c.op)
	if c.level >= level186 {
		c.fault(intUndefined)
	}
}
