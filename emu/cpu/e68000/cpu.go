/*
 * PCE - 68000 execution core
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
	"log/slog"

	"github.com/rcornwell/pce/emu/cpu"
	"github.com/rcornwell/pce/emu/device"
	"github.com/rcornwell/pce/util/debug"
)

/*
   The 68000 has eight data registers, eight address registers with A7
   doubling as the stack pointer, a 24 bit program counter and a 16 bit
   status register:

       15 14 13 12 11 10  9  8  7  6  5  4  3  2  1  0
      +--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+
      |T |  |S |  |  |I2|I1|I0|  |  |  |X |N |Z |V |C |
      +--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+

   Instructions are one to five 16 bit words. The first word selects the
   handler through a 1024 entry table indexed by its top ten bits, the
   handler decodes the effective address fields in the low six bits.

   Exceptions are taken by pushing the PC and SR on the supervisor stack
   and loading the PC from the vector table at address 0. Address errors
   push an extended fourteen byte frame. A fault while building a frame
   stops the processor until reset.
*/

const (
	flagC uint16 = 0x0001
	flagV uint16 = 0x0002
	flagZ uint16 = 0x0004
	flagN uint16 = 0x0008
	flagX uint16 = 0x0010
	flagS uint16 = 0x2000
	flagT uint16 = 0x8000

	srMask  uint16 = 0xa71f // Implemented SR bits.
	ccrMask uint16 = 0x001f
	iplMask uint16 = 0x0700

	addrMask uint32 = 0x00ffffff
)

// Exception vector numbers.
const (
	vecNone         uint16 = 0
	vecBusError     uint16 = 2
	vecAddressError uint16 = 3
	vecIllegal      uint16 = 4
	vecZeroDivide   uint16 = 5
	vecCHK          uint16 = 6
	vecTRAPV        uint16 = 7
	vecPrivilege    uint16 = 8
	vecTrace        uint16 = 9
	vecLineA        uint16 = 10
	vecLineF        uint16 = 11
	vecSpurious     uint16 = 24
	vecAutoVector   uint16 = 24 // Plus level.
	vecTrap         uint16 = 32 // Plus trap number.

	vecHandled uint16 = 0xffff // Instruction ended by hook, no exception.
)

const (
	// Debug options.
	debugInst = 1 << iota
	debugExcept
	debugIRQ
)

var debugOption = map[string]int{
	"INST":   debugInst,
	"EXCEPT": debugExcept,
	"IRQ":    debugIRQ,
}

type opEntry struct {
	name string        // Mnemonic.
	fn   func() uint16 // Handler, returns exception vector or zero.
	form int           // Operand layout for disassembly.
	size int           // Operand size in bytes.
	alt  string        // Mnemonic when ea mode is a register.
}

// CPU is one 68000 core.
type CPU struct {
	d      [8]uint32 // Data registers.
	a      [8]uint32 // Address registers, a[7] is the active stack.
	usp    uint32    // User stack when in supervisor mode.
	ssp    uint32    // Supervisor stack when in user mode.
	pc     uint32    // Program counter.
	sr     uint16    // Status register.
	ir     uint16    // Current instruction word.
	prevPC uint32    // Address of current instruction.

	mem   cpu.Bus
	hooks device.Hooks
	table [1024]opEntry

	cycles uint64     // Total cycles executed.
	cyc    uint64     // Cycles for current instruction.
	credit cpu.Credit // Budget given by Clock.
	state  cpu.State
	fault  error

	ipl        uint8 // Interrupt priority level on the pins.
	nmiPending bool  // Level 7 edge seen.
	inExcept   bool  // Building an exception frame.

	// Address error details for the group 0 frame.
	faultAddr  uint32
	faultRead  bool
	faultInstr bool

	// Interrupt acknowledge, nil uses autovectors.
	intAck    func(level uint8) (uint8, bool)
	resetLine device.Line

	model    string
	debugMsk int
}

// Option configures a CPU at construction.
type Option func(*CPU)

// Send CPU events to hooks.
func WithHooks(h device.Hooks) Option {
	return func(c *CPU) {
		c.hooks = h
	}
}

// Use a vectored interrupt acknowledge.
func WithInterruptAck(ack func(level uint8) (uint8, bool)) Option {
	return func(c *CPU) {
		c.intAck = ack
	}
}

// Line pulsed by the RESET instruction.
func WithResetLine(line device.Line) Option {
	return func(c *CPU) {
		c.resetLine = line
	}
}

// Create a new 68000 on bus.
func New(mem cpu.Bus, opts ...Option) *CPU {
	c := &CPU{mem: mem, hooks: device.NopHooks{}, model: "68000"}
	for _, opt := range opts {
		opt(c)
	}
	c.createTable()
	return c
}

// Select model, only the 68000 is supported.
func (c *CPU) SetModel(name string) error {
	switch name {
	case "68000", "68k", "":
		c.model = "68000"
		return nil
	}
	slog.Warn("unknown 68000 model, using 68000", "model", name)
	return cpu.ErrUnknownModel
}

func (c *CPU) Model() string {
	return c.model
}

// Enable debug option.
func (c *CPU) Debug(opt string) error {
	return debug.SetOption("68000", debugOption, &c.debugMsk, opt)
}

// Reset processor: SSP from address 0 and PC from address 4.
func (c *CPU) Reset() {
	c.d = [8]uint32{}
	c.a = [8]uint32{}
	c.usp = 0
	c.sr = 0x2700
	c.a[7] = c.mem.GetUint32(0) & addrMask
	c.ssp = c.a[7]
	c.pc = c.mem.GetUint32(4) & addrMask
	c.ipl = 0
	c.nmiPending = false
	c.inExcept = false
	c.state = cpu.Running
	c.fault = nil
	c.credit.Reset()
	c.cycles += 40
	c.resetLine.Set(true)
	c.resetLine.Set(false)
}

// Current PC.
func (c *CPU) PC() uint32 {
	return c.pc
}

// Total cycles executed.
func (c *CPU) Cycles() uint64 {
	return c.cycles
}

// Current state of exception state machine.
func (c *CPU) State() cpu.State {
	return c.state
}

// Error that stopped the processor.
func (c *CPU) Fault() error {
	return c.fault
}

// Set interrupt priority level presented on the pins.
func (c *CPU) Interrupt(level uint8) {
	level &= 7
	if level == 7 && c.ipl != 7 {
		c.nmiPending = true
	}
	c.ipl = level
	debug.Debugf("68000", c.debugMsk, debugIRQ, "ipl %d", level)
}

// Run processor for n cycles. The budget carries between calls.
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

// Execute one instruction, or take one exception.
func (c *CPU) Execute() {
	if c.state == cpu.Stopped {
		return
	}
	c.cyc = 0

	if c.checkInterrupt() {
		c.cycles += c.cyc
		return
	}

	if c.state == cpu.Halted {
		c.cycles += 4
		return
	}

	trace := (c.sr & flagT) != 0
	c.prevPC = c.pc

	ir, exc := c.fetchWord()
	if exc == vecNone {
		c.ir = ir
		op := &c.table[ir>>6]
		debug.Debugf("68000", c.debugMsk, debugInst, "%06x %04x %s", c.prevPC, ir, op.name)
		exc = op.fn()
	}

	switch {
	case exc == vecHandled:
	case exc != vecNone:
		c.exception(exc)
	case trace && c.state == cpu.Running:
		c.exception(vecTrace)
	}
	if c.cyc < 4 {
		c.cyc = 4
	}
	c.cycles += c.cyc
}

// Take pending interrupt if above mask.
func (c *CPU) checkInterrupt() bool {
	level := c.ipl
	mask := uint8((c.sr & iplMask) >> 8)
	if level == 0 {
		return false
	}
	if level <= mask && !(level == 7 && c.nmiPending) {
		return false
	}
	c.nmiPending = false

	vec := vecAutoVector + uint16(level)
	if c.intAck != nil {
		if v, ok := c.intAck(level); ok {
			vec = uint16(v)
		}
	}
	debug.Debugf("68000", c.debugMsk, debugIRQ, "interrupt level %d vector %d", level, vec)
	c.state = cpu.Running
	c.prevPC = c.pc
	c.exception(vec)
	if c.state == cpu.Running {
		c.sr = (c.sr &^ iplMask) | uint16(level)<<8
	}
	c.cyc += 10
	return true
}

// Change status register, switching stacks when S changes.
func (c *CPU) setSR(sr uint16) {
	sr &= srMask
	if (sr^c.sr)&flagS != 0 {
		if sr&flagS != 0 {
			c.usp = c.a[7]
			c.a[7] = c.ssp
		} else {
			c.ssp = c.a[7]
			c.a[7] = c.usp
		}
	}
	c.sr = sr
}

// Check if in supervisor mode.
func (c *CPU) super() bool {
	return (c.sr & flagS) != 0
}

// Process exception, building frame on supervisor stack.
func (c *CPU) exception(vec uint16) {
	if c.inExcept {
		c.doubleFault(vec)
		return
	}

	c.hooks.OnException(uint32(vec))
	debug.Debugf("68000", c.debugMsk, debugExcept, "exception %d at %06x sr %04x", vec, c.prevPC, c.sr)

	pushPC := c.pc
	switch vec {
	case vecIllegal, vecPrivilege, vecLineA, vecLineF:
		pushPC = c.prevPC
	}

	c.inExcept = true
	oldSR := c.sr
	c.setSR((c.sr | flagS) &^ flagT)

	var exc uint16
	if vec == vecAddressError || vec == vecBusError {
		exc = c.groupZeroFrame(pushPC, oldSR)
		c.cyc += 50
	} else {
		exc = c.push(4, pushPC)
		if exc == vecNone {
			exc = c.push(2, uint32(oldSR))
		}
		c.cyc += 34
	}
	if exc != vecNone {
		c.doubleFault(exc)
		return
	}

	addr, exc := c.read(4, uint32(vec)*4)
	if exc == vecNone && addr&1 != 0 {
		c.faultAddr = addr
		c.faultRead = true
		c.faultInstr = true
		exc = vecAddressError
	}
	if exc != vecNone {
		c.doubleFault(exc)
		return
	}
	c.pc = addr & addrMask
	c.inExcept = false
	if c.state == cpu.Halted {
		c.state = cpu.Running
	}
}

// Push extended frame for bus and address errors.
func (c *CPU) groupZeroFrame(pc uint32, sr uint16) uint16 {
	status := uint32(5) // Supervisor data.
	if sr&flagS == 0 {
		status = 1
	}
	if c.faultInstr {
		status++
	}
	if c.faultRead {
		status |= 0x10
	}
	if !c.faultInstr {
		status |= 0x08
	}
	addr := c.faultAddr
	if exc := c.push(4, pc); exc != vecNone {
		return exc
	}
	if exc := c.push(2, uint32(sr)); exc != vecNone {
		return exc
	}
	if exc := c.push(2, uint32(c.ir)); exc != vecNone {
		return exc
	}
	if exc := c.push(4, addr); exc != vecNone {
		return exc
	}
	return c.push(2, status)
}

// Fault while processing an exception, stop the processor.
func (c *CPU) doubleFault(vec uint16) {
	c.state = cpu.Stopped
	c.fault = cpu.ErrDoubleFault
	c.inExcept = false
	slog.Error("68000 double fault, processor halted", "pc", c.prevPC, "vector", vec, "sp", c.a[7])
}

// Push value on active stack.
func (c *CPU) push(size int, val uint32) uint16 {
	sp := c.a[7] - uint32(size)
	if exc := c.write(size, sp, val); exc != vecNone {
		return exc
	}
	c.a[7] = sp
	return vecNone
}

// Pop value from active stack.
func (c *CPU) pop(size int) (uint32, uint16) {
	val, exc := c.read(size, c.a[7])
	if exc != vecNone {
		return 0, exc
	}
	c.a[7] += uint32(size)
	return val, vecNone
}

// Read memory, word and long accesses must be even.
func (c *CPU) read(size int, addr uint32) (uint32, uint16) {
	addr &= addrMask
	if size != 1 && addr&1 != 0 {
		c.faultAddr = addr
		c.faultRead = true
		c.faultInstr = false
		return 0, vecAddressError
	}
	switch size {
	case 1:
		return uint32(c.mem.GetUint8(addr)), vecNone
	case 2:
		return uint32(c.mem.GetUint16(addr)), vecNone
	}
	return c.mem.GetUint32(addr), vecNone
}

// Write memory, word and long accesses must be even.
func (c *CPU) write(size int, addr uint32, val uint32) uint16 {
	addr &= addrMask
	if size != 1 && addr&1 != 0 {
		c.faultAddr = addr
		c.faultRead = false
		c.faultInstr = false
		return vecAddressError
	}
	switch size {
	case 1:
		c.mem.SetUint8(addr, uint8(val))
	case 2:
		c.mem.SetUint16(addr, uint16(val))
	default:
		c.mem.SetUint32(addr, val)
	}
	return vecNone
}

// Fetch next instruction word.
func (c *CPU) fetchWord() (uint16, uint16) {
	if c.pc&1 != 0 {
		c.faultAddr = c.pc
		c.faultRead = true
		c.faultInstr = true
		return 0, vecAddressError
	}
	val := c.mem.GetUint16(c.pc & addrMask)
	c.pc = (c.pc + 2) & addrMask
	return val, vecNone
}

// Fetch next two instruction words.
func (c *CPU) fetchLong() (uint32, uint16) {
	hi, exc := c.fetchWord()
	if exc != vecNone {
		return 0, exc
	}
	lo, exc := c.fetchWord()
	if exc != vecNone {
		return 0, exc
	}
	return uint32(hi)<<16 | uint32(lo), vecNone
}

// Undefined opcode, let hooks see it first.
func (c *CPU) undefined() uint16 {
	if c.hooks.OnUndefined(c.prevPC, uint32(c.ir)) {
		return vecHandled
	}
	slog.Debug("68000 illegal instruction", "pc", c.prevPC, "ir", c.ir)
	return vecIllegal
}

// Check if privilege allows instruction.
func (c *CPU) privileged() uint16 {
	if c.super() {
		return vecNone
	}
	return vecPrivilege
}
