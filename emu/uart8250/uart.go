/*
 * PCE - 8250 / 16550 serial port
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

package uart8250

import (
	"fmt"
	"log/slog"

	"github.com/rcornwell/pce/emu/device"
	"github.com/rcornwell/pce/emu/event"
	"github.com/rcornwell/pce/emu/memory"
	"github.com/rcornwell/pce/util/debug"
)

/*
   Serial port with the 8250 register set and the 16550 FIFOs. One clock
   tick is one bit time: a character takes start, data, parity and stop
   bits worth of ticks to shift in either direction.

   Characters from the host side are queued with Receive from any goroutine
   and pulled into the receive buffer by Clock. Transmitted characters go
   to the Backend, or back to the receiver in loopback mode.
*/

const (
	// Debug options.
	debugCmd = 1 << iota
	debugData
	debugIRQ
)

var debugOption = map[string]int{
	"CMD":  debugCmd,
	"DATA": debugData,
	"IRQ":  debugIRQ,
}

// Interrupt enable bits.
const (
	ierRx    = 0x01
	ierTx    = 0x02
	ierLine  = 0x04
	ierModem = 0x08
)

// Line status bits.
const (
	lsrDR   = 0x01
	lsrOE   = 0x02
	lsrTHRE = 0x20
	lsrTEMT = 0x40
)

// Modem control bits.
const (
	mcrDTR  = 0x01
	mcrRTS  = 0x02
	mcrOut1 = 0x04
	mcrOut2 = 0x08
	mcrLoop = 0x10
)

// Interrupt identification values.
const (
	iirNone  = 0x01
	iirLine  = 0x06
	iirRx    = 0x04
	iirTx    = 0x02
	iirModem = 0x00
	iirFIFO  = 0xc0
)

const (
	fifoSize  = 16
	queueSize = 4096
	lcrDLAB   = 0x80
)

// Backend receives transmitted characters.
type Backend interface {
	Send(data []byte)
}

type UART struct {
	name     string
	fifo     bool // 16550 FIFOs available.
	fifoOn   bool // FIFOs enabled by FCR.
	gateOut2 bool // Interrupt output gated by OUT2.
	dll      uint8
	dlm      uint8
	ier      uint8
	lcr      uint8
	mcr      uint8
	lsr      uint8
	msr      uint8
	scr      uint8
	trigger  int // Receive FIFO interrupt level.
	rx       []uint8
	tx       []uint8
	shifting bool // Transmit shift register busy.
	txIntr   bool // Transmit empty interrupt pending.
	rxTime   int  // Ticks until next receive.
	rxq      chan uint8
	events   event.List
	backend  Backend
	irq      device.Line
	irqOut   bool
	debugMsk int
}

// Create serial port, fifo selects a 16550.
func New(name string, fifo bool) *UART {
	u := &UART{name: name, fifo: fifo, rxq: make(chan uint8, queueSize)}
	u.Reset()
	return u
}

// Connect interrupt output.
func (u *UART) SetIRQ(line device.Line) {
	u.irq = line
}

// Interrupt output only active while OUT2 is set, as wired on the PC.
func (u *UART) SetGateOut2(gate bool) {
	u.gateOut2 = gate
	u.update()
}

// Connect host side.
func (u *UART) SetBackend(b Backend) {
	u.backend = b
	if b != nil {
		u.msr |= 0xb0
	} else {
		u.msr &^= 0xb0
	}
}

// Queue characters from host. Safe to call from any goroutine.
func (u *UART) Receive(data []byte) {
	for _, b := range data {
		select {
		case u.rxq <- b:
		default:
			slog.Warn("serial input dropped", "port", u.name)
			return
		}
	}
}

func (u *UART) Name() string {
	return u.name
}

func (u *UART) Reset() {
	u.dll = 0x0c
	u.dlm = 0
	u.ier = 0
	u.lcr = 0x03
	u.mcr = 0
	u.lsr = lsrTHRE | lsrTEMT
	u.scr = 0
	u.fifoOn = false
	u.trigger = 1
	u.rx = u.rx[:0]
	u.tx = u.tx[:0]
	u.shifting = false
	u.txIntr = false
	u.rxTime = 0
	for u.events.Cancel(u, 0) {
	}
	u.update()
}

func (u *UART) Debug(opt string) error {
	return debug.SetOption(u.name, debugOption, &u.debugMsk, opt)
}

func (u *UART) Show() string {
	return fmt.Sprintf("%s: div=%04x lcr=%02x ier=%02x mcr=%02x lsr=%02x msr=%02x rx=%d tx=%d irq=%v\n",
		u.name, uint16(u.dlm)<<8|uint16(u.dll), u.lcr, u.ier, u.mcr, u.lsr, u.msr, len(u.rx), len(u.tx), u.irqOut)
}

// Block decoding the eight registers at addr.
func (u *UART) Block(addr uint32) *memory.Block {
	return &memory.Block{
		Name: u.name,
		Addr: addr,
		Size: 8,
		Get8: func(a uint32) uint8 { return u.Get8(a - addr) },
		Set8: func(a uint32, v uint8) { u.Set8(a-addr, v) },
	}
}

// Divisor latch value.
func (u *UART) Divisor() uint16 {
	return uint16(u.dlm)<<8 | uint16(u.dll)
}

func (u *UART) Get8(reg uint32) uint8 {
	switch reg & 7 {
	case 0:
		if u.lcr&lcrDLAB != 0 {
			return u.dll
		}
		return u.readRx()
	case 1:
		if u.lcr&lcrDLAB != 0 {
			return u.dlm
		}
		return u.ier
	case 2:
		return u.readIIR()
	case 3:
		return u.lcr
	case 4:
		return u.mcr
	case 5:
		v := u.lsr
		u.lsr &^= lsrOE
		u.update()
		return v
	case 6:
		v := u.msr
		if u.mcr&mcrLoop != 0 {
			v = (u.mcr&mcrRTS)<<3 | (u.mcr&mcrDTR)<<5 | (u.mcr&mcrOut1)<<4 | (u.mcr&mcrOut2)<<4
		}
		u.msr &^= 0x0f
		u.update()
		return v
	default:
		return u.scr
	}
}

func (u *UART) Set8(reg uint32, val uint8) {
	switch reg & 7 {
	case 0:
		if u.lcr&lcrDLAB != 0 {
			u.dll = val
			return
		}
		u.writeTx(val)
	case 1:
		if u.lcr&lcrDLAB != 0 {
			u.dlm = val
			return
		}
		if val&ierTx != 0 && u.ier&ierTx == 0 && u.lsr&lsrTHRE != 0 {
			u.txIntr = true
		}
		u.ier = val & 0x0f
		debug.Debugf(u.name, u.debugMsk, debugCmd, "ier %02x", val)
	case 2:
		u.writeFCR(val)
	case 3:
		u.lcr = val
		debug.Debugf(u.name, u.debugMsk, debugCmd, "lcr %02x divisor %04x", val, u.Divisor())
	case 4:
		u.mcr = val & 0x1f
	case 5, 6:
	default:
		u.scr = val
	}
	u.update()
}

func (u *UART) writeFCR(val uint8) {
	if !u.fifo {
		return
	}
	u.fifoOn = val&0x01 != 0
	if val&0x02 != 0 || !u.fifoOn {
		u.rx = u.rx[:0]
		u.lsr &^= lsrDR
	}
	if val&0x04 != 0 || !u.fifoOn {
		u.tx = u.tx[:0]
		u.lsr |= lsrTHRE
		if !u.shifting {
			u.lsr |= lsrTEMT
		}
	}
	u.trigger = [4]int{1, 4, 8, 14}[val>>6]
	debug.Debugf(u.name, u.debugMsk, debugCmd, "fcr %02x", val)
}

func (u *UART) depth() int {
	if u.fifoOn {
		return fifoSize
	}
	return 1
}

// Ticks needed to shift one character.
func (u *UART) charTicks() int {
	bits := 1 + 5 + int(u.lcr&3) + 1
	if u.lcr&0x08 != 0 {
		bits++
	}
	if u.lcr&0x04 != 0 {
		bits++
	}
	return bits
}

func (u *UART) readRx() uint8 {
	if len(u.rx) == 0 {
		return 0
	}
	v := u.rx[0]
	u.rx = u.rx[1:]
	if len(u.rx) == 0 {
		u.lsr &^= lsrDR
	}
	u.update()
	return v
}

func (u *UART) readIIR() uint8 {
	id := u.interrupt()
	if id == iirTx {
		u.txIntr = false
		u.update()
	}
	if u.fifoOn {
		id |= iirFIFO
	}
	return id
}

// Highest priority interrupt source.
func (u *UART) interrupt() uint8 {
	switch {
	case u.ier&ierLine != 0 && u.lsr&lsrOE != 0:
		return iirLine
	case u.ier&ierRx != 0 && len(u.rx) >= u.rxLevel():
		return iirRx
	case u.ier&ierTx != 0 && u.txIntr:
		return iirTx
	case u.ier&ierModem != 0 && u.msr&0x0f != 0:
		return iirModem
	}
	return iirNone
}

func (u *UART) rxLevel() int {
	if u.fifoOn {
		return u.trigger
	}
	return 1
}

func (u *UART) update() {
	level := u.interrupt() != iirNone
	if u.gateOut2 && u.mcr&mcrOut2 == 0 {
		level = false
	}
	if level == u.irqOut {
		return
	}
	u.irqOut = level
	debug.Debugf(u.name, u.debugMsk, debugIRQ, "irq %v", level)
	u.irq.Set(level)
}

func (u *UART) writeTx(val uint8) {
	if len(u.tx) >= u.depth() {
		debug.Debugf(u.name, u.debugMsk, debugData, "transmit overrun %02x", val)
		return
	}
	u.tx = append(u.tx, val)
	u.lsr &^= lsrTHRE | lsrTEMT
	u.txIntr = false
	if !u.shifting {
		u.startTx()
	}
}

// Move next character into the shift register.
func (u *UART) startTx() {
	if len(u.tx) == 0 {
		return
	}
	v := u.tx[0]
	u.tx = u.tx[1:]
	u.shifting = true
	if len(u.tx) == 0 {
		u.lsr |= lsrTHRE
		u.txIntr = true
	}
	u.events.Add(u, func(int) { u.txDone(v) }, u.charTicks(), 0)
	u.update()
}

func (u *UART) txDone(v uint8) {
	u.shifting = false
	debug.Debugf(u.name, u.debugMsk, debugData, "send %02x", v)
	switch {
	case u.mcr&mcrLoop != 0:
		u.putRx(v)
	case u.backend != nil:
		u.backend.Send([]byte{v})
	}
	if len(u.tx) == 0 {
		u.lsr |= lsrTEMT
	}
	u.startTx()
	u.update()
}

func (u *UART) putRx(v uint8) {
	if len(u.rx) >= u.depth() {
		u.lsr |= lsrOE
		if !u.fifoOn {
			u.rx[0] = v
		}
		u.update()
		return
	}
	u.rx = append(u.rx, v)
	u.lsr |= lsrDR
	u.update()
}

// Advance port by n bit times.
func (u *UART) Clock(n uint64) {
	// Step to each event so one queued from a callback keeps its time.
	for left := int(n); left > 0; {
		step := u.events.Next()
		if step < 0 || step > left {
			step = left
		}
		u.events.Advance(step)
		left -= step
	}
	u.rxTime -= int(n)
	for u.rxTime <= 0 {
		if len(u.rx) >= u.depth() || u.mcr&mcrLoop != 0 {
			u.rxTime = 0
			return
		}
		select {
		case v := <-u.rxq:
			debug.Debugf(u.name, u.debugMsk, debugData, "receive %02x", v)
			u.putRx(v)
			u.rxTime += u.charTicks()
		default:
			u.rxTime = 0
			return
		}
	}
}
