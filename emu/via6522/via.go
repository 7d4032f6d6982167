/*
 * PCE - 6522 versatile interface adapter
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

package via6522

import (
	"fmt"

	"github.com/rcornwell/pce/emu/device"
	"github.com/rcornwell/pce/emu/memory"
	"github.com/rcornwell/pce/util/debug"
)

/*
   Two eight bit ports with data direction registers, two sixteen bit
   timers clocked by phi2, a shift register and the interrupt flag and
   enable registers. Timer 1 in free running mode has a period of latch
   plus two cycles, as on the real part.
*/

const (
	// Debug options.
	debugCmd = 1 << iota
	debugTimer
	debugIRQ
)

var debugOption = map[string]int{
	"CMD":   debugCmd,
	"TIMER": debugTimer,
	"IRQ":   debugIRQ,
}

// Registers.
const (
	regORB = iota
	regORA
	regDDRB
	regDDRA
	regT1CL
	regT1CH
	regT1LL
	regT1LH
	regT2CL
	regT2CH
	regSR
	regACR
	regPCR
	regIFR
	regIER
	regORANH
)

// Interrupt flags.
const (
	IntCA2 = 1 << iota
	IntCA1
	IntSR
	IntCB2
	IntCB1
	IntT2
	IntT1
	IntAny
)

// Port is the outside of one port. Read returns the levels driven onto
// the pins, Write is called with the pin levels after every change.
type Port struct {
	Read  func() uint8
	Write func(uint8)
}

type VIA struct {
	name     string
	ora      uint8
	orb      uint8
	ddra     uint8
	ddrb     uint8
	t1Count  uint16
	t1Latch  uint16
	t1Armed  bool // Interrupt on next underflow.
	t1Reload bool // Load latch on next cycle.
	t1PB7    bool
	t2Count  uint16
	t2Latch  uint8
	t2Armed  bool
	sr       uint8
	acr      uint8
	pcr      uint8
	ifr      uint8
	ier      uint8
	ca1      bool
	cb1      bool
	portA    Port
	portB    Port
	ca2Out   device.Line
	cb2Out   device.Line
	irq      device.Line
	irqOut   bool
	debugMsk int
}

func New(name string) *VIA {
	v := &VIA{name: name}
	v.Reset()
	return v
}

// Connect the two ports.
func (v *VIA) SetPorts(a, b Port) {
	v.portA = a
	v.portB = b
}

// Connect CA2 and CB2 when used as outputs.
func (v *VIA) SetControl(ca2, cb2 device.Line) {
	v.ca2Out = ca2
	v.cb2Out = cb2
}

// Connect interrupt output, active high.
func (v *VIA) SetIRQ(line device.Line) {
	v.irq = line
}

func (v *VIA) Name() string {
	return v.name
}

func (v *VIA) Reset() {
	v.ora, v.orb = 0, 0
	v.ddra, v.ddrb = 0, 0
	v.t1Armed = false
	v.t1Reload = false
	v.t1PB7 = true
	v.t2Armed = false
	v.sr = 0
	v.acr = 0
	v.pcr = 0
	v.ifr = 0
	v.ier = 0
	v.update()
}

func (v *VIA) Debug(opt string) error {
	return debug.SetOption(v.name, debugOption, &v.debugMsk, opt)
}

func (v *VIA) Show() string {
	return fmt.Sprintf("%s: ora=%02x ddra=%02x orb=%02x ddrb=%02x t1=%04x/%04x t2=%04x acr=%02x pcr=%02x ifr=%02x ier=%02x\n",
		v.name, v.ora, v.ddra, v.orb, v.ddrb, v.t1Count, v.t1Latch, v.t2Count, v.acr, v.pcr, v.ifr, v.ier)
}

// Block decoding the sixteen registers at addr, repeated over size bytes.
func (v *VIA) Block(addr uint32, size uint32) *memory.Block {
	return &memory.Block{
		Name: v.name,
		Addr: addr,
		Size: size,
		Get8: func(a uint32) uint8 { return v.Get8(a - addr) },
		Set8: func(a uint32, val uint8) { v.Set8(a-addr, val) },
	}
}

func (v *VIA) inputA() uint8 {
	in := uint8(0xff)
	if v.portA.Read != nil {
		in = v.portA.Read()
	}
	return in&^v.ddra | v.ora&v.ddra
}

func (v *VIA) inputB() uint8 {
	in := uint8(0xff)
	if v.portB.Read != nil {
		in = v.portB.Read()
	}
	val := in&^v.ddrb | v.orb&v.ddrb
	if v.acr&0x80 != 0 {
		val &^= 0x80
		if v.t1PB7 {
			val |= 0x80
		}
	}
	return val
}

func (v *VIA) outputA() {
	if v.portA.Write != nil {
		v.portA.Write(v.ora | ^v.ddra)
	}
}

func (v *VIA) outputB() {
	if v.portB.Write != nil {
		val := v.orb | ^v.ddrb
		if v.acr&0x80 != 0 {
			val &^= 0x80
			if v.t1PB7 {
				val |= 0x80
			}
		}
		v.portB.Write(val)
	}
}

func (v *VIA) Get8(reg uint32) uint8 {
	switch reg & 0xf {
	case regORB:
		v.clearFlags(IntCB1 | v.cb2Handshake())
		return v.inputB()
	case regORA:
		v.clearFlags(IntCA1 | v.ca2Handshake())
		return v.inputA()
	case regORANH:
		return v.inputA()
	case regDDRB:
		return v.ddrb
	case regDDRA:
		return v.ddra
	case regT1CL:
		v.clearFlags(IntT1)
		return uint8(v.t1Count)
	case regT1CH:
		return uint8(v.t1Count >> 8)
	case regT1LL:
		return uint8(v.t1Latch)
	case regT1LH:
		return uint8(v.t1Latch >> 8)
	case regT2CL:
		v.clearFlags(IntT2)
		return uint8(v.t2Count)
	case regT2CH:
		return uint8(v.t2Count >> 8)
	case regSR:
		v.clearFlags(IntSR)
		return v.sr
	case regACR:
		return v.acr
	case regPCR:
		return v.pcr
	case regIFR:
		return v.ifr
	default:
		return v.ier | 0x80
	}
}

func (v *VIA) Set8(reg uint32, val uint8) {
	switch reg & 0xf {
	case regORB:
		v.orb = val
		v.clearFlags(IntCB1 | v.cb2Handshake())
		v.outputB()
	case regORA:
		v.ora = val
		v.clearFlags(IntCA1 | v.ca2Handshake())
		v.outputA()
	case regORANH:
		v.ora = val
		v.outputA()
	case regDDRB:
		v.ddrb = val
		v.outputB()
	case regDDRA:
		v.ddra = val
		v.outputA()
	case regT1CL, regT1LL:
		v.t1Latch = v.t1Latch&0xff00 | uint16(val)
	case regT1CH:
		v.t1Latch = v.t1Latch&0x00ff | uint16(val)<<8
		v.t1Count = v.t1Latch
		v.t1Armed = true
		v.t1Reload = false
		v.clearFlags(IntT1)
		if v.acr&0x80 != 0 {
			v.t1PB7 = false
			v.outputB()
		}
		debug.Debugf(v.name, v.debugMsk, debugTimer, "t1 start %04x", v.t1Count)
	case regT1LH:
		v.t1Latch = v.t1Latch&0x00ff | uint16(val)<<8
		v.clearFlags(IntT1)
	case regT2CL:
		v.t2Latch = val
	case regT2CH:
		v.t2Count = uint16(val)<<8 | uint16(v.t2Latch)
		v.t2Armed = true
		v.clearFlags(IntT2)
		debug.Debugf(v.name, v.debugMsk, debugTimer, "t2 start %04x", v.t2Count)
	case regSR:
		v.sr = val
		v.clearFlags(IntSR)
	case regACR:
		v.acr = val
		v.outputB()
	case regPCR:
		v.pcr = val
		v.controlOutputs()
	case regIFR:
		v.clearFlags(val & 0x7f)
	case regIER:
		if val&0x80 != 0 {
			v.ier |= val & 0x7f
		} else {
			v.ier &^= val & 0x7f
		}
		debug.Debugf(v.name, v.debugMsk, debugCmd, "ier %02x", v.ier)
		v.update()
	}
}

// CA2 flag cleared by port access unless in independent interrupt mode.
func (v *VIA) ca2Handshake() uint8 {
	if v.pcr&0x0a == 0x02 {
		return 0
	}
	return IntCA2
}

func (v *VIA) cb2Handshake() uint8 {
	if v.pcr&0xa0 == 0x20 {
		return 0
	}
	return IntCB2
}

// Drive CA2 and CB2 in manual output modes.
func (v *VIA) controlOutputs() {
	if v.pcr&0x0c == 0x0c {
		v.ca2Out.Set(v.pcr&0x02 != 0)
	}
	if v.pcr&0xc0 == 0xc0 {
		v.cb2Out.Set(v.pcr&0x20 != 0)
	}
}

// Change level of CA1 input.
func (v *VIA) SetCA1(level bool) {
	if level != v.ca1 && level == (v.pcr&0x01 != 0) {
		v.setFlags(IntCA1)
	}
	v.ca1 = level
}

// Change level of CB1 input.
func (v *VIA) SetCB1(level bool) {
	if level != v.cb1 && level == (v.pcr&0x10 != 0) {
		v.setFlags(IntCB1)
	}
	v.cb1 = level
}

// Active edge on CA2 when used as input.
func (v *VIA) SignalCA2() {
	if v.pcr&0x08 == 0 {
		v.setFlags(IntCA2)
	}
}

// Active edge on CB2 when used as input.
func (v *VIA) SignalCB2() {
	if v.pcr&0x80 == 0 {
		v.setFlags(IntCB2)
	}
}

func (v *VIA) setFlags(f uint8) {
	v.ifr |= f
	v.update()
}

func (v *VIA) clearFlags(f uint8) {
	v.ifr &^= f
	v.update()
}

func (v *VIA) update() {
	level := v.ifr&v.ier&0x7f != 0
	if level {
		v.ifr |= IntAny
	} else {
		v.ifr &^= IntAny
	}
	if level == v.irqOut {
		return
	}
	v.irqOut = level
	debug.Debugf(v.name, v.debugMsk, debugIRQ, "irq %v ifr %02x", level, v.ifr)
	v.irq.Set(level)
}

// Advance timers by n phi2 cycles.
func (v *VIA) Clock(n uint64) {
	for range n {
		v.tick()
	}
}

func (v *VIA) tick() {
	if v.t1Reload {
		v.t1Reload = false
		v.t1Count = v.t1Latch
	} else {
		v.t1Count--
		if v.t1Count == 0xffff {
			v.t1Underflow()
		}
	}

	if v.acr&0x20 == 0 {
		v.t2Count--
		if v.t2Count == 0xffff && v.t2Armed {
			v.t2Armed = false
			v.setFlags(IntT2)
		}
	}
}

func (v *VIA) t1Underflow() {
	free := v.acr&0x40 != 0
	if free {
		v.t1Reload = true
	}
	if !v.t1Armed {
		return
	}
	if !free {
		v.t1Armed = false
	}
	if v.acr&0x80 != 0 {
		if free {
			v.t1PB7 = !v.t1PB7
		} else {
			v.t1PB7 = true
		}
		v.outputB()
	}
	v.setFlags(IntT1)
}
