/*
 * PCE - 8259 programmable interrupt controller
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

package pic8259

import (
	"fmt"

	"github.com/rcornwell/pce/emu/device"
	"github.com/rcornwell/pce/emu/memory"
	"github.com/rcornwell/pce/util/debug"
)

/*
   Eight request inputs with fixed or rotating priority. The controller is
   initialized by writing ICW1 to port 0 followed by ICW2 to ICW4 on port 1.
   After that port 1 writes set the mask (OCW1) and port 0 writes are OCW2
   (end of interrupt, rotation) or OCW3 (read register select).

   The INTR output is high while an unmasked request has higher priority
   than everything in service. The CPU acknowledges with InterruptAck which
   returns the vector.
*/

const (
	// Debug options.
	debugCmd = 1 << iota
	debugIRQ
)

var debugOption = map[string]int{
	"CMD": debugCmd,
	"IRQ": debugIRQ,
}

// ICW1 bits.
const (
	icw1ICW4   = 0x01
	icw1Single = 0x02
	icw1Level  = 0x08
	icw1Init   = 0x10
)

// OCW2 commands.
const (
	ocwEOI          = 1
	ocwSpecificEOI  = 3
	ocwRotateEOI    = 5
	ocwSetPriority  = 6
	ocwRotateSpecif = 7
)

type PIC struct {
	name     string
	irr      uint8 // Request register.
	isr      uint8 // In service register.
	imr      uint8 // Mask register.
	inputs   uint8 // Current input levels.
	vector   uint8 // Base vector from ICW2.
	icw1     uint8
	icw3     uint8
	icwStep  int  // Next initialization word expected, 0 when done.
	readISR  bool // Port 0 reads ISR instead of IRR.
	autoEOI  bool
	lowest   uint8 // Lowest priority level.
	intr     device.Line
	intrOut  bool
	debugMsk int
}

func New(name string) *PIC {
	p := &PIC{name: name}
	p.Reset()
	return p
}

// Connect interrupt output.
func (p *PIC) SetINTR(line device.Line) {
	p.intr = line
}

// Line for request input n.
func (p *PIC) IRQ(n int) device.Line {
	return func(level bool) {
		p.Set(n, level)
	}
}

// Change level of request input n.
func (p *PIC) Set(n int, level bool) {
	bit := uint8(1) << (n & 7)
	old := p.inputs&bit != 0
	if level {
		p.inputs |= bit
	} else {
		p.inputs &^= bit
	}
	switch {
	case p.icw1&icw1Level != 0:
		if level {
			p.irr |= bit
		} else {
			p.irr &^= bit
		}
	case level && !old:
		p.irr |= bit
		debug.Debugf(p.name, p.debugMsk, debugIRQ, "request %d", n)
	case !level:
		p.irr &^= bit
	}
	p.update()
}

// True if interrupt output is active.
func (p *PIC) Pending() bool {
	return p.intrOut
}

// Acknowledge highest request and return its vector. With nothing
// pending the spurious level 7 vector is returned.
func (p *PIC) InterruptAck() uint8 {
	irq, ok := p.highest()
	if !ok {
		debug.Debugf(p.name, p.debugMsk, debugIRQ, "spurious interrupt")
		return p.vector | 7
	}
	bit := uint8(1) << irq
	if p.icw1&icw1Level == 0 {
		p.irr &^= bit
	}
	if !p.autoEOI {
		p.isr |= bit
	}
	debug.Debugf(p.name, p.debugMsk, debugIRQ, "ack %d vector %02x", irq, p.vector|irq)
	p.update()
	return p.vector | irq
}

func (p *PIC) Name() string {
	return p.name
}

func (p *PIC) Reset() {
	p.irr = 0
	p.isr = 0
	p.imr = 0xff
	p.vector = 0
	p.icw1 = 0
	p.icw3 = 0
	p.icwStep = 0
	p.readISR = false
	p.autoEOI = false
	p.lowest = 7
	p.setINTR(false)
}

func (p *PIC) Debug(opt string) error {
	return debug.SetOption(p.name, debugOption, &p.debugMsk, opt)
}

func (p *PIC) Show() string {
	return fmt.Sprintf("%s: irr=%02x isr=%02x imr=%02x vector=%02x intr=%v\n",
		p.name, p.irr, p.isr, p.imr, p.vector, p.intrOut)
}

// Block decoding the two ports at addr.
func (p *PIC) Block(addr uint32) *memory.Block {
	return &memory.Block{
		Name: p.name,
		Addr: addr,
		Size: 2,
		Get8: func(a uint32) uint8 { return p.Get8(a - addr) },
		Set8: func(a uint32, v uint8) { p.Set8(a-addr, v) },
	}
}

func (p *PIC) Get8(reg uint32) uint8 {
	if reg&1 != 0 {
		return p.imr
	}
	if p.readISR {
		return p.isr
	}
	return p.irr
}

func (p *PIC) Set8(reg uint32, val uint8) {
	if reg&1 == 0 {
		switch {
		case val&icw1Init != 0:
			p.icw1 = val
			p.icwStep = 2
			p.imr = 0
			p.isr = 0
			p.irr = 0
			p.readISR = false
			p.autoEOI = false
			p.lowest = 7
			debug.Debugf(p.name, p.debugMsk, debugCmd, "icw1 %02x", val)
		case val&0x08 != 0:
			if val&0x02 != 0 {
				p.readISR = val&0x01 != 0
			}
		default:
			p.ocw2(val)
		}
		p.update()
		return
	}

	switch p.icwStep {
	case 2:
		p.vector = val & 0xf8
		switch {
		case p.icw1&icw1Single == 0:
			p.icwStep = 3
		case p.icw1&icw1ICW4 != 0:
			p.icwStep = 4
		default:
			p.icwStep = 0
		}
		debug.Debugf(p.name, p.debugMsk, debugCmd, "icw2 %02x", val)
	case 3:
		p.icw3 = val
		p.icwStep = 0
		if p.icw1&icw1ICW4 != 0 {
			p.icwStep = 4
		}
	case 4:
		p.autoEOI = val&0x02 != 0
		p.icwStep = 0
		debug.Debugf(p.name, p.debugMsk, debugCmd, "icw4 %02x", val)
	default:
		p.imr = val
		debug.Debugf(p.name, p.debugMsk, debugCmd, "mask %02x", val)
	}
	p.update()
}

func (p *PIC) ocw2(val uint8) {
	switch val >> 5 {
	case ocwEOI, ocwRotateEOI:
		for i := range uint8(8) {
			irq := (p.lowest + 1 + i) & 7
			if p.isr&(1<<irq) != 0 {
				p.isr &^= 1 << irq
				if val>>5 == ocwRotateEOI {
					p.lowest = irq
				}
				break
			}
		}
	case ocwSpecificEOI:
		p.isr &^= 1 << (val & 7)
	case ocwRotateSpecif:
		p.isr &^= 1 << (val & 7)
		p.lowest = val & 7
	case ocwSetPriority:
		p.lowest = val & 7
	}
	debug.Debugf(p.name, p.debugMsk, debugCmd, "ocw2 %02x isr %02x", val, p.isr)
}

// Highest priority request that is not blocked by one in service.
func (p *PIC) highest() (uint8, bool) {
	req := p.irr &^ p.imr
	for i := range uint8(8) {
		irq := (p.lowest + 1 + i) & 7
		bit := uint8(1) << irq
		if p.isr&bit != 0 {
			return 0, false
		}
		if req&bit != 0 {
			return irq, true
		}
	}
	return 0, false
}

func (p *PIC) update() {
	_, ok := p.highest()
	p.setINTR(ok && p.icwStep == 0)
}

func (p *PIC) setINTR(level bool) {
	if p.intrOut == level {
		return
	}
	p.intrOut = level
	p.intr.Set(level)
}
