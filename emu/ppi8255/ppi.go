/*
 * PCE - 8255 peripheral interface with PC keyboard
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

package ppi8255

import (
	"fmt"
	"log/slog"

	"github.com/rcornwell/pce/emu/device"
	"github.com/rcornwell/pce/emu/event"
	"github.com/rcornwell/pce/emu/memory"
	"github.com/rcornwell/pce/util/debug"
)

/*
   PC/XT wiring of the 8255:

     Port A  keyboard scan code, configuration switches while PB7 is set
     Port B  0 timer 2 gate, 1 speaker data, 3 switch nibble select,
             6 keyboard clock enable, 7 keyboard clear
     Port C  0-3 switch nibble, 5 timer 2 output

   Holding the keyboard clock low and releasing it resets the keyboard,
   which answers with 0xaa a short time later. A scan code raises IRQ 1
   and stays until cleared by a pulse on PB7.
*/

const (
	// Debug options.
	debugCmd = 1 << iota
	debugKey
)

var debugOption = map[string]int{
	"CMD": debugCmd,
	"KEY": debugKey,
}

// Port B bits.
const (
	pbGate2   = 0x01
	pbSpeaker = 0x02
	pbSwHigh  = 0x08
	pbKbClock = 0x40
	pbKbClear = 0x80
)

const (
	keyQueue   = 256
	resetDelay = 16 // Ticks between keyboard reset and self test code.
	selfTest   = 0xaa
)

type PPI struct {
	name     string
	portB    uint8
	control  uint8
	switches uint8
	key      uint8
	keyValid bool
	keyq     chan uint8
	events   event.List
	irq      device.Line
	gate2    device.Line
	speaker  device.Line
	timerOut func() bool
	debugMsk int
}

// Create interface with configuration switches sw.
func New(name string, sw uint8) *PPI {
	p := &PPI{name: name, switches: sw, keyq: make(chan uint8, keyQueue)}
	p.Reset()
	return p
}

// Connect keyboard interrupt.
func (p *PPI) SetIRQ(line device.Line) {
	p.irq = line
}

// Connect timer 2 gate and speaker data outputs.
func (p *PPI) SetTimer(gate2 device.Line, speaker device.Line, out2 func() bool) {
	p.gate2 = gate2
	p.speaker = speaker
	p.timerOut = out2
}

// Queue scan codes from host. Safe to call from any goroutine.
func (p *PPI) SendKeys(codes []byte) {
	for _, c := range codes {
		select {
		case p.keyq <- c:
		default:
			slog.Warn("keyboard buffer full", "device", p.name)
			return
		}
	}
}

func (p *PPI) Name() string {
	return p.name
}

func (p *PPI) Reset() {
	p.setPortB(pbKbClock)
	p.control = 0x99
	p.key = 0
	p.keyValid = false
	for p.events.Cancel(p, 0) {
	}
	p.irq.Set(false)
}

func (p *PPI) Debug(opt string) error {
	return debug.SetOption(p.name, debugOption, &p.debugMsk, opt)
}

func (p *PPI) Show() string {
	return fmt.Sprintf("%s: portb=%02x switches=%02x key=%02x valid=%v queued=%d\n",
		p.name, p.portB, p.switches, p.key, p.keyValid, len(p.keyq))
}

// Block decoding the four ports at addr.
func (p *PPI) Block(addr uint32) *memory.Block {
	return &memory.Block{
		Name: p.name,
		Addr: addr,
		Size: 4,
		Get8: func(a uint32) uint8 { return p.Get8(a - addr) },
		Set8: func(a uint32, v uint8) { p.Set8(a-addr, v) },
	}
}

func (p *PPI) Get8(reg uint32) uint8 {
	switch reg & 3 {
	case 0:
		if p.portB&pbKbClear != 0 {
			return p.switches
		}
		return p.key
	case 1:
		return p.portB
	case 2:
		v := p.switches & 0x0f
		if p.portB&pbSwHigh != 0 {
			v = p.switches >> 4
		}
		if p.timerOut != nil && p.timerOut() {
			v |= 0x20
		}
		return v
	default:
		return p.control
	}
}

func (p *PPI) Set8(reg uint32, val uint8) {
	switch reg & 3 {
	case 1:
		p.setPortB(val)
	case 3:
		if val&0x80 != 0 {
			p.control = val
			debug.Debugf(p.name, p.debugMsk, debugCmd, "mode %02x", val)
			return
		}
		// Port C bit set/reset, only port B matters here.
		debug.Debugf(p.name, p.debugMsk, debugCmd, "port c bit %d=%d", (val>>1)&7, val&1)
	}
}

func (p *PPI) setPortB(val uint8) {
	old := p.portB
	p.portB = val
	changed := old ^ val
	if changed&pbGate2 != 0 {
		p.gate2.Set(val&pbGate2 != 0)
	}
	if changed&pbSpeaker != 0 {
		p.speaker.Set(val&pbSpeaker != 0)
	}
	if changed&val&pbKbClear != 0 {
		p.keyValid = false
		p.irq.Set(false)
		debug.Debugf(p.name, p.debugMsk, debugKey, "clear")
	}
	if changed&val&pbKbClock != 0 && !p.events.Pending(p, 0) {
		debug.Debugf(p.name, p.debugMsk, debugKey, "keyboard reset")
		p.events.Add(p, p.resetDone, resetDelay, 0)
	}
}

func (p *PPI) resetDone(int) {
	p.deliver(selfTest)
}

func (p *PPI) deliver(code uint8) {
	p.key = code
	p.keyValid = true
	debug.Debugf(p.name, p.debugMsk, debugKey, "scan code %02x", code)
	p.irq.Set(true)
}

// Advance keyboard by n ticks.
func (p *PPI) Clock(n uint64) {
	p.events.Advance(int(n))
	if p.keyValid || p.portB&pbKbClock == 0 || p.portB&pbKbClear != 0 || p.events.Any() {
		return
	}
	select {
	case c := <-p.keyq:
		p.deliver(c)
	default:
	}
}
