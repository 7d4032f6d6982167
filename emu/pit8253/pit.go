/*
 * PCE - 8253 programmable interval timer
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

package pit8253

import (
	"fmt"
	"strings"

	"github.com/rcornwell/pce/emu/device"
	"github.com/rcornwell/pce/emu/memory"
	"github.com/rcornwell/pce/util/debug"
)

/*
   Three sixteen bit down counters clocked by the machine cascade. Each
   counter is programmed through the control register at offset 3 and
   loaded through its data register at offsets 0 to 2.

   Modes:
     0  Interrupt on terminal count, output goes high at zero.
     1  Hardware one shot, started by a gate rising edge.
     2  Rate generator, output low for one tick every count.
     3  Square wave.
     4  Software strobe, one low tick at zero.
     5  Hardware strobe, started by a gate rising edge.

   A newly written count takes effect on the next input tick.
*/

const (
	// Debug options.
	debugCmd = 1 << iota
	debugOut
)

var debugOption = map[string]int{
	"CMD": debugCmd,
	"OUT": debugOut,
}

// Register access modes.
const (
	rwLatch = iota
	rwLSB
	rwMSB
	rwBoth
)

type counter struct {
	mode    uint8
	rw      uint8
	bcd     bool
	count   uint16 // Current count.
	reload  uint16 // Initial count.
	latch   uint16
	latched bool
	readHi  bool // Next read returns the high byte.
	writeHi bool // Next write sets the high byte.
	loaded  bool // A count has been written since the mode was set.
	pending bool // Count written, waiting to be loaded.
	armed   bool // Counting.
	strobe  bool // Strobe not yet produced in modes 4 and 5.
	trigger bool // Gate rising edge seen.
	gate    bool
	out     bool
	line    device.Line
}

// PIT is one 8253 timer chip.
type PIT struct {
	name     string
	counters [3]counter
	debugMsk int
}

// Create a new timer, all gates are high.
func New(name string) *PIT {
	p := &PIT{name: name}
	p.Reset()
	return p
}

// Connect output of counter n.
func (p *PIT) SetOut(n int, line device.Line) {
	p.counters[n].line = line
}

// Current output level of counter n.
func (p *PIT) Out(n int) bool {
	return p.counters[n].out
}

// Set gate input of counter n.
func (p *PIT) SetGate(n int, level bool) {
	c := &p.counters[n]
	if level && !c.gate && c.loaded {
		switch c.mode {
		case 1, 5:
			c.trigger = true
		case 2, 3:
			c.count = c.loadValue()
			c.setOut(true)
		}
	}
	if !level && (c.mode == 2 || c.mode == 3) {
		c.setOut(true)
	}
	c.gate = level
}

func (p *PIT) Name() string {
	return p.name
}

func (p *PIT) Reset() {
	for i := range p.counters {
		line := p.counters[i].line
		p.counters[i] = counter{gate: true, line: line}
	}
}

func (p *PIT) Debug(opt string) error {
	return debug.SetOption(p.name, debugOption, &p.debugMsk, opt)
}

func (p *PIT) Show() string {
	var b strings.Builder
	for i, c := range p.counters {
		fmt.Fprintf(&b, "%s%d: mode=%d count=%04x reload=%04x gate=%v out=%v bcd=%v\n",
			p.name, i, c.mode, c.count, c.reload, c.gate, c.out, c.bcd)
	}
	return b.String()
}

// Block decoding the four registers at addr.
func (p *PIT) Block(addr uint32) *memory.Block {
	return &memory.Block{
		Name: p.name,
		Addr: addr,
		Size: 4,
		Get8: func(a uint32) uint8 { return p.Get8(a - addr) },
		Set8: func(a uint32, v uint8) { p.Set8(a-addr, v) },
	}
}

// Read register at offset reg.
func (p *PIT) Get8(reg uint32) uint8 {
	if reg&3 == 3 {
		return 0xff
	}
	return p.counters[reg&3].read()
}

// Write register at offset reg.
func (p *PIT) Set8(reg uint32, val uint8) {
	if reg&3 == 3 {
		p.control(val)
		return
	}
	c := &p.counters[reg&3]
	c.write(val)
	debug.Debugf(p.name, p.debugMsk, debugCmd, "counter %d write %02x reload %04x", reg&3, val, c.reload)
}

func (p *PIT) control(val uint8) {
	sel := val >> 6
	if sel == 3 {
		return
	}
	c := &p.counters[sel]
	rw := (val >> 4) & 3
	if rw == rwLatch {
		if !c.latched {
			c.latch = c.count
			c.latched = true
		}
		return
	}
	c.rw = rw
	c.mode = (val >> 1) & 7
	if c.mode > 5 {
		c.mode -= 4
	}
	c.bcd = val&1 != 0
	c.latched = false
	c.readHi = false
	c.writeHi = false
	c.loaded = false
	c.pending = false
	c.armed = false
	c.setOut(c.mode != 0)
	debug.Debugf(p.name, p.debugMsk, debugCmd, "counter %d mode %d rw %d bcd %v", sel, c.mode, rw, c.bcd)
}

// Advance all counters by n input ticks.
func (p *PIT) Clock(n uint64) {
	for range n {
		for i := range p.counters {
			p.counters[i].tick()
		}
	}
}

func (c *counter) setOut(level bool) {
	if c.out == level {
		return
	}
	c.out = level
	c.line.Set(level)
}

func (c *counter) read() uint8 {
	v := c.count
	if c.latched {
		v = c.latch
	}
	switch c.rw {
	case rwLSB:
		c.latched = false
		return uint8(v)
	case rwMSB:
		c.latched = false
		return uint8(v >> 8)
	}
	if !c.readHi {
		c.readHi = true
		return uint8(v)
	}
	c.readHi = false
	c.latched = false
	return uint8(v >> 8)
}

func (c *counter) write(val uint8) {
	switch c.rw {
	case rwLSB:
		c.reload = uint16(val)
	case rwMSB:
		c.reload = uint16(val) << 8
	case rwBoth:
		if !c.writeHi {
			c.reload = c.reload&0xff00 | uint16(val)
			c.writeHi = true
			if c.mode == 0 {
				c.armed = false
			}
			return
		}
		c.reload = c.reload&0x00ff | uint16(val)<<8
		c.writeHi = false
	default:
		return
	}
	c.loaded = true
	c.pending = true
	if c.mode == 0 {
		c.setOut(false)
	}
}

// Square wave counts by two, an odd count is rounded down.
func (c *counter) loadValue() uint16 {
	if c.mode == 3 && c.reload != 1 {
		return c.reload &^ 1
	}
	return c.reload
}

func (c *counter) dec(n uint16) {
	if !c.bcd {
		c.count -= n
		return
	}
	v := int(fromBCD(c.count)) - int(n)
	if v < 0 {
		v += 10000
	}
	c.count = toBCD(uint16(v))
}

func (c *counter) load() {
	c.count = c.loadValue()
	c.pending = false
	c.armed = true
	c.strobe = true
}

func (c *counter) tick() {
	switch {
	case c.mode == 1 || c.mode == 5:
		if c.trigger {
			c.trigger = false
			c.load()
			if c.mode == 1 {
				c.setOut(false)
			}
			return
		}
	case c.pending && (c.mode == 0 || c.mode == 4 || !c.armed):
		c.load()
		return
	}
	if !c.armed {
		return
	}
	if !c.gate && c.mode != 1 && c.mode != 5 {
		return
	}

	switch c.mode {
	case 0, 1:
		c.dec(1)
		if c.count == 0 {
			c.setOut(true)
		}
	case 2:
		c.dec(1)
		switch c.count {
		case 1:
			c.setOut(false)
		case 0:
			c.setOut(true)
			c.load()
		}
	case 3:
		c.dec(2)
		if c.count == 0 {
			c.setOut(!c.out)
			c.load()
		}
	case 4, 5:
		if !c.out {
			c.setOut(true)
		}
		c.dec(1)
		if c.count == 0 && c.strobe {
			c.strobe = false
			c.setOut(false)
		}
	}
}

func fromBCD(v uint16) uint16 {
	return (v>>12&0xf)*1000 + (v>>8&0xf)*100 + (v>>4&0xf)*10 + v&0xf
}

func toBCD(v uint16) uint16 {
	return (v/1000%10)<<12 | (v/100%10)<<8 | (v/10%10)<<4 | v%10
}
