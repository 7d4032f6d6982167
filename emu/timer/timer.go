/*
 * PCE - Periodic interval timer
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

package timer

import (
	"fmt"

	"github.com/rcornwell/pce/emu/device"
	"github.com/rcornwell/pce/emu/memory"
	"github.com/rcornwell/pce/util/debug"
)

/*
   Memory mapped down counter that reloads from its period register and
   raises an interrupt every time it expires.

     +0     control: bit 0 run, bit 1 interrupt enable
     +1     status: bit 0 expired, write one to clear
     +4-7   period, big endian
     +8-11  current count, read only
*/

const (
	// Debug options.
	debugCmd = 1 << iota
	debugTick
)

var debugOption = map[string]int{
	"CMD":  debugCmd,
	"TICK": debugTick,
}

const (
	ctlRun    = 0x01
	ctlIntEna = 0x02
	statDone  = 0x01
)

type Timer struct {
	name     string
	control  uint8
	status   uint8
	period   uint32
	count    uint32
	expired  uint64 // Expirations since reset.
	irq      device.Line
	irqOut   bool
	debugMsk int
}

// Create instance of interval timer.
func NewTimer(name string) *Timer {
	tm := &Timer{name: name}
	tm.Reset()
	return tm
}

// Connect interrupt output.
func (tm *Timer) SetIRQ(line device.Line) {
	tm.irq = line
}

// Start timer with period ticks.
func (tm *Timer) Start(period uint32) {
	tm.period = period
	tm.count = period
	tm.control |= ctlRun
}

// Stop timer, count is kept.
func (tm *Timer) Stop() {
	tm.control &^= ctlRun
}

// Number of times timer has expired.
func (tm *Timer) Expired() uint64 {
	return tm.expired
}

func (tm *Timer) Name() string {
	return tm.name
}

func (tm *Timer) Reset() {
	tm.control = 0
	tm.status = 0
	tm.period = 0
	tm.count = 0
	tm.expired = 0
	tm.update()
}

func (tm *Timer) Debug(opt string) error {
	return debug.SetOption(tm.name, debugOption, &tm.debugMsk, opt)
}

func (tm *Timer) Show() string {
	return fmt.Sprintf("%s: control=%02x status=%02x period=%08x count=%08x expired=%d\n",
		tm.name, tm.control, tm.status, tm.period, tm.count, tm.expired)
}

// Block decoding the registers at addr.
func (tm *Timer) Block(addr uint32) *memory.Block {
	return &memory.Block{
		Name: tm.name,
		Addr: addr,
		Size: 16,
		Get8: func(a uint32) uint8 { return tm.Get8(a - addr) },
		Set8: func(a uint32, v uint8) { tm.Set8(a-addr, v) },
	}
}

func (tm *Timer) Get8(reg uint32) uint8 {
	reg &= 0xf
	switch {
	case reg == 0:
		return tm.control
	case reg == 1:
		return tm.status
	case reg >= 4 && reg < 8:
		return uint8(tm.period >> (8 * (7 - reg)))
	case reg >= 8 && reg < 12:
		return uint8(tm.count >> (8 * (11 - reg)))
	}
	return 0
}

func (tm *Timer) Set8(reg uint32, val uint8) {
	reg &= 0xf
	switch {
	case reg == 0:
		if val&ctlRun != 0 && tm.control&ctlRun == 0 {
			tm.count = tm.period
		}
		tm.control = val & (ctlRun | ctlIntEna)
		debug.Debugf(tm.name, tm.debugMsk, debugCmd, "control %02x period %08x", val, tm.period)
	case reg == 1:
		tm.status &^= val
	case reg >= 4 && reg < 8:
		shift := 8 * (7 - reg)
		tm.period = tm.period&^(0xff<<shift) | uint32(val)<<shift
	}
	tm.update()
}

func (tm *Timer) update() {
	level := tm.status&statDone != 0 && tm.control&ctlIntEna != 0
	if level == tm.irqOut {
		return
	}
	tm.irqOut = level
	tm.irq.Set(level)
}

// Advance timer by n ticks.
func (tm *Timer) Clock(n uint64) {
	if tm.control&ctlRun == 0 || tm.period == 0 {
		return
	}
	for n > 0 {
		if uint64(tm.count) > n {
			tm.count -= uint32(n)
			return
		}
		n -= uint64(tm.count)
		tm.count = tm.period
		tm.expired++
		tm.status |= statDone
		debug.Debugf(tm.name, tm.debugMsk, debugTick, "expired %d", tm.expired)
		tm.update()
	}
}
