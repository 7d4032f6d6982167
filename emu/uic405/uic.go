/*
 * PCE - PPC405 universal interrupt controller
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

package uic405

import (
	"fmt"

	"github.com/rcornwell/pce/emu/device"
	"github.com/rcornwell/pce/util/debug"
)

/*
   32 interrupt inputs, input 0 is the most significant bit of every
   register. The controller sits on the DCR bus at eight consecutive
   numbers starting at base:

     +0 SR  status, writing ones clears
     +2 ER  enable
     +3 CR  critical (1) or non critical (0)
     +4 PR  polarity, 1 is active high or rising edge
     +5 TR  trigger, 1 is edge
     +6 MSR masked status, read only
     +7 VR  vector, read only
     +8 VCR vector base and priority order

   Pin levels are sampled on each Clock call.
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

// DCR offsets.
const (
	dcrSR  = 0
	dcrER  = 2
	dcrCR  = 3
	dcrPR  = 4
	dcrTR  = 5
	dcrMSR = 6
	dcrVR  = 7
	dcrVCR = 8
)

type UIC struct {
	name     string
	base     uint32
	sr       uint32
	er       uint32
	cr       uint32
	pr       uint32
	tr       uint32
	vcr      uint32
	pins     uint32 // Current input levels.
	last     uint32 // Levels at last sample.
	crit     device.Line
	nonCrit  device.Line
	critOut  bool
	extOut   bool
	debugMsk int
}

// Create controller at DCR base.
func New(name string, base uint32) *UIC {
	u := &UIC{name: name, base: base}
	u.Reset()
	return u
}

// Connect critical and non critical outputs.
func (u *UIC) SetOutputs(crit, nonCrit device.Line) {
	u.crit = crit
	u.nonCrit = nonCrit
}

func bit(n int) uint32 {
	return 0x80000000 >> (n & 31)
}

// Line for input n.
func (u *UIC) IRQ(n int) device.Line {
	return func(level bool) {
		u.Set(n, level)
	}
}

// Change level of input n.
func (u *UIC) Set(n int, level bool) {
	if level {
		u.pins |= bit(n)
	} else {
		u.pins &^= bit(n)
	}
}

func (u *UIC) Name() string {
	return u.name
}

func (u *UIC) Reset() {
	u.sr = 0
	u.er = 0
	u.cr = 0
	u.pr = 0xffffffff
	u.tr = 0
	u.vcr = 0
	u.last = u.pins
	u.update()
}

func (u *UIC) Debug(opt string) error {
	return debug.SetOption(u.name, debugOption, &u.debugMsk, opt)
}

func (u *UIC) Show() string {
	return fmt.Sprintf("%s: sr=%08x er=%08x cr=%08x pr=%08x tr=%08x msr=%08x vcr=%08x\n",
		u.name, u.sr, u.er, u.cr, u.pr, u.tr, u.sr&u.er, u.vcr)
}

// Inputs currently asserted after polarity.
func (u *UIC) active(pins uint32) uint32 {
	return ^(pins ^ u.pr)
}

// Sample inputs n times, only the last sample matters.
func (u *UIC) Clock(n uint64) {
	if n == 0 {
		return
	}
	now := u.active(u.pins)
	was := u.active(u.last)
	u.sr |= now &^ u.tr
	u.sr |= now &^ was & u.tr
	u.last = u.pins
	u.update()
}

// Vector of highest priority critical interrupt.
func (u *UIC) vector() uint32 {
	pending := u.sr & u.er & u.cr
	base := u.vcr &^ 3
	if pending == 0 {
		return base
	}
	for i := range 32 {
		n := i
		if u.vcr&1 == 0 {
			n = 31 - i
		}
		if pending&bit(n) != 0 {
			return base + uint32(n)*512
		}
	}
	return base
}

func (u *UIC) update() {
	msr := u.sr & u.er
	crit := msr&u.cr != 0
	ext := msr&^u.cr != 0
	if crit != u.critOut {
		u.critOut = crit
		debug.Debugf(u.name, u.debugMsk, debugIRQ, "critical %v msr %08x", crit, msr)
		u.crit.Set(crit)
	}
	if ext != u.extOut {
		u.extOut = ext
		debug.Debugf(u.name, u.debugMsk, debugIRQ, "external %v msr %08x", ext, msr)
		u.nonCrit.Set(ext)
	}
}

// Read DCR num, false if not a UIC register.
func (u *UIC) GetDCR(num uint32) (uint32, bool) {
	if num < u.base || num > u.base+dcrVCR {
		return 0, false
	}
	switch num - u.base {
	case dcrSR:
		return u.sr, true
	case dcrER:
		return u.er, true
	case dcrCR:
		return u.cr, true
	case dcrPR:
		return u.pr, true
	case dcrTR:
		return u.tr, true
	case dcrMSR:
		return u.sr & u.er, true
	case dcrVR:
		return u.vector(), true
	case dcrVCR:
		return u.vcr, true
	}
	return 0, false
}

// Write DCR num, false if not a UIC register.
func (u *UIC) SetDCR(num uint32, val uint32) bool {
	if num < u.base || num > u.base+dcrVCR {
		return false
	}
	switch num - u.base {
	case dcrSR:
		u.sr &^= val
		// Level inputs still active stay set.
		u.sr |= u.active(u.pins) &^ u.tr
	case dcrER:
		u.er = val
	case dcrCR:
		u.cr = val
	case dcrPR:
		u.pr = val
	case dcrTR:
		u.tr = val
	case dcrVCR:
		u.vcr = val
	case dcrMSR, dcrVR:
	default:
		return false
	}
	debug.Debugf(u.name, u.debugMsk, debugCmd, "dcr %03x = %08x", num, val)
	u.update()
	return true
}
