/*
 * PCE - Run loop
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

package core

import (
	"strings"

	"github.com/rcornwell/pce/emu/clock"
	"github.com/rcornwell/pce/util/debug"
)

const (
	// Debug options.
	debugTrace = 1 << iota
)

var debugOption = map[string]int{
	"TRACE": debugTrace,
}

// Cycles per Clock call while running without breakpoints.
const defaultSlice = 1024

// Instructions that return to the next instruction.
var callNames = map[string]bool{
	"call":   true,
	"int":    true,
	"int3":   true,
	"into":   true,
	"jsr":    true,
	"bsr":    true,
	"trap":   true,
	"sc":     true,
	"rep":    true,
	"repne":  true,
	"loop":   true,
	"loope":  true,
	"loopne": true,
	"bl":     true,
	"bla":    true,
	"bcl":    true,
	"bcla":   true,
	"bclrl":  true,
	"bcctrl": true,
}

// Core runs a machine for the monitor.
type Core struct {
	m        Machine
	bps      Breakpoints
	slice    uint64
	debugMsk int
}

func New(m Machine) *Core {
	return &Core{m: m, slice: defaultSlice}
}

func (c *Core) Machine() Machine {
	return c.m
}

func (c *Core) Breakpoints() *Breakpoints {
	return &c.bps
}

// Set cycles run between checks of the break flag.
func (c *Core) SetSlice(n uint64) {
	if n == 0 {
		n = defaultSlice
	}
	c.slice = n
}

// Enable debug option on the run loop.
func (c *Core) Debug(opt string) error {
	return debug.SetOption("core", debugOption, &c.debugMsk, opt)
}

// Turn instruction trace on or off.
func (c *Core) SetTrace(on bool) {
	if on {
		c.debugMsk |= debugTrace
	} else {
		c.debugMsk &^= debugTrace
	}
}

func (c *Core) Tracing() bool {
	return c.debugMsk&debugTrace != 0
}

func (c *Core) trace() {
	if c.debugMsk&debugTrace == 0 {
		return
	}
	cp := c.m.CPU()
	text, _ := cp.Disassemble(cp.PC())
	debug.Debugf("core", c.debugMsk, debugTrace, "%08x %s", cp.PC(), text)
}

// Execute n instructions.
func (c *Core) Step(n int) {
	c.m.Pacer().Discontinuity()
	for range n {
		c.trace()
		c.m.Step()
		if c.m.Break().Get() >= clock.Halt {
			return
		}
	}
}

// Execute one instruction, running subroutine calls and repeated
// instructions to completion.
func (c *Core) StepOver() clock.Reason {
	cp := c.m.CPU()
	text, length := cp.Disassemble(cp.PC())
	if !isCall(text) {
		c.Step(1)
		return clock.None
	}
	bp := Breakpoint{Addr: cp.PC() + length, Once: true}
	c.bps.Add(bp)
	r := c.Run()
	c.bps.Remove(bp)
	return r
}

func isCall(text string) bool {
	op, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(text)), " ")
	op, _, _ = strings.Cut(op, ".")
	return callNames[op]
}

// Clock machine n cycles, stopping on break request.
func (c *Core) Clock(n uint64) clock.Reason {
	brk := c.m.Break()
	c.m.Pacer().Discontinuity()
	for n > 0 {
		step := min(n, c.slice)
		c.m.Clock(step)
		n -= step
		if brk.Get() != clock.None {
			return brk.Clear()
		}
	}
	return clock.None
}

// Run until a breakpoint or a break request.
func (c *Core) Run() clock.Reason {
	brk := c.m.Break()
	c.m.Pacer().Discontinuity()
	for {
		if brk.Get() != clock.None {
			return brk.Clear()
		}
		if c.bps.Len() == 0 && !c.Tracing() {
			c.m.Clock(c.slice)
			continue
		}
		c.trace()
		c.m.Step()
		if c.bps.Check(c.m.CPU()) {
			brk.Set(clock.Point)
		}
	}
}
