/*
 * PCE - Machine contract and divider cascade
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
	"fmt"
	"log/slog"
	"strings"

	"github.com/rcornwell/pce/emu/clock"
	"github.com/rcornwell/pce/emu/cpu"
	"github.com/rcornwell/pce/emu/device"
	"github.com/rcornwell/pce/emu/memory"
)

// Machine is one emulated system, driven by the run loop and the monitor.
type Machine interface {
	Name() string
	Reset()
	CPU() cpu.CPU
	Memory() *memory.Map
	Ports() *memory.Map // Separate I/O space, nil when memory mapped.
	Devices() []device.Device
	Clock(n uint64) // Run n CPU cycles and everything they drive.
	Step()          // Run one instruction and everything it drives.
	Break() *clock.Break
	Pacer() *clock.Pacer
}

// Stage is one level of a divider cascade. Each output tick of the divider
// clocks the devices of the stage, then feeds the child stages.
type Stage struct {
	Div      *clock.Divider
	Devices  []device.Clocker
	Children []*Stage
}

// Create stage dividing its input by period.
func NewStage(name string, period uint64, devs ...device.Clocker) *Stage {
	return &Stage{Div: clock.NewDivider(name, period), Devices: devs}
}

// Add a child stage, returns the child.
func (s *Stage) Add(child *Stage) *Stage {
	s.Children = append(s.Children, child)
	return child
}

// Feed n input ticks. Devices run before the children, in order.
func (s *Stage) Advance(n uint64) {
	out := s.Div.Add(n)
	if out == 0 {
		return
	}
	for _, dev := range s.Devices {
		dev.Clock(out)
	}
	for _, child := range s.Children {
		child.Advance(out)
	}
}

func (s *Stage) reset() {
	s.Div.Reset()
	for _, child := range s.Children {
		child.reset()
	}
}

func (s *Stage) show(b *strings.Builder, depth int) {
	fmt.Fprintf(b, "%s%s: /%d count=%d total=%d\n", strings.Repeat("  ", depth),
		s.Div.Name, s.Div.Period, s.Div.Count(), s.Div.Total())
	for _, child := range s.Children {
		child.show(b, depth+1)
	}
}

// Base implements Machine for a CPU, its buses and a cascade rooted at
// CPU cycles. Machines embed it and fill in the cascade.
type Base struct {
	name    string
	cpu     cpu.CPU
	mem     *memory.Map
	io      *memory.Map
	devices []device.Device
	root    *Stage
	pacer   *clock.Pacer
	brk     clock.Break
	stopped bool // Double fault already reported.
}

// Create base machine, the root stage is clocked with CPU cycles.
func NewBase(name string, mem, io *memory.Map, pacer *clock.Pacer) *Base {
	return &Base{
		name:  name,
		mem:   mem,
		io:    io,
		root:  NewStage("cpu", 1),
		pacer: pacer,
	}
}

// Attach CPU, done after the CPU was created on the machine buses.
func (b *Base) SetCPU(c cpu.CPU) {
	b.cpu = c
}

// Register device with the monitor.
func (b *Base) AddDevice(devs ...device.Device) {
	b.devices = append(b.devices, devs...)
}

// Find device by name.
func (b *Base) Device(name string) device.Device {
	for _, d := range b.devices {
		if strings.EqualFold(d.Name(), name) {
			return d
		}
	}
	return nil
}

// Root of the divider cascade.
func (b *Base) Root() *Stage {
	return b.root
}

func (b *Base) Name() string {
	return b.name
}

func (b *Base) CPU() cpu.CPU {
	return b.cpu
}

func (b *Base) Memory() *memory.Map {
	return b.mem
}

func (b *Base) Ports() *memory.Map {
	return b.io
}

func (b *Base) Devices() []device.Device {
	return b.devices
}

func (b *Base) Break() *clock.Break {
	return &b.brk
}

func (b *Base) Pacer() *clock.Pacer {
	return b.pacer
}

// Reset devices first so the CPU sees them in power on state.
func (b *Base) Reset() {
	for _, d := range b.devices {
		d.Reset()
	}
	b.cpu.Reset()
	b.root.reset()
	b.stopped = false
	b.pacer.Discontinuity()
}

func (b *Base) Clock(n uint64) {
	before := b.cpu.Cycles()
	b.cpu.Clock(n)
	b.root.Advance(b.cpu.Cycles() - before)
	b.checkFault()
}

func (b *Base) Step() {
	before := b.cpu.Cycles()
	b.cpu.Execute()
	b.root.Advance(b.cpu.Cycles() - before)
	b.checkFault()
}

// Show cascade state.
func (b *Base) ShowCascade() string {
	var sb strings.Builder
	b.root.show(&sb, 0)
	return sb.String()
}

func (b *Base) checkFault() {
	if b.cpu.State() != cpu.Stopped {
		b.stopped = false
		return
	}
	if !b.stopped {
		b.stopped = true
		slog.Error("CPU stopped", "machine", b.name, "pc", fmt.Sprintf("%08x", b.cpu.PC()), "error", b.cpu.Fault())
	}
	b.brk.Set(clock.Halt)
}
