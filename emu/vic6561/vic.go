/*
 * PCE - 6560/6561 video interface chip
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

package vic6561

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/rcornwell/pce/emu/device"
	"github.com/rcornwell/pce/emu/memory"
	"github.com/rcornwell/pce/util/debug"
)

/*
   Only the register file and the raster counter are modelled, no picture
   is produced. The raster line is visible in register 4 (bits 8-1) and
   bit 7 of register 3 (bit 0). The machine clocks the chip once per
   raster line.
*/

const (
	// Debug options.
	debugReg = 1 << iota
	debugFrame
)

var debugOption = map[string]int{
	"REG":   debugReg,
	"FRAME": debugFrame,
}

type timing struct {
	lines  uint16 // Raster lines per frame.
	cycles uint64 // CPU cycles per raster line.
}

var models = map[string]timing{
	"6560": {lines: 261, cycles: 65},
	"6561": {lines: 312, cycles: 71},
}

type VIC struct {
	name     string
	model    string
	timing   timing
	regs     [16]uint8
	line     uint16
	frames   uint64
	vsync    device.Line
	debugMsk int
}

func New(name string) *VIC {
	v := &VIC{name: name}
	_ = v.SetModel("6561")
	v.Reset()
	return v
}

// Select NTSC 6560 or PAL 6561 timing.
func (v *VIC) SetModel(model string) error {
	t, ok := models[model]
	if !ok {
		slog.Warn("unknown video chip, using 6561", "model", model)
		v.model, v.timing = "6561", models["6561"]
		return fmt.Errorf("unknown video chip: %s", model)
	}
	v.model, v.timing = model, t
	return nil
}

func (v *VIC) Model() string {
	return v.model
}

// CPU cycles per raster line.
func (v *VIC) LineCycles() uint64 {
	return v.timing.cycles
}

// Connect frame start output, pulsed at raster line zero.
func (v *VIC) SetVSync(line device.Line) {
	v.vsync = line
}

// Current raster line.
func (v *VIC) Raster() uint16 {
	return v.line
}

// Completed frames since reset.
func (v *VIC) Frames() uint64 {
	return v.frames
}

func (v *VIC) Name() string {
	return v.name
}

func (v *VIC) Reset() {
	v.regs = [16]uint8{}
	v.line = 0
	v.frames = 0
}

func (v *VIC) Debug(opt string) error {
	return debug.SetOption(v.name, debugOption, &v.debugMsk, opt)
}

func (v *VIC) Show() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: model=%s raster=%d frames=%d\n ", v.name, v.model, v.line, v.frames)
	for _, r := range v.regs {
		fmt.Fprintf(&b, " %02x", r)
	}
	b.WriteString("\n")
	return b.String()
}

// Block decoding the registers at addr, repeated over size bytes.
func (v *VIC) Block(addr uint32, size uint32) *memory.Block {
	return &memory.Block{
		Name: v.name,
		Addr: addr,
		Size: size,
		Get8: func(a uint32) uint8 { return v.Get8(a - addr) },
		Set8: func(a uint32, val uint8) { v.Set8(a-addr, val) },
	}
}

func (v *VIC) Get8(reg uint32) uint8 {
	reg &= 0xf
	switch reg {
	case 3:
		return v.regs[3]&0x7f | uint8(v.line&1)<<7
	case 4:
		return uint8(v.line >> 1)
	case 8, 9:
		return 0xff
	}
	return v.regs[reg]
}

func (v *VIC) Set8(reg uint32, val uint8) {
	reg &= 0xf
	debug.Debugf(v.name, v.debugMsk, debugReg, "reg %x = %02x", reg, val)
	switch reg {
	case 4, 6, 7, 8, 9:
		return
	}
	v.regs[reg] = val
}

// Advance n raster lines.
func (v *VIC) Clock(n uint64) {
	for range n {
		v.line++
		if v.line < v.timing.lines {
			continue
		}
		v.line = 0
		v.frames++
		debug.Debugf(v.name, v.debugMsk, debugFrame, "frame %d", v.frames)
		v.vsync.Set(true)
		v.vsync.Set(false)
	}
}
