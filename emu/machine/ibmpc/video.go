/*
 * PCE - PC colour graphics adapter registers
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

package ibmpc

import (
	"fmt"
	"strings"

	"github.com/rcornwell/pce/emu/memory"
	"github.com/rcornwell/pce/util/debug"
)

/*
   Register side of a colour graphics adapter: the 6845 CRTC index and
   data ports, mode and colour select registers and the status port. The
   status port follows a raster line counter advanced by the machine so
   retrace polling loops in the BIOS terminate. No picture is produced.

     3d4  CRTC index
     3d5  CRTC data
     3d8  mode control
     3d9  colour select
     3da  status, bit 0 display disabled, bit 3 vertical retrace
*/

const (
	// Debug options.
	debugReg = 1 << iota
)

var debugOption = map[string]int{
	"REG": debugReg,
}

const (
	videoPorts   = 0x3d0
	videoRAM     = 0xb8000
	videoRAMSize = 16 * 1024

	frameLines   = 262
	visibleLines = 200
)

type Video struct {
	name     string
	index    uint8
	crtc     [18]uint8
	mode     uint8
	color    uint8
	line     int
	hsync    bool
	vram     *memory.Block
	debugMsk int
}

func NewVideo(name string) *Video {
	v := &Video{name: name, vram: memory.NewRAM("vram", videoRAM, videoRAMSize)}
	v.Reset()
	return v
}

// Block of the video memory.
func (v *Video) RAM() *memory.Block {
	return v.vram
}

// Block decoding the sixteen ports at addr.
func (v *Video) Block(addr uint32) *memory.Block {
	return &memory.Block{
		Name: v.name,
		Addr: addr,
		Size: 16,
		Get8: func(a uint32) uint8 { return v.Get8(a - addr) },
		Set8: func(a uint32, val uint8) { v.Set8(a-addr, val) },
	}
}

func (v *Video) Name() string {
	return v.name
}

func (v *Video) Reset() {
	v.index = 0
	v.crtc = [18]uint8{}
	v.mode = 0
	v.color = 0
	v.line = 0
	v.hsync = false
}

func (v *Video) Debug(opt string) error {
	return debug.SetOption(v.name, debugOption, &v.debugMsk, opt)
}

func (v *Video) Show() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: mode=%02x color=%02x line=%d index=%02x\n ", v.name, v.mode, v.color, v.line, v.index)
	for _, r := range v.crtc {
		fmt.Fprintf(&b, " %02x", r)
	}
	b.WriteString("\n")
	return b.String()
}

func (v *Video) Get8(reg uint32) uint8 {
	switch reg & 0xf {
	case 0x5:
		// Only the cursor and light pen registers read back.
		if v.index >= 0x0e && int(v.index) < len(v.crtc) {
			return v.crtc[v.index]
		}
		return 0
	case 0xa:
		return v.status()
	}
	return 0xff
}

func (v *Video) Set8(reg uint32, val uint8) {
	switch reg & 0xf {
	case 0x4:
		v.index = val & 0x1f
	case 0x5:
		if int(v.index) < len(v.crtc) {
			v.crtc[v.index] = val
		}
		debug.Debugf(v.name, v.debugMsk, debugReg, "crtc %02x = %02x", v.index, val)
	case 0x8:
		v.mode = val
		debug.Debugf(v.name, v.debugMsk, debugReg, "mode %02x", val)
	case 0x9:
		v.color = val
	}
}

// Status alternates the display enable bit on every read.
func (v *Video) status() uint8 {
	v.hsync = !v.hsync
	st := uint8(0xf0)
	if v.line >= visibleLines {
		st |= 0x09
	} else if v.hsync {
		st |= 0x01
	}
	return st
}

// Advance n raster lines.
func (v *Video) Clock(n uint64) {
	v.line = (v.line + int(n%frameLines)) % frameLines
}
