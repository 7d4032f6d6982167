/*
 * PCE - Commodore VIC-20
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

package vic20

import (
	"fmt"
	"log/slog"

	"github.com/rcornwell/pce/emu/clock"
	"github.com/rcornwell/pce/emu/core"
	"github.com/rcornwell/pce/emu/cpu/e6502"
	"github.com/rcornwell/pce/emu/device"
	"github.com/rcornwell/pce/emu/memory"
	"github.com/rcornwell/pce/emu/via6522"
	"github.com/rcornwell/pce/emu/vic6561"
	"github.com/sarchlab/akita/v4/sim"
)

/*
   Memory map:

     0000-03ff  RAM
     0400-0fff  3K expansion
     1000-1fff  RAM
     2000-7fff  expansion blocks 1-3
     8000-8fff  character ROM
     9000-900f  VIC
     9110-911f  VIA 1, interrupt drives NMI, CA1 is RESTORE
     9120-912f  VIA 2, interrupt drives IRQ, ports scan the keyboard
     9400-97ff  colour RAM, four bits wide
     c000-dfff  BASIC ROM
     e000-ffff  KERNAL ROM

   ROM images come from [rom] sections of the configuration.

   Clock cascade, all fed from CPU cycles:
       VIAs     every cycle
       VIC      once per raster line
       pacing   every 8192 cycles
*/

// CPU clock rates for the two video chips.
const (
	FrequencyPAL  = sim.Freq(1108405)
	FrequencyNTSC = sim.Freq(1022727)
)

const (
	paceDiv   = 8192
	maxExpand = 24 * 1024
	colorAddr = 0x9400
	colorSize = 0x400
)

type Config struct {
	Model     string
	Speed     float64
	Video     string // 6560 NTSC or 6561 PAL.
	RAM3K     bool   // Fill 0400-0fff.
	Expansion uint32 // Bytes of RAM from 2000.
	Hooks     device.Hooks
}

// Unexpanded PAL machine.
func DefaultConfig() Config {
	return Config{
		Model: "6502",
		Speed: 1,
		Video: "6561",
	}
}

type VIC20 struct {
	*core.Base
	cpu   *e6502.CPU
	vic   *vic6561.VIC
	via1  *via6522.VIA
	via2  *via6522.VIA
	kbd   *Keyboard
	color []byte
}

// Create machine from configuration.
func New(cfg Config) *VIC20 {
	mem := memory.New("mem", memory.LittleEndian)
	vic := vic6561.New("vic")
	if err := vic.SetModel(cfg.Video); err != nil {
		slog.Warn("video chip", "error", err)
	}
	pacer := newPacer(frequency(vic.Model()), cfg.Speed)
	m := &VIC20{Base: core.NewBase("vic20", mem, nil, pacer), vic: vic}

	mem.Add(memory.NewRAM("ram0", 0x0000, 0x0400))
	if cfg.RAM3K {
		mem.Add(memory.NewRAM("ram3k", 0x0400, 0x0c00))
	}
	mem.Add(memory.NewRAM("ram1", 0x1000, 0x1000))
	if cfg.Expansion > maxExpand {
		slog.Error("expansion too large, using 24K", "size", cfg.Expansion)
		cfg.Expansion = maxExpand
	}
	if cfg.Expansion != 0 {
		mem.Add(memory.NewRAM("expansion", 0x2000, cfg.Expansion))
	}
	mem.Add(m.colorBlock())

	m.via1 = via6522.New("via1")
	m.via2 = via6522.New("via2")
	m.kbd = NewKeyboard("kbd")
	mem.Add(vic.Block(0x9000, 0x10))
	mem.Add(m.via1.Block(0x9110, 0x10))
	mem.Add(m.via2.Block(0x9120, 0x10))

	m.cpu = e6502.New(mem, e6502.WithHooks(m.Hooks(cfg.Hooks)))
	if err := m.cpu.SetModel(cfg.Model); err != nil {
		slog.Warn("cpu model", "error", err)
	}
	m.SetCPU(m.cpu)

	m.via1.SetIRQ(m.cpu.SetNMI)
	m.via2.SetIRQ(m.cpu.SetIRQ)
	m.via2.SetPorts(
		via6522.Port{Read: m.kbd.Rows},
		via6522.Port{Write: m.kbd.SelectColumns})
	m.kbd.SetRestore(m.via1.SetCA1)
	m.AddDevice(m.via1, m.via2, vic, m.kbd)

	root := m.Root()
	root.Add(core.NewStage("via", 1, m.via1, m.via2))
	root.Add(core.NewStage("raster", vic.LineCycles(), vic, m.kbd))
	root.Add(core.NewStage("pace", paceDiv, pacer))
	return m
}

func frequency(video string) sim.Freq {
	if video == "6560" {
		return FrequencyNTSC
	}
	return FrequencyPAL
}

func newPacer(freq sim.Freq, speed float64) *clock.Pacer {
	p := clock.NewPacer(freq / paceDiv)
	p.SetSpeed(speed)
	return p
}

// Colour RAM keeps the low nibble, the high nibble floats.
func (m *VIC20) colorBlock() *memory.Block {
	m.color = make([]byte, colorSize)
	return &memory.Block{
		Name: "color",
		Addr: colorAddr,
		Size: colorSize,
		Get8: func(a uint32) uint8 { return m.color[a-colorAddr] | 0xf0 },
		Set8: func(a uint32, v uint8) { m.color[a-colorAddr] = v & 0x0f },
	}
}

func (m *VIC20) Keyboard() *Keyboard {
	return m.kbd
}

func (m *VIC20) VIC() *vic6561.VIC {
	return m.vic
}

func (m *VIC20) VIA1() *via6522.VIA {
	return m.via1
}

func (m *VIC20) VIA2() *via6522.VIA {
	return m.via2
}

func (m *VIC20) Show() string {
	return fmt.Sprintf("vic20: video=%s frequency=%.0fHz\n", m.vic.Model(), float64(frequency(m.vic.Model())))
}
