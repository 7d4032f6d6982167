/*
 * PCE - 68000 simulator board
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

package sim68k

import (
	"fmt"
	"log/slog"

	"github.com/rcornwell/pce/emu/clock"
	"github.com/rcornwell/pce/emu/core"
	"github.com/rcornwell/pce/emu/cpu/e68000"
	"github.com/rcornwell/pce/emu/device"
	"github.com/rcornwell/pce/emu/memory"
	"github.com/rcornwell/pce/emu/timer"
	"github.com/rcornwell/pce/emu/uart8250"
	"github.com/sarchlab/akita/v4/sim"
)

/*
   The board is a 68000 with RAM from address 0, optional ROM images, a
   periodic interval timer and a serial port. Both devices sit on the
   autovectored interrupt levels given in the configuration. The RESET
   instruction resets the devices.

   Clock cascade, all fed from CPU cycles:
       timer  every 8 cycles
       serial every 64 cycles
       pacing every 4096 cycles
*/

// CPU clock rate.
const Frequency = 8 * sim.MHz

const (
	timerDiv = 8
	uartDiv  = 64
	paceDiv  = 4096
)

type Config struct {
	Model     string
	Speed     float64
	RAMSize   uint32
	TimerAddr uint32
	TimerIRQ  uint8
	UARTAddr  uint32
	UARTIRQ   uint8
	Hooks     device.Hooks // Forwarded CPU events, may be nil.
}

// Board without ROM: 1M of RAM, timer on level 6 and serial on level 4.
func DefaultConfig() Config {
	return Config{
		Model:     "68000",
		Speed:     1,
		RAMSize:   1024 * 1024,
		TimerAddr: 0xff0000,
		TimerIRQ:  6,
		UARTAddr:  0xff1000,
		UARTIRQ:   4,
	}
}

type Sim68k struct {
	*core.Base
	cpu   *e68000.CPU
	ram   *memory.Block
	timer *timer.Timer
	uart  *uart8250.UART
	ipl   levels
}

// Create board from configuration.
func New(cfg Config) *Sim68k {
	mem := memory.New("mem", memory.BigEndian)
	pacer := newPacer(cfg.Speed)
	m := &Sim68k{Base: core.NewBase("sim68k", mem, nil, pacer)}

	m.ram = memory.NewRAM("ram", 0, cfg.RAMSize)
	mem.Add(m.ram)

	m.timer = timer.NewTimer("timer")
	mem.Add(m.timer.Block(cfg.TimerAddr))
	m.uart = uart8250.New("uart", false)
	mem.Add(m.uart.Block(cfg.UARTAddr))

	m.cpu = e68000.New(mem,
		e68000.WithHooks(m.Hooks(cfg.Hooks)),
		e68000.WithResetLine(m.resetLine))
	if err := m.cpu.SetModel(cfg.Model); err != nil {
		slog.Warn("cpu model", "error", err)
	}
	m.SetCPU(m.cpu)
	m.ipl.cpu = m.cpu
	m.timer.SetIRQ(m.ipl.line(cfg.TimerIRQ))
	m.uart.SetIRQ(m.ipl.line(cfg.UARTIRQ))
	m.AddDevice(m.timer, m.uart)

	root := m.Root()
	root.Add(core.NewStage("timer", timerDiv, m.timer))
	root.Add(core.NewStage("uart", uartDiv, m.uart))
	root.Add(core.NewStage("pace", paceDiv, pacer))
	return m
}

func newPacer(speed float64) *clock.Pacer {
	p := clock.NewPacer(Frequency / paceDiv)
	p.SetSpeed(speed)
	return p
}

// RESET instruction.
func (m *Sim68k) resetLine(level bool) {
	if !level {
		return
	}
	slog.Debug("sim68k external reset")
	for _, d := range m.Devices() {
		d.Reset()
	}
}

// Serial port of the board.
func (m *Sim68k) UART() *uart8250.UART {
	return m.uart
}

// Interval timer of the board.
func (m *Sim68k) Timer() *timer.Timer {
	return m.timer
}

func (m *Sim68k) Show() string {
	return fmt.Sprintf("sim68k: ram=%dK ipl=%d\n", m.ram.Size/1024, m.ipl.level())
}

// levels merges interrupt lines onto the priority level inputs.
type levels struct {
	active [8]int // Number of asserted lines per level.
	cpu    *e68000.CPU
}

// Line asserting level while high.
func (l *levels) line(level uint8) device.Line {
	level &= 7
	on := false
	return func(state bool) {
		if state == on || level == 0 {
			return
		}
		on = state
		if state {
			l.active[level]++
		} else {
			l.active[level]--
		}
		l.cpu.Interrupt(l.level())
	}
}

// Highest asserted level.
func (l *levels) level() uint8 {
	for lvl := 7; lvl > 0; lvl-- {
		if l.active[lvl] > 0 {
			return uint8(lvl)
		}
	}
	return 0
}
