/*
 * PCE - PowerPC 405 simulator board
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

package sim405

import (
	"fmt"
	"log/slog"

	"github.com/rcornwell/pce/emu/clock"
	"github.com/rcornwell/pce/emu/core"
	"github.com/rcornwell/pce/emu/cpu/ppc405"
	"github.com/rcornwell/pce/emu/device"
	"github.com/rcornwell/pce/emu/memory"
	"github.com/rcornwell/pce/emu/uart8250"
	"github.com/rcornwell/pce/emu/uic405"
	"github.com/sarchlab/akita/v4/sim"
)

/*
   A 405 core with RAM from address 0, boot ROM images placed by the
   configuration (the core starts at 0xfffffffc), the universal interrupt
   controller on the DCR bus and a 16550 serial port in the on chip
   peripheral space.

   Clock cascade fed from CPU cycles:
       serial and interrupt controller every 16 cycles
       pacing every 4096 cycles
*/

const Frequency = 100 * sim.MHz

const (
	busDiv  = 16
	paceDiv = 4096
)

type Config struct {
	Model    string
	Speed    float64
	RAMSize  uint32
	UICBase  uint32 // First DCR of interrupt controller.
	UARTAddr uint32
	UARTIRQ  int // Interrupt controller input.
	Hooks    device.Hooks
}

// 405GP layout with 16M of RAM.
func DefaultConfig() Config {
	return Config{
		Model:    "405",
		Speed:    1,
		RAMSize:  16 * 1024 * 1024,
		UICBase:  0xc0,
		UARTAddr: 0xef600300,
		UARTIRQ:  0,
	}
}

type Sim405 struct {
	*core.Base
	cpu  *ppc405.CPU
	ram  *memory.Block
	uic  *uic405.UIC
	uart *uart8250.UART
	dcr  dcrBus
}

func New(cfg Config) *Sim405 {
	mem := memory.New("mem", memory.BigEndian)
	pacer := clock.NewPacer(Frequency / paceDiv)
	pacer.SetSpeed(cfg.Speed)
	m := &Sim405{Base: core.NewBase("sim405", mem, nil, pacer)}

	m.ram = memory.NewRAM("ram", 0, cfg.RAMSize)
	mem.Add(m.ram)

	m.uic = uic405.New("uic", cfg.UICBase)
	m.dcr.add(m.uic)
	m.uart = uart8250.New("uart", true)
	mem.Add(m.uart.Block(cfg.UARTAddr))

	m.cpu = ppc405.New(mem, ppc405.WithHooks(m.Hooks(cfg.Hooks)), ppc405.WithDCR(&m.dcr))
	if err := m.cpu.SetModel(cfg.Model); err != nil {
		slog.Warn("cpu model", "error", err)
	}
	m.SetCPU(m.cpu)
	m.uic.SetOutputs(m.cpu.SetCritical, m.cpu.SetExternal)
	m.uart.SetIRQ(m.uic.IRQ(cfg.UARTIRQ))
	m.AddDevice(m.uic, m.uart)

	m.Root().Add(core.NewStage("bus", busDiv, m.uart, m.uic))
	m.Root().Add(core.NewStage("pace", paceDiv, pacer))
	return m
}

func (m *Sim405) UART() *uart8250.UART {
	return m.uart
}

func (m *Sim405) UIC() *uic405.UIC {
	return m.uic
}

func (m *Sim405) Show() string {
	return fmt.Sprintf("sim405: ram=%dK dcr devices=%d\n", m.ram.Size/1024, len(m.dcr.devs))
}

// dcrBus hands DCR accesses to the first device that decodes them.
// Unclaimed reads return zero and writes are dropped.
type dcrBus struct {
	devs []ppc405.DCR
}

func (b *dcrBus) add(d ppc405.DCR) {
	b.devs = append(b.devs, d)
}

func (b *dcrBus) GetDCR(num uint32) (uint32, bool) {
	for _, d := range b.devs {
		if v, ok := d.GetDCR(num); ok {
			return v, true
		}
	}
	slog.Debug("sim405 unclaimed DCR read", "dcr", fmt.Sprintf("%03x", num))
	return 0, false
}

func (b *dcrBus) SetDCR(num uint32, val uint32) bool {
	for _, d := range b.devs {
		if d.SetDCR(num, val) {
			return true
		}
	}
	slog.Debug("sim405 unclaimed DCR write", "dcr", fmt.Sprintf("%03x", num), "value", fmt.Sprintf("%08x", val))
	return false
}
