/*
 * PCE - IBM PC/XT
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
	"log/slog"

	"github.com/rcornwell/pce/emu/clock"
	"github.com/rcornwell/pce/emu/core"
	"github.com/rcornwell/pce/emu/cpu/e8086"
	"github.com/rcornwell/pce/emu/device"
	"github.com/rcornwell/pce/emu/dma8237"
	"github.com/rcornwell/pce/emu/memory"
	"github.com/rcornwell/pce/emu/pic8259"
	"github.com/rcornwell/pce/emu/pit8253"
	"github.com/rcornwell/pce/emu/ppi8255"
	"github.com/rcornwell/pce/emu/uart8250"
	"github.com/sarchlab/akita/v4/sim"
)

/*
   Ports:
     000-00f  8237 DMA controller
     020-021  8259 interrupt controller
     040-043  8253 timer
     060-063  8255 keyboard and switches
     080-08f  DMA page registers
     3d0-3df  colour graphics adapter
     3f8-3ff  serial port (COM1)

   Interrupts: timer 0 on IRQ 0, keyboard on IRQ 1, serial as configured.
   Timer 1 requests DMA channel 0 for memory refresh, timer 2 is gated and
   read back through the 8255.

   Clock cascade:
       CPU cycles / 4        timer
       timer ticks / 8       keyboard, DMA
       timer ticks / 64      serial, video
       timer ticks / 1024    pacing
*/

// CPU clock rate.
const Frequency = sim.Freq(4772727)

const (
	pitDiv  = 4
	kbdDiv  = 8
	uartDiv = 64
	paceDiv = 1024
)

type Config struct {
	Model      string
	Speed      float64
	RAMSize    uint32
	Switches   uint8 // Configuration switches read through the 8255.
	UARTAddr   uint32
	UARTIRQ    int
	Video      bool
	EC7879     bool
	EC7879Addr uint32
	EC7879Size uint32
	Hooks      device.Hooks
}

// 640K machine with colour graphics and COM1.
func DefaultConfig() Config {
	return Config{
		Model:      "8088",
		Speed:      1,
		RAMSize:    640 * 1024,
		Switches:   0x2d,
		UARTAddr:   0x3f8,
		UARTIRQ:    4,
		Video:      true,
		EC7879Addr: 0xd0000,
		EC7879Size: 0x1000,
	}
}

type IBMPC struct {
	*core.Base
	cpu   *e8086.CPU
	ram   *memory.Block
	pic   *pic8259.PIC
	pit   *pit8253.PIT
	ppi   *ppi8255.PPI
	dma   *dma8237.DMA
	uart  *uart8250.UART
	video *Video
	ec    *EC7879
}

// Create machine from configuration.
func New(cfg Config) *IBMPC {
	mem := memory.New("mem", memory.LittleEndian)
	io := memory.New("io", memory.LittleEndian)
	pacer := newPacer(cfg.Speed)
	m := &IBMPC{Base: core.NewBase("ibmpc", mem, io, pacer)}

	if cfg.RAMSize > 0xa0000 {
		slog.Error("ram too large, using 640K", "size", cfg.RAMSize)
		cfg.RAMSize = 0xa0000
	}
	m.ram = memory.NewRAM("ram", 0, cfg.RAMSize)
	mem.Add(m.ram)

	m.pic = pic8259.New("pic")
	m.pit = pit8253.New("pit")
	m.ppi = ppi8255.New("ppi", cfg.Switches)
	m.dma = dma8237.New("dma", mem)
	m.uart = uart8250.New("uart", false)
	io.Add(m.dma.Block(0x00))
	io.Add(m.pic.Block(0x20))
	io.Add(m.pit.Block(0x40))
	io.Add(m.ppi.Block(0x60))
	io.Add(m.dma.PageBlock(0x80))
	io.Add(m.uart.Block(cfg.UARTAddr))

	m.cpu = e8086.New(mem, io,
		e8086.WithHooks(m.Hooks(cfg.Hooks)),
		e8086.WithInterruptAck(m.pic.InterruptAck))
	if err := m.cpu.SetModel(cfg.Model); err != nil {
		slog.Warn("cpu model", "error", err)
	}
	m.SetCPU(m.cpu)

	m.pic.SetINTR(m.cpu.SetINTR)
	m.pit.SetOut(0, m.pic.IRQ(0))
	m.pit.SetOut(1, m.dma.DREQ(0))
	m.ppi.SetIRQ(m.pic.IRQ(1))
	m.ppi.SetTimer(func(level bool) { m.pit.SetGate(2, level) }, nil,
		func() bool { return m.pit.Out(2) })
	m.uart.SetIRQ(m.pic.IRQ(cfg.UARTIRQ & 7))
	m.uart.SetGateOut2(true)
	m.AddDevice(m.pic, m.pit, m.ppi, m.dma, m.uart)

	root := m.Root()
	timer := root.Add(core.NewStage("pit", pitDiv, m.pit))
	timer.Add(core.NewStage("kbd", kbdDiv, m.ppi, m.dma))
	slow := timer.Add(core.NewStage("uart", uartDiv, m.uart))
	timer.Add(core.NewStage("pace", paceDiv, pacer))

	if cfg.Video {
		m.video = NewVideo("video")
		mem.Add(m.video.RAM())
		io.Add(m.video.Block(videoPorts))
		m.AddDevice(m.video)
		slow.Devices = append(slow.Devices, m.video)
	}
	if cfg.EC7879 {
		m.ec = NewEC7879("ec7879", cfg.EC7879Addr, cfg.EC7879Size, mem.Float())
		mem.Add(m.ec.Block())
		m.AddDevice(m.ec)
		slog.Warn("ec7879 window is not verified against hardware, accesses are only logged",
			"address", fmt.Sprintf("%05x", cfg.EC7879Addr))
	}
	return m
}

func newPacer(speed float64) *clock.Pacer {
	p := clock.NewPacer(Frequency / pitDiv / paceDiv)
	p.SetSpeed(speed)
	return p
}

// Queue keyboard scan codes from the host.
func (m *IBMPC) SendKeys(codes []byte) {
	m.ppi.SendKeys(codes)
}

func (m *IBMPC) UART() *uart8250.UART {
	return m.uart
}

func (m *IBMPC) PIC() *pic8259.PIC {
	return m.pic
}

func (m *IBMPC) PIT() *pit8253.PIT {
	return m.pit
}

func (m *IBMPC) Video() *Video {
	return m.video
}

func (m *IBMPC) Show() string {
	return fmt.Sprintf("ibmpc: ram=%dK video=%v ec7879=%v\n", m.ram.Size/1024, m.video != nil, m.ec != nil)
}
