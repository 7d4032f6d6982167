/*
 * PCE - 68000 simulator tests
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
	"github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rcornwell/pce/config/configparser"
	"github.com/rcornwell/pce/emu/clock"
	"github.com/rcornwell/pce/emu/core"
	"github.com/rcornwell/pce/emu/cpu"
	"github.com/rcornwell/pce/emu/device/mock_device"
)

const (
	resetSP = 0x8000
	resetPC = 0x0400
	loop    = 0x60fe // bra.s to itself
)

type backend struct {
	sent []byte
}

func (b *backend) Send(data []byte) {
	b.sent = append(b.sent, data...)
}

var _ = Describe("Sim68k", func() {
	var (
		mockCtrl *gomock.Controller
		hooks    *mock_device.MockHooks
		m        *Sim68k
	)

	load := func(addr uint32, words ...uint16) {
		for i, w := range words {
			m.Memory().SetUint16(addr+uint32(2*i), w)
		}
	}

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		hooks = mock_device.NewMockHooks(mockCtrl)
		hooks.EXPECT().OnException(gomock.Any()).AnyTimes()
		cfg := DefaultConfig()
		cfg.Speed = 0
		cfg.Hooks = hooks
		m = New(cfg)
		m.Memory().SetUint32(0, resetSP)
		m.Memory().SetUint32(4, resetPC)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should start at the reset vector and run NOP in 4 cycles", func() {
		load(resetPC, 0x4e71)
		m.Reset()
		Expect(m.CPU().PC()).To(Equal(uint32(resetPC)))
		sp, err := m.CPU().GetReg("a7")
		Expect(err).NotTo(HaveOccurred())
		Expect(sp).To(Equal(uint32(resetSP)))

		before := m.CPU().Cycles()
		m.Step()
		Expect(m.CPU().PC()).To(Equal(uint32(resetPC + 2)))
		Expect(m.CPU().Cycles() - before).To(Equal(uint64(4)))
	})

	It("should take the timer interrupt on its autovector", func() {
		load(resetPC, loop)
		load(0x500, loop)
		m.Memory().SetUint32((24+6)*4, 0x500)
		m.Reset()
		Expect(m.CPU().SetReg("sr", 0x2000)).To(Succeed())

		m.Memory().SetUint32(0xff0004, 10)
		m.Memory().SetUint8(0xff0000, 3)
		m.Clock(40)
		Expect(m.CPU().PC()).To(Equal(uint32(resetPC)))

		// Devices run after the CPU, clock in small steps.
		for range 40 {
			m.Clock(10)
		}
		Expect(m.CPU().PC()).To(Equal(uint32(0x500)))
		sr, _ := m.CPU().GetReg("sr")
		Expect(sr & 0x0700).To(Equal(uint32(0x0600)))
		Expect(m.Timer().Expired()).To(BeNumerically(">=", 1))
	})

	It("should send characters to the backend", func() {
		out := &backend{}
		m.UART().SetBackend(out)
		load(resetPC, loop)
		m.Reset()
		m.Memory().SetUint8(0xff1000, 'A')
		m.Memory().SetUint8(0xff1000, 'B')
		m.Clock(64 * 40)
		Expect(string(out.sent)).To(Equal("AB"))
	})

	It("should interrupt on received characters", func() {
		load(resetPC, loop)
		load(0x600, loop)
		m.Memory().SetUint32((24+4)*4, 0x600)
		m.Reset()
		Expect(m.CPU().SetReg("sr", 0x2000)).To(Succeed())
		m.Memory().SetUint8(0xff1001, 0x01)
		m.UART().Receive([]byte("x"))
		for range 40 {
			m.Clock(64)
		}
		Expect(m.CPU().PC()).To(Equal(uint32(0x600)))
		Expect(m.Memory().GetUint8(0xff1000)).To(Equal(uint8('x')))
	})

	It("should stop the run loop from a hook", func() {
		load(resetPC, 0xffff, core.HookStop, loop)
		hooks.EXPECT().OnHook(uint32(resetPC), uint32(core.HookStop))
		m.Reset()
		c := core.New(m)
		Expect(c.Run()).To(Equal(clock.Stop))
		Expect(m.CPU().PC()).To(Equal(uint32(resetPC + 4)))
	})

	It("should halt on a double fault", func() {
		m.Memory().SetUint32(0, resetSP+1)
		load(resetPC, 0x4afc)
		hooks.EXPECT().OnUndefined(uint32(resetPC), uint32(0x4afc)).Return(false)
		m.Reset()
		c := core.New(m)
		Expect(c.Run()).To(Equal(clock.Halt))
		Expect(m.CPU().State()).To(Equal(cpu.Stopped))
		Expect(m.CPU().Fault()).To(MatchError(cpu.ErrDoubleFault))
	})

	It("should reset devices on the RESET instruction", func() {
		load(resetPC, 0x4e70, loop)
		m.Reset()
		m.Memory().SetUint32(0xff0004, 100)
		m.Memory().SetUint8(0xff0000, 1)
		Expect(m.Memory().GetUint8(0xff0000)).To(Equal(uint8(1)))
		m.Step()
		Expect(m.Memory().GetUint8(0xff0000)).To(Equal(uint8(0)))
	})

	It("should be created from a configuration", func() {
		m, err := configparser.LoadConfigString(`
[system]
machine = sim68k
ram = 64K

[cpu]
speed = 0

[timer]
address = 0xfe0000
irq = 5
`)
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Name()).To(Equal("sim68k"))
		Expect(m.Memory().Find(0xfe0000).Name).To(Equal("timer"))
		Expect(m.Memory().Find(0x10000)).To(BeNil())
		Expect(m.Pacer().Speed()).To(Equal(0.0))
	})
})
