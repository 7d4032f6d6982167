/*
 * PCE - PowerPC 405 simulator tests
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
	"github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rcornwell/pce/config/configparser"
	"github.com/rcornwell/pce/emu/clock"
	"github.com/rcornwell/pce/emu/core"
	"github.com/rcornwell/pce/emu/device/mock_device"
	"github.com/rcornwell/pce/emu/memory"
)

const (
	resetPC  = 0xfffffffc
	start    = 0x100
	branchTo = 0x48000102 // ba 0x100
	loop     = 0x48000000 // b .
	hookStop = 0x04000000 | core.HookStop
)

type backend struct {
	sent []byte
}

func (b *backend) Send(data []byte) {
	b.sent = append(b.sent, data...)
}

var _ = Describe("Sim405", func() {
	var (
		mockCtrl *gomock.Controller
		hooks    *mock_device.MockHooks
		m        *Sim405
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		hooks = mock_device.NewMockHooks(mockCtrl)
		hooks.EXPECT().OnException(gomock.Any()).AnyTimes()
		cfg := DefaultConfig()
		cfg.Speed = 0
		cfg.RAMSize = 0x10000
		cfg.Hooks = hooks
		m = New(cfg)
		m.Memory().Add(memory.NewRAM("boot", 0xffff0000, 0x10000))
		m.Memory().SetUint32(resetPC, branchTo)
		m.Memory().SetUint32(start, loop)
		m.Memory().SetUint32(0x500, loop)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should start at the last word of memory", func() {
		m.Reset()
		Expect(m.CPU().PC()).To(Equal(uint32(resetPC)))
		m.Step()
		Expect(m.CPU().PC()).To(Equal(uint32(start)))
	})

	It("should route serial interrupts through the UIC", func() {
		m.Reset()
		m.Step()
		Expect(m.CPU().SetReg("msr", 0x8000)).To(Succeed())
		Expect(m.UIC().SetDCR(0xc2, 0x80000000)).To(BeTrue())
		m.Memory().SetUint8(0xef600301, 0x01)
		m.UART().Receive([]byte("x"))
		for range 100 {
			m.Clock(16)
		}
		Expect(m.CPU().PC()).To(Equal(uint32(0x500)))
		sr, ok := m.UIC().GetDCR(0xc0)
		Expect(ok).To(BeTrue())
		Expect(sr).To(Equal(uint32(0x80000000)))
		Expect(m.Memory().GetUint8(0xef600300)).To(Equal(uint8('x')))
	})

	It("should transmit through the 16550", func() {
		out := &backend{}
		m.UART().SetBackend(out)
		m.Reset()
		m.Memory().SetUint8(0xef600302, 0x01)
		for _, c := range []byte("hello") {
			m.Memory().SetUint8(0xef600300, c)
		}
		for range 100 {
			m.Clock(16 * 10)
		}
		Expect(string(out.sent)).To(Equal("hello"))
	})

	It("should dispatch DCRs to the devices", func() {
		Expect(m.dcr.SetDCR(0xc8, 0x1000)).To(BeTrue())
		v, ok := m.dcr.GetDCR(0xc8)
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(uint32(0x1000)))
		_, ok = m.dcr.GetDCR(0x10)
		Expect(ok).To(BeFalse())
		Expect(m.dcr.SetDCR(0x10, 1)).To(BeFalse())
	})

	It("should stop the run loop from a hook", func() {
		m.Memory().SetUint32(start, hookStop)
		m.Memory().SetUint32(start+4, loop)
		hooks.EXPECT().OnHook(uint32(start), uint32(core.HookStop))
		m.Reset()
		Expect(core.New(m).Run()).To(Equal(clock.Stop))
		Expect(m.CPU().PC()).To(Equal(uint32(start + 4)))
	})

	It("should be created from a configuration", func() {
		m, err := configparser.LoadConfigString(`
[system]
machine = sim405
ram = 1M

[cpu]
model = bogus
speed = 0

[rom]
address = 0xfff00000
size = 1M

[uart]
address = 0xef600400
irq = 1
`)
		Expect(err).NotTo(HaveOccurred())
		Expect(m.CPU().Model()).To(Equal("405"))
		Expect(m.Memory().Find(0xfffffffc).Name).To(Equal("rom0"))
		Expect(m.Memory().Find(0xef600400).Name).To(Equal("uart"))
		Expect(m.Memory().Find(0x100000)).To(BeNil())
		Expect(m.CPU().PC()).To(Equal(uint32(resetPC)))
	})
})
