/*
 * PCE - IBM PC tests
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
	"github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rcornwell/pce/config/configparser"
	"github.com/rcornwell/pce/emu/device/mock_device"
	"github.com/rcornwell/pce/emu/memory"
)

const (
	resetPC = 0xffff0
	start   = 0xf0100
	handler = 0x500
)

type backend struct {
	sent []byte
}

func (b *backend) Send(data []byte) {
	b.sent = append(b.sent, data...)
}

var _ = Describe("IBMPC", func() {
	var (
		mockCtrl *gomock.Controller
		hooks    *mock_device.MockHooks
		m        *IBMPC
	)

	code := func(addr uint32, bytes ...uint8) {
		for i, b := range bytes {
			m.Memory().SetUint8(addr+uint32(i), b)
		}
	}

	out := func(port uint32, val uint8) {
		m.Ports().SetUint8(port, val)
	}

	in := func(port uint32) uint8 {
		return m.Ports().GetUint8(port)
	}

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		hooks = mock_device.NewMockHooks(mockCtrl)
		hooks.EXPECT().OnException(gomock.Any()).AnyTimes()
		cfg := DefaultConfig()
		cfg.Speed = 0
		cfg.Hooks = hooks
		m = New(cfg)
		m.Memory().Add(memory.NewRAM("bios", 0xf0000, 0x10000))
		code(resetPC, 0xea, 0x00, 0x01, 0x00, 0xf0) // jmp f000:0100
		code(start, 0xeb, 0xfe)                     // jmp $
		code(handler, 0xeb, 0xfe)                   // jmp $
		m.Memory().SetUint16(8*4, handler)
		m.Memory().SetUint16(8*4+2, 0)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should start at FFFF:0000", func() {
		m.Reset()
		Expect(m.CPU().PC()).To(Equal(uint32(resetPC)))
		m.Step()
		Expect(m.CPU().PC()).To(Equal(uint32(start)))
	})

	It("should deliver timer 0 through the PIC", func() {
		code(start, 0xfb, 0xeb, 0xfe) // sti; jmp $
		m.Reset()
		out(0x43, 0x34) // counter 0, mode 2
		out(0x40, 0x00)
		out(0x40, 0x01)
		out(0x20, 0x13) // edge, single, ICW4
		out(0x21, 0x08)
		out(0x21, 0x09)
		out(0x21, 0xfe)
		for range 40 {
			m.Clock(100)
		}
		Expect(m.CPU().PC()).To(Equal(uint32(handler)))
		out(0x20, 0x0b)
		Expect(in(0x20)).To(Equal(uint8(0x01)))
		out(0x20, 0x20)
		Expect(in(0x20)).To(Equal(uint8(0x00)))
	})

	It("should read scan codes from the keyboard", func() {
		m.Reset()
		m.SendKeys([]byte{0x1e})
		for range 10 {
			m.Clock(32)
		}
		Expect(in(0x60)).To(Equal(uint8(0x1e)))
		Expect(m.PIC().Get8(0) & 0x02).To(Equal(uint8(0x02)))

		// Keyboard reset answers with the self test code.
		out(0x61, 0xc0)
		out(0x61, 0x00)
		out(0x61, 0x40)
		for range 40 {
			m.Clock(32)
		}
		Expect(in(0x60)).To(Equal(uint8(0xaa)))
	})

	It("should read the switches with PB7 set", func() {
		m.Reset()
		out(0x61, 0xc0)
		Expect(in(0x60)).To(Equal(uint8(0x2d)))
	})

	It("should transmit on the serial port", func() {
		tx := &backend{}
		m.UART().SetBackend(tx)
		m.Reset()
		out(0x3f8, 'A')
		for range 40 {
			m.Clock(100)
		}
		Expect(string(tx.sent)).To(Equal("A"))
	})

	It("should show retrace on the video status port", func() {
		m.Reset()
		a := in(0x3da)
		b := in(0x3da)
		Expect(a ^ b).To(Equal(uint8(0x01)))
		out(0x3d4, 0x0e)
		out(0x3d5, 0x12)
		Expect(in(0x3d5)).To(Equal(uint8(0x12)))
		m.Memory().SetUint8(0xb8000, 'A')
		Expect(m.Video().RAM().Data[0]).To(Equal(uint8('A')))
	})

	It("should be created from a configuration", func() {
		m, err := configparser.LoadConfigString(`
[system]
machine = ibmpc
ram = 256K

[cpu]
model = 8086
speed = 0

[rom]
address = 0xf0000
size = 64K

[uart]
address = 0x2f8
irq = 3

[ec7879]
address = 0xd0000
`)
		Expect(err).NotTo(HaveOccurred())
		Expect(m.CPU().Model()).To(Equal("8086"))
		Expect(m.Memory().Find(0x3ffff).Name).To(Equal("ram"))
		Expect(m.Memory().Find(0x40000)).To(BeNil())
		Expect(m.Memory().Find(0xffff0).Name).To(Equal("rom0"))
		Expect(m.Memory().Find(0xd0000).Name).To(Equal("ec7879"))
		Expect(m.Memory().GetUint8(0xd0000)).To(Equal(uint8(0xff)))
		Expect(m.Ports().Find(0x2f8).Name).To(Equal("uart"))
		Expect(m.Ports().Find(0x3f8)).To(BeNil())
		Expect(m.CPU().PC()).To(Equal(uint32(resetPC)))
	})
})
