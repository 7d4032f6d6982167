/*
 * PCE - VIC-20 tests
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
	"github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rcornwell/pce/config/configparser"
	"github.com/rcornwell/pce/emu/device/mock_device"
	"github.com/rcornwell/pce/emu/memory"
)

const (
	kernal = 0xe000
	via1   = 0x9110
	via2   = 0x9120
)

var _ = Describe("VIC20", func() {
	var (
		mockCtrl *gomock.Controller
		hooks    *mock_device.MockHooks
		m        *VIC20
	)

	// Place code at addr.
	code := func(addr uint32, bytes ...uint8) {
		for i, b := range bytes {
			m.Memory().SetUint8(addr+uint32(i), b)
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
		m.Memory().Add(memory.NewRAM("kernal", kernal, 0x2000))
		m.Memory().SetUint16(0xfffc, kernal)
		m.Memory().SetUint16(0xfffa, 0xe200)
		m.Memory().SetUint16(0xfffe, 0xe100)
		code(kernal, 0x4c, 0x00, 0xe0) // jmp $e000
		code(0xe100, 0x4c, 0x00, 0xe1) // jmp $e100
		code(0xe200, 0x4c, 0x00, 0xe2) // jmp $e200
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should start at the reset vector", func() {
		code(kernal, 0xea, 0x4c, 0x01, 0xe0) // nop; jmp $e001
		m.Reset()
		Expect(m.CPU().PC()).To(Equal(uint32(kernal)))
		m.Step()
		Expect(m.CPU().PC()).To(Equal(uint32(kernal + 1)))
	})

	It("should take the VIA 2 timer interrupt", func() {
		code(kernal, 0x58, 0x4c, 0x01, 0xe0) // cli; jmp $e001
		m.Reset()
		m.Memory().SetUint8(via2+11, 0x40) // free running
		m.Memory().SetUint8(via2+4, 0x00)
		m.Memory().SetUint8(via2+5, 0x04)
		m.Memory().SetUint8(via2+14, 0xc0)
		for range 30 {
			m.Clock(100)
		}
		Expect(m.CPU().PC()).To(Equal(uint32(0xe100)))
		Expect(m.Memory().GetUint8(via2 + 13)).To(Equal(uint8(0xc0)))
	})

	It("should scan the keyboard matrix", func() {
		m.Reset()
		m.Keyboard().Key(3, 5, true)
		m.Clock(150)
		m.Memory().SetUint8(via2+2, 0xff)
		m.Memory().SetUint8(via2, 0xf7)
		Expect(m.Memory().GetUint8(via2 + 1)).To(Equal(uint8(0xdf)))
		m.Memory().SetUint8(via2, 0xfb)
		Expect(m.Memory().GetUint8(via2 + 1)).To(Equal(uint8(0xff)))

		m.Keyboard().Key(3, 5, false)
		m.Clock(150)
		m.Memory().SetUint8(via2, 0x00)
		Expect(m.Memory().GetUint8(via2 + 1)).To(Equal(uint8(0xff)))
	})

	It("should raise NMI from RESTORE", func() {
		m.Reset()
		m.Memory().SetUint8(via1+14, 0x82)
		m.Keyboard().Key(Restore, 0, true)
		for range 5 {
			m.Clock(71)
		}
		Expect(m.CPU().PC()).To(Equal(uint32(0xe200)))
		Expect(m.Memory().GetUint8(via1+13) & 0x02).To(Equal(uint8(0x02)))
	})

	It("should count raster lines", func() {
		m.Reset()
		m.Clock(71 * 10)
		Expect(m.VIC().Raster()).To(Equal(uint16(10)))
		Expect(m.Memory().GetUint8(0x9004)).To(Equal(uint8(5)))
	})

	It("should keep four bits of colour RAM", func() {
		m.Memory().SetUint8(0x9400, 0x5a)
		Expect(m.Memory().GetUint8(0x9400)).To(Equal(uint8(0xfa)))
	})

	It("should be created from a configuration", func() {
		m, err := configparser.LoadConfigString(`
[system]
machine = vic20
expansion = 8K

[cpu]
speed = 0

[vic]
model = 6560

[rom]
address = 0xe000
size = 8K
`)
		Expect(err).NotTo(HaveOccurred())
		v, ok := m.(*VIC20)
		Expect(ok).To(BeTrue())
		Expect(v.VIC().Model()).To(Equal("6560"))
		Expect(v.VIC().LineCycles()).To(Equal(uint64(65)))
		Expect(v.Pacer().Frequency()).To(Equal(FrequencyNTSC / paceDiv))
		Expect(v.Memory().Find(0x2000).Name).To(Equal("expansion"))
		Expect(v.Memory().Find(0x4000)).To(BeNil())
		Expect(v.Memory().Find(0xe000).Name).To(Equal("rom0"))
		Expect(v.CPU().PC()).To(Equal(uint32(0xffff)))
	})
})
