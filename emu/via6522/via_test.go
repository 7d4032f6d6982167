/*
 * PCE - 6522 VIA tests
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

package via6522

import (
	"testing"
)

func TestPorts(t *testing.T) {
	v := New("via")
	var out uint8
	v.SetPorts(Port{
		Read:  func() uint8 { return 0x3c },
		Write: func(val uint8) { out = val },
	}, Port{})
	v.Set8(regDDRA, 0xf0)
	v.Set8(regORA, 0xa5)
	if out != 0xaf {
		t.Errorf("Port A pins got: %02x wanted: %02x", out, 0xaf)
	}
	if val := v.Get8(regORA); val != 0xac {
		t.Errorf("Port A read got: %02x wanted: %02x", val, 0xac)
	}
	if val := v.Get8(regORB); val != 0xff {
		t.Errorf("Port B floating got: %02x wanted: %02x", val, 0xff)
	}
}

func TestTimer1OneShot(t *testing.T) {
	v := New("via")
	irq := false
	v.SetIRQ(func(level bool) { irq = level })
	v.Set8(regIER, 0x80|IntT1)
	v.Set8(regT1CL, 0x10)
	v.Set8(regT1CH, 0x00)
	v.Clock(0x10)
	if irq {
		t.Error("Timer 1 fired early")
	}
	if val := v.Get8(regT1CL); val != 0 {
		t.Errorf("Timer 1 count got: %02x wanted: %02x", val, 0)
	}
	v.Clock(1)
	if !irq {
		t.Error("Timer 1 did not fire")
	}
	if val := v.Get8(regIFR); val != IntAny|IntT1 {
		t.Errorf("IFR got: %02x wanted: %02x", val, IntAny|IntT1)
	}
	v.Get8(regT1CL)
	if irq {
		t.Error("Timer 1 interrupt not cleared by counter read")
	}
	v.Clock(0x20000)
	if irq {
		t.Error("One shot timer fired twice")
	}
}

func TestTimer1FreeRun(t *testing.T) {
	v := New("via")
	count := 0
	v.SetIRQ(func(level bool) {
		if level {
			count++
		}
	})
	v.Set8(regACR, 0x40)
	v.Set8(regIER, 0x80|IntT1)
	v.Set8(regT1CL, 98)
	v.Set8(regT1CH, 0)
	for range 5 {
		v.Clock(100)
		v.Set8(regIFR, IntT1)
	}
	if count != 5 {
		t.Errorf("Free running interrupts got: %d wanted: %d", count, 5)
	}
	if val := v.Get8(regT1CL); val != 98 {
		t.Errorf("Free running count got: %d wanted: %d", val, 98)
	}
}

func TestTimer2(t *testing.T) {
	v := New("via")
	v.Set8(regT2CL, 0x05)
	v.Set8(regT2CH, 0x00)
	v.Clock(6)
	if v.Get8(regIFR)&IntT2 == 0 {
		t.Error("Timer 2 did not fire")
	}
	v.Get8(regT2CL)
	if v.Get8(regIFR)&IntT2 != 0 {
		t.Error("Timer 2 flag not cleared")
	}
}

func TestInterruptEnable(t *testing.T) {
	v := New("via")
	irq := false
	v.SetIRQ(func(level bool) { irq = level })
	v.SetCA1(true)
	if v.Get8(regIFR) != 0 {
		t.Error("CA1 rising edge flagged in negative edge mode")
	}
	v.SetCA1(false)
	if v.Get8(regIFR) != IntCA1 {
		t.Errorf("CA1 flag got: %02x wanted: %02x", v.Get8(regIFR), IntCA1)
	}
	if irq {
		t.Error("Interrupt raised while disabled")
	}
	v.Set8(regIER, 0x80|IntCA1)
	if !irq {
		t.Error("Interrupt not raised after enable")
	}
	if val := v.Get8(regIER); val != 0x80|IntCA1 {
		t.Errorf("IER got: %02x wanted: %02x", val, 0x80|IntCA1)
	}
	v.Get8(regORA)
	if irq {
		t.Error("CA1 not cleared by port read")
	}
}

func TestPB7(t *testing.T) {
	v := New("via")
	var pb uint8
	v.SetPorts(Port{}, Port{Write: func(val uint8) { pb = val }})
	v.Set8(regDDRB, 0xff)
	v.Set8(regACR, 0xc0)
	v.Set8(regT1CL, 8)
	v.Set8(regT1CH, 0)
	if pb&0x80 != 0 {
		t.Error("PB7 not low after timer load")
	}
	v.Clock(9)
	if pb&0x80 == 0 {
		t.Error("PB7 not toggled at underflow")
	}
	v.Clock(10)
	if pb&0x80 != 0 {
		t.Error("PB7 not toggled at second underflow")
	}
}

func TestManualCA2(t *testing.T) {
	v := New("via")
	ca2 := false
	v.SetControl(func(level bool) { ca2 = level }, nil)
	v.Set8(regPCR, 0x0e)
	if !ca2 {
		t.Error("CA2 not driven high")
	}
	v.Set8(regPCR, 0x0c)
	if ca2 {
		t.Error("CA2 not driven low")
	}
}
