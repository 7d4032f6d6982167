/*
 * PCE - 8259 interrupt controller tests
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

package pic8259

import (
	"testing"
)

// Program controller the way the PC BIOS does.
func newTestPIC() (*PIC, *bool) {
	p := New("pic")
	intr := new(bool)
	p.SetINTR(func(level bool) { *intr = level })
	p.Set8(0, 0x13)
	p.Set8(1, 0x08)
	p.Set8(1, 0x09)
	p.Set8(1, 0x00)
	return p, intr
}

func TestInit(t *testing.T) {
	p, intr := newTestPIC()
	if p.icwStep != 0 {
		t.Errorf("Initialization not complete got: %d wanted: %d", p.icwStep, 0)
	}
	if *intr {
		t.Error("INTR set with no requests")
	}
	p.Set8(1, 0xbc)
	if v := p.Get8(1); v != 0xbc {
		t.Errorf("Mask got: %02x wanted: %02x", v, 0xbc)
	}
}

func TestAcknowledge(t *testing.T) {
	p, intr := newTestPIC()
	p.Set(0, true)
	if !*intr {
		t.Error("INTR not set for request 0")
	}
	if v := p.InterruptAck(); v != 0x08 {
		t.Errorf("Vector got: %02x wanted: %02x", v, 0x08)
	}
	if *intr {
		t.Error("INTR still set after acknowledge")
	}
	p.Set8(0, 0x0b)
	if v := p.Get8(0); v != 0x01 {
		t.Errorf("ISR got: %02x wanted: %02x", v, 0x01)
	}

	// Lower priority request waits for end of interrupt.
	p.IRQ(1)(true)
	if *intr {
		t.Error("INTR set while higher priority in service")
	}
	p.Set8(0, 0x20)
	if !*intr {
		t.Error("INTR not set after end of interrupt")
	}
	if v := p.InterruptAck(); v != 0x09 {
		t.Errorf("Vector got: %02x wanted: %02x", v, 0x09)
	}
}

func TestPriority(t *testing.T) {
	p, _ := newTestPIC()
	p.Set(3, true)
	p.Set(1, true)
	if v := p.InterruptAck(); v != 0x09 {
		t.Errorf("First vector got: %02x wanted: %02x", v, 0x09)
	}
	p.Set8(0, 0x20)
	if v := p.InterruptAck(); v != 0x0b {
		t.Errorf("Second vector got: %02x wanted: %02x", v, 0x0b)
	}

	// Higher priority preempts one in service.
	p.Set(0, true)
	if !p.Pending() {
		t.Error("Request 0 not pending over request 3")
	}
}

func TestMask(t *testing.T) {
	p, intr := newTestPIC()
	p.Set8(1, 0x01)
	p.Set(0, true)
	if *intr {
		t.Error("INTR set for masked request")
	}
	p.Set8(0, 0x0a)
	if v := p.Get8(0); v != 0x01 {
		t.Errorf("IRR got: %02x wanted: %02x", v, 0x01)
	}
	p.Set8(1, 0x00)
	if !*intr {
		t.Error("INTR not set after unmask")
	}
}

func TestEdgeTrigger(t *testing.T) {
	p, _ := newTestPIC()
	p.Set(2, true)
	p.InterruptAck()
	p.Set8(0, 0x20)
	if p.Pending() {
		t.Error("Held input requested twice")
	}
	p.Set(2, false)
	p.Set(2, true)
	if !p.Pending() {
		t.Error("New edge not requested")
	}
}

func TestSpurious(t *testing.T) {
	p, _ := newTestPIC()
	if v := p.InterruptAck(); v != 0x0f {
		t.Errorf("Spurious vector got: %02x wanted: %02x", v, 0x0f)
	}
}

func TestAutoEOI(t *testing.T) {
	p := New("pic")
	p.Set8(0, 0x13)
	p.Set8(1, 0x20)
	p.Set8(1, 0x0b)
	p.Set8(1, 0x00)
	p.Set(4, true)
	if v := p.InterruptAck(); v != 0x24 {
		t.Errorf("Vector got: %02x wanted: %02x", v, 0x24)
	}
	p.Set8(0, 0x0b)
	if v := p.Get8(0); v != 0 {
		t.Errorf("ISR with auto EOI got: %02x wanted: %02x", v, 0)
	}
}

func TestRotate(t *testing.T) {
	p, _ := newTestPIC()
	p.Set(0, true)
	p.InterruptAck()
	p.Set8(0, 0xa0)
	p.Set(0, false)
	p.Set(0, true)
	p.Set(1, true)
	if v := p.InterruptAck(); v != 0x09 {
		t.Errorf("Rotated vector got: %02x wanted: %02x", v, 0x09)
	}
}
