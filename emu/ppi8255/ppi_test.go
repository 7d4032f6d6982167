/*
 * PCE - 8255 keyboard interface tests
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

package ppi8255

import (
	"testing"
)

func TestSwitches(t *testing.T) {
	p := New("ppi", 0x5d)
	p.Set8(1, 0x00)
	if v := p.Get8(2) & 0x0f; v != 0x0d {
		t.Errorf("Low switches got: %x wanted: %x", v, 0x0d)
	}
	p.Set8(1, pbSwHigh)
	if v := p.Get8(2) & 0x0f; v != 0x05 {
		t.Errorf("High switches got: %x wanted: %x", v, 0x05)
	}
	p.Set8(1, pbKbClear)
	if v := p.Get8(0); v != 0x5d {
		t.Errorf("Port A switches got: %02x wanted: %02x", v, 0x5d)
	}
}

func TestKeyboardReset(t *testing.T) {
	p := New("ppi", 0)
	irq := false
	p.SetIRQ(func(level bool) { irq = level })
	p.Set8(1, 0x00)
	p.Set8(1, pbKbClock)
	p.Clock(resetDelay - 1)
	if irq {
		t.Error("Self test code too early")
	}
	p.Clock(1)
	if !irq {
		t.Error("Self test code not delivered")
	}
	if v := p.Get8(0); v != selfTest {
		t.Errorf("Self test code got: %02x wanted: %02x", v, selfTest)
	}
	p.Set8(1, pbKbClock|pbKbClear)
	if irq {
		t.Error("Keyboard interrupt not cleared")
	}
	p.Set8(1, pbKbClock)
}

func TestScanCodes(t *testing.T) {
	p := New("ppi", 0)
	irq := false
	p.SetIRQ(func(level bool) { irq = level })
	p.SendKeys([]byte{0x1e, 0x9e})
	p.Clock(1)
	if !irq {
		t.Fatal("Key not delivered")
	}
	if v := p.Get8(0); v != 0x1e {
		t.Errorf("Scan code got: %02x wanted: %02x", v, 0x1e)
	}
	p.Clock(5)
	if v := p.Get8(0); v != 0x1e {
		t.Errorf("Scan code replaced before clear got: %02x", v)
	}
	p.Set8(1, pbKbClock|pbKbClear)
	p.Set8(1, pbKbClock)
	p.Clock(1)
	if v := p.Get8(0); v != 0x9e {
		t.Errorf("Scan code got: %02x wanted: %02x", v, 0x9e)
	}
}

func TestKeyboardDisabled(t *testing.T) {
	p := New("ppi", 0)
	p.Set8(1, 0x00)
	p.SendKeys([]byte{0x1c})
	p.Clock(resetDelay * 2)
	if p.keyValid {
		t.Error("Key delivered with clock held low")
	}
}

func TestTimerGate(t *testing.T) {
	p := New("ppi", 0)
	gate := false
	out := true
	p.SetTimer(func(level bool) { gate = level }, nil, func() bool { return out })
	p.Set8(1, pbKbClock|pbGate2)
	if !gate {
		t.Error("Timer gate not set")
	}
	if v := p.Get8(2); v&0x20 == 0 {
		t.Errorf("Timer output not read got: %02x", v)
	}
	out = false
	if v := p.Get8(2); v&0x20 != 0 {
		t.Errorf("Timer output stuck got: %02x", v)
	}
	p.Set8(1, pbKbClock)
	if gate {
		t.Error("Timer gate not cleared")
	}
}
