/*
 * PCE - Serial port tests
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

package uart8250

import (
	"bytes"
	"testing"
)

type testBackend struct {
	out bytes.Buffer
}

func (b *testBackend) Send(data []byte) {
	b.out.Write(data)
}

func TestTransmit(t *testing.T) {
	u := New("uart", false)
	b := &testBackend{}
	u.SetBackend(b)
	u.Set8(0, 'A')
	if v := u.Get8(5); v&lsrTEMT != 0 {
		t.Errorf("Transmitter empty while sending got: %02x", v)
	}
	if v := u.Get8(5); v&lsrTHRE == 0 {
		t.Errorf("Holding register not empty got: %02x", v)
	}
	u.Set8(0, 'B')
	u.Clock(9)
	if b.out.String() != "" {
		t.Errorf("Character sent early got: %q", b.out.String())
	}
	u.Clock(1)
	if b.out.String() != "A" {
		t.Errorf("First character got: %q wanted: %q", b.out.String(), "A")
	}
	u.Clock(10)
	if b.out.String() != "AB" {
		t.Errorf("Second character got: %q wanted: %q", b.out.String(), "AB")
	}
	if v := u.Get8(5); v&lsrTEMT == 0 {
		t.Errorf("Transmitter not empty after send got: %02x", v)
	}
}

func TestReceive(t *testing.T) {
	u := New("uart", false)
	irq := false
	u.SetIRQ(func(level bool) { irq = level })
	u.Set8(1, ierRx)
	u.Receive([]byte("hi"))
	u.Clock(1)
	if !irq {
		t.Error("Receive interrupt not raised")
	}
	if v := u.Get8(2); v != iirRx {
		t.Errorf("IIR got: %02x wanted: %02x", v, iirRx)
	}
	if v := u.Get8(0); v != 'h' {
		t.Errorf("Data got: %02x wanted: %02x", v, 'h')
	}
	if irq {
		t.Error("Receive interrupt not cleared by read")
	}
	u.Clock(10)
	if v := u.Get8(0); v != 'i' {
		t.Errorf("Data got: %02x wanted: %02x", v, 'i')
	}
	if v := u.Get8(5); v&lsrDR != 0 {
		t.Errorf("Data ready with empty buffer got: %02x", v)
	}
}

func TestTransmitInterrupt(t *testing.T) {
	u := New("uart", false)
	irq := false
	u.SetIRQ(func(level bool) { irq = level })
	u.Set8(1, ierTx)
	if !irq {
		t.Error("Transmit interrupt not raised on enable")
	}
	if v := u.Get8(2); v != iirTx {
		t.Errorf("IIR got: %02x wanted: %02x", v, iirTx)
	}
	if irq {
		t.Error("Transmit interrupt not cleared by IIR read")
	}
	if v := u.Get8(2); v != iirNone {
		t.Errorf("IIR got: %02x wanted: %02x", v, iirNone)
	}
}

func TestLoopback(t *testing.T) {
	u := New("uart", true)
	u.Set8(2, 0x07)
	u.Set8(4, mcrLoop|mcrRTS)
	u.Set8(0, 'x')
	u.Set8(0, 'y')
	u.Clock(20)
	if v := u.Get8(0); v != 'x' {
		t.Errorf("Loopback data got: %02x wanted: %02x", v, 'x')
	}
	if v := u.Get8(0); v != 'y' {
		t.Errorf("Loopback data got: %02x wanted: %02x", v, 'y')
	}
	if v := u.Get8(6); v&0x10 == 0 {
		t.Errorf("Loopback CTS got: %02x", v)
	}
}

func TestFIFOTrigger(t *testing.T) {
	u := New("uart", true)
	irq := false
	u.SetIRQ(func(level bool) { irq = level })
	u.Set8(2, 0x41)
	u.Set8(1, ierRx)
	u.Receive([]byte("abcd"))
	u.Clock(29)
	if irq {
		t.Error("Interrupt before trigger level")
	}
	u.Clock(1)
	if !irq {
		t.Error("Interrupt not raised at trigger level")
	}
	if v := u.Get8(2); v != iirRx|iirFIFO {
		t.Errorf("IIR got: %02x wanted: %02x", v, iirRx|iirFIFO)
	}
}

func TestOverrun(t *testing.T) {
	u := New("uart", false)
	u.Set8(4, mcrLoop)
	u.Set8(0, 1)
	u.Clock(10)
	u.Set8(0, 2)
	u.Clock(10)
	v := u.Get8(5)
	if v&lsrOE == 0 {
		t.Errorf("Overrun not flagged got: %02x", v)
	}
	if v := u.Get8(5); v&lsrOE != 0 {
		t.Errorf("Overrun not cleared by read got: %02x", v)
	}
	if v := u.Get8(0); v != 2 {
		t.Errorf("Overrun data got: %02x wanted: %02x", v, 2)
	}
}

func TestDivisor(t *testing.T) {
	u := New("uart", false)
	u.Set8(3, 0x83)
	u.Set8(0, 0x60)
	u.Set8(1, 0x00)
	u.Set8(3, 0x03)
	if v := u.Divisor(); v != 0x60 {
		t.Errorf("Divisor got: %04x wanted: %04x", v, 0x60)
	}
	if v := u.Get8(1); v != 0 {
		t.Errorf("IER after divisor write got: %02x wanted: %02x", v, 0)
	}
}

func TestGateOut2(t *testing.T) {
	u := New("uart", false)
	irq := false
	u.SetIRQ(func(level bool) { irq = level })
	u.SetGateOut2(true)
	u.Set8(1, ierTx)
	if irq {
		t.Error("Interrupt with OUT2 clear")
	}
	u.Set8(4, mcrOut2)
	if !irq {
		t.Error("Interrupt not raised with OUT2 set")
	}
}
