/*
 * PCE - 8253 timer tests
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

package pit8253

import (
	"testing"
)

type edges struct {
	rise int
	fall int
}

func (e *edges) line(level bool) {
	if level {
		e.rise++
	} else {
		e.fall++
	}
}

func TestRateGenerator(t *testing.T) {
	p := New("pit")
	var e edges
	p.Set8(3, 0x34)
	p.SetOut(0, e.line)
	p.Set8(0, 4)
	p.Set8(0, 0)
	p.Clock(21)
	if e.rise != 5 {
		t.Errorf("Rate generator rising edges got: %d wanted: %d", e.rise, 5)
	}
	if e.fall != 5 {
		t.Errorf("Rate generator falling edges got: %d wanted: %d", e.fall, 5)
	}
	if !p.Out(0) {
		t.Error("Rate generator output not high")
	}
}

func TestTerminalCount(t *testing.T) {
	p := New("pit")
	p.Set8(3, 0x30)
	if p.Out(0) {
		t.Error("Mode 0 output high after control word")
	}
	p.Set8(0, 10)
	p.Set8(0, 0)
	p.Clock(10)
	if p.Out(0) {
		t.Error("Mode 0 output high before terminal count")
	}
	p.Clock(1)
	if !p.Out(0) {
		t.Error("Mode 0 output not high at terminal count")
	}
	p.Clock(5)
	if !p.Out(0) {
		t.Error("Mode 0 output dropped after terminal count")
	}
}

func TestSquareWave(t *testing.T) {
	p := New("pit")
	p.Set8(3, 0x76)
	p.Set8(1, 8)
	p.Set8(1, 0)
	p.Clock(4)
	if !p.Out(1) {
		t.Error("Square wave low too early")
	}
	p.Clock(1)
	if p.Out(1) {
		t.Error("Square wave not low after half period")
	}
	p.Clock(4)
	if !p.Out(1) {
		t.Error("Square wave not high after full period")
	}
}

func TestLatch(t *testing.T) {
	p := New("pit")
	p.Set8(3, 0x34)
	p.Set8(0, 0x00)
	p.Set8(0, 0x10)
	p.Clock(1)
	p.Set8(3, 0x00)
	p.Clock(0x10)
	lo := p.Get8(0)
	hi := p.Get8(0)
	if v := uint16(hi)<<8 | uint16(lo); v != 0x1000 {
		t.Errorf("Latched count got: %04x wanted: %04x", v, 0x1000)
	}
	lo = p.Get8(0)
	hi = p.Get8(0)
	if v := uint16(hi)<<8 | uint16(lo); v != 0x0ff0 {
		t.Errorf("Live count got: %04x wanted: %04x", v, 0x0ff0)
	}
}

func TestBCD(t *testing.T) {
	p := New("pit")
	p.Set8(3, 0x11)
	p.Set8(0, 0x10)
	p.Clock(2)
	if v := p.Get8(0); v != 0x09 {
		t.Errorf("BCD count got: %02x wanted: %02x", v, 0x09)
	}
	p.Clock(9)
	if !p.Out(0) {
		t.Error("BCD counter did not reach terminal count")
	}
}

func TestGate(t *testing.T) {
	p := New("pit")
	p.SetGate(2, false)
	p.Set8(3, 0xb6)
	p.Set8(2, 4)
	p.Set8(2, 0)
	p.Clock(20)
	if !p.Out(2) {
		t.Error("Gated counter changed output")
	}
	p.Set8(3, 0x80)
	lo := p.Get8(2)
	hi := p.Get8(2)
	if v := uint16(hi)<<8 | uint16(lo); v != 4 {
		t.Errorf("Gated count got: %04x wanted: %04x", v, 4)
	}
	p.SetGate(2, true)
	p.Clock(2)
	if p.Out(2) {
		t.Error("Square wave not running after gate")
	}
}

func TestOneShot(t *testing.T) {
	p := New("pit")
	p.Set8(3, 0x12)
	p.Set8(0, 3)
	p.Clock(5)
	if !p.Out(0) {
		t.Error("One shot fired without trigger")
	}
	p.SetGate(0, false)
	p.SetGate(0, true)
	p.Clock(1)
	if p.Out(0) {
		t.Error("One shot not low after trigger")
	}
	p.Clock(3)
	if !p.Out(0) {
		t.Error("One shot not high after count")
	}
}

func TestBlock(t *testing.T) {
	p := New("pit")
	b := p.Block(0x40)
	b.Set8(0x43, 0x34)
	b.Set8(0x40, 0x20)
	b.Set8(0x40, 0x00)
	p.Clock(1)
	if v := b.Get8(0x40); v != 0x20 {
		t.Errorf("Block read got: %02x wanted: %02x", v, 0x20)
	}
}
