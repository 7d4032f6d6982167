/*
 * PCE - Common CPU helper test cases
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

package cpu

import (
	"testing"
)

func TestSplitName(t *testing.T) {
	tests := []struct {
		in   string
		name string
		size int
	}{
		{"d0", "d0", 0},
		{"D0.B", "d0", 1},
		{"a7.w", "a7", 2},
		{"pc.l", "pc", 4},
		{"srr0", "srr0", 0},
		{"x.q", "x.q", 0},
		{".b", ".b", 0},
	}
	for _, test := range tests {
		name, size := SplitName(test.in)
		if name != test.name || size != test.size {
			t.Errorf("SplitName %s got: %s %d wanted: %s %d", test.in, name, size, test.name, test.size)
		}
	}
}

func TestMerge(t *testing.T) {
	if v := Merge(0x12345678, 0xabcd, 1); v != 0x123456cd {
		t.Errorf("Merge byte got: %08x wanted: %08x", v, 0x123456cd)
	}
	if v := Merge(0x12345678, 0xabcd, 2); v != 0x1234abcd {
		t.Errorf("Merge word got: %08x wanted: %08x", v, 0x1234abcd)
	}
	if v := Merge(0x12345678, 0xabcd, 0); v != 0xabcd {
		t.Errorf("Merge long got: %08x wanted: %08x", v, 0xabcd)
	}
	if v := Mask(0x12345678, 2); v != 0x5678 {
		t.Errorf("Mask word got: %08x wanted: %08x", v, 0x5678)
	}
}

func TestCredit(t *testing.T) {
	var c Credit
	c.Add(10)
	steps := 0
	for c.Available() {
		c.Spend(4)
		steps++
	}
	if steps != 3 || c.Balance() != -2 {
		t.Errorf("Credit got: %d %d wanted: 3 -2", steps, c.Balance())
	}
	c.Add(3)
	if !c.Available() {
		t.Errorf("Credit carry not applied")
	}
	if n := c.Drain(); n != 1 {
		t.Errorf("Drain got: %d wanted: 1", n)
	}
}
