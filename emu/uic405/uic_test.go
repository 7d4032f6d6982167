/*
 * PCE - UIC tests
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

package uic405

import (
	"testing"
)

const testBase = 0xc0

func newTestUIC() (*UIC, *bool, *bool) {
	u := New("uic", testBase)
	crit := new(bool)
	ext := new(bool)
	u.SetOutputs(func(level bool) { *crit = level }, func(level bool) { *ext = level })
	return u, crit, ext
}

func TestLevelInput(t *testing.T) {
	u, crit, ext := newTestUIC()
	u.SetDCR(testBase+dcrER, bit(3))
	u.Set(3, true)
	u.Clock(1)
	if !*ext {
		t.Error("External interrupt not raised")
	}
	if *crit {
		t.Error("Critical raised for non critical input")
	}
	if v, _ := u.GetDCR(testBase + dcrMSR); v != bit(3) {
		t.Errorf("MSR got: %08x wanted: %08x", v, bit(3))
	}
	u.SetDCR(testBase+dcrSR, bit(3))
	if !*ext {
		t.Error("Level input cleared while still active")
	}
	u.Set(3, false)
	u.SetDCR(testBase+dcrSR, bit(3))
	if *ext {
		t.Error("External interrupt not cleared")
	}
}

func TestEdgeInput(t *testing.T) {
	u, _, ext := newTestUIC()
	u.SetDCR(testBase+dcrTR, bit(0))
	u.SetDCR(testBase+dcrER, bit(0))
	u.Set(0, true)
	u.Clock(1)
	if !*ext {
		t.Fatal("Edge input not latched")
	}
	u.SetDCR(testBase+dcrSR, bit(0))
	if *ext {
		t.Error("Edge input not cleared")
	}
	u.Clock(1)
	if *ext {
		t.Error("Held edge input latched twice")
	}
}

func TestCritical(t *testing.T) {
	u, crit, ext := newTestUIC()
	u.SetDCR(testBase+dcrCR, bit(5)|bit(9))
	u.SetDCR(testBase+dcrER, bit(5)|bit(9))
	u.SetDCR(testBase+dcrVCR, 0x1000)
	u.Set(5, true)
	u.Set(9, true)
	u.Clock(1)
	if !*crit || *ext {
		t.Errorf("Outputs got: crit=%v ext=%v wanted: crit=true ext=false", *crit, *ext)
	}
	if v, _ := u.GetDCR(testBase + dcrVR); v != 0x1000+9*512 {
		t.Errorf("Vector got: %08x wanted: %08x", v, 0x1000+9*512)
	}
	u.SetDCR(testBase+dcrVCR, 0x1001)
	if v, _ := u.GetDCR(testBase + dcrVR); v != 0x1000+5*512 {
		t.Errorf("Vector got: %08x wanted: %08x", v, 0x1000+5*512)
	}
}

func TestPolarity(t *testing.T) {
	u, _, ext := newTestUIC()
	u.SetDCR(testBase+dcrPR, ^bit(7))
	u.SetDCR(testBase+dcrER, bit(7))
	u.Clock(1)
	if !*ext {
		t.Error("Active low input not raised")
	}
	u.Set(7, true)
	u.SetDCR(testBase+dcrSR, bit(7))
	if *ext {
		t.Error("Active low input not released")
	}
}

func TestDCRRange(t *testing.T) {
	u, _, _ := newTestUIC()
	if _, ok := u.GetDCR(testBase - 1); ok {
		t.Error("Register below base claimed")
	}
	if ok := u.SetDCR(testBase+9, 0); ok {
		t.Error("Register above range claimed")
	}
	if ok := u.SetDCR(testBase+1, 0); ok {
		t.Error("Unused register claimed")
	}
}
