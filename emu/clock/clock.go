/*
 * PCE - Clock dividers and break flag
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

package clock

import (
	"sync/atomic"
)

/*
   Machines run a cascade of dividers off the CPU cycle count. A divider
   accumulates ticks from the level below and reports how many times its
   threshold was crossed, the remainder is carried to the next call. Nothing
   below a level runs faster than the level that feeds it.

       cpu cycles -> /4 -> timer ticks -> /8 -> keyboard ...
*/

// Divider counts ticks and reports threshold crossings.
type Divider struct {
	Name   string
	Period uint64 // Threshold, ticks per output tick.
	count  uint64 // Accumulated ticks.
	total  uint64 // Output ticks since reset.
}

// Create a new divider, period of zero is treated as one.
func NewDivider(name string, period uint64) *Divider {
	if period == 0 {
		period = 1
	}
	return &Divider{Name: name, Period: period}
}

// Add n input ticks and return number of output ticks.
func (div *Divider) Add(n uint64) uint64 {
	div.count += n
	if div.count < div.Period {
		return 0
	}
	out := div.count / div.Period
	div.count %= div.Period
	div.total += out
	return out
}

// Ticks accumulated toward the next output tick.
func (div *Divider) Count() uint64 {
	return div.count
}

// Output ticks since last reset.
func (div *Divider) Total() uint64 {
	return div.total
}

// Reset divider.
func (div *Divider) Reset() {
	div.count = 0
	div.total = 0
}

// Reason for stopping the run loop.
type Reason int32

const (
	None  Reason = iota // Keep running.
	Point               // Breakpoint reached.
	Halt                // Machine stopped itself.
	Stop                // Stop requested by user.
	Abort               // Quit emulator.
)

func (r Reason) String() string {
	switch r {
	case None:
		return "none"
	case Stop:
		return "stop"
	case Abort:
		return "abort"
	case Halt:
		return "halt"
	case Point:
		return "breakpoint"
	}
	return "unknown"
}

// Break is polled by the run loop and set from any goroutine.
type Break struct {
	reason atomic.Int32
}

// Request a stop. A pending reason is only replaced by a stronger one.
func (b *Break) Set(r Reason) {
	for {
		cur := b.reason.Load()
		if Reason(cur) >= r {
			return
		}
		if b.reason.CompareAndSwap(cur, int32(r)) {
			return
		}
	}
}

// Current reason, None if running.
func (b *Break) Get() Reason {
	return Reason(b.reason.Load())
}

// Clear flag and return what was set.
func (b *Break) Clear() Reason {
	return Reason(b.reason.Swap(int32(None)))
}
