/*
 * PCE - Real time pacing
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
	"log/slog"
	"time"

	"github.com/sarchlab/akita/v4/sim"
)

// Sleep only when ahead by at least this much.
const minSleep = time.Millisecond

// Drift allowed before reference points are reset.
const maxDrift = time.Second

// Pacer keeps simulated time from running ahead of the host clock.
type Pacer struct {
	freq   sim.Freq  // Simulated clock rate.
	speed  float64   // Multiplier, 0 runs unpaced.
	cycles uint64    // Cycles since reference point.
	start  time.Time // Host time at reference point.
	resync int       // Number of forced resynchronizations.

	now   func() time.Time
	sleep func(time.Duration)
}

// Create pacer for a clock rate.
func NewPacer(freq sim.Freq) *Pacer {
	p := &Pacer{
		freq:  freq,
		speed: 1.0,
		now:   time.Now,
		sleep: time.Sleep,
	}
	p.start = p.now()
	return p
}

// Clock rate being paced.
func (p *Pacer) Frequency() sim.Freq {
	return p.freq
}

// Set speed multiplier, zero disables pacing.
func (p *Pacer) SetSpeed(speed float64) {
	if speed < 0 {
		speed = 0
	}
	p.speed = speed
	p.Discontinuity()
}

// Current speed multiplier.
func (p *Pacer) Speed() float64 {
	return p.speed
}

// Number of times drift forced a resync.
func (p *Pacer) Resyncs() int {
	return p.resync
}

// Simulated time since the reference point.
func (p *Pacer) Elapsed() sim.VTimeInSec {
	return sim.VTimeInSec(float64(p.cycles) * float64(p.freq.Period()))
}

// Account for n more cycles, sleeping if simulation is ahead of host.
func (p *Pacer) Sync(n uint64) {
	p.cycles += n
	if p.speed == 0 {
		return
	}

	want := time.Duration(float64(p.Elapsed()) / p.speed * float64(time.Second))
	have := p.now().Sub(p.start)

	if want > have {
		if ahead := want - have; ahead >= minSleep {
			p.sleep(ahead)
		}
		return
	}

	if behind := have - want; behind > maxDrift {
		slog.Warn("Clock drift, resynchronizing", "behind", behind.String())
		p.resync++
		p.Discontinuity()
	}
}

// Pacer at the end of a divider cascade, n is in its own clock ticks.
func (p *Pacer) Clock(n uint64) {
	p.Sync(n)
}

// Forget past timing, used after the machine was stopped.
func (p *Pacer) Discontinuity() {
	p.cycles = 0
	p.start = p.now()
}
