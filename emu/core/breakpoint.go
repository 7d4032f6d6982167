/*
 * PCE - Breakpoints
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

package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rcornwell/pce/emu/cpu"
)

var ErrBadAddress = errors.New("bad address")

// Breakpoint matches a linear address or a segment:offset pair.
type Breakpoint struct {
	Addr      uint32
	Seg       uint16
	Segmented bool
	Pass      int  // Hits to ignore before stopping.
	Once      bool // Removed when it stops.
}

func (bp *Breakpoint) String() string {
	s := fmt.Sprintf("%08x", bp.Addr)
	if bp.Segmented {
		s = fmt.Sprintf("%04x:%04x", bp.Seg, bp.Addr)
	}
	if bp.Pass > 0 {
		s += fmt.Sprintf(" pass=%d", bp.Pass)
	}
	if bp.Once {
		s += " once"
	}
	return s
}

func (bp *Breakpoint) match(c cpu.CPU) bool {
	if !bp.Segmented {
		return c.PC() == bp.Addr
	}
	s, ok := c.(cpu.Segmented)
	if !ok {
		return false
	}
	return s.Segment() == bp.Seg && uint32(s.Offset()) == bp.Addr
}

// Parse hex address, either "addr" or "seg:off".
func ParseAddress(text string) (Breakpoint, error) {
	seg, off, found := strings.Cut(strings.TrimSpace(text), ":")
	if !found {
		v, err := strconv.ParseUint(seg, 16, 32)
		if err != nil {
			return Breakpoint{}, fmt.Errorf("%w: %s", ErrBadAddress, text)
		}
		return Breakpoint{Addr: uint32(v)}, nil
	}
	s, err := strconv.ParseUint(seg, 16, 16)
	if err != nil {
		return Breakpoint{}, fmt.Errorf("%w: %s", ErrBadAddress, text)
	}
	o, err := strconv.ParseUint(off, 16, 16)
	if err != nil {
		return Breakpoint{}, fmt.Errorf("%w: %s", ErrBadAddress, text)
	}
	return Breakpoint{Addr: uint32(o), Seg: uint16(s), Segmented: true}, nil
}

// Breakpoints is the set owned by the monitor. One shot breakpoints are
// kept apart so they never replace or remove a permanent one.
type Breakpoints struct {
	list []*Breakpoint
	once []*Breakpoint
}

// Add breakpoint, replacing one at the same address. One shot breakpoints
// are only replaced by another one shot.
func (b *Breakpoints) Add(bp Breakpoint) {
	b.Remove(bp)
	if bp.Once {
		b.once = append(b.once, &bp)
		return
	}
	b.list = append(b.list, &bp)
}

// Remove breakpoint at same address and of the same kind, false if none.
func (b *Breakpoints) Remove(bp Breakpoint) bool {
	list := &b.list
	if bp.Once {
		list = &b.once
	}
	for i, p := range *list {
		if p.Addr == bp.Addr && p.Seg == bp.Seg && p.Segmented == bp.Segmented {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return true
		}
	}
	return false
}

func (b *Breakpoints) Clear() {
	b.list = nil
	b.once = nil
}

func (b *Breakpoints) Len() int {
	return len(b.list) + len(b.once)
}

// Permanent breakpoints followed by one shots.
func (b *Breakpoints) List() []Breakpoint {
	out := make([]Breakpoint, 0, b.Len())
	for _, p := range b.list {
		out = append(out, *p)
	}
	for _, p := range b.once {
		out = append(out, *p)
	}
	return out
}

// Check CPU position against all breakpoints. Returns true if one stops
// the machine, after counting down its passes. Every match is counted, a
// one shot that stops is removed.
func (b *Breakpoints) Check(c cpu.CPU) bool {
	hit := false
	for _, p := range b.list {
		if !p.match(c) {
			continue
		}
		if p.Pass > 0 {
			p.Pass--
			continue
		}
		hit = true
	}
	for i, p := range b.once {
		if p.match(c) {
			b.once = append(b.once[:i], b.once[i+1:]...)
			return true
		}
	}
	return hit
}

// Remove all one shot breakpoints.
func (b *Breakpoints) ClearOnce() {
	b.once = nil
}
