/*
 * PCE - Monitor session state
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

package command

import (
	"fmt"
	"io"

	"github.com/rcornwell/pce/emu/core"
)

// Session is the monitor state kept between commands.
type Session struct {
	Core *core.Core
	Out  io.Writer

	nextU  uint32 // Next address to unassemble.
	nextD  uint32 // Next address to dump.
	validU bool
	validD bool
}

func NewSession(c *core.Core, out io.Writer) *Session {
	return &Session{Core: c, Out: out}
}

func (s *Session) Machine() core.Machine {
	return s.Core.Machine()
}

func (s *Session) Printf(format string, a ...any) {
	fmt.Fprintf(s.Out, format, a...)
}

// Forget listing positions, the next u starts at the PC again.
func (s *Session) Moved() {
	s.validU = false
}

// Address for u without argument.
func (s *Session) NextUnassemble() uint32 {
	if s.validU {
		return s.nextU
	}
	return s.Machine().CPU().PC()
}

func (s *Session) SetNextUnassemble(addr uint32) {
	s.nextU = addr
	s.validU = true
}

// Address for d without argument.
func (s *Session) NextDump() uint32 {
	if s.validD {
		return s.nextD
	}
	return s.Machine().CPU().PC()
}

func (s *Session) SetNextDump(addr uint32) {
	s.nextD = addr
	s.validD = true
}
