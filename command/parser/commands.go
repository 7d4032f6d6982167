/*
 * PCE - Run control commands.
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

package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rcornwell/pce/command/command"
	"github.com/rcornwell/pce/emu/clock"
	"github.com/rcornwell/pce/emu/core"
)

var cmdList []cmd

func init() {
	cmdList = []cmd{
		{Name: "t", Min: 1, Args: "[n]", Help: "execute n instructions", Process: trace},
		{Name: "p", Min: 1, Args: "[n]", Help: "execute n instructions, stepping over calls", Process: proceed},
		{Name: "g", Min: 1, Args: "[b addr...]", Help: "run, optionally until one of the addresses", Process: run},
		{Name: "gb", Min: 2, Args: "addr...", Help: "run until one of the addresses", Process: runTo},
		{Name: "c", Min: 1, Args: "[n]", Help: "clock n cycles", Process: clockCycles},
		{Name: "r", Min: 1, Args: "[reg [val]]", Help: "show or set registers", Process: registers, Complete: regComplete},
		{Name: "s", Min: 1, Args: "[cpu|mem|io|cascade|device]", Help: "show state", Process: show, Complete: showComplete},
		{Name: "b", Min: 1, Args: "l | a addr [pass] | c addr | clear", Help: "list, add and clear breakpoints",
			Process: breakpoint, Complete: bpComplete},
		{Name: "u", Min: 1, Args: "[addr [n]]", Help: "unassemble n instructions", Process: unassemble},
		{Name: "d", Min: 1, Args: "[addr [n]]", Help: "dump n bytes of memory", Process: dump},
		{Name: "e", Min: 1, Args: "addr bytes...", Help: "enter bytes into memory", Process: enter},
		{Name: "trace", Min: 2, Args: "on|off", Help: "log every instruction to the debug file", Process: traceMode,
			Complete: traceComplete},
		{Name: "reset", Min: 5, Help: "reset the machine", Process: reset},
		{Name: "help", Min: 1, Help: "list commands", Process: help},
		{Name: "quit", Min: 1, Help: "leave the monitor", Process: quit},
	}
}

// Print stop reason unless the machine just ran out of cycles.
func report(s *command.Session, r clock.Reason) {
	if r != clock.None {
		s.Printf("%s\n", r)
	}
	m := s.Machine()
	if m.CPU().Fault() != nil {
		s.Printf("cpu stopped: %v\n", m.CPU().Fault())
	}
	showNext(s)
}

// Print next instruction.
func showNext(s *command.Session) {
	c := s.Machine().CPU()
	text, _ := c.Disassemble(c.PC())
	s.Printf("%08x  %s\n", c.PC(), text)
	s.Moved()
}

// Handle t command.
func trace(line *cmdLine, s *command.Session) (bool, error) {
	slog.Debug("Command Trace")
	n, err := line.getCount(1)
	if err != nil {
		return false, err
	}
	m := s.Machine()
	for range n {
		showNext(s)
		s.Core.Step(1)
		if m.Break().Get() >= clock.Halt {
			break
		}
	}
	printRegisters(s)
	report(s, m.Break().Clear())
	return false, nil
}

// Handle p command.
func proceed(line *cmdLine, s *command.Session) (bool, error) {
	slog.Debug("Command Proceed")
	n, err := line.getCount(1)
	if err != nil {
		return false, err
	}
	r := clock.None
	for range n {
		r = s.Core.StepOver()
		if r == clock.None {
			r = s.Machine().Break().Clear()
		}
		if r != clock.None && r != clock.Point {
			break
		}
	}
	if r == clock.Point {
		r = clock.None
	}
	printRegisters(s)
	report(s, r)
	return false, nil
}

// Read list of addresses for temporary breakpoints.
func (line *cmdLine) getAddresses() ([]core.Breakpoint, error) {
	var bps []core.Breakpoint
	for !line.atEnd() {
		bp, err := core.ParseAddress(line.getToken())
		if err != nil {
			return nil, err
		}
		bp.Once = true
		bps = append(bps, bp)
	}
	return bps, nil
}

// Run with temporary breakpoints, removed again when stopped.
func runUntil(s *command.Session, bps []core.Breakpoint) {
	list := s.Core.Breakpoints()
	for _, bp := range bps {
		list.Add(bp)
	}
	r := s.Core.Run()
	list.ClearOnce()
	report(s, r)
}

// Handle g command.
func run(line *cmdLine, s *command.Session) (bool, error) {
	slog.Debug("Command Go")
	if line.atEnd() {
		runUntil(s, nil)
		return false, nil
	}
	if line.getWord() != "b" {
		return false, errors.New("g takes b and a list of addresses")
	}
	return runTo(line, s)
}

// Handle gb command.
func runTo(line *cmdLine, s *command.Session) (bool, error) {
	slog.Debug("Command Go Break")
	bps, err := line.getAddresses()
	if err != nil {
		return false, err
	}
	if len(bps) == 0 {
		return false, errors.New("no address given")
	}
	runUntil(s, bps)
	return false, nil
}

// Handle c command.
func clockCycles(line *cmdLine, s *command.Session) (bool, error) {
	slog.Debug("Command Clock")
	n, err := line.getCount(1)
	if err != nil {
		return false, err
	}
	report(s, s.Core.Clock(uint64(n)))
	return false, nil
}

// Handle b command.
func breakpoint(line *cmdLine, s *command.Session) (bool, error) {
	slog.Debug("Command Breakpoint")
	list := s.Core.Breakpoints()
	switch line.getWord() {
	case "", "l":
		printBreakpoints(s)
	case "a":
		bp, err := core.ParseAddress(line.getToken())
		if err != nil {
			return false, err
		}
		if !line.atEnd() {
			pass, err := line.getNumber()
			if err != nil {
				return false, errors.New("pass count must be a decimal number")
			}
			bp.Pass = int(pass)
		}
		list.Add(bp)
	case "c":
		bp, err := core.ParseAddress(line.getToken())
		if err != nil {
			return false, err
		}
		if !list.Remove(bp) {
			return false, fmt.Errorf("no breakpoint at %s", bp.String())
		}
	case "clear":
		list.Clear()
	default:
		return false, errors.New("b takes l, a, c or clear")
	}
	if !line.atEnd() {
		return false, errExtra
	}
	return false, nil
}

func printBreakpoints(s *command.Session) {
	bps := s.Core.Breakpoints().List()
	if len(bps) == 0 {
		s.Printf("no breakpoints\n")
		return
	}
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Address", "Pass"})
	for i, bp := range bps {
		addr, _, _ := strings.Cut(bp.String(), " ")
		t.AppendRow(table.Row{i, addr, bp.Pass})
	}
	s.Printf("%s\n", t.Render())
}

// Handle trace command.
func traceMode(line *cmdLine, s *command.Session) (bool, error) {
	slog.Debug("Command Trace Mode")
	switch line.getWord() {
	case "on":
		s.Core.SetTrace(true)
	case "off":
		s.Core.SetTrace(false)
	case "":
		s.Printf("trace %s\n", onOff(s.Core.Tracing()))
	default:
		return false, errors.New("trace takes on or off")
	}
	return false, nil
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

// Handle reset command.
func reset(line *cmdLine, s *command.Session) (bool, error) {
	slog.Debug("Command Reset")
	if !line.atEnd() {
		return false, errExtra
	}
	s.Machine().Reset()
	s.Machine().Break().Clear()
	showNext(s)
	return false, nil
}

// Handle help command.
func help(_ *cmdLine, s *command.Session) (bool, error) {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Command", "Arguments", "Description"})
	for _, c := range cmdList {
		t.AppendRow(table.Row{c.Name, c.Args, c.Help})
	}
	s.Printf("%s\n", t.Render())
	s.Printf("Counts are decimal, addresses and values hex, seg:off allowed for breakpoints.\n")
	return false, nil
}

// Handle commands that quit simulation.
func quit(_ *cmdLine, _ *command.Session) (bool, error) {
	slog.Debug("Command Quit")
	return true, nil
}

// Parse hex value from text.
func parseHex(text string) (uint32, error) {
	v, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(text), "0x"), 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", errNoNumber, text)
	}
	return uint32(v), nil
}
