/*
 * PCE - Memory, register and show commands.
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
	"slices"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rcornwell/pce/command/command"
	"github.com/rcornwell/pce/emu/core"
	"github.com/rcornwell/pce/emu/cpu"
	"github.com/rcornwell/pce/emu/device"
	"github.com/rcornwell/pce/emu/memory"
	"github.com/rcornwell/pce/util/hex"
)

const (
	dumpDefault = 128
	unasmLines  = 16
	regColumns  = 4
)

// Read address, seg:off is converted to a linear address.
func (line *cmdLine) getAddress() (uint32, error) {
	if line.atEnd() {
		return 0, errors.New("address expected")
	}
	bp, err := core.ParseAddress(line.getToken())
	if err != nil {
		return 0, err
	}
	if bp.Segmented {
		return (uint32(bp.Seg)<<4 + bp.Addr) & 0xfffff, nil
	}
	return bp.Addr, nil
}

// Handle r command.
func registers(line *cmdLine, s *command.Session) (bool, error) {
	slog.Debug("Command Registers")
	c := s.Machine().CPU()
	if line.atEnd() {
		printRegisters(s)
		return false, nil
	}
	name := strings.ToLower(line.getToken())
	if line.atEnd() {
		v, err := c.GetReg(name)
		if err != nil {
			return false, err
		}
		s.Printf("%s = %x\n", name, v)
		return false, nil
	}
	v, err := parseHex(line.getToken())
	if err != nil {
		return false, err
	}
	if !line.atEnd() {
		return false, errExtra
	}
	if err := c.SetReg(name, v); err != nil {
		return false, err
	}
	if name == "pc" || name == "ip" || name == "cs" {
		s.Moved()
	}
	return false, nil
}

func printRegisters(s *command.Session) {
	c := s.Machine().CPU()
	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("%s %s", c.Model(), c.State()))
	row := table.Row{}
	for _, r := range c.Registers() {
		var str strings.Builder
		hex.FormatValue(&str, r.Value, (r.Width+3)/4)
		row = append(row, r.Name, str.String())
		if len(row) == 2*regColumns {
			t.AppendRow(row)
			row = table.Row{}
		}
	}
	if len(row) != 0 {
		t.AppendRow(row)
	}
	s.Printf("%s\n", t.Render())
}

// Handle d command.
func dump(line *cmdLine, s *command.Session) (bool, error) {
	slog.Debug("Command Dump")
	addr := s.NextDump()
	if !line.atEnd() {
		var err error
		if addr, err = line.getAddress(); err != nil {
			return false, err
		}
	}
	n, err := line.getCount(dumpDefault)
	if err != nil {
		return false, err
	}
	mem := s.Machine().Memory()
	data := make([]byte, n)
	for i := range data {
		data[i] = mem.GetUint8(addr + uint32(i))
	}
	var str strings.Builder
	hex.Dump(&str, addr, 8, data)
	s.Printf("%s", str.String())
	s.SetNextDump(addr + n)
	return false, nil
}

// Handle e command.
func enter(line *cmdLine, s *command.Session) (bool, error) {
	slog.Debug("Command Enter")
	addr, err := line.getAddress()
	if err != nil {
		return false, err
	}
	var data []byte
	for !line.atEnd() {
		v, err := parseHex(line.getToken())
		if err != nil {
			return false, err
		}
		if v > 0xff {
			return false, fmt.Errorf("byte out of range: %x", v)
		}
		data = append(data, byte(v))
	}
	if len(data) == 0 {
		return false, errors.New("no bytes given")
	}
	mem := s.Machine().Memory()
	for i, by := range data {
		mem.SetUint8(addr+uint32(i), by)
	}
	s.Moved()
	return false, nil
}

// Handle u command.
func unassemble(line *cmdLine, s *command.Session) (bool, error) {
	slog.Debug("Command Unassemble")
	addr := s.NextUnassemble()
	if !line.atEnd() {
		var err error
		if addr, err = line.getAddress(); err != nil {
			return false, err
		}
	}
	n, err := line.getCount(unasmLines)
	if err != nil {
		return false, err
	}
	c := s.Machine().CPU()
	for range n {
		text, size := c.Disassemble(addr)
		s.Printf("%08x  %s\n", addr, text)
		if size == 0 {
			size = 1
		}
		addr += size
	}
	s.SetNextUnassemble(addr)
	return false, nil
}

type shower interface {
	Show() string
}

type cascader interface {
	ShowCascade() string
}

// Handle s command.
func show(line *cmdLine, s *command.Session) (bool, error) {
	slog.Debug("Command Show")
	m := s.Machine()
	what := line.getToken()
	if !line.atEnd() {
		return false, errExtra
	}
	switch strings.ToLower(what) {
	case "":
		if sh, ok := m.(shower); ok {
			s.Printf("%s\n", sh.Show())
		}
		showCascade(s)
		s.Printf("speed %g, %d Hz\n", m.Pacer().Speed(), uint64(m.Pacer().Frequency()))
	case "cpu":
		c := m.CPU()
		s.Printf("%s %s cycles %d\n", c.Model(), c.State(), c.Cycles())
		if err := c.Fault(); err != nil {
			s.Printf("fault: %v\n", err)
		}
	case "mem":
		showMap(s, m.Memory())
	case "io":
		if m.Ports() == nil {
			return false, errors.New("no separate I/O space")
		}
		showMap(s, m.Ports())
	case "cascade":
		showCascade(s)
	default:
		dev := findDevice(m, what)
		if dev == nil {
			return false, errors.New("no device: " + what)
		}
		s.Printf("%s\n", dev.Show())
	}
	return false, nil
}

func showCascade(s *command.Session) {
	if c, ok := s.Machine().(cascader); ok {
		s.Printf("%s", c.ShowCascade())
	}
}

func showMap(s *command.Session, mem *memory.Map) {
	t := table.NewWriter()
	t.SetTitle(mem.Name)
	t.AppendHeader(table.Row{"Name", "Start", "End", "Size", "Type"})
	for _, blk := range mem.Blocks() {
		kind := "ram"
		switch {
		case blk.Data == nil:
			kind = "io"
		case blk.ReadOnly:
			kind = "rom"
		}
		t.AppendRow(table.Row{blk.Name, fmt.Sprintf("%08x", blk.Addr),
			fmt.Sprintf("%08x", blk.End()), fmt.Sprintf("%x", blk.Size), kind})
	}
	s.Printf("%s\n", t.Render())
}

func findDevice(m core.Machine, name string) device.Device {
	for _, dev := range m.Devices() {
		if strings.EqualFold(dev.Name(), name) {
			return dev
		}
	}
	return nil
}

func deviceNames(m core.Machine) []string {
	names := []string{"cpu", "mem", "io", "cascade"}
	for _, dev := range m.Devices() {
		names = append(names, strings.ToLower(dev.Name()))
	}
	slices.Sort(names)
	return names
}

func registerNames(c cpu.CPU) []string {
	names := []string{}
	for _, r := range c.Registers() {
		names = append(names, strings.ToLower(r.Name))
	}
	return names
}
