/*
 * PCE - 6502 register access
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

package e6502

import (
	"fmt"

	"github.com/rcornwell/pce/emu/cpu"
)

func (c *CPU) reg8(name string) *uint8 {
	switch name {
	case "a":
		return &c.a
	case "x":
		return &c.x
	case "y":
		return &c.y
	case "s", "sp":
		return &c.s
	case "p", "psw":
		return &c.p
	}
	return nil
}

func (c *CPU) GetReg(name string) (uint32, error) {
	reg, size := cpu.SplitName(name)
	if reg == "pc" {
		return cpu.Mask(uint32(c.pc), size), nil
	}
	if r := c.reg8(reg); r != nil {
		return uint32(*r), nil
	}
	return 0, fmt.Errorf("%w: %s", cpu.ErrUnknownRegister, name)
}

func (c *CPU) SetReg(name string, val uint32) error {
	reg, size := cpu.SplitName(name)
	if reg == "pc" {
		c.pc = uint16(cpu.Merge(uint32(c.pc), val, size))
		return nil
	}
	r := c.reg8(reg)
	if r == nil {
		return fmt.Errorf("%w: %s", cpu.ErrUnknownRegister, name)
	}
	*r = uint8(val)
	if reg == "p" || reg == "psw" {
		*r |= flagU
	}
	return nil
}

func (c *CPU) Registers() []cpu.Register {
	return []cpu.Register{
		{Name: "PC", Value: uint32(c.pc), Width: 16},
		{Name: "A", Value: uint32(c.a), Width: 8},
		{Name: "X", Value: uint32(c.x), Width: 8},
		{Name: "Y", Value: uint32(c.y), Width: 8},
		{Name: "S", Value: uint32(c.s), Width: 8},
		{Name: "P", Value: uint32(c.p), Width: 8},
	}
}

// Status flags as letters, lower case when clear.
func (c *CPU) Flags() string {
	const names = "NV-BDIZC"
	b := []byte(names)
	for i := range 8 {
		if c.p&(0x80>>i) == 0 && b[i] != '-' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}
