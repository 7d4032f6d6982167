/*
 * PCE - 8086 register access
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

package e8086

import (
	"fmt"
	"strings"

	"github.com/rcornwell/pce/emu/cpu"
)

var (
	regNames  = [8]string{"ax", "cx", "dx", "bx", "sp", "bp", "si", "di"}
	reg8Names = [8]string{"al", "cl", "dl", "bl", "ah", "ch", "dh", "bh"}
	segNames  = [4]string{"es", "cs", "ss", "ds"}
)

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

func (c *CPU) reg16(name string) *uint16 {
	if i := indexOf(regNames[:], name); i >= 0 {
		return &c.regs[i]
	}
	if i := indexOf(segNames[:], name); i >= 0 {
		return &c.sregs[i]
	}
	switch name {
	case "ip":
		return &c.ip
	case "flags", "fl":
		return &c.flags
	}
	return nil
}

func (c *CPU) GetReg(name string) (uint32, error) {
	reg, size := cpu.SplitName(name)
	if i := indexOf(reg8Names[:], reg); i >= 0 {
		return uint32(c.getReg8(uint8(i))), nil
	}
	if reg == "pc" {
		return c.PC(), nil
	}
	r := c.reg16(reg)
	if r == nil {
		return 0, fmt.Errorf("%w: %s", cpu.ErrUnknownRegister, name)
	}
	return cpu.Mask(uint32(*r), size), nil
}

func (c *CPU) SetReg(name string, val uint32) error {
	reg, size := cpu.SplitName(name)
	if i := indexOf(reg8Names[:], reg); i >= 0 {
		c.setReg8(uint8(i), uint8(val))
		return nil
	}
	r := c.reg16(reg)
	if r == nil {
		return fmt.Errorf("%w: %s", cpu.ErrUnknownRegister, name)
	}
	*r = uint16(cpu.Merge(uint32(*r), val, size))
	if r == &c.flags {
		c.flags &= flagMask
	}
	return nil
}

func (c *CPU) Registers() []cpu.Register {
	regs := make([]cpu.Register, 0, 14)
	for i, n := range regNames {
		regs = append(regs, cpu.Register{Name: strings.ToUpper(n), Value: uint32(c.regs[i]), Width: 16})
	}
	for i, n := range segNames {
		regs = append(regs, cpu.Register{Name: strings.ToUpper(n), Value: uint32(c.sregs[i]), Width: 16})
	}
	regs = append(regs,
		cpu.Register{Name: "IP", Value: uint32(c.ip), Width: 16},
		cpu.Register{Name: "FLAGS", Value: uint32(c.flags), Width: 16})
	return regs
}

// Status flags as letters, lower case when clear.
func (c *CPU) Flags() string {
	const names = "ODITSZAPC"
	bit := [9]uint16{flagOF, flagDF, flagIF, flagTF, flagSF, flagZF, flagAF, flagPF, flagCF}
	b := []byte(names)
	for i, f := range bit {
		if c.flags&f == 0 {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}
