/*
 * PCE - 68000 register access
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

package e68000

import (
	"fmt"
	"strconv"

	"github.com/rcornwell/pce/emu/cpu"
)

// Read register by name, with optional .b, .w or .l suffix.
func (c *CPU) GetReg(name string) (uint32, error) {
	reg, size := cpu.SplitName(name)
	var v uint32
	switch reg {
	case "pc":
		v = c.pc
	case "sr":
		v = uint32(c.sr)
	case "ccr":
		v = uint32(c.sr & ccrMask)
	case "sp":
		v = c.a[7]
	case "usp":
		if c.super() {
			v = c.usp
		} else {
			v = c.a[7]
		}
	case "ssp":
		if c.super() {
			v = c.a[7]
		} else {
			v = c.ssp
		}
	default:
		p, err := c.regPtr(reg)
		if err != nil {
			return 0, err
		}
		v = *p
	}
	return cpu.Mask(v, size), nil
}

// Set register by name, a size suffix only replaces the low bytes.
func (c *CPU) SetReg(name string, val uint32) error {
	reg, size := cpu.SplitName(name)
	switch reg {
	case "pc":
		c.pc = cpu.Merge(c.pc, val, size) & addrMask
	case "sr":
		c.setSR(uint16(cpu.Merge(uint32(c.sr), val, size)))
	case "ccr":
		c.sr = (c.sr &^ ccrMask) | (uint16(val) & ccrMask)
	case "sp":
		c.a[7] = cpu.Merge(c.a[7], val, size)
	case "usp":
		if c.super() {
			c.usp = cpu.Merge(c.usp, val, size)
		} else {
			c.a[7] = cpu.Merge(c.a[7], val, size)
		}
	case "ssp":
		if c.super() {
			c.a[7] = cpu.Merge(c.a[7], val, size)
		} else {
			c.ssp = cpu.Merge(c.ssp, val, size)
		}
	default:
		p, err := c.regPtr(reg)
		if err != nil {
			return err
		}
		*p = cpu.Merge(*p, val, size)
	}
	return nil
}

// Pointer to numbered data or address register.
func (c *CPU) regPtr(reg string) (*uint32, error) {
	if len(reg) != 2 {
		return nil, fmt.Errorf("%w: %s", cpu.ErrUnknownRegister, reg)
	}
	n, err := strconv.Atoi(reg[1:])
	if err != nil || n > 7 {
		return nil, fmt.Errorf("%w: %s", cpu.ErrUnknownRegister, reg)
	}
	switch reg[0] {
	case 'd':
		return &c.d[n], nil
	case 'a':
		return &c.a[n], nil
	}
	return nil, fmt.Errorf("%w: %s", cpu.ErrUnknownRegister, reg)
}

// All registers for display.
func (c *CPU) Registers() []cpu.Register {
	regs := make([]cpu.Register, 0, 20)
	for i := range 8 {
		regs = append(regs, cpu.Register{Name: "D" + strconv.Itoa(i), Value: c.d[i], Width: 32})
	}
	for i := range 8 {
		regs = append(regs, cpu.Register{Name: "A" + strconv.Itoa(i), Value: c.a[i], Width: 32})
	}
	usp, _ := c.GetReg("usp")
	ssp, _ := c.GetReg("ssp")
	regs = append(regs,
		cpu.Register{Name: "PC", Value: c.pc, Width: 24},
		cpu.Register{Name: "SR", Value: uint32(c.sr), Width: 16},
		cpu.Register{Name: "USP", Value: usp, Width: 32},
		cpu.Register{Name: "SSP", Value: ssp, Width: 32})
	return regs
}
