/*
 * PCE - PowerPC 405 register access
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

package ppc405

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rcornwell/pce/emu/cpu"
)

// Pointer to register by name.
func (c *CPU) regPtr(name string) (*uint32, error) {
	switch name {
	case "pc":
		return &c.pc, nil
	case "cr":
		return &c.cr, nil
	case "lr":
		return &c.lr, nil
	case "ctr":
		return &c.ctr, nil
	case "xer":
		return &c.xer, nil
	case "msr":
		return &c.msr, nil
	case "esr":
		return &c.esr, nil
	case "dear":
		return &c.dear, nil
	case "evpr":
		return &c.evpr, nil
	case "pid":
		return &c.pid, nil
	case "zpr":
		return &c.zpr, nil
	case "pit":
		return &c.pit, nil
	case "tcr":
		return &c.tcr, nil
	case "tsr":
		return &c.tsr, nil
	case "pvr":
		return &c.pvr, nil
	}
	for _, p := range []struct {
		prefix string
		regs   []uint32
	}{
		{"srr", c.srr[:]},
		{"sprg", c.sprg[:]},
		{"r", c.gpr[:]},
	} {
		if !strings.HasPrefix(name, p.prefix) {
			continue
		}
		n, err := strconv.Atoi(name[len(p.prefix):])
		if err == nil && n >= 0 && n < len(p.regs) {
			return &p.regs[n], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", cpu.ErrUnknownRegister, name)
}

func (c *CPU) GetReg(name string) (uint32, error) {
	reg, size := cpu.SplitName(name)
	switch reg {
	case "tbl":
		return cpu.Mask(uint32(c.tb), size), nil
	case "tbu":
		return cpu.Mask(uint32(c.tb>>32), size), nil
	}
	p, err := c.regPtr(reg)
	if err != nil {
		return 0, err
	}
	return cpu.Mask(*p, size), nil
}

func (c *CPU) SetReg(name string, val uint32) error {
	reg, size := cpu.SplitName(name)
	switch reg {
	case "tbl":
		c.tb = (c.tb &^ 0xffffffff) | uint64(cpu.Merge(uint32(c.tb), val, size))
		return nil
	case "tbu":
		c.tb = (c.tb & 0xffffffff) | uint64(cpu.Merge(uint32(c.tb>>32), val, size))<<32
		return nil
	case "msr":
		c.setMSR(cpu.Merge(c.msr, val, size))
		return nil
	}
	p, err := c.regPtr(reg)
	if err != nil {
		return err
	}
	*p = cpu.Merge(*p, val, size)
	return nil
}

func (c *CPU) Registers() []cpu.Register {
	regs := make([]cpu.Register, 0, 48)
	for i := range 32 {
		regs = append(regs, cpu.Register{Name: "R" + strconv.Itoa(i), Value: c.gpr[i], Width: 32})
	}
	regs = append(regs,
		cpu.Register{Name: "PC", Value: c.pc, Width: 32},
		cpu.Register{Name: "MSR", Value: c.msr, Width: 32},
		cpu.Register{Name: "CR", Value: c.cr, Width: 32},
		cpu.Register{Name: "LR", Value: c.lr, Width: 32},
		cpu.Register{Name: "CTR", Value: c.ctr, Width: 32},
		cpu.Register{Name: "XER", Value: c.xer, Width: 32},
		cpu.Register{Name: "SRR0", Value: c.srr[0], Width: 32},
		cpu.Register{Name: "SRR1", Value: c.srr[1], Width: 32},
		cpu.Register{Name: "SRR2", Value: c.srr[2], Width: 32},
		cpu.Register{Name: "SRR3", Value: c.srr[3], Width: 32},
		cpu.Register{Name: "ESR", Value: c.esr, Width: 32},
		cpu.Register{Name: "DEAR", Value: c.dear, Width: 32},
		cpu.Register{Name: "EVPR", Value: c.evpr, Width: 32},
		cpu.Register{Name: "PID", Value: c.pid, Width: 8},
		cpu.Register{Name: "TBU", Value: uint32(c.tb >> 32), Width: 32},
		cpu.Register{Name: "TBL", Value: uint32(c.tb), Width: 32},
		cpu.Register{Name: "PIT", Value: c.pit, Width: 32},
		cpu.Register{Name: "TCR", Value: c.tcr, Width: 32},
		cpu.Register{Name: "TSR", Value: c.tsr, Width: 32})
	return regs
}
