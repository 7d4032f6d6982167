/*
 * PCE - 68000 disassembler
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
	"strings"
)

type disasm struct {
	c    *CPU
	addr uint32
	ir   uint16
}

func (d *disasm) word() uint16 {
	w := d.c.mem.GetUint16(d.addr & addrMask)
	d.addr += 2
	return w
}

func (d *disasm) long() uint32 {
	hi := d.word()
	return uint32(hi)<<16 | uint32(d.word())
}

func sizeSuffix(size int) string {
	switch size {
	case 1:
		return ".b"
	case 2:
		return ".w"
	case 4:
		return ".l"
	}
	return ""
}

func hexImm(v uint32) string {
	return fmt.Sprintf("#$%X", v)
}

// Format index extension word.
func (d *disasm) index(base string) string {
	ext := d.word()
	kind := "D"
	if ext&0x8000 != 0 {
		kind = "A"
	}
	sz := ".W"
	if ext&0x0800 != 0 {
		sz = ".L"
	}
	return fmt.Sprintf("%d(%s,%s%d%s)", int8(ext), base, kind, (ext>>12)&7, sz)
}

// Format effective address.
func (d *disasm) ea(mode, reg uint8, size int) string {
	switch mode {
	case 0:
		return fmt.Sprintf("D%d", reg)
	case 1:
		return fmt.Sprintf("A%d", reg)
	case 2:
		return fmt.Sprintf("(A%d)", reg)
	case 3:
		return fmt.Sprintf("(A%d)+", reg)
	case 4:
		return fmt.Sprintf("-(A%d)", reg)
	case 5:
		return fmt.Sprintf("%d(A%d)", int16(d.word()), reg)
	case 6:
		return d.index(fmt.Sprintf("A%d", reg))
	}
	switch reg {
	case 0:
		return fmt.Sprintf("$%04X.W", d.word())
	case 1:
		return fmt.Sprintf("$%08X", d.long())
	case 2:
		base := d.addr
		disp := int16(d.word())
		return fmt.Sprintf("$%06X(PC)", (base+uint32(int32(disp)))&addrMask)
	case 3:
		return d.index("PC")
	case 4:
		if size == 4 {
			return hexImm(d.long())
		}
		return hexImm(uint32(d.word()) & sizeMask(size))
	}
	return "?"
}

// Low six bits of ir.
func (d *disasm) srcEA(size int) string {
	return d.ea(uint8(d.ir>>3)&7, uint8(d.ir)&7, size)
}

// Register list of MOVEM, reversed for predecrement.
func movemList(mask uint16, reverse bool) string {
	var regs []string
	for i := range 16 {
		bit := i
		if reverse {
			bit = 15 - i
		}
		if mask&(1<<bit) == 0 {
			continue
		}
		if i < 8 {
			regs = append(regs, fmt.Sprintf("D%d", i))
		} else {
			regs = append(regs, fmt.Sprintf("A%d", i-8))
		}
	}
	return strings.Join(regs, "/")
}

// Disassemble instruction at addr, returns text and length in bytes.
func (c *CPU) Disassemble(addr uint32) (string, uint32) {
	d := &disasm{c: c, addr: addr}
	d.ir = d.word()
	e := &c.table[d.ir>>6]
	text := d.format(e)
	return text, d.addr - addr
}

func (d *disasm) format(e *opEntry) string {
	ir := d.ir
	mode := (ir >> 3) & 7
	rx := (ir >> 9) & 7
	ry := ir & 7
	sfx := sizeSuffix(e.size)

	switch e.form {
	case fEA:
		switch {
		case e.name[0] == 's' && e.name != "swap" && mode == 1 && ir>>12 == 5:
			base := d.addr
			disp := int16(d.word())
			return fmt.Sprintf("db%s D%d,$%06X", condNames[(ir>>8)&0xf], ry, (base+uint32(int32(disp)))&addrMask)
		case e.name == "pea" && mode == 0:
			return fmt.Sprintf("swap D%d", ry)
		case ir == 0x4afc:
			return "illegal"
		case e.name == "pea", e.name == "jmp", e.name == "jsr", e.name == "tas", e.name == "nbcd", e.name[0] == 's':
			return e.name + " " + d.srcEA(e.size)
		case ir>>12 == 0xe:
			dir := "r"
			if ir&0x100 != 0 {
				dir = "l"
			}
			return e.name + dir + " " + d.srcEA(2)
		}
		return e.name + sfx + " " + d.srcEA(e.size)
	case fImmEA:
		var imm uint32
		if e.size == 4 {
			imm = d.long()
		} else {
			imm = uint32(d.word()) & sizeMask(e.size)
		}
		if ir&0x3f == 0x3c && e.name != "subi" && e.name != "addi" && e.name != "cmpi" {
			if e.size == 1 {
				return fmt.Sprintf("%s %s,CCR", e.name, hexImm(imm))
			}
			return fmt.Sprintf("%s %s,SR", e.name, hexImm(imm))
		}
		return fmt.Sprintf("%s%s %s,%s", e.name, sfx, hexImm(imm), d.srcEA(e.size))
	case fMove:
		src := d.srcEA(e.size)
		dst := d.ea(uint8(ir>>6)&7, uint8(rx), e.size)
		return fmt.Sprintf("%s%s %s,%s", e.name, sfx, src, dst)
	case fEADn:
		return fmt.Sprintf("%s%s %s,D%d", e.name, sfx, d.srcEA(e.size), rx)
	case fEAAn:
		return fmt.Sprintf("%s%s %s,A%d", e.name, sfx, d.srcEA(e.size), rx)
	case fDnEA:
		return d.formatDnEA(e, sfx)
	case fQuick:
		q := rx
		if q == 0 {
			q = 8
		}
		return fmt.Sprintf("%s%s #%d,%s", e.name, sfx, q, d.srcEA(e.size))
	case fBranch:
		base := d.addr
		disp := uint32(int32(int8(ir)))
		if disp == 0 {
			disp = uint32(int32(int16(d.word())))
		}
		return fmt.Sprintf("%s $%06X", e.name, (base+disp)&addrMask)
	case fMoveq:
		return fmt.Sprintf("moveq #%d,D%d", int8(ir), rx)
	case fShiftReg:
		dir := "r"
		if ir&0x100 != 0 {
			dir = "l"
		}
		name := shiftNames[(ir>>3)&3] + dir + sfx
		if ir&0x20 != 0 {
			return fmt.Sprintf("%s D%d,D%d", name, rx, ry)
		}
		cnt := rx
		if cnt == 0 {
			cnt = 8
		}
		return fmt.Sprintf("%s #%d,D%d", name, cnt, ry)
	case fMovemOut:
		if mode == 0 {
			return fmt.Sprintf("ext%s D%d", sfx, ry)
		}
		mask := d.word()
		return fmt.Sprintf("movem%s %s,%s", sfx, movemList(mask, mode == 4), d.srcEA(e.size))
	case fMovemIn:
		mask := d.word()
		return fmt.Sprintf("movem%s %s,%s", sfx, d.srcEA(e.size), movemList(mask, false))
	case fBitImm:
		bit := d.word()
		return fmt.Sprintf("%s #%d,%s", e.name, bit&0xff, d.srcEA(1))
	case fFromSR:
		return "move SR," + d.srcEA(2)
	case fToCCR:
		return "move " + d.srcEA(2) + ",CCR"
	case fToSR:
		return "move " + d.srcEA(2) + ",SR"
	}

	if e.name == "misc" {
		return d.formatMisc()
	}
	if e.name == "linea" || e.name == "linef" {
		if ir == hookOpcode {
			return fmt.Sprintf("hook $%04X", d.word())
		}
		return fmt.Sprintf("%s $%04X", e.name, ir)
	}
	return fmt.Sprintf("dc.w $%04X", ir)
}

// Forms with a data register source, several share encodings with
// register to register instructions.
func (d *disasm) formatDnEA(e *opEntry, sfx string) string {
	ir := d.ir
	mode := (ir >> 3) & 7
	om := (ir >> 6) & 7
	rx := (ir >> 9) & 7
	ry := ir & 7
	if e.name == "btst" || e.name == "bchg" || e.name == "bclr" || e.name == "bset" {
		if mode == 1 {
			disp := int16(d.word())
			size := ".w"
			if ir&0x40 != 0 {
				size = ".l"
			}
			if ir&0x80 != 0 {
				return fmt.Sprintf("movep%s D%d,%d(A%d)", size, rx, disp, ry)
			}
			return fmt.Sprintf("movep%s %d(A%d),D%d", size, disp, ry, rx)
		}
		return fmt.Sprintf("%s D%d,%s", e.name, rx, d.srcEA(1))
	}
	switch e.alt {
	case "exg":
		switch {
		case om == 5 && mode == 0:
			return fmt.Sprintf("exg D%d,D%d", rx, ry)
		case om == 5 && mode == 1:
			return fmt.Sprintf("exg A%d,A%d", rx, ry)
		case om == 6 && mode == 1:
			return fmt.Sprintf("exg D%d,A%d", rx, ry)
		}
	case "cmpm":
		if mode == 1 {
			return fmt.Sprintf("cmpm%s (A%d)+,(A%d)+", sfx, ry, rx)
		}
	case "":
	default:
		if mode == 0 {
			return fmt.Sprintf("%s%s D%d,D%d", e.alt, sfx, ry, rx)
		}
		if mode == 1 {
			return fmt.Sprintf("%s%s -(A%d),-(A%d)", e.alt, sfx, ry, rx)
		}
	}
	return fmt.Sprintf("%s%s D%d,%s", e.name, sfx, rx, d.srcEA(e.size))
}

func (d *disasm) formatMisc() string {
	ir := d.ir
	low := ir & 0x3f
	reg := ir & 7
	switch {
	case low < 0x10:
		return fmt.Sprintf("trap #%d", low)
	case low < 0x18:
		return fmt.Sprintf("link A%d,#%d", reg, int16(d.word()))
	case low < 0x20:
		return fmt.Sprintf("unlk A%d", reg)
	case low < 0x28:
		return fmt.Sprintf("move A%d,USP", reg)
	case low < 0x30:
		return fmt.Sprintf("move USP,A%d", reg)
	}
	switch low {
	case 0x30:
		return "reset"
	case 0x31:
		return "nop"
	case 0x32:
		return fmt.Sprintf("stop #$%04X", d.word())
	case 0x33:
		return "rte"
	case 0x35:
		return "rts"
	case 0x36:
		return "trapv"
	case 0x37:
		return "rtr"
	}
	return fmt.Sprintf("dc.w $%04X", ir)
}
