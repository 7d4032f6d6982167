/*
 * PCE - 8086 disassembler
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
)

var (
	eaNames    = [8]string{"BX+SI", "BX+DI", "BP+SI", "BP+DI", "SI", "DI", "BP", "BX"}
	grp3Names  = [8]string{"TEST", "TEST", "NOT", "NEG", "MUL", "IMUL", "DIV", "IDIV"}
	grp45Names = [8]string{"INC", "DEC", "CALL", "CALL FAR", "JMP", "JMP FAR", "PUSH", "???"}
)

// Instruction bytes being disassembled.
type reader struct {
	c     *CPU
	addr  uint32
	n     uint32
	modrm bool
	mod   uint8
	reg   uint8
	rm    uint8
	ea    string
}

func (r *reader) byte() uint8 {
	v := r.c.mem.GetUint8((r.addr + r.n) & 0xfffff)
	r.n++
	return v
}

func (r *reader) word() uint16 {
	lo := uint16(r.byte())
	return lo | uint16(r.byte())<<8
}

// Decode ModRM byte once, on first use.
func (r *reader) decode() {
	if r.modrm {
		return
	}
	r.modrm = true
	b := r.byte()
	r.mod, r.reg, r.rm = b>>6, (b>>3)&7, b&7
	switch {
	case r.mod == 3:
	case r.mod == 0 && r.rm == 6:
		r.ea = fmt.Sprintf("[%04X]", r.word())
	case r.mod == 0:
		r.ea = "[" + eaNames[r.rm] + "]"
	case r.mod == 1:
		d := int8(r.byte())
		if d < 0 {
			r.ea = fmt.Sprintf("[%s-%02X]", eaNames[r.rm], -int(d))
		} else {
			r.ea = fmt.Sprintf("[%s+%02X]", eaNames[r.rm], d)
		}
	default:
		r.ea = fmt.Sprintf("[%s+%04X]", eaNames[r.rm], r.word())
	}
}

func regName(w bool, r uint8) string {
	if w {
		return strings.ToUpper(regNames[r])
	}
	return strings.ToUpper(reg8Names[r])
}

func (r *reader) operand(tok string, op uint8, seg string) string {
	switch tok {
	case "Eb", "Ev":
		r.decode()
		if r.mod == 3 {
			return regName(tok == "Ev", r.rm)
		}
		return seg + r.ea
	case "M", "Mp":
		r.decode()
		return seg + r.ea
	case "Gb", "Gv":
		r.decode()
		return regName(tok == "Gv", r.reg)
	case "Sw":
		r.decode()
		return strings.ToUpper(segNames[r.reg&3])
	case "Ib":
		return fmt.Sprintf("%02X", r.byte())
	case "Iw", "Iv":
		return fmt.Sprintf("%04X", r.word())
	case "Is":
		return fmt.Sprintf("%04X", uint16(int8(r.byte())))
	case "Jb":
		d := uint16(int8(r.byte()))
		return fmt.Sprintf("%04X", uint16(r.addr)+uint16(r.n)+d)
	case "Jv":
		d := r.word()
		return fmt.Sprintf("%04X", uint16(r.addr)+uint16(r.n)+d)
	case "Ap":
		off := r.word()
		return fmt.Sprintf("%04X:%04X", r.word(), off)
	case "Ob", "Ov":
		return fmt.Sprintf("%s[%04X]", seg, r.word())
	case "rb":
		return regName(false, op&7)
	case "rv":
		return regName(true, op&7)
	}
	return tok
}

// Disassemble instruction at linear address addr, returns text and length.
func (c *CPU) Disassemble(addr uint32) (string, uint32) {
	r := &reader{c: c, addr: addr}
	var prefix, seg string
	op := r.byte()
prefixes:
	for r.n < 15 {
		switch op {
		case 0x26, 0x2e, 0x36, 0x3e:
			seg = strings.ToUpper(segNames[(op>>3)&3]) + ":"
		case 0xf0:
			prefix += "LOCK "
		case 0xf2:
			prefix += "REPNE "
		case 0xf3:
			prefix += "REP "
		default:
			break prefixes
		}
		op = r.byte()
	}
	e := &c.table[op]
	name := e.name
	args := e.args
	if strings.HasPrefix(name, "grp") {
		r.decode()
		switch name {
		case "grp1":
			name = aluNames[r.reg]
		case "grp2":
			name = shiftNames[r.reg]
		case "grp3":
			name = grp3Names[r.reg]
			if r.reg < 2 && op == 0xf6 {
				args += ",Ib"
			} else if r.reg < 2 {
				args += ",Iv"
			}
		default:
			name = grp45Names[r.reg]
			if op == 0xfe && r.reg > 1 {
				name = "???"
			}
		}
	}
	if args == "" {
		return prefix + name, r.n
	}
	toks := strings.Split(args, ",")
	for i, tok := range toks {
		toks[i] = r.operand(tok, op, seg)
	}
	return prefix + name + " " + strings.Join(toks, ","), r.n
}
