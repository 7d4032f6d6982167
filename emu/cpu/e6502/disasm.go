/*
 * PCE - 6502 disassembler
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
)

// Disassemble instruction at addr, returns text and length.
func (c *CPU) Disassemble(addr uint32) (string, uint32) {
	op := &c.table[c.mem.GetUint8(addr&0xffff)]
	n := modeLen[op.mode]
	b1 := uint16(c.mem.GetUint8((addr + 1) & 0xffff))
	w := b1 | uint16(c.mem.GetUint8((addr+2)&0xffff))<<8
	name := op.name

	var arg string
	switch op.mode {
	case modeAcc:
		arg = "A"
	case modeImm:
		arg = fmt.Sprintf("#$%02X", b1)
	case modeZp:
		arg = fmt.Sprintf("$%02X", b1)
	case modeZpx:
		arg = fmt.Sprintf("$%02X,X", b1)
	case modeZpy:
		arg = fmt.Sprintf("$%02X,Y", b1)
	case modeAbs:
		arg = fmt.Sprintf("$%04X", w)
	case modeAbx:
		arg = fmt.Sprintf("$%04X,X", w)
	case modeAby:
		arg = fmt.Sprintf("$%04X,Y", w)
	case modeInd:
		arg = fmt.Sprintf("($%04X)", w)
	case modeIzx:
		arg = fmt.Sprintf("($%02X,X)", b1)
	case modeIzy:
		arg = fmt.Sprintf("($%02X),Y", b1)
	case modeRel:
		target := uint16(addr) + 2 + uint16(int8(b1))
		arg = fmt.Sprintf("$%04X", target)
	}
	if arg == "" {
		return name, n + 1
	}
	return name + " " + arg, n + 1
}
