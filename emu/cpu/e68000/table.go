/*
 * PCE - 68000 opcode table
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

// Operand forms used by the disassembler.
const (
	fNone     = iota
	fEA                 // op <ea>
	fImmEA              // op #imm,<ea>
	fMove               // op <ea>,<ea>
	fEADn               // op <ea>,Dn
	fDnEA               // op Dn,<ea>
	fEAAn               // op <ea>,An
	fQuick              // op #q,<ea>
	fBranch             // bcc disp
	fDBcc               // dbcc Dn,disp
	fMoveq              // moveq #n,Dn
	fShiftReg           // op #n,Dn or Dm,Dn
	fTrap               // trap #n
	fDn                 // op Dn
	fAn                 // op An
	fLink               // link An,#d
	fImm                // op #imm
	fMovemOut           // movem list,<ea>
	fMovemIn            // movem <ea>,list
	fRegX               // op Dy,Dx or -(Ay),-(Ax)
	fCmpm               // cmpm (Ay)+,(Ax)+
	fExg                // exg Rx,Ry
	fBitImm             // op #n,<ea>
	fUSP                // move usp
	fFromSR             // move sr,<ea>
	fToCCR              // move <ea>,ccr
	fToSR               // move <ea>,sr
	fMovep              // movep
)

var condNames = [16]string{
	"t", "f", "hi", "ls", "cc", "cs", "ne", "eq",
	"vc", "vs", "pl", "mi", "ge", "lt", "gt", "le",
}

var sizeOrder = [3]int{1, 2, 4}

// Build handler table indexed by bits 15-6 of the first instruction word.
func (c *CPU) createTable() {
	for i := range c.table {
		c.table[i] = c.decode(uint16(i))
	}
}

// Select handler for top ten bits of an opcode.
func (c *CPU) decode(i uint16) opEntry {
	line := i >> 6
	r := (i >> 3) & 7
	om := i & 7

	switch line {
	case 0x0:
		return c.decodeImmediate(r, om)
	case 0x1:
		return c.decodeMove(1, om)
	case 0x2:
		return c.decodeMove(4, om)
	case 0x3:
		return c.decodeMove(2, om)
	case 0x4:
		return c.decodeMisc(r, om)
	case 0x5:
		cond := (r << 1) | (om >> 2)
		switch {
		case om == 3 || om == 7:
			return opEntry{name: "s" + condNames[cond], fn: c.opScc, form: fEA, size: 1}
		case om < 3:
			return opEntry{name: "addq", fn: c.opAddq, form: fQuick, size: sizeOrder[om]}
		default:
			return opEntry{name: "subq", fn: c.opSubq, form: fQuick, size: sizeOrder[om-4]}
		}
	case 0x6:
		cond := (i >> 2) & 0xf
		switch cond {
		case 0:
			return opEntry{name: "bra", fn: c.opBcc, form: fBranch}
		case 1:
			return opEntry{name: "bsr", fn: c.opBsr, form: fBranch}
		}
		return opEntry{name: "b" + condNames[cond], fn: c.opBcc, form: fBranch}
	case 0x7:
		if om&4 == 0 {
			return opEntry{name: "moveq", fn: c.opMoveq, form: fMoveq, size: 4}
		}
	case 0x8:
		switch om {
		case 3:
			return opEntry{name: "divu", fn: c.opDivu, form: fEADn, size: 2}
		case 7:
			return opEntry{name: "divs", fn: c.opDivs, form: fEADn, size: 2}
		case 4:
			return opEntry{name: "or", fn: c.opOrSbcd, form: fDnEA, size: 1, alt: "sbcd"}
		}
		return c.decodeALU("or", c.opOr, om)
	case 0x9:
		return c.decodeAddSub("sub", "suba", "subx", c.opSub, c.opSuba, c.opSubx, om)
	case 0xa:
		return opEntry{name: "linea", fn: c.opLineA, form: fNone}
	case 0xb:
		switch {
		case om == 3:
			return opEntry{name: "cmpa", fn: c.opCmpa, form: fEAAn, size: 2}
		case om == 7:
			return opEntry{name: "cmpa", fn: c.opCmpa, form: fEAAn, size: 4}
		case om < 3:
			return opEntry{name: "cmp", fn: c.opCmp, form: fEADn, size: sizeOrder[om]}
		}
		return opEntry{name: "eor", fn: c.opEorCmpm, form: fDnEA, size: sizeOrder[om-4], alt: "cmpm"}
	case 0xc:
		switch om {
		case 3:
			return opEntry{name: "mulu", fn: c.opMulu, form: fEADn, size: 2}
		case 7:
			return opEntry{name: "muls", fn: c.opMuls, form: fEADn, size: 2}
		case 4:
			return opEntry{name: "and", fn: c.opAndAbcd, form: fDnEA, size: 1, alt: "abcd"}
		case 5, 6:
			return opEntry{name: "and", fn: c.opAndExg, form: fDnEA, size: sizeOrder[om-4], alt: "exg"}
		}
		return c.decodeALU("and", c.opAnd, om)
	case 0xd:
		return c.decodeAddSub("add", "adda", "addx", c.opAdd, c.opAdda, c.opAddx, om)
	case 0xe:
		if om == 3 || om == 7 {
			if r&4 != 0 {
				break
			}
			return opEntry{name: shiftNames[r&3], fn: c.opShiftMem, form: fEA, size: 2}
		}
		return opEntry{name: "shift", fn: c.opShiftReg, form: fShiftReg, size: sizeOrder[om&3]}
	case 0xf:
		return opEntry{name: "linef", fn: c.opLineF, form: fNone}
	}
	return opEntry{name: "illegal", fn: c.undefined, form: fNone}
}

// Line 0: immediate and bit operations.
func (c *CPU) decodeImmediate(r, om uint16) opEntry {
	if om >= 4 {
		return opEntry{name: bitNames[om-4], fn: c.opBitDyn, form: fDnEA}
	}
	if r == 4 {
		return opEntry{name: bitNames[om], fn: c.opBitImm, form: fBitImm}
	}
	if om == 3 {
		return opEntry{name: "illegal", fn: c.undefined, form: fNone}
	}
	size := sizeOrder[om]
	switch r {
	case 0:
		return opEntry{name: "ori", fn: c.opOri, form: fImmEA, size: size}
	case 1:
		return opEntry{name: "andi", fn: c.opAndi, form: fImmEA, size: size}
	case 2:
		return opEntry{name: "subi", fn: c.opSubi, form: fImmEA, size: size}
	case 3:
		return opEntry{name: "addi", fn: c.opAddi, form: fImmEA, size: size}
	case 5:
		return opEntry{name: "eori", fn: c.opEori, form: fImmEA, size: size}
	case 6:
		return opEntry{name: "cmpi", fn: c.opCmpi, form: fImmEA, size: size}
	}
	return opEntry{name: "illegal", fn: c.undefined, form: fNone}
}

// Lines 1-3: move.
func (c *CPU) decodeMove(size int, om uint16) opEntry {
	if om == 1 {
		if size == 1 {
			return opEntry{name: "illegal", fn: c.undefined, form: fNone}
		}
		return opEntry{name: "movea", fn: c.opMovea, form: fMove, size: size}
	}
	return opEntry{name: "move", fn: c.opMove, form: fMove, size: size}
}

// Line 4: miscellaneous.
func (c *CPU) decodeMisc(r, om uint16) opEntry {
	switch om {
	case 6:
		return opEntry{name: "chk", fn: c.opChk, form: fEADn, size: 2}
	case 7:
		return opEntry{name: "lea", fn: c.opLea, form: fEAAn, size: 4}
	case 4, 5:
		if r != 4 && r != 6 {
			return opEntry{name: "illegal", fn: c.undefined, form: fNone}
		}
	}

	switch r {
	case 0:
		if om == 3 {
			return opEntry{name: "move", fn: c.opMoveFromSR, form: fFromSR, size: 2}
		}
		return opEntry{name: "negx", fn: c.opNegx, form: fEA, size: sizeOrder[om]}
	case 1:
		if om == 3 {
			break
		}
		return opEntry{name: "clr", fn: c.opClr, form: fEA, size: sizeOrder[om]}
	case 2:
		if om == 3 {
			return opEntry{name: "move", fn: c.opMoveToCCR, form: fToCCR, size: 2}
		}
		return opEntry{name: "neg", fn: c.opNeg, form: fEA, size: sizeOrder[om]}
	case 3:
		if om == 3 {
			return opEntry{name: "move", fn: c.opMoveToSR, form: fToSR, size: 2}
		}
		return opEntry{name: "not", fn: c.opNot, form: fEA, size: sizeOrder[om]}
	case 4:
		switch om {
		case 0:
			return opEntry{name: "nbcd", fn: c.opNbcd, form: fEA, size: 1}
		case 1:
			return opEntry{name: "pea", fn: c.opSwapPea, form: fEA, size: 4}
		case 2:
			return opEntry{name: "movem", fn: c.opExtMovemOut, form: fMovemOut, size: 2}
		case 3:
			return opEntry{name: "movem", fn: c.opExtMovemOut, form: fMovemOut, size: 4}
		}
	case 5:
		if om == 3 {
			return opEntry{name: "tas", fn: c.opTas, form: fEA, size: 1}
		}
		return opEntry{name: "tst", fn: c.opTst, form: fEA, size: sizeOrder[om]}
	case 6:
		switch om {
		case 2:
			return opEntry{name: "movem", fn: c.opMovemIn, form: fMovemIn, size: 2}
		case 3:
			return opEntry{name: "movem", fn: c.opMovemIn, form: fMovemIn, size: 4}
		}
	case 7:
		switch om {
		case 1:
			return opEntry{name: "misc", fn: c.opMisc4E, form: fNone}
		case 2:
			return opEntry{name: "jsr", fn: c.opJsr, form: fEA, size: 4}
		case 3:
			return opEntry{name: "jmp", fn: c.opJmp, form: fEA, size: 4}
		}
	}
	return opEntry{name: "illegal", fn: c.undefined, form: fNone}
}

// Lines 8 and C register/memory operations.
func (c *CPU) decodeALU(name string, fn func() uint16, om uint16) opEntry {
	if om < 3 {
		return opEntry{name: name, fn: fn, form: fEADn, size: sizeOrder[om]}
	}
	return opEntry{name: name, fn: fn, form: fDnEA, size: sizeOrder[om-4]}
}

// Lines 9 and D.
func (c *CPU) decodeAddSub(name, namea, namex string, fn, fna, fnx func() uint16, om uint16) opEntry {
	switch om {
	case 3:
		return opEntry{name: namea, fn: fna, form: fEAAn, size: 2}
	case 7:
		return opEntry{name: namea, fn: fna, form: fEAAn, size: 4}
	}
	if om < 3 {
		return opEntry{name: name, fn: fn, form: fEADn, size: sizeOrder[om]}
	}
	size := sizeOrder[om-4]
	return opEntry{name: name, fn: func() uint16 {
		if (c.ir>>3)&7 < 2 {
			return fnx()
		}
		return fn()
	}, form: fDnEA, size: size, alt: namex}
}
