/*
 * PCE - 68000 effective addresses
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

// Operand kinds.
const (
	opData = iota // Data register.
	opAddr        // Address register.
	opMem         // Memory.
	opImm         // Immediate value.
)

// Effective address modes allowed by an instruction.
const (
	eaDn     = 1 << iota // Dn
	eaAn                 // An
	eaInd                // (An)
	eaPost               // (An)+
	eaPre                // -(An)
	eaDisp               // d16(An)
	eaIndex              // d8(An,Xn)
	eaAbsW               // abs.W
	eaAbsL               // abs.L
	eaPCDisp             // d16(PC)
	eaPCIdx              // d8(PC,Xn)
	eaImm                // #imm

	eaAll      = 0xfff
	eaData     = eaAll &^ eaAn
	eaMemory   = eaAll &^ (eaDn | eaAn)
	eaAlter    = eaDn | eaAn | eaInd | eaPost | eaPre | eaDisp | eaIndex | eaAbsW | eaAbsL
	eaDataAlt  = eaAlter &^ eaAn
	eaMemAlt   = eaDataAlt &^ eaDn
	eaControl  = eaInd | eaDisp | eaIndex | eaAbsW | eaAbsL | eaPCDisp | eaPCIdx
	eaCtlAlt   = eaControl &^ (eaPCDisp | eaPCIdx)
	eaMovemOut = eaCtlAlt | eaPre
	eaMovemIn  = eaControl | eaPost
)

type operand struct {
	kind int
	reg  uint8
	addr uint32
	imm  uint32
}

// Bit for mode and register of effective address.
func eaBit(mode, reg uint8) int {
	if mode < 7 {
		return 1 << mode
	}
	if reg <= 4 {
		return 1 << (7 + reg)
	}
	return 0
}

// Check mode against allowed set.
func eaValid(mode, reg uint8, allowed int) bool {
	return eaBit(mode, reg)&allowed != 0
}

// Extra cycles for computing an effective address.
func eaTime(mode, reg uint8, size int) uint64 {
	var t uint64
	switch mode {
	case 0, 1:
		return 0
	case 2, 3:
		t = 4
	case 4:
		t = 6
	case 5:
		t = 8
	case 6:
		t = 10
	case 7:
		switch reg {
		case 0, 2:
			t = 8
		case 1:
			t = 12
		case 3:
			t = 10
		case 4:
			t = 4
		}
	}
	if size == 4 {
		t += 4
	}
	return t
}

// Compute address of brief extension word index.
func (c *CPU) indexed(base uint32) (uint32, uint16) {
	ext, exc := c.fetchWord()
	if exc != vecNone {
		return 0, exc
	}
	xn := (ext >> 12) & 7
	var idx uint32
	if ext&0x8000 != 0 {
		idx = c.a[xn]
	} else {
		idx = c.d[xn]
	}
	if ext&0x0800 == 0 {
		idx = uint32(int32(int16(idx)))
	}
	return base + uint32(int32(int8(ext))) + idx, vecNone
}

// Decode effective address, fetching extension words and updating
// address registers for (An)+ and -(An).
func (c *CPU) ea(mode, reg uint8, size int) (operand, uint16) {
	c.cyc += eaTime(mode, reg, size)
	switch mode {
	case 0:
		return operand{kind: opData, reg: reg}, vecNone
	case 1:
		return operand{kind: opAddr, reg: reg}, vecNone
	case 2:
		return operand{kind: opMem, addr: c.a[reg]}, vecNone
	case 3:
		addr := c.a[reg]
		c.a[reg] += stepSize(reg, size)
		return operand{kind: opMem, addr: addr}, vecNone
	case 4:
		c.a[reg] -= stepSize(reg, size)
		return operand{kind: opMem, addr: c.a[reg]}, vecNone
	case 5:
		disp, exc := c.fetchWord()
		if exc != vecNone {
			return operand{}, exc
		}
		return operand{kind: opMem, addr: c.a[reg] + uint32(int32(int16(disp)))}, vecNone
	case 6:
		addr, exc := c.indexed(c.a[reg])
		return operand{kind: opMem, addr: addr}, exc
	}

	switch reg {
	case 0:
		w, exc := c.fetchWord()
		return operand{kind: opMem, addr: uint32(int32(int16(w)))}, exc
	case 1:
		l, exc := c.fetchLong()
		return operand{kind: opMem, addr: l}, exc
	case 2:
		base := c.pc
		disp, exc := c.fetchWord()
		return operand{kind: opMem, addr: base + uint32(int32(int16(disp)))}, exc
	case 3:
		addr, exc := c.indexed(c.pc)
		return operand{kind: opMem, addr: addr}, exc
	case 4:
		if size == 4 {
			l, exc := c.fetchLong()
			return operand{kind: opImm, imm: l}, exc
		}
		w, exc := c.fetchWord()
		return operand{kind: opImm, imm: uint32(w) & sizeMask(size)}, exc
	}
	return operand{}, vecIllegal
}

// Increment for (An)+ and -(An), stack stays word aligned.
func stepSize(reg uint8, size int) uint32 {
	if size == 1 && reg == 7 {
		return 2
	}
	return uint32(size)
}

// Read operand value.
func (c *CPU) readOp(op *operand, size int) (uint32, uint16) {
	switch op.kind {
	case opData:
		return c.d[op.reg] & sizeMask(size), vecNone
	case opAddr:
		return c.a[op.reg] & sizeMask(size), vecNone
	case opImm:
		return op.imm, vecNone
	}
	return c.read(size, op.addr)
}

// Write operand value.
func (c *CPU) writeOp(op *operand, size int, val uint32) uint16 {
	switch op.kind {
	case opData:
		c.d[op.reg] = merge(c.d[op.reg], val, size)
		return vecNone
	case opAddr:
		if size == 2 {
			val = uint32(int32(int16(val)))
		}
		c.a[op.reg] = val
		return vecNone
	case opImm:
		return vecIllegal
	}
	return c.write(size, op.addr, val)
}

// Decode the effective address in the low six bits of ir.
func (c *CPU) srcEA(size int, allowed int) (operand, uint16) {
	mode := uint8(c.ir>>3) & 7
	reg := uint8(c.ir) & 7
	if !eaValid(mode, reg, allowed) {
		return operand{}, c.undefined()
	}
	return c.ea(mode, reg, size)
}

// Decode and read the effective address in the low six bits of ir.
func (c *CPU) srcValue(size int, allowed int) (uint32, uint16) {
	op, exc := c.srcEA(size, allowed)
	if exc != vecNone {
		return 0, exc
	}
	return c.readOp(&op, size)
}

func sizeMask(size int) uint32 {
	switch size {
	case 1:
		return 0xff
	case 2:
		return 0xffff
	}
	return 0xffffffff
}

func signBit(size int) uint32 {
	return 1 << (uint(size)*8 - 1)
}

func merge(old, val uint32, size int) uint32 {
	m := sizeMask(size)
	return (old &^ m) | (val & m)
}

// Sign extend value of size to 32 bits.
func signExtend(val uint32, size int) uint32 {
	switch size {
	case 1:
		return uint32(int32(int8(val)))
	case 2:
		return uint32(int32(int16(val)))
	}
	return val
}
