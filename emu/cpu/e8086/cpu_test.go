/*
 * PCE - 8086 test cases
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
	"errors"
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/rcornwell/pce/emu/cpu"
	"github.com/rcornwell/pce/emu/device/mock_device"
	"github.com/rcornwell/pce/emu/memory"
)

const (
	testCS  = 0x0100 // Program at linear 0x1000.
	testVec = 0x0300 // Handler for type n at 0300:n*16.
	testSP  = 0x8000
)

func newTestMemory(prog ...uint8) *memory.Map {
	m := memory.New("mem", memory.LittleEndian)
	m.Add(memory.NewRAM("ram", 0, 0x100000))
	for n := range uint32(256) {
		m.SetUint16(n*4, uint16(n*16))
		m.SetUint16(n*4+2, testVec)
	}
	m.Load(linear(testCS, 0), prog)
	return m
}

func newTestIO() *memory.Map {
	io := memory.New("io", memory.LittleEndian)
	io.Add(memory.NewRAM("ports", 0, 0x10000))
	return io
}

// Create CPU of model with 1M of RAM, program at testCS:0.
func newTestCPU(t *testing.T, model string, prog []uint8, opts ...Option) (*CPU, *memory.Map) {
	t.Helper()
	m := newTestMemory(prog...)
	c := New(m, newTestIO(), opts...)
	if err := c.SetModel(model); err != nil {
		t.Fatalf("SetModel %s: %v", model, err)
	}
	c.Reset()
	c.sregs[segCS] = testCS
	c.regs[regSP] = testSP
	return c, m
}

func (c *CPU) stackWord(m *memory.Map, n uint16) uint16 {
	return m.GetUint16(linear(c.sregs[segSS], c.regs[regSP]+n*2))
}

func TestReset(t *testing.T) {
	c := New(newTestMemory(), newTestIO())
	c.Reset()
	if c.Segment() != 0xffff || c.Offset() != 0 {
		t.Errorf("Reset CS:IP got: %04x:%04x wanted: ffff:0000", c.Segment(), c.Offset())
	}
	if c.PC() != 0xffff0 {
		t.Errorf("Reset PC got: %05x wanted: %05x", c.PC(), 0xffff0)
	}
	if c.State() != cpu.Running {
		t.Errorf("Reset state got: %v wanted: %v", c.State(), cpu.Running)
	}
}

// ADD AX,BX over a spread of operands.
func TestAddFlags(t *testing.T) {
	c, _ := newTestCPU(t, "8086", []uint8{0x01, 0xd8})
	vals := []uint32{0x0000, 0x0001, 0x000f, 0x0010, 0x7fff, 0x8000, 0x8001, 0xfffe, 0xffff}
	for v := uint32(0x0123); v < 0x10000; v += 0x1111 {
		vals = append(vals, v)
	}
	for _, a := range vals {
		for _, b := range vals {
			c.ip = 0
			c.flags = 0
			c.regs[regAX] = uint16(a)
			c.regs[regBX] = uint16(b)
			c.Execute()

			sum := a + b
			res := uint16(sum)
			want := uint16(0)
			if sum > 0xffff {
				want |= flagCF
			}
			if res == 0 {
				want |= flagZF
			}
			if res&0x8000 != 0 {
				want |= flagSF
			}
			if (a^b^sum)&0x10 != 0 {
				want |= flagAF
			}
			if int32(int16(a))+int32(int16(b)) != int32(int16(res)) {
				want |= flagOF
			}
			p := uint8(res)
			p ^= p >> 4
			p ^= p >> 2
			p ^= p >> 1
			if p&1 == 0 {
				want |= flagPF
			}
			if c.regs[regAX] != res {
				t.Errorf("ADD %04x+%04x got: %04x wanted: %04x", a, b, c.regs[regAX], res)
			}
			if c.flags != want {
				t.Errorf("ADD %04x+%04x flags got: %04x wanted: %04x", a, b, c.flags, want)
			}
		}
	}
}

func TestInterruptFrame(t *testing.T) {
	c, m := newTestCPU(t, "8086", []uint8{0xcd, 0x21})
	m.SetUint8(linear(testVec, 0x210), 0xcf)
	c.flags = flagIF | flagCF
	c.Execute()
	if c.Segment() != testVec || c.Offset() != 0x210 {
		t.Errorf("INT 21 CS:IP got: %04x:%04x wanted: %04x:%04x", c.Segment(), c.Offset(), testVec, 0x210)
	}
	if c.regs[regSP] != testSP-6 {
		t.Errorf("INT SP got: %04x wanted: %04x", c.regs[regSP], testSP-6)
	}
	if v := c.stackWord(m, 0); v != 2 {
		t.Errorf("INT stacked IP got: %04x wanted: %04x", v, 2)
	}
	if v := c.stackWord(m, 1); v != testCS {
		t.Errorf("INT stacked CS got: %04x wanted: %04x", v, testCS)
	}
	if v := c.stackWord(m, 2); v != 0xf000|0x0002|flagIF|flagCF {
		t.Errorf("INT stacked flags got: %04x wanted: %04x", v, 0xf000|0x0002|flagIF|flagCF)
	}
	if c.flags&flagIF != 0 {
		t.Errorf("INT did not clear IF")
	}

	c.Execute()
	if c.Segment() != testCS || c.Offset() != 2 {
		t.Errorf("IRET CS:IP got: %04x:%04x wanted: %04x:%04x", c.Segment(), c.Offset(), testCS, 2)
	}
	if c.regs[regSP] != testSP {
		t.Errorf("IRET SP got: %04x wanted: %04x", c.regs[regSP], testSP)
	}
	if c.flags != flagIF|flagCF {
		t.Errorf("IRET flags got: %04x wanted: %04x", c.flags, flagIF|flagCF)
	}
}

func TestPushFlags286(t *testing.T) {
	c, m := newTestCPU(t, "80286", []uint8{0x9c})
	c.flags = flagZF
	c.Execute()
	if v := c.stackWord(m, 0); v != 0x0002|flagZF {
		t.Errorf("PUSHF got: %04x wanted: %04x", v, 0x0002|flagZF)
	}
}

// Divide error return address differs between models.
func TestDivideError(t *testing.T) {
	tests := []struct {
		model string
		ret   uint16
	}{
		{"8086", 2},
		{"80186", 2},
		{"80286", 0},
	}
	for _, test := range tests {
		c, m := newTestCPU(t, test.model, []uint8{0xf6, 0xf3})
		c.regs[regAX] = 0x1234
		c.Execute()
		if c.Segment() != testVec || c.Offset() != 0 {
			t.Errorf("%s DIV BL CS:IP got: %04x:%04x wanted: %04x:0000", test.model, c.Segment(), c.Offset(), testVec)
		}
		if v := c.stackWord(m, 0); v != test.ret {
			t.Errorf("%s divide error return got: %04x wanted: %04x", test.model, v, test.ret)
		}
		if c.regs[regAX] != 0x1234 {
			t.Errorf("%s divide error changed AX: %04x", test.model, c.regs[regAX])
		}
	}
}

// IDIV of -128 by 1 only fits from the 80186 on.
func TestIdivMinimum(t *testing.T) {
	for _, model := range []string{"8086", "80186"} {
		c, _ := newTestCPU(t, model, []uint8{0xf6, 0xfb})
		c.regs[regAX] = 0xff80
		c.regs[regBX] = 1
		c.Execute()
		trapped := c.Segment() == testVec
		if trapped != (model == "8086") {
			t.Errorf("%s IDIV -128/1 trapped: %v", model, trapped)
		}
		if model == "80186" && c.getReg8(0) != 0x80 {
			t.Errorf("80186 IDIV quotient got: %02x wanted: %02x", c.getReg8(0), 0x80)
		}
	}
}

func TestMultiply(t *testing.T) {
	// MUL BX, IMUL BL
	c, _ := newTestCPU(t, "8086", []uint8{0xf7, 0xe3, 0xf6, 0xeb})
	c.regs[regAX] = 0x1234
	c.regs[regBX] = 0x0100
	c.Execute()
	if c.regs[regDX] != 0x0012 || c.regs[regAX] != 0x3400 {
		t.Errorf("MUL got: %04x:%04x wanted: 0012:3400", c.regs[regDX], c.regs[regAX])
	}
	if c.flags&(flagCF|flagOF) != flagCF|flagOF {
		t.Errorf("MUL overflow flags not set: %04x", c.flags)
	}
	c.regs[regAX] = 0x00fe
	c.regs[regBX] = 0x0003
	c.Execute()
	if c.regs[regAX] != 0xfffa {
		t.Errorf("IMUL -2*3 got: %04x wanted: %04x", c.regs[regAX], 0xfffa)
	}
	if c.flags&(flagCF|flagOF) != 0 {
		t.Errorf("IMUL sign extended result set flags: %04x", c.flags)
	}
}

func TestNMI(t *testing.T) {
	c, _ := newTestCPU(t, "8086", []uint8{0x90, 0x90})
	c.SetNMI(true)
	c.Execute()
	if c.Segment() != testVec || c.Offset() != intNMI*16 {
		t.Errorf("NMI CS:IP got: %04x:%04x wanted: %04x:%04x", c.Segment(), c.Offset(), testVec, intNMI*16)
	}
	if c.nmiPending {
		t.Errorf("NMI still pending after being taken")
	}
}

func TestInterruptAck(t *testing.T) {
	acks := 0
	ack := func() uint8 {
		acks++
		return 0x20
	}
	c, _ := newTestCPU(t, "8086", []uint8{0x90, 0x90}, WithInterruptAck(ack))
	c.SetINTR(true)
	c.Execute()
	if c.Offset() != 1 || acks != 0 {
		t.Errorf("INTR taken with IF clear, IP: %04x acks: %d", c.Offset(), acks)
	}
	c.flags |= flagIF
	c.Execute()
	if c.Segment() != testVec || c.Offset() != 0x200 {
		t.Errorf("INTR CS:IP got: %04x:%04x wanted: %04x:%04x", c.Segment(), c.Offset(), testVec, 0x200)
	}
	if acks != 1 {
		t.Errorf("INTR acknowledges got: %d wanted: %d", acks, 1)
	}
}

// STI delays interrupts for one instruction.
func TestInterruptInhibit(t *testing.T) {
	c, _ := newTestCPU(t, "8086", []uint8{0xfb, 0x90, 0x90})
	c.SetINTR(true)
	c.Execute()
	c.Execute()
	if c.Segment() != testCS || c.Offset() != 2 {
		t.Errorf("INTR taken in STI shadow, CS:IP: %04x:%04x", c.Segment(), c.Offset())
	}
	c.Execute()
	if c.Segment() != testVec || c.Offset() != 0x80 {
		t.Errorf("INTR after STI CS:IP got: %04x:%04x wanted: %04x:%04x", c.Segment(), c.Offset(), testVec, 0x80)
	}
}

func TestHalt(t *testing.T) {
	c, m := newTestCPU(t, "8088", []uint8{0xf4})
	c.Execute()
	if c.State() != cpu.Halted {
		t.Errorf("HLT state got: %v wanted: %v", c.State(), cpu.Halted)
	}
	before := c.Cycles()
	c.Execute()
	if c.Cycles()-before != 2 || c.Offset() != 1 {
		t.Errorf("Halted step cycles: %d IP: %04x", c.Cycles()-before, c.Offset())
	}
	c.flags |= flagIF
	c.SetINTR(true)
	c.Execute()
	if c.State() != cpu.Running {
		t.Errorf("INTR did not wake HLT, state: %v", c.State())
	}
	if c.Offset() != 0x80 {
		t.Errorf("HLT wake IP got: %04x wanted: %04x", c.Offset(), 0x80)
	}
	if v := c.stackWord(m, 0); v != 1 {
		t.Errorf("HLT wake return got: %04x wanted: %04x", v, 1)
	}
}

func TestSingleStep(t *testing.T) {
	c, m := newTestCPU(t, "8086", []uint8{0x90, 0x90})
	c.flags = flagTF
	c.Execute()
	if c.Segment() != testVec || c.Offset() != intStep*16 {
		t.Errorf("Trap CS:IP got: %04x:%04x wanted: %04x:%04x", c.Segment(), c.Offset(), testVec, intStep*16)
	}
	if v := c.stackWord(m, 0); v != 1 {
		t.Errorf("Trap return got: %04x wanted: %04x", v, 1)
	}
	if c.flags&flagTF != 0 {
		t.Errorf("Trap did not clear TF")
	}
}

// REP MOVSB runs one element per step and restarts at the prefix.
func TestRepMovsb(t *testing.T) {
	c, m := newTestCPU(t, "8086", []uint8{0xf3, 0xa4, 0x90})
	m.Load(0x2000, []uint8{1, 2, 3, 4, 5})
	c.sregs[segDS] = 0x200
	c.sregs[segES] = 0x220
	c.regs[regCX] = 4
	c.Execute()
	if c.Offset() != 0 || c.regs[regCX] != 3 {
		t.Errorf("REP MOVSB first step IP: %04x CX: %04x", c.Offset(), c.regs[regCX])
	}
	for range 3 {
		c.Execute()
	}
	if c.Offset() != 2 || c.regs[regCX] != 0 {
		t.Errorf("REP MOVSB end IP: %04x CX: %04x", c.Offset(), c.regs[regCX])
	}
	for i := range uint32(4) {
		if v := m.GetUint8(0x2200 + i); v != uint8(i+1) {
			t.Errorf("REP MOVSB byte %d got: %02x wanted: %02x", i, v, i+1)
		}
	}
	if m.GetUint8(0x2204) != 0 {
		t.Errorf("REP MOVSB copied past count")
	}
	if c.regs[regSI] != 4 || c.regs[regDI] != 4 {
		t.Errorf("REP MOVSB SI: %04x DI: %04x wanted: 0004", c.regs[regSI], c.regs[regDI])
	}
}

func TestRepeCmpsb(t *testing.T) {
	c, m := newTestCPU(t, "8086", []uint8{0xf3, 0xa6})
	m.Load(0x2000, []uint8("abcd"))
	m.Load(0x2200, []uint8("abxd"))
	c.sregs[segDS] = 0x200
	c.sregs[segES] = 0x220
	c.regs[regCX] = 4
	for range 3 {
		c.Execute()
	}
	if c.Offset() != 2 || c.regs[regCX] != 1 {
		t.Errorf("REPE CMPSB end IP: %04x CX: %04x", c.Offset(), c.regs[regCX])
	}
	if c.flags&flagZF != 0 {
		t.Errorf("REPE CMPSB mismatch left ZF set")
	}
}

func TestSegmentOverride(t *testing.T) {
	// MOV AX,ES:[BX]
	c, m := newTestCPU(t, "8086", []uint8{0x26, 0x8b, 0x07})
	c.sregs[segES] = 0x400
	c.regs[regBX] = 0x10
	m.SetUint16(0x4010, 0xbeef)
	c.Execute()
	if c.regs[regAX] != 0xbeef {
		t.Errorf("MOV AX,ES:[BX] got: %04x wanted: %04x", c.regs[regAX], 0xbeef)
	}
	if c.Offset() != 3 {
		t.Errorf("MOV AX,ES:[BX] IP got: %04x wanted: %04x", c.Offset(), 3)
	}
}

func TestPushSP(t *testing.T) {
	tests := []struct {
		model string
		want  uint16
	}{
		{"8086", testSP - 2},
		{"80286", testSP},
	}
	for _, test := range tests {
		c, m := newTestCPU(t, test.model, []uint8{0x54})
		c.Execute()
		if v := c.stackWord(m, 0); v != test.want {
			t.Errorf("%s PUSH SP got: %04x wanted: %04x", test.model, v, test.want)
		}
	}
}

func TestUndefined(t *testing.T) {
	ctrl := gomock.NewController(t)
	hooks := mock_device.NewMockHooks(ctrl)

	hooks.EXPECT().OnUndefined(uint32(0x1000), uint32(0xd6)).Return(false)
	c, _ := newTestCPU(t, "8086", []uint8{0xd6}, WithHooks(hooks))
	c.Execute()
	if c.Segment() != testCS || c.Offset() != 1 {
		t.Errorf("8086 undefined CS:IP got: %04x:%04x wanted: %04x:0001", c.Segment(), c.Offset(), testCS)
	}

	hooks.EXPECT().OnUndefined(uint32(0x1000), uint32(0xd6)).Return(false)
	hooks.EXPECT().OnException(uint32(intUndefined))
	c, m := newTestCPU(t, "80186", []uint8{0xd6}, WithHooks(hooks))
	c.Execute()
	if c.Segment() != testVec || c.Offset() != intUndefined*16 {
		t.Errorf("80186 undefined CS:IP got: %04x:%04x wanted: %04x:%04x", c.Segment(), c.Offset(), testVec, intUndefined*16)
	}
	if v := c.stackWord(m, 0); v != 0 {
		t.Errorf("80186 undefined return got: %04x wanted: %04x", v, 0)
	}

	hooks.EXPECT().OnUndefined(uint32(0x1000), uint32(0xd6)).Return(true)
	c, _ = newTestCPU(t, "80186", []uint8{0xd6}, WithHooks(hooks))
	c.Execute()
	if c.Segment() != testCS || c.Offset() != 1 {
		t.Errorf("Handled undefined CS:IP got: %04x:%04x wanted: %04x:0001", c.Segment(), c.Offset(), testCS)
	}
}

// Opcodes 60-6F are conditional jumps on the 8086.
func TestModelTables(t *testing.T) {
	c, _ := newTestCPU(t, "8086", []uint8{0x61, 0x02})
	c.Execute()
	if c.Offset() != 4 {
		t.Errorf("8086 opcode 61 IP got: %04x wanted: %04x", c.Offset(), 4)
	}

	c, m := newTestCPU(t, "80186", []uint8{0x60})
	c.regs[regAX] = 0x1111
	c.Execute()
	if c.regs[regSP] != testSP-16 {
		t.Errorf("PUSHA SP got: %04x wanted: %04x", c.regs[regSP], testSP-16)
	}
	if v := c.stackWord(m, 7); v != 0x1111 {
		t.Errorf("PUSHA AX got: %04x wanted: %04x", v, 0x1111)
	}
	if v := c.stackWord(m, 3); v != testSP {
		t.Errorf("PUSHA SP slot got: %04x wanted: %04x", v, testSP)
	}
}

func TestPortIO(t *testing.T) {
	// OUT 42,AL  IN AX,DX
	c, _ := newTestCPU(t, "8086", []uint8{0xe6, 0x42, 0xed})
	c.regs[regAX] = 0x0055
	c.regs[regDX] = 0x0042
	c.Execute()
	if v := c.io.GetUint8(0x42); v != 0x55 {
		t.Errorf("OUT 42 got: %02x wanted: %02x", v, 0x55)
	}
	c.io.SetUint8(0x43, 0xaa)
	c.Execute()
	if c.regs[regAX] != 0xaa55 {
		t.Errorf("IN AX,DX got: %04x wanted: %04x", c.regs[regAX], 0xaa55)
	}
}

func TestClock(t *testing.T) {
	// INC AX; JMP $-1
	c, _ := newTestCPU(t, "8086", []uint8{0x40, 0xeb, 0xfd})
	start := c.Cycles()
	c.Clock(10)
	if c.Cycles()-start != 18 || c.regs[regAX] != 1 {
		t.Errorf("Clock(10) cycles got: %d AX: %d wanted: 18 1", c.Cycles()-start, c.regs[regAX])
	}
	// Jump overshoots, the debt is paid by the next call.
	c.Clock(10)
	if c.Cycles()-start != 21 || c.regs[regAX] != 2 {
		t.Errorf("Clock(10) cycles got: %d AX: %d wanted: 21 2", c.Cycles()-start, c.regs[regAX])
	}
}

func TestDeterminism(t *testing.T) {
	prog := []uint8{0x40, 0x01, 0xc3, 0xeb, 0xfb}
	a, _ := newTestCPU(t, "8088", prog)
	b, _ := newTestCPU(t, "8088", prog)
	for range 10 {
		a.Clock(97)
	}
	b.Clock(970)
	if a.Cycles() != b.Cycles() || a.regs != b.regs || a.ip != b.ip {
		t.Errorf("Split run cycles: %d regs: %v differs from single run: %d regs: %v",
			a.Cycles(), a.regs, b.Cycles(), b.regs)
	}
}

// The 8088 pays for word transfers on its byte bus.
func TestByteBus(t *testing.T) {
	var cyc [2]uint64
	for i, model := range []string{"8086", "8088"} {
		// PUSH AX
		c, _ := newTestCPU(t, model, []uint8{0x50})
		before := c.Cycles()
		c.Execute()
		cyc[i] = c.Cycles() - before
	}
	if cyc[1] != cyc[0]+4 {
		t.Errorf("8088 PUSH cycles got: %d wanted: %d", cyc[1], cyc[0]+4)
	}
}

func TestRegisters(t *testing.T) {
	c, _ := newTestCPU(t, "8086", nil)
	if err := c.SetReg("al", 0x12); err != nil {
		t.Errorf("SetReg al: %v", err)
	}
	if err := c.SetReg("AH", 0x34); err != nil {
		t.Errorf("SetReg ah: %v", err)
	}
	if v, _ := c.GetReg("ax"); v != 0x3412 {
		t.Errorf("GetReg ax got: %04x wanted: %04x", v, 0x3412)
	}
	if v, _ := c.GetReg("ax.b"); v != 0x12 {
		t.Errorf("GetReg ax.b got: %02x wanted: %02x", v, 0x12)
	}
	if err := c.SetReg("ds", 0x1234); err != nil || c.sregs[segDS] != 0x1234 {
		t.Errorf("SetReg ds got: %04x err: %v", c.sregs[segDS], err)
	}
	_ = c.SetReg("flags", 0xffff)
	if c.flags != flagMask {
		t.Errorf("SetReg flags got: %04x wanted: %04x", c.flags, flagMask)
	}
	if v, _ := c.GetReg("pc"); v != 0x1000 {
		t.Errorf("GetReg pc got: %05x wanted: %05x", v, 0x1000)
	}
	if _, err := c.GetReg("eax"); !errors.Is(err, cpu.ErrUnknownRegister) {
		t.Errorf("GetReg eax error got: %v", err)
	}
	if n := len(c.Registers()); n != 14 {
		t.Errorf("Registers count got: %d wanted: %d", n, 14)
	}
	if err := c.SetModel("z80"); !errors.Is(err, cpu.ErrUnknownModel) {
		t.Errorf("SetModel z80 error got: %v", err)
	}
	if c.Model() != "8086" {
		t.Errorf("Unknown model fallback got: %s wanted: %s", c.Model(), "8086")
	}
}

func TestDisassemble(t *testing.T) {
	tests := []struct {
		code []uint8
		text string
	}{
		{[]uint8{0xb8, 0x34, 0x12}, "MOV AX,1234"},
		{[]uint8{0x01, 0xd8}, "ADD AX,BX"},
		{[]uint8{0x8b, 0x46, 0xfe}, "MOV AX,[BP-02]"},
		{[]uint8{0x26, 0x89, 0x07}, "MOV ES:[BX],AX"},
		{[]uint8{0xf3, 0xa4}, "REP MOVSB"},
		{[]uint8{0x83, 0xc3, 0x01}, "ADD BX,0001"},
		{[]uint8{0xf6, 0xc3, 0x80}, "TEST BL,80"},
		{[]uint8{0xeb, 0xfe}, "JMP 1000"},
		{[]uint8{0xcd, 0x21}, "INT 21"},
		{[]uint8{0xd1, 0xe0}, "SHL AX,1"},
		{[]uint8{0x9a, 0x00, 0x01, 0x00, 0xf0}, "CALL F000:0100"},
	}
	for _, test := range tests {
		c, _ := newTestCPU(t, "8086", test.code)
		text, n := c.Disassemble(0x1000)
		if text != test.text {
			t.Errorf("Disassemble % x got: %q wanted: %q", test.code, text, test.text)
		}
		if n != uint32(len(test.code)) {
			t.Errorf("Disassemble % x length got: %d wanted: %d", test.code, n, len(test.code))
		}
	}
}
