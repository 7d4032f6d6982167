/*
 * PCE - 68000 test cases
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
	"errors"
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/rcornwell/pce/emu/cpu"
	"github.com/rcornwell/pce/emu/device/mock_device"
	"github.com/rcornwell/pce/emu/memory"
)

const (
	testSSP  = 0x8000
	testPC   = 0x1000
	testTrap = 0x2000
)

// Create CPU with 64K of RAM, program at testPC.
func newTestCPU(t *testing.T, prog ...uint16) (*CPU, *memory.Map) {
	t.Helper()
	m := memory.New("mem", memory.BigEndian)
	m.Add(memory.NewRAM("ram", 0, 0x10000))
	m.SetUint32(0, testSSP)
	m.SetUint32(4, testPC)
	for i, w := range prog {
		m.SetUint16(testPC+uint32(2*i), w)
	}
	c := New(m)
	c.Reset()
	return c, m
}

func TestReset(t *testing.T) {
	c, _ := newTestCPU(t)
	if c.a[7] != testSSP {
		t.Errorf("Reset SSP got: %x wanted: %x", c.a[7], testSSP)
	}
	if c.PC() != testPC {
		t.Errorf("Reset PC got: %x wanted: %x", c.PC(), testPC)
	}
	if c.sr != 0x2700 {
		t.Errorf("Reset SR got: %04x wanted: %04x", c.sr, 0x2700)
	}
	if c.Cycles() != 40 {
		t.Errorf("Reset cycles got: %d wanted: %d", c.Cycles(), 40)
	}
	if c.State() != cpu.Running {
		t.Errorf("Reset state got: %v wanted: %v", c.State(), cpu.Running)
	}
}

func TestNop(t *testing.T) {
	c, _ := newTestCPU(t, 0x4e71)
	before := c.Cycles()
	c.Execute()
	if c.PC() != testPC+2 {
		t.Errorf("NOP PC got: %x wanted: %x", c.PC(), testPC+2)
	}
	if c.Cycles()-before != 4 {
		t.Errorf("NOP cycles got: %d wanted: %d", c.Cycles()-before, 4)
	}
}

// ADD.W D1,D0 over operand pairs near the carry and sign boundaries.
func TestAddWordFlags(t *testing.T) {
	values := []uint32{0, 1, 2, 0x7ffe, 0x7fff, 0x8000, 0x8001, 0xfffe, 0xffff, 0x1234}
	c, _ := newTestCPU(t)
	for _, a := range values {
		for _, b := range values {
			c.mem.SetUint16(testPC, 0xd041)
			c.pc = testPC
			c.sr = 0x2700
			c.d[0] = 0xabcd0000 | a
			c.d[1] = b
			c.Execute()

			sum := a + b
			res := sum & 0xffff
			signed := int32(int16(a)) + int32(int16(b))
			var want uint16
			if sum > 0xffff {
				want |= flagC | flagX
			}
			if signed > 32767 || signed < -32768 {
				want |= flagV
			}
			if res == 0 {
				want |= flagZ
			}
			if res&0x8000 != 0 {
				want |= flagN
			}
			if c.d[0] != 0xabcd0000|res {
				t.Errorf("ADD.W %04x+%04x got: %08x wanted: %08x", a, b, c.d[0], 0xabcd0000|res)
			}
			if c.sr&ccrMask != want {
				t.Errorf("ADD.W %04x+%04x flags got: %02x wanted: %02x", a, b, c.sr&ccrMask, want)
			}
		}
	}
}

func TestSubCmpFlags(t *testing.T) {
	// SUB.W D1,D0 then CMP.W D1,D0.
	c, _ := newTestCPU(t, 0x9041, 0xb041)
	c.d[0] = 0x0001
	c.d[1] = 0x0002
	c.Execute()
	if c.d[0] != 0xffff {
		t.Errorf("SUB.W got: %x wanted: %x", c.d[0], 0xffff)
	}
	if c.sr&ccrMask != flagX|flagN|flagC {
		t.Errorf("SUB.W flags got: %02x wanted: %02x", c.sr&ccrMask, flagX|flagN|flagC)
	}
	c.d[1] = 0xffff
	c.Execute()
	if c.sr&ccrMask != flagX|flagZ {
		t.Errorf("CMP.W flags got: %02x wanted: %02x", c.sr&ccrMask, flagX|flagZ)
	}
}

func TestIllegalFrame(t *testing.T) {
	c, m := newTestCPU(t, 0x4afc)
	m.SetUint32(uint32(vecIllegal)*4, testTrap)
	c.Execute()
	if c.PC() != testTrap {
		t.Errorf("Illegal PC got: %x wanted: %x", c.PC(), testTrap)
	}
	if c.a[7] != testSSP-6 {
		t.Errorf("Illegal SP got: %x wanted: %x", c.a[7], testSSP-6)
	}
	if v := m.GetUint16(testSSP - 6); v != 0x2700 {
		t.Errorf("Illegal frame SR got: %04x wanted: %04x", v, 0x2700)
	}
	if v := m.GetUint32(testSSP - 4); v != testPC {
		t.Errorf("Illegal frame PC got: %x wanted: %x", v, testPC)
	}
}

func TestTrapFrame(t *testing.T) {
	c, m := newTestCPU(t, 0x4e41)
	m.SetUint32(uint32(vecTrap+1)*4, testTrap)
	c.sr = 0x0000
	c.ssp = testSSP
	c.a[7] = 0x4000
	c.Execute()
	if c.PC() != testTrap {
		t.Errorf("Trap PC got: %x wanted: %x", c.PC(), testTrap)
	}
	if c.a[7] != testSSP-6 {
		t.Errorf("Trap SSP got: %x wanted: %x", c.a[7], testSSP-6)
	}
	if c.usp != 0x4000 {
		t.Errorf("Trap USP got: %x wanted: %x", c.usp, 0x4000)
	}
	if v := m.GetUint16(testSSP - 6); v != 0x0000 {
		t.Errorf("Trap frame SR got: %04x wanted: %04x", v, 0)
	}
	if v := m.GetUint32(testSSP - 4); v != testPC+2 {
		t.Errorf("Trap frame PC got: %x wanted: %x", v, testPC+2)
	}
	if !c.super() {
		t.Errorf("Trap not in supervisor mode")
	}
}

func TestAddressErrorFrame(t *testing.T) {
	// MOVE.W (A0),D0 with odd A0.
	c, m := newTestCPU(t, 0x3010)
	m.SetUint32(uint32(vecAddressError)*4, testTrap)
	c.a[0] = 0x3001
	c.Execute()
	if c.PC() != testTrap {
		t.Errorf("Address error PC got: %x wanted: %x", c.PC(), testTrap)
	}
	sp := uint32(testSSP - 14)
	if c.a[7] != sp {
		t.Fatalf("Address error SP got: %x wanted: %x", c.a[7], sp)
	}
	if v := m.GetUint16(sp); v != 0x1d {
		t.Errorf("Address error status got: %04x wanted: %04x", v, 0x1d)
	}
	if v := m.GetUint32(sp + 2); v != 0x3001 {
		t.Errorf("Address error address got: %x wanted: %x", v, 0x3001)
	}
	if v := m.GetUint16(sp + 6); v != 0x3010 {
		t.Errorf("Address error IR got: %04x wanted: %04x", v, 0x3010)
	}
	if v := m.GetUint16(sp + 8); v != 0x2700 {
		t.Errorf("Address error SR got: %04x wanted: %04x", v, 0x2700)
	}
	if v := m.GetUint32(sp + 10); v != testPC+2 {
		t.Errorf("Address error PC got: %x wanted: %x", v, testPC+2)
	}
}

func TestAddressErrorNoUpdate(t *testing.T) {
	tests := []struct {
		name string
		op   uint16
	}{
		{"MOVE.W (A0),D0", 0x3010},
		{"ADD.W (A0),D0", 0xd050},
		{"CMP.W (A0),D0", 0xb050},
		{"ADD.W D0,(A0)", 0xd150},
		{"AND.L D0,(A0)", 0xc190},
		{"NEG.W (A0)", 0x4450},
		{"MOVE.W D0,(A0)", 0x3080},
		{"MOVE.L D0,(A0)", 0x2080},
		{"CLR.W (A0)", 0x4250},
	}
	for _, test := range tests {
		c, m := newTestCPU(t, test.op)
		m.SetUint32(uint32(vecAddressError)*4, testTrap)
		m.SetUint32(0x3000, 0x11223344)
		m.SetUint32(0x3004, 0x55667788)
		c.a[0] = 0x3001
		c.d[0] = 0x12345678
		c.sr = 0x2715
		c.Execute()
		if c.PC() != testTrap {
			t.Errorf("%s PC got: %x wanted: %x", test.name, c.PC(), testTrap)
		}
		if c.d[0] != 0x12345678 {
			t.Errorf("%s D0 got: %08x wanted: %08x", test.name, c.d[0], 0x12345678)
		}
		if c.a[0] != 0x3001 {
			t.Errorf("%s A0 got: %x wanted: %x", test.name, c.a[0], 0x3001)
		}
		if v := c.sr & ccrMask; v != 0x15 {
			t.Errorf("%s CCR got: %02x wanted: %02x", test.name, v, 0x15)
		}
		if v := m.GetUint16(testSSP - 14 + 8); v != 0x2715 {
			t.Errorf("%s stacked SR got: %04x wanted: %04x", test.name, v, 0x2715)
		}
		if v := m.GetUint32(0x3000); v != 0x11223344 {
			t.Errorf("%s memory got: %08x wanted: %08x", test.name, v, 0x11223344)
		}
		if v := m.GetUint32(0x3004); v != 0x55667788 {
			t.Errorf("%s memory got: %08x wanted: %08x", test.name, v, 0x55667788)
		}
	}
}

func TestDoubleFault(t *testing.T) {
	c, m := newTestCPU(t, 0x4afc, 0x4e71)
	m.SetUint32(0, testSSP+1)
	c.Reset()
	c.Execute()
	if c.State() != cpu.Stopped {
		t.Errorf("Double fault state got: %v wanted: %v", c.State(), cpu.Stopped)
	}
	if !errors.Is(c.Fault(), cpu.ErrDoubleFault) {
		t.Errorf("Double fault error got: %v wanted: %v", c.Fault(), cpu.ErrDoubleFault)
	}
	pc := c.PC()
	before := c.Cycles()
	c.Clock(100)
	if c.PC() != pc {
		t.Errorf("Stopped CPU PC moved got: %x wanted: %x", c.PC(), pc)
	}
	if c.Cycles()-before != 100 {
		t.Errorf("Stopped CPU cycles got: %d wanted: %d", c.Cycles()-before, 100)
	}
	c.Reset()
	if c.State() != cpu.Running || c.Fault() != nil {
		t.Errorf("Reset did not clear double fault")
	}
}

func TestDivideByZero(t *testing.T) {
	// DIVU D1,D0.
	c, m := newTestCPU(t, 0x80c1)
	m.SetUint32(uint32(vecZeroDivide)*4, testTrap)
	c.d[0] = 100
	c.Execute()
	if c.PC() != testTrap {
		t.Errorf("Divide by zero PC got: %x wanted: %x", c.PC(), testTrap)
	}
	if v := m.GetUint32(testSSP - 4); v != testPC+2 {
		t.Errorf("Divide by zero frame PC got: %x wanted: %x", v, testPC+2)
	}

	c.pc = testPC
	c.d[0] = 100
	c.d[1] = 7
	c.Execute()
	if c.d[0] != 2<<16|14 {
		t.Errorf("DIVU got: %08x wanted: %08x", c.d[0], 2<<16|14)
	}
}

func TestInterrupt(t *testing.T) {
	c, m := newTestCPU(t, 0x4e71)
	m.SetUint32(uint32(vecAutoVector+3)*4, 0x4000)
	m.SetUint32(uint32(vecAutoVector+7)*4, 0x5000)
	m.SetUint16(0x4000, 0x4e71)

	// Masked at level 7.
	c.Interrupt(3)
	c.Execute()
	if c.PC() != testPC+2 {
		t.Errorf("Masked interrupt PC got: %x wanted: %x", c.PC(), testPC+2)
	}

	c.setSR(0x2000)
	c.Execute()
	if c.PC() != 0x4000 {
		t.Errorf("Interrupt PC got: %x wanted: %x", c.PC(), 0x4000)
	}
	if c.sr&iplMask != 0x0300 {
		t.Errorf("Interrupt mask got: %04x wanted: %04x", c.sr&iplMask, 0x0300)
	}

	// Equal level is not taken.
	c.Execute()
	if c.PC() != 0x4002 {
		t.Errorf("Interrupt at mask PC got: %x wanted: %x", c.PC(), 0x4002)
	}

	// Level 7 is taken even at mask 7.
	c.setSR(0x2700)
	c.Interrupt(7)
	c.Execute()
	if c.PC() != 0x5000 {
		t.Errorf("NMI PC got: %x wanted: %x", c.PC(), 0x5000)
	}
}

func TestZeroAutoVector(t *testing.T) {
	c, m := newTestCPU(t, 0x4e71)
	m.SetUint32(15*4, 0x4000)
	c.setSR(0x2000)
	c.Interrupt(2)
	c.Execute()
	if c.PC() != 0 {
		t.Errorf("Zero autovector PC got: %x wanted: %x", c.PC(), 0)
	}
	if v := m.GetUint32(testSSP - 6 + 2); v != testPC {
		t.Errorf("Zero autovector frame PC got: %x wanted: %x", v, testPC)
	}
}

func TestStop(t *testing.T) {
	c, m := newTestCPU(t, 0x4e72, 0x2000)
	m.SetUint32(uint32(vecAutoVector+2)*4, 0x4000)
	c.Execute()
	if c.State() != cpu.Halted {
		t.Fatalf("STOP state got: %v wanted: %v", c.State(), cpu.Halted)
	}
	pc := c.PC()
	c.Clock(40)
	if c.PC() != pc {
		t.Errorf("Stopped PC moved got: %x wanted: %x", c.PC(), pc)
	}
	c.Interrupt(2)
	c.Execute()
	if c.State() != cpu.Running {
		t.Errorf("Interrupt state got: %v wanted: %v", c.State(), cpu.Running)
	}
	if c.PC() != 0x4000 {
		t.Errorf("Interrupt PC got: %x wanted: %x", c.PC(), 0x4000)
	}
}

func TestPrivilege(t *testing.T) {
	// MOVE #$2700,SR in user mode.
	c, m := newTestCPU(t, 0x46fc, 0x2700)
	m.SetUint32(uint32(vecPrivilege)*4, testTrap)
	c.setSR(0x0000)
	c.Execute()
	if c.PC() != testTrap {
		t.Errorf("Privilege PC got: %x wanted: %x", c.PC(), testTrap)
	}
	if v := m.GetUint32(testSSP - 4); v != testPC {
		t.Errorf("Privilege frame PC got: %x wanted: %x", v, testPC)
	}
}

// Clock runs until the budget is used, carrying any overrun.
func TestClockAccounting(t *testing.T) {
	prog := make([]uint16, 100)
	for i := range prog {
		prog[i] = 0x4e71
	}
	c, _ := newTestCPU(t, prog...)
	start := c.Cycles()
	c.Clock(10)
	if c.Cycles()-start != 12 {
		t.Errorf("Clock(10) cycles got: %d wanted: %d", c.Cycles()-start, 12)
	}
	c.Clock(10)
	if c.Cycles()-start != 20 {
		t.Errorf("Clock(10) twice cycles got: %d wanted: %d", c.Cycles()-start, 20)
	}
	for n := uint64(1); n < 50; n += 7 {
		before := c.Cycles()
		owed := -c.credit.Balance()
		c.Clock(n)
		used := int64(c.Cycles() - before)
		if used < int64(n)-owed || used >= int64(n)-owed+4 {
			t.Errorf("Clock(%d) used: %d owed: %d", n, used, owed)
		}
	}
}

// Same program and state gives same result.
func TestDeterminism(t *testing.T) {
	prog := []uint16{0x700a, 0xd240, 0x51c8, 0xfffc, 0x4e71}
	run := func() (*CPU, uint64) {
		c, _ := newTestCPU(t, prog...)
		c.Clock(1000)
		return c, c.Cycles()
	}
	a, ca := run()
	b, cb := run()
	if ca != cb {
		t.Errorf("Cycles differ: %d %d", ca, cb)
	}
	if a.d != b.d || a.a != b.a || a.sr != b.sr || a.pc != b.pc {
		t.Errorf("Registers differ")
	}
	if a.d[1] != 55 {
		t.Errorf("Loop sum got: %d wanted: %d", a.d[1], 55)
	}
	if a.d[0]&0xffff != 0xffff {
		t.Errorf("Loop counter got: %x wanted: %x", a.d[0], 0xffff)
	}
}

func TestMovem(t *testing.T) {
	// MOVEM.L D0-D1/A0,-(A7); MOVEM.L (A7)+,D2-D3/A1.
	c, _ := newTestCPU(t, 0x48e7, 0xc080, 0x4cdf, 0x020c)
	c.d[0] = 0x11111111
	c.d[1] = 0x22222222
	c.a[0] = 0x33333333
	c.Execute()
	if c.a[7] != testSSP-12 {
		t.Errorf("MOVEM out SP got: %x wanted: %x", c.a[7], testSSP-12)
	}
	if v := c.mem.GetUint32(testSSP - 12); v != 0x11111111 {
		t.Errorf("MOVEM out D0 got: %x wanted: %x", v, 0x11111111)
	}
	c.Execute()
	if c.a[7] != testSSP {
		t.Errorf("MOVEM in SP got: %x wanted: %x", c.a[7], testSSP)
	}
	if c.d[2] != 0x11111111 || c.d[3] != 0x22222222 || c.a[1] != 0x33333333 {
		t.Errorf("MOVEM in got: %x %x %x", c.d[2], c.d[3], c.a[1])
	}
}

func TestShift(t *testing.T) {
	// LSL.W #1,D0; ASR.B #2,D1; ROXL.L #1,D2.
	c, _ := newTestCPU(t, 0xe348, 0xe401, 0xe392)
	c.d[0] = 0x8001
	c.d[1] = 0x82
	c.d[2] = 0x80000000
	c.Execute()
	if c.d[0] != 0x0002 {
		t.Errorf("LSL.W got: %x wanted: %x", c.d[0], 0x0002)
	}
	if c.sr&(flagC|flagX) != flagC|flagX {
		t.Errorf("LSL.W carry got: %02x", c.sr&ccrMask)
	}
	c.Execute()
	if c.d[1] != 0xe0 {
		t.Errorf("ASR.B got: %x wanted: %x", c.d[1], 0xe0)
	}
	if c.sr&flagC == 0 || c.sr&flagN == 0 {
		t.Errorf("ASR.B flags got: %02x", c.sr&ccrMask)
	}
	c.sr &^= flagX
	c.Execute()
	if c.d[2] != 0x00000000 {
		t.Errorf("ROXL.L got: %x wanted: %x", c.d[2], 0)
	}
	if c.sr&(flagC|flagX|flagZ) != flagC|flagX|flagZ {
		t.Errorf("ROXL.L flags got: %02x", c.sr&ccrMask)
	}
}

func TestBCD(t *testing.T) {
	// ABCD D1,D0; SBCD D1,D0.
	c, _ := newTestCPU(t, 0xc101, 0x8101)
	c.d[0] = 0x45
	c.d[1] = 0x38
	c.sr = 0x2704
	c.Execute()
	if c.d[0] != 0x83 {
		t.Errorf("ABCD got: %x wanted: %x", c.d[0], 0x83)
	}
	if c.sr&flagZ != 0 {
		t.Errorf("ABCD did not clear Z")
	}
	c.d[1] = 0x84
	c.Execute()
	if c.d[0] != 0x99 {
		t.Errorf("SBCD got: %x wanted: %x", c.d[0], 0x99)
	}
	if c.sr&flagC == 0 {
		t.Errorf("SBCD borrow not set")
	}
}

func TestRegisters(t *testing.T) {
	c, _ := newTestCPU(t)
	if err := c.SetReg("d0", 0x12345678); err != nil {
		t.Fatalf("SetReg d0 error: %v", err)
	}
	if err := c.SetReg("d0.b", 0x1ff); err != nil {
		t.Fatalf("SetReg d0.b error: %v", err)
	}
	v, err := c.GetReg("D0")
	if err != nil || v != 0x123456ff {
		t.Errorf("GetReg d0 got: %x wanted: %x", v, 0x123456ff)
	}
	v, _ = c.GetReg("d0.w")
	if v != 0x56ff {
		t.Errorf("GetReg d0.w got: %x wanted: %x", v, 0x56ff)
	}
	if err := c.SetReg("usp", 0x3000); err != nil {
		t.Fatalf("SetReg usp error: %v", err)
	}
	if c.usp != 0x3000 {
		t.Errorf("SetReg usp got: %x wanted: %x", c.usp, 0x3000)
	}
	if _, err := c.GetReg("d8"); !errors.Is(err, cpu.ErrUnknownRegister) {
		t.Errorf("GetReg d8 error got: %v wanted: %v", err, cpu.ErrUnknownRegister)
	}
	if len(c.Registers()) != 20 {
		t.Errorf("Registers got: %d wanted: %d", len(c.Registers()), 20)
	}
}

func TestDisassemble(t *testing.T) {
	c, m := newTestCPU(t)
	tests := []struct {
		prog []uint16
		text string
		size uint32
	}{
		{[]uint16{0x4e71}, "nop", 2},
		{[]uint16{0x3010}, "move.w (A0),D0", 2},
		{[]uint16{0x700a}, "moveq #10,D0", 2},
		{[]uint16{0xd041}, "add.w D1,D0", 2},
		{[]uint16{0x0640, 0x1234}, "addi.w #$1234,D0", 4},
		{[]uint16{0x51c8, 0xfffc}, "dbf D0,$000FFE", 4},
		{[]uint16{0x4e41}, "trap #1", 2},
		{[]uint16{0xc101}, "abcd.b D1,D0", 2},
		{[]uint16{0xe348}, "lsl.w #1,D0", 2},
	}
	for _, test := range tests {
		for i, w := range test.prog {
			m.SetUint16(testPC+uint32(2*i), w)
		}
		text, size := c.Disassemble(testPC)
		if text != test.text || size != test.size {
			t.Errorf("Disassemble %04x got: %q %d wanted: %q %d", test.prog[0], text, size, test.text, test.size)
		}
	}
}

func TestHooks(t *testing.T) {
	ctrl := gomock.NewController(t)
	hooks := mock_device.NewMockHooks(ctrl)
	hooks.EXPECT().OnHook(uint32(testPC), uint32(0x1234)).Times(1)
	hooks.EXPECT().OnUndefined(uint32(testPC+4), uint32(0x4afc)).Return(true)

	m := memory.New("mem", memory.BigEndian)
	m.Add(memory.NewRAM("ram", 0, 0x10000))
	m.SetUint32(0, testSSP)
	m.SetUint32(4, testPC)
	m.SetUint16(testPC, hookOpcode)
	m.SetUint16(testPC+2, 0x1234)
	m.SetUint16(testPC+4, 0x4afc)
	c := New(m, WithHooks(hooks))
	c.Reset()
	c.Execute()
	c.Execute()
	if c.PC() != testPC+6 {
		t.Errorf("Hooked PC got: %x wanted: %x", c.PC(), testPC+6)
	}
}
