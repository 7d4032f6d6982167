/*
 * PCE - Memory dispatch test cases
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

package memory

import (
	"os"
	"path/filepath"
	"testing"
)

// Two overlapping blocks, front most one services access.
func TestDispatchPriority(t *testing.T) {
	m := New("mem", BigEndian)
	a := NewRAM("a", 0x100, 0x100)
	b := NewRAM("b", 0x180, 0x100)
	m.Add(a)
	m.Add(b)
	a.Data[0x90] = 0x11
	b.Data[0x10] = 0x22

	v := m.GetUint8(0x190)
	if v != 0x11 {
		t.Errorf("GetUint8 before move got: %02x wanted: %02x", v, 0x11)
	}

	if !m.MoveToFront(b) {
		t.Errorf("MoveToFront did not find block")
	}
	v = m.GetUint8(0x190)
	if v != 0x22 {
		t.Errorf("GetUint8 after move got: %02x wanted: %02x", v, 0x22)
	}

	// Region only decoded by a still works.
	a.Data[0] = 0x33
	v = m.GetUint8(0x100)
	if v != 0x33 {
		t.Errorf("GetUint8 of a only region got: %02x wanted: %02x", v, 0x33)
	}

	if !m.Remove(b) {
		t.Errorf("Remove did not find block")
	}
	v = m.GetUint8(0x190)
	if v != 0x11 {
		t.Errorf("GetUint8 after remove got: %02x wanted: %02x", v, 0x11)
	}
	if m.Remove(b) {
		t.Errorf("Remove found block twice")
	}
}

// Nothing decoded returns all ones.
func TestBusFloat(t *testing.T) {
	m := New("mem", LittleEndian)
	m.Add(NewRAM("ram", 0, 16))

	if v := m.GetUint8(0x1000); v != 0xff {
		t.Errorf("GetUint8 float got: %02x wanted: %02x", v, 0xff)
	}
	if v := m.GetUint16(0x1000); v != 0xffff {
		t.Errorf("GetUint16 float got: %04x wanted: %04x", v, 0xffff)
	}
	if v := m.GetUint32(0x1000); v != 0xffffffff {
		t.Errorf("GetUint32 float got: %08x wanted: %08x", v, 0xffffffff)
	}

	// Writes are dropped silently.
	m.SetUint8(0x1000, 1)
	m.SetUint16(0x1000, 2)
	m.SetUint32(0x1000, 3)

	// Straddle end of block, high byte floats.
	m.SetUint8(15, 0x5a)
	if v := m.GetUint16(15); v != 0xff5a {
		t.Errorf("GetUint16 straddle got: %04x wanted: %04x", v, 0xff5a)
	}

	m.SetFloat(0)
	if v := m.GetUint16(0x1000); v != 0 {
		t.Errorf("GetUint16 with zero float got: %04x wanted: %04x", v, 0)
	}
}

// Sixteen bytes of RAM at 0 and a status register at 0x20.
func TestStatusRegister(t *testing.T) {
	m := New("mem", BigEndian)
	m.Add(NewRAM("ram", 0, 16))

	var lastAddr uint32
	var lastVal uint8
	writes := 0
	m.Add(&Block{
		Name: "status",
		Addr: 0x20,
		Size: 1,
		Get8: func(_ uint32) uint8 { return 0x80 },
		Set8: func(addr uint32, val uint8) {
			lastAddr = addr
			lastVal = val
			writes++
		},
	})

	m.SetUint8(0x20, 0x42)
	if writes != 1 || lastAddr != 0x20 || lastVal != 0x42 {
		t.Errorf("status write got: %d %02x %02x wanted: 1 20 42", writes, lastAddr, lastVal)
	}
	if v := m.GetUint8(0x20); v != 0x80 {
		t.Errorf("status read got: %02x wanted: %02x", v, 0x80)
	}
	if v := m.GetUint8(0x21); v != 0xff {
		t.Errorf("read past status got: %02x wanted: %02x", v, 0xff)
	}

	for i := range uint32(16) {
		m.SetUint8(i, uint8(i*3))
	}
	for i := range uint32(16) {
		if v := m.GetUint8(i); v != uint8(i*3) {
			t.Errorf("RAM %x got: %02x wanted: %02x", i, v, uint8(i*3))
		}
	}
	if v := m.GetUint8(0x10); v != 0xff {
		t.Errorf("read past RAM got: %02x wanted: %02x", v, 0xff)
	}
}

// Wide access to byte only device is built from bytes.
func TestSynthesize(t *testing.T) {
	regs := [4]uint8{0x12, 0x34, 0x56, 0x78}
	var seen []uint32
	dev := &Block{
		Name: "dev",
		Addr: 0x40,
		Size: 4,
		Get8: func(addr uint32) uint8 {
			seen = append(seen, addr)
			return regs[addr-0x40]
		},
		Set8: func(addr uint32, val uint8) { regs[addr-0x40] = val },
	}

	big := New("big", BigEndian)
	big.Add(dev)
	if v := big.GetUint16(0x40); v != 0x1234 {
		t.Errorf("big GetUint16 got: %04x wanted: %04x", v, 0x1234)
	}
	if len(seen) != 2 || seen[0] != 0x40 || seen[1] != 0x41 {
		t.Errorf("byte accesses not in order: %v", seen)
	}
	if v := big.GetUint32(0x40); v != 0x12345678 {
		t.Errorf("big GetUint32 got: %08x wanted: %08x", v, 0x12345678)
	}

	little := New("little", LittleEndian)
	little.Add(dev)
	if v := little.GetUint16(0x40); v != 0x3412 {
		t.Errorf("little GetUint16 got: %04x wanted: %04x", v, 0x3412)
	}
	if v := little.GetUint32(0x40); v != 0x78563412 {
		t.Errorf("little GetUint32 got: %08x wanted: %08x", v, 0x78563412)
	}

	little.SetUint16(0x42, 0xbeef)
	if regs[2] != 0xef || regs[3] != 0xbe {
		t.Errorf("little SetUint16 got: %02x %02x wanted: ef be", regs[2], regs[3])
	}
	big.SetUint32(0x40, 0x01020304)
	if regs != [4]uint8{1, 2, 3, 4} {
		t.Errorf("big SetUint32 got: %v", regs)
	}
}

// Native wide accessor preferred over bytes.
func TestNativeAccessor(t *testing.T) {
	m := New("mem", BigEndian)
	calls8 := 0
	calls16 := 0
	m.Add(&Block{
		Name:  "dev",
		Addr:  0,
		Size:  4,
		Get8:  func(_ uint32) uint8 { calls8++; return 0 },
		Get16: func(addr uint32) uint16 { calls16++; return 0xa000 | uint16(addr) },
	})
	if v := m.GetUint16(2); v != 0xa002 {
		t.Errorf("GetUint16 got: %04x wanted: %04x", v, 0xa002)
	}
	if v := m.GetUint32(0); v != 0xa000a002 {
		t.Errorf("GetUint32 got: %08x wanted: %08x", v, 0xa000a002)
	}
	if calls8 != 0 || calls16 != 3 {
		t.Errorf("accessor counts got: %d %d wanted: 0 3", calls8, calls16)
	}
}

// Block with only 16 bit accessors still answers byte reads.
func TestByteLane(t *testing.T) {
	var reg uint16 = 0x1234
	m := New("mem", LittleEndian)
	m.Add(&Block{
		Name:  "reg",
		Addr:  0x10,
		Size:  2,
		Get16: func(_ uint32) uint16 { return reg },
		Set16: func(_ uint32, val uint16) { reg = val },
	})
	if v := m.GetUint8(0x10); v != 0x34 {
		t.Errorf("low lane got: %02x wanted: %02x", v, 0x34)
	}
	if v := m.GetUint8(0x11); v != 0x12 {
		t.Errorf("high lane got: %02x wanted: %02x", v, 0x12)
	}
	m.SetUint8(0x11, 0xab)
	if reg != 0xab34 {
		t.Errorf("merge write got: %04x wanted: %04x", reg, 0xab34)
	}
}

// ROM ignores writes but can be loaded.
func TestROM(t *testing.T) {
	m := New("mem", BigEndian)
	rom := NewROM("rom", 0xf000, 0x100)
	m.Add(rom)

	m.SetUint8(0xf000, 0)
	m.SetUint16(0xf002, 0)
	m.SetUint32(0xf004, 0)
	if v := m.GetUint32(0xf000); v != 0xffffffff {
		t.Errorf("ROM write not ignored got: %08x", v)
	}

	n := m.Load(0xf000, []byte{0x4e, 0x71})
	if n != 2 {
		t.Errorf("Load count got: %d wanted: 2", n)
	}
	if v := m.GetUint16(0xf000); v != 0x4e71 {
		t.Errorf("Load data got: %04x wanted: %04x", v, 0x4e71)
	}

	dir := t.TempDir()
	name := filepath.Join(dir, "rom.bin")
	if err := os.WriteFile(name, []byte{1, 2, 3, 4}, 0o600); err != nil {
		t.Fatal(err)
	}
	if err := m.LoadFile(name, 0xf0fe); err == nil {
		t.Errorf("LoadFile past end of ROM did not fail")
	}
	if err := m.LoadFile(name, 0xf010); err != nil {
		t.Errorf("LoadFile failed: %v", err)
	}
	if v := m.GetUint32(0xf010); v != 0x01020304 {
		t.Errorf("LoadFile data got: %08x wanted: %08x", v, 0x01020304)
	}
}

// Wide RAM access honours byte order.
func TestRAMEndian(t *testing.T) {
	big := New("big", BigEndian)
	br := NewRAM("ram", 0, 8)
	big.Add(br)
	big.SetUint32(0, 0x11223344)
	if br.Data[0] != 0x11 || br.Data[3] != 0x44 {
		t.Errorf("big RAM layout got: % x", br.Data[:4])
	}
	if v := big.GetUint16(2); v != 0x3344 {
		t.Errorf("big GetUint16 got: %04x wanted: %04x", v, 0x3344)
	}

	little := New("little", LittleEndian)
	lr := NewRAM("ram", 0, 8)
	little.Add(lr)
	little.SetUint32(4, 0x11223344)
	if lr.Data[4] != 0x44 || lr.Data[7] != 0x11 {
		t.Errorf("little RAM layout got: % x", lr.Data[4:])
	}
	if v := little.GetUint16(6); v != 0x1122 {
		t.Errorf("little GetUint16 got: %04x wanted: %04x", v, 0x1122)
	}
}
