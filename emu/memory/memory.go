/*
 * PCE - Memory and port dispatch
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
	"fmt"
	"os"
)

/*
   Every bus in a machine is a Map: an ordered list of Blocks. A lookup
   walks the list from the front and the first block whose range contains
   the address services the access. Blocks may overlap, the front most one
   wins, so a ROM shadow or a memory mapped register window can be laid over
   RAM and later moved to the front or removed.

   A block is backed either by a byte slice, by callbacks, or both. When a
   callback for the width being accessed is present it is always used. If a
   block has no accessor of the requested width the access is built from
   byte accesses in the byte order of the map. Addresses nobody decodes read
   as the floating bus value (all ones by default) and writes to them are
   dropped.
*/

// Endian selects how wider accesses are assembled from bytes.
type Endian int

const (
	BigEndian Endian = iota
	LittleEndian
)

// Block is one decoded region of an address space. Callbacks receive the
// absolute bus address.
type Block struct {
	Name     string // Name shown by the monitor.
	Addr     uint32 // First address decoded.
	Size     uint32 // Number of bytes decoded.
	Data     []byte // Backing store, may be nil.
	ReadOnly bool   // Drop writes to Data.

	Get8  func(addr uint32) uint8
	Get16 func(addr uint32) uint16
	Get32 func(addr uint32) uint32
	Set8  func(addr uint32, val uint8)
	Set16 func(addr uint32, val uint16)
	Set32 func(addr uint32, val uint32)
}

// Map is an ordered set of blocks sharing one address space.
type Map struct {
	Name   string
	endian Endian
	float  uint8
	blocks []*Block
}

// Create a new empty address space.
func New(name string, endian Endian) *Map {
	return &Map{Name: name, endian: endian, float: 0xff}
}

// Create a RAM block of size bytes.
func NewRAM(name string, addr, size uint32) *Block {
	return &Block{Name: name, Addr: addr, Size: size, Data: make([]byte, size)}
}

// Create a ROM block of size bytes, filled with the erased pattern.
func NewROM(name string, addr, size uint32) *Block {
	blk := &Block{Name: name, Addr: addr, Size: size, Data: make([]byte, size), ReadOnly: true}
	for i := range blk.Data {
		blk.Data[i] = 0xff
	}
	return blk
}

// Check if block decodes address.
func (blk *Block) Contains(addr uint32) bool {
	return addr >= blk.Addr && (addr-blk.Addr) < blk.Size
}

// Last address decoded by block.
func (blk *Block) End() uint32 {
	return blk.Addr + blk.Size - 1
}

// Clear backing store of block.
func (blk *Block) Clear() {
	for i := range blk.Data {
		blk.Data[i] = 0
	}
}

// Byte order of this address space.
func (m *Map) Endian() Endian {
	return m.endian
}

// Set value returned for bytes nobody decodes.
func (m *Map) SetFloat(val uint8) {
	m.float = val
}

// Current float value for a byte.
func (m *Map) Float() uint8 {
	return m.float
}

// Add block at the back of the list.
func (m *Map) Add(blk *Block) {
	if blk.Data != nil && uint32(len(blk.Data)) < blk.Size {
		blk.Size = uint32(len(blk.Data))
	}
	m.blocks = append(m.blocks, blk)
}

// Remove block from list, returns false if not there.
func (m *Map) Remove(blk *Block) bool {
	for i, b := range m.blocks {
		if b == blk {
			m.blocks = append(m.blocks[:i], m.blocks[i+1:]...)
			return true
		}
	}
	return false
}

// Give block highest priority.
func (m *Map) MoveToFront(blk *Block) bool {
	for i, b := range m.blocks {
		if b != blk {
			continue
		}
		copy(m.blocks[1:i+1], m.blocks[:i])
		m.blocks[0] = blk
		return true
	}
	return false
}

// Return current block list in priority order.
func (m *Map) Blocks() []*Block {
	return m.blocks
}

// Find block that decodes address.
func (m *Map) Find(addr uint32) *Block {
	for _, blk := range m.blocks {
		if blk.Contains(addr) {
			return blk
		}
	}
	return nil
}

// Find block by name.
func (m *Map) Lookup(name string) *Block {
	for _, blk := range m.blocks {
		if blk.Name == name {
			return blk
		}
	}
	return nil
}

// Read a byte.
func (m *Map) GetUint8(addr uint32) uint8 {
	blk := m.Find(addr)
	if blk == nil {
		return m.float
	}
	return m.blockGet8(blk, addr)
}

// Read a 16 bit value.
func (m *Map) GetUint16(addr uint32) uint16 {
	blk := m.Find(addr)
	if blk == nil {
		if m.Find(addr+1) == nil {
			return uint16(m.float)<<8 | uint16(m.float)
		}
	} else if blk.Contains(addr + 1) {
		if blk.Get16 != nil {
			return blk.Get16(addr)
		}
		if blk.Get8 == nil && blk.Data != nil {
			off := addr - blk.Addr
			if m.endian == BigEndian {
				return uint16(blk.Data[off])<<8 | uint16(blk.Data[off+1])
			}
			return uint16(blk.Data[off]) | uint16(blk.Data[off+1])<<8
		}
	}

	b0 := uint16(m.GetUint8(addr))
	b1 := uint16(m.GetUint8(addr + 1))
	if m.endian == BigEndian {
		return b0<<8 | b1
	}
	return b1<<8 | b0
}

// Read a 32 bit value.
func (m *Map) GetUint32(addr uint32) uint32 {
	blk := m.Find(addr)
	if blk != nil && blk.Contains(addr+3) {
		if blk.Get32 != nil {
			return blk.Get32(addr)
		}
		if blk.Get8 == nil && blk.Get16 == nil && blk.Data != nil {
			off := addr - blk.Addr
			d := blk.Data[off : off+4]
			if m.endian == BigEndian {
				return uint32(d[0])<<24 | uint32(d[1])<<16 | uint32(d[2])<<8 | uint32(d[3])
			}
			return uint32(d[3])<<24 | uint32(d[2])<<16 | uint32(d[1])<<8 | uint32(d[0])
		}
	}

	h0 := uint32(m.GetUint16(addr))
	h1 := uint32(m.GetUint16(addr + 2))
	if m.endian == BigEndian {
		return h0<<16 | h1
	}
	return h1<<16 | h0
}

// Write a byte.
func (m *Map) SetUint8(addr uint32, val uint8) {
	blk := m.Find(addr)
	if blk == nil {
		return
	}
	m.blockSet8(blk, addr, val)
}

// Write a 16 bit value.
func (m *Map) SetUint16(addr uint32, val uint16) {
	blk := m.Find(addr)
	if blk != nil && blk.Contains(addr+1) {
		if blk.Set16 != nil {
			blk.Set16(addr, val)
			return
		}
		if blk.Set8 == nil && blk.Data != nil {
			if blk.ReadOnly {
				return
			}
			off := addr - blk.Addr
			if m.endian == BigEndian {
				blk.Data[off] = uint8(val >> 8)
				blk.Data[off+1] = uint8(val)
			} else {
				blk.Data[off] = uint8(val)
				blk.Data[off+1] = uint8(val >> 8)
			}
			return
		}
	}

	if m.endian == BigEndian {
		m.SetUint8(addr, uint8(val>>8))
		m.SetUint8(addr+1, uint8(val))
	} else {
		m.SetUint8(addr, uint8(val))
		m.SetUint8(addr+1, uint8(val>>8))
	}
}

// Write a 32 bit value.
func (m *Map) SetUint32(addr uint32, val uint32) {
	blk := m.Find(addr)
	if blk != nil && blk.Contains(addr+3) {
		if blk.Set32 != nil {
			blk.Set32(addr, val)
			return
		}
		if blk.Set8 == nil && blk.Set16 == nil && blk.Data != nil {
			if blk.ReadOnly {
				return
			}
			off := addr - blk.Addr
			d := blk.Data[off : off+4]
			if m.endian == BigEndian {
				d[0], d[1], d[2], d[3] = uint8(val>>24), uint8(val>>16), uint8(val>>8), uint8(val)
			} else {
				d[3], d[2], d[1], d[0] = uint8(val>>24), uint8(val>>16), uint8(val>>8), uint8(val)
			}
			return
		}
	}

	if m.endian == BigEndian {
		m.SetUint16(addr, uint16(val>>16))
		m.SetUint16(addr+2, uint16(val))
	} else {
		m.SetUint16(addr, uint16(val))
		m.SetUint16(addr+2, uint16(val>>16))
	}
}

// Copy data into backing store starting at addr, ignoring read only.
// Returns number of bytes placed.
func (m *Map) Load(addr uint32, data []byte) int {
	n := 0
	for i, by := range data {
		a := addr + uint32(i)
		blk := m.Find(a)
		if blk == nil || blk.Data == nil {
			continue
		}
		blk.Data[a-blk.Addr] = by
		n++
	}
	return n
}

// Load file into memory at address.
func (m *Map) LoadFile(fileName string, addr uint32) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return fmt.Errorf("unable to load %s: %w", fileName, err)
	}
	if n := m.Load(addr, data); n != len(data) {
		return fmt.Errorf("%s: only %d of %d bytes mapped at %08x", fileName, n, len(data), addr)
	}
	return nil
}

// Read byte from a given block.
func (m *Map) blockGet8(blk *Block, addr uint32) uint8 {
	if blk.Get8 != nil {
		return blk.Get8(addr)
	}
	if blk.Data != nil {
		return blk.Data[addr-blk.Addr]
	}

	// Block only has wider accessors, pick out lane.
	switch {
	case blk.Get16 != nil:
		val := blk.Get16(addr &^ 1)
		if (addr&1 == 0) == (m.endian == BigEndian) {
			return uint8(val >> 8)
		}
		return uint8(val)
	case blk.Get32 != nil:
		val := blk.Get32(addr &^ 3)
		shift := (addr & 3) * 8
		if m.endian == BigEndian {
			shift = 24 - shift
		}
		return uint8(val >> shift)
	}
	return m.float
}

// Write byte to given block.
func (m *Map) blockSet8(blk *Block, addr uint32, val uint8) {
	if blk.Set8 != nil {
		blk.Set8(addr, val)
		return
	}
	if blk.Data != nil {
		if !blk.ReadOnly {
			blk.Data[addr-blk.Addr] = val
		}
		return
	}
	if blk.Set16 != nil {
		cur := m.blockGet16(blk, addr&^1)
		if (addr&1 == 0) == (m.endian == BigEndian) {
			cur = (cur & 0x00ff) | uint16(val)<<8
		} else {
			cur = (cur & 0xff00) | uint16(val)
		}
		blk.Set16(addr&^1, cur)
	}
}

// Read 16 bits for byte lane merge.
func (m *Map) blockGet16(blk *Block, addr uint32) uint16 {
	if blk.Get16 != nil {
		return blk.Get16(addr)
	}
	return uint16(m.float)<<8 | uint16(m.float)
}
