/*
 * PCE - 8237 DMA controller
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

package dma8237

import (
	"fmt"
	"strings"

	"github.com/rcornwell/pce/emu/device"
	"github.com/rcornwell/pce/emu/memory"
	"github.com/rcornwell/pce/util/debug"
)

/*
   Four channel DMA controller with the PC page registers. Transfers are
   done one byte per input tick for each channel with an active request.

   Register offsets:
     0-7  channel address (even) and count (odd), through the byte flip flop
     8    status (read), command (write)
     9    request
     a    single mask bit
     b    mode
     c    clear flip flop
     d    temporary (read), master clear (write)
     e    clear all mask bits
     f    all mask bits
*/

const (
	// Debug options.
	debugCmd = 1 << iota
	debugXfer
)

var debugOption = map[string]int{
	"CMD":  debugCmd,
	"XFER": debugXfer,
}

// Mode register fields.
const (
	modeVerify  = 0x00
	modeWrite   = 0x04
	modeRead    = 0x08
	modeXfer    = 0x0c
	modeAuto    = 0x10
	modeDown    = 0x20
	modeSelect  = 0xc0
	modeDemand  = 0x00
	modeSingle  = 0x40
	modeBlock   = 0x80
	cmdDisabled = 0x04
)

// Page register offset for each channel.
var pageIndex = [4]uint32{7, 3, 1, 2}

type channel struct {
	baseAddr uint16
	baseCnt  uint16
	addr     uint16
	count    uint16
	mode     uint8
	page     uint8
	dreq     bool         // Request line level.
	req      bool         // Request latched for service.
	read     func() uint8 // Device supplies byte for memory write.
	write    func(uint8)  // Device accepts byte from memory read.
	tc       device.Line
}

type DMA struct {
	name     string
	mem      *memory.Map
	chans    [4]channel
	command  uint8
	status   uint8
	mask     uint8
	temp     uint8
	flipFlop bool
	pages    [16]uint8
	debugMsk int
}

// Create controller transferring to and from mem.
func New(name string, mem *memory.Map) *DMA {
	d := &DMA{name: name, mem: mem}
	d.Reset()
	return d
}

// Connect device side of channel n, either function may be nil.
func (d *DMA) Connect(n int, read func() uint8, write func(uint8), tc device.Line) {
	c := &d.chans[n&3]
	c.read = read
	c.write = write
	c.tc = tc
}

// Line driving request input of channel n.
func (d *DMA) DREQ(n int) device.Line {
	return func(level bool) {
		d.Request(n, level)
	}
}

// Change level of request input of channel n.
func (d *DMA) Request(n int, level bool) {
	c := &d.chans[n&3]
	if level && !c.dreq {
		c.req = true
		d.status |= 0x10 << (n & 3)
	}
	if !level {
		d.status &^= 0x10 << (n & 3)
		if c.mode&modeSelect == modeDemand {
			c.req = false
		}
	}
	c.dreq = level
}

// Current address of channel n including page.
func (d *DMA) Address(n int) uint32 {
	c := &d.chans[n&3]
	return uint32(c.page)<<16 | uint32(c.addr)
}

// Remaining count of channel n.
func (d *DMA) Count(n int) uint16 {
	return d.chans[n&3].count
}

func (d *DMA) Name() string {
	return d.name
}

func (d *DMA) Reset() {
	for i := range d.chans {
		c := &d.chans[i]
		c.baseAddr, c.baseCnt, c.addr, c.count = 0, 0, 0, 0
		c.mode = 0
		c.req = false
		c.dreq = false
	}
	d.command = 0
	d.status = 0
	d.temp = 0
	d.mask = 0x0f
	d.flipFlop = false
}

func (d *DMA) Debug(opt string) error {
	return debug.SetOption(d.name, debugOption, &d.debugMsk, opt)
}

func (d *DMA) Show() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: command=%02x status=%02x mask=%x\n", d.name, d.command, d.status, d.mask)
	for i, c := range d.chans {
		fmt.Fprintf(&b, "  ch%d: addr=%02x:%04x count=%04x base=%04x/%04x mode=%02x\n",
			i, c.page, c.addr, c.count, c.baseAddr, c.baseCnt, c.mode)
	}
	return b.String()
}

// Block decoding the sixteen controller ports at addr.
func (d *DMA) Block(addr uint32) *memory.Block {
	return &memory.Block{
		Name: d.name,
		Addr: addr,
		Size: 16,
		Get8: func(a uint32) uint8 { return d.Get8(a - addr) },
		Set8: func(a uint32, v uint8) { d.Set8(a-addr, v) },
	}
}

// Block decoding the page registers at addr.
func (d *DMA) PageBlock(addr uint32) *memory.Block {
	return &memory.Block{
		Name: d.name + "-page",
		Addr: addr,
		Size: 16,
		Get8: func(a uint32) uint8 { return d.pages[(a-addr)&0xf] },
		Set8: func(a uint32, v uint8) {
			reg := (a - addr) & 0xf
			d.pages[reg] = v
			for i, p := range pageIndex {
				if p == reg {
					d.chans[i].page = v
				}
			}
		},
	}
}

func (d *DMA) Get8(reg uint32) uint8 {
	reg &= 0xf
	if reg < 8 {
		c := &d.chans[reg>>1]
		v := c.addr
		if reg&1 != 0 {
			v = c.count
		}
		return d.byteOf(v)
	}
	switch reg {
	case 0x8:
		v := d.status
		d.status &^= 0x0f
		return v
	case 0xd:
		return d.temp
	case 0xf:
		return d.mask | 0xf0
	}
	return 0xff
}

func (d *DMA) Set8(reg uint32, val uint8) {
	reg &= 0xf
	if reg < 8 {
		c := &d.chans[reg>>1]
		if reg&1 == 0 {
			c.baseAddr = d.setByte(c.baseAddr, val)
			c.addr = c.baseAddr
		} else {
			c.baseCnt = d.setByte(c.baseCnt, val)
			c.count = c.baseCnt
		}
		if !d.flipFlop {
			debug.Debugf(d.name, d.debugMsk, debugCmd, "ch%d addr %04x count %04x", reg>>1, c.addr, c.count)
		}
		return
	}
	switch reg {
	case 0x8:
		d.command = val
	case 0x9:
		c := &d.chans[val&3]
		c.req = val&4 != 0
	case 0xa:
		if val&4 != 0 {
			d.mask |= 1 << (val & 3)
		} else {
			d.mask &^= 1 << (val & 3)
		}
	case 0xb:
		d.chans[val&3].mode = val &^ 3
		debug.Debugf(d.name, d.debugMsk, debugCmd, "ch%d mode %02x", val&3, val)
	case 0xc:
		d.flipFlop = false
	case 0xd:
		d.Reset()
	case 0xe:
		d.mask = 0
	case 0xf:
		d.mask = val & 0xf
	}
}

func (d *DMA) byteOf(v uint16) uint8 {
	d.flipFlop = !d.flipFlop
	if d.flipFlop {
		return uint8(v)
	}
	return uint8(v >> 8)
}

func (d *DMA) setByte(old uint16, val uint8) uint16 {
	d.flipFlop = !d.flipFlop
	if d.flipFlop {
		return old&0xff00 | uint16(val)
	}
	return old&0x00ff | uint16(val)<<8
}

// Run n transfer cycles.
func (d *DMA) Clock(n uint64) {
	if d.command&cmdDisabled != 0 {
		return
	}
	for range n {
		for i := range d.chans {
			c := &d.chans[i]
			if !c.req || d.mask&(1<<i) != 0 {
				continue
			}
			d.transfer(i, c)
		}
	}
}

func (d *DMA) transfer(n int, c *channel) {
	addr := uint32(c.page)<<16 | uint32(c.addr)
	switch c.mode & modeXfer {
	case modeWrite:
		v := uint8(0xff)
		if c.read != nil {
			v = c.read()
		}
		d.mem.SetUint8(addr, v)
	case modeRead:
		v := d.mem.GetUint8(addr)
		d.temp = v
		if c.write != nil {
			c.write(v)
		}
	}
	debug.Debugf(d.name, d.debugMsk, debugXfer, "ch%d transfer %05x count %04x", n, addr, c.count)

	if c.mode&modeDown != 0 {
		c.addr--
	} else {
		c.addr++
	}
	c.count--
	if c.count != 0xffff {
		if c.mode&modeSelect == modeSingle {
			c.req = false
		}
		return
	}

	// Terminal count.
	d.status |= 1 << n
	c.req = false
	if c.mode&modeAuto != 0 {
		c.addr = c.baseAddr
		c.count = c.baseCnt
	} else {
		d.mask |= 1 << n
	}
	c.tc.Set(true)
	c.tc.Set(false)
}
