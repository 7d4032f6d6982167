/*
 * PCE - EC-7879 memory window
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

package ibmpc

import (
	"fmt"
	"log/slog"

	"github.com/rcornwell/pce/emu/memory"
)

/*
   The EC-7879 window is decoded but its behaviour is unknown. Reads return
   the bus float, writes are dropped, every access is logged so a trace of
   real software can be collected. Only present when configured.
*/

type EC7879 struct {
	name   string
	addr   uint32
	size   uint32
	float  uint8
	reads  uint64
	writes uint64
}

func NewEC7879(name string, addr, size uint32, float uint8) *EC7879 {
	return &EC7879{name: name, addr: addr, size: size, float: float}
}

func (e *EC7879) Block() *memory.Block {
	return &memory.Block{
		Name: e.name,
		Addr: e.addr,
		Size: e.size,
		Get8: e.get8,
		Set8: e.set8,
	}
}

func (e *EC7879) get8(addr uint32) uint8 {
	e.reads++
	slog.Debug("ec7879 read", "address", fmt.Sprintf("%05x", addr))
	return e.float
}

func (e *EC7879) set8(addr uint32, val uint8) {
	e.writes++
	slog.Debug("ec7879 write", "address", fmt.Sprintf("%05x", addr), "value", fmt.Sprintf("%02x", val))
}

func (e *EC7879) Name() string {
	return e.name
}

func (e *EC7879) Reset() {
	e.reads = 0
	e.writes = 0
}

func (e *EC7879) Debug(string) error {
	return nil
}

func (e *EC7879) Show() string {
	return fmt.Sprintf("%s: window=%05x-%05x reads=%d writes=%d\n",
		e.name, e.addr, e.addr+e.size-1, e.reads, e.writes)
}
