/*
 * PCE - VIC-20 keyboard matrix
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

package vic20

import (
	"fmt"
	"log/slog"

	"github.com/rcornwell/pce/emu/device"
	"github.com/rcornwell/pce/util/debug"
)

/*
   The 8x8 key matrix sits between the ports of VIA 2: port B drives the
   column select lines low, port A reads the rows, a pressed key pulls its
   row low while its column is selected. RESTORE is outside the matrix and
   pulls CA1 of VIA 1 low.
*/

const (
	// Debug options.
	debugKey = 1 << iota
)

var debugOption = map[string]int{
	"KEY": debugKey,
}

const keyQueue = 64

// Restore key, passed as column to Key.
const Restore = -1

type keyEvent struct {
	col  int
	row  int
	down bool
}

type Keyboard struct {
	name     string
	matrix   [8]uint8 // Rows down in each column.
	columns  uint8    // Column select from VIA 2 port B.
	restore  bool
	restLine device.Line
	keyq     chan keyEvent
	debugMsk int
}

func NewKeyboard(name string) *Keyboard {
	return &Keyboard{name: name, columns: 0xff, keyq: make(chan keyEvent, keyQueue)}
}

// Connect the RESTORE key, the line is low while the key is down.
func (k *Keyboard) SetRestore(line device.Line) {
	k.restLine = line
}

// Queue a key change from the host. Safe to call from any goroutine.
func (k *Keyboard) Key(col, row int, down bool) {
	if col != Restore && (col < 0 || col > 7 || row < 0 || row > 7) {
		slog.Warn("key outside matrix", "device", k.name, "column", col, "row", row)
		return
	}
	select {
	case k.keyq <- keyEvent{col: col, row: row, down: down}:
	default:
		slog.Warn("keyboard buffer full", "device", k.name)
	}
}

// Column select output of VIA 2 port B.
func (k *Keyboard) SelectColumns(val uint8) {
	k.columns = val
}

// Row input of VIA 2 port A.
func (k *Keyboard) Rows() uint8 {
	rows := uint8(0xff)
	for col := range 8 {
		if k.columns&(1<<col) == 0 {
			rows &^= k.matrix[col]
		}
	}
	return rows
}

func (k *Keyboard) Name() string {
	return k.name
}

func (k *Keyboard) Reset() {
	k.matrix = [8]uint8{}
	k.restore = false
	k.restLine.Set(true)
}

func (k *Keyboard) Debug(opt string) error {
	return debug.SetOption(k.name, debugOption, &k.debugMsk, opt)
}

func (k *Keyboard) Show() string {
	return fmt.Sprintf("%s: columns=%02x matrix=% x restore=%v queued=%d\n",
		k.name, k.columns, k.matrix[:], k.restore, len(k.keyq))
}

// Apply host key changes, called once per raster line.
func (k *Keyboard) Clock(uint64) {
	for {
		select {
		case ev := <-k.keyq:
			k.apply(ev)
		default:
			return
		}
	}
}

func (k *Keyboard) apply(ev keyEvent) {
	debug.Debugf(k.name, k.debugMsk, debugKey, "key %d,%d down=%v", ev.col, ev.row, ev.down)
	if ev.col == Restore {
		k.restore = ev.down
		k.restLine.Set(!ev.down)
		return
	}
	if ev.down {
		k.matrix[ev.col] |= 1 << ev.row
	} else {
		k.matrix[ev.col] &^= 1 << ev.row
	}
}
