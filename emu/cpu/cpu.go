/*
 * PCE - Common CPU contract
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

package cpu

import (
	"errors"
	"strings"
)

var (
	ErrDoubleFault     = errors.New("double fault, cpu halted")
	ErrUnknownRegister = errors.New("unknown register")
	ErrUnknownModel    = errors.New("unknown cpu model")
)

// Bus is how a core reaches memory or I/O ports.
type Bus interface {
	GetUint8(addr uint32) uint8
	GetUint16(addr uint32) uint16
	GetUint32(addr uint32) uint32
	SetUint8(addr uint32, val uint8)
	SetUint16(addr uint32, val uint16)
	SetUint32(addr uint32, val uint32)
}

// State of the exception state machine.
type State int

const (
	Running          State = iota // Fetching instructions.
	Halted                        // Waiting for interrupt or reset.
	ExceptionPending              // Exception will be taken before next fetch.
	Stopped                       // Double fault, only reset resumes.
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Halted:
		return "halted"
	case ExceptionPending:
		return "exception"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}

// Register as shown by the monitor.
type Register struct {
	Name  string
	Value uint32
	Width int // Bits.
}

// CPU is implemented by every execution core.
type CPU interface {
	Reset()
	Execute()
	Clock(n uint64)
	PC() uint32
	Cycles() uint64
	State() State
	Fault() error
	GetReg(name string) (uint32, error)
	SetReg(name string, val uint32) error
	Registers() []Register
	Disassemble(addr uint32) (string, uint32)
	SetModel(name string) error
	Model() string
}

// Segmented cores can also match segment:offset breakpoints.
type Segmented interface {
	Segment() uint16
	Offset() uint16
}

// Split "d0.w" into "d0" and a size in bytes, 0 if no suffix given.
func SplitName(name string) (string, int) {
	name = strings.ToLower(strings.TrimSpace(name))
	if i := strings.LastIndexByte(name, '.'); i > 0 && i == len(name)-2 {
		switch name[i+1] {
		case 'b':
			return name[:i], 1
		case 'w':
			return name[:i], 2
		case 'l':
			return name[:i], 4
		}
	}
	return name, 0
}

// Mask value to size in bytes.
func Mask(val uint32, size int) uint32 {
	switch size {
	case 1:
		return val & 0xff
	case 2:
		return val & 0xffff
	}
	return val
}

// Replace the low size bytes of old with val.
func Merge(old, val uint32, size int) uint32 {
	switch size {
	case 1:
		return (old &^ 0xff) | (val & 0xff)
	case 2:
		return (old &^ 0xffff) | (val & 0xffff)
	}
	return val
}

// Credit tracks the cycle budget handed to a core by Clock.
type Credit struct {
	balance int64
}

// Add cycles to the budget.
func (c *Credit) Add(n uint64) {
	c.balance += int64(n)
}

// Check if there is budget for another instruction.
func (c *Credit) Available() bool {
	return c.balance > 0
}

// Charge for an instruction, may go negative by at most its cost.
func (c *Credit) Spend(n uint64) {
	c.balance -= int64(n)
}

// Drop remaining budget, returns what was dropped.
func (c *Credit) Drain() uint64 {
	if c.balance <= 0 {
		return 0
	}
	n := uint64(c.balance)
	c.balance = 0
	return n
}

// Current balance.
func (c *Credit) Balance() int64 {
	return c.balance
}

// Reset budget.
func (c *Credit) Reset() {
	c.balance = 0
}
