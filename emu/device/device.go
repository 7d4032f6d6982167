/*
 * PCE - Peripheral contract
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

package device

//go:generate mockgen -destination=mock_device/mock_device.go -package=mock_device github.com/rcornwell/pce/emu/device Hooks

// Line is an output signal of a device, called on every level change.
type Line func(level bool)

// Clocker is a device driven by the machine clock cascade.
type Clocker interface {
	Clock(n uint64)
}

// Device is what every peripheral offers the monitor.
type Device interface {
	Name() string
	Reset()
	Show() string
	Debug(opt string) error
}

// Hooks lets the embedding machine observe CPU events. A CPU is given its
// hooks when it is created.
type Hooks interface {
	// Undefined opcode at pc. Return true if handled, the CPU then skips
	// its architectural exception.
	OnUndefined(pc uint32, op uint32) bool
	// Exception or interrupt about to be taken.
	OnException(vector uint32)
	// Emulator hook instruction executed.
	OnHook(pc uint32, arg uint32)
}

// NopHooks ignores everything.
type NopHooks struct{}

func (NopHooks) OnUndefined(uint32, uint32) bool { return false }

func (NopHooks) OnException(uint32) {}

func (NopHooks) OnHook(uint32, uint32) {}

// Set level of line if connected.
func (l Line) Set(level bool) {
	if l != nil {
		l(level)
	}
}
