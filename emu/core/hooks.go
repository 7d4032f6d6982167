/*
 * PCE - Machine hooks
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

package core

import (
	"fmt"
	"log/slog"

	"github.com/rcornwell/pce/emu/clock"
	"github.com/rcornwell/pce/emu/device"
)

// Hook instruction arguments handled by every machine.
const (
	HookStop  = 0x0000 // Return to the monitor.
	HookAbort = 0x0001 // Stop emulation.
)

// Hooks handles the machine hook calls and passes every event on to the
// hooks given at construction.
type Hooks struct {
	brk  *clock.Break
	next device.Hooks
}

// Hooks for the CPU of this machine, next may be nil.
func (b *Base) Hooks(next device.Hooks) *Hooks {
	if next == nil {
		next = device.NopHooks{}
	}
	return &Hooks{brk: &b.brk, next: next}
}

func (h *Hooks) OnUndefined(pc uint32, op uint32) bool {
	return h.next.OnUndefined(pc, op)
}

func (h *Hooks) OnException(vector uint32) {
	h.next.OnException(vector)
}

func (h *Hooks) OnHook(pc uint32, arg uint32) {
	switch arg {
	case HookStop:
		slog.Info("stop requested by hook", "pc", fmt.Sprintf("%08x", pc))
		h.brk.Set(clock.Stop)
	case HookAbort:
		slog.Info("abort requested by hook", "pc", fmt.Sprintf("%08x", pc))
		h.brk.Set(clock.Abort)
	}
	h.next.OnHook(pc, arg)
}
