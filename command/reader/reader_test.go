/*
 * PCE - Command reader tests.
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

package reader

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rcornwell/pce/command/command"
	"github.com/rcornwell/pce/emu/core"
	"github.com/rcornwell/pce/emu/machine/sim68k"
)

func TestScriptReader(t *testing.T) {
	cfg := sim68k.DefaultConfig()
	cfg.Speed = 0
	cfg.RAMSize = 64 * 1024
	m := sim68k.New(cfg)
	out := &bytes.Buffer{}
	s := command.NewSession(core.New(m), out)

	script := "e 100 aa\nbogus\nq\ne 100 55\n"
	ScriptReader(strings.NewReader(script), s)

	if v := m.Memory().GetUint8(0x100); v != 0xaa {
		t.Errorf("Memory got: %02x wanted: aa", v)
	}
	if !strings.Contains(out.String(), "Error: command not found: bogus") {
		t.Errorf("Error output got: %q", out.String())
	}
}
