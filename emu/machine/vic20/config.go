/*
 * PCE - VIC-20 configuration
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
	"github.com/rcornwell/pce/config/configparser"
	"github.com/rcornwell/pce/emu/core"
	"gopkg.in/ini.v1"
)

/*
 * [system]
 * machine = vic20
 * ram3k = true
 * expansion = 8K
 *
 * [vic]
 * model = 6560
 *
 * [rom]
 * address = 0xe000
 * size = 8K
 * file = kernal.rom
 */

// register machine on initialize.
func init() {
	configparser.RegisterModel("vic20", create)
}

func create(f *ini.File) (core.Machine, error) {
	cfg := DefaultConfig()
	c := configparser.CPUSection(f, cfg.Model)
	cfg.Model = c.Model
	cfg.Speed = c.Speed
	sys := f.Section("system")
	cfg.RAM3K = sys.Key("ram3k").MustBool(false)
	cfg.Expansion = configparser.NumberDefault(sys, "expansion", 0)
	cfg.Video = f.Section("vic").Key("model").MustString(cfg.Video)

	m := New(cfg)
	configparser.LoadMemory(f, m.Memory())
	m.Reset()
	return m, nil
}
