/*
 * PCE - Debug options configuration.
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

package debugconfig

import (
	"errors"
	"strings"

	"github.com/rcornwell/pce/config/configparser"
	"github.com/rcornwell/pce/emu/core"
	"github.com/rcornwell/pce/util/debug"
	"gopkg.in/ini.v1"
)

/*
 * [debug]
 * file = pce.dbg
 * cpu = INST,EXCEPT
 * pic = ALL
 *
 * Every other key names a device of the machine, or cpu, and lists its
 * debug options.
 */

type debugger interface {
	Debug(opt string) error
}

// register section on initialize.
func init() {
	configparser.RegisterSection("debug", setDebug)
}

func setDebug(sec *ini.Section, m core.Machine) error {
	if file := sec.Key("file").String(); file != "" {
		if err := debug.Open(file); err != nil {
			return err
		}
	}
	for _, key := range sec.Keys() {
		name := strings.ToLower(key.Name())
		if name == "file" {
			continue
		}
		dev := findDevice(m, name)
		if dev == nil {
			return errors.New("debug option for unknown device: " + name)
		}
		for _, opt := range key.Strings(",") {
			if err := dev.Debug(strings.ToUpper(opt)); err != nil {
				return err
			}
		}
	}
	return nil
}

func findDevice(m core.Machine, name string) debugger {
	if name == "cpu" {
		if d, ok := m.CPU().(debugger); ok {
			return d
		}
		return nil
	}
	for _, dev := range m.Devices() {
		if strings.EqualFold(dev.Name(), name) {
			return dev
		}
	}
	return nil
}
