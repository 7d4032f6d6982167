/*
 * PCE - PowerPC 405 simulator configuration
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

package sim405

import (
	"log/slog"

	"github.com/rcornwell/pce/config/configparser"
	"github.com/rcornwell/pce/emu/core"
	"github.com/rcornwell/pce/telnet"
	"gopkg.in/ini.v1"
)

/*
 * [system]
 * machine = sim405
 * ram = 16M
 *
 * [rom]
 * address = 0xfff00000
 * size = 1M
 * file = boot405.bin
 *
 * [uic]
 * dcr = 0xc0
 *
 * [uart]
 * address = 0xef600300
 * irq = 0
 * telnet = 5405
 */

// register machine on initialize.
func init() {
	configparser.RegisterModel("sim405", create)
}

func create(f *ini.File) (core.Machine, error) {
	cfg := DefaultConfig()
	c := configparser.CPUSection(f, cfg.Model)
	cfg.Model = c.Model
	cfg.Speed = c.Speed
	cfg.RAMSize = configparser.NumberDefault(f.Section("system"), "ram", cfg.RAMSize)
	cfg.UICBase = configparser.NumberDefault(f.Section("uic"), "dcr", cfg.UICBase)

	sec := f.Section("uart")
	cfg.UARTAddr = configparser.NumberDefault(sec, "address", cfg.UARTAddr)
	irq := configparser.NumberDefault(sec, "irq", uint32(cfg.UARTIRQ))
	if irq > 31 {
		slog.Error("uart irq out of range, using default", "irq", irq)
		irq = uint32(cfg.UARTIRQ)
	}
	cfg.UARTIRQ = int(irq)

	m := New(cfg)
	configparser.LoadMemory(f, m.Memory())
	if port := sec.Key("telnet").String(); port != "" {
		p, err := telnet.Register(port, m.uart)
		if err != nil {
			slog.Error("uart not connected", "error", err)
		} else {
			m.uart.SetBackend(p)
		}
	}
	m.Reset()
	return m, nil
}
