/*
 * PCE - IBM PC configuration
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
	"log/slog"

	"github.com/rcornwell/pce/config/configparser"
	"github.com/rcornwell/pce/emu/core"
	"github.com/rcornwell/pce/telnet"
	"gopkg.in/ini.v1"
)

/*
 * [system]
 * machine = ibmpc
 * ram = 640K
 * switches = 0x2d
 *
 * [rom]
 * address = 0xf0000
 * size = 64K
 * file = ibmpc-bios.rom
 *
 * [video]
 * enable = true
 *
 * [uart]
 * address = 0x3f8
 * irq = 4
 * telnet = 5023
 *
 * [ec7879]
 * address = 0xd0000
 * size = 4K
 */

// register machine on initialize.
func init() {
	configparser.RegisterModel("ibmpc", create)
}

func create(f *ini.File) (core.Machine, error) {
	cfg := DefaultConfig()
	c := configparser.CPUSection(f, cfg.Model)
	cfg.Model = c.Model
	cfg.Speed = c.Speed
	sys := f.Section("system")
	cfg.RAMSize = configparser.NumberDefault(sys, "ram", cfg.RAMSize)
	cfg.Switches = uint8(configparser.NumberDefault(sys, "switches", uint32(cfg.Switches)))
	cfg.Video = f.Section("video").Key("enable").MustBool(cfg.Video)

	uart := f.Section("uart")
	cfg.UARTAddr = configparser.NumberDefault(uart, "address", cfg.UARTAddr)
	irq := configparser.NumberDefault(uart, "irq", uint32(cfg.UARTIRQ))
	if irq > 7 {
		slog.Error("uart irq out of range, using default", "irq", irq)
	} else {
		cfg.UARTIRQ = int(irq)
	}

	if sec, err := f.GetSection("ec7879"); err == nil {
		cfg.EC7879 = true
		cfg.EC7879Addr = configparser.NumberDefault(sec, "address", cfg.EC7879Addr)
		cfg.EC7879Size = configparser.NumberDefault(sec, "size", cfg.EC7879Size)
	}

	m := New(cfg)
	configparser.LoadMemory(f, m.Memory())
	if port := uart.Key("telnet").String(); port != "" {
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
