/*
 * PCE - Configuration file parser
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

package configparser

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/rcornwell/pce/emu/core"
	"github.com/rcornwell/pce/emu/memory"
	"gopkg.in/ini.v1"
)

/* Configuration file format:
 *
 * [system]
 * machine = ibmpc | sim405 | vic20 | sim68k
 *
 * [cpu]
 * model = 8088
 * speed = 1          ; 0 runs unpaced.
 *
 * [ram]              ; May be repeated.
 * address = 0x00000
 * size = 640K
 *
 * [rom]              ; May be repeated.
 * address = 0xf0000
 * size = 64K
 * file = bios.rom
 *
 * Every machine reads the sections of its own devices. Sections registered
 * with RegisterSection are handed the finished machine.
 */

var (
	ErrNoMachine      = errors.New("no machine selected")
	ErrUnknownMachine = errors.New("unknown machine")
)

// Create machine from whole configuration.
type CreateFunc func(cfg *ini.File) (core.Machine, error)

// Process section after machine was created.
type SectionFunc func(sec *ini.Section, m core.Machine) error

var models = map[string]CreateFunc{}

var sections = map[string]SectionFunc{}

// Register should be called from init functions.
func RegisterModel(name string, fn CreateFunc) {
	name = strings.ToLower(name)
	slog.Debug("Registering machine: " + name)
	models[name] = fn
}

// Register section handler, should be called from init functions.
func RegisterSection(name string, fn SectionFunc) {
	name = strings.ToLower(name)
	slog.Debug("Registering section: " + name)
	sections[name] = fn
}

// Names of registered machines.
func Models() []string {
	names := make([]string, 0, len(models))
	for name := range models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load in a configuration file.
func LoadConfigFile(name string) (core.Machine, error) {
	cfg, err := ini.LoadSources(loadOptions, name)
	if err != nil {
		return nil, fmt.Errorf("unable to read configuration: %w", err)
	}
	return LoadConfig(cfg)
}

// Load configuration from memory.
func LoadConfigString(text string) (core.Machine, error) {
	cfg, err := ini.LoadSources(loadOptions, []byte(text))
	if err != nil {
		return nil, fmt.Errorf("unable to parse configuration: %w", err)
	}
	return LoadConfig(cfg)
}

var loadOptions = ini.LoadOptions{
	AllowNonUniqueSections: true,
	Insensitive:            true,
}

// Build machine selected in [system], then run section handlers.
func LoadConfig(cfg *ini.File) (core.Machine, error) {
	name := cfg.Section("system").Key("machine").String()
	if name == "" {
		return nil, ErrNoMachine
	}
	create, ok := models[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMachine, name)
	}
	m, err := create(cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	for _, sec := range cfg.Sections() {
		fn, ok := sections[strings.ToLower(sec.Name())]
		if !ok {
			continue
		}
		if err := fn(sec, m); err != nil {
			return nil, fmt.Errorf("[%s]: %w", sec.Name(), err)
		}
	}
	return m, nil
}

// Parse number with optional 0x prefix and K or M suffix.
func ParseSize(text string) (uint32, error) {
	text = strings.ToUpper(strings.TrimSpace(text))
	mult := uint64(1)
	switch {
	case strings.HasSuffix(text, "K"):
		mult = 1024
		text = text[:len(text)-1]
	case strings.HasSuffix(text, "M"):
		mult = 1024 * 1024
		text = text[:len(text)-1]
	}
	v, err := strconv.ParseUint(text, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid number: %s", text)
	}
	v *= mult
	if v > 0xffffffff {
		return 0, fmt.Errorf("number too large: %s", text)
	}
	return uint32(v), nil
}

// Get number from key, def if key not present.
func Number(sec *ini.Section, key string, def uint32) (uint32, error) {
	if !sec.HasKey(key) {
		return def, nil
	}
	v, err := ParseSize(sec.Key(key).String())
	if err != nil {
		return 0, fmt.Errorf("[%s] %s: %w", sec.Name(), key, err)
	}
	return v, nil
}

// Get number from key, a malformed value is logged and def used.
func NumberDefault(sec *ini.Section, key string, def uint32) uint32 {
	v, err := Number(sec, key, def)
	if err != nil {
		slog.Error("using default", "value", fmt.Sprintf("%x", def), "error", err)
		return def
	}
	return v
}

// CPU settings shared by all machines.
type CPU struct {
	Model string
	Speed float64
}

// Read [cpu] section.
func CPUSection(cfg *ini.File, defModel string) CPU {
	sec := cfg.Section("cpu")
	c := CPU{
		Model: sec.Key("model").MustString(defModel),
		Speed: sec.Key("speed").MustFloat64(1),
	}
	if c.Speed < 0 {
		slog.Error("cpu speed negative, running unpaced", "speed", c.Speed)
		c.Speed = 0
	}
	return c
}

// Add [ram] and [rom] sections to memory map in front of the blocks of
// the machine. A malformed section is logged and skipped.
func LoadMemory(cfg *ini.File, mem *memory.Map) {
	for _, kind := range []string{"ram", "rom"} {
		secs, err := cfg.SectionsByName(kind)
		if err != nil {
			continue
		}
		for i, sec := range secs {
			blk, err := memoryBlock(sec, kind, i)
			if err != nil {
				slog.Error("memory block skipped", "section", kind, "error", err)
				continue
			}
			mem.Add(blk)
			mem.MoveToFront(blk)
			slog.Info("memory block", "name", blk.Name, "address", fmt.Sprintf("%08x", blk.Addr),
				"size", blk.Size)
			if file := sec.Key("file").String(); file != "" {
				if err := mem.LoadFile(file, blk.Addr); err != nil {
					slog.Error("image not loaded", "section", kind, "error", err)
				}
			}
		}
	}
}

func memoryBlock(sec *ini.Section, kind string, index int) (*memory.Block, error) {
	if !sec.HasKey("address") {
		return nil, errors.New("address required")
	}
	addr, err := Number(sec, "address", 0)
	if err != nil {
		return nil, err
	}
	size, err := Number(sec, "size", 0)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		return nil, errors.New("size required")
	}
	if uint64(addr)+uint64(size) > 1<<32 {
		return nil, fmt.Errorf("block at %08x size %x wraps address space", addr, size)
	}
	name := sec.Key("name").MustString(fmt.Sprintf("%s%d", kind, index))
	if kind == "rom" {
		return memory.NewROM(name, addr, size), nil
	}
	return memory.NewRAM(name, addr, size), nil
}
