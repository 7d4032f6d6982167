/*
 * PCE - Command parser.
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

package parser

import (
	"errors"
	"strings"
	"unicode"

	"github.com/rcornwell/pce/command/command"
)

type cmd struct {
	Name     string // Command name.
	Min      int    // Minimum match size.
	Args     string // Arguments shown by help.
	Help     string
	Process  func(*cmdLine, *command.Session) (bool, error)
	Complete func(*cmdLine, *command.Session) []string
}

type cmdLine struct {
	line string // Current command.
	pos  int    // Position in line.
}

var (
	errNoNumber = errors.New("not a number")
	errExtra    = errors.New("unexpected text at end of command")
)

// Execute the command line given, returns true when the monitor should exit.
func ProcessCommand(commandLine string, s *command.Session) (bool, error) {
	line := cmdLine{line: commandLine}
	name := line.getWord()
	if name == "" {
		if !line.isEOL() {
			return false, errors.New("command not found: " + strings.TrimSpace(commandLine))
		}
		return false, nil
	}

	match := matchList(name)
	if len(match) == 0 {
		return false, errors.New("command not found: " + name)
	}

	if len(match) > 1 {
		return false, errors.New("unique command not found: " + name)
	}

	return match[0].Process(&line, s)
}

// Check if command matches at least to minimum length.
func matchCommand(match cmd, command string) bool {
	if len(command) > len(match.Name) {
		return false
	}
	if !strings.HasPrefix(match.Name, command) {
		return false
	}
	return len(command) >= match.Min
}

// Check if command matches one of the commands. An exact match wins.
func matchList(command string) []cmd {
	// If command empty just return.
	if command == "" {
		return []cmd{}
	}

	// Try and match one command.
	var match []cmd
	for _, m := range cmdList {
		if m.Name == command {
			return []cmd{m}
		}
		if matchCommand(m, command) {
			match = append(match, m)
		}
	}
	return match
}

// Skip forward over line until none whitespace character found.
func (line *cmdLine) skipSpace() {
	for line.pos < len(line.line) && unicode.IsSpace(rune(line.line[line.pos])) {
		line.pos++
	}
}

// Check if at end of line.
func (line *cmdLine) isEOL() bool {
	if line.pos >= len(line.line) {
		return true
	}

	return line.line[line.pos] == '#'
}

// Check nothing but spaces or a comment remain.
func (line *cmdLine) atEnd() bool {
	line.skipSpace()
	return line.isEOL()
}

// Return current character and advance to next.
func (line *cmdLine) getCurrent() byte {
	if line.isEOL() {
		return 0
	}
	by := line.line[line.pos]
	line.pos++
	return by
}

// Return text up to next space.
func (line *cmdLine) getToken() string {
	line.skipSpace()
	start := line.pos
	for !line.isEOL() && !unicode.IsSpace(rune(line.line[line.pos])) {
		line.pos++
	}
	return line.line[start:line.pos]
}

// Parse a decimal number.
func (line *cmdLine) getNumber() (uint32, error) {
	line.skipSpace()

	// Check if end of line.
	if line.isEOL() {
		return 0, errNoNumber
	}

	pos := line.pos
	value := uint32(0)
	by := line.getCurrent()
	for by != 0 {
		if !unicode.IsDigit(rune(by)) {
			line.pos = pos
			return 0, errNoNumber
		}
		value = (value * 10) + uint32(by-'0')
		by = line.getCurrent()
		if by != 0 && unicode.IsSpace(rune(by)) {
			break
		}
	}

	return value, nil
}

const hexDigits = "0123456789abcdef"

// Parse hex number.
func (line *cmdLine) getHex() (uint32, error) {
	line.skipSpace()

	if line.isEOL() {
		return 0, errNoNumber
	}

	pos := line.pos
	value := uint32(0)
	by := line.getCurrent()
	for by != 0 {
		digit := strings.IndexByte(hexDigits, byte(unicode.ToLower(rune(by))))
		if digit == -1 {
			line.pos = pos
			return 0, errNoNumber
		}
		value = (value << 4) + uint32(digit)
		by = line.getCurrent()
		if by != 0 && unicode.IsSpace(rune(by)) {
			break
		}
	}

	return value, nil
}

// Parse a word of letters, "" if the next text is not a word.
func (line *cmdLine) getWord() string {
	line.skipSpace()

	value := ""
	pos := line.pos
	by := line.getCurrent()
	for by != 0 {
		if !unicode.IsLetter(rune(by)) {
			line.pos = pos
			return ""
		}
		value += string([]byte{by})
		by = line.getCurrent()
		if by != 0 && unicode.IsSpace(rune(by)) {
			break
		}
	}

	return strings.ToLower(value)
}

// Optional decimal count, def when none given.
func (line *cmdLine) getCount(def uint32) (uint32, error) {
	if line.atEnd() {
		return def, nil
	}
	n, err := line.getNumber()
	if err != nil {
		return 0, errors.New("count must be a decimal number")
	}
	if !line.atEnd() {
		return 0, errExtra
	}
	return n, nil
}
