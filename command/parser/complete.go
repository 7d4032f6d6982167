/*
 * PCE - Command completion functions.
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
	"slices"
	"strings"
	"unicode"

	"github.com/rcornwell/pce/command/command"
)

// Called to complete a command line, during line editing.
func CompleteCmd(commandLine string, s *command.Session) []string {
	line := cmdLine{line: commandLine}
	name := line.getWord()

	// We have a command, let it try and complete it.
	if strings.IndexFunc(strings.TrimLeftFunc(commandLine, unicode.IsSpace), unicode.IsSpace) >= 0 {
		match := matchList(name)
		if len(match) != 1 || match[0].Complete == nil {
			return nil
		}
		return match[0].Complete(&line, s)
	}

	var matches []string
	for _, m := range cmdList {
		if strings.HasPrefix(m.Name, name) {
			matches = append(matches, m.Name)
		}
	}
	slices.Sort(matches)
	return matches
}

// Complete last word of line from the given choices.
func (line *cmdLine) matchWord(choices []string) []string {
	line.skipSpace()
	leading := line.line[:line.pos]
	word := strings.ToLower(line.line[line.pos:])
	if strings.ContainsAny(word, " \t") {
		return nil
	}
	var matches []string
	for _, c := range choices {
		if strings.HasPrefix(c, word) {
			matches = append(matches, leading+c+" ")
		}
	}
	return matches
}

func showComplete(line *cmdLine, s *command.Session) []string {
	return line.matchWord(deviceNames(s.Machine()))
}

func regComplete(line *cmdLine, s *command.Session) []string {
	return line.matchWord(registerNames(s.Machine().CPU()))
}

func traceComplete(line *cmdLine, _ *command.Session) []string {
	return line.matchWord([]string{"off", "on"})
}

func bpComplete(line *cmdLine, _ *command.Session) []string {
	return line.matchWord([]string{"a", "c", "clear", "l"})
}
