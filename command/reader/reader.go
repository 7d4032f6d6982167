/*
 * PCE - Command reader.
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
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/peterh/liner"
	"github.com/rcornwell/pce/command/command"
	"github.com/rcornwell/pce/command/parser"
	"golang.org/x/term"
)

const prompt = "PCE> "

// Read commands until quit or end of input. Line editing is only used on
// a terminal, scripts are read a line at a time.
func ConsoleReader(s *command.Session) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		ScriptReader(os.Stdin, s)
		return
	}

	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(func(line string) []string {
		return parser.CompleteCmd(line, s)
	})

	for {
		text, err := line.Prompt(prompt)
		if err == nil {
			line.AppendHistory(text)
			if execute(text, s) {
				return
			}
			continue
		}

		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return
		}
		slog.Error("error reading line: " + err.Error())
		return
	}
}

// Execute commands from a reader, stop on quit.
func ScriptReader(in io.Reader, s *command.Session) {
	scan := bufio.NewScanner(in)
	for scan.Scan() {
		if execute(scan.Text(), s) {
			return
		}
	}
	if err := scan.Err(); err != nil {
		slog.Error("error reading commands: " + err.Error())
	}
}

func execute(text string, s *command.Session) bool {
	quit, err := parser.ProcessCommand(text, s)
	if err != nil {
		fmt.Fprintln(s.Out, "Error: "+err.Error())
	}
	return quit
}
