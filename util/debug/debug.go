/*
 * PCE - Log debug data to a file
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

package debug

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

var (
	lock    sync.Mutex
	logFile io.Writer
	closer  io.Closer
	name    string
)

// Generic debug message.
func Debugf(module string, mask int, level int, format string, a ...interface{}) {
	if (mask & level) == 0 {
		return
	}
	lock.Lock()
	defer lock.Unlock()
	if logFile == nil {
		return
	}
	fmt.Fprintf(logFile, module+": "+format+"\n", a...)
}

// Open the debug file.
func Open(fileName string) error {
	lock.Lock()
	defer lock.Unlock()
	if logFile != nil {
		return fmt.Errorf("can't have more then one debug file, previous: %s", name)
	}

	file, err := os.Create(fileName)
	if err != nil {
		return fmt.Errorf("unable to create debug file: %s: %w", fileName, err)
	}

	logFile = file
	closer = file
	name = fileName
	return nil
}

// Send debug output to a writer.
func SetOutput(out io.Writer) {
	lock.Lock()
	defer lock.Unlock()
	logFile = out
	closer = nil
	name = ""
}

// Close debug file.
func Close() {
	lock.Lock()
	defer lock.Unlock()
	if closer != nil {
		_ = closer.Close()
	}
	logFile = nil
	closer = nil
	name = ""
}

// Look up option in table and add it to mask.
func SetOption(module string, table map[string]int, mask *int, opt string) error {
	opt = strings.ToUpper(strings.TrimSpace(opt))
	if opt == "ALL" {
		for _, flag := range table {
			*mask |= flag
		}
		return nil
	}
	flag, ok := table[opt]
	if !ok {
		return errors.New(module + " debug option invalid: " + opt)
	}
	*mask |= flag
	return nil
}
