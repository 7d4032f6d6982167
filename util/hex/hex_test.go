/*
 * PCE - Hex formatting test cases
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

package hex

import (
	"strings"
	"testing"
)

func TestFormatValue(t *testing.T) {
	var str strings.Builder
	FormatValue(&str, 0xfc0a, 6)
	FormatWord(&str, []uint32{0x12345678})
	FormatHalf(&str, true, []uint16{0xbeef})
	FormatBytes(&str, false, []uint8{0x0a, 0xf0})
	want := "00FC0A12345678 BEEF 0AF0"
	if str.String() != want {
		t.Errorf("Format got: %q wanted: %q", str.String(), want)
	}
}

func TestDump(t *testing.T) {
	var str strings.Builder
	data := []byte("Hello\x00World, this is PCE")
	Dump(&str, 0x100, 4, data)
	lines := strings.Split(strings.TrimRight(str.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("Dump lines got: %d wanted: 2", len(lines))
	}
	if !strings.HasPrefix(lines[0], "0100  48 65 6C 6C 6F 00 ") {
		t.Errorf("Dump first line got: %q", lines[0])
	}
	if !strings.HasSuffix(lines[0], "Hello.World, thi") {
		t.Errorf("Dump ascii got: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "0110  73 20 69 73") {
		t.Errorf("Dump second line got: %q", lines[1])
	}
}
