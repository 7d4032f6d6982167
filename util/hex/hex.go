/*
 * PCE - Hex formatting helpers
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

import "strings"

var hexMap = "0123456789ABCDEF"

// Format value as digits hex digits.
func FormatValue(str *strings.Builder, value uint32, digits int) {
	shift := (digits - 1) * 4
	for range digits {
		str.WriteByte(hexMap[(value>>shift)&0xf])
		shift -= 4
	}
}

func FormatWord(str *strings.Builder, word []uint32) {
	for _, full := range word {
		FormatValue(str, full, 8)
		str.WriteByte(' ')
	}
}

func FormatHalf(str *strings.Builder, space bool, half []uint16) {
	for _, word := range half {
		FormatValue(str, uint32(word), 4)
		if space {
			str.WriteByte(' ')
		}
	}
	if !space {
		str.WriteByte(' ')
	}
}

func FormatBytes(str *strings.Builder, space bool, data []uint8) {
	for _, by := range data {
		FormatByte(str, by)
		if space {
			str.WriteByte(' ')
		}
	}
}

func FormatByte(str *strings.Builder, data byte) {
	str.WriteByte(hexMap[(data>>4)&0xf])
	str.WriteByte(hexMap[data&0xf])
}

// Dump lines of 16 bytes with address and printable characters.
func Dump(str *strings.Builder, addr uint32, digits int, data []uint8) {
	for len(data) > 0 {
		n := min(16, len(data))
		FormatValue(str, addr, digits)
		str.WriteString("  ")
		FormatBytes(str, true, data[:n])
		for i := n; i < 16; i++ {
			str.WriteString("   ")
		}
		str.WriteByte(' ')
		for _, by := range data[:n] {
			if by < 0x20 || by > 0x7e {
				by = '.'
			}
			str.WriteByte(by)
		}
		str.WriteByte('\n')
		data = data[n:]
		addr += uint32(n)
	}
}
