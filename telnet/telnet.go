/*
 * PCE - Telnet protocol handler
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

package telnet

import (
	"io"
	"log/slog"
)

// Telnet protocol constants.
const (
	tnIAC  byte = 255 // protocol delim
	tnDONT byte = 254 // dont
	tnDO   byte = 253 // do
	tnWONT byte = 252 // wont
	tnWILL byte = 251 // will
	tnSB   byte = 250 // Sub negotiations begin
	tnGA   byte = 249 // Go ahead
	tnIP   byte = 244 // Interrupt process
	tnBRK  byte = 243 // break
	tnSE   byte = 240 // Sub negotiations end

	// Telnet options.
	tnOptionBinary byte = 0  // Binary data transfer
	tnOptionEcho   byte = 1  // Echo
	tnOptionSGA    byte = 3  // Send Go Ahead
	tnOptionTerm   byte = 24 // Request Terminal Type
	tnOptionNAWS   byte = 31 // Negotiate about terminal size
	tnOptionLINE   byte = 34 // line mode

	// Telnet flags.
	tnFlagDo   uint8 = 0x01 // Do sent
	tnFlagDont uint8 = 0x02 // Don't sent
	tnFlagWill uint8 = 0x04 // Will sent
	tnFlagWont uint8 = 0x08 // Wont sent
)

// Telnet line states.
const (
	tnStateData int = 1 + iota // normal
	tnStateCR                  // CR seen, drop following NUL
	tnStateIAC                 // IAC seen
	tnStateWILL                // WILL seen
	tnStateDO                  // DO seen
	tnStateDONT                // DONT seen
	tnStateWONT                // WONT seen
	tnStateSB                  // Inside sub negotiation
	tnStateSBIAC               // IAC inside sub negotiation
)

// Character at a time, binary, server echoes.
var initString = []byte{
	tnIAC, tnWONT, tnOptionLINE,
	tnIAC, tnWILL, tnOptionEcho,
	tnIAC, tnWILL, tnOptionSGA,
	tnIAC, tnWILL, tnOptionBinary,
	tnIAC, tnDO, tnOptionBinary,
}

// Convert option number to string.
func optName(opt byte) string {
	switch opt {
	case tnOptionBinary:
		return "bin"
	case tnOptionEcho:
		return "echo"
	case tnOptionSGA:
		return "sga"
	case tnOptionTerm:
		return "term"
	case tnOptionNAWS:
		return "naws"
	case tnOptionLINE:
		return "line"
	}
	return "unknown"
}

type tnState struct {
	optionState [256]uint8 // Options we answered.
	state       int        // Current line State
	out         io.Writer  // Where replies go.
	port        string
}

func newState(out io.Writer, port string) *tnState {
	state := &tnState{out: out, state: tnStateData, port: port}
	for i := 0; i < len(initString); i += 3 {
		state.mark(initString[i+1], initString[i+2])
	}
	return state
}

func (state *tnState) mark(setState, option byte) {
	switch setState {
	case tnWILL:
		state.optionState[option] |= tnFlagWill
	case tnWONT:
		state.optionState[option] |= tnFlagWont
	case tnDO:
		state.optionState[option] |= tnFlagDo
	case tnDONT:
		state.optionState[option] |= tnFlagDont
	}
}

// Send a response to client.
func (state *tnState) sendOption(setState, option byte) {
	_, _ = state.out.Write([]byte{tnIAC, setState, option})
	state.mark(setState, option)
}

// Client asks us to enable option.
func (state *tnState) handleDO(input byte) {
	switch input {
	case tnOptionEcho, tnOptionSGA, tnOptionBinary:
		if (state.optionState[input] & tnFlagWill) == 0 {
			state.sendOption(tnWILL, input)
		}
	default:
		if (state.optionState[input] & tnFlagWont) == 0 {
			state.sendOption(tnWONT, input)
		}
	}
}

// Client offers to enable option.
func (state *tnState) handleWILL(input byte) {
	switch input {
	case tnOptionSGA, tnOptionBinary:
		if (state.optionState[input] & tnFlagDo) == 0 {
			state.sendOption(tnDO, input)
		}
	default:
		if (state.optionState[input] & tnFlagDont) == 0 {
			state.sendOption(tnDONT, input)
		}
	}
}

// Strip protocol from data received, returns bytes for the serial port.
func (state *tnState) input(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for _, input := range data {
		switch state.state {
		case tnStateData, tnStateCR:
			cr := state.state == tnStateCR
			state.state = tnStateData
			switch {
			case input == tnIAC:
				state.state = tnStateIAC
			case cr && (input == 0 || input == '\n'):
				// CR NUL and CR LF both mean return.
			default:
				out = append(out, input)
				if input == '\r' {
					state.state = tnStateCR
				}
			}

		case tnStateIAC:
			state.state = tnStateData
			switch input {
			case tnIAC:
				out = append(out, tnIAC)
			case tnBRK, tnIP:
				slog.Debug("telnet break", "port", state.port)
			case tnWILL:
				state.state = tnStateWILL
			case tnWONT:
				state.state = tnStateWONT
			case tnDO:
				state.state = tnStateDO
			case tnDONT:
				state.state = tnStateDONT
			case tnSB:
				state.state = tnStateSB
			}

		case tnStateWILL:
			slog.Debug("telnet will", "port", state.port, "option", optName(input))
			state.handleWILL(input)
			state.state = tnStateData

		case tnStateWONT:
			slog.Debug("telnet wont", "port", state.port, "option", optName(input))
			if (state.optionState[input] & tnFlagDont) == 0 {
				state.sendOption(tnDONT, input)
			}
			state.state = tnStateData

		case tnStateDO:
			slog.Debug("telnet do", "port", state.port, "option", optName(input))
			state.handleDO(input)
			state.state = tnStateData

		case tnStateDONT:
			slog.Debug("telnet dont", "port", state.port, "option", optName(input))
			if (state.optionState[input] & tnFlagWont) == 0 {
				state.sendOption(tnWONT, input)
			}
			state.state = tnStateData

		// Sub negotiations are not used, skip to IAC SE.
		case tnStateSB:
			if input == tnIAC {
				state.state = tnStateSBIAC
			}

		case tnStateSBIAC:
			state.state = tnStateSB
			if input == tnSE {
				state.state = tnStateData
			}
		}
	}
	return out
}

// Double IAC in data sent to client.
func escape(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for _, by := range data {
		out = append(out, by)
		if by == tnIAC {
			out = append(out, tnIAC)
		}
	}
	return out
}
