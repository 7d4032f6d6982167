/*
 * PCE - Telnet serial ports
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
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"

	"github.com/rcornwell/pce/config/configparser"
	"github.com/rcornwell/pce/emu/core"
	"gopkg.in/ini.v1"
)

var ErrPortInUse = errors.New("telnet port already registered")

// Receiver takes characters typed by the client.
type Receiver interface {
	Receive(data []byte)
}

// Port connects one listening TCP port with one serial device. Only one
// client may be connected at a time.
type Port struct {
	port   string
	rx     Receiver
	lock   sync.Mutex
	conn   net.Conn
	server *Server
}

var mapLock sync.Mutex

var ports = map[string]*Port{}

var address string

// register section on initialize.
func init() {
	configparser.RegisterSection("telnet", setTelnet)
}

// [telnet] address = 127.0.0.1 limits where clients may connect from.
func setTelnet(sec *ini.Section, _ core.Machine) error {
	address = sec.Key("address").String()
	return nil
}

// Register a serial device on a port.
func Register(port string, rx Receiver) (*Port, error) {
	if _, err := strconv.ParseUint(port, 10, 16); err != nil {
		return nil, fmt.Errorf("port requires number: %s", port)
	}
	mapLock.Lock()
	defer mapLock.Unlock()
	if _, ok := ports[port]; ok {
		return nil, fmt.Errorf("%w: %s", ErrPortInUse, port)
	}
	p := &Port{port: port, rx: rx}
	ports[port] = p
	slog.Info("Registering telnet port: " + port)
	return p, nil
}

// Send characters to client, dropped when nobody is connected.
func (p *Port) Send(data []byte) {
	p.lock.Lock()
	conn := p.conn
	p.lock.Unlock()
	if conn == nil {
		return
	}
	if _, err := conn.Write(escape(data)); err != nil {
		slog.Debug("telnet write failed", "port", p.port, "error", err)
	}
}

// Connected reports if a client is attached.
func (p *Port) Connected() bool {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.conn != nil
}

func (p *Port) attach(conn net.Conn) bool {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.conn != nil {
		return false
	}
	p.conn = conn
	return true
}

func (p *Port) detach() {
	p.lock.Lock()
	p.conn = nil
	p.lock.Unlock()
}

// Handle client connection until it closes.
func (p *Port) handleClient(conn net.Conn) {
	defer conn.Close()
	if !p.attach(conn) {
		fmt.Fprintf(conn, "Port %s busy\r\n", p.port)
		return
	}
	defer p.detach()
	slog.Info("telnet connected", "port", p.port, "client", conn.RemoteAddr().String())

	state := newState(conn, p.port)
	_, _ = conn.Write(initString)
	buffer := make([]byte, 1024)
	for {
		num, err := conn.Read(buffer)
		if err != nil {
			slog.Info("telnet disconnected", "port", p.port)
			return
		}
		if data := state.input(buffer[:num]); len(data) != 0 {
			p.rx.Receive(data)
		}
	}
}
