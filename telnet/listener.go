/*
 * PCE - Telnet listener
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
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"
)

type Server struct {
	wg       sync.WaitGroup
	listener net.Listener
	shutdown chan struct{}
	port     *Port
}

// Open new listener.
func newServer(addr string, p *Port) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on address %s: %w", addr, err)
	}

	return &Server{
		listener: listener,
		shutdown: make(chan struct{}),
		port:     p,
	}, nil
}

// Accept connections until shut down.
func (s *Server) acceptConnections() {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.shutdown:
				return
			default:
				continue
			}
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.port.handleClient(conn)
		}()
	}
}

// Address server is listening on.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Start servers for all registered ports.
func Start() error {
	mapLock.Lock()
	defer mapLock.Unlock()
	for portNum, p := range ports {
		if p.server != nil {
			continue
		}
		s, err := newServer(net.JoinHostPort(address, portNum), p)
		if err != nil {
			return err
		}
		p.server = s
		slog.Info("Server started on " + s.Addr().String())

		s.wg.Add(1)
		go s.acceptConnections()
	}
	return nil
}

// Stop all running servers.
func Stop() {
	mapLock.Lock()
	defer mapLock.Unlock()
	for portNum, p := range ports {
		s := p.server
		if s == nil {
			continue
		}
		slog.Info("Shutdown port: " + portNum)
		close(s.shutdown)
		s.listener.Close()
		p.lock.Lock()
		if p.conn != nil {
			p.conn.Close()
		}
		p.lock.Unlock()

		done := make(chan struct{})
		go func() {
			s.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			slog.Warn("Timed out waiting for connections to finish.", "port", portNum)
		}
		p.server = nil
	}
}

// Forget all ports, servers must be stopped.
func Clear() {
	mapLock.Lock()
	defer mapLock.Unlock()
	ports = map[string]*Port{}
}
