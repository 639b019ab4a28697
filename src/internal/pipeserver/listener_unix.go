// FILE: src/internal/pipeserver/listener_unix.go
//go:build !windows

package pipeserver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/lixenwraith/log/compat"
	"github.com/panjf2000/gnet/v2"
)

type platform struct {
	server   *pipeServer
	engine   *gnet.Engine
	engineMu sync.Mutex
	wg       sync.WaitGroup
}

// Start removes a stale socket at the address and starts serving
func (l *Listener) Start() error {
	if err := removeStaleSocket(l.address); err != nil {
		return err
	}

	booted := make(chan struct{})
	l.server = &pipeServer{
		listener: l,
		clients:  make(map[gnet.Conn]*pipeClient),
		booted:   booted,
	}

	gnetLogger := compat.NewGnetAdapter(l.logger)
	addr := "unix://" + l.address

	errChan := make(chan error, 1)
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		l.logger.Info("msg", "Pipe listener starting",
			"component", "pipe_listener",
			"address", l.address)

		err := gnet.Run(l.server, addr,
			gnet.WithLogger(gnetLogger),
			gnet.WithMulticore(true),
		)
		if err != nil {
			l.logger.Error("msg", "Pipe listener failed",
				"component", "pipe_listener",
				"address", l.address,
				"error", err)
		}
		errChan <- err
	}()

	select {
	case err := <-errChan:
		l.wg.Wait()
		if err == nil {
			err = fmt.Errorf("pipe listener exited during startup")
		}
		return err
	case <-booted:
		return nil
	case <-time.After(5 * time.Second):
		return fmt.Errorf("pipe listener did not start within 5s")
	}
}

// Stop shuts the engine down and waits for it to exit
func (l *Listener) Stop() {
	l.engineMu.Lock()
	engine := l.engine
	l.engine = nil
	l.engineMu.Unlock()

	if engine != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := (*engine).Stop(ctx); err != nil {
			l.logger.Debug("msg", "Pipe listener stop incomplete",
				"component", "pipe_listener",
				"error", err)
		}
	}
	l.wg.Wait()

	l.logger.Info("msg", "Pipe listener stopped",
		"component", "pipe_listener",
		"total_lines", l.totalLines.Load())
}

func removeStaleSocket(path string) error {
	info, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to inspect %s: %w", path, err)
	}
	if info.Mode()&fs.ModeSocket == 0 {
		return fmt.Errorf("refusing to replace non-socket file %s", path)
	}
	return os.Remove(path)
}

type pipeClient struct {
	buffer    bytes.Buffer
	truncated bool
}

type pipeServer struct {
	gnet.BuiltinEventEngine
	listener *Listener
	clients  map[gnet.Conn]*pipeClient
	mu       sync.RWMutex
	booted   chan struct{}
	bootOnce sync.Once
}

func (s *pipeServer) OnBoot(eng gnet.Engine) gnet.Action {
	s.listener.engineMu.Lock()
	s.listener.engine = &eng
	s.listener.engineMu.Unlock()

	s.bootOnce.Do(func() { close(s.booted) })
	s.listener.logger.Debug("msg", "Pipe listener booted",
		"component", "pipe_listener",
		"address", s.listener.address)
	return gnet.None
}

func (s *pipeServer) OnOpen(c gnet.Conn) (out []byte, action gnet.Action) {
	s.mu.Lock()
	s.clients[c] = &pipeClient{}
	s.mu.Unlock()

	n := s.listener.activeConns.Add(1)
	s.listener.logger.Debug("msg", "Pipe writer connected",
		"component", "pipe_listener",
		"active_connections", n)
	return nil, gnet.None
}

func (s *pipeServer) OnClose(c gnet.Conn, err error) gnet.Action {
	s.mu.Lock()
	client := s.clients[c]
	delete(s.clients, c)
	s.mu.Unlock()

	// Flush an unterminated tail
	if client != nil && client.buffer.Len() > 0 && !client.truncated {
		s.listener.emit(bytes.Clone(client.buffer.Bytes()))
	}

	n := s.listener.activeConns.Add(-1)
	s.listener.logger.Debug("msg", "Pipe writer disconnected",
		"component", "pipe_listener",
		"active_connections", n,
		"error", err)
	return gnet.None
}

func (s *pipeServer) OnTraffic(c gnet.Conn) gnet.Action {
	s.mu.RLock()
	client, exists := s.clients[c]
	s.mu.RUnlock()

	if !exists {
		return gnet.Close
	}

	data, err := c.Next(-1)
	if err != nil {
		s.listener.logger.Error("msg", "Error reading from pipe writer",
			"component", "pipe_listener",
			"error", err)
		return gnet.Close
	}

	for len(data) > 0 {
		idx := bytes.IndexByte(data, '\n')
		if idx < 0 {
			s.buffer(client, data)
			return gnet.None
		}

		s.buffer(client, data[:idx])
		if !client.truncated {
			s.listener.emit(bytes.Clone(client.buffer.Bytes()))
		}
		client.buffer.Reset()
		client.truncated = false
		data = data[idx+1:]
	}
	return gnet.None
}

// buffer accumulates a partial line, discarding lines over maxLineLength
func (s *pipeServer) buffer(client *pipeClient, part []byte) {
	if client.truncated {
		return
	}
	if client.buffer.Len()+len(part) > maxLineLength {
		client.truncated = true
		client.buffer.Reset()
		s.listener.truncated.Add(1)
		s.listener.logger.Warn("msg", "Discarding oversized line",
			"component", "pipe_listener",
			"max_length", maxLineLength)
		return
	}
	client.buffer.Write(part)
}
