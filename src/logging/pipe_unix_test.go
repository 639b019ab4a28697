// FILE: src/logging/pipe_unix_test.go
//go:build !windows

package logging

import (
	"bufio"
	"context"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func socketPath(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "fl")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	return filepath.Join(dir, "p.sock")
}

func TestPipeWithoutListenerDoesNotBlock(t *testing.T) {
	s, _ := testSettings(t, NewSinkSet(Pipe))
	s.Pipe = &PipeSettings{Enabled: true, Name: socketPath(t)}
	p := NewProvider(s)
	d := p.Logger("pipe")

	start := time.Now()
	for i := 0; i < 1000; i++ {
		d.Info("queued while nobody listens")
	}
	assert.Less(t, time.Since(start), time.Second)

	stats := p.Stats()
	require.Len(t, stats, 1)
	assert.Equal(t, "pipe", stats[0].Type)
	assert.Equal(t, uint64(1000), stats[0].Enqueued)
	assert.False(t, stats[0].Connected)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, p.Shutdown(ctx))
	assert.Equal(t, uint64(1001), p.Stats()[0].Dropped)
}

func TestPipeDelivery(t *testing.T) {
	path := socketPath(t)
	ln, err := net.Listen("unix", path)
	require.NoError(t, err)
	defer ln.Close()

	received := make(chan string, 8)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			received <- scanner.Text()
		}
	}()

	s, _ := testSettings(t, NewSinkSet(Pipe))
	s.Colorize = false
	s.Pipe = &PipeSettings{Enabled: true, Name: path}
	p := NewProvider(s)
	defer p.Shutdown(context.Background())

	p.Logger("stream").Warn("over the pipe")

	select {
	case line := <-received:
		assert.Contains(t, line, "[WARNING      ]")
		assert.Contains(t, line, "[stream")
		assert.True(t, strings.HasSuffix(line, " - over the pipe"))
	case <-time.After(3 * time.Second):
		t.Fatal("line not received")
	}
}

func TestPipeSkippedWithoutConfig(t *testing.T) {
	for name, ps := range map[string]*PipeSettings{
		"Absent":   nil,
		"Disabled": {Enabled: false, Name: "fanlog"},
		"NoName":   {Enabled: true},
	} {
		t.Run(name, func(t *testing.T) {
			s, _ := testSettings(t, NewSinkSet(Pipe))
			s.Pipe = ps
			p := NewProvider(s)
			p.Logger("x").Info("nowhere")
			assert.Empty(t, p.Stats())
			require.NoError(t, p.Shutdown(context.Background()))
		})
	}
}

func TestEventLogSkippedOnUnsupportedPlatform(t *testing.T) {
	s, out := testSettings(t, NewSinkSet(Console, EventLog))
	s.EventLogSource = "fanlog"
	p := NewProvider(s)

	p.Logger("evt").Warn("console only")
	shutdown(t, p)

	assert.Contains(t, out.String(), "console only")
	for _, st := range p.Stats() {
		assert.NotEqual(t, "eventlog", st.Type)
	}
}
