// FILE: src/internal/status/server_test.go
package status

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"fanlog/src/internal/core"
	"fanlog/src/logging"

	"github.com/lixenwraith/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

type fakeSource struct {
	stats []logging.SinkStats
}

func (f *fakeSource) ID() string                 { return "provider-1" }
func (f *fakeSource) Uptime() time.Duration      { return 90 * time.Second }
func (f *fakeSource) Stats() []logging.SinkStats { return f.stats }

func serve(s *Server, method, path string) *fasthttp.RequestCtx {
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	s.requestHandler(&ctx)
	return &ctx
}

func TestStatusEndpoint(t *testing.T) {
	src := &fakeSource{stats: []logging.SinkStats{
		{Kind: core.Console, Type: "console", Delivered: 4},
		{Kind: core.File, Type: "file", Enqueued: 10, Delivered: 9, Pending: 1},
	}}
	s := NewServer(Config{}, src, log.NewLogger())

	ctx := serve(s, fasthttp.MethodGet, "/status")
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, "application/json", string(ctx.Response.Header.ContentType()))

	var body struct {
		Service    string `json:"service"`
		ProviderID string `json:"provider_id"`
		Uptime     int    `json:"uptime_seconds"`
		Sinks      []struct {
			Type      string `json:"type"`
			Delivered uint64 `json:"delivered"`
			Pending   int    `json:"pending"`
		} `json:"sinks"`
	}
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &body))
	assert.Equal(t, "fanlog", body.Service)
	assert.Equal(t, "provider-1", body.ProviderID)
	assert.Equal(t, 90, body.Uptime)
	require.Len(t, body.Sinks, 2)
	assert.Equal(t, "file", body.Sinks[1].Type)
	assert.Equal(t, uint64(9), body.Sinks[1].Delivered)
	assert.Equal(t, 1, body.Sinks[1].Pending)
}

func TestHealthEndpoint(t *testing.T) {
	src := &fakeSource{stats: []logging.SinkStats{{Type: "file"}}}
	s := NewServer(Config{}, src, nil)

	ctx := serve(s, fasthttp.MethodGet, "/health")
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.JSONEq(t, `{"status":"ok"}`, string(ctx.Response.Body()))

	src.stats = append(src.stats, logging.SinkStats{Type: "pipe", Degraded: true})
	ctx = serve(s, fasthttp.MethodGet, "/health")
	assert.Equal(t, fasthttp.StatusServiceUnavailable, ctx.Response.StatusCode())
	assert.JSONEq(t, `{"status":"degraded","degraded":["pipe"]}`, string(ctx.Response.Body()))
}

func TestUnknownRoutes(t *testing.T) {
	s := NewServer(Config{}, &fakeSource{}, nil)

	ctx := serve(s, fasthttp.MethodGet, "/metrics")
	assert.Equal(t, fasthttp.StatusNotFound, ctx.Response.StatusCode())

	ctx = serve(s, fasthttp.MethodPost, "/status")
	assert.Equal(t, fasthttp.StatusMethodNotAllowed, ctx.Response.StatusCode())

	// Empty stats still render as a list
	ctx = serve(s, fasthttp.MethodGet, "/status")
	assert.Contains(t, string(ctx.Response.Body()), `"sinks":[]`)
}

func TestServerLifecycle(t *testing.T) {
	s := NewServer(Config{Host: "127.0.0.1", Port: 0}, &fakeSource{}, nil)
	assert.Nil(t, s.Addr())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.Start(ctx))
	require.NotNil(t, s.Addr())

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fmt.Sprintf("http://%s/health", s.Addr()))
	require.NoError(t, fasthttp.DoTimeout(req, resp, 2*time.Second))
	assert.Equal(t, fasthttp.StatusOK, resp.StatusCode())

	s.Stop()
	s.Stop()
}
