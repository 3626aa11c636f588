package http

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/moamoa-kids/moamoa-web/internal/config"
	"github.com/moamoa-kids/moamoa-web/internal/core"
	"github.com/moamoa-kids/moamoa-web/internal/policy"
	"github.com/moamoa-kids/moamoa-web/internal/web"
)

const testReplyDelay = 20 * time.Millisecond

type testEnv struct {
	ts  *httptest.Server
	hub *core.Hub
	cfg config.Config
}

// startTestServer runs a hub and an httptest server until the test ends.
func startTestServer(t *testing.T, mutate func(*config.Config)) *testEnv {
	t.Helper()

	cfg := config.Default()
	cfg.Addr = ":0"
	cfg.ReadHeaderTimeout = time.Second
	cfg.ShutdownTimeout = time.Second
	cfg.ReplyDelay = testReplyDelay
	cfg.CORSOrigins = []string{"http://localhost"}
	if mutate != nil {
		mutate(&cfg)
	}

	catalog, err := core.NewCatalog(cfg.Locale)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	hub := core.NewHub(catalog, core.WithReplyDelay(cfg.ReplyDelay))
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	pages, err := web.NewPages()
	if err != nil {
		t.Fatalf("pages: %v", err)
	}

	disabledLogger := zerolog.Nop()
	pol := policy.Policy{Terms: "제1조 (목적)", Privacy: "개인정보는 저장하지 않아요."}
	server := NewServer(hub, pages, pol, &cfg, &disabledLogger)
	ts := httptest.NewServer(server.Handler)

	t.Cleanup(func() {
		cancel()
		<-stopped
		ts.Close()
	})

	return &testEnv{ts: ts, hub: hub, cfg: cfg}
}
