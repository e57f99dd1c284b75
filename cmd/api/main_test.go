package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	appconfig "github.com/wolfman30/callbridge/internal/config"
	"github.com/wolfman30/callbridge/pkg/logging"
)

func TestNewServerUsesPort(t *testing.T) {
	cfg := &appconfig.Config{Port: "5055"}
	srv, err := newServer(cfg, logging.New("error"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if srv.Addr != ":5055" {
		t.Fatalf("expected addr :5055, got %q", srv.Addr)
	}
	if srv.ReadTimeout == 0 || srv.WriteTimeout == 0 {
		t.Fatalf("expected server timeouts to be set")
	}
}

func TestNewServerExposesRoutes(t *testing.T) {
	srv, err := newServer(&appconfig.Config{Port: "5000"}, logging.New("error"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected health 200, got %d", rr.Code)
	}

	srv.Handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	rr = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected metrics 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "callbridge_webhook_total") {
		t.Fatalf("expected webhook counter after home request")
	}
}

func TestNewServerRequiresConfig(t *testing.T) {
	if _, err := newServer(nil, logging.New("error")); err == nil {
		t.Fatalf("expected error for nil config")
	}
}
