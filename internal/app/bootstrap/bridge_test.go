package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	appconfig "github.com/wolfman30/callbridge/internal/config"
	"github.com/wolfman30/callbridge/pkg/logging"
)

func TestBuildHTTPHandlerRequiresConfig(t *testing.T) {
	if _, err := BuildHTTPHandler(nil, logging.New("error")); err == nil {
		t.Fatalf("expected error for nil config")
	}
}

func TestBuildCallClientIncompleteReturnsNil(t *testing.T) {
	cfg := &appconfig.Config{SignalWireProject: "proj"}
	if client := BuildCallClient(cfg, logging.New("error")); client != nil {
		t.Fatalf("expected nil client without token and space")
	}
	if client := BuildCallClient(nil, nil); client != nil {
		t.Fatalf("expected nil client for nil config")
	}
}

func TestBuildCallClientComplete(t *testing.T) {
	cfg := &appconfig.Config{
		SignalWireProject:  "proj",
		SignalWireToken:    "token",
		SignalWireSpaceURL: "example.signalwire.com",
	}
	if client := BuildCallClient(cfg, logging.New("error")); client == nil {
		t.Fatalf("expected client for complete credentials")
	}
}

func TestSetupMetricsExposesMetrics(t *testing.T) {
	_, m, handler := SetupMetrics()
	if handler == nil || m == nil {
		t.Fatalf("expected non-nil handler and metrics")
	}

	m.ObserveCall("started")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "callbridge_calls_originated_total") {
		t.Fatalf("expected call counter to be exported")
	}
	if !strings.Contains(body, "go_goroutines") {
		t.Fatalf("expected runtime collectors to be exported")
	}
}

func TestSetupMetricsIsolatedRegistries(t *testing.T) {
	SetupMetrics()
	SetupMetrics()
}

func TestBuildHTTPHandlerServesHome(t *testing.T) {
	cfg := &appconfig.Config{SignalWireProject: "proj"}
	handler, err := BuildHTTPHandler(cfg, logging.New("error"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rr.Code)
	}
	want := "Running, but missing env vars: SIGNALWIRE_TOKEN, SIGNALWIRE_SPACE_URL, SIGNALWIRE_NUMBER, TELEGRAM_BOT_TOKEN, TELEGRAM_CHAT_ID"
	if got := rr.Body.String(); got != want {
		t.Fatalf("unexpected body %q", got)
	}
}
