// Package bridge implements the webhook endpoints that connect Telegram commands to
// SignalWire calls and relay call events back to the chat.
package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/wolfman30/callbridge/internal/config"
	"github.com/wolfman30/callbridge/internal/observability/metrics"
	"github.com/wolfman30/callbridge/internal/signalwire"
	"github.com/wolfman30/callbridge/internal/voice"
	"github.com/wolfman30/callbridge/pkg/logging"
)

var tracer = otel.Tracer("callbridge.internal.bridge")

const (
	routeHome     = "home"
	routeTelegram = "telegram"
	routeStart    = "voice_outbound_start"
	routeIncoming = "voice_incoming"
	routeGather   = "voice_gather"
	routeStatus   = "voice_status"

	gatherPath        = "/voice/gather"
	outboundStartPath = "/voice/outbound-start"
	statusPath        = "/voice/status"
)

// CallCreator originates outbound calls.
type CallCreator interface {
	CreateCall(ctx context.Context, req signalwire.CallRequest) (*signalwire.Call, error)
}

// Notifier relays text to the operator chat. Implementations must not fail observably.
type Notifier interface {
	Notify(ctx context.Context, text string)
}

// Options wires a Handler.
type Options struct {
	Config   *config.Config
	Calls    CallCreator
	Notifier Notifier
	Menu     voice.Menu
	Metrics  *metrics.BridgeMetrics
	Logger   *logging.Logger
}

// Handler serves the chat and voice webhooks.
type Handler struct {
	cfg      *config.Config
	calls    CallCreator
	notifier Notifier
	menu     voice.Menu
	metrics  *metrics.BridgeMetrics
	logger   *logging.Logger
}

// NewHandler creates a Handler. A nil Config is treated as entirely missing.
func NewHandler(opts Options) *Handler {
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}
	if opts.Config == nil {
		opts.Config = &config.Config{}
	}
	if opts.Notifier == nil {
		opts.Notifier = discardNotifier{}
	}
	if opts.Menu.Prompt == "" {
		opts.Menu = voice.DefaultMenu(opts.Config.VoiceLanguage)
	}
	return &Handler{
		cfg:      opts.Config,
		calls:    opts.Calls,
		notifier: opts.Notifier,
		menu:     opts.Menu,
		metrics:  opts.Metrics,
		logger:   opts.Logger,
	}
}

// Home handles GET / as a liveness and configuration check.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if missing := h.cfg.Missing(); len(missing) > 0 {
		h.logger.Warn("configuration incomplete", "missing", missing)
		writeText(w, http.StatusInternalServerError, "Running, but missing env vars: "+strings.Join(missing, ", "))
		h.observe(routeHome, "config_missing", start)
		return
	}
	writeText(w, http.StatusOK, "SignalWire + Telegram bridge is running ✅")
	h.observe(routeHome, "ok", start)
}

// HealthCheck returns a simple health check response without inspecting configuration.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (h *Handler) observe(route, outcome string, start time.Time) {
	h.metrics.ObserveWebhook(route, outcome, time.Since(start).Seconds())
}

// baseURL returns the absolute origin used for provider callbacks.
func (h *Handler) baseURL(r *http.Request) string {
	if h.cfg.PublicBaseURL != "" {
		return h.cfg.PublicBaseURL
	}
	scheme := firstForwarded(r.Header.Get("X-Forwarded-Proto"))
	if scheme == "" {
		scheme = "https"
		if r.TLS == nil {
			scheme = "http"
		}
	}
	host := firstForwarded(r.Header.Get("X-Forwarded-Host"))
	if host == "" {
		host = r.Host
	}
	return fmt.Sprintf("%s://%s", scheme, host)
}

// firstForwarded takes the client-most value of a comma separated forwarding header.
func firstForwarded(value string) string {
	if i := strings.IndexByte(value, ','); i >= 0 {
		value = value[:i]
	}
	return strings.TrimSpace(value)
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func writeXML(w http.ResponseWriter, doc string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}

type discardNotifier struct{}

func (discardNotifier) Notify(context.Context, string) {}
