package bootstrap

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/callbridge/internal/api/router"
	"github.com/wolfman30/callbridge/internal/bridge"
	appconfig "github.com/wolfman30/callbridge/internal/config"
	"github.com/wolfman30/callbridge/internal/observability/metrics"
	"github.com/wolfman30/callbridge/internal/signalwire"
	"github.com/wolfman30/callbridge/internal/telegram"
	"github.com/wolfman30/callbridge/pkg/logging"
)

// SetupMetrics returns a fresh registry with runtime collectors, the bridge metrics
// registered on it, and the handler that exposes it.
func SetupMetrics() (*prometheus.Registry, *metrics.BridgeMetrics, http.Handler) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewBridgeMetrics(reg)
	return reg, m, promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// BuildCallClient returns the SignalWire client, or nil when credentials are incomplete.
// The server still starts so GET / can report what is missing.
func BuildCallClient(cfg *appconfig.Config, logger *logging.Logger) *signalwire.Client {
	if cfg == nil {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	client, err := signalwire.NewClient(signalwire.Config{
		ProjectID: cfg.SignalWireProject,
		Token:     cfg.SignalWireToken,
		SpaceURL:  cfg.SignalWireSpaceURL,
		Timeout:   cfg.HTTPClientTimeout,
		Logger:    logger,
	})
	if err != nil {
		logger.Warn("signalwire client disabled", "error", err)
		return nil
	}
	return client
}

// BuildNotifier wires the Telegram chat notifier.
func BuildNotifier(cfg *appconfig.Config, m *metrics.BridgeMetrics, logger *logging.Logger) *telegram.Notifier {
	client := telegram.NewClient(telegram.Config{
		BaseURL:  cfg.TelegramAPIBaseURL,
		BotToken: cfg.TelegramBotToken,
		Timeout:  cfg.HTTPClientTimeout,
	})
	return telegram.NewNotifier(client, cfg.TelegramChatID, m, logger)
}

// BuildHTTPHandler assembles the full HTTP surface from configuration.
func BuildHTTPHandler(cfg *appconfig.Config, logger *logging.Logger) (http.Handler, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if missing := cfg.Missing(); len(missing) > 0 {
		logger.Warn("configuration incomplete", "missing", missing)
	}

	_, m, metricsHandler := SetupMetrics()

	opts := bridge.Options{
		Config:   cfg,
		Notifier: BuildNotifier(cfg, m, logger),
		Metrics:  m,
		Logger:   logger,
	}
	// Assigned only when non-nil so the interface stays nil.
	if calls := BuildCallClient(cfg, logger); calls != nil {
		opts.Calls = calls
	}

	return router.New(&router.Config{
		Logger:         logger,
		Bridge:         bridge.NewHandler(opts),
		MetricsHandler: metricsHandler,
	}), nil
}
