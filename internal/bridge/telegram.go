package bridge

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/callbridge/internal/phone"
	"github.com/wolfman30/callbridge/internal/signalwire"
	"github.com/wolfman30/callbridge/internal/telegram"
)

const (
	// HelpMessage answers /start and /ping.
	HelpMessage = "✅ Bot is running\nSend: /call 01xxxxxxxxx or /call +2010xxxxxxx"
	// UsageMessage answers /call without a number.
	UsageMessage = "📞 Usage: /call 01xxxxxxxxx or /call +2010xxxxxxx"
)

const maxUpdateBytes = 1 << 20

// TelegramWebhook handles POST /telegram/webhook.
func (h *Handler) TelegramWebhook(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, span := tracer.Start(r.Context(), "bridge.telegram.webhook")
	defer span.End()

	if missing := h.cfg.Missing(); len(missing) > 0 {
		h.logger.Warn("telegram webhook rejected, configuration incomplete", "missing", missing)
		writeText(w, http.StatusInternalServerError, "Missing env vars: "+strings.Join(missing, ", "))
		h.observe(routeTelegram, "config_missing", start)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxUpdateBytes))
	if err != nil {
		h.logger.Warn("failed to read telegram update", "error", err)
	}
	upd := telegram.ParseUpdate(body)
	span.SetAttributes(attribute.Int64("callbridge.telegram.update_id", upd.UpdateID))

	outcome := "ignored"
	cmd := telegram.ParseCommand(upd.Text())
	switch cmd.Kind {
	case telegram.CommandHelp:
		h.notifier.Notify(ctx, HelpMessage)
		outcome = "help"
	case telegram.CommandCall:
		outcome = h.handleCallCommand(ctx, cmd.Arg, h.baseURL(r))
	}

	writeText(w, http.StatusOK, "ok")
	h.observe(routeTelegram, outcome, start)
}

// handleCallCommand normalizes the argument, originates the call and reports back to the chat.
// Every failure ends in a notification; nothing is returned to the HTTP caller.
func (h *Handler) handleCallCommand(ctx context.Context, raw, base string) string {
	if raw == "" {
		h.notifier.Notify(ctx, UsageMessage)
		return "usage"
	}

	to, err := phone.ToE164(raw, h.cfg.DefaultCountryCode)
	if err != nil || !phone.Dialable(to) {
		h.logger.Info("rejected call number", "input", raw)
		h.notifier.Notify(ctx, fmt.Sprintf("❌ Invalid number: %s\nTry: +2010xxxxxxx or 01xxxxxxxxx", raw))
		return "invalid_number"
	}

	if h.calls == nil {
		h.logger.Error("telephony client unavailable")
		h.notifier.Notify(ctx, "❌ Failed to start call: telephony client unavailable")
		h.metrics.ObserveCall("failed")
		return "call_failed"
	}

	call, err := h.calls.CreateCall(ctx, signalwire.CallRequest{
		From:                 h.cfg.SignalWireNumber,
		To:                   to,
		URL:                  base + outboundStartPath,
		Method:               http.MethodPost,
		StatusCallback:       base + statusPath,
		StatusCallbackEvents: signalwire.DefaultStatusCallbackEvents,
	})
	if err != nil {
		h.logger.Error("failed to originate call", "error", err, "to", to)
		h.notifier.Notify(ctx, fmt.Sprintf("❌ Failed to start call: %v", err))
		h.metrics.ObserveCall("failed")
		return "call_failed"
	}

	h.logger.Info("call originated", "call_sid", call.SID, "to", to)
	h.notifier.Notify(ctx, callStartedMessage(to, call.SID))
	h.metrics.ObserveCall("started")
	return "call_started"
}

func callStartedMessage(to, sid string) string {
	msg := fmt.Sprintf("📤 Calling %s\nCallSid: %s", to, sid)
	if region := phone.Region(to); region != "" {
		msg += "\nRegion: " + region
	}
	return msg
}
