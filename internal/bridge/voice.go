package bridge

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
)

// OutboundStart handles POST /voice/outbound-start, fetched by SignalWire once the callee answers.
func (h *Handler) OutboundStart(w http.ResponseWriter, r *http.Request) {
	h.serveMenu(w, r, routeStart)
}

// Incoming handles POST /voice/incoming for calls placed to the SignalWire number.
func (h *Handler) Incoming(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err == nil {
		if from := strings.TrimSpace(r.FormValue("From")); from != "" {
			h.notifier.Notify(r.Context(), fmt.Sprintf("📥 Incoming call from %s\nCallSid: %s", from, r.FormValue("CallSid")))
		}
	}
	h.serveMenu(w, r, routeIncoming)
}

func (h *Handler) serveMenu(w http.ResponseWriter, r *http.Request, route string) {
	start := time.Now()
	_, span := tracer.Start(r.Context(), "bridge.voice.menu")
	defer span.End()

	doc, err := h.menu.Start(h.baseURL(r) + gatherPath)
	if err != nil {
		h.logger.Error("failed to render menu", "error", err)
		span.RecordError(err)
		http.Error(w, "Failed to generate cXML", http.StatusInternalServerError)
		h.observe(route, "render_error", start)
		return
	}
	writeXML(w, doc)
	h.observe(route, "ok", start)
}

// Gather handles POST /voice/gather with the caller's keypad or speech input.
func (h *Handler) Gather(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, span := tracer.Start(r.Context(), "bridge.voice.gather")
	defer span.End()

	if err := r.ParseForm(); err != nil {
		h.logger.Warn("failed to parse gather form", "error", err)
	}
	digits := strings.TrimSpace(r.FormValue("Digits"))
	speech := strings.TrimSpace(r.FormValue("SpeechResult"))
	sid := strings.TrimSpace(r.FormValue("CallSid"))
	span.SetAttributes(
		attribute.String("callbridge.call_sid", sid),
		attribute.String("callbridge.digits", digits),
	)

	if msg := captureMessage(digits, speech, sid); msg != "" {
		h.notifier.Notify(ctx, msg)
	}

	outcome := "closing"
	var doc string
	var err error
	if h.menu.HasBranch(digits) {
		outcome = "branch_" + digits
		doc, err = h.menu.Branch(digits)
	} else {
		doc, err = h.menu.Goodbye()
	}
	if err != nil {
		h.logger.Error("failed to render gather response", "error", err, "call_sid", sid)
		span.RecordError(err)
		http.Error(w, "Failed to generate cXML", http.StatusInternalServerError)
		h.observe(routeGather, "render_error", start)
		return
	}
	h.logger.Info("gather handled", "call_sid", sid, "digits", digits, "speech", speech != "")
	writeXML(w, doc)
	h.observe(routeGather, outcome, start)
}

// captureMessage summarises whatever the caller entered; "" when nothing was captured.
func captureMessage(digits, speech, sid string) string {
	var lines []string
	if digits != "" {
		lines = append(lines, "👆 Caller pressed: "+digits)
	}
	if speech != "" {
		lines = append(lines, "🗣️ Caller said: "+speech)
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(append(lines, "CallSid: "+sid), "\n")
}

// Status handles POST /voice/status lifecycle callbacks. Every event is forwarded.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, span := tracer.Start(r.Context(), "bridge.voice.status")
	defer span.End()

	if err := r.ParseForm(); err != nil {
		h.logger.Warn("failed to parse status form", "error", err)
	}
	sid := strings.TrimSpace(r.FormValue("CallSid"))
	status := strings.TrimSpace(r.FormValue("CallStatus"))
	from := strings.TrimSpace(r.FormValue("From"))
	to := strings.TrimSpace(r.FormValue("To"))
	span.SetAttributes(
		attribute.String("callbridge.call_sid", sid),
		attribute.String("callbridge.call_status", status),
	)

	h.logger.Info("call status", "call_sid", sid, "status", status, "from", from, "to", to)
	h.metrics.ObserveCallStatus(status)
	h.notifier.Notify(ctx, fmt.Sprintf("📊 Call status: %s\nFrom: %s\nTo: %s\nCallSid: %s", status, from, to, sid))

	writeText(w, http.StatusOK, "ok")
	h.observe(routeStatus, "ok", start)
}
