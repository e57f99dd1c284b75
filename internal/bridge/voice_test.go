package bridge

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/callbridge/internal/voice"
)

func TestOutboundStartServesMenu(t *testing.T) {
	f := newFixture(t, testConfig())
	w := httptest.NewRecorder()
	req := formRequest("/voice/outbound-start", url.Values{"CallSid": {"CA1"}})
	req.Header.Set("X-Forwarded-Proto", "https")

	f.handler.OutboundStart(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/xml", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, "<Gather")
	assert.Contains(t, body, "https://bridge.example.com/voice/gather")
	assert.Contains(t, body, voice.DefaultMenu("ar-EG").Prompt)
	assert.Empty(t, f.notifier.messages)
}

func TestIncomingServesMenuAndNotifies(t *testing.T) {
	f := newFixture(t, testConfig())
	w := httptest.NewRecorder()

	f.handler.Incoming(w, formRequest("/voice/incoming", url.Values{"CallSid": {"CA9"}, "From": {"+201000000001"}}))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<Gather")
	require.Len(t, f.notifier.messages, 1)
	assert.Contains(t, f.notifier.messages[0], "+201000000001")
	assert.Contains(t, f.notifier.messages[0], "CA9")
}

func TestGatherBranches(t *testing.T) {
	menu := voice.DefaultMenu("ar-EG")
	for _, digit := range []string{"1", "2"} {
		t.Run(digit, func(t *testing.T) {
			f := newFixture(t, testConfig())
			w := httptest.NewRecorder()

			f.handler.Gather(w, formRequest("/voice/gather", url.Values{"Digits": {digit}, "CallSid": {"CA7"}}))

			assert.Equal(t, http.StatusOK, w.Code)
			body := w.Body.String()
			assert.Contains(t, body, menu.Branches[digit])
			assert.NotContains(t, body, "<Gather")
			assert.Contains(t, body, "<Hangup")

			require.Len(t, f.notifier.messages, 1)
			assert.Contains(t, f.notifier.messages[0], "pressed: "+digit)
			assert.Contains(t, f.notifier.messages[0], "CA7")
		})
	}
}

func TestGatherOtherDigitCloses(t *testing.T) {
	f := newFixture(t, testConfig())
	w := httptest.NewRecorder()

	f.handler.Gather(w, formRequest("/voice/gather", url.Values{"Digits": {"5"}, "CallSid": {"CA7"}}))

	body := w.Body.String()
	assert.Contains(t, body, voice.DefaultMenu("ar-EG").Closing)
	assert.Contains(t, body, "<Hangup")
	require.Len(t, f.notifier.messages, 1)
	assert.Contains(t, f.notifier.messages[0], "pressed: 5")
}

func TestGatherSpeechOnly(t *testing.T) {
	f := newFixture(t, testConfig())
	w := httptest.NewRecorder()

	f.handler.Gather(w, formRequest("/voice/gather", url.Values{"SpeechResult": {"واحد"}, "CallSid": {"CA8"}}))

	body := w.Body.String()
	assert.Contains(t, body, voice.DefaultMenu("ar-EG").Closing)
	assert.Contains(t, body, "<Hangup")
	require.Len(t, f.notifier.messages, 1)
	assert.Contains(t, f.notifier.messages[0], "said: واحد")
	assert.NotContains(t, f.notifier.messages[0], "pressed")
}

func TestGatherNothingCaptured(t *testing.T) {
	f := newFixture(t, testConfig())
	w := httptest.NewRecorder()

	f.handler.Gather(w, formRequest("/voice/gather", url.Values{"CallSid": {"CA8"}}))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<Hangup")
	assert.Empty(t, f.notifier.messages)
}

func TestCaptureMessageCombinesInputs(t *testing.T) {
	msg := captureMessage("3", "hello", "CA1")
	lines := strings.Split(msg, "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "3")
	assert.Contains(t, lines[1], "hello")
	assert.Equal(t, "CallSid: CA1", lines[2])
	assert.Equal(t, "", captureMessage("", "", "CA1"))
}

func TestStatusForwardsEvent(t *testing.T) {
	for _, status := range []string{"queued", "ringing", "in-progress", "completed", "busy", "failed", "no-answer"} {
		t.Run(status, func(t *testing.T) {
			f := newFixture(t, testConfig())
			w := httptest.NewRecorder()

			f.handler.Status(w, formRequest("/voice/status", url.Values{
				"CallSid":    {"CA5"},
				"CallStatus": {status},
				"From":       {"+15550001111"},
				"To":         {"+201012345678"},
			}))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "ok", w.Body.String())
			require.Len(t, f.notifier.messages, 1)
			msg := f.notifier.messages[0]
			assert.Contains(t, msg, status)
			assert.Contains(t, msg, "+15550001111")
			assert.Contains(t, msg, "+201012345678")
			assert.Contains(t, msg, "CA5")
		})
	}
}

func TestStatusWithoutNotifier(t *testing.T) {
	h := NewHandler(Options{Config: testConfig()})
	w := httptest.NewRecorder()

	h.Status(w, formRequest("/voice/status", url.Values{"CallStatus": {"completed"}}))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}
