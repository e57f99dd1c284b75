// Package voice renders the cXML documents served to SignalWire during a call.
// SignalWire's cXML is TwiML-compatible, so the twilio-go builders are used directly.
package voice

import (
	"strings"

	"github.com/twilio/twilio-go/twiml"
)

const (
	gatherInput     = "dtmf speech"
	gatherTimeout   = "5"
	gatherNumDigits = "1"
)

// Menu is the two-branch spoken menu offered to the callee.
type Menu struct {
	Language string
	Prompt   string
	Branches map[string]string // keyed by the DTMF digit
	Closing  string
}

// DefaultMenu returns the stock Arabic menu: 1 plays the club message, 2 the company message.
func DefaultMenu(language string) Menu {
	if strings.TrimSpace(language) == "" {
		language = "ar-EG"
	}
	return Menu{
		Language: language,
		Prompt:   "مرحبًا، شكرًا لاتصالك. اضغط واحد لرسالة النادي، أو اثنين لرسالة الشركة.",
		Branches: map[string]string{
			"1": "هذه رسالة النادي. شكرًا لاتصالك.",
			"2": "هذه رسالة الشركة. شكرًا لاتصالك.",
		},
		Closing: "شكرًا. سيتم إنهاء المكالمة الآن.",
	}
}

// Start renders the prompt followed by a single-digit gather posting to actionURL.
func (m Menu) Start(actionURL string) (string, error) {
	return twiml.Voice([]twiml.Element{
		m.say(m.Prompt),
		&twiml.VoiceGather{
			Input:     gatherInput,
			Timeout:   gatherTimeout,
			NumDigits: gatherNumDigits,
			Action:    actionURL,
			Method:    "POST",
		},
	})
}

// HasBranch reports whether digit selects one of the recorded messages.
func (m Menu) HasBranch(digit string) bool {
	_, ok := m.Branches[digit]
	return ok
}

// Branch renders the message for digit and hangs up. Unknown digits get the closing message.
func (m Menu) Branch(digit string) (string, error) {
	text, ok := m.Branches[digit]
	if !ok {
		return m.Goodbye()
	}
	return twiml.Voice([]twiml.Element{m.say(text), &twiml.VoiceHangup{}})
}

// Goodbye renders the generic closing message and hangs up.
func (m Menu) Goodbye() (string, error) {
	return twiml.Voice([]twiml.Element{m.say(m.Closing), &twiml.VoiceHangup{}})
}

func (m Menu) say(text string) *twiml.VoiceSay {
	return &twiml.VoiceSay{Message: text, Language: m.Language}
}
