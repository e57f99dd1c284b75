package telegram

import (
	"encoding/json"
	"strings"
	"unicode"
)

// Update is the subset of a Bot API update the bridge reads.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message,omitempty"`
}

// Message is an incoming chat message.
type Message struct {
	MessageID int64  `json:"message_id"`
	Text      string `json:"text"`
	Chat      Chat   `json:"chat"`
	From      *User  `json:"from,omitempty"`
}

// Chat identifies the conversation a message arrived in.
type Chat struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// User is the sender of a message.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// ParseUpdate decodes an update payload. Malformed JSON yields an empty update rather than
// an error because the webhook acknowledges every delivery.
func ParseUpdate(body []byte) Update {
	var upd Update
	if err := json.Unmarshal(body, &upd); err != nil {
		return Update{}
	}
	return upd
}

// Text returns the trimmed message text, or "" when the update carries no message.
func (u Update) Text() string {
	if u.Message == nil {
		return ""
	}
	return strings.TrimSpace(u.Message.Text)
}

// CommandKind classifies a chat message.
type CommandKind int

const (
	CommandNone CommandKind = iota
	CommandHelp
	CommandCall
)

// Command is a parsed chat command. Arg holds the raw /call argument with case preserved.
type Command struct {
	Kind CommandKind
	Arg  string
}

// ParseCommand recognises /start, /ping and /call <number>. Matching is case-insensitive;
// /call matches by prefix and its argument is everything after the first whitespace run.
func ParseCommand(text string) Command {
	text = strings.TrimSpace(text)
	if text == "" {
		return Command{Kind: CommandNone}
	}
	lower := strings.ToLower(text)
	switch stripBotSuffix(lower) {
	case "/start", "/ping":
		return Command{Kind: CommandHelp}
	}
	if !strings.HasPrefix(lower, "/call") {
		return Command{Kind: CommandNone}
	}
	idx := strings.IndexFunc(text, unicode.IsSpace)
	if idx < 0 {
		return Command{Kind: CommandCall}
	}
	return Command{Kind: CommandCall, Arg: strings.TrimSpace(text[idx:])}
}

// stripBotSuffix turns "/ping@my_bot" into "/ping" for group chats.
func stripBotSuffix(word string) string {
	if strings.IndexFunc(word, unicode.IsSpace) >= 0 {
		return word
	}
	if at := strings.IndexByte(word, '@'); at > 0 {
		return word[:at]
	}
	return word
}
