package model

// Slack Events API payload types
const (
	EnvelopeURLVerification = "url_verification"
	EnvelopeEventCallback   = "event_callback"

	EventMessage    = "message"
	EventAppMention = "app_mention"
	SubtypeBot      = "bot_message"
	SubtypeChanged  = "message_changed"
	SubtypeDeleted  = "message_deleted"

	HeaderRetryNum  = "X-Slack-Retry-Num"
	HeaderTimestamp = "X-Slack-Request-Timestamp"
	HeaderSignature = "X-Slack-Signature"
)

// Envelope là body ngoài cùng Slack POST tới /api/slack/events
type Envelope struct {
	Type      string      `json:"type"`
	Challenge string      `json:"challenge,omitempty"`
	TeamID    string      `json:"team_id,omitempty"`
	EventID   string      `json:"event_id,omitempty"`
	EventTime int64       `json:"event_time,omitempty"`
	Event     *InnerEvent `json:"event,omitempty"`
}

type InnerEvent struct {
	Type     string `json:"type"`
	Subtype  string `json:"subtype,omitempty"`
	User     string `json:"user,omitempty"`
	BotID    string `json:"bot_id,omitempty"`
	Text     string `json:"text"`
	Channel  string `json:"channel"`
	TS       string `json:"ts"`
	ThreadTS string `json:"thread_ts,omitempty"`
}

// FromBot: tin nhắn của bot (kể cả của chính mình) luôn bị bỏ qua
func (e *InnerEvent) FromBot() bool {
	return e.BotID != "" || e.Subtype == SubtypeBot
}

// Actionable: chỉ message mới hoặc mention, không phải edit/delete/bot
func (e *InnerEvent) Actionable() bool {
	if e == nil || e.FromBot() {
		return false
	}
	if e.Type != EventMessage && e.Type != EventAppMention {
		return false
	}
	return e.Subtype == ""
}

// ReplyThread: reply vào thread hiện có, hoặc mở thread dưới message gốc
func (e *InnerEvent) ReplyThread() string {
	if e.ThreadTS != "" {
		return e.ThreadTS
	}
	return e.TS
}
