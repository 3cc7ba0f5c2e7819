package directline

import (
	json "github.com/goccy/go-json"
)

// Client-side message shapes for the dialog endpoint. Text frames carry a
// JSON envelope tagged by "type"; binary frames carry audio and are handled
// elsewhere.
const (
	msgTypeActivity     = "activity"
	msgTypeAck          = "ack"
	msgTypeListenStart  = "listen.start"
	msgTypeListenStop   = "listen.stop"
	msgTypeListenOnce   = "listen.once"
	msgTypeKeywordStart = "keyword.start"
	msgTypeKeywordStop  = "keyword.stop"
	msgTypeSpeechStart  = "speech.startDetected"
	msgTypeSpeechEnd    = "speech.endDetected"
	msgTypePhrase       = "speech.phrase"
	msgTypeKeepAlive    = "keepalive"
)

const listenModeContinuous = "continuous"

type activityMessage struct {
	Type     string          `json:"type"`
	ID       string          `json:"id,omitempty"`
	Activity json.RawMessage `json:"activity"`
	Audio    []byte          `json:"audio,omitempty"`
}

type ackMessage struct {
	Type  string `json:"type"`
	ID    string `json:"id"`
	Error string `json:"error,omitempty"`
}

type listenMessage struct {
	Type  string `json:"type"`
	Mode  string `json:"mode,omitempty"`
	Model string `json:"model,omitempty"`
}

type speechEventMessage struct {
	Type     string `json:"type"`
	OffsetMs int64  `json:"offsetMs"`
}

type phraseMessage struct {
	Type       string `json:"type"`
	ResultID   string `json:"resultId"`
	Reason     string `json:"reason"`
	Text       string `json:"text"`
	OffsetMs   int64  `json:"offsetMs"`
	DurationMs int64  `json:"durationMs"`
}

type keepAliveMessage struct {
	Type string `json:"type"`
}
