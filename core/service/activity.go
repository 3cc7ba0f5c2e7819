package service

import (
	"io"

	json "github.com/goccy/go-json"
)

// Activity is an opaque structured message exchanged with the dialog
// service. The payload is carried verbatim; this package never interprets
// it beyond the optional top-level "type" field.
type Activity struct {
	// ID is the activity id. Empty on outbound activities that have not
	// been sent yet; the service assigns one during delivery.
	ID string

	Payload json.RawMessage

	// Audio optionally attaches an audio stream to an outbound activity.
	Audio io.Reader
}

func NewActivity(payload []byte) Activity {
	return Activity{Payload: append(json.RawMessage(nil), payload...)}
}

// Type returns the activity's top-level "type" field, or "" when the
// payload has none or cannot be parsed.
func (a Activity) Type() string {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(a.Payload, &probe); err != nil {
		return ""
	}
	return probe.Type
}
