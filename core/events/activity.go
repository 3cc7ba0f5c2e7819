package events

import (
	"io"

	"github.com/tkovacevic/dialogline/core/service"
)

const KindActivityReceived Kind = "activity.received"

type ActivityReceived struct {
	Base

	Activity service.Activity

	// Audio is the audio output the service attached to the activity, if any.
	Audio io.Reader
}

func (e ActivityReceived) String() string { return "Activity Received" }

func (e ActivityReceived) HasAudio() bool { return e.Audio != nil }

func NewActivityReceived(sessionID string, activity service.Activity, audio io.Reader) ActivityReceived {
	return ActivityReceived{Base: NewBase(KindActivityReceived, sessionID), Activity: activity, Audio: audio}
}
