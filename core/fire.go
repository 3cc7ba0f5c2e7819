package dialog

import (
	"io"
	"time"

	"github.com/jinzhu/copier"
	"github.com/tkovacevic/dialogline/core/events"
	"github.com/tkovacevic/dialogline/core/service"
)

// The Fire entry points construct an event record and hand it to the
// dispatcher for delivery to the listeners registered at that moment.
// Firing never blocks beyond the dispatch call itself.

func (c *Connector) FireSessionStarted(sessionID string) {
	c.dispatcher.fire(events.NewSessionStarted(sessionID))
}

func (c *Connector) FireSessionStopped(sessionID string) {
	c.dispatcher.fire(events.NewSessionStopped(sessionID))
}

func (c *Connector) FireSpeechStartDetected(sessionID string, offset time.Duration) {
	c.dispatcher.fire(events.NewSpeechStartDetected(sessionID, offset))
}

func (c *Connector) FireSpeechEndDetected(sessionID string, offset time.Duration) {
	c.dispatcher.fire(events.NewSpeechEndDetected(sessionID, offset))
}

func (c *Connector) FireResultEvent(sessionID string, result service.RecognitionResult) {
	c.dispatcher.fire(events.NewRecognitionResult(sessionID, result))
}

// FireActivityReceived hands an inbound activity to the listeners. The
// payload is deep-copied first: the delivery path owns the activity until a
// listener takes it, and listeners must not share backing storage with the
// transport's read buffer.
func (c *Connector) FireActivityReceived(sessionID string, activity service.Activity, audio io.Reader) {
	cloned := service.Activity{}
	if err := copier.CopyWithOption(&cloned, &activity, copier.Option{DeepCopy: true}); err != nil {
		logger.Warn("failed to clone inbound activity, delivering original", "error", err)
		cloned = activity
	}
	cloned.Audio = activity.Audio

	c.dispatcher.fire(events.NewActivityReceived(sessionID, cloned, audio))
}
