package dialog

import "github.com/tkovacevic/dialogline/core/events"

// Listener registration surface. Each event family takes a typed callback;
// the returned registration removes exactly that listener. For a single
// event, listeners run in registration order.

func (c *Connector) AddSessionStartedListener(fn func(events.SessionStarted)) ListenerRegistration {
	return c.dispatcher.add(events.KindSessionStarted, func(event events.Event) {
		if typed, ok := event.(events.SessionStarted); ok {
			fn(typed)
		}
	})
}

func (c *Connector) AddSessionStoppedListener(fn func(events.SessionStopped)) ListenerRegistration {
	return c.dispatcher.add(events.KindSessionStopped, func(event events.Event) {
		if typed, ok := event.(events.SessionStopped); ok {
			fn(typed)
		}
	})
}

func (c *Connector) AddSpeechStartDetectedListener(fn func(events.SpeechStartDetected)) ListenerRegistration {
	return c.dispatcher.add(events.KindSpeechStartDetected, func(event events.Event) {
		if typed, ok := event.(events.SpeechStartDetected); ok {
			fn(typed)
		}
	})
}

func (c *Connector) AddSpeechEndDetectedListener(fn func(events.SpeechEndDetected)) ListenerRegistration {
	return c.dispatcher.add(events.KindSpeechEndDetected, func(event events.Event) {
		if typed, ok := event.(events.SpeechEndDetected); ok {
			fn(typed)
		}
	})
}

func (c *Connector) AddRecognitionResultListener(fn func(events.RecognitionResult)) ListenerRegistration {
	return c.dispatcher.add(events.KindRecognitionResult, func(event events.Event) {
		if typed, ok := event.(events.RecognitionResult); ok {
			fn(typed)
		}
	})
}

func (c *Connector) AddActivityReceivedListener(fn func(events.ActivityReceived)) ListenerRegistration {
	return c.dispatcher.add(events.KindActivityReceived, func(event events.Event) {
		if typed, ok := event.(events.ActivityReceived); ok {
			fn(typed)
		}
	})
}

func (c *Connector) RemoveListener(registration ListenerRegistration) {
	c.dispatcher.remove(registration)
}
