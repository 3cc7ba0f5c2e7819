package events

import "time"

const (
	KindSpeechStartDetected Kind = "speech.start_detected"
	KindSpeechEndDetected   Kind = "speech.end_detected"
)

type SpeechStartDetected struct {
	Base

	// Offset is the position in the audio stream at which speech began.
	Offset time.Duration
}

func (e SpeechStartDetected) String() string { return "Speech Start Detected" }

func NewSpeechStartDetected(sessionID string, offset time.Duration) SpeechStartDetected {
	return SpeechStartDetected{Base: NewBase(KindSpeechStartDetected, sessionID), Offset: offset}
}

type SpeechEndDetected struct {
	Base

	// Offset is the position in the audio stream at which speech ended.
	Offset time.Duration
}

func (e SpeechEndDetected) String() string { return "Speech End Detected" }

func NewSpeechEndDetected(sessionID string, offset time.Duration) SpeechEndDetected {
	return SpeechEndDetected{Base: NewBase(KindSpeechEndDetected, sessionID), Offset: offset}
}
