package service

import (
	"io"
	"time"
)

type ConnectOptions struct {
	SessionStartedCallback func(sessionID string)
	SessionStoppedCallback func(sessionID string)

	SpeechStartDetectedCallback func(sessionID string, offset time.Duration)
	SpeechEndDetectedCallback   func(sessionID string, offset time.Duration)

	RecognitionResultCallback func(sessionID string, result RecognitionResult)
	ActivityReceivedCallback  func(sessionID string, activity Activity, audio io.Reader)
}

type ConnectOption func(*ConnectOptions)

func WithSessionStartedCallback(callback func(sessionID string)) ConnectOption {
	return func(o *ConnectOptions) {
		o.SessionStartedCallback = callback
	}
}

func WithSessionStoppedCallback(callback func(sessionID string)) ConnectOption {
	return func(o *ConnectOptions) {
		o.SessionStoppedCallback = callback
	}
}

func WithSpeechStartDetectedCallback(callback func(sessionID string, offset time.Duration)) ConnectOption {
	return func(o *ConnectOptions) {
		o.SpeechStartDetectedCallback = callback
	}
}

func WithSpeechEndDetectedCallback(callback func(sessionID string, offset time.Duration)) ConnectOption {
	return func(o *ConnectOptions) {
		o.SpeechEndDetectedCallback = callback
	}
}

func WithRecognitionResultCallback(callback func(sessionID string, result RecognitionResult)) ConnectOption {
	return func(o *ConnectOptions) {
		o.RecognitionResultCallback = callback
	}
}

func WithActivityReceivedCallback(callback func(sessionID string, activity Activity, audio io.Reader)) ConnectOption {
	return func(o *ConnectOptions) {
		o.ActivityReceivedCallback = callback
	}
}
