package service

import "time"

// Reason states why a recognition result was produced.
type Reason string

const (
	ReasonRecognizedSpeech Reason = "recognized_speech"
	ReasonNoMatch          Reason = "no_match"
	ReasonCanceled         Reason = "canceled"
)

// RecognitionResult is the outcome of recognizing one utterance.
type RecognitionResult struct {
	ResultID string
	Reason   Reason
	Text     string

	// Offset is the utterance start position in the audio stream.
	Offset time.Duration
	// Duration is the length of the recognized utterance.
	Duration time.Duration
}
