package events

import "github.com/tkovacevic/dialogline/core/service"

const KindRecognitionResult Kind = "recognition.result"

type RecognitionResult struct {
	Base

	Result service.RecognitionResult
}

func (e RecognitionResult) String() string { return e.Result.Text }

func NewRecognitionResult(sessionID string, result service.RecognitionResult) RecognitionResult {
	return RecognitionResult{Base: NewBase(KindRecognitionResult, sessionID), Result: result}
}
