// Package events defines the typed session event contract.
//
// Every event carries the id of the session that raised it and the time it
// was constructed. Kinds are grouped by namespace:
//
//   - session.*
//   - speech.*
//   - recognition.*
//   - activity.*
//
// session events
//
//   - SessionStarted (session.started): the session began interacting with
//     the dialog service.
//   - SessionStopped (session.stopped): the session stopped interacting with
//     the dialog service.
//
// speech events
//
//   - SpeechStartDetected (speech.start_detected): speech activity began at
//     the carried offset into the audio stream.
//   - SpeechEndDetected (speech.end_detected): speech activity ended at the
//     carried offset into the audio stream.
//
// recognition events
//
//   - RecognitionResult (recognition.result): a recognition result was
//     produced for the current utterance.
//
// activity events
//
//   - ActivityReceived (activity.received): the dialog service delivered an
//     activity, optionally carrying an audio output stream.
package events
