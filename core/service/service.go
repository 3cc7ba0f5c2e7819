package service

import "context"

// Client is the transport-facing contract a session drives. Implementations
// talk to the remote dialog service; they stay unaware of sessions, async
// handles and event fan-out, which live a layer above.
//
// Calls are synchronous and honor ctx cancellation. Progress flowing back
// from the service (detected speech, recognition results, inbound
// activities) is reported through the callbacks configured on Connect.
type Client interface {
	Connect(ctx context.Context, opts ...ConnectOption) error
	Disconnect(ctx context.Context) error

	// SendActivity delivers one outbound activity and returns the
	// service-assigned activity id.
	SendActivity(ctx context.Context, activity Activity) (string, error)

	StartContinuousListening(ctx context.Context) error
	StopContinuousListening(ctx context.Context) error

	StartKeywordRecognition(ctx context.Context, model KeywordModel) error
	StopKeywordRecognition(ctx context.Context) error

	// ListenOnce captures a single utterance and returns its recognition
	// result.
	ListenOnce(ctx context.Context) (*RecognitionResult, error)
}

// KeywordModel references a keyword-spotting model by name or on-disk path.
type KeywordModel struct {
	Name string
	Path string
}
