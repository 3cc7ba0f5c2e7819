package dialog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/tkovacevic/dialogline/core/service"
	"go.opentelemetry.io/otel/codes"
)

// ConnectionState tracks where a session is in its connection lifecycle.
type ConnectionState string

const (
	StateDisconnected  ConnectionState = "disconnected"
	StateConnecting    ConnectionState = "connecting"
	StateConnected     ConnectionState = "connected"
	StateDisconnecting ConnectionState = "disconnecting"
)

// ListeningMode tracks which audio listening mode a session is in.
type ListeningMode string

const (
	ListeningNone       ListeningMode = "none"
	ListeningContinuous ListeningMode = "continuous"
	ListeningKeyword    ListeningMode = "keyword"
)

// Session owns one live connection to the dialog service and mediates audio
// listening against it. Operations return immediately with a handle; the
// work runs on its own goroutine and resolves the handle when it finishes.
type Session interface {
	ID() string
	State() ConnectionState
	Listening() ListeningMode
	KeywordModel() *service.KeywordModel

	ConnectAsync() *Operation[Void]
	DisconnectAsync() *Operation[Void]

	SendActivityAsync(activity service.Activity) *Operation[string]

	StartContinuousListeningAsync() *Operation[Void]
	StopContinuousListeningAsync() *Operation[Void]

	StartKeywordRecognitionAsync(model service.KeywordModel) *Operation[Void]
	StopKeywordRecognitionAsync() *Operation[Void]

	ListenOnceAsync() *Operation[*service.RecognitionResult]

	// Close cancels every pending operation, disconnects and waits for
	// in-flight work to drain. The session is unusable afterwards.
	Close(ctx context.Context) error
}

type cancellable interface {
	Cancel() bool
}

type defaultSession struct {
	id             string
	client         service.Client
	connectOptions []service.ConnectOption

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu               sync.Mutex
	state            ConnectionState
	listening        ListeningMode
	keywordModel     *service.KeywordModel
	lifecyclePending bool
	closed           bool
	pending          map[uint64]cancellable
	nextOpID         uint64
}

func newDefaultSession(client service.Client, connectOptions []service.ConnectOption) *defaultSession {
	ctx, cancel := context.WithCancel(context.Background())
	return &defaultSession{
		id:             uuid.NewString(),
		client:         client,
		connectOptions: connectOptions,
		ctx:            ctx,
		cancel:         cancel,
		state:          StateDisconnected,
		listening:      ListeningNone,
		pending:        map[uint64]cancellable{},
	}
}

func (s *defaultSession) ID() string { return s.id }

func (s *defaultSession) State() ConnectionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *defaultSession) Listening() ListeningMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listening
}

func (s *defaultSession) KeywordModel() *service.KeywordModel {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.keywordModel == nil {
		return nil
	}
	model := *s.keywordModel
	return &model
}

func (s *defaultSession) ConnectAsync() *Operation[Void] {
	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		return failedOperation[Void](opError("connect", FailureInvalidState, ErrSessionClosed))
	case s.client == nil:
		s.mu.Unlock()
		return failedOperation[Void](opError("connect", FailureInvalidState, ErrNoServiceClient))
	case s.state == StateConnected:
		s.mu.Unlock()
		return completedOperation(Void{})
	case s.lifecyclePending:
		s.mu.Unlock()
		return failedOperation[Void](opError("connect", FailureConflict, ErrLifecyclePending))
	}
	s.lifecyclePending = true
	s.state = StateConnecting
	s.mu.Unlock()

	return runSessionOp(s, "connect", func(ctx context.Context) (Void, error) {
		err := s.client.Connect(ctx, s.connectOptions...)

		s.mu.Lock()
		s.lifecyclePending = false
		if err != nil {
			s.state = StateDisconnected
		} else {
			s.state = StateConnected
		}
		s.mu.Unlock()

		return Void{}, err
	})
}

func (s *defaultSession) DisconnectAsync() *Operation[Void] {
	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		return failedOperation[Void](opError("disconnect", FailureInvalidState, ErrSessionClosed))
	case s.lifecyclePending:
		s.mu.Unlock()
		return failedOperation[Void](opError("disconnect", FailureConflict, ErrLifecyclePending))
	case s.state == StateDisconnected:
		s.mu.Unlock()
		return completedOperation(Void{})
	}
	s.lifecyclePending = true
	s.state = StateDisconnecting
	s.mu.Unlock()

	return runSessionOp(s, "disconnect", func(ctx context.Context) (Void, error) {
		err := s.client.Disconnect(ctx)

		// The session counts as disconnected even when the service
		// reported a teardown failure.
		s.mu.Lock()
		s.lifecyclePending = false
		s.state = StateDisconnected
		s.listening = ListeningNone
		s.mu.Unlock()

		return Void{}, err
	})
}

func (s *defaultSession) SendActivityAsync(activity service.Activity) *Operation[string] {
	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		return failedOperation[string](opError("send_activity", FailureInvalidState, ErrSessionClosed))
	case s.state != StateConnected:
		s.mu.Unlock()
		return failedOperation[string](opError("send_activity", FailureInvalidState, ErrNotConnected))
	}
	s.mu.Unlock()

	return runSessionOp(s, "send_activity", func(ctx context.Context) (string, error) {
		return s.client.SendActivity(ctx, activity)
	})
}

func (s *defaultSession) StartContinuousListeningAsync() *Operation[Void] {
	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		return failedOperation[Void](opError("start_continuous_listening", FailureInvalidState, ErrSessionClosed))
	case s.listening == ListeningContinuous:
		s.mu.Unlock()
		return completedOperation(Void{})
	case s.state != StateConnected:
		s.mu.Unlock()
		return failedOperation[Void](opError("start_continuous_listening", FailureInvalidState, ErrNotConnected))
	}
	previous := s.listening
	s.listening = ListeningContinuous
	s.mu.Unlock()

	return runSessionOp(s, "start_continuous_listening", func(ctx context.Context) (Void, error) {
		err := s.client.StartContinuousListening(ctx)
		if err != nil {
			s.mu.Lock()
			if s.listening == ListeningContinuous {
				s.listening = previous
			}
			s.mu.Unlock()
		}
		return Void{}, err
	})
}

func (s *defaultSession) StopContinuousListeningAsync() *Operation[Void] {
	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		return failedOperation[Void](opError("stop_continuous_listening", FailureInvalidState, ErrSessionClosed))
	case s.listening != ListeningContinuous:
		s.mu.Unlock()
		return completedOperation(Void{})
	}
	s.listening = ListeningNone
	s.mu.Unlock()

	return runSessionOp(s, "stop_continuous_listening", func(ctx context.Context) (Void, error) {
		return Void{}, s.client.StopContinuousListening(ctx)
	})
}

// StartKeywordRecognitionAsync installs model, replacing any previously
// active one. Keyword spotting does not require an established connection.
func (s *defaultSession) StartKeywordRecognitionAsync(model service.KeywordModel) *Operation[Void] {
	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		return failedOperation[Void](opError("start_keyword_recognition", FailureInvalidState, ErrSessionClosed))
	case s.client == nil:
		s.mu.Unlock()
		return failedOperation[Void](opError("start_keyword_recognition", FailureInvalidState, ErrNoServiceClient))
	}
	previousModel := s.keywordModel
	previousListening := s.listening
	s.keywordModel = &model
	if s.listening == ListeningNone {
		s.listening = ListeningKeyword
	}
	s.mu.Unlock()

	return runSessionOp(s, "start_keyword_recognition", func(ctx context.Context) (Void, error) {
		err := s.client.StartKeywordRecognition(ctx, model)
		if err != nil {
			s.mu.Lock()
			s.keywordModel = previousModel
			s.listening = previousListening
			s.mu.Unlock()
		}
		return Void{}, err
	})
}

func (s *defaultSession) StopKeywordRecognitionAsync() *Operation[Void] {
	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		return failedOperation[Void](opError("stop_keyword_recognition", FailureInvalidState, ErrSessionClosed))
	case s.keywordModel == nil:
		s.mu.Unlock()
		return completedOperation(Void{})
	}
	s.keywordModel = nil
	if s.listening == ListeningKeyword {
		s.listening = ListeningNone
	}
	s.mu.Unlock()

	return runSessionOp(s, "stop_keyword_recognition", func(ctx context.Context) (Void, error) {
		return Void{}, s.client.StopKeywordRecognition(ctx)
	})
}

func (s *defaultSession) ListenOnceAsync() *Operation[*service.RecognitionResult] {
	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		return failedOperation[*service.RecognitionResult](opError("listen_once", FailureInvalidState, ErrSessionClosed))
	case s.state != StateConnected:
		s.mu.Unlock()
		return failedOperation[*service.RecognitionResult](opError("listen_once", FailureInvalidState, ErrNotConnected))
	}
	s.mu.Unlock()

	return runSessionOp(s, "listen_once", func(ctx context.Context) (*service.RecognitionResult, error) {
		return s.client.ListenOnce(ctx)
	})
}

func (s *defaultSession) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	state := s.state
	pending := make([]cancellable, 0, len(s.pending))
	for _, handle := range s.pending {
		pending = append(pending, handle)
	}
	s.state = StateDisconnected
	s.listening = ListeningNone
	s.keywordModel = nil
	s.mu.Unlock()

	s.cancel()
	for _, handle := range pending {
		handle.Cancel()
	}

	var disconnectErr error
	if s.client != nil && state != StateDisconnected {
		if err := s.client.Disconnect(ctx); err != nil {
			disconnectErr = fmt.Errorf("failed to disconnect during session teardown: %w", err)
		}
	}

	drained := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-ctx.Done():
		return fmt.Errorf("session teardown interrupted: %w", ctx.Err())
	}

	return disconnectErr
}

func (s *defaultSession) track(handle cancellable) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextOpID++
	s.pending[s.nextOpID] = handle
	return s.nextOpID
}

func (s *defaultSession) untrack(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, id)
}

// runSessionOp runs work on its own goroutine and resolves the returned
// handle with its outcome. The handle is tracked so Close can cancel it; a
// completion that arrives after cancellation is discarded by the handle.
func runSessionOp[T any](s *defaultSession, op string, work func(ctx context.Context) (T, error)) *Operation[T] {
	handle := newOperation[T]()
	id := s.track(handle)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.untrack(id)

		ctx, span := tracer.Start(s.ctx, "session."+op)
		defer span.End()

		value, err := work(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			handle.fail(classifyOpError(op, err))
			return
		}
		handle.complete(value)
	}()

	return handle
}

// classifyOpError keeps an existing classification, maps context
// cancellation onto the cancelled kind and wraps everything else as an
// upstream failure.
func classifyOpError(op string, err error) error {
	var opErr *OpError
	if errors.As(err, &opErr) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return opError(op, FailureCancelled, err)
	}
	return opError(op, FailureUpstream, err)
}
