package dialog

import (
	"context"
	"fmt"
	"sync"

	"github.com/tkovacevic/dialogline/core/service"
)

// serviceClientStub scripts the transport collaborator for facade and
// session tests. Zero value behaves as an always-succeeding service.
type serviceClientStub struct {
	mu sync.Mutex

	connectErr error
	sendErr    error
	listenErr  error
	activityID string

	// connectBlock and sendBlock, when set, hold the call until the
	// channel is closed or ctx is cancelled.
	connectBlock chan struct{}
	sendBlock    chan struct{}
	sendStarted  chan struct{}

	listenResult *service.RecognitionResult

	connectCalls         int
	disconnectCalls      int
	sendCalls            int
	startContinuousCalls int
	stopContinuousCalls  int
	keywordStarts        []service.KeywordModel
	keywordStops         int
	listenOnceCalls      int

	connectOptions service.ConnectOptions
}

func (s *serviceClientStub) Connect(ctx context.Context, opts ...service.ConnectOption) error {
	s.mu.Lock()
	s.connectCalls++
	options := service.ConnectOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	s.connectOptions = options
	block := s.connectBlock
	err := s.connectErr
	s.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (s *serviceClientStub) Disconnect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disconnectCalls++
	return nil
}

func (s *serviceClientStub) SendActivity(ctx context.Context, activity service.Activity) (string, error) {
	s.mu.Lock()
	s.sendCalls++
	calls := s.sendCalls
	block := s.sendBlock
	started := s.sendStarted
	err := s.sendErr
	id := s.activityID
	s.mu.Unlock()

	if started != nil {
		close(started)
		s.mu.Lock()
		s.sendStarted = nil
		s.mu.Unlock()
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err != nil {
		return "", err
	}
	if id != "" {
		return id, nil
	}
	return fmt.Sprintf("activity-%d", calls), nil
}

func (s *serviceClientStub) StartContinuousListening(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startContinuousCalls++
	return nil
}

func (s *serviceClientStub) StopContinuousListening(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopContinuousCalls++
	return nil
}

func (s *serviceClientStub) StartKeywordRecognition(ctx context.Context, model service.KeywordModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keywordStarts = append(s.keywordStarts, model)
	return nil
}

func (s *serviceClientStub) StopKeywordRecognition(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keywordStops++
	return nil
}

func (s *serviceClientStub) ListenOnce(ctx context.Context) (*service.RecognitionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listenOnceCalls++
	if s.listenErr != nil {
		return nil, s.listenErr
	}
	if s.listenResult != nil {
		result := *s.listenResult
		return &result, nil
	}
	return &service.RecognitionResult{ResultID: "result-1", Reason: service.ReasonRecognizedSpeech, Text: "hello"}, nil
}
