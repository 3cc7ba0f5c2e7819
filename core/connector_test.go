package dialog

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/tkovacevic/dialogline/core/events"
	"github.com/tkovacevic/dialogline/core/service"
)

const testWait = 2 * time.Second

func mustResolve[T any](t *testing.T, op *Operation[T]) T {
	t.Helper()
	value, err := op.WaitTimeout(testWait)
	if err != nil {
		t.Fatalf("expected operation to succeed, got %v", err)
	}
	return value
}

func mustFailWith[T any](t *testing.T, op *Operation[T], kind FailureKind) error {
	t.Helper()
	_, err := op.WaitTimeout(testWait)
	if err == nil {
		t.Fatalf("expected operation to fail with %q, got success", kind)
	}
	if got := KindOf(err); got != kind {
		t.Fatalf("expected failure kind %q, got %q (%v)", kind, got, err)
	}
	return err
}

func TestConnectAsyncWhileConnectedCompletesImmediately(t *testing.T) {
	stub := &serviceClientStub{}
	connector := New(WithServiceClient(stub))
	defer connector.Close(context.Background())

	mustResolve(t, connector.ConnectAsync())

	again := connector.ConnectAsync()
	if !again.Done() {
		t.Fatalf("expected repeated connect to return an already-completed handle")
	}
	mustResolve(t, again)

	if stub.connectCalls != 1 {
		t.Fatalf("expected a single transport connect, got %d", stub.connectCalls)
	}
}

func TestDisconnectWhileConnectPendingFailsFast(t *testing.T) {
	release := make(chan struct{})
	stub := &serviceClientStub{connectBlock: release}
	connector := New(WithServiceClient(stub))
	defer connector.Close(context.Background())

	pendingConnect := connector.ConnectAsync()

	mustFailWith(t, connector.DisconnectAsync(), FailureConflict)

	close(release)
	mustResolve(t, pendingConnect)
}

func TestStartContinuousListeningIsIdempotent(t *testing.T) {
	stub := &serviceClientStub{}
	connector := New(WithServiceClient(stub))
	defer connector.Close(context.Background())

	mustResolve(t, connector.ConnectAsync())

	for range 3 {
		mustResolve(t, connector.StartContinuousListeningAsync())
	}

	if got := connector.DefaultSession().Listening(); got != ListeningContinuous {
		t.Fatalf("expected continuous listening, got %q", got)
	}
	if stub.startContinuousCalls != 1 {
		t.Fatalf("expected a single transport start, got %d", stub.startContinuousCalls)
	}

	mustResolve(t, connector.StopContinuousListeningAsync())
	mustResolve(t, connector.StopContinuousListeningAsync())

	if got := connector.DefaultSession().Listening(); got != ListeningNone {
		t.Fatalf("expected listening stopped, got %q", got)
	}
	if stub.stopContinuousCalls != 1 {
		t.Fatalf("expected a single transport stop, got %d", stub.stopContinuousCalls)
	}
}

func TestListenOnceDuringContinuousListeningConflicts(t *testing.T) {
	stub := &serviceClientStub{}
	connector := New(WithServiceClient(stub))
	defer connector.Close(context.Background())

	mustResolve(t, connector.ConnectAsync())
	mustResolve(t, connector.StartContinuousListeningAsync())

	mustFailWith(t, connector.ListenOnceAsync(), FailureConflict)

	if got := connector.DefaultSession().Listening(); got != ListeningContinuous {
		t.Fatalf("expected continuous listening to survive the conflict, got %q", got)
	}
	if stub.listenOnceCalls != 0 {
		t.Fatalf("expected conflict to be caught before the transport, got %d calls", stub.listenOnceCalls)
	}
}

func TestListenOnceResolvesToRecognitionResult(t *testing.T) {
	stub := &serviceClientStub{
		listenResult: &service.RecognitionResult{ResultID: "r-42", Reason: service.ReasonRecognizedSpeech, Text: "turn on the lights"},
	}
	connector := New(WithServiceClient(stub))
	defer connector.Close(context.Background())

	mustResolve(t, connector.ConnectAsync())

	result := mustResolve(t, connector.ListenOnceAsync())
	if result == nil || result.Text != "turn on the lights" {
		t.Fatalf("expected scripted recognition result, got %+v", result)
	}
}

func TestCloseCancelsPendingOperationsAndReplacesSession(t *testing.T) {
	sendStarted := make(chan struct{})
	release := make(chan struct{})
	stub := &serviceClientStub{sendBlock: release, sendStarted: sendStarted}
	connector := New(WithServiceClient(stub))

	mustResolve(t, connector.ConnectAsync())
	previousID := connector.DefaultSession().ID()

	pendingSend := connector.SendActivityAsync(service.NewActivity([]byte(`{"type":"message"}`)))
	select {
	case <-sendStarted:
	case <-time.After(testWait):
		t.Fatalf("timed out waiting for send to reach the transport")
	}

	if err := connector.Close(context.Background()); err != nil {
		t.Fatalf("expected close to succeed, got %v", err)
	}

	if !pendingSend.Cancelled() {
		_, err := pendingSend.WaitTimeout(testWait)
		t.Fatalf("expected pending send to resolve cancelled, got %v", err)
	}

	// A late transport completion must not overwrite the cancellation.
	close(release)
	if _, err := pendingSend.WaitTimeout(testWait); KindOf(err) != FailureCancelled {
		t.Fatalf("expected cancellation to survive late completion, got %v", err)
	}

	if got := connector.DefaultSession().ID(); got == previousID {
		t.Fatalf("expected a freshly constructed session after close, got the old identity %q", got)
	}
}

func TestSendActivityLifecycle(t *testing.T) {
	stub := &serviceClientStub{}
	connector := New(WithServiceClient(stub))
	defer connector.Close(context.Background())

	mustResolve(t, connector.ConnectAsync())

	id := mustResolve(t, connector.SendActivityAsync(service.NewActivity([]byte(`{"type":"message","text":"ping"}`))))
	if id == "" {
		t.Fatalf("expected a non-empty service-assigned activity id")
	}

	mustResolve(t, connector.DisconnectAsync())

	mustFailWith(t, connector.SendActivityAsync(service.NewActivity([]byte(`{"type":"message","text":"ping"}`))), FailureInvalidState)
}

func TestSendActivityWithoutSessionFailsFast(t *testing.T) {
	connector := New(WithServiceClient(&serviceClientStub{}))

	mustFailWith(t, connector.SendActivityAsync(service.NewActivity([]byte(`{}`))), FailureInvalidState)
}

func TestKeywordModelReplacedOnStart(t *testing.T) {
	stub := &serviceClientStub{}
	connector := New(WithServiceClient(stub))
	defer connector.Close(context.Background())

	mustResolve(t, connector.StartKeywordRecognitionAsync(service.KeywordModel{Name: "model-a"}))
	mustResolve(t, connector.StartKeywordRecognitionAsync(service.KeywordModel{Name: "model-b"}))

	model := connector.DefaultSession().KeywordModel()
	if model == nil || model.Name != "model-b" {
		t.Fatalf("expected model-b to replace model-a, got %+v", model)
	}

	mustResolve(t, connector.StopKeywordRecognitionAsync())

	if got := connector.DefaultSession().KeywordModel(); got != nil {
		t.Fatalf("expected keyword model cleared after stop, got %+v", got)
	}

	// Stopping again with nothing installed is absorbed.
	mustResolve(t, connector.StopKeywordRecognitionAsync())
	if stub.keywordStops != 1 {
		t.Fatalf("expected a single transport stop, got %d", stub.keywordStops)
	}
}

func TestSetStringValueRejectsUnknownRecoMode(t *testing.T) {
	connector := New(WithServiceClient(&serviceClientStub{}))

	if err := connector.SetStringValue(PropertyRecoMode, "conversation"); err != nil {
		t.Fatalf("expected known mode to be accepted, got %v", err)
	}

	err := connector.SetStringValue(PropertyRecoMode, "freeform")
	if err == nil {
		t.Fatalf("expected unknown mode to be rejected")
	}
	if got := KindOf(err); got != FailureInvalidArgument {
		t.Fatalf("expected failure kind %q, got %q", FailureInvalidArgument, got)
	}

	if got := connector.RecoMode(); got != RecoModeConversation {
		t.Fatalf("expected previous mode to stay in effect, got %q", got)
	}
}

func TestSetStringValueValidatesLogFilename(t *testing.T) {
	connector := New(WithServiceClient(&serviceClientStub{}))

	path := filepath.Join(t.TempDir(), "speech.log")
	if err := connector.SetStringValue(PropertyLogFilename, path); err != nil {
		t.Fatalf("expected writable path to be accepted, got %v", err)
	}
	if got := connector.StringValue(PropertyLogFilename, ""); got != path {
		t.Fatalf("expected log filename stored, got %q", got)
	}

	err := connector.SetStringValue(PropertyLogFilename, filepath.Join(t.TempDir(), "missing", "nested", "speech.log"))
	if err == nil {
		t.Fatalf("expected unwritable path to be rejected")
	}
	if got := KindOf(err); got != FailureInvalidArgument {
		t.Fatalf("expected failure kind %q, got %q", FailureInvalidArgument, got)
	}
}

func TestPropertiesFallBackToParentProvider(t *testing.T) {
	parent := NewProperties(nil)
	parent.SetStringValue("region", "westeurope")

	connector := New(WithServiceClient(&serviceClientStub{}), WithParentProperties(parent))

	if got := connector.StringValue("region", ""); got != "westeurope" {
		t.Fatalf("expected parent fallback, got %q", got)
	}

	connector.SetStringValue("region", "northeurope")
	if got := parent.StringValue("region", ""); got != "westeurope" {
		t.Fatalf("expected connector write to stay local, parent now has %q", got)
	}
}

func TestListenersObserveFiredEventsInOrder(t *testing.T) {
	connector := New(WithServiceClient(&serviceClientStub{}))

	var mu sync.Mutex
	observed := []string{}
	record := func(label string) {
		mu.Lock()
		observed = append(observed, label)
		mu.Unlock()
	}

	connector.AddSessionStartedListener(func(events.SessionStarted) { record("started") })
	connector.AddSpeechStartDetectedListener(func(event events.SpeechStartDetected) {
		if event.Offset != 120*time.Millisecond {
			t.Errorf("expected offset 120ms, got %v", event.Offset)
		}
		record("speech-start")
	})
	connector.AddSessionStoppedListener(func(events.SessionStopped) { record("stopped") })

	connector.FireSessionStarted("session-1")
	connector.FireSpeechStartDetected("session-1", 120*time.Millisecond)
	connector.FireSessionStopped("session-1")

	mu.Lock()
	defer mu.Unlock()
	if len(observed) != 3 || observed[0] != "started" || observed[1] != "speech-start" || observed[2] != "stopped" {
		t.Fatalf("expected events in firing order, got %v", observed)
	}
}

func TestListenerRegisteredAfterFiringMissesPastEvents(t *testing.T) {
	connector := New(WithServiceClient(&serviceClientStub{}))

	connector.FireSessionStarted("session-1")

	calls := 0
	registration := connector.AddSessionStartedListener(func(events.SessionStarted) { calls++ })

	connector.FireSessionStarted("session-1")
	connector.RemoveListener(registration)
	connector.FireSessionStarted("session-1")

	if calls != 1 {
		t.Fatalf("expected exactly one delivery, got %d", calls)
	}
}

func TestFireActivityReceivedDeliversListenerOwnedCopy(t *testing.T) {
	connector := New(WithServiceClient(&serviceClientStub{}))

	var received service.Activity
	connector.AddActivityReceivedListener(func(event events.ActivityReceived) {
		received = event.Activity
	})

	payload := []byte(`{"type":"message","text":"hi"}`)
	connector.FireActivityReceived("session-1", service.Activity{ID: "a-1", Payload: payload}, nil)

	payload[2] = 'X'

	if string(received.Payload) != `{"type":"message","text":"hi"}` {
		t.Fatalf("expected listener copy to be isolated from the transport buffer, got %s", received.Payload)
	}
}

func TestConnectorIsAlwaysEnabled(t *testing.T) {
	connector := New(WithServiceClient(&serviceClientStub{}))

	if !connector.IsEnabled() {
		t.Fatalf("expected connector to start enabled")
	}
	connector.Disable()
	if !connector.IsEnabled() {
		t.Fatalf("expected disable to be inert")
	}
	connector.Enable()
	if !connector.IsEnabled() {
		t.Fatalf("expected connector to stay enabled")
	}
}

func TestSessionEventsReachConnectorListeners(t *testing.T) {
	stub := &serviceClientStub{}
	connector := New(WithServiceClient(stub))
	defer connector.Close(context.Background())

	results := make(chan events.RecognitionResult, 1)
	connector.AddRecognitionResultListener(func(event events.RecognitionResult) {
		results <- event
	})

	mustResolve(t, connector.ConnectAsync())

	// The transport reports progress through the callbacks the connector
	// wired on connect; drive one through the captured options.
	callback := stub.connectOptions.RecognitionResultCallback
	if callback == nil {
		t.Fatalf("expected recognition result callback to be wired on connect")
	}
	callback(connector.DefaultSession().ID(), service.RecognitionResult{ResultID: "r-1", Text: "hello"})

	select {
	case event := <-results:
		if event.Result.Text != "hello" {
			t.Fatalf("expected relayed result text %q, got %q", "hello", event.Result.Text)
		}
		if event.SessionID() != connector.DefaultSession().ID() {
			t.Fatalf("expected event to carry the session id")
		}
	case <-time.After(testWait):
		t.Fatalf("timed out waiting for relayed recognition result")
	}
}
