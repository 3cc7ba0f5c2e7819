package dialog

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/tkovacevic/dialogline/core/service"
)

// Connector is the public entry point for one bidirectional dialog
// exchange. It owns at most one live Session, validates state before
// delegating operations to it, and relays session-raised events to the
// listeners registered on the connector.
type Connector struct {
	mu      sync.Mutex
	session Session

	client     service.Client
	dispatcher *dispatcher
	props      *Properties
	enabled    atomic.Bool
}

func New(opts ...ConnectorOption) *Connector {
	c := &Connector{
		dispatcher: newDispatcher(),
		props:      NewProperties(nil),
	}
	c.enabled.Store(true)

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Close tears the session down and resolves every pending operation with a
// cancellation failure before returning. The connector stays usable; the
// next operation constructs a fresh session.
func (c *Connector) Close(ctx context.Context) error {
	c.mu.Lock()
	session := c.session
	c.session = nil
	c.mu.Unlock()

	if session == nil {
		return nil
	}

	if err := session.Close(ctx); err != nil {
		return fmt.Errorf("failed to tear down session: %w", err)
	}
	return nil
}

// IsEnabled reports whether the connector accepts work. Dialog connectors
// are always enabled; Enable and Disable exist for compatibility with the
// wider recognizer contract and change nothing here.
func (c *Connector) IsEnabled() bool { return c.enabled.Load() }

func (c *Connector) Enable() {}

func (c *Connector) Disable() {}

// DefaultSession returns the connector's session, constructing it on first
// use and again on the first use after Close.
func (c *Connector) DefaultSession() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.defaultSessionLocked()
}

func (c *Connector) defaultSessionLocked() Session {
	if c.session == nil {
		c.session = newDefaultSession(c.client, c.serviceCallbacks())
	}
	return c.session
}

// serviceCallbacks routes session progress into the connector's event
// firing entry points.
func (c *Connector) serviceCallbacks() []service.ConnectOption {
	return []service.ConnectOption{
		service.WithSessionStartedCallback(c.FireSessionStarted),
		service.WithSessionStoppedCallback(c.FireSessionStopped),
		service.WithSpeechStartDetectedCallback(c.FireSpeechStartDetected),
		service.WithSpeechEndDetectedCallback(c.FireSpeechEndDetected),
		service.WithRecognitionResultCallback(c.FireResultEvent),
		service.WithActivityReceivedCallback(c.FireActivityReceived),
	}
}

// ConnectAsync establishes the session's connection. Calling it while
// already connected returns an already-completed success handle.
func (c *Connector) ConnectAsync() *Operation[Void] {
	c.mu.Lock()
	session := c.defaultSessionLocked()
	c.mu.Unlock()

	return session.ConnectAsync()
}

// DisconnectAsync drops the session's connection. With no session or no
// connection it is a no-op success.
func (c *Connector) DisconnectAsync() *Operation[Void] {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()

	if session == nil {
		return completedOperation(Void{})
	}
	return session.DisconnectAsync()
}

// SendActivityAsync delivers one outbound activity; the handle resolves to
// the service-assigned activity id. Valid only while connected.
func (c *Connector) SendActivityAsync(activity service.Activity) *Operation[string] {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()

	if session == nil {
		return failedOperation[string](opError("send_activity", FailureInvalidState, ErrNoSession))
	}
	return session.SendActivityAsync(activity)
}

// StartContinuousListeningAsync begins streaming audio to the service.
// Starting while already listening continuously is a no-op success.
func (c *Connector) StartContinuousListeningAsync() *Operation[Void] {
	c.mu.Lock()
	session := c.defaultSessionLocked()
	c.mu.Unlock()

	return session.StartContinuousListeningAsync()
}

// StopContinuousListeningAsync stops streaming audio. Stopping while not
// listening is a no-op success.
func (c *Connector) StopContinuousListeningAsync() *Operation[Void] {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()

	if session == nil {
		return completedOperation(Void{})
	}
	return session.StopContinuousListeningAsync()
}

// StartKeywordRecognitionAsync installs a keyword-spotting model, replacing
// any previously active one.
func (c *Connector) StartKeywordRecognitionAsync(model service.KeywordModel) *Operation[Void] {
	c.mu.Lock()
	session := c.defaultSessionLocked()
	c.mu.Unlock()

	return session.StartKeywordRecognitionAsync(model)
}

// StopKeywordRecognitionAsync clears the active keyword model. With none
// installed it is a no-op success.
func (c *Connector) StopKeywordRecognitionAsync() *Operation[Void] {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()

	if session == nil {
		return completedOperation(Void{})
	}
	return session.StopKeywordRecognitionAsync()
}

// ListenOnceAsync captures one utterance and resolves to its recognition
// result. It conflicts with continuous listening; the check happens here so
// the session stays unaware of cross-mode exclusivity.
func (c *Connector) ListenOnceAsync() *Operation[*service.RecognitionResult] {
	c.mu.Lock()
	session := c.defaultSessionLocked()
	c.mu.Unlock()

	if session.Listening() == ListeningContinuous {
		return failedOperation[*service.RecognitionResult](opError("listen_once", FailureConflict, ErrContinuousListening))
	}
	return session.ListenOnceAsync()
}

// Properties exposes the connector's property bag.
func (c *Connector) Properties() *Properties { return c.props }

// StringValue reads a named property, falling back through the parent
// chain.
func (c *Connector) StringValue(name, defaultValue string) string {
	return c.props.StringValue(name, defaultValue)
}

// SetStringValue writes a named property into the local bag. The reserved
// keys validate their value first: PropertyRecoMode must name a known
// recognition mode and PropertyLogFilename must point at a writable path;
// rejected writes leave the previous value in effect.
func (c *Connector) SetStringValue(name, value string) error {
	switch name {
	case PropertyRecoMode:
		return c.setRecoMode(value)
	case PropertyLogFilename:
		if err := checkLogFilename(value); err != nil {
			return opError("set_property", FailureInvalidArgument, err)
		}
	}

	c.props.SetStringValue(name, value)
	return nil
}

// RecoMode returns the configured recognition mode.
func (c *Connector) RecoMode() RecoMode {
	return RecoMode(c.props.StringValue(PropertyRecoMode, string(RecoModeInteractive)))
}

func (c *Connector) setRecoMode(value string) error {
	mode, err := ParseRecoMode(value)
	if err != nil {
		return opError("set_property", FailureInvalidArgument, err)
	}

	c.props.SetStringValue(PropertyRecoMode, string(mode))
	return nil
}

func checkLogFilename(path string) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("log filename is not writable: %w", err)
	}
	return file.Close()
}
