package directline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/tkovacevic/dialogline/core/service"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

var _ service.Client = (*Client)(nil)

// Client talks to a Direct Line-style dialog endpoint over a websocket.
// One goroutine reads and dispatches inbound messages; writes from any
// goroutine are serialized through connMu.
type Client struct {
	endpoint          string
	token             string
	keepAliveInterval time.Duration

	connMu    sync.Mutex
	conn      *websocket.Conn
	lastMsgTs time.Time

	callbacks service.ConnectOptions
	sessionID string

	cancelPumps context.CancelFunc
	pumps       *errgroup.Group

	pendingMu   sync.Mutex
	pendingAcks map[string]chan ackMessage
	listenOnce  chan listenOutcome
}

type listenOutcome struct {
	result service.RecognitionResult
	err    error
}

type Option func(*Client)

func WithEndpoint(endpoint string) Option {
	return func(c *Client) { c.endpoint = endpoint }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithKeepAliveInterval(interval time.Duration) Option {
	return func(c *Client) { c.keepAliveInterval = interval }
}

// New builds a client from options and the DIALOGLINE_ENDPOINT /
// DIALOGLINE_TOKEN environment variables.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		keepAliveInterval: 15 * time.Second,
		pendingAcks:       map[string]chan ackMessage{},
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.endpoint == "" {
		if endpoint, ok := os.LookupEnv("DIALOGLINE_ENDPOINT"); ok {
			c.endpoint = endpoint
		}
	}
	if c.endpoint == "" {
		return nil, fmt.Errorf("dialog service endpoint not configured")
	}
	if c.token == "" {
		c.token, _ = os.LookupEnv("DIALOGLINE_TOKEN")
	}

	return c, nil
}

func (c *Client) Connect(ctx context.Context, opts ...service.ConnectOption) error {
	ctx, span := tracer.Start(ctx, "directline.connect")
	defer span.End()

	options := service.ConnectOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	endpointURL, err := url.Parse(c.endpoint)
	if err != nil {
		return fmt.Errorf("invalid dialog service endpoint: %w", err)
	}

	header := http.Header{}
	if c.token != "" {
		header.Set("Authorization", "Bearer "+c.token)
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, endpointURL.String(), header)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to open socket connection to dialog service: %w", err)
	}

	c.connMu.Lock()
	if c.conn != nil {
		c.connMu.Unlock()
		conn.Close()
		return fmt.Errorf("already connected to dialog service")
	}
	c.conn = conn
	c.lastMsgTs = time.Now()
	c.callbacks = options
	c.sessionID = uuid.NewString()
	sessionID := c.sessionID
	c.connMu.Unlock()

	pumpCtx, cancel := context.WithCancel(context.Background())
	group, pumpCtx := errgroup.WithContext(pumpCtx)
	c.cancelPumps = cancel
	c.pumps = group
	group.Go(func() error { return c.readAndProcessMessages(pumpCtx, conn) })
	group.Go(func() error { return c.keepAlive(pumpCtx) })

	if options.SessionStartedCallback != nil {
		options.SessionStartedCallback(sessionID)
	}

	return nil
}

func (c *Client) Disconnect(ctx context.Context) error {
	c.connMu.Lock()
	conn := c.conn
	c.conn = nil
	c.connMu.Unlock()

	if conn == nil {
		return nil
	}

	deadline := time.Now().Add(time.Second)
	if d, ok := ctx.Deadline(); ok {
		deadline = d
	}
	if err := conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline); err != nil {
		log.Println("Failed to send close message to dialog service", "error", err)
	}

	if c.cancelPumps != nil {
		c.cancelPumps()
	}
	conn.Close()

	if c.pumps != nil {
		if err := c.pumps.Wait(); err != nil {
			return fmt.Errorf("dialog service pump stopped with error: %w", err)
		}
	}
	return nil
}

func (c *Client) SendActivity(ctx context.Context, activity service.Activity) (string, error) {
	id := activity.ID
	if id == "" {
		id = uuid.NewString()
	}

	ack := make(chan ackMessage, 1)
	c.pendingMu.Lock()
	c.pendingAcks[id] = ack
	c.pendingMu.Unlock()
	defer func() {
		c.pendingMu.Lock()
		delete(c.pendingAcks, id)
		c.pendingMu.Unlock()
	}()

	if err := c.writeJSON(activityMessage{Type: msgTypeActivity, ID: id, Activity: activity.Payload}); err != nil {
		return "", err
	}

	select {
	case msg := <-ack:
		if msg.Error != "" {
			return "", fmt.Errorf("dialog service rejected activity: %s", msg.Error)
		}
		if msg.ID != "" {
			return msg.ID, nil
		}
		return id, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (c *Client) StartContinuousListening(ctx context.Context) error {
	return c.writeJSON(listenMessage{Type: msgTypeListenStart, Mode: listenModeContinuous})
}

func (c *Client) StopContinuousListening(ctx context.Context) error {
	return c.writeJSON(listenMessage{Type: msgTypeListenStop})
}

func (c *Client) StartKeywordRecognition(ctx context.Context, model service.KeywordModel) error {
	name := model.Name
	if name == "" {
		name = model.Path
	}
	return c.writeJSON(listenMessage{Type: msgTypeKeywordStart, Model: name})
}

func (c *Client) StopKeywordRecognition(ctx context.Context) error {
	return c.writeJSON(listenMessage{Type: msgTypeKeywordStop})
}

func (c *Client) ListenOnce(ctx context.Context) (*service.RecognitionResult, error) {
	outcome := make(chan listenOutcome, 1)
	c.pendingMu.Lock()
	if c.listenOnce != nil {
		c.pendingMu.Unlock()
		return nil, fmt.Errorf("a listen request is already in flight")
	}
	c.listenOnce = outcome
	c.pendingMu.Unlock()
	defer func() {
		c.pendingMu.Lock()
		c.listenOnce = nil
		c.pendingMu.Unlock()
	}()

	if err := c.writeJSON(listenMessage{Type: msgTypeListenOnce}); err != nil {
		return nil, err
	}

	select {
	case result := <-outcome:
		if result.err != nil {
			return nil, result.err
		}
		return &result.result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Client) writeJSON(message any) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil {
		return fmt.Errorf("not connected to dialog service")
	}

	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to encode dialog service message: %w", err)
	}

	c.lastMsgTs = time.Now()
	if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return fmt.Errorf("failed to write to dialog service: %w", err)
	}
	return nil
}

func (c *Client) keepAlive(ctx context.Context) error {
	ticker := time.NewTicker(c.keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			c.connMu.Lock()
			idle := c.conn != nil && time.Since(c.lastMsgTs) >= c.keepAliveInterval
			c.connMu.Unlock()
			if !idle {
				continue
			}
			if err := c.writeJSON(keepAliveMessage{Type: msgTypeKeepAlive}); err != nil {
				log.Println("Failed to write keepalive to dialog service", "error", err)
			}
		}
	}
}

func (c *Client) readAndProcessMessages(ctx context.Context, conn *websocket.Conn) error {
	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			c.connMu.Lock()
			if c.conn == conn {
				c.conn = nil
			}
			sessionID := c.sessionID
			callback := c.callbacks.SessionStoppedCallback
			c.connMu.Unlock()
			conn.Close()

			c.failPending(err)
			if callback != nil {
				callback(sessionID)
			}

			if websocket.IsCloseError(err, websocket.CloseNormalClosure) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed to read dialog service message: %w", err)
		}

		if msgType == websocket.BinaryMessage {
			// Audio frames belong to the playback collaborator.
			continue
		}

		// Messages are processed on the read loop so listeners observe
		// events in arrival order.
		c.processMessage(msg)
	}
}

func (c *Client) processMessage(msg []byte) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(msg, &probe); err != nil {
		log.Println("Failed to unmarshal dialog service message", "error", err)
		return
	}

	switch probe.Type {
	case msgTypeAck:
		var ackMsg ackMessage
		if err := json.Unmarshal(msg, &ackMsg); err != nil {
			log.Println("Failed to unmarshal dialog service ack", "error", err)
			return
		}
		c.pendingMu.Lock()
		ack := c.pendingAcks[ackMsg.ID]
		c.pendingMu.Unlock()
		if ack != nil {
			select {
			case ack <- ackMsg:
			default:
			}
		}

	case msgTypeActivity:
		var activityMsg activityMessage
		if err := json.Unmarshal(msg, &activityMsg); err != nil {
			log.Println("Failed to unmarshal dialog service activity", "error", err)
			return
		}
		if callback := c.callbacks.ActivityReceivedCallback; callback != nil {
			var audio io.Reader
			if len(activityMsg.Audio) > 0 {
				audio = bytes.NewReader(activityMsg.Audio)
			}
			activity := service.Activity{ID: activityMsg.ID, Payload: activityMsg.Activity}
			callback(c.sessionID, activity, audio)
		}

	case msgTypeSpeechStart, msgTypeSpeechEnd:
		var speechMsg speechEventMessage
		if err := json.Unmarshal(msg, &speechMsg); err != nil {
			log.Println("Failed to unmarshal dialog service speech event", "error", err)
			return
		}
		offset := time.Duration(speechMsg.OffsetMs) * time.Millisecond
		if probe.Type == msgTypeSpeechStart {
			if callback := c.callbacks.SpeechStartDetectedCallback; callback != nil {
				callback(c.sessionID, offset)
			}
		} else {
			if callback := c.callbacks.SpeechEndDetectedCallback; callback != nil {
				callback(c.sessionID, offset)
			}
		}

	case msgTypePhrase:
		var phraseMsg phraseMessage
		if err := json.Unmarshal(msg, &phraseMsg); err != nil {
			log.Println("Failed to unmarshal dialog service phrase", "error", err)
			return
		}
		result := phraseMsg.toResult()
		if callback := c.callbacks.RecognitionResultCallback; callback != nil {
			callback(c.sessionID, result)
		}
		c.pendingMu.Lock()
		outcome := c.listenOnce
		c.pendingMu.Unlock()
		if outcome != nil {
			select {
			case outcome <- listenOutcome{result: result}:
			default:
			}
		}
	}
}

func (p phraseMessage) toResult() service.RecognitionResult {
	resultID := p.ResultID
	if resultID == "" {
		resultID = uuid.NewString()
	}
	reason := service.Reason(p.Reason)
	if p.Reason == "" {
		reason = service.ReasonRecognizedSpeech
	}
	return service.RecognitionResult{
		ResultID: resultID,
		Reason:   reason,
		Text:     p.Text,
		Offset:   time.Duration(p.OffsetMs) * time.Millisecond,
		Duration: time.Duration(p.DurationMs) * time.Millisecond,
	}
}

// failPending resolves every in-flight request with the connection error so
// no caller is left waiting on a dead socket.
func (c *Client) failPending(err error) {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()

	for id, ack := range c.pendingAcks {
		select {
		case ack <- ackMessage{Type: msgTypeAck, ID: id, Error: err.Error()}:
		default:
		}
	}
	if c.listenOnce != nil {
		select {
		case c.listenOnce <- listenOutcome{err: fmt.Errorf("listen interrupted: %w", err)}:
		default:
		}
	}
}
