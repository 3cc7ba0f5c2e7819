package events

const (
	KindSessionStarted Kind = "session.started"
	KindSessionStopped Kind = "session.stopped"
)

type SessionStarted struct{ Base }

func (e SessionStarted) String() string { return "Session Started" }

func NewSessionStarted(sessionID string) SessionStarted {
	return SessionStarted{Base: NewBase(KindSessionStarted, sessionID)}
}

type SessionStopped struct{ Base }

func (e SessionStopped) String() string { return "Session Stopped" }

func NewSessionStopped(sessionID string) SessionStopped {
	return SessionStopped{Base: NewBase(KindSessionStopped, sessionID)}
}
