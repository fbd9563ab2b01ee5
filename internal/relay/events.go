package relay

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Wire framing: every message is {"type": "<event>", "data": {...}}.
// Each event type gets its own payload struct so malformed frames are
// rejected at the boundary instead of broadcast with missing fields.

type EventType string

// Client -> relay events.
const (
	EvtJoinSession      EventType = "join-session"
	EvtLeaveSession     EventType = "leave-session"
	EvtCodeChange       EventType = "code-change"
	EvtCursorPosition   EventType = "cursor-position"
	EvtWhiteboardChange EventType = "whiteboard-change"
	EvtChatMessage      EventType = "chat-message"
	EvtTimerStart       EventType = "timer-start"
	EvtTimerPause       EventType = "timer-pause"
	EvtTimerReset       EventType = "timer-reset"
	EvtEndSession       EventType = "end-session"
	EvtChangeProblem    EventType = "change-problem"
)

// Relay -> client events.
const (
	EvtUserJoined       EventType = "user-joined"
	EvtUserLeft         EventType = "user-left"
	EvtCodeUpdate       EventType = "code-update"
	EvtCursorMoved      EventType = "cursor-moved"
	EvtWhiteboardUpdate EventType = "whiteboard-update"
	EvtTimerStarted     EventType = "timer-started"
	EvtTimerPaused      EventType = "timer-paused"
	EvtSessionEnded     EventType = "session-ended"
	EvtProblemChanged   EventType = "problem-changed"
)

type envelope struct {
	Type EventType       `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Inbound payloads. The sessionId routes the frame; position, drawingData
// and problem stay opaque to the relay and are forwarded verbatim.

type joinSession struct {
	SessionID string `json:"sessionId" validate:"required"`
	UserID    string `json:"userId" validate:"required"`
	UserName  string `json:"userName" validate:"required"`
}

type leaveSession struct {
	SessionID string `json:"sessionId" validate:"required"`
	UserID    string `json:"userId" validate:"required"`
}

type codeChange struct {
	SessionID string `json:"sessionId" validate:"required"`
	Code      string `json:"code"`
	Language  string `json:"language"`
}

type cursorPosition struct {
	SessionID string          `json:"sessionId" validate:"required"`
	Position  json.RawMessage `json:"position" validate:"required"`
	UserID    string          `json:"userId" validate:"required"`
}

type whiteboardChange struct {
	SessionID   string          `json:"sessionId" validate:"required"`
	DrawingData json.RawMessage `json:"drawingData" validate:"required"`
}

type chatMessage struct {
	SessionID string `json:"sessionId" validate:"required"`
	Message   string `json:"message" validate:"required"`
	UserID    string `json:"userId" validate:"required"`
	UserName  string `json:"userName" validate:"required"`
}

type timerStart struct {
	SessionID string `json:"sessionId" validate:"required"`
	Duration  int    `json:"duration" validate:"gt=0"`
}

type sessionOnly struct {
	SessionID string `json:"sessionId" validate:"required"`
}

type changeProblem struct {
	SessionID string          `json:"sessionId" validate:"required"`
	Problem   json.RawMessage `json:"problem" validate:"required"`
}

// Outbound payloads.

type userJoined struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
}

type userLeft struct {
	UserID string `json:"userId"`
}

type codeUpdate struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

type cursorMoved struct {
	Position json.RawMessage `json:"position"`
	UserID   string          `json:"userId"`
}

type whiteboardUpdate struct {
	DrawingData json.RawMessage `json:"drawingData"`
}

type chatDelivery struct {
	Message   string `json:"message"`
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	Timestamp string `json:"timestamp"`
}

type timerStarted struct {
	Duration  int   `json:"duration"`
	StartTime int64 `json:"startTime"`
}

type timerPaused struct {
	PauseTime int64 `json:"pauseTime"`
}

type problemChanged struct {
	Problem json.RawMessage `json:"problem"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

var errUnknownEvent = errors.New("unknown event type")

// decodeFrame parses and validates one inbound frame. The returned payload
// is one of the inbound structs above, matching the returned event type.
func decodeFrame(raw []byte) (EventType, any, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", nil, fmt.Errorf("frame decode: %w", err)
	}

	var payload any
	switch env.Type {
	case EvtJoinSession:
		payload = &joinSession{}
	case EvtLeaveSession:
		payload = &leaveSession{}
	case EvtCodeChange:
		payload = &codeChange{}
	case EvtCursorPosition:
		payload = &cursorPosition{}
	case EvtWhiteboardChange:
		payload = &whiteboardChange{}
	case EvtChatMessage:
		payload = &chatMessage{}
	case EvtTimerStart:
		payload = &timerStart{}
	case EvtTimerPause, EvtTimerReset, EvtEndSession:
		payload = &sessionOnly{}
	case EvtChangeProblem:
		payload = &changeProblem{}
	default:
		return env.Type, nil, errUnknownEvent
	}

	if err := json.Unmarshal(env.Data, payload); err != nil {
		return env.Type, nil, fmt.Errorf("%s payload: %w", env.Type, err)
	}
	if err := validate.Struct(payload); err != nil {
		return env.Type, nil, fmt.Errorf("%s payload: %w", env.Type, err)
	}
	return env.Type, payload, nil
}

// marshalFrame builds an outbound frame. Marshal errors cannot occur for the
// outbound structs above, so the frame is returned directly.
func marshalFrame(t EventType, payload any) []byte {
	var data json.RawMessage
	if payload != nil {
		data, _ = json.Marshal(payload)
	}
	raw, _ := json.Marshal(envelope{Type: t, Data: data})
	return raw
}
