package dto

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Wire frame types carried in the "type" discriminator field.
const (
	FrameTypeMessage = "message"
	FrameTypeCommand = "command"
	FrameTypeError   = "error"
)

// Playback command kinds the cache persists.
const (
	CommandPlay   = "play"
	CommandPause  = "pause"
	CommandSeeked = "seeked"
)

// Frame is the decoded tagged variant of an inbound websocket payload.
// Exactly one of Chat/Command is set, matching Kind.
type Frame struct {
	Kind    string
	Chat    *ChatFrame
	Command *CommandFrame
}

// ChatFrame is an inbound chat message.
type ChatFrame struct {
	Type     string `json:"type"`
	AuthorID string `json:"author_id"`
	Message  string `json:"message"`
}

// CommandFrame is a playback control message; it is also the shape of the
// two catch-up frames replayed to a joining connection. Timestamp is a
// pointer because the status catch-up frame carries no position.
type CommandFrame struct {
	Type        string   `json:"type"`
	UserID      string   `json:"userId,omitempty"`
	CommandType string   `json:"commandType"`
	Timestamp   *float64 `json:"timestamp,omitempty"`
}

// ChatMessageAuthor identifies who wrote a chat message.
type ChatMessageAuthor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ChatMessage is the broadcast (and cached) form of a chat frame.
type ChatMessage struct {
	Author    ChatMessageAuthor `json:"author"`
	Message   string            `json:"message"`
	ID        uuid.UUID         `json:"id"`
	Type      string            `json:"type"`
	Timestamp string            `json:"timestamp"`
}

// ErrorFrame is sent to a single connection when its own frame failed.
type ErrorFrame struct {
	Type    string `json:"type"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// DecodeFrame parses a raw inbound payload into its tagged variant.
func DecodeFrame(raw []byte) (*Frame, error) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("malformed frame: %w", err)
	}

	switch envelope.Type {
	case FrameTypeMessage:
		var chat ChatFrame
		if err := json.Unmarshal(raw, &chat); err != nil {
			return nil, fmt.Errorf("malformed chat frame: %w", err)
		}
		return &Frame{Kind: FrameTypeMessage, Chat: &chat}, nil
	case FrameTypeCommand:
		var cmd CommandFrame
		if err := json.Unmarshal(raw, &cmd); err != nil {
			return nil, fmt.Errorf("malformed command frame: %w", err)
		}
		return &Frame{Kind: FrameTypeCommand, Command: &cmd}, nil
	default:
		return nil, fmt.Errorf("unknown frame type %q", envelope.Type)
	}
}

// IsPersistedCommand reports whether the command kind is stored as
// playback state.
func IsPersistedCommand(commandType string) bool {
	switch commandType {
	case CommandPlay, CommandPause, CommandSeeked:
		return true
	}
	return false
}
