package websocket

import (
	"context"
	"encoding/json"
	"time"

	"watch-party-be/internal/dto"
	"watch-party-be/internal/pkg/logger"
	"watch-party-be/internal/repository/contract"
	"watch-party-be/internal/service"
	"watch-party-be/pkg/events"
	pktNats "watch-party-be/pkg/nats"
	"watch-party-be/pkg/store"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// Manager owns the per-session connection sets and the frame protocol:
// catch-up replay on join, dispatch of chat and command frames, fan-out to
// every connection of the session.
type Manager struct {
	reconciler service.IReconcilerService
	playback   contract.PlaybackStateCache
	chatlog    contract.ChatLogCache
	publisher  *pktNats.Publisher
	logger     logger.ILogger
}

func NewManager(
	reconciler service.IReconcilerService,
	playback contract.PlaybackStateCache,
	chatlog contract.ChatLogCache,
	publisher *pktNats.Publisher,
	log logger.ILogger,
) *Manager {
	return &Manager{
		reconciler: reconciler,
		playback:   playback,
		chatlog:    chatlog,
		publisher:  publisher,
		logger:     log,
	}
}

// Serve runs one connection's lifetime: attach, private catch-up, receive
// loop, detach. The session must already be resolved; a missing session is
// rejected upstream before the upgrade.
func (m *Manager) Serve(session *store.Session, conn *websocket.Conn) {
	client := NewClient(conn)
	session.Attach(client)
	m.logger.Info("ConnectionManager", "Client connected", map[string]interface{}{
		"session_id":  session.ID,
		"connections": session.ConnCount(),
	})
	m.publishEvent(events.ClientJoined(session.ID.String(), session.ConnCount()))

	go client.writePump()

	m.replayState(session, client)

	client.readPump(func(raw []byte) {
		m.handleFrame(session, client, raw)
	})

	session.Detach(client)
	client.CloseSend()
	m.logger.Info("ConnectionManager", "Client disconnected", map[string]interface{}{
		"session_id":  session.ID,
		"connections": session.ConnCount(),
	})
	m.publishEvent(events.ClientLeft(session.ID.String(), session.ConnCount()))
}

// replayState sends the reconciled catch-up frames to this connection only.
func (m *Manager) replayState(session *store.Session, client *Client) {
	playbackFrames, chatFrames := m.reconciler.CatchUp(context.Background(), session.ID)

	for _, frame := range playbackFrames {
		raw, err := json.Marshal(frame)
		if err != nil {
			continue
		}
		client.Enqueue(raw)
	}
	for _, raw := range chatFrames {
		client.Enqueue(raw)
	}
}

func (m *Manager) handleFrame(session *store.Session, client *Client, raw []byte) {
	frame, err := dto.DecodeFrame(raw)
	if err != nil {
		m.logger.Warn("ConnectionManager", "Dropping bad frame", map[string]interface{}{
			"session_id": session.ID,
			"error":      err.Error(),
		})
		m.sendError(client, 422, err.Error())
		return
	}

	switch frame.Kind {
	case dto.FrameTypeMessage:
		m.handleChat(session, client, frame.Chat)
	case dto.FrameTypeCommand:
		m.handleCommand(session, client, frame.Command)
	}
}

// handleChat broadcasts a chat message to every connection of the session,
// sender included, then appends it to the chat log. A failed append does
// not undo the broadcast; only the sender hears about it.
func (m *Manager) handleChat(session *store.Session, client *Client, chat *dto.ChatFrame) {
	author, found := session.FriendByID(chat.AuthorID)
	if !found {
		m.logger.Warn("ConnectionManager", "Chat from unknown author", map[string]interface{}{
			"session_id": session.ID,
			"author_id":  chat.AuthorID,
		})
		m.sendError(client, 422, "author is not a session participant")
		return
	}

	message := dto.ChatMessage{
		Author: dto.ChatMessageAuthor{
			ID:   chat.AuthorID,
			Name: author.DisplayName(),
		},
		Message:   chat.Message,
		ID:        uuid.New(),
		Type:      dto.FrameTypeMessage,
		Timestamp: time.Now().Format(time.RFC3339),
	}

	raw, err := json.Marshal(message)
	if err != nil {
		m.sendError(client, 500, "failed to encode message")
		return
	}

	m.broadcast(session, raw)

	if err := m.chatlog.Append(context.Background(), session.ID, raw); err != nil {
		m.logger.Error("ConnectionManager", "Chat cache append failed", map[string]interface{}{
			"session_id": session.ID,
			"error":      err.Error(),
		})
		m.sendError(client, 503, "chat history is temporarily unavailable")
	}
}

// handleCommand broadcasts a playback command and persists the resulting
// playback state for late joiners.
func (m *Manager) handleCommand(session *store.Session, client *Client, cmd *dto.CommandFrame) {
	if cmd.CommandType == "" {
		m.sendError(client, 422, "command frame missing commandType")
		return
	}
	if dto.IsPersistedCommand(cmd.CommandType) && cmd.Timestamp == nil {
		m.sendError(client, 422, "command frame missing timestamp")
		return
	}

	out := dto.CommandFrame{
		Type:        dto.FrameTypeCommand,
		UserID:      cmd.UserID,
		CommandType: cmd.CommandType,
		Timestamp:   cmd.Timestamp,
	}
	raw, err := json.Marshal(out)
	if err != nil {
		m.sendError(client, 500, "failed to encode command")
		return
	}

	m.broadcast(session, raw)

	if !dto.IsPersistedCommand(cmd.CommandType) {
		return
	}
	if err := m.playback.SaveCommand(context.Background(), session.ID, cmd.CommandType, *cmd.Timestamp); err != nil {
		m.logger.Error("ConnectionManager", "Playback cache write failed", map[string]interface{}{
			"session_id": session.ID,
			"command":    cmd.CommandType,
			"error":      err.Error(),
		})
		m.sendError(client, 503, "playback state is temporarily unavailable")
	}
}

// broadcast fans a frame out to all currently attached connections. A client
// whose buffer is full is detached and dropped rather than stalling peers.
func (m *Manager) broadcast(session *store.Session, raw []byte) {
	for _, conn := range session.Conns() {
		if !conn.Enqueue(raw) {
			session.Detach(conn)
			conn.CloseSend()
			m.logger.Warn("ConnectionManager", "Dropped slow client", map[string]interface{}{
				"session_id": session.ID,
			})
		}
	}
}

func (m *Manager) sendError(client *Client, code int, message string) {
	raw, err := json.Marshal(dto.ErrorFrame{
		Type:    dto.FrameTypeError,
		Code:    code,
		Message: message,
	})
	if err != nil {
		return
	}
	client.Enqueue(raw)
}

func (m *Manager) publishEvent(event events.BaseEvent) {
	if m.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := m.publisher.Publish(ctx, event); err != nil {
		m.logger.Warn("ConnectionManager", "Failed to publish event", map[string]interface{}{
			"event": event.EventType(),
			"error": err.Error(),
		})
	}
}
