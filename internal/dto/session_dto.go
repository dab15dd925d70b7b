package dto

import (
	"github.com/google/uuid"
)

type CreateSessionRequest struct {
	SelectedParticipants []string `json:"selected_participants" validate:"required"`
	MovieID              string   `json:"movie_id" validate:"required"`
}

type CreateSessionResponse struct {
	SessionID   uuid.UUID `json:"session_id"`
	Participant []string  `json:"participant"`
}

// AuthUserResponse is the identity-service payload for a verified token.
type AuthUserResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// ActiveSessionResponse is the diagnostic view of one process-local session.
type ActiveSessionResponse struct {
	SessionID    uuid.UUID `json:"session_id"`
	MovieID      string    `json:"movie_id"`
	Participants []string  `json:"participants"`
	Connections  int       `json:"connections"`
}
