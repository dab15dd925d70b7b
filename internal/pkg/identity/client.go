package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"watch-party-be/internal/dto"
	"watch-party-be/internal/pkg/apperrors"
	"watch-party-be/pkg/store"
)

// Client talks to the external identity service. Authentication itself is
// owned by that service; this client only forwards the caller's bearer
// token and maps any failure to ErrUnauthorized.
type Client struct {
	http       *http.Client
	verifyURL  string
	friendsURL string
}

func NewClient(verifyURL, friendsURL string) *Client {
	return &Client{
		http:       &http.Client{Timeout: 10 * time.Second},
		verifyURL:  verifyURL,
		friendsURL: friendsURL,
	}
}

// Verify resolves the bearer token to the calling user.
func (c *Client) Verify(ctx context.Context, token string) (*dto.AuthUserResponse, error) {
	var user dto.AuthUserResponse
	if err := c.get(ctx, c.verifyURL, token, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Friends resolves the bearer token to the caller's friend list.
func (c *Client) Friends(ctx context.Context, token string) ([]store.Friend, error) {
	var friends []store.Friend
	if err := c.get(ctx, c.friendsURL, token, &friends); err != nil {
		return nil, err
	}
	return friends, nil
}

func (c *Client) get(ctx context.Context, url, token string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("identity request: %v: %w", err, apperrors.ErrUnauthorized)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("could not validate credentials: %v: %w", err, apperrors.ErrUnauthorized)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("could not validate credentials: identity service returned %d: %w",
			resp.StatusCode, apperrors.ErrUnauthorized)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("could not validate credentials: %v: %w", err, apperrors.ErrUnauthorized)
	}
	return nil
}
