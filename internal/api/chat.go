package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/Selva2621/plv/internal/model"
)

// GetProfile fetches a single user profile.
func (c *Client) GetProfile(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	var profile model.Profile
	if err := c.get(ctx, "/users/"+userID.String(), nil, &profile); err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &profile, nil
}

// messagesResponse is the paginated envelope for message history.
type messagesResponse struct {
	Messages []model.Message `json:"messages"`
	HasMore  bool            `json:"hasMore"`
}

// GetMessages fetches message history with recipientID, newest first. A zero
// before time means "from now"; limit <= 0 uses the server default.
func (c *Client) GetMessages(ctx context.Context, recipientID uuid.UUID, limit int, before time.Time) ([]model.Message, bool, error) {
	query := url.Values{}
	query.Set("recipientId", recipientID.String())
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if !before.IsZero() {
		query.Set("before", before.UTC().Format(time.RFC3339))
	}

	var resp messagesResponse
	if err := c.get(ctx, "/messages", query, &resp); err != nil {
		return nil, false, fmt.Errorf("get messages: %w", err)
	}
	return resp.Messages, resp.HasMore, nil
}

// GetInvitations fetches the caller's pending chat invitations.
func (c *Client) GetInvitations(ctx context.Context) ([]model.ChatInvitation, error) {
	var invitations []model.ChatInvitation
	if err := c.get(ctx, "/chat/invitations", nil, &invitations); err != nil {
		return nil, fmt.Errorf("get invitations: %w", err)
	}
	return invitations, nil
}
