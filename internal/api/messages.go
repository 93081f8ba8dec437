package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/adirkandabi/LinkSpark/internal/models"
)

// History fetches the ordered backlog for a room, oldest first. Used once per
// room-open; callers tolerate failure by rendering an empty transcript.
func (c *Client) History(ctx context.Context, room string) ([]models.ChatMessage, error) {
	if room == "" {
		return nil, fmt.Errorf("api: history: room is required")
	}
	var resp models.HistoryResponse
	if err := c.doJSON(ctx, http.MethodGet, "/messages/"+room, nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

// UnreadSummary fetches the viewer's per-peer unread counts. This endpoint is
// the single source of truth for unread state; pushes only trigger refetches.
func (c *Client) UnreadSummary(ctx context.Context, viewerID string) ([]models.UnreadEntry, error) {
	if viewerID == "" {
		return nil, fmt.Errorf("api: unread summary: viewer id is required")
	}
	var resp models.UnreadResponse
	if err := c.doJSON(ctx, http.MethodGet, "/messages/unread/"+viewerID, nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Unread, nil
}
