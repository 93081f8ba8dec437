package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/adirkandabi/LinkSpark/internal/models"
)

// CreateGroup creates a group owned by the viewer.
func (c *Client) CreateGroup(ctx context.Context, req models.CreateGroupRequest) (*models.Group, error) {
	var resp models.GroupResponse
	if err := c.doJSON(ctx, http.MethodPost, "/groups", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp.Group, nil
}

// Groups lists all groups visible to the viewer.
func (c *Client) Groups(ctx context.Context) ([]models.Group, error) {
	var resp models.GroupsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/groups", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Groups, nil
}

// Group fetches one group by id.
func (c *Client) Group(ctx context.Context, groupID string) (*models.Group, error) {
	if groupID == "" {
		return nil, fmt.Errorf("api: group: group id is required")
	}
	var resp models.GroupResponse
	if err := c.doJSON(ctx, http.MethodGet, "/groups/"+groupID, nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Group, nil
}

// UpdateGroup edits a group the viewer owns.
func (c *Client) UpdateGroup(ctx context.Context, groupID string, req models.UpdateGroupRequest) error {
	if groupID == "" {
		return fmt.Errorf("api: update group: group id is required")
	}
	return c.doJSON(ctx, http.MethodPut, "/groups/"+groupID, nil, req, nil)
}

// DeleteGroup removes a group the viewer owns.
func (c *Client) DeleteGroup(ctx context.Context, groupID string) error {
	if groupID == "" {
		return fmt.Errorf("api: delete group: group id is required")
	}
	return c.doJSON(ctx, http.MethodDelete, "/groups/"+groupID, nil, nil, nil)
}
