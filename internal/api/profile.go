package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/adirkandabi/LinkSpark/internal/models"
)

// CreateProfile fills in the profile of a freshly-registered user.
func (c *Client) CreateProfile(ctx context.Context, p models.Profile) (*models.Profile, error) {
	var resp models.Profile
	if err := c.doJSON(ctx, http.MethodPost, "/profile", nil, p, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Profile fetches a user's profile.
func (c *Client) Profile(ctx context.Context, userID string) (*models.Profile, error) {
	if userID == "" {
		return nil, fmt.Errorf("api: profile: user id is required")
	}
	var resp models.Profile
	if err := c.doJSON(ctx, http.MethodGet, "/profile/"+userID, nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateProfile patches the viewer's profile.
func (c *Client) UpdateProfile(ctx context.Context, p models.Profile) error {
	return c.doJSON(ctx, http.MethodPatch, "/profile", nil, p, nil)
}
