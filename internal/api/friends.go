package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/adirkandabi/LinkSpark/internal/models"
)

// Friends lists the friends of a user, the peer set of the messenger.
func (c *Client) Friends(ctx context.Context, userID string) ([]models.Friend, error) {
	if userID == "" {
		return nil, fmt.Errorf("api: friends: user id is required")
	}
	var resp models.FriendsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/users/"+userID+"/friends", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Friends, nil
}
