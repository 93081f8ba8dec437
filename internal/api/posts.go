package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/adirkandabi/LinkSpark/internal/models"
)

// CreatePost publishes a post to the feed (or to a group when GroupID is set).
func (c *Client) CreatePost(ctx context.Context, req models.CreatePostRequest) (*models.Post, error) {
	var resp models.PostResponse
	if err := c.doJSON(ctx, http.MethodPost, "/posts", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp.Post, nil
}

// Posts lists feed posts, narrowed by the given filters.
func (c *Client) Posts(ctx context.Context, filters models.PostFilters) ([]models.Post, error) {
	query := url.Values{}
	if filters.AuthorID != "" {
		query.Set("author_id", filters.AuthorID)
	}
	if filters.GroupID != "" {
		query.Set("group_id", filters.GroupID)
	}
	var resp models.PostsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/posts", query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Posts, nil
}

// PostsByGroup lists the posts scoped to one group.
func (c *Client) PostsByGroup(ctx context.Context, groupID string) ([]models.Post, error) {
	if groupID == "" {
		return nil, fmt.Errorf("api: posts by group: group id is required")
	}
	query := url.Values{"group_id": {groupID}}
	var resp models.PostsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/posts/filter/by-group", query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Posts, nil
}

// UpdatePost edits an existing post.
func (c *Client) UpdatePost(ctx context.Context, postID string, req models.UpdatePostRequest) error {
	if postID == "" {
		return fmt.Errorf("api: update post: post id is required")
	}
	return c.doJSON(ctx, http.MethodPut, "/posts/"+postID, nil, req, nil)
}

// DeletePost removes a post.
func (c *Client) DeletePost(ctx context.Context, postID string) error {
	if postID == "" {
		return fmt.Errorf("api: delete post: post id is required")
	}
	return c.doJSON(ctx, http.MethodDelete, "/posts/"+postID, nil, nil, nil)
}
