package api

import (
	"context"
	"net/http"

	"github.com/adirkandabi/LinkSpark/internal/models"
)

// Register creates an account and returns the new user's id and token.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login exchanges credentials for a bearer token. The token is not installed
// automatically; call SetToken with the result.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SendVerificationCode asks the server to email a verification code.
func (c *Client) SendVerificationCode(ctx context.Context, userID string) error {
	body := map[string]string{"user_id": userID}
	return c.doJSON(ctx, http.MethodPost, "/auth/send-code", nil, body, nil)
}
