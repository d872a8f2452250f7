package api

import (
	"context"
	"net/http"

	"nocturna/pkg/models"
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Nombre   string `json:"nombre"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is the body returned by both auth endpoints.
type AuthResponse struct {
	User  models.Usuario `json:"user"`
	Token string         `json:"token"`
}

func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, creds, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
