package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/memorylane/memorylane/internal/client/models"
)

// authResponse tolerates the two shapes the backend has shipped:
// login returns {access_token, user:{...}}, register returns the identity
// fields flat next to a "token".
type authResponse struct {
	AccessToken string `json:"access_token"`
	Token       string `json:"token"`
	ID          string `json:"id"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	User        *struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Role string `json:"role"`
	} `json:"user"`
}

func (r authResponse) user() models.User {
	u := models.User{ID: r.ID, Name: r.Name, Role: r.Role, Token: r.AccessToken}
	if u.Token == "" {
		u.Token = r.Token
	}
	if r.User != nil {
		u.ID = r.User.ID
		u.Name = r.User.Name
		u.Role = r.User.Role
	}
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	return u
}

// Login exchanges credentials for a session. Validation lives on the
// backend; the client only relays the failure message.
func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	body, err := c.postJSON(ctx, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	var r authResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("decode login response: %w", err)
	}
	u := r.user()
	return &u, nil
}

// Register creates an account and returns the freshly minted session.
func (c *Client) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	body, err := c.postJSON(ctx, "/auth/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	var r authResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("decode register response: %w", err)
	}
	u := r.user()
	if u.Name == "" {
		u.Name = name
	}
	return &u, nil
}
