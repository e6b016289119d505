package api

import (
	"context"

	"github.com/memorylane/memorylane/internal/client/models"
)

// GetAdminStats fetches the system-wide aggregate for the admin console.
func (c *Client) GetAdminStats(ctx context.Context) (models.AdminStats, error) {
	body, err := c.get(ctx, "/admin/stats", nil)
	if err != nil {
		return models.AdminStats{}, err
	}
	return UnmarshalObject[models.AdminStats](body, "stats")
}

// ListUsers fetches the user directory (admin only).
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	body, err := c.get(ctx, "/admin/users", nil)
	if err != nil {
		return nil, err
	}
	return UnmarshalList[models.User](body, "users")
}
