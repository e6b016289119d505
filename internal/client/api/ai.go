package api

import (
	"context"

	"github.com/memorylane/memorylane/internal/client/models"
)

// GenerateCaptionPreview asks the backend for AI caption suggestions for an
// album's memories. Despite the endpoint name, with preview_only set this is
// a side-effect-free read: nothing is written until ConfirmCaptions.
func (c *Client) GenerateCaptionPreview(ctx context.Context, albumID, userID, prompt string) ([]models.Suggestion, error) {
	body, err := c.postJSON(ctx, "/ai/generate-video", map[string]any{
		"album_id":     albumID,
		"user_id":      userID,
		"prompt":       prompt,
		"preview_only": true,
	})
	if err != nil {
		return nil, err
	}
	return UnmarshalList[models.Suggestion](body, "suggestions", "updates")
}

// ConfirmCaptions commits a previously previewed suggestion set. Only on
// success does the caller fold the suggestions into its local copies.
func (c *Client) ConfirmCaptions(ctx context.Context, albumID string, updates []models.Suggestion) error {
	_, err := c.postJSON(ctx, "/ai/confirm-magic", map[string]any{
		"album_id": albumID,
		"updates":  updates,
	})
	return err
}
