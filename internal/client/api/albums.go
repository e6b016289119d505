package api

import (
	"context"
	"io"
	"net/url"

	"github.com/memorylane/memorylane/internal/client/models"
)

// ListAlbums fetches the caller's albums.
func (c *Client) ListAlbums(ctx context.Context) ([]models.Album, error) {
	body, err := c.get(ctx, "/albums", nil)
	if err != nil {
		return nil, err
	}
	return UnmarshalList[models.Album](body, "albums")
}

// CreateAlbum creates an album from name and description.
func (c *Client) CreateAlbum(ctx context.Context, name, description string) (*models.Album, error) {
	body, err := c.postJSON(ctx, "/albums", map[string]string{
		"name":        name,
		"description": description,
	})
	if err != nil {
		return nil, err
	}
	a, err := UnmarshalObject[models.Album](body, "album")
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetAlbum fetches one album with its membership.
func (c *Client) GetAlbum(ctx context.Context, id string) (*models.Album, error) {
	body, err := c.get(ctx, "/albums/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	a, err := UnmarshalObject[models.Album](body, "album")
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// DeleteAlbum removes an album by id; memberships cascade server-side.
// Callers confirm with the user first.
func (c *Client) DeleteAlbum(ctx context.Context, id string) error {
	return c.delete(ctx, "/albums/"+url.PathEscape(id))
}

// AddAlbumMemories adds a batch of memory ids to an album.
func (c *Client) AddAlbumMemories(ctx context.Context, albumID string, memoryIDs []string) error {
	_, err := c.postJSON(ctx, "/albums/"+url.PathEscape(albumID)+"/memories", map[string]any{
		"memoryIds": memoryIDs,
	})
	return err
}

// RemoveAlbumMemory removes a single memory from an album.
func (c *Client) RemoveAlbumMemory(ctx context.Context, albumID, memoryID string) error {
	return c.delete(ctx, "/albums/"+url.PathEscape(albumID)+"/memories/"+url.PathEscape(memoryID))
}

// DownloadAlbumArchive streams the album's binary archive into w and
// returns the number of bytes written.
func (c *Client) DownloadAlbumArchive(ctx context.Context, id string, w io.Writer) (int64, error) {
	body, err := c.get(ctx, "/albums/"+url.PathEscape(id)+"/download", nil)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(body)
	return int64(n), err
}
