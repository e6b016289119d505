package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/memorylane/memorylane/internal/client/models"
)

// MemoryQuery is the trigger set for a paginated memory list fetch.
type MemoryQuery struct {
	AllUsers      bool // privileged /memories/all scope
	Page          int
	PageSize      int
	Search        string
	MilestoneOnly bool
	Tag           string
	UserID        string // admin filter within the all-users scope
	Limit         int    // flat cap used by the admin activity feed
}

// ListMemories fetches one page of memories. The second return value is the
// backend-reported total page count, 0 when the response carried none.
func (c *Client) ListMemories(ctx context.Context, q MemoryQuery) ([]models.Memory, int, error) {
	path := "/memories"
	if q.AllUsers {
		path = "/memories/all"
	}

	params := url.Values{}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		params.Set("page_size", strconv.Itoa(q.PageSize))
	}
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	if q.MilestoneOnly {
		params.Set("is_milestone", "true")
	}
	if q.Tag != "" {
		params.Set("tag", q.Tag)
	}
	if q.UserID != "" {
		params.Set("userId", q.UserID)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}

	body, err := c.get(ctx, path, params)
	if err != nil {
		return nil, 0, err
	}
	memories, err := UnmarshalList[models.Memory](body, "memories")
	if err != nil {
		return nil, 0, err
	}
	return memories, parseTotalPages(body), nil
}

// GetTags fetches the tag vocabulary.
func (c *Client) GetTags(ctx context.Context) ([]models.Tag, error) {
	body, err := c.get(ctx, "/memories/tags", nil)
	if err != nil {
		return nil, err
	}
	return UnmarshalList[models.Tag](body, "tags")
}

// GetStats fetches the per-user dashboard aggregate.
func (c *Client) GetStats(ctx context.Context) (models.Stats, error) {
	body, err := c.get(ctx, "/memories/stats", nil)
	if err != nil {
		return models.Stats{}, err
	}
	return UnmarshalObject[models.Stats](body, "stats")
}

// GetMilestones fetches all milestone-flagged memories.
func (c *Client) GetMilestones(ctx context.Context) ([]models.Memory, error) {
	body, err := c.get(ctx, "/memories/milestones", nil)
	if err != nil {
		return nil, err
	}
	return UnmarshalList[models.Memory](body, "memories", "milestones")
}

// GetRandomMemory fetches one memory for the reminisce view. Returns nil
// when the archive is empty.
func (c *Client) GetRandomMemory(ctx context.Context) (*models.Memory, error) {
	body, err := c.get(ctx, "/memories/random", nil)
	if err != nil {
		return nil, err
	}
	m, err := UnmarshalObject[models.Memory](body, "memory")
	if err != nil {
		return nil, err
	}
	if m.ID == "" {
		return nil, nil
	}
	return &m, nil
}

// GetMemoriesByTag fetches the memories carrying the named tag.
func (c *Client) GetMemoriesByTag(ctx context.Context, tag string) ([]models.Memory, error) {
	body, err := c.get(ctx, "/memories/tag/"+url.PathEscape(tag), nil)
	if err != nil {
		return nil, err
	}
	return UnmarshalList[models.Memory](body, "memories")
}

// CreateMemoryInput is the single-item upload form. Title is required, and
// at least one of PhotoPath/VoicePath must be set; the form validates both
// before any request is issued.
type CreateMemoryInput struct {
	Title       string
	Description string
	Location    string
	Date        time.Time
	IsMilestone bool
	Tags        []string
	AlbumID     string
	PhotoPath   string
	VoicePath   string
}

// CreateMemory uploads one memory as a multipart form.
func (c *Client) CreateMemory(ctx context.Context, in CreateMemoryInput) (*models.Memory, error) {
	body, err := c.postMultipart(ctx, "/memories", func(w *multipart.Writer) error {
		if err := writeMemoryFields(w, in.Title, in.Location, in.Date); err != nil {
			return err
		}
		if err := w.WriteField("description", in.Description); err != nil {
			return err
		}
		if err := w.WriteField("is_milestone", strconv.FormatBool(in.IsMilestone)); err != nil {
			return err
		}
		tags, err := json.Marshal(in.Tags)
		if err != nil {
			return err
		}
		if err := w.WriteField("tags", string(tags)); err != nil {
			return err
		}
		if in.AlbumID != "" {
			if err := w.WriteField("album_id", in.AlbumID); err != nil {
				return err
			}
		}
		if in.PhotoPath != "" {
			if err := attachFile(w, "file", in.PhotoPath); err != nil {
				return err
			}
		}
		if in.VoicePath != "" {
			if err := attachFile(w, "audio", in.VoicePath); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	m, err := UnmarshalObject[models.Memory](body, "memory")
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// BulkCreateInput is the batch upload form: one shared set of fields and
// many files, submitted as a single multipart batch request. Partial
// failure semantics are the backend's; the client treats the batch as one
// operation.
type BulkCreateInput struct {
	Title     string
	Location  string
	Date      time.Time
	AlbumID   string
	FilePaths []string
}

// BulkCreateMemories uploads a batch of files in one request and returns
// the created records.
func (c *Client) BulkCreateMemories(ctx context.Context, in BulkCreateInput) ([]models.Memory, error) {
	body, err := c.postMultipart(ctx, "/memories/bulk", func(w *multipart.Writer) error {
		if err := writeMemoryFields(w, in.Title, in.Location, in.Date); err != nil {
			return err
		}
		if in.AlbumID != "" {
			if err := w.WriteField("album_id", in.AlbumID); err != nil {
				return err
			}
		}
		for _, path := range in.FilePaths {
			if err := attachFile(w, "files", path); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return UnmarshalList[models.Memory](body, "memories")
}

// UpdateMemory replaces the editable fields of a memory (full-record edit
// form). The record, not a patch, is what the backend expects.
func (c *Client) UpdateMemory(ctx context.Context, id string, in CreateMemoryInput) (*models.Memory, error) {
	payload := map[string]any{
		"title":        in.Title,
		"description":  in.Description,
		"location":     in.Location,
		"memory_date":  in.Date.Format("2006-01-02"),
		"is_milestone": in.IsMilestone,
		"tags":         in.Tags,
	}
	body, err := c.putJSON(ctx, "/memories/"+url.PathEscape(id), payload)
	if err != nil {
		return nil, err
	}
	m, err := UnmarshalObject[models.Memory](body, "memory")
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// DeleteMemory removes a memory by id. Callers confirm with the user first.
func (c *Client) DeleteMemory(ctx context.Context, id string) error {
	return c.delete(ctx, "/memories/"+url.PathEscape(id))
}

// ShareMemory shares a memory with another user and returns the backend's
// acknowledgement message, if any.
func (c *Client) ShareMemory(ctx context.Context, memoryID, targetUserID string) error {
	_, err := c.postJSON(ctx, "/memories/share", map[string]string{
		"memoryId":     memoryID,
		"targetUserId": targetUserID,
	})
	return err
}

func writeMemoryFields(w *multipart.Writer, title, location string, date time.Time) error {
	if err := w.WriteField("title", title); err != nil {
		return err
	}
	if err := w.WriteField("location", location); err != nil {
		return err
	}
	if !date.IsZero() {
		if err := w.WriteField("memory_date", date.Format("2006-01-02")); err != nil {
			return err
		}
	}
	return nil
}

func attachFile(w *multipart.Writer, field, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	part, err := w.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("copy %s: %w", path, err)
	}
	return nil
}

func (c *Client) postMultipart(ctx context.Context, path string, build func(*multipart.Writer) error) ([]byte, error) {
	// Forms are small enough (a handful of local files) to buffer; a pipe
	// would complicate cancellation for no measurable gain.
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := build(w); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return c.do(ctx, "POST", path, nil, w.FormDataContentType(), &buf)
}
