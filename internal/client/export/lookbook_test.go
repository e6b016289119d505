package export

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memorylane/memorylane/internal/client/models"
	"github.com/memorylane/memorylane/internal/logging"
)

type fakeMedia struct {
	data        []byte
	contentType string
	err         error
	calls       int
}

func (f *fakeMedia) FetchMedia(_ context.Context, _ string) ([]byte, string, error) {
	f.calls++
	return f.data, f.contentType, f.err
}

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 120, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func sampleAlbum() (*models.Album, []models.Memory) {
	album := &models.Album{ID: "a1", Name: "Summer 2024", Description: "Coast road"}
	memories := []models.Memory{
		{
			ID:          "m1",
			Title:       "Harbor at dawn",
			Description: "First light over the boats.",
			Location:    "Kotor",
			DisplayURL:  "/uploads/m1.png",
			MemoryDate:  models.Date{Time: time.Date(2024, 7, 2, 0, 0, 0, 0, time.UTC)},
			Tags:        models.TagNames{"travel", "sea"},
		},
		{ID: "m2", Title: "Text only"},
	}
	return album, memories
}

func TestLookbookRender(t *testing.T) {
	media := &fakeMedia{data: tinyPNG(t), contentType: "image/png"}
	lb := NewLookbook(media, logging.Nop{})
	album, memories := sampleAlbum()

	path := filepath.Join(t.TempDir(), "lookbook.pdf")
	require.NoError(t, lb.Render(context.Background(), path, album, memories))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), "output is a PDF")
	assert.Equal(t, 1, media.calls, "only memories with media fetch bytes")
}

func TestLookbookRender_ImageFailureStillRendersText(t *testing.T) {
	media := &fakeMedia{err: errors.New("unreachable")}
	lb := NewLookbook(media, logging.Nop{})
	album, memories := sampleAlbum()

	path := filepath.Join(t.TempDir(), "lookbook.pdf")
	require.NoError(t, lb.Render(context.Background(), path, album, memories))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestLookbookRender_Cancelled(t *testing.T) {
	lb := NewLookbook(&fakeMedia{}, logging.Nop{})
	album, memories := sampleAlbum()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := filepath.Join(t.TempDir(), "lookbook.pdf")
	err := lb.Render(ctx, path, album, memories)
	assert.ErrorIs(t, err, context.Canceled)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "no partial file left behind")
}

func TestImageKind(t *testing.T) {
	assert.Equal(t, "JPG", imageKind("image/jpeg", ""))
	assert.Equal(t, "PNG", imageKind("", "/uploads/x.png"))
	assert.Equal(t, "GIF", imageKind("image/gif; charset=binary", ""))
	assert.Equal(t, "", imageKind("video/mp4", "/uploads/x.mp4"))
}
