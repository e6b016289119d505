// Package export renders local artifacts from fetched collections, most
// notably the album Lookbook PDF.
package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/memorylane/memorylane/internal/client/models"
	"github.com/memorylane/memorylane/internal/logging"
)

// MediaFetcher pulls media bytes for a memory's display URL. The API
// client satisfies this; tests substitute a local fake.
type MediaFetcher interface {
	FetchMedia(ctx context.Context, rawURL string) (data []byte, contentType string, err error)
}

// Lookbook renders an album into a printable PDF: a title page followed
// by one page per memory.
type Lookbook struct {
	media MediaFetcher
	log   logging.Logger
}

func NewLookbook(media MediaFetcher, log logging.Logger) *Lookbook {
	return &Lookbook{media: media, log: log}
}

// Render writes the PDF to path. The metadata text always renders; a
// memory whose image cannot be fetched or embedded gets a text-only page.
// On failure the partial file is removed.
func (l *Lookbook) Render(ctx context.Context, path string, album *models.Album, memories []models.Memory) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(album.Name, true)

	l.titlePage(pdf, album, len(memories))
	for i, m := range memories {
		if err := ctx.Err(); err != nil {
			return err
		}
		l.memoryPage(ctx, pdf, m, i)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("write lookbook: %w", err)
	}
	return nil
}

func (l *Lookbook) titlePage(pdf *gofpdf.Fpdf, album *models.Album, count int) {
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 28)
	pdf.CellFormat(0, 80, "", "", 1, "", false, 0, "")
	pdf.MultiCell(0, 12, album.Name, "", "C", false)

	pdf.SetFont("Helvetica", "", 12)
	if album.Description != "" {
		pdf.MultiCell(0, 7, album.Description, "", "C", false)
	}
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, fmt.Sprintf("%d memories - %s", count, time.Now().Format("January 2, 2006")), "", "C", false)
}

func (l *Lookbook) memoryPage(ctx context.Context, pdf *gofpdf.Fpdf, m models.Memory, idx int) {
	pdf.AddPage()

	if m.DisplayURL != "" && m.MediaType != models.MediaVideo {
		l.placeImage(ctx, pdf, m, idx)
	}

	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(0, 9, m.Title, "", "L", false)

	pdf.SetFont("Helvetica", "", 11)
	if !m.EffectiveDate().IsZero() {
		pdf.MultiCell(0, 6, m.EffectiveDate().Format("January 2, 2006"), "", "L", false)
	}
	if m.Location != "" {
		pdf.MultiCell(0, 6, m.Location, "", "L", false)
	}
	if m.Description != "" {
		pdf.Ln(3)
		pdf.MultiCell(0, 6, m.Description, "", "L", false)
	}
	if len(m.Tags) > 0 {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.MultiCell(0, 5, strings.Join(m.Tags, ", "), "", "L", false)
	}
}

func (l *Lookbook) placeImage(ctx context.Context, pdf *gofpdf.Fpdf, m models.Memory, idx int) {
	data, contentType, err := l.media.FetchMedia(ctx, m.DisplayURL)
	if err != nil {
		l.log.Warn(ctx, "lookbook image skipped", "memory", m.ID, "error", err)
		return
	}
	kind := imageKind(contentType, m.DisplayURL)
	if kind == "" {
		l.log.Warn(ctx, "lookbook image skipped, unsupported type", "memory", m.ID, "content_type", contentType)
		return
	}

	name := fmt.Sprintf("memory-%d", idx)
	pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: kind}, bytes.NewReader(data))
	if pdf.Err() {
		// A corrupt image poisons the whole document; reset and render text only.
		l.log.Warn(ctx, "lookbook image unreadable", "memory", m.ID)
		pdf.ClearError()
		return
	}
	pdf.ImageOptions(name, 15, 20, 180, 0, false, gofpdf.ImageOptions{ImageType: kind}, 0, "")
	pdf.SetY(150)
}

// imageKind maps a content type (or a URL extension fallback) onto the
// renderer's image type label.
func imageKind(contentType, rawURL string) string {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "jpeg"), strings.Contains(ct, "jpg"):
		return "JPG"
	case strings.Contains(ct, "png"):
		return "PNG"
	case strings.Contains(ct, "gif"):
		return "GIF"
	}
	u := strings.ToLower(rawURL)
	switch {
	case strings.HasSuffix(u, ".jpg"), strings.HasSuffix(u, ".jpeg"):
		return "JPG"
	case strings.HasSuffix(u, ".png"):
		return "PNG"
	case strings.HasSuffix(u, ".gif"):
		return "GIF"
	}
	return ""
}
