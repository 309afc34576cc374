package export

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// Page geometry in millimetres on A4 portrait.
const (
	marginX      = 20.0
	titleY       = 20.0
	titleSize    = 16.0
	chartY       = 30.0
	chartW       = 170.0
	chartH       = 85.0
	headingY     = 130.0
	bodySize     = 12.0
	firstLineY   = 140.0
	lineStep     = 10.0
	pageBottomY  = 270.0
	nextPageTopY = 20.0
)

// Placement positions one detail line.
type Placement struct {
	// Page is zero-based.
	Page int
	Y    float64
	Text string
}

// Layout places detail lines top to bottom, starting at y=140 on the
// first page and breaking to y=20 on a new page once y passes 270.
//
// No page is started unless a line remains to be placed on it.
func Layout(lines []string) []Placement {
	placements := make([]Placement, 0, len(lines))
	page, y := 0, firstLineY

	for _, line := range lines {
		if y > pageBottomY {
			page++
			y = nextPageTopY
		}
		placements = append(placements, Placement{Page: page, Y: y, Text: line})
		y += lineStep
	}
	return placements
}

// PDFComposer builds PDF documents with fpdf.
type PDFComposer struct {
	fontFamily string
	compress   bool
}

// NewPDFComposer creates a composer using the core Helvetica font.
func NewPDFComposer() *PDFComposer {
	return &PDFComposer{fontFamily: "Helvetica", compress: true}
}

// ComposeDocument implements DocumentComposer.
func (c *PDFComposer) ComposeDocument(ctx context.Context, d Document) ([]byte, error) {
	if len(d.ChartPNG) == 0 {
		return nil, ErrNoChartImage
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(c.compress)
	pdf.SetTitle(d.Title, true)
	pdf.SetCreator("punchclock", false)
	if !d.CreatedAt.IsZero() {
		pdf.SetCreationDate(d.CreatedAt)
		pdf.SetModificationDate(d.CreatedAt)
	}

	pdf.AddPage()
	pdf.SetFont(c.fontFamily, "", titleSize)
	pdf.Text(marginX, titleY, d.Title)

	opt := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("chart", opt, bytes.NewReader(d.ChartPNG))
	pdf.ImageOptions("chart", marginX, chartY, chartW, chartH, false, opt, 0, "")

	pdf.SetFont(c.fontFamily, "", bodySize)
	pdf.Text(marginX, headingY, d.Heading)

	page := 0
	for _, p := range Layout(d.Lines) {
		for page < p.Page {
			pdf.AddPage()
			pdf.SetFont(c.fontFamily, "", bodySize)
			page++
		}
		pdf.Text(marginX, p.Y, p.Text)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to compose document: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return buf.Bytes(), nil
}
