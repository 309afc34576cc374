// Package export turns a weekly report into a PDF file.
//
// Export runs in two explicit phases: a ChartRenderer draws the bar chart
// to PNG bytes, then a DocumentComposer lays out the title, chart and
// session lines into document bytes. The Exporter drives both phases and
// writes the result atomically.
//
// Example usage:
//
//	exp := export.New(export.Config{OutputDir: dir},
//	    export.NewChartRenderer(export.ChartConfig{}),
//	    export.NewPDFComposer(),
//	    log)
//
//	res, err := exp.Export(ctx, store.All(), time.Now())
//	if err != nil {
//	    return err
//	}
//	fmt.Println("saved", res.Path)
package export

import (
	"context"
	"time"

	"github.com/0xmhha/punchclock/pkg/report"
)

// ChartRenderer draws a bar chart.
type ChartRenderer interface {
	// RenderChart returns the chart as PNG bytes.
	RenderChart(ctx context.Context, c Chart) ([]byte, error)
}

// DocumentComposer lays out a report document.
type DocumentComposer interface {
	// ComposeDocument returns the encoded document.
	ComposeDocument(ctx context.Context, d Document) ([]byte, error)
}

// Chart is the input of a ChartRenderer.
type Chart struct {
	// Title is drawn above the bars. May be empty.
	Title string

	// SeriesLabel names the plotted quantity.
	SeriesLabel string

	// Labels and Values have one entry per bar.
	Labels []string
	Values []float64
}

// Document is the input of a DocumentComposer.
type Document struct {
	Title    string
	ChartPNG []byte
	Heading  string
	Lines    []string

	// CreatedAt is stamped into the document metadata.
	CreatedAt time.Time
}

// Config contains exporter configuration.
type Config struct {
	// OutputDir receives the exported file. Created if missing.
	//
	// Default: current directory.
	OutputDir string

	// Report controls report assembly.
	//
	// Default: report.DefaultOptions().
	Report *report.Options
}

// Result describes a completed export.
type Result struct {
	// Path is the written file.
	Path string

	// Report is the payload that was rendered.
	Report report.Report

	// Size is the file size in bytes.
	Size int
}
