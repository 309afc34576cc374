package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/0xmhha/punchclock/pkg/logger"
	"github.com/0xmhha/punchclock/pkg/report"
	"github.com/0xmhha/punchclock/pkg/session"
)

// DetailsHeading introduces the session lines.
const DetailsHeading = "Session Details:"

// Exporter renders and saves weekly reports. Exports are serialized: a
// call made while another is running fails with ErrExportInProgress.
type Exporter struct {
	config   Config
	renderer ChartRenderer
	composer DocumentComposer
	logger   logger.Logger

	mu sync.Mutex
}

// New creates an exporter. A nil renderer or composer is accepted here
// and reported by Export.
func New(cfg Config, renderer ChartRenderer, composer DocumentComposer, log logger.Logger) *Exporter {
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	if cfg.Report == nil {
		opts := report.DefaultOptions()
		cfg.Report = &opts
	}
	return &Exporter{
		config:   cfg,
		renderer: renderer,
		composer: composer,
		logger:   log.Component("export"),
	}
}

// Export builds the report for the week containing now, renders it and
// writes it to the output directory.
//
// Nothing is written unless every phase succeeds.
func (e *Exporter) Export(ctx context.Context, sessions []session.Session, now time.Time) (Result, error) {
	if e.renderer == nil || e.composer == nil {
		return Result{}, ErrRenderingDependencyMissing
	}

	if !e.mu.TryLock() {
		return Result{}, ErrExportInProgress
	}
	defer e.mu.Unlock()

	started := time.Now()
	rep := report.Build(sessions, now, *e.config.Report)

	png, err := e.renderer.RenderChart(ctx, chartFor(rep))
	if err != nil {
		e.logger.Error("chart rendering failed", "error", err)
		return Result{}, fmt.Errorf("failed to render chart: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	doc, err := e.composer.ComposeDocument(ctx, documentFor(rep, png, now))
	if err != nil {
		e.logger.Error("document composition failed", "error", err)
		return Result{}, fmt.Errorf("failed to compose document: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	path := filepath.Join(e.config.OutputDir, rep.Filename())
	if err := writeFileAtomic(path, doc); err != nil {
		e.logger.Error("failed to save report", "path", path, "error", err)
		return Result{}, err
	}

	e.logger.Info("report exported",
		"path", path,
		"week", rep.WeekLabel,
		"sessions", len(rep.DetailRows),
		"bytes", len(doc),
		"elapsed", time.Since(started))

	return Result{Path: path, Report: rep, Size: len(doc)}, nil
}

func chartFor(rep report.Report) Chart {
	c := Chart{
		SeriesLabel: report.SeriesLabel,
		Labels:      make([]string, len(rep.DayNames)),
		Values:      make([]float64, len(rep.ChartSeries)),
	}
	copy(c.Labels, rep.DayNames[:])
	copy(c.Values, rep.ChartSeries[:])
	return c
}

func documentFor(rep report.Report, png []byte, now time.Time) Document {
	lines := make([]string, len(rep.DetailRows))
	for i, row := range rep.DetailRows {
		lines[i] = row.Line()
	}
	return Document{
		Title:     rep.Title(),
		ChartPNG:  png,
		Heading:   DetailsHeading,
		Lines:     lines,
		CreatedAt: now,
	}
}

// writeFileAtomic writes data to a temp file next to path and renames it
// into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".report-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to move report to %s: %w", path, err)
	}

	success = true
	return nil
}
