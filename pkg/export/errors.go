package export

import "errors"

var (
	// ErrRenderingDependencyMissing indicates that the chart renderer or
	// the document composer is not available.
	ErrRenderingDependencyMissing = errors.New("rendering dependency missing")

	// ErrExportInProgress is returned when an export is already running.
	ErrExportInProgress = errors.New("export already in progress")

	// ErrEmptyChart indicates a chart with no bars or mismatched labels.
	ErrEmptyChart = errors.New("chart has no bars")

	// ErrNoChartImage indicates a document without chart bytes.
	ErrNoChartImage = errors.New("document has no chart image")
)
