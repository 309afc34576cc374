package config

import "errors"

// Common errors returned by the config package.
var (
	// ErrNoDBPath is returned when the database path is empty.
	ErrNoDBPath = errors.New("no database path specified")

	// ErrInvalidTimeout is returned when the database lock timeout is <= 0.
	ErrInvalidTimeout = errors.New("invalid storage timeout: must be > 0")

	// ErrInvalidWeekStart is returned when a week start is not recognized.
	ErrInvalidWeekStart = errors.New("invalid week start: must be monday or sunday")

	// ErrInvalidDateFormat is returned when the report date layout is empty.
	ErrInvalidDateFormat = errors.New("invalid report date format: must not be empty")

	// ErrInvalidChartSize is returned when a chart dimension is <= 0.
	ErrInvalidChartSize = errors.New("invalid chart size: width and height must be > 0")

	// ErrInvalidDisplayFormat is returned when display format is not recognized.
	ErrInvalidDisplayFormat = errors.New("invalid display format: must be table, json, or simple")

	// ErrInvalidBarWidth is returned when bar width is <= 0.
	ErrInvalidBarWidth = errors.New("invalid bar width: must be > 0")

	// ErrInvalidDebounce is returned when the watch debounce is <= 0.
	ErrInvalidDebounce = errors.New("invalid watch debounce: must be > 0")

	// ErrInvalidRefreshRate is returned when refresh interval is <= 0.
	ErrInvalidRefreshRate = errors.New("invalid refresh interval: must be > 0")

	// ErrInvalidLogLevel is returned when log level is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level: must be debug, info, warn, or error")

	// ErrInvalidLogFormat is returned when log format is not recognized.
	ErrInvalidLogFormat = errors.New("invalid log format: must be text or json")

	// ErrInvalidTimezone is returned when the timezone cannot be loaded.
	ErrInvalidTimezone = errors.New("invalid timezone")

	// ErrConfigNotFound is returned when config file is not found.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrInvalidYAML is returned when config file has invalid YAML syntax.
	ErrInvalidYAML = errors.New("invalid YAML syntax in config file")
)
