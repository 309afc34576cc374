package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// MaxImportSize bounds the size of an import file (16MB).
const MaxImportSize = 16 * 1024 * 1024

// ErrImportTooLarge is returned when an import file exceeds MaxImportSize.
var ErrImportTooLarge = errors.New("import file exceeds maximum size")

// EncodeSnapshot serializes sessions as a JSON array of
// {start, end, duration} records.
func EncodeSnapshot(sessions []Session) ([]byte, error) {
	if sessions == nil {
		sessions = []Session{}
	}
	data, err := json.Marshal(sessions)
	if err != nil {
		return nil, fmt.Errorf("failed to encode sessions: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses a snapshot produced by EncodeSnapshot.
//
// Any malformed or invalid record fails the whole snapshot.
func DecodeSnapshot(data []byte) ([]Session, error) {
	var sessions []Session
	if err := json.Unmarshal(data, &sessions); err != nil {
		return nil, fmt.Errorf("failed to decode sessions: %w", err)
	}
	return sessions, nil
}

// RecordError reports one record skipped by DecodeLenient.
type RecordError struct {
	Index int // Zero-based position in the array
	Err   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %d: %v", e.Index, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// DecodeLenient parses a JSON array of session records, skipping the
// records that fail to decode or validate.
//
// Returns an error only if data is not a JSON array at all.
func DecodeLenient(data []byte) ([]Session, []*RecordError, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("%w: expected a JSON array: %v", ErrMalformedRecord, err)
	}

	sessions := make([]Session, 0, len(raw))
	var skipped []*RecordError

	for i, msg := range raw {
		var s Session
		if err := json.Unmarshal(msg, &s); err != nil {
			skipped = append(skipped, &RecordError{Index: i, Err: err})
			continue
		}
		sessions = append(sessions, s)
	}

	return sessions, skipped, nil
}

// ReadImportFile reads a session export (for example a dump of the
// legacy "sessions" local-storage entry) with DecodeLenient.
func ReadImportFile(path string) ([]Session, []*RecordError, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to stat import file: %w", err)
	}
	if info.Size() > MaxImportSize {
		return nil, nil, fmt.Errorf("%w: size=%d, max=%d", ErrImportTooLarge, info.Size(), MaxImportSize)
	}

	// #nosec G304: path is supplied by the user on the command line
	data, err := os.ReadFile(path) // nolint:gosec
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read import file: %w", err)
	}

	return DecodeLenient(data)
}
