package monitor

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/0xmhha/punchclock/pkg/logger"
	"github.com/0xmhha/punchclock/pkg/session"
	"github.com/0xmhha/punchclock/pkg/storage"
)

// StorageLoader returns a Loader that opens the database read-only for
// each load, so the monitor never holds the write lock between loads.
//
// A database file that does not exist yet loads as an empty snapshot.
func StorageLoader(dbPath string, timeout time.Duration, log logger.Logger) Loader {
	path := storage.ExpandHome(dbPath)

	return func(ctx context.Context) (Snapshot, error) {
		if err := ctx.Err(); err != nil {
			return Snapshot{}, err
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return Snapshot{}, nil
		}

		slots, err := storage.Open(storage.Config{
			DBPath:   path,
			Timeout:  timeout,
			ReadOnly: true,
		}, log)
		if err != nil {
			return Snapshot{}, fmt.Errorf("failed to open database: %w", err)
		}
		defer slots.Close()

		store := session.NewStore(slots, log)
		clock := session.NewClock(slots, store, log)

		snap := Snapshot{Sessions: store.All()}
		snap.Since, snap.Active = clock.Active()
		return snap, nil
	}
}
