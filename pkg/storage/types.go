// Package storage provides named persistent slots backed by BoltDB.
//
// A slot is a key holding an opaque byte value. punchclock keeps its
// whole history in two slots: "sessions" (the JSON snapshot of every
// completed session) and "active" (the pending clock-in instant).
//
// Example usage:
//
//	slots, err := storage.Open(storage.Config{
//	    DBPath: "~/.config/punchclock/punchclock.db",
//	}, logger.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer slots.Close()
//
//	err = slots.Update(func(w storage.Writer) error {
//	    if err := w.Put("sessions", data); err != nil {
//	        return err
//	    }
//	    return w.Delete("active")
//	})
package storage

import "time"

// Writer mutates slots inside a single transaction.
type Writer interface {
	// Put stores value under key, replacing any previous value.
	Put(key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
}

// Mutation is a unit of work applied to a Writer.
type Mutation func(w Writer) error

// Slots is a small key-value store.
type Slots interface {
	// Get returns the value stored under key.
	//
	// Returns nil and no error when the key is absent.
	Get(key string) ([]byte, error)

	// Put stores value under key in its own transaction.
	Put(key string, value []byte) error

	// Delete removes key in its own transaction.
	Delete(key string) error

	// Update applies all mutations in one transaction. If any mutation
	// fails nothing is written.
	Update(mutations ...Mutation) error

	// Close releases the underlying file.
	Close() error
}

// Config contains slot store configuration.
type Config struct {
	// DBPath is the BoltDB file path. A leading ~ expands to the home directory.
	DBPath string

	// Timeout bounds how long Open waits for the file lock (default: 1 second).
	Timeout time.Duration

	// ReadOnly opens the file with a shared lock. Writes fail with ErrReadOnly.
	ReadOnly bool
}
