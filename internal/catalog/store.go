package catalog

import (
	"sync/atomic"
	"time"
)

// Snapshot is one immutable catalog selection: the stations and sources the
// scheduler is currently working with.
type Snapshot struct {
	Stations []Station `json:"stations"`
	Sources  []Source  `json:"sources"`
	Origin   string    `json:"origin"` // "file", "api", ...
	LoadedAt time.Time `json:"loaded_at"`
}

// Store provides thread-safe access to the current catalog snapshot.
// Swapping in a new snapshot never disturbs in-flight computations, which
// keep reading the snapshot they started with.
type Store struct {
	snapshot atomic.Pointer[Snapshot]
}

// NewStore creates a new empty Store.
func NewStore() *Store {
	return &Store{}
}

// Get returns the current snapshot, or nil if none has been loaded.
func (s *Store) Get() *Snapshot {
	return s.snapshot.Load()
}

// Set atomically replaces the current snapshot.
func (s *Store) Set(snap *Snapshot) {
	s.snapshot.Store(snap)
}

// AgeSeconds returns the age of the current snapshot in seconds.
// Returns -1 if no snapshot is loaded.
func (s *Store) AgeSeconds() float64 {
	snap := s.snapshot.Load()
	if snap == nil {
		return -1
	}
	return time.Since(snap.LoadedAt).Seconds()
}
