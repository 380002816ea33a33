package domain

import "time"

// SnapshotStats describes the loaded credential snapshot without exposing any record.
type SnapshotStats struct {
	Source   string    `json:"source"`
	Records  int       `json:"records"`
	LoadedAt time.Time `json:"loaded_at"`
}
