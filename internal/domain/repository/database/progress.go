package database

import "context"

// ProgressStore remembers which import items already made it into the media
// table so an interrupted import can resume.
type ProgressStore interface {
	MarkCompleted(ctx context.Context, keys []string) error
	// Completed returns the subset of keys already marked.
	Completed(ctx context.Context, keys []string) ([]string, error)
	ResetProgress(ctx context.Context) error
}
