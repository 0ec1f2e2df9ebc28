package abstraction

import "context"

// Deleter defines the interface for deleting media.
type Deleter interface {
	DeleteMedia(ctx context.Context, id string) (int, error)
}
