package database

import "context"

type Remover interface {
	Delete(ctx context.Context, id string) (bool, error)
	// DeleteImportedOrLocalByAuthor removes the author's imported records and
	// the ones without an original remote url, returning how many went.
	DeleteImportedOrLocalByAuthor(ctx context.Context, author string) (int, error)
}
