package database

// MediaStore is the persistent media table.
type MediaStore interface {
	Retriever
	Writer
	Lister
	Remover
	Batcher
}
