package dto

import "mediavault/internal/domain/model"

const (
	EventMediaChanged      = "mediaChanged"
	EventMediaCached       = "mediaCached"
	EventMediaDeleted      = "mediaDeleted"
	EventMediaAdded        = "mediaAdded"
	EventCollectionChanged = "collectionChanged"
	EventCollectionDeleted = "collectionDeleted"
)

// StoreEvent is broadcast to every listening UI surface after a mutation.
// Records are always stripped of their bytes.
type StoreEvent struct {
	Type         string            `json:"type"`
	Item         *model.Media      `json:"item,omitempty"`
	Items        []model.Media     `json:"items,omitempty"`
	ID           string            `json:"id,omitempty"`
	Collection   *model.Collection `json:"collection,omitempty"`
	CollectionID int64             `json:"collectionId,omitempty"`
	Origin       string            `json:"origin,omitempty"`
	Time         int64             `json:"time"`
}
