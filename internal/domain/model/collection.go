package model

import (
	"slices"
	"time"
)

// Collection is a named, user created grouping of media ids. It only refers
// to media, it never owns it.
type Collection struct {
	ID          int64     `bson:"_id" json:"id"`
	Name        string    `bson:"name" json:"name"`
	DateCreated time.Time `bson:"date_created" json:"dateCreated"`
	MediaIDs    []string  `bson:"media_ids" json:"mediaIds"`
}

// SetMember adds or removes mediaID and reports whether the list changed.
func (c *Collection) SetMember(mediaID string, member bool) bool {
	idx := slices.Index(c.MediaIDs, mediaID)

	switch {
	case member && idx < 0:
		c.MediaIDs = append(c.MediaIDs, mediaID)

		return true
	case !member && idx >= 0:
		c.MediaIDs = slices.Delete(c.MediaIDs, idx, idx+1)

		return true
	}

	return false
}
