package model

import (
	"strings"
	"time"
)

type MediaType string

const (
	TypeImage MediaType = "image"
	TypeVideo MediaType = "video"
)

// Media is one saved media asset. Empty optional strings stand for null.
type Media struct {
	ID                string    `bson:"_id" json:"id"`
	OriginalRemoteURL string    `bson:"original_remote_url,omitempty" json:"originalRemoteUrl,omitempty"`
	URL               string    `bson:"url,omitempty" json:"url,omitempty"`
	LocalData         []byte    `bson:"local_data,omitempty" json:"localData,omitempty"`
	MimeType          string    `bson:"mime_type" json:"mimeType"`
	ThumbnailURL      string    `bson:"thumbnail_url,omitempty" json:"thumbnailUrl,omitempty"`
	Author            string    `bson:"author" json:"author"`
	AuthorFileKey     string    `bson:"author_file_key,omitempty" json:"-"`
	Date              time.Time `bson:"date" json:"date"`
	Type              MediaType `bson:"type" json:"type"`
	IsGif             bool      `bson:"is_gif" json:"isGif"`
	TweetID           string    `bson:"tweet_id,omitempty" json:"tweetId,omitempty"`
	ContentHash       string    `bson:"content_hash,omitempty" json:"contentHash,omitempty"`
	Width             int       `bson:"width" json:"width"`
	Height            int       `bson:"height" json:"height"`
	Duration          float64   `bson:"duration" json:"duration"`
	Favorite          bool      `bson:"favorite" json:"favorite"`
	SavedAsMetadata   bool      `bson:"saved_as_metadata" json:"savedAsMetadata"`
	OriginalFilename  string    `bson:"original_filename" json:"originalFilename"`
	Imported          bool      `bson:"imported" json:"imported"`
}

// Canonicalize settles Type, IsGif and the derived lookup keys. Stores call
// it on every write so readers never re-derive these from urls or mime types.
func (m *Media) Canonicalize() {
	mime := strings.ToLower(m.MimeType)
	ref := strings.ToLower(m.OriginalRemoteURL + " " + m.URL)

	switch {
	case m.IsGif:
		m.Type = TypeVideo
	case m.Type == TypeVideo:
	case strings.HasPrefix(mime, "video/"):
		m.Type = TypeVideo
	case strings.Contains(ref, "video.twimg.com") || strings.Contains(ref, ".mp4"):
		m.Type = TypeVideo
	default:
		m.Type = TypeImage
	}

	if m.Type == TypeVideo && !m.IsGif {
		m.IsGif = strings.HasPrefix(m.ID, "gif-") || strings.Contains(ref, "tweet_video")
	}

	if m.Date.IsZero() {
		m.Date = time.Now().UTC()
	}

	m.AuthorFileKey = AuthorFileKey(m.Author, m.OriginalFilename)
}

// Stripped returns a copy without the stored bytes and without inline
// thumbnails, small enough to broadcast.
func (m *Media) Stripped() Media {
	c := *m
	c.LocalData = nil
	if strings.HasPrefix(c.ThumbnailURL, "data:") {
		c.ThumbnailURL = ""
	}

	return c
}

// HasFullVideo reports whether the record holds a playable video rather than
// a representative frame.
func (m *Media) HasFullVideo() bool {
	return m.Type == TypeVideo && !m.SavedAsMetadata
}

// AuthorFileKey is the case-insensitive fallback identity used when content
// could not be hashed. Empty when the filename is unknown.
func AuthorFileKey(author, filename string) string {
	filename = strings.ToLower(strings.TrimSpace(filename))
	if filename == "" {
		return ""
	}

	return strings.ToLower(strings.TrimSpace(author)) + "/" + filename
}

// MediaFilter narrows a media listing. Zero values do not filter.
type MediaFilter struct {
	Author   string
	Type     MediaType
	Favorite *bool
	Limit    int
}

func (f MediaFilter) Match(m *Media) bool {
	if f.Author != "" && m.Author != f.Author {
		return false
	}
	if f.Type != "" && m.Type != f.Type {
		return false
	}
	if f.Favorite != nil && m.Favorite != *f.Favorite {
		return false
	}

	return true
}
