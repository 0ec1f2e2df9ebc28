package model

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mozillazg/go-unidecode"
)

type Kind string

const (
	KindImage      Kind = "image"
	KindVideo      Kind = "video"
	KindGif        Kind = "gif"
	KindVideoFrame Kind = "video_frame"
)

const maxIDSegment = 100

var unsafeIDChars = regexp.MustCompile(`[^\w.\-]`)

// IDTag is the prefix used for ids of this kind. Frames share the video tag.
func (k Kind) IDTag() string {
	if k == KindVideoFrame {
		return string(KindVideo)
	}

	return string(k)
}

func (k Kind) Valid() bool {
	switch k {
	case KindImage, KindVideo, KindGif, KindVideoFrame:
		return true
	}

	return false
}

// MediaType is the stored type for a capture of this kind.
func (k Kind) MediaType() MediaType {
	if k == KindImage {
		return TypeImage
	}

	return TypeVideo
}

// DeriveID builds the primary key for a capture from a url, filename or
// other source string: the last path segment without query or extension,
// restricted to word characters, dots and hyphens.
func DeriveID(source string, kind Kind) string {
	segment := lastSegment(strings.TrimSpace(source))

	if ext := path.Ext(segment); ext != "" && ext != segment {
		segment = strings.TrimSuffix(segment, ext)
	}

	segment = unsafeIDChars.ReplaceAllString(unidecode.Unidecode(segment), "")
	if len(segment) > maxIDSegment {
		segment = segment[:maxIDSegment]
	}

	if segment == "" || strings.Trim(segment, ".") == "" {
		segment = fmt.Sprintf("%s-%d", uuid.NewString(), time.Now().UnixMilli())
	}

	return kind.IDTag() + "-" + segment
}

// FrameID is the id given to a frame capture whose derived id is already
// taken by a full video.
func FrameID(id string) string {
	return id + "-frame"
}

func lastSegment(source string) string {
	if source == "" {
		return ""
	}

	if u, err := url.Parse(source); err == nil && u.Path != "" {
		return path.Base(strings.TrimSuffix(u.Path, "/"))
	}

	s := source
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	if i := strings.LastIndex(s, "/"); i >= 0 {
		s = s[i+1:]
	}

	return s
}
