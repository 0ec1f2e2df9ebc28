package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		media     Media
		wantType  MediaType
		wantIsGif bool
	}{
		{"image by mime", Media{ID: "image-a", MimeType: "image/jpeg"}, TypeImage, false},
		{"video by mime", Media{ID: "video-a", MimeType: "video/mp4"}, TypeVideo, false},
		{"gif flag forces video", Media{ID: "gif-a", MimeType: "image/gif", IsGif: true}, TypeVideo, true},
		{"gif inferred from id", Media{ID: "gif-a", MimeType: "video/mp4"}, TypeVideo, true},
		{"gif inferred from url", Media{ID: "video-a", URL: "https://video.twimg.com/tweet_video/a.mp4"}, TypeVideo, true},
		{"video by url", Media{ID: "video-b", OriginalRemoteURL: "https://video.twimg.com/ext_tw_video/b.mp4"}, TypeVideo, false},
		{"metadata frame stays video", Media{ID: "video-c", MimeType: "image/jpeg", Type: TypeVideo, SavedAsMetadata: true}, TypeVideo, false},
		{"unknown defaults to image", Media{ID: "image-d"}, TypeImage, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := tt.media
			m.Canonicalize()

			assert.Equal(t, tt.wantType, m.Type)
			assert.Equal(t, tt.wantIsGif, m.IsGif)
			assert.False(t, m.Date.IsZero())
		})
	}
}

func TestStripped(t *testing.T) {
	t.Parallel()

	m := Media{ID: "image-a", LocalData: []byte{1, 2, 3}, ThumbnailURL: "data:image/png;base64,AAAA"}
	s := m.Stripped()

	assert.Nil(t, s.LocalData)
	assert.Empty(t, s.ThumbnailURL)
	require.Len(t, m.LocalData, 3, "original must be untouched")

	m.ThumbnailURL = "https://pbs.twimg.com/thumb.jpg"
	assert.Equal(t, m.ThumbnailURL, m.Stripped().ThumbnailURL)
}

func TestAuthorFileKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "@alice/cat.png", AuthorFileKey("@Alice", "  Cat.PNG "))
	assert.Empty(t, AuthorFileKey("@alice", "   "))
}

func TestSetMember(t *testing.T) {
	t.Parallel()

	c := Collection{Name: "cats"}
	assert.True(t, c.SetMember("image-a", true))
	assert.False(t, c.SetMember("image-a", true))
	assert.Equal(t, []string{"image-a"}, c.MediaIDs)

	assert.True(t, c.SetMember("image-a", false))
	assert.False(t, c.SetMember("image-a", false))
	assert.Empty(t, c.MediaIDs)
}
