package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetExtensionFromMimeType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mime string
		want string
	}{
		{"image/jpeg", ".jpg"},
		{"IMAGE/PNG", ".png"},
		{"video/mp4; codecs=avc1", ".mp4"},
		{"video/quicktime", ".mov"},
		{"", ".bin"},
		{"text/plain", ".bin"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, GetExtensionFromMimeType(tt.mime), tt.mime)
	}
}

func TestIsMediaExtension(t *testing.T) {
	t.Parallel()

	assert.True(t, IsMediaExtension(".JPG"))
	assert.True(t, IsMediaExtension(".jpeg"))
	assert.True(t, IsMediaExtension(".mp4"))
	assert.False(t, IsMediaExtension(".bin"))
	assert.False(t, IsMediaExtension(".txt"))
}

func TestMediaFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                  string
		author, tweet, id, mt string
		want                  string
	}{
		{"all parts", "alice", "123", "image-abc", "image/jpeg", "alice/alice_123_image-abc.jpg"},
		{"no tweet", "alice", "", "video-x", "video/mp4", "alice/alice_video-x.mp4"},
		{"unsafe author", "a/b:c", "", "image-1", "image/png", "a_b_c/a_b_c_image-1.png"},
		{"nothing", "", "", "", "", "media.bin"},
		{"dots trimmed", "..", "", "image-1", "image/gif", "image-1.gif"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, MediaFilename(tt.author, tt.tweet, tt.id, tt.mt))
		})
	}
}
