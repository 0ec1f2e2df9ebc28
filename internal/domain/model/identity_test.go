package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		kind   Kind
		want   string
	}{
		{"remote image url", "https://example/img/123.jpg", KindImage, "image-123"},
		{"twitter media url with query", "https://pbs.twimg.com/media/GAbc-12_x?format=jpg&name=large", KindImage, "image-GAbc-12_x"},
		{"video extension stripped", "https://video.twimg.com/ext_tw_video/1/pu/vid/720x1280/AbCd.mp4?tag=12", KindVideo, "video-AbCd"},
		{"gif", "https://video.twimg.com/tweet_video/FxYz.mp4", KindGif, "gif-FxYz"},
		{"frame uses video tag", "https://video.twimg.com/amplify_video/99/vid/Qq.mp4", KindVideoFrame, "video-Qq"},
		{"plain filename", "holiday photo.png", KindImage, "image-holidayphoto"},
		{"unparseable url falls back to manual split", "bad%zz/dir/name%zz.png", KindImage, "image-namezz"},
		{"transliterated", "https://example/img/café.jpg", KindImage, "image-cafe"},
		{"hidden file keeps its only dot", ".hidden", KindImage, "image-.hidden"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, DeriveID(tt.source, tt.kind))
		})
	}
}

func TestDeriveIDTruncates(t *testing.T) {
	t.Parallel()

	id := DeriveID("https://example/"+strings.Repeat("a", 300)+".jpg", KindImage)
	assert.Equal(t, "image-"+strings.Repeat("a", maxIDSegment), id)
}

func TestDeriveIDSynthetic(t *testing.T) {
	t.Parallel()

	for _, source := range []string{"", "   ", "https://example/", "***"} {
		first := DeriveID(source, KindImage)
		second := DeriveID(source, KindImage)

		assert.True(t, strings.HasPrefix(first, "image-"), first)
		assert.NotEqual(t, first, second, "synthetic ids must not collide")
	}
}

func TestFrameID(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "video-abc-frame", FrameID("video-abc"))
}
