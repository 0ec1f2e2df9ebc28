package commands

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediavault/internal/application/content"
	"mediavault/pkg/datauri"
)

func TestFileItem(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	data := []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;")
	require.NoError(t, afero.WriteFile(fsys, "/media/cat.gif", data, 0o644))

	modified := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, fsys.Chtimes("/media/cat.gif", modified, modified))

	info, err := fsys.Stat("/media/cat.gif")
	require.NoError(t, err)

	item, err := fileItem(fsys, "/media/cat.gif", info, "@alice", "@alice/cat.gif")
	require.NoError(t, err)

	assert.Equal(t, "@alice/cat.gif", item.Key)
	assert.Equal(t, "cat.gif", item.Filename)
	assert.Equal(t, "image/gif", item.MimeType)
	assert.False(t, item.IsGif, "gif files are stored as images")
	assert.Equal(t, datauri.Encode("image/gif", data), item.DataURL)
	assert.Equal(t, content.HashBytes(data), item.ContentHash)
	assert.Equal(t, "2024-05-01T12:00:00Z", item.Date)
}

func TestFileItemRejectsEmptyFile(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/media/empty.png", nil, 0o644))

	info, err := fsys.Stat("/media/empty.png")
	require.NoError(t, err)

	_, err = fileItem(fsys, "/media/empty.png", info, "@alice", "@alice/empty.png")
	require.Error(t, err)
}
