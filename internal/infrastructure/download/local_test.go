package download

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediavault/internal/domain/entity"
)

func TestLocalDownload(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	sink := NewLocalFs(fsys)
	ctx := context.Background()

	first := &entity.Content{Data: []byte("one"), MimeType: "image/jpeg"}
	second := &entity.Content{Data: []byte("two"), MimeType: "image/jpeg"}

	require.NoError(t, sink.Download(ctx, "alice/alice_image-1.jpg", first))
	require.NoError(t, sink.Download(ctx, "alice/alice_image-1.jpg", first))
	require.NoError(t, sink.Download(ctx, "alice/alice_image-1.jpg", second))

	data, err := afero.ReadFile(fsys, "/alice/alice_image-1.jpg")
	require.NoError(t, err)
	assert.Equal(t, "one", string(data))

	data, err = afero.ReadFile(fsys, "/alice/alice_image-1 (1).jpg")
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	ok, err := afero.Exists(fsys, "/alice/alice_image-1 (2).jpg")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocalDownloadStaysInBase(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	sink := NewLocalFs(afero.NewBasePathFs(fsys, "/downloads"))

	require.NoError(t, sink.Download(context.Background(), "../../etc/x.jpg", &entity.Content{Data: []byte("x")}))

	ok, err := afero.Exists(fsys, "/downloads/etc/x.jpg")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLocalDownloadEmpty(t *testing.T) {
	t.Parallel()

	sink := NewLocalFs(afero.NewMemMapFs())
	assert.Error(t, sink.Download(context.Background(), "a.jpg", &entity.Content{}))
	assert.NoError(t, Nop{}.Download(context.Background(), "a.jpg", nil))
}
