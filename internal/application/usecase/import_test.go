package usecase

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediavault/internal/application/content"
	"mediavault/internal/domain/dto"
	"mediavault/internal/domain/entity"
	"mediavault/internal/domain/model"
	"mediavault/internal/domain/repository/database"
	"mediavault/pkg/datauri"
)

func importItem(n int) dto.ImportItem {
	name := fmt.Sprintf("file-%d.png", n)

	return dto.ImportItem{
		Key:      "alice/" + name,
		Author:   "@alice",
		Filename: name,
		DataURL:  datauri.Encode("image/png", []byte(name)),
		Date:     "2024-03-01T10:00:00Z",
	}
}

func (e *env) session(store database.MediaStore, cfg ImportConfig) *ImportSession {
	return NewImportSession(cfg, store, e.progress, e.codec, e.notifier)
}

func TestImportFlushesAtThreshold(t *testing.T) {
	t.Parallel()

	e := setup(t)
	ctx := context.Background()
	s := e.session(e.media, ImportConfig{BatchSize: 5, IdleFlush: 60000, HashWorkers: 2})

	for i := 1; i <= 4; i++ {
		res, queued, err := s.Enqueue(ctx, importItem(i))
		require.NoError(t, err)
		assert.Nil(t, res)
		assert.Equal(t, i, queued)
	}

	res, _, err := s.Enqueue(ctx, importItem(5))
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Len(t, res.Added, 5)
	for _, m := range res.Added {
		assert.Nil(t, m.LocalData)
		assert.True(t, m.Imported)
	}

	for i := 6; i <= 7; i++ {
		_, _, err := s.Enqueue(ctx, importItem(i))
		require.NoError(t, err)
	}
	assert.Equal(t, 2, s.Pending())
	assert.Equal(t, 5, e.count(t))

	totals, err := s.Finalize(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, totals.Added)
	assert.Equal(t, 2, totals.Flushes)
	assert.Equal(t, 0, s.Pending())
	assert.Equal(t, 7, e.count(t))

	done, err := s.Completed(ctx, []string{"alice/file-1.png", "alice/file-7.png", "alice/missing.png"})
	require.NoError(t, err)
	assert.Equal(t, []string{"alice/file-1.png", "alice/file-7.png"}, done)

	assert.Equal(t, []string{dto.EventMediaAdded, dto.EventMediaAdded}, e.events.types())
	assert.Len(t, e.events.last().Items, 2)

	stored, err := e.media.Get(ctx, "image-file-1")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), stored.Date)
}

func TestImportIdleFlush(t *testing.T) {
	t.Parallel()

	e := setup(t)
	ctx := context.Background()
	s := e.session(e.media, ImportConfig{BatchSize: 50, IdleFlush: 20, HashWorkers: 1})

	for i := 1; i <= 2; i++ {
		_, _, err := s.Enqueue(ctx, importItem(i))
		require.NoError(t, err)
	}

	require.Eventually(t, func() bool {
		return s.Pending() == 0 && e.count(t) == 2
	}, 2*time.Second, 10*time.Millisecond)

	totals, err := s.Finalize(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, totals.Added)
	assert.Equal(t, 1, totals.Flushes)
}

func TestImportDedup(t *testing.T) {
	t.Parallel()

	e := setup(t)
	ctx := context.Background()
	s := e.session(e.media, ImportConfig{BatchSize: 50, IdleFlush: 60000, HashWorkers: 4})

	same := importItem(1)
	copied := importItem(1)
	copied.Filename = "copy of file-1.png"
	copied.Key = "alice/copy"

	remoteOnly := dto.ImportItem{
		Key: "r1", Author: "@alice", Filename: "clip.mp4", MimeType: "video/mp4",
		OriginalRemoteURL: "https://video.twimg.com/ext_tw_video/1/pu/vid/a1.mp4",
	}
	renamedRemote := remoteOnly
	renamedRemote.Key = "r2"
	renamedRemote.OriginalRemoteURL = "https://video.twimg.com/ext_tw_video/1/pu/vid/b2.mp4"

	broken := dto.ImportItem{Key: "broken", Author: "@alice", Filename: "broken.png", DataURL: "data:image/png;base64"}

	for _, item := range []dto.ImportItem{same, copied, remoteOnly, renamedRemote, broken} {
		_, _, err := s.Enqueue(ctx, item)
		require.NoError(t, err)
	}

	totals, err := s.Finalize(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, totals.Added)
	assert.Equal(t, 2, totals.Skipped)
	assert.Equal(t, 1, totals.Failed)

	video, err := e.media.Get(ctx, "video-a1")
	require.NoError(t, err)
	assert.Equal(t, model.TypeVideo, video.Type)

	done, err := s.Completed(ctx, []string{"broken", "r2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"r2"}, done)

	// a second run of the same items only skips.
	_, _, err = s.Enqueue(ctx, same)
	require.NoError(t, err)
	totals, err = s.Finalize(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, totals.Added)
	assert.Equal(t, 1, totals.Skipped)
}

func TestImportItemFailureKeepsSiblings(t *testing.T) {
	t.Parallel()

	e := setup(t)
	ctx := context.Background()
	store := &failingStore{MediaStore: e.media, failID: "image-file-2"}
	s := e.session(store, ImportConfig{BatchSize: 3, IdleFlush: 60000, HashWorkers: 2})

	var res *entity.FlushResult
	for i := 1; i <= 3; i++ {
		r, _, err := s.Enqueue(ctx, importItem(i))
		require.NoError(t, err)
		res = r
	}

	require.NotNil(t, res)
	assert.Len(t, res.Added, 2)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 2, e.count(t))

	_, err := e.media.Get(ctx, "image-file-2")
	require.ErrorIs(t, err, database.ErrNotFound)
}

func TestImportBatchFaultWritesNothing(t *testing.T) {
	t.Parallel()

	e := setup(t)
	ctx := context.Background()
	store := &failingStore{MediaStore: e.media, batchErr: errQuota}
	s := e.session(store, ImportConfig{BatchSize: 2, IdleFlush: 60000, HashWorkers: 1})

	_, _, err := s.Enqueue(ctx, importItem(1))
	require.NoError(t, err)

	_, _, err = s.Enqueue(ctx, importItem(2))
	require.ErrorIs(t, err, errQuota)

	var flushErr *FlushError
	require.ErrorAs(t, err, &flushErr)
	assert.Equal(t, 0, flushErr.Acknowledged)
	assert.Equal(t, 0, e.count(t))
	assert.Empty(t, e.events.types())

	done, err := s.Completed(ctx, []string{"alice/file-1.png"})
	require.NoError(t, err)
	assert.Empty(t, done)
}

func TestClearAuthorsOncePerSession(t *testing.T) {
	t.Parallel()

	e := setup(t)
	ctx := context.Background()
	s := e.session(e.media, ImportConfig{})

	imported := func() {
		require.NoError(t, e.media.Put(ctx, &model.Media{
			ID: "image-old", Author: "@alice", MimeType: "image/png", Imported: true,
		}))
	}

	imported()
	require.NoError(t, e.media.Put(ctx, &model.Media{
		ID: "image-live", Author: "@alice", MimeType: "image/png",
		OriginalRemoteURL: "https://pbs.twimg.com/media/live.png",
	}))

	cleared, err := s.ClearAuthors(ctx, []string{"@alice", " ", "@bob"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"@alice": 1, "@bob": 0}, cleared)

	imported()
	cleared, err = s.ClearAuthors(ctx, []string{"@alice"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"@alice": 0}, cleared)
	assert.Equal(t, 2, e.count(t))

	_, err = s.Finalize(ctx)
	require.NoError(t, err)

	cleared, err = s.ClearAuthors(ctx, []string{"@alice"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"@alice": 1}, cleared)
	assert.Equal(t, 1, e.count(t))
}

func TestImportAbort(t *testing.T) {
	t.Parallel()

	e := setup(t)
	ctx := context.Background()
	s := e.session(e.media, ImportConfig{BatchSize: 5, IdleFlush: 60000})

	for i := 1; i <= 3; i++ {
		_, _, err := s.Enqueue(ctx, importItem(i))
		require.NoError(t, err)
	}

	assert.Equal(t, 3, s.Abort())

	_, _, err := s.Enqueue(ctx, importItem(4))
	require.ErrorIs(t, err, ErrImportAborted)

	totals, err := s.Finalize(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, totals.Added)
	assert.Equal(t, 0, e.count(t))

	_, queued, err := s.Enqueue(ctx, importItem(4))
	require.NoError(t, err)
	assert.Equal(t, 1, queued)
	s.Abort()
}

func TestImportRejectsEmptyItems(t *testing.T) {
	t.Parallel()

	e := setup(t)
	s := e.session(e.media, ImportConfig{})

	_, _, err := s.Enqueue(context.Background(), dto.ImportItem{Author: "@alice", Filename: "a.png"})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, _, err = s.Enqueue(context.Background(), dto.ImportItem{DataURL: "data:image/png;base64,AAAA"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestImportFlushOutlivesCancelledRequest(t *testing.T) {
	t.Parallel()

	e := setup(t)
	s := e.session(e.media, ImportConfig{BatchSize: 3, IdleFlush: 60000, HashWorkers: 2})

	for i := 1; i <= 2; i++ {
		_, _, err := s.Enqueue(context.Background(), importItem(i))
		require.NoError(t, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, _, err := s.Enqueue(ctx, importItem(3))
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Len(t, res.Added, 3)
	assert.Equal(t, 3, e.count(t))

	_, _, err = s.Enqueue(context.Background(), importItem(4))
	require.NoError(t, err)

	totals, err := s.Finalize(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, totals.Added)
	assert.Equal(t, 0, totals.Failed)
	assert.Equal(t, 4, e.count(t))
}

func TestImportHashesDecodedBytes(t *testing.T) {
	t.Parallel()

	e := setup(t)
	ctx := context.Background()
	s := e.session(e.media, ImportConfig{BatchSize: 50, IdleFlush: 60000})

	first := importItem(1)
	second := importItem(2)
	// claims to be the first file.
	second.ContentHash = strings.ToUpper(content.HashBytes([]byte("file-1.png")))

	for _, item := range []dto.ImportItem{first, second} {
		_, _, err := s.Enqueue(ctx, item)
		require.NoError(t, err)
	}

	totals, err := s.Finalize(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, totals.Added)
	assert.Equal(t, 0, totals.Skipped)

	stored, err := e.media.Get(ctx, "image-file-2")
	require.NoError(t, err)
	assert.Equal(t, content.HashBytes([]byte("file-2.png")), stored.ContentHash)
}

func TestImportLongFilenameCommitsWithSiblings(t *testing.T) {
	t.Parallel()

	e := setup(t)
	ctx := context.Background()
	s := e.session(e.media, ImportConfig{BatchSize: 2, IdleFlush: 60000})

	long := importItem(2)
	long.Filename = strings.Repeat("b", 40000) + ".png"

	_, _, err := s.Enqueue(ctx, importItem(1))
	require.NoError(t, err)

	res, _, err := s.Enqueue(ctx, long)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Len(t, res.Added, 2)
	assert.Equal(t, 0, res.Failed)
	assert.Equal(t, 2, e.count(t))

	found, err := e.media.FindByAuthorFilename(ctx, "@alice", long.Filename)
	require.NoError(t, err)
	assert.Equal(t, res.Added[1].ID, found.ID)

	_, err = s.Finalize(ctx)
	require.NoError(t, err)
}
