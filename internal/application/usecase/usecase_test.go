package usecase

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mediavault/internal/application/content"
	"mediavault/internal/domain/dto"
	"mediavault/internal/domain/entity"
	"mediavault/internal/domain/model"
	"mediavault/internal/domain/repository/database"
	"mediavault/internal/infrastructure/bolt"
)

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) Fetch(ctx context.Context, url string) (*entity.Content, error) {
	args := m.Called(ctx, url)
	c, _ := args.Get(0).(*entity.Content)

	return c, args.Error(1)
}

type mockDownloader struct {
	mock.Mock
}

func (m *mockDownloader) Download(ctx context.Context, filename string, c *entity.Content) error {
	return m.Called(ctx, filename, c).Error(0)
}

// recorder keeps every published event in order.
type recorder struct {
	mu     sync.Mutex
	events []dto.StoreEvent
}

func (r *recorder) Publish(_ context.Context, event dto.StoreEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, event)

	return nil
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}

	return out
}

func (r *recorder) last() dto.StoreEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.events[len(r.events)-1]
}

type env struct {
	media       *bolt.MediaStore
	collections *bolt.CollectionStore
	progress    *bolt.ProgressStore
	fetcher     *mockFetcher
	downloader  *mockDownloader
	events      *recorder
	codec       *content.Codec
	notifier    *Notifier
}

func setup(t *testing.T) *env {
	t.Helper()

	db, err := bolt.Open(bolt.Config{
		Path:    filepath.Join(t.TempDir(), "test.db"),
		Timeout: 1000,
		NoSync:  true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, db.Stop())
	})

	e := &env{
		media:       bolt.NewMediaStore(db),
		collections: bolt.NewCollectionStore(db),
		progress:    bolt.NewProgressStore(db),
		fetcher:     new(mockFetcher),
		downloader:  new(mockDownloader),
		events:      &recorder{},
	}
	e.codec = content.NewCodec(e.fetcher)
	e.notifier = NewNotifier(e.events)

	return e
}

func (e *env) saver() *Saver {
	return NewSaver(e.media, e.codec, e.downloader, e.notifier)
}

func (e *env) count(t *testing.T) int {
	t.Helper()

	n, err := e.media.Count(context.Background())
	require.NoError(t, err)

	return n
}

// failingStore rejects Put for one id inside batches, or fails the whole
// batch after fn ran.
type failingStore struct {
	database.MediaStore
	failID   string
	batchErr error
}

func (s *failingStore) Batch(ctx context.Context, fn func(tx database.MediaTx) error) error {
	return s.MediaStore.Batch(ctx, func(tx database.MediaTx) error {
		if err := fn(&failingTx{MediaTx: tx, failID: s.failID}); err != nil {
			return err
		}

		return s.batchErr
	})
}

type failingTx struct {
	database.MediaTx
	failID string
}

var errQuota = errors.New("quota exceeded")

func (tx *failingTx) Put(ctx context.Context, m *model.Media) error {
	if m.ID == tx.failID {
		return errQuota
	}

	return tx.MediaTx.Put(ctx, m)
}
