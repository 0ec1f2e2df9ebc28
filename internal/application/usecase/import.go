package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc/pool"

	"mediavault/internal/application/content"
	"mediavault/internal/domain/dto"
	"mediavault/internal/domain/entity"
	"mediavault/internal/domain/model"
	"mediavault/internal/domain/repository/database"
	"mediavault/pkg/logger"
)

var ErrImportAborted = errors.New("import was aborted, finalize it before submitting new items")

type ImportConfig struct {
	BatchSize   int   `yaml:"batch_size"`
	IdleFlush   int64 `yaml:"idle_flush_in_ms"`
	HashWorkers int   `yaml:"hash_workers"`
}

// ImportSession buffers bulk import items and writes them to the media store
// in batches. One session lives for the whole process; Finalize resets it
// between import runs.
type ImportSession struct {
	config   ImportConfig
	store    database.MediaStore
	progress database.ProgressStore
	codec    *content.Codec
	notifier *Notifier

	mu      sync.Mutex
	queue   []dto.ImportItem
	timer   *time.Timer
	gen     uint64
	cleared map[string]bool
	totals  entity.ImportTotals

	// flushMu keeps batches from interleaving inside the store.
	flushMu sync.Mutex
	flushes sync.WaitGroup
	aborted atomic.Bool
}

func NewImportSession(cfg ImportConfig, store database.MediaStore, progress database.ProgressStore,
	codec *content.Codec, notifier *Notifier,
) *ImportSession {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.IdleFlush <= 0 {
		cfg.IdleFlush = 2000
	}
	if cfg.HashWorkers <= 0 {
		cfg.HashWorkers = 1
	}

	return &ImportSession{
		config:   cfg,
		store:    store,
		progress: progress,
		codec:    codec,
		notifier: notifier,
		cleared:  make(map[string]bool),
	}
}

// Enqueue buffers item. When the item fills the batch the flush runs before
// returning and its result is handed back; otherwise the result is nil and
// queued is the number of buffered items.
func (s *ImportSession) Enqueue(ctx context.Context, item dto.ImportItem) (*entity.FlushResult, int, error) {
	if strings.TrimSpace(item.Author) == "" {
		return nil, 0, invalid("author is required")
	}
	if strings.TrimSpace(item.DataURL) == "" && strings.TrimSpace(item.OriginalRemoteURL) == "" {
		return nil, 0, invalid("item %q has neither data nor a remote url", item.Filename)
	}
	if s.aborted.Load() {
		return nil, 0, ErrImportAborted
	}

	s.mu.Lock()
	s.queue = append(s.queue, item)

	if len(s.queue) >= s.config.BatchSize {
		batch := s.swapLocked()
		s.mu.Unlock()

		// the batch holds items other callers were told are queued, so it
		// must not die with this caller's request.
		result, err := s.flush(context.WithoutCancel(ctx), batch)

		return result, 0, err
	}

	if s.timer == nil {
		gen := s.gen
		s.timer = time.AfterFunc(time.Duration(s.config.IdleFlush)*time.Millisecond, func() {
			s.idleFlush(gen)
		})
	}

	queued := len(s.queue)
	s.mu.Unlock()

	return nil, queued, nil
}

// swapLocked hands the queue over to a flush and disarms the idle timer.
// s.mu must be held.
func (s *ImportSession) swapLocked() []dto.ImportItem {
	batch := s.queue
	s.queue = nil

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++

	return batch
}

func (s *ImportSession) idleFlush(gen uint64) {
	s.mu.Lock()
	if s.gen != gen {
		// a flush already took the queue this timer was armed for.
		s.mu.Unlock()

		return
	}

	batch := s.swapLocked()
	s.flushes.Add(1)
	s.mu.Unlock()

	defer s.flushes.Done()

	if _, err := s.flush(context.Background(), batch); err != nil {
		logger.Error("can't flush import buffer", "items", len(batch), "err", err)
	}
}

type preparedItem struct {
	key     string
	record  *model.Media
	failed  bool
	aborted bool
}

func (s *ImportSession) flush(ctx context.Context, batch []dto.ImportItem) (*entity.FlushResult, error) {
	result := &entity.FlushResult{Added: []model.Media{}}
	if len(batch) == 0 {
		return result, nil
	}

	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	prepared := s.prepare(ctx, batch)

	var done []string
	err := s.store.Batch(ctx, func(tx database.MediaTx) error {
		result = &entity.FlushResult{Added: []model.Media{}}
		done = done[:0]

		for _, p := range prepared {
			if p.aborted || s.aborted.Load() {
				result.Aborted = true

				break
			}
			if p.failed {
				result.Failed++

				continue
			}

			dup, err := duplicate(ctx, tx, p.record)
			if err != nil {
				return err
			}
			if dup {
				result.Skipped++
				done = append(done, p.key)

				continue
			}

			if err := tx.Put(ctx, p.record); err != nil {
				logger.Error("can't write imported media", "id", p.record.ID, "err", err)
				result.Failed++

				continue
			}

			result.Added = append(result.Added, p.record.Stripped())
			done = append(done, p.key)
		}

		return nil
	})
	if err != nil {
		acknowledged := 0

		var pw *database.PartialWriteError
		if errors.As(err, &pw) {
			acknowledged = pw.Written
		}

		s.mu.Lock()
		s.totals.Added += acknowledged
		s.totals.Failed += len(batch) - acknowledged
		s.totals.Flushes++
		s.mu.Unlock()

		return nil, &FlushError{Acknowledged: acknowledged, Err: err}
	}

	s.mu.Lock()
	s.totals.Add(result)
	s.mu.Unlock()

	if len(result.Added) > 0 {
		s.notifier.Notify(ctx, dto.StoreEvent{Type: dto.EventMediaAdded, Items: result.Added})
	}

	if err := s.progress.MarkCompleted(ctx, done); err != nil {
		logger.Warn("can't record import progress", "items", len(done), "err", err)
	}

	logger.Info("flushed import batch", "added", len(result.Added), "skipped", result.Skipped,
		"failed", result.Failed, "aborted", result.Aborted)

	return result, nil
}

// prepare decodes and hashes the batch on the worker pool, keeping input
// order.
func (s *ImportSession) prepare(ctx context.Context, batch []dto.ImportItem) []preparedItem {
	out := make([]preparedItem, len(batch))

	p := pool.New().WithMaxGoroutines(s.config.HashWorkers)
	for i := range batch {
		p.Go(func() {
			out[i] = s.prepareItem(ctx, &batch[i])
		})
	}
	p.Wait()

	return out
}

func (s *ImportSession) prepareItem(ctx context.Context, item *dto.ImportItem) preparedItem {
	p := preparedItem{key: item.Key}
	if s.aborted.Load() {
		p.aborted = true

		return p
	}

	var resolved *entity.Content
	if strings.TrimSpace(item.DataURL) != "" {
		c, err := s.codec.Resolve(ctx, item.DataURL, item.MimeType)
		if err != nil {
			logger.Warn("can't decode imported file", "filename", item.Filename, "err", err)
		} else {
			resolved = c
		}
	}

	if resolved == nil && item.OriginalRemoteURL == "" {
		p.failed = true

		return p
	}

	hash := strings.ToLower(strings.TrimSpace(item.ContentHash))
	if sum, ok := content.HashContent(resolved); ok {
		if hash != "" && hash != sum {
			logger.Warn("imported file does not match its content hash", "filename", item.Filename)
		}
		hash = sum
	}

	mime := item.MimeType
	if mime == "" && resolved != nil {
		mime = resolved.MimeType
	}

	kind := model.KindImage
	switch {
	case item.IsGif:
		kind = model.KindGif
	case strings.HasPrefix(strings.ToLower(mime), "video/"):
		kind = model.KindVideo
	}

	source := item.OriginalRemoteURL
	if source == "" {
		source = item.Filename
	}
	if source == "" {
		source = item.Key
	}

	record := &model.Media{
		ID:                model.DeriveID(source, kind),
		OriginalRemoteURL: item.OriginalRemoteURL,
		URL:               item.OriginalRemoteURL,
		MimeType:          mime,
		Author:            strings.TrimSpace(item.Author),
		Date:              importDate(item.Date),
		Type:              kind.MediaType(),
		IsGif:             kind == model.KindGif,
		TweetID:           item.TweetID,
		ContentHash:       hash,
		Width:             item.Width,
		Height:            item.Height,
		Duration:          item.Duration,
		OriginalFilename:  strings.TrimSpace(item.Filename),
		Imported:          true,
	}
	if resolved != nil {
		record.LocalData = resolved.Data
	}
	if record.MimeType == "" {
		record.MimeType = defaultMimeType(kind)
	}

	p.record = record

	return p
}

func importDate(s string) time.Time {
	if s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t.UTC()
		}
	}

	return time.Now().UTC()
}

// duplicate applies the import dedup order: id, then content hash, then
// author and filename when the content could not be hashed.
func duplicate(ctx context.Context, tx database.MediaTx, record *model.Media) (bool, error) {
	existing, err := lookup(tx.Get(ctx, record.ID))
	if err != nil || existing != nil {
		return existing != nil, err
	}

	if record.ContentHash != "" {
		existing, err = lookup(tx.GetByContentHash(ctx, record.ContentHash))

		return existing != nil, err
	}

	existing, err = lookup(tx.FindByAuthorFilename(ctx, record.Author, record.OriginalFilename))

	return existing != nil, err
}

// ClearAuthors removes previously imported or local-only media of each
// author, once per session. Authors already cleared report zero.
func (s *ImportSession) ClearAuthors(ctx context.Context, authors []string) (map[string]int, error) {
	cleared := make(map[string]int, len(authors))

	for _, author := range authors {
		author = strings.TrimSpace(author)
		if author == "" {
			continue
		}

		s.mu.Lock()
		seen := s.cleared[author]
		s.cleared[author] = true
		s.mu.Unlock()

		if seen {
			cleared[author] = 0

			continue
		}

		n, err := s.store.DeleteImportedOrLocalByAuthor(ctx, author)
		if err != nil {
			s.mu.Lock()
			delete(s.cleared, author)
			s.mu.Unlock()

			return cleared, err
		}

		cleared[author] = n
		logger.Info("cleared author before import", "author", author, "deleted", n)
	}

	return cleared, nil
}

// Finalize flushes whatever is buffered, waits for idle flushes still
// running and resets the session for the next run.
func (s *ImportSession) Finalize(ctx context.Context) (*entity.ImportTotals, error) {
	s.mu.Lock()
	batch := s.swapLocked()
	s.mu.Unlock()

	_, err := s.flush(context.WithoutCancel(ctx), batch)
	s.flushes.Wait()

	s.mu.Lock()
	totals := s.totals
	s.totals = entity.ImportTotals{}
	s.cleared = make(map[string]bool)
	s.mu.Unlock()

	s.aborted.Store(false)

	return &totals, err
}

// Abort stops the running import between items and drops the buffered
// ones. It returns how many buffered items were dropped.
func (s *ImportSession) Abort() int {
	s.aborted.Store(true)

	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.swapLocked())
}

func (s *ImportSession) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.queue)
}

func (s *ImportSession) Completed(ctx context.Context, keys []string) ([]string, error) {
	return s.progress.Completed(ctx, keys)
}

func (s *ImportSession) ResetProgress(ctx context.Context) error {
	return s.progress.ResetProgress(ctx)
}
