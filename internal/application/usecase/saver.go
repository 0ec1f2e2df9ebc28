package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mediavault/internal/application/content"
	"mediavault/internal/domain/dto"
	"mediavault/internal/domain/entity"
	"mediavault/internal/domain/model"
	"mediavault/internal/domain/repository/database"
	"mediavault/internal/domain/repository/download"
	"mediavault/pkg/logger"
	"mediavault/pkg/utils"
)

// Saver persists one live capture.
type Saver struct {
	store      database.MediaStore
	codec      *content.Codec
	downloader download.Downloader
	notifier   *Notifier
}

func NewSaver(store database.MediaStore, codec *content.Codec, downloader download.Downloader,
	notifier *Notifier,
) *Saver {
	return &Saver{
		store:      store,
		codec:      codec,
		downloader: downloader,
		notifier:   notifier,
	}
}

func validateSave(req *dto.SaveMediaRequest, kind model.Kind) error {
	if !kind.Valid() {
		return invalid("unknown capture kind %q", kind)
	}
	if strings.TrimSpace(req.Author) == "" {
		return invalid("author is required")
	}
	if strings.TrimSpace(req.Source) == "" && kind != model.KindVideoFrame {
		return invalid("source is required")
	}

	return nil
}

// Save resolves, deduplicates and writes a capture. The lookups and the write
// share one storage transaction. The download runs after the commit and its
// failure leaves the record in place.
func (s *Saver) Save(ctx context.Context, req *dto.SaveMediaRequest, kind model.Kind) (*entity.SaveResult, error) {
	if err := validateSave(req, kind); err != nil {
		return nil, err
	}

	var resolved *entity.Content
	if strings.TrimSpace(req.Source) != "" {
		c, err := s.codec.Resolve(ctx, req.Source, req.MimeType)
		if errors.Is(err, content.ErrUnresolvable) {
			return nil, invalid("source can not be resolved")
		}
		if err != nil {
			return nil, fmt.Errorf("resolve source: %w", err)
		}
		resolved = c
	}

	hash, _ := content.HashContent(resolved)
	derived := model.DeriveID(identitySource(req, hash), kind)

	result := &entity.SaveResult{}
	err := s.store.Batch(ctx, func(tx database.MediaTx) error {
		m, err := resolveMatch(ctx, tx, derived, hash, kind)
		if err != nil {
			return err
		}

		if m.usable && !req.ForceUpdate {
			result.Item = m.existing
			result.Cached = true

			return nil
		}

		record := assemble(req, kind, m, resolved, hash)
		if err := tx.Put(ctx, record); err != nil {
			return err
		}

		result.Item = record
		result.Created = m.existing == nil
		result.Updated = m.existing != nil

		return nil
	})
	if err != nil {
		logger.Error("can't save media", "id", derived, "err", err)

		return nil, err
	}

	item := result.Item.Stripped()

	if result.Cached {
		s.notifier.Notify(ctx, dto.StoreEvent{Type: dto.EventMediaCached, Item: &item})

		return result, nil
	}

	if resolved != nil && s.downloader != nil {
		name := utils.MediaFilename(result.Item.Author, result.Item.TweetID, result.Item.ID, result.Item.MimeType)
		if err := s.downloader.Download(ctx, name, resolved); err != nil {
			logger.Error("can't download saved media", "id", result.Item.ID, "err", err)
		}
	}

	s.notifier.Notify(ctx, dto.StoreEvent{Type: dto.EventMediaChanged, Item: &item})

	return result, nil
}

// assemble builds the record to write. A replaced record hands over its
// favorite flag and capture date; collection memberships follow the id.
func assemble(req *dto.SaveMediaRequest, kind model.Kind, m *match, resolved *entity.Content,
	hash string,
) *model.Media {
	record := &model.Media{
		ID:                m.id,
		ThumbnailURL:      req.ThumbnailURL,
		Author:            strings.TrimSpace(req.Author),
		Date:              time.Now().UTC(),
		Type:              kind.MediaType(),
		IsGif:             kind == model.KindGif || req.IsGif,
		TweetID:           req.TweetID,
		ContentHash:       hash,
		Width:             req.Width,
		Height:            req.Height,
		Duration:          req.Duration,
		SavedAsMetadata:   kind == model.KindVideoFrame,
		OriginalFilename:  strings.TrimSpace(req.OriginalFilename),
		OriginalRemoteURL: req.OriginalURL,
		MimeType:          req.MimeType,
	}

	if content.IsRemote(req.Source) {
		record.URL = req.Source
		if record.OriginalRemoteURL == "" {
			record.OriginalRemoteURL = req.Source
		}
	}

	if resolved != nil {
		record.LocalData = resolved.Data
		if record.MimeType == "" {
			record.MimeType = resolved.MimeType
		}
	}

	if record.MimeType == "" {
		record.MimeType = defaultMimeType(kind)
	}

	if old := m.existing; old != nil {
		record.Favorite = old.Favorite
		record.Date = old.Date
		if record.OriginalFilename == "" {
			record.OriginalFilename = old.OriginalFilename
		}
		if record.TweetID == "" {
			record.TweetID = old.TweetID
		}
	}

	return record
}

func defaultMimeType(kind model.Kind) string {
	switch kind {
	case model.KindVideo, model.KindGif:
		return "video/mp4"
	}

	return "image/jpeg"
}
