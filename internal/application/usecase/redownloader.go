package usecase

import (
	"context"
	"errors"
	"fmt"

	"mediavault/internal/application/content"
	"mediavault/internal/domain/entity"
	"mediavault/internal/domain/repository/database"
	"mediavault/internal/domain/repository/download"
	"mediavault/pkg/utils"
)

var ErrNoContent = errors.New("media has no downloadable content")

// Redownloader hands an already stored record to the download sink again.
type Redownloader struct {
	retriever  database.Retriever
	codec      *content.Codec
	downloader download.Downloader
}

func NewRedownloader(retriever database.Retriever, codec *content.Codec, downloader download.Downloader) *Redownloader {
	return &Redownloader{
		retriever:  retriever,
		codec:      codec,
		downloader: downloader,
	}
}

// DownloadItem prefers the stored bytes and falls back to fetching the
// original url. filename overrides the generated name.
func (r *Redownloader) DownloadItem(ctx context.Context, id, filename string) error {
	media, err := r.retriever.Get(ctx, id)
	if err != nil {
		return err
	}

	var c *entity.Content
	switch {
	case len(media.LocalData) > 0:
		c = &entity.Content{Data: media.LocalData, MimeType: media.MimeType}
	case media.OriginalRemoteURL != "" || media.URL != "":
		src := media.OriginalRemoteURL
		if src == "" {
			src = media.URL
		}

		if c, err = r.codec.Resolve(ctx, src, media.MimeType); err != nil {
			return fmt.Errorf("%w: %v", ErrNoContent, err)
		}
	default:
		return ErrNoContent
	}

	if filename == "" {
		filename = utils.MediaFilename(media.Author, media.TweetID, media.ID, media.MimeType)
	}

	return r.downloader.Download(ctx, filename, c)
}
