package usecase

import (
	"context"
	"errors"
	"strings"

	"mediavault/internal/application/content"
	"mediavault/internal/domain/dto"
	"mediavault/internal/domain/model"
	"mediavault/internal/domain/repository/database"
)

// hashIDLength is how much of the content hash joins a post id when nothing
// better identifies the capture.
const hashIDLength = 16

// identitySource picks what the derived id is built from: the original url,
// then an http(s) source, then the filename, then the post id. A post id alone
// is shared by every media of the post, so the hash prefix is appended when
// content was resolved.
func identitySource(req *dto.SaveMediaRequest, hash string) string {
	switch {
	case strings.TrimSpace(req.OriginalURL) != "":
		return req.OriginalURL
	case content.IsRemote(req.Source):
		return req.Source
	case strings.TrimSpace(req.OriginalFilename) != "":
		return req.OriginalFilename
	case hash != "" && req.TweetID != "":
		return req.TweetID + "_" + hash[:hashIDLength]
	}

	return req.TweetID
}

// match is the outcome of identity resolution against the store.
type match struct {
	// id the record will be written under.
	id string
	// existing record occupying id, if any.
	existing *model.Media
	// usable is true when existing already satisfies the request, so a save
	// without force can be answered from it.
	usable bool
}

func lookup(m *model.Media, err error) (*model.Media, error) {
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}

	return m, err
}

// resolveMatch applies the dedup order: derived id, then content hash. Frame
// captures and full videos never satisfy each other.
func resolveMatch(ctx context.Context, r database.Retriever, id, hash string, kind model.Kind) (*match, error) {
	frame := kind == model.KindVideoFrame

	byID, err := lookup(r.Get(ctx, id))
	if err != nil {
		return nil, err
	}

	if byID != nil {
		switch {
		case frame && byID.HasFullVideo():
			frameID := model.FrameID(id)

			existing, err := lookup(r.Get(ctx, frameID))
			if err != nil {
				return nil, err
			}

			return &match{id: frameID, existing: existing, usable: existing != nil}, nil
		case !frame && byID.Type == model.TypeVideo && byID.SavedAsMetadata:
			return &match{id: id, existing: byID}, nil
		}

		return &match{id: id, existing: byID, usable: true}, nil
	}

	if hash != "" {
		byHash, err := lookup(r.GetByContentHash(ctx, hash))
		if err != nil {
			return nil, err
		}

		if byHash != nil && byHash.Type == kind.MediaType() && byHash.SavedAsMetadata == frame {
			return &match{id: byHash.ID, existing: byHash, usable: true}, nil
		}
	}

	return &match{id: id}, nil
}
