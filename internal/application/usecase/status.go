package usecase

import (
	"context"
	"strings"

	"mediavault/internal/application/content"
	"mediavault/internal/domain/dto"
	"mediavault/internal/domain/model"
	"mediavault/internal/domain/repository/database"
	"mediavault/pkg/datauri"
	"mediavault/pkg/logger"
)

// StatusChecker answers whether a capture is already saved, resolving
// identity the way Saver does but without writing. Remote sources are not
// fetched; only inline data is hashed.
type StatusChecker struct {
	retriever database.Retriever
	hasher    *content.Hasher
}

func NewStatusChecker(retriever database.Retriever, hasher *content.Hasher) *StatusChecker {
	return &StatusChecker{
		retriever: retriever,
		hasher:    hasher,
	}
}

// Check returns the stored record satisfying the request, or nil.
func (c *StatusChecker) Check(ctx context.Context, req *dto.SaveMediaRequest, kind model.Kind) (*model.Media, error) {
	if !kind.Valid() {
		return nil, invalid("unknown capture kind %q", kind)
	}

	var hash string
	if datauri.Is(strings.TrimSpace(req.Source)) {
		sum, ok, err := c.hasher.Hash(ctx, req.Source)
		if err != nil {
			logger.Warn("can't hash checked source", "err", err)
		} else if ok {
			hash = sum
		}
	}

	if identitySource(req, hash) == "" && hash == "" {
		return nil, nil
	}

	m, err := resolveMatch(ctx, c.retriever, model.DeriveID(identitySource(req, hash), kind), hash, kind)
	if err != nil {
		return nil, err
	}
	if !m.usable {
		return nil, nil
	}

	return m.existing, nil
}
