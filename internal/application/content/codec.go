// Package content turns capture sources into bytes and digests them.
package content

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mediavault/internal/domain/entity"
	"mediavault/internal/domain/repository/fetcher"
	"mediavault/pkg/datauri"
	"mediavault/pkg/logger"
)

// ErrUnresolvable marks a source that can never yield bytes here, such as a
// blob: reference owned by a browser tab.
var ErrUnresolvable = errors.New("source cannot be resolved to content")

type Codec struct {
	fetcher fetcher.Fetcher
}

func NewCodec(f fetcher.Fetcher) *Codec {
	return &Codec{fetcher: f}
}

// Resolve accepts a data URI or an http(s) url. mimeOverride, when set,
// replaces the type reported by the source.
func (c *Codec) Resolve(ctx context.Context, src, mimeOverride string) (*entity.Content, error) {
	src = strings.TrimSpace(src)

	switch {
	case datauri.Is(src):
		return decodeDataURI(src, mimeOverride)
	case IsRemote(src):
		if c.fetcher == nil {
			return nil, ErrUnresolvable
		}

		content, err := c.fetcher.Fetch(ctx, src)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", src, err)
		}
		if mimeOverride != "" && !strings.EqualFold(content.MimeType, mimeOverride) {
			content.MimeType = mimeOverride
		}

		return content, nil
	}

	logger.Warn("can't resolve media source", "source", preview(src))

	return nil, ErrUnresolvable
}

func decodeDataURI(src, mimeOverride string) (*entity.Content, error) {
	uri, err := datauri.Parse(src)
	if err != nil {
		return nil, err
	}

	data, err := uri.Decode()
	if err != nil {
		logger.Warn("strict data uri decoding failed, retrying leniently", "err", err)

		if data, err = uri.DecodeLenient(); err != nil {
			return nil, err
		}
	}

	mime := uri.MimeType
	if mimeOverride != "" {
		mime = mimeOverride
	}

	return &entity.Content{Data: data, MimeType: mime}, nil
}

// EncodeDataURI is the reverse of Resolve for inline content.
func EncodeDataURI(content *entity.Content) (string, error) {
	if content == nil || content.Data == nil {
		return "", errors.New("encode data uri: no content")
	}

	return datauri.Encode(content.MimeType, content.Data), nil
}

func IsRemote(src string) bool {
	lower := strings.ToLower(src)

	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func preview(s string) string {
	if len(s) > 64 {
		return s[:64] + "..."
	}

	return s
}
