// Package fetcher downloads remote media over HTTP.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/gabriel-vasile/mimetype"

	"mediavault/internal/domain/entity"
	"mediavault/pkg/logger"
)

var ErrTooLarge = errors.New("remote media exceeds the size limit")

type HTTP struct {
	client   *http.Client
	attempts uint
	maxSize  int64
}

func New(cfg Config) *HTTP {
	attempts := cfg.Attempts
	if attempts == 0 {
		attempts = 3
	}

	return &HTTP{
		client:   &http.Client{Timeout: time.Duration(cfg.Timeout) * time.Millisecond},
		attempts: attempts,
		maxSize:  cfg.MaxSize,
	}
}

// Fetch retries network failures and 5xx answers. Client errors and oversized
// bodies fail at once.
func (f *HTTP) Fetch(ctx context.Context, url string) (*entity.Content, error) {
	return retry.DoWithData(
		func() (*entity.Content, error) {
			return f.fetch(ctx, url)
		},
		retry.Context(ctx),
		retry.Attempts(f.attempts),
		retry.Delay(200*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Debug("retrying fetch", "url", url, "attempt", n+1, "err", err)
		}),
	)
}

func (f *HTTP) fetch(ctx context.Context, url string) (*entity.Content, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, retry.Unrecoverable(err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("fetch %s: %s", url, resp.Status)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, retry.Unrecoverable(fmt.Errorf("fetch %s: %s", url, resp.Status))
	}

	var body io.Reader = resp.Body
	if f.maxSize > 0 {
		body = io.LimitReader(resp.Body, f.maxSize+1)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if f.maxSize > 0 && int64(len(data)) > f.maxSize {
		return nil, retry.Unrecoverable(ErrTooLarge)
	}

	return &entity.Content{
		Data:     data,
		MimeType: contentType(resp.Header.Get("Content-Type"), data),
		Source:   url,
	}, nil
}

func contentType(header string, data []byte) string {
	if mt, _, err := mime.ParseMediaType(header); err == nil && mt != "application/octet-stream" {
		return mt
	}

	mt, _, _ := mime.ParseMediaType(mimetype.Detect(data).String())

	return mt
}
