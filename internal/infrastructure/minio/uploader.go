package minio

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/minio/minio-go/v7"

	"mediavault/internal/domain/entity"
	"mediavault/pkg/logger"
)

const hashMetaKey = "Sha256"

// Uploader is the download sink that files saved media into a bucket.
type Uploader struct {
	minioClient *minio.Client
	cfg         *UploaderConfig
}

func NewUploader(minioClient *minio.Client, config *UploaderConfig) *Uploader {
	return &Uploader{
		minioClient: minioClient,
		cfg:         config,
	}
}

// Download stores content as object filename. An object already holding the
// same bytes is left alone; a different one keeps its name and the new file
// gets a numbered suffix.
func (u *Uploader) Download(ctx context.Context, filename string, content *entity.Content) error {
	if content == nil || len(content.Data) == 0 {
		return errors.New("read error: empty file")
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(u.cfg.Timeout)*time.Millisecond)
	defer cancel()

	sum := sha256.Sum256(content.Data)
	calculatedHash := hex.EncodeToString(sum[:])

	contentType := content.MimeType
	detected := mimetype.Detect(content.Data).String()
	if contentType == "" {
		contentType = detected
	} else if !sameFamily(contentType, detected) {
		logger.Warn("declared type differs from content", "file", filename, "declared", contentType,
			"detected", detected)
	}

	name, skip, err := u.objectName(ctx, filename, calculatedHash)
	if err != nil {
		return err
	}
	if skip {
		return nil
	}

	streamed := sha256.New()
	body := io.TeeReader(bytes.NewReader(content.Data), streamed)

	info, err := u.minioClient.PutObject(ctx, u.cfg.Bucket, name, body,
		int64(len(content.Data)), minio.PutObjectOptions{
			ContentType:  contentType,
			UserMetadata: map[string]string{hashMetaKey: calculatedHash},
		})
	if err != nil {
		logger.Error("failed to upload object", "object", name, "err", err)

		return fmt.Errorf("upload failed: %w", err)
	}

	if err := u.validateFileSize(info.Size, int64(len(content.Data))); err != nil {
		return err
	}

	return u.validateFileHash(hex.EncodeToString(streamed.Sum(nil)), calculatedHash)
}

func (u *Uploader) objectName(ctx context.Context, filename, hash string) (string, bool, error) {
	ext := path.Ext(filename)
	base := strings.TrimSuffix(filename, ext)

	name := filename
	for i := 1; ; i++ {
		stat, err := u.minioClient.StatObject(ctx, u.cfg.Bucket, name, minio.StatObjectOptions{})
		if err != nil {
			if minio.ToErrorResponse(err).Code == "NoSuchKey" {
				return name, false, nil
			}

			return "", false, err
		}

		if stat.UserMetadata[hashMetaKey] == hash {
			return name, true, nil
		}

		name = fmt.Sprintf("%s (%d)%s", base, i, ext)
	}
}

func (u *Uploader) validateFileSize(totalBytes, expectedSize int64) error {
	if totalBytes != expectedSize {
		return fmt.Errorf("file size mismatch: wrote %d bytes, expected %d", totalBytes, expectedSize)
	}

	return nil
}

func (u *Uploader) validateFileHash(streamedHash, expectedHash string) error {
	if streamedHash != expectedHash {
		return fmt.Errorf("invalid hash: got %s, expected %s", streamedHash, expectedHash)
	}

	return nil
}

func sameFamily(a, b string) bool {
	family := func(m string) string {
		m, _, _ = strings.Cut(m, "/")

		return strings.ToLower(m)
	}

	return family(a) == family(b)
}
