// Package download holds the sinks that receive saved media files.
package download

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"mediavault/internal/domain/entity"
	"mediavault/pkg/logger"
)

// Local writes files below a base directory. Existing files are never
// overwritten: identical content is skipped, anything else gets a " (n)"
// suffix.
type Local struct {
	fs afero.Fs
	mu sync.Mutex
}

func NewLocal(directory string) *Local {
	return NewLocalFs(afero.NewBasePathFs(afero.NewOsFs(), directory))
}

func NewLocalFs(fsys afero.Fs) *Local {
	return &Local{fs: fsys}
}

func (l *Local) Download(ctx context.Context, filename string, content *entity.Content) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if content == nil || len(content.Data) == 0 {
		return errors.New("nothing to download")
	}

	filename = path.Clean("/" + strings.ReplaceAll(filename, `\`, "/"))

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.fs.MkdirAll(path.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", filename, err)
	}

	ext := path.Ext(filename)
	base := strings.TrimSuffix(filename, ext)

	name := filename
	for i := 1; ; i++ {
		existing, err := afero.ReadFile(l.fs, name)
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, os.ErrNotExist) {
			break
		}
		if err != nil {
			return err
		}
		if bytes.Equal(existing, content.Data) {
			logger.Debug("file already downloaded", "file", name)

			return nil
		}

		name = fmt.Sprintf("%s (%d)%s", base, i, ext)
	}

	if err := afero.WriteFile(l.fs, name, content.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}

	logger.Info("downloaded media", "file", name, "size", content.Size())

	return nil
}

// Nop discards everything.
type Nop struct{}

func (Nop) Download(context.Context, string, *entity.Content) error {
	return nil
}
