package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/afero"

	"mediavault/internal/application/content"
	"mediavault/internal/application/usecase"
	"mediavault/internal/domain/dto"
	brokerrepo "mediavault/internal/domain/repository/broker"
	"mediavault/pkg/datauri"
	"mediavault/pkg/logger"
	"mediavault/pkg/utils"
)

// HandleImport walks a directory of previously downloaded media and imports
// every file under the given author. Files already recorded by an earlier
// run are skipped, so an interrupted import resumes where it stopped.
func HandleImport(args []string) {
	if len(args) < 5 {
		ExitOnError(errors.New("at least 3 arguments expected\nuse help command for more information"))
	}

	cfg := loadConfig(args[2])
	author, root := args[3], args[4]

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(cfg)
	if err != nil {
		ExitOnError(err)
	}
	defer func() {
		if err := st.stop(); err != nil {
			logger.Error("can't close store", "err", err)
		}
	}()

	var publishers []brokerrepo.Publisher

	brokerClient, brokerPublisher, err := openBroker(cfg)
	if err != nil {
		ExitOnError(err)
	}

	if brokerClient != nil {
		defer brokerClient.Close()
		publishers = append(publishers, brokerPublisher)
	}

	session := usecase.NewImportSession(cfg.Import, st.media, st.progress, content.NewCodec(nil),
		usecase.NewNotifier(publishers...))

	fsys := afero.NewOsFs()
	walkErr := afero.Walk(fsys, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		if info.IsDir() || !utils.IsMediaExtension(filepath.Ext(path)) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		key := author + "/" + filepath.ToSlash(rel)

		done, err := session.Completed(ctx, []string{key})
		if err != nil {
			return err
		}

		if len(done) > 0 {
			return nil
		}

		item, err := fileItem(fsys, path, info, author, key)
		if err != nil {
			logger.Warn("can't read media file", "path", path, "err", err)

			return nil
		}

		if _, _, err := session.Enqueue(ctx, *item); err != nil {
			var flushErr *usecase.FlushError
			if errors.As(err, &flushErr) {
				logger.Error("can't flush import batch", "acknowledged", flushErr.Acknowledged, "err", flushErr.Err)

				return nil
			}

			return err
		}

		return nil
	})

	if walkErr != nil {
		dropped := session.Abort()
		logger.Error("import stopped", "dropped", dropped, "err", walkErr)
	}

	totals, err := session.Finalize(context.Background())
	if err != nil {
		logger.Error("can't flush the last import batch", "err", err)
	}

	fmt.Printf("imported %d, skipped %d, failed %d in %d batches\n", //nolint
		totals.Added, totals.Skipped, totals.Failed, totals.Flushes)
}

func fileItem(fsys afero.Fs, path string, info os.FileInfo, author, key string) (*dto.ImportItem, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, err
	}

	if len(data) == 0 {
		return nil, errors.New("empty file")
	}

	mime := mimetype.Detect(data)

	return &dto.ImportItem{
		Key:         key,
		Author:      author,
		Filename:    info.Name(),
		DataURL:     datauri.Encode(mime.String(), data),
		MimeType:    mime.String(),
		ContentHash: content.HashBytes(data),
		Date:        info.ModTime().UTC().Format(time.RFC3339),
	}, nil
}
