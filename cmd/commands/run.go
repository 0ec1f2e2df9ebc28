package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"mediavault"
	"mediavault/internal/application/content"
	"mediavault/internal/application/usecase"
	brokerrepo "mediavault/internal/domain/repository/broker"
	presencerepo "mediavault/internal/domain/repository/presence"
	"mediavault/internal/infrastructure/broker"
	"mediavault/internal/infrastructure/fetcher"
	"mediavault/internal/infrastructure/hub"
	"mediavault/internal/infrastructure/presence"
	"mediavault/internal/presentation"
	"mediavault/internal/presentation/handler"
	"mediavault/internal/presentation/middleware"
	"mediavault/pkg/logger"
)

func HandleRun(args []string) {
	if len(args) < 3 {
		ExitOnError(errors.New("at least 1 arguments expected\nuse help command for more information"))
	}

	cfg := loadConfig(args[2])

	logger.Info("running mediavault", "version", mediavault.StringVersion(), "store", cfg.Store.Driver)

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

	downloader, err := openDownloader(ctx, cfg)
	if err != nil {
		ExitOnError(err)
	}

	events := hub.New()
	defer events.Close()

	publishers := []brokerrepo.Publisher{events}
	var tracker presencerepo.Tracker = presence.NewMemoryTracker()

	brokerClient, brokerPublisher, err := openBroker(cfg)
	if err != nil {
		ExitOnError(err)
	}

	if brokerClient != nil {
		defer brokerClient.Close()

		publishers = append(publishers, brokerPublisher)
		tracker = presence.NewRedisTracker(brokerClient.Redis(), cfg.Presence)

		relay := usecase.NewRelay(broker.NewReceiver(brokerClient), events, brokerClient.Instance())
		go func() {
			if err := relay.Run(ctx, brokerClient.Instance()); err != nil {
				logger.Error("can't relay store events", "err", err)
			}
		}()
	}

	notifier := usecase.NewNotifier(publishers...)
	codec := content.NewCodec(fetcher.New(cfg.Fetcher))
	session := usecase.NewImportSession(cfg.Import, st.media, st.progress, codec, notifier)

	collections := usecase.NewCollections(st.collections, notifier)
	getter := usecase.NewGetter(st.media)
	lister := usecase.NewLister(st.media)
	deleter := usecase.NewDeleter(st.media, st.collections, notifier)

	messageHandler := handler.NewMessageHandler(handler.Usecases{
		Saver:         usecase.NewSaver(st.media, codec, downloader, notifier),
		StatusChecker: usecase.NewStatusChecker(st.media, content.NewHasher(codec)),
		Getter:        getter,
		Lister:        lister,
		Deleter:       deleter,
		Favoriter:     usecase.NewFavoriter(st.media, notifier),
		Redownloader:  usecase.NewRedownloader(st.media, codec, downloader),
		Collections:   collections,
		Importer:      session,
	})
	getHandler := handler.NewGetHandler(getter)
	listHandler := handler.NewListHandler(lister)
	deleteHandler := handler.NewDeleteHandler(deleter)
	collectionsHandler := handler.NewCollectionsHandler(collections)
	eventsHandler := handler.NewEventsHandler(events)
	presenceHandler := handler.NewPresenceHandler(tracker, time.Duration(cfg.Presence.Window)*time.Millisecond)

	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderContentLength, presentation.SurfaceTag},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		MaxAge:       86400,
	}))
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.Secure())
	e.Use(echoMiddleware.BodyLimit("250M"))
	e.Use(middleware.SurfaceHeartbeat(tracker))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})

	e.POST("/message", messageHandler.HandleMessage)
	e.GET("/events", eventsHandler.HandleEvents)

	e.GET("/media", listHandler.HandleList)
	e.GET(fmt.Sprintf("/media/:%s", presentation.IDParam), getHandler.HandleGet)
	e.GET(fmt.Sprintf("/media/:%s/content", presentation.IDParam), getHandler.HandleContent)
	e.DELETE(fmt.Sprintf("/media/:%s", presentation.IDParam), deleteHandler.HandleDelete)

	e.GET("/collections", collectionsHandler.HandleCollections)

	e.GET("/presence", presenceHandler.HandleActive)
	e.GET(fmt.Sprintf("/presence/:%s", presentation.SurfaceParam), presenceHandler.HandleBusy)
	e.POST(fmt.Sprintf("/presence/:%s", presentation.SurfaceParam), presenceHandler.HandleTouch)

	go func() {
		if err := e.Start(cfg.Default.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			ExitOnError(fmt.Errorf("shutting down server: %w", err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("can't shut down server", "err", err)
	}

	// buffered import items would otherwise be lost with the process.
	if totals, err := session.Finalize(shutdownCtx); err != nil {
		logger.Error("can't flush import buffer on shutdown", "err", err)
	} else if totals.Flushes > 0 {
		logger.Info("flushed import buffer on shutdown", "added", totals.Added, "failed", totals.Failed)
	}
}
