package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"mediavault/internal/application/content"
	"mediavault/internal/application/usecase"
	"mediavault/internal/application/usecase/abstraction"
	"mediavault/internal/domain/dto"
	"mediavault/internal/domain/entity"
	"mediavault/internal/domain/repository/database"
	"mediavault/pkg/logger"
)

// Usecases groups everything the message boundary dispatches to.
type Usecases struct {
	Saver         abstraction.Saver
	StatusChecker abstraction.StatusChecker
	Getter        abstraction.Getter
	Lister        abstraction.Lister
	Deleter       abstraction.Deleter
	Favoriter     abstraction.Favoriter
	Redownloader  abstraction.Redownloader
	Collections   abstraction.Collections
	Importer      abstraction.Importer
}

type action func(ctx context.Context, payload json.RawMessage) (*dto.Response, error)

type MessageHandler struct {
	u       Usecases
	actions map[string]action
}

func NewMessageHandler(u Usecases) *MessageHandler {
	h := &MessageHandler{u: u}
	h.actions = map[string]action{
		dto.ActionSaveImage:              h.save(dto.ActionSaveImage),
		dto.ActionSaveVideo:              h.save(dto.ActionSaveVideo),
		dto.ActionCheckSavedStatus:       h.checkSaved,
		dto.ActionDownloadMediaItem:      h.download,
		dto.ActionDeleteMedia:            h.deleteMedia,
		dto.ActionUpdateFavorite:         h.favorite,
		dto.ActionGetMedia:               h.getMedia,
		dto.ActionGetMediaByAuthor:       h.mediaByAuthor,
		dto.ActionGetCollections:         h.collections,
		dto.ActionCreateCollection:       h.createCollection,
		dto.ActionRenameCollection:       h.renameCollection,
		dto.ActionDeleteCollection:       h.deleteCollection,
		dto.ActionUpdateMediaInColl:      h.membership,
		dto.ActionPrepareAndClearAuthors: h.clearAuthors,
		dto.ActionBatchImport:            h.enqueue,
		dto.ActionFinalizeImport:         h.finalize,
		dto.ActionAbortImport:            h.abort,
		dto.ActionGetImportProgress:      h.progress,
		dto.ActionResetImportProgress:    h.resetProgress,
	}

	return h
}

// HandleMessage handles POST /message requests.
func (h *MessageHandler) HandleMessage(c echo.Context) error {
	var msg dto.Message
	if err := json.NewDecoder(c.Request().Body).Decode(&msg); err != nil {
		return c.JSON(http.StatusBadRequest, dto.Response{Error: "malformed message"})
	}

	handle, ok := h.actions[msg.Action]
	if !ok {
		return c.JSON(http.StatusBadRequest, dto.Response{Error: fmt.Sprintf("unknown action %q", msg.Action)})
	}

	resp, err := handle(c.Request().Context(), msg.Payload)
	if err != nil {
		status := statusOf(err)
		if status == http.StatusInternalServerError {
			logger.Error("can't handle message", "action", msg.Action, "err", err)
		}

		failed := dto.Response{Error: err.Error()}

		var flushErr *usecase.FlushError
		if errors.As(err, &flushErr) {
			failed.Acknowledged = flushErr.Acknowledged
		}

		return c.JSON(status, failed)
	}

	resp.Success = true

	return c.JSON(http.StatusOK, resp)
}

// statusError carries the status a usecase already decided on.
type statusError struct {
	status int
	err    error
}

func (e *statusError) Error() string {
	return e.err.Error()
}

func (e *statusError) Unwrap() error {
	return e.err
}

func statusOf(err error) int {
	var se *statusError
	if errors.As(err, &se) && se.status != 0 {
		return se.status
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, database.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, database.ErrDuplicateName), errors.Is(err, usecase.ErrImportAborted):
		return http.StatusConflict
	case errors.Is(err, usecase.ErrNoContent):
		return http.StatusUnprocessableEntity
	}

	return http.StatusInternalServerError
}

func decode[T any](payload json.RawMessage) (*T, error) {
	v := new(T)
	if len(payload) == 0 {
		return v, nil
	}

	if err := json.Unmarshal(payload, v); err != nil {
		return nil, fmt.Errorf("%w: malformed payload: %v", usecase.ErrInvalidInput, err)
	}

	return v, nil
}

func (h *MessageHandler) save(name string) action {
	return func(ctx context.Context, payload json.RawMessage) (*dto.Response, error) {
		req, err := decode[dto.SaveMediaRequest](payload)
		if err != nil {
			return nil, err
		}

		res, err := h.u.Saver.Save(ctx, req, req.Kind(name))
		if err != nil {
			return nil, err
		}

		item := res.Item.Stripped()

		return &dto.Response{Item: &item, Created: res.Created, Updated: res.Updated, Cached: res.Cached}, nil
	}
}

func (h *MessageHandler) checkSaved(ctx context.Context, payload json.RawMessage) (*dto.Response, error) {
	req, err := decode[dto.SaveMediaRequest](payload)
	if err != nil {
		return nil, err
	}

	m, err := h.u.StatusChecker.Check(ctx, req, req.Kind(dto.ActionCheckSavedStatus))
	if err != nil {
		return nil, err
	}

	saved := m != nil
	resp := &dto.Response{Saved: &saved}
	if saved {
		item := m.Stripped()
		resp.Item = &item
	}

	return resp, nil
}

func (h *MessageHandler) download(ctx context.Context, payload json.RawMessage) (*dto.Response, error) {
	req, err := decode[dto.MediaIDRequest](payload)
	if err != nil {
		return nil, err
	}

	if err := h.u.Redownloader.DownloadItem(ctx, req.ID, req.Filename); err != nil {
		return nil, err
	}

	return &dto.Response{}, nil
}

func (h *MessageHandler) deleteMedia(ctx context.Context, payload json.RawMessage) (*dto.Response, error) {
	req, err := decode[dto.MediaIDRequest](payload)
	if err != nil {
		return nil, err
	}

	if status, err := h.u.Deleter.DeleteMedia(ctx, req.ID); err != nil {
		return nil, &statusError{status: status, err: err}
	}

	deleted := true

	return &dto.Response{Deleted: &deleted}, nil
}

func (h *MessageHandler) favorite(ctx context.Context, payload json.RawMessage) (*dto.Response, error) {
	req, err := decode[dto.FavoriteRequest](payload)
	if err != nil {
		return nil, err
	}

	m, err := h.u.Favoriter.SetFavorite(ctx, req.ID, req.Favorite)
	if err != nil {
		return nil, err
	}

	return &dto.Response{Item: m}, nil
}

func (h *MessageHandler) getMedia(ctx context.Context, payload json.RawMessage) (*dto.Response, error) {
	req, err := decode[dto.MediaIDRequest](payload)
	if err != nil {
		return nil, err
	}

	m, status, err := h.u.Getter.GetMedia(ctx, req.ID)
	if err != nil {
		return nil, &statusError{status: status, err: err}
	}

	item := m.Stripped()
	resp := &dto.Response{Item: &item}

	if len(m.LocalData) > 0 {
		uri, err := content.EncodeDataURI(&entity.Content{Data: m.LocalData, MimeType: m.MimeType})
		if err != nil {
			return nil, err
		}
		resp.DataURL = uri
	}

	return resp, nil
}

func (h *MessageHandler) mediaByAuthor(ctx context.Context, payload json.RawMessage) (*dto.Response, error) {
	req, err := decode[dto.AuthorRequest](payload)
	if err != nil {
		return nil, err
	}

	media, status, err := h.u.Lister.ListByAuthor(ctx, req.Author)
	if err != nil {
		return nil, &statusError{status: status, err: err}
	}

	return &dto.Response{Items: media}, nil
}

func (h *MessageHandler) collections(ctx context.Context, _ json.RawMessage) (*dto.Response, error) {
	all, err := h.u.Collections.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.Response{Collections: all}, nil
}

func (h *MessageHandler) createCollection(ctx context.Context, payload json.RawMessage) (*dto.Response, error) {
	req, err := decode[dto.CollectionRequest](payload)
	if err != nil {
		return nil, err
	}

	coll, err := h.u.Collections.Create(ctx, req.Name)
	if err != nil {
		return nil, err
	}

	return &dto.Response{Collection: coll}, nil
}

func (h *MessageHandler) renameCollection(ctx context.Context, payload json.RawMessage) (*dto.Response, error) {
	req, err := decode[dto.CollectionRequest](payload)
	if err != nil {
		return nil, err
	}

	coll, err := h.u.Collections.Rename(ctx, req.ID, req.Name)
	if err != nil {
		return nil, err
	}

	return &dto.Response{Collection: coll}, nil
}

func (h *MessageHandler) deleteCollection(ctx context.Context, payload json.RawMessage) (*dto.Response, error) {
	req, err := decode[dto.CollectionRequest](payload)
	if err != nil {
		return nil, err
	}

	if err := h.u.Collections.Delete(ctx, req.ID); err != nil {
		return nil, err
	}

	deleted := true

	return &dto.Response{Deleted: &deleted}, nil
}

func (h *MessageHandler) membership(ctx context.Context, payload json.RawMessage) (*dto.Response, error) {
	req, err := decode[dto.MembershipRequest](payload)
	if err != nil {
		return nil, err
	}

	coll, err := h.u.Collections.SetMembership(ctx, req.CollectionID, req.MediaID, req.Member)
	if err != nil {
		return nil, err
	}

	return &dto.Response{Collection: coll}, nil
}

func (h *MessageHandler) clearAuthors(ctx context.Context, payload json.RawMessage) (*dto.Response, error) {
	req, err := decode[dto.ClearAuthorsRequest](payload)
	if err != nil {
		return nil, err
	}

	cleared, err := h.u.Importer.ClearAuthors(ctx, req.Authors)
	if err != nil {
		return nil, err
	}

	return &dto.Response{Cleared: cleared}, nil
}

func (h *MessageHandler) enqueue(ctx context.Context, payload json.RawMessage) (*dto.Response, error) {
	item, err := decode[dto.ImportItem](payload)
	if err != nil {
		return nil, err
	}

	flush, queued, err := h.u.Importer.Enqueue(ctx, *item)
	if err != nil {
		return nil, err
	}

	return &dto.Response{Flush: flush, Queued: queued}, nil
}

func (h *MessageHandler) finalize(ctx context.Context, _ json.RawMessage) (*dto.Response, error) {
	totals, err := h.u.Importer.Finalize(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.Response{Totals: totals}, nil
}

func (h *MessageHandler) abort(_ context.Context, _ json.RawMessage) (*dto.Response, error) {
	return &dto.Response{Dropped: h.u.Importer.Abort()}, nil
}

func (h *MessageHandler) progress(ctx context.Context, payload json.RawMessage) (*dto.Response, error) {
	req, err := decode[dto.ProgressRequest](payload)
	if err != nil {
		return nil, err
	}

	done, err := h.u.Importer.Completed(ctx, req.Keys)
	if err != nil {
		return nil, err
	}

	return &dto.Response{Completed: done}, nil
}

func (h *MessageHandler) resetProgress(ctx context.Context, _ json.RawMessage) (*dto.Response, error) {
	if err := h.u.Importer.ResetProgress(ctx); err != nil {
		return nil, err
	}

	return &dto.Response{}, nil
}
