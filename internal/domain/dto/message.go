package dto

import (
	"encoding/json"

	"mediavault/internal/domain/entity"
	"mediavault/internal/domain/model"
)

// Actions accepted on the message boundary.
const (
	ActionSaveImage              = "saveImage"
	ActionSaveVideo              = "saveVideo"
	ActionCheckSavedStatus       = "checkSavedStatus"
	ActionDownloadMediaItem      = "downloadMediaItem"
	ActionDeleteMedia            = "deleteMedia"
	ActionUpdateFavorite         = "updateMediaFavoriteStatus"
	ActionGetMedia               = "getMedia"
	ActionGetMediaByAuthor       = "getMediaByAuthor"
	ActionGetCollections         = "getCollections"
	ActionCreateCollection       = "createCollection"
	ActionRenameCollection       = "renameCollection"
	ActionDeleteCollection       = "deleteCollection"
	ActionUpdateMediaInColl      = "updateMediaInCollection"
	ActionPrepareAndClearAuthors = "prepareAndClearAuthorsForImport"
	ActionBatchImport            = "batchImportAuthorMedia"
	ActionFinalizeImport         = "finalizeImport"
	ActionAbortImport            = "abortImport"
	ActionGetImportProgress      = "getImportProgress"
	ActionResetImportProgress    = "resetImportProgress"
)

// Message is one request crossing the boundary.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload"`
}

// Response is the reply to a Message. Only the fields relevant to the action
// are set.
type Response struct {
	Success      bool                 `json:"success"`
	Error        string               `json:"error,omitempty"`
	Item         *model.Media         `json:"item,omitempty"`
	Items        []model.Media        `json:"items,omitempty"`
	Created      bool                 `json:"created,omitempty"`
	Updated      bool                 `json:"updated,omitempty"`
	Cached       bool                 `json:"cached,omitempty"`
	Saved        *bool                `json:"saved,omitempty"`
	Deleted      *bool                `json:"deleted,omitempty"`
	Collection   *model.Collection    `json:"collection,omitempty"`
	Collections  []model.Collection   `json:"collections,omitempty"`
	Cleared      map[string]int       `json:"cleared,omitempty"`
	Flush        *entity.FlushResult  `json:"flush,omitempty"`
	Totals       *entity.ImportTotals `json:"totals,omitempty"`
	Queued       int                  `json:"queued,omitempty"`
	Dropped      int                  `json:"dropped,omitempty"`
	Completed    []string             `json:"completed,omitempty"`
	Acknowledged int                  `json:"acknowledged,omitempty"`
	DataURL      string               `json:"dataUrl,omitempty"`
}

// SaveMediaRequest is the payload of saveImage and saveVideo.
type SaveMediaRequest struct {
	Source           string  `json:"source"`
	MimeType         string  `json:"mimeType,omitempty"`
	Author           string  `json:"author"`
	TweetID          string  `json:"tweetId,omitempty"`
	OriginalURL      string  `json:"originalUrl,omitempty"`
	ThumbnailURL     string  `json:"thumbnailUrl,omitempty"`
	OriginalFilename string  `json:"filename,omitempty"`
	IsGif            bool    `json:"isGif,omitempty"`
	IsVideoFrame     bool    `json:"isVideoFrame,omitempty"`
	IsVideo          bool    `json:"isVideo,omitempty"`
	Width            int     `json:"width,omitempty"`
	Height           int     `json:"height,omitempty"`
	Duration         float64 `json:"duration,omitempty"`
	ForceUpdate      bool    `json:"forceUpdate,omitempty"`
}

// Kind maps the request flags onto a capture kind for the given action.
func (r *SaveMediaRequest) Kind(action string) model.Kind {
	switch {
	case r.IsVideoFrame:
		return model.KindVideoFrame
	case r.IsGif:
		return model.KindGif
	case action == ActionSaveVideo || r.IsVideo:
		return model.KindVideo
	default:
		return model.KindImage
	}
}

type MediaIDRequest struct {
	ID       string `json:"id"`
	Filename string `json:"filename,omitempty"`
}

type FavoriteRequest struct {
	ID       string `json:"id"`
	Favorite bool   `json:"favorite"`
}

type AuthorRequest struct {
	Author string `json:"author"`
}

type CollectionRequest struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

type MembershipRequest struct {
	CollectionID int64  `json:"collectionId"`
	MediaID      string `json:"mediaId"`
	Member       bool   `json:"shouldBeMember"`
}

type ClearAuthorsRequest struct {
	Authors []string `json:"authors"`
}

// ImportItem is one file of a bulk folder import.
type ImportItem struct {
	// Key identifies the item across import runs for resuming.
	Key               string  `json:"key,omitempty"`
	Author            string  `json:"author"`
	Filename          string  `json:"filename"`
	DataURL           string  `json:"dataUrl"`
	MimeType          string  `json:"mimeType,omitempty"`
	ContentHash       string  `json:"contentHash,omitempty"`
	TweetID           string  `json:"tweetId,omitempty"`
	Date              string  `json:"date,omitempty"`
	IsGif             bool    `json:"isGif,omitempty"`
	Width             int     `json:"width,omitempty"`
	Height            int     `json:"height,omitempty"`
	Duration          float64 `json:"duration,omitempty"`
	OriginalRemoteURL string  `json:"originalRemoteUrl,omitempty"`
}

type ProgressRequest struct {
	Keys []string `json:"keys"`
}
