package presentation

const (
	IDParam      = "id"
	SurfaceParam = "surface"
	TypeKey      = "Content-Type"
	ReasonTag    = "X-Reason"
	SurfaceTag   = "X-Surface"

	AuthorQuery   = "author"
	TypeQuery     = "type"
	FavoriteQuery = "favorite"
	LimitQuery    = "limit"
	WindowQuery   = "window"
)
