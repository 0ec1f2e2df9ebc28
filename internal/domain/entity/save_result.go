package entity

import "mediavault/internal/domain/model"

type SaveResult struct {
	Item    *model.Media
	Created bool
	Updated bool
	Cached  bool
}
