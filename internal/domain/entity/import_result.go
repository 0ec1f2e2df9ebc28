package entity

import "mediavault/internal/domain/model"

// FlushResult summarises one committed import batch.
type FlushResult struct {
	Added   []model.Media `json:"added"`
	Skipped int           `json:"skipped"`
	Failed  int           `json:"failed"`
	Aborted bool          `json:"aborted"`
}

// ImportTotals accumulates flush results over one import session.
type ImportTotals struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
	Flushes int `json:"flushes"`
}

func (t *ImportTotals) Add(r *FlushResult) {
	t.Added += len(r.Added)
	t.Skipped += r.Skipped
	t.Failed += r.Failed
	t.Flushes++
}
