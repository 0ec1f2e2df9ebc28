package presence

import (
	"context"
	"time"
)

// Tracker records when UI surfaces were last active. The signal is advisory:
// it only helps a surface decide whether to defer heavy work.
type Tracker interface {
	Touch(ctx context.Context, surface string) error
	Busy(ctx context.Context, surface string, window time.Duration) (bool, error)
	Active(ctx context.Context, window time.Duration) ([]string, error)
}
