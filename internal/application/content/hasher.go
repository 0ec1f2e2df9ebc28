package content

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"mediavault/internal/domain/entity"
)

type Hasher struct {
	codec *Codec
}

func NewHasher(codec *Codec) *Hasher {
	return &Hasher{codec: codec}
}

// Hash resolves src and digests it. ok is false, with a nil error, when src
// can not be resolved at all; callers then fall back to name based dedup.
func (h *Hasher) Hash(ctx context.Context, src string) (string, bool, error) {
	c, err := h.codec.Resolve(ctx, src, "")
	if errors.Is(err, ErrUnresolvable) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	return HashBytes(c.Data), true, nil
}

func HashContent(c *entity.Content) (string, bool) {
	if c == nil || len(c.Data) == 0 {
		return "", false
	}

	return HashBytes(c.Data), true
}

// HashBytes is the lowercase hex SHA-256 of data.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)

	return hex.EncodeToString(sum[:])
}
