package utils

import (
	"strings"
	"unicode"
)

// MediaFilename builds the download path for a saved item:
// "<author>/<author>_<tweetID>_<id><ext>", skipping empty parts.
func MediaFilename(author, tweetID, id, mimeType string) string {
	author = sanitize(author)

	parts := make([]string, 0, 3)
	for _, p := range []string{author, sanitize(tweetID), sanitize(id)} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		parts = append(parts, "media")
	}

	name := strings.Join(parts, "_") + GetExtensionFromMimeType(mimeType)
	if author == "" {
		return name
	}

	return author + "/" + name
}

func sanitize(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsControl(r):
			return -1
		case strings.ContainsRune(`/\:*?"<>|`, r):
			return '_'
		}

		return r
	}, strings.TrimSpace(s))

	return strings.Trim(s, ". ")
}
