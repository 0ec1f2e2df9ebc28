package utils

import "strings"

// mimeTypeToExtension maps the media types a capture can carry to their
// usual file extensions.
var mimeTypeToExtension = map[string]string{
	"image/avif":               ".avif",
	"image/bmp":                ".bmp",
	"image/gif":                ".gif",
	"image/heic":               ".heic",
	"image/jpeg":               ".jpg",
	"image/jpg":                ".jpg",
	"image/png":                ".png",
	"image/svg+xml":            ".svg",
	"image/tiff":               ".tif",
	"image/webp":               ".webp",
	"video/mp4":                ".mp4",
	"video/mpeg":               ".mpeg",
	"video/ogg":                ".ogv",
	"video/quicktime":          ".mov",
	"video/webm":               ".webm",
	"video/x-m4v":              ".m4v",
	"video/x-matroska":         ".mkv",
	"application/octet-stream": ".bin",
}

// GetExtensionFromMimeType returns a common file extension for a given MIME type.
// If no specific extension is found, it defaults to ".bin".
func GetExtensionFromMimeType(mimeType string) string {
	// Remove parameters if present (e.g., "video/mp4; codecs=avc1")
	cleaned := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	if ext, ok := mimeTypeToExtension[cleaned]; ok {
		return ext
	}

	return ".bin"
}

// IsMediaExtension reports whether ext (with dot) names an image or video
// file this module knows how to store.
func IsMediaExtension(ext string) bool {
	ext = strings.ToLower(ext)
	for m, e := range mimeTypeToExtension {
		if e == ext && (strings.HasPrefix(m, "image/") || strings.HasPrefix(m, "video/")) {
			return true
		}
	}

	return ext == ".jpeg"
}
