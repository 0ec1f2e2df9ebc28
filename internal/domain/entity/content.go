package entity

// Content is binary media resolved from a data-URI, a remote url or raw bytes.
type Content struct {
	Data     []byte
	MimeType string
	// Source is the remote url the bytes were fetched from, empty for inline data.
	Source string
}

func (c *Content) Size() int64 {
	if c == nil {
		return 0
	}

	return int64(len(c.Data))
}
