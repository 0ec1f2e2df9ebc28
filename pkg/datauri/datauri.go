// Package datauri parses and builds RFC 2397 data URIs.
package datauri

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const scheme = "data:"

var (
	ErrNotDataURI = errors.New("not a data uri")
	ErrMalformed  = errors.New("malformed data uri")
)

// URI is a parsed data URI. Payload is still encoded.
type URI struct {
	MimeType string
	Params   []string
	Base64   bool
	Payload  string
}

// Is reports whether s looks like a data URI.
func Is(s string) bool {
	return len(s) >= len(scheme) && strings.EqualFold(s[:len(scheme)], scheme)
}

// Parse splits "data:<mime>[;params][;base64],<payload>".
func Parse(s string) (*URI, error) {
	if !Is(s) {
		return nil, ErrNotDataURI
	}

	header, payload, ok := strings.Cut(s[len(scheme):], ",")
	if !ok {
		return nil, fmt.Errorf("%w: missing comma", ErrMalformed)
	}

	u := &URI{Payload: payload}

	parts := strings.Split(header, ";")
	u.MimeType = strings.ToLower(strings.TrimSpace(parts[0]))
	for _, p := range parts[1:] {
		p = strings.TrimSpace(p)
		if strings.EqualFold(p, "base64") {
			u.Base64 = true

			continue
		}
		if p != "" {
			u.Params = append(u.Params, p)
		}
	}

	if u.MimeType == "" {
		u.MimeType = "text/plain"
	}

	return u, nil
}

// Decode returns the payload bytes using the strict standard alphabet.
func (u *URI) Decode() ([]byte, error) {
	if !u.Base64 {
		s, err := url.PathUnescape(u.Payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		return []byte(s), nil
	}

	data, err := base64.StdEncoding.DecodeString(u.Payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	return data, nil
}

// DecodeLenient accepts what browsers tolerate: embedded whitespace,
// percent escapes, missing padding and the URL-safe alphabet.
func (u *URI) DecodeLenient() ([]byte, error) {
	if !u.Base64 {
		return u.Decode()
	}

	payload := u.Payload
	if strings.Contains(payload, "%") {
		if s, err := url.PathUnescape(payload); err == nil {
			payload = s
		}
	}

	payload = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			return -1
		}

		return r
	}, payload)
	payload = strings.TrimRight(payload, "=")

	if strings.ContainsAny(payload, "-_") {
		data, err := base64.RawURLEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		return data, nil
	}

	data, err := base64.RawStdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	return data, nil
}

// Encode builds a base64 data URI.
func Encode(mimeType string, data []byte) string {
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	return scheme + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
