package datauri

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		mime    string
		base64  bool
		payload string
		params  []string
		err     error
	}{
		{"base64 image", "data:image/png;base64,iVBORw0KGgo=", "image/png", true, "iVBORw0KGgo=", nil, nil},
		{"upper case scheme", "DATA:Image/JPEG;BASE64,AAAA", "image/jpeg", true, "AAAA", nil, nil},
		{"params kept", "data:text/plain;charset=utf-8,hi", "text/plain", false, "hi", []string{"charset=utf-8"}, nil},
		{"default mime", "data:,hello", "text/plain", false, "hello", nil, nil},
		{"missing comma", "data:image/png;base64", "", false, "", nil, ErrMalformed},
		{"not a data uri", "https://example/a.png", "", false, "", nil, ErrNotDataURI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			u, err := Parse(tt.in)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.mime, u.MimeType)
			assert.Equal(t, tt.base64, u.Base64)
			assert.Equal(t, tt.payload, u.Payload)
			assert.Equal(t, tt.params, u.Params)
		})
	}
}

func TestDecode(t *testing.T) {
	t.Parallel()

	want := []byte{0xfb, 0xff, 0x01, 0x02}

	u, err := Parse(Encode("image/png", want))
	require.NoError(t, err)

	got, err := u.Decode()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	u, err = Parse("data:text/plain,hello%20world")
	require.NoError(t, err)
	got, err = u.Decode()
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(got))
}

func TestDecodeLenient(t *testing.T) {
	t.Parallel()

	want := []byte{0xfb, 0xff, 0x01, 0x02}

	tests := []struct {
		name    string
		payload string
	}{
		{"whitespace", "+/8B Ag=="},
		{"unpadded", "+/8BAg"},
		{"url alphabet", "-_8BAg"},
		{"percent escaped", "%2B%2F8BAg%3D%3D"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			u := &URI{MimeType: "image/png", Base64: true, Payload: tt.payload}

			_, strictErr := u.Decode()
			assert.Error(t, strictErr)

			got, err := u.DecodeLenient()
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}

	u := &URI{Base64: true, Payload: "!!!"}
	_, err := u.DecodeLenient()
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestEncodeDefaultMime(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "data:application/octet-stream;base64,AQI=", Encode("", []byte{1, 2}))
}
