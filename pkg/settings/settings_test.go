package settings

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGifFileType(t *testing.T) {
	tests := map[string]struct {
		input string
		want  GifFileType
		ok    bool
	}{
		"id":      {input: "id", want: GifFileTypeId, ok: true},
		"url":     {input: "url", want: GifFileTypeUrl, ok: true},
		"empty":   {input: "", ok: false},
		"unknown": {input: "file", ok: false},
		"case":    {input: "URL", ok: false},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, ok := ParseGifFileType(tc.input)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestWithDefaults(t *testing.T) {
	assert.Equal(t, Defaults(), WithDefaults(Settings{}))

	s := WithDefaults(Settings{
		TargetDeviceName: "Pixoo64",
		GifFileUrl:       "https://example.com/a.gif",
		GifFileType:      GifFileTypeUrl,
	})
	assert.Equal(t, "Pixoo64", s.TargetDeviceName)
	assert.Equal(t, GifFileTypeUrl, s.GifFileType)
	assert.Equal(t, "https://example.com/a.gif", s.GifFileUrl)
	assert.Empty(t, s.GifFileId)

	s = WithDefaults(Settings{GifFileType: "bogus"})
	assert.Equal(t, GifFileTypeId, s.GifFileType)
}

func TestActiveGif(t *testing.T) {
	s := Settings{
		GifFileId:   "group1/M00/abc",
		GifFileUrl:  "https://example.com/a.gif",
		GifFileType: GifFileTypeId,
	}
	assert.Equal(t, "group1/M00/abc", s.ActiveGif())

	s.GifFileType = GifFileTypeUrl
	assert.Equal(t, "https://example.com/a.gif", s.ActiveGif())
	// inactive value is retained
	assert.Equal(t, "group1/M00/abc", s.GifFileId)
}

func TestDecodeFullRecord(t *testing.T) {
	in := Settings{
		TargetDeviceName: "Office Pixoo",
		GifFileId:        "group1/M00/abc",
		GifFileUrl:       "https://example.com/a.gif",
		GifFileType:      GifFileTypeUrl,
	}
	data, err := json.Marshal(in)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, in, got)
}

func TestDecodePartialRecord(t *testing.T) {
	got, err := Decode([]byte(`{"targetDeviceName":"Pixoo","gifFileId":"x","gifFileType":"id"}`))
	require.NoError(t, err)
	assert.Equal(t, "", got.GifFileUrl)
	assert.Equal(t, "Pixoo", got.TargetDeviceName)
	assert.Equal(t, "x", got.GifFileId)

	got, err = Decode([]byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), got)
}

func TestDecodeBadFields(t *testing.T) {
	got, err := Decode([]byte(`{"targetDeviceName":42,"gifFileUrl":"u","gifFileType":"gif"}`))
	require.NoError(t, err)
	assert.Equal(t, "", got.TargetDeviceName)
	assert.Equal(t, "u", got.GifFileUrl)
	assert.Equal(t, GifFileTypeId, got.GifFileType)
}

func TestDecodeCorrupt(t *testing.T) {
	for _, data := range []string{``, `null`, `[]`, `"settings"`, `{broken`} {
		got, err := Decode([]byte(data))
		assert.True(t, errors.Is(err, ErrCorrupt), "input %q", data)
		assert.Equal(t, Defaults(), got)
	}
}
