package infrastructure

import (
	"testing"

	"github.com/Rafa-lopez12/examen-arqui/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetExtensionFromMIME(t *testing.T) {
	tests := []struct {
		mime string
		ext  string
	}{
		{"image/jpeg", "jpg"},
		{"image/jpg", "jpg"},
		{"image/png", "png"},
		{"image/webp", "webp"},
	}
	for _, tt := range tests {
		t.Run(tt.mime, func(t *testing.T) {
			ext, err := GetExtensionFromMIME(tt.mime)
			require.NoError(t, err)
			assert.Equal(t, tt.ext, ext)
		})
	}

	_, err := GetExtensionFromMIME("application/pdf")
	assert.ErrorIs(t, err, e.ErrUnsupportedMediaType)
}
