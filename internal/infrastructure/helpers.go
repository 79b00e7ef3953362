package infrastructure

import "github.com/Rafa-lopez12/examen-arqui/pkg/e"

// GetExtensionFromMIME maps an image MIME type to a file extension.
// Anything but jpeg, png and webp yields e.ErrUnsupportedMediaType.
func GetExtensionFromMIME(mime string) (string, error) {
	switch mime {
	case "image/jpeg", "image/jpg":
		return "jpg", nil
	case "image/png":
		return "png", nil
	case "image/webp":
		return "webp", nil
	default:
		return "bin", e.ErrUnsupportedMediaType
	}
}
