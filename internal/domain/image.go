package domain

import "fmt"

// Image is a product picture stored in object storage.
type Image struct {
	ID          string // uuid
	Bucket      string
	ObjectKey   string
	Bytes       []byte
	Size        int64
	ContentType string // e.g. "image/png"
}

func NewImage(id string, bucket string, objectKey string, data []byte, contentType string) *Image {
	return &Image{
		ID:          id,
		Bucket:      bucket,
		ObjectKey:   objectKey,
		Bytes:       data,
		Size:        int64(len(data)),
		ContentType: contentType,
	}
}

// ProductImageKey is the object key of a product picture: products/<id>/<uuid>.<ext>.
func ProductImageKey(productID int64, imageID string, ext string) string {
	return fmt.Sprintf("products/%d/%s.%s", productID, imageID, ext)
}
