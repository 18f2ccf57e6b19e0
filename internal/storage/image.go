package storage

import (
	"errors"
	"fmt"

	"github.com/gabriel-vasile/mimetype"
	"github.com/segmentio/ksuid"
)

// MaxImageBytes caps profile picture uploads.
const MaxImageBytes = 5 << 20

var ErrImageTooLarge = fmt.Errorf("image exceeds %d MB", MaxImageBytes>>20)

var ErrImageType = errors.New("only PNG and JPEG images are allowed")

var imageExt = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
}

// DetectImage sniffs the content type from the bytes, ignoring whatever
// the client claimed.  It returns the content type and file extension.
func DetectImage(body []byte) (string, string, error) {
	if len(body) > MaxImageBytes {
		return "", "", ErrImageTooLarge
	}
	mt := mimetype.Detect(body).String()
	ext, ok := imageExt[mt]
	if !ok {
		return "", "", ErrImageType
	}
	return mt, ext, nil
}

// PictureKey builds a collision-free object key for a user's picture.
func PictureKey(userID uint64, ext string) string {
	return fmt.Sprintf("profiles/%d/%s%s", userID, ksuid.New().String(), ext)
}
