package storage

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/services-marketplace/internal/config"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func TestDetectImage(t *testing.T) {
	mt, ext, err := DetectImage(pngHeader)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mt)
	assert.Equal(t, ".png", ext)

	mt, ext, err = DetectImage([]byte{0xff, 0xd8, 0xff, 0xe0, 0, 0x10, 'J', 'F', 'I', 'F', 0})
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mt)
	assert.Equal(t, ".jpg", ext)

	_, _, err = DetectImage([]byte("GIF89a........"))
	assert.ErrorIs(t, err, ErrImageType)

	_, _, err = DetectImage(bytes.Repeat([]byte{0}, MaxImageBytes+1))
	assert.ErrorIs(t, err, ErrImageTooLarge)
}

func TestPictureKey(t *testing.T) {
	a, b := PictureKey(7, ".png"), PictureKey(7, ".png")
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "profiles/7/"))
	assert.True(t, strings.HasSuffix(a, ".png"))
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Put(ctx, "k", "image/png", pngHeader))
	url, err := m.URL(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "memory://k", url)
	require.NoError(t, m.Delete(ctx, "k"))
	_, err = m.URL(ctx, "k")
	assert.Error(t, err)
}

func TestNewS3StoreRequiresBucket(t *testing.T) {
	_, err := NewS3Store(context.Background(), config.Config{AWSRegion: "us-east-1"})
	assert.Error(t, err)
}

func TestS3StorePresignsOffline(t *testing.T) {
	s, err := NewS3Store(context.Background(), config.Config{
		AWSRegion: "us-east-1", AWSS3Bucket: "pictures", AWSAccessKeyID: "AKID", AWSSecretKey: "SECRET",
	})
	require.NoError(t, err)
	url, err := s.URL(context.Background(), "profiles/1/a.png")
	require.NoError(t, err)
	assert.Contains(t, url, "pictures")
	assert.Contains(t, url, "X-Amz-Signature")
}
