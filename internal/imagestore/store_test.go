package imagestore_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wearevirtua/catalog/internal/domain"
	"github.com/wearevirtua/catalog/internal/imagestore"
)

func newStore(t *testing.T) *imagestore.Store {
	t.Helper()
	s, err := imagestore.NewStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func payload(magic []byte, size int) []byte {
	data := make([]byte, size)
	copy(data, magic)
	return data
}

var (
	pngMagic  = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}
	jpegMagic = []byte{0xff, 0xd8, 0xff, 0xe0}
)

func TestStorePNG(t *testing.T) {
	s := newStore(t)

	name, err := s.Store(imagestore.Upload{
		Filename: "photo.png",
		Data:     payload(pngMagic, 1024),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, "_photo.png"), name)

	data, err := os.ReadFile(filepath.Join(s.Dir(), name))
	require.NoError(t, err)
	assert.Len(t, data, 1024)
}

func TestStoreJPEG(t *testing.T) {
	s := newStore(t)

	_, err := s.Store(imagestore.Upload{
		Filename: "photo.jpg",
		Data:     payload(jpegMagic, 512),
	})
	require.NoError(t, err)
}

func TestStoreTooLarge(t *testing.T) {
	s := newStore(t)

	_, err := s.Store(imagestore.Upload{
		Filename: "huge.png",
		Data:     payload(pngMagic, imagestore.MaxFileSize+1),
	})

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Too large file.", verr.Fields["file"])

	files, err := s.Files()
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestStoreEmpty(t *testing.T) {
	s := newStore(t)

	_, err := s.Store(imagestore.Upload{Filename: "empty.png"})

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "File is empty.", verr.Fields["file"])
}

func TestStoreWrongType(t *testing.T) {
	s := newStore(t)

	_, err := s.Store(imagestore.Upload{
		Filename: "doc.pdf",
		Data:     []byte("%PDF-1.4 not an image"),
	})

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Your file must be a .png, .jpg or .jpeg!", verr.Fields["file"])

	files, err := s.Files()
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestStoreUniqueNames(t *testing.T) {
	s := newStore(t)
	u := imagestore.Upload{Filename: "same.png", Data: payload(pngMagic, 64)}

	a, err := s.Store(u)
	require.NoError(t, err)
	b, err := s.Store(u)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestStoreSanitizesFilename(t *testing.T) {
	s := newStore(t)

	name, err := s.Store(imagestore.Upload{
		Filename: "../..//we ird$.png",
		Data:     payload(pngMagic, 64),
	})
	require.NoError(t, err)
	assert.NotContains(t, name, "/")
	assert.NotContains(t, name, " ")
}

func TestRemove(t *testing.T) {
	s := newStore(t)

	name, err := s.Store(imagestore.Upload{
		Filename: "photo.png",
		Data:     payload(pngMagic, 64),
	})
	require.NoError(t, err)

	require.NoError(t, s.Remove(name))
	files, err := s.Files()
	require.NoError(t, err)
	assert.Empty(t, files)

	// already gone is not an error
	require.NoError(t, s.Remove(name))
	require.NoError(t, s.Remove(""))
}
