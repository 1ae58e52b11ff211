package imagestore

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/wearevirtua/catalog/internal/domain"
)

// MaxFileSize is the upload limit for a single image file.
const MaxFileSize = 400 * 1024

var allowedTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
}

// Upload carries a file received from a client before it is persisted.
type Upload struct {
	Filename string
	Data     []byte
}

// Store writes image files to a directory and hands back the stored file
// name as the stable reference an entity holds.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create image dir")
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string { return s.dir }

// Store validates the upload and writes it under a uuid-prefixed name.
// Size above MaxFileSize or a content type outside png/jpeg fails with a
// ValidationError and nothing is written.
func (s *Store) Store(u Upload) (string, error) {
	if len(u.Data) == 0 {
		return "", domain.NewValidationError("file", "File is empty.")
	}
	if len(u.Data) > MaxFileSize {
		return "", domain.NewValidationError("file", "Too large file.")
	}
	mtype := mimetype.Detect(u.Data)
	ext, ok := allowedTypes[mtype.String()]
	if !ok {
		return "", domain.NewValidationError("file", "Your file must be a .png, .jpg or .jpeg!")
	}
	name := uuid.New().String() + "_" + sanitizeFilename(u.Filename, ext)
	if err := os.WriteFile(filepath.Join(s.dir, name), u.Data, 0o644); err != nil {
		return "", errors.Wrapf(err, "write image %s", name)
	}
	return name, nil
}

// Remove deletes a stored file. A file that is already gone is treated as
// removed.
func (s *Store) Remove(name string) error {
	if name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, filepath.Base(name)))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "remove image %s", name)
	}
	return nil
}

// Files lists the stored file names, for the orphan sweep.
func (s *Store) Files() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrap(err, "read image dir")
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

func sanitizeFilename(name, fallbackExt string) string {
	name = filepath.Base(strings.TrimSpace(name))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, name)
	if name == "" || name == "." {
		return "upload" + fallbackExt
	}
	return name
}
