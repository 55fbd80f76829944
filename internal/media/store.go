package media

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/plume-blog/plume/pkg"
)

var (
	ErrImageNotFound          = errors.New("image not found")
	ErrUnsupportedContentType = errors.New("unsupported content type")
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Store keeps uploaded images in a flat directory, stored names are
// generated so client-chosen filenames never touch the filesystem.
type Store struct {
	rootPath string
}

func NewStore(rootPath string) (*Store, error) {
	if rootPath == "" {
		return nil, errors.New("root path cannot be empty")
	}
	exists, err := pkg.PathExists(rootPath, true)
	if err != nil {
		return nil, fmt.Errorf("check media root: %w", err)
	}
	if !exists {
		if err := os.MkdirAll(rootPath, 0o755); err != nil {
			return nil, fmt.Errorf("create media root: %w", err)
		}
	}
	return &Store{rootPath: rootPath}, nil
}

func (s *Store) Save(filename, contentType string, src io.Reader) (string, error) {
	ext, ok := imageExtensions[contentType]
	if !ok {
		// fall back to the original extension for clients that send
		// a generic content type
		ext = strings.ToLower(filepath.Ext(filename))
		if ext != ".jpg" && ext != ".jpeg" && ext != ".png" && ext != ".gif" && ext != ".webp" {
			return "", ErrUnsupportedContentType
		}
	}

	storedName := uuid.NewString() + ext
	dst, err := os.Create(path.Join(s.rootPath, storedName))
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer func() {
		if err := dst.Close(); err != nil {
			log.Errorf("media store: close image file %s: %s", storedName, err)
		}
	}()

	written, err := io.Copy(dst, src)
	if err != nil {
		return "", fmt.Errorf("write image file: %w", err)
	}

	log.Debugf("media store: saved %s (%d bytes) as %s", filename, written, storedName)
	return storedName, nil
}

func (s *Store) FilePath(name string) (string, error) {
	// stored names are flat uuid-based filenames, anything else cannot
	// come from this store
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", ErrImageNotFound
	}

	imagePath := path.Join(s.rootPath, name)
	exists, err := pkg.PathExists(imagePath, false)
	if err != nil {
		return "", fmt.Errorf("check image path: %w", err)
	}
	if !exists {
		return "", ErrImageNotFound
	}
	return imagePath, nil
}
