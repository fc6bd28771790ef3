package mirror

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/fekuna/omnipos-catalog-service/internal/apperror"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

const (
	CategoryImagesRoot = "categoryImages"
	ProductImagesRoot  = "images"

	dirPerm  = 0o755
	filePerm = 0o644
)

var (
	// ErrNotFound is returned when a directory to rename or list is absent.
	ErrNotFound = apperror.ErrDirectoryNotFound

	// ErrEmpty is returned when a directory exists but holds no images.
	ErrEmpty = apperror.ErrDirectoryEmpty

	// ErrInvalidSegment is returned for a path component that would escape
	// its parent directory.
	ErrInvalidSegment = fmt.Errorf("%w: invalid path segment", apperror.ErrValidation)
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// Image is one file read back from the mirror.
type Image struct {
	Filename string
	Data     []byte
}

// Mirror is the directory tree that parallels the catalog hierarchy.
type Mirror interface {
	EnsureDir(segs ...string) error
	RenameDir(oldSegs, newSegs []string) error
	RemoveTree(segs ...string) error
	ListImages(segs ...string) ([]Image, error)
	WriteImages(files []model.ImageUpload, segs ...string) error
}

// FS is a Mirror on the local filesystem, rooted at a service directory.
type FS struct {
	root string
}

var _ Mirror = (*FS)(nil)

func NewFS(root string) *FS {
	return &FS{root: root}
}

func (m *FS) Root() string {
	return m.root
}

func (m *FS) EnsureDir(segs ...string) error {
	dir, err := m.resolve(segs)
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, dirPerm)
}

func (m *FS) RenameDir(oldSegs, newSegs []string) error {
	oldDir, err := m.resolve(oldSegs)
	if err != nil {
		return err
	}
	newDir, err := m.resolve(newSegs)
	if err != nil {
		return err
	}

	info, err := os.Stat(oldDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, RelPath(oldSegs...))
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotFound, RelPath(oldSegs...))
	}
	if oldDir == newDir {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(newDir), dirPerm); err != nil {
		return err
	}
	return os.Rename(oldDir, newDir)
}

// RemoveTree deletes a directory and everything below it. A missing
// directory is not an error.
func (m *FS) RemoveTree(segs ...string) error {
	dir, err := m.resolve(segs)
	if err != nil {
		return err
	}
	return os.RemoveAll(dir)
}

// ListImages reads every image file directly inside the directory, ordered
// by filename.
func (m *FS) ListImages(segs ...string) ([]Image, error) {
	dir, err := m.resolve(segs)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || isNotDir(dir) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, RelPath(segs...))
		}
		return nil, err
	}

	images := make([]Image, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !IsImageFile(e.Name()) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		images = append(images, Image{Filename: e.Name(), Data: data})
	}

	if len(images) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmpty, RelPath(segs...))
	}
	return images, nil
}

// WriteImages stores uploaded files under their original base names,
// creating the directory first.
func (m *FS) WriteImages(files []model.ImageUpload, segs ...string) error {
	dir, err := m.resolve(segs)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return err
	}

	for _, f := range files {
		name := filepath.Base(f.Filename)
		if err := validateSegment(name); err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, name), f.Data, filePerm); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}

func (m *FS) resolve(segs []string) (string, error) {
	if len(segs) == 0 {
		return "", ErrInvalidSegment
	}
	parts := make([]string, 0, len(segs)+1)
	parts = append(parts, m.root)
	for _, s := range segs {
		if err := validateSegment(s); err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return filepath.Join(parts...), nil
}

func validateSegment(s string) error {
	if s == "" || s == "." || s == ".." || strings.ContainsAny(s, `/\`+"\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidSegment, s)
	}
	return nil
}

func isNotDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

// IsImageFile reports whether name carries one of the served image
// extensions, ignoring case.
func IsImageFile(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

// ValidateName checks that an entity name can be used as a directory name.
func ValidateName(name string) error {
	return validateSegment(name)
}

// RelPath joins segments with forward slashes, the form stored in
// Product.ImagePaths.
func RelPath(segs ...string) string {
	return path.Join(segs...)
}
