// Package photos contains everything that touches the photo files: the watched folders, rotation
// and EXIF metadata
package photos

import (
	"io/fs"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// MaxPhotoSize is the largest file the Bot API accepts as a photo upload
const MaxPhotoSize = 10 * 1024 * 1024

var (
	// ErrNotFound is returned when a relative photo path exists in none of the folders
	ErrNotFound = errors.New("photo not found in any folder")
	// ErrNoPhotos is returned when the folders hold no eligible photo
	ErrNoPhotos = errors.New("no photos in folders")
)

var photoExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
}

// IsPhoto reports whether the file name has a photo extension
func IsPhoto(name string) bool {
	return photoExtensions[strings.ToLower(filepath.Ext(name))]
}

// Library is the set of watched photo folders
type Library struct {
	folders []string
}

// NewLibrary creates a Library over the given absolute folders
func NewLibrary(folders []string) Library {
	cleaned := make([]string, 0, len(folders))
	for _, folder := range folders {
		cleaned = append(cleaned, filepath.Clean(folder))
	}
	return Library{folders: cleaned}
}

// Relative returns the path of abs relative to the first folder containing it
func (l Library) Relative(abs string) (string, bool) {
	abs = filepath.Clean(abs)
	for _, folder := range l.folders {
		rel, err := filepath.Rel(folder, abs)
		if err != nil || rel == "." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || rel == ".." {
			continue
		}
		return rel, true
	}
	return "", false
}

// Resolve returns the absolute path of rel in the first folder where it exists
func (l Library) Resolve(rel string) (string, error) {
	rel = filepath.Clean(rel)
	if rel == "." || filepath.IsAbs(rel) || strings.HasPrefix(rel, "..") {
		return "", errors.Wrapf(ErrNotFound, "invalid relative path %q", rel)
	}
	for _, folder := range l.folders {
		candidate := filepath.Join(folder, rel)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", errors.Wrap(ErrNotFound, rel)
}

// All walks every folder and returns the eligible photos: a photo extension and at most MaxPhotoSize
func (l Library) All() ([]string, error) {
	photos := []string{}
	for _, folder := range l.folders {
		err := filepath.WalkDir(folder, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !IsPhoto(d.Name()) {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return err
			}
			if info.Size() > MaxPhotoSize {
				return nil
			}
			photos = append(photos, path)
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "walk %s", folder)
		}
	}
	return photos, nil
}

// Random picks one eligible photo uniformly
func (l Library) Random(rng *rand.Rand) (string, error) {
	photos, err := l.All()
	if err != nil {
		return "", err
	}
	if len(photos) == 0 {
		return "", ErrNoPhotos
	}
	return photos[rng.Intn(len(photos))], nil
}
