// Package storage keeps uploaded profile pictures on local disk under <root>/profiles/.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	profilesDir = "profiles"
	// PublicPrefix is the URL prefix the upload root is served under
	PublicPrefix = "/uploads"
)

var (
	ErrFileTooLarge    = errors.New("file too large")
	ErrInvalidFileType = errors.New("invalid file type")
	ErrOutsideRoot     = errors.New("path is not a stored profile picture")
)

var allowedImageExt = map[string]bool{"jpg": true, "jpeg": true, "png": true, "gif": true, "webp": true}

// ExtFromFilename returns the lower-case extension without the dot
func ExtFromFilename(name string) string {
	e := strings.ToLower(filepath.Ext(name))
	return strings.TrimPrefix(e, ".")
}

// IsAllowedImage reports whether ext is one of the accepted picture types
func IsAllowedImage(ext string) bool {
	return allowedImageExt[strings.ToLower(ext)]
}

type LocalStorage struct {
	root     string
	maxBytes int64
}

func NewLocal(root string, maxBytes int64) (*LocalStorage, error) {
	if err := os.MkdirAll(filepath.Join(root, profilesDir), 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStorage{root: root, maxBytes: maxBytes}, nil
}

func (s *LocalStorage) Root() string     { return s.root }
func (s *LocalStorage) MaxBytes() int64 { return s.maxBytes }

// SaveProfilePicture streams src into a temp file and renames it into place,
// so a reader never sees a partially written picture. It returns the public path.
func (s *LocalStorage) SaveProfilePicture(userID, ext string, src io.Reader) (string, error) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if !IsAllowedImage(ext) {
		return "", ErrInvalidFileType
	}

	dir := filepath.Join(s.root, profilesDir)
	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return "", err
	}
	tmpName := tmp.Name()

	n, err := io.Copy(tmp, io.LimitReader(src, s.maxBytes+1))
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil && n > s.maxBytes {
		err = ErrFileTooLarge
	}
	if err != nil {
		_ = os.Remove(tmpName)
		return "", err
	}

	name := fmt.Sprintf("%s-%s.%s", userID, uuid.NewString(), ext)
	if err := os.Rename(tmpName, filepath.Join(dir, name)); err != nil {
		_ = os.Remove(tmpName)
		return "", err
	}
	return path.Join(PublicPrefix, profilesDir, name), nil
}

// Remove deletes a picture by its public path; a file that is already gone is not an error
func (s *LocalStorage) Remove(publicPath string) error {
	prefix := path.Join(PublicPrefix, profilesDir) + "/"
	if !strings.HasPrefix(publicPath, prefix) {
		return ErrOutsideRoot
	}
	name := strings.TrimPrefix(publicPath, prefix)
	if name == "" || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return ErrOutsideRoot
	}
	err := os.Remove(filepath.Join(s.root, profilesDir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
