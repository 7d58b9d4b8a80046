package storage

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
)

const fileExt = ".json"

// FileSlot stores each key as one JSON file under a directory.
type FileSlot struct {
	fs  afero.Fs
	dir string
}

// NewFileSlot creates a FileSlot rooted at dir on the given filesystem.
func NewFileSlot(fsys afero.Fs, dir string) *FileSlot {
	return &FileSlot{fs: fsys, dir: dir}
}

// NewOSFileSlot creates a FileSlot on the real filesystem.
func NewOSFileSlot(dir string) *FileSlot {
	return NewFileSlot(afero.NewOsFs(), dir)
}

// Path returns the file backing key.
func (s *FileSlot) Path(key string) string {
	return filepath.Join(s.dir, SanitizeKey(key)+fileExt)
}

// Get reads the value stored under key.
func (s *FileSlot) Get(key string) ([]byte, bool, error) {
	data, err := afero.ReadFile(s.fs, s.Path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set replaces the value under key. The new content is written to a temp
// file and renamed into place so readers never see a partial write.
func (s *FileSlot) Set(key string, value []byte) error {
	//nolint:gosec // G301: 0755 is appropriate for a user data directory
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}

	tmp, err := afero.TempFile(s.fs, s.dir, SanitizeKey(key)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err = tmp.Write(value); err != nil {
		tmp.Close()
		_ = s.fs.Remove(tmpName)
		return err
	}
	if err = tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName)
		return err
	}
	if err = s.fs.Rename(tmpName, s.Path(key)); err != nil {
		_ = s.fs.Remove(tmpName)
		return err
	}
	return nil
}

// Remove deletes the value under key. Removing a missing key is not an error.
func (s *FileSlot) Remove(key string) error {
	err := s.fs.Remove(s.Path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
