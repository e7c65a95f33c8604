package filesystem

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
)

// NewOS returns the host filesystem
func NewOS() afero.Fs {
	return afero.NewOsFs()
}

// NewMemory returns an empty in-memory filesystem
func NewMemory() afero.Fs {
	return afero.NewMemMapFs()
}

// Exists reports whether path exists and is a regular file
func Exists(fs afero.Fs, path string) bool {
	info, err := fs.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// Readable checks that path is a regular file that can be opened and read
func Readable(fs afero.Fs, path string) error {
	info, err := fs.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}

	f, err := fs.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	var buf [1]byte
	if _, err := f.Read(buf[:]); err != nil && err != io.EOF {
		return err
	}
	return nil
}

// WriteTemp writes content to a new temporary file in dir (the system temp
// dir when empty) and returns its path with a function that removes it.
// The remove function is safe to call more than once.
func WriteTemp(fs afero.Fs, dir, pattern, content string) (string, func(), error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := fs.MkdirAll(dir, 0700); err != nil {
		return "", func() {}, err
	}

	f, err := afero.TempFile(fs, dir, pattern)
	if err != nil {
		return "", func() {}, err
	}
	name := f.Name()
	remove := func() { _ = fs.Remove(name) }

	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		remove()
		return "", func() {}, err
	}
	if err := f.Close(); err != nil {
		remove()
		return "", func() {}, err
	}

	return name, remove, nil
}
