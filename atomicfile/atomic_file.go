// Package atomicfile writes a file all-or-nothing: data goes to a
// temp file in the destination directory and only a successful Close
// renames it over the destination.
package atomicfile

import (
	"errors"
	"io"
	"os"
	"path/filepath"
)

var (
	// ErrCancelled is returned by calls subsequent to Cancel()
	ErrCancelled = errors.New("cancelled")

	_ io.WriteCloser = &File{}
)

// File writes to a temporary file until Close renames it into place.
// Any error along the way sticks and Close cleans the temp file up.
type File struct {
	dstPath string
	dir     string
	tmpFile *os.File
	tmpPath string
	err     error
}

// New starts an atomic write of path
func New(path string) (*File, error) {
	dir, name := filepath.Split(path)
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrInvalid}
	}
	tmpFile, err := os.CreateTemp(dir, name)
	if err != nil {
		return nil, err
	}
	return &File{
		dstPath: path,
		dir:     dir,
		tmpFile: tmpFile,
		tmpPath: tmpFile.Name(),
	}, nil
}

func (f *File) stick(err error) error {
	if err == nil {
		return nil
	}
	if f.err == nil {
		f.err = err
	}
	_ = f.Close()
	return err
}

func (f *File) Write(d []byte) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	n, err := f.tmpFile.Write(d)
	return n, f.stick(err)
}

func (f *File) WriteString(s string) (int, error) {
	return f.Write([]byte(s))
}

// Cancel abandons the write and removes the temp file. The
// destination is not touched. A no-op after Close.
func (f *File) Cancel() {
	if f == nil || f.tmpFile == nil {
		return
	}
	f.err = ErrCancelled
	_ = f.Close()
}

// Close syncs and renames the temp file over the destination, unless
// an earlier error or Cancel happened, in which case the temp file is
// removed. Safe to call more than once.
func (f *File) Close() error {
	if f.tmpFile == nil {
		return f.err
	}
	tmpFile := f.tmpFile
	f.tmpFile = nil

	// https://www.joeshaw.org/dont-defer-close-on-writable-files/
	errSync := tmpFile.Sync()
	errClose := tmpFile.Close()

	didRename := false
	defer func() {
		if !didRename {
			_ = os.Remove(f.tmpPath)
		}
	}()

	if f.err != nil {
		return f.err
	}
	err := errSync
	if err == nil {
		err = errClose
	}
	if err == nil {
		err = os.Rename(f.tmpPath, f.dstPath)
		didRename = err == nil
		// sync the directory so the rename survives a crash
		if fdir, _ := os.Open(f.dir); fdir != nil {
			_ = fdir.Sync()
			_ = fdir.Close()
		}
	}
	f.err = err
	return f.err
}

// WriteFile writes data to path atomically
func WriteFile(path string, data []byte) error {
	f, err := New(path)
	if err != nil {
		return err
	}
	if _, err = f.Write(data); err != nil {
		return err
	}
	return f.Close()
}
