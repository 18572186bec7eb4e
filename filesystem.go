package main

import (
	"io"
	"os"
)

// FileSystem is the read-only view of the disk used to serve requests.
// Names are absolute paths that already passed the containment check.
type FileSystem interface {
	Stat(name string) (os.FileInfo, error)
	Open(name string) (io.ReadCloser, error)
}

type osFileSystem struct{}

func (osFileSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

func (osFileSystem) Open(name string) (io.ReadCloser, error) {
	return os.Open(name)
}
