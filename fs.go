package pragma

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"sync"
)

// If a buffer's capacity exceeds this value, don't put it back in the pool
// because it's too expensive to keep it around in memory.
//
// From https://victoriametrics.com/blog/tsdb-performance-techniques-sync-pool/
const maxPoolableBufferCapacity = 1 << 18

var bufPool = sync.Pool{
	New: func() any { return &bytes.Buffer{} },
}

// FS represents a writeable filesystem, narrowed to the operations the
// generator performs: reading sources, listing directories and writing
// output files. Because Open has the stdlib signature, every FS is also an
// fs.FS and works with fs.ReadFile, fs.Stat and friends.
type FS interface {
	// WithContext returns a new FS with the given context which applies to all
	// subsequent operations carried out by the filesystem.
	WithContext(context.Context) FS

	// Open opens the named file.
	Open(name string) (fs.File, error)

	// OpenWriter opens an io.WriteCloser that represents a writeable instance
	// of a file. The parent directory must exist. If the file doesn't exist,
	// it should be created. If the file exists, it should be truncated. Write
	// operations should ideally be atomic i.e. if two writers are writing to
	// the same file, last writer wins.
	OpenWriter(name string, perm fs.FileMode) (io.WriteCloser, error)

	// ReadDir reads the named directory and returns a list of directory
	// entries sorted by filename.
	ReadDir(name string) ([]fs.DirEntry, error)

	// MkdirAll creates a directory with the given name, along with any
	// necessary parents, and returns nil, or else returns an error.
	MkdirAll(name string, perm fs.FileMode) error
}

// WriteFile writes data to the named file on fsys, creating or truncating
// it.
func WriteFile(fsys FS, name string, data []byte) error {
	writer, err := fsys.OpenWriter(name, 0644)
	if err != nil {
		return err
	}
	defer writer.Close()
	_, err = writer.Write(data)
	if err != nil {
		return err
	}
	return writer.Close()
}
