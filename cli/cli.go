// Package cli implements the commands of the pragma binary. Every command
// follows the same shape: a Cmd struct holding its dependencies and
// parameters, a Command constructor that parses flags and wires the struct
// up, and a Run method that does the work.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/wsshaw/pragma"
)

// SiteFS returns a DirectoryFS rooted at dir. The directory must already
// exist; pragma never creates site directories implicitly.
func SiteFS(dir string) (*pragma.DirectoryFS, error) {
	if dir == "" {
		dir = "."
	}
	dir = filepath.Clean(dir)
	fileInfo, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !fileInfo.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}
	return pragma.NewDirectoryFS(pragma.DirectoryFSConfig{
		RootDir: dir,
		TempDir: os.TempDir(),
	})
}
