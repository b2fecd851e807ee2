// SPDX-License-Identifier: GPL-2.0-or-later

package filesystem

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"ozphys/pack"
)

// File is an open file of any mount.
type File interface {
	io.ReadSeekCloser
	io.ReaderAt
}

type mount struct {
	fsys fs.FS
	name string
	pak  *pack.Pack
}

var (
	baseDir string
	mounts  []mount
	mutex   sync.RWMutex
)

// Mount adds fsys on top of all previous mounts.
func Mount(name string, fsys fs.FS) {
	mutex.Lock()
	defer mutex.Unlock()
	mounts = append(mounts, mount{fsys: fsys, name: name})
}

// MountPack opens the PACK archive at name and mounts it.
func MountPack(name string) error {
	p, err := pack.NewPackReader(name)
	if err != nil {
		return errors.Wrapf(err, "filesystem: mount %s", name)
	}
	mutex.Lock()
	defer mutex.Unlock()
	mounts = append(mounts, mount{fsys: p, name: name, pak: p})
	return nil
}

// Reset removes all mounts.
func Reset() {
	mutex.Lock()
	defer mutex.Unlock()
	for _, m := range mounts {
		if m.pak != nil {
			m.pak.Close()
		}
	}
	mounts = nil
	baseDir = ""
}

func BaseDir() string {
	mutex.RLock()
	defer mutex.RUnlock()
	return baseDir
}

// UseBaseDir replaces all mounts with dir and the pak%d.pak archives found
// inside of it. Higher numbered archives shadow lower ones, all of them
// shadow the plain directory.
func UseBaseDir(dir string) {
	Reset()
	mutex.Lock()
	baseDir = dir
	mutex.Unlock()
	Mount(dir, os.DirFS(dir))
	for i := 0; ; i++ {
		pfp := filepath.Join(dir, fmt.Sprintf("pak%d.pak", i))
		if err := MountPack(pfp); err != nil {
			break
		}
		slog.Debug("Mounted pack", slog.String("name", pfp))
	}
}

func clean(name string) string {
	return strings.TrimPrefix(path.Clean("/"+filepath.ToSlash(name)), "/")
}

func Open(name string) (File, error) {
	name = clean(name)
	mutex.RLock()
	defer mutex.RUnlock()
	for i := len(mounts) - 1; i >= 0; i-- {
		nf, err := mounts[i].fsys.Open(name)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}
		f, ok := nf.(File)
		if !ok {
			nf.Close()
			return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
		}
		return f, nil
	}
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

func ReadFile(name string) ([]byte, error) {
	file, err := Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

func isSep(c uint8) bool {
	return c == '/' || c == '\\'
}

func Ext(path string) string {
	for i := len(path) - 1; i >= 0 && !isSep(path[i]); i-- {
		if path[i] == '.' {
			return path[i:]
		}
	}
	return ""
}

func StripExt(path string) string {
	for i := len(path) - 1; i >= 0 && !isSep(path[i]); i-- {
		if path[i] == '.' {
			return path[:i]
		}
	}
	return path
}
