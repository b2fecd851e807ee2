// SPDX-License-Identifier: GPL-2.0-or-later

package pack

import (
	"bytes"
	"encoding/binary"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrFormat is returned for files that are not a valid PACK archive.
	ErrFormat = errors.New("pack: bad format")
)

type header struct {
	ID     [4]byte
	Offset int32
	Size   int32
}

type entry struct {
	Name   [56]byte
	Offset int32
	Size   int32
}

const entrySize = 64

var magic = []byte("PACK")

// Pack is a read only view on a PACK archive. It implements fs.FS.
type Pack struct {
	r     io.ReaderAt
	c     io.Closer
	files map[string]*qfile
	name  string
}

type qfile struct {
	offset int64
	size   int64
}

type fileInfo struct {
	name string
	size int64
}

func (f *fileInfo) Name() string       { return f.name }
func (f *fileInfo) Size() int64        { return f.size }
func (f *fileInfo) Mode() fs.FileMode  { return 0444 }
func (f *fileInfo) ModTime() time.Time { return time.Time{} }
func (f *fileInfo) IsDir() bool        { return false }
func (f *fileInfo) Sys() any           { return nil }

// File is an open archive member.
type File struct {
	*io.SectionReader
	info fileInfo
}

func (f *File) Stat() (fs.FileInfo, error) {
	return &f.info, nil
}

func (f *File) Close() error {
	return nil
}

// Open returns the member with the provided name. Inside a pack there is no
// root, all names are relative.
func (p *Pack) Open(name string) (fs.File, error) {
	q, ok := p.files[name]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return &File{
		SectionReader: io.NewSectionReader(p.r, q.offset, q.size),
		info:          fileInfo{name: path.Base(name), size: q.size},
	}, nil
}

// Names returns the sorted member names.
func (p *Pack) Names() []string {
	n := make([]string, 0, len(p.files))
	for k := range p.files {
		n = append(n, k)
	}
	sort.Strings(n)
	return n
}

func (p *Pack) String() string {
	return p.name
}

func (p *Pack) Close() error {
	if p.c == nil {
		return nil
	}
	return p.c.Close()
}

// NewReader reads the directory of a PACK archive of the given size.
func NewReader(r io.ReaderAt, size int64, name string) (*Pack, error) {
	p := &Pack{r: r, name: name}
	if err := p.init(size); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Pack) init(size int64) error {
	var h header
	if err := binary.Read(io.NewSectionReader(p.r, 0, size), binary.LittleEndian, &h); err != nil {
		return errors.Wrapf(ErrFormat, "%s: header: %v", p.name, err)
	}
	if !bytes.Equal(magic, h.ID[:]) {
		return errors.Wrapf(ErrFormat, "%s: not a pack", p.name)
	}
	if h.Offset < 0 || h.Size < 0 || int64(h.Offset)+int64(h.Size) > size {
		return errors.Wrapf(ErrFormat, "%s: directory out of range", p.name)
	}
	filenum := h.Size / entrySize
	dir := io.NewSectionReader(p.r, int64(h.Offset), int64(h.Size))
	p.files = make(map[string]*qfile, filenum)
	for i := int32(0); i < filenum; i++ {
		var e entry
		if err := binary.Read(dir, binary.LittleEndian, &e); err != nil {
			return errors.Wrapf(ErrFormat, "%s: entry %d: %v", p.name, i, err)
		}
		n := bytes.IndexByte(e.Name[:], 0)
		if n < 0 {
			n = len(e.Name)
		}
		name := string(e.Name[:n])
		if p.files[name] != nil {
			return errors.Wrapf(ErrFormat, "%s: %s is not unique", p.name, name)
		}
		if e.Offset < 0 || e.Size < 0 || int64(e.Offset)+int64(e.Size) > size {
			return errors.Wrapf(ErrFormat, "%s: %s out of range", p.name, name)
		}
		p.files[name] = &qfile{
			offset: int64(e.Offset),
			size:   int64(e.Size),
		}
	}
	return nil
}

// NewPackReader opens the archive at name on disk.
func NewPackReader(name string) (*Pack, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	p, err := NewReader(f, fi.Size(), name)
	if err != nil {
		f.Close()
		return nil, err
	}
	p.c = f
	return p, nil
}

// Entry is a member to store with Write.
type Entry struct {
	Name string
	Data []byte
}

// Write stores entries as a PACK archive. Member data follows the header,
// the directory is stored last.
func Write(w io.Writer, entries []Entry) error {
	offset := int32(binary.Size(header{}))
	dir := make([]entry, len(entries))
	for i, e := range entries {
		if len(e.Name) >= len(dir[i].Name) {
			return errors.Errorf("pack: name %q too long", e.Name)
		}
		copy(dir[i].Name[:], e.Name)
		dir[i].Offset = offset
		dir[i].Size = int32(len(e.Data))
		offset += int32(len(e.Data))
	}
	h := header{Offset: offset, Size: int32(len(entries) * entrySize)}
	copy(h.ID[:], magic)
	if err := binary.Write(w, binary.LittleEndian, &h); err != nil {
		return errors.Wrap(err, "pack: write header")
	}
	for _, e := range entries {
		if _, err := w.Write(e.Data); err != nil {
			return errors.Wrapf(err, "pack: write %s", e.Name)
		}
	}
	if err := binary.Write(w, binary.LittleEndian, dir); err != nil {
		return errors.Wrap(err, "pack: write directory")
	}
	return nil
}
