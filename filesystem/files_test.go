// SPDX-License-Identifier: GPL-2.0-or-later

package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/pkg/errors"

	"ozphys/pack"
)

func writePack(t *testing.T, name string, entries []pack.Entry) {
	t.Helper()
	f, err := os.Create(name)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := pack.Write(f, entries); err != nil {
		t.Fatal(err)
	}
}

func setupDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "doc1.txt"), []byte("plain"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "doc5.txt"), []byte("good file5\n"), 0644); err != nil {
		t.Fatal(err)
	}
	writePack(t, filepath.Join(dir, "pak0.pak"), []pack.Entry{
		{Name: "doc1.txt", Data: []byte("pak0 doc1")},
		{Name: "doc2.txt", Data: []byte("pak0 doc2")},
	})
	writePack(t, filepath.Join(dir, "pak1.pak"), []pack.Entry{
		{Name: "doc2.txt", Data: []byte("pak1 doc2")},
	})
	return dir
}

func TestFilesystemOrder(t *testing.T) {
	UseBaseDir(setupDir(t))
	defer Reset()
	tests := []struct {
		name, want string
	}{
		{"doc1.txt", "pak0 doc1"},
		{"doc2.txt", "pak1 doc2"},
		{"doc5.txt", "good file5\n"},
		{"/doc5.txt", "good file5\n"},
	}
	for _, tc := range tests {
		b, err := ReadFile(tc.name)
		if err != nil {
			t.Errorf("ReadFile(%s) = %v", tc.name, err)
			continue
		}
		if string(b) != tc.want {
			t.Errorf("ReadFile(%s) = %q, want %q", tc.name, b, tc.want)
		}
	}
	if _, err := ReadFile("doc9.txt"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ReadFile(doc9.txt) = %v, want ErrNotExist", err)
	}
}

func TestMountShadows(t *testing.T) {
	defer Reset()
	Mount("a", fstest.MapFS{"x.bsp": {Data: []byte("a")}})
	Mount("b", fstest.MapFS{"x.bsp": {Data: []byte("b")}})
	b, err := ReadFile("x.bsp")
	if err != nil || string(b) != "b" {
		t.Errorf("ReadFile(x.bsp) = %q, %v, want b", b, err)
	}
}

func TestExt(t *testing.T) {
	tests := []struct {
		path, ext, strip string
	}{
		{"maps/arena.bsp", ".bsp", "maps/arena"},
		{"maps.d/arena", "", "maps.d/arena"},
		{"terrain.tt.gz", ".gz", "terrain.tt"},
		{"", "", ""},
	}
	for _, tc := range tests {
		if got := Ext(tc.path); got != tc.ext {
			t.Errorf("Ext(%q) = %q, want %q", tc.path, got, tc.ext)
		}
		if got := StripExt(tc.path); got != tc.strip {
			t.Errorf("StripExt(%q) = %q, want %q", tc.path, got, tc.strip)
		}
	}
}
