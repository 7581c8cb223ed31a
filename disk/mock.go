package disk

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"testing/fstest"
)

// Mock is an in-memory FileSystem for tests. It records every write and
// removal and can be told to fail specific paths.
type Mock struct {
	mu      sync.Mutex
	files   fstest.MapFS
	tempSeq int

	Writes     []string
	Removes    []string
	RemoveAlls []string

	// FailWrite, FailRemove and FailRemoveAll map a path to the error the
	// corresponding call returns for it.
	FailWrite     map[string]error
	FailRemove    map[string]error
	FailRemoveAll map[string]error
}

// NewMock creates an empty Mock.
func NewMock() *Mock {
	return &Mock{
		files:         fstest.MapFS{},
		FailWrite:     make(map[string]error),
		FailRemove:    make(map[string]error),
		FailRemoveAll: make(map[string]error),
	}
}

func key(p string) string {
	k := strings.TrimPrefix(path.Clean(filepath.ToSlash(p)), "/")
	if k == "" {
		return "."
	}
	return k
}

// Put seeds a file without recording a write.
func (m *Mock) Put(p, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[key(p)] = &fstest.MapFile{Data: []byte(content), Mode: 0644}
}

// Mkdir seeds an empty directory.
func (m *Mock) Mkdir(p string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[key(p)] = &fstest.MapFile{Mode: fs.ModeDir | 0755}
}

// Content returns the stored content of p.
func (m *Mock) Content(p string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[key(p)]
	if !ok || f.Mode.IsDir() {
		return "", false
	}
	return string(f.Data), true
}

func (m *Mock) ReadDir(dir string) ([]fs.DirEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fs.ReadDir(m.files, key(dir))
}

func (m *Mock) ReadFile(p string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fs.ReadFile(m.files, key(p))
}

func (m *Mock) WriteFile(p string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Writes = append(m.Writes, p)
	if err := m.FailWrite[p]; err != nil {
		return err
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	m.files[key(p)] = &fstest.MapFile{Data: cp, Mode: 0644}
	return nil
}

func (m *Mock) Remove(p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Removes = append(m.Removes, p)
	if err := m.FailRemove[p]; err != nil {
		return err
	}
	k := key(p)
	if _, ok := m.files[k]; !ok {
		return &fs.PathError{Op: "remove", Path: p, Err: fs.ErrNotExist}
	}
	delete(m.files, k)
	return nil
}

func (m *Mock) RemoveAll(p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RemoveAlls = append(m.RemoveAlls, p)
	if err := m.FailRemoveAll[p]; err != nil {
		return err
	}
	k := key(p)
	for name := range m.files {
		if name == k || strings.HasPrefix(name, k+"/") {
			delete(m.files, name)
		}
	}
	return nil
}

func (m *Mock) Exists(p string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, err := fs.Stat(m.files, key(p))
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (m *Mock) MkdirTemp(pattern string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tempSeq++
	dir := fmt.Sprintf("/tmp/%s%d", strings.TrimSuffix(pattern, "*"), m.tempSeq)
	m.files[key(dir)] = &fstest.MapFile{Mode: fs.ModeDir | 0755}
	return dir, nil
}
