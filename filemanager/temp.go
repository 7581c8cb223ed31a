package filemanager

import "sync"

// tempDirs tracks the directories created by SaveToTemp so Close can remove
// whatever is left at shutdown.
type tempDirs struct {
	mu   sync.Mutex
	dirs map[string]struct{}
}

func newTempDirs() *tempDirs {
	return &tempDirs{dirs: make(map[string]struct{})}
}

func (t *tempDirs) add(dir string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.dirs[dir] = struct{}{}
}

func (t *tempDirs) remove(dir string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.dirs, dir)
}

func (t *tempDirs) has(dir string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.dirs[dir]
	return ok
}

func (t *tempDirs) drain() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, 0, len(t.dirs))
	for d := range t.dirs {
		out = append(out, d)
	}
	return out
}
