package state_test

import (
	"fmt"
	"os"
	"sync"
	"testing"

	"fiddle-server/state"
)

func TestNewStoreMissingFile(t *testing.T) {
	dir := t.TempDir()
	s, err := state.NewStore(dir + "/nonexistent.json")
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	got := s.Get()
	if len(got.CustomEditors) != 0 {
		t.Fatalf("expected no custom editors, got %d", len(got.CustomEditors))
	}
	if len(got.RecentlyOpened) != 0 {
		t.Fatalf("expected empty recentlyOpened, got %d", len(got.RecentlyOpened))
	}
}

func TestNewStoreCorruptFile(t *testing.T) {
	path := t.TempDir() + "/state.json"
	os.WriteFile(path, []byte("not-json"), 0644)
	if _, err := state.NewStore(path); err == nil {
		t.Fatal("expected error for corrupt state file")
	}
}

func TestSaveAndReload(t *testing.T) {
	path := t.TempDir() + "/state.json"
	s, _ := state.NewStore(path)

	if err := s.Save(state.AppState{CustomEditors: []string{"util.js"}}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	s2, err := state.NewStore(path)
	if err != nil {
		t.Fatalf("NewStore reload: %v", err)
	}
	got := s2.Get()
	if len(got.CustomEditors) != 1 || got.CustomEditors[0] != "util.js" {
		t.Fatalf("expected custom editor util.js, got %v", got.CustomEditors)
	}
}

func TestAddCustomEditorDeduplicates(t *testing.T) {
	path := t.TempDir() + "/state.json"
	s, _ := state.NewStore(path)

	s.AddCustomEditor("a.js")
	s.AddCustomEditor("b.js")
	s.AddCustomEditor("a.js")

	got := s.Get()
	if len(got.CustomEditors) != 2 {
		t.Fatalf("expected 2 custom editors (no dup), got %v", got.CustomEditors)
	}

	s2, _ := state.NewStore(path)
	if len(s2.Get().CustomEditors) != 2 {
		t.Fatalf("custom editors were not persisted: %v", s2.Get().CustomEditors)
	}
}

func TestMarkOpenedMRUOrder(t *testing.T) {
	s, _ := state.NewStore(t.TempDir() + "/state.json")

	s.MarkOpened("/a")
	s.MarkOpened("/b")
	s.MarkOpened("/c")
	s.MarkOpened("/a") // moves /a to the front, no duplicate

	got := s.Get().RecentlyOpened
	want := []string{"/a", "/c", "/b"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i, p := range want {
		if got[i] != p {
			t.Fatalf("position %d: expected %q, got %q", i, p, got[i])
		}
	}
}

func TestMarkOpenedCap10(t *testing.T) {
	s, _ := state.NewStore(t.TempDir() + "/state.json")
	for i := 0; i < 12; i++ {
		s.MarkOpened(fmt.Sprintf("/fiddle-%d", i))
	}
	got := s.Get().RecentlyOpened
	if len(got) != 10 {
		t.Fatalf("expected cap of 10, got %d: %v", len(got), got)
	}
	if got[0] != "/fiddle-11" {
		t.Fatalf("expected most recent first, got %q", got[0])
	}
}

func TestMemoryOnlyStore(t *testing.T) {
	s, err := state.NewStore("")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := s.AddCustomEditor("x.js"); err != nil {
		t.Fatalf("AddCustomEditor: %v", err)
	}
	if got := s.Get().CustomEditors; len(got) != 1 {
		t.Fatalf("expected in-memory custom editor, got %v", got)
	}
}

func TestConcurrentUpdates(t *testing.T) {
	s, _ := state.NewStore(t.TempDir() + "/state.json")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			s.MarkOpened(fmt.Sprintf("/p%d", n))
		}(i)
	}
	wg.Wait()
	if got := s.Get().RecentlyOpened; len(got) != 10 {
		t.Fatalf("expected 10 entries, got %d", len(got))
	}
}
