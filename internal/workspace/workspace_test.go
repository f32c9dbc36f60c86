package workspace

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestEnsureTreeCreatesAndReuses(t *testing.T) {
	mgr := NewManager(t.TempDir())
	if err := mgr.EnsureRoot(); err != nil {
		t.Fatalf("EnsureRoot() failed: %v", err)
	}

	tree, err := mgr.EnsureTree("demo-app")
	if err != nil {
		t.Fatalf("EnsureTree() failed: %v", err)
	}
	if filepath.Base(tree) != "demo-app" {
		t.Errorf("unexpected tree path: %s", tree)
	}
	if _, err := os.Stat(tree); err != nil {
		t.Fatalf("tree directory missing: %v", err)
	}

	// A file placed in the tree survives repeated EnsureTree calls.
	marker := filepath.Join(tree, "index.html")
	if err := os.WriteFile(marker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write marker: %v", err)
	}
	again, err := mgr.EnsureTree("demo-app")
	if err != nil {
		t.Fatalf("second EnsureTree() failed: %v", err)
	}
	if again != tree {
		t.Errorf("tree path changed between calls: %s vs %s", tree, again)
	}
	if _, err := os.Stat(marker); err != nil {
		t.Errorf("existing tree contents were not preserved: %v", err)
	}
}

func TestEnsureTreeRejectsEmptyName(t *testing.T) {
	mgr := NewManager(t.TempDir())
	if _, err := mgr.EnsureTree(""); err == nil {
		t.Fatal("expected error for empty repository name")
	}
}

func TestLockSerializesSameRepo(t *testing.T) {
	mgr := NewManager(t.TempDir())

	release := mgr.Lock("demo-app")
	acquired := make(chan struct{})
	go func() {
		r := mgr.Lock("demo-app")
		close(acquired)
		r()
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while first still held")
	case <-time.After(50 * time.Millisecond):
	}

	release()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second lock never acquired after release")
	}
}

func TestLockAllowsDifferentRepos(t *testing.T) {
	mgr := NewManager(t.TempDir())

	release := mgr.Lock("repo-a")
	defer release()

	done := make(chan struct{})
	go func() {
		r := mgr.Lock("repo-b")
		r()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on a different repository blocked")
	}
}

func TestLockConcurrentCounter(t *testing.T) {
	mgr := NewManager(t.TempDir())

	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release := mgr.Lock("same")
			defer release()
			counter++
		}()
	}
	wg.Wait()
	if counter != 32 {
		t.Fatalf("expected 32 serialized increments, got %d", counter)
	}
}
