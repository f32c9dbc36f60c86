package testforge

import (
	"testing"

	"pageforge/internal/foundation/errors"
)

func TestClientRecordsCreations(t *testing.T) {
	c := NewClient("/tmp/site.git")

	if err := c.EnsureRepo(t.Context(), "demo-app"); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if err := c.EnsureRepo(t.Context(), "other-app"); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	got := c.CreatedRepos()
	if len(got) != 2 || got[0] != "demo-app" || got[1] != "other-app" {
		t.Errorf("created = %v", got)
	}
	if c.RepoURL("demo-app") != "https://github.com/octo/demo-app" {
		t.Errorf("repo url = %q", c.RepoURL("demo-app"))
	}
}

func TestClientFailForbidden(t *testing.T) {
	c := NewClient("/tmp/site.git")
	c.FailForbidden()

	err := c.EnsureRepo(t.Context(), "demo-app")
	if err == nil {
		t.Fatal("expected failure")
	}
	if !errors.HasCategory(err, errors.CategoryForge) {
		t.Errorf("category = %v, want forge", errors.GetCategory(err))
	}
	if got := c.CreatedRepos(); len(got) != 0 {
		t.Errorf("created = %v, want none", got)
	}
}
