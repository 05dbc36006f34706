package pipeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

type testRepo struct {
	t    testing.TB
	dir  string
	wt   *gogit.Worktree
	when time.Time
}

func newTestRepo(tb testing.TB, dir string) *testRepo {
	tb.Helper()

	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		tb.Fatalf("PlainInit: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		tb.Fatalf("Worktree: %v", err)
	}
	return &testRepo{
		t:    tb,
		dir:  dir,
		wt:   wt,
		when: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (r *testRepo) write(rel, content string) {
	r.t.Helper()
	full := filepath.Join(r.dir, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		r.t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		r.t.Fatalf("WriteFile: %v", err)
	}
	if _, err := r.wt.Add(rel); err != nil {
		r.t.Fatalf("Add: %v", err)
	}
}

func (r *testRepo) commit(msg, name, email string) plumbing.Hash {
	r.t.Helper()
	r.when = r.when.Add(time.Hour)
	sig := &object.Signature{Name: name, Email: email, When: r.when}
	h, err := r.wt.Commit(msg, &gogit.CommitOptions{Author: sig, Committer: sig})
	if err != nil {
		r.t.Fatalf("Commit: %v", err)
	}
	return h
}

// pythonRepo creates a repository with two commits: one adding two files and
// one modifying the Python file.
func pythonRepo(tb testing.TB, dir string) *testRepo {
	tb.Helper()
	r := newTestRepo(tb, dir)
	r.write("app.py", "import os\n\ndef main():\n    return os.getcwd()\n")
	r.write("README.md", "# demo\n")
	r.commit("initial", "Alice Smith", "alice@example.com")
	r.write("app.py", "import os\nimport sys\n\ndef main():\n    return sys.argv\n")
	r.commit("use sys", "Bob Jones", "bob@example.com")
	return r
}
