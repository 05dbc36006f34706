package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// testRepo is a worktree repository built commit by commit in a temp dir.
type testRepo struct {
	t    testing.TB
	dir  string
	repo *gogit.Repository
	wt   *gogit.Worktree
	when time.Time
}

func newTestRepo(tb testing.TB) *testRepo {
	tb.Helper()

	dir := tb.TempDir()
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
		repo: repo,
		wt:   wt,
		when: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (r *testRepo) write(rel string, content []byte) {
	r.t.Helper()
	full := filepath.Join(r.dir, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		r.t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(full, content, 0o644); err != nil {
		r.t.Fatalf("WriteFile: %v", err)
	}
	if _, err := r.wt.Add(rel); err != nil {
		r.t.Fatalf("Add: %v", err)
	}
}

func (r *testRepo) remove(rel string) {
	r.t.Helper()
	if _, err := r.wt.Remove(rel); err != nil {
		r.t.Fatalf("Remove: %v", err)
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

func (r *testRepo) commitWithParents(msg string, parents ...plumbing.Hash) plumbing.Hash {
	r.t.Helper()
	r.when = r.when.Add(time.Hour)
	sig := &object.Signature{Name: "Merger", Email: "merge@example.com", When: r.when}
	h, err := r.wt.Commit(msg, &gogit.CommitOptions{Author: sig, Committer: sig, Parents: parents})
	if err != nil {
		r.t.Fatalf("Commit: %v", err)
	}
	return h
}

func (r *testRepo) checkout(branch string, create bool) {
	r.t.Helper()
	if err := r.wt.Checkout(&gogit.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branch),
		Create: create,
	}); err != nil {
		r.t.Fatalf("Checkout(%s): %v", branch, err)
	}
}

func (r *testRepo) head() plumbing.Hash {
	r.t.Helper()
	ref, err := r.repo.Head()
	if err != nil {
		r.t.Fatalf("Head: %v", err)
	}
	return ref.Hash()
}

func (r *testRepo) branch() string {
	r.t.Helper()
	ref, err := r.repo.Head()
	if err != nil {
		r.t.Fatalf("Head: %v", err)
	}
	return ref.Name().Short()
}

func (r *testRepo) open(opts RepositoryOptions) *GoGitRepository {
	r.t.Helper()
	repo, err := OpenRepository(r.dir, opts)
	if err != nil {
		r.t.Fatalf("OpenRepository: %v", err)
	}
	return repo
}
