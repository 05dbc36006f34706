package git

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// RepositoryOptions configures how history is read from a go-git repository.
type RepositoryOptions struct {
	Branch       string // branch, tag or revision; empty means HEAD
	RenameDetect RenameDetectMode
	Since        *time.Time
	Until        *time.Time
}

// GoGitRepository reads commits and blobs through go-git.
type GoGitRepository struct {
	repo *git.Repository
	root string
	opts RepositoryOptions
}

// OpenRepository opens the repository at path without cloning.
func OpenRepository(path string, opts RepositoryOptions) (*GoGitRepository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrRepositoryUnavailable, path, err)
	}
	return NewGoGitRepository(repo, path, opts), nil
}

// NewGoGitRepository wraps an already opened repository.
func NewGoGitRepository(repo *git.Repository, root string, opts RepositoryOptions) *GoGitRepository {
	return &GoGitRepository{repo: repo, root: strings.TrimRight(root, "/"), opts: opts}
}

// Root returns the repository directory.
func (r *GoGitRepository) Root() string {
	return r.root
}

// WithOptions returns a handle on the same repository with different read options.
func (r *GoGitRepository) WithOptions(opts RepositoryOptions) *GoGitRepository {
	return &GoGitRepository{repo: r.repo, root: r.root, opts: opts}
}

// ReadBlob returns the content of the blob with the given hex id.
func (r *GoGitRepository) ReadBlob(id string) ([]byte, error) {
	if !plumbing.IsHash(id) {
		return nil, fmt.Errorf("%w: %q", ErrBlobNotFound, id)
	}
	blob, err := r.repo.BlobObject(plumbing.NewHash(id))
	if err != nil {
		if errors.Is(err, plumbing.ErrObjectNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, id)
		}
		return nil, err
	}
	rd, err := blob.Reader()
	if err != nil {
		return nil, err
	}
	defer rd.Close()
	return io.ReadAll(rd)
}

// ForEachCommit walks history from the configured revision in committer-time order.
// A repository without any commit yields nothing.
func (r *GoGitRepository) ForEachCommit(ctx context.Context, fn func(CommitEntry) error) error {
	from, err := r.resolveStart()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) && strings.TrimSpace(r.opts.Branch) == "" {
			return nil
		}
		return fmt.Errorf("%w: resolve %q: %v", ErrRepositoryUnavailable, r.revision(), err)
	}

	cIter, err := r.repo.Log(&git.LogOptions{
		From:  from,
		Order: git.LogOrderCommitterTime,
		Since: r.opts.Since,
		Until: r.opts.Until,
	})
	if err != nil {
		return fmt.Errorf("%w: log: %v", ErrRepositoryUnavailable, err)
	}
	defer cIter.Close()

	return cIter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		changes, err := r.commitChanges(ctx, c)
		if err != nil {
			return fmt.Errorf("%w: commit %s: %v", ErrRepositoryUnavailable, c.Hash, err)
		}
		return fn(CommitEntry{
			ID:           c.Hash.String(),
			AuthorString: c.Author.String(),
			When:         c.Author.When,
			Changes:      changes,
		})
	})
}

func (r *GoGitRepository) revision() string {
	rev := strings.TrimSpace(r.opts.Branch)
	if rev == "" {
		return "HEAD"
	}
	return rev
}

func (r *GoGitRepository) resolveStart() (plumbing.Hash, error) {
	rev := r.revision()
	if strings.EqualFold(rev, "HEAD") {
		ref, err := r.repo.Head()
		if err != nil {
			return plumbing.ZeroHash, err
		}
		return ref.Hash(), nil
	}
	h, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return plumbing.ZeroHash, err
	}
	return *h, nil
}

func (r *GoGitRepository) diffOptions() *object.DiffTreeOptions {
	switch r.opts.RenameDetect {
	case RenameDetectSimple:
		return &object.DiffTreeOptions{DetectRenames: true, OnlyExactRenames: true}
	case RenameDetectAggressive:
		return &object.DiffTreeOptions{DetectRenames: true, RenameScore: 60, RenameLimit: 0}
	default:
		return &object.DiffTreeOptions{}
	}
}

// commitChanges lists the file changes a commit introduced.
func (r *GoGitRepository) commitChanges(ctx context.Context, c *object.Commit) ([]ChangeEvent, error) {
	tree, err := c.Tree()
	if err != nil {
		return nil, err
	}

	if c.NumParents() == 0 {
		changes, err := r.diffTrees(ctx, nil, tree)
		if err != nil {
			return nil, err
		}
		return singles(changes), nil
	}

	if c.NumParents() == 1 {
		parent, err := c.Parent(0)
		if err != nil {
			return nil, err
		}
		parentTree, err := parent.Tree()
		if err != nil {
			return nil, err
		}
		changes, err := r.diffTrees(ctx, parentTree, tree)
		if err != nil {
			return nil, err
		}
		return singles(changes), nil
	}

	return r.mergeChanges(ctx, c, tree)
}

// mergeChanges reports the paths of a merge commit that differ from every
// parent, one part per parent in parent order.
func (r *GoGitRepository) mergeChanges(ctx context.Context, c *object.Commit, tree *object.Tree) ([]ChangeEvent, error) {
	perParent := make([]map[string]SingleChange, 0, c.NumParents())
	for i := 0; i < c.NumParents(); i++ {
		parent, err := c.Parent(i)
		if err != nil {
			return nil, err
		}
		parentTree, err := parent.Tree()
		if err != nil {
			return nil, err
		}
		changes, err := r.diffTrees(ctx, parentTree, tree)
		if err != nil {
			return nil, err
		}
		byPath := make(map[string]SingleChange, len(changes))
		for _, ch := range changes {
			byPath[ch.RelPath()] = ch
		}
		perParent = append(perParent, byPath)
	}

	paths := make([]string, 0, len(perParent[0]))
	for p := range perParent[0] {
		inAll := true
		for _, other := range perParent[1:] {
			if _, ok := other[p]; !ok {
				inAll = false
				break
			}
		}
		if inAll {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)

	events := make([]ChangeEvent, 0, len(paths))
	for _, p := range paths {
		parts := make([]SingleChange, 0, len(perParent))
		for _, byPath := range perParent {
			parts = append(parts, byPath[p])
		}
		events = append(events, CompositeChange{Parts: parts})
	}
	return events, nil
}

func (r *GoGitRepository) diffTrees(ctx context.Context, from, to *object.Tree) ([]SingleChange, error) {
	changes, err := object.DiffTreeWithOptions(ctx, from, to, r.diffOptions())
	if err != nil {
		return nil, err
	}

	out := make([]SingleChange, 0, len(changes))
	for _, ch := range changes {
		out = append(out, SingleChange{
			Old: changeSide(ch.From),
			New: changeSide(ch.To),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RelPath() < out[j].RelPath()
	})
	return out, nil
}

func changeSide(e object.ChangeEntry) BlobSide {
	if e.Name == "" && e.TreeEntry.Hash.IsZero() {
		return BlobSide{}
	}
	return BlobSide{Path: e.Name, BlobID: e.TreeEntry.Hash.String()}
}

func singles(changes []SingleChange) []ChangeEvent {
	events := make([]ChangeEvent, len(changes))
	for i, ch := range changes {
		events[i] = ch
	}
	return events
}
