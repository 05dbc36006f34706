package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-git/go-git/v5"
)

// Acquirer opens local repositories in place and clones remote ones under ClonesDir.
type Acquirer struct {
	ClonesDir string
	Options   RepositoryOptions
	Progress  func(msg string)

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewAcquirer creates an acquirer that clones into clonesDir.
func NewAcquirer(clonesDir string, opts RepositoryOptions) *Acquirer {
	return &Acquirer{ClonesDir: clonesDir, Options: opts}
}

// IsRemote reports whether location names a remote repository rather than a local path.
func IsRemote(location string) bool {
	switch {
	case strings.Contains(location, "://"):
		return true
	case strings.HasPrefix(location, "git@"):
		return true
	}
	if info, err := os.Stat(location); err == nil && info.IsDir() {
		return false
	}
	// host/owner/repo shorthand
	parts := strings.Split(strings.Trim(location, "/"), "/")
	return len(parts) >= 3 && strings.Contains(parts[0], ".")
}

// CloneURL returns the URL passed to the clone operation.
func CloneURL(location string) string {
	if strings.Contains(location, "://") || strings.HasPrefix(location, "git@") {
		return location
	}
	return "https://" + strings.Trim(location, "/")
}

// CloneTarget returns the owner/repo pair a remote location is cloned under.
func CloneTarget(location string) (owner, name string, err error) {
	loc := strings.TrimSpace(location)
	if i := strings.Index(loc, "://"); i != -1 {
		loc = loc[i+3:]
	}
	if strings.HasPrefix(loc, "git@") {
		loc = strings.Replace(strings.TrimPrefix(loc, "git@"), ":", "/", 1)
	}
	loc = strings.TrimSuffix(strings.Trim(loc, "/"), ".git")

	parts := strings.Split(loc, "/")
	if len(parts) < 2 || parts[len(parts)-1] == "" || parts[len(parts)-2] == "" {
		return "", "", fmt.Errorf("%w: cannot derive owner/repo from %q", ErrRepositoryUnavailable, location)
	}
	return parts[len(parts)-2], parts[len(parts)-1], nil
}

// ClonePath returns the directory a remote location is cloned into.
func (a *Acquirer) ClonePath(location string) (string, error) {
	owner, name, err := CloneTarget(location)
	if err != nil {
		return "", err
	}
	return filepath.Join(a.ClonesDir, owner, name), nil
}

// OpenOrClone returns a handle on the repository named by location.
// Repeated calls for the same location reuse the existing clone.
func (a *Acquirer) OpenOrClone(ctx context.Context, location string) (*GoGitRepository, error) {
	if !IsRemote(location) {
		return OpenRepository(location, a.Options)
	}

	dir, err := a.ClonePath(location)
	if err != nil {
		return nil, err
	}

	lock := a.lockFor(dir)
	lock.Lock()
	defer lock.Unlock()

	if _, err := os.Stat(dir); err == nil {
		repo, err := git.PlainOpen(dir)
		if err != nil {
			return nil, fmt.Errorf("%w: open existing clone %s: %v", ErrRepositoryUnavailable, dir, err)
		}
		return NewGoGitRepository(repo, dir, a.Options), nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %v", ErrRepositoryUnavailable, err)
	}

	if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRepositoryUnavailable, err)
	}
	if a.Progress != nil {
		a.Progress(fmt.Sprintf("cloning %s into %s", location, dir))
	}
	repo, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{URL: CloneURL(location)})
	if err != nil {
		return nil, fmt.Errorf("%w: clone %s: %v", ErrRepositoryUnavailable, location, err)
	}
	return NewGoGitRepository(repo, dir, a.Options), nil
}

// lockFor serializes acquisition of one clone directory across workers.
func (a *Acquirer) lockFor(dir string) *sync.Mutex {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.locks == nil {
		a.locks = make(map[string]*sync.Mutex)
	}
	l, ok := a.locks[dir]
	if !ok {
		l = &sync.Mutex{}
		a.locks[dir] = l
	}
	return l
}
