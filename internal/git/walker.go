package git

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Walker produces change records from a repository's commit history.
type Walker struct {
	repo  Repository
	opts  WalkOptions
	stats WalkStats

	filterCache map[string]bool
}

// NewWalker creates a walker over the given repository.
func NewWalker(repo Repository, opts WalkOptions) *Walker {
	if opts.RootLabel == "" {
		opts.RootLabel = repo.Root()
	}
	if opts.Size == nil {
		opts.Size = CharSize
	}
	return &Walker{
		repo:        repo,
		opts:        opts,
		filterCache: make(map[string]bool),
	}
}

// Walk returns every record in walk order.
func (w *Walker) Walk(ctx context.Context) ([]ChangeRecord, error) {
	var records []ChangeRecord
	err := w.Each(ctx, func(res MapResult) error {
		records = append(records, res.Record)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Stats returns counters collected by the last walk.
func (w *Walker) Stats() WalkStats {
	return w.stats
}

// Each streams mapping results to fn in commit order, then change order.
// An error returned by fn stops the walk and is returned unchanged.
func (w *Walker) Each(ctx context.Context, fn func(MapResult) error) error {
	w.stats = WalkStats{}

	var stop error
	err := w.repo.ForEachCommit(ctx, func(c CommitEntry) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		w.stats.Commits++
		if w.opts.OnProgress != nil {
			w.opts.OnProgress(w.stats.Commits)
		}

		if err := w.walkCommit(c, fn); err != nil {
			stop = err
			return err
		}
		return nil
	})

	switch {
	case stop != nil:
		return stop
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, ErrRepositoryUnavailable):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrRepositoryUnavailable, err)
	}
}

func (w *Walker) walkCommit(c CommitEntry, fn func(MapResult) error) error {
	author, err := ParseAuthor(c.AuthorString)
	if err != nil {
		w.stats.MalformedAuthors++
	}
	base := ChangeRecord{
		Author:   author.Name,
		Email:    author.Email,
		CommitID: c.ID,
	}

	for _, ev := range c.Changes {
		switch ev := ev.(type) {
		case SingleChange:
			if err := w.emit(ev, base, fn); err != nil {
				return err
			}
		case CompositeChange:
			for _, part := range ev.Parts {
				if err := w.emit(part, base, fn); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (w *Walker) emit(ev SingleChange, base ChangeRecord, fn func(MapResult) error) error {
	ok, err := w.matchesFilters(ev.RelPath())
	if err != nil {
		return err
	}
	if !ok {
		w.stats.Filtered++
		return nil
	}

	res := mapChange(ev, w.repo, w.opts.RootLabel, base, w.opts.Size)
	w.stats.Records++
	switch {
	case res.Partial == nil:
	case errors.Is(res.Partial, ErrDecode):
		w.stats.DecodeFailures++
	case errors.Is(res.Partial, ErrBlobNotFound):
		w.stats.MissingBlobs++
	default:
		w.stats.OtherFailures++
	}
	return fn(res)
}

// matchesFilters checks if a path matches the include/exclude filters.
func (w *Walker) matchesFilters(path string) (bool, error) {
	if len(w.opts.Include) == 0 && len(w.opts.Exclude) == 0 {
		return true, nil
	}

	// Normalize path separators
	path = strings.ReplaceAll(path, "\\", "/")
	if ok, cached := w.filterCache[path]; cached {
		return ok, nil
	}

	ok, err := matchPatterns(path, w.opts.Include, w.opts.Exclude)
	if err != nil {
		return false, err
	}
	w.filterCache[path] = ok
	return ok, nil
}

func matchPatterns(path string, include, exclude []string) (bool, error) {
	// Check exclude patterns first
	for _, pattern := range exclude {
		matched, err := doublestar.Match(pattern, path)
		if err != nil {
			return false, fmt.Errorf("exclude pattern %q: %w", pattern, err)
		}
		if matched {
			return false, nil
		}
	}

	if len(include) == 0 {
		return true, nil
	}

	for _, pattern := range include {
		matched, err := doublestar.Match(pattern, path)
		if err != nil {
			return false, fmt.Errorf("include pattern %q: %w", pattern, err)
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}

// ValidatePatterns reports the first malformed glob pattern.
func ValidatePatterns(patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid glob pattern %q", p)
		}
	}
	return nil
}
