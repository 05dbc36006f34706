package git

import "context"

// Repository defines the interface the walker needs from a version-control store.
// This abstraction allows for easier testing and alternative storage backends.
type Repository interface {
	BlobReader

	// ForEachCommit calls fn for each commit in the repository's native walk order.
	// A non-nil error from fn stops the iteration and is returned.
	ForEachCommit(ctx context.Context, fn func(CommitEntry) error) error

	// Root returns the label used to prefix record paths.
	Root() string
}

// Compile-time interface conformance checks.
var (
	_ Repository = (*GoGitRepository)(nil)
	_ Repository = (*CLIRepository)(nil)
	_ Repository = (*MemoryRepository)(nil)
)
