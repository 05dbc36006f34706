package git

import "context"

// MemoryRepository is an in-memory Repository.
// It lets tests and tools provide predefined commits and blobs without a real Git repository.
type MemoryRepository struct {
	Label   string
	Commits []CommitEntry
	Blobs   map[string][]byte
	Error   error // returned by ForEachCommit after all commits were delivered
}

// NewMemoryRepository creates a new MemoryRepository with the given data.
func NewMemoryRepository(label string, commits []CommitEntry, blobs map[string][]byte) *MemoryRepository {
	if blobs == nil {
		blobs = make(map[string][]byte)
	}
	return &MemoryRepository{
		Label:   label,
		Commits: commits,
		Blobs:   blobs,
	}
}

// ForEachCommit delivers the predefined commits in order.
func (m *MemoryRepository) ForEachCommit(ctx context.Context, fn func(CommitEntry) error) error {
	for _, c := range m.Commits {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(c); err != nil {
			return err
		}
	}
	return m.Error
}

// ReadBlob returns the stored blob or ErrBlobNotFound.
func (m *MemoryRepository) ReadBlob(id string) ([]byte, error) {
	content, ok := m.Blobs[id]
	if !ok {
		return nil, ErrBlobNotFound
	}
	return content, nil
}

// Root returns the configured label.
func (m *MemoryRepository) Root() string {
	return m.Label
}
