package aggregation

import "github.com/masmgr/repomine-go/internal/git"

// DedupeByCommit keeps one record per commit id. Each commit id stays at the
// position of its first record and carries the value of its last record.
// Records without a commit id are kept as they are.
func DedupeByCommit(records []git.ChangeRecord) []git.ChangeRecord {
	index := make(map[string]int, len(records))
	out := make([]git.ChangeRecord, 0, len(records))
	for _, r := range records {
		if r.CommitID == "" {
			out = append(out, r)
			continue
		}
		if i, ok := index[r.CommitID]; ok {
			out[i] = r
			continue
		}
		index[r.CommitID] = len(out)
		out = append(out, r)
	}
	return out
}

// GroupByAuthor buckets records by their author field, keeping walk order inside each bucket.
func GroupByAuthor(records []git.ChangeRecord) map[string][]git.ChangeRecord {
	groups := make(map[string][]git.ChangeRecord)
	for _, r := range records {
		groups[r.Author] = append(groups[r.Author], r)
	}
	return groups
}
