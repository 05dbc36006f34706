package stargazers

import "sort"

// Counter maps a repository full name to the number of times it was counted.
type Counter map[string]int

// RepoCount is one ranked counter entry.
type RepoCount struct {
	Name  string
	Count int
}

// MostCommon returns the n highest counts, ties ordered by name.
// A non-positive n returns every entry.
func (c Counter) MostCommon(n int) []RepoCount {
	out := make([]RepoCount, 0, len(c))
	for name, count := range c {
		out = append(out, RepoCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
