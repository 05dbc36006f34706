// Package lang classifies changed files by programming language.
package lang

import (
	"sort"

	"github.com/src-d/enry/v2"

	"github.com/masmgr/repomine-go/internal/git"
)

// Classifier maps a file to the languages it may be written in.
type Classifier struct{}

// NewClassifier creates a classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify returns the candidate languages of path.
// With content every enry strategy is applied; without it only the extension is used.
// An empty path yields an empty slice.
func (c *Classifier) Classify(path string, content []byte) []string {
	if path == "" {
		return []string{}
	}
	if content != nil {
		langs := enry.GetLanguages(path, content)
		if langs == nil {
			return []string{}
		}
		return langs
	}
	if l, _ := enry.GetLanguageByExtension(path); l != "" {
		return []string{l}
	}
	return []string{}
}

// ClassifyRecord classifies a record from the blob it points at, which is the
// file content at that commit. An unreadable blob falls back to the extension.
func (c *Classifier) ClassifyRecord(rec git.ChangeRecord, blobs git.BlobReader) []string {
	if rec.Path == "" {
		return []string{}
	}
	if rec.BlobID != "" && blobs != nil {
		if content, err := blobs.ReadBlob(rec.BlobID); err == nil {
			return c.Classify(rec.Path, content)
		}
	}
	return c.Classify(rec.Path, nil)
}

// Usage accumulates per-language statistics.
type Usage struct {
	Language     string
	Files        int
	Records      int
	AddedLines   int
	DeletedLines int

	files map[string]struct{}
}

// ChurnTotal returns total lines changed (added + deleted).
func (u *Usage) ChurnTotal() int {
	return u.AddedLines + u.DeletedLines
}

// Unclassified is the bucket for records without a language.
const Unclassified = "(unknown)"

// LanguageStats aggregates records by language.
type LanguageStats struct {
	usage map[string]*Usage
	// Vendored counts records under vendored paths; they are not attributed to a language.
	Vendored int
}

// NewLanguageStats creates an empty aggregate.
func NewLanguageStats() *LanguageStats {
	return &LanguageStats{usage: make(map[string]*Usage)}
}

// Add accounts one record under its first language.
func (s *LanguageStats) Add(rec git.ChangeRecord, langs []string) {
	if rec.Path != "" && enry.IsVendor(rec.Path) {
		s.Vendored++
		return
	}
	name := Unclassified
	if len(langs) > 0 && langs[0] != "" {
		name = langs[0]
	}
	u, ok := s.usage[name]
	if !ok {
		u = &Usage{Language: name, files: make(map[string]struct{})}
		s.usage[name] = u
	}
	u.Records++
	u.AddedLines += rec.AddedLines()
	u.DeletedLines += rec.DeletedLines()
	if rec.Path != "" {
		u.files[rec.Path] = struct{}{}
		u.Files = len(u.files)
	}
}

// Sorted returns every language ordered by record count, then by name.
func (s *LanguageStats) Sorted() []*Usage {
	out := make([]*Usage, 0, len(s.usage))
	for _, u := range s.usage {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Records != out[j].Records {
			return out[i].Records > out[j].Records
		}
		return out[i].Language < out[j].Language
	})
	return out
}
