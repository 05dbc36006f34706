package aggregation

import (
	"sort"

	"github.com/masmgr/repomine-go/internal/entropy"
	"github.com/masmgr/repomine-go/internal/git"
)

// AuthorSummary holds aggregated contribution metrics for one author.
type AuthorSummary struct {
	Author       string
	Email        string
	Commits      int
	Files        int
	AddedLines   int
	DeletedLines int
	Partial      int
	// Languages counts records per classified language.
	Languages map[string]int
	// MeanEntropy is the average change entropy over the author's commits.
	MeanEntropy float64

	commits  map[string][]git.ChangeRecord
	order    []string
	files    map[string]struct{}
	entropyC *entropy.Calculator
}

// NewAuthorSummary creates an empty summary for author.
func NewAuthorSummary(author, email string) *AuthorSummary {
	return &AuthorSummary{
		Author:    author,
		Email:     email,
		Languages: make(map[string]int),
		commits:   make(map[string][]git.ChangeRecord),
		files:     make(map[string]struct{}),
		entropyC:  entropy.NewCalculator(),
	}
}

// ChurnTotal returns total lines changed (added + deleted).
func (a *AuthorSummary) ChurnTotal() int {
	return a.AddedLines + a.DeletedLines
}

// TopLanguage returns the language with the most records, or "" when none was classified.
func (a *AuthorSummary) TopLanguage() string {
	best, bestCount := "", 0
	for lang, n := range a.Languages {
		if n > bestCount || (n == bestCount && lang < best) {
			best, bestCount = lang, n
		}
	}
	return best
}

// Add accounts one record and the languages it was classified as.
func (a *AuthorSummary) Add(r git.ChangeRecord, langs []string) {
	if a.Email == "" {
		a.Email = r.Email
	}
	if _, ok := a.commits[r.CommitID]; !ok {
		a.order = append(a.order, r.CommitID)
	}
	a.commits[r.CommitID] = append(a.commits[r.CommitID], r)
	a.Commits = len(a.commits)

	a.AddedLines += r.AddedLines()
	a.DeletedLines += r.DeletedLines()
	if !r.Complete() {
		a.Partial++
	}
	if r.Path != "" {
		a.files[r.Path] = struct{}{}
		a.Files = len(a.files)
	}
	for _, l := range langs {
		a.Languages[l]++
	}
}

func (a *AuthorSummary) finish() {
	if len(a.order) == 0 {
		a.MeanEntropy = 0
		return
	}
	total := 0.0
	for _, id := range a.order {
		total += a.entropyC.CommitEntropy(a.commits[id])
	}
	a.MeanEntropy = total / float64(len(a.order))
}

// AuthorAggregator builds per-author summaries from a record stream.
type AuthorAggregator struct {
	summaries map[string]*AuthorSummary
}

// NewAuthorAggregator creates a new aggregator.
func NewAuthorAggregator() *AuthorAggregator {
	return &AuthorAggregator{
		summaries: make(map[string]*AuthorSummary),
	}
}

// Add accounts one record under its author.
func (g *AuthorAggregator) Add(r git.ChangeRecord, langs []string) {
	s, ok := g.summaries[r.Author]
	if !ok {
		s = NewAuthorSummary(r.Author, r.Email)
		g.summaries[r.Author] = s
	}
	s.Add(r, langs)
}

// Summaries returns every author ordered by churn, then by name.
func (g *AuthorAggregator) Summaries() []*AuthorSummary {
	out := make([]*AuthorSummary, 0, len(g.summaries))
	for _, s := range g.summaries {
		s.finish()
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ChurnTotal() != out[j].ChurnTotal() {
			return out[i].ChurnTotal() > out[j].ChurnTotal()
		}
		return out[i].Author < out[j].Author
	})
	return out
}

// SummarizeAuthors aggregates records without language information.
func SummarizeAuthors(records []git.ChangeRecord) []*AuthorSummary {
	g := NewAuthorAggregator()
	for _, r := range records {
		g.Add(r, nil)
	}
	return g.Summaries()
}
