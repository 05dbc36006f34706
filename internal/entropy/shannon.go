package entropy

import (
	"math"

	"github.com/masmgr/repomine-go/internal/git"
)

// Calculator computes the Shannon entropy of how churn spreads over the files of a change set.
// Based on Hassan (2009) "Predicting Faults Using the Complexity of Code Changes".
type Calculator struct{}

// NewCalculator creates a new entropy calculator.
func NewCalculator() *Calculator {
	return &Calculator{}
}

// CommitEntropy returns the normalized entropy of the records of one commit.
// Records sharing a path (merge parts) are merged first. The result is in [0, 1]:
//   - 0 = focused change (one file, or all churn in one file)
//   - 1 = churn evenly distributed over the files
func (c *Calculator) CommitEntropy(records []git.ChangeRecord) float64 {
	byPath := make(map[string]int, len(records))
	order := make([]string, 0, len(records))
	for _, r := range records {
		key := r.Path
		if key == "" {
			key = r.BlobID
		}
		if _, ok := byPath[key]; !ok {
			order = append(order, key)
		}
		byPath[key] += r.Churn()
	}

	churns := make([]int, len(order))
	for i, key := range order {
		churns[i] = byPath[key]
	}
	return c.Entropy(churns)
}

// Entropy returns the normalized Shannon entropy of a churn distribution.
func (c *Calculator) Entropy(churns []int) float64 {
	if len(churns) <= 1 {
		// A single file has no distribution.
		return 0.0
	}

	total := 0
	for _, churn := range churns {
		total += churn
	}
	if total == 0 {
		// No measurable churn, treat as uniform distribution
		return 1.0
	}

	// -Σ(p_i × log2(p_i))
	entropy := 0.0
	for _, churn := range churns {
		if churn > 0 {
			p := float64(churn) / float64(total)
			entropy -= p * math.Log2(p)
		}
	}

	maxEntropy := math.Log2(float64(len(churns)))
	normalized := entropy / maxEntropy

	if normalized < 0 {
		return 0.0
	}
	if normalized > 1 {
		return 1.0
	}
	return normalized
}
