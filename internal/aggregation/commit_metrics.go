package aggregation

import (
	"strings"

	"github.com/masmgr/repomine-go/internal/entropy"
	"github.com/masmgr/repomine-go/internal/git"
)

// CommitSummary holds diffusion, size, and entropy metrics for a single commit.
type CommitSummary struct {
	CommitID       string
	Author         string
	Email          string
	FileCount      int     // NF: Number of files
	DirectoryCount int     // ND: Number of directories
	SubsystemCount int     // NS: Number of subsystems (top-level directories)
	LinesAdded     int     // LA
	LinesDeleted   int     // LD
	Partial        int     // records missing counts or identity
	ChangeEntropy  float64 // Normalized Shannon entropy
}

// TotalChurn returns the total lines changed (added + deleted).
func (c *CommitSummary) TotalChurn() int {
	return c.LinesAdded + c.LinesDeleted
}

// CommitSummaryCalculator summarizes records commit by commit.
type CommitSummaryCalculator struct {
	// Root is stripped from record paths before directories are derived.
	Root string

	entropyCalculator *entropy.Calculator
}

// NewCommitSummaryCalculator creates a calculator for records labelled with root.
func NewCommitSummaryCalculator(root string) *CommitSummaryCalculator {
	return &CommitSummaryCalculator{
		Root:              root,
		entropyCalculator: entropy.NewCalculator(),
	}
}

// Calculate summarizes the records of one commit.
func (c *CommitSummaryCalculator) Calculate(records []git.ChangeRecord) CommitSummary {
	if len(records) == 0 {
		return CommitSummary{}
	}

	files := make(map[string]struct{})
	directories := make(map[string]struct{})
	subsystems := make(map[string]struct{})

	summary := CommitSummary{
		CommitID: records[0].CommitID,
		Author:   records[0].Author,
		Email:    records[0].Email,
	}

	for _, r := range records {
		summary.LinesAdded += r.AddedLines()
		summary.LinesDeleted += r.DeletedLines()
		if !r.Complete() {
			summary.Partial++
		}
		if r.Path == "" {
			continue
		}
		files[r.Path] = struct{}{}

		dir, subsystem := extractPathComponents(c.relative(r.Path))
		if dir != "" {
			directories[strings.ToLower(dir)] = struct{}{}
		}
		if subsystem != "" {
			subsystems[strings.ToLower(subsystem)] = struct{}{}
		}
	}

	summary.FileCount = len(files)
	summary.DirectoryCount = len(directories)
	summary.SubsystemCount = len(subsystems)
	if summary.SubsystemCount == 0 {
		summary.SubsystemCount = 1
	}
	summary.ChangeEntropy = c.entropyCalculator.CommitEntropy(records)
	return summary
}

// CalculateAll splits records into runs of the same commit id and summarizes each run.
// Walk order keeps the records of a commit adjacent.
func (c *CommitSummaryCalculator) CalculateAll(records []git.ChangeRecord) []CommitSummary {
	var results []CommitSummary
	start := 0
	for i := 1; i <= len(records); i++ {
		if i == len(records) || records[i].CommitID != records[start].CommitID {
			results = append(results, c.Calculate(records[start:i]))
			start = i
		}
	}
	return results
}

func (c *CommitSummaryCalculator) relative(path string) string {
	if c.Root == "" {
		return path
	}
	return strings.TrimPrefix(path, strings.TrimRight(c.Root, "/")+"/")
}

// extractPathComponents extracts directory path and subsystem from a file path.
// Subsystem is the first directory component (e.g., "src", "tests", "docs").
func extractPathComponents(path string) (directory, subsystem string) {
	if path == "" {
		return "", ""
	}

	// Normalize path separators
	normalizedPath := path
	if strings.Contains(path, "\\") {
		normalizedPath = strings.ReplaceAll(path, "\\", "/")
	}

	lastSlash := strings.LastIndex(normalizedPath, "/")
	if lastSlash <= 0 {
		// File is in root directory
		return "", ""
	}

	directory = normalizedPath[:lastSlash]

	firstSlash := strings.Index(normalizedPath, "/")
	if firstSlash > 0 {
		subsystem = normalizedPath[:firstSlash]
	} else {
		subsystem = directory
	}

	return directory, subsystem
}
