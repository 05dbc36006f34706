package output

import (
	"encoding/json"
	"sort"
)

// JSONAuthorWriter writes author reports as JSON.
type JSONAuthorWriter struct{}

// JSONAuthorReport is the JSON output structure for author reports.
type JSONAuthorReport struct {
	RepoPath     string           `json:"repo"`
	GeneratedAt  string           `json:"generatedAt"`
	Records      int              `json:"records"`
	Partial      int              `json:"partial"`
	TotalAuthors int              `json:"totalAuthors"`
	Items        []JSONAuthorItem `json:"items"`
}

// JSONAuthorItem is the JSON output structure for one author.
type JSONAuthorItem struct {
	Author       string         `json:"author"`
	Email        string         `json:"email"`
	Commits      int            `json:"commits"`
	Files        int            `json:"files"`
	AddedLines   int            `json:"added"`
	DeletedLines int            `json:"deleted"`
	Partial      int            `json:"partial"`
	MeanEntropy  float64        `json:"meanEntropy"`
	Languages    map[string]int `json:"languages"`
}

// Write outputs the author report as JSON.
func (w *JSONAuthorWriter) Write(report *AuthorReport, options OutputOptions) error {
	items := limitTop(report.Items, options.Top)

	jsonItems := make([]JSONAuthorItem, len(items))
	for i, item := range items {
		jsonItems[i] = JSONAuthorItem{
			Author:       item.Author,
			Email:        item.Email,
			Commits:      item.Commits,
			Files:        item.Files,
			AddedLines:   item.AddedLines,
			DeletedLines: item.DeletedLines,
			Partial:      item.Partial,
			MeanEntropy:  item.MeanEntropy,
			Languages:    item.Languages,
		}
	}

	return writeJSON(JSONAuthorReport{
		RepoPath:     report.RepoPath,
		GeneratedAt:  report.GeneratedAt.Format(reportDateTimeLayout),
		Records:      report.Records,
		Partial:      report.Partial,
		TotalAuthors: len(report.Items),
		Items:        jsonItems,
	}, options)
}

// JSONLanguageWriter writes language reports as JSON.
type JSONLanguageWriter struct{}

// JSONLanguageReport is the JSON output structure for language reports.
type JSONLanguageReport struct {
	RepoPath    string             `json:"repo"`
	GeneratedAt string             `json:"generatedAt"`
	Records     int                `json:"records"`
	Vendored    int                `json:"vendored"`
	Items       []JSONLanguageItem `json:"items"`
}

// JSONLanguageItem is the JSON output structure for one language.
type JSONLanguageItem struct {
	Language     string `json:"language"`
	Files        int    `json:"files"`
	Records      int    `json:"records"`
	AddedLines   int    `json:"added"`
	DeletedLines int    `json:"deleted"`
}

// Write outputs the language report as JSON.
func (w *JSONLanguageWriter) Write(report *LanguageReport, options OutputOptions) error {
	items := limitTop(report.Items, options.Top)

	jsonItems := make([]JSONLanguageItem, len(items))
	for i, item := range items {
		jsonItems[i] = JSONLanguageItem{
			Language:     item.Language,
			Files:        item.Files,
			Records:      item.Records,
			AddedLines:   item.AddedLines,
			DeletedLines: item.DeletedLines,
		}
	}

	return writeJSON(JSONLanguageReport{
		RepoPath:    report.RepoPath,
		GeneratedAt: report.GeneratedAt.Format(reportDateTimeLayout),
		Records:     report.Records,
		Vendored:    report.Vendored,
		Items:       jsonItems,
	}, options)
}

// writeJSON writes data as indented JSON to the output path or stdout.
func writeJSON(data interface{}, options OutputOptions) error {
	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func sortedLanguages(langs map[string]int) []string {
	names := make([]string, 0, len(langs))
	for name := range langs {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if langs[names[i]] != langs[names[j]] {
			return langs[names[i]] > langs[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}

// JSONCommitWriter writes commit reports as JSON.
type JSONCommitWriter struct{}

// JSONCommitReport is the JSON output structure for commit reports.
type JSONCommitReport struct {
	RepoPath     string           `json:"repo"`
	GeneratedAt  string           `json:"generatedAt"`
	TotalCommits int              `json:"totalCommits"`
	Items        []JSONCommitItem `json:"items"`
}

// JSONCommitItem is the JSON output structure for one commit.
type JSONCommitItem struct {
	CommitID       string  `json:"commitId"`
	Author         string  `json:"author"`
	Email          string  `json:"email"`
	FileCount      int     `json:"fileCount"`
	DirectoryCount int     `json:"directoryCount"`
	SubsystemCount int     `json:"subsystemCount"`
	LinesAdded     int     `json:"linesAdded"`
	LinesDeleted   int     `json:"linesDeleted"`
	Partial        int     `json:"partial"`
	ChangeEntropy  float64 `json:"changeEntropy"`
}

// Write outputs the commit report as JSON.
func (w *JSONCommitWriter) Write(report *CommitReport, options OutputOptions) error {
	items := limitTop(report.Items, options.Top)

	jsonItems := make([]JSONCommitItem, len(items))
	for i, item := range items {
		jsonItems[i] = JSONCommitItem{
			CommitID:       item.CommitID,
			Author:         item.Author,
			Email:          item.Email,
			FileCount:      item.FileCount,
			DirectoryCount: item.DirectoryCount,
			SubsystemCount: item.SubsystemCount,
			LinesAdded:     item.LinesAdded,
			LinesDeleted:   item.LinesDeleted,
			Partial:        item.Partial,
			ChangeEntropy:  item.ChangeEntropy,
		}
	}

	return writeJSON(JSONCommitReport{
		RepoPath:     report.RepoPath,
		GeneratedAt:  report.GeneratedAt.Format(reportDateTimeLayout),
		TotalCommits: len(report.Items),
		Items:        jsonItems,
	}, options)
}
