package output

import (
	"io"
	"time"

	"github.com/masmgr/repomine-go/internal/aggregation"
	"github.com/masmgr/repomine-go/internal/lang"
)

// Compile-time interface conformance checks.
var (
	_ AuthorReportWriter = (*ConsoleAuthorWriter)(nil)
	_ AuthorReportWriter = (*JSONAuthorWriter)(nil)
	_ AuthorReportWriter = (*CSVAuthorWriter)(nil)
	_ AuthorReportWriter = (*MarkdownAuthorWriter)(nil)

	_ LanguageReportWriter = (*ConsoleLanguageWriter)(nil)
	_ LanguageReportWriter = (*JSONLanguageWriter)(nil)
	_ LanguageReportWriter = (*CSVLanguageWriter)(nil)
	_ LanguageReportWriter = (*MarkdownLanguageWriter)(nil)

	_ CommitReportWriter = (*ConsoleCommitWriter)(nil)
	_ CommitReportWriter = (*JSONCommitWriter)(nil)
	_ CommitReportWriter = (*CSVCommitWriter)(nil)
	_ CommitReportWriter = (*MarkdownCommitWriter)(nil)
)

// OutputFormat represents the output format type.
type OutputFormat string

const (
	FormatConsole  OutputFormat = "console"
	FormatJSON     OutputFormat = "json"
	FormatCSV      OutputFormat = "csv"
	FormatMarkdown OutputFormat = "markdown"
	FormatNDJSON   OutputFormat = "ndjson"
)

// ParseFormat maps a flag value to a format. Unknown values select the console.
func ParseFormat(s string) OutputFormat {
	switch s {
	case "json":
		return FormatJSON
	case "csv":
		return FormatCSV
	case "markdown", "md":
		return FormatMarkdown
	case "ndjson", "jsonl":
		return FormatNDJSON
	default:
		return FormatConsole
	}
}

// OutputOptions controls output behavior.
type OutputOptions struct {
	Format     OutputFormat
	Top        int
	OutputPath string
	// Stdout replaces os.Stdout when OutputPath is empty.
	Stdout io.Writer
}

// AuthorReport holds per-author contribution summaries of one repository.
type AuthorReport struct {
	RepoPath    string
	GeneratedAt time.Time
	Records     int
	Partial     int
	Items       []*aggregation.AuthorSummary
}

// LanguageReport holds per-language usage of one repository.
type LanguageReport struct {
	RepoPath    string
	GeneratedAt time.Time
	Records     int
	Vendored    int
	Items       []*lang.Usage
}

// CommitReport holds per-commit summaries of one repository.
type CommitReport struct {
	RepoPath    string
	GeneratedAt time.Time
	Items       []aggregation.CommitSummary
}

// AuthorReportWriter writes author reports.
type AuthorReportWriter interface {
	Write(report *AuthorReport, options OutputOptions) error
}

// LanguageReportWriter writes language reports.
type LanguageReportWriter interface {
	Write(report *LanguageReport, options OutputOptions) error
}

// CommitReportWriter writes commit reports.
type CommitReportWriter interface {
	Write(report *CommitReport, options OutputOptions) error
}

// NewAuthorReportWriter creates an author report writer for the specified format.
func NewAuthorReportWriter(format OutputFormat) AuthorReportWriter {
	switch format {
	case FormatJSON, FormatNDJSON:
		return &JSONAuthorWriter{}
	case FormatCSV:
		return &CSVAuthorWriter{}
	case FormatMarkdown:
		return &MarkdownAuthorWriter{}
	default:
		return &ConsoleAuthorWriter{}
	}
}

// NewLanguageReportWriter creates a language report writer for the specified format.
func NewLanguageReportWriter(format OutputFormat) LanguageReportWriter {
	switch format {
	case FormatJSON, FormatNDJSON:
		return &JSONLanguageWriter{}
	case FormatCSV:
		return &CSVLanguageWriter{}
	case FormatMarkdown:
		return &MarkdownLanguageWriter{}
	default:
		return &ConsoleLanguageWriter{}
	}
}

// NewCommitReportWriter creates a commit report writer for the specified format.
func NewCommitReportWriter(format OutputFormat) CommitReportWriter {
	switch format {
	case FormatJSON, FormatNDJSON:
		return &JSONCommitWriter{}
	case FormatCSV:
		return &CSVCommitWriter{}
	case FormatMarkdown:
		return &MarkdownCommitWriter{}
	default:
		return &ConsoleCommitWriter{}
	}
}
