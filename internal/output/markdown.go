package output

import (
	"fmt"
	"strings"
)

// MarkdownAuthorWriter writes author reports as Markdown.
type MarkdownAuthorWriter struct{}

// Write outputs the author report as Markdown.
func (w *MarkdownAuthorWriter) Write(report *AuthorReport, options OutputOptions) error {
	items := limitTop(report.Items, options.Top)

	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	fmt.Fprintln(out, "# Author Contribution Summary")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "**Repository:** %s\n\n", report.RepoPath)
	fmt.Fprintf(out, "**Records:** %d (%d partial)\n\n", report.Records, report.Partial)
	fmt.Fprintf(out, "**Total Authors:** %d\n\n", len(report.Items))

	fmt.Fprintln(out, "## Top Authors")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "| # | Author | Commits | Files | Added | Deleted | Entropy | Languages |")
	fmt.Fprintln(out, "|---|--------|---------|-------|-------|---------|---------|-----------|")
	for i, item := range items {
		fmt.Fprintf(out, "| %d | %s | %d | %d | %d | %d | %.3f | %s |\n",
			i+1, escapeMarkdown(item.Author), item.Commits, item.Files,
			item.AddedLines, item.DeletedLines, item.MeanEntropy,
			escapeMarkdown(strings.Join(sortedLanguages(item.Languages), ", ")))
	}

	return nil
}

// MarkdownLanguageWriter writes language reports as Markdown.
type MarkdownLanguageWriter struct{}

// Write outputs the language report as Markdown.
func (w *MarkdownLanguageWriter) Write(report *LanguageReport, options OutputOptions) error {
	items := limitTop(report.Items, options.Top)

	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	fmt.Fprintln(out, "# Language Usage")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "**Repository:** %s\n\n", report.RepoPath)
	fmt.Fprintf(out, "**Records:** %d (%d vendored)\n\n", report.Records, report.Vendored)

	fmt.Fprintln(out, "| # | Language | Files | Records | Added | Deleted |")
	fmt.Fprintln(out, "|---|----------|-------|---------|-------|---------|")
	for i, item := range items {
		fmt.Fprintf(out, "| %d | %s | %d | %d | %d | %d |\n",
			i+1, escapeMarkdown(item.Language), item.Files, item.Records,
			item.AddedLines, item.DeletedLines)
	}

	return nil
}

// escapeMarkdown escapes special Markdown characters in text.
func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer(
		"|", "\\|",
		"*", "\\*",
		"_", "\\_",
		"`", "\\`",
	)
	return replacer.Replace(s)
}

// MarkdownCommitWriter writes commit reports as Markdown.
type MarkdownCommitWriter struct{}

// Write outputs the commit report as Markdown.
func (w *MarkdownCommitWriter) Write(report *CommitReport, options OutputOptions) error {
	items := limitTop(report.Items, options.Top)

	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	fmt.Fprintln(out, "# Commit Change Summary")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "**Repository:** %s\n\n", report.RepoPath)
	fmt.Fprintf(out, "**Total Commits:** %d\n\n", len(report.Items))

	fmt.Fprintln(out, "| # | SHA | Author | Files | Dirs | Added | Deleted | Entropy |")
	fmt.Fprintln(out, "|---|-----|--------|-------|------|-------|---------|---------|")
	for i, item := range items {
		fmt.Fprintf(out, "| %d | `%s` | %s | %d | %d | %d | %d | %.2f |\n",
			i+1, shortSHA(item.CommitID), escapeMarkdown(item.Author),
			item.FileCount, item.DirectoryCount, item.LinesAdded, item.LinesDeleted,
			item.ChangeEntropy)
	}

	return nil
}
