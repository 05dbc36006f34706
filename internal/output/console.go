package output

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
)

// ConsoleAuthorWriter writes author reports to the console.
type ConsoleAuthorWriter struct{}

// Write outputs the author report as an aligned table.
func (w *ConsoleAuthorWriter) Write(report *AuthorReport, options OutputOptions) error {
	items := limitTop(report.Items, options.Top)

	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	color.New(color.FgGreen).Fprintln(out, "Author Contribution Summary")
	fmt.Fprintf(out, "Repository: %s\n", report.RepoPath)
	fmt.Fprintf(out, "Records: %s (%s partial)\n", humanize.Comma(int64(report.Records)), humanize.Comma(int64(report.Partial)))
	fmt.Fprintf(out, "Total authors: %d\n\n", len(report.Items))

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tAuthor\tEmail\tCommits\tFiles\tAdded\tDeleted\tEntropy\tTop language")
	for i, item := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%s\t%s\t%.3f\t%s\n",
			i+1,
			item.Author,
			item.Email,
			item.Commits,
			item.Files,
			humanize.Comma(int64(item.AddedLines)),
			humanize.Comma(int64(item.DeletedLines)),
			item.MeanEntropy,
			item.TopLanguage(),
		)
	}
	return tw.Flush()
}

// ConsoleLanguageWriter writes language reports to the console.
type ConsoleLanguageWriter struct{}

// Write outputs the language report as an aligned table.
func (w *ConsoleLanguageWriter) Write(report *LanguageReport, options OutputOptions) error {
	items := limitTop(report.Items, options.Top)

	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	color.New(color.FgGreen).Fprintln(out, "Language Usage")
	fmt.Fprintf(out, "Repository: %s\n", report.RepoPath)
	fmt.Fprintf(out, "Records: %s (%s vendored)\n\n", humanize.Comma(int64(report.Records)), humanize.Comma(int64(report.Vendored)))

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tLanguage\tFiles\tRecords\tAdded\tDeleted\tShare")
	for i, item := range items {
		share := 0.0
		if report.Records > 0 {
			share = 100 * float64(item.Records) / float64(report.Records)
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%s\t%s\t%.1f%%\n",
			i+1,
			item.Language,
			item.Files,
			item.Records,
			humanize.Comma(int64(item.AddedLines)),
			humanize.Comma(int64(item.DeletedLines)),
			share,
		)
	}
	return tw.Flush()
}

// ConsoleCommitWriter writes commit reports to the console.
type ConsoleCommitWriter struct{}

// Write outputs the commit report as an aligned table.
func (w *ConsoleCommitWriter) Write(report *CommitReport, options OutputOptions) error {
	items := limitTop(report.Items, options.Top)

	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	color.New(color.FgGreen).Fprintln(out, "Commit Change Summary")
	fmt.Fprintf(out, "Repository: %s\n", report.RepoPath)
	fmt.Fprintf(out, "Total commits: %d\n\n", len(report.Items))

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSHA\tAuthor\tFiles\tDirs\tSubsystems\tAdded\tDeleted\tEntropy")
	for i, item := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%d\t%s\t%s\t%.2f\n",
			i+1,
			shortSHA(item.CommitID),
			item.Author,
			item.FileCount,
			item.DirectoryCount,
			item.SubsystemCount,
			humanize.Comma(int64(item.LinesAdded)),
			humanize.Comma(int64(item.LinesDeleted)),
			item.ChangeEntropy,
		)
	}
	return tw.Flush()
}

func shortSHA(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
