package cmd

import (
	"time"

	"github.com/masmgr/repomine-go/internal/aggregation"
	"github.com/masmgr/repomine-go/internal/output"
	"github.com/urfave/cli/v2"
)

// AuthorsCmd returns the authors command.
func AuthorsCmd() *cli.Command {
	return &cli.Command{
		Name:    "authors",
		Aliases: []string{"a"},
		Usage:   "Summarize contributions per author",
		Flags:   append(commonFlags(), reportFlags()...),
		Action:  authorsAction,
	}
}

func authorsAction(c *cli.Context) error {
	ctx, err := NewCommandContext(c, withoutSyntax)
	if err != nil {
		return err
	}
	if !ctx.HasEntries() {
		ctx.PrintNoEntriesMessage()
		return nil
	}

	report := buildAuthorReport(ctx.RepoPath, ctx.Entries)
	options := OutputOptions(c)
	return output.NewAuthorReportWriter(options.Format).Write(report, options)
}

func buildAuthorReport(repoPath string, entries []output.Entry) *output.AuthorReport {
	agg := aggregation.NewAuthorAggregator()
	for _, e := range entries {
		agg.Add(e.Record, e.Lang)
	}
	return &output.AuthorReport{
		RepoPath:    repoPath,
		GeneratedAt: time.Now(),
		Records:     len(entries),
		Partial:     partialCount(entries),
		Items:       agg.Summaries(),
	}
}
