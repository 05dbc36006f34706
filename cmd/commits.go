package cmd

import (
	"sort"
	"time"

	"github.com/masmgr/repomine-go/internal/aggregation"
	"github.com/masmgr/repomine-go/internal/output"
	"github.com/masmgr/repomine-go/internal/pipeline"
	"github.com/urfave/cli/v2"
)

// CommitsCmd returns the commits command.
func CommitsCmd() *cli.Command {
	flags := append(walkFlags(),
		&cli.StringFlag{
			Name:    "repo",
			Aliases: []string{"r"},
			Usage:   "Path or URL of the Git repository",
			Value:   ".",
		},
		&cli.StringFlag{
			Name:  "sort",
			Usage: "Sort order (history, churn, entropy)",
			Value: "history",
		},
	)

	return &cli.Command{
		Name:    "commits",
		Aliases: []string{"c"},
		Usage:   "Summarize the spread and size of every commit",
		Flags:   append(flags, reportFlags()...),
		Action:  commitsAction,
	}
}

func commitsAction(c *cli.Context) error {
	ctx, err := NewCommandContext(c, func(opts *pipeline.Options) {
		opts.Dedupe = false
		opts.Classify = false
		opts.Extractor = nil
	})
	if err != nil {
		return err
	}
	if !ctx.HasEntries() {
		ctx.PrintNoEntriesMessage()
		return nil
	}

	calculator := aggregation.NewCommitSummaryCalculator(ctx.Root)
	items := calculator.CalculateAll(ctx.Records())
	sortCommitSummaries(items, c.String("sort"))

	report := &output.CommitReport{
		RepoPath:    ctx.RepoPath,
		GeneratedAt: time.Now(),
		Items:       items,
	}

	opts := OutputOptions(c)
	return output.NewCommitReportWriter(opts.Format).Write(report, opts)
}

func sortCommitSummaries(items []aggregation.CommitSummary, order string) {
	switch order {
	case "churn":
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].TotalChurn() > items[j].TotalChurn()
		})
	case "entropy":
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].ChangeEntropy > items[j].ChangeEntropy
		})
	}
}
