package cmd

import (
	"time"

	"github.com/masmgr/repomine-go/internal/lang"
	"github.com/masmgr/repomine-go/internal/output"
	"github.com/urfave/cli/v2"
)

// LangsCmd returns the langs command.
func LangsCmd() *cli.Command {
	return &cli.Command{
		Name:    "langs",
		Aliases: []string{"l"},
		Usage:   "Show files and churn per language",
		Flags:   append(commonFlags(), reportFlags()...),
		Action:  langsAction,
	}
}

func langsAction(c *cli.Context) error {
	ctx, err := NewCommandContext(c, withoutSyntax)
	if err != nil {
		return err
	}
	if !ctx.HasEntries() {
		ctx.PrintNoEntriesMessage()
		return nil
	}

	stats := lang.NewLanguageStats()
	for _, e := range ctx.Entries {
		stats.Add(e.Record, e.Lang)
	}
	report := &output.LanguageReport{
		RepoPath:    ctx.RepoPath,
		GeneratedAt: time.Now(),
		Records:     len(ctx.Entries),
		Vendored:    stats.Vendored,
		Items:       stats.Sorted(),
	}

	options := OutputOptions(c)
	return output.NewLanguageReportWriter(options.Format).Write(report, options)
}
