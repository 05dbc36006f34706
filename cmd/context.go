package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/masmgr/repomine-go/config"
	"github.com/masmgr/repomine-go/internal/git"
	"github.com/masmgr/repomine-go/internal/output"
	"github.com/masmgr/repomine-go/internal/pipeline"
	"github.com/urfave/cli/v2"
)

// CommandContext holds common state for single-repository commands.
type CommandContext struct {
	Config   *config.Config
	RepoPath string
	Root     string // label prefixed to record paths
	Entries  []output.Entry
	Stats    git.WalkStats
}

// NewCommandContext loads the configuration, walks the repository named by
// --repo and annotates its records. setup may adjust the run options.
func NewCommandContext(c *cli.Context, setup func(*pipeline.Options)) (*CommandContext, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	opts, err := runOptions(c, cfg)
	if err != nil {
		return nil, err
	}
	if setup != nil {
		setup(&opts)
	}

	repoPath := c.String("repo")
	entries, stats, err := pipeline.NewRunner(opts, nil).Entries(context.Background(), repoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	return &CommandContext{
		Config:   cfg,
		RepoPath: repoPath,
		Root:     rootLabel(cfg, repoPath),
		Entries:  entries,
		Stats:    stats,
	}, nil
}

// runOptions builds pipeline options from the configuration and the date flags.
func runOptions(c *cli.Context, cfg *config.Config) (pipeline.Options, error) {
	opts, err := pipeline.OptionsFromConfig(cfg)
	if err != nil {
		return pipeline.Options{}, err
	}
	since, err := parseDateFlag(c.String("since"))
	if err != nil {
		return pipeline.Options{}, fmt.Errorf("invalid since date: %w", err)
	}
	until, err := parseDateFlag(c.String("until"))
	if err != nil {
		return pipeline.Options{}, fmt.Errorf("invalid until date: %w", err)
	}
	opts.Repo.Since = since
	opts.Repo.Until = until
	return opts, nil
}

// rootLabel returns the directory the repository is read from, which the walker
// prefixes to every path.
func rootLabel(cfg *config.Config, repoPath string) string {
	if git.IsRemote(repoPath) {
		if dir, err := git.NewAcquirer(cfg.Clones.Dir, git.RepositoryOptions{}).ClonePath(repoPath); err == nil {
			return dir
		}
	}
	return strings.TrimRight(repoPath, "/")
}

// HasEntries returns true if the walk produced any record.
func (ctx *CommandContext) HasEntries() bool {
	return len(ctx.Entries) > 0
}

// PrintNoEntriesMessage prints a message when the walk produced nothing.
func (ctx *CommandContext) PrintNoEntriesMessage() {
	fmt.Println("No changes found in the specified range.")
}

// Records returns the bare records of every entry.
func (ctx *CommandContext) Records() []git.ChangeRecord {
	records := make([]git.ChangeRecord, len(ctx.Entries))
	for i, e := range ctx.Entries {
		records[i] = e.Record
	}
	return records
}

// OutputOptions creates OutputOptions from CLI flags.
func OutputOptions(c *cli.Context) output.OutputOptions {
	return output.OutputOptions{
		Format:     output.ParseFormat(c.String("format")),
		Top:        c.Int("top"),
		OutputPath: c.String("output"),
	}
}

// withoutSyntax classifies records but skips syntax extraction.
func withoutSyntax(opts *pipeline.Options) {
	opts.Extractor = nil
}

func partialCount(entries []output.Entry) int {
	n := 0
	for _, e := range entries {
		if !e.Record.Complete() {
			n++
		}
	}
	return n
}
