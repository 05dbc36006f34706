package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/masmgr/repomine-go/internal/output"
	"github.com/masmgr/repomine-go/internal/pipeline"
	"github.com/masmgr/repomine-go/internal/repolist"
	"github.com/urfave/cli/v2"
)

// ParseReposCmd returns the parse-repos command.
func ParseReposCmd() *cli.Command {
	flags := append(walkFlags(),
		&cli.StringFlag{
			Name:    "list",
			Aliases: []string{"l"},
			Usage:   "Repository list file or http(s) URL",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Base name of the combined output file (.json is appended)",
		},
		&cli.StringFlag{
			Name:  "out-dir",
			Usage: "Directory receiving one <name>.json file per repository",
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "Number of repositories processed in parallel",
		},
		&cli.BoolFlag{
			Name:  "no-dedupe",
			Usage: "Keep every record instead of one per commit",
		},
		&cli.BoolFlag{
			Name:  "no-syntax",
			Usage: "Skip import and name extraction",
		},
		&cli.StringFlag{
			Name:  "authors-format",
			Usage: "Print a per-author summary of every repository (none, console, json, csv, markdown)",
			Value: "none",
		},
	)

	return &cli.Command{
		Name:      "parse-repos",
		Aliases:   []string{"parse"},
		Usage:     "Extract change records of every listed repository",
		ArgsUsage: "[repository ...]",
		Flags:     flags,
		Action:    parseReposAction,
	}
}

func parseReposAction(c *cli.Context) error {
	start := time.Now()
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if v := c.String("output"); v != "" {
		cfg.Pipeline.OutputPath = v
	}
	if v := c.String("out-dir"); v != "" {
		cfg.Pipeline.OutDir = v
	}
	if v := c.String("list"); v != "" {
		cfg.Pipeline.ListURL = v
	}
	if c.Bool("no-syntax") {
		cfg.Syntax.Enabled = false
	}

	ctx := context.Background()
	locations := c.Args().Slice()
	if cfg.Pipeline.ListURL != "" {
		entries, err := repolist.Load(ctx, cfg.Pipeline.ListURL)
		if err != nil {
			return fmt.Errorf("failed to load repository list: %w", err)
		}
		for _, e := range entries {
			locations = append(locations, e.URL)
		}
	}
	if len(locations) == 0 {
		return fmt.Errorf("no repositories given: pass locations or --list")
	}

	opts, err := runOptions(c, cfg)
	if err != nil {
		return err
	}

	log := output.NewLogger(os.Stdout)
	if opts.OutputPath != "" {
		log.Info("Output will be saved into %s file.", opts.OutputPath)
	}
	if opts.OutDir != "" {
		log.Info("Separate output of every repo will be saved into %s file.", filepath.Join(opts.OutDir, "<name>.json"))
	}
	log.Status("Start parsing %d repositories.", len(locations))

	results, err := pipeline.NewRunner(opts, log).Run(ctx, locations)
	if err != nil {
		return err
	}

	failed, records := 0, 0
	authorsFormat := c.String("authors-format")
	for _, res := range results {
		if res.Err != nil {
			failed++
			continue
		}
		records += res.Records
		if authorsFormat == "" || authorsFormat == "none" {
			continue
		}
		format := output.ParseFormat(authorsFormat)
		report := &output.AuthorReport{
			RepoPath:    res.Location,
			GeneratedAt: time.Now(),
			Records:     res.Records,
			Partial:     res.Partial,
			Items:       res.Authors,
		}
		if err := output.NewAuthorReportWriter(format).Write(report, output.OutputOptions{Format: format}); err != nil {
			return err
		}
	}

	log.Summary(len(results)-failed, records, start)
	if failed > 0 {
		log.Error("%d of %d repositories failed", failed, len(results))
	}
	return nil
}
