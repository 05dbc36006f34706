package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/masmgr/repomine-go/internal/output"
	"github.com/masmgr/repomine-go/internal/pipeline"
	"github.com/urfave/cli/v2"
)

// WalkCmd returns the walk command.
func WalkCmd() *cli.Command {
	flags := append(commonFlags(),
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format (json, ndjson)",
			Value:   "json",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path (default: stdout)",
		},
		&cli.BoolFlag{
			Name:  "lang",
			Usage: "Classify the language of every record",
			Value: true,
		},
		&cli.BoolFlag{
			Name:  "syntax",
			Usage: "Extract imports and names of Python, JavaScript and Java files",
			Value: true,
		},
	)

	return &cli.Command{
		Name:    "walk",
		Aliases: []string{"w"},
		Usage:   "Print the change records of one repository",
		Flags:   flags,
		Action:  walkAction,
	}
}

func walkAction(c *cli.Context) error {
	start := time.Now()
	ctx, err := NewCommandContext(c, func(opts *pipeline.Options) {
		opts.Classify = c.Bool("lang")
		if !opts.Classify || !c.Bool("syntax") {
			opts.Extractor = nil
		}
	})
	if err != nil {
		return err
	}

	path := c.String("output")
	if output.ParseFormat(c.String("format")) == output.FormatNDJSON {
		if err := writeNDJSON(path, ctx.Entries); err != nil {
			return err
		}
	} else if path != "" {
		if err := output.WriteEntries(path, ctx.Entries, false); err != nil {
			return err
		}
	} else {
		if err := writeJSONArray(ctx.Entries); err != nil {
			return err
		}
	}

	if path != "" {
		color.Green("Wrote %d records to %s", len(ctx.Entries), path)
	}
	fmt.Fprintf(os.Stderr, "\n%d commits, %d records (%d partial) in %s\n",
		ctx.Stats.Commits, len(ctx.Entries), partialCount(ctx.Entries), time.Since(start))
	return nil
}

func writeNDJSON(path string, entries []output.Entry) error {
	if path == "" {
		return writeNDJSONTo(os.Stdout, entries)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeNDJSONTo(f, entries); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeNDJSONTo(out io.Writer, entries []output.Entry) error {
	w := output.NewNDJSONWriter(out)
	for _, e := range entries {
		if err := w.Write(e); err != nil {
			return err
		}
	}
	return nil
}

func writeJSONArray(entries []output.Entry) error {
	if entries == nil {
		entries = []output.Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, string(data))
	return err
}
