package main

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/carlosdem/appstream/internal/config"
	"github.com/carlosdem/appstream/internal/errors"
	"github.com/carlosdem/appstream/internal/ops"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "asrel",
		Usage:   "Convert, validate and inspect software release metadata",
		Version: Version,
		Commands: []*cli.Command{
			convertCmd(cfg),
			validateCmd(cfg),
			inspectCmd(cfg),
			sortCmd(cfg),
			newsCmd(cfg),
			versionCmd(),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// convertCmd creates the convert command.
func convertCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Usage:     "Convert a release document between formats and styles",
		ArgsUsage: "<path>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Destination path (default: print to stdout)"},
			&cli.StringFlag{Name: "from", Usage: "Source format: xml|yaml (default: detect)"},
			&cli.StringFlag{Name: "to", Usage: "Target format: xml|yaml (default: from the output path)"},
			&cli.StringFlag{Name: "style", Usage: "Source style: metainfo|catalog"},
			&cli.StringFlag{Name: "target-style", Usage: "Target style: metainfo|catalog"},
			&cli.StringFlag{Name: "locale", Usage: "Keep only description text for this locale"},
			&cli.StringFlag{Name: "media-baseurl", Usage: "Base URL for relative media references"},
			&cli.BoolFlag{Name: "json", Usage: "Print the result as JSON"},
			&cli.BoolFlag{Name: "verbose", Usage: "Log parse diagnostics to stderr"},
		},
		Action: func(c *cli.Context) error {
			configureLogging(c.Bool("verbose"))
			if c.NArg() < 1 {
				return usageError("convert requires a document path")
			}

			output, err := ops.Convert(cfg, ops.ConvertInput{
				Path:         c.Args().First(),
				Output:       c.String("output"),
				From:         c.String("from"),
				To:           c.String("to"),
				Style:        c.String("style"),
				TargetStyle:  c.String("target-style"),
				Locale:       c.String("locale"),
				MediaBaseURL: c.String("media-baseurl"),
			})
			if err != nil {
				return outputError(err)
			}

			if c.Bool("json") {
				return outputJSON(output)
			}
			if output.Document != "" {
				printDocument(output.Document)
				return nil
			}
			fmt.Printf("Wrote %d releases to %s (%s, %s)\n",
				output.Releases, output.Path, output.Format, output.Style)
			return nil
		},
	}
}

// validateCmd creates the validate command.
func validateCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Check whether a release document parses cleanly",
		ArgsUsage: "<path>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Usage: "Document format: xml|yaml (default: detect)"},
			&cli.StringFlag{Name: "style", Usage: "Document style: metainfo|catalog"},
			&cli.BoolFlag{Name: "json", Usage: "Print the result as JSON"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return usageError("validate requires a document path")
			}

			output, err := ops.Validate(cfg, ops.ValidateInput{
				Path:   c.Args().First(),
				Format: c.String("format"),
				Style:  c.String("style"),
			})
			if err != nil {
				return outputError(err)
			}

			if c.Bool("json") {
				if err := outputJSON(output); err != nil {
					return err
				}
				if !output.Valid {
					return cli.Exit("", 1)
				}
				return nil
			}

			if output.Valid {
				fmt.Printf("%s: OK (%d releases)\n", output.Path, output.Releases)
				return nil
			}
			if output.Error != "" {
				return cli.Exit(fmt.Sprintf("%s: %s", output.Path, output.Error), 1)
			}
			for _, n := range output.Notices {
				fmt.Printf("%s: %s%s\n", strings.ToLower(n.Level.String()), n.Message, attrSuffix(n.Attrs))
			}
			return cli.Exit(fmt.Sprintf("%s: %d problems found", output.Path, output.Warnings), 1)
		},
	}
}

// inspectCmd creates the inspect command.
func inspectCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Summarize the releases in a document",
		ArgsUsage: "<path>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Usage: "Document format: xml|yaml (default: detect)"},
			&cli.StringFlag{Name: "style", Usage: "Document style: metainfo|catalog"},
			&cli.StringFlag{Name: "version", Usage: "Show only the release with this version"},
			&cli.StringFlag{Name: "locale", Usage: "Show descriptions in this locale"},
			&cli.BoolFlag{Name: "json", Usage: "Print the result as JSON"},
			&cli.BoolFlag{Name: "verbose", Usage: "Log parse diagnostics to stderr"},
		},
		Action: func(c *cli.Context) error {
			configureLogging(c.Bool("verbose"))
			if c.NArg() < 1 {
				return usageError("inspect requires a document path")
			}

			output, err := ops.Inspect(cfg, ops.InspectInput{
				Path:    c.Args().First(),
				Format:  c.String("format"),
				Style:   c.String("style"),
				Version: c.String("version"),
				Locale:  c.String("locale"),
			})
			if err != nil {
				return outputError(err)
			}

			if c.Bool("json") {
				return outputJSON(output)
			}

			if output.URL != "" {
				fmt.Printf("%s: external releases at %s\n", output.Path, output.URL)
			} else {
				fmt.Printf("%s: %d releases\n", output.Path, len(output.Releases))
			}
			for _, r := range output.Releases {
				line := fmt.Sprintf("  %-12s %-12s", r.Version, r.Kind)
				if r.Date != "" {
					line += " " + r.Date
				}
				if r.Urgency != "" {
					line += "  urgency=" + r.Urgency
				}
				if r.Issues > 0 {
					line += fmt.Sprintf("  issues=%d", r.Issues)
				}
				if r.Artifacts > 0 {
					line += fmt.Sprintf("  artifacts=%d", r.Artifacts)
				}
				fmt.Println(strings.TrimRight(line, " "))

				// Show the notes when a single release was asked for
				if c.String("version") != "" && r.Description != "" {
					fmt.Println()
					fmt.Println(r.Description)
				}
			}
			return nil
		},
	}
}

// sortCmd creates the sort command.
func sortCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "sort",
		Usage:     "Order a release document most recent first",
		ArgsUsage: "<path>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Destination path (default: rewrite in place)"},
			&cli.StringFlag{Name: "format", Usage: "Document format: xml|yaml (default: detect)"},
			&cli.StringFlag{Name: "style", Usage: "Document style: metainfo|catalog"},
			&cli.BoolFlag{Name: "json", Usage: "Print the result as JSON"},
			&cli.BoolFlag{Name: "verbose", Usage: "Log parse diagnostics to stderr"},
		},
		Action: func(c *cli.Context) error {
			configureLogging(c.Bool("verbose"))
			if c.NArg() < 1 {
				return usageError("sort requires a document path")
			}

			output, err := ops.Sort(cfg, ops.SortInput{
				Path:   c.Args().First(),
				Output: c.String("output"),
				Format: c.String("format"),
				Style:  c.String("style"),
			})
			if err != nil {
				return outputError(err)
			}

			if c.Bool("json") {
				return outputJSON(output)
			}
			fmt.Printf("Sorted %d releases in %s: %s\n",
				output.Releases, output.Path, strings.Join(output.Versions, ", "))
			return nil
		},
	}
}

// newsCmd creates the news command group.
func newsCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "news",
		Usage: "Convert between Markdown release notes and release documents",
		Subcommands: []*cli.Command{
			newsToReleasesCmd(cfg),
			newsFromReleasesCmd(cfg),
		},
	}
}

// newsToReleasesCmd creates the news to-releases subcommand.
func newsToReleasesCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "to-releases",
		Usage:     "Parse Markdown release notes into a release document",
		ArgsUsage: "<news-path>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Destination path (default: print to stdout)"},
			&cli.StringFlag{Name: "format", Usage: "Target format: xml|yaml (default: from the output path, else xml)"},
			&cli.StringFlag{Name: "style", Usage: "Target style: metainfo|catalog"},
			&cli.BoolFlag{Name: "json", Usage: "Print the result as JSON"},
			&cli.BoolFlag{Name: "verbose", Usage: "Log parse diagnostics to stderr"},
		},
		Action: func(c *cli.Context) error {
			configureLogging(c.Bool("verbose"))
			if c.NArg() < 1 {
				return usageError("to-releases requires a news path")
			}

			output, err := ops.NewsToReleases(cfg, ops.NewsToReleasesInput{
				Path:   c.Args().First(),
				Output: c.String("output"),
				Format: c.String("format"),
				Style:  c.String("style"),
			})
			if err != nil {
				return outputError(err)
			}

			if c.Bool("json") {
				return outputJSON(output)
			}
			if output.Document != "" {
				printDocument(output.Document)
				return nil
			}
			fmt.Printf("Wrote %d releases to %s (%s)\n", output.Releases, output.Path, output.Format)
			return nil
		},
	}
}

// newsFromReleasesCmd creates the news from-releases subcommand.
func newsFromReleasesCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "from-releases",
		Usage:     "Render a release document as Markdown release notes",
		ArgsUsage: "<releases-path>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Destination path (default: print to stdout)"},
			&cli.StringFlag{Name: "format", Usage: "Source format: xml|yaml (default: detect)"},
			&cli.StringFlag{Name: "style", Usage: "Source style: metainfo|catalog"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Render at most this many releases (0 = all)"},
			&cli.BoolFlag{Name: "json", Usage: "Print the result as JSON"},
			&cli.BoolFlag{Name: "verbose", Usage: "Log parse diagnostics to stderr"},
		},
		Action: func(c *cli.Context) error {
			configureLogging(c.Bool("verbose"))
			if c.NArg() < 1 {
				return usageError("from-releases requires a document path")
			}

			output, err := ops.ReleasesToNews(cfg, ops.ReleasesToNewsInput{
				Path:   c.Args().First(),
				Output: c.String("output"),
				Format: c.String("format"),
				Style:  c.String("style"),
				Limit:  c.Int("limit"),
			})
			if err != nil {
				return outputError(err)
			}

			if c.Bool("json") {
				return outputJSON(output)
			}
			if output.Document != "" {
				printDocument(output.Document)
				return nil
			}
			fmt.Printf("Wrote %d releases to %s\n", output.Releases, output.Path)
			return nil
		},
	}
}

// versionCmd creates the version command.
func versionCmd() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print the version",
		Action: func(_ *cli.Context) error {
			fmt.Printf("asrel %s\n", Version)
			return nil
		},
	}
}

// Helper functions

// configureLogging routes parse diagnostics to stderr. Quiet by default
// so document output on stdout stays clean.
func configureLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printDocument writes a serialized document to stdout, newline-terminated.
func printDocument(doc string) {
	fmt.Print(doc)
	if !strings.HasSuffix(doc, "\n") {
		fmt.Println()
	}
}

// outputError formats an operation error for the CLI.
func outputError(err error) error {
	var metaErr *errors.MetaError
	if stderrors.As(err, &metaErr) {
		return cli.Exit(fmt.Sprintf("[%s] %s", metaErr.Code, metaErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// usageError reports a malformed invocation.
func usageError(msg string) error {
	return cli.Exit(msg, 2)
}

// attrSuffix renders notice attributes as a stable key=value suffix.
func attrSuffix(attrs map[string]any) string {
	if len(attrs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, attrs[k]))
	}
	return " (" + strings.Join(parts, " ") + ")"
}
