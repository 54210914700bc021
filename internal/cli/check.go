package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/mdstream/internal/ui/pretty"
	"github.com/yaklabco/mdstream/pkg/config"
	"github.com/yaklabco/mdstream/pkg/docstats"
)

const stdinName = "<stdin>"

type checkOptions struct {
	root *rootOptions

	flavor     string
	extensions []string
	summary    bool
}

func newCheckCommand(root *rootOptions) *cobra.Command {
	opts := &checkOptions{root: root}

	cmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Parse Markdown files and report document statistics",
		Long: `Parse Markdown files without rendering and report their structure:
word counts, headings, paragraphs, links and code blocks per file.

Directory arguments are expanded to the Markdown files they contain.
When no files are given, input is read from standard input. The exit
code is non-zero when any file fails to read.`,
		Example: `  mdstream check docs/
  mdstream check --summary README.md CHANGELOG.md`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.flavor, "flavor", "", "markdown flavor: commonmark or gfm")
	cmd.Flags().StringSliceVar(&opts.extensions, "extension", nil,
		"dialect extension to enable (repeatable)")
	cmd.Flags().BoolVar(&opts.summary, "summary", false, "print the full summary block")

	return cmd
}

func (o *checkOptions) cliConfig(cmd *cobra.Command) *config.Config {
	cfg := &config.Config{
		Flavor: config.Flavor(o.flavor),
		Debug:  o.root.debug,
	}
	if cmd.Flags().Changed("extension") {
		cfg.Extensions = o.extensions
	}
	return cfg
}

func runCheck(cmd *cobra.Command, opts *checkOptions, args []string) error {
	cfg, err := loadConfig(cmd, opts.root, opts.cliConfig(cmd))
	if err != nil {
		return err
	}

	dialect, err := cfg.DialectFlags()
	if err != nil {
		return exitErr(ExitConfigError, err)
	}

	var files []pretty.FileStats

	if len(args) == 0 {
		src, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return exitErr(ExitIOError, fmt.Errorf("read stdin: %w", err))
		}
		stats, err := docstats.Collect(src, dialect)
		if err != nil {
			return exitErr(ExitRenderError, fmt.Errorf("parse stdin: %w", err))
		}
		files = append(files, pretty.FileStats{Path: stdinName, Stats: stats})
	}

	var paths []string
	if len(args) > 0 {
		paths, err = expandInputs(cmd, args)
		if err != nil {
			return err
		}
	}

	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			return exitErr(ExitIOError, fmt.Errorf("read %s: %w", path, err))
		}
		stats, err := docstats.Collect(src, dialect)
		if err != nil {
			return exitErr(ExitRenderError, fmt.Errorf("parse %s: %w", path, err))
		}
		files = append(files, pretty.FileStats{Path: path, Stats: stats})
	}

	out := cmd.OutOrStdout()
	styles := pretty.NewStyles(pretty.IsColorEnabled(opts.root.color, out))

	if len(files) > 1 {
		formatter := pretty.NewTableFormatter(styles, terminalWidth())
		fmt.Fprint(out, formatter.FormatTable(files))
	}
	if opts.summary {
		fmt.Fprint(out, styles.FormatSummary(files))
	} else {
		fmt.Fprint(out, styles.FormatSummaryOneLine(files))
	}

	return nil
}

// terminalWidth returns the stdout width, or 0 when stdout is not a
// terminal (the formatter falls back to its default).
func terminalWidth() int {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0
	}
	return width
}
