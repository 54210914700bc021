package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdstream/internal/configloader"
	"github.com/yaklabco/mdstream/internal/logging"
	"github.com/yaklabco/mdstream/pkg/config"
	"github.com/yaklabco/mdstream/pkg/fsutil"
	"github.com/yaklabco/mdstream/pkg/langdetect"
	"github.com/yaklabco/mdstream/pkg/mdhtml"
)

// outputFilePermissions is the file mode for rendered output files.
const outputFilePermissions = 0644

type renderOptions struct {
	root *rootOptions

	flavor           string
	extensions       []string
	output           string
	xhtml            bool
	verbatimEntities bool
	detectLanguage   bool
}

func newRenderCommand(root *rootOptions) *cobra.Command {
	opts := &renderOptions{root: root}

	cmd := &cobra.Command{
		Use:   "render [files...]",
		Short: "Render Markdown files to HTML",
		Long: `Render Markdown files to HTML.

Each file is parsed in the configured dialect and written as an HTML
fragment. Directory arguments are expanded to the Markdown files they
contain. When no files are given, input is read from standard input.
Multiple files are concatenated into a single output stream.`,
		Example: `  mdstream render README.md
  mdstream render --flavor gfm --output site.html docs/
  cat notes.md | mdstream render --extension tables --extension math`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.flavor, "flavor", "", "markdown flavor: commonmark or gfm")
	cmd.Flags().StringSliceVar(&opts.extensions, "extension", nil,
		"dialect extension to enable (repeatable)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&opts.xhtml, "xhtml", false, "render XHTML-style void elements")
	cmd.Flags().BoolVar(&opts.verbatimEntities, "verbatim-entities", false,
		"copy entity references through undecoded")
	cmd.Flags().BoolVar(&opts.detectLanguage, "detect-language", false,
		"canonicalize and detect code block languages")

	return cmd
}

// cliConfig builds the highest-precedence config layer from flags.
func (o *renderOptions) cliConfig(cmd *cobra.Command) *config.Config {
	cfg := &config.Config{
		Flavor:           config.Flavor(o.flavor),
		Output:           o.output,
		XHTML:            o.xhtml,
		VerbatimEntities: o.verbatimEntities,
		DetectLanguage:   o.detectLanguage,
		Debug:            o.root.debug,
	}
	if cmd.Flags().Changed("extension") {
		cfg.Extensions = o.extensions
	}
	return cfg
}

// loadConfig resolves the effective configuration for a command run.
func loadConfig(cmd *cobra.Command, root *rootOptions, cli *config.Config) (*config.Config, error) {
	result, err := configloader.Load(cmd.Context(), configloader.LoadOptions{
		ExplicitPath: root.configPath,
		CLIConfig:    cli,
	})
	if err != nil {
		return nil, exitErr(ExitConfigError, err)
	}

	logger := logging.FromContext(cmd.Context())
	for _, w := range result.Warnings {
		logger.Warn(w)
	}
	for _, path := range result.LoadedFrom {
		logger.Debug("loaded config", logging.FieldPath, path)
	}

	return result.Config, nil
}

// expandInputs resolves file and directory arguments to Markdown files.
func expandInputs(cmd *cobra.Command, args []string) ([]string, error) {
	files, err := fsutil.DiscoverMarkdown(cmd.Context(), args)
	if err != nil {
		return nil, exitErr(ExitIOError, err)
	}
	if len(files) == 0 {
		return nil, exitErr(ExitInvalidUsage, fmt.Errorf("no Markdown files found in %v", args))
	}
	return files, nil
}

func runRender(cmd *cobra.Command, opts *renderOptions, args []string) error {
	cfg, err := loadConfig(cmd, opts.root, opts.cliConfig(cmd))
	if err != nil {
		return err
	}

	dialect, err := cfg.DialectFlags()
	if err != nil {
		return exitErr(ExitConfigError, err)
	}

	renderOpts := []mdhtml.Option{mdhtml.WithFlags(cfg.RenderFlags())}
	if cfg.DetectLanguage {
		renderOpts = append(renderOpts, mdhtml.WithLanguageResolver(resolveLanguage))
	}
	if opts.root.debug {
		renderOpts = append(renderOpts,
			mdhtml.WithDebugLog(logging.DebugSink(logging.FromContext(cmd.Context()))))
	}

	// Render into a buffer so output files are written atomically and
	// never left half-rendered after a parse failure.
	var buf bytes.Buffer
	var out io.Writer = &buf
	if cfg.Output == "" {
		out = cmd.OutOrStdout()
	}

	if len(args) == 0 {
		src, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return exitErr(ExitIOError, fmt.Errorf("read stdin: %w", err))
		}
		if err := mdhtml.Render(out, src, dialect, renderOpts...); err != nil {
			return exitErr(ExitRenderError, fmt.Errorf("render stdin: %w", err))
		}
		return writeOutput(cmd, cfg.Output, &buf)
	}

	files, err := expandInputs(cmd, args)
	if err != nil {
		return err
	}

	for _, path := range files {
		src, err := os.ReadFile(path)
		if err != nil {
			return exitErr(ExitIOError, fmt.Errorf("read %s: %w", path, err))
		}
		if err := mdhtml.Render(out, src, dialect, renderOpts...); err != nil {
			return exitErr(ExitRenderError, fmt.Errorf("render %s: %w", path, err))
		}
	}

	return writeOutput(cmd, cfg.Output, &buf)
}

// resolveLanguage maps fence info tags to canonical highlighter names.
func resolveLanguage(lang string) string {
	return langdetect.Canonical(lang)
}

// writeOutput commits buffered HTML to the output file, if one was
// requested. Rendering to stdout bypasses the buffer entirely.
func writeOutput(cmd *cobra.Command, path string, buf *bytes.Buffer) error {
	if path == "" {
		return nil
	}
	if err := fsutil.WriteAtomic(cmd.Context(), path, buf.Bytes(), outputFilePermissions); err != nil {
		return exitErr(ExitIOError, fmt.Errorf("write output %s: %w", path, err))
	}
	return nil
}
