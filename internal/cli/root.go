// Package cli provides the Cobra command structure for mdstream.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdstream/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// rootOptions holds global flag values shared by subcommands.
type rootOptions struct {
	debug      bool
	configPath string
	color      string
}

// NewRootCommand creates the root mdstream command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "mdstream",
		Short: "A streaming CommonMark and GFM to HTML converter",
		Long: `mdstream is a streaming Markdown processor written in Go.

It parses CommonMark and GitHub Flavored Markdown (GFM) into a stream of
structural events and renders them as HTML, without building a document
tree. Dialect extensions such as tables, task lists, strikethrough, math
spans and wiki links can be toggled per invocation or via configuration.`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := "info"
			if opts.debug {
				level = "debug"
			}
			logger := logging.New(level)
			logging.SetDefault(logger)
			cmd.SetContext(logging.NewContext(cmd.Context(), logger))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&opts.color, "color", "auto",
		"colorize output: auto, always, never")

	// Add subcommands.
	rootCmd.AddCommand(newRenderCommand(opts))
	rootCmd.AddCommand(newCheckCommand(opts))
	rootCmd.AddCommand(newVersionCommand(info))

	// Apply styled help formatting.
	helpFormatter := NewHelpFormatter(opts.color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}
