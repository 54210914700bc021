package cli

import (
	"io"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/yaklabco/mdstream/internal/ui/pretty"
	"github.com/yaklabco/mdstream/pkg/config"
)

// helpStyles holds the lipgloss styles used by the help templates.
type helpStyles struct {
	command   lipgloss.Style
	heading   lipgloss.Style
	subcmd    lipgloss.Style
	flag      lipgloss.Style
	example   lipgloss.Style
	extension lipgloss.Style
	dim       lipgloss.Style
}

func newHelpStyles(colorEnabled bool) *helpStyles {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return &helpStyles{
			command:   plain,
			heading:   plain,
			subcmd:    plain,
			flag:      plain,
			example:   plain,
			extension: plain,
			dim:       plain,
		}
	}
	return &helpStyles{
		command:   lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		heading:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		subcmd:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		flag:      lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		example:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		extension: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		dim:       lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// HelpFormatter renders styled help for the mdstream command tree. On
// top of Cobra's stock sections it lists the dialect extension names
// accepted by --extension on the commands that define that flag.
type HelpFormatter struct {
	styles *helpStyles
}

// NewHelpFormatter creates a help formatter honoring the --color mode
// for the given output writer.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	return &HelpFormatter{styles: newHelpStyles(pretty.IsColorEnabled(colorMode, writer))}
}

func (h *HelpFormatter) templateFuncs() template.FuncMap {
	return template.FuncMap{
		"styleCommand":    h.styles.command.Render,
		"styleHeading":    h.styles.heading.Render,
		"styleSubcommand": h.styles.subcmd.Render,
		"styleExample":    h.styles.example.Render,
		"styleDim":        h.styles.dim.Render,
		"flagBlock":       h.flagBlock,
		"takesExtensions": takesExtensions,
		"extensionNames":  h.extensionNames,
		"rpad":            rpad,
		"trimTrailing":    trimTrailing,
		"join":            strings.Join,
	}
}

func (h *HelpFormatter) usageTemplate() string {
	return `{{ styleHeading "Usage:" }}
  {{if .Runnable}}{{ styleCommand .UseLine }}{{end}}
  {{if .HasAvailableSubCommands}}{{ styleCommand .CommandPath }} [command]{{end}}

{{- if gt (len .Aliases) 0}}

{{ styleHeading "Aliases:" }}
  {{ styleDim (join .Aliases ", ") }}
{{- end}}

{{- if .HasExample}}

{{ styleHeading "Examples:" }}
{{ styleExample .Example }}
{{- end}}

{{- if .HasAvailableSubCommands}}

{{ styleHeading "Available Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ styleSubcommand (rpad .Name .NamePadding) }} {{ .Short }}{{end}}{{end}}
{{- end}}

{{- if .HasAvailableLocalFlags}}

{{ styleHeading "Flags:" }}
{{ flagBlock .LocalFlags }}
{{- end}}

{{- if .HasAvailableInheritedFlags}}

{{ styleHeading "Global Flags:" }}
{{ flagBlock .InheritedFlags }}
{{- end}}

{{- if takesExtensions .}}

{{ styleHeading "Dialect Extensions:" }}
  {{ extensionNames }}

  Each name can be passed to --extension (repeatable) or listed under
  the extensions key of .mdstream.yaml.
{{- end}}

{{- if .HasAvailableSubCommands}}

Use "{{ styleCommand (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`
}

func (h *HelpFormatter) helpTemplate() string {
	return `{{if or .Runnable .HasSubCommands}}{{ styleCommand .CommandPath }}{{if .Version}} {{ styleDim .Version }}{{end}}

{{end}}{{with (or .Long .Short)}}{{ . | trimTrailing }}

{{end}}` + h.usageTemplate()
}

// takesExtensions reports whether the command defines the --extension
// flag and so accepts dialect extension names.
func takesExtensions(cmd *cobra.Command) bool {
	return cmd.Flags().Lookup("extension") != nil
}

func (h *HelpFormatter) extensionNames() string {
	return h.styles.extension.Render(strings.Join(config.KnownExtensions(), ", "))
}

// flagBlock colorizes pflag's FlagUsages output line by line, keeping
// the original indentation and column gap.
func (h *HelpFormatter) flagBlock(flags interface{ FlagUsages() string }) string {
	usages := strings.TrimSuffix(flags.FlagUsages(), "\n")
	if usages == "" {
		return ""
	}
	lines := strings.Split(usages, "\n")
	for i, line := range lines {
		lines[i] = h.styleFlagLine(line)
	}
	return strings.Join(lines, "\n")
}

// styleFlagLine styles one "  -o, --output string   description" line.
func (h *HelpFormatter) styleFlagLine(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	if trimmed == "" {
		return line
	}
	indent := line[:len(line)-len(trimmed)]
	names, rest := splitUsageLine(trimmed)
	return indent + h.styleFlagTokens(names) + rest
}

// splitUsageLine cuts a trimmed usage line at pflag's column gap, the
// first run of two or more spaces. The gap stays with the remainder so
// rebuilt lines keep their alignment.
func splitUsageLine(line string) (names, rest string) {
	for i := 0; i+1 < len(line); i++ {
		if line[i] == ' ' && line[i+1] == ' ' {
			return strings.TrimRight(line[:i], " "), line[i:]
		}
	}
	return line, ""
}

// styleFlagTokens styles the flag names of a usage line and dims the
// value type token, if any.
func (h *HelpFormatter) styleFlagTokens(names string) string {
	tokens := strings.Fields(names)
	for i, tok := range tokens {
		bare := strings.TrimSuffix(tok, ",")
		if strings.HasPrefix(bare, "-") {
			tokens[i] = h.styles.flag.Render(bare) + tok[len(bare):]
		} else {
			tokens[i] = h.styles.dim.Render(tok)
		}
	}
	return strings.Join(tokens, " ")
}

// ApplyToCommand installs the styled help and usage renderers on cmd
// and, through Cobra's inheritance, on its subcommands.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	funcs := h.templateFuncs()
	usageTmpl := template.Must(template.New("usage").Funcs(funcs).Parse(h.usageTemplate()))
	helpTmpl := template.Must(template.New("help").Funcs(funcs).Parse(h.helpTemplate()))

	cmd.SetUsageFunc(func(c *cobra.Command) error {
		return usageTmpl.Execute(c.OutOrStdout(), c)
	})
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		if err := helpTmpl.Execute(c.OutOrStdout(), c); err != nil {
			c.PrintErrln(err)
		}
	})
}

// rpad pads str with spaces to the given width.
func rpad(str string, padding int) string {
	if len(str) >= padding {
		return str
	}
	return str + strings.Repeat(" ", padding-len(str))
}

// trimTrailing removes trailing whitespace from every line.
func trimTrailing(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
