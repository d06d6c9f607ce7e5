package cmd

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/servicem8/sm8-cli/internal/api"
	"github.com/servicem8/sm8-cli/internal/debug"
	"github.com/servicem8/sm8-cli/internal/dryrun"
	"github.com/servicem8/sm8-cli/internal/iocontext"
	"github.com/servicem8/sm8-cli/internal/outfmt"
)

// rootFlags holds global CLI flags
type rootFlags struct {
	Output    string
	Debug     bool
	DryRun    bool
	Quiet     bool
	Silent    bool
	NoInput   bool
	Yes       bool
	JSON      bool
	Query     string
	QueryFile string
	JQ        string
	Template  string
	Compact   bool
	Timeout   time.Duration
	Profile   string
	APIKey    string
	BaseURL   string
}

// flags holds the global command flags. This is package-level mutable state
// that MUST be reset at the start of every Execute() call. Tests depend on
// this reset to get clean state; any code that reads flags outside of a
// command's RunE is reading stale data from the previous Execute() call.
var flags = rootFlags{
	Output:  defaultOutput(),
	Timeout: api.DefaultTimeout,
}

func defaultOutput() string {
	value := strings.TrimSpace(os.Getenv("SM8_OUTPUT"))
	if value != "" {
		return normalizeOutputFormat(value)
	}
	return "text"
}

func normalizeOutputFormat(value string) string {
	value = strings.TrimSpace(value)
	if value == "ndjson" {
		return "jsonl"
	}
	return value
}

func loadQueryFile(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("--query-file requires a file path")
	}

	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read query from stdin: %w", err)
		}
	} else {
		data, err = os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read --query-file %q: %w", path, err)
		}
	}

	query := strings.TrimSpace(string(data))
	if query == "" {
		return "", fmt.Errorf("--query-file %q is empty", path)
	}
	return query, nil
}

//go:embed help.txt
var helpText string

// Execute runs the root command
func Execute(ctx context.Context, args []string) error {
	// Reset flags to defaults for each execution. This is critical for test
	// isolation — see the invariant comment on the flags declaration above.
	flags = rootFlags{
		Output:  defaultOutput(),
		Timeout: api.DefaultTimeout,
	}

	root := &cobra.Command{
		Use:                "sm8",
		Short:              "CLI for the ServiceM8 field service platform",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true, // We provide our own did-you-mean via enhanceUnknownError
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: false,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			flags.Output = normalizeOutputFormat(flags.Output)
			if flags.QueryFile != "" {
				if flags.Query != "" || flags.JQ != "" {
					return fmt.Errorf("--query-file cannot be used with --query or --jq")
				}
				queryFromFile, err := loadQueryFile(flags.QueryFile)
				if err != nil {
					return err
				}
				flags.Query = queryFromFile
			}

			// -y/--yes implies non-interactive mode and should satisfy
			// force requirements for confirmations.
			if flags.Yes {
				flags.NoInput = true
			}

			// Ensure JSON output when requested or required
			if flags.JSON {
				if flagOrAliasChanged(cmd, "output") && flags.Output != "json" {
					return fmt.Errorf("--json conflicts with --output %s", flags.Output)
				}
				flags.Output = "json"
			}
			needsJSON := flags.Query != "" || flags.JQ != "" || flags.Template != ""
			if needsJSON && flags.Output != "json" && flags.Output != "jsonl" {
				if flagOrAliasChanged(cmd, "output") {
					return fmt.Errorf("--jq/--query/--query-file/--template require --output json or jsonl/ndjson (or --json)")
				}
				flags.Output = "json"
			}

			// Set up output mode
			mode, err := outfmt.Parse(flags.Output)
			if err != nil {
				return err
			}
			ctx = outfmt.WithMode(ctx, mode)
			ctx = outfmt.WithCompact(ctx, flags.Compact)

			// Set up IO streams (allow silent/quiet to suppress stderr).
			// A caller-injected IO (tests) wins over the process streams;
			// copy it so the quiet/silent overrides don't leak back.
			base := iocontext.GetIO(ctx)
			ioStreams := &iocontext.IO{Out: base.Out, ErrOut: base.ErrOut, In: base.In}
			if flags.Silent || flags.Quiet {
				ioStreams.ErrOut = io.Discard
			}
			if flags.Quiet && mode == outfmt.Text {
				ioStreams.Out = io.Discard
			}
			ctx = iocontext.WithIO(ctx, ioStreams)
			cmd.SetOut(ioStreams.Out)
			cmd.SetErr(ioStreams.ErrOut)

			// Set up debug logging (--debug or SM8_DEBUG)
			debugOn := flags.Debug || debug.FromEnv()
			debug.SetupLogger(debugOn)
			ctx = debug.WithDebug(ctx, debugOn)

			// Set up dry-run mode
			ctx = dryrun.WithDryRun(ctx, flags.DryRun)

			// Set up JQ query (--jq takes precedence over --query)
			if jqQuery := getJQQuery(); jqQuery != "" {
				ctx = outfmt.WithQuery(ctx, jqQuery)
			}

			// Set up template output
			if flags.Template != "" {
				tmpl, err := loadTemplate(flags.Template)
				if err != nil {
					return err
				}
				ctx = outfmt.WithTemplate(ctx, tmpl)
			}

			if flags.Profile != "" {
				// Profile selection travels by env so config.LoadAccount sees it
				// regardless of which call path resolves credentials.
				if err := os.Setenv("SM8_PROFILE", flags.Profile); err != nil {
					return err
				}
			}

			cmd.SetContext(ctx)
			return nil
		},
	}

	root.SetContext(ctx)
	root.SetArgs(args)
	baseIO := iocontext.GetIO(ctx)
	root.SetOut(baseIO.Out)
	root.SetErr(baseIO.ErrOut)
	root.SetIn(baseIO.In)
	defaultHelp := root.HelpFunc()
	root.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd.Name() == root.Name() && !cmd.HasParent() {
			_, _ = fmt.Fprint(cmd.OutOrStdout(), helpText)
			return
		}
		defaultHelp(cmd, args)
	})
	root.PersistentFlags().StringVarP(&flags.Output, "output", "o", flags.Output, "Output format: text|json|jsonl|ndjson (env SM8_OUTPUT)")
	root.PersistentFlags().BoolVarP(&flags.JSON, "json", "j", false, "Shorthand for --output json")
	root.PersistentFlags().BoolVar(&flags.Debug, "debug", false, "Enable debug logging")
	root.PersistentFlags().BoolVar(&flags.DryRun, "dry-run", false, "Preview changes without executing")
	root.PersistentFlags().StringVarP(&flags.Query, "query", "q", "", "JQ expression to filter JSON output")
	root.PersistentFlags().StringVar(&flags.QueryFile, "query-file", "", "Read JQ expression from file ('-' for stdin)")
	root.PersistentFlags().StringVar(&flags.JQ, "jq", "", "Alias for --query")
	root.PersistentFlags().BoolVar(&flags.Compact, "compact-json", false, "Compact JSON output (no indentation)")
	root.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "Q", false, "Suppress non-essential output")
	root.PersistentFlags().BoolVar(&flags.Silent, "silent", false, "Suppress non-error output to stderr")
	root.PersistentFlags().BoolVar(&flags.NoInput, "no-input", false, "Disable interactive prompts")
	root.PersistentFlags().BoolVarP(&flags.Yes, "yes", "y", false, "Skip confirmation prompts")
	root.PersistentFlags().StringVar(&flags.Template, "template", "", "Go template string (or @path) to render JSON output")
	root.PersistentFlags().DurationVar(&flags.Timeout, "timeout", flags.Timeout, "HTTP request timeout (e.g., 30s, 2m)")
	root.PersistentFlags().StringVar(&flags.Profile, "profile", "", "Credential profile to use (env SM8_PROFILE)")
	root.PersistentFlags().StringVar(&flags.APIKey, "api-key", "", "ServiceM8 API key (env SM8_API_KEY)")
	root.PersistentFlags().StringVar(&flags.BaseURL, "base-url", "", "API base URL override (env SM8_BASE_URL)")

	// Short aliases for persistent flags
	flagAlias(root.PersistentFlags(), "dry-run", "dr")
	flagAlias(root.PersistentFlags(), "output", "out")
	flagAlias(root.PersistentFlags(), "query", "qr")
	flagAlias(root.PersistentFlags(), "query-file", "qf")
	flagAlias(root.PersistentFlags(), "compact-json", "cj")
	flagAlias(root.PersistentFlags(), "debug", "dbg")
	flagAlias(root.PersistentFlags(), "silent", "sil")
	flagAlias(root.PersistentFlags(), "no-input", "ni")
	flagAlias(root.PersistentFlags(), "template", "tpl")
	flagAlias(root.PersistentFlags(), "timeout", "to")
	flagAlias(root.PersistentFlags(), "profile", "pr")

	// Add subcommands
	root.AddCommand(newAuthCmd())
	root.AddCommand(newJobsCmd())
	root.AddCommand(newClientsCmd())
	root.AddCommand(newBookingsCmd())
	root.AddCommand(newCheckinsCmd())
	root.AddCommand(newAttachmentsCmd())
	root.AddCommand(newInboxCmd())
	root.AddCommand(newEmailCmd())
	root.AddCommand(newSMSCmd())
	root.AddCommand(newSearchCmd())
	root.AddCommand(newWebhooksCmd())
	root.AddCommand(newStaffCmd())
	root.AddCommand(newQueuesCmd())
	root.AddCommand(newWindowsCmd())
	root.AddCommand(newCategoriesCmd())
	root.AddCommand(newSchemaCmd())
	root.AddCommand(newCacheCmd())
	root.AddCommand(newVersionCmd())

	targetCmd, err := root.ExecuteC()
	if err != nil {
		if !errors.Is(err, errAlreadyHandled) {
			enhanced := enhanceUnknownError(err, root, targetCmd)
			_, _ = fmt.Fprintln(root.ErrOrStderr(), enhanced) //nolint:errcheck
		}
		return err
	}
	return nil
}

// enhanceUnknownError adds "did you mean?" suggestions to unknown command/flag errors.
// targetCmd is the command Cobra resolved before the error (may be root itself).
func enhanceUnknownError(err error, root *cobra.Command, targetCmd *cobra.Command) string {
	msg := err.Error()

	// Unknown command: "unknown command "foo" for "sm8""
	if strings.Contains(msg, "unknown command") {
		unknown := extractQuoted(msg)
		if unknown != "" {
			var names []string
			for _, c := range root.Commands() {
				if c.IsAvailableCommand() || c.Name() == "help" {
					names = append(names, c.Name())
					names = append(names, c.Aliases...)
				}
			}
			if suggestion := suggestClosest(unknown, names); suggestion != "" {
				return fmt.Sprintf("%s\n\nDid you mean %q?", msg, suggestion)
			}
		}
	}

	// Unknown flag: "--foo", shorthand "-f", or similarly malformed flag usage.
	if strings.Contains(msg, "unknown flag") || strings.Contains(msg, "flag provided but not defined") || strings.Contains(msg, "unknown shorthand flag") {
		unknown := extractFlag(msg)
		if unknown != "" {
			seen := make(map[string]bool)
			var flagNames []string
			addFlags := func(fs *pflag.FlagSet) {
				fs.VisitAll(func(f *pflag.Flag) {
					name := "--" + f.Name
					if !seen[name] {
						seen[name] = true
						flagNames = append(flagNames, name)
					}
					if f.Shorthand != "" {
						short := "-" + f.Shorthand
						if !seen[short] {
							seen[short] = true
							flagNames = append(flagNames, short)
						}
					}
				})
			}
			if targetCmd != nil {
				addFlags(targetCmd.Flags())
				addFlags(targetCmd.InheritedFlags())
			} else {
				addFlags(root.Flags())
				addFlags(root.PersistentFlags())
			}
			helpCmd := "sm8 --help"
			if targetCmd != nil {
				if commandPath := strings.TrimSpace(targetCmd.CommandPath()); commandPath != "" {
					helpCmd = commandPath + " --help"
				}
			}
			if suggestion := suggestClosest(unknown, flagNames); suggestion != "" {
				return fmt.Sprintf("%s\n\nDid you mean %q?\nRun %q to see supported flags.", msg, suggestion, helpCmd)
			}
			return fmt.Sprintf("%s\n\nRun %q to see supported flags.", msg, helpCmd)
		}
	}

	return msg
}

// extractQuoted extracts the first double-quoted substring from s.
func extractQuoted(s string) string {
	start := strings.IndexByte(s, '"')
	if start < 0 {
		return ""
	}
	end := strings.IndexByte(s[start+1:], '"')
	if end < 0 {
		return ""
	}
	return s[start+1 : start+1+end]
}

// extractFlag extracts a flag name (e.g., "--foo") from an error message.
func extractFlag(s string) string {
	idx := strings.Index(s, "--")
	if idx < 0 {
		// Fallback for shorthand errors like:
		// "unknown shorthand flag: 'a' in -a"
		idx = strings.LastIndex(s, " -")
		if idx < 0 {
			return ""
		}
		rest := strings.TrimSpace(s[idx+1:])
		end := strings.IndexByte(rest, ' ')
		if end >= 0 {
			rest = rest[:end]
		}
		rest = strings.TrimRight(rest, ".,;:!?\"'")
		if strings.HasPrefix(rest, "-") && len(rest) > 1 {
			return rest
		}
		return ""
	}
	rest := s[idx:]
	end := strings.IndexByte(rest, ' ')
	if end < 0 {
		end = len(rest)
	}
	return strings.TrimRight(rest[:end], ".,;:!?\"'")
}

func loadTemplate(value string) (string, error) {
	if strings.HasPrefix(value, "@") {
		path := strings.TrimPrefix(value, "@")
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read template file: %w", err)
		}
		return string(data), nil
	}
	return value, nil
}
