package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/servicem8/sm8-cli/internal/api"
	"github.com/servicem8/sm8-cli/internal/cache"
	"github.com/servicem8/sm8-cli/internal/cli"
	"github.com/servicem8/sm8-cli/internal/dryrun"
	"github.com/servicem8/sm8-cli/internal/iocontext"
	"github.com/servicem8/sm8-cli/internal/outfmt"
	"github.com/servicem8/sm8-cli/internal/resolve"
	"github.com/servicem8/sm8-cli/internal/validation"
)

// getJQQuery returns the jq query from --jq or --query flags.
// --jq takes precedence over --query for consistency with gh CLI.
func getJQQuery() string {
	if flags.JQ != "" {
		return flags.JQ
	}
	return flags.Query
}

// getClient creates an API client from stored credentials
func getClient() (*api.Client, error) {
	return newClientFactory().client()
}

// newTabWriter creates a tabwriter for text output
func newTabWriter(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
}

func newTabWriterFromCmd(cmd *cobra.Command) *tabwriter.Writer {
	ioStreams := iocontext.GetIO(cmd.Context())
	return newTabWriter(ioStreams.Out)
}

// printJSON outputs data as JSON with optional query/template filtering.
// Slices are wrapped as {"items": [...]} by the outfmt normalizer so jq
// paths stay stable even for empty listings.
func printJSON(cmd *cobra.Command, v any) error {
	ctx := cmd.Context()
	ioStreams := iocontext.GetIO(ctx)
	query := outfmt.GetQuery(ctx)
	compact := outfmt.IsCompact(ctx)

	if tmpl := outfmt.GetTemplate(ctx); tmpl != "" {
		filtered, err := outfmt.ApplyQuery(v, query)
		if err != nil {
			return err
		}
		// Round-trip through JSON so templates see maps keyed by the
		// wire field names rather than Go struct fields.
		plain, err := toPlainJSON(filtered)
		if err != nil {
			return err
		}
		return outfmt.WriteTemplate(ioStreams.Out, plain, tmpl)
	}

	if outfmt.IsJSONL(ctx) {
		return writeJSONL(ioStreams.Out, v, query)
	}

	return outfmt.WriteJSONFiltered(ioStreams.Out, v, query, compact)
}

func toPlainJSON(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// writeJSONL emits one compact JSON line per item. Listings stream item
// by item; any other value becomes a single line.
func writeJSONL(w io.Writer, v any, query string) error {
	filtered, err := outfmt.ApplyQuery(v, query)
	if err != nil {
		return err
	}
	plain, err := toPlainJSON(filtered)
	if err != nil {
		return err
	}

	items := []any{plain}
	switch t := plain.(type) {
	case []any:
		items = t
	case map[string]any:
		if arr, ok := t["items"].([]any); ok && len(t) == 1 {
			items = arr
		}
	}

	enc := json.NewEncoder(w)
	for _, item := range items {
		if err := enc.Encode(item); err != nil {
			return err
		}
	}
	return nil
}

// isJSON checks if the command context wants JSON output
func isJSON(cmd *cobra.Command) bool {
	return outfmt.IsJSON(cmd.Context())
}

// printIfNotQuiet prints to stdout only if not in quiet mode
func printIfNotQuiet(cmd *cobra.Command, format string, args ...any) {
	if !flags.Quiet {
		ioStreams := iocontext.GetIO(cmd.Context())
		_, _ = fmt.Fprintf(ioStreams.Out, format, args...)
	}
}

func printAction(cmd *cobra.Command, action, resource, uuid, name string) {
	if flags.Quiet || isJSON(cmd) {
		return
	}

	ioStreams := iocontext.GetIO(cmd.Context())
	message := fmt.Sprintf("%s %s", action, resource)
	if uuid != "" {
		message = fmt.Sprintf("%s %s", message, uuid)
	}
	if name != "" {
		message = fmt.Sprintf("%s: %s", message, name)
	}
	_, _ = fmt.Fprintln(ioStreams.Out, message)
}

// cmdContext returns the command context
func cmdContext(cmd *cobra.Command) context.Context {
	return cmd.Context()
}

func maybeDryRun(cmd *cobra.Command, preview *dryrun.Preview) (bool, error) {
	if !dryrun.IsEnabled(cmd.Context()) {
		return false, nil
	}
	if preview == nil {
		preview = &dryrun.Preview{}
	}
	if isJSON(cmd) {
		payload := map[string]any{
			"dry_run":     true,
			"operation":   preview.Operation,
			"resource":    preview.Resource,
			"description": preview.Description,
			"details":     preview.Details,
			"warnings":    preview.Warnings,
		}
		return true, printJSON(cmd, payload)
	}

	ioStreams := iocontext.GetIO(cmd.Context())
	preview.Write(ioStreams.Out)
	return true, nil
}

// flagAlias registers a hidden alias for an existing flag.
// Both flags share the same underlying Value, so setting either one sets both.
// The alias is annotated so flagOrAliasChanged() can detect it.
// aliasBridgeValue wraps a pflag.Value so that Set() on the alias also
// marks the canonical flag as Changed.  This lets aliases satisfy Cobra's
// MarkFlagRequired check transparently.
type aliasBridgeValue struct {
	pflag.Value
	canonical *pflag.Flag
}

func (v *aliasBridgeValue) Set(s string) error {
	if err := v.Value.Set(s); err != nil {
		return err
	}
	v.canonical.Changed = true
	return nil
}

// aliasBridgeSliceValue extends aliasBridgeValue to also forward the
// pflag.SliceValue interface (Append, Replace, GetSlice) when the
// underlying Value supports it.
type aliasBridgeSliceValue struct {
	aliasBridgeValue
	slice pflag.SliceValue
}

func (v *aliasBridgeSliceValue) Append(s string) error     { return v.slice.Append(s) }
func (v *aliasBridgeSliceValue) Replace(ss []string) error { return v.slice.Replace(ss) }
func (v *aliasBridgeSliceValue) GetSlice() []string        { return v.slice.GetSlice() }

func flagAlias(fs *pflag.FlagSet, name, alias string) {
	f := fs.Lookup(name)
	if f == nil {
		panic(fmt.Sprintf("flagAlias: flag %q not found", name))
	}
	a := *f // shallow copy — shares the Value interface
	a.Name = alias
	a.Shorthand = ""
	a.Usage = ""
	a.Hidden = true
	bridge := &aliasBridgeValue{Value: f.Value, canonical: f}
	if sv, ok := f.Value.(pflag.SliceValue); ok {
		a.Value = &aliasBridgeSliceValue{aliasBridgeValue: *bridge, slice: sv}
	} else {
		a.Value = bridge
	}
	// Deep-copy annotations so we don't mutate the original flag's map,
	// and strip the "required" annotation — the alias should never be
	// independently required (the canonical flag enforces that).
	newAnn := map[string][]string{"alias-of": {name}}
	for k, v := range f.Annotations {
		if k == cobra.BashCompOneRequiredFlag {
			continue
		}
		newAnn[k] = v
	}
	a.Annotations = newAnn
	fs.AddFlag(&a)
}

// flagOrAliasChanged returns true if the named flag or any of its
// hidden aliases was explicitly set by the user.
func flagOrAliasChanged(cmd *cobra.Command, name string) bool {
	if cmd.Flags().Changed(name) {
		return true
	}
	if cmd.InheritedFlags().Changed(name) {
		return true
	}

	aliasChanged := func(fs *pflag.FlagSet) bool {
		found := false
		fs.VisitAll(func(f *pflag.Flag) {
			if found {
				return
			}
			if ann, ok := f.Annotations["alias-of"]; ok && len(ann) > 0 && ann[0] == name {
				if fs.Changed(f.Name) {
					found = true
				}
			}
		})
		return found
	}

	return aliasChanged(cmd.Flags()) || aliasChanged(cmd.InheritedFlags())
}

type confirmOptions struct {
	Prompt              string
	Expected            string
	CancelMessage       string
	Force               bool
	RequireForceForJSON bool
}

func confirmAction(cmd *cobra.Command, opts confirmOptions) (bool, error) {
	if flags.Yes {
		opts.Force = true
	}
	if opts.RequireForceForJSON && isJSON(cmd) && !opts.Force {
		return false, fmt.Errorf("--force flag is required when using --output json")
	}
	if opts.Force {
		return true, nil
	}

	out := cmd.OutOrStdout()
	if opts.Prompt != "" {
		_, _ = fmt.Fprint(out, opts.Prompt)
	}

	ioStreams := iocontext.GetIO(cmd.Context())
	reader := bufio.NewReader(ioStreams.In)
	response, err := reader.ReadString('\n')
	if err != nil && response == "" {
		if opts.CancelMessage != "" {
			_, _ = fmt.Fprintln(out, opts.CancelMessage)
		}
		return false, nil
	}

	response = strings.TrimSpace(strings.ToLower(response))
	expected := strings.TrimSpace(strings.ToLower(opts.Expected))
	if expected == "" {
		expected = "y"
	}
	if response != expected {
		if opts.CancelMessage != "" {
			_, _ = fmt.Fprintln(out, opts.CancelMessage)
		}
		return false, nil
	}

	return true, nil
}

func loadAtValue(value string) (string, error) {
	value = strings.TrimSpace(value)
	if !strings.HasPrefix(value, "@") {
		return value, nil
	}
	target := strings.TrimPrefix(value, "@")
	if target == "" {
		return "", fmt.Errorf("invalid @ value: missing path (use @- for stdin)")
	}
	if target == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(target)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", target, err)
	}
	return string(data), nil
}

func splitCommaList(value string) []string {
	parts := strings.Split(value, ",")
	var out []string
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

// parseClauses parses repeated --where values of the form "field:op:value"
// into filter clauses. The value segment may itself contain colons.
func parseClauses(values []string) ([]api.Clause, error) {
	var clauses []api.Clause
	for _, raw := range values {
		parts := strings.SplitN(raw, ":", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid --where %q: expected field:op:value", raw)
		}
		field := strings.TrimSpace(parts[0])
		op := strings.TrimSpace(parts[1])
		if field == "" || op == "" {
			return nil, fmt.Errorf("invalid --where %q: expected field:op:value", raw)
		}
		clauses = append(clauses, api.Clause{Field: field, Operator: op, Value: parts[2]})
	}
	return clauses, nil
}

// parseFieldValues parses repeated --set values of the form "field=value"
// into body field assignments.
func parseFieldValues(values []string) ([]api.FieldValue, error) {
	var fields []api.FieldValue
	for _, raw := range values {
		name, value, ok := strings.Cut(raw, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --set %q: expected field=value", raw)
		}
		fields = append(fields, api.FieldValue{Name: name, Value: value})
	}
	return fields, nil
}

// parseTimeValue accepts relative expressions ("2h", "tomorrow", "next tue")
// as well as anything the wire normalizer takes, and returns wire format.
func parseTimeValue(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	if t, err := cli.ParseRelativeTime(value, time.Now()); err == nil {
		return t.Format(api.WireDateTimeLayout), nil
	}
	return api.ToWireDateTime(value)
}

func resolveCacheDir() string {
	if dir := os.Getenv("SM8_CACHE_DIR"); dir != "" {
		return dir
	}
	dir, err := cache.DefaultDir()
	if err != nil {
		return ""
	}
	return dir
}

func cacheProfile() string {
	if flags.Profile != "" {
		return flags.Profile
	}
	return os.Getenv("SM8_PROFILE")
}

// looksLikeUUID reports whether s parses as a UUID, so name resolution
// can pass explicit UUIDs straight through.
func looksLikeUUID(s string) bool {
	return validation.ValidateUUID(strings.TrimSpace(s), "uuid") == nil
}

// resolveNamed resolves a name or UUID against a cached reference
// listing. A UUID input short-circuits; anything else fuzzy-matches the
// listing, refetching on a cache miss.
func resolveNamed(ctx context.Context, client *api.Client, kind, cacheKey, identifier string, fetch func(context.Context) ([]resolve.Named, error)) (string, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return "", fmt.Errorf("empty %s identifier", kind)
	}
	if looksLikeUUID(identifier) {
		return identifier, nil
	}

	dir := resolveCacheDir()
	var items []resolve.Named

	if dir != "" {
		store := cache.NewStore(dir, cacheKey, client.BaseURL, cacheProfile())
		if store.Get(&items) {
			if uuid, err := resolve.FuzzyMatch(identifier, items); err == nil {
				return uuid, nil
			}
			// Cache might be stale, fall through to API.
		}
	}

	items, err := fetch(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list %s: %w", kind, err)
	}

	if dir != "" {
		store := cache.NewStore(dir, cacheKey, client.BaseURL, cacheProfile())
		store.Put(items)
	}

	uuid, err := resolve.FuzzyMatch(identifier, items)
	if err == nil {
		return uuid, nil
	}

	var ae *resolve.AmbiguousError
	if errors.As(err, &ae) {
		var options []string
		for _, m := range ae.Matches {
			options = append(options, fmt.Sprintf("  %s: %s", m.UUID, m.Name))
		}
		return "", fmt.Errorf("multiple %s match %q, specify UUID:\n%s", kind, identifier, strings.Join(options, "\n"))
	}

	matches := resolve.FuzzyMatchAll(identifier, items, 5)
	if len(matches) == 0 {
		return "", fmt.Errorf("no %s found matching %q", kind, identifier)
	}
	var options []string
	for _, m := range matches {
		options = append(options, fmt.Sprintf("  %s: %s", m.UUID, m.Name))
	}
	return "", fmt.Errorf("no %s found matching %q, best matches:\n%s", kind, identifier, strings.Join(options, "\n"))
}

func resolveStaffUUID(ctx context.Context, client *api.Client, identifier string) (string, error) {
	return resolveNamed(ctx, client, "staff member", "staff", identifier, func(ctx context.Context) ([]resolve.Named, error) {
		staff, err := client.Lookups().Staff(ctx)
		if err != nil {
			return nil, err
		}
		items := make([]resolve.Named, len(staff))
		for i, s := range staff {
			items[i] = resolve.Named{UUID: s.UUID, Name: s.Name()}
		}
		return items, nil
	})
}

func resolveQueueUUID(ctx context.Context, client *api.Client, identifier string) (string, error) {
	return resolveNamed(ctx, client, "queue", "queues", identifier, func(ctx context.Context) ([]resolve.Named, error) {
		queues, err := client.Lookups().Queues(ctx)
		if err != nil {
			return nil, err
		}
		items := make([]resolve.Named, len(queues))
		for i, q := range queues {
			items[i] = resolve.Named{UUID: q.UUID, Name: q.Name}
		}
		return items, nil
	})
}

func resolveWindowUUID(ctx context.Context, client *api.Client, identifier string) (string, error) {
	return resolveNamed(ctx, client, "allocation window", "windows", identifier, func(ctx context.Context) ([]resolve.Named, error) {
		windows, err := client.Lookups().AllocationWindows(ctx)
		if err != nil {
			return nil, err
		}
		items := make([]resolve.Named, len(windows))
		for i, w := range windows {
			items[i] = resolve.Named{UUID: w.UUID, Name: w.Name}
		}
		return items, nil
	})
}

func resolveCategoryUUID(ctx context.Context, client *api.Client, identifier string) (string, error) {
	return resolveNamed(ctx, client, "category", "categories", identifier, func(ctx context.Context) ([]resolve.Named, error) {
		categories, err := client.Lookups().Categories(ctx)
		if err != nil {
			return nil, err
		}
		items := make([]resolve.Named, len(categories))
		for i, c := range categories {
			items[i] = resolve.Named{UUID: c.UUID, Name: c.Name}
		}
		return items, nil
	})
}

// errAlreadyHandled is a sentinel error indicating the error was already printed to stderr.
// Commands using RunE return this to signal Cobra that an error occurred (for exit code)
// without Cobra printing it again (since SilenceErrors is true on root command).
var errAlreadyHandled = errors.New("error already handled")

type handledError struct {
	err      error
	exitCode int
}

func (e *handledError) Error() string {
	return e.err.Error()
}

func (e *handledError) Unwrap() error {
	return errAlreadyHandled
}

func (e *handledError) ExitCode() int {
	return e.exitCode
}

// RunE wraps a command function with enhanced error handling
func RunE(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if err != nil {
			_, _ = fmt.Fprint(cmd.ErrOrStderr(), HandleError(err))
			// Return a handled error so tests can still inspect the original message.
			return &handledError{err: err, exitCode: ExitCode(err)}
		}
		return nil
	}
}
