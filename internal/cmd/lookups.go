package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/servicem8/sm8-cli/internal/api"
	"github.com/servicem8/sm8-cli/internal/cache"
	"github.com/servicem8/sm8-cli/internal/resolve"
)

// primeLookupCache stores a freshly fetched listing so later name
// resolution hits the cache instead of the API.
func primeLookupCache(client *api.Client, key string, items []resolve.Named) {
	dir := resolveCacheDir()
	if dir == "" {
		return
	}
	cache.NewStore(dir, key, client.BaseURL, cacheProfile()).Put(items)
}

func newStaffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "staff",
		Short: "List staff members",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List staff members",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}

			staff, err := client.Lookups().Staff(cmd.Context())
			if err != nil {
				return err
			}

			named := make([]resolve.Named, len(staff))
			for i, s := range staff {
				named[i] = resolve.Named{UUID: s.UUID, Name: s.Name()}
			}
			primeLookupCache(client, "staff", named)

			if isJSON(cmd) {
				return printJSON(cmd, staff)
			}

			w := newTabWriterFromCmd(cmd)
			_, _ = fmt.Fprintln(w, "UUID\tNAME\tEMAIL\tMOBILE\tROLE")
			for _, s := range staff {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", s.UUID, s.Name(), s.Email, s.Mobile, s.JobTitle)
			}
			return w.Flush()
		}),
	}

	cmd.AddCommand(list)
	return cmd
}

func newQueuesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queues",
		Short: "List job queues",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List job queues",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}

			queues, err := client.Lookups().Queues(cmd.Context())
			if err != nil {
				return err
			}

			named := make([]resolve.Named, len(queues))
			for i, q := range queues {
				named[i] = resolve.Named{UUID: q.UUID, Name: q.Name}
			}
			primeLookupCache(client, "queues", named)

			if isJSON(cmd) {
				return printJSON(cmd, queues)
			}

			w := newTabWriterFromCmd(cmd)
			_, _ = fmt.Fprintln(w, "UUID\tNAME\tREQUIRES ASSIGNMENT")
			for _, q := range queues {
				requires := "no"
				if q.RequiresAssignment.Int() != 0 {
					requires = "yes"
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", q.UUID, q.Name, requires)
			}
			return w.Flush()
		}),
	}

	cmd.AddCommand(list)
	return cmd
}

func newWindowsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "windows",
		Short: "List allocation windows",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List allocation windows",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}

			windows, err := client.Lookups().AllocationWindows(cmd.Context())
			if err != nil {
				return err
			}

			named := make([]resolve.Named, len(windows))
			for i, win := range windows {
				named[i] = resolve.Named{UUID: win.UUID, Name: win.Name}
			}
			primeLookupCache(client, "windows", named)

			if isJSON(cmd) {
				return printJSON(cmd, windows)
			}

			w := newTabWriterFromCmd(cmd)
			_, _ = fmt.Fprintln(w, "UUID\tNAME")
			for _, win := range windows {
				_, _ = fmt.Fprintf(w, "%s\t%s\n", win.UUID, win.Name)
			}
			return w.Flush()
		}),
	}

	cmd.AddCommand(list)
	return cmd
}

func newCategoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List job categories",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List job categories",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}

			categories, err := client.Lookups().Categories(cmd.Context())
			if err != nil {
				return err
			}

			named := make([]resolve.Named, len(categories))
			for i, c := range categories {
				named[i] = resolve.Named{UUID: c.UUID, Name: c.Name}
			}
			primeLookupCache(client, "categories", named)

			if isJSON(cmd) {
				return printJSON(cmd, categories)
			}

			w := newTabWriterFromCmd(cmd)
			_, _ = fmt.Fprintln(w, "UUID\tNAME\tCOLOUR")
			for _, c := range categories {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", c.UUID, c.Name, c.Colour)
			}
			return w.Flush()
		}),
	}

	cmd.AddCommand(list)
	return cmd
}
