package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/servicem8/sm8-cli/internal/api"
)

func newSearchCmd() *cobra.Command {
	var (
		objectType string
		limit      int
		raw        bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search across jobs, clients and other records",
		Example: strings.TrimSpace(`
  sm8 search "smith"
  sm8 search "burst pipe" --type job --limit 10
  sm8 search "acme" -o json --raw
`),
		Args: cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}

			hits, err := client.Search().Run(cmd.Context(), api.SearchParams{
				Query:      strings.Join(args, " "),
				ObjectType: objectType,
				Limit:      limit,
			})
			if err != nil {
				return err
			}

			if raw {
				return printJSON(cmd, hits)
			}

			results := api.Hits(hits)
			if isJSON(cmd) {
				return printJSON(cmd, results)
			}

			w := newTabWriterFromCmd(cmd)
			_, _ = fmt.Fprintln(w, "TYPE\tUUID\tLABEL\tSNIPPET")
			for _, r := range results {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.ObjectType, r.UUID, truncate(r.Label, 40), truncate(r.Snippet, 60))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			printIfNotQuiet(cmd, "\n%d result(s)\n", len(results))
			return nil
		}),
	}

	cmd.Flags().StringVar(&objectType, "type", "", "Restrict to one object type (e.g. job, company)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum results (0 = server default)")
	cmd.Flags().BoolVar(&raw, "raw", false, "Emit raw hits without decoding the common fields")
	return cmd
}
