package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/servicem8/sm8-cli/internal/iocontext"
	"github.com/servicem8/sm8-cli/internal/schema"
)

func newSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Inspect resource schemas",
	}
	cmd.AddCommand(newSchemaResourcesCmd())
	cmd.AddCommand(newSchemaFieldsCmd())
	return cmd
}

func newSchemaResourcesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resources",
		Short: "List known resources and their operations",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			names := schema.Resources()

			if isJSON(cmd) {
				type resourceInfo struct {
					Name       string   `json:"name"`
					Object     string   `json:"object"`
					Operations []string `json:"operations"`
				}
				out := make([]resourceInfo, 0, len(names))
				for _, name := range names {
					r, err := schema.Get(name)
					if err != nil {
						return err
					}
					ops := make([]string, 0, len(r.Operations))
					for op := range r.Operations {
						ops = append(ops, op)
					}
					sort.Strings(ops)
					out = append(out, resourceInfo{Name: r.Name, Object: r.Object, Operations: ops})
				}
				return printJSON(cmd, out)
			}

			w := newTabWriterFromCmd(cmd)
			_, _ = fmt.Fprintln(w, "RESOURCE\tOBJECT\tOPERATIONS")
			for _, name := range names {
				r, err := schema.Get(name)
				if err != nil {
					return err
				}
				ops := make([]string, 0, len(r.Operations))
				for op := range r.Operations {
					ops = append(ops, op)
				}
				sort.Strings(ops)
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", r.Name, r.Object, strings.Join(ops, ", "))
			}
			return w.Flush()
		}),
	}
	return cmd
}

func newSchemaFieldsCmd() *cobra.Command {
	var filterableOnly bool

	cmd := &cobra.Command{
		Use:   "fields <resource>",
		Short: "List the fields of a resource",
		Example: strings.TrimSpace(`
  sm8 schema fields job
  sm8 schema fields client --filterable
`),
		Args: cobra.ExactArgs(1),
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return schema.Resources(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			r, err := schema.Get(args[0])
			if err != nil {
				return err
			}

			fields := r.Fields
			if filterableOnly {
				fields = r.FilterableFields()
			}

			if isJSON(cmd) {
				type fieldInfo struct {
					Name       string `json:"name"`
					Label      string `json:"label"`
					Type       string `json:"type"`
					Filterable bool   `json:"filterable"`
				}
				out := make([]fieldInfo, 0, len(fields))
				for _, f := range fields {
					out = append(out, fieldInfo{Name: f.Name, Label: f.Label, Type: string(f.Type), Filterable: f.Filterable})
				}
				return printJSON(cmd, out)
			}

			ioStreams := iocontext.GetIO(cmd.Context())
			w := newTabWriter(ioStreams.Out)
			_, _ = fmt.Fprintln(w, "FIELD\tLABEL\tTYPE\tFILTERABLE")
			for _, f := range fields {
				filterable := ""
				if f.Filterable {
					filterable = "yes"
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", f.Name, f.Label, f.Type, filterable)
			}
			return w.Flush()
		}),
	}

	cmd.Flags().BoolVar(&filterableOnly, "filterable", false, "Show only fields usable in --where clauses")
	return cmd
}
