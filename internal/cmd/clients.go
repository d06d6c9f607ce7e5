package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/servicem8/sm8-cli/internal/api"
	"github.com/servicem8/sm8-cli/internal/dryrun"
	"github.com/servicem8/sm8-cli/internal/iocontext"
	"github.com/servicem8/sm8-cli/internal/validation"
)

func newClientsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "clients",
		Aliases: []string{"client", "companies", "company"},
		Short:   "Manage client companies",
	}
	cmd.AddCommand(newClientsListCmd())
	cmd.AddCommand(newClientsGetCmd())
	cmd.AddCommand(newClientsCreateCmd())
	cmd.AddCommand(newClientsUpdateCmd())
	cmd.AddCommand(newClientsDeleteCmd())
	cmd.AddCommand(newClientsContactCmd())
	return cmd
}

func newClientsListCmd() *cobra.Command {
	var (
		name            string
		where           []string
		includeInactive bool
		limit           int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List clients",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}

			clauses, err := parseClauses(where)
			if err != nil {
				return err
			}
			if name != "" {
				clauses = append(clauses, api.Clause{Field: "name", Operator: "like", Value: "%" + name + "%"})
			}

			companies, err := client.Clients().List(cmd.Context(), api.ListClientsOptions{
				Clauses:         clauses,
				IncludeInactive: includeInactive,
				Limit:           limit,
			})
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, companies)
			}

			w := newTabWriterFromCmd(cmd)
			_, _ = fmt.Fprintln(w, "UUID\tNAME\tEMAIL\tPHONE")
			for _, c := range companies {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.UUID, truncate(c.Name, 40), c.Email, c.Phone)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			printIfNotQuiet(cmd, "\n%d client(s)\n", len(companies))
			return nil
		}),
	}

	cmd.Flags().StringVar(&name, "name", "", "Filter by name substring")
	cmd.Flags().StringArrayVarP(&where, "where", "w", nil, "Filter clause field:op:value (repeatable)")
	cmd.Flags().BoolVar(&includeInactive, "include-inactive", false, "Include deleted records")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum records to return (0 = all)")
	flagAlias(cmd.Flags(), "where", "filter")
	return cmd
}

// resolveClientUUID turns a client name into a company UUID via the
// client listing, so get/update/delete take names too.
func resolveClientUUID(cmd *cobra.Command, client *api.Client, identifier string) (string, error) {
	identifier = strings.TrimSpace(identifier)
	if looksLikeUUID(identifier) {
		return identifier, nil
	}

	companies, err := client.Clients().List(cmd.Context(), api.ListClientsOptions{
		Clauses: []api.Clause{{Field: "name", Operator: "like", Value: "%" + identifier + "%"}},
	})
	if err != nil {
		return "", err
	}
	switch len(companies) {
	case 0:
		return "", fmt.Errorf("no client found matching %q", identifier)
	case 1:
		return companies[0].UUID, nil
	}
	var options []string
	for i, c := range companies {
		if i == 5 {
			options = append(options, fmt.Sprintf("  ... and %d more", len(companies)-5))
			break
		}
		options = append(options, fmt.Sprintf("  %s: %s", c.UUID, c.Name))
	}
	return "", fmt.Errorf("multiple clients match %q, specify UUID:\n%s", identifier, strings.Join(options, "\n"))
}

func newClientsGetCmd() *cobra.Command {
	var withContacts bool

	cmd := &cobra.Command{
		Use:   "get <uuid-or-name>",
		Short: "Show a client",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			uuid, err := resolveClientUUID(cmd, client, args[0])
			if err != nil {
				return err
			}

			var (
				company  *api.Company
				contacts []api.CompanyContact
			)
			if withContacts {
				company, contacts, err = client.Clients().GetWithContacts(cmd.Context(), uuid)
			} else {
				company, err = client.Clients().Get(cmd.Context(), uuid)
			}
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				if withContacts {
					return printJSON(cmd, map[string]any{"client": company, "contacts": contacts})
				}
				return printJSON(cmd, company)
			}

			w := newTabWriterFromCmd(cmd)
			_, _ = fmt.Fprintf(w, "UUID:\t%s\n", company.UUID)
			_, _ = fmt.Fprintf(w, "Name:\t%s\n", company.Name)
			_, _ = fmt.Fprintf(w, "Address:\t%s\n", company.Address)
			_, _ = fmt.Fprintf(w, "Email:\t%s\n", company.Email)
			_, _ = fmt.Fprintf(w, "Phone:\t%s\n", company.Phone)
			if company.Website != "" {
				_, _ = fmt.Fprintf(w, "Website:\t%s\n", company.Website)
			}
			if company.BillingAddress != "" {
				_, _ = fmt.Fprintf(w, "Billing address:\t%s\n", company.BillingAddress)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if withContacts && len(contacts) > 0 {
				ioStreams := iocontext.GetIO(cmd.Context())
				_, _ = fmt.Fprintln(ioStreams.Out, "\nContacts:")
				cw := newTabWriter(ioStreams.Out)
				_, _ = fmt.Fprintln(cw, "  TYPE\tNAME\tEMAIL\tMOBILE")
				for _, c := range contacts {
					name := strings.TrimSpace(c.First + " " + c.Last)
					_, _ = fmt.Fprintf(cw, "  %s\t%s\t%s\t%s\n", c.Type, name, c.Email, c.Mobile)
				}
				return cw.Flush()
			}
			return nil
		}),
	}

	cmd.Flags().BoolVar(&withContacts, "with-contacts", false, "Include company contacts")
	return cmd
}

func newClientsCreateCmd() *cobra.Command {
	var (
		name    string
		address string
		email   string
		phone   string
		set     []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a client",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if err := validation.ValidateName(name); err != nil {
				return err
			}
			if email != "" {
				if err := validation.ValidateEmailFormat(email); err != nil {
					return err
				}
			}
			client, err := getClient()
			if err != nil {
				return err
			}

			fields, err := parseFieldValues(set)
			if err != nil {
				return err
			}
			fields = append(fields, api.FieldValue{Name: "name", Value: name})
			if address != "" {
				fields = append(fields, api.FieldValue{Name: "address", Value: address})
			}
			if email != "" {
				fields = append(fields, api.FieldValue{Name: "email", Value: email})
			}
			if phone != "" {
				fields = append(fields, api.FieldValue{Name: "phone", Value: phone})
			}

			details := map[string]any{}
			for _, f := range fields {
				details[f.Name] = f.Value
			}
			if done, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "create",
				Resource:  "client",
				Details:   details,
			}); done {
				return err
			}

			uuid, err := client.Clients().Create(cmd.Context(), fields)
			if err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"uuid": uuid})
			}
			printAction(cmd, "Created", "client", uuid, name)
			return nil
		}),
	}

	cmd.Flags().StringVar(&name, "name", "", "Client name (required)")
	cmd.Flags().StringVar(&address, "address", "", "Street address")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&phone, "phone", "", "Phone number")
	cmd.Flags().StringArrayVar(&set, "set", nil, "Raw field assignment field=value (repeatable)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newClientsUpdateCmd() *cobra.Command {
	var (
		name    string
		address string
		email   string
		phone   string
		set     []string
	)

	cmd := &cobra.Command{
		Use:   "update <uuid-or-name>",
		Short: "Update a client",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			uuid, err := resolveClientUUID(cmd, client, args[0])
			if err != nil {
				return err
			}

			fields, err := parseFieldValues(set)
			if err != nil {
				return err
			}
			if name != "" {
				fields = append(fields, api.FieldValue{Name: "name", Value: name})
			}
			if address != "" {
				fields = append(fields, api.FieldValue{Name: "address", Value: address})
			}
			if email != "" {
				if err := validation.ValidateEmailFormat(email); err != nil {
					return err
				}
				fields = append(fields, api.FieldValue{Name: "email", Value: email})
			}
			if phone != "" {
				fields = append(fields, api.FieldValue{Name: "phone", Value: phone})
			}
			if len(fields) == 0 {
				return api.ErrNoFieldsToUpdate
			}

			details := map[string]any{}
			for _, f := range fields {
				details[f.Name] = f.Value
			}
			if done, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "update",
				Resource:  "client " + uuid,
				Details:   details,
			}); done {
				return err
			}

			if err := client.Clients().Update(cmd.Context(), uuid, fields); err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"uuid": uuid, "updated": true})
			}
			printAction(cmd, "Updated", "client", uuid, "")
			return nil
		}),
	}

	cmd.Flags().StringVar(&name, "name", "", "Client name")
	cmd.Flags().StringVar(&address, "address", "", "Street address")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&phone, "phone", "", "Phone number")
	cmd.Flags().StringArrayVar(&set, "set", nil, "Raw field assignment field=value (repeatable)")
	return cmd
}

func newClientsDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <uuid>...",
		Short: "Delete one or more clients",
		Args:  cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			for _, uuid := range args {
				if err := validation.ValidateUUID(uuid, "client"); err != nil {
					return err
				}
			}
			client, err := getClient()
			if err != nil {
				return err
			}

			if done, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation:   "delete",
				Resource:    fmt.Sprintf("%d client(s)", len(args)),
				Description: strings.Join(args, "\n"),
			}); done {
				return err
			}

			ok, err := confirmAction(cmd, confirmOptions{
				Prompt:              fmt.Sprintf("Delete %d client(s)? [y/N]: ", len(args)),
				CancelMessage:       "Cancelled.",
				Force:               force,
				RequireForceForJSON: true,
			})
			if err != nil || !ok {
				return err
			}

			deleted, failures := bulkDelete(cmd, args, func(uuid string) error {
				return client.Clients().Delete(cmd.Context(), uuid)
			})

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"deleted": deleted, "failed": failures})
			}
			printIfNotQuiet(cmd, "Deleted %d client(s)\n", len(deleted))
			if len(failures) > 0 {
				return fmt.Errorf("%d of %d deletes failed", len(failures), len(args))
			}
			return nil
		}),
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation (required with --output json)")
	return cmd
}

func newClientsContactCmd() *cobra.Command {
	var (
		contactType string
		first       string
		last        string
		email       string
		mobile      string
		phone       string
	)

	cmd := &cobra.Command{
		Use:   "contact <client-uuid-or-name>",
		Short: "Create or update a typed contact on a client",
		Long: "Each client carries at most one contact per type (" + strings.Join(api.ContactTypes, ", ") + ").\n" +
			"An existing contact of the given type is updated in place; otherwise one is created.",
		Example: strings.TrimSpace(`
  sm8 clients contact "Acme" --type JOB --first Jo --last Smith --mobile +61400000000
  sm8 clients contact 123e4567-... --type BILLING --email accounts@acme.test
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			uuid, err := resolveClientUUID(cmd, client, args[0])
			if err != nil {
				return err
			}

			contact := api.ContactFields{
				First:  first,
				Last:   last,
				Email:  email,
				Mobile: mobile,
				Phone:  phone,
			}

			if done, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "upsert",
				Resource:  fmt.Sprintf("%s contact on client %s", contactType, uuid),
				Details: map[string]any{
					"first": first, "last": last, "email": email, "mobile": mobile, "phone": phone,
				},
			}); done {
				return err
			}

			if err := client.Clients().UpsertContact(cmd.Context(), uuid, contactType, contact); err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"company_uuid": uuid, "type": contactType, "updated": true})
			}
			printAction(cmd, "Saved", contactType+" contact on client", uuid, "")
			return nil
		}),
	}

	cmd.Flags().StringVar(&contactType, "type", "JOB", "Contact type: "+strings.Join(api.ContactTypes, ", "))
	cmd.Flags().StringVar(&first, "first", "", "First name")
	cmd.Flags().StringVar(&last, "last", "", "Last name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&mobile, "mobile", "", "Mobile number")
	cmd.Flags().StringVar(&phone, "phone", "", "Phone number")
	return cmd
}
