package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/servicem8/sm8-cli/internal/api"
	"github.com/servicem8/sm8-cli/internal/dryrun"
	"github.com/servicem8/sm8-cli/internal/validation"
)

func newInboxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inbox",
		Short: "Work with inbox messages",
	}
	cmd.AddCommand(newInboxListCmd())
	cmd.AddCommand(newInboxGetCmd())
	cmd.AddCommand(newInboxConvertCmd())
	cmd.AddCommand(newInboxCreateCmd())
	return cmd
}

func newInboxListCmd() *cobra.Command {
	var (
		filter string
		search string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List inbox messages",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}

			messages, err := client.Inbox().List(cmd.Context(), api.ListInboxOptions{
				Filter: filter,
				Search: search,
				Limit:  limit,
			})
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, messages)
			}

			w := newTabWriterFromCmd(cmd)
			_, _ = fmt.Fprintln(w, "UUID\tFROM\tSUBJECT\tRECEIVED")
			for _, m := range messages {
				from := m.FromName
				if from == "" {
					from = m.FromEmail
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.UUID, truncate(from, 30), truncate(m.Subject, 50), m.Timestamp)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			printIfNotQuiet(cmd, "\n%d message(s)\n", len(messages))
			return nil
		}),
	}

	cmd.Flags().StringVar(&filter, "filter", "", "Server-side filter (e.g. unread)")
	cmd.Flags().StringVar(&search, "search", "", "Search within messages")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum messages to return (0 = server default)")
	return cmd
}

func newInboxGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <uuid>",
		Short: "Show an inbox message",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if err := validation.ValidateUUID(args[0], "message"); err != nil {
				return err
			}
			client, err := getClient()
			if err != nil {
				return err
			}

			message, err := client.Inbox().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, message)
			}

			w := newTabWriterFromCmd(cmd)
			_, _ = fmt.Fprintf(w, "UUID:\t%s\n", message.UUID)
			_, _ = fmt.Fprintf(w, "From:\t%s <%s>\n", message.FromName, message.FromEmail)
			_, _ = fmt.Fprintf(w, "Subject:\t%s\n", message.Subject)
			_, _ = fmt.Fprintf(w, "Received:\t%s\n", message.Timestamp)
			if message.RegardingCompanyUUID != "" {
				_, _ = fmt.Fprintf(w, "Client:\t%s\n", message.RegardingCompanyUUID)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if message.MessageText != "" {
				printIfNotQuiet(cmd, "\n%s\n", message.MessageText)
			}
			return nil
		}),
	}
	return cmd
}

func newInboxConvertCmd() *cobra.Command {
	var (
		templateUUID string
		note         string
	)

	cmd := &cobra.Command{
		Use:   "convert <uuid>",
		Short: "Convert an inbox message into a job",
		Example: strings.TrimSpace(`
  sm8 inbox convert 123e4567-...
  sm8 inbox convert 123e4567-... --template <job-uuid> --note "Quoted over the phone"
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if err := validation.ValidateUUID(args[0], "message"); err != nil {
				return err
			}
			if templateUUID != "" {
				if err := validation.ValidateUUID(templateUUID, "template"); err != nil {
					return err
				}
			}
			client, err := getClient()
			if err != nil {
				return err
			}

			if done, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "convert",
				Resource:  "inbox message " + args[0],
				Details:   map[string]any{"template": templateUUID, "note": note},
			}); done {
				return err
			}

			result, err := client.Inbox().ConvertToJob(cmd.Context(), args[0], templateUUID, note)
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, result)
			}
			printAction(cmd, "Converted", "inbox message", args[0], "")
			return nil
		}),
	}

	cmd.Flags().StringVar(&templateUUID, "template", "", "Job UUID to copy defaults from")
	cmd.Flags().StringVar(&note, "note", "", "Note to attach to the new job")
	return cmd
}

func newInboxCreateCmd() *cobra.Command {
	var (
		subject   string
		message   string
		fromName  string
		fromEmail string
		clientRef string
		jobData   []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an inbox message",
		Example: strings.TrimSpace(`
  sm8 inbox create --subject "Leaking tap" --message "Kitchen tap won't stop dripping" \
    --from-name "Jo Smith" --from-email jo@example.test
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}

			text, err := loadAtValue(message)
			if err != nil {
				return err
			}

			companyUUID := ""
			if clientRef != "" {
				companyUUID, err = resolveClientUUID(cmd, client, clientRef)
				if err != nil {
					return err
				}
			}

			data := map[string]string{}
			if len(jobData) > 0 {
				pairs, err := parseFieldValues(jobData)
				if err != nil {
					return err
				}
				for _, p := range pairs {
					data[p.Name] = p.Value
				}
			}

			if done, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "create",
				Resource:  "inbox message",
				Details:   map[string]any{"subject": subject, "from": fromEmail},
			}); done {
				return err
			}

			uuid, err := client.Inbox().CreateMessage(cmd.Context(), api.CreateMessageParams{
				Subject:              subject,
				MessageText:          text,
				FromName:             fromName,
				FromEmail:            fromEmail,
				RegardingCompanyUUID: companyUUID,
				JobData:              data,
			})
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"uuid": uuid})
			}
			printAction(cmd, "Created", "inbox message", uuid, subject)
			return nil
		}),
	}

	cmd.Flags().StringVar(&subject, "subject", "", "Message subject (required)")
	cmd.Flags().StringVarP(&message, "message", "m", "", "Message body (or @path, @- for stdin; required)")
	cmd.Flags().StringVar(&fromName, "from-name", "", "Sender display name")
	cmd.Flags().StringVar(&fromEmail, "from-email", "", "Sender email address")
	cmd.Flags().StringVar(&clientRef, "client", "", "Related client UUID or name")
	cmd.Flags().StringArrayVar(&jobData, "job-data", nil, "Prefill for a later conversion, field=value (repeatable)")
	_ = cmd.MarkFlagRequired("subject")
	_ = cmd.MarkFlagRequired("message")
	return cmd
}
