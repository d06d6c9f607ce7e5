package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/servicem8/sm8-cli/internal/api"
	"github.com/servicem8/sm8-cli/internal/dryrun"
	"github.com/servicem8/sm8-cli/internal/validation"
)

func newEmailCmd() *cobra.Command {
	var (
		to          string
		cc          string
		replyTo     string
		subject     string
		htmlBody    string
		textBody    string
		jobUUID     string
		attachments []string
		impersonate string
	)

	cmd := &cobra.Command{
		Use:   "email",
		Short: "Send an email through ServiceM8",
		Long: "Sends an email via the platform email service. When --job is given the\n" +
			"email is recorded in that job's diary.",
		Example: strings.TrimSpace(`
  sm8 email --to jo@example.test --subject "Your quote" --text @quote.txt --job <uuid>
  sm8 email --to jo@example.test --subject "Invoice" --html @invoice.html --attach <attachment-uuid>
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if err := validation.ValidateEmailFormat(to); err != nil {
				return err
			}
			for _, addr := range splitCommaList(cc) {
				if err := validation.ValidateEmailFormat(addr); err != nil {
					return err
				}
			}
			if jobUUID != "" {
				if err := validation.ValidateUUID(jobUUID, "job"); err != nil {
					return err
				}
			}
			client, err := getClient()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			html, err := loadAtValue(htmlBody)
			if err != nil {
				return err
			}
			text, err := loadAtValue(textBody)
			if err != nil {
				return err
			}

			impersonateUUID := ""
			if impersonate != "" {
				impersonateUUID, err = resolveStaffUUID(ctx, client, impersonate)
				if err != nil {
					return err
				}
			}

			if done, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "send",
				Resource:  "email",
				Details: map[string]any{
					"to":      to,
					"cc":      cc,
					"subject": subject,
					"job":     jobUUID,
				},
			}); done {
				return err
			}

			result, err := client.Messaging().SendEmail(ctx, api.EmailParams{
				To:                   to,
				CC:                   cc,
				ReplyTo:              replyTo,
				Subject:              subject,
				HTMLBody:             html,
				TextBody:             text,
				RegardingJobUUID:     jobUUID,
				Attachments:          attachments,
				ImpersonateStaffUUID: impersonateUUID,
			})
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, result)
			}
			printIfNotQuiet(cmd, "Email sent to %s\n", to)
			return nil
		}),
	}

	cmd.Flags().StringVar(&to, "to", "", "Recipient address (required)")
	cmd.Flags().StringVar(&cc, "cc", "", "CC address (comma-separated for multiple)")
	cmd.Flags().StringVar(&replyTo, "reply-to", "", "Reply-To address")
	cmd.Flags().StringVar(&subject, "subject", "", "Subject line (required)")
	cmd.Flags().StringVar(&htmlBody, "html", "", "HTML body (or @path)")
	cmd.Flags().StringVar(&textBody, "text", "", "Plain text body (or @path)")
	cmd.Flags().StringVar(&jobUUID, "job", "", "Record the email against this job")
	cmd.Flags().StringArrayVar(&attachments, "attach", nil, "Attachment record UUID (repeatable)")
	cmd.Flags().StringVar(&impersonate, "as", "", "Staff member whose signature to use (name or UUID)")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}
