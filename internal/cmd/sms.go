package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/servicem8/sm8-cli/internal/api"
	"github.com/servicem8/sm8-cli/internal/dryrun"
	"github.com/servicem8/sm8-cli/internal/validation"
)

func newSMSCmd() *cobra.Command {
	var (
		to      string
		message string
		jobUUID string
	)

	cmd := &cobra.Command{
		Use:   "sms",
		Short: "Send an SMS through ServiceM8",
		Example: strings.TrimSpace(`
  sm8 sms --to +61400000000 --message "Running 20 minutes late, sorry!"
  sm8 sms --to +61400000000 --message @reminder.txt --job <uuid>
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if err := validation.ValidatePhoneFormat(to); err != nil {
				return err
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

			text, err := loadAtValue(message)
			if err != nil {
				return err
			}
			if err := validation.ValidateMessageContent(text); err != nil {
				return err
			}

			if done, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "send",
				Resource:  "sms",
				Details: map[string]any{
					"to":      to,
					"message": truncate(text, 80),
					"job":     jobUUID,
				},
			}); done {
				return err
			}

			result, err := client.Messaging().SendSMS(cmd.Context(), api.SMSParams{
				To:               to,
				Message:          text,
				RegardingJobUUID: jobUUID,
			})
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, result)
			}
			printIfNotQuiet(cmd, "SMS sent to %s\n", to)
			return nil
		}),
	}

	cmd.Flags().StringVar(&to, "to", "", "Recipient in E.164 format, e.g. +61400000000 (required)")
	cmd.Flags().StringVarP(&message, "message", "m", "", "Message text (or @path, @- for stdin; required)")
	cmd.Flags().StringVar(&jobUUID, "job", "", "Record the SMS against this job")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("message")
	return cmd
}
