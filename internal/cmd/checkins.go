package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/servicem8/sm8-cli/internal/api"
	"github.com/servicem8/sm8-cli/internal/validation"
)

// Checkins are recorded by staff in the field through the mobile apps;
// the API only reads them back, so there is no create or update here.
func newCheckinsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "checkins",
		Aliases: []string{"checkin"},
		Short:   "View recorded staff check-ins",
	}
	cmd.AddCommand(newCheckinsListCmd())
	cmd.AddCommand(newCheckinsGetCmd())
	return cmd
}

func newCheckinsListCmd() *cobra.Command {
	var (
		jobUUID         string
		staff           string
		includeInactive bool
		limit           int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List check-ins",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
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

			staffUUID := ""
			if staff != "" {
				staffUUID, err = resolveStaffUUID(ctx, client, staff)
				if err != nil {
					return err
				}
			}

			checkins, err := client.Checkins().List(ctx, api.ListCheckinsOptions{
				JobUUID:         jobUUID,
				StaffUUID:       staffUUID,
				IncludeInactive: includeInactive,
				Limit:           limit,
			})
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, checkins)
			}

			w := newTabWriterFromCmd(cmd)
			_, _ = fmt.Fprintln(w, "UUID\tJOB\tSTAFF\tSTART\tEND")
			for _, c := range checkins {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", c.UUID, c.JobUUID, c.StaffUUID, c.StartDate, c.EndDate)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			printIfNotQuiet(cmd, "\n%d check-in(s)\n", len(checkins))
			return nil
		}),
	}

	cmd.Flags().StringVar(&jobUUID, "job", "", "Scope to one job UUID")
	cmd.Flags().StringVar(&staff, "staff", "", "Scope to a staff member (name or UUID)")
	cmd.Flags().BoolVar(&includeInactive, "include-inactive", false, "Include deleted records")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum records to return (0 = all)")
	return cmd
}

func newCheckinsGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <uuid>",
		Short: "Show a check-in",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if err := validation.ValidateUUID(args[0], "checkin"); err != nil {
				return err
			}
			client, err := getClient()
			if err != nil {
				return err
			}

			checkin, err := client.Checkins().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, checkin)
			}

			w := newTabWriterFromCmd(cmd)
			_, _ = fmt.Fprintf(w, "UUID:\t%s\n", checkin.UUID)
			_, _ = fmt.Fprintf(w, "Job:\t%s\n", checkin.JobUUID)
			_, _ = fmt.Fprintf(w, "Staff:\t%s\n", checkin.StaffUUID)
			_, _ = fmt.Fprintf(w, "Start:\t%s\n", checkin.StartDate)
			_, _ = fmt.Fprintf(w, "End:\t%s\n", checkin.EndDate)
			if secs := checkin.TravelTimeInSec.Int(); secs > 0 {
				_, _ = fmt.Fprintf(w, "Travel time:\t%dm%ds\n", secs/60, secs%60)
			}
			return w.Flush()
		}),
	}
	return cmd
}
