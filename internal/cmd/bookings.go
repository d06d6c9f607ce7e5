package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/servicem8/sm8-cli/internal/api"
	"github.com/servicem8/sm8-cli/internal/dryrun"
	"github.com/servicem8/sm8-cli/internal/validation"
)

func parseBookingType(s string) (api.BookingType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "flexible", "flex":
		return api.BookingFlexible, nil
	case "fixed":
		return api.BookingFixed, nil
	default:
		return "", fmt.Errorf("invalid --type %q: must be flexible or fixed", s)
	}
}

func newBookingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bookings",
		Aliases: []string{"booking"},
		Short:   "Schedule staff on jobs",
		Long: "Flexible bookings allocate a staff member to a job on a date, optionally\n" +
			"inside an allocation window. Fixed bookings block out an exact start and end.",
	}
	cmd.AddCommand(newBookingsListCmd())
	cmd.AddCommand(newBookingsCreateCmd())
	cmd.AddCommand(newBookingsUpdateCmd())
	cmd.AddCommand(newBookingsDeleteCmd())
	return cmd
}

func newBookingsListCmd() *cobra.Command {
	var (
		bookingType     string
		jobUUID         string
		includeInactive bool
		limit           int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List bookings",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			bt, err := parseBookingType(bookingType)
			if err != nil {
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

			opts := api.ListBookingsOptions{
				JobUUID:         jobUUID,
				IncludeInactive: includeInactive,
				Limit:           limit,
			}

			if bt == api.BookingFlexible {
				allocations, err := client.Bookings().ListFlexible(cmd.Context(), opts)
				if err != nil {
					return err
				}
				if isJSON(cmd) {
					return printJSON(cmd, allocations)
				}
				w := newTabWriterFromCmd(cmd)
				_, _ = fmt.Fprintln(w, "UUID\tJOB\tSTAFF\tDATE\tWINDOW")
				for _, a := range allocations {
					_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", a.UUID, a.JobUUID, a.StaffUUID, a.AllocationDate, a.AllocationWindowUUID)
				}
				if err := w.Flush(); err != nil {
					return err
				}
				printIfNotQuiet(cmd, "\n%d booking(s)\n", len(allocations))
				return nil
			}

			activities, err := client.Bookings().ListFixed(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, activities)
			}
			w := newTabWriterFromCmd(cmd)
			_, _ = fmt.Fprintln(w, "UUID\tJOB\tSTAFF\tSTART\tEND")
			for _, a := range activities {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", a.UUID, a.JobUUID, a.StaffUUID, a.StartDate, a.EndDate)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			printIfNotQuiet(cmd, "\n%d booking(s)\n", len(activities))
			return nil
		}),
	}

	cmd.Flags().StringVar(&bookingType, "type", "flexible", "Booking type: flexible|fixed")
	cmd.Flags().StringVar(&jobUUID, "job", "", "Scope to one job UUID")
	cmd.Flags().BoolVar(&includeInactive, "include-inactive", false, "Include deleted records")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum records to return (0 = all)")
	return cmd
}

func newBookingsCreateCmd() *cobra.Command {
	var (
		bookingType string
		jobUUID     string
		staff       string
		date        string
		window      string
		expiry      string
		start       string
		end         string
		duration    int
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a booking",
		Example: strings.TrimSpace(`
  # Flexible: sometime tomorrow, morning window
  sm8 bookings create --job <uuid> --staff "Dana" --date tomorrow --window "Morning"

  # Fixed: exact start, end computed from duration
  sm8 bookings create --type fixed --job <uuid> --staff "Dana" --start "2026-09-03 09:00" --duration 90
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			bt, err := parseBookingType(bookingType)
			if err != nil {
				return err
			}
			if err := validation.ValidateUUID(jobUUID, "job"); err != nil {
				return err
			}
			client, err := getClient()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			staffUUID, err := resolveStaffUUID(ctx, client, staff)
			if err != nil {
				return err
			}

			params := api.CreateBookingParams{
				Type:      bt,
				JobUUID:   jobUUID,
				StaffUUID: staffUUID,
			}

			switch bt {
			case api.BookingFlexible:
				if date != "" {
					params.AllocationDate, err = parseTimeValue(date)
					if err != nil {
						return err
					}
				}
				if window != "" {
					params.AllocationWindowUUID, err = resolveWindowUUID(ctx, client, window)
					if err != nil {
						return err
					}
				}
				if expiry != "" {
					params.ExpiryTimestamp, err = parseTimeValue(expiry)
					if err != nil {
						return err
					}
				}
			case api.BookingFixed:
				if start != "" {
					params.StartDate, err = parseTimeValue(start)
					if err != nil {
						return err
					}
				}
				if end != "" {
					params.EndDate, err = parseTimeValue(end)
					if err != nil {
						return err
					}
				}
				if duration > 0 && params.EndDate == "" {
					params.EndDate, err = api.EndFromDuration(params.StartDate, duration)
					if err != nil {
						return err
					}
				}
			}

			if done, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "create",
				Resource:  string(bt) + " booking",
				Details: map[string]any{
					"job_uuid":   jobUUID,
					"staff_uuid": staffUUID,
					"date":       params.AllocationDate,
					"window":     params.AllocationWindowUUID,
					"start":      params.StartDate,
					"end":        params.EndDate,
				},
			}); done {
				return err
			}

			uuid, err := client.Bookings().Create(ctx, params)
			if err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"uuid": uuid, "type": string(bt)})
			}
			printAction(cmd, "Created", string(bt)+" booking", uuid, "")
			return nil
		}),
	}

	cmd.Flags().StringVar(&bookingType, "type", "flexible", "Booking type: flexible|fixed")
	cmd.Flags().StringVar(&jobUUID, "job", "", "Job UUID (required)")
	cmd.Flags().StringVar(&staff, "staff", "", "Staff member name or UUID (required)")
	cmd.Flags().StringVar(&date, "date", "", "Allocation date for flexible bookings (relative OK)")
	cmd.Flags().StringVar(&window, "window", "", "Allocation window name or UUID")
	cmd.Flags().StringVar(&expiry, "expiry", "", "Allocation expiry timestamp")
	cmd.Flags().StringVar(&start, "start", "", "Start time for fixed bookings")
	cmd.Flags().StringVar(&end, "end", "", "End time for fixed bookings")
	cmd.Flags().IntVar(&duration, "duration", 0, "Fixed booking length in minutes (alternative to --end)")
	_ = cmd.MarkFlagRequired("job")
	_ = cmd.MarkFlagRequired("staff")
	return cmd
}

func newBookingsUpdateCmd() *cobra.Command {
	var (
		bookingType string
		staff       string
		date        string
		window      string
		expiry      string
		start       string
		end         string
		duration    int
	)

	cmd := &cobra.Command{
		Use:   "update <uuid>",
		Short: "Update a booking",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			bt, err := parseBookingType(bookingType)
			if err != nil {
				return err
			}
			if err := validation.ValidateUUID(args[0], "booking"); err != nil {
				return err
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

			if done, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "update",
				Resource:  string(bt) + " booking " + args[0],
			}); done {
				return err
			}

			switch bt {
			case api.BookingFlexible:
				params := api.UpdateFlexibleParams{StaffUUID: staffUUID}
				if date != "" {
					params.AllocationDate, err = parseTimeValue(date)
					if err != nil {
						return err
					}
				}
				if window != "" {
					params.AllocationWindowUUID, err = resolveWindowUUID(ctx, client, window)
					if err != nil {
						return err
					}
				}
				if expiry != "" {
					params.ExpiryTimestamp, err = parseTimeValue(expiry)
					if err != nil {
						return err
					}
				}
				if err := client.Bookings().UpdateFlexible(ctx, args[0], params); err != nil {
					return err
				}
			case api.BookingFixed:
				params := api.UpdateFixedParams{
					DurationMinutes: duration,
					StaffUUID:       staffUUID,
				}
				if start != "" {
					params.StartDate, err = parseTimeValue(start)
					if err != nil {
						return err
					}
				}
				if end != "" {
					params.EndDate, err = parseTimeValue(end)
					if err != nil {
						return err
					}
				}
				if err := client.Bookings().UpdateFixed(ctx, args[0], params); err != nil {
					return err
				}
			}

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"uuid": args[0], "updated": true})
			}
			printAction(cmd, "Updated", string(bt)+" booking", args[0], "")
			return nil
		}),
	}

	cmd.Flags().StringVar(&bookingType, "type", "flexible", "Booking type: flexible|fixed")
	cmd.Flags().StringVar(&staff, "staff", "", "Staff member name or UUID")
	cmd.Flags().StringVar(&date, "date", "", "Allocation date for flexible bookings")
	cmd.Flags().StringVar(&window, "window", "", "Allocation window name or UUID")
	cmd.Flags().StringVar(&expiry, "expiry", "", "Allocation expiry timestamp")
	cmd.Flags().StringVar(&start, "start", "", "Start time for fixed bookings")
	cmd.Flags().StringVar(&end, "end", "", "End time for fixed bookings")
	cmd.Flags().IntVar(&duration, "duration", 0, "Fixed booking length in minutes (with --start)")
	return cmd
}

func newBookingsDeleteCmd() *cobra.Command {
	var (
		bookingType string
		force       bool
	)

	cmd := &cobra.Command{
		Use:   "delete <uuid>",
		Short: "Delete a booking",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			bt, err := parseBookingType(bookingType)
			if err != nil {
				return err
			}
			if err := validation.ValidateUUID(args[0], "booking"); err != nil {
				return err
			}
			client, err := getClient()
			if err != nil {
				return err
			}

			if done, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "delete",
				Resource:  string(bt) + " booking " + args[0],
			}); done {
				return err
			}

			ok, err := confirmAction(cmd, confirmOptions{
				Prompt:              fmt.Sprintf("Delete %s booking %s? [y/N]: ", bt, args[0]),
				CancelMessage:       "Cancelled.",
				Force:               force,
				RequireForceForJSON: true,
			})
			if err != nil || !ok {
				return err
			}

			if err := client.Bookings().Delete(cmd.Context(), bt, args[0]); err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"uuid": args[0], "deleted": true})
			}
			printAction(cmd, "Deleted", string(bt)+" booking", args[0], "")
			return nil
		}),
	}

	cmd.Flags().StringVar(&bookingType, "type", "flexible", "Booking type: flexible|fixed")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation (required with --output json)")
	return cmd
}
