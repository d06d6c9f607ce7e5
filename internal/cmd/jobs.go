package cmd

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/servicem8/sm8-cli/internal/api"
	"github.com/servicem8/sm8-cli/internal/dryrun"
	"github.com/servicem8/sm8-cli/internal/iocontext"
	"github.com/servicem8/sm8-cli/internal/validation"
)

func newJobsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "jobs",
		Aliases: []string{"job"},
		Short:   "Manage jobs",
	}
	cmd.AddCommand(newJobsListCmd())
	cmd.AddCommand(newJobsGetCmd())
	cmd.AddCommand(newJobsCreateCmd())
	cmd.AddCommand(newJobsUpdateCmd())
	cmd.AddCommand(newJobsDeleteCmd())
	cmd.AddCommand(newJobsNoteCmd())
	cmd.AddCommand(newJobsContactCmd())
	cmd.AddCommand(newJobsQueueCmd())
	return cmd
}

func newJobsListCmd() *cobra.Command {
	var (
		status          string
		clientUUID      string
		queue           string
		where           []string
		includeInactive bool
		limit           int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List jobs",
		Example: strings.TrimSpace(`
  sm8 jobs list --status "Work Order" --limit 20
  sm8 jobs list --where date:gt:2026-01-01 --where status:eq:Quote
  sm8 jobs list -o json -q '.[].generated_job_id'
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			clauses, err := parseClauses(where)
			if err != nil {
				return err
			}
			if status != "" {
				clauses = append(clauses, api.Clause{Field: "status", Operator: "eq", Value: status})
			}
			if clientUUID != "" {
				if err := validation.ValidateUUID(clientUUID, "client"); err != nil {
					return err
				}
				clauses = append(clauses, api.Clause{Field: "company_uuid", Operator: "eq", Value: clientUUID})
			}
			if queue != "" {
				queueUUID, err := resolveQueueUUID(ctx, client, queue)
				if err != nil {
					return err
				}
				clauses = append(clauses, api.Clause{Field: "queue_uuid", Operator: "eq", Value: queueUUID})
			}

			jobs, err := client.Jobs().List(ctx, api.ListJobsOptions{
				Clauses:         clauses,
				IncludeInactive: includeInactive,
				Limit:           limit,
			})
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, jobs)
			}

			w := newTabWriterFromCmd(cmd)
			_, _ = fmt.Fprintln(w, "JOB\tSTATUS\tDATE\tADDRESS\tDESCRIPTION")
			for _, j := range jobs {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					firstNonEmpty(j.GeneratedJobID, j.UUID), j.Status, j.Date, truncate(j.JobAddress, 40), truncate(j.JobDescription, 60))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			printIfNotQuiet(cmd, "\n%d job(s)\n", len(jobs))
			return nil
		}),
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status (Quote, Work Order, Completed, Unsuccessful)")
	cmd.Flags().StringVar(&clientUUID, "client", "", "Filter by client UUID")
	cmd.Flags().StringVar(&queue, "queue", "", "Filter by queue name or UUID")
	cmd.Flags().StringArrayVarP(&where, "where", "w", nil, "Filter clause field:op:value (repeatable)")
	cmd.Flags().BoolVar(&includeInactive, "include-inactive", false, "Include deleted records")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum records to return (0 = all)")
	flagAlias(cmd.Flags(), "where", "filter")
	return cmd
}

func newJobsGetCmd() *cobra.Command {
	var (
		withNotes    bool
		withContacts bool
	)

	cmd := &cobra.Command{
		Use:   "get <uuid>",
		Short: "Show a job",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if err := validation.ValidateUUID(args[0], "job"); err != nil {
				return err
			}
			client, err := getClient()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			job, err := client.Jobs().Get(ctx, args[0])
			if err != nil {
				return err
			}

			var notes []api.Note
			if withNotes {
				notes, err = client.Jobs().ListNotes(ctx, job.UUID)
				if err != nil {
					return err
				}
			}

			var contacts []api.JobContact
			if withContacts {
				contacts, err = client.Jobs().Contacts(ctx, job.UUID)
				if err != nil {
					return err
				}
			}

			if isJSON(cmd) {
				if withNotes || withContacts {
					out := map[string]any{"job": job}
					if withNotes {
						out["notes"] = notes
					}
					if withContacts {
						out["contacts"] = contacts
					}
					return printJSON(cmd, out)
				}
				return printJSON(cmd, job)
			}

			w := newTabWriterFromCmd(cmd)
			_, _ = fmt.Fprintf(w, "UUID:\t%s\n", job.UUID)
			_, _ = fmt.Fprintf(w, "Job #:\t%s\n", job.GeneratedJobID)
			_, _ = fmt.Fprintf(w, "Status:\t%s\n", job.Status)
			_, _ = fmt.Fprintf(w, "Date:\t%s\n", job.Date)
			_, _ = fmt.Fprintf(w, "Client:\t%s\n", job.CompanyUUID)
			_, _ = fmt.Fprintf(w, "Address:\t%s\n", job.JobAddress)
			_, _ = fmt.Fprintf(w, "Description:\t%s\n", job.JobDescription)
			if job.WorkDoneDescription != "" {
				_, _ = fmt.Fprintf(w, "Work done:\t%s\n", job.WorkDoneDescription)
			}
			if job.QueueUUID != "" {
				_, _ = fmt.Fprintf(w, "Queue:\t%s\n", job.QueueUUID)
				if job.QueueExpiryDate != "" {
					_, _ = fmt.Fprintf(w, "Queue expiry:\t%s\n", job.QueueExpiryDate)
				}
			}
			if job.TotalInvoiceAmount.Float64() != 0 {
				_, _ = fmt.Fprintf(w, "Invoice total:\t%.2f\n", job.TotalInvoiceAmount.Float64())
			}
			if job.CompletionDate != "" && !strings.HasPrefix(job.CompletionDate, "0000") {
				_, _ = fmt.Fprintf(w, "Completed:\t%s\n", job.CompletionDate)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if withContacts && len(contacts) > 0 {
				ioStreams := iocontext.GetIO(ctx)
				_, _ = fmt.Fprintln(ioStreams.Out, "\nContacts:")
				cw := newTabWriter(ioStreams.Out)
				_, _ = fmt.Fprintln(cw, "  TYPE\tNAME\tEMAIL\tMOBILE")
				for _, c := range contacts {
					name := strings.TrimSpace(c.First + " " + c.Last)
					_, _ = fmt.Fprintf(cw, "  %s\t%s\t%s\t%s\n", c.Type, name, c.Email, c.Mobile)
				}
				if err := cw.Flush(); err != nil {
					return err
				}
			}

			if withNotes && len(notes) > 0 {
				ioStreams := iocontext.GetIO(ctx)
				_, _ = fmt.Fprintln(ioStreams.Out, "\nNotes:")
				for _, n := range notes {
					_, _ = fmt.Fprintf(ioStreams.Out, "  [%s] %s\n", n.CreateDate, n.Note)
				}
			}
			return nil
		}),
	}

	cmd.Flags().BoolVar(&withNotes, "with-notes", false, "Include job notes")
	cmd.Flags().BoolVar(&withContacts, "with-contacts", false, "Include job contacts")
	return cmd
}

func newJobsCreateCmd() *cobra.Command {
	var (
		description  string
		address      string
		clientRef    string
		status       string
		category     string
		templateUUID string
		set          []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a job",
		Example: strings.TrimSpace(`
  sm8 jobs create --client "Acme Plumbing" --description "Burst pipe under sink"
  sm8 jobs create --template 123e4567-... --set status=Quote
  sm8 jobs create --description @job.txt --address "1 Main St" --category "Plumbing"
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			fields, err := parseFieldValues(set)
			if err != nil {
				return err
			}

			if description != "" {
				text, err := loadAtValue(description)
				if err != nil {
					return err
				}
				fields = append(fields, api.FieldValue{Name: "job_description", Value: text})
			}
			if address != "" {
				fields = append(fields, api.FieldValue{Name: "job_address", Value: address})
			}
			if status != "" {
				fields = append(fields, api.FieldValue{Name: "status", Value: status})
			}
			if clientRef != "" {
				if looksLikeUUID(clientRef) {
					fields = append(fields, api.FieldValue{Name: "company_uuid", Value: clientRef})
				} else {
					fields = append(fields, api.FieldValue{Name: "company_name", Value: clientRef})
				}
			}
			if category != "" {
				categoryUUID, err := resolveCategoryUUID(ctx, client, category)
				if err != nil {
					return err
				}
				fields = append(fields, api.FieldValue{Name: "category_uuid", Value: categoryUUID})
			}

			if len(fields) == 0 && templateUUID == "" {
				return fmt.Errorf("nothing to create: pass --description, --client, --template or --set")
			}

			details := map[string]any{}
			for _, f := range fields {
				details[f.Name] = f.Value
			}
			if templateUUID != "" {
				details["template"] = templateUUID
			}
			if done, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "create",
				Resource:  "job",
				Details:   details,
			}); done {
				return err
			}

			var uuid string
			if templateUUID != "" {
				uuid, err = client.Jobs().CreateFromTemplate(ctx, templateUUID, fields)
			} else {
				uuid, err = client.Jobs().Create(ctx, fields)
			}
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"uuid": uuid})
			}
			printAction(cmd, "Created", "job", uuid, "")
			return nil
		}),
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Job description (or @path, @- for stdin)")
	cmd.Flags().StringVar(&address, "address", "", "Job address")
	cmd.Flags().StringVar(&clientRef, "client", "", "Client UUID or name")
	cmd.Flags().StringVar(&status, "status", "", "Initial status (default Quote)")
	cmd.Flags().StringVar(&category, "category", "", "Category name or UUID")
	cmd.Flags().StringVar(&templateUUID, "template", "", "UUID of a job to copy description, address and category from")
	cmd.Flags().StringArrayVar(&set, "set", nil, "Raw field assignment field=value (repeatable)")
	return cmd
}

func newJobsUpdateCmd() *cobra.Command {
	var (
		description string
		address     string
		status      string
		workDone    string
		set         []string
	)

	cmd := &cobra.Command{
		Use:   "update <uuid>",
		Short: "Update a job",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if err := validation.ValidateUUID(args[0], "job"); err != nil {
				return err
			}
			client, err := getClient()
			if err != nil {
				return err
			}

			fields, err := parseFieldValues(set)
			if err != nil {
				return err
			}
			if description != "" {
				text, err := loadAtValue(description)
				if err != nil {
					return err
				}
				fields = append(fields, api.FieldValue{Name: "job_description", Value: text})
			}
			if address != "" {
				fields = append(fields, api.FieldValue{Name: "job_address", Value: address})
			}
			if status != "" {
				fields = append(fields, api.FieldValue{Name: "status", Value: status})
			}
			if workDone != "" {
				text, err := loadAtValue(workDone)
				if err != nil {
					return err
				}
				fields = append(fields, api.FieldValue{Name: "work_done_description", Value: text})
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
				Resource:  "job " + args[0],
				Details:   details,
			}); done {
				return err
			}

			if err := client.Jobs().Update(cmd.Context(), args[0], fields); err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"uuid": args[0], "updated": true})
			}
			printAction(cmd, "Updated", "job", args[0], "")
			return nil
		}),
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Job description (or @path)")
	cmd.Flags().StringVar(&address, "address", "", "Job address")
	cmd.Flags().StringVar(&status, "status", "", "Status")
	cmd.Flags().StringVar(&workDone, "work-done", "", "Work done description (or @path)")
	cmd.Flags().StringArrayVar(&set, "set", nil, "Raw field assignment field=value (repeatable)")
	return cmd
}

// bulkDeleteConcurrency caps parallel delete requests so a big UUID list
// doesn't trip the API rate limiter.
const bulkDeleteConcurrency = 4

func newJobsDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <uuid>...",
		Short: "Delete one or more jobs",
		Args:  cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			for _, uuid := range args {
				if err := validation.ValidateUUID(uuid, "job"); err != nil {
					return err
				}
			}
			client, err := getClient()
			if err != nil {
				return err
			}

			if done, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation:   "delete",
				Resource:    fmt.Sprintf("%d job(s)", len(args)),
				Description: strings.Join(args, "\n"),
				Warnings:    []string{"Deletion marks records inactive; they stay recoverable in ServiceM8"},
			}); done {
				return err
			}

			ok, err := confirmAction(cmd, confirmOptions{
				Prompt:              fmt.Sprintf("Delete %d job(s)? [y/N]: ", len(args)),
				CancelMessage:       "Cancelled.",
				Force:               force,
				RequireForceForJSON: true,
			})
			if err != nil || !ok {
				return err
			}

			deleted, failures := bulkDelete(cmd, args, func(uuid string) error {
				return client.Jobs().Delete(cmd.Context(), uuid)
			})

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"deleted": deleted, "failed": failures})
			}
			printIfNotQuiet(cmd, "Deleted %d job(s)\n", len(deleted))
			if len(failures) > 0 {
				return fmt.Errorf("%d of %d deletes failed", len(failures), len(args))
			}
			return nil
		}),
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation (required with --output json)")
	return cmd
}

// bulkDelete runs del for each UUID with bounded concurrency and reports
// which succeeded and which failed. It never stops early; every UUID
// gets its attempt.
func bulkDelete(cmd *cobra.Command, uuids []string, del func(uuid string) error) (deleted []string, failures map[string]string) {
	failures = make(map[string]string)
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(cmd.Context())
	sem := semaphore.NewWeighted(bulkDeleteConcurrency)
	for _, uuid := range uuids {
		g.Go(func() error {
			if err := sem.Acquire(ctx, 1); err != nil {
				mu.Lock()
				failures[uuid] = err.Error()
				mu.Unlock()
				return nil
			}
			defer sem.Release(1)

			if err := del(uuid); err != nil {
				mu.Lock()
				failures[uuid] = err.Error()
				mu.Unlock()
				return nil
			}
			mu.Lock()
			deleted = append(deleted, uuid)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if len(failures) > 0 && !isJSON(cmd) {
		ioStreams := iocontext.GetIO(cmd.Context())
		for uuid, msg := range failures {
			_, _ = fmt.Fprintf(ioStreams.ErrOut, "failed to delete %s: %s\n", uuid, msg)
		}
	}
	return deleted, failures
}

func newJobsNoteCmd() *cobra.Command {
	var (
		message string
		list    bool
	)

	cmd := &cobra.Command{
		Use:   "note <job-uuid> [text]",
		Short: "Add or list job notes",
		Example: strings.TrimSpace(`
  sm8 jobs note 123e4567-... "Called the client, rescheduled to Friday"
  sm8 jobs note 123e4567-... --message @note.txt
  sm8 jobs note 123e4567-... --list
`),
		Args: cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			jobUUID := args[0]
			if err := validation.ValidateUUID(jobUUID, "job"); err != nil {
				return err
			}
			client, err := getClient()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if list {
				notes, err := client.Jobs().ListNotes(ctx, jobUUID)
				if err != nil {
					return err
				}
				if isJSON(cmd) {
					return printJSON(cmd, notes)
				}
				ioStreams := iocontext.GetIO(ctx)
				for _, n := range notes {
					_, _ = fmt.Fprintf(ioStreams.Out, "[%s] %s\n", n.CreateDate, n.Note)
				}
				printIfNotQuiet(cmd, "\n%d note(s)\n", len(notes))
				return nil
			}

			text := message
			if text == "" && len(args) > 1 {
				text = strings.Join(args[1:], " ")
			}
			text, err = loadAtValue(text)
			if err != nil {
				return err
			}
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("note text is required (positional or --message)")
			}

			if done, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation:   "create",
				Resource:    "note on job " + jobUUID,
				Description: text,
			}); done {
				return err
			}

			uuid, err := client.Jobs().AddNote(ctx, jobUUID, text)
			if err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"uuid": uuid})
			}
			printAction(cmd, "Added", "note", uuid, "")
			return nil
		}),
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Note text (or @path, @- for stdin)")
	cmd.Flags().BoolVar(&list, "list", false, "List notes instead of adding one")
	return cmd
}

func newJobsContactCmd() *cobra.Command {
	var (
		contactType string
		first       string
		last        string
		email       string
		mobile      string
		phone       string
	)

	cmd := &cobra.Command{
		Use:   "contact <job-uuid>",
		Short: "Create or update a typed contact on a job",
		Long: "Each job carries at most one contact per type (" + strings.Join(api.JobContactTypes, ", ") + ").\n" +
			"An existing contact of the given type is updated in place; otherwise one is created.",
		Example: strings.TrimSpace(`
  sm8 jobs contact 123e4567-... --type Job --first Jo --last Smith --mobile +61400000000
  sm8 jobs contact 123e4567-... --type Billing --email accounts@acme.test
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if err := validation.ValidateUUID(args[0], "job"); err != nil {
				return err
			}
			client, err := getClient()
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
				Resource:  fmt.Sprintf("%s contact on job %s", contactType, args[0]),
				Details: map[string]any{
					"first": first, "last": last, "email": email, "mobile": mobile, "phone": phone,
				},
			}); done {
				return err
			}

			if err := client.Jobs().UpsertContact(cmd.Context(), args[0], contactType, contact); err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"job_uuid": args[0], "type": contactType, "updated": true})
			}
			printAction(cmd, "Saved", contactType+" contact on job", args[0], "")
			return nil
		}),
	}

	cmd.Flags().StringVar(&contactType, "type", "Job", "Contact type: "+strings.Join(api.JobContactTypes, ", "))
	cmd.Flags().StringVar(&first, "first", "", "First name")
	cmd.Flags().StringVar(&last, "last", "", "Last name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&mobile, "mobile", "", "Mobile number")
	cmd.Flags().StringVar(&phone, "phone", "", "Phone number")
	return cmd
}

func newJobsQueueCmd() *cobra.Command {
	var (
		queue  string
		expiry string
	)

	cmd := &cobra.Command{
		Use:   "queue <job-uuid>",
		Short: "Send a job to a queue",
		Example: strings.TrimSpace(`
  sm8 jobs queue 123e4567-... --queue "Urgent"
  sm8 jobs queue 123e4567-... --queue "Callbacks" --expiry tomorrow
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if err := validation.ValidateUUID(args[0], "job"); err != nil {
				return err
			}
			client, err := getClient()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			queueUUID, err := resolveQueueUUID(ctx, client, queue)
			if err != nil {
				return err
			}

			expiryDate := ""
			if expiry != "" {
				expiryDate, err = parseTimeValue(expiry)
				if err != nil {
					return err
				}
			}

			if done, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "update",
				Resource:  "job " + args[0],
				Details:   map[string]any{"queue_uuid": queueUUID, "queue_expiry_date": expiryDate},
			}); done {
				return err
			}

			if err := client.Jobs().SendToQueue(ctx, args[0], queueUUID, expiryDate); err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"uuid": args[0], "queue_uuid": queueUUID})
			}
			printAction(cmd, "Queued", "job", args[0], "")
			return nil
		}),
	}

	cmd.Flags().StringVar(&queue, "queue", "", "Queue name or UUID (required)")
	cmd.Flags().StringVar(&expiry, "expiry", "", "Queue expiry (wire format or relative, e.g. tomorrow, 4h)")
	_ = cmd.MarkFlagRequired("queue")
	return cmd
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
