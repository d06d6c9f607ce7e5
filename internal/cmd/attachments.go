package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/servicem8/sm8-cli/internal/api"
	"github.com/servicem8/sm8-cli/internal/dryrun"
	"github.com/servicem8/sm8-cli/internal/iocontext"
	"github.com/servicem8/sm8-cli/internal/validation"
)

func newAttachmentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "attachments",
		Aliases: []string{"attachment", "files"},
		Short:   "Manage attachments on jobs and clients",
	}
	cmd.AddCommand(newAttachmentsListCmd())
	cmd.AddCommand(newAttachmentsGetCmd())
	cmd.AddCommand(newAttachmentsCreateCmd())
	cmd.AddCommand(newAttachmentsDownloadCmd())
	cmd.AddCommand(newAttachmentsDeleteCmd())
	return cmd
}

func newAttachmentsListCmd() *cobra.Command {
	var (
		relatedObject   string
		relatedUUID     string
		includeInactive bool
		limit           int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List attachments on a record",
		Example: strings.TrimSpace(`
  sm8 attachments list --related job --uuid 123e4567-...
  sm8 attachments list --related company --uuid 123e4567-... -o json
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if err := validation.ValidateUUID(relatedUUID, "related record"); err != nil {
				return err
			}
			client, err := getClient()
			if err != nil {
				return err
			}

			attachments, err := client.Attachments().List(cmd.Context(), api.ListAttachmentsOptions{
				RelatedObject:     relatedObject,
				RelatedObjectUUID: relatedUUID,
				IncludeInactive:   includeInactive,
				Limit:             limit,
			})
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, attachments)
			}

			w := newTabWriterFromCmd(cmd)
			_, _ = fmt.Fprintln(w, "UUID\tNAME\tTYPE\tSOURCE")
			for _, a := range attachments {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.UUID, truncate(a.AttachmentName, 50), a.FileType, a.AttachmentSource)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			printIfNotQuiet(cmd, "\n%d attachment(s)\n", len(attachments))
			return nil
		}),
	}

	cmd.Flags().StringVar(&relatedObject, "related", "job", "Parent record type (job, company)")
	cmd.Flags().StringVar(&relatedUUID, "uuid", "", "Parent record UUID (required)")
	cmd.Flags().BoolVar(&includeInactive, "include-inactive", false, "Include deleted records")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum records to return (0 = all)")
	_ = cmd.MarkFlagRequired("uuid")
	return cmd
}

func newAttachmentsGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <uuid>",
		Short: "Show attachment metadata",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if err := validation.ValidateUUID(args[0], "attachment"); err != nil {
				return err
			}
			client, err := getClient()
			if err != nil {
				return err
			}

			attachment, err := client.Attachments().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, attachment)
			}

			w := newTabWriterFromCmd(cmd)
			_, _ = fmt.Fprintf(w, "UUID:\t%s\n", attachment.UUID)
			_, _ = fmt.Fprintf(w, "Name:\t%s\n", attachment.AttachmentName)
			_, _ = fmt.Fprintf(w, "Type:\t%s\n", attachment.FileType)
			_, _ = fmt.Fprintf(w, "Related:\t%s %s\n", attachment.RelatedObject, attachment.RelatedObjectUUID)
			if attachment.Tags != "" {
				_, _ = fmt.Fprintf(w, "Tags:\t%s\n", attachment.Tags)
			}
			return w.Flush()
		}),
	}
	return cmd
}

func newAttachmentsCreateCmd() *cobra.Command {
	var (
		relatedObject string
		relatedUUID   string
		file          string
		name          string
		tags          string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Upload an attachment",
		Example: strings.TrimSpace(`
  sm8 attachments create --related job --uuid 123e4567-... --file before.jpg
  sm8 attachments create --related job --uuid 123e4567-... --file quote.pdf --name "Signed quote"
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if err := validation.ValidateUUID(relatedUUID, "related record"); err != nil {
				return err
			}
			content, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", file, err)
			}
			client, err := getClient()
			if err != nil {
				return err
			}

			if done, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "upload",
				Resource:  "attachment",
				Details: map[string]any{
					"file":    file,
					"size":    len(content),
					"related": relatedObject + " " + relatedUUID,
				},
			}); done {
				return err
			}

			uuid, err := client.Attachments().Create(cmd.Context(), api.CreateAttachmentParams{
				RelatedObject:     relatedObject,
				RelatedObjectUUID: relatedUUID,
				FileName:          filepath.Base(file),
				AttachmentName:    name,
				Tags:              tags,
				Content:           content,
			})
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"uuid": uuid})
			}
			printAction(cmd, "Uploaded", "attachment", uuid, filepath.Base(file))
			return nil
		}),
	}

	cmd.Flags().StringVar(&relatedObject, "related", "job", "Parent record type (job, company)")
	cmd.Flags().StringVar(&relatedUUID, "uuid", "", "Parent record UUID (required)")
	cmd.Flags().StringVar(&file, "file", "", "Path of the file to upload (required)")
	cmd.Flags().StringVar(&name, "name", "", "Display name (defaults to the file name)")
	cmd.Flags().StringVar(&tags, "tags", "", "Space-separated tags")
	_ = cmd.MarkFlagRequired("uuid")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newAttachmentsDownloadCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "download <uuid>",
		Short: "Download attachment content",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if err := validation.ValidateUUID(args[0], "attachment"); err != nil {
				return err
			}
			client, err := getClient()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			target := output
			if target == "" {
				attachment, err := client.Attachments().Get(ctx, args[0])
				if err != nil {
					return err
				}
				target = attachment.AttachmentName
				if target == "" {
					target = args[0] + attachment.FileType
				}
			}

			content, err := client.Attachments().Download(ctx, args[0])
			if err != nil {
				return err
			}

			if target == "-" {
				ioStreams := iocontext.GetIO(ctx)
				_, err := ioStreams.Out.Write(content)
				return err
			}

			if err := os.WriteFile(target, content, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", target, err)
			}
			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"uuid": args[0], "file": target, "bytes": len(content)})
			}
			printIfNotQuiet(cmd, "Wrote %s (%d bytes)\n", target, len(content))
			return nil
		}),
	}

	cmd.Flags().StringVarP(&output, "file", "F", "", "Output path ('-' for stdout; defaults to the attachment name)")
	return cmd
}

func newAttachmentsDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <uuid>",
		Short: "Delete an attachment",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if err := validation.ValidateUUID(args[0], "attachment"); err != nil {
				return err
			}
			client, err := getClient()
			if err != nil {
				return err
			}

			if done, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "delete",
				Resource:  "attachment " + args[0],
			}); done {
				return err
			}

			ok, err := confirmAction(cmd, confirmOptions{
				Prompt:              fmt.Sprintf("Delete attachment %s? [y/N]: ", args[0]),
				CancelMessage:       "Cancelled.",
				Force:               force,
				RequireForceForJSON: true,
			})
			if err != nil || !ok {
				return err
			}

			if err := client.Attachments().Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"uuid": args[0], "deleted": true})
			}
			printAction(cmd, "Deleted", "attachment", args[0], "")
			return nil
		}),
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation (required with --output json)")
	return cmd
}
