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

func newWebhooksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "webhooks",
		Aliases: []string{"webhook"},
		Short:   "Manage webhook subscriptions",
	}
	cmd.AddCommand(newWebhooksListCmd())
	cmd.AddCommand(newWebhooksSubscribeCmd())
	cmd.AddCommand(newWebhooksUnsubscribeCmd())
	cmd.AddCommand(newWebhooksEventsCmd())
	return cmd
}

func newWebhooksListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List webhook subscriptions",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}

			subs, err := client.Webhooks().List(cmd.Context())
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, subs)
			}

			w := newTabWriterFromCmd(cmd)
			_, _ = fmt.Fprintln(w, "EVENT\tURL")
			for _, s := range subs {
				_, _ = fmt.Fprintf(w, "%s\t%s\n", s.Event, s.URL)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			printIfNotQuiet(cmd, "\n%d subscription(s)\n", len(subs))
			return nil
		}),
	}
	return cmd
}

func newWebhooksSubscribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subscribe <event> <callback-url>",
		Short: "Subscribe a callback URL to an event",
		Example: strings.TrimSpace(`
  sm8 webhooks subscribe job.created https://hooks.example.test/sm8
  sm8 webhooks events   # list valid event names
`),
		Args: cobra.ExactArgs(2),
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return api.WebhookEventNames(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			event, callbackURL := args[0], args[1]
			if err := validation.ValidateWebhookURL(callbackURL); err != nil {
				return err
			}
			client, err := getClient()
			if err != nil {
				return err
			}

			if done, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "subscribe",
				Resource:  "webhook",
				Details:   map[string]any{"event": event, "url": callbackURL},
			}); done {
				return err
			}

			if err := client.Webhooks().Subscribe(cmd.Context(), event, callbackURL); err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"event": event, "url": callbackURL, "subscribed": true})
			}
			printIfNotQuiet(cmd, "Subscribed %s to %s\n", callbackURL, event)
			return nil
		}),
	}
	return cmd
}

func newWebhooksUnsubscribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unsubscribe <event> <callback-url>",
		Short: "Remove a webhook subscription",
		Args:  cobra.ExactArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			event, callbackURL := args[0], args[1]
			client, err := getClient()
			if err != nil {
				return err
			}

			if done, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "unsubscribe",
				Resource:  "webhook",
				Details:   map[string]any{"event": event, "url": callbackURL},
			}); done {
				return err
			}

			if err := client.Webhooks().Unsubscribe(cmd.Context(), event, callbackURL); err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"event": event, "url": callbackURL, "subscribed": false})
			}
			printIfNotQuiet(cmd, "Unsubscribed %s from %s\n", callbackURL, event)
			return nil
		}),
	}
	return cmd
}

func newWebhooksEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "List subscribable event names",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			names := api.WebhookEventNames()
			if isJSON(cmd) {
				type event struct {
					Name        string `json:"name"`
					Description string `json:"description"`
				}
				out := make([]event, 0, len(names))
				for _, n := range names {
					out = append(out, event{Name: n, Description: api.WebhookEvents[n]})
				}
				return printJSON(cmd, out)
			}

			ioStreams := iocontext.GetIO(cmd.Context())
			w := newTabWriter(ioStreams.Out)
			for _, n := range names {
				_, _ = fmt.Fprintf(w, "%s\t%s\n", n, api.WebhookEvents[n])
			}
			return w.Flush()
		}),
	}
	return cmd
}
