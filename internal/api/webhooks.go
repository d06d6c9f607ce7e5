package api

import (
	"context"
	"net/http"
	"sort"
	"strings"

	"github.com/servicem8/sm8-cli/internal/validation"
)

const webhookSubscriptionsPath = "webhook_subscriptions"

// WebhookEvents maps subscribable event names to descriptions. The
// listing backs CLI help and completion.
var WebhookEvents = map[string]string{
	"company.created":        "new customer added",
	"company.updated":        "customer details updated",
	"form.response_created":  "form response submitted",
	"inbox.message_received": "new message received in inbox",
	"job.badge_added":        "badge added to job",
	"job.badge_removed":      "badge removed from job",
	"job.checked_in":         "staff member arrived at job site",
	"job.checked_out":        "staff member left job site",
	"job.completed":          "job marked as completed",
	"job.created":            "new job created",
	"job.invoice_paid":       "full payment received for invoice",
	"job.invoice_sent":       "invoice sent to customer",
	"job.note_added":         "note added to job",
	"job.photo_added":        "photo attached to job",
	"job.queued":             "job added to queue",
	"job.quote_accepted":     "customer accepted the quote",
	"job.quote_sent":         "quote sent to customer",
	"job.review_received":    "customer review submitted",
	"job.status_changed":     "job status changed",
	"job.updated":            "job details modified",
	"job.video_added":        "video attached to job",
	"proposal.sent":          "proposal sent to customer",
	"proposal.viewed":        "proposal viewed by customer",
	"staff.clocked_off":      "staff member ended shift",
	"staff.clocked_on":       "staff member started shift",
}

// WebhookEventNames returns the subscribable events, sorted.
func WebhookEventNames() []string {
	names := make([]string, 0, len(WebhookEvents))
	for name := range WebhookEvents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Subscription is a registered webhook as the subscription service
// reports it.
type Subscription struct {
	Event    string `json:"event"`
	URL      string `json:"url"`
	UniqueID string `json:"unique_id"`
}

// List returns the account's webhook subscriptions.
func (s WebhooksService) List(ctx context.Context) ([]Subscription, error) {
	resp, err := s.request(ctx, http.MethodGet, s.servicePath(webhookSubscriptionsPath), nil, nil, nil)
	if err != nil {
		return nil, err
	}
	var subs []Subscription
	if err := resp.Decode(&subs); err != nil {
		return nil, err
	}
	return subs, nil
}

// Subscribe registers callbackURL for an event. The subscription service
// takes its parameters on the query string, not in a body.
func (s WebhooksService) Subscribe(ctx context.Context, event, callbackURL string) error {
	if err := validateWebhookParams(event, callbackURL); err != nil {
		return err
	}
	query := map[string]string{
		"event":        event,
		"callback_url": callbackURL,
		"unique_id":    callbackURL,
	}
	_, err := s.request(ctx, http.MethodPost, s.servicePath(webhookSubscriptionsPath+"/event"), query, nil, nil)
	return err
}

// Unsubscribe removes the subscription of callbackURL for an event.
func (s WebhooksService) Unsubscribe(ctx context.Context, event, callbackURL string) error {
	if err := validateWebhookParams(event, callbackURL); err != nil {
		return err
	}
	query := map[string]string{
		"event":        event,
		"callback_url": callbackURL,
		"unique_id":    callbackURL,
	}
	_, err := s.request(ctx, http.MethodDelete, s.servicePath(webhookSubscriptionsPath), query, nil, nil)
	return err
}

func validateWebhookParams(event, callbackURL string) error {
	if strings.TrimSpace(event) == "" {
		return &ValidationError{Field: "event", Reason: "event is required"}
	}
	if _, known := WebhookEvents[event]; !known {
		return &ValidationError{Field: "event", Reason: "unknown event " + event}
	}
	if err := validation.ValidateWebhookURL(callbackURL); err != nil {
		return &ValidationError{Field: "callback_url", Reason: err.Error()}
	}
	return nil
}
