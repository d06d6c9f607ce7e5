package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/servicem8/sm8-cli/internal/validation"
)

// ListInboxOptions controls an inbox listing. Unlike the data-plane
// listings the inbox endpoint takes its own filter/search/limit query
// parameters and wraps results in an envelope.
type ListInboxOptions struct {
	Filter string // e.g. "unread"; empty or "all" means everything
	Search string
	Limit  int
}

// List returns inbox messages.
func (s InboxService) List(ctx context.Context, opts ListInboxOptions) ([]InboxMessage, error) {
	url, err := endpointURL(s.Client, "inbox", "getMany", nil)
	if err != nil {
		return nil, err
	}

	query := map[string]string{}
	if opts.Limit > 0 {
		query["limit"] = strconv.Itoa(opts.Limit)
	}
	if opts.Filter != "" && opts.Filter != "all" {
		query["filter"] = opts.Filter
	}
	if opts.Search != "" {
		query["search"] = opts.Search
	}

	resp, err := s.request(ctx, http.MethodGet, url, query, nil, nil)
	if err != nil {
		return nil, err
	}

	// The endpoint wraps results: { "messages": [...], "pagination": {...} }.
	// Some deployments return a bare array instead.
	var envelope struct {
		Messages []InboxMessage `json:"messages"`
	}
	if err := json.Unmarshal(resp.Body, &envelope); err == nil && envelope.Messages != nil {
		return envelope.Messages, nil
	}
	var messages []InboxMessage
	if err := resp.Decode(&messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// Get returns a single inbox message by UUID.
func (s InboxService) Get(ctx context.Context, uuid string) (*InboxMessage, error) {
	return getRecord[InboxMessage](ctx, s.Client, "inbox", uuid)
}

// ConvertToJob converts an inbox message into a job, optionally seeded
// from a template job and annotated with a note. Returns the raw
// conversion result, which carries the new job's identifiers.
func (s InboxService) ConvertToJob(ctx context.Context, uuid, templateUUID, note string) (json.RawMessage, error) {
	if strings.TrimSpace(uuid) == "" {
		return nil, &ValidationError{Field: "uuid", Reason: "UUID is required to convert an inbox message to job"}
	}
	url, err := endpointURL(s.Client, "inbox", "convertToJob", map[string]string{"uuid": uuid})
	if err != nil {
		return nil, err
	}

	body := map[string]any{}
	if templateUUID != "" {
		body["template_uuid"] = templateUUID
	}
	if note != "" {
		body["note"] = note
	}

	resp, err := s.request(ctx, http.MethodPost, url, nil, body, nil)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(resp.Body), nil
}

// CreateMessageParams carries the inputs for CreateMessage. Subject and
// MessageText are required. JSONData, when set, must be a valid JSON
// object. JobData members prefill the job created if the message is
// later converted; empty members are dropped.
type CreateMessageParams struct {
	Subject              string
	MessageText          string
	FromName             string
	FromEmail            string
	RegardingCompanyUUID string
	JSONData             string
	JobData              map[string]string
}

// CreateMessage creates an inbox message and returns its UUID.
func (s InboxService) CreateMessage(ctx context.Context, params CreateMessageParams) (string, error) {
	subject := strings.TrimSpace(params.Subject)
	if subject == "" {
		return "", &ValidationError{Field: "subject", Reason: "subject is required to create an inbox message"}
	}
	messageText := strings.TrimSpace(params.MessageText)
	if messageText == "" {
		return "", &ValidationError{Field: "message_text", Reason: "message_text is required to create an inbox message"}
	}

	body := map[string]any{
		"subject":      subject,
		"message_text": messageText,
	}
	setIf := func(key, value string) {
		if v := strings.TrimSpace(value); v != "" {
			body[key] = v
		}
	}
	if err := validation.ValidateEmailFormat(strings.TrimSpace(params.FromEmail)); err != nil {
		return "", &ValidationError{Field: "from_email", Reason: err.Error()}
	}
	setIf("from_name", params.FromName)
	setIf("from_email", params.FromEmail)
	setIf("regarding_company_uuid", params.RegardingCompanyUUID)

	if data := strings.TrimSpace(params.JSONData); data != "" {
		var parsed map[string]any
		if err := json.Unmarshal([]byte(data), &parsed); err != nil {
			return "", &ValidationError{Field: "json_data", Reason: "json_data must be a valid JSON object"}
		}
		if len(parsed) > 0 {
			body["json_data"] = parsed
		}
	}

	if len(params.JobData) > 0 {
		jobData := map[string]string{}
		for key, value := range params.JobData {
			if strings.TrimSpace(value) == "" {
				continue
			}
			jobData[key] = value
		}
		if len(jobData) > 0 {
			body["jobData"] = jobData
		}
	}

	url, err := endpointURL(s.Client, "inbox", "create", nil)
	if err != nil {
		return "", err
	}
	resp, err := s.request(ctx, http.MethodPost, url, nil, body, nil)
	if err != nil {
		return "", err
	}
	return createdUUID(resp)
}
