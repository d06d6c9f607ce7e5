package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/servicem8/sm8-cli/internal/validation"
)

const (
	emailServicePath = "platform_service_email"
	smsServicePath   = "platform_service_sms"

	// impersonateHeader names the staff member whose signature the
	// <platform-user-signature /> tag expands to. It travels as a
	// header, never in the body.
	impersonateHeader = "x-impersonate-uuid"
)

// EmailParams carries an outbound email. At least one of HTMLBody and
// TextBody is required. RegardingJobUUID links the email into the job
// diary. Attachments are UUIDs of existing attachment records.
type EmailParams struct {
	To                   string
	CC                   string
	ReplyTo              string
	Subject              string
	HTMLBody             string
	TextBody             string
	RegardingJobUUID     string
	Attachments          []string
	ImpersonateStaffUUID string
}

// SendEmail sends an email through the platform email service.
func (s MessagingService) SendEmail(ctx context.Context, params EmailParams) (json.RawMessage, error) {
	if strings.TrimSpace(params.To) == "" {
		return nil, &ValidationError{Field: "to", Reason: "recipient is required"}
	}
	if strings.TrimSpace(params.Subject) == "" {
		return nil, &ValidationError{Field: "subject", Reason: "subject is required"}
	}
	if params.HTMLBody == "" && params.TextBody == "" {
		return nil, &ValidationError{Reason: "at least one of htmlBody or textBody is required"}
	}

	body := map[string]any{
		"to":      params.To,
		"subject": params.Subject,
	}
	setIf := func(key, value string) {
		if value != "" {
			body[key] = value
		}
	}
	setIf("cc", params.CC)
	setIf("replyTo", params.ReplyTo)
	setIf("htmlBody", params.HTMLBody)
	setIf("textBody", params.TextBody)
	setIf("regardingJobUUID", strings.TrimSpace(params.RegardingJobUUID))
	if len(params.Attachments) > 0 {
		body["attachments"] = params.Attachments
	}

	var headers map[string]string
	if params.ImpersonateStaffUUID != "" {
		headers = map[string]string{impersonateHeader: params.ImpersonateStaffUUID}
	}

	resp, err := s.request(ctx, http.MethodPost, s.servicePath(emailServicePath), nil, body, headers)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(resp.Body), nil
}

// SMSParams carries an outbound SMS. To must be E.164 with a + prefix.
type SMSParams struct {
	To               string
	Message          string
	RegardingJobUUID string
}

// SendSMS sends an SMS through the platform SMS service.
func (s MessagingService) SendSMS(ctx context.Context, params SMSParams) (json.RawMessage, error) {
	if strings.TrimSpace(params.To) == "" {
		return nil, &ValidationError{Field: "to", Reason: "recipient phone number is required"}
	}
	if strings.TrimSpace(params.Message) == "" {
		return nil, &ValidationError{Field: "message", Reason: "message text is required"}
	}
	if err := validation.ValidatePhoneFormat(strings.TrimSpace(params.To)); err != nil {
		return nil, &ValidationError{Field: "to", Reason: err.Error()}
	}
	if err := validation.ValidateMessageContent(params.Message); err != nil {
		return nil, &ValidationError{Field: "message", Reason: err.Error()}
	}

	body := map[string]any{
		"to":      params.To,
		"message": params.Message,
	}
	if uuid := strings.TrimSpace(params.RegardingJobUUID); uuid != "" {
		body["regardingJobUUID"] = uuid
	}

	resp, err := s.request(ctx, http.MethodPost, s.servicePath(smsServicePath), nil, body, nil)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(resp.Body), nil
}
