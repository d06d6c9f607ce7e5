package api

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"
)

// ListAttachmentsOptions controls an attachment listing. RelatedObject
// and RelatedObjectUUID scope the listing to one parent record.
type ListAttachmentsOptions struct {
	RelatedObject     string
	RelatedObjectUUID string
	IncludeInactive   bool
	Limit             int
}

// List returns attachments for a related object.
func (s AttachmentsService) List(ctx context.Context, opts ListAttachmentsOptions) ([]Attachment, error) {
	if opts.RelatedObject == "" || strings.TrimSpace(opts.RelatedObjectUUID) == "" {
		return nil, &ValidationError{Reason: "related object type and UUID are required"}
	}
	clauses := []Clause{
		{Field: "related_object", Operator: "eq", Value: opts.RelatedObject},
		{Field: "related_object_uuid", Operator: "eq", Value: strings.TrimSpace(opts.RelatedObjectUUID)},
	}
	return listRecords[Attachment](ctx, s.Client, "attachment", clauses, opts.IncludeInactive, nil, opts.Limit)
}

// Get returns attachment metadata by UUID.
func (s AttachmentsService) Get(ctx context.Context, uuid string) (*Attachment, error) {
	return getRecord[Attachment](ctx, s.Client, "attachment", uuid)
}

// CreateAttachmentParams describes a file upload. FileType is derived
// from FileName when empty.
type CreateAttachmentParams struct {
	RelatedObject     string
	RelatedObjectUUID string
	FileName          string
	FileType          string
	AttachmentName    string
	AttachmentSource  string
	Tags              string
	Content           []byte
}

// Create uploads an attachment in the API's two-step shape: first the
// metadata record is POSTed and the record UUID read from the response
// headers, then the binary is POSTed to the record's .file endpoint.
func (s AttachmentsService) Create(ctx context.Context, params CreateAttachmentParams) (string, error) {
	if params.RelatedObject == "" || strings.TrimSpace(params.RelatedObjectUUID) == "" {
		return "", &ValidationError{Reason: "related object type and UUID are required"}
	}
	if len(params.Content) == 0 {
		return "", &ValidationError{Field: "file", Reason: "file content is required"}
	}

	fileName := params.FileName
	if fileName == "" {
		fileName = "file"
	}
	fileType := params.FileType
	if fileType == "" {
		fileType = filepath.Ext(fileName)
	}
	if fileType != "" && !strings.HasPrefix(fileType, ".") {
		fileType = "." + fileType
	}
	attachmentName := params.AttachmentName
	if attachmentName == "" {
		attachmentName = fileName
	}

	body := map[string]any{
		"related_object":      params.RelatedObject,
		"related_object_uuid": strings.TrimSpace(params.RelatedObjectUUID),
		"attachment_name":     attachmentName,
		"file_type":           fileType,
		"active":              1,
	}
	if params.AttachmentSource != "" {
		body["attachment_source"] = params.AttachmentSource
	}
	if params.Tags != "" {
		body["tags"] = params.Tags
	}

	createURL, err := endpointURL(s.Client, "attachment", "create", nil)
	if err != nil {
		return "", err
	}
	resp, err := s.request(ctx, http.MethodPost, createURL, nil, body, nil)
	if err != nil {
		return "", err
	}
	uuid := resp.Headers.Get(recordUUIDHeader)
	if uuid == "" {
		return "", &APIError{StatusCode: resp.StatusCode, Body: "attachment record created but no UUID returned"}
	}

	uploadURL, err := endpointURL(s.Client, "attachment", "upload", map[string]string{"uuid": uuid})
	if err != nil {
		return "", err
	}
	if _, err := s.postFile(ctx, uploadURL, fileName, params.Content); err != nil {
		return "", err
	}
	return uuid, nil
}

// Download fetches an attachment's binary content. The endpoint
// redirects to blob storage; the HTTP client follows it.
func (s AttachmentsService) Download(ctx context.Context, uuid string) ([]byte, error) {
	if strings.TrimSpace(uuid) == "" {
		return nil, &ValidationError{Field: "uuid", Reason: "UUID is required"}
	}
	url, err := endpointURL(s.Client, "attachment", "download", map[string]string{"uuid": uuid})
	if err != nil {
		return nil, err
	}
	resp, err := s.request(ctx, http.MethodGet, url, nil, nil, nil)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// Delete soft-deletes an attachment.
func (s AttachmentsService) Delete(ctx context.Context, uuid string) error {
	return deleteRecord(ctx, s.Client, "attachment", uuid)
}
