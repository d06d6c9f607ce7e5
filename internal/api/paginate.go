package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// cursorHeader carries the next page cursor. An absent header means the
// listing is complete.
const cursorHeader = "x-next-cursor"

// fetchAll walks a cursor-paginated listing and returns the concatenation
// of all pages in order. The caller's query map is never mutated: each
// call works on a fresh copy.
//
// limit 0 means unbounded. A positive limit stops paging as soon as
// enough records are collected and truncates the result to exactly limit.
func fetchAll[T any](ctx context.Context, r Requester, url string, query map[string]string, limit int) ([]T, error) {
	q := make(map[string]string, len(query)+1)
	for k, v := range query {
		q[k] = v
	}

	cursor := "-1"
	out := []T{}
	for {
		q["cursor"] = cursor
		resp, err := r.request(ctx, http.MethodGet, url, q, nil, nil)
		if err != nil {
			return nil, err
		}

		var page []json.RawMessage
		if err := json.Unmarshal(resp.Body, &page); err != nil {
			return nil, fmt.Errorf("%w from %s", ErrNotArray, url)
		}
		for _, raw := range page {
			var item T
			if err := json.Unmarshal(raw, &item); err != nil {
				return nil, fmt.Errorf("failed to decode record: %w", err)
			}
			out = append(out, item)
		}

		cursor = resp.Headers.Get(cursorHeader)
		if cursor == "" {
			cursor = "0"
		}
		if cursor == "0" || (limit > 0 && len(out) >= limit) {
			break
		}
	}

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// fetchOne fetches a single-record endpoint. ServiceM8 returns single
// records wrapped in a one-element array.
func fetchOne[T any](ctx context.Context, r Requester, url string) (*T, error) {
	records, err := fetchAll[T](ctx, r, url, nil, 1)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &APIError{StatusCode: 404, Body: "record not found"}
	}
	return &records[0], nil
}

// recordUUIDHeader carries the UUID of a record created by a POST.
const recordUUIDHeader = "x-record-uuid"

// createdUUID extracts the UUID of a newly created record, preferring
// the x-record-uuid response header and falling back to a uuid member of
// the response body.
func createdUUID(resp *Response) (string, error) {
	if uuid := resp.Headers.Get(recordUUIDHeader); uuid != "" {
		return uuid, nil
	}
	var body struct {
		UUID string `json:"uuid"`
	}
	if len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, &body); err == nil && body.UUID != "" {
			return body.UUID, nil
		}
	}
	return "", fmt.Errorf("create succeeded but no record UUID was returned")
}
