package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

// SearchParams carries a search request. Query is required. ObjectType
// narrows the search to a single object (e.g. "job", "company"); empty
// searches everything. Limit 0 lets the service pick.
type SearchParams struct {
	Query      string
	ObjectType string
	Limit      int
}

// Run executes a search and returns the raw hit list. The result shape
// varies per object type so hits stay raw; Hits decodes the common
// members.
func (s SearchService) Run(ctx context.Context, params SearchParams) ([]json.RawMessage, error) {
	if strings.TrimSpace(params.Query) == "" {
		return nil, &ValidationError{Field: "q", Reason: "no search query was provided"}
	}

	operation := "globalSearch"
	urlParams := map[string]string{}
	if params.ObjectType != "" {
		operation = "objectSearch"
		urlParams["objectType"] = params.ObjectType
	}
	url, err := endpointURL(s.Client, "search", operation, urlParams)
	if err != nil {
		return nil, err
	}

	query := map[string]string{"q": params.Query}
	if params.Limit > 0 {
		query["limit"] = strconv.Itoa(params.Limit)
	}

	resp, err := s.request(ctx, http.MethodGet, url, query, nil, nil)
	if err != nil {
		return nil, err
	}

	var hits []json.RawMessage
	if err := json.Unmarshal(resp.Body, &hits); err == nil {
		return hits, nil
	}
	// Some responses wrap hits in a results envelope.
	var envelope struct {
		Results []json.RawMessage `json:"results"`
	}
	if err := resp.Decode(&envelope); err != nil {
		return nil, err
	}
	return envelope.Results, nil
}

// Hits decodes raw search hits into their common members.
func Hits(raw []json.RawMessage) []SearchResult {
	out := make([]SearchResult, 0, len(raw))
	for _, r := range raw {
		var hit SearchResult
		if err := json.Unmarshal(r, &hit); err != nil {
			continue
		}
		hit.Raw = r
		out = append(out, hit)
	}
	return out
}
