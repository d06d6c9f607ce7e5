package api

import "context"

// PathResolver provides methods for resolving API endpoint URLs.
// It abstracts the URL construction logic, allowing services to build
// full URLs without knowing the base URL.
type PathResolver interface {
	// dataPath returns the full URL for a data-plane endpoint.
	// Example: dataPath("job.json") -> "https://api.servicem8.com/api_1.0/job.json"
	dataPath(path string) string

	// servicePath returns the full URL for a root-level endpoint such as
	// the platform messaging services and webhook subscriptions.
	// Example: servicePath("platform_service_sms") -> "https://api.servicem8.com/platform_service_sms"
	servicePath(path string) string
}

// HTTPExecutor provides methods for executing HTTP requests.
// It handles authentication, JSON serialization and error mapping.
//
// Request members that are empty are omitted from the wire entirely:
// an empty query map produces no query string, a nil or empty body
// produces no request body (and no Content-Type), and an empty headers
// map adds nothing beyond the standard headers.
type HTTPExecutor interface {
	// request executes an HTTP request and returns the full response.
	request(ctx context.Context, method, url string, query map[string]string, body any, headers map[string]string) (*Response, error)

	// postFile performs a multipart/form-data POST uploading a single file
	// under the "file" form field.
	postFile(ctx context.Context, url, filename string, content []byte) (*Response, error)
}

// Requester combines PathResolver and HTTPExecutor to provide the
// complete request surface used by resource helpers. Services depend on
// this interface rather than *Client so tests can substitute either half.
type Requester interface {
	PathResolver
	HTTPExecutor
}
