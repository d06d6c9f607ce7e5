package api

// Service accessors. Each service is a lightweight view over the client;
// construct them on demand, they hold no state of their own.

// JobsService provides access to job operations.
type JobsService struct{ *Client }

// Jobs returns the jobs service.
func (c *Client) Jobs() JobsService { return JobsService{c} }

// ClientsService provides access to client (company) operations.
type ClientsService struct{ *Client }

// Clients returns the clients service.
func (c *Client) Clients() ClientsService { return ClientsService{c} }

// BookingsService provides access to job booking operations.
type BookingsService struct{ *Client }

// Bookings returns the bookings service.
func (c *Client) Bookings() BookingsService { return BookingsService{c} }

// CheckinsService provides access to job checkin operations.
type CheckinsService struct{ *Client }

// Checkins returns the checkins service.
func (c *Client) Checkins() CheckinsService { return CheckinsService{c} }

// AttachmentsService provides access to attachment operations.
type AttachmentsService struct{ *Client }

// Attachments returns the attachments service.
func (c *Client) Attachments() AttachmentsService { return AttachmentsService{c} }

// InboxService provides access to inbox message operations.
type InboxService struct{ *Client }

// Inbox returns the inbox service.
func (c *Client) Inbox() InboxService { return InboxService{c} }

// MessagingService provides access to the platform email and SMS services.
type MessagingService struct{ *Client }

// Messaging returns the messaging service.
func (c *Client) Messaging() MessagingService { return MessagingService{c} }

// SearchService provides access to the search endpoints.
type SearchService struct{ *Client }

// Search returns the search service.
func (c *Client) Search() SearchService { return SearchService{c} }

// WebhooksService provides access to webhook subscriptions.
type WebhooksService struct{ *Client }

// Webhooks returns the webhooks service.
func (c *Client) Webhooks() WebhooksService { return WebhooksService{c} }

// LookupsService provides read-only access to small reference listings
// (staff, queues, allocation windows, categories).
type LookupsService struct{ *Client }

// Lookups returns the lookups service.
func (c *Client) Lookups() LookupsService { return LookupsService{c} }
