package schema

import "net/http"

// Resource and operation catalogs. Endpoint templates are relative to
// the /api_1.0/ root unless the service addresses them elsewhere.

func init() {
	Register(&Resource{
		Name:   "job",
		Object: "job",
		Fields: []Field{
			{Name: "uuid", Label: "UUID", Type: FieldUUID, Filterable: true},
			{Name: "active", Label: "Active", Type: FieldInteger, Filterable: true},
			{Name: "generated_job_id", Label: "Job Number", Type: FieldString, Filterable: true},
			{Name: "status", Label: "Status", Type: FieldString, Filterable: true},
			{Name: "date", Label: "Job Date", Type: FieldDate, Filterable: true},
			{Name: "company_uuid", Label: "Company UUID", Type: FieldUUID, Filterable: true},
			{Name: "category_uuid", Label: "Category UUID", Type: FieldUUID, Filterable: true},
			{Name: "queue_uuid", Label: "Queue UUID", Type: FieldUUID, Filterable: true},
			{Name: "queue_expiry_date", Label: "Queue Expiry Date", Type: FieldDateTime},
			{Name: "queue_assigned_staff_uuid", Label: "Queue Assigned Staff UUID", Type: FieldUUID, Filterable: true},
			{Name: "job_address", Label: "Job Address", Type: FieldString},
			{Name: "billing_address", Label: "Billing Address", Type: FieldString},
			{Name: "job_description", Label: "Job Description", Type: FieldText},
			{Name: "work_done_description", Label: "Work Done Description", Type: FieldText},
			{Name: "purchase_order_number", Label: "Purchase Order Number", Type: FieldString, Filterable: true},
			{Name: "payment_date", Label: "Payment Date", Type: FieldDateTime, Filterable: true},
			{Name: "payment_method", Label: "Payment Method", Type: FieldString},
			{Name: "payment_amount", Label: "Payment Amount", Type: FieldFloat},
			{Name: "total_invoice_amount", Label: "Total Invoice Amount", Type: FieldFloat, Filterable: true},
			{Name: "invoice_sent", Label: "Invoice Sent", Type: FieldInteger},
			{Name: "completion_date", Label: "Completion Date", Type: FieldDateTime, Filterable: true},
			{Name: "edit_date", Label: "Edit Date", Type: FieldDateTime, Filterable: true},
		},
		Operations: map[string]Operation{
			"get":     {Method: http.MethodGet, Endpoint: "job/{uuid}.json", URLParams: []string{"uuid"}},
			"getMany": {Method: http.MethodGet, Endpoint: "job.json"},
			"create":  {Method: http.MethodPost, Endpoint: "job.json"},
			"update":  {Method: http.MethodPost, Endpoint: "job/{uuid}.json", URLParams: []string{"uuid"}},
			"delete":  {Method: http.MethodDelete, Endpoint: "job/{uuid}.json", URLParams: []string{"uuid"}},
		},
	})

	Register(&Resource{
		Name:   "client",
		Object: "company",
		Fields: []Field{
			{Name: "uuid", Label: "UUID", Type: FieldUUID, Filterable: true},
			{Name: "active", Label: "Active", Type: FieldInteger, Filterable: true},
			{Name: "name", Label: "Name", Type: FieldString, Filterable: true},
			{Name: "address", Label: "Address", Type: FieldString},
			{Name: "billing_address", Label: "Billing Address", Type: FieldString},
			{Name: "billing_attention", Label: "Billing Attention", Type: FieldString},
			{Name: "email", Label: "Email", Type: FieldString, Filterable: true},
			{Name: "phone", Label: "Phone", Type: FieldString},
			{Name: "website", Label: "Website", Type: FieldString},
			{Name: "abn_number", Label: "ABN", Type: FieldString, Filterable: true},
			{Name: "is_individual", Label: "Is Individual", Type: FieldInteger, Filterable: true},
			{Name: "tax_rate_uuid", Label: "Tax Rate UUID", Type: FieldUUID},
			{Name: "edit_date", Label: "Edit Date", Type: FieldDateTime, Filterable: true},
		},
		Operations: map[string]Operation{
			"get":     {Method: http.MethodGet, Endpoint: "company/{uuid}.json", URLParams: []string{"uuid"}},
			"getMany": {Method: http.MethodGet, Endpoint: "company.json"},
			"create":  {Method: http.MethodPost, Endpoint: "company.json"},
			"update":  {Method: http.MethodPost, Endpoint: "company/{uuid}.json", URLParams: []string{"uuid"}},
			"delete":  {Method: http.MethodDelete, Endpoint: "company/{uuid}.json", URLParams: []string{"uuid"}},
		},
	})

	Register(&Resource{
		Name:   "companyContact",
		Object: "companycontact",
		Fields: []Field{
			{Name: "uuid", Label: "UUID", Type: FieldUUID, Filterable: true},
			{Name: "active", Label: "Active", Type: FieldInteger, Filterable: true},
			{Name: "company_uuid", Label: "Company UUID", Type: FieldUUID, Filterable: true},
			{Name: "type", Label: "Contact Type", Type: FieldString, Filterable: true},
			{Name: "first", Label: "First Name", Type: FieldString, Filterable: true},
			{Name: "last", Label: "Last Name", Type: FieldString, Filterable: true},
			{Name: "email", Label: "Email", Type: FieldString, Filterable: true},
			{Name: "mobile", Label: "Mobile", Type: FieldString},
			{Name: "phone", Label: "Phone", Type: FieldString},
		},
		Operations: map[string]Operation{
			"get":     {Method: http.MethodGet, Endpoint: "companycontact/{uuid}.json", URLParams: []string{"uuid"}},
			"getMany": {Method: http.MethodGet, Endpoint: "companycontact.json"},
			"create":  {Method: http.MethodPost, Endpoint: "companycontact.json"},
			"update":  {Method: http.MethodPost, Endpoint: "companycontact/{uuid}.json", URLParams: []string{"uuid"}},
			"delete":  {Method: http.MethodDelete, Endpoint: "companycontact/{uuid}.json", URLParams: []string{"uuid"}},
		},
	})

	Register(&Resource{
		Name:   "jobContact",
		Object: "jobcontact",
		Fields: []Field{
			{Name: "uuid", Label: "UUID", Type: FieldUUID, Filterable: true},
			{Name: "active", Label: "Active", Type: FieldInteger, Filterable: true},
			{Name: "job_uuid", Label: "Job UUID", Type: FieldUUID, Filterable: true},
			{Name: "type", Label: "Contact Type", Type: FieldString, Filterable: true},
			{Name: "first", Label: "First Name", Type: FieldString, Filterable: true},
			{Name: "last", Label: "Last Name", Type: FieldString, Filterable: true},
			{Name: "email", Label: "Email", Type: FieldString, Filterable: true},
			{Name: "mobile", Label: "Mobile", Type: FieldString},
			{Name: "phone", Label: "Phone", Type: FieldString},
		},
		Operations: map[string]Operation{
			"get":     {Method: http.MethodGet, Endpoint: "jobcontact/{uuid}.json", URLParams: []string{"uuid"}},
			"getMany": {Method: http.MethodGet, Endpoint: "jobcontact.json"},
			"create":  {Method: http.MethodPost, Endpoint: "jobcontact.json"},
			"update":  {Method: http.MethodPost, Endpoint: "jobcontact/{uuid}.json", URLParams: []string{"uuid"}},
			"delete":  {Method: http.MethodDelete, Endpoint: "jobcontact/{uuid}.json", URLParams: []string{"uuid"}},
		},
	})

	// Flexible bookings: allocations scheduled into a window on a day.
	Register(&Resource{
		Name:   "jobAllocation",
		Object: "joballocation",
		Fields: []Field{
			{Name: "uuid", Label: "UUID", Type: FieldUUID, Filterable: true},
			{Name: "active", Label: "Active", Type: FieldInteger, Filterable: true},
			{Name: "job_uuid", Label: "Job UUID", Type: FieldUUID, Filterable: true},
			{Name: "staff_uuid", Label: "Staff UUID", Type: FieldUUID, Filterable: true},
			{Name: "allocation_date", Label: "Allocation Date", Type: FieldDateTime, Filterable: true},
			{Name: "allocation_window_uuid", Label: "Allocation Window UUID", Type: FieldUUID},
			{Name: "expiry_timestamp", Label: "Expiry Timestamp", Type: FieldDateTime},
			{Name: "edit_date", Label: "Edit Date", Type: FieldDateTime, Filterable: true},
		},
		Operations: map[string]Operation{
			"get":     {Method: http.MethodGet, Endpoint: "joballocation/{uuid}.json", URLParams: []string{"uuid"}},
			"getMany": {Method: http.MethodGet, Endpoint: "joballocation.json"},
			"create":  {Method: http.MethodPost, Endpoint: "joballocation.json"},
			"update":  {Method: http.MethodPost, Endpoint: "joballocation/{uuid}.json", URLParams: []string{"uuid"}},
			"delete":  {Method: http.MethodDelete, Endpoint: "joballocation/{uuid}.json", URLParams: []string{"uuid"}},
		},
	})

	// Fixed bookings and checkins both live on the job activity object.
	Register(&Resource{
		Name:   "jobActivity",
		Object: "jobactivity",
		Fields: []Field{
			{Name: "uuid", Label: "UUID", Type: FieldUUID, Filterable: true},
			{Name: "active", Label: "Active", Type: FieldInteger, Filterable: true},
			{Name: "job_uuid", Label: "Job UUID", Type: FieldUUID, Filterable: true},
			{Name: "staff_uuid", Label: "Staff UUID", Type: FieldUUID, Filterable: true},
			{Name: "start_date", Label: "Start Date", Type: FieldDateTime, Filterable: true},
			{Name: "end_date", Label: "End Date", Type: FieldDateTime, Filterable: true},
			{Name: "activity_was_scheduled", Label: "Was Scheduled", Type: FieldInteger, Filterable: true},
			{Name: "activity_was_recorded", Label: "Was Recorded", Type: FieldInteger, Filterable: true},
			{Name: "travel_time_in_sec", Label: "Travel Time (s)", Type: FieldInteger},
			{Name: "edit_date", Label: "Edit Date", Type: FieldDateTime, Filterable: true},
		},
		Operations: map[string]Operation{
			"get":     {Method: http.MethodGet, Endpoint: "jobactivity/{uuid}.json", URLParams: []string{"uuid"}},
			"getMany": {Method: http.MethodGet, Endpoint: "jobactivity.json"},
			"create":  {Method: http.MethodPost, Endpoint: "jobactivity.json"},
			"update":  {Method: http.MethodPost, Endpoint: "jobactivity/{uuid}.json", URLParams: []string{"uuid"}},
			"delete":  {Method: http.MethodDelete, Endpoint: "jobactivity/{uuid}.json", URLParams: []string{"uuid"}},
		},
	})

	Register(&Resource{
		Name:   "attachment",
		Object: "attachment",
		Fields: []Field{
			{Name: "uuid", Label: "UUID", Type: FieldUUID, Filterable: true},
			{Name: "active", Label: "Active", Type: FieldInteger, Filterable: true},
			{Name: "related_object", Label: "Related Object", Type: FieldString, Filterable: true},
			{Name: "related_object_uuid", Label: "Related Object UUID", Type: FieldUUID, Filterable: true},
			{Name: "attachment_name", Label: "Attachment Name", Type: FieldString, Filterable: true},
			{Name: "file_type", Label: "File Type", Type: FieldString, Filterable: true},
			{Name: "attachment_source", Label: "Attachment Source", Type: FieldString},
			{Name: "tags", Label: "Tags", Type: FieldString},
			{Name: "lat", Label: "Latitude", Type: FieldFloat},
			{Name: "lng", Label: "Longitude", Type: FieldFloat},
			{Name: "is_favourite", Label: "Is Favourite", Type: FieldString},
			{Name: "edit_date", Label: "Edit Date", Type: FieldDateTime, Filterable: true},
		},
		Operations: map[string]Operation{
			"get":      {Method: http.MethodGet, Endpoint: "attachment/{uuid}.json", URLParams: []string{"uuid"}},
			"getMany":  {Method: http.MethodGet, Endpoint: "attachment.json"},
			"create":   {Method: http.MethodPost, Endpoint: "attachment.json"},
			"delete":   {Method: http.MethodDelete, Endpoint: "attachment/{uuid}.json", URLParams: []string{"uuid"}},
			"upload":   {Method: http.MethodPost, Endpoint: "attachment/{uuid}.file", URLParams: []string{"uuid"}},
			"download": {Method: http.MethodGet, Endpoint: "attachment/{uuid}.file", URLParams: []string{"uuid"}},
		},
	})

	Register(&Resource{
		Name:   "inbox",
		Object: "inboxmessage",
		Fields: []Field{
			{Name: "uuid", Label: "UUID", Type: FieldUUID, Filterable: true},
			{Name: "subject", Label: "Subject", Type: FieldString, Filterable: true},
			{Name: "message_text", Label: "Message Text", Type: FieldText},
			{Name: "from_name", Label: "From Name", Type: FieldString, Filterable: true},
			{Name: "from_email", Label: "From Email", Type: FieldString, Filterable: true},
			{Name: "regarding_company_uuid", Label: "Regarding Company UUID", Type: FieldUUID, Filterable: true},
			{Name: "timestamp", Label: "Timestamp", Type: FieldDateTime, Filterable: true},
		},
		Operations: map[string]Operation{
			"get":          {Method: http.MethodGet, Endpoint: "inboxmessage/{uuid}.json", URLParams: []string{"uuid"}},
			"getMany":      {Method: http.MethodGet, Endpoint: "inboxmessage.json"},
			"create":       {Method: http.MethodPost, Endpoint: "inboxmessage.json"},
			"convertToJob": {Method: http.MethodPost, Endpoint: "inboxmessage/{uuid}/convert-to-job.json", URLParams: []string{"uuid"}},
		},
	})

	Register(&Resource{
		Name:   "note",
		Object: "note",
		Fields: []Field{
			{Name: "uuid", Label: "UUID", Type: FieldUUID, Filterable: true},
			{Name: "active", Label: "Active", Type: FieldInteger, Filterable: true},
			{Name: "note", Label: "Note", Type: FieldText},
			{Name: "related_object", Label: "Related Object", Type: FieldString, Filterable: true},
			{Name: "related_object_uuid", Label: "Related Object UUID", Type: FieldUUID, Filterable: true},
			{Name: "action_required", Label: "Action Required", Type: FieldString},
			{Name: "action_completed_by_staff_uuid", Label: "Action Completed By Staff UUID", Type: FieldUUID},
			{Name: "create_date", Label: "Create Date", Type: FieldDateTime, Filterable: true},
		},
		Operations: map[string]Operation{
			"getMany": {Method: http.MethodGet, Endpoint: "note.json"},
			"create":  {Method: http.MethodPost, Endpoint: "note.json"},
		},
	})

	Register(&Resource{
		Name:   "staff",
		Object: "staff",
		Fields: []Field{
			{Name: "uuid", Label: "UUID", Type: FieldUUID, Filterable: true},
			{Name: "active", Label: "Active", Type: FieldInteger, Filterable: true},
			{Name: "first", Label: "First Name", Type: FieldString, Filterable: true},
			{Name: "last", Label: "Last Name", Type: FieldString, Filterable: true},
			{Name: "email", Label: "Email", Type: FieldString, Filterable: true},
			{Name: "mobile", Label: "Mobile", Type: FieldString},
			{Name: "job_title", Label: "Job Title", Type: FieldString},
		},
		Operations: map[string]Operation{
			"get":     {Method: http.MethodGet, Endpoint: "staff/{uuid}.json", URLParams: []string{"uuid"}},
			"getMany": {Method: http.MethodGet, Endpoint: "staff.json"},
		},
	})

	Register(&Resource{
		Name:   "queue",
		Object: "queue",
		Fields: []Field{
			{Name: "uuid", Label: "UUID", Type: FieldUUID, Filterable: true},
			{Name: "active", Label: "Active", Type: FieldInteger, Filterable: true},
			{Name: "name", Label: "Name", Type: FieldString, Filterable: true},
			{Name: "requires_assignment", Label: "Requires Assignment", Type: FieldInteger},
		},
		Operations: map[string]Operation{
			"getMany": {Method: http.MethodGet, Endpoint: "queue.json"},
		},
	})

	Register(&Resource{
		Name:   "allocationWindow",
		Object: "allocationwindow",
		Fields: []Field{
			{Name: "uuid", Label: "UUID", Type: FieldUUID, Filterable: true},
			{Name: "active", Label: "Active", Type: FieldInteger, Filterable: true},
			{Name: "name", Label: "Name", Type: FieldString, Filterable: true},
		},
		Operations: map[string]Operation{
			"getMany": {Method: http.MethodGet, Endpoint: "allocationwindow.json"},
		},
	})

	Register(&Resource{
		Name:   "category",
		Object: "category",
		Fields: []Field{
			{Name: "uuid", Label: "UUID", Type: FieldUUID, Filterable: true},
			{Name: "active", Label: "Active", Type: FieldInteger, Filterable: true},
			{Name: "name", Label: "Name", Type: FieldString, Filterable: true},
			{Name: "colour", Label: "Colour", Type: FieldString},
		},
		Operations: map[string]Operation{
			"getMany": {Method: http.MethodGet, Endpoint: "category.json"},
		},
	})

	Register(&Resource{
		Name:   "taxRate",
		Object: "taxrate",
		Fields: []Field{
			{Name: "uuid", Label: "UUID", Type: FieldUUID, Filterable: true},
			{Name: "active", Label: "Active", Type: FieldInteger, Filterable: true},
			{Name: "name", Label: "Name", Type: FieldString, Filterable: true},
			{Name: "rate", Label: "Rate", Type: FieldFloat},
		},
		Operations: map[string]Operation{
			"getMany": {Method: http.MethodGet, Endpoint: "taxrate.json"},
		},
	})

	Register(&Resource{
		Name:   "search",
		Object: "search",
		Fields: []Field{
			{Name: "q", Label: "Search Query", Type: FieldString},
			{Name: "limit", Label: "Limit", Type: FieldInteger},
		},
		Operations: map[string]Operation{
			"globalSearch": {Method: http.MethodGet, Endpoint: "search.json"},
			"objectSearch": {Method: http.MethodGet, Endpoint: "search/{objectType}.json", URLParams: []string{"objectType"}},
		},
	})
}
