package api

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexInt handles integer fields that arrive either as JSON numbers or
// as quoted strings. ServiceM8 serializes boolean-ish flags like active
// as "1"/"0" strings in some payloads and numbers in others.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	s := strings.Trim(string(data), `"`)
	if s == "" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		// Some payloads carry floats in integer slots.
		fl, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return err
		}
		n = int(fl)
	}
	*f = FlexInt(n)
	return nil
}

func (f FlexInt) Int() int { return int(f) }

// FlexFloat handles float fields that arrive as numbers or strings.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	s := strings.Trim(string(data), `"`)
	if s == "" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = FlexFloat(v)
	return nil
}

func (f FlexFloat) Float64() float64 { return float64(f) }

// Job is a job record.
type Job struct {
	UUID                   string    `json:"uuid"`
	Active                 FlexInt   `json:"active"`
	GeneratedJobID         string    `json:"generated_job_id"`
	Status                 string    `json:"status"`
	Date                   string    `json:"date"`
	CompanyUUID            string    `json:"company_uuid"`
	CategoryUUID           string    `json:"category_uuid"`
	QueueUUID              string    `json:"queue_uuid"`
	QueueExpiryDate        string    `json:"queue_expiry_date"`
	QueueAssignedStaffUUID string    `json:"queue_assigned_staff_uuid"`
	JobAddress             string    `json:"job_address"`
	BillingAddress         string    `json:"billing_address"`
	JobDescription         string    `json:"job_description"`
	WorkDoneDescription    string    `json:"work_done_description"`
	PurchaseOrderNumber    string    `json:"purchase_order_number"`
	PaymentDate            string    `json:"payment_date"`
	PaymentMethod          string    `json:"payment_method"`
	PaymentAmount          FlexFloat `json:"payment_amount"`
	TotalInvoiceAmount     FlexFloat `json:"total_invoice_amount"`
	InvoiceSent            FlexInt   `json:"invoice_sent"`
	CompletionDate         string    `json:"completion_date"`
	EditDate               string    `json:"edit_date"`
}

// Company is a client record. The API object is "company"; the product
// calls them clients.
type Company struct {
	UUID             string  `json:"uuid"`
	Active           FlexInt `json:"active"`
	Name             string  `json:"name"`
	Address          string  `json:"address"`
	BillingAddress   string  `json:"billing_address"`
	BillingAttention string  `json:"billing_attention"`
	Email            string  `json:"email"`
	Phone            string  `json:"phone"`
	Website          string  `json:"website"`
	ABNNumber        string  `json:"abn_number"`
	IsIndividual     FlexInt `json:"is_individual"`
	TaxRateUUID      string  `json:"tax_rate_uuid"`
	EditDate         string  `json:"edit_date"`
}

// CompanyContact is a contact attached to a company, typed by role
// (JOB, BILLING, Property Manager, Property Owner, Tenant).
type CompanyContact struct {
	UUID        string  `json:"uuid"`
	Active      FlexInt `json:"active"`
	CompanyUUID string  `json:"company_uuid"`
	Type        string  `json:"type"`
	First       string  `json:"first"`
	Last        string  `json:"last"`
	Email       string  `json:"email"`
	Mobile      string  `json:"mobile"`
	Phone       string  `json:"phone"`
}

// JobContact is a typed contact pinned to one job rather than to the
// client record, so site or billing details can differ per job.
type JobContact struct {
	UUID    string  `json:"uuid"`
	Active  FlexInt `json:"active"`
	JobUUID string  `json:"job_uuid"`
	Type    string  `json:"type"`
	First   string  `json:"first"`
	Last    string  `json:"last"`
	Email   string  `json:"email"`
	Mobile  string  `json:"mobile"`
	Phone   string  `json:"phone"`
}

// JobAllocation is a flexible booking: a staff member allocated to a job
// on a date, optionally inside an allocation window.
type JobAllocation struct {
	UUID                 string  `json:"uuid"`
	Active               FlexInt `json:"active"`
	JobUUID              string  `json:"job_uuid"`
	StaffUUID            string  `json:"staff_uuid"`
	AllocationDate       string  `json:"allocation_date"`
	AllocationWindowUUID string  `json:"allocation_window_uuid"`
	ExpiryTimestamp      string  `json:"expiry_timestamp"`
	EditDate             string  `json:"edit_date"`
}

// JobActivity is a fixed-time entry on a job. Scheduled activities are
// fixed bookings; recorded activities are checkins.
type JobActivity struct {
	UUID                 string  `json:"uuid"`
	Active               FlexInt `json:"active"`
	JobUUID              string  `json:"job_uuid"`
	StaffUUID            string  `json:"staff_uuid"`
	StartDate            string  `json:"start_date"`
	EndDate              string  `json:"end_date"`
	ActivityWasScheduled FlexInt `json:"activity_was_scheduled"`
	ActivityWasRecorded  FlexInt `json:"activity_was_recorded"`
	TravelTimeInSec      FlexInt `json:"travel_time_in_sec"`
	EditDate             string  `json:"edit_date"`
}

// Attachment is a file record related to another object.
type Attachment struct {
	UUID              string    `json:"uuid"`
	Active            FlexInt   `json:"active"`
	RelatedObject     string    `json:"related_object"`
	RelatedObjectUUID string    `json:"related_object_uuid"`
	AttachmentName    string    `json:"attachment_name"`
	FileType          string    `json:"file_type"`
	AttachmentSource  string    `json:"attachment_source"`
	Tags              string    `json:"tags"`
	Lat               FlexFloat `json:"lat"`
	Lng               FlexFloat `json:"lng"`
	IsFavourite       string    `json:"is_favourite"`
	EditDate          string    `json:"edit_date"`
}

// InboxMessage is an incoming work request that can be converted to a job.
type InboxMessage struct {
	UUID                 string          `json:"uuid"`
	Subject              string          `json:"subject"`
	MessageText          string          `json:"message_text"`
	FromName             string          `json:"from_name"`
	FromEmail            string          `json:"from_email"`
	RegardingCompanyUUID string          `json:"regarding_company_uuid"`
	Timestamp            string          `json:"timestamp"`
	JSONData             json.RawMessage `json:"json_data,omitempty"`
}

// Note is a free-text note attached to another object.
type Note struct {
	UUID                       string  `json:"uuid"`
	Active                     FlexInt `json:"active"`
	Note                       string  `json:"note"`
	RelatedObject              string  `json:"related_object"`
	RelatedObjectUUID          string  `json:"related_object_uuid"`
	ActionRequired             string  `json:"action_required"`
	ActionCompletedByStaffUUID string  `json:"action_completed_by_staff_uuid"`
	CreateDate                 string  `json:"create_date"`
}

// Staff is a staff member record.
type Staff struct {
	UUID     string  `json:"uuid"`
	Active   FlexInt `json:"active"`
	First    string  `json:"first"`
	Last     string  `json:"last"`
	Email    string  `json:"email"`
	Mobile   string  `json:"mobile"`
	JobTitle string  `json:"job_title"`
}

// Name returns the staff member's display name.
func (s Staff) Name() string {
	return strings.TrimSpace(s.First + " " + s.Last)
}

// Queue is a job queue.
type Queue struct {
	UUID               string  `json:"uuid"`
	Active             FlexInt `json:"active"`
	Name               string  `json:"name"`
	RequiresAssignment FlexInt `json:"requires_assignment"`
}

// AllocationWindow is a bookable window of the working day.
type AllocationWindow struct {
	UUID   string  `json:"uuid"`
	Active FlexInt `json:"active"`
	Name   string  `json:"name"`
}

// Category is a job category.
type Category struct {
	UUID   string  `json:"uuid"`
	Active FlexInt `json:"active"`
	Name   string  `json:"name"`
	Colour string  `json:"colour"`
}

// TaxRate is a tax rate record, used as the cheapest credential probe.
type TaxRate struct {
	UUID   string    `json:"uuid"`
	Active FlexInt   `json:"active"`
	Name   string    `json:"name"`
	Rate   FlexFloat `json:"rate"`
}

// SearchResult is one hit from the search service.
type SearchResult struct {
	UUID       string          `json:"uuid"`
	ObjectType string          `json:"object_type"`
	Label      string          `json:"label"`
	Snippet    string          `json:"snippet"`
	Raw        json.RawMessage `json:"-"`
}
