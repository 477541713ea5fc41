package purchase

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the approval state of a purchase request. The set below is what
// the dashboard understands; any other string is stored as-is.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusForReview Status = "For Review"
	StatusApproved  Status = "Approved"
	StatusDenied    Status = "Denied"
	StatusCompleted Status = "Completed"
)

// Statuses lists the known statuses in display order.
var Statuses = []Status{StatusPending, StatusForReview, StatusApproved, StatusDenied, StatusCompleted}

// Known reports whether s is one of the predefined statuses.
func (s Status) Known() bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}

	return false
}

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityNormal Priority = "Normal"
	PriorityHigh   Priority = "High"
	PriorityUrgent Priority = "Urgent"
)

var Priorities = []Priority{PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent}

// Action identifies the kind of change recorded in an audit entry.
type Action string

const (
	ActionCreated           Action = "created"
	ActionUpdated           Action = "updated"
	ActionStatusChanged     Action = "status_changed"
	ActionApproved          Action = "approved"
	ActionDenied            Action = "denied"
	ActionAttachmentAdded   Action = "attachment_added"
	ActionAttachmentRemoved Action = "attachment_removed"
)

// Identifier prefixes for the business numbers.
const (
	PrefixPR  = "PR"
	PrefixPO  = "PO"
	PrefixOBR = "OBR"
	PrefixDV  = "DV"
)

const DefaultActor = "System"

type Supplier struct {
	Name    string
	Address string
}

// Item is a single line of a purchase request.
type Item struct {
	Number      int
	Name        string
	Description string
	Unit        string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal
}

type ApprovalInfo struct {
	ApprovedBy string
	ApprovedAt *time.Time
	Comments   string
	Signature  string
}

// Attachment is the metadata of a file stored elsewhere.
type Attachment struct {
	ID           string
	Filename     string
	OriginalName string
	MimeType     string
	Size         int64
	UploadedAt   time.Time
	UploadedBy   string
}

// AuditEntry is an immutable record of one action on a purchase request.
type AuditEntry struct {
	Timestamp     time.Time
	Action        Action
	User          string
	Details       string
	PreviousValue string
	NewValue      string
}

// Purchase is a procurement request.
type Purchase struct {
	ID string

	PRNo  string
	PONo  string
	OBRNo string
	DVNo  string

	Title      string
	Date       string
	Department string
	Purpose    string
	Status     Status
	Priority   Priority

	Supplier1 Supplier
	Supplier2 Supplier
	Supplier3 Supplier

	Items       []Item
	TotalAmount decimal.Decimal

	ApprovalInfo ApprovalInfo
	Attachments  []Attachment
	AuditTrail   []AuditEntry

	CreatedAt time.Time
	UpdatedAt *time.Time
	CreatedBy string
}

// LastModified returns UpdatedAt, falling back to CreatedAt.
func (p *Purchase) LastModified() time.Time {
	if p.UpdatedAt != nil {
		return *p.UpdatedAt
	}

	return p.CreatedAt
}
