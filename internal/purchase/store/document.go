package store

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/procurement/internal/purchase"
)

// document is the persisted JSON shape of a purchase. Field names match the
// public API so stored documents can be inspected or exported directly.
type document struct {
	ID           string          `json:"id"`
	PRNo         string          `json:"prNo"`
	PONo         string          `json:"poNo"`
	OBRNo        string          `json:"obrNo"`
	DVNo         string          `json:"dvNo"`
	Title        string          `json:"title"`
	Date         string          `json:"date"`
	Department   string          `json:"department"`
	Purpose      string          `json:"purpose"`
	Status       string          `json:"status"`
	Priority     string          `json:"priority"`
	Supplier1    supplierDoc     `json:"supplier1"`
	Supplier2    supplierDoc     `json:"supplier2"`
	Supplier3    supplierDoc     `json:"supplier3"`
	Items        []itemDoc       `json:"items"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	ApprovalInfo approvalDoc     `json:"approvalInfo"`
	Attachments  []attachmentDoc `json:"attachments"`
	AuditTrail   []auditDoc      `json:"auditTrail"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    *time.Time      `json:"updatedAt,omitempty"`
	CreatedBy    string          `json:"createdBy"`
}

type supplierDoc struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

type itemDoc struct {
	Number      int             `json:"number"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Unit        string          `json:"unit"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Total       decimal.Decimal `json:"total"`
}

type approvalDoc struct {
	ApprovedBy string     `json:"approvedBy"`
	ApprovedAt *time.Time `json:"approvedAt,omitempty"`
	Comments   string     `json:"comments"`
	Signature  string     `json:"signature"`
}

type attachmentDoc struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalName"`
	MimeType     string    `json:"mimeType"`
	Size         int64     `json:"size"`
	UploadedAt   time.Time `json:"uploadedAt"`
	UploadedBy   string    `json:"uploadedBy"`
}

type auditDoc struct {
	Timestamp     time.Time `json:"timestamp"`
	Action        string    `json:"action"`
	User          string    `json:"user"`
	Details       string    `json:"details"`
	PreviousValue string    `json:"previousValue"`
	NewValue      string    `json:"newValue"`
}

func toDocument(p *purchase.Purchase) document {
	d := document{
		ID:          p.ID,
		PRNo:        p.PRNo,
		PONo:        p.PONo,
		OBRNo:       p.OBRNo,
		DVNo:        p.DVNo,
		Title:       p.Title,
		Date:        p.Date,
		Department:  p.Department,
		Purpose:     p.Purpose,
		Status:      string(p.Status),
		Priority:    string(p.Priority),
		Supplier1:   supplierDoc(p.Supplier1),
		Supplier2:   supplierDoc(p.Supplier2),
		Supplier3:   supplierDoc(p.Supplier3),
		Items:       make([]itemDoc, len(p.Items)),
		TotalAmount: p.TotalAmount,
		ApprovalInfo: approvalDoc{
			ApprovedBy: p.ApprovalInfo.ApprovedBy,
			ApprovedAt: p.ApprovalInfo.ApprovedAt,
			Comments:   p.ApprovalInfo.Comments,
			Signature:  p.ApprovalInfo.Signature,
		},
		Attachments: make([]attachmentDoc, len(p.Attachments)),
		AuditTrail:  make([]auditDoc, len(p.AuditTrail)),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		CreatedBy:   p.CreatedBy,
	}

	for i, it := range p.Items {
		d.Items[i] = itemDoc(it)
	}

	for i, a := range p.Attachments {
		d.Attachments[i] = attachmentDoc(a)
	}

	for i, e := range p.AuditTrail {
		d.AuditTrail[i] = auditDoc{
			Timestamp:     e.Timestamp,
			Action:        string(e.Action),
			User:          e.User,
			Details:       e.Details,
			PreviousValue: e.PreviousValue,
			NewValue:      e.NewValue,
		}
	}

	return d
}

func fromDocument(d document) *purchase.Purchase {
	p := &purchase.Purchase{
		ID:          d.ID,
		PRNo:        d.PRNo,
		PONo:        d.PONo,
		OBRNo:       d.OBRNo,
		DVNo:        d.DVNo,
		Title:       d.Title,
		Date:        d.Date,
		Department:  d.Department,
		Purpose:     d.Purpose,
		Status:      purchase.Status(d.Status),
		Priority:    purchase.Priority(d.Priority),
		Supplier1:   purchase.Supplier(d.Supplier1),
		Supplier2:   purchase.Supplier(d.Supplier2),
		Supplier3:   purchase.Supplier(d.Supplier3),
		Items:       make([]purchase.Item, len(d.Items)),
		TotalAmount: d.TotalAmount,
		ApprovalInfo: purchase.ApprovalInfo{
			ApprovedBy: d.ApprovalInfo.ApprovedBy,
			ApprovedAt: d.ApprovalInfo.ApprovedAt,
			Comments:   d.ApprovalInfo.Comments,
			Signature:  d.ApprovalInfo.Signature,
		},
		Attachments: make([]purchase.Attachment, len(d.Attachments)),
		AuditTrail:  make([]purchase.AuditEntry, len(d.AuditTrail)),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
		CreatedBy:   d.CreatedBy,
	}

	for i, it := range d.Items {
		p.Items[i] = purchase.Item(it)
	}

	for i, a := range d.Attachments {
		p.Attachments[i] = purchase.Attachment(a)
	}

	for i, e := range d.AuditTrail {
		p.AuditTrail[i] = purchase.AuditEntry{
			Timestamp:     e.Timestamp,
			Action:        purchase.Action(e.Action),
			User:          e.User,
			Details:       e.Details,
			PreviousValue: e.PreviousValue,
			NewValue:      e.NewValue,
		}
	}

	return p
}
