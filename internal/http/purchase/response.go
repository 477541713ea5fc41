package purchase

import (
	"time"

	"github.com/MrJamesThe3rd/procurement/internal/purchase"
)

type supplierResponse struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

type itemResponse struct {
	Number      int     `json:"number"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Unit        string  `json:"unit"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Total       float64 `json:"total"`
}

type approvalResponse struct {
	ApprovedBy string     `json:"approvedBy"`
	ApprovedAt *time.Time `json:"approvedAt"`
	Comments   string     `json:"comments"`
	Signature  string     `json:"signature"`
}

type attachmentResponse struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalName"`
	MimeType     string    `json:"mimeType"`
	Size         int64     `json:"size"`
	UploadedAt   time.Time `json:"uploadedAt"`
	UploadedBy   string    `json:"uploadedBy"`
}

type auditResponse struct {
	Timestamp     time.Time `json:"timestamp"`
	Action        string    `json:"action"`
	User          string    `json:"user"`
	Details       string    `json:"details"`
	PreviousValue string    `json:"previousValue,omitempty"`
	NewValue      string    `json:"newValue,omitempty"`
}

type purchaseResponse struct {
	ID           string               `json:"id"`
	PRNo         string               `json:"prNo"`
	PONo         string               `json:"poNo"`
	OBRNo        string               `json:"obrNo"`
	DVNo         string               `json:"dvNo"`
	Title        string               `json:"title"`
	Date         string               `json:"date"`
	Department   string               `json:"department"`
	Purpose      string               `json:"purpose"`
	Status       string               `json:"status"`
	Priority     string               `json:"priority"`
	Supplier1    supplierResponse     `json:"supplier1"`
	Supplier2    supplierResponse     `json:"supplier2"`
	Supplier3    supplierResponse     `json:"supplier3"`
	Items        []itemResponse       `json:"items"`
	TotalAmount  float64              `json:"totalAmount"`
	ApprovalInfo approvalResponse     `json:"approvalInfo"`
	Attachments  []attachmentResponse `json:"attachments"`
	AuditTrail   []auditResponse      `json:"auditTrail"`
	CreatedAt    time.Time            `json:"createdAt"`
	UpdatedAt    *time.Time           `json:"updatedAt,omitempty"`
	CreatedBy    string               `json:"createdBy"`
}

type statsResponse struct {
	Total          int     `json:"total"`
	Approved       int     `json:"approved"`
	Pending        int     `json:"pending"`
	Denied         int     `json:"denied"`
	Completed      int     `json:"completed"`
	ForReview      int     `json:"forReview"`
	HighPriority   int     `json:"highPriority"`
	RecentActivity int     `json:"recentActivity"`
	TotalAmount    float64 `json:"totalAmount"`
}

type deleteResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

func toResponse(p *purchase.Purchase) purchaseResponse {
	resp := purchaseResponse{
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
		Supplier1:   supplierResponse(p.Supplier1),
		Supplier2:   supplierResponse(p.Supplier2),
		Supplier3:   supplierResponse(p.Supplier3),
		Items:       make([]itemResponse, len(p.Items)),
		TotalAmount: p.TotalAmount.InexactFloat64(),
		ApprovalInfo: approvalResponse{
			ApprovedBy: p.ApprovalInfo.ApprovedBy,
			ApprovedAt: p.ApprovalInfo.ApprovedAt,
			Comments:   p.ApprovalInfo.Comments,
			Signature:  p.ApprovalInfo.Signature,
		},
		Attachments: make([]attachmentResponse, len(p.Attachments)),
		AuditTrail:  make([]auditResponse, len(p.AuditTrail)),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		CreatedBy:   p.CreatedBy,
	}

	for i, it := range p.Items {
		resp.Items[i] = itemResponse{
			Number:      it.Number,
			Name:        it.Name,
			Description: it.Description,
			Unit:        it.Unit,
			Quantity:    it.Quantity.InexactFloat64(),
			UnitPrice:   it.UnitPrice.InexactFloat64(),
			Total:       it.Total.InexactFloat64(),
		}
	}

	for i, a := range p.Attachments {
		resp.Attachments[i] = attachmentResponse(a)
	}

	for i, e := range p.AuditTrail {
		resp.AuditTrail[i] = auditResponse{
			Timestamp:     e.Timestamp,
			Action:        string(e.Action),
			User:          e.User,
			Details:       e.Details,
			PreviousValue: e.PreviousValue,
			NewValue:      e.NewValue,
		}
	}

	return resp
}

func toResponseList(purchases []*purchase.Purchase) []purchaseResponse {
	resp := make([]purchaseResponse, len(purchases))
	for i, p := range purchases {
		resp[i] = toResponse(p)
	}

	return resp
}

func toStatsResponse(s purchase.Stats) statsResponse {
	return statsResponse{
		Total:          s.Total,
		Approved:       s.Approved,
		Pending:        s.Pending,
		Denied:         s.Denied,
		Completed:      s.Completed,
		ForReview:      s.ForReview,
		HighPriority:   s.HighPriority,
		RecentActivity: s.RecentActivity,
		TotalAmount:    s.TotalAmount.InexactFloat64(),
	}
}
