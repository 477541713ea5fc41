package purchase

import (
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/procurement/internal/purchase"
)

type supplierRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// itemRequest requires the name and unit keys; empty values are allowed.
// A missing number falls back to the item's position.
type itemRequest struct {
	Number      int     `json:"number"`
	Name        *string `json:"name" validate:"required"`
	Description string  `json:"description"`
	Unit        *string `json:"unit" validate:"required"`
	Quantity    float64 `json:"quantity" validate:"gte=0"`
	UnitPrice   float64 `json:"unitPrice" validate:"gte=0"`
	Total       float64 `json:"total"`
}

// purchaseRequest is the body of create and update. Title and item count
// are checked by the service so both operations share one rule. Date,
// department and supplier1 must be present but may be empty; the date and
// the totals are free values and only quantity and unit price are bounded.
type purchaseRequest struct {
	Title       string           `json:"title"`
	Date        *string          `json:"date" validate:"required"`
	Department  *string          `json:"department" validate:"required"`
	Purpose     string           `json:"purpose"`
	Status      string           `json:"status"`
	Priority    string           `json:"priority" validate:"omitempty,oneof=Low Normal High Urgent"`
	Supplier1   *supplierRequest `json:"supplier1" validate:"required"`
	Supplier2   supplierRequest  `json:"supplier2"`
	Supplier3   supplierRequest  `json:"supplier3"`
	Items       []itemRequest    `json:"items" validate:"required,dive"`
	TotalAmount float64          `json:"totalAmount"`
	CreatedBy   string           `json:"createdBy"`
	UpdatedBy   string           `json:"updatedBy"`
}

type statusRequest struct {
	Status     string `json:"status" validate:"required"`
	Comments   string `json:"comments"`
	ApprovedBy string `json:"approvedBy"`
	Signature  string `json:"signature"`
}

type attachmentRequest struct {
	Filename     string `json:"filename" validate:"required,max=255"`
	OriginalName string `json:"originalName" validate:"max=255"`
	MimeType     string `json:"mimeType" validate:"max=100"`
	Size         int64  `json:"size" validate:"gte=0"`
	UploadedBy   string `json:"uploadedBy"`
}

func (r purchaseRequest) items() []purchase.Item {
	items := make([]purchase.Item, len(r.Items))
	for i, it := range r.Items {
		number := it.Number
		if number == 0 {
			number = i + 1
		}

		items[i] = purchase.Item{
			Number:      number,
			Name:        deref(it.Name),
			Description: it.Description,
			Unit:        deref(it.Unit),
			Quantity:    decimal.NewFromFloat(it.Quantity),
			UnitPrice:   decimal.NewFromFloat(it.UnitPrice),
			Total:       decimal.NewFromFloat(it.Total),
		}
	}

	return items
}

func (r purchaseRequest) toCreateParams() purchase.CreateParams {
	return purchase.CreateParams{
		Title:       r.Title,
		Date:        deref(r.Date),
		Department:  deref(r.Department),
		Purpose:     r.Purpose,
		Status:      purchase.Status(r.Status),
		Priority:    purchase.Priority(r.Priority),
		Supplier1:   r.supplier1(),
		Supplier2:   purchase.Supplier(r.Supplier2),
		Supplier3:   purchase.Supplier(r.Supplier3),
		Items:       r.items(),
		TotalAmount: decimal.NewFromFloat(r.TotalAmount),
		CreatedBy:   r.CreatedBy,
	}
}

func (r purchaseRequest) toUpdateParams() purchase.UpdateParams {
	return purchase.UpdateParams{
		Title:       r.Title,
		Date:        deref(r.Date),
		Department:  deref(r.Department),
		Purpose:     r.Purpose,
		Status:      purchase.Status(r.Status),
		Priority:    purchase.Priority(r.Priority),
		Supplier1:   r.supplier1(),
		Supplier2:   purchase.Supplier(r.Supplier2),
		Supplier3:   purchase.Supplier(r.Supplier3),
		Items:       r.items(),
		TotalAmount: decimal.NewFromFloat(r.TotalAmount),
		UpdatedBy:   r.UpdatedBy,
	}
}

func (r purchaseRequest) supplier1() purchase.Supplier {
	if r.Supplier1 == nil {
		return purchase.Supplier{}
	}

	return purchase.Supplier(*r.Supplier1)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
