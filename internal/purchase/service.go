package purchase

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NotificationPurchaseCreated is the notification type emitted after a create.
const NotificationPurchaseCreated = "purchase_created"

// statsPageSize is how many records Stats reads per round trip.
const statsPageSize = 500

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=purchase
type Repository interface {
	// NextSequence atomically increments and returns the counter for year.
	NextSequence(ctx context.Context, year int) (int, error)
	CreatePurchase(ctx context.Context, p *Purchase) error
	GetPurchase(ctx context.Context, id string) (*Purchase, error)
	ListPurchases(ctx context.Context, filter ListFilter) ([]*Purchase, error)
	UpdatePurchase(ctx context.Context, p *Purchase) error
	DeletePurchase(ctx context.Context, id string) error
}

// Notifier receives fire-and-forget alerts.
type Notifier interface {
	Notify(ctx context.Context, kind, title, message, purchaseID string) error
}

type Service struct {
	repo     Repository
	notifier Notifier
	now      func() time.Time
	// locks keeps concurrent mutations of one record from dropping each
	// other's audit entries and attachments.
	locks recordLocks
}

func NewService(repo Repository, notifier Notifier) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		now:      time.Now,
	}
}

// WithClock replaces the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

type CreateParams struct {
	Title       string
	Date        string
	Department  string
	Purpose     string
	Status      Status
	Priority    Priority
	Supplier1   Supplier
	Supplier2   Supplier
	Supplier3   Supplier
	Items       []Item
	TotalAmount decimal.Decimal
	CreatedBy   string
}

// UpdateParams carries the editable fields. Empty Status or Priority keep
// the stored value.
type UpdateParams struct {
	Title       string
	Date        string
	Department  string
	Purpose     string
	Status      Status
	Priority    Priority
	Supplier1   Supplier
	Supplier2   Supplier
	Supplier3   Supplier
	Items       []Item
	TotalAmount decimal.Decimal
	UpdatedBy   string
}

type StatusParams struct {
	Status     Status
	Comments   string
	ApprovedBy string
	Signature  string
}

type AttachmentParams struct {
	Filename     string
	OriginalName string
	MimeType     string
	Size         int64
	UploadedBy   string
}

// ListFilter narrows ListPurchases. Zero values mean "no constraint";
// Limit <= 0 means no limit.
type ListFilter struct {
	Status     *Status
	Priority   *Priority
	Department string
	DateFrom   string
	DateTo     string
	MinAmount  *decimal.Decimal
	MaxAmount  *decimal.Decimal
	Search     string
	Limit      int
	Offset     int
}

func validate(title string, items []Item) error {
	if strings.TrimSpace(title) == "" {
		return &ValidationError{Field: "title", Message: "must not be empty"}
	}

	if len(items) == 0 {
		return &ValidationError{Field: "items", Message: "at least one item is required"}
	}

	return nil
}

func (s *Service) clock() time.Time {
	return s.now().UTC()
}

// touch stamps UpdatedAt, never moving it backwards or repeating it.
func (s *Service) touch(p *Purchase) time.Time {
	now := s.clock()
	if last := p.LastModified(); !now.After(last) {
		now = last.Add(time.Nanosecond)
	}

	p.UpdatedAt = &now

	return now
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Purchase, error) {
	if err := validate(params.Title, params.Items); err != nil {
		return nil, err
	}

	now := s.clock()

	seq, err := s.repo.NextSequence(ctx, now.Year())
	if err != nil {
		return nil, fmt.Errorf("next sequence: %w", err)
	}

	ids := newIdentifiers(now.Year(), seq)

	status := params.Status
	if status == "" {
		status = StatusPending
	}

	priority := params.Priority
	if priority == "" {
		priority = PriorityNormal
	}

	createdBy := actorOrDefault(params.CreatedBy)

	p := &Purchase{
		ID:           uuid.NewString(),
		PRNo:         ids.pr,
		PONo:         ids.po,
		OBRNo:        ids.obr,
		DVNo:         ids.dv,
		Title:        params.Title,
		Date:         params.Date,
		Department:   params.Department,
		Purpose:      params.Purpose,
		Status:       status,
		Priority:     priority,
		Supplier1:    params.Supplier1,
		Supplier2:    params.Supplier2,
		Supplier3:    params.Supplier3,
		Items:        params.Items,
		TotalAmount:  params.TotalAmount,
		Attachments:  []Attachment{},
		AuditTrail:   []AuditEntry{createdEntry(now, createdBy, params.Title)},
		CreatedAt:    now,
		CreatedBy:    createdBy,
		ApprovalInfo: ApprovalInfo{},
	}

	if err := s.repo.CreatePurchase(ctx, p); err != nil {
		return nil, fmt.Errorf("create purchase: %w", err)
	}

	s.notifyCreated(ctx, p)

	created, err := s.repo.GetPurchase(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("reload purchase: %w", err)
	}

	return created, nil
}

// notifyCreated never fails the caller; the purchase already exists.
func (s *Service) notifyCreated(ctx context.Context, p *Purchase) {
	if s.notifier == nil {
		return
	}

	err := s.notifier.Notify(ctx,
		NotificationPurchaseCreated,
		"New purchase request",
		fmt.Sprintf("%s: %s", p.PRNo, p.Title),
		p.ID,
	)
	if err != nil {
		slog.Warn("failed to emit purchase notification", "purchase_id", p.ID, "error", err)
	}
}

func (s *Service) Get(ctx context.Context, id string) (*Purchase, error) {
	return s.repo.GetPurchase(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Purchase, error) {
	purchases, err := s.repo.ListPurchases(ctx, filter)
	if err != nil {
		return nil, err
	}

	if purchases == nil {
		purchases = []*Purchase{}
	}

	return purchases, nil
}

// Update merges params into the stored record. Identifiers, creation data,
// approval info, attachments and the audit trail are kept.
func (s *Service) Update(ctx context.Context, id string, params UpdateParams) (*Purchase, error) {
	if err := validate(params.Title, params.Items); err != nil {
		return nil, err
	}

	defer s.locks.lock(id)()

	p, err := s.repo.GetPurchase(ctx, id)
	if err != nil {
		return nil, err
	}

	changed := changedFields(p, params)

	p.Title = params.Title
	p.Date = params.Date
	p.Department = params.Department
	p.Purpose = params.Purpose
	p.Supplier1 = params.Supplier1
	p.Supplier2 = params.Supplier2
	p.Supplier3 = params.Supplier3
	p.Items = params.Items
	p.TotalAmount = params.TotalAmount

	if params.Status != "" {
		p.Status = params.Status
	}

	if params.Priority != "" {
		p.Priority = params.Priority
	}

	now := s.touch(p)
	p.AuditTrail = append(p.AuditTrail, updatedEntry(now, actorOrDefault(params.UpdatedBy), changed))

	return s.save(ctx, p)
}

// UpdateStatus sets any status string. Approver data, when given, is
// recorded in the approval info.
func (s *Service) UpdateStatus(ctx context.Context, id string, params StatusParams) (*Purchase, error) {
	defer s.locks.lock(id)()

	p, err := s.repo.GetPurchase(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := p.Status
	p.Status = params.Status
	now := s.touch(p)

	if params.ApprovedBy != "" || params.Comments != "" || params.Signature != "" {
		p.ApprovalInfo = ApprovalInfo{
			ApprovedBy: params.ApprovedBy,
			ApprovedAt: &now,
			Comments:   params.Comments,
			Signature:  params.Signature,
		}
	}

	p.AuditTrail = append(p.AuditTrail,
		statusEntry(now, actorOrDefault(params.ApprovedBy), previous, params.Status, params.Comments))

	return s.save(ctx, p)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.DeletePurchase(ctx, id)
}

func (s *Service) AddAttachment(ctx context.Context, id string, params AttachmentParams) (*Purchase, error) {
	if strings.TrimSpace(params.Filename) == "" {
		return nil, &ValidationError{Field: "filename", Message: "must not be empty"}
	}

	defer s.locks.lock(id)()

	p, err := s.repo.GetPurchase(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.touch(p)

	originalName := params.OriginalName
	if originalName == "" {
		originalName = params.Filename
	}

	a := Attachment{
		ID:           uuid.NewString(),
		Filename:     params.Filename,
		OriginalName: originalName,
		MimeType:     params.MimeType,
		Size:         params.Size,
		UploadedAt:   now,
		UploadedBy:   actorOrDefault(params.UploadedBy),
	}

	p.Attachments = append(p.Attachments, a)
	p.AuditTrail = append(p.AuditTrail, attachmentEntry(now, ActionAttachmentAdded, a.UploadedBy, a))

	return s.save(ctx, p)
}

func (s *Service) RemoveAttachment(ctx context.Context, id, attachmentID, user string) (*Purchase, error) {
	defer s.locks.lock(id)()

	p, err := s.repo.GetPurchase(ctx, id)
	if err != nil {
		return nil, err
	}

	idx := slices.IndexFunc(p.Attachments, func(a Attachment) bool { return a.ID == attachmentID })
	if idx < 0 {
		return nil, ErrAttachmentNotFound
	}

	removed := p.Attachments[idx]
	p.Attachments = slices.Delete(p.Attachments, idx, idx+1)

	now := s.touch(p)
	p.AuditTrail = append(p.AuditTrail, attachmentEntry(now, ActionAttachmentRemoved, actorOrDefault(user), removed))

	return s.save(ctx, p)
}

// Stats aggregates over every stored purchase, reading in pages.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	var stats Stats

	now := s.clock()

	for offset := 0; ; offset += statsPageSize {
		page, err := s.repo.ListPurchases(ctx, ListFilter{Limit: statsPageSize, Offset: offset})
		if err != nil {
			return Stats{}, fmt.Errorf("list purchases: %w", err)
		}

		for _, p := range page {
			stats.Add(p, now)
		}

		if len(page) < statsPageSize {
			break
		}
	}

	return stats, nil
}

func (s *Service) save(ctx context.Context, p *Purchase) (*Purchase, error) {
	if err := s.repo.UpdatePurchase(ctx, p); err != nil {
		return nil, fmt.Errorf("update purchase: %w", err)
	}

	return s.repo.GetPurchase(ctx, p.ID)
}

func changedFields(p *Purchase, params UpdateParams) []string {
	var fields []string

	add := func(name string, changed bool) {
		if changed {
			fields = append(fields, name)
		}
	}

	add("title", p.Title != params.Title)
	add("date", p.Date != params.Date)
	add("department", p.Department != params.Department)
	add("purpose", p.Purpose != params.Purpose)
	add("status", params.Status != "" && p.Status != params.Status)
	add("priority", params.Priority != "" && p.Priority != params.Priority)
	add("suppliers", p.Supplier1 != params.Supplier1 || p.Supplier2 != params.Supplier2 || p.Supplier3 != params.Supplier3)
	add("items", !itemsEqual(p.Items, params.Items))
	add("totalAmount", !p.TotalAmount.Equal(params.TotalAmount))

	return fields
}

func itemsEqual(a, b []Item) bool {
	return slices.EqualFunc(a, b, func(x, y Item) bool {
		return x.Number == y.Number &&
			x.Name == y.Name &&
			x.Description == y.Description &&
			x.Unit == y.Unit &&
			x.Quantity.Equal(y.Quantity) &&
			x.UnitPrice.Equal(y.UnitPrice) &&
			x.Total.Equal(y.Total)
	})
}
