package purchase

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecentWindow bounds what the dashboard counts as recent activity.
const RecentWindow = 7 * 24 * time.Hour

// Stats is the dashboard summary over all purchase requests.
type Stats struct {
	Total          int
	Approved       int
	Pending        int
	Denied         int
	Completed      int
	ForReview      int
	HighPriority   int
	RecentActivity int
	// TotalAmount excludes denied requests.
	TotalAmount decimal.Decimal
}

// Add folds one purchase into the summary.
func (s *Stats) Add(p *Purchase, now time.Time) {
	s.Total++

	switch p.Status {
	case StatusApproved:
		s.Approved++
	case StatusPending:
		s.Pending++
	case StatusDenied:
		s.Denied++
	case StatusCompleted:
		s.Completed++
	case StatusForReview:
		s.ForReview++
	}

	if p.Priority == PriorityHigh || p.Priority == PriorityUrgent {
		s.HighPriority++
	}

	if now.Sub(p.LastModified()) <= RecentWindow {
		s.RecentActivity++
	}

	if p.Status != StatusDenied {
		s.TotalAmount = s.TotalAmount.Add(p.TotalAmount)
	}
}

// Aggregate summarises purchases as of now.
func Aggregate(purchases []*Purchase, now time.Time) Stats {
	var s Stats
	for _, p := range purchases {
		s.Add(p, now)
	}

	return s
}
