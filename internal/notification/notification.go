package notification

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("notification not found")

// Notification is an entry in the in-app alert feed.
type Notification struct {
	ID         string
	Type       string
	Title      string
	Message    string
	PurchaseID string
	Read       bool
	CreatedAt  time.Time
}
