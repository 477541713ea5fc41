package purchase

import (
	"fmt"
	"strings"
	"time"
)

func actorOrDefault(user string) string {
	if u := strings.TrimSpace(user); u != "" {
		return u
	}

	return DefaultActor
}

func createdEntry(at time.Time, user, title string) AuditEntry {
	return AuditEntry{
		Timestamp: at,
		Action:    ActionCreated,
		User:      user,
		Details:   fmt.Sprintf("Purchase request %q created", title),
	}
}

func updatedEntry(at time.Time, user string, fields []string) AuditEntry {
	details := "Purchase request updated"
	if len(fields) > 0 {
		details = "Updated " + strings.Join(fields, ", ")
	}

	return AuditEntry{
		Timestamp: at,
		Action:    ActionUpdated,
		User:      user,
		Details:   details,
	}
}

// statusEntry picks approved/denied for those targets and status_changed otherwise.
func statusEntry(at time.Time, user string, from, to Status, comments string) AuditEntry {
	action := ActionStatusChanged
	switch to {
	case StatusApproved:
		action = ActionApproved
	case StatusDenied:
		action = ActionDenied
	}

	details := fmt.Sprintf("Status changed from %s to %s", from, to)
	if comments != "" {
		details += ": " + comments
	}

	return AuditEntry{
		Timestamp:     at,
		Action:        action,
		User:          user,
		Details:       details,
		PreviousValue: string(from),
		NewValue:      string(to),
	}
}

func attachmentEntry(at time.Time, action Action, user string, a Attachment) AuditEntry {
	verb := "added"
	if action == ActionAttachmentRemoved {
		verb = "removed"
	}

	return AuditEntry{
		Timestamp: at,
		Action:    action,
		User:      user,
		Details:   fmt.Sprintf("Attachment %q %s", a.OriginalName, verb),
		NewValue:  a.ID,
	}
}
