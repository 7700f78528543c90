package domain

import "time"

const (
	TypeAdminMessage   = "admin_message"
	TypeAdminBroadcast = "admin_broadcast"
)

// InboxMessage is a durable per-recipient message. Only the read state ever changes.
type InboxMessage struct {
	ID          string     `json:"id" gorm:"primaryKey"`
	RecipientID string     `json:"recipient_id" gorm:"not null;index:idx_inbox_recipient_created,priority:1;index:idx_inbox_recipient_read,priority:1"`
	SenderID    *string    `json:"sender_id,omitempty"`
	Title       string     `json:"title" gorm:"not null"`
	Body        string     `json:"body" gorm:"not null"`
	Type        string     `json:"type" gorm:"size:30;not null"`
	ActionURL   *string    `json:"action_url,omitempty"`
	IsRead      bool       `json:"is_read" gorm:"not null;default:false;index:idx_inbox_recipient_read,priority:2"`
	CreatedAt   time.Time  `json:"created_at" gorm:"index:idx_inbox_recipient_created,priority:2"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
}

// Draft is the content shared by every row of one send
type Draft struct {
	Title     string
	Body      string
	ActionURL *string
	SenderID  *string
	Type      string
}

// ListQuery selects a page of a user's inbox
type ListQuery struct {
	Page       int
	Limit      int
	UnreadOnly bool
}

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Normalize applies paging defaults and bounds
func (q ListQuery) Normalize() ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageLimit
	}
	if q.Limit > MaxPageLimit {
		q.Limit = MaxPageLimit
	}
	return q
}

func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// Page is one page of inbox messages with independently computed counts
type Page struct {
	Messages    []InboxMessage `json:"messages"`
	Total       int64          `json:"total"`
	UnreadCount int64          `json:"unread_count"`
	Page        int            `json:"page"`
	Limit       int            `json:"limit"`
	TotalPages  int            `json:"total_pages"`
}
