package contract

import "encoding/json"

// Notification is an in-console toast kept by the admin UI.
type Notification struct {
	ID        string            `json:"id"`
	Type      NotificationLevel `json:"type" validate:"required,enum"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Timestamp Timestamp         `json:"timestamp"`
	Read      bool              `json:"read"`
}

// PushNotification is a stored notification for an app user. Body and
// Content are the app and backend names of the same text.
type PushNotification struct {
	NotificationID  int64           `json:"notificationId"`
	UserID          int64           `json:"userId,omitempty"`
	Type            string          `json:"type"`
	Title           string          `json:"title"`
	Body            string          `json:"body,omitempty"`
	Content         string          `json:"content,omitempty"`
	Data            json.RawMessage `json:"data,omitempty"`
	IsRead          bool            `json:"isRead"`
	ReferenceID     *int64          `json:"referenceId,omitempty"`
	ReferenceType   string          `json:"referenceType,omitempty"`
	TypeDescription string          `json:"typeDescription,omitempty"`
	CreatedAt       Timestamp       `json:"createdAt"`
}

// Text returns Body, falling back to Content.
func (n PushNotification) Text() string {
	if n.Body != "" {
		return n.Body
	}
	return n.Content
}
