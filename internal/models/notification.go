// internal/models/notification.go
package models

type Notification struct {
	ID          string                 `json:"id"`
	RecipientID string                 `json:"recipientId"`
	Type        string                 `json:"type"`    // "new_match", "search_digest"
	Channel     string                 `json:"channel"` // "email", "sms"
	Status      string                 `json:"status"`  // "sent", "failed", "disabled"
	Payload     map[string]interface{} `json:"payload"`
	SentAt      string                 `json:"sentAt"`
	CreatedAt   string                 `json:"createdAt"`
}

type NotificationTemplate struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Version string `json:"version"`
}
