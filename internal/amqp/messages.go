package amqp

import (
	"encoding/json"
	"time"
)

// NotificationMessage is the event published when a notification is
// created, so external consumers (mail, push, chat bots) can deliver it
// without the API waiting on them.
type NotificationMessage struct {
	NotificationID int64     `json:"notification_id"`
	UserID         int64     `json:"user_id"`
	Type           string    `json:"type"`
	Message        string    `json:"message"`
	Timestamp      time.Time `json:"timestamp"`
}

// NewNotificationMessage builds an event for a stored notification.
func NewNotificationMessage(notificationID, userID int64, notifType, message string) *NotificationMessage {
	return &NotificationMessage{
		NotificationID: notificationID,
		UserID:         userID,
		Type:           notifType,
		Message:        message,
		Timestamp:      time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *NotificationMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// NotificationMessageFromJSON parses a message from JSON bytes.
func NotificationMessageFromJSON(data []byte) (*NotificationMessage, error) {
	var msg NotificationMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
