package amqp

import (
	"testing"
	"time"
)

func TestNotificationMessageJSON(t *testing.T) {
	msg := NewNotificationMessage(7, 42, "large_expense", "Large expense recorded: $1200.00 on 2025-03-01")
	if msg.Timestamp.IsZero() {
		t.Fatal("expected timestamp to be set")
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	parsed, err := NotificationMessageFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if parsed.NotificationID != 7 || parsed.UserID != 42 {
		t.Fatalf("ids: got %d/%d", parsed.NotificationID, parsed.UserID)
	}
	if parsed.Type != "large_expense" {
		t.Fatalf("type: got %q", parsed.Type)
	}
	if parsed.Message != msg.Message {
		t.Fatalf("message: got %q", parsed.Message)
	}
	if parsed.Timestamp.Sub(msg.Timestamp) > time.Second {
		t.Fatal("timestamp drifted through round trip")
	}
}

func TestNotificationMessageFromJSONInvalid(t *testing.T) {
	if _, err := NotificationMessageFromJSON([]byte("{broken")); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}
