package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventLoginSucceeded    EventType = "login.succeeded"
	EventLoginFailed       EventType = "login.failed"
	EventTokenRefreshed    EventType = "token.refreshed"
	EventTokenInvalidated  EventType = "token.invalidated"
	EventOrderCreated      EventType = "order.created"
	EventOrderDeleted      EventType = "order.deleted"
	EventMemberRoleGranted EventType = "member.role_granted"
	EventMemberRoleRevoked EventType = "member.role_revoked"
)

// Event is one security or data-change record streamed to the audit topic
type Event struct {
	ID         uuid.UUID         `json:"id"`
	Type       EventType         `json:"type"`
	Subject    string            `json:"subject,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

func NewEvent(eventType EventType, subject string, attrs map[string]string) *Event {
	return &Event{
		ID:         uuid.New(),
		Type:       eventType,
		Subject:    subject,
		Attributes: attrs,
		OccurredAt: time.Now().UTC(),
	}
}

// PartitionKey keeps one subject's events ordered on a single partition
func (e *Event) PartitionKey() string {
	if e.Subject != "" {
		return e.Subject
	}
	return e.ID.String()
}

func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func EventFromJSON(data []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
