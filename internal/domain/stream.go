package domain

import (
	"fmt"
	"time"
)

// StreamRepairEvents - журнал событий заявок
const StreamRepairEvents = "stream:repair:events"

// RepairEventType - тип события журнала
type RepairEventType string

const (
	RepairEventCreated RepairEventType = "Created"
	RepairEventUpvoted RepairEventType = "Upvoted"
)

// RepairEvent - событие журнала заявок.
// Created несёт полную заявку, Upvoted только идентификатор.
type RepairEvent struct {
	Type       RepairEventType `json:"type"`
	RequestID  string          `json:"request_id"`
	Request    *RepairRequest  `json:"request,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// NewCreatedEvent создаёт событие Created
func NewCreatedEvent(req *RepairRequest, at time.Time) *RepairEvent {
	copied := *req
	return &RepairEvent{
		Type:       RepairEventCreated,
		RequestID:  req.ID,
		Request:    &copied,
		OccurredAt: at.UTC(),
	}
}

// NewUpvotedEvent создаёт событие Upvoted
func NewUpvotedEvent(id string, at time.Time) *RepairEvent {
	return &RepairEvent{
		Type:       RepairEventUpvoted,
		RequestID:  id,
		OccurredAt: at.UTC(),
	}
}

// Validate проверяет согласованность события
func (e *RepairEvent) Validate() error {
	if NormalizeID(e.RequestID) == "" {
		return fmt.Errorf("event has empty request_id")
	}
	switch e.Type {
	case RepairEventCreated:
		if e.Request == nil {
			return fmt.Errorf("created event %s has no request payload", e.RequestID)
		}
		if NormalizeID(e.Request.ID) != NormalizeID(e.RequestID) {
			return fmt.Errorf("created event id mismatch: %s != %s", e.Request.ID, e.RequestID)
		}
	case RepairEventUpvoted:
	default:
		return fmt.Errorf("unknown event type %q", e.Type)
	}
	return nil
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
