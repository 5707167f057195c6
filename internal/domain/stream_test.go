package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepairEvent_Validate(t *testing.T) {
	id := uuid.NewString()
	now := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	req := &RepairRequest{ID: id, Name: "Ann", Severity: SeverityHigh, Lat: 39.1, Lon: -84.5, Timestamp: now}

	tests := []struct {
		name    string
		event   *RepairEvent
		wantErr bool
	}{
		{
			name:  "created event with payload",
			event: NewCreatedEvent(req, now),
		},
		{
			name:  "upvoted event",
			event: NewUpvotedEvent(id, now),
		},
		{
			name:    "empty request id",
			event:   &RepairEvent{Type: RepairEventUpvoted},
			wantErr: true,
		},
		{
			name:    "created without payload",
			event:   &RepairEvent{Type: RepairEventCreated, RequestID: id},
			wantErr: true,
		},
		{
			name:    "created with mismatching payload id",
			event:   &RepairEvent{Type: RepairEventCreated, RequestID: "other", Request: req},
			wantErr: true,
		},
		{
			name:    "unknown type",
			event:   &RepairEvent{Type: "Deleted", RequestID: id},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.event.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewCreatedEvent_CopiesRequest(t *testing.T) {
	req := &RepairRequest{ID: "r-1", Rating: 0}
	event := NewCreatedEvent(req, time.Now())

	req.Rating = 5
	assert.Equal(t, 0, event.Request.Rating)
}

func TestRepairEvent_JSONShape(t *testing.T) {
	event := NewUpvotedEvent("r-1", time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "Upvoted", raw["type"])
	assert.Equal(t, "r-1", raw["request_id"])
	assert.NotContains(t, raw, "request")
}
