//go:build ignore
// +build ignore

// Публикует тестовые события заявок в журнал, чтобы проверить cmd/worker локально:
//
//	go run scripts/test_publish.go -redis localhost:6379 -upvotes 2
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type repairRequest struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Severity    string    `json:"severity"`
	Lat         float64   `json:"lat"`
	Lon         float64   `json:"lon"`
	Timestamp   time.Time `json:"timestamp"`
	Rating      int       `json:"rating"`
}

type repairEvent struct {
	Type       string         `json:"type"`
	RequestID  string         `json:"request_id"`
	Request    *repairRequest `json:"request,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

func publish(ctx context.Context, client *redis.Client, stream string, event repairEvent) string {
	data, err := json.Marshal(event)
	if err != nil {
		log.Fatalf("Failed to marshal event: %v", err)
	}

	id, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{"data": string(data)},
	}).Result()
	if err != nil {
		log.Fatalf("Failed to publish event: %v", err)
	}
	return id
}

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address for streams")
	stream := flag.String("stream", "stream:repair:events", "Stream name")
	upvotes := flag.Int("upvotes", 1, "Upvoted events to publish after Created")
	flag.Parse()

	client := redis.NewClient(&redis.Options{Addr: *redisAddr})
	defer client.Close()

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	now := time.Now().UTC()
	req := &repairRequest{
		ID:          uuid.NewString(),
		Name:        "test-publisher",
		Description: "Pothole near Fountain Square",
		Severity:    "Medium",
		Lat:         39.1015,
		Lon:         -84.5125,
		Timestamp:   now,
	}

	msgID := publish(ctx, client, *stream, repairEvent{Type: "Created", RequestID: req.ID, Request: req, OccurredAt: now})
	fmt.Printf("Created %s -> %s\n", req.ID, msgID)

	for i := 0; i < *upvotes; i++ {
		msgID = publish(ctx, client, *stream, repairEvent{Type: "Upvoted", RequestID: req.ID, OccurredAt: time.Now().UTC()})
		fmt.Printf("Upvoted %s -> %s\n", req.ID, msgID)
	}
}
