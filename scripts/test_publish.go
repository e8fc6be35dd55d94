//go:build ignore

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

type verificationRequestEvent struct {
	FarmID      uuid.UUID `json:"farm_id"`
	RequestedAt time.Time `json:"requested_at"`
}

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address for streams")
	farmIDArg := flag.String("farm", "", "Farm UUID to verify (required)")
	flag.Parse()

	farmID, err := uuid.Parse(*farmIDArg)
	if err != nil {
		log.Fatalf("Invalid farm UUID: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: *redisAddr,
	})
	defer client.Close()

	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	event := verificationRequestEvent{
		FarmID:      farmID,
		RequestedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Fatalf("Failed to marshal event: %v", err)
	}

	result, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: "stream:verification:request",
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()
	if err != nil {
		log.Fatalf("Failed to publish event: %v", err)
	}

	fmt.Printf("Event published\n")
	fmt.Printf("  Stream: stream:verification:request\n")
	fmt.Printf("  Message ID: %s\n", result)
	fmt.Printf("  Farm ID: %s\n", event.FarmID)

	fmt.Printf("\nWaiting for response in stream:verification:done...\n")

	timeout := time.After(120 * time.Second)
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-timeout:
			fmt.Println("Timeout waiting for response")
			return
		case <-ticker.C:
			results, err := client.XRead(ctx, &redis.XReadArgs{
				Streams: []string{"stream:verification:done", "0"},
				Count:   10,
				Block:   0,
			}).Result()
			if err != nil && err != redis.Nil {
				continue
			}

			for _, stream := range results {
				for _, msg := range stream.Messages {
					dataStr, ok := msg.Values["data"].(string)
					if !ok {
						continue
					}

					var response map[string]interface{}
					if err := json.Unmarshal([]byte(dataStr), &response); err != nil {
						continue
					}

					if id, ok := response["farm_id"].(string); ok && id == farmID.String() {
						fmt.Printf("\nResponse received\n")
						prettyJSON, _ := json.MarshalIndent(response, "", "  ")
						fmt.Printf("%s\n", prettyJSON)
						return
					}
				}
			}
		}
	}
}
