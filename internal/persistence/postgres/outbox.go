package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"example.com/topform/internal/events"
)

// insertOutbox records an event in the same transaction as the change it describes.
func insertOutbox(ctx context.Context, tx pgx.Tx, aggregateType string, aggregateID int64, eventType string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	topic := events.TopicFor(eventType)
	if topic == "" {
		return fmt.Errorf("unknown event type: %s", eventType)
	}

	const stmt = `INSERT INTO outbox (event_uuid, aggregate_type, aggregate_id, event_type, topic, partition_key, payload)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`

	_, err = tx.Exec(ctx, stmt,
		uuid.NewString(),
		aggregateType,
		strconv.FormatInt(aggregateID, 10),
		eventType,
		topic,
		partitionKeyFor(payload, aggregateID),
		body,
	)
	return err
}

// partitionKeyFor keys user-scoped events by user id so a user's events stay ordered.
func partitionKeyFor(payload any, aggregateID int64) string {
	switch p := payload.(type) {
	case events.WorkoutRecorded:
		return partitionKey(p.UserID)
	case events.DietRecorded:
		return partitionKey(p.UserID)
	case events.UserDeleted:
		return partitionKey(p.UserID)
	case events.MuscleGroupsRecorded:
		return partitionKey(p.UserID)
	default:
		return strconv.FormatInt(aggregateID, 10)
	}
}
