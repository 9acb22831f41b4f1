package consumer

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditHandler records every consumed event in activity_event_log. A record
// seen twice at the same topic, partition and offset is stored once.
type AuditHandler struct {
	pool *pgxpool.Pool
}

// NewAuditHandler constructs a handler backed by the provided pool.
func NewAuditHandler(pool *pgxpool.Pool) *AuditHandler {
	return &AuditHandler{pool: pool}
}

// Handle stores the event.
func (h *AuditHandler) Handle(ctx context.Context, msg Message) error {
	var eventID *string
	if msg.EventID != "" {
		eventID = &msg.EventID
	}

	tag, err := h.pool.Exec(ctx,
		`INSERT INTO activity_event_log (event_uuid, event_type, topic, kafka_partition, kafka_offset, partition_key, payload, received_at)
         VALUES ($1,$2,$3,$4,$5,$6,$7,COALESCE($8, NOW()))
         ON CONFLICT (topic, kafka_partition, kafka_offset) DO NOTHING`,
		eventID,
		msg.EventType,
		msg.Topic,
		msg.Partition,
		msg.Offset,
		msg.Key,
		msg.Payload,
		timestampOrNil(msg),
	)
	if err != nil {
		return err
	}
	recordAuditRow(tag.RowsAffected() == 1)
	return nil
}

func timestampOrNil(msg Message) any {
	if msg.Timestamp.IsZero() {
		return nil
	}
	return msg.Timestamp
}
