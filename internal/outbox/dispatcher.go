// Package outbox delivers events recorded in the outbox table to Kafka.
package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/segmentio/kafka-go"
)

// Kafka headers set on every delivered event.
const (
	HeaderEventType     = "event_type"
	HeaderEventID       = "event_id"
	HeaderAggregateType = "aggregate_type"
)

type messageWriter interface {
	WriteMessages(context.Context, string, ...kafka.Message) error
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger overrides the dispatcher logger.
func WithLogger(logger *log.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithMaxAttempts stops retrying a row after n failed deliveries. Zero retries forever.
func WithMaxAttempts(n int) Option {
	return func(d *Dispatcher) {
		d.maxAttempts = n
	}
}

// Dispatcher drains the outbox table and delivers events to Kafka.
type Dispatcher struct {
	pool             *pgxpool.Pool
	producer         messageWriter
	logger           *log.Logger
	pollInterval     time.Duration
	batchSize        int
	maxAttempts      int
	shutdownComplete chan struct{}
}

// NewDispatcher constructs a Dispatcher.
func NewDispatcher(pool *pgxpool.Pool, producer messageWriter, pollInterval time.Duration, batchSize int, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		pool:             pool,
		producer:         producer,
		logger:           log.New(log.Writer(), "[outbox] ", log.LstdFlags|log.Lmsgprefix),
		pollInterval:     pollInterval,
		batchSize:        batchSize,
		maxAttempts:      10,
		shutdownComplete: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start launches the polling loop. It should be called in a goroutine.
func (d *Dispatcher) Start(ctx context.Context) {
	ticker := time.NewTicker(d.pollInterval)
	defer func() {
		ticker.Stop()
		close(d.shutdownComplete)
	}()

	for {
		if err := d.processBatch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			d.logger.Printf("dispatcher error: %v", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Wait waits until dispatcher stops.
func (d *Dispatcher) Wait() {
	<-d.shutdownComplete
}

// processBatch claims unpublished rows, publishes them and records the outcome
// per row in the same transaction. Claimed rows stay locked until commit, so
// concurrent dispatchers skip them.
func (d *Dispatcher) processBatch(ctx context.Context) error {
	start := time.Now()

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	messages, err := d.claim(ctx, tx)
	if err != nil {
		return err
	}
	if len(messages) == 0 {
		return nil
	}
	defer func() { batchDuration.Observe(time.Since(start).Seconds()) }()

	failures := d.deliver(ctx, messages)

	published := make([]int64, 0, len(messages))
	for _, msg := range messages {
		cause, failed := failures[msg.EventID]
		if !failed {
			published = append(published, msg.EventID)
			continue
		}
		if _, err := tx.Exec(ctx,
			`UPDATE outbox SET attempts = attempts + 1, last_error = $2 WHERE event_id = $1`,
			msg.EventID, cause.Error()); err != nil {
			return err
		}
	}

	if len(published) > 0 {
		if _, err := tx.Exec(ctx, `UPDATE outbox SET published_at = NOW(), last_error = NULL WHERE event_id = ANY($1)`, published); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	deliveredCounter.Add(float64(len(published)))
	failedCounter.Add(float64(len(failures)))
	if len(failures) > 0 {
		d.logger.Printf("delivered %d of %d events; %d left for retry", len(published), len(messages), len(failures))
	}
	return nil
}

func (d *Dispatcher) claim(ctx context.Context, tx pgx.Tx) ([]Message, error) {
	query := `SELECT event_id, event_uuid::text, aggregate_type, aggregate_id, event_type, topic, partition_key, payload, attempts
        FROM outbox
        WHERE published_at IS NULL AND ($2 = 0 OR attempts < $2)
        ORDER BY event_id
        LIMIT $1
        FOR UPDATE SKIP LOCKED`

	rows, err := tx.Query(ctx, query, d.batchSize, d.maxAttempts)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Message, error) {
		var msg Message
		err := row.Scan(&msg.EventID, &msg.EventUUID, &msg.AggregateType, &msg.AggregateID, &msg.EventType, &msg.Topic, &msg.PartitionKey, &msg.Payload, &msg.Attempts)
		return msg, err
	})
}

// deliver writes messages topic by topic, preserving outbox order within a
// topic. A failed write fails every message of that topic and is reported per event id.
func (d *Dispatcher) deliver(ctx context.Context, messages []Message) map[int64]error {
	order := make([]string, 0)
	byTopic := make(map[string][]Message)
	for _, msg := range messages {
		if _, seen := byTopic[msg.Topic]; !seen {
			order = append(order, msg.Topic)
		}
		byTopic[msg.Topic] = append(byTopic[msg.Topic], msg)
	}

	failures := make(map[int64]error)
	for _, topic := range order {
		batch := byTopic[topic]
		records := make([]kafka.Message, 0, len(batch))
		for _, msg := range batch {
			records = append(records, msg.kafkaMessage())
		}
		if err := d.producer.WriteMessages(ctx, topic, records...); err != nil {
			err = fmt.Errorf("publish to %s: %w", topic, err)
			for _, msg := range batch {
				failures[msg.EventID] = err
			}
		}
	}
	return failures
}

// Message represents a row fetched from outbox.
type Message struct {
	EventID       int64
	EventUUID     string
	AggregateType string
	AggregateID   string
	EventType     string
	Topic         string
	PartitionKey  string
	Payload       json.RawMessage
	Attempts      int
}

func (m Message) kafkaMessage() kafka.Message {
	return kafka.Message{
		Key:   []byte(m.PartitionKey),
		Value: []byte(m.Payload),
		Time:  time.Now().UTC(),
		Headers: []kafka.Header{
			{Key: HeaderEventType, Value: []byte(m.EventType)},
			{Key: HeaderEventID, Value: []byte(m.EventUUID)},
			{Key: HeaderAggregateType, Value: []byte(m.AggregateType)},
		},
	}
}
