// Package notify publishes run-completed events so downstream consumers
// (alerting, dashboards) can react without polling the store.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"sitewatch-orchestrator/internal/run"
)

type runCompletedEvent struct {
	RunID          string    `json:"run_id"`
	Status         string    `json:"status"`
	ExitCode       int       `json:"exit_code"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	ErrorLineCount int       `json:"error_line_count"`
	SiteCount      int       `json:"site_count"`
	Clean          bool      `json:"clean"`
}

type EventSink struct {
	exchange   string
	routingKey string
	logger     *zap.SugaredLogger

	publish func(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// NewEventSink wraps an AMQP channel; a nil channel yields a disabled sink
// that accepts and drops events.
func NewEventSink(ch *amqp.Channel, exchange, routingKey string, logger *zap.SugaredLogger) *EventSink {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	var publishFn func(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	if ch != nil {
		publishFn = ch.PublishWithContext
	}
	return &EventSink{
		exchange:   exchange,
		routingKey: routingKey,
		logger:     logger,
		publish:    publishFn,
	}
}

func (s *EventSink) Name() string { return "amqp-events" }

func (s *EventSink) Publish(ctx context.Context, rec run.Record) error {
	if s.publish == nil {
		return nil
	}

	body, err := json.Marshal(runCompletedEvent{
		RunID:          rec.ID,
		Status:         string(rec.Status),
		ExitCode:       rec.ExitCode,
		StartTime:      rec.StartTime,
		EndTime:        rec.EndTime,
		ErrorLineCount: rec.ErrorLineCount,
		SiteCount:      rec.SiteCount,
		Clean:          rec.Clean,
	})
	if err != nil {
		return fmt.Errorf("marshal run event: %w", err)
	}

	err = s.publish(ctx, s.exchange, s.routingKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		MessageId:   rec.ID,
		Timestamp:   rec.EndTime,
		Body:        body,
	})
	if err != nil {
		return fmt.Errorf("publish run event: %w", err)
	}

	s.logger.Infow("run_event_published", "run_id", rec.ID, "routing_key", s.routingKey)
	return nil
}
