package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/domain"
)

type fakeChannel struct {
	exchange    string
	key         string
	mandatory   bool
	publishing  amqp.Publishing
	hasDeadline bool
	err         error
}

func (c *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	c.exchange = exchange
	c.key = key
	c.mandatory = mandatory
	c.publishing = msg
	_, c.hasDeadline = ctx.Deadline()
	return c.err
}

func TestAMQPPublisher(t *testing.T) {
	ch := &fakeChannel{}
	p := NewAMQPPublisher(ch, "optimization_events", time.Second)

	err := p.Publish(context.Background(), domain.EventMessage{
		Type: domain.EventOptimizationCompleted,
		Data: domain.OptimizationCompletedData{LedgerID: "abc", Date: "2024-03-01", Changed: 3},
	})
	require.NoError(t, err)

	assert.Equal(t, "", ch.exchange)
	assert.Equal(t, "optimization_events", ch.key)
	assert.True(t, ch.mandatory)
	assert.True(t, ch.hasDeadline)
	assert.Equal(t, "application/json", ch.publishing.ContentType)
	assert.Equal(t, domain.EventOptimizationCompleted, ch.publishing.Type)

	var body map[string]any
	require.NoError(t, json.Unmarshal(ch.publishing.Body, &body))
	assert.Equal(t, "optimization_completed", body["type"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "abc", data["ledgerId"])
	assert.Equal(t, float64(3), data["changed"])
}

func TestAMQPPublisherError(t *testing.T) {
	ch := &fakeChannel{err: amqp.ErrClosed}
	p := NewAMQPPublisher(ch, "optimization_events", time.Second)

	err := p.Publish(context.Background(), domain.EventMessage{Type: domain.EventOptimizationFailed})
	assert.True(t, errors.Is(err, amqp.ErrClosed))
}

func TestOpenWithoutDSNFallsBackToLog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	p, closeFn, err := Open("", "optimization_events", time.Second, logger)
	require.NoError(t, err)
	defer closeFn()

	require.IsType(t, LogPublisher{}, p)
	require.NoError(t, p.Publish(context.Background(), domain.EventMessage{Type: domain.EventOptimizationFailed}))
	assert.Contains(t, buf.String(), "未配置 rabbitmq")
	assert.Contains(t, buf.String(), "type=optimization_failed")
}

func TestOpenRejectsInvalidDSN(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	p, closeFn, err := Open("http://localhost:5672", "optimization_events", time.Second, logger)
	assert.Error(t, err)
	assert.Nil(t, p)
	assert.Nil(t, closeFn)
}
