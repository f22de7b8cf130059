package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/domain"
)

type Publisher interface {
	Publish(ctx context.Context, msg domain.EventMessage) error
}

// Channel 是 *amqp.Channel 中用到的部分
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPPublisher 把事件以 JSON 形式发送到指定队列
type AMQPPublisher struct {
	channel Channel
	queue   string
	timeout time.Duration
}

func NewAMQPPublisher(channel Channel, queue string, timeout time.Duration) *AMQPPublisher {
	return &AMQPPublisher{
		channel: channel,
		queue:   queue,
		timeout: timeout,
	}
}

func (p *AMQPPublisher) Publish(ctx context.Context, msg domain.EventMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	return p.channel.PublishWithContext(
		ctx,
		"",
		p.queue,
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Timestamp:   time.Now(),
			Type:        msg.Type,
			Body:        body,
		},
	)
}

// LogPublisher 只记录日志，用于没有配置消息队列的环境
type LogPublisher struct {
	Logger *slog.Logger
}

func (p LogPublisher) Publish(ctx context.Context, msg domain.EventMessage) error {
	p.Logger.Info("事件", "type", msg.Type, "data", msg.Data)
	return nil
}

// Open 连接 rabbitmq 并声明队列，dsn 为空时退回到 LogPublisher。
// 返回的 close 函数负责关闭通道和连接。
func Open(dsn, queue string, timeout time.Duration, logger *slog.Logger) (Publisher, func(), error) {
	if dsn == "" {
		logger.Warn("未配置 rabbitmq，事件只写入日志")
		return LogPublisher{Logger: logger}, func() {}, nil
	}

	conn, err := amqp.Dial(dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("无法连接到 rabbitmq: %w", err)
	}

	// 建立通道
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("无法建立通道: %w", err)
	}

	// 声明队列
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, fmt.Errorf("无法声明队列: %w", err)
	}

	closeFn := func() {
		ch.Close()
		conn.Close()
	}
	return NewAMQPPublisher(ch, queue, timeout), closeFn, nil
}
