package mq

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange — тип для имени обменника.
type Exchange string

// Queue — тип для имени очереди.
type Queue string

// RoutingKey — тип для ключа маршрутизации.
type RoutingKey string

// Топология GrossNet: одна рабочая очередь batch-заданий и DLQ.
const (
	ExchangeBatches Exchange = "grossnet.batches"
	ExchangeDLQ     Exchange = "grossnet.dlq"

	QueueBatchesSubmitted Queue = "batches.submitted"
	QueueDLQBatches       Queue = "dlq.batches"

	RoutingKeySubmitted  RoutingKey = "submitted"
	RoutingKeyDLQBatches RoutingKey = "batches"
)

// SetupTopology создаёт exchanges, queues и bindings.
func SetupTopology(conn *Connection) error {
	return conn.WithChannel(func(ch *amqp.Channel) error {
		for _, ex := range []Exchange{ExchangeBatches, ExchangeDLQ} {
			err := ch.ExchangeDeclare(
				string(ex), // name
				"direct",   // type
				true,       // durable
				false,      // auto-deleted
				false,      // internal
				false,      // no-wait
				nil,        // arguments
			)
			if err != nil {
				return fmt.Errorf("declare exchange %s: %w", ex, err)
			}
		}

		// Рабочая очередь с DLQ: задание, которое не удалось обработать
		// после requeue, уходит в dlq.batches для ручного разбора
		dlqArgs := amqp.Table{
			"x-dead-letter-exchange":    string(ExchangeDLQ),
			"x-dead-letter-routing-key": string(RoutingKeyDLQBatches),
		}

		queues := []struct {
			name Queue
			args amqp.Table
		}{
			{QueueBatchesSubmitted, dlqArgs},
			{QueueDLQBatches, nil},
		}

		for _, q := range queues {
			_, err := ch.QueueDeclare(
				string(q.name), // name
				true,           // durable
				false,          // delete when unused
				false,          // exclusive
				false,          // no-wait
				q.args,         // arguments
			)
			if err != nil {
				return fmt.Errorf("declare queue %s: %w", q.name, err)
			}
		}

		bindings := []struct {
			queue      Queue
			routingKey RoutingKey
			exchange   Exchange
		}{
			{QueueBatchesSubmitted, RoutingKeySubmitted, ExchangeBatches},
			{QueueDLQBatches, RoutingKeyDLQBatches, ExchangeDLQ},
		}

		for _, b := range bindings {
			err := ch.QueueBind(
				string(b.queue),      // queue name
				string(b.routingKey), // routing key
				string(b.exchange),   // exchange
				false,                // no-wait
				nil,                  // arguments
			)
			if err != nil {
				return fmt.Errorf("bind queue %s to %s: %w", b.queue, b.exchange, err)
			}
		}

		return nil
	})
}
