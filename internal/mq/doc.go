// Package mq — обмен сообщениями через RabbitMQ.
//
// Структура:
//   - connection.go — соединение с автоматическим reconnect
//   - topology.go   — exchanges, queues, bindings
//   - publisher.go  — публикация событий batch.submitted
//   - consumer.go   — потребление с ручным ack/nack и DLQ
//
// RabbitMQ опционален: API публикует batch.submitted при наличии
// соединения, а worker в любом случае имеет polling fallback по БД.
// Если RABBITMQ_URL не задан и хранилище in-memory, задания
// обрабатываются in-process.
package mq
