package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/streadway/amqp"
)

// ErrDiscard marks a job that must be acknowledged without retry: the message
// references state that no longer (or never did) exist, so redelivery cannot
// help.
var ErrDiscard = errors.New("discard job")

// AnalysisHandler processes an answer-analysis job.
type AnalysisHandler func(ctx context.Context, job AnalysisJob) error

// ExamHandler processes an exam-ingestion job.
type ExamHandler func(ctx context.Context, job ExamJob) error

// Consumer drains the background job queues. Deliveries are prefetched one at
// a time so answer updates are applied in submission order within a worker.
type Consumer struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	shutdown chan struct{}
	wg       sync.WaitGroup
}

func NewConsumer(amqpURL string) (*Consumer, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	if err := ch.Qos(1, 0, false); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	return &Consumer{
		conn:     conn,
		channel:  ch,
		shutdown: make(chan struct{}),
	}, nil
}

// Start declares the job queues and begins consuming. It returns immediately;
// processing runs until Close.
func (c *Consumer) Start(analysisHandler AnalysisHandler, examHandler ExamHandler) error {
	if err := c.consume(AnalysisQueue, func(body []byte) error {
		var job AnalysisJob
		if err := json.Unmarshal(body, &job); err != nil {
			return fmt.Errorf("%w: malformed analysis job: %v", ErrDiscard, err)
		}
		return analysisHandler(context.Background(), job)
	}); err != nil {
		return err
	}

	return c.consume(ExamQueue, func(body []byte) error {
		var job ExamJob
		if err := json.Unmarshal(body, &job); err != nil {
			return fmt.Errorf("%w: malformed exam job: %v", ErrDiscard, err)
		}
		return examHandler(context.Background(), job)
	})
}

func (c *Consumer) consume(queue string, handle func(body []byte) error) error {
	_, err := c.channel.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}

	deliveries, err := c.channel.Consume(
		queue,
		"",    // consumer tag
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to consume from %s: %w", queue, err)
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		log.Printf("Consuming jobs from %s", queue)
		for {
			select {
			case <-c.shutdown:
				return
			case delivery, ok := <-deliveries:
				if !ok {
					return
				}
				c.handleDelivery(queue, delivery, handle)
			}
		}
	}()
	return nil
}

func (c *Consumer) handleDelivery(queue string, delivery amqp.Delivery, handle func(body []byte) error) {
	err := handle(delivery.Body)
	if err == nil {
		_ = delivery.Ack(false)
		return
	}

	if errors.Is(err, ErrDiscard) {
		// Data-integrity faults are not retried.
		log.Printf("Discarding job %s from %s: %v", delivery.MessageId, queue, err)
		_ = delivery.Ack(false)
		return
	}

	// Recoverable failure (usually a store write): requeue so the broker
	// redelivers.
	log.Printf("Job %s from %s failed, requeueing: %v", delivery.MessageId, queue, err)
	_ = delivery.Nack(false, true)
}

func (c *Consumer) Close() {
	close(c.shutdown)
	if c.channel != nil {
		_ = c.channel.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
	c.wg.Wait()
}
