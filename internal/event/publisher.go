package event

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
)

const (
	AnalysisQueue = "answer.analysis"
	ExamQueue     = "exam.process"
)

// AnalysisJob asks the worker to classify an answer and update the student's
// proficiency. Only the answer id travels on the wire; the worker re-reads
// everything else from the store so redeliveries see current state.
type AnalysisJob struct {
	AnswerID string `json:"answer_id"`
}

// ExamJob asks the worker to extract, structure and index an uploaded exam.
type ExamJob struct {
	FilePath string `json:"file_path"`
	Contest  string `json:"contest"`
	Year     int    `json:"year"`
}

// Publisher emits domain events on a topic exchange and enqueues background
// jobs on durable queues.
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

func NewPublisher(amqpURL, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	err = ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	for _, queue := range []string{AnalysisQueue, ExamQueue} {
		_, err = ch.QueueDeclare(
			queue,
			true,  // durable
			false, // delete when unused
			false, // exclusive
			false, // no-wait
			nil,
		)
		if err != nil {
			ch.Close()
			conn.Close()
			return nil, err
		}
	}

	return &Publisher{conn: conn, channel: ch, exchange: exchange}, nil
}

// Publish emits a domain event using the event type as the routing key.
func (p *Publisher) Publish(eventType string, payload interface{}) error {
	event := map[string]interface{}{
		"type":      eventType,
		"payload":   payload,
		"timestamp": time.Now().UTC(),
	}
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	log.Printf("[EVENT] %s", eventType)

	return p.channel.Publish(
		p.exchange,
		eventType, // routing key
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

// EnqueueAnalysis schedules the proficiency update for a stored answer and
// returns the job id.
func (p *Publisher) EnqueueAnalysis(answerID string) (string, error) {
	return p.enqueue(AnalysisQueue, AnalysisJob{AnswerID: answerID})
}

// EnqueueExam schedules the processing of an uploaded exam PDF and returns
// the job id.
func (p *Publisher) EnqueueExam(filePath, contest string, year int) (string, error) {
	return p.enqueue(ExamQueue, ExamJob{FilePath: filePath, Contest: contest, Year: year})
}

func (p *Publisher) enqueue(queue string, job interface{}) (string, error) {
	body, err := json.Marshal(job)
	if err != nil {
		return "", err
	}

	jobID := uuid.NewString()
	err = p.channel.Publish(
		"",    // default exchange
		queue, // routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    jobID,
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		return "", fmt.Errorf("enqueue on %s: %w", queue, err)
	}
	return jobID, nil
}

func (p *Publisher) Close() {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
