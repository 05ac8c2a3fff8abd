package events

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var ErrPublisherClosed = errors.New("event publisher closed")

// KafkaPublisher queues messages on an inbox and writes them from one goroutine started by Start.
type KafkaPublisher struct {
	w       *kafka.Writer
	inbox   chan kafka.Message
	done    chan struct{}
	closeCh chan struct{}
	once    sync.Once
	logger  *zap.Logger
}

func NewKafkaPublisher(brokers []string, topic string, buf int, logger *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
		inbox:   make(chan kafka.Message, buf),
		done:    make(chan struct{}),
		closeCh: make(chan struct{}),
		logger:  logger,
	}
}

func (p *KafkaPublisher) Start(ctx context.Context) {
	go func() {
		defer close(p.closeCh)
		for {
			select {
			case <-ctx.Done():
				p.Close()
				p.drain()
				return
			case <-p.done:
				p.drain()
				return
			case m := <-p.inbox:
				p.write(m)
			}
		}
	}()
}

// drain flushes what is already queued, then closes the writer.
func (p *KafkaPublisher) drain() {
	for {
		select {
		case m := <-p.inbox:
			p.write(m)
		default:
			_ = p.w.Close()
			return
		}
	}
}

func (p *KafkaPublisher) write(m kafka.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := p.w.WriteMessages(ctx, m); err != nil {
		p.logger.Error("❌ kafka write failed", zap.String("key", string(m.Key)), zap.Error(err))
	}
}

// Publish queues the event. It returns ErrPublisherClosed once Close has been
// called, including while it waits on a full inbox.
func (p *KafkaPublisher) Publish(ctx context.Context, key, eventType string, payload any) error {
	m, err := newMessage(key, eventType, payload, time.Now())
	if err != nil {
		return err
	}

	select {
	case <-p.done:
		return ErrPublisherClosed
	default:
	}
	select {
	case p.inbox <- m:
		return nil
	case <-p.done:
		return ErrPublisherClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting messages; queued ones are still flushed.
func (p *KafkaPublisher) Close() {
	p.once.Do(func() { close(p.done) })
}

func (p *KafkaPublisher) WaitClosed() { <-p.closeCh }

func newMessage(key, eventType string, payload any, at time.Time) (kafka.Message, error) {
	env, err := NewEnvelope(eventType, payload, at)
	if err != nil {
		return kafka.Message{}, err
	}
	value, err := json.Marshal(env)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  at,
		Headers: []kafka.Header{
			{Key: "x-event-type", Value: []byte(eventType)},
			{Key: "x-event-version", Value: []byte(strconv.Itoa(envelopeVersion))},
		},
	}, nil
}
