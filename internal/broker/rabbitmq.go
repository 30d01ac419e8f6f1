package broker

import (
	"context"
	"errors"
	"time"

	json "github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Werneck0live/company-registration/internal/models"
)

type Publisher struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

// open conecta e garante que a fila exista (durável).
func open(uri, queue string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}

	_, err = ch.QueueDeclare(
		queue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, err
	}
	return conn, ch, nil
}

func closeAll(ch *amqp.Channel, conn *amqp.Connection) error {
	var errCh, errConn error
	if ch != nil {
		errCh = ch.Close()
	}
	if conn != nil {
		errConn = conn.Close()
	}
	return errors.Join(errCh, errConn)
}

func NewPublisher(uri, queue string) (*Publisher, error) {
	conn, ch, err := open(uri, queue)
	if err != nil {
		return nil, err
	}
	return &Publisher{conn: conn, ch: ch, queue: queue}, nil
}

// Publish envia um corpo JSON persistente para a fila.
func (p *Publisher) Publish(ctx context.Context, body []byte, headers amqp.Table) error {
	if ctx == nil {
		c, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		ctx = c
	}
	return p.ch.PublishWithContext(
		ctx,
		"",      // exchange padrão
		p.queue, // routing key = nome da fila
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
			Headers:      headers,
		},
	)
}

func (p *Publisher) PublishEvent(ctx context.Context, ev models.RegistrationEvent) error {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.Publish(ctx, body, EventHeaders(ev))
}

// EventHeaders espelha os campos de roteamento do evento nos headers AMQP.
func EventHeaders(ev models.RegistrationEvent) amqp.Table {
	return amqp.Table{
		"action":       ev.Action,
		"company_code": ev.CompanyCode,
		"request_id":   ev.RequestID,
		"timestamp":    ev.Timestamp.UTC().Format(time.RFC3339),
	}
}

func (p *Publisher) Close() error {
	return closeAll(p.ch, p.conn)
}

type Consumer struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
	tag   string
}

// NewConsumer abre a fila com QoS = prefetch.
func NewConsumer(uri, queue, tag string, prefetch int) (*Consumer, error) {
	conn, ch, err := open(uri, queue)
	if err != nil {
		return nil, err
	}
	if prefetch > 0 {
		if err := ch.Qos(prefetch, 0, false); err != nil {
			_ = closeAll(ch, conn)
			return nil, err
		}
	}
	return &Consumer{conn: conn, ch: ch, queue: queue, tag: tag}, nil
}

// Run entrega o corpo de cada mensagem a handle até ctx ser cancelado ou o
// canal de deliveries fechar. Mensagens são confirmadas depois de handle.
func (c *Consumer) Run(ctx context.Context, handle func(body []byte)) error {
	deliveries, err := c.ch.Consume(
		c.queue,
		c.tag,
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return amqp.ErrClosed
			}
			handle(d.Body)
			if err := d.Ack(false); err != nil {
				return err
			}
		}
	}
}

func (c *Consumer) Close() error {
	return closeAll(c.ch, c.conn)
}

// DecodeEvent lê um RegistrationEvent publicado por PublishEvent.
func DecodeEvent(body []byte) (models.RegistrationEvent, error) {
	var ev models.RegistrationEvent
	err := json.Unmarshal(body, &ev)
	return ev, err
}
