//go:build integration
// +build integration

package broker

/*
	Para rodar: go test -tags=integration -v ./internal/broker -count=1

	obs: Rodar todos os de integração: go test -tags=integration -v ./... -count=1
*/

import (
	"context"
	"fmt"
	"testing"
	"time"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Werneck0live/company-registration/internal/models"
)

func startRabbit(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	req := tc.ContainerRequest{
		Image:        "rabbitmq:3.13",
		ExposedPorts: []string{"5672/tcp"},
		WaitingFor:   wait.ForListeningPort("5672/tcp").WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Fatalf("start rabbit: %v", err)
	}
	t.Cleanup(func() { _ = c.Terminate(ctx) })

	host, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := c.MappedPort(ctx, "5672/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	return fmt.Sprintf("amqp://guest:guest@%s:%s/", host, port.Port())
}

// Sobe RabbitMQ real, publica um evento com o Publisher e lê pelo Consumer
func TestRabbitMQ_PublishAndConsumeEvent(t *testing.T) {
	t.Parallel()
	uri := startRabbit(t)
	queue := "company_registrations_test"

	pub, err := NewPublisher(uri, queue)
	if err != nil {
		t.Fatalf("new publisher: %v", err)
	}
	t.Cleanup(func() { _ = pub.Close() })

	cons, err := NewConsumer(uri, queue, "test-consumer", 10)
	if err != nil {
		t.Fatalf("new consumer: %v", err)
	}
	t.Cleanup(func() { _ = cons.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	got := make(chan models.RegistrationEvent, 1)
	go func() {
		_ = cons.Run(ctx, func(body []byte) {
			ev, err := DecodeEvent(body)
			if err != nil {
				t.Errorf("decode: %v", err)
				return
			}
			got <- ev
		})
	}()

	ev := models.RegistrationEvent{
		Action:      models.ActionRegistered,
		CompanyID:   "c-1",
		CompanyCode: "ABC-123",
		CompanyName: "山田商事",
		RequestID:   "req-1",
	}
	if err := pub.PublishEvent(ctx, ev); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case m := <-got:
		if m.CompanyCode != "ABC-123" || m.Action != models.ActionRegistered || m.CompanyName != "山田商事" {
			t.Fatalf("event mismatch: %#v", m)
		}
		if m.Timestamp.IsZero() {
			t.Fatal("timestamp not set")
		}
	case <-ctx.Done():
		t.Fatal("timeout esperando mensagem")
	}
}
