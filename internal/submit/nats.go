package submit

import (
	"context"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"

	"github.com/Werneck0live/company-registration/internal/models"
)

// NATSClient envia o payload como request no subject e espera uma resposta.
type NATSClient struct {
	conn    *nats.Conn
	subject string
	timeout time.Duration
	owned   bool
}

func NewNATSClient(url, subject string, timeout time.Duration) (*NATSClient, error) {
	conn, err := nats.Connect(url, nats.Name("company-registration-api"))
	if err != nil {
		return nil, errors.Wrapf(err, "connect nats %s", url)
	}
	c := NewNATSClientConn(conn, subject, timeout)
	c.owned = true
	return c, nil
}

// NewNATSClientConn usa uma conexão existente; fechar continua sendo do chamador.
func NewNATSClientConn(conn *nats.Conn, subject string, timeout time.Duration) *NATSClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &NATSClient{conn: conn, subject: subject, timeout: timeout}
}

type natsReply struct {
	ID          string `json:"id"`
	CompanyCode string `json:"companyCode"`
	Error       *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *NATSClient) CreateCompany(ctx context.Context, p *models.APIPayload) (*models.CreatedCompany, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, errors.Wrap(err, "encode createCompany payload")
	}

	msg := nats.NewMsg(c.subject)
	msg.Data = data
	id := RequestID(ctx)
	if id == "" {
		id = uuid.NewString()
	}
	msg.Header.Set("X-Request-ID", id)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	reply, err := c.conn.RequestMsgWithContext(ctx, msg)
	if err != nil {
		return nil, errors.Wrapf(err, "nats request %s", c.subject)
	}

	var out natsReply
	if err := json.Unmarshal(reply.Data, &out); err != nil {
		return nil, errors.Wrap(err, "decode createCompany reply")
	}
	if out.Error != nil {
		return nil, classify(out.Error.Code, out.Error.Message)
	}
	if out.ID == "" {
		return nil, &RemoteError{Message: "reply without id"}
	}
	return &models.CreatedCompany{ID: out.ID, CompanyCode: out.CompanyCode}, nil
}

func (c *NATSClient) Close() error {
	if c.owned && c.conn != nil {
		return c.conn.Drain()
	}
	return nil
}
