package ws

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	json "github.com/goccy/go-json"
)

// Client recebe eventos do hub. Topic vazio recebe tudo; caso contrário só
// eventos do companyCode informado.
type Client struct {
	ID    string
	Topic string
	Send  chan []byte
}

type message struct {
	topic string
	body  []byte
}

type unicastMsg struct {
	id  string
	msg []byte
}

type Hub struct {
	mu       sync.RWMutex
	clients  map[string]*Client // id -> client
	register chan *Client
	unreg    chan *Client

	publish chan message    // envio por tópico
	unicast chan unicastMsg // envio para 1 cliente

	log     *slog.Logger
	stop    chan struct{}
	stopped chan struct{}

	nextID atomic.Uint64
}

func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		clients:  make(map[string]*Client),
		register: make(chan *Client),
		unreg:    make(chan *Client),
		publish:  make(chan message, 1024),
		unicast:  make(chan unicastMsg, 1024),
		log:      log.With("cmp", "ws.hub"),
		stop:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

func (h *Hub) newID() string {
	id := h.nextID.Add(1)
	return fmt.Sprintf("c%d", id)
}

func (h *Hub) Run() {
	h.log.Info("hub_run_start")
	defer close(h.stopped)

	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c.ID] = c
			total := len(h.clients)
			h.mu.Unlock()
			h.log.Info("client_registered", "id", c.ID, "topic", c.Topic, "total", total)

		case c := <-h.unreg:
			if c == nil || c.ID == "" {
				continue
			}
			h.mu.Lock()
			h.dropLocked(c.ID)
			total := len(h.clients)
			h.mu.Unlock()
			h.log.Info("client_unregistered", "id", c.ID, "total", total)

		case m := <-h.publish:
			var slow []string
			h.mu.RLock()
			for id, c := range h.clients {
				if c.Topic != "" && c.Topic != m.topic {
					continue
				}
				select {
				case c.Send <- m.body:
				default:
					slow = append(slow, id)
				}
			}
			h.mu.RUnlock()

			// cliente lento -> remove para não travar o hub
			if len(slow) > 0 {
				h.mu.Lock()
				for _, id := range slow {
					h.dropLocked(id)
				}
				h.mu.Unlock()
				h.log.Warn("publish_drop_slow", "ids", slow)
			}

		case u := <-h.unicast:
			h.mu.RLock()
			c := h.clients[u.id]
			h.mu.RUnlock()
			if c == nil {
				h.log.Warn("send_one_miss", "id", u.id)
				continue
			}
			select {
			case c.Send <- u.msg:
			default:
				h.mu.Lock()
				h.dropLocked(u.id)
				h.mu.Unlock()
				h.log.Warn("send_one_drop_slow", "id", u.id)
			}

		case <-h.stop:
			h.mu.Lock()
			for id := range h.clients {
				h.dropLocked(id)
			}
			h.mu.Unlock()
			h.log.Info("hub_run_stop")
			return
		}
	}
}

func (h *Hub) dropLocked(id string) {
	if c, ok := h.clients[id]; ok {
		delete(h.clients, id)
		close(c.Send)
	}
}

func (h *Hub) Stop() {
	close(h.stop)
	<-h.stopped
}

// Count retorna quantos clientes estão conectados.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Register atribui o ID antes de entregar ao hub, então c.ID já é válido no retorno.
func (h *Hub) Register(c *Client) {
	if c.ID == "" {
		c.ID = h.newID()
	}
	h.register <- c
}

func (h *Hub) Unregister(c *Client) { h.unreg <- c }

// Publish entrega body aos clientes sem filtro e aos inscritos em topic.
func (h *Hub) Publish(topic string, body []byte) { h.publish <- message{topic: topic, body: body} }

func (h *Hub) SendToClient(id string, b []byte) { h.unicast <- unicastMsg{id: id, msg: b} }

// Primeira mensagem de cada conexão.
type Ack struct {
	Type  string `json:"type"` // sempre "connected"
	ID    string `json:"id"`
	Topic string `json:"topic,omitempty"`
}

// Welcome confirma o registro só para o próprio cliente. Chamar depois de Register.
func (h *Hub) Welcome(c *Client) {
	b, err := json.Marshal(Ack{Type: "connected", ID: c.ID, Topic: c.Topic})
	if err != nil {
		h.log.Error("welcome_marshal", "id", c.ID, "err", err)
		return
	}
	h.SendToClient(c.ID, b)
}
