package ws

import (
	"log/slog"
	"testing"
	"time"
)

func recv(t *testing.T, c *Client, want string) {
	t.Helper()
	select {
	case got, ok := <-c.Send:
		if !ok {
			t.Fatalf("%s: channel closed", c.ID)
		}
		if string(got) != want {
			t.Fatalf("%s got %q; want %q", c.ID, got, want)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timeout waiting %s", c.ID)
	}
}

func silent(t *testing.T, c *Client) {
	t.Helper()
	select {
	case got := <-c.Send:
		t.Fatalf("%s unexpected message %q", c.ID, got)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHub_PublishWithoutTopic(t *testing.T) {
	h := NewHub(slog.Default())
	go h.Run()
	defer h.Stop()

	c1 := &Client{Send: make(chan []byte, 1)}
	c2 := &Client{Send: make(chan []byte, 1)}
	h.Register(c1)
	h.Register(c2)

	h.Publish("", []byte("hello"))

	recv(t, c1, "hello")
	recv(t, c2, "hello")
}

func TestHub_PublishFiltersByTopic(t *testing.T) {
	h := NewHub(slog.Default())
	go h.Run()
	defer h.Stop()

	all := &Client{ID: "all", Send: make(chan []byte, 4)}
	abc := &Client{ID: "abc", Topic: "ABC-123", Send: make(chan []byte, 4)}
	xyz := &Client{ID: "xyz", Topic: "XYZ-9", Send: make(chan []byte, 4)}
	h.Register(all)
	h.Register(abc)
	h.Register(xyz)

	h.Publish("ABC-123", []byte("e1"))

	recv(t, all, "e1")
	recv(t, abc, "e1")
	silent(t, xyz)
}

func TestHub_SlowClientIsDropped(t *testing.T) {
	h := NewHub(slog.Default())
	go h.Run()
	defer h.Stop()

	slow := &Client{ID: "slow", Send: make(chan []byte)} // sem buffer: nunca aceita
	fast := &Client{ID: "fast", Send: make(chan []byte, 2)}
	h.Register(slow)
	h.Register(fast)

	h.Publish("", []byte("a"))
	recv(t, fast, "a")

	deadline := time.Now().Add(time.Second)
	for h.Count() != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("count = %d; want 1", h.Count())
		}
		time.Sleep(5 * time.Millisecond)
	}
	if _, ok := <-slow.Send; ok {
		t.Fatal("slow client channel should be closed")
	}

	h.Publish("", []byte("b"))
	recv(t, fast, "b")
}

func TestHub_SendToClientAndUnregister(t *testing.T) {
	h := NewHub(slog.Default())
	go h.Run()
	defer h.Stop()

	c := &Client{Send: make(chan []byte, 1)}
	h.Register(c)
	if c.ID == "" {
		t.Fatal("id not assigned")
	}

	h.SendToClient(c.ID, []byte("only-you"))
	recv(t, c, "only-you")

	h.Unregister(c)
	if _, ok := <-c.Send; ok {
		t.Fatal("channel should be closed after unregister")
	}
}

func TestHub_StopClosesClients(t *testing.T) {
	h := NewHub(slog.Default())
	go h.Run()

	c := &Client{Send: make(chan []byte, 1)}
	h.Register(c)
	h.Stop()

	if _, ok := <-c.Send; ok {
		t.Fatal("channel should be closed after stop")
	}
}

func TestHub_WelcomeOnlyToNewClient(t *testing.T) {
	h := NewHub(slog.Default())
	go h.Run()
	defer h.Stop()

	old := &Client{Send: make(chan []byte, 1)}
	h.Register(old)

	c := &Client{Topic: "ABC-123", Send: make(chan []byte, 1)}
	h.Register(c)
	h.Welcome(c)

	recv(t, c, `{"type":"connected","id":"`+c.ID+`","topic":"ABC-123"}`)
	silent(t, old)
}
