package broker

import (
	"testing"
	"time"

	"github.com/Werneck0live/company-registration/internal/models"
)

func TestEventHeaders(t *testing.T) {
	ts := time.Date(2025, 4, 1, 9, 30, 0, 0, time.FixedZone("JST", 9*3600))
	h := EventHeaders(models.RegistrationEvent{
		Action:      models.ActionRegistered,
		CompanyCode: "ABC-123",
		RequestID:   "req-1",
		Timestamp:   ts,
	})

	want := map[string]string{
		"action":       "registered",
		"company_code": "ABC-123",
		"request_id":   "req-1",
		"timestamp":    "2025-04-01T00:30:00Z",
	}
	for k, v := range want {
		if h[k] != v {
			t.Fatalf("header %s = %v; want %q", k, h[k], v)
		}
	}
}

func TestDecodeEvent(t *testing.T) {
	ev, err := DecodeEvent([]byte(`{"action":"duplicate","companyCode":"X-1","companyName":"山田商事","requestId":"r","timestamp":"2025-04-01T00:00:00Z"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ev.Action != models.ActionDuplicate || ev.CompanyCode != "X-1" || ev.CompanyName != "山田商事" {
		t.Fatalf("unexpected event: %#v", ev)
	}

	if _, err := DecodeEvent([]byte("not json")); err == nil {
		t.Fatal("want error for invalid body")
	}
}
