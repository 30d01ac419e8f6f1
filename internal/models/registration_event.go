package models

import "time"

const (
	ActionRegistered = "registered"
	ActionDuplicate  = "duplicate"
	ActionFailed     = "failed"
)

// Evento publicado a cada tentativa de cadastro (fila -> ws).
type RegistrationEvent struct {
	Action      string    `json:"action"`
	CompanyID   string    `json:"companyId,omitempty"`
	CompanyCode string    `json:"companyCode"`
	CompanyName string    `json:"companyName"`
	RequestID   string    `json:"requestId"`
	Reason      string    `json:"reason,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
