// Package submit envia o payload mapeado para a operação de criação de empresa.
// Cada chamada é feita uma vez só; retry fica com o chamador.
package submit

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDuplicateCompanyCode = errors.New("company code already exists")
	ErrDuplicateEmail       = errors.New("owner login email already registered")
)

// RemoteError é qualquer falha do serviço de criação que não seja duplicidade conhecida.
type RemoteError struct {
	Code    string
	Message string
}

func (e *RemoteError) Error() string {
	if e.Code == "" {
		return "create company: " + e.Message
	}
	return fmt.Sprintf("create company: %s: %s", e.Code, e.Message)
}

type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// classify troca o erro remoto pelo sentinel quando é duplicidade conhecida.
// O backend reporta duplicidade pelo código ou só pela mensagem.
func classify(code, message string) error {
	switch {
	case code == "duplicate_code" || strings.Contains(message, "Company code already exists"):
		return fmt.Errorf("%w: %s", ErrDuplicateCompanyCode, message)
	case code == "duplicate_email" || strings.Contains(message, "Email already registered"):
		return fmt.Errorf("%w: %s", ErrDuplicateEmail, message)
	default:
		return &RemoteError{Code: code, Message: message}
	}
}

type requestIDKey struct{}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
