// Package session mantém válido o access token da API de empresas.
//
// O Manager faz login com credenciais fixas, agenda o refresh pouco antes do
// vencimento e volta ao login quando o refresh é recusado. Todo o estado,
// inclusive o timer, fica no Manager.
package session

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

var ErrStopped = errors.New("session manager stopped")

type Config struct {
	BaseURL  string
	Username string
	Password string
	// Quanto antes do vencimento renovar. Padrão 30s.
	RefreshSkew time.Duration
	// Timeout da chamada de refresh agendada. Padrão 10s.
	RefreshTimeout time.Duration
	HTTPClient     *http.Client
	Logger         *slog.Logger
}

type tokenResponse struct {
	AccessToken      string `json:"accessToken"`
	RefreshToken     string `json:"refreshToken"`
	TokenType        string `json:"tokenType"`
	ExpiresIn        int64  `json:"expiresIn"`
	RefreshExpiresIn int64  `json:"refreshExpiresIn"`
}

type Manager struct {
	cfg Config
	log *slog.Logger
	now func() time.Time

	// serializa login/refresh para não disparar chamadas concorrentes
	flight sync.Mutex

	mu      sync.Mutex
	access  string
	refresh string
	expiry  time.Time
	timer   *time.Timer
	stopped bool
}

func New(cfg Config) *Manager {
	if cfg.RefreshSkew <= 0 {
		cfg.RefreshSkew = 30 * time.Second
	}
	if cfg.RefreshTimeout <= 0 {
		cfg.RefreshTimeout = 10 * time.Second
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Manager{cfg: cfg, log: cfg.Logger.With("cmp", "session"), now: time.Now}
}

// Initialize faz login se ainda não houver token válido. Pode ser chamado mais de uma vez.
func (m *Manager) Initialize(ctx context.Context) error {
	m.mu.Lock()
	if m.validLocked() {
		m.mu.Unlock()
		return nil
	}
	seen := m.access
	m.mu.Unlock()
	return m.renew(ctx, seen)
}

// Token devolve um access token válido, fazendo login ou refresh antes se preciso.
func (m *Manager) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return "", ErrStopped
	}
	if m.validLocked() {
		tok := m.access
		m.mu.Unlock()
		return tok, nil
	}
	seen := m.access
	m.mu.Unlock()

	if err := m.renew(ctx, seen); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.access, nil
}

func (m *Manager) Authenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.validLocked()
}

func (m *Manager) ExpiresAt() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.expiry
}

// Stop cancela o refresh agendado e descarta os tokens.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
	m.clearLocked()
}

func (m *Manager) validLocked() bool {
	return m.access != "" && m.now().Before(m.expiry)
}

func (m *Manager) clearLocked() {
	m.access, m.refresh, m.expiry = "", "", time.Time{}
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

// renew usa o refresh token quando existe; se o refresh falhar, limpa os
// tokens e faz login de novo. seen é o access token que o chamador viu: se
// outro já foi salvo desde então, a renovação já aconteceu.
func (m *Manager) renew(ctx context.Context, seen string) error {
	m.flight.Lock()
	defer m.flight.Unlock()

	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return ErrStopped
	}
	if m.access != seen && m.validLocked() {
		m.mu.Unlock()
		return nil
	}
	refresh := m.refresh
	m.mu.Unlock()

	if refresh != "" {
		tr, err := m.post(ctx, "/api/v1/auth/refresh", map[string]string{"refreshToken": refresh})
		if err == nil {
			m.log.Debug("token_refreshed")
			return m.save(tr)
		}
		m.log.Warn("token_refresh_failed", "err", err)
		m.mu.Lock()
		m.clearLocked()
		m.mu.Unlock()
	}

	tr, err := m.post(ctx, "/api/v1/auth/token", map[string]string{
		"username": m.cfg.Username,
		"password": m.cfg.Password,
	})
	if err != nil {
		return errors.Wrap(err, "login")
	}
	m.log.Info("token_login_ok")
	return m.save(tr)
}

func (m *Manager) save(tr *tokenResponse) error {
	if tr.AccessToken == "" {
		return errors.New("token response without accessToken")
	}
	ttl := time.Duration(tr.ExpiresIn) * time.Second
	if ttl <= 0 {
		exp, err := jwtExpiry(tr.AccessToken)
		if err != nil {
			return err
		}
		ttl = exp.Sub(m.now())
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopped {
		return ErrStopped
	}
	m.access, m.refresh = tr.AccessToken, tr.RefreshToken
	m.expiry = m.now().Add(ttl)
	m.scheduleLocked(tr.AccessToken, ttl)
	return nil
}

// minRefreshWait limita a frequência de refresh com tokens muito curtos.
const minRefreshWait = time.Second

// refreshDelay: ttl menos a folga; se o token vive menos que a folga, metade
// do ttl, nunca abaixo de minRefreshWait.
func refreshDelay(ttl, skew time.Duration) time.Duration {
	wait := ttl - skew
	if wait <= 0 {
		wait = ttl / 2
	}
	if wait < minRefreshWait {
		wait = minRefreshWait
	}
	return wait
}

func (m *Manager) scheduleLocked(token string, ttl time.Duration) {
	if m.timer != nil {
		m.timer.Stop()
	}
	m.timer = time.AfterFunc(refreshDelay(ttl, m.cfg.RefreshSkew), func() { m.onTimer(token) })
}

func (m *Manager) onTimer(token string) {
	ctx, cancel := context.WithTimeout(context.Background(), m.cfg.RefreshTimeout)
	defer cancel()
	if err := m.renew(ctx, token); err != nil && !errors.Is(err, ErrStopped) {
		m.log.Error("token_scheduled_renew_failed", "err", err)
	}
}

func (m *Manager) post(ctx context.Context, path string, body any) (*tokenResponse, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.BaseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrap(err, "build auth request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "POST %s", path)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("POST %s: http status %d", path, resp.StatusCode)
	}
	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, errors.Wrapf(err, "decode %s response", path)
	}
	return &tr, nil
}

// jwtExpiry lê o claim exp sem verificar a assinatura.
func jwtExpiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, errors.Wrap(err, "parse access token")
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, errors.Wrap(err, "access token exp")
	}
	if exp == nil {
		return time.Time{}, errors.New("token response without expiresIn and access token without exp")
	}
	return exp.Time, nil
}
