package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"iv-drip-calculator/internal/platform/httpclient"
	"iv-drip-calculator/internal/ports/auth"
)

var (
	ErrNotConfigured = errors.New("auth verifier not configured")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrUpstream      = errors.New("auth upstream error")
)

// Config del verificador remoto de tokens.
// BaseURL y APIKey vienen normalmente de env vars del servicio.
type Config struct {
	BaseURL string
	APIKey  string

	// Header donde viaja la API key; default "X-Api-Key".
	APIKeyHeader string

	Timeout time.Duration
}

// Verifier delega la verificación de tokens al servicio de identidad
// del hospital. Implementa ports/auth.Verifier.
type Verifier struct {
	client       *httpclient.Client
	apiKey       string
	apiKeyHeader string
}

func New(cfg Config) (*Verifier, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" || strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNotConfigured
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	client, err := httpclient.New(cfg.BaseURL, timeout)
	if err != nil {
		return nil, err
	}

	header := strings.TrimSpace(cfg.APIKeyHeader)
	if header == "" {
		header = "X-Api-Key"
	}

	return &Verifier{
		client:       client,
		apiKey:       strings.TrimSpace(cfg.APIKey),
		apiKeyHeader: header,
	}, nil
}

// NewFromEnv arma el verifier desde AUTH_VERIFY_URL / AUTH_API_KEY.
// Devuelve (nil, false) si no está configurado: el router queda en modo dev.
func NewFromEnv() (*Verifier, bool) {
	v, err := New(Config{
		BaseURL: os.Getenv("AUTH_VERIFY_URL"),
		APIKey:  os.Getenv("AUTH_API_KEY"),
	})
	if err != nil {
		return nil, false
	}
	return v, true
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrUnauthorized
	}

	headers := map[string]string{
		v.apiKeyHeader:  v.apiKey,
		"Authorization": "Bearer " + token,
	}

	var out struct {
		UserID string `json:"user_id"`
		Email  string `json:"email"`
	}

	err := v.client.DoJSON(ctx, http.MethodPost, "/v1/tokens/verify", headers,
		map[string]string{"token": token}, &out)
	if err != nil {
		var httpErr *httpclient.HTTPError
		if errors.As(err, &httpErr) {
			if httpErr.StatusCode == http.StatusUnauthorized || httpErr.StatusCode == http.StatusForbidden {
				return auth.Claims{}, ErrUnauthorized
			}
			return auth.Claims{}, fmt.Errorf("%w: status=%d", ErrUpstream, httpErr.StatusCode)
		}
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if strings.TrimSpace(out.UserID) == "" {
		return auth.Claims{}, ErrUnauthorized
	}

	return auth.Claims{
		UserID: out.UserID,
		Email:  out.Email,
	}, nil
}
