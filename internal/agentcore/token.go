package agentcore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/milan9527/agentticket-sub002/internal/config"
)

// ErrNoCredentials is returned when the token endpoint is not configured.
var ErrNoCredentials = errors.New("agent credentials not configured")

// CredentialSource supplies the bearer credential attached to agent calls.
// Token is safe for concurrent use; Invalidate discards a credential that
// the upstream rejected so the next call re-authenticates.
type CredentialSource interface {
	Token(ctx context.Context) (string, error)
	Invalidate(old string)
}

// passwordGrant obtains bearer tokens from the identity provider using the
// password grant, caching the result until invalidated. At most one refresh
// is in flight at a time; concurrent callers wait for the same refresh
// instead of issuing duplicate credential requests.
type passwordGrant struct {
	cfg    config.AgentConfig
	client *http.Client

	mu       sync.Mutex
	token    string
	inflight *refreshCall
}

type refreshCall struct {
	done  chan struct{}
	token string
	err   error
}

// NewPasswordGrant creates a CredentialSource backed by the configured
// token endpoint.
func NewPasswordGrant(cfg config.AgentConfig, client *http.Client) CredentialSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &passwordGrant{cfg: cfg, client: client}
}

func (p *passwordGrant) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	if p.token != "" {
		token := p.token
		p.mu.Unlock()
		return token, nil
	}
	if call := p.inflight; call != nil {
		p.mu.Unlock()
		select {
		case <-call.done:
			return call.token, call.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	call := &refreshCall{done: make(chan struct{})}
	p.inflight = call
	p.mu.Unlock()

	token, err := p.fetch(ctx)

	p.mu.Lock()
	p.inflight = nil
	if err == nil {
		p.token = token
	}
	p.mu.Unlock()

	call.token = token
	call.err = err
	close(call.done)
	return token, err
}

func (p *passwordGrant) Invalidate(old string) {
	p.mu.Lock()
	if p.token == old {
		p.token = ""
	}
	p.mu.Unlock()
}

func (p *passwordGrant) fetch(ctx context.Context) (string, error) {
	if p.cfg.TokenURL == "" || p.cfg.ClientID == "" {
		return "", ErrNoCredentials
	}

	body, err := json.Marshal(map[string]string{
		"client_id": p.cfg.ClientID,
		"username":  p.cfg.Username,
		"password":  p.cfg.Password,
		"auth_flow": "USER_PASSWORD_AUTH",
	})
	if err != nil {
		return "", fmt.Errorf("encode token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.TokenURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint returned %d", resp.StatusCode)
	}

	var result struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if result.AccessToken == "" {
		return "", errors.New("token endpoint returned empty access_token")
	}
	return result.AccessToken, nil
}
