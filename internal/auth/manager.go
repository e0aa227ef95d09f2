package auth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tempo/internal/shared"
)

// refreshCall is the shared result of a single in-flight refresh. Callers
// that arrive while a refresh is running wait on done and read err instead
// of issuing their own network call.
type refreshCall struct {
	done chan struct{}
	err  error
}

// Manager owns the current authorization state for one API client.
//
// It orchestrates refresh-on-demand with deduplication of concurrent refresh
// attempts, exposes scope-authorization checks, and notifies registered
// listeners after every state mutation so the host application can persist
// the encoded manager. All methods are safe for concurrent use.
type Manager struct {
	backend Backend
	logger  *log.Logger

	mu       sync.Mutex
	current  *Info
	inflight *refreshCall

	listenerMu sync.Mutex
	listeners  []func(*Manager)
}

// NewManager creates an unauthorized Manager over the given backend.
//
// The logger is an injected dependency rather than ambient global state; a
// nil logger discards output.
func NewManager(backend Backend, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Manager{backend: backend, logger: logger}
}

// Backend returns the token backend this manager dispatches to.
func (m *Manager) Backend() Backend {
	return m.backend
}

// Info returns a copy of the current authorization snapshot, or nil when
// unauthorized.
func (m *Manager) Info() *Info {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil
	}
	info := *m.current
	return &info
}

// AccessToken returns the current access token.
// Wraps [shared.ErrNotAuthenticated] when no credential is present.
func (m *Manager) AccessToken() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return "", fmt.Errorf("%w: no access token", shared.ErrNotAuthenticated)
	}
	return m.current.AccessToken, nil
}

// Authorize performs the initial token exchange for the given grant,
// replacing any existing authorization.
//
// OAuth error payloads (invalid grant, access denied) surface as
// [*AuthError] and are never retried.
func (m *Manager) Authorize(ctx context.Context, grant Grant) error {
	body, resp, err := m.backend.RequestTokens(ctx, grant)
	if err != nil {
		return fmt.Errorf("token exchange: %w", err)
	}

	if authErr := oauthError(body, statusCode(resp)); authErr != nil {
		m.logger.Warn("authorization rejected", "code", authErr.Code)
		return authErr
	}

	info, err := DecodeTokenResponse(body)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.current = info
	m.mu.Unlock()

	m.logger.Info("authorized", "scopes", info.Scopes.String(), "expires", info.ExpirationDate)
	m.notify()
	return nil
}

// RefreshTokens obtains a fresh access token from the backend.
//
// When onlyIfExpired is true and the current token is still valid within
// tolerance, this is a no-op with zero network calls. Otherwise at most one
// refresh is in flight per manager at any instant: concurrent callers attach
// to the in-flight call and observe its result, success or failure, rather
// than issuing duplicate requests.
//
// On success the authorization snapshot is replaced atomically, preserving
// the stored refresh token when the server omits one, and listeners are
// notified. On failure the snapshot is untouched.
func (m *Manager) RefreshTokens(ctx context.Context, onlyIfExpired bool, tolerance time.Duration) error {
	m.mu.Lock()

	if onlyIfExpired && m.current != nil && !m.current.IsExpired(tolerance) {
		m.mu.Unlock()
		return nil
	}

	if call := m.inflight; call != nil {
		m.mu.Unlock()
		select {
		case <-call.done:
			return call.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if m.current == nil {
		m.mu.Unlock()
		return fmt.Errorf("%w: nothing to refresh", shared.ErrNotAuthenticated)
	}

	refreshToken := m.current.RefreshToken
	if refreshToken == "" && needsRefreshToken(m.backend.Kind()) {
		m.mu.Unlock()
		return fmt.Errorf("%w: re-authorization required", shared.ErrNoRefreshToken)
	}

	call := &refreshCall{done: make(chan struct{})}
	m.inflight = call
	m.mu.Unlock()

	call.err = m.performRefresh(ctx, refreshToken)

	m.mu.Lock()
	m.inflight = nil
	m.mu.Unlock()
	close(call.done)

	return call.err
}

// needsRefreshToken reports whether the flow requires a stored refresh token
// to renew access. Client-credential flows never issue one and re-request
// with their stored credentials instead.
func needsRefreshToken(kind string) bool {
	return kind != KindClientCredentials && kind != KindProxyClientCredentials
}

func (m *Manager) performRefresh(ctx context.Context, refreshToken string) error {
	body, resp, err := m.backend.RefreshTokens(ctx, refreshToken)
	if err != nil {
		return fmt.Errorf("token refresh: %w", err)
	}

	if authErr := oauthError(body, statusCode(resp)); authErr != nil {
		m.logger.Warn("token refresh rejected", "code", authErr.Code)
		return authErr
	}

	info, err := DecodeTokenResponse(body)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}

	m.mu.Lock()
	// Servers may omit an unchanged refresh token from the response.
	if info.RefreshToken == "" && m.current != nil {
		info.RefreshToken = m.current.RefreshToken
	}
	m.current = info
	m.mu.Unlock()

	m.logger.Debug("access token refreshed", "expires", info.ExpirationDate)
	m.notify()
	return nil
}

// IsAuthorized reports whether the current credential exists, is not
// expired, and covers every required scope. Used as a pre-flight gate before
// API calls.
func (m *Manager) IsAuthorized(required ScopeSet) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current != nil && !m.current.IsExpired(0) && required.IsSubsetOf(m.current.Scopes)
}

// Deauthorize clears the current authorization and notifies listeners.
// Idempotent.
func (m *Manager) Deauthorize() {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()

	m.logger.Info("deauthorized")
	m.notify()
}

// OnChange registers a listener fired after every mutation of the
// authorization state (authorize, successful refresh, deauthorize). The
// listener always observes the already-committed new state.
func (m *Manager) OnChange(fn func(*Manager)) {
	m.listenerMu.Lock()
	defer m.listenerMu.Unlock()
	m.listeners = append(m.listeners, fn)
}

func (m *Manager) notify() {
	m.listenerMu.Lock()
	listeners := make([]func(*Manager), len(m.listeners))
	copy(listeners, m.listeners)
	m.listenerMu.Unlock()

	for _, fn := range listeners {
		fn(m)
	}
}

// Equal reports whether two managers have the same backend configuration and
// the same current authorization.
func (m *Manager) Equal(other *Manager) bool {
	if m == nil || other == nil {
		return m == other
	}
	if !m.backend.Equal(other.backend) {
		return false
	}
	return m.Info().Equal(other.Info())
}

func statusCode(resp *http.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}
