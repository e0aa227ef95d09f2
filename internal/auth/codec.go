package auth

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tempo/internal/shared"
)

// Encode serializes the manager for durable storage: the backend's
// configuration fields flattened alongside a "backend" kind discriminator
// and the current authorization snapshot. Proxy and PKCE backends carry no
// client_secret field at all.
func (m *Manager) Encode() ([]byte, error) {
	backendJSON, err := json.Marshal(m.backend)
	if err != nil {
		return nil, fmt.Errorf("failed to encode backend: %w", err)
	}

	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(backendJSON, &fields); err != nil {
		return nil, fmt.Errorf("failed to flatten backend: %w", err)
	}

	kind, err := json.Marshal(m.backend.Kind())
	if err != nil {
		return nil, err
	}
	fields["backend"] = kind

	if info := m.Info(); info != nil {
		encoded, err := json.Marshal(info)
		if err != nil {
			return nil, fmt.Errorf("failed to encode authorization info: %w", err)
		}
		fields["current_authorization_info"] = encoded
	}

	return json.Marshal(fields)
}

// DecodeManager reverses [Manager.Encode], reconstructing the backend from
// its kind discriminator and restoring the authorization snapshot.
// Round-tripping produces an equal manager for every backend variant.
func DecodeManager(data []byte, logger *log.Logger) (*Manager, error) {
	var head struct {
		Kind    string `json:"backend"`
		Current *Info  `json:"current_authorization_info"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrDecoding, err)
	}

	var backend Backend
	switch head.Kind {
	case KindAuthorizationCode:
		backend = &CodeBackend{}
	case KindPKCE:
		backend = &PKCEBackend{}
	case KindClientCredentials:
		backend = &ClientCredentialsBackend{}
	case KindProxyAuthorizationCode:
		backend = &ProxyCodeBackend{}
	case KindProxyClientCredentials:
		backend = &ProxyClientCredentialsBackend{}
	default:
		return nil, fmt.Errorf("%w: unknown backend kind %q", shared.ErrDecoding, head.Kind)
	}

	if err := json.Unmarshal(data, backend); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrDecoding, err)
	}

	m := NewManager(backend, logger)
	m.current = head.Current
	return m, nil
}
