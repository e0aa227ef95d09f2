package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/desertthunder/tempo/internal/auth"
	"github.com/desertthunder/tempo/internal/client"
	"github.com/desertthunder/tempo/internal/shared"
	"github.com/urfave/cli/v3"
)

// defaultScopes covers everything the CLI and TUI touch.
func defaultScopes() auth.ScopeSet {
	return auth.NewScopeSet(
		auth.ScopeUserReadPrivate,
		auth.ScopeUserReadEmail,
		auth.ScopePlaylistReadPrivate,
		auth.ScopePlaylistReadCollaborative,
		auth.ScopeUserLibraryRead,
		auth.ScopeUserReadPlaybackState,
		auth.ScopeUserReadCurrentlyPlaying,
	)
}

// AuthLogin runs an OAuth grant flow and stores the resulting authorization.
//
// The default flow is the confidential authorization-code grant. --pkce
// switches to PKCE, --client-credentials to the app-only grant. When the
// config names a token proxy, the matching proxy variant is used and the
// client secret never leaves it.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if err := r.openDatabase(); err != nil {
		return err
	}

	usePKCE := cmd.Bool("pkce")
	useCC := cmd.Bool("client-credentials")
	sp := r.config.Spotify

	if sp.ClientID == "" && !(useCC && r.config.Proxy.TokensURL != "") {
		return fmt.Errorf("%w: spotify.client_id is not configured", shared.ErrMissingCredentials)
	}

	backend, err := r.backendFor(usePKCE, useCC)
	if err != nil {
		return err
	}

	manager := auth.NewManager(backend, shared.WithLogger(r.logger, "component", "auth"))

	var grant auth.Grant
	if !useCC {
		grant, err = r.runGrantFlow(usePKCE)
		if err != nil {
			return err
		}
	}

	if err := manager.Authorize(ctx, grant); err != nil {
		return fmt.Errorf("authorization failed: %w", err)
	}

	data, err := manager.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode authorization: %w", err)
	}
	if err := r.store.Save(credentialSlot, data); err != nil {
		return err
	}
	r.store.Attach(credentialSlot, manager)

	r.manager = manager
	r.api = client.New(manager, r.clientOpts())

	r.logger.Info("authorization stored", "backend", backend.Kind())
	return r.writePlain("✓ Authorized via %s\n", backend.Kind())
}

// backendFor selects the token backend matching the flags and config.
func (r *Runner) backendFor(usePKCE, useCC bool) (auth.Backend, error) {
	sp := r.config.Spotify
	proxy := r.config.Proxy

	switch {
	case useCC && proxy.TokensURL != "":
		return &auth.ProxyClientCredentialsBackend{TokensURL: proxy.TokensURL}, nil

	case useCC:
		if sp.ClientSecret == "" {
			return nil, fmt.Errorf("%w: client-credentials requires spotify.client_secret", shared.ErrMissingCredentials)
		}
		return &auth.ClientCredentialsBackend{ClientID: sp.ClientID, ClientSecret: sp.ClientSecret}, nil

	case proxy.TokensURL != "":
		return &auth.ProxyCodeBackend{
			ClientID:   sp.ClientID,
			TokensURL:  proxy.TokensURL,
			RefreshURL: proxy.RefreshURL,
		}, nil

	case usePKCE:
		return &auth.PKCEBackend{ClientID: sp.ClientID}, nil

	default:
		if sp.ClientSecret == "" {
			return nil, fmt.Errorf("%w: set spotify.client_secret or use --pkce", shared.ErrMissingCredentials)
		}
		return &auth.CodeBackend{ClientID: sp.ClientID, ClientSecret: sp.ClientSecret}, nil
	}
}

// runGrantFlow sends the user through the browser consent page and reads the
// authorization code from the pasted redirect URL.
func (r *Runner) runGrantFlow(usePKCE bool) (auth.Grant, error) {
	sp := r.config.Spotify
	if sp.RedirectURI == "" {
		return auth.Grant{}, fmt.Errorf("%w: spotify.redirect_uri is not configured", shared.ErrMissingConfig)
	}

	state := shared.GenerateID()
	scopes := defaultScopes()

	var authURL, verifier string
	if usePKCE {
		authURL, verifier = auth.PKCEAuthorizationURL(sp.ClientID, sp.RedirectURI, state, scopes)
	} else {
		authURL = auth.AuthorizationURL(sp.ClientID, sp.RedirectURI, state, scopes)
	}

	r.writePlain("Open this URL in your browser to authorize:\n\n%s\n\n", authURL)
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Debug("could not open browser", "error", err)
	}

	r.writePlain("Paste the full redirect URL here: ")
	code, err := readRedirectCode(r.input, state)
	if err != nil {
		return auth.Grant{}, err
	}

	return auth.Grant{Code: code, RedirectURI: sp.RedirectURI, CodeVerifier: verifier}, nil
}

// readRedirectCode extracts the authorization code from a pasted redirect URL,
// verifying the state parameter round-tripped intact.
func readRedirectCode(input io.Reader, expectedState string) (string, error) {
	scanner := bufio.NewScanner(input)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("failed to read redirect URL: %w", err)
		}
		return "", fmt.Errorf("%w: no redirect URL provided", shared.ErrMissingArgument)
	}

	raw := strings.TrimSpace(scanner.Text())
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: malformed redirect URL: %v", shared.ErrInvalidArgument, err)
	}

	query := parsed.Query()
	if errCode := query.Get("error"); errCode != "" {
		return "", fmt.Errorf("%w: %s", shared.ErrAuthorization, errCode)
	}
	if query.Get("state") != expectedState {
		return "", fmt.Errorf("%w: state mismatch", shared.ErrAuthorization)
	}

	code := query.Get("code")
	if code == "" {
		return "", fmt.Errorf("%w: redirect URL carries no code", shared.ErrInvalidArgument)
	}
	return code, nil
}

// AuthStatus reports the stored authorization state.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	info := r.manager.Info()
	if info == nil {
		return r.writePlain("✗ Not authorized\n")
	}

	r.writePlainHeader("Authorization")
	r.writePlain("Backend: %s\n", r.manager.Backend().Kind())
	r.writePlain("Scopes: %s\n", info.Scopes.String())
	r.writePlain("Expires: %s\n", info.ExpirationDate.Local().Format(time.RFC1123))
	if info.IsExpired(0) {
		r.writePlain("Status: ✗ Expired\n")
	} else {
		r.writePlain("Status: ✓ Valid\n")
	}
	return nil
}

// AuthRefresh forces a token refresh regardless of expiry.
func (r *Runner) AuthRefresh(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	if err := r.manager.RefreshTokens(ctx, false, 0); err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}

	info := r.manager.Info()
	r.logger.Info("tokens refreshed", "expires", info.ExpirationDate)
	return r.writePlain("✓ Refreshed, expires %s\n", info.ExpirationDate.Local().Format(time.RFC1123))
}

// AuthLogout discards the stored authorization.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.openDatabase(); err != nil {
		return err
	}

	if r.manager != nil {
		r.manager.Deauthorize()
	}
	if err := r.store.Delete(credentialSlot); err != nil {
		return err
	}

	r.logger.Info("credentials removed")
	return r.writePlain("✓ Logged out\n")
}
