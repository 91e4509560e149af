// Package identitytoolkit implements the session provider against the
// Firebase Identity Toolkit REST API. Sign-in exchanges an email/password
// pair for an ID token; the provider keeps the session alive by refreshing
// the token ahead of expiry and notifies subscribers on every state change.
package identitytoolkit

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/Manuufarina/gestion-zoonosis/config"
	"github.com/Manuufarina/gestion-zoonosis/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

const (
	defaultAuthEndpoint  = "https://identitytoolkit.googleapis.com"
	defaultTokenEndpoint = "https://securetoken.googleapis.com"
	defaultRefreshLeeway = 2 * time.Minute
)

// Provider implements service.SessionProvider.
type Provider struct {
	apiKey        string
	authEndpoint  string
	tokenEndpoint string
	leeway        time.Duration
	httpClient    *http.Client
	logger        *slog.Logger

	mu           sync.Mutex
	identity     *service.Identity
	refreshToken string
	refreshTimer *time.Timer
	nextSubID    int
	subscribers  map[int]func(*service.Identity)
}

// New builds the provider from configuration.
func New(cfg *config.Config, logger *slog.Logger) (*Provider, error) {
	if cfg.Firebase == nil || strings.TrimSpace(cfg.Firebase.WebAPIKey) == "" {
		return nil, errors.New("firebase web API key missing")
	}

	authEndpoint := cfg.Firebase.AuthEndpoint
	if authEndpoint == "" {
		authEndpoint = defaultAuthEndpoint
	}
	tokenEndpoint := cfg.Firebase.TokenEndpoint
	if tokenEndpoint == "" {
		tokenEndpoint = defaultTokenEndpoint
	}
	leeway := defaultRefreshLeeway
	if cfg.Session != nil && cfg.Session.RefreshLeeway > 0 {
		leeway = cfg.Session.RefreshLeeway
	}

	return &Provider{
		apiKey:        cfg.Firebase.WebAPIKey,
		authEndpoint:  strings.TrimRight(authEndpoint, "/"),
		tokenEndpoint: strings.TrimRight(tokenEndpoint, "/"),
		leeway:        leeway,
		httpClient:    &http.Client{Timeout: 15 * time.Second},
		logger:        logger,
		subscribers:   make(map[int]func(*service.Identity)),
	}, nil
}

// Subscribe registers a state-change callback and invokes it immediately
// with the current state.
func (p *Provider) Subscribe(fn func(*service.Identity)) func() {
	p.mu.Lock()
	p.nextSubID++
	id := p.nextSubID
	p.subscribers[id] = fn
	current := p.identity
	p.mu.Unlock()

	fn(current)

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.subscribers, id)
	}
}

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signInResponse struct {
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
}

// SignIn exchanges the credentials for a session. Any rejection from the
// backend surfaces as the single generic invalid-credentials error.
func (p *Provider) SignIn(ctx context.Context, email, password string) error {
	body, err := json.Marshal(signInRequest{Email: email, Password: password, ReturnSecureToken: true})
	if err != nil {
		return errors.Wrap(err, "marshal sign-in request")
	}

	endpoint := p.authEndpoint + "/v1/accounts:signInWithPassword?key=" + url.QueryEscape(p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "build sign-in request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "sign-in request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return service.ErrInvalidCredentials
	}

	var parsed signInResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return errors.Wrap(err, "decode sign-in response")
	}

	p.establish(parsed.IDToken, parsed.RefreshToken, parsed.LocalID, parsed.Email)

	return nil
}

// SignOut drops the session and notifies subscribers with nil.
func (p *Provider) SignOut() {
	p.mu.Lock()
	p.identity = nil
	p.refreshToken = ""
	if p.refreshTimer != nil {
		p.refreshTimer.Stop()
		p.refreshTimer = nil
	}
	subs := p.subscribersLocked()
	p.mu.Unlock()

	for _, fn := range subs {
		fn(nil)
	}
}

// establish records the new session and schedules the token refresh.
func (p *Provider) establish(idToken, refreshToken, uid, email string) {
	if claimUID, ok := tokenUID(idToken); ok {
		uid = claimUID
	}
	identity := &service.Identity{UID: uid, Email: email}

	p.mu.Lock()
	p.identity = identity
	p.refreshToken = refreshToken
	if p.refreshTimer != nil {
		p.refreshTimer.Stop()
	}
	if wait, ok := refreshDelay(idToken, p.leeway); ok {
		p.refreshTimer = time.AfterFunc(wait, p.refresh)
	}
	subs := p.subscribersLocked()
	p.mu.Unlock()

	for _, fn := range subs {
		fn(identity)
	}
}

func (p *Provider) subscribersLocked() []func(*service.Identity) {
	subs := make([]func(*service.Identity), 0, len(p.subscribers))
	for _, fn := range p.subscribers {
		subs = append(subs, fn)
	}

	return subs
}

type refreshResponse struct {
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       string `json:"user_id"`
}

func (p *Provider) refresh() {
	p.mu.Lock()
	refreshToken := p.refreshToken
	email := ""
	if p.identity != nil {
		email = p.identity.Email
	}
	p.mu.Unlock()

	if refreshToken == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	}
	endpoint := p.tokenEndpoint + "/v1/token?key=" + url.QueryEscape(p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		p.logger.Error("failed to build token refresh request", slog.Any("error", err))

		return
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.logger.Error("token refresh failed, closing session", slog.Any("error", err))
		p.SignOut()

		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.logger.Error("token refresh rejected, closing session", slog.Int("status", resp.StatusCode))
		p.SignOut()

		return
	}

	var parsed refreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		p.logger.Error("failed to decode token refresh response", slog.Any("error", err))
		p.SignOut()

		return
	}

	p.establish(parsed.IDToken, parsed.RefreshToken, parsed.UserID, email)
}

// tokenUID extracts the Firebase UID from an ID token without verifying the
// signature; verification belongs to the backend, the client only needs the
// claims.
func tokenUID(idToken string) (string, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(idToken, claims); err != nil {
		return "", false
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", false
	}

	return sub, true
}

// refreshDelay computes how long to wait before refreshing the ID token.
func refreshDelay(idToken string, leeway time.Duration) (time.Duration, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(idToken, claims); err != nil {
		return 0, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 0, false
	}

	wait := time.Until(exp.Time) - leeway
	if wait < time.Second {
		wait = time.Second
	}

	return wait, true
}
