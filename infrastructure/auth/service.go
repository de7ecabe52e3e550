package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	pkgError "github.com/qualens/qualens/pkg/error"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// User is the authenticated identity as reported by the auth server.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Session is one authenticated period: a short-lived access token plus the
// refresh token that extends it.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         User      `json:"user"`
}

// Event names delivered to OnAuthStateChange subscribers.
const (
	EventSignedIn       = "SIGNED_IN"
	EventSignedOut      = "SIGNED_OUT"
	EventTokenRefreshed = "TOKEN_REFRESHED"
)

type Config struct {
	// URL of the auth server, e.g. http://localhost:9999.
	URL     string
	AnonKey string

	// RefreshWindow is how close to expiry a token may get before
	// AccessToken refreshes it proactively.
	RefreshWindow time.Duration

	// SessionFile persists the session across CLI invocations. Empty
	// disables persistence.
	SessionFile string

	HTTPClient *http.Client
}

// Service owns the session and implements api.SessionSource. Concurrent
// AccessToken callers share a single refresh via singleflight.
type Service struct {
	cfg  Config
	http *http.Client

	mu      sync.RWMutex
	session *Session

	group singleflight.Group

	subMu   sync.Mutex
	subs    map[int]func(event string, session *Session)
	nextSub int
}

func NewService(cfg Config) *Service {
	if cfg.RefreshWindow <= 0 {
		cfg.RefreshWindow = 60 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	s := &Service{
		cfg:  cfg,
		http: httpClient,
		subs: make(map[int]func(string, *Session)),
	}
	s.loadSessionFile()
	return s
}

// tokenResponse is the grant response shape shared by the password and
// refresh_token grants.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	User         User   `json:"user"`
}

type authErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Message          string `json:"msg"`
}

func (e authErrorResponse) text() string {
	switch {
	case e.ErrorDescription != "":
		return e.ErrorDescription
	case e.Message != "":
		return e.Message
	default:
		return e.Error
	}
}

// SignIn performs the password grant and installs the resulting session.
func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	res, err := s.grant(ctx, "password", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	session := s.install(res)
	s.notify(EventSignedIn, session)
	logrus.Infof("[AUTH] Signed in as %s", session.User.Email)
	return session, nil
}

// SignUp registers a new account. Depending on server settings the account
// may require email confirmation before SignIn succeeds.
func (s *Service) SignUp(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	return s.post(ctx, "/auth/v1/signup", body, "", nil)
}

// SignOut revokes the session server-side (best effort) and always clears
// local state.
func (s *Service) SignOut(ctx context.Context) error {
	s.mu.Lock()
	session := s.session
	s.session = nil
	s.mu.Unlock()

	if s.cfg.SessionFile != "" {
		if err := os.Remove(s.cfg.SessionFile); err != nil && !os.IsNotExist(err) {
			logrus.Warnf("[AUTH] Could not remove session file: %v", err)
		}
	}

	if session != nil {
		if err := s.post(ctx, "/auth/v1/logout", nil, session.AccessToken, nil); err != nil {
			logrus.Debugf("[AUTH] Server-side logout failed: %v", err)
		}
	}

	s.notify(EventSignedOut, nil)
	return nil
}

// Current returns a copy of the active session, or nil when signed out.
func (s *Service) Current() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil
	}
	copied := *s.session
	return &copied
}

// AccessToken returns a token valid for at least the refresh window,
// refreshing first when the current one is about to expire. Concurrent
// callers piggyback on one refresh.
func (s *Service) AccessToken(ctx context.Context) (string, error) {
	s.mu.RLock()
	session := s.session
	s.mu.RUnlock()

	if session == nil {
		return "", pkgError.UnauthorizedError("not signed in")
	}
	if time.Until(session.ExpiresAt) > s.cfg.RefreshWindow {
		return session.AccessToken, nil
	}

	v, err, _ := s.group.Do("refresh", func() (any, error) {
		// Re-check under the flight: a sibling may have refreshed already.
		s.mu.RLock()
		cur := s.session
		s.mu.RUnlock()
		if cur == nil {
			return "", pkgError.UnauthorizedError("signed out during refresh")
		}
		if time.Until(cur.ExpiresAt) > s.cfg.RefreshWindow {
			return cur.AccessToken, nil
		}

		res, err := s.grant(ctx, "refresh_token", map[string]string{
			"refresh_token": cur.RefreshToken,
		})
		if err != nil {
			return "", err
		}
		refreshed := s.install(res)
		s.notify(EventTokenRefreshed, refreshed)
		logrus.Debug("[AUTH] Access token refreshed")
		return refreshed.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// OnAuthStateChange registers a subscriber for sign-in, sign-out and
// refresh events. The returned function unsubscribes it.
func (s *Service) OnAuthStateChange(fn func(event string, session *Session)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Service) notify(event string, session *Session) {
	s.subMu.Lock()
	fns := make([]func(string, *Session), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(event, session)
	}
}

func (s *Service) grant(ctx context.Context, grantType string, body map[string]string) (*tokenResponse, error) {
	var res tokenResponse
	path := "/auth/v1/token?grant_type=" + grantType
	if err := s.post(ctx, path, body, "", &res); err != nil {
		return nil, err
	}
	if res.AccessToken == "" {
		return nil, pkgError.UnauthorizedError("auth server returned no access token")
	}
	return &res, nil
}

func (s *Service) post(ctx context.Context, path string, body any, bearer string, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.URL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.cfg.AnonKey != "" {
		req.Header.Set("apikey", s.cfg.AnonKey)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	res, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("auth request failed: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		var authErr authErrorResponse
		_ = json.Unmarshal(raw, &authErr)
		msg := authErr.text()
		if msg == "" {
			msg = fmt.Sprintf("auth server returned status %d", res.StatusCode)
		}
		if res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusBadRequest {
			return pkgError.UnauthorizedError(msg)
		}
		return pkgError.ServerError{Status: res.StatusCode, Msg: msg}
	}

	if out != nil && len(raw) > 0 {
		return json.Unmarshal(raw, out)
	}
	return nil
}

func (s *Service) install(res *tokenResponse) *Session {
	session := &Session{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(res.ExpiresIn) * time.Second),
		User:         res.User,
	}

	s.mu.Lock()
	s.session = session
	s.mu.Unlock()

	s.saveSessionFile(session)
	copied := *session
	return &copied
}

func (s *Service) loadSessionFile() {
	if s.cfg.SessionFile == "" {
		return
	}
	raw, err := os.ReadFile(s.cfg.SessionFile)
	if err != nil {
		return
	}
	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		logrus.Warnf("[AUTH] Ignoring corrupt session file: %v", err)
		return
	}
	if session.RefreshToken == "" {
		return
	}
	s.session = &session
}

func (s *Service) saveSessionFile(session *Session) {
	if s.cfg.SessionFile == "" {
		return
	}
	raw, err := json.Marshal(session)
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.cfg.SessionFile), 0o755); err != nil {
		logrus.Warnf("[AUTH] Could not create session dir: %v", err)
		return
	}
	if err := os.WriteFile(s.cfg.SessionFile, raw, 0o600); err != nil {
		logrus.Warnf("[AUTH] Could not persist session: %v", err)
	}
}
