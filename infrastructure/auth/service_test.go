package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgError "github.com/qualens/qualens/pkg/error"
)

func newAuthServer(t *testing.T, refreshes *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "anon-key", r.Header.Get("apikey"))

		switch r.URL.Path {
		case "/auth/v1/token":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

			switch r.URL.Query().Get("grant_type") {
			case "password":
				if body["password"] != "correct" {
					w.WriteHeader(http.StatusBadRequest)
					_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
					return
				}
				_ = json.NewEncoder(w).Encode(tokenResponse{
					AccessToken:  "access-1",
					RefreshToken: "refresh-1",
					ExpiresIn:    3600,
					User:         User{ID: "u1", Email: body["email"], Role: "admin"},
				})
			case "refresh_token":
				require.Equal(t, "refresh-1", body["refresh_token"])
				if refreshes != nil {
					refreshes.Add(1)
				}
				time.Sleep(20 * time.Millisecond)
				_ = json.NewEncoder(w).Encode(tokenResponse{
					AccessToken:  "access-2",
					RefreshToken: "refresh-2",
					ExpiresIn:    3600,
					User:         User{ID: "u1", Email: "a@b.c", Role: "admin"},
				})
			default:
				w.WriteHeader(http.StatusBadRequest)
			}
		case "/auth/v1/logout":
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestSignInInstallsSession(t *testing.T) {
	server := newAuthServer(t, nil)
	defer server.Close()

	svc := NewService(Config{URL: server.URL, AnonKey: "anon-key"})

	session, err := svc.SignIn(context.Background(), "a@b.c", "correct")
	require.NoError(t, err)
	assert.Equal(t, "access-1", session.AccessToken)
	assert.Equal(t, "admin", session.User.Role)

	token, err := svc.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "access-1", token)
}

func TestSignInBadCredentials(t *testing.T) {
	server := newAuthServer(t, nil)
	defer server.Close()

	svc := NewService(Config{URL: server.URL, AnonKey: "anon-key"})

	_, err := svc.SignIn(context.Background(), "a@b.c", "wrong")
	require.Error(t, err)
	assert.True(t, pkgError.IsUnauthorized(err))
	assert.Contains(t, err.Error(), "Invalid login credentials")
	assert.Nil(t, svc.Current())
}

func TestAccessTokenWithoutSession(t *testing.T) {
	svc := NewService(Config{URL: "http://127.0.0.1:0", AnonKey: "anon-key"})
	_, err := svc.AccessToken(context.Background())
	require.Error(t, err)
	assert.True(t, pkgError.IsUnauthorized(err))
}

func TestAccessTokenProactiveRefreshDeduped(t *testing.T) {
	var refreshes atomic.Int32
	server := newAuthServer(t, &refreshes)
	defer server.Close()

	svc := NewService(Config{
		URL:           server.URL,
		AnonKey:       "anon-key",
		RefreshWindow: time.Hour, // everything is "about to expire"
	})
	_, err := svc.SignIn(context.Background(), "a@b.c", "correct")
	require.NoError(t, err)

	const parallel = 6
	var wg sync.WaitGroup
	tokens := make([]string, parallel)
	for i := 0; i < parallel; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			token, err := svc.AccessToken(context.Background())
			assert.NoError(t, err)
			tokens[i] = token
		}(i)
	}
	wg.Wait()

	for _, token := range tokens {
		assert.Equal(t, "access-2", token)
	}
	assert.Equal(t, int32(1), refreshes.Load(), "concurrent callers share one refresh")
}

func TestSessionPersistsAcrossServices(t *testing.T) {
	server := newAuthServer(t, nil)
	defer server.Close()

	file := filepath.Join(t.TempDir(), "session.json")

	first := NewService(Config{URL: server.URL, AnonKey: "anon-key", SessionFile: file})
	_, err := first.SignIn(context.Background(), "a@b.c", "correct")
	require.NoError(t, err)

	second := NewService(Config{URL: server.URL, AnonKey: "anon-key", SessionFile: file})
	session := second.Current()
	require.NotNil(t, session, "session file should restore the session")
	assert.Equal(t, "refresh-1", session.RefreshToken)

	require.NoError(t, second.SignOut(context.Background()))
	assert.Nil(t, second.Current())

	third := NewService(Config{URL: server.URL, AnonKey: "anon-key", SessionFile: file})
	assert.Nil(t, third.Current(), "sign-out removes the session file")
}

func TestOnAuthStateChange(t *testing.T) {
	server := newAuthServer(t, nil)
	defer server.Close()

	svc := NewService(Config{URL: server.URL, AnonKey: "anon-key"})

	var mu sync.Mutex
	var events []string
	unsubscribe := svc.OnAuthStateChange(func(event string, _ *Session) {
		mu.Lock()
		events = append(events, event)
		mu.Unlock()
	})

	_, err := svc.SignIn(context.Background(), "a@b.c", "correct")
	require.NoError(t, err)
	require.NoError(t, svc.SignOut(context.Background()))

	unsubscribe()
	_, err = svc.SignIn(context.Background(), "a@b.c", "correct")
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{EventSignedIn, EventSignedOut}, events)
}
