package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/oauth2"

	"github.com/marinadb/marina/harbor"
	"github.com/marinadb/marina/inmem"
	"github.com/marinadb/marina/jsonweb"
	"github.com/marinadb/marina/rand"
)

// fakeProvider stands in for the identity provider: it exchanges any
// code for a token and serves a fixed profile.
func fakeProvider(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "provider-access-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"sub":         "subject-123",
			"given_name":  "Ada",
			"family_name": "Lovelace",
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestHandler(t *testing.T) (*HTTPHandler, *harbor.Service) {
	t.Helper()

	provider := fakeProvider(t)

	kvStore := inmem.NewKVStore()
	svc := harbor.NewService(zaptest.NewLogger(t), harbor.NewStore(kvStore))

	h := NewHTTPHandler(
		zaptest.NewLogger(t),
		svc,
		NewStore(kvStore),
		rand.NewTokenGenerator(32),
		Config{
			OAuth: &oauth2.Config{
				ClientID:     "client",
				ClientSecret: "secret",
				RedirectURL:  "http://localhost/oauth",
				Scopes:       []string{"openid", "profile"},
				Endpoint: oauth2.Endpoint{
					AuthURL:  provider.URL + "/auth",
					TokenURL: provider.URL + "/token",
				},
			},
			UserInfoURL:   provider.URL + "/userinfo",
			TokenKeyID:    "test",
			TokenKey:      []byte("signing key"),
			TokenDuration: time.Hour,
		},
	)
	return h, svc
}

func TestHandleLogin(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/login", nil))

	require.Equal(t, http.StatusFound, rec.Code)

	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	state := loc.Query().Get("state")
	require.NotEmpty(t, state)
	assert.Equal(t, "client", loc.Query().Get("client_id"))

	// The state must be consumable exactly once.
	require.NoError(t, h.store.ConsumeState(context.Background(), state))
	assert.Equal(t, ErrInvalidState, h.store.ConsumeState(context.Background(), state))
}

func TestHandleCallback(t *testing.T) {
	t.Run("unknown state is rejected", func(t *testing.T) {
		h, _ := newTestHandler(t)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/oauth?state=bogus&code=abc", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("registers the user and mints a token", func(t *testing.T) {
		h, svc := newTestHandler(t)

		require.NoError(t, h.store.PutState(context.Background(), "issued-state"))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/oauth?state=issued-state&code=abc", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp sessionResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		require.NotNil(t, resp.User)
		assert.Equal(t, "subject-123", resp.User.Sub)
		assert.Equal(t, "Ada", resp.User.First)
		assert.Equal(t, "Lovelace", resp.User.Last)

		// The minted token must verify against the same key the API uses.
		parser := jsonweb.NewTokenParser(jsonweb.KeyStoreFunc(func(kid string) ([]byte, error) {
			return []byte("signing key"), nil
		}))
		token, err := parser.Parse(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, "subject-123", token.Identifier())

		// The account is created once, not per sign-in.
		u, err := svc.FindUserBySub(context.Background(), "subject-123")
		require.NoError(t, err)

		require.NoError(t, h.store.PutState(context.Background(), "second-state"))
		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/oauth?state=second-state&code=abc", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		again, err := svc.FindUserBySub(context.Background(), "subject-123")
		require.NoError(t, err)
		assert.Equal(t, u.ID, again.ID)
	})
}
