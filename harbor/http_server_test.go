package harbor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/marinadb/marina"
	"github.com/marinadb/marina/jsonweb"
)

const (
	testKeyID  = "test"
	testSecret = "super secret key"
)

func newTestServer(t *testing.T) (*httptest.Server, *Service) {
	t.Helper()

	svc := newTestService(t)
	parser := jsonweb.NewTokenParser(jsonweb.KeyStoreFunc(func(kid string) ([]byte, error) {
		if kid != testKeyID {
			return nil, jsonweb.ErrKeyNotFound
		}
		return []byte(testSecret), nil
	}))

	handler := NewHTTPHandler(zaptest.NewLogger(t), svc, parser, prometheus.NewRegistry())

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, svc
}

func signToken(t *testing.T, sub string) string {
	t.Helper()

	claims := &jsonweb.Token{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		KeyID: testKeyID,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func doRequest(t *testing.T, method, url, token, body string, header map[string]string) *http.Response {
	t.Helper()

	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}

	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

// decodeBody decodes with UseNumber so snowflake-sized IDs survive the
// round trip without float64 truncation.
func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var body map[string]interface{}
	require.NoError(t, dec.Decode(&body))
	return body
}

func TestBoatRoutesRequireAuth(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doRequest(t, "GET", srv.URL+"/boats", "", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doRequest(t, "GET", srv.URL+"/boats", "not a jwt", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPostBoat(t *testing.T) {
	srv, _ := newTestServer(t)
	token := signToken(t, "alice")

	resp := doRequest(t, "POST", srv.URL+"/boats", token,
		`{"name": "Evening Star", "type": "Sloop", "length": 30}`, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Evening Star", body["name"])
	assert.Equal(t, "alice", body["owner"])
	require.Contains(t, body, "id")
	assert.Equal(t, fmt.Sprintf("/boats/%v", body["id"]), body["self"])
	assert.Equal(t, []interface{}{}, body["loads"])

	t.Run("duplicate name is forbidden", func(t *testing.T) {
		resp := doRequest(t, "POST", srv.URL+"/boats", signToken(t, "bob"),
			`{"name": "Evening Star", "type": "Yawl", "length": 20}`, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("missing attribute is a bad request", func(t *testing.T) {
		resp := doRequest(t, "POST", srv.URL+"/boats", token,
			`{"name": "Incomplete"}`, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestGetBoatsScopedToOwner(t *testing.T) {
	srv, svc := newTestServer(t)

	mustCreateBoat(t, svc, "Alice One", "alice")
	mustCreateBoat(t, svc, "Alice Two", "alice")
	mustCreateBoat(t, svc, "Bob One", "bob")

	resp := doRequest(t, "GET", srv.URL+"/boats", signToken(t, "alice"), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, json.Number("2"), body["total"])
	boats := body["boats"].([]interface{})
	require.Len(t, boats, 2)
	for _, raw := range boats {
		b := raw.(map[string]interface{})
		assert.Equal(t, "alice", b["owner"])
	}
}

func TestGetBoatOwnership(t *testing.T) {
	srv, svc := newTestServer(t)
	boat := mustCreateBoat(t, svc, "Evening Star", "alice")

	resp := doRequest(t, "GET", srv.URL+"/boats/"+boat.ID.String(), signToken(t, "mallory"), "", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doRequest(t, "GET", srv.URL+"/boats/"+boat.ID.String(), signToken(t, "alice"), "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPutBoatSeeOther(t *testing.T) {
	srv, svc := newTestServer(t)
	boat := mustCreateBoat(t, svc, "Evening Star", "alice")

	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	req, err := http.NewRequest("PUT", srv.URL+"/boats/"+boat.ID.String(),
		strings.NewReader(`{"name": "Nightfall", "type": "Ketch", "length": 44}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signToken(t, "alice"))

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/boats/"+boat.ID.String(), resp.Header.Get("Location"))
}

func TestAttachDetachLoadRoutes(t *testing.T) {
	srv, svc := newTestServer(t)
	token := signToken(t, "alice")

	boat := mustCreateBoat(t, svc, "Evening Star", "alice")
	other := mustCreateBoat(t, svc, "Morning Star", "alice")
	load := mustCreateLoad(t, svc, "Rope")

	attachURL := fmt.Sprintf("%s/boats/%s/loads/%s", srv.URL, boat.ID, load.ID)
	resp := doRequest(t, "PUT", attachURL, token, "", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	t.Run("second attach is forbidden", func(t *testing.T) {
		url := fmt.Sprintf("%s/boats/%s/loads/%s", srv.URL, other.ID, load.ID)
		resp := doRequest(t, "PUT", url, token, "", nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("detach", func(t *testing.T) {
		resp := doRequest(t, "DELETE", attachURL, token, "", nil)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp = doRequest(t, "DELETE", attachURL, token, "", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestMethodNotAllowed(t *testing.T) {
	srv, svc := newTestServer(t)
	boat := mustCreateBoat(t, svc, "Evening Star", "alice")
	token := signToken(t, "alice")

	resp := doRequest(t, "DELETE", srv.URL+"/boats", token, "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, "GET, POST", resp.Header.Get("Allow"))

	resp = doRequest(t, "POST", srv.URL+"/boats/"+boat.ID.String(), token, `{}`, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, "GET, PUT, PATCH, DELETE", resp.Header.Get("Allow"))
}

func TestContentNegotiation(t *testing.T) {
	srv, _ := newTestServer(t)
	token := signToken(t, "alice")

	t.Run("unsupported accept", func(t *testing.T) {
		resp := doRequest(t, "GET", srv.URL+"/boats", token, "", map[string]string{
			"Accept": "text/html",
		})
		assert.Equal(t, http.StatusNotAcceptable, resp.StatusCode)
	})

	t.Run("wildcard accept", func(t *testing.T) {
		resp := doRequest(t, "GET", srv.URL+"/boats", token, "", map[string]string{
			"Accept": "text/html, */*",
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("unsupported content type", func(t *testing.T) {
		resp := doRequest(t, "POST", srv.URL+"/boats", token,
			`{"name": "Plain", "type": "Sloop", "length": 30}`, map[string]string{
				"Content-Type": "text/plain",
			})
		assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
	})
}

func TestLoadRoutes(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doRequest(t, "POST", srv.URL+"/loads", "",
		`{"item": "LEGO Blocks", "volume": 4, "creation_date": "10/01/2025"}`, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "LEGO Blocks", body["item"])
	assert.Nil(t, body["carrier"])
	require.Contains(t, body, "id")

	t.Run("list paginates", func(t *testing.T) {
		for i := 0; i < 6; i++ {
			resp := doRequest(t, "POST", srv.URL+"/loads", "",
				`{"item": "Crate", "volume": 1, "creation_date": "10/01/2025"}`, nil)
			require.Equal(t, http.StatusCreated, resp.StatusCode)
		}

		resp := doRequest(t, "GET", srv.URL+"/loads", "", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, json.Number("7"), body["total"])
		assert.Len(t, body["loads"], 5)
		assert.Contains(t, body["next"], "offset=5")
	})

	t.Run("invalid limit", func(t *testing.T) {
		resp := doRequest(t, "GET", srv.URL+"/loads?limit=500", "", "", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestOwnerBoatsPublicView(t *testing.T) {
	srv, svc := newTestServer(t)

	hidden := mustCreateBoat(t, svc, "Hidden", "alice")
	_ = hidden

	shown := &marina.Boat{Name: "Shown", Type: "Sloop", Length: 30, Owner: "alice", Public: true}
	require.NoError(t, svc.CreateBoat(context.Background(), shown))

	resp := doRequest(t, "GET", srv.URL+"/owners/alice/boats", "", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var boats []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&boats))
	require.Len(t, boats, 1)
	assert.Equal(t, "Shown", boats[0]["name"])
}

func TestSlipRoutes(t *testing.T) {
	srv, svc := newTestServer(t)
	boat := mustCreateBoat(t, svc, "Evening Star", "alice")

	resp := doRequest(t, "POST", srv.URL+"/slips", "", `{"number": 7}`, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, json.Number("7"), body["number"])
	assert.Nil(t, body["current_boat"])

	slipID := fmt.Sprintf("%v", body["id"])

	t.Run("assign and release", func(t *testing.T) {
		url := fmt.Sprintf("%s/slips/%s/%s", srv.URL, slipID, boat.ID)
		resp := doRequest(t, "PUT", url, "", "", nil)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp = doRequest(t, "GET", srv.URL+"/slips/"+slipID, "", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		require.NotNil(t, body["current_boat"])

		resp = doRequest(t, "DELETE", url, "", "", nil)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp = doRequest(t, "DELETE", url, "", "", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("list is a bare array", func(t *testing.T) {
		resp := doRequest(t, "GET", srv.URL+"/slips", "", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var slips []map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&slips))
		require.Len(t, slips, 1)
	})
}
