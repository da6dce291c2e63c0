package session

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	jwt "github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/marinadb/marina"
	"github.com/marinadb/marina/jsonweb"
	kithttp "github.com/marinadb/marina/kit/transport/http"
)

// Config carries everything the sign-in flow needs: the provider
// client, where to fetch the profile, and the key used to mint bearer
// tokens for the resource API.
type Config struct {
	OAuth       *oauth2.Config
	UserInfoURL string

	TokenKeyID    string
	TokenKey      []byte
	TokenDuration time.Duration
}

// HTTPHandler is the HTTP surface for the sign-in flow.
type HTTPHandler struct {
	chi.Router

	log    *zap.Logger
	api    *kithttp.API
	users  marina.UserService
	store  *Store
	tokens marina.TokenGenerator
	config Config
	now    func() time.Time
}

// NewHTTPHandler mounts /login and /oauth.
func NewHTTPHandler(log *zap.Logger, users marina.UserService, store *Store, tokens marina.TokenGenerator, config Config) *HTTPHandler {
	if config.TokenDuration <= 0 {
		config.TokenDuration = time.Hour
	}

	h := &HTTPHandler{
		log:    log,
		api:    kithttp.NewAPI(kithttp.WithLog(log)),
		users:  users,
		store:  store,
		tokens: tokens,
		config: config,
		now:    time.Now,
	}

	r := chi.NewRouter()
	r.Get("/login", h.handleLogin)
	r.Get("/oauth", h.handleCallback)

	h.Router = r
	return h
}

func (h *HTTPHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	state, err := h.tokens.Token()
	if err != nil {
		h.api.Err(w, r, &marina.Error{Code: marina.EInternal, Err: err})
		return
	}

	if err := h.store.PutState(r.Context(), state); err != nil {
		h.api.Err(w, r, err)
		return
	}

	http.Redirect(w, r, h.config.OAuth.AuthCodeURL(state), http.StatusFound)
}

// userInfo is the subset of the provider's profile response we keep.
type userInfo struct {
	Sub        string `json:"sub"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
}

type sessionResponse struct {
	Token string       `json:"token"`
	User  *marina.User `json:"user"`
}

func (h *HTTPHandler) handleCallback(w http.ResponseWriter, r *http.Request) {
	qp := r.URL.Query()

	state := qp.Get("state")
	if state == "" {
		h.api.Err(w, r, ErrInvalidState)
		return
	}
	if err := h.store.ConsumeState(r.Context(), state); err != nil {
		h.api.Err(w, r, err)
		return
	}

	code := qp.Get("code")
	if code == "" {
		h.api.Err(w, r, &marina.Error{
			Code: marina.EUnauthorized,
			Msg:  "the provider returned no authorization code",
		})
		return
	}

	tok, err := h.config.OAuth.Exchange(r.Context(), code)
	if err != nil {
		h.api.Err(w, r, &marina.Error{
			Code: marina.EUnauthorized,
			Msg:  "code exchange with the identity provider failed",
			Err:  err,
		})
		return
	}

	info, err := h.fetchUserInfo(r, tok)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	user, err := h.users.FindUserBySub(r.Context(), info.Sub)
	if marina.ErrorCode(err) == marina.ENotFound {
		user = &marina.User{
			Sub:   info.Sub,
			First: info.GivenName,
			Last:  info.FamilyName,
		}
		err = h.users.CreateUser(r.Context(), user)
	}
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	bearer, err := h.signToken(user.Sub)
	if err != nil {
		h.api.Err(w, r, &marina.Error{Code: marina.EInternal, Err: err})
		return
	}

	h.api.Respond(w, r, http.StatusOK, sessionResponse{
		Token: bearer,
		User:  user,
	})
}

func (h *HTTPHandler) fetchUserInfo(r *http.Request, tok *oauth2.Token) (*userInfo, error) {
	client := h.config.OAuth.Client(r.Context(), tok)

	resp, err := client.Get(h.config.UserInfoURL)
	if err != nil {
		return nil, &marina.Error{
			Code: marina.EInternal,
			Msg:  "unable to reach the identity provider",
			Err:  err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &marina.Error{
			Code: marina.EUnauthorized,
			Msg:  "the identity provider rejected the profile request",
		}
	}

	info := &userInfo{}
	if err := json.NewDecoder(resp.Body).Decode(info); err != nil {
		return nil, &marina.Error{
			Code: marina.EInternal,
			Msg:  "malformed profile response from the identity provider",
			Err:  err,
		}
	}

	if info.Sub == "" {
		return nil, &marina.Error{
			Code: marina.EUnauthorized,
			Msg:  "the identity provider returned no subject identifier",
		}
	}

	return info, nil
}

// signToken mints the HS256 bearer token the resource API verifies
// through its jsonweb parser.
func (h *HTTPHandler) signToken(sub string) (string, error) {
	now := h.now()

	claims := &jsonweb.Token{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(h.config.TokenDuration)),
		},
		KeyID: h.config.TokenKeyID,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.config.TokenKey)
}
