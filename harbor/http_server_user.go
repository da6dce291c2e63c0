package harbor

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/marinadb/marina"
	kithttp "github.com/marinadb/marina/kit/transport/http"
)

const usersPath = "/users"

// userHandler serves the registered user directory.
type userHandler struct {
	chi.Router
	api *kithttp.API
	svc *Service
}

func newUserHandler(api *kithttp.API, svc *Service) *userHandler {
	h := &userHandler{
		api: api,
		svc: svc,
	}

	r := chi.NewRouter()
	r.Get("/", h.handleGetUsers)
	r.MethodNotAllowed(notAllowedHandler(api, "GET"))

	h.Router = r
	return h
}

type userResponse struct {
	marina.User
	Self string `json:"self"`
}

func newUserResponse(u *marina.User) *userResponse {
	return &userResponse{
		User: *u,
		Self: usersPath + "/" + u.ID.String(),
	}
}

func (h *userHandler) handleGetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.FindUsers(r.Context())
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	var resp struct {
		Self  string          `json:"self"`
		Users []*userResponse `json:"users"`
	}
	resp.Self = usersPath
	resp.Users = []*userResponse{}

	for _, u := range users {
		resp.Users = append(resp.Users, newUserResponse(u))
	}

	h.api.Respond(w, r, http.StatusOK, resp)
}
