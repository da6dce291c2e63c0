package harbor

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/marinadb/marina"
	kithttp "github.com/marinadb/marina/kit/transport/http"
)

// ownerHandler serves the unauthenticated public view of an owner's
// fleet. Only boats marked public appear.
type ownerHandler struct {
	chi.Router
	api *kithttp.API
	svc *Service
}

func newOwnerHandler(api *kithttp.API, svc *Service) *ownerHandler {
	h := &ownerHandler{
		api: api,
		svc: svc,
	}

	r := chi.NewRouter()
	r.Get("/{ownerID}/boats", h.handleGetOwnerBoats)
	r.MethodNotAllowed(notAllowedHandler(api, "GET"))

	h.Router = r
	return h
}

func (h *ownerHandler) handleGetOwnerBoats(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "ownerID")
	public := true

	filter := marina.BoatFilter{
		Owner:  &owner,
		Public: &public,
	}

	boats, _, err := h.svc.FindBoats(r.Context(), filter, marina.FindOptions{Limit: marina.MaxPageSize})
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	resp := []*boatResponse{}
	for _, b := range boats {
		resp = append(resp, newBoatResponse(b))
	}

	h.api.Respond(w, r, http.StatusOK, resp)
}
