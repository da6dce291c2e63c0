package harbor

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/marinadb/marina"
	"github.com/marinadb/marina/jsonweb"
	kithttp "github.com/marinadb/marina/kit/transport/http"
)

const boatsPath = "/boats"

// boatHandler serves the boat collection. Every route requires a
// verified bearer token; the token subject is the acting owner.
type boatHandler struct {
	chi.Router
	api *kithttp.API
	svc *Service
}

func newBoatHandler(api *kithttp.API, svc *Service, parser *jsonweb.TokenParser) *boatHandler {
	h := &boatHandler{
		api: api,
		svc: svc,
	}

	r := chi.NewRouter()
	r.Use(RequireAuth(api, parser))

	r.Post("/", h.handlePostBoat)
	r.Get("/", h.handleGetBoats)
	r.MethodNotAllowed(notAllowedHandler(api, "GET, POST"))

	r.Route("/{boatID}", func(r chi.Router) {
		r.Get("/", h.handleGetBoat)
		r.Put("/", h.handlePutBoat)
		r.Patch("/", h.handlePatchBoat)
		r.Delete("/", h.handleDeleteBoat)
		r.MethodNotAllowed(notAllowedHandler(api, "GET, PUT, PATCH, DELETE"))

		r.Route("/loads", func(r chi.Router) {
			r.Get("/", h.handleGetBoatLoads)
			r.MethodNotAllowed(notAllowedHandler(api, "GET"))

			r.Route("/{loadID}", func(r chi.Router) {
				r.Put("/", h.handleAttachLoad)
				r.Delete("/", h.handleDetachLoad)
				r.MethodNotAllowed(notAllowedHandler(api, "PUT, DELETE"))
			})
		})
	})

	h.Router = r
	return h
}

// loadRef is the boat-side rendering of a carried load.
type loadRef struct {
	ID   marina.ID `json:"id"`
	Self string    `json:"self"`
}

// boatResponse decorates a boat with link fields. The outer Loads
// field shadows the embedded ID slice so carried loads render as
// references.
type boatResponse struct {
	marina.Boat
	Loads []loadRef `json:"loads"`
	Self  string    `json:"self"`
}

func newBoatResponse(b *marina.Boat) *boatResponse {
	refs := []loadRef{}
	for _, id := range b.Loads {
		refs = append(refs, loadRef{
			ID:   id,
			Self: loadsPath + "/" + id.String(),
		})
	}

	return &boatResponse{
		Boat:  *b,
		Loads: refs,
		Self:  boatsPath + "/" + b.ID.String(),
	}
}

type boatsResponse struct {
	Boats []*boatResponse `json:"boats"`
	Total int             `json:"total"`
	*marina.PagingLinks
}

func (h *boatHandler) handlePostBoat(w http.ResponseWriter, r *http.Request) {
	subject, err := SubjectFromContext(r.Context())
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	f, err := decodeFields(r.Body)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	boat, err := boatFromFields(f)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}
	boat.Owner = subject

	if err := h.svc.CreateBoat(r.Context(), boat); err != nil {
		h.api.Err(w, r, err)
		return
	}

	h.api.Respond(w, r, http.StatusCreated, newBoatResponse(boat))
}

func (h *boatHandler) handleGetBoats(w http.ResponseWriter, r *http.Request) {
	subject, err := SubjectFromContext(r.Context())
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	opts, err := decodeFindOptions(r)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	filter := marina.BoatFilter{Owner: &subject}
	boats, total, err := h.svc.FindBoats(r.Context(), filter, *opts)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	resp := boatsResponse{
		Boats:       []*boatResponse{},
		Total:       total,
		PagingLinks: newPagingLinks(boatsPath, *opts, nil, len(boats)),
	}
	for _, b := range boats {
		resp.Boats = append(resp.Boats, newBoatResponse(b))
	}

	h.api.Respond(w, r, http.StatusOK, resp)
}

func (h *boatHandler) handleGetBoat(w http.ResponseWriter, r *http.Request) {
	subject, err := SubjectFromContext(r.Context())
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	id, err := idFromPath(r, "boatID")
	if err != nil {
		h.api.Err(w, r, ErrBoatNotFound)
		return
	}

	boat, err := h.svc.FindBoatByID(r.Context(), id, subject)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	h.api.Respond(w, r, http.StatusOK, newBoatResponse(boat))
}

func (h *boatHandler) handlePutBoat(w http.ResponseWriter, r *http.Request) {
	subject, err := SubjectFromContext(r.Context())
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	id, err := idFromPath(r, "boatID")
	if err != nil {
		h.api.Err(w, r, ErrBoatNotFound)
		return
	}

	f, err := decodeFields(r.Body)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	replacement, err := boatFromFields(f)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	boat, err := h.svc.ReplaceBoat(r.Context(), id, replacement, subject)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	w.Header().Set("Location", boatsPath+"/"+boat.ID.String())
	h.api.Respond(w, r, http.StatusSeeOther, nil)
}

func (h *boatHandler) handlePatchBoat(w http.ResponseWriter, r *http.Request) {
	subject, err := SubjectFromContext(r.Context())
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	id, err := idFromPath(r, "boatID")
	if err != nil {
		h.api.Err(w, r, ErrBoatNotFound)
		return
	}

	f, err := decodeFields(r.Body)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	upd, err := boatUpdateFromFields(f)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	boat, err := h.svc.UpdateBoat(r.Context(), id, upd, subject)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	h.api.Respond(w, r, http.StatusOK, newBoatResponse(boat))
}

func (h *boatHandler) handleDeleteBoat(w http.ResponseWriter, r *http.Request) {
	subject, err := SubjectFromContext(r.Context())
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	id, err := idFromPath(r, "boatID")
	if err != nil {
		h.api.Err(w, r, ErrBoatNotFound)
		return
	}

	if err := h.svc.DeleteBoat(r.Context(), id, subject); err != nil {
		h.api.Err(w, r, err)
		return
	}

	h.api.Respond(w, r, http.StatusNoContent, nil)
}

func (h *boatHandler) handleGetBoatLoads(w http.ResponseWriter, r *http.Request) {
	subject, err := SubjectFromContext(r.Context())
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	id, err := idFromPath(r, "boatID")
	if err != nil {
		h.api.Err(w, r, ErrBoatNotFound)
		return
	}

	boat, err := h.svc.FindBoatByID(r.Context(), id, subject)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	var resp struct {
		Self  string          `json:"self"`
		Loads []*loadResponse `json:"loads"`
	}
	resp.Self = boatsPath + "/" + boat.ID.String() + "/loads"
	resp.Loads = []*loadResponse{}

	for _, loadID := range boat.Loads {
		l, err := h.svc.FindLoadByID(r.Context(), loadID)
		if err != nil {
			h.api.Err(w, r, err)
			return
		}
		resp.Loads = append(resp.Loads, newLoadResponse(l))
	}

	h.api.Respond(w, r, http.StatusOK, resp)
}

func (h *boatHandler) handleAttachLoad(w http.ResponseWriter, r *http.Request) {
	subject, err := SubjectFromContext(r.Context())
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	boatID, err := idFromPath(r, "boatID")
	if err != nil {
		h.api.Err(w, r, ErrBoatOrLoadNotFound)
		return
	}

	loadID, err := idFromPath(r, "loadID")
	if err != nil {
		h.api.Err(w, r, ErrBoatOrLoadNotFound)
		return
	}

	if err := h.svc.AttachLoad(r.Context(), boatID, loadID, subject); err != nil {
		h.api.Err(w, r, err)
		return
	}

	h.api.Respond(w, r, http.StatusNoContent, nil)
}

func (h *boatHandler) handleDetachLoad(w http.ResponseWriter, r *http.Request) {
	subject, err := SubjectFromContext(r.Context())
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	boatID, err := idFromPath(r, "boatID")
	if err != nil {
		h.api.Err(w, r, ErrBoatOrLoadNotFound)
		return
	}

	loadID, err := idFromPath(r, "loadID")
	if err != nil {
		h.api.Err(w, r, ErrBoatOrLoadNotFound)
		return
	}

	if err := h.svc.DetachLoad(r.Context(), boatID, loadID, subject); err != nil {
		h.api.Err(w, r, err)
		return
	}

	h.api.Respond(w, r, http.StatusNoContent, nil)
}
