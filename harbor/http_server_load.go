package harbor

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/marinadb/marina"
	kithttp "github.com/marinadb/marina/kit/transport/http"
)

const loadsPath = "/loads"

// loadHandler serves the load collection. Loads carry no owner and no
// route here requires authentication.
type loadHandler struct {
	chi.Router
	api *kithttp.API
	svc *Service
}

func newLoadHandler(api *kithttp.API, svc *Service) *loadHandler {
	h := &loadHandler{
		api: api,
		svc: svc,
	}

	r := chi.NewRouter()

	r.Post("/", h.handlePostLoad)
	r.Get("/", h.handleGetLoads)
	r.MethodNotAllowed(notAllowedHandler(api, "GET, POST"))

	r.Route("/{loadID}", func(r chi.Router) {
		r.Get("/", h.handleGetLoad)
		r.Put("/", h.handlePutLoad)
		r.Patch("/", h.handlePatchLoad)
		r.Delete("/", h.handleDeleteLoad)
		r.MethodNotAllowed(notAllowedHandler(api, "GET, PUT, PATCH, DELETE"))
	})

	h.Router = r
	return h
}

// carrierRef is the load-side rendering of the boat a load is aboard.
type carrierRef struct {
	ID   marina.ID `json:"id"`
	Name string    `json:"name"`
	Self string    `json:"self"`
}

// loadResponse decorates a load with link fields. The outer Carrier
// field shadows the stored reference so it renders with a self link,
// or as null when the load is unassigned.
type loadResponse struct {
	marina.Load
	Carrier *carrierRef `json:"carrier"`
	Self    string      `json:"self"`
}

func newLoadResponse(l *marina.Load) *loadResponse {
	resp := &loadResponse{
		Load: *l,
		Self: loadsPath + "/" + l.ID.String(),
	}

	if l.Carrier != nil {
		resp.Carrier = &carrierRef{
			ID:   l.Carrier.ID,
			Name: l.Carrier.Name,
			Self: boatsPath + "/" + l.Carrier.ID.String(),
		}
	}

	return resp
}

type loadsResponse struct {
	Loads []*loadResponse `json:"loads"`
	Total int             `json:"total"`
	*marina.PagingLinks
}

func (h *loadHandler) handlePostLoad(w http.ResponseWriter, r *http.Request) {
	f, err := decodeFields(r.Body)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	load, err := loadFromFields(f)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	if err := h.svc.CreateLoad(r.Context(), load); err != nil {
		h.api.Err(w, r, err)
		return
	}

	h.api.Respond(w, r, http.StatusCreated, newLoadResponse(load))
}

func (h *loadHandler) handleGetLoads(w http.ResponseWriter, r *http.Request) {
	opts, err := decodeFindOptions(r)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	loads, total, err := h.svc.FindLoads(r.Context(), *opts)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	resp := loadsResponse{
		Loads:       []*loadResponse{},
		Total:       total,
		PagingLinks: newPagingLinks(loadsPath, *opts, nil, len(loads)),
	}
	for _, l := range loads {
		resp.Loads = append(resp.Loads, newLoadResponse(l))
	}

	h.api.Respond(w, r, http.StatusOK, resp)
}

func (h *loadHandler) handleGetLoad(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, "loadID")
	if err != nil {
		h.api.Err(w, r, ErrLoadNotFound)
		return
	}

	load, err := h.svc.FindLoadByID(r.Context(), id)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	h.api.Respond(w, r, http.StatusOK, newLoadResponse(load))
}

func (h *loadHandler) handlePutLoad(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, "loadID")
	if err != nil {
		h.api.Err(w, r, ErrLoadNotFound)
		return
	}

	f, err := decodeFields(r.Body)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	replacement, err := loadFromFields(f)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	load, err := h.svc.ReplaceLoad(r.Context(), id, replacement)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	w.Header().Set("Location", loadsPath+"/"+load.ID.String())
	h.api.Respond(w, r, http.StatusSeeOther, nil)
}

func (h *loadHandler) handlePatchLoad(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, "loadID")
	if err != nil {
		h.api.Err(w, r, ErrLoadNotFound)
		return
	}

	f, err := decodeFields(r.Body)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	upd, err := loadUpdateFromFields(f)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	load, err := h.svc.UpdateLoad(r.Context(), id, upd)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	h.api.Respond(w, r, http.StatusOK, newLoadResponse(load))
}

func (h *loadHandler) handleDeleteLoad(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, "loadID")
	if err != nil {
		h.api.Err(w, r, ErrLoadNotFound)
		return
	}

	if err := h.svc.DeleteLoad(r.Context(), id); err != nil {
		h.api.Err(w, r, err)
		return
	}

	h.api.Respond(w, r, http.StatusNoContent, nil)
}
