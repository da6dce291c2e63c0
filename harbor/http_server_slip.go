package harbor

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/marinadb/marina"
	kithttp "github.com/marinadb/marina/kit/transport/http"
)

const slipsPath = "/slips"

// slipHandler serves the slip collection and slip occupancy.
type slipHandler struct {
	chi.Router
	api *kithttp.API
	svc *Service
}

func newSlipHandler(api *kithttp.API, svc *Service) *slipHandler {
	h := &slipHandler{
		api: api,
		svc: svc,
	}

	r := chi.NewRouter()

	r.Post("/", h.handlePostSlip)
	r.Get("/", h.handleGetSlips)
	r.MethodNotAllowed(notAllowedHandler(api, "GET, POST"))

	r.Route("/{slipID}", func(r chi.Router) {
		r.Get("/", h.handleGetSlip)
		r.Patch("/", h.handlePatchSlip)
		r.Delete("/", h.handleDeleteSlip)
		r.MethodNotAllowed(notAllowedHandler(api, "GET, PATCH, DELETE"))

		r.Route("/{boatID}", func(r chi.Router) {
			r.Put("/", h.handleAssignBoat)
			r.Delete("/", h.handleReleaseBoat)
			r.MethodNotAllowed(notAllowedHandler(api, "PUT, DELETE"))
		})
	})

	h.Router = r
	return h
}

// boatRef is the slip-side rendering of the docked boat.
type boatRef struct {
	ID   marina.ID `json:"id"`
	Self string    `json:"self"`
}

// slipResponse decorates a slip with link fields. The outer
// CurrentBoat field shadows the stored ID so occupancy renders as a
// reference, or as null when the slip is empty.
type slipResponse struct {
	marina.Slip
	CurrentBoat *boatRef `json:"current_boat"`
	Self        string   `json:"self"`
}

func newSlipResponse(sl *marina.Slip) *slipResponse {
	resp := &slipResponse{
		Slip: *sl,
		Self: slipsPath + "/" + sl.ID.String(),
	}

	if sl.CurrentBoat != nil {
		resp.CurrentBoat = &boatRef{
			ID:   *sl.CurrentBoat,
			Self: boatsPath + "/" + sl.CurrentBoat.String(),
		}
	}

	return resp
}

func (h *slipHandler) handlePostSlip(w http.ResponseWriter, r *http.Request) {
	f, err := decodeFields(r.Body)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	slip, err := slipFromFields(f)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	if err := h.svc.CreateSlip(r.Context(), slip); err != nil {
		h.api.Err(w, r, err)
		return
	}

	h.api.Respond(w, r, http.StatusCreated, newSlipResponse(slip))
}

func (h *slipHandler) handleGetSlips(w http.ResponseWriter, r *http.Request) {
	slips, err := h.svc.FindSlips(r.Context())
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	resp := []*slipResponse{}
	for _, sl := range slips {
		resp = append(resp, newSlipResponse(sl))
	}

	h.api.Respond(w, r, http.StatusOK, resp)
}

func (h *slipHandler) handleGetSlip(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, "slipID")
	if err != nil {
		h.api.Err(w, r, ErrSlipNotFound)
		return
	}

	slip, err := h.svc.FindSlipByID(r.Context(), id)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	h.api.Respond(w, r, http.StatusOK, newSlipResponse(slip))
}

func (h *slipHandler) handlePatchSlip(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, "slipID")
	if err != nil {
		h.api.Err(w, r, ErrSlipNotFound)
		return
	}

	f, err := decodeFields(r.Body)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	upd, err := slipUpdateFromFields(f)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	slip, err := h.svc.UpdateSlip(r.Context(), id, upd)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	h.api.Respond(w, r, http.StatusOK, newSlipResponse(slip))
}

func (h *slipHandler) handleDeleteSlip(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, "slipID")
	if err != nil {
		h.api.Err(w, r, ErrSlipNotFound)
		return
	}

	if err := h.svc.DeleteSlip(r.Context(), id); err != nil {
		h.api.Err(w, r, err)
		return
	}

	h.api.Respond(w, r, http.StatusNoContent, nil)
}

func (h *slipHandler) handleAssignBoat(w http.ResponseWriter, r *http.Request) {
	slipID, err := idFromPath(r, "slipID")
	if err != nil {
		h.api.Err(w, r, ErrBoatOrSlipNotFound)
		return
	}

	boatID, err := idFromPath(r, "boatID")
	if err != nil {
		h.api.Err(w, r, ErrBoatOrSlipNotFound)
		return
	}

	if err := h.svc.AssignBoat(r.Context(), slipID, boatID); err != nil {
		h.api.Err(w, r, err)
		return
	}

	h.api.Respond(w, r, http.StatusNoContent, nil)
}

func (h *slipHandler) handleReleaseBoat(w http.ResponseWriter, r *http.Request) {
	slipID, err := idFromPath(r, "slipID")
	if err != nil {
		h.api.Err(w, r, ErrBoatOrSlipNotFound)
		return
	}

	boatID, err := idFromPath(r, "boatID")
	if err != nil {
		h.api.Err(w, r, ErrBoatOrSlipNotFound)
		return
	}

	if err := h.svc.ReleaseBoat(r.Context(), slipID, boatID); err != nil {
		h.api.Err(w, r, err)
		return
	}

	h.api.Respond(w, r, http.StatusNoContent, nil)
}
