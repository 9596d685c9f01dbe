package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/imf-ops/gadget-api/internal/api/types"
	"github.com/imf-ops/gadget-api/internal/services"
	appErr "github.com/imf-ops/gadget-api/pkg/errors"
)

type GadgetsHandler struct {
	svc services.GadgetService
}

func NewGadgetsHandler(svc services.GadgetService) *GadgetsHandler {
	return &GadgetsHandler{svc: svc}
}

// List godoc
// @Summary      List gadgets
// @Description  Each gadget carries a freshly computed missionSuccessProbability.
// @Tags         gadgets
// @Produce      json
// @Param        status  query     string  false  "AVAILABLE, DEPLOYED, DESTROYED or DECOMMISSIONED"
// @Success      200     {array}   services.GadgetView
// @Failure      401     {object}  types.APIResponse
// @Security     BearerAuth
// @Router       /gadgets [get]
func (h *GadgetsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListGadgets(r.Context(), services.GadgetFilters{Status: r.URL.Query().Get("status")})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Create godoc
// @Summary      Create a gadget
// @Tags         gadgets
// @Accept       json
// @Produce      json
// @Param        body  body      types.GadgetCreateRequest  true  "Gadget"
// @Success      201   {object}  types.GadgetResponse
// @Failure      400   {object}  types.APIResponse
// @Failure      401   {object}  types.APIResponse
// @Security     BearerAuth
// @Router       /gadgets [post]
func (h *GadgetsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req types.GadgetCreateRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, r, err)
		return
	}
	g, err := h.svc.CreateGadget(r.Context(), services.CreateGadgetInput{Name: req.Name})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

// Get godoc
// @Summary      Get a gadget
// @Tags         gadgets
// @Produce      json
// @Param        id   path      string  true  "Gadget id"
// @Success      200  {object}  types.GadgetResponse
// @Failure      401  {object}  types.APIResponse
// @Failure      404  {object}  types.APIResponse
// @Security     BearerAuth
// @Router       /gadgets/{id} [get]
func (h *GadgetsHandler) Get(w http.ResponseWriter, r *http.Request) {
	g, err := h.svc.GetGadget(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// Update godoc
// @Summary      Rename a gadget
// @Description  Only name can change. Status, codename and timestamps are ignored.
// @Tags         gadgets
// @Accept       json
// @Produce      json
// @Param        id    path      string                     true  "Gadget id"
// @Param        body  body      types.GadgetUpdateRequest  true  "Changes"
// @Success      200   {object}  types.GadgetResponse
// @Failure      400   {object}  types.APIResponse
// @Failure      401   {object}  types.APIResponse
// @Failure      404   {object}  types.APIResponse
// @Security     BearerAuth
// @Router       /gadgets/{id} [patch]
func (h *GadgetsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req types.GadgetUpdateRequest
	if err := decodeJSON(r, &req, true); err != nil {
		writeError(w, r, err)
		return
	}
	g, err := h.svc.UpdateGadget(r.Context(), chi.URLParam(r, "id"), services.UpdateGadgetInput{Name: req.Name})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// Decommission godoc
// @Summary      Decommission a gadget
// @Description  Soft delete. The record is kept with status DECOMMISSIONED.
// @Tags         gadgets
// @Produce      json
// @Param        id   path      string  true  "Gadget id"
// @Success      200  {object}  types.GadgetResponse
// @Failure      401  {object}  types.APIResponse
// @Failure      404  {object}  types.APIResponse
// @Failure      409  {object}  types.APIResponse
// @Security     BearerAuth
// @Router       /gadgets/{id} [delete]
func (h *GadgetsHandler) Decommission(w http.ResponseWriter, r *http.Request) {
	g, err := h.svc.DecommissionGadget(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// Deploy godoc
// @Summary      Deploy a gadget
// @Tags         gadgets
// @Produce      json
// @Param        id   path      string  true  "Gadget id"
// @Success      200  {object}  types.GadgetResponse
// @Failure      401  {object}  types.APIResponse
// @Failure      404  {object}  types.APIResponse
// @Failure      409  {object}  types.APIResponse
// @Security     BearerAuth
// @Router       /gadgets/{id}/deploy [post]
func (h *GadgetsHandler) Deploy(w http.ResponseWriter, r *http.Request) {
	g, err := h.svc.DeployGadget(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// SelfDestruct godoc
// @Summary      Two-phase self-destruct
// @Description  Without confirmationCode a challenge is returned and nothing changes.
// @Description  With a well-formed code the gadget is destroyed.
// @Tags         gadgets
// @Accept       json
// @Produce      json
// @Param        id    path      string                     true   "Gadget id"
// @Param        body  body      types.SelfDestructRequest  false  "Confirmation"
// @Success      200   {object}  types.SelfDestructResponse
// @Failure      400   {object}  types.APIResponse
// @Failure      401   {object}  types.APIResponse
// @Failure      404   {object}  types.APIResponse
// @Security     BearerAuth
// @Router       /gadgets/{id}/self-destruct [post]
func (h *GadgetsHandler) SelfDestruct(w http.ResponseWriter, r *http.Request) {
	var req types.SelfDestructRequest
	if err := decodeJSON(r, &req, true); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.svc.SelfDestruct(r.Context(), chi.URLParam(r, "id"), req.ConfirmationCode)
	if err != nil {
		// Destroying twice is a bad request on this endpoint.
		if appErr.IsCode(err, appErr.CodeConflict) {
			writeErrorStatus(w, r, http.StatusBadRequest, err)
			return
		}
		writeError(w, r, err)
		return
	}

	if res.Gadget == nil {
		writeJSON(w, http.StatusOK, types.SelfDestructChallengeResponse{ExpectedCode: res.ExpectedCode})
		return
	}
	writeJSON(w, http.StatusOK, types.SelfDestructResponse{Message: services.SelfDestructMessage, Gadget: res.Gadget})
}
