package handlers

import (
	"net/http"

	"github.com/imf-ops/gadget-api/internal/api/types"
	"github.com/imf-ops/gadget-api/internal/services"
)

type AuthHandler struct {
	auth services.AuthService
}

func NewAuthHandler(auth services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register godoc
// @Summary      Register an agent
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      types.RegisterRequest  true  "Credentials"
// @Success      201   {object}  types.TokenResponse
// @Failure      400   {object}  types.APIResponse
// @Failure      409   {object}  types.APIResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req types.RegisterRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, r, err)
		return
	}

	token, err := h.auth.Register(r.Context(), services.RegisterInput{Email: req.Email, Password: req.Password})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, types.TokenResponse{Token: token})
}

// Login godoc
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      types.LoginRequest  true  "Credentials"
// @Success      200   {object}  types.TokenResponse
// @Failure      400   {object}  types.APIResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, r, err)
		return
	}

	token, err := h.auth.Login(r.Context(), services.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, types.TokenResponse{Token: token})
}
