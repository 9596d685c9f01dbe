package types

import "github.com/imf-ops/gadget-api/internal/models"

// APIResponse is the envelope for errors and operational endpoints.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

type APIError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type Meta struct {
	RequestID string `json:"requestId,omitempty"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

// GadgetResponse documents the gadget shape for swagger.
type GadgetResponse = models.Gadget

type SelfDestructChallengeResponse struct {
	ExpectedCode string `json:"expectedCode" example:"a1b2c3"`
}

type SelfDestructResponse struct {
	Message string         `json:"message"`
	Gadget  *models.Gadget `json:"gadget"`
}
