package types

// Request bodies. Validation happens in the services so the same rules apply
// to every caller.

type RegisterRequest struct {
	Email    string `json:"email" example:"agent@imf.com"`
	Password string `json:"password" example:"secret123"`
}

type LoginRequest struct {
	Email    string `json:"email" example:"agent@imf.com"`
	Password string `json:"password" example:"secret123"`
}

type GadgetCreateRequest struct {
	Name string `json:"name" example:"Exploding Pen"`
}

// GadgetUpdateRequest only carries name; other fields in the body are ignored.
type GadgetUpdateRequest struct {
	Name *string `json:"name,omitempty" example:"Laser Watch"`
}

type SelfDestructRequest struct {
	ConfirmationCode string `json:"confirmationCode,omitempty" example:"a1b2c3"`
}
