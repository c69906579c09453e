package dto

// CreateAPIKeyRequest is the body of POST /api-keys
type CreateAPIKeyRequest struct {
	Name string `json:"name" binding:"required,notblank" example:"Registrar integration"`
}
