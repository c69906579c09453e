package models

import "time"

// APIKeyPrefix is prepended to every generated token
const APIKeyPrefix = "pmb_"

// APIKey is a static credential sent in the x-api-key header
type APIKey struct {
	ID        string    `json:"id" example:"0b9c7d2e-3f41-4a8e-9a4e-2c1f0e6b7d55"`
	Name      string    `json:"name" example:"Registrar integration"`
	APIKey    string    `json:"apiKey" example:"pmb_4f3c2a1b0e9d8c7b6a5f4e3d2c1b0a99"`
	IsActive  bool      `json:"isActive" example:"true"`
	CreatedAt time.Time `json:"createdAt"`
}
