package dto

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ErrSyncDataNotArray is returned when the sync body has no "data" array
var ErrSyncDataNotArray = errors.New(`"data" must be an array`)

// SyncRequest is the body of the bulk sync endpoints.
// Records stay raw so that a malformed element only fails itself.
type SyncRequest struct {
	Data json.RawMessage `json:"data" swaggertype:"array,object"`
}

// Records splits the data array into its elements
func (r *SyncRequest) Records() ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(r.Data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrSyncDataNotArray
	}

	var records []json.RawMessage
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, ErrSyncDataNotArray
	}
	return records, nil
}
