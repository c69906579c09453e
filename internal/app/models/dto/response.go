package dto

import "time"

// APIResponse is the envelope returned by every endpoint
type APIResponse struct {
	Success    bool            `json:"success" example:"true"`
	Message    string          `json:"message" example:"Applicant retrieved successfully."`
	Data       interface{}     `json:"data,omitempty"`
	Error      string          `json:"error,omitempty" example:"Not Found"`
	Pagination *PaginationInfo `json:"pagination,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
}

// ErrorResponse documents the failure shape of APIResponse
type ErrorResponse struct {
	Success   bool      `json:"success" example:"false"`
	Message   string    `json:"message" example:"Applicant not found."`
	Error     string    `json:"error" example:"Not Found"`
	Timestamp time.Time `json:"timestamp"`
}

// PaginationInfo describes one page of a list endpoint
type PaginationInfo struct {
	Page       int   `json:"page" example:"1"`
	Limit      int   `json:"limit" example:"10"`
	Total      int64 `json:"total" example:"42"`
	TotalPages int   `json:"totalPages" example:"5"`
	HasNext    bool  `json:"hasNext" example:"true"`
	HasPrev    bool  `json:"hasPrev" example:"false"`
}

// ListResult is one page of records plus its pagination metadata
type ListResult[T any] struct {
	Data       []T            `json:"data"`
	Pagination PaginationInfo `json:"pagination"`
}

// NewSuccessResponse wraps data in the success envelope
func NewSuccessResponse(message string, data interface{}) APIResponse {
	return APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// NewListResponse wraps a page of records and exposes the pagination at the top level
func NewListResponse[T any](message string, result *ListResult[T]) APIResponse {
	resp := NewSuccessResponse(message, result.Data)
	pagination := result.Pagination
	resp.Pagination = &pagination
	return resp
}

// NewErrorResponse builds the failure envelope. label is the HTTP status text.
func NewErrorResponse(label, message string) APIResponse {
	return APIResponse{
		Success:   false,
		Message:   message,
		Error:     label,
		Timestamp: time.Now(),
	}
}

// ServiceInfo is returned by the root endpoint
type ServiceInfo struct {
	Success       bool   `json:"success" example:"true"`
	Message       string `json:"message" example:"PMB Service - Student Management API"`
	Version       string `json:"version" example:"1.0.0"`
	Documentation string `json:"documentation" example:"/swagger/index.html"`
	Health        string `json:"health" example:"/api/v1/health"`
}
