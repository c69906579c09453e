package models

// SortOrder is either asc or desc
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ApplicantFilter drives the applicant list query
type ApplicantFilter struct {
	Page          int
	Limit         int
	Search        string
	AdmissionPath *string
	MajorChoice1  *string
	LoaPublished  *bool
	HasNIM        *bool
	SortBy        string
	SortOrder     SortOrder
}

// StudyProgramFilter drives the study program list query
type StudyProgramFilter struct {
	Page      int
	Limit     int
	Search    string
	IsActive  *bool
	LevelID   *string
	FacultyID *string
	SortBy    string
	SortOrder SortOrder
}

// SyncError records why one record of a bulk sync was rejected.
// Key is the natural key or "#<index>" when the record had none.
// RegistrationNumber repeats the key for applicant syncs, where existing clients read that field.
type SyncError struct {
	Key                string `json:"key" example:"REG-2025-001"`
	RegistrationNumber string `json:"registrationNumber,omitempty" example:"REG-2025-001"`
	Error              string `json:"error" example:"fullName is required"`
}

// SyncResult summarises a bulk sync
type SyncResult struct {
	Created int         `json:"created"`
	Updated int         `json:"updated"`
	Errors  []SyncError `json:"errors"`
}
