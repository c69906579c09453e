package dto

import (
	"time"

	"github.com/pmb/admissions/internal/app/models"
)

// CreateApplicantRequest is the body of POST /applicants
type CreateApplicantRequest struct {
	RegistrationNumber string     `json:"registrationNumber" binding:"required,notblank" example:"REG-2025-001"`
	FullName           string     `json:"fullName" binding:"required,notblank" example:"Ahmad Fauzi"`
	MajorChoice1       string     `json:"majorChoice1" binding:"required,notblank" example:"Teknik Informatika"`
	AdmissionPath      *string    `json:"admissionPath" example:"Reguler"`
	MajorChoice2       *string    `json:"majorChoice2"`
	MajorChoice3       *string    `json:"majorChoice3"`
	MajorChoice4       *string    `json:"majorChoice4"`
	Email              *string    `json:"email" binding:"omitempty,email" example:"ahmad.fauzi@example.com"`
	Phone              *string    `json:"phone"`
	GraduationYear     *int       `json:"graduationYear" binding:"omitempty,gte=1900,lte=2100" example:"2025"`
	Gender             *string    `json:"gender"`
	SchoolOrigin       *string    `json:"schoolOrigin"`
	SchoolMajor        *string    `json:"schoolMajor"`
	Ranking            *int       `json:"ranking" binding:"omitempty,gte=0"`
	ParentName         *string    `json:"parentName"`
	ParentPhone        *string    `json:"parentPhone"`
	Religion           *string    `json:"religion"`
	ColorBlind         bool       `json:"colorBlind"`
	Province           *string    `json:"province"`
	City               *string    `json:"city"`
	Village            *string    `json:"village"`
	District           *string    `json:"district"`
	PostalCode         *string    `json:"postalCode"`
	HomeAddress        *string    `json:"homeAddress"`
	Agent              *string    `json:"agent"`
	LoaPublished       bool       `json:"loaPublished"`
	LoaDate            *time.Time `json:"loaDate"`
	NIM                *string    `json:"nim" binding:"omitempty,nim" example:"2025110001"`
}

// ToApplicant converts the request into a new record
func (r *CreateApplicantRequest) ToApplicant() *models.Applicant {
	return &models.Applicant{
		RegistrationNumber: r.RegistrationNumber,
		FullName:           r.FullName,
		AdmissionPath:      r.AdmissionPath,
		MajorChoice1:       r.MajorChoice1,
		MajorChoice2:       r.MajorChoice2,
		MajorChoice3:       r.MajorChoice3,
		MajorChoice4:       r.MajorChoice4,
		Email:              r.Email,
		Phone:              r.Phone,
		GraduationYear:     r.GraduationYear,
		Gender:             r.Gender,
		SchoolOrigin:       r.SchoolOrigin,
		SchoolMajor:        r.SchoolMajor,
		Ranking:            r.Ranking,
		ParentName:         r.ParentName,
		ParentPhone:        r.ParentPhone,
		Religion:           r.Religion,
		ColorBlind:         r.ColorBlind,
		Province:           r.Province,
		City:               r.City,
		Village:            r.Village,
		District:           r.District,
		PostalCode:         r.PostalCode,
		HomeAddress:        r.HomeAddress,
		Agent:              r.Agent,
		LoaPublished:       r.LoaPublished,
		LoaDate:            r.LoaDate,
		NIM:                r.NIM,
	}
}

// ConvertApplicantRequest is the body of POST /applicants/:id/convert
type ConvertApplicantRequest struct {
	NIM string `json:"nim" example:"2025110001"`
}
