package models

import "time"

// Applicant is a prospective student. An applicant that holds a NIM is an enrolled student.
type Applicant struct {
	ID                 string     `json:"id"`
	RegistrationNumber string     `json:"registrationNumber" example:"REG-2025-001"`
	FullName           string     `json:"fullName" example:"Ahmad Fauzi"`
	AdmissionPath      *string    `json:"admissionPath" example:"Reguler"`
	MajorChoice1       string     `json:"majorChoice1" example:"Teknik Informatika"`
	MajorChoice2       *string    `json:"majorChoice2"`
	MajorChoice3       *string    `json:"majorChoice3"`
	MajorChoice4       *string    `json:"majorChoice4"`
	Email              *string    `json:"email" example:"ahmad.fauzi@example.com"`
	Phone              *string    `json:"phone"`
	GraduationYear     *int       `json:"graduationYear" example:"2025"`
	Gender             *string    `json:"gender"`
	SchoolOrigin       *string    `json:"schoolOrigin"`
	SchoolMajor        *string    `json:"schoolMajor"`
	Ranking            *int       `json:"ranking"`
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
	NIM                *string    `json:"nim" example:"2025110001"`
	ConvertedAt        *time.Time `json:"convertedAt"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// IsStudent reports whether the applicant has been converted
func (a *Applicant) IsStudent() bool {
	return a.NIM != nil && *a.NIM != ""
}

// ApplicantPatch holds the fields of a partial update. Nil fields are left untouched.
type ApplicantPatch struct {
	RegistrationNumber *string    `json:"registrationNumber" mapstructure:"registrationNumber"`
	FullName           *string    `json:"fullName" mapstructure:"fullName"`
	AdmissionPath      *string    `json:"admissionPath" mapstructure:"admissionPath"`
	MajorChoice1       *string    `json:"majorChoice1" mapstructure:"majorChoice1"`
	MajorChoice2       *string    `json:"majorChoice2" mapstructure:"majorChoice2"`
	MajorChoice3       *string    `json:"majorChoice3" mapstructure:"majorChoice3"`
	MajorChoice4       *string    `json:"majorChoice4" mapstructure:"majorChoice4"`
	Email              *string    `json:"email" mapstructure:"email" binding:"omitempty,email"`
	Phone              *string    `json:"phone" mapstructure:"phone"`
	GraduationYear     *int       `json:"graduationYear" mapstructure:"graduationYear" binding:"omitempty,gte=1900,lte=2100"`
	Gender             *string    `json:"gender" mapstructure:"gender"`
	SchoolOrigin       *string    `json:"schoolOrigin" mapstructure:"schoolOrigin"`
	SchoolMajor        *string    `json:"schoolMajor" mapstructure:"schoolMajor"`
	Ranking            *int       `json:"ranking" mapstructure:"ranking" binding:"omitempty,gte=0"`
	ParentName         *string    `json:"parentName" mapstructure:"parentName"`
	ParentPhone        *string    `json:"parentPhone" mapstructure:"parentPhone"`
	Religion           *string    `json:"religion" mapstructure:"religion"`
	ColorBlind         *bool      `json:"colorBlind" mapstructure:"colorBlind"`
	Province           *string    `json:"province" mapstructure:"province"`
	City               *string    `json:"city" mapstructure:"city"`
	Village            *string    `json:"village" mapstructure:"village"`
	District           *string    `json:"district" mapstructure:"district"`
	PostalCode         *string    `json:"postalCode" mapstructure:"postalCode"`
	HomeAddress        *string    `json:"homeAddress" mapstructure:"homeAddress"`
	Agent              *string    `json:"agent" mapstructure:"agent"`
	LoaPublished       *bool      `json:"loaPublished" mapstructure:"loaPublished"`
	LoaDate            *time.Time `json:"loaDate" mapstructure:"loaDate"`
	NIM                *string    `json:"nim" mapstructure:"nim" binding:"omitempty,nim"`
	ConvertedAt        *time.Time `json:"convertedAt" mapstructure:"convertedAt"`

	// Set by the service when a lifecycle timestamp or the NIM must become NULL.
	ClearLoaDate bool `json:"-" mapstructure:"-"`
	ClearNIM     bool `json:"-" mapstructure:"-"`
}

// IsEmpty reports whether the patch changes nothing
func (p *ApplicantPatch) IsEmpty() bool {
	return *p == ApplicantPatch{}
}

// ToApplicant materialises the patch as a new record
func (p *ApplicantPatch) ToApplicant() *Applicant {
	a := &Applicant{
		AdmissionPath:  p.AdmissionPath,
		MajorChoice2:   p.MajorChoice2,
		MajorChoice3:   p.MajorChoice3,
		MajorChoice4:   p.MajorChoice4,
		Email:          p.Email,
		Phone:          p.Phone,
		GraduationYear: p.GraduationYear,
		Gender:         p.Gender,
		SchoolOrigin:   p.SchoolOrigin,
		SchoolMajor:    p.SchoolMajor,
		Ranking:        p.Ranking,
		ParentName:     p.ParentName,
		ParentPhone:    p.ParentPhone,
		Religion:       p.Religion,
		Province:       p.Province,
		City:           p.City,
		Village:        p.Village,
		District:       p.District,
		PostalCode:     p.PostalCode,
		HomeAddress:    p.HomeAddress,
		Agent:          p.Agent,
		LoaDate:        p.LoaDate,
		NIM:            p.NIM,
		ConvertedAt:    p.ConvertedAt,
	}
	if p.RegistrationNumber != nil {
		a.RegistrationNumber = *p.RegistrationNumber
	}
	if p.FullName != nil {
		a.FullName = *p.FullName
	}
	if p.MajorChoice1 != nil {
		a.MajorChoice1 = *p.MajorChoice1
	}
	if p.ColorBlind != nil {
		a.ColorBlind = *p.ColorBlind
	}
	if p.LoaPublished != nil {
		a.LoaPublished = *p.LoaPublished
	}
	if p.ClearNIM {
		a.NIM = nil
		a.ConvertedAt = nil
	}
	if p.ClearLoaDate {
		a.LoaDate = nil
	}
	return a
}
