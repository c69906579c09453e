package models

import "time"

// StudyProgramCodeMaxLength bounds the short program code
const StudyProgramCodeMaxLength = 4

// StudyProgram is an entry of the program catalog.
// A program is identified either by its short Code or by the ProgramID of the academic system.
type StudyProgram struct {
	ID          string    `json:"id"`
	Code        *string   `json:"code" example:"TI"`
	ProgramID   *string   `json:"programId" example:"55201"`
	Name        string    `json:"name" example:"Teknik Informatika"`
	NIMFormat   *string   `json:"nimFormat" example:"YYYY11XXXX"`
	LevelID     *string   `json:"levelId" example:"S1"`
	LevelName   *string   `json:"levelName" example:"Sarjana"`
	FacultyID   *string   `json:"facultyId" example:"FT"`
	FacultyName *string   `json:"facultyName" example:"Fakultas Teknik"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ActiveStudyProgram is the reduced projection used by selection lists
type ActiveStudyProgram struct {
	ID          string  `json:"id"`
	Code        *string `json:"code"`
	ProgramID   *string `json:"programId"`
	Name        string  `json:"name"`
	NIMFormat   *string `json:"nimFormat"`
	LevelName   *string `json:"levelName"`
	FacultyName *string `json:"facultyName"`
}

// StudyProgramPatch holds the fields of a create or partial update
type StudyProgramPatch struct {
	Code        *string `json:"code" mapstructure:"code"`
	ProgramID   *string `json:"programId" mapstructure:"programId"`
	Name        *string `json:"name" mapstructure:"name"`
	NIMFormat   *string `json:"nimFormat" mapstructure:"nimFormat"`
	LevelID     *string `json:"levelId" mapstructure:"levelId"`
	LevelName   *string `json:"levelName" mapstructure:"levelName"`
	FacultyID   *string `json:"facultyId" mapstructure:"facultyId"`
	FacultyName *string `json:"facultyName" mapstructure:"facultyName"`
	IsActive    *bool   `json:"isActive" mapstructure:"isActive"`
}

// IsEmpty reports whether the patch changes nothing
func (p *StudyProgramPatch) IsEmpty() bool {
	return *p == StudyProgramPatch{}
}

// NaturalKey returns the program id when present, otherwise the code
func (p *StudyProgramPatch) NaturalKey() string {
	if p.ProgramID != nil && *p.ProgramID != "" {
		return *p.ProgramID
	}
	if p.Code != nil {
		return *p.Code
	}
	return ""
}

// ToStudyProgram materialises the patch as a new record. IsActive defaults to true.
func (p *StudyProgramPatch) ToStudyProgram() *StudyProgram {
	sp := &StudyProgram{
		Code:        p.Code,
		ProgramID:   p.ProgramID,
		NIMFormat:   p.NIMFormat,
		LevelID:     p.LevelID,
		LevelName:   p.LevelName,
		FacultyID:   p.FacultyID,
		FacultyName: p.FacultyName,
		IsActive:    true,
	}
	if p.Name != nil {
		sp.Name = *p.Name
	}
	if p.IsActive != nil {
		sp.IsActive = *p.IsActive
	}
	return sp
}
