package profile

import (
	"time"

	"github.com/google/uuid"
)

// EducationLevel is a level of education a tutor teaches at.
type EducationLevel = string

const (
	LevelPrimary    EducationLevel = "primary"
	LevelHighSchool EducationLevel = "high school"
	LevelUniversity EducationLevel = "university"
)

// TeachingMethod is how the tutor delivers lessons.
type TeachingMethod = string

const (
	MethodOnline   TeachingMethod = "online"
	MethodInPerson TeachingMethod = "in person"
	MethodHybrid   TeachingMethod = "hybrid"
)

const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// EducationLevels lists the accepted education level values.
func EducationLevels() []string {
	return []string{LevelPrimary, LevelHighSchool, LevelUniversity}
}

// TeachingMethods lists the accepted teaching method values.
func TeachingMethods() []string {
	return []string{MethodOnline, MethodInPerson, MethodHybrid}
}

// Genders lists the accepted gender values.
func Genders() []string {
	return []string{GenderMale, GenderFemale}
}

// DefaultCurrency is applied when a profile is created without a currency.
const DefaultCurrency = "TND"

// Profile is a tutor's public listing. Exactly one exists per user; an empty
// row is created at registration and filled in by Create.
type Profile struct {
	ID                uuid.UUID        `json:"id"`
	UserID            uuid.UUID        `json:"userId"`
	Bio               string           `json:"bio"`
	ProfilePicture    string           `json:"profilePicture,omitempty"`
	Degrees           []string         `json:"degrees"`
	YearsOfExperience int              `json:"yearsOfExperience"`
	Subjects          []string         `json:"subjects"`
	Levels            []EducationLevel `json:"levels"`
	TeachingMethod    TeachingMethod   `json:"teachingMethod"`
	Location          string           `json:"location"`
	Gender            string           `json:"gender,omitempty"`
	HourlyRate        float64          `json:"hourlyRate"`
	Currency          string           `json:"currency"`
	Languages         []string         `json:"languages"`
	CreatedAt         time.Time        `json:"createdAt"`
	UpdatedAt         time.Time        `json:"updatedAt"`
}

// IsComplete reports whether the profile has been filled in. The empty row
// created at registration has no teaching method; Create sets one.
func (p *Profile) IsComplete() bool {
	return p.TeachingMethod != ""
}

// Params carries the profile fields a tutor submits on create or update.
type Params struct {
	Bio               string           `json:"bio"`
	Degrees           []string         `json:"degrees"`
	YearsOfExperience int              `json:"yearsOfExperience"`
	Subjects          []string         `json:"subjects"`
	Levels            []EducationLevel `json:"levels"`
	TeachingMethod    TeachingMethod   `json:"teachingMethod"`
	Location          string           `json:"location"`
	Gender            string           `json:"gender"`
	HourlyRate        float64          `json:"hourlyRate"`
	Currency          string           `json:"currency"`
	Languages         []string         `json:"languages"`
}

// Filter narrows profile listings. Zero-valued fields are ignored.
type Filter struct {
	Subject        string
	Level          string
	TeachingMethod string
	Location       string
	Gender         string

	Page    int
	PerPage int
}

// Page is one page of profile listings.
type Page struct {
	Items   []Profile `json:"items"`
	Total   int64     `json:"total"`
	Page    int       `json:"page"`
	PerPage int       `json:"perPage"`
}
