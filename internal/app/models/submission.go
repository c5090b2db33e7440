package models

import (
	"time"

	"github.com/google/uuid"
)

// Submission is one applicant's signup record. Everything except Status and
// Notes is immutable once inserted.
type Submission struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Applicant profile
	Name      string  `json:"naam" db:"naam"`
	Age       int     `json:"leeftijd" db:"leeftijd"`
	City      string  `json:"woonplaats" db:"woonplaats"`
	Phone     string  `json:"gsm" db:"gsm"`
	Email     string  `json:"email" db:"email"`
	Instagram *string `json:"instagram" db:"instagram"`

	// Trip fit
	Availability     []string `json:"beschikbaarheid" db:"beschikbaarheid"`
	Motivation       string   `json:"motivatie" db:"motivatie"`
	Goals            []string `json:"doelen" db:"doelen"`
	Traits           []string `json:"persoonlijkheid" db:"persoonlijkheid"`
	GroupRole        string   `json:"groepsrol" db:"groepsrol"`
	MostExciting     string   `json:"spannendst" db:"spannendst"`
	Uncomfortable    string   `json:"ongemakkelijk" db:"ongemakkelijk"`
	WhyFit           string   `json:"waarom_passen" db:"waarom_passen"`
	AppealsMost      string   `json:"wat_spreekt_aan" db:"wat_spreekt_aan"`
	Fitness          string   `json:"sportiviteit" db:"sportiviteit"`
	SocialPreference string   `json:"sociale_interactie" db:"sociale_interactie"`
	Independence     string   `json:"zelfstandigheid" db:"zelfstandigheid"`

	// Safety
	HasMedical     bool    `json:"medisch" db:"medisch"`
	MedicalNotes   *string `json:"medisch_uitleg" db:"medisch_uitleg"`
	EmergencyName  string  `json:"noodcontact_naam" db:"noodcontact_naam"`
	EmergencyPhone string  `json:"noodcontact_gsm" db:"noodcontact_gsm"`

	// Storage keys inside the private bucket, never public URLs
	PhotoKey *string `json:"foto_url" db:"foto_url"`
	VideoKey *string `json:"video_url" db:"video_url"`

	// Review metadata, admin-owned
	Status ReviewStatus `json:"status" db:"status"`
	Notes  *string      `json:"notities" db:"notities"`
}

// SubmissionFilter narrows the admin list
type SubmissionFilter struct {
	// Query matches name, email or city, case-insensitive
	Query  string
	Status ReviewStatus
}
