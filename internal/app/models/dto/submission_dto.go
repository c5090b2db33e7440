package dto

import (
	"time"

	"github.com/TiebenDepaepe/Stepoutx/internal/app/models"
	"github.com/google/uuid"
)

// SubmissionResponse is a submission as the admin dashboard sees it: storage
// keys are replaced by short-lived signed URLs
type SubmissionResponse struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Name      string  `json:"naam"`
	Age       int     `json:"leeftijd"`
	City      string  `json:"woonplaats"`
	Phone     string  `json:"gsm"`
	Email     string  `json:"email"`
	Instagram *string `json:"instagram"`

	Availability     []string `json:"beschikbaarheid"`
	Motivation       string   `json:"motivatie"`
	Goals            []string `json:"doelen"`
	Traits           []string `json:"persoonlijkheid"`
	GroupRole        string   `json:"groepsrol"`
	MostExciting     string   `json:"spannendst"`
	Uncomfortable    string   `json:"ongemakkelijk"`
	WhyFit           string   `json:"waarom_passen"`
	AppealsMost      string   `json:"wat_spreekt_aan"`
	Fitness          string   `json:"sportiviteit"`
	SocialPreference string   `json:"sociale_interactie"`
	Independence     string   `json:"zelfstandigheid"`

	HasMedical     bool    `json:"medisch"`
	MedicalNotes   *string `json:"medisch_uitleg"`
	EmergencyName  string  `json:"noodcontact_naam"`
	EmergencyPhone string  `json:"noodcontact_gsm"`

	PhotoURL *string `json:"foto_url"`
	VideoURL *string `json:"video_url"`

	Status      models.ReviewStatus `json:"status"`
	StatusLabel string              `json:"status_label"`
	Notes       *string             `json:"notities"`
}

// NewSubmissionResponse copies s; media URLs are filled in by the caller
func NewSubmissionResponse(s *models.Submission) *SubmissionResponse {
	return &SubmissionResponse{
		ID:               s.ID,
		CreatedAt:        s.CreatedAt,
		Name:             s.Name,
		Age:              s.Age,
		City:             s.City,
		Phone:            s.Phone,
		Email:            s.Email,
		Instagram:        s.Instagram,
		Availability:     s.Availability,
		Motivation:       s.Motivation,
		Goals:            s.Goals,
		Traits:           s.Traits,
		GroupRole:        s.GroupRole,
		MostExciting:     s.MostExciting,
		Uncomfortable:    s.Uncomfortable,
		WhyFit:           s.WhyFit,
		AppealsMost:      s.AppealsMost,
		Fitness:          s.Fitness,
		SocialPreference: s.SocialPreference,
		Independence:     s.Independence,
		HasMedical:       s.HasMedical,
		MedicalNotes:     s.MedicalNotes,
		EmergencyName:    s.EmergencyName,
		EmergencyPhone:   s.EmergencyPhone,
		Status:           s.Status,
		StatusLabel:      s.Status.Label(),
		Notes:            s.Notes,
	}
}

// SubmissionListResponse wraps the admin list
type SubmissionListResponse struct {
	Submissions []*SubmissionResponse `json:"submissions"`
	Total       int                   `json:"total"`
}

// UpdateStatusRequest changes the review status of one submission
type UpdateStatusRequest struct {
	Status models.ReviewStatus `json:"status" binding:"required,oneof=nieuw beoordeeld goedgekeurd afgewezen"`
}

// UpdateNotesRequest replaces the internal notes of one submission; an empty
// string clears them
type UpdateNotesRequest struct {
	Notes string `json:"notities" binding:"max=5000"`
}

// UpdateResult mirrors the admin update contract: a success flag plus an
// optional error
type UpdateResult struct {
	Success bool         `json:"success"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// SignupResponse is returned once a submission is stored
type SignupResponse struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Message   string    `json:"message"`
}

// SignupOptionsResponse lists the catalogs the signup form renders
type SignupOptionsResponse struct {
	Availability []models.Option `json:"beschikbaarheid"`
	Goals        []models.Option `json:"doelen"`
	Traits       []models.Option `json:"persoonlijkheid"`
	GroupRoles   []models.Option `json:"groepsrol"`
	MostExciting []models.Option `json:"spannendst"`
	MaxGoals     int             `json:"maxDoelen"`
	MaxTraits    int             `json:"maxPersoonlijkheid"`
	MaxPhotoSize int64           `json:"maxFotoBytes"`
	MaxVideoSize int64           `json:"maxVideoBytes"`
	PhotoTypes   []string        `json:"fotoTypes"`
	VideoTypes   []string        `json:"videoTypes"`
}
