package services

import (
	"slices"

	"github.com/TiebenDepaepe/Stepoutx/internal/app/models"
	"github.com/TiebenDepaepe/Stepoutx/internal/pkg/filestorage"
)

// SignupForm is the in-progress state of one applicant's form. It is bound from
// the multipart request, can be serialized, and is handed to Submit as a whole.
type SignupForm struct {
	Name      string `form:"naam" json:"naam"`
	Age       string `form:"leeftijd" json:"leeftijd"`
	City      string `form:"woonplaats" json:"woonplaats"`
	Phone     string `form:"gsm" json:"gsm"`
	Email     string `form:"email" json:"email"`
	Instagram string `form:"instagram" json:"instagram"`

	Availability     []string `form:"beschikbaarheid" json:"beschikbaarheid"`
	Motivation       string   `form:"motivatie" json:"motivatie"`
	Goals            []string `form:"doelen" json:"doelen"`
	Traits           []string `form:"persoonlijkheid" json:"persoonlijkheid"`
	GroupRole        string   `form:"groepsrol" json:"groepsrol"`
	MostExciting     string   `form:"spannendst" json:"spannendst"`
	Uncomfortable    string   `form:"ongemakkelijk" json:"ongemakkelijk"`
	WhyFit           string   `form:"waaromPassen" json:"waaromPassen"`
	AppealsMost      string   `form:"watSpreektAan" json:"watSpreektAan"`
	Fitness          string   `form:"sportiviteit" json:"sportiviteit"`
	SocialPreference string   `form:"socialeInteractie" json:"socialeInteractie"`
	Independence     string   `form:"zelfstandigheid" json:"zelfstandigheid"`

	HasMedical     bool   `form:"medisch" json:"medisch"`
	MedicalNotes   string `form:"medischUitleg" json:"medischUitleg"`
	EmergencyName  string `form:"noodcontactNaam" json:"noodcontactNaam"`
	EmergencyPhone string `form:"noodcontactGsm" json:"noodcontactGsm"`

	Photo *filestorage.File `form:"-" json:"foto,omitempty"`
	Video *filestorage.File `form:"-" json:"video,omitempty"`
}

// ToggleAvailability selects or deselects a trip window
func (f *SignupForm) ToggleAvailability(window string) {
	f.Availability = toggle(f.Availability, window, 0)
}

// ToggleGoal selects or deselects a goal. Selecting beyond the cap is a no-op.
func (f *SignupForm) ToggleGoal(goal string) {
	f.Goals = toggle(f.Goals, goal, models.MaxGoals)
}

// ToggleTrait selects or deselects a personality trait. Selecting beyond the
// cap is a no-op.
func (f *SignupForm) ToggleTrait(trait string) {
	f.Traits = toggle(f.Traits, trait, models.MaxTraits)
}

// SetMedical sets the medical flag; clearing it drops any explanation
func (f *SignupForm) SetMedical(hasMedical bool) {
	f.HasMedical = hasMedical
	if !hasMedical {
		f.MedicalNotes = ""
	}
}

// SelectPhoto validates file immediately. A rejected file leaves the current
// selection untouched and the message is returned. nil clears the selection.
func (f *SignupForm) SelectPhoto(file *filestorage.File) string {
	if msg := ValidateFile(file, models.MediaPhoto); msg != "" {
		return msg
	}
	f.Photo = file
	return ""
}

// SelectVideo is SelectPhoto for the video slot
func (f *SignupForm) SelectVideo(file *filestorage.File) string {
	if msg := ValidateFile(file, models.MediaVideo); msg != "" {
		return msg
	}
	f.Video = file
	return ""
}

// toggle removes value when present, otherwise appends it unless limit (>0)
// is already reached
func toggle(selected []string, value string, limit int) []string {
	if i := slices.Index(selected, value); i >= 0 {
		return slices.Delete(slices.Clone(selected), i, i+1)
	}
	if limit > 0 && len(selected) >= limit {
		return selected
	}
	return append(slices.Clone(selected), value)
}
