package services

import (
	"mime"
	"slices"
	"strings"

	"github.com/TiebenDepaepe/Stepoutx/internal/app/models"
	"github.com/TiebenDepaepe/Stepoutx/internal/pkg/filestorage"
	"github.com/TiebenDepaepe/Stepoutx/internal/pkg/validation"
)

// Field names a signup form input by its wire key
type Field string

const (
	FieldName             Field = "naam"
	FieldAge              Field = "leeftijd"
	FieldCity             Field = "woonplaats"
	FieldPhone            Field = "gsm"
	FieldEmail            Field = "email"
	FieldInstagram        Field = "instagram"
	FieldAvailability     Field = "beschikbaarheid"
	FieldMotivation       Field = "motivatie"
	FieldGoals            Field = "doelen"
	FieldTraits           Field = "persoonlijkheid"
	FieldGroupRole        Field = "groepsrol"
	FieldMostExciting     Field = "spannendst"
	FieldUncomfortable    Field = "ongemakkelijk"
	FieldWhyFit           Field = "waaromPassen"
	FieldAppealsMost      Field = "watSpreektAan"
	FieldFitness          Field = "sportiviteit"
	FieldSocialPreference Field = "socialeInteractie"
	FieldIndependence     Field = "zelfstandigheid"
	FieldMedical          Field = "medisch"
	FieldMedicalNotes     Field = "medischUitleg"
	FieldEmergencyName    Field = "noodcontactNaam"
	FieldEmergencyPhone   Field = "noodcontactGsm"
	FieldPhoto            Field = "foto"
	FieldVideo            Field = "video"
)

// Fields lists every form field in form order
var Fields = []Field{
	FieldName, FieldAge, FieldCity, FieldPhone, FieldEmail, FieldInstagram,
	FieldAvailability, FieldMotivation, FieldGoals, FieldTraits, FieldGroupRole,
	FieldMostExciting, FieldUncomfortable, FieldWhyFit, FieldAppealsMost,
	FieldFitness, FieldSocialPreference, FieldIndependence,
	FieldMedical, FieldMedicalNotes, FieldEmergencyName, FieldEmergencyPhone,
	FieldPhoto, FieldVideo,
}

// FieldErrors maps each invalid field to the message shown next to it
type FieldErrors map[Field]string

// Messages keyed by wire name, for JSON responses
func (e FieldErrors) Messages() map[string]string {
	out := make(map[string]string, len(e))
	for f, msg := range e {
		out[string(f)] = msg
	}
	return out
}

// Messages shown to applicants
const (
	msgPhoneTooShort     = "GSM-nummer is te kort"
	msgPhoneTooLong      = "GSM-nummer is te lang"
	msgPhoneChars        = "GSM-nummer mag alleen cijfers, spaties en + bevatten"
	msgOpenTooShort      = "Dit veld moet minstens 10 karakters bevatten"
	msgOpenTooLong       = "Dit veld is te lang (max 1000 karakters)"
	MsgAgeRange          = "Leeftijd moet tussen 18 en 25 jaar zijn"
	MsgMedicalRequired   = "Geef een korte uitleg over je medische situatie"
	MsgPhotoTooLarge     = "Afbeelding mag maximaal 10MB zijn"
	MsgPhotoType         = "Alleen afbeeldingen (JPG, PNG, WebP, GIF) zijn toegestaan"
	MsgVideoTooLarge     = "Video mag maximaal 50MB zijn"
	MsgVideoType         = "Alleen video's (MP4, WebM, MOV) zijn toegestaan"
	MsgAvailabilityEmpty = "Selecteer minstens één beschikbare datum"
)

func openAnswer(value string) string {
	return validation.NewStringValidation(value).
		WithMinLength(10, msgOpenTooShort).
		WithMaxLength(1000, msgOpenTooLong).
		Validate()
}

func required(value, message string) string {
	return validation.NewStringValidation(value).Required(message).Validate()
}

// fieldValidators holds the rule chain of every field; a missing entry is a
// programming error caught by the tests
var fieldValidators = map[Field]func(*SignupForm) string{
	FieldName: func(f *SignupForm) string {
		return validation.NewStringValidation(f.Name).
			WithMinLength(2, "Naam moet minstens 2 karakters bevatten").
			WithMaxLength(100, "Naam is te lang").
			WithPattern(validation.NamePattern, "Naam mag alleen letters, spaties en koppeltekens bevatten").
			Validate()
	},
	FieldAge: func(f *SignupForm) string {
		_, msg := validation.IntRange(f.Age, 18, 25, MsgAgeRange)
		return msg
	},
	FieldCity: func(f *SignupForm) string {
		return validation.NewStringValidation(f.City).
			WithMinLength(2, "Woonplaats moet minstens 2 karakters bevatten").
			WithMaxLength(100, "Woonplaats is te lang").
			Validate()
	},
	FieldPhone: func(f *SignupForm) string {
		return validation.NewStringValidation(f.Phone).
			WithMinLength(8, msgPhoneTooShort).
			WithMaxLength(20, msgPhoneTooLong).
			WithPattern(validation.PhonePattern, msgPhoneChars).
			Validate()
	},
	FieldEmail: func(f *SignupForm) string {
		return validation.NewStringValidation(f.Email).
			WithCheck(validation.IsEmail, "Ongeldig e-mailadres").
			WithMinLength(5, "E-mailadres is te kort").
			WithMaxLength(100, "E-mailadres is te lang").
			Validate()
	},
	FieldInstagram: func(f *SignupForm) string {
		return validation.NewStringValidation(f.Instagram).Optional().
			WithMaxLength(50, "Instagram handle is te lang").
			Validate()
	},
	FieldAvailability: func(f *SignupForm) string {
		return validation.NewSelectionValidation(f.Availability).WithMin(1, MsgAvailabilityEmpty).Validate()
	},
	FieldMotivation: func(f *SignupForm) string {
		return validation.NewStringValidation(f.Motivation).
			WithMinLength(20, "Motivatie moet minstens 20 karakters bevatten").
			WithMaxLength(2000, "Motivatie is te lang (max 2000 karakters)").
			Validate()
	},
	FieldGoals: func(f *SignupForm) string {
		return validation.NewSelectionValidation(f.Goals).WithMax(models.MaxGoals, "Je kan maximaal 2 doelen selecteren").Validate()
	},
	FieldTraits: func(f *SignupForm) string {
		return validation.NewSelectionValidation(f.Traits).WithMax(models.MaxTraits, "Je kan maximaal 3 eigenschappen selecteren").Validate()
	},
	FieldGroupRole: func(f *SignupForm) string {
		return required(f.GroupRole, "Selecteer een groepsrol")
	},
	FieldMostExciting: func(f *SignupForm) string {
		return required(f.MostExciting, "Selecteer wat je het spannendst vindt")
	},
	FieldUncomfortable: func(f *SignupForm) string { return openAnswer(f.Uncomfortable) },
	FieldWhyFit:        func(f *SignupForm) string { return openAnswer(f.WhyFit) },
	FieldAppealsMost: func(f *SignupForm) string {
		return required(f.AppealsMost, "Selecteer wat jou het meest aanspreekt")
	},
	FieldFitness: func(f *SignupForm) string {
		return required(f.Fitness, "Selecteer hoe sportief je bent")
	},
	FieldSocialPreference: func(f *SignupForm) string {
		return required(f.SocialPreference, "Selecteer hoeveel sociale interactie je fijn vindt")
	},
	FieldIndependence: func(f *SignupForm) string {
		return required(f.Independence, "Selecteer hoe zelfstandig je je voelt tijdens reizen")
	},
	// a boolean is always answered
	FieldMedical: func(*SignupForm) string { return "" },
	FieldMedicalNotes: func(f *SignupForm) string {
		if !f.HasMedical {
			return ""
		}
		return validation.NewStringValidation(f.MedicalNotes).
			Required(MsgMedicalRequired).
			WithMaxLength(1000, "Medische uitleg is te lang").
			Validate()
	},
	FieldEmergencyName: func(f *SignupForm) string {
		return validation.NewStringValidation(f.EmergencyName).
			WithMinLength(2, "Naam noodcontact is te kort").
			WithMaxLength(100, "Naam noodcontact is te lang").
			Validate()
	},
	FieldEmergencyPhone: func(f *SignupForm) string {
		return validation.NewStringValidation(f.EmergencyPhone).
			WithMinLength(8, "GSM-nummer noodcontact is te kort").
			WithMaxLength(20, "GSM-nummer noodcontact is te lang").
			WithPattern(validation.PhonePattern, msgPhoneChars).
			Validate()
	},
	FieldPhoto: func(f *SignupForm) string { return ValidateFile(f.Photo, models.MediaPhoto) },
	FieldVideo: func(f *SignupForm) string { return ValidateFile(f.Video, models.MediaVideo) },
}

// ValidateFile checks a selected file against its category's limits. The size
// is checked before the type. A nil file is valid.
func ValidateFile(file *filestorage.File, category models.MediaCategory) string {
	if file == nil {
		return ""
	}

	maxSize, types, sizeMsg, typeMsg := models.MaxPhotoBytes, models.PhotoTypes, MsgPhotoTooLarge, MsgPhotoType
	if category == models.MediaVideo {
		maxSize, types, sizeMsg, typeMsg = models.MaxVideoBytes, models.VideoTypes, MsgVideoTooLarge, MsgVideoType
	}

	if file.Size > maxSize {
		return sizeMsg
	}
	if !slices.Contains(types, mediaType(file.ContentType)) {
		return typeMsg
	}
	return ""
}

func mediaType(contentType string) string {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		return mt
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}

// ValidateSignup checks every field and, when all pass, returns the normalized
// submission ready for insertion (status new, no storage keys yet)
func ValidateSignup(form *SignupForm) (*models.Submission, FieldErrors) {
	errs := make(FieldErrors)
	for _, field := range Fields {
		if msg := fieldValidators[field](form); msg != "" {
			errs[field] = msg
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	age, _ := validation.IntRange(form.Age, 18, 25, MsgAgeRange)
	submission := &models.Submission{
		Name:             strings.TrimSpace(form.Name),
		Age:              age,
		City:             strings.TrimSpace(form.City),
		Phone:            strings.TrimSpace(form.Phone),
		Email:            strings.TrimSpace(form.Email),
		Instagram:        optionalString(form.Instagram),
		Availability:     nonNil(form.Availability),
		Motivation:       strings.TrimSpace(form.Motivation),
		Goals:            nonNil(form.Goals),
		Traits:           nonNil(form.Traits),
		GroupRole:        strings.TrimSpace(form.GroupRole),
		MostExciting:     strings.TrimSpace(form.MostExciting),
		Uncomfortable:    strings.TrimSpace(form.Uncomfortable),
		WhyFit:           strings.TrimSpace(form.WhyFit),
		AppealsMost:      strings.TrimSpace(form.AppealsMost),
		Fitness:          strings.TrimSpace(form.Fitness),
		SocialPreference: strings.TrimSpace(form.SocialPreference),
		Independence:     strings.TrimSpace(form.Independence),
		HasMedical:       form.HasMedical,
		EmergencyName:    strings.TrimSpace(form.EmergencyName),
		EmergencyPhone:   strings.TrimSpace(form.EmergencyPhone),
		Status:           models.StatusNew,
	}
	if form.HasMedical {
		submission.MedicalNotes = optionalString(form.MedicalNotes)
	}
	return submission, nil
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return slices.Clone(values)
}
