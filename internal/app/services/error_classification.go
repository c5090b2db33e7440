package services

import (
	"errors"
	"regexp"

	"github.com/TiebenDepaepe/Stepoutx/internal/pkg/apperrors"
)

// ErrorKind is the user-facing category of a failed submission
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindUpload     ErrorKind = "upload"
	KindInsert     ErrorKind = "insert"
	KindGeneric    ErrorKind = "generic"
)

// Messages shown when the real cause must stay hidden
const (
	MsgUploadFailed = "Er ging iets mis bij het uploaden van je bestanden. Probeer het later opnieuw."
	MsgInsertFailed = "Er ging iets mis bij het verwerken van je inschrijving. Controleer of alle velden correct zijn ingevuld en probeer opnieuw."
	MsgGeneric      = "Er ging iets mis bij het verzenden. Probeer het later opnieuw."
	MsgInvalidForm  = "Controleer de gemarkeerde velden."
)

// infrastructurePattern matches text that exposes storage or database internals
var infrastructurePattern = regexp.MustCompile(`(?i)database|constraint|column|table|sql|postgres|supabase|pgx|bucket|s3|storage|redis|connection|timeout`)

// Classification is what the applicant gets to see about a failure
type Classification struct {
	Kind    ErrorKind
	Message string
	Fields  FieldErrors
}

// ClassifyError maps a pipeline failure onto exactly one user-facing category.
// Messages explicitly phrased for users are passed through unless they mention
// infrastructure; everything else gets the category's fixed message.
func ClassifyError(err error) Classification {
	var fieldErrs *ValidationError
	if errors.As(err, &fieldErrs) {
		return Classification{Kind: KindValidation, Message: MsgInvalidForm, Fields: fieldErrs.Fields}
	}

	kind, fallback := KindGeneric, MsgGeneric
	switch {
	case errors.Is(err, apperrors.ErrUploadFailed):
		kind, fallback = KindUpload, MsgUploadFailed
	case errors.Is(err, apperrors.ErrInsertFailed):
		kind, fallback = KindInsert, MsgInsertFailed
	}

	if msg, ok := apperrors.UserMessage(err); ok && !LooksLikeInfrastructure(msg) {
		return Classification{Kind: kind, Message: msg}
	}
	return Classification{Kind: kind, Message: fallback}
}

// LooksLikeInfrastructure reports whether text mentions storage or database internals
func LooksLikeInfrastructure(text string) bool {
	return infrastructurePattern.MatchString(text)
}

// ValidationError carries the field errors of a rejected form
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	return "signup validation failed"
}

func (e *ValidationError) Is(target error) bool {
	return target == apperrors.ErrValidationFailed
}
