package models

// Option is one selectable answer in the signup form
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Selection caps enforced by the form
const (
	MaxGoals  = 2
	MaxTraits = 3
)

// Media limits
const (
	MaxPhotoBytes int64 = 10 << 20
	MaxVideoBytes int64 = 50 << 20
)

var (
	// PhotoTypes are the accepted image MIME types
	PhotoTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}
	// VideoTypes are the accepted video MIME types
	VideoTypes = []string{"video/mp4", "video/webm", "video/quicktime"}
)

// AvailabilityOptions are the trip windows applicants can pick
var AvailabilityOptions = plainOptions(
	"6-12 april 2025",
	"20-26 april 2025",
	"4-10 mei 2025",
	"18-24 mei 2025",
	"1-7 juni 2025",
	"15-21 juni 2025",
)

// GoalOptions answer "what do you want to get out of it"
var GoalOptions = plainOptions(
	"nieuwe vrienden",
	"zelfvertrouwen",
	"avontuur",
	"uit comfortzone",
	"even weg uit mijn omgeving",
	"iets totaal nieuws proberen",
)

// TraitOptions are the personality traits
var TraitOptions = plainOptions(
	"rustig",
	"sociaal",
	"humoristisch",
	"gevoelig",
	"direct",
	"spontaan",
	"zorgzaam",
	"avontuurlijk",
	"georganiseerd",
	"dromerig",
)

// GroupRoleOptions describe how an applicant behaves in a group
var GroupRoleOptions = []Option{
	{Value: "stille-observator", Label: "de stille observator"},
	{Value: "rustig-aanwezig", Label: "rustig maar aanwezig"},
	{Value: "snel-praten", Label: "iemand die snel praat met iedereen"},
	{Value: "grappenmaker", Label: "de grappenmaker"},
	{Value: "initiatief", Label: "degene die initiatief neemt"},
}

// ExcitementOptions answer "what feels most exciting"
var ExcitementOptions = []Option{
	{Value: "nieuwe-mensen", Label: "nieuwe mensen leren kennen"},
	{Value: "liften", Label: "liften"},
	{Value: "overnachten", Label: "overnachten bij onbekenden"},
	{Value: "geen-planning", Label: "geen vaste planning"},
	{Value: "fysiek", Label: "fysiek moe worden"},
}

func plainOptions(values ...string) []Option {
	options := make([]Option, len(values))
	for i, v := range values {
		options[i] = Option{Value: v, Label: v}
	}
	return options
}
