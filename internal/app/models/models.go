package models

// ReviewStatus is the admin-controlled lifecycle tag on a submission
type ReviewStatus string

const (
	StatusNew      ReviewStatus = "nieuw"
	StatusReviewed ReviewStatus = "beoordeeld"
	StatusApproved ReviewStatus = "goedgekeurd"
	StatusRejected ReviewStatus = "afgewezen"
)

// ReviewStatuses lists every valid status in workflow order
var ReviewStatuses = []ReviewStatus{StatusNew, StatusReviewed, StatusApproved, StatusRejected}

// Valid reports whether s is one of the four known statuses
func (s ReviewStatus) Valid() bool {
	switch s {
	case StatusNew, StatusReviewed, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Label returns the Dutch display label used by the dashboard
func (s ReviewStatus) Label() string {
	switch s {
	case StatusNew:
		return "Nieuw"
	case StatusReviewed:
		return "Beoordeeld"
	case StatusApproved:
		return "Goedgekeurd"
	case StatusRejected:
		return "Afgewezen"
	}
	return string(s)
}

// MediaCategory tags an uploaded file; it decides the storage folder
type MediaCategory string

const (
	MediaPhoto MediaCategory = "photo"
	MediaVideo MediaCategory = "video"
)

// Folder returns the bucket folder for the category
func (c MediaCategory) Folder() string {
	if c == MediaVideo {
		return "videos"
	}
	return "photos"
}
