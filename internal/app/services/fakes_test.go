package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/TiebenDepaepe/Stepoutx/internal/app/models"
	"github.com/TiebenDepaepe/Stepoutx/internal/pkg/apperrors"
	"github.com/TiebenDepaepe/Stepoutx/internal/pkg/filestorage"
	"github.com/google/uuid"
)

func validForm() *SignupForm {
	return &SignupForm{
		Name:             "Lotte Peeters",
		Age:              "21",
		City:             "Gent",
		Phone:            "+32 470 12 34 56",
		Email:            "lotte@example.be",
		Availability:     []string{"4-10 mei 2025"},
		Motivation:       "Ik wil eens iets helemaal anders doen dan anders.",
		Goals:            []string{"avontuur"},
		Traits:           []string{"sociaal", "spontaan"},
		GroupRole:        "rustig-aanwezig",
		MostExciting:     "liften",
		Uncomfortable:    "Slapen bij mensen die ik niet ken.",
		WhyFit:           "Ik pas me makkelijk aan en lach graag.",
		AppealsMost:      "de onzekerheid",
		Fitness:          "gemiddeld",
		SocialPreference: "veel",
		Independence:     "zelfstandig",
		EmergencyName:    "Mama Peeters",
		EmergencyPhone:   "0470 65 43 21",
	}
}

func testFile(name, contentType string, size int64) *filestorage.File {
	return &filestorage.File{
		Name:        name,
		ContentType: contentType,
		Size:        size,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader([]byte("data"))), nil
		},
	}
}

type fakeSubmissionRepo struct {
	mu          sync.Mutex
	submissions map[uuid.UUID]*models.Submission
	order       []uuid.UUID
	createCalls int
	createErr   error
	listErr     error
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{submissions: make(map[uuid.UUID]*models.Submission)}
}

func clone(s *models.Submission) *models.Submission {
	c := *s
	c.Availability = slices.Clone(s.Availability)
	c.Goals = slices.Clone(s.Goals)
	c.Traits = slices.Clone(s.Traits)
	return &c
}

func (f *fakeSubmissionRepo) Create(_ context.Context, s *models.Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return f.createErr
	}
	s.ID = uuid.New()
	s.CreatedAt = time.Now().Add(time.Duration(len(f.order)) * time.Second)
	f.submissions[s.ID] = clone(s)
	f.order = append(f.order, s.ID)
	return nil
}

func (f *fakeSubmissionRepo) List(_ context.Context, filter models.SubmissionFilter) ([]*models.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*models.Submission
	for i := len(f.order) - 1; i >= 0; i-- {
		s := f.submissions[f.order[i]]
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		out = append(out, clone(s))
	}
	return out, nil
}

func (f *fakeSubmissionRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.submissions[id]
	if !ok {
		return nil, apperrors.ErrSubmissionNotFound
	}
	return clone(s), nil
}

func (f *fakeSubmissionRepo) UpdateStatus(_ context.Context, id uuid.UUID, status models.ReviewStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.submissions[id]
	if !ok {
		return apperrors.ErrSubmissionNotFound
	}
	s.Status = status
	return nil
}

func (f *fakeSubmissionRepo) UpdateNotes(_ context.Context, id uuid.UUID, notes *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.submissions[id]
	if !ok {
		return apperrors.ErrSubmissionNotFound
	}
	s.Notes = notes
	return nil
}

type uploadCall struct {
	file     *filestorage.File
	category models.MediaCategory
	key      string
}

type fakeUploader struct {
	calls []uploadCall
	// failOn makes uploads of that category fail with err
	failOn models.MediaCategory
	err    error
}

func (f *fakeUploader) Upload(_ context.Context, file *filestorage.File, category models.MediaCategory) (string, error) {
	key := category.Folder() + "/1714000000000_abc" + string(rune('a'+len(f.calls))) + "de.bin"
	f.calls = append(f.calls, uploadCall{file: file, category: category, key: key})
	if f.err != nil && (f.failOn == "" || f.failOn == category) {
		return "", &filestorage.UploadError{Category: category, Key: key, Err: f.err}
	}
	return key, nil
}

type publishedEvent struct {
	eventType string
	payload   interface{}
}

type fakeEvents struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (f *fakeEvents) Publish(eventType string, payload interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, publishedEvent{eventType: eventType, payload: payload})
}

type fakeSigner struct {
	err   error
	calls int
}

func (f *fakeSigner) SignedURL(_ context.Context, key string, ttl time.Duration) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "https://signed.example/" + key + "?ttl=" + ttl.String(), nil
}

type fakeAdminRepo struct {
	admins map[string]*models.Admin
	err    error
}

func (f *fakeAdminRepo) GetByEmail(_ context.Context, email string) (*models.Admin, error) {
	if f.err != nil {
		return nil, f.err
	}
	a, ok := f.admins[email]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	return a, nil
}

func (f *fakeAdminRepo) Create(_ context.Context, admin *models.Admin) error {
	if _, exists := f.admins[admin.Email]; exists {
		return errors.New("duplicate")
	}
	admin.ID = uuid.New()
	f.admins[admin.Email] = admin
	return nil
}

func (f *fakeAdminRepo) Count(context.Context) (int, error) {
	return len(f.admins), f.err
}
