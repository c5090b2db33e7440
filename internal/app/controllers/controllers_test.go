package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/TiebenDepaepe/Stepoutx/internal/app/models"
	"github.com/TiebenDepaepe/Stepoutx/internal/app/models/dto"
	"github.com/TiebenDepaepe/Stepoutx/internal/app/services"
	"github.com/TiebenDepaepe/Stepoutx/internal/pkg/apperrors"
	"github.com/TiebenDepaepe/Stepoutx/internal/pkg/auth"
	"github.com/TiebenDepaepe/Stepoutx/internal/pkg/filestorage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success bool             `json:"success"`
	Data    json.RawMessage  `json:"data"`
	Error   *dto.ErrorDetail `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return env
}

// --- signup ---

type fakeSubmitter struct {
	form   *services.SignupForm
	photo  []byte
	result services.Result
	ctxErr error
}

func (f *fakeSubmitter) Submit(ctx context.Context, form *services.SignupForm, observe services.ProgressObserver) services.Result {
	f.form = form
	f.ctxErr = ctx.Err()
	if form.Photo != nil {
		rc, err := form.Photo.Open()
		if err == nil {
			f.photo, _ = io.ReadAll(rc)
			rc.Close()
		}
	}
	if observe != nil {
		observe(services.SubmissionState{Phase: services.PhaseSubmitting})
	}
	return f.result
}

func multipartSignup(t *testing.T, withPhoto bool) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fields := [][2]string{
		{"naam", "Lotte Peeters"},
		{"leeftijd", "21"},
		{"woonplaats", "Gent"},
		{"beschikbaarheid", "6-12 april 2025"},
		{"beschikbaarheid", "4-10 mei 2025"},
		{"doelen", "avontuur"},
		{"medisch", "true"},
		{"medischUitleg", "astma"},
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			t.Fatal(err)
		}
	}
	if withPhoto {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="foto"; filename="me.jpg"`)
		h.Set("Content-Type", "image/jpeg")
		part, err := mw.CreatePart(h)
		if err != nil {
			t.Fatal(err)
		}
		part.Write([]byte("jpeg-bytes"))
	}
	mw.Close()
	return body, mw.FormDataContentType()
}

func signupRouter(s Submitter, limit int64) *gin.Engine {
	r := gin.New()
	c := NewSubmissionController(s, limit, zerolog.Nop())
	r.POST("/signups", c.Signup)
	r.GET("/signup/options", c.Options)
	return r
}

func TestSignupSuccess(t *testing.T) {
	id := uuid.New()
	submitter := &fakeSubmitter{result: services.Result{
		Outcome:    services.OutcomeSuccess,
		Submission: &models.Submission{ID: id, CreatedAt: time.Now()},
	}}

	body, contentType := multipartSignup(t, true)
	req := httptest.NewRequest(http.MethodPost, "/signups", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	signupRouter(submitter, 1<<20).ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var data dto.SignupResponse
	if err := json.Unmarshal(decode(t, w).Data, &data); err != nil {
		t.Fatal(err)
	}
	if data.ID != id {
		t.Errorf("id = %s, want %s", data.ID, id)
	}

	form := submitter.form
	if form.Name != "Lotte Peeters" || form.Age != "21" || !form.HasMedical || form.MedicalNotes != "astma" {
		t.Errorf("form = %+v", form)
	}
	if len(form.Availability) != 2 {
		t.Errorf("availability = %v", form.Availability)
	}
	if form.Photo == nil || form.Photo.ContentType != "image/jpeg" || form.Photo.Name != "me.jpg" || form.Photo.Size != int64(len("jpeg-bytes")) {
		t.Fatalf("photo = %+v", form.Photo)
	}
	if string(submitter.photo) != "jpeg-bytes" {
		t.Errorf("photo content = %q", submitter.photo)
	}
	if form.Video != nil {
		t.Error("video should be nil when not sent")
	}
	if submitter.ctxErr != nil {
		t.Errorf("pipeline context already done: %v", submitter.ctxErr)
	}
}

func TestSignupFailures(t *testing.T) {
	tests := []struct {
		name     string
		result   services.Result
		want     int
		wantCode dto.ErrorCode
	}{
		{
			name: "validation",
			result: services.Result{
				Outcome: services.OutcomeValidationFailed,
				Message: services.MsgInvalidForm,
				Fields:  services.FieldErrors{services.FieldAge: services.MsgAgeRange},
			},
			want:     http.StatusUnprocessableEntity,
			wantCode: dto.ErrorCodeValidationFailed,
		},
		{
			name:     "upload",
			result:   services.Result{Outcome: services.OutcomeUploadFailed, Message: services.MsgUploadFailed},
			want:     http.StatusBadGateway,
			wantCode: dto.ErrorCodeUploadFailed,
		},
		{
			name:     "insert",
			result:   services.Result{Outcome: services.OutcomeInsertFailed, Message: services.MsgInsertFailed},
			want:     http.StatusInternalServerError,
			wantCode: dto.ErrorCodeInsertFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := multipartSignup(t, false)
			req := httptest.NewRequest(http.MethodPost, "/signups", body)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()
			signupRouter(&fakeSubmitter{result: tt.result}, 0).ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d", w.Code, tt.want)
			}
			env := decode(t, w)
			if env.Success || env.Error == nil {
				t.Fatalf("envelope = %+v", env)
			}
			if env.Error.Code != tt.wantCode || env.Error.Message != tt.result.Message {
				t.Errorf("error = %+v", env.Error)
			}
			if tt.name == "validation" {
				details, _ := env.Error.Details.(map[string]interface{})
				if details["leeftijd"] != services.MsgAgeRange || env.Error.Field != "leeftijd" {
					t.Errorf("details = %#v field = %q", env.Error.Details, env.Error.Field)
				}
			}
		})
	}
}

func TestSignupRejectsOversizedBody(t *testing.T) {
	body, contentType := multipartSignup(t, true)
	req := httptest.NewRequest(http.MethodPost, "/signups", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	submitter := &fakeSubmitter{}
	signupRouter(submitter, 64).ServeHTTP(w, req)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusRequestEntityTooLarge)
	}
	if env := decode(t, w); env.Error == nil || env.Error.Message != "Request too large" {
		t.Errorf("error = %+v", env.Error)
	}
	if submitter.form != nil {
		t.Error("pipeline must not run for a rejected body")
	}
}

func TestSignupWithoutFilesAsURLEncodedForm(t *testing.T) {
	submitter := &fakeSubmitter{result: services.Result{
		Outcome:    services.OutcomeSuccess,
		Submission: &models.Submission{ID: uuid.New(), CreatedAt: time.Now()},
	}}

	values := url.Values{}
	values.Set("naam", "Lotte Peeters")
	values.Set("leeftijd", "21")
	values.Add("beschikbaarheid", "6-12 april 2025")
	req := httptest.NewRequest(http.MethodPost, "/signups", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	signupRouter(submitter, 1<<20).ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if submitter.form == nil {
		t.Fatal("pipeline did not run")
	}
	if submitter.form.Name != "Lotte Peeters" || submitter.form.Photo != nil || submitter.form.Video != nil {
		t.Errorf("form = %+v", submitter.form)
	}
}

func TestOptions(t *testing.T) {
	w := httptest.NewRecorder()
	signupRouter(&fakeSubmitter{}, 0).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/signup/options", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var opts dto.SignupOptionsResponse
	if err := json.Unmarshal(decode(t, w).Data, &opts); err != nil {
		t.Fatal(err)
	}
	if opts.MaxGoals != models.MaxGoals || opts.MaxTraits != models.MaxTraits || len(opts.Availability) != len(models.AvailabilityOptions) {
		t.Errorf("options = %+v", opts)
	}
}

// --- admin ---

type fakeAdmin struct {
	filter  models.SubmissionFilter
	status  models.ReviewStatus
	notes   string
	err     error
	updated uuid.UUID
}

func (f *fakeAdmin) ListSubmissions(_ context.Context, filter models.SubmissionFilter) (*dto.SubmissionListResponse, error) {
	f.filter = filter
	if f.err != nil {
		return nil, f.err
	}
	return &dto.SubmissionListResponse{Submissions: []*dto.SubmissionResponse{}, Total: 0}, nil
}

func (f *fakeAdmin) GetSubmission(_ context.Context, id uuid.UUID) (*dto.SubmissionResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.SubmissionResponse{ID: id}, nil
}

func (f *fakeAdmin) UpdateStatus(_ context.Context, id uuid.UUID, status models.ReviewStatus) error {
	f.updated, f.status = id, status
	return f.err
}

func (f *fakeAdmin) UpdateNotes(_ context.Context, id uuid.UUID, notes string) error {
	f.updated, f.notes = id, notes
	return f.err
}

func adminRouter(a SubmissionAdmin) *gin.Engine {
	r := gin.New()
	c := NewAdminController(a, zerolog.Nop())
	r.GET("/submissions", c.ListSubmissions)
	r.GET("/submissions/:id", c.GetSubmission)
	r.PATCH("/submissions/:id/status", c.UpdateStatus)
	r.PATCH("/submissions/:id/notes", c.UpdateNotes)
	return r
}

func TestListSubmissionsPassesFilter(t *testing.T) {
	admin := &fakeAdmin{}
	w := httptest.NewRecorder()
	adminRouter(admin).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/submissions?q=gent&status=nieuw", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if admin.filter.Query != "gent" || admin.filter.Status != models.StatusNew {
		t.Errorf("filter = %+v", admin.filter)
	}
}

func TestGetSubmission(t *testing.T) {
	w := httptest.NewRecorder()
	adminRouter(&fakeAdmin{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/submissions/not-a-uuid", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	adminRouter(&fakeAdmin{err: apperrors.ErrSubmissionNotFound}).
		ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/submissions/"+uuid.NewString(), nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("missing status = %d", w.Code)
	}
}

func TestUpdateStatus(t *testing.T) {
	id := uuid.New()
	tests := []struct {
		name   string
		body   string
		err    error
		want   int
		wantOK bool
	}{
		{name: "ok", body: `{"status":"goedgekeurd"}`, want: http.StatusOK, wantOK: true},
		{name: "unknown status", body: `{"status":"maybe"}`, want: http.StatusBadRequest},
		{name: "not found", body: `{"status":"afgewezen"}`, err: apperrors.ErrSubmissionNotFound, want: http.StatusNotFound},
		{name: "store down", body: `{"status":"afgewezen"}`, err: errors.New("conn reset"), want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			admin := &fakeAdmin{err: tt.err}
			req := httptest.NewRequest(http.MethodPatch, "/submissions/"+id.String()+"/status", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			adminRouter(admin).ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d", w.Code, tt.want)
			}
			var result dto.UpdateResult
			if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
				t.Fatal(err)
			}
			if result.Success != tt.wantOK || (!tt.wantOK && result.Error == nil) {
				t.Errorf("result = %+v", result)
			}
			if tt.wantOK && (admin.updated != id || admin.status != models.StatusApproved) {
				t.Errorf("updated %s to %q", admin.updated, admin.status)
			}
		})
	}
}

func TestUpdateNotesAllowsEmpty(t *testing.T) {
	admin := &fakeAdmin{notes: "stale"}
	id := uuid.New()
	req := httptest.NewRequest(http.MethodPatch, "/submissions/"+id.String()+"/notes", strings.NewReader(`{"notities":""}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	adminRouter(admin).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if admin.updated != id || admin.notes != "" {
		t.Errorf("updated %s notes %q", admin.updated, admin.notes)
	}
}

// --- auth ---

type fakeAuthenticator struct {
	resp *dto.AuthResponse
	err  error
}

func (f *fakeAuthenticator) Login(context.Context, *dto.LoginRequest) (*dto.AuthResponse, error) {
	return f.resp, f.err
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name string
		body string
		auth *fakeAuthenticator
		want int
	}{
		{name: "ok", body: `{"email":"team@stepout.be","password":"pw"}`, auth: &fakeAuthenticator{resp: &dto.AuthResponse{}}, want: http.StatusOK},
		{name: "bad credentials", body: `{"email":"team@stepout.be","password":"pw"}`, auth: &fakeAuthenticator{err: apperrors.ErrInvalidCredentials}, want: http.StatusUnauthorized},
		{name: "malformed", body: `{"email":"nope"}`, auth: &fakeAuthenticator{}, want: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.POST("/login", NewAuthController(tt.auth, zerolog.Nop()).Login)
			req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

// --- media ---

func TestMediaServe(t *testing.T) {
	signer := auth.NewMediaSigner("media-secret", "stepout.media")
	store, err := filestorage.NewLocalStorage(t.TempDir(), "http://api.test", signer)
	if err != nil {
		t.Fatal(err)
	}
	key := "photos/1700000000000_abc123.jpg"
	if err := store.Put(context.Background(), key, "image/jpeg", strings.NewReader("jpeg"), 4); err != nil {
		t.Fatal(err)
	}
	token, err := signer.Sign(key, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	otherToken, _ := signer.Sign("photos/other.jpg", time.Minute)

	r := gin.New()
	r.GET("/media/*key", NewMediaController(store, zerolog.Nop()).Serve)

	tests := []struct {
		name string
		path string
		want int
	}{
		{name: "valid", path: "/media/" + key + "?token=" + token, want: http.StatusOK},
		{name: "no token", path: "/media/" + key, want: http.StatusForbidden},
		{name: "token for other key", path: "/media/" + key + "?token=" + otherToken, want: http.StatusForbidden},
		{name: "missing file", path: "/media/photos/other.jpg?token=" + otherToken, want: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d", w.Code, tt.want)
			}
			if tt.want == http.StatusOK && w.Body.String() != "jpeg" {
				t.Errorf("body = %q", w.Body.String())
			}
		})
	}
}

func TestMediaServeUsesStoredFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "videos"), 0o750); err != nil {
		t.Fatal(err)
	}
	signer := auth.NewMediaSigner("s", "i")
	store, _ := filestorage.NewLocalStorage(dir, "", signer)
	if err := os.WriteFile(filepath.Join(dir, "videos", "clip.mp4"), []byte("mp4"), 0o600); err != nil {
		t.Fatal(err)
	}
	token, _ := signer.Sign("videos/clip.mp4", time.Minute)

	r := gin.New()
	r.GET("/media/*key", NewMediaController(store, zerolog.Nop()).Serve)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/media/videos/clip.mp4?token="+token, nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if w.Body.String() != "mp4" {
		t.Errorf("body = %q", w.Body.String())
	}
	if cc := w.Header().Get("Cache-Control"); !strings.HasPrefix(cc, "private") {
		t.Errorf("cache control = %q", cc)
	}
}
