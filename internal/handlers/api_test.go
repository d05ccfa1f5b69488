package handlers_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justsurfingit/jobster-api/internal/app"
	"github.com/justsurfingit/jobster-api/internal/config"
)

func newServer(t *testing.T) *gin.Engine {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		Server:   config.ServerConfig{Port: "0", Mode: gin.TestMode, AllowedOrigins: []string{"http://localhost:5173"}},
		Database: config.DatabaseConfig{Driver: "sqlite", DSN: filepath.Join(dir, "api.db")},
		Auth:     config.AuthConfig{JWTSecret: "test-secret", JWTExpire: time.Hour, CookieExpire: time.Hour},
		Media:    config.MediaConfig{Dir: filepath.Join(dir, "media"), BaseURL: "/api/v1/media", MaxBytes: 1 << 20},
		RabbitMQ: config.RabbitMQConfig{Queue: "job_events"},
	}
	log, _ := test.NewNullLogger()

	a, err := app.New(cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a.Router()
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token"`
	User    struct {
		ID           uint   `json:"id"`
		Role         string `json:"role"`
		ProfilePhoto *struct {
			URL string `json:"url"`
		} `json:"profilePhoto"`
	} `json:"user"`
	Job struct {
		ID uint `json:"id"`
	} `json:"job"`
	Applications []struct {
		CoverLetter string    `json:"coverLetter"`
		AppliedOn   time.Time `json:"appliedOn"`
		Applicant   struct {
			ID    uint   `json:"id"`
			Email string `json:"email"`
		} `json:"applicant"`
	} `json:"applications"`
	TotalPages int `json:"totalPages"`
}

func call(t *testing.T, r http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func register(t *testing.T, r http.Handler, name, role string) string {
	t.Helper()
	w, env := call(t, r, http.MethodPost, "/api/v1/user/register", "", gin.H{
		"name":     name,
		"email":    name + "@example.com",
		"phone":    "5550100",
		"password": "password123",
		"role":     role,
		"niches":   []string{"backend"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NotEmpty(t, env.Token)
	return env.Token
}

func TestEmployerSeesApplicantExactlyOnce(t *testing.T) {
	r := newServer(t)
	employer := register(t, r, "ada", "Employer")

	w, _ := call(t, r, http.MethodPost, "/api/v1/company/add", employer, gin.H{
		"name":        "Acme",
		"email":       "hr@acme.example.com",
		"address":     "Pune",
		"website":     "https://acme.example.com",
		"description": "Anvils.",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, posted := call(t, r, http.MethodPost, "/api/v1/job/post", employer, gin.H{
		"title":        "Backend Engineer",
		"description":  "Build the API.",
		"location":     "Pune",
		"noOfOpenings": 2,
		"niches":       []string{"backend"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	jobID := posted.Job.ID
	require.NotZero(t, jobID)

	applicant := register(t, r, "sam", "Applicant")
	w, _ = call(t, r, http.MethodPost, "/api/v1/job/apply", applicant, gin.H{"jobId": jobID, "coverLetter": "Hire me."})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, env := call(t, r, http.MethodPost, "/api/v1/job/apply", applicant, gin.H{"jobId": jobID, "coverLetter": "Again."})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "You have already applied to this job.", env.Message)

	w, env = call(t, r, http.MethodPost, "/api/v1/application/get", employer, gin.H{"jobId": jobID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Len(t, env.Applications, 1)
	assert.Equal(t, "sam@example.com", env.Applications[0].Applicant.Email)
	assert.Equal(t, "Hire me.", env.Applications[0].CoverLetter)
	assert.False(t, env.Applications[0].AppliedOn.IsZero())
	assert.Equal(t, 1, env.TotalPages)
}

func TestGuardAndRoles(t *testing.T) {
	r := newServer(t)
	applicant := register(t, r, "sam", "Applicant")
	job := gin.H{"title": "x", "description": "x", "location": "x", "noOfOpenings": 1}

	w, env := call(t, r, http.MethodPost, "/api/v1/job/post", "", job)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, env.Success)

	w, _ = call(t, r, http.MethodPost, "/api/v1/job/post", "garbage", job)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = call(t, r, http.MethodPost, "/api/v1/job/post", applicant, job)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSessionCookie(t *testing.T) {
	r := newServer(t)
	register(t, r, "ada", "Employer")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/user/login",
		bytes.NewBufferString(`{"email":"ada@example.com","password":"password123","role":"Employer"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "token", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, http.SameSiteNoneMode, cookies[0].SameSite)

	// The cookie alone authenticates.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/job/toggleSave", bytes.NewBufferString(`{"jobId":1}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env := call(t, r, http.MethodPost, "/api/v1/user/login", "", gin.H{"email": "ada@example.com", "password": "password124", "role": "Employer"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid email or password.", env.Message)
}

func TestListingContract(t *testing.T) {
	r := newServer(t)

	w, env := call(t, r, http.MethodGet, "/api/v1/job/getall?page=abc", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Jobs not found.", env.Message)

	w, env = call(t, r, http.MethodGet, "/api/v1/job/fetchMyJobs?type=likedJobs&userId=1", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)

	w, env = call(t, r, http.MethodPost, "/api/v1/user/register", "", gin.H{"name": "ab", "email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, env.Message)
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func TestRegisterWithProfilePhoto(t *testing.T) {
	r := newServer(t)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fields := map[string]string{
		"name": "ada", "email": "ada@example.com", "phone": "5550100",
		"password": "password123", "role": "Applicant",
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.WriteField("niches", "backend"))
	require.NoError(t, mw.WriteField("niches", "data"))
	part, err := mw.CreateFormFile("profilePhoto", "me.png")
	require.NoError(t, err)
	_, err = part.Write(pngHeader)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/user/register", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.NotNil(t, env.User.ProfilePhoto)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, env.User.ProfilePhoto.URL, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, pngHeader, w.Body.Bytes())
}
