package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justsurfingit/jobster-api/internal/apperrors"
	"github.com/justsurfingit/jobster-api/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestIssueAndParse(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	user := &models.User{ID: 7, Name: "Grace", Role: models.RoleEmployer}

	token, err := issuer.Issue(user)
	require.NoError(t, err)

	identity, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, &Identity{ID: 7, Role: models.RoleEmployer, Name: "Grace"}, identity)
}

func TestParseRejectsExpiredAndForeignTokens(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	token, err := issuer.Issue(&models.User{ID: 1, Name: "A", Role: models.RoleApplicant})
	require.NoError(t, err)

	later := NewTokenIssuer("secret", time.Hour)
	later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = later.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewTokenIssuer("another-secret", time.Hour)
	_, err = other.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)
	assert.True(t, CheckPassword(hash, "hunter22"))

	mutations := []string{"hunter23", "Hunter22", "hunter2", "hunter222", "xunter22"}
	for _, m := range mutations {
		assert.False(t, CheckPassword(hash, m), "mutation %q accepted", m)
	}
}

func respondStatus(c *gin.Context, err error) {
	c.AbortWithStatusJSON(apperrors.Status(apperrors.KindOf(err)), gin.H{"success": false, "message": apperrors.Message(err)})
}

func newGuardedRouter(issuer *TokenIssuer, roles ...models.Role) *gin.Engine {
	r := gin.New()
	group := r.Group("/", Guard(issuer, respondStatus))
	if len(roles) > 0 {
		group.Use(RequireRole(respondStatus, roles...))
	}
	group.GET("/me", func(c *gin.Context) {
		identity, _ := Current(c)
		c.JSON(http.StatusOK, identity)
	})
	return r
}

func TestGuard(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	token, err := issuer.Issue(&models.User{ID: 3, Name: "Lin", Role: models.RoleApplicant})
	require.NoError(t, err)
	foreign, err := NewTokenIssuer("another-secret", time.Hour).Issue(&models.User{ID: 4, Name: "Eve", Role: models.RoleEmployer})
	require.NoError(t, err)
	stale := func(r *http.Request) { r.AddCookie(&http.Cookie{Name: CookieName, Value: foreign}) }

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		roles  []models.Role
		status int
	}{
		{name: "no token", setup: func(*http.Request) {}, status: http.StatusUnauthorized},
		{name: "garbage token", setup: func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, status: http.StatusUnauthorized},
		{name: "cookie", setup: func(r *http.Request) { r.AddCookie(&http.Cookie{Name: CookieName, Value: token}) }, status: http.StatusOK},
		{name: "bearer header", setup: func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }, status: http.StatusOK},
		{name: "wrong role", setup: func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }, roles: []models.Role{models.RoleEmployer}, status: http.StatusForbidden},
		{name: "allowed role", setup: func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }, roles: []models.Role{models.RoleApplicant}, status: http.StatusOK},
		{name: "stale cookie only", setup: stale, status: http.StatusUnauthorized},
		{name: "stale cookie with bearer header", setup: func(r *http.Request) { stale(r); r.Header.Set("Authorization", "Bearer "+token) }, roles: []models.Role{models.RoleApplicant}, status: http.StatusOK},
		{name: "valid cookie wins over bad header", setup: func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: CookieName, Value: token})
			r.Header.Set("Authorization", "Bearer nope")
		}, status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newGuardedRouter(issuer, tt.roles...)
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			tt.setup(req)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}
