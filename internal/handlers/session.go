package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/jobster-api/internal/auth"
	"github.com/justsurfingit/jobster-api/internal/models"
)

// Session issues signed tokens and the matching cookie.
type Session struct {
	Issuer    *auth.TokenIssuer
	CookieTTL time.Duration
}

func NewSession(issuer *auth.TokenIssuer, cookieTTL time.Duration) *Session {
	return &Session{Issuer: issuer, CookieTTL: cookieTTL}
}

func (s *Session) setCookie(c *gin.Context, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     auth.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Expires:  time.Now().Add(time.Duration(maxAge) * time.Second),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

// Send signs a token for user, sets the cookie and writes the session body.
func (s *Session) Send(c *gin.Context, status int, user *models.User, view any, message string) {
	token, err := s.Issuer.Issue(user)
	if err != nil {
		respondError(c, err)
		return
	}
	s.setCookie(c, token, int(s.CookieTTL.Seconds()))
	respond(c, status, gin.H{
		"message": message,
		"user":    view,
		"token":   token,
	})
}

// Logout expires the session cookie.
func (s *Session) Logout(c *gin.Context) {
	s.setCookie(c, "", -1)
	respond(c, http.StatusOK, gin.H{"message": "Logged out successfully."})
}
