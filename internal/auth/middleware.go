package auth

import (
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/jobster-api/internal/apperrors"
	"github.com/justsurfingit/jobster-api/internal/models"
)

const (
	CookieName  = "token"
	identityKey = "auth.identity"
)

// ErrorResponder writes an error envelope and aborts the request.
type ErrorResponder func(c *gin.Context, err error)

// Guard rejects requests without a valid session token and stores the
// caller's identity on the context. The cookie is tried first and a
// Bearer header is used when the cookie is missing or no longer valid.
func Guard(issuer *TokenIssuer, respond ErrorResponder) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokens := tokensFromRequest(c)
		if len(tokens) == 0 {
			respond(c, apperrors.NewAuthentication("User is not authenticated."))
			return
		}
		var err error
		for _, token := range tokens {
			var identity *Identity
			if identity, err = issuer.Parse(token); err == nil {
				c.Set(identityKey, identity)
				c.Next()
				return
			}
		}
		respond(c, apperrors.Wrap(err, apperrors.Authentication, "Session is invalid or expired."))
	}
}

// RequireRole must run after Guard.
func RequireRole(respond ErrorResponder, roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := Current(c)
		if !ok {
			respond(c, apperrors.NewAuthentication("User is not authenticated."))
			return
		}
		if !slices.Contains(roles, identity.Role) {
			respond(c, apperrors.NewForbidden("%s is not allowed to access this resource.", identity.Role))
			return
		}
		c.Next()
	}
}

// Current returns the identity stored by Guard.
func Current(c *gin.Context) (*Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	identity, ok := v.(*Identity)
	return identity, ok
}

// tokensFromRequest lists the candidate tokens, cookie first.
func tokensFromRequest(c *gin.Context) []string {
	var tokens []string
	if cookie, err := c.Cookie(CookieName); err == nil && cookie != "" {
		tokens = append(tokens, cookie)
	}
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		if token = strings.TrimSpace(token); token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}
