package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/justsurfingit/jobster-api/internal/apperrors"
	"github.com/justsurfingit/jobster-api/internal/auth"
	"github.com/justsurfingit/jobster-api/internal/services"
)

// respondError records err on the context for the request logger and
// writes the failure envelope.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(apperrors.Status(apperrors.KindOf(err)), gin.H{
		"success": false,
		"message": apperrors.Message(err),
	})
}

func respond(c *gin.Context, status int, body gin.H) {
	body["success"] = true
	c.JSON(status, body)
}

func pageBody[T any](key string, p *services.Page[T]) gin.H {
	return gin.H{
		key:          p.Items,
		"page":       p.Page,
		"totalPages": p.TotalPages,
		"total":      p.Total,
	}
}

// bindError turns a gin binding failure into a validation error naming the
// first offending field.
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperrors.Wrap(err, apperrors.Validation, "Invalid request body.")
	}
	fe := verrs[0]
	field := lowerFirst(fe.Field())
	var msg string
	switch fe.Tag() {
	case "required":
		msg = "Please provide " + field + "."
	case "email":
		msg = "Please provide a valid email."
	case "min":
		msg = field + " must be at least " + fe.Param() + " long."
	case "max":
		msg = field + " cannot exceed " + fe.Param() + "."
	case "oneof":
		msg = field + " must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ") + "."
	default:
		msg = field + " is invalid."
	}
	return apperrors.Wrap(err, apperrors.Validation, msg)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// pathID parses a positive numeric path parameter.
func pathID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewValidation("Invalid %s.", name)
	}
	return uint(id), nil
}

// optionalFile returns the named upload of a multipart request, or nil when
// the request is not multipart or carries no such file.
func optionalFile(c *gin.Context, field string) (*multipart.FileHeader, error) {
	if c.ContentType() != binding.MIMEMultipartPOSTForm {
		return nil, nil
	}
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.Validation, "Invalid "+field+" upload.")
	}
	return fh, nil
}

func caller(c *gin.Context) (*auth.Identity, bool) {
	identity, ok := auth.Current(c)
	if !ok {
		respondError(c, apperrors.NewAuthentication("User is not authenticated."))
	}
	return identity, ok
}

// HealthCheck reports liveness.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
