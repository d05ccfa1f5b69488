package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/jobster-api/internal/dtos"
	"github.com/justsurfingit/jobster-api/internal/models"
	"github.com/justsurfingit/jobster-api/internal/services"
)

type UserHandler struct {
	Users   *services.UserService
	Session *Session
}

func NewUserHandler(users *services.UserService, session *Session) *UserHandler {
	return &UserHandler{Users: users, Session: session}
}

func profileFiles(c *gin.Context) (services.ProfileFiles, error) {
	var files services.ProfileFiles
	var err error
	if files.Resume, err = optionalFile(c, "resume"); err != nil {
		return files, err
	}
	if files.ProfilePhoto, err = optionalFile(c, "profilePhoto"); err != nil {
		return files, err
	}
	return files, nil
}

// Register is POST /user/register.
func (h *UserHandler) Register(c *gin.Context) {
	var req dtos.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, bindError(err))
		return
	}
	files, err := profileFiles(c)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	user, err := h.Users.Register(ctx, services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		Role:     models.Role(req.Role),
		Bio:      req.Bio,
		Niches:   req.Niches,
		Skills:   req.Skills,
	}, files)
	if err != nil {
		respondError(c, err)
		return
	}
	view, err := h.Users.View(ctx, user)
	if err != nil {
		respondError(c, err)
		return
	}
	h.Session.Send(c, http.StatusCreated, user, view, "User registered successfully.")
}

// Login is POST /user/login.
func (h *UserHandler) Login(c *gin.Context) {
	var req dtos.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, bindError(err))
		return
	}
	ctx := c.Request.Context()
	user, err := h.Users.Login(ctx, req.Email, req.Password, models.Role(req.Role))
	if err != nil {
		respondError(c, err)
		return
	}
	view, err := h.Users.View(ctx, user)
	if err != nil {
		respondError(c, err)
		return
	}
	h.Session.Send(c, http.StatusOK, user, view, "User logged in successfully.")
}

func (h *UserHandler) Logout(c *gin.Context) {
	h.Session.Logout(c)
}

// Get is GET /user/:userId.
func (h *UserHandler) Get(c *gin.Context) {
	id, err := pathID(c, "userId")
	if err != nil {
		respondError(c, err)
		return
	}
	view, err := h.Users.ViewByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"user": view})
}

// UpdateProfile serves both PUT /user/update/profile and POST /user/edit.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}
	var req dtos.UpdateProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, bindError(err))
		return
	}
	files, err := profileFiles(c)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	user, err := h.Users.UpdateProfile(ctx, identity.ID, services.ProfileInput{
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Bio:    req.Bio,
		Niches: req.Niches,
		Skills: req.Skills,
	}, files)
	if err != nil {
		respondError(c, err)
		return
	}
	view, err := h.Users.View(ctx, user)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"user": view, "message": "Profile updated."})
}

// UpdatePassword is PUT /user/update/profile/password. It re-issues the
// session on success.
func (h *UserHandler) UpdatePassword(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}
	var req dtos.UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}
	ctx := c.Request.Context()
	user, err := h.Users.UpdatePassword(ctx, identity.ID, req.OldPassword, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		respondError(c, err)
		return
	}
	view, err := h.Users.View(ctx, user)
	if err != nil {
		respondError(c, err)
		return
	}
	h.Session.Send(c, http.StatusOK, user, view, "Password updated.")
}
