package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/jobster-api/internal/dtos"
	"github.com/justsurfingit/jobster-api/internal/services"
)

type ApplicationHandler struct {
	Applications *services.ApplicationService
}

func NewApplicationHandler(applications *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{Applications: applications}
}

// Post is POST /application/post/:id.
func (h *ApplicationHandler) Post(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}
	jobID, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var req dtos.PostApplicationRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, bindError(err))
		return
	}
	application, err := h.Applications.Apply(c.Request.Context(), identity, jobID, req.CoverLetter)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, gin.H{"message": "Application submitted.", "application": application})
}

// ForEmployer is GET /application/employer/getall.
func (h *ApplicationHandler) ForEmployer(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}
	page, err := h.Applications.ForEmployer(c.Request.Context(), identity, services.ParsePage(c.Query("page")))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, pageBody("applications", page))
}

// ForApplicant is GET /application/jobseeker/getall.
func (h *ApplicationHandler) ForApplicant(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}
	page, err := h.Applications.ForApplicant(c.Request.Context(), identity, services.ParsePage(c.Query("page")))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, pageBody("applications", page))
}

// ForJob is POST /application/get?page with the job id in the body.
func (h *ApplicationHandler) ForJob(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}
	var req dtos.JobApplicationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}
	page, err := h.Applications.ForJob(c.Request.Context(), identity, req.JobID, services.ParsePage(c.Query("page")))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, pageBody("applications", page))
}

// Delete is DELETE /application/delete/:id.
func (h *ApplicationHandler) Delete(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.Applications.Delete(c.Request.Context(), identity, id); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "Application deleted."})
}
