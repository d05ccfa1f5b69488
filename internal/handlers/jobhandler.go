package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/jobster-api/internal/dtos"
	"github.com/justsurfingit/jobster-api/internal/services"
)

type JobHandler struct {
	Jobs         *services.JobService
	Users        *services.UserService
	Applications *services.ApplicationService
	Matcher      *services.MatcherService
	Activity     *services.ActivityService
}

func NewJobHandler(jobs *services.JobService, users *services.UserService, applications *services.ApplicationService, matcher *services.MatcherService, activity *services.ActivityService) *JobHandler {
	return &JobHandler{
		Jobs:         jobs,
		Users:        users,
		Applications: applications,
		Matcher:      matcher,
		Activity:     activity,
	}
}

// List is GET /job/getall.
func (h *JobHandler) List(c *gin.Context) {
	var q dtos.JobListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, bindError(err))
		return
	}
	filter := services.JobFilter{City: q.City, Niche: q.Niche, Keyword: q.Keyword}
	page, err := h.Jobs.List(c.Request.Context(), filter, services.ParsePage(q.Page))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, pageBody("jobs", page))
}

// Get is GET /job/get/:id.
func (h *JobHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	job, err := h.Jobs.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"job": job})
}

func (h *JobHandler) SmallCards(c *gin.Context) {
	jobs, companies, err := h.Jobs.SmallCards(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"jobs": jobs, "companies": companies})
}

// MyJobs is GET /job/fetchMyJobs?type&userId&page.
func (h *JobHandler) MyJobs(c *gin.Context) {
	var q dtos.MyJobsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, bindError(err))
		return
	}
	page, err := h.Jobs.MyJobs(c.Request.Context(), q.UserID, services.MyJobsType(q.Type), services.ParsePage(q.Page))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, pageBody("jobs", page))
}

// PostedByMe is GET /job/getmyjobs.
func (h *JobHandler) PostedByMe(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}
	jobs, err := h.Jobs.PostedBy(c.Request.Context(), identity.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"myJobs": jobs})
}

// Post is POST /job/post. A body with jobId updates that job.
func (h *JobHandler) Post(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}
	var req dtos.PostJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	ctx := c.Request.Context()
	job, err := h.Jobs.Post(ctx, identity, services.PostJobInput{
		JobID:        req.JobID,
		Title:        req.Title,
		Description:  req.Description,
		Salary:       req.Salary,
		Location:     req.Location,
		NoOfOpenings: req.NoOfOpenings,
		Niches:       req.Niches,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	detail, err := h.Jobs.Get(ctx, job.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	user, err := h.Users.ViewByID(ctx, identity.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	status, message := http.StatusCreated, "Job posted successfully."
	if req.JobID != nil {
		status, message = http.StatusOK, "Job updated successfully."
	}
	respond(c, status, gin.H{"message": message, "job": detail, "user": user})
}

// Delete is DELETE /job/delete/:id.
func (h *JobHandler) Delete(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.Jobs.Delete(c.Request.Context(), identity, id); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "Job deleted."})
}

// ToggleSave is POST /job/toggleSave.
func (h *JobHandler) ToggleSave(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}
	var req dtos.JobIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}
	ctx := c.Request.Context()
	saved, err := h.Jobs.ToggleSave(ctx, identity.ID, req.JobID)
	if err != nil {
		respondError(c, err)
		return
	}
	user, err := h.Users.ViewByID(ctx, identity.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"user": user, "saved": saved})
}

// Apply is POST /job/apply.
func (h *JobHandler) Apply(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}
	var req dtos.ApplyJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}
	ctx := c.Request.Context()
	if _, err := h.Applications.Apply(ctx, identity, req.JobID, req.CoverLetter); err != nil {
		respondError(c, err)
		return
	}
	user, err := h.Users.ViewByID(ctx, identity.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"user": user, "message": "Application submitted."})
}

// Matches is GET /job/matches.
func (h *JobHandler) Matches(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}
	page, err := h.Matcher.MatchJobs(c.Request.Context(), identity.ID, services.ParsePage(c.Query("page")))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, pageBody("jobs", page))
}

// Events is GET /job/events/:id.
func (h *JobHandler) Events(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	events, err := h.Activity.ForJob(c.Request.Context(), identity, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"events": events})
}
