package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/jobster-api/internal/auth"
	"github.com/justsurfingit/jobster-api/internal/models"
)

// Router holds everything the route table needs.
type Router struct {
	Users        *UserHandler
	Jobs         *JobHandler
	Companies    *CompanyHandler
	Applications *ApplicationHandler
	Issuer       *auth.TokenIssuer
	MediaDir     string
}

// Register mounts the API under /api/v1. Protected routes are only ever
// added to groups that carry the guard.
func (rt *Router) Register(r *gin.Engine) {
	guard := auth.Guard(rt.Issuer, respondError)
	employer := auth.RequireRole(respondError, models.RoleEmployer)
	applicant := auth.RequireRole(respondError, models.RoleApplicant)

	api := r.Group("/api/v1")
	api.GET("/health", HealthCheck)
	if rt.MediaDir != "" {
		api.Static("/media", rt.MediaDir)
	}

	user := api.Group("/user")
	{
		user.POST("/register", rt.Users.Register)
		user.POST("/login", rt.Users.Login)
		user.GET("/logout", rt.Users.Logout)
		user.GET("/:userId", rt.Users.Get)

		me := user.Group("", guard)
		me.PUT("/update/profile", rt.Users.UpdateProfile)
		me.POST("/edit", rt.Users.UpdateProfile)
		me.PUT("/update/profile/password", rt.Users.UpdatePassword)
	}

	job := api.Group("/job")
	{
		job.GET("/getall", rt.Jobs.List)
		job.GET("/get/:id", rt.Jobs.Get)
		job.GET("/fetchSmallCards", rt.Jobs.SmallCards)
		job.GET("/fetchMyJobs", rt.Jobs.MyJobs)

		authed := job.Group("", guard)
		authed.POST("/toggleSave", rt.Jobs.ToggleSave)

		byEmployer := authed.Group("", employer)
		byEmployer.POST("/post", rt.Jobs.Post)
		byEmployer.GET("/getmyjobs", rt.Jobs.PostedByMe)
		byEmployer.GET("/events/:id", rt.Jobs.Events)
		byEmployer.DELETE("/delete/:id", rt.Jobs.Delete)

		byApplicant := authed.Group("", applicant)
		byApplicant.GET("/matches", rt.Jobs.Matches)
		byApplicant.POST("/apply", rt.Jobs.Apply)
	}

	company := api.Group("/company")
	{
		company.GET("/:id", rt.Companies.Get)
		company.GET("/name/:name", rt.Companies.ByName)

		byEmployer := company.Group("", guard, employer)
		byEmployer.POST("/add", rt.Companies.Add)
	}

	application := api.Group("/application")
	{
		authed := application.Group("", guard)
		authed.DELETE("/delete/:id", rt.Applications.Delete)

		byApplicant := authed.Group("", applicant)
		byApplicant.POST("/post/:id", rt.Applications.Post)
		byApplicant.GET("/jobseeker/getall", rt.Applications.ForApplicant)

		byEmployer := authed.Group("", employer)
		byEmployer.GET("/employer/getall", rt.Applications.ForEmployer)
		byEmployer.POST("/get", rt.Applications.ForJob)
	}
}
