package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/justsurfingit/jobster-api/internal/models"
)

// Column projections used when preloading references. Each list includes
// the primary key so gorm can match preloaded rows back to their owners.
var (
	jobCardColumns = []string{
		"jobs.id", "jobs.title", "jobs.salary", "jobs.location", "jobs.description",
		"jobs.niches", "jobs.no_of_openings", "jobs.created_at", "jobs.company_id", "jobs.posted_by_id",
	}
	companySummaryColumns = []string{"id", "name", "logo_public_id", "logo_url", "address"}
	userSummaryColumns    = []string{"id", "name", "email", "profile_photo_public_id", "profile_photo_url"}
	applicantColumns      = []string{
		"id", "name", "email", "phone", "niches", "skills",
		"profile_photo_public_id", "profile_photo_url", "resume_public_id", "resume_url",
	}
)

func selectColumns(cols []string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB { return db.Select(cols) }
}

// withJobCard selects card columns and resolves the company summary.
func withJobCard(db *gorm.DB) *gorm.DB {
	return db.Select(jobCardColumns).Preload("Company", selectColumns(companySummaryColumns))
}

// newestJobsFirst orders by creation time with id as a tie breaker.
func newestJobsFirst(db *gorm.DB) *gorm.DB {
	return db.Order("jobs.created_at DESC").Order("jobs.id DESC")
}

type UserSummary struct {
	ID           uint          `json:"id"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	ProfilePhoto *models.Media `json:"profilePhoto"`
}

type CompanySummary struct {
	ID       uint          `json:"id"`
	Name     string        `json:"name"`
	Logo     *models.Media `json:"logo"`
	Location string        `json:"location"`
}

type CompanyDetail struct {
	CompanySummary
	Email       string       `json:"email"`
	Phone       string       `json:"phone"`
	Website     string       `json:"website"`
	Description string       `json:"description"`
	Admin       *UserSummary `json:"admin"`
	Jobs        []JobCard    `json:"jobs,omitempty"`
}

type JobCard struct {
	ID           uint            `json:"id"`
	Title        string          `json:"title"`
	Salary       string          `json:"salary"`
	Location     string          `json:"location"`
	Description  string          `json:"description"`
	Niches       []string        `json:"niches"`
	NoOfOpenings int             `json:"noOfOpenings"`
	CreatedAt    time.Time       `json:"jobPostedOn"`
	Company      *CompanySummary `json:"company"`
}

type JobDetail struct {
	JobCard
	IsActive         bool           `json:"isActive"`
	Company          *CompanyDetail `json:"company"`
	PostedBy         *UserSummary   `json:"postedBy"`
	ApplicationCount int64          `json:"applicationCount"`
}

type ApplicantView struct {
	ID           uint          `json:"id"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	Phone        string        `json:"phone"`
	Niches       []string      `json:"niches"`
	Skills       []string      `json:"skills"`
	ProfilePhoto *models.Media `json:"profilePhoto"`
	Resume       *models.Media `json:"resume"`
}

type ApplicationView struct {
	ID          uint           `json:"id"`
	CoverLetter string         `json:"coverLetter"`
	AppliedOn   time.Time      `json:"appliedOn"`
	Applicant   *ApplicantView `json:"applicant"`
	Job         *JobCard       `json:"job,omitempty"`
}

// UserView is the public shape of a user. It never carries the password.
type UserView struct {
	ID           uint          `json:"id"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	Phone        string        `json:"phone"`
	Role         models.Role   `json:"role"`
	Bio          string        `json:"bio"`
	Skills       []string      `json:"skills"`
	Niches       []string      `json:"niches"`
	ProfilePhoto *models.Media `json:"profilePhoto"`
	Resume       *models.Media `json:"resume"`
	Company      *uint         `json:"company"`
	SavedJobs    []uint        `json:"savedJobs"`
	AppliedJobs  []uint        `json:"appliedJobs"`
	PostedJobs   []uint        `json:"postedJobs"`
	CreatedAt    time.Time     `json:"createdAt"`
}

func mediaRef(m models.Media) *models.Media {
	if m.Empty() {
		return nil
	}
	return &m
}

func list(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func toUserSummary(u *models.User) *UserSummary {
	if u == nil || u.ID == 0 {
		return nil
	}
	return &UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, ProfilePhoto: mediaRef(u.ProfilePhoto)}
}

func toCompanySummary(c *models.Company) *CompanySummary {
	if c == nil || c.ID == 0 {
		return nil
	}
	return &CompanySummary{ID: c.ID, Name: c.Name, Logo: mediaRef(c.Logo), Location: c.Address}
}

func toCompanyDetail(c *models.Company) *CompanyDetail {
	summary := toCompanySummary(c)
	if summary == nil {
		return nil
	}
	detail := &CompanyDetail{
		CompanySummary: *summary,
		Email:          c.Email,
		Phone:          c.Phone,
		Website:        c.Website,
		Description:    c.Description,
		Admin:          toUserSummary(c.Admin),
	}
	for i := range c.Jobs {
		detail.Jobs = append(detail.Jobs, toJobCard(&c.Jobs[i]))
	}
	return detail
}

func toJobCard(j *models.Job) JobCard {
	return JobCard{
		ID:           j.ID,
		Title:        j.Title,
		Salary:       j.Salary,
		Location:     j.Location,
		Description:  j.Description,
		Niches:       list(j.Niches),
		NoOfOpenings: j.NoOfOpenings,
		CreatedAt:    j.CreatedAt,
		Company:      toCompanySummary(j.Company),
	}
}

func toJobDetail(j *models.Job, applications int64) *JobDetail {
	return &JobDetail{
		JobCard:          toJobCard(j),
		IsActive:         j.IsActive,
		Company:          toCompanyDetail(j.Company),
		PostedBy:         toUserSummary(j.PostedBy),
		ApplicationCount: applications,
	}
}

func toApplicantView(u *models.User) *ApplicantView {
	if u == nil || u.ID == 0 {
		return nil
	}
	return &ApplicantView{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Phone:        u.Phone,
		Niches:       list(u.Niches),
		Skills:       list(u.Skills),
		ProfilePhoto: mediaRef(u.ProfilePhoto),
		Resume:       mediaRef(u.Resume),
	}
}

func toApplicationView(a *models.Application) ApplicationView {
	v := ApplicationView{
		ID:          a.ID,
		CoverLetter: a.CoverLetter,
		AppliedOn:   a.AppliedOn,
		Applicant:   toApplicantView(a.Applicant),
	}
	if a.Job != nil && a.Job.ID != 0 {
		card := toJobCard(a.Job)
		v.Job = &card
	}
	return v
}
