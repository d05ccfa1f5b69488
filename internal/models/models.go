package models

import (
	"time"

	"gorm.io/datatypes"
)

// Role is the closed set of account kinds.
type Role string

const (
	RoleApplicant Role = "Applicant"
	RoleEmployer  Role = "Employer"
)

func (r Role) Valid() bool {
	return r == RoleApplicant || r == RoleEmployer
}

// Media points at an object held by the media store.
type Media struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
}

// Empty reports whether no object is referenced.
func (m Media) Empty() bool { return m.PublicID == "" && m.URL == "" }

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name     string `gorm:"size:30;not null" json:"name"`
	Email    string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Phone    string `gorm:"size:32;not null" json:"phone"`
	Password string `gorm:"not null" json:"-"`
	Role     Role   `gorm:"size:16;not null;index" json:"role"`
	Bio      string `gorm:"type:text" json:"bio"`

	Skills datatypes.JSONSlice[string] `json:"skills"`
	Niches datatypes.JSONSlice[string] `json:"niches"`

	ProfilePhoto Media `gorm:"embedded;embeddedPrefix:profile_photo_" json:"profilePhoto"`
	Resume       Media `gorm:"embedded;embeddedPrefix:resume_" json:"resume"`

	// Saved jobs live in user_saved_jobs; applied and posted jobs are
	// derived from Application.ApplicantID and Job.PostedByID.
	CompanyID *uint `gorm:"index" json:"company"`
}

type Company struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name        string `gorm:"uniqueIndex;size:255;not null" json:"name"`
	Email       string `gorm:"size:255;not null" json:"email"`
	Phone       string `gorm:"size:32" json:"phone"`
	Address     string `gorm:"not null" json:"address"`
	Website     string `gorm:"not null" json:"website"`
	Logo        Media  `gorm:"embedded;embeddedPrefix:logo_" json:"logo"`
	Description string `gorm:"type:text;not null" json:"description"`

	AdminID uint  `gorm:"index" json:"admin_id"`
	Admin   *User `gorm:"foreignKey:AdminID" json:"admin,omitempty"`

	// 'omitempty' prevents infinite loops when fetching a Job -> Company -> Jobs -> ...
	Jobs []Job `json:"jobs,omitempty"`
}

type Job struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title        string                      `gorm:"not null;index" json:"title"`
	Description  string                      `gorm:"type:text;not null" json:"description"`
	Salary       string                      `json:"salary"`
	Location     string                      `gorm:"index" json:"location"`
	NoOfOpenings int                         `gorm:"not null" json:"noOfOpenings"`
	Niches       datatypes.JSONSlice[string] `json:"niches"`
	IsActive     bool                        `gorm:"default:true" json:"isActive"`

	// Foreign Key
	CompanyID *uint `gorm:"index" json:"company_id"`
	// Association: GORM needs Preload() to fill this
	Company *Company `json:"company,omitempty"`

	PostedByID uint  `gorm:"index;not null" json:"posted_by_id"`
	PostedBy   *User `gorm:"foreignKey:PostedByID" json:"postedBy,omitempty"`

	Applications []Application `json:"applications,omitempty"`
}

type Application struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CoverLetter string    `gorm:"type:text;not null" json:"coverLetter"`
	AppliedOn   time.Time `gorm:"index" json:"appliedOn"`

	ApplicantID uint  `gorm:"not null;uniqueIndex:idx_application_applicant_job" json:"applicant_id"`
	Applicant   *User `gorm:"foreignKey:ApplicantID" json:"applicant,omitempty"`

	JobID uint `gorm:"not null;uniqueIndex:idx_application_applicant_job;index" json:"job_id"`
	Job   *Job `json:"job,omitempty"`
}

// SavedJob links a user to a job they bookmarked.
type SavedJob struct {
	UserID    uint      `gorm:"primaryKey" json:"user_id"`
	JobID     uint      `gorm:"primaryKey;index" json:"job_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (SavedJob) TableName() string { return "user_saved_jobs" }

// Event types recorded in the per-job activity log.
const (
	EventJobPosted            = "JOB_POSTED"
	EventJobUpdated           = "JOB_UPDATED"
	EventApplicationSubmitted = "APPLICATION_SUBMITTED"
	EventApplicationWithdrawn = "APPLICATION_WITHDRAWN"
)

type JobEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	JobID     uint      `gorm:"index" json:"job_id"`
	ActorID   uint      `json:"actor_id"`
	EventType string    `gorm:"size:32" json:"event_type"`
	Details   string    `gorm:"type:text" json:"details"`
}

// All lists the models managed by migrations.
func All() []any {
	return []any{&User{}, &Company{}, &Job{}, &Application{}, &SavedJob{}, &JobEvent{}}
}
