package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/justsurfingit/jobster-api/internal/apperrors"
	"github.com/justsurfingit/jobster-api/internal/auth"
	"github.com/justsurfingit/jobster-api/internal/events"
	"github.com/justsurfingit/jobster-api/internal/models"
)

type JobService struct {
	DB     *gorm.DB
	Events events.Publisher
	Log    logrus.FieldLogger
}

func NewJobService(db *gorm.DB, pub events.Publisher, log logrus.FieldLogger) *JobService {
	return &JobService{
		DB:     db,
		Events: pub,
		Log:    log,
	}
}

const jobsNotFound = "Jobs not found."

// JobFilter narrows the public job listing. Empty fields are ignored and
// the rest are combined with AND.
type JobFilter struct {
	City    string
	Niche   string
	Keyword string
}

// MyJobsType selects one of a user's relationship lists.
type MyJobsType string

const (
	SavedJobs   MyJobsType = "savedJobs"
	AppliedJobs MyJobsType = "appliedJobs"
	PostedJobs  MyJobsType = "postedJobs"
)

type PostJobInput struct {
	JobID        *uint
	Title        string
	Description  string
	Salary       string
	Location     string
	NoOfOpenings int
	Niches       []string
}

func (f JobFilter) apply(db *gorm.DB) *gorm.DB {
	if city := strings.TrimSpace(f.City); city != "" {
		db = db.Where("jobs.location = ?", city)
	}
	if niche := strings.TrimSpace(f.Niche); niche != "" {
		db = db.Where("jobs.title = ?", niche)
	}
	if kw := strings.ToLower(strings.TrimSpace(f.Keyword)); kw != "" {
		like := "%" + kw + "%"
		db = db.Where("LOWER(jobs.title) LIKE ? OR LOWER(jobs.description) LIKE ?", like, like)
	}
	return db
}

// List returns one page of jobs matching the filter, newest first.
func (s *JobService) List(ctx context.Context, filter JobFilter, page int) (*Page[JobCard], error) {
	base := filter.apply(s.DB.Model(&models.Job{}))
	rows, total, err := paginate[models.Job](ctx, base, page, jobsNotFound, func(db *gorm.DB) *gorm.DB {
		return newestJobsFirst(withJobCard(db))
	})
	if err != nil {
		return nil, err
	}
	return newPage(rows, total, page, toJobCard), nil
}

// Get returns a job with its company, the company admin and the poster.
func (s *JobService) Get(ctx context.Context, id uint) (*JobDetail, error) {
	db := s.DB.WithContext(ctx)

	var job models.Job
	err := db.
		Preload("Company").
		Preload("Company.Admin", selectColumns(userSummaryColumns)).
		Preload("PostedBy", selectColumns(userSummaryColumns)).
		First(&job, id).Error
	if err != nil {
		return nil, apperrors.FromDB(err, "Oops! Job not found.")
	}

	var applications int64
	if err := db.Model(&models.Application{}).Where("job_id = ?", id).Count(&applications).Error; err != nil {
		return nil, apperrors.FromDB(err, "Oops! Job not found.")
	}
	return toJobDetail(&job, applications), nil
}

// SmallCards returns the latest 4 jobs and 3 companies for side panels.
func (s *JobService) SmallCards(ctx context.Context) ([]JobCard, []CompanySummary, error) {
	db := s.DB.WithContext(ctx)

	var jobs []models.Job
	if err := newestJobsFirst(withJobCard(db.Model(&models.Job{}))).Limit(4).Find(&jobs).Error; err != nil {
		return nil, nil, apperrors.FromDB(err, jobsNotFound)
	}
	var companies []models.Company
	if err := db.Select(companySummaryColumns).Order("created_at DESC").Limit(3).Find(&companies).Error; err != nil {
		return nil, nil, apperrors.FromDB(err, "Company not found.")
	}

	cards := make([]JobCard, 0, len(jobs))
	for i := range jobs {
		cards = append(cards, toJobCard(&jobs[i]))
	}
	summaries := make([]CompanySummary, 0, len(companies))
	for i := range companies {
		summaries = append(summaries, *toCompanySummary(&companies[i]))
	}
	return cards, summaries, nil
}

// MyJobs pages through one of the user's relationship lists.
func (s *JobService) MyJobs(ctx context.Context, userID uint, kind MyJobsType, page int) (*Page[JobCard], error) {
	base := s.DB.Model(&models.Job{})
	switch kind {
	case SavedJobs:
		base = base.Joins("JOIN user_saved_jobs ON user_saved_jobs.job_id = jobs.id").
			Where("user_saved_jobs.user_id = ?", userID)
	case AppliedJobs:
		base = base.Joins("JOIN applications ON applications.job_id = jobs.id").
			Where("applications.applicant_id = ?", userID)
	case PostedJobs:
		base = base.Where("jobs.posted_by_id = ?", userID)
	default:
		return nil, apperrors.NewValidation("type must be one of savedJobs, appliedJobs or postedJobs.")
	}

	var users int64
	if err := s.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Count(&users).Error; err != nil {
		return nil, apperrors.FromDB(err, "User not found.")
	}
	if users == 0 {
		return nil, apperrors.NewNotFound("User not found.")
	}

	rows, total, err := paginate[models.Job](ctx, base, page, jobsNotFound, func(db *gorm.DB) *gorm.DB {
		return newestJobsFirst(withJobCard(db))
	})
	if err != nil {
		return nil, err
	}
	return newPage(rows, total, page, toJobCard), nil
}

// PostedBy lists every job posted by the user, newest first.
func (s *JobService) PostedBy(ctx context.Context, userID uint) ([]JobCard, error) {
	var jobs []models.Job
	err := newestJobsFirst(withJobCard(s.DB.WithContext(ctx).Model(&models.Job{}))).
		Where("jobs.posted_by_id = ?", userID).
		Find(&jobs).Error
	if err != nil {
		return nil, apperrors.FromDB(err, jobsNotFound)
	}
	cards := make([]JobCard, 0, len(jobs))
	for i := range jobs {
		cards = append(cards, toJobCard(&jobs[i]))
	}
	return cards, nil
}

// Post creates a job, or updates it in place when in.JobID is set. The
// job always belongs to the caller's company.
func (s *JobService) Post(ctx context.Context, caller *auth.Identity, in PostJobInput) (*models.Job, error) {
	var poster models.User
	if err := s.DB.WithContext(ctx).First(&poster, caller.ID).Error; err != nil {
		return nil, apperrors.FromDB(err, "User not found.")
	}
	if poster.CompanyID == nil {
		return nil, apperrors.NewValidation("Create a company before posting jobs.")
	}

	job := models.Job{
		Title:        strings.TrimSpace(in.Title),
		Description:  in.Description,
		Salary:       in.Salary,
		Location:     strings.TrimSpace(in.Location),
		NoOfOpenings: in.NoOfOpenings,
		Niches:       cleanList(in.Niches),
		IsActive:     true,
		CompanyID:    poster.CompanyID,
		PostedByID:   poster.ID,
	}

	eventType := models.EventJobPosted
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.JobID == nil {
			return tx.Create(&job).Error
		}

		var existing models.Job
		if err := tx.First(&existing, *in.JobID).Error; err != nil {
			return apperrors.FromDB(err, "Oops! Job not found.")
		}
		if existing.PostedByID != caller.ID {
			return apperrors.NewForbidden("You can only edit jobs you posted.")
		}

		eventType = models.EventJobUpdated
		err := tx.Model(&existing).
			Select("title", "description", "salary", "location", "no_of_openings", "niches").
			Updates(models.Job{
				Title:        job.Title,
				Description:  job.Description,
				Salary:       job.Salary,
				Location:     job.Location,
				NoOfOpenings: job.NoOfOpenings,
				Niches:       job.Niches,
			}).Error
		if err != nil {
			return err
		}
		return tx.First(&job, existing.ID).Error
	})
	if err != nil {
		return nil, apperrors.FromDB(err, "Oops! Job not found.")
	}

	publish(ctx, s.Events, s.Log, eventType, job.ID, caller.ID, fmt.Sprintf("%s: %s", strings.ToLower(eventType), job.Title))
	s.Log.WithFields(logrus.Fields{"job_id": job.ID, "user_id": caller.ID, "event": eventType}).Info("job saved")
	return &job, nil
}

// Delete removes a job together with its applications, saved links and
// activity log.
func (s *JobService) Delete(ctx context.Context, caller *auth.Identity, id uint) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var job models.Job
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&job, id).Error; err != nil {
			return err
		}
		if job.PostedByID != caller.ID {
			return apperrors.NewForbidden("You can only delete jobs you posted.")
		}
		if err := tx.Where("job_id = ?", id).Delete(&models.Application{}).Error; err != nil {
			return err
		}
		if err := tx.Where("job_id = ?", id).Delete(&models.SavedJob{}).Error; err != nil {
			return err
		}
		if err := tx.Where("job_id = ?", id).Delete(&models.JobEvent{}).Error; err != nil {
			return err
		}
		return tx.Delete(&job).Error
	})
	if err != nil {
		return apperrors.FromDB(err, "Oops! Job not found.")
	}
	s.Log.WithFields(logrus.Fields{"job_id": id, "user_id": caller.ID}).Info("job deleted")
	return nil
}

// ToggleSave adds the job to the user's saved jobs, or removes it if it is
// already there. It reports whether the job is saved afterwards.
func (s *JobService) ToggleSave(ctx context.Context, userID, jobID uint) (bool, error) {
	saved := false
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var jobs int64
		if err := tx.Model(&models.Job{}).Where("id = ?", jobID).Count(&jobs).Error; err != nil {
			return err
		}
		if jobs == 0 {
			return apperrors.NewNotFound("Job not found.")
		}

		link := models.SavedJob{UserID: userID, JobID: jobID}
		res := tx.Where(&link).Delete(&models.SavedJob{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		saved = true
		return tx.Create(&link).Error
	})
	if err != nil {
		return false, apperrors.FromDB(err, "Job not found.")
	}
	return saved, nil
}
