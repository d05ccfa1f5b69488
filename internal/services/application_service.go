package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/justsurfingit/jobster-api/internal/apperrors"
	"github.com/justsurfingit/jobster-api/internal/auth"
	"github.com/justsurfingit/jobster-api/internal/events"
	"github.com/justsurfingit/jobster-api/internal/models"
)

type ApplicationService struct {
	DB     *gorm.DB
	Events events.Publisher
	Log    logrus.FieldLogger
}

func NewApplicationService(db *gorm.DB, pub events.Publisher, log logrus.FieldLogger) *ApplicationService {
	return &ApplicationService{DB: db, Events: pub, Log: log}
}

const applicationsNotFound = "Applications not found."

func newestApplicationsFirst(db *gorm.DB) *gorm.DB {
	return db.Order("applications.applied_on DESC").Order("applications.id DESC")
}

// Apply records the caller's application to a job. A missing job creates
// nothing; a second application to the same job is a conflict.
func (s *ApplicationService) Apply(ctx context.Context, caller *auth.Identity, jobID uint, coverLetter string) (*models.Application, error) {
	if strings.TrimSpace(coverLetter) == "" {
		return nil, apperrors.NewValidation("Cover letter is required.")
	}

	var application models.Application
	var job models.Job
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id", "title").First(&job, jobID).Error; err != nil {
			return apperrors.FromDB(err, "Job not found.")
		}

		var existing int64
		if err := tx.Model(&models.Application{}).
			Where("applicant_id = ? AND job_id = ?", caller.ID, jobID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return apperrors.NewConflict("You have already applied to this job.")
		}

		application = models.Application{
			CoverLetter: coverLetter,
			ApplicantID: caller.ID,
			JobID:       jobID,
			AppliedOn:   time.Now().UTC(),
		}
		return tx.Create(&application).Error
	})
	if err != nil {
		// The unique index catches a concurrent duplicate.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.NewConflict("You have already applied to this job.")
		}
		return nil, apperrors.FromDB(err, "Job not found.")
	}

	publish(ctx, s.Events, s.Log, models.EventApplicationSubmitted, jobID, caller.ID,
		fmt.Sprintf("%s applied to %s", caller.Name, job.Title))
	s.Log.WithFields(logrus.Fields{"application_id": application.ID, "job_id": jobID, "user_id": caller.ID}).Info("application submitted")
	return &application, nil
}

// ownedJob loads a job and checks that the caller posted it.
func (s *ApplicationService) ownedJob(ctx context.Context, caller *auth.Identity, jobID uint) (*models.Job, error) {
	var job models.Job
	if err := s.DB.WithContext(ctx).Select("id", "title", "posted_by_id").First(&job, jobID).Error; err != nil {
		return nil, apperrors.FromDB(err, "Job not found.")
	}
	if job.PostedByID != caller.ID {
		return nil, apperrors.NewForbidden("You are not authorized to view these applications.")
	}
	return &job, nil
}

// ForJob pages through applications to a job the caller posted, each with
// the applicant resolved.
func (s *ApplicationService) ForJob(ctx context.Context, caller *auth.Identity, jobID uint, page int) (*Page[ApplicationView], error) {
	if _, err := s.ownedJob(ctx, caller, jobID); err != nil {
		return nil, err
	}
	base := s.DB.Model(&models.Application{}).Where("applications.job_id = ?", jobID)
	rows, total, err := paginate[models.Application](ctx, base, page, applicationsNotFound, func(db *gorm.DB) *gorm.DB {
		return newestApplicationsFirst(db.Preload("Applicant", selectColumns(applicantColumns)))
	})
	if err != nil {
		return nil, err
	}
	return newPage(rows, total, page, toApplicationView), nil
}

// ForEmployer pages through applications to every job the caller posted.
func (s *ApplicationService) ForEmployer(ctx context.Context, caller *auth.Identity, page int) (*Page[ApplicationView], error) {
	base := s.DB.Model(&models.Application{}).
		Joins("JOIN jobs ON jobs.id = applications.job_id").
		Where("jobs.posted_by_id = ?", caller.ID)
	rows, total, err := paginate[models.Application](ctx, base, page, applicationsNotFound, func(db *gorm.DB) *gorm.DB {
		return newestApplicationsFirst(db.Select("applications.*").
			Preload("Applicant", selectColumns(applicantColumns)).
			Preload("Job", selectColumns(jobCardColumns)))
	})
	if err != nil {
		return nil, err
	}
	return newPage(rows, total, page, toApplicationView), nil
}

// ForApplicant pages through the caller's own applications.
func (s *ApplicationService) ForApplicant(ctx context.Context, caller *auth.Identity, page int) (*Page[ApplicationView], error) {
	base := s.DB.Model(&models.Application{}).Where("applications.applicant_id = ?", caller.ID)
	rows, total, err := paginate[models.Application](ctx, base, page, applicationsNotFound, func(db *gorm.DB) *gorm.DB {
		return newestApplicationsFirst(db.
			Preload("Applicant", selectColumns(applicantColumns)).
			Preload("Job", selectColumns(jobCardColumns)).
			Preload("Job.Company", selectColumns(companySummaryColumns)))
	})
	if err != nil {
		return nil, err
	}
	return newPage(rows, total, page, toApplicationView), nil
}

// Delete removes an application. The applicant and the employer who posted
// the job may delete it.
func (s *ApplicationService) Delete(ctx context.Context, caller *auth.Identity, id uint) error {
	var application models.Application
	err := s.DB.WithContext(ctx).Preload("Job", selectColumns([]string{"id", "title", "posted_by_id"})).
		First(&application, id).Error
	if err != nil {
		return apperrors.FromDB(err, "Application not found.")
	}

	ownsJob := application.Job != nil && application.Job.PostedByID == caller.ID
	if application.ApplicantID != caller.ID && !ownsJob {
		return apperrors.NewForbidden("You cannot delete this application.")
	}

	if err := s.DB.WithContext(ctx).Delete(&application).Error; err != nil {
		return apperrors.FromDB(err, "Application not found.")
	}

	publish(ctx, s.Events, s.Log, models.EventApplicationWithdrawn, application.JobID, caller.ID,
		fmt.Sprintf("application %d removed by %s", application.ID, caller.Name))
	return nil
}
