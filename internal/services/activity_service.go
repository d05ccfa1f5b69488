package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/justsurfingit/jobster-api/internal/apperrors"
	"github.com/justsurfingit/jobster-api/internal/auth"
	"github.com/justsurfingit/jobster-api/internal/events"
	"github.com/justsurfingit/jobster-api/internal/models"
)

// ActivityService keeps the per-job activity log fed by job events.
type ActivityService struct {
	DB  *gorm.DB
	Log logrus.FieldLogger
}

func NewActivityService(db *gorm.DB, log logrus.FieldLogger) *ActivityService {
	return &ActivityService{DB: db, Log: log}
}

// Record stores one event. It satisfies events.Handler. Events for a job
// that has since been deleted are dropped without error so the broker
// does not redeliver them.
func (s *ActivityService) Record(ctx context.Context, event events.JobEvent) error {
	occurred := event.OccurredAt
	if occurred.IsZero() {
		occurred = time.Now().UTC()
	}
	row := models.JobEvent{
		CreatedAt: occurred,
		JobID:     event.JobID,
		ActorID:   event.ActorID,
		EventType: event.Type,
		Details:   event.Details,
	}
	log := s.Log.WithFields(logrus.Fields{"job_id": event.JobID, "type": event.Type})

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Delete takes the same row lock before clearing the log.
		var job models.Job
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&job, event.JobID).Error; err != nil {
			return err
		}
		return tx.Create(&row).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Debug("job gone, event dropped")
		return nil
	}
	if err != nil {
		return err
	}
	log.Debug("job event recorded")
	return nil
}

// ForJob lists a job's activity, newest first. Only the poster may read it.
func (s *ActivityService) ForJob(ctx context.Context, caller *auth.Identity, jobID uint) ([]models.JobEvent, error) {
	db := s.DB.WithContext(ctx)

	var job models.Job
	if err := db.Select("id", "posted_by_id").First(&job, jobID).Error; err != nil {
		return nil, apperrors.FromDB(err, "Job not found.")
	}
	if job.PostedByID != caller.ID {
		return nil, apperrors.NewForbidden("You can only view activity for jobs you posted.")
	}

	rows := []models.JobEvent{}
	if err := db.Where("job_id = ?", jobID).Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, apperrors.FromDB(err, "Job not found.")
	}
	return rows, nil
}
