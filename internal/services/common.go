package services

import (
	"context"
	"errors"
	"mime/multipart"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/justsurfingit/jobster-api/internal/apperrors"
	"github.com/justsurfingit/jobster-api/internal/events"
	"github.com/justsurfingit/jobster-api/internal/media"
	"github.com/justsurfingit/jobster-api/internal/models"
)

// publish is best effort: a lost activity event never fails the request.
func publish(ctx context.Context, pub events.Publisher, log logrus.FieldLogger, eventType string, jobID, actorID uint, details string) {
	if pub == nil {
		return
	}
	event := events.JobEvent{
		Type:       eventType,
		JobID:      jobID,
		ActorID:    actorID,
		Details:    details,
		OccurredAt: time.Now().UTC(),
	}
	if err := pub.Publish(ctx, event); err != nil {
		log.WithError(err).WithFields(logrus.Fields{"type": eventType, "job_id": jobID}).Warn("failed to publish job event")
	}
}

// upload stores an optional file; a nil header yields an empty reference.
func upload(ctx context.Context, store media.Store, folder string, file *multipart.FileHeader, label string) (models.Media, error) {
	if file == nil {
		return models.Media{}, nil
	}
	m, err := store.Save(ctx, folder, file)
	switch {
	case err == nil:
		return m, nil
	case errors.Is(err, media.ErrTooLarge):
		return models.Media{}, apperrors.Wrap(err, apperrors.Validation, "The "+label+" is too large.")
	case errors.Is(err, media.ErrUnsupportedType):
		return models.Media{}, apperrors.Wrap(err, apperrors.Validation, "The "+label+" has an unsupported file type.")
	}
	return models.Media{}, apperrors.NewUpstream(err, "Failed to upload "+label+".")
}

// discard removes media that is no longer referenced.
func discard(ctx context.Context, store media.Store, log logrus.FieldLogger, refs ...models.Media) {
	for _, m := range refs {
		if m.PublicID == "" {
			continue
		}
		if err := store.Delete(ctx, m.PublicID); err != nil {
			log.WithError(err).WithField("public_id", m.PublicID).Warn("failed to delete media")
		}
	}
}
