package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justsurfingit/jobster-api/internal/apperrors"
	"github.com/justsurfingit/jobster-api/internal/events"
	"github.com/justsurfingit/jobster-api/internal/models"
)

func TestJobActivityIsRecorded(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	emp := env.employer(t, "acme")
	job := env.postJob(t, emp, "Backend Engineer", "Pune")
	_, err := env.jobs.Post(ctx, emp, PostJobInput{JobID: &job.ID, Title: "Backend Lead", Description: "x", Location: "Pune", NoOfOpenings: 1})
	require.NoError(t, err)
	seeker := env.register(t, "sam", models.RoleApplicant, "backend")
	_, err = env.applications.Apply(ctx, seeker, job.ID, "Hire me.")
	require.NoError(t, err)

	events, err := env.activity.ForJob(ctx, emp, job.ID)
	require.NoError(t, err)
	var types []string
	for _, e := range events {
		types = append(types, e.EventType)
	}
	assert.Equal(t, []string{models.EventApplicationSubmitted, models.EventJobUpdated, models.EventJobPosted}, types)
	assert.Equal(t, seeker.ID, events[0].ActorID)

	_, err = env.activity.ForJob(ctx, seeker, job.ID)
	assert.True(t, apperrors.Is(err, apperrors.Forbidden))
	_, err = env.activity.ForJob(ctx, emp, job.ID+100)
	assert.True(t, apperrors.Is(err, apperrors.NotFound))
}

func TestLateEventForDeletedJobIsDropped(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	emp := env.employer(t, "acme")
	job := env.postJob(t, emp, "Backend Engineer", "Pune")
	seeker := env.register(t, "sam", models.RoleApplicant, "backend")

	require.NoError(t, env.jobs.Delete(ctx, emp, job.ID))
	require.Zero(t, count(t, env.db, &models.JobEvent{}, "job_id = ?", job.ID))

	late := events.JobEvent{Type: models.EventApplicationSubmitted, JobID: job.ID, ActorID: seeker.ID, Details: "late"}
	require.NoError(t, env.activity.Record(ctx, late))
	assert.Zero(t, count(t, env.db, &models.JobEvent{}, "job_id = ?", job.ID))

	require.NoError(t, env.activity.Record(ctx, events.JobEvent{Type: models.EventJobUpdated, JobID: job.ID + 100, ActorID: emp.ID}))
	assert.Zero(t, count(t, env.db, &models.JobEvent{}, "job_id = ?", job.ID+100))
}
