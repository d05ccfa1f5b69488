package services

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/justsurfingit/jobster-api/internal/auth"
	"github.com/justsurfingit/jobster-api/internal/config"
	"github.com/justsurfingit/jobster-api/internal/database"
	"github.com/justsurfingit/jobster-api/internal/events"
	"github.com/justsurfingit/jobster-api/internal/media"
	"github.com/justsurfingit/jobster-api/internal/models"
)

type testEnv struct {
	db           *gorm.DB
	users        *UserService
	jobs         *JobService
	companies    *CompanyService
	applications *ApplicationService
	activity     *ActivityService
	matcher      *MatcherService
}

// newTestEnv wires every service against a temporary sqlite database with
// job events recorded inline.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log, _ := test.NewNullLogger()
	dir := t.TempDir()

	db, err := database.Connect(config.DatabaseConfig{Driver: "sqlite", DSN: filepath.Join(dir, "test.db")}, log)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, log))

	store, err := media.NewDiskStore(filepath.Join(dir, "media"), "/media", 1<<20)
	require.NoError(t, err)

	activity := NewActivityService(db, log)
	pub := &events.Inline{Handler: activity.Record}
	return &testEnv{
		db:           db,
		users:        NewUserService(db, store, log),
		jobs:         NewJobService(db, pub, log),
		companies:    NewCompanyService(db, store, log),
		applications: NewApplicationService(db, pub, log),
		activity:     activity,
		matcher:      NewMatcherService(db),
	}
}

func identityOf(u *models.User) *auth.Identity {
	return &auth.Identity{ID: u.ID, Role: u.Role, Name: u.Name}
}

func (e *testEnv) register(t *testing.T, name string, role models.Role, niches ...string) *auth.Identity {
	t.Helper()
	user, err := e.users.Register(context.Background(), RegisterInput{
		Name:     name,
		Email:    name + "@example.com",
		Phone:    "5550100",
		Password: "password123",
		Role:     role,
		Niches:   niches,
	}, ProfileFiles{})
	require.NoError(t, err)
	return identityOf(user)
}

// employer registers an employer who administers a company of the same name.
func (e *testEnv) employer(t *testing.T, name string) *auth.Identity {
	t.Helper()
	id := e.register(t, name, models.RoleEmployer)
	_, err := e.companies.Add(context.Background(), id, CompanyInput{
		Name:        name + " Inc",
		Email:       "hr@" + name + ".example.com",
		Address:     "Pune",
		Website:     "https://" + name + ".example.com",
		Description: "We hire.",
	}, nil)
	require.NoError(t, err)
	return id
}

func (e *testEnv) postJob(t *testing.T, caller *auth.Identity, title, location string, niches ...string) *models.Job {
	t.Helper()
	job, err := e.jobs.Post(context.Background(), caller, PostJobInput{
		Title:        title,
		Description:  fmt.Sprintf("%s role in %s", title, location),
		Salary:       "10-20 LPA",
		Location:     location,
		NoOfOpenings: 2,
		Niches:       niches,
	})
	require.NoError(t, err)
	return job
}

func count(t *testing.T, db *gorm.DB, model any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}
