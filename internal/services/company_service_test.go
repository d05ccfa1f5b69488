package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justsurfingit/jobster-api/internal/apperrors"
	"github.com/justsurfingit/jobster-api/internal/models"
)

var acme = CompanyInput{
	Name:        "Acme",
	Email:       "HR@acme.example.com",
	Address:     "Pune",
	Website:     "https://acme.example.com",
	Description: "Anvils.",
}

func TestAddCompanyLinksAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	emp := env.register(t, "ada", models.RoleEmployer)

	company, err := env.companies.Add(ctx, emp, acme, nil)
	require.NoError(t, err)
	assert.Equal(t, "hr@acme.example.com", company.Email)

	user, err := env.users.Get(ctx, emp.ID)
	require.NoError(t, err)
	require.NotNil(t, user.CompanyID)
	assert.Equal(t, company.ID, *user.CompanyID)

	detail, err := env.companies.Get(ctx, company.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pune", detail.Location)
	require.NotNil(t, detail.Admin)
	assert.Equal(t, emp.ID, detail.Admin.ID)

	_, err = env.companies.Add(ctx, emp, CompanyInput{Name: "Second", Address: "x", Website: "x", Description: "x"}, nil)
	assert.True(t, apperrors.Is(err, apperrors.Conflict))
}

func TestAddDuplicateCompanyCreatesNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ada := env.register(t, "ada", models.RoleEmployer)
	bob := env.register(t, "bob", models.RoleEmployer)

	_, err := env.companies.Add(ctx, ada, acme, nil)
	require.NoError(t, err)

	_, err = env.companies.Add(ctx, bob, acme, nil)
	require.True(t, apperrors.Is(err, apperrors.Conflict))
	assert.EqualValues(t, 1, count(t, env.db, &models.Company{}, "name = ?", "Acme"))

	user, err := env.users.Get(ctx, bob.ID)
	require.NoError(t, err)
	assert.Nil(t, user.CompanyID)
}

func TestCompanyByName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	emp := env.employer(t, "acme")
	first := env.postJob(t, emp, "Backend Engineer", "Pune")
	second := env.postJob(t, emp, "Frontend Engineer", "Pune")

	detail, err := env.companies.ByName(ctx, "acme Inc")
	require.NoError(t, err)
	require.Len(t, detail.Jobs, 2)
	assert.Equal(t, second.ID, detail.Jobs[0].ID)
	assert.Equal(t, first.ID, detail.Jobs[1].ID)
	require.NotNil(t, detail.Jobs[0].Company)
	assert.Equal(t, "acme Inc", detail.Jobs[0].Company.Name)
	require.NotNil(t, detail.Admin)
	assert.Equal(t, emp.ID, detail.Admin.ID)

	_, err = env.companies.ByName(ctx, "Nope")
	assert.True(t, apperrors.Is(err, apperrors.NotFound))

	_, err = env.companies.Get(ctx, 999)
	assert.True(t, apperrors.Is(err, apperrors.NotFound))
}
