package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/justsurfingit/jobster-api/internal/apperrors"
	"github.com/justsurfingit/jobster-api/internal/models"
)

type MatcherService struct {
	DB *gorm.DB
}

func NewMatcherService(db *gorm.DB) *MatcherService {
	return &MatcherService{DB: db}
}

// MatchJobs pages through jobs that fit the user's preferred niches,
// newest first.
func (s *MatcherService) MatchJobs(ctx context.Context, userID uint, page int) (*Page[JobCard], error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Select("id", "niches").First(&user, userID).Error; err != nil {
		return nil, apperrors.FromDB(err, "User not found.")
	}
	niches := normalizeNiches(user.Niches)
	if len(niches) == 0 {
		return nil, apperrors.NewValidation("Please provide your preferred job niches.")
	}

	// TODO: push the niche match into SQL once jobs.niches is queryable on every driver.
	var jobs []models.Job
	err := newestJobsFirst(withJobCard(s.DB.WithContext(ctx).Model(&models.Job{}))).
		Where("jobs.is_active = ?", true).
		Find(&jobs).Error
	if err != nil {
		return nil, apperrors.FromDB(err, jobsNotFound)
	}

	var matches []JobCard
	for i := range jobs {
		if MatchesNiches(&jobs[i], niches) {
			matches = append(matches, toJobCard(&jobs[i]))
		}
	}
	return slicePage(matches, page, jobsNotFound)
}

// normalizeNiches lowercases niches and drops the short ones.
func normalizeNiches(in []string) []string {
	out := make([]string, 0, len(in))
	for _, n := range in {
		n = strings.ToLower(strings.TrimSpace(n))
		// Very short names would match almost every title.
		if len(n) < 3 {
			continue
		}
		out = append(out, n)
	}
	return out
}

// MatchesNiches reports whether a job fits any of the lowercased niches.
func MatchesNiches(job *models.Job, niches []string) bool {
	title := strings.ToLower(job.Title)
	for _, niche := range niches {
		// Rule 1: the job is tagged with the niche.
		for _, tag := range job.Niches {
			if strings.ToLower(strings.TrimSpace(tag)) == niche {
				return true
			}
		}
		// Rule 2: the title mentions it.
		if strings.Contains(title, niche) {
			return true
		}
	}
	return false
}
