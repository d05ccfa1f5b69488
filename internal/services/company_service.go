package services

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/justsurfingit/jobster-api/internal/apperrors"
	"github.com/justsurfingit/jobster-api/internal/auth"
	"github.com/justsurfingit/jobster-api/internal/media"
	"github.com/justsurfingit/jobster-api/internal/models"
)

type CompanyService struct {
	DB    *gorm.DB
	Media media.Store
	Log   logrus.FieldLogger
}

func NewCompanyService(db *gorm.DB, store media.Store, log logrus.FieldLogger) *CompanyService {
	return &CompanyService{DB: db, Media: store, Log: log}
}

type CompanyInput struct {
	Name        string
	Email       string
	Phone       string
	Address     string
	Website     string
	Description string
}

const (
	companyNotFound = "Company not found."
	companyExists   = "Company already exists."
)

// Add registers a company administered by the caller. An employer manages
// at most one company and company names are unique.
func (s *CompanyService) Add(ctx context.Context, caller *auth.Identity, in CompanyInput, logo *multipart.FileHeader) (*models.Company, error) {
	name := strings.TrimSpace(in.Name)
	db := s.DB.WithContext(ctx)

	var admin models.User
	if err := db.Select("id", "company_id").First(&admin, caller.ID).Error; err != nil {
		return nil, apperrors.FromDB(err, "User not found.")
	}
	if admin.CompanyID != nil {
		return nil, apperrors.NewConflict("You already manage a company.")
	}

	var count int64
	if err := db.Model(&models.Company{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, apperrors.FromDB(err, companyNotFound)
	}
	if count > 0 {
		return nil, apperrors.NewConflict(companyExists)
	}

	stored, err := upload(ctx, s.Media, media.FolderCompanyLogo, logo, "company logo")
	if err != nil {
		return nil, err
	}

	company := &models.Company{
		Name:        name,
		Email:       normalizeEmail(in.Email),
		Phone:       strings.TrimSpace(in.Phone),
		Address:     strings.TrimSpace(in.Address),
		Website:     strings.TrimSpace(in.Website),
		Description: in.Description,
		Logo:        stored,
		AdminID:     caller.ID,
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(company).Error; err != nil {
			return err
		}
		res := tx.Model(&models.User{}).
			Where("id = ? AND company_id IS NULL", caller.ID).
			Update("company_id", company.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.NewConflict("You already manage a company.")
		}
		return nil
	})
	if err != nil {
		discard(ctx, s.Media, s.Log, stored)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.NewConflict(companyExists)
		}
		return nil, apperrors.FromDB(err, companyNotFound)
	}

	s.Log.WithFields(logrus.Fields{"company_id": company.ID, "user_id": caller.ID}).Info("company added")
	return company, nil
}

// Get returns a company with its admin summary.
func (s *CompanyService) Get(ctx context.Context, id uint) (*CompanyDetail, error) {
	var company models.Company
	err := s.DB.WithContext(ctx).
		Preload("Admin", selectColumns(userSummaryColumns)).
		First(&company, id).Error
	if err != nil {
		return nil, apperrors.FromDB(err, companyNotFound)
	}
	return toCompanyDetail(&company), nil
}

// ByName returns a company, its admin and its job cards, newest first.
func (s *CompanyService) ByName(ctx context.Context, name string) (*CompanyDetail, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidation("Company name is required.")
	}

	var company models.Company
	err := s.DB.WithContext(ctx).
		Preload("Admin", selectColumns(userSummaryColumns)).
		Preload("Jobs", func(db *gorm.DB) *gorm.DB {
			return newestJobsFirst(db.Select(jobCardColumns))
		}).
		Where("name = ?", name).
		First(&company).Error
	if err != nil {
		return nil, apperrors.FromDB(err, companyNotFound)
	}

	// Cards inside the company view point back at the company summary.
	summary := company
	summary.Jobs = nil
	for i := range company.Jobs {
		company.Jobs[i].Company = &summary
	}
	return toCompanyDetail(&company), nil
}
