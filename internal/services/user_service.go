package services

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/justsurfingit/jobster-api/internal/apperrors"
	"github.com/justsurfingit/jobster-api/internal/auth"
	"github.com/justsurfingit/jobster-api/internal/media"
	"github.com/justsurfingit/jobster-api/internal/models"
)

type UserService struct {
	DB    *gorm.DB
	Media media.Store
	Log   logrus.FieldLogger
}

func NewUserService(db *gorm.DB, store media.Store, log logrus.FieldLogger) *UserService {
	return &UserService{DB: db, Media: store, Log: log}
}

// ProfileFiles are the optional uploads accepted with a profile.
type ProfileFiles struct {
	Resume       *multipart.FileHeader
	ProfilePhoto *multipart.FileHeader
}

type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Role     models.Role
	Bio      string
	Niches   []string
	Skills   []string
}

type ProfileInput struct {
	Name   string
	Email  string
	Phone  string
	Bio    string
	Niches []string
	Skills []string
}

const invalidCredentials = "Invalid email or password."

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// cleanList trims entries, drops blanks and keeps the first occurrence of
// each value.
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[strings.ToLower(s)] {
			continue
		}
		seen[strings.ToLower(s)] = true
		out = append(out, s)
	}
	return out
}

func (s *UserService) emailTaken(ctx context.Context, email string, exceptID uint) (bool, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&models.User{}).
		Where("email = ? AND id <> ?", email, exceptID).
		Count(&count).Error
	return count > 0, err
}

// Register creates a user with a hashed password and optional uploads.
func (s *UserService) Register(ctx context.Context, in RegisterInput, files ProfileFiles) (*models.User, error) {
	if !in.Role.Valid() {
		return nil, apperrors.NewValidation("Role must be Applicant or Employer.")
	}
	email := normalizeEmail(in.Email)

	taken, err := s.emailTaken(ctx, email, 0)
	if err != nil {
		return nil, apperrors.FromDB(err, "User not found.")
	}
	if taken {
		return nil, apperrors.NewConflict("Email is already registered.")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.Validation, "Password cannot be used.")
	}

	resume, err := upload(ctx, s.Media, media.FolderResume, files.Resume, "resume")
	if err != nil {
		return nil, err
	}
	photo, err := upload(ctx, s.Media, media.FolderProfilePhoto, files.ProfilePhoto, "profile photo")
	if err != nil {
		discard(ctx, s.Media, s.Log, resume)
		return nil, err
	}

	user := &models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		Phone:        strings.TrimSpace(in.Phone),
		Password:     hash,
		Role:         in.Role,
		Bio:          in.Bio,
		Niches:       cleanList(in.Niches),
		Skills:       cleanList(in.Skills),
		Resume:       resume,
		ProfilePhoto: photo,
	}
	if err := s.DB.WithContext(ctx).Create(user).Error; err != nil {
		discard(ctx, s.Media, s.Log, resume, photo)
		return nil, apperrors.FromDB(err, "User not found.")
	}

	s.Log.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("user registered")
	return user, nil
}

// Login checks email, password and role. Every mismatch yields the same
// error so callers cannot tell which check failed.
func (s *UserService) Login(ctx context.Context, email, password string, role models.Role) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewAuthentication(invalidCredentials)
	}
	if err != nil {
		return nil, apperrors.FromDB(err, invalidCredentials)
	}
	if !auth.CheckPassword(user.Password, password) || user.Role != role {
		return nil, apperrors.NewAuthentication(invalidCredentials)
	}
	return &user, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, apperrors.FromDB(err, "User not found.")
	}
	return &user, nil
}

// View resolves the user's relationship lists into id arrays.
func (s *UserService) View(ctx context.Context, user *models.User) (*UserView, error) {
	db := s.DB.WithContext(ctx)
	v := &UserView{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		Phone:        user.Phone,
		Role:         user.Role,
		Bio:          user.Bio,
		Skills:       list(user.Skills),
		Niches:       list(user.Niches),
		ProfilePhoto: mediaRef(user.ProfilePhoto),
		Resume:       mediaRef(user.Resume),
		Company:      user.CompanyID,
		SavedJobs:    []uint{},
		AppliedJobs:  []uint{},
		PostedJobs:   []uint{},
		CreatedAt:    user.CreatedAt,
	}

	if err := db.Model(&models.SavedJob{}).Where("user_id = ?", user.ID).
		Order("created_at DESC").Pluck("job_id", &v.SavedJobs).Error; err != nil {
		return nil, apperrors.FromDB(err, "User not found.")
	}
	if err := db.Model(&models.Application{}).Where("applicant_id = ?", user.ID).
		Order("applied_on DESC").Pluck("job_id", &v.AppliedJobs).Error; err != nil {
		return nil, apperrors.FromDB(err, "User not found.")
	}
	if err := db.Model(&models.Job{}).Where("posted_by_id = ?", user.ID).
		Order("created_at DESC").Pluck("id", &v.PostedJobs).Error; err != nil {
		return nil, apperrors.FromDB(err, "User not found.")
	}
	return v, nil
}

// ViewByID loads a user and resolves its view.
func (s *UserService) ViewByID(ctx context.Context, id uint) (*UserView, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.View(ctx, user)
}

// UpdateProfile replaces the caller's profile fields. New uploads replace
// the previous objects, which are then deleted.
func (s *UserService) UpdateProfile(ctx context.Context, id uint, in ProfileInput, files ProfileFiles) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	email := normalizeEmail(in.Email)
	taken, err := s.emailTaken(ctx, email, id)
	if err != nil {
		return nil, apperrors.FromDB(err, "User not found.")
	}
	if taken {
		return nil, apperrors.NewConflict("Email is already registered.")
	}

	niches := cleanList(in.Niches)
	if user.Role == models.RoleApplicant && len(niches) == 0 {
		return nil, apperrors.NewValidation("Please provide your preferred job niches.")
	}

	resume, err := upload(ctx, s.Media, media.FolderResume, files.Resume, "resume")
	if err != nil {
		return nil, err
	}
	photo, err := upload(ctx, s.Media, media.FolderProfilePhoto, files.ProfilePhoto, "profile photo")
	if err != nil {
		discard(ctx, s.Media, s.Log, resume)
		return nil, err
	}

	var replaced []models.Media
	updates := map[string]any{
		"name":   strings.TrimSpace(in.Name),
		"email":  email,
		"phone":  strings.TrimSpace(in.Phone),
		"bio":    in.Bio,
		"niches": datatypes.JSONSlice[string](niches),
		"skills": datatypes.JSONSlice[string](cleanList(in.Skills)),
	}
	if !resume.Empty() {
		updates["resume_public_id"] = resume.PublicID
		updates["resume_url"] = resume.URL
		replaced = append(replaced, user.Resume)
	}
	if !photo.Empty() {
		updates["profile_photo_public_id"] = photo.PublicID
		updates["profile_photo_url"] = photo.URL
		replaced = append(replaced, user.ProfilePhoto)
	}

	if err := s.DB.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		discard(ctx, s.Media, s.Log, resume, photo)
		return nil, apperrors.FromDB(err, "User not found.")
	}
	discard(ctx, s.Media, s.Log, replaced...)

	s.Log.WithField("user_id", id).Info("profile updated")
	return s.Get(ctx, id)
}

// UpdatePassword verifies the old password before storing the new one.
func (s *UserService) UpdatePassword(ctx context.Context, id uint, oldPassword, newPassword, confirmPassword string) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(user.Password, oldPassword) {
		return nil, apperrors.NewAuthentication("Old password is incorrect.")
	}
	if newPassword != confirmPassword {
		return nil, apperrors.NewValidation("New password & confirm password do not match.")
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.Validation, "Password cannot be used.")
	}
	if err := s.DB.WithContext(ctx).Model(user).Update("password", hash).Error; err != nil {
		return nil, apperrors.FromDB(err, "User not found.")
	}
	user.Password = hash
	return user, nil
}
