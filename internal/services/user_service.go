package services

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "centsible/internal/errors"
	"centsible/internal/models"
)

// userService handles user-related business logic.
type userService struct {
	db *gorm.DB
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB) UserServicer {
	return &userService{db: db}
}

// CreateUser registers a new user
func (s *userService) CreateUser(username, email, password, firstName, lastName string) (*models.User, error) {
	// Validate input
	if username == "" || email == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "username, email and password are required")
	}
	if len(password) < 8 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "password must be at least 8 characters")
	}

	email = strings.ToLower(email)

	// Check if email or username is taken
	var count int64
	s.db.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		return nil, apperrors.ErrDuplicateEmail
	}
	s.db.Model(&models.User{}).Where("username = ?", username).Count(&count)
	if count > 0 {
		return nil, apperrors.ErrDuplicateUsername
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// Create user
	user := &models.User{
		Username:    username,
		Email:       email,
		Password:    string(hashedPassword),
		FirstName:   firstName,
		LastName:    lastName,
		Currency:    "USD",
		Theme:       "light",
		NotifyEmail: true,
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return user, nil
}

// AttemptLogin verifies credentials and records the login time. Invalid
// email and wrong password return the same error so callers cannot probe
// for registered addresses.
func (s *userService) AttemptLogin(email, password string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.db.Model(&user).Update("last_login_at", now).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &user, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(id string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// UpdateProfile replaces the user's display name fields.
func (s *userService) UpdateProfile(userID, firstName, lastName string) (*models.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"first_name": firstName,
		"last_name":  lastName,
	}
	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetUserByID(userID)
}

// UpdatePreferences replaces the user's preference set.
func (s *userService) UpdatePreferences(userID string, prefs models.Preferences) (*models.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if prefs.Currency == "" {
		prefs.Currency = "USD"
	}
	if prefs.Theme == "" {
		prefs.Theme = "light"
	}

	updates := map[string]interface{}{
		"currency":     prefs.Currency,
		"theme":        prefs.Theme,
		"notify_email": prefs.Notifications.Email,
		"notify_push":  prefs.Notifications.Push,
	}
	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetUserByID(userID)
}
