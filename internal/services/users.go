package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/farellandr/fastfriends/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
	Gender      string
	Birthday    *time.Time
	About       string
	Language    string
}

type ProfileInput struct {
	DisplayName string
	Gender      string
	Birthday    *time.Time
	About       string
	PortraitURL string
	Language    string
}

// UserService covers registration, credentials and profile upkeep. Interest
// tags are re-extracted from the about text on every profile write.
type UserService struct {
	users UserStore
	tags  *TagService
}

func NewUserService(users UserStore, tags *TagService) *UserService {
	return &UserService{users: users, tags: tags}
}

// Register creates the user with a hashed password, a profile and default
// settings in one go.
func (s *UserService) Register(input RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", models.ErrInvalidInput)
	}
	if strings.TrimSpace(input.DisplayName) == "" {
		return nil, fmt.Errorf("%w: display name is required", models.ErrInvalidInput)
	}

	if _, err := s.users.ByEmail(email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", models.ErrInvalidInput)
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	taken, err := s.users.DisplayNameTaken(input.DisplayName)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: display name already taken", models.ErrInvalidInput)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	if input.Language == "" {
		input.Language = "en"
	}
	user := &models.User{
		Email:    email,
		Password: string(hashed),
		Profile: &models.Profile{
			DisplayName:     input.DisplayName,
			Gender:          input.Gender,
			Birthday:        input.Birthday,
			About:           input.About,
			DefaultLanguage: input.Language,
		},
		Settings: &models.UserSettings{
			Notifications: true,
			FriendMembers: true,
		},
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}
	if input.About != "" {
		if _, err := s.tags.Apply(user.Profile, input.About); err != nil {
			logrus.WithField("user", user.ID).Warnf("interest tagging failed: %v", err)
		}
	}
	return user, nil
}

// Authenticate checks the credentials and returns the user on success.
func (s *UserService) Authenticate(email, password string) (*models.User, error) {
	user, err := s.users.ByEmail(strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrForbidden
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.ErrForbidden
	}
	return user, nil
}

func (s *UserService) Get(userID uuid.UUID) (*models.User, error) {
	return s.users.ByID(userID)
}

// UpdateProfile writes profile edits and refreshes the interest tags pulled
// from the about text.
func (s *UserService) UpdateProfile(userID uuid.UUID, input ProfileInput) (*models.Profile, error) {
	profile, err := s.users.ProfileOf(userID)
	if err != nil {
		return nil, err
	}

	if input.DisplayName != "" && !strings.EqualFold(input.DisplayName, profile.DisplayName) {
		taken, err := s.users.DisplayNameTaken(input.DisplayName)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%w: display name already taken", models.ErrInvalidInput)
		}
		profile.DisplayName = input.DisplayName
	}
	profile.Gender = input.Gender
	profile.Birthday = input.Birthday
	profile.About = input.About
	if input.PortraitURL != "" {
		profile.PortraitURL = input.PortraitURL
	}
	if input.Language != "" {
		profile.DefaultLanguage = input.Language
	}

	if err := s.users.SaveProfile(profile); err != nil {
		return nil, err
	}
	if _, err := s.tags.Apply(profile, profile.About); err != nil {
		logrus.WithField("user", userID).Warnf("interest tagging failed: %v", err)
	}
	return profile, nil
}

// DisplayNameAvailable is the pre-flight check the signup form uses.
func (s *UserService) DisplayNameAvailable(name string) (bool, error) {
	if strings.TrimSpace(name) == "" {
		return false, nil
	}
	taken, err := s.users.DisplayNameTaken(name)
	return !taken, err
}

func (s *UserService) Settings(userID uuid.UUID) (*models.UserSettings, error) {
	return s.users.SettingsOf(userID)
}

func (s *UserService) UpdateSettings(userID uuid.UUID, notifications, friendMembers bool) (*models.UserSettings, error) {
	settings, err := s.users.SettingsOf(userID)
	if err != nil {
		return nil, err
	}
	settings.Notifications = notifications
	settings.FriendMembers = friendMembers
	if err := s.users.SaveSettings(settings); err != nil {
		return nil, err
	}
	return settings, nil
}
