package service

//go:generate mockgen -source=user.go -destination=mocks/user_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/civic_issue_tracker/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository контракт хранилища пользователей.
// AddPoints применяет начисление ровно один раз на ключ; false - ключ уже применен.
// AwardBadge выдает значок, если его еще нет; false - значок уже был.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	AddPoints(ctx context.Context, userID uuid.UUID, delta int, key string) (bool, error)
	AwardBadge(ctx context.Context, userID uuid.UUID, badge models.Badge) (bool, error)
}

// TokenIssuer выпускает токен доступа для пользователя
type TokenIssuer interface {
	Generate(user *models.User) (string, error)
}

type UserService interface {
	Register(ctx context.Context, user *models.User, password string) error
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

const minPasswordLength = 6

type userService struct {
	repo   UserRepository
	tokens TokenIssuer
	logger *logrus.Logger
	cost   int
	now    func() time.Time
}

func NewUserService(repo UserRepository, tokens TokenIssuer, logger *logrus.Logger) UserService {
	return &userService{
		repo:   repo,
		tokens: tokens,
		logger: logger,
		cost:   bcrypt.DefaultCost,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Register создает учетную запись с bcrypt-хешем пароля
func (s *userService) Register(ctx context.Context, user *models.User, password string) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	log := s.logger.WithFields(logrus.Fields{
		"service": "user",
		"method":  "Register",
		"email":   user.Email,
	})
	log.Info("Attempting to register user")

	if err := validateNewUser(user, password); err != nil {
		log.WithError(err).Warn("Registration rejected by validation")
		return fmt.Errorf("service: could not register user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return fmt.Errorf("service: could not hash password: %w", err)
	}

	now := s.now()
	user.ID = uuid.New()
	user.PasswordHash = string(hash)
	user.Points = 0
	user.Badges = []models.Badge{}
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Role == models.RoleCitizen {
		user.Department = ""
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, models.ErrConflict) {
			log.Warn("User with this email or phone already exists")
		} else {
			log.WithError(err).Error("Failed to create user in repository")
		}
		return fmt.Errorf("service: could not register user: %w", err)
	}

	log.WithField("user_id", user.ID).Info("User registered successfully")
	return nil
}

func validateNewUser(user *models.User, password string) error {
	user.Name = strings.TrimSpace(user.Name)
	user.Phone = strings.TrimSpace(user.Phone)
	user.Department = strings.TrimSpace(user.Department)
	if user.Role == "" {
		user.Role = models.RoleCitizen
	}

	switch {
	case user.Name == "":
		return fmt.Errorf("%w: name is required", models.ErrValidation)
	case user.Email == "":
		return fmt.Errorf("%w: email is required", models.ErrValidation)
	case user.Phone == "":
		return fmt.Errorf("%w: phone is required", models.ErrValidation)
	case len(password) < minPasswordLength:
		return fmt.Errorf("%w: password must be at least %d characters", models.ErrValidation, minPasswordLength)
	case !user.Role.Valid():
		return fmt.Errorf("%w: unknown role %q", models.ErrValidation, user.Role)
	case user.Role == models.RoleGovernment && user.Department == "":
		return fmt.Errorf("%w: department is required for government users", models.ErrValidation)
	}
	if _, err := mail.ParseAddress(user.Email); err != nil {
		return fmt.Errorf("%w: invalid email", models.ErrValidation)
	}
	return nil
}

// Login проверяет пароль и выпускает токен
func (s *userService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	log := s.logger.WithFields(logrus.Fields{
		"service": "user",
		"method":  "Login",
		"email":   email,
	})

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			log.Warn("Login attempt for unknown email")
			return "", nil, fmt.Errorf("service: could not login: %w", models.ErrUnauthorized)
		}
		log.WithError(err).Error("Failed to load user")
		return "", nil, fmt.Errorf("service: could not login: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Warn("Login attempt with wrong password")
		return "", nil, fmt.Errorf("service: could not login: %w", models.ErrUnauthorized)
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		log.WithError(err).Error("Failed to issue token")
		return "", nil, fmt.Errorf("service: could not issue token: %w", err)
	}

	log.WithField("user_id", user.ID).Info("User logged in")
	return token, user, nil
}

// GetUser возвращает пользователя по ID
func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"service": "user",
			"method":  "GetUser",
			"user_id": id,
		}).Warn("Failed to get user")
		return nil, fmt.Errorf("service: could not get user: %w", err)
	}
	return user, nil
}
