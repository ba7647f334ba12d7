package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	mysql "github.com/go-sql-driver/mysql"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Bossppp/cozy-hotel-bookings/metrics"
	"github.com/Bossppp/cozy-hotel-bookings/models"
	"github.com/Bossppp/cozy-hotel-bookings/utils"
)

const minPasswordLength = 6

// AuthService owns accounts and sessions: register, login, logout, token
// resolution and profile updates.
type AuthService struct {
	DB         *gorm.DB
	SessionTTL time.Duration
}

func NewAuthService(db *gorm.DB, sessionTTL time.Duration) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &AuthService{DB: db, SessionTTL: sessionTTL}
}

type RegisterInput struct {
	Name     string `json:"name"`
	Tel      string `json:"tel"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateDetailsInput struct {
	Name     *string `json:"name"`
	Tel      *string `json:"tel"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// Register creates the account and immediately issues a session, so the
// client lands authenticated just like after a login.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (models.User, string, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if name == "" {
		return models.User{}, "", validationErr("name is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return models.User{}, "", validationErr("a valid email is required")
	}
	if !utils.IsValidTel(input.Tel) {
		return models.User{}, "", validationErr("telephone number must contain 10 to 12 digits")
	}
	if len(input.Password) < minPasswordLength {
		return models.User{}, "", validationErr("password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Name:     name,
		Tel:      strings.TrimSpace(input.Tel),
		Email:    email,
		Password: string(hash),
		Role:     models.RoleUser,
	}
	if err := s.DB.WithContext(ctx).Create(&user).Error; err != nil {
		if isDuplicateKeyErr(err) {
			return models.User{}, "", ErrEmailTaken
		}
		return models.User{}, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.issueSession(ctx, user.ID)
	if err != nil {
		return models.User{}, "", err
	}
	log.Printf("registered user %s", utils.MaskEmail(user.Email))
	return user, token, nil
}

// Login verifies credentials and issues a fresh session. Overlapping logins
// are independent; each call gets its own token.
func (s *AuthService) Login(ctx context.Context, email, password string) (models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		metrics.IncLogin("rejected")
		return models.User{}, "", ErrInvalidCredentials
	}

	var user models.User
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.IncLogin("rejected")
			return models.User{}, "", ErrInvalidCredentials
		}
		return models.User{}, "", fmt.Errorf("failed to look up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		metrics.IncLogin("rejected")
		return models.User{}, "", ErrInvalidCredentials
	}

	token, err := s.issueSession(ctx, user.ID)
	if err != nil {
		return models.User{}, "", err
	}
	metrics.IncLogin("success")
	return user, token, nil
}

// Logout revokes exactly the presented token. Unknown tokens are a no-op.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.DB.WithContext(ctx).Where("token = ?", token).Delete(&models.Session{}).Error
}

// UserForToken resolves a bearer token to its user. Expired rows are purged
// on the lookup that finds them.
func (s *AuthService) UserForToken(ctx context.Context, token string) (models.User, error) {
	if token == "" {
		return models.User{}, ErrInvalidSession
	}

	var session models.Session
	err := s.DB.WithContext(ctx).Preload("User").Where("token = ?", token).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrInvalidSession
		}
		return models.User{}, fmt.Errorf("failed to look up session: %w", err)
	}

	if session.Expired(time.Now().UTC()) {
		if err := s.DB.WithContext(ctx).Delete(&models.Session{}, session.ID).Error; err != nil {
			log.Printf("failed to purge expired session %d: %v", session.ID, err)
		}
		return models.User{}, ErrInvalidSession
	}
	if session.User.ID == 0 {
		return models.User{}, ErrInvalidSession
	}
	return session.User, nil
}

// UpdateDetails applies a partial profile update.
func (s *AuthService) UpdateDetails(ctx context.Context, userID uint, input UpdateDetailsInput) (models.User, error) {
	updates := map[string]any{}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return models.User{}, validationErr("name must not be empty")
		}
		updates["name"] = name
	}
	if input.Tel != nil {
		if !utils.IsValidTel(*input.Tel) {
			return models.User{}, validationErr("telephone number must contain 10 to 12 digits")
		}
		updates["tel"] = strings.TrimSpace(*input.Tel)
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email == "" || !strings.Contains(email, "@") {
			return models.User{}, validationErr("a valid email is required")
		}
		updates["email"] = email
	}
	if input.Password != nil {
		if len(*input.Password) < minPasswordLength {
			return models.User{}, validationErr("password must be at least 6 characters")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return models.User{}, fmt.Errorf("failed to hash password: %w", err)
		}
		updates["password"] = string(hash)
	}

	if len(updates) > 0 {
		err := s.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error
		if err != nil {
			if isDuplicateKeyErr(err) {
				return models.User{}, ErrEmailTaken
			}
			return models.User{}, fmt.Errorf("failed to update user: %w", err)
		}
	}

	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, userID).Error; err != nil {
		return models.User{}, fmt.Errorf("failed to reload user: %w", err)
	}
	return user, nil
}

func (s *AuthService) issueSession(ctx context.Context, userID uint) (string, error) {
	token, err := utils.GenerateSecureToken(32)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	session := models.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: time.Now().UTC().Add(s.SessionTTL),
	}
	if err := s.DB.WithContext(ctx).Create(&session).Error; err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return token, nil
}

// isDuplicateKeyErr recognizes unique violations from MySQL and from the
// sqlite driver the tests run on.
func isDuplicateKeyErr(err error) bool {
	var merr *mysql.MySQLError
	if errors.As(err, &merr) {
		return merr.Number == 1062
	}
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "duplicate entry") || strings.Contains(lower, "unique constraint")
}
