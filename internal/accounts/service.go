package accounts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/memoryschool/portal/internal/models"
	"github.com/memoryschool/portal/internal/services"
)

var (
	ErrMissingFields = errors.New("missing email, password, first_name, or last_name")
	ErrInvalidEmail  = errors.New("invalid email address")
	ErrEmailTaken    = errors.New("email already registered")
	ErrThrottled     = errors.New("too many signup attempts, try again later")
)

// Service owns authentication identities. Create is the privileged path used
// by the registration flow; PublicSignup is the throttled self-service path.
type Service struct {
	db      *gorm.DB
	limiter *rate.Limiter
}

func NewService(gdb *gorm.DB) *Service {
	return &Service{
		db:      gdb,
		limiter: rate.NewLimiter(rate.Every(1*time.Minute), 5), // 5 public signups per minute
	}
}

// Create provisions a pre-verified identity without touching the public
// signup limiter. It is idempotent keyed by email: a retry with the same
// email and password returns the existing account id instead of colliding,
// so a registration that failed after this stage can be resubmitted.
func (s *Service) Create(ctx context.Context, email, password, firstName, lastName string) (string, error) {
	if email == "" || password == "" || firstName == "" {
		return "", ErrMissingFields
	}
	email, valid := services.NormEmail(email)
	if !valid || email == "" {
		return "", ErrInvalidEmail
	}

	var existing models.Account
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		var cred models.Credential
		if err := s.db.WithContext(ctx).Where("account_id = ?", existing.ID).First(&cred).Error; err != nil {
			return "", fmt.Errorf("load credential: %w", err)
		}
		match, err := verifyPassword(password, cred.Salt, cred.PasswordHash)
		if err != nil {
			return "", err
		}
		if !match {
			return "", ErrEmailTaken
		}
		return existing.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	return s.insert(ctx, email, password, firstName, lastName, true)
}

// PublicSignup is the self-service path: rate-limited, and the identity
// starts unverified (email confirmation round trip happens elsewhere).
func (s *Service) PublicSignup(ctx context.Context, email, password, firstName, lastName string) (string, error) {
	if !s.limiter.Allow() {
		return "", ErrThrottled
	}
	if email == "" || password == "" || firstName == "" {
		return "", ErrMissingFields
	}
	email, valid := services.NormEmail(email)
	if !valid || email == "" {
		return "", ErrInvalidEmail
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Account{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return "", err
	}
	if count > 0 {
		return "", ErrEmailTaken
	}

	return s.insert(ctx, email, password, firstName, lastName, false)
}

func (s *Service) insert(ctx context.Context, email, password, firstName, lastName string, verified bool) (string, error) {
	hash, salt, err := hashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	id := uuid.NewString()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		acc := models.Account{
			ID:        id,
			Email:     email,
			FirstName: firstName,
			LastName:  lastName,
			Verified:  verified,
		}
		if err := tx.Create(&acc).Error; err != nil {
			return err
		}
		cred := models.Credential{AccountID: id, PasswordHash: hash, Salt: salt}
		return tx.Create(&cred).Error
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// Authenticate verifies a guardian's portal login.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.Account, error) {
	email, valid := services.NormEmail(email)
	if !valid || email == "" {
		return nil, ErrInvalidEmail
	}

	var acc models.Account
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&acc).Error; err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}
	var cred models.Credential
	if err := s.db.WithContext(ctx).Where("account_id = ?", acc.ID).First(&cred).Error; err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}
	match, err := verifyPassword(password, cred.Salt, cred.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}
	if !match {
		return nil, errors.New("authentication failed: invalid credentials")
	}
	return &acc, nil
}
