package service

import (
	"context"
	"net/url"
	"strings"

	"github.com/LgendSourabie/blango/internal/models"
	"github.com/LgendSourabie/blango/internal/observability"
	"github.com/LgendSourabie/blango/internal/repository"
	"github.com/LgendSourabie/blango/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// UserPayload is the wire representation of a user.
type UserPayload struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	URL   string `json:"url"`
}

type CreateUserInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserService struct {
	userRepo repository.UserRepository
	baseURL  string
}

func NewUserService(userRepo repository.UserRepository, baseURL string) *UserService {
	return &UserService{
		userRepo: userRepo,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

// WithBaseURL returns a copy of the service minting resource URLs against
// baseURL.
func (s *UserService) WithBaseURL(baseURL string) *UserService {
	if baseURL == "" {
		return s
	}
	clone := *s
	clone.baseURL = strings.TrimRight(baseURL, "/")
	return &clone
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]UserPayload, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	users, err := s.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	payloads := make([]UserPayload, 0, len(users))
	for i := range users {
		payloads = append(payloads, s.serialize(&users[i]))
	}
	return payloads, nil
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*UserPayload, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", email)
	}
	payload := s.serialize(user)
	return &payload, nil
}

// CreateUser registers a user with a bcrypt-hashed password.
func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (*UserPayload, error) {
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if len(in.Password) < 8 {
		return nil, models.NewValidationError("Password must be at least 8 characters")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{Email: in.Email, Password: string(hashed)}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	payload := s.serialize(user)
	return &payload, nil
}

// Authenticate verifies a credential pair. Misses and password mismatches
// return the same authentication error; callers cannot tell which failed.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		observability.AuthFailures.WithLabelValues("password").Inc()
		return nil, models.NewAuthenticationError("Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		observability.AuthFailures.WithLabelValues("password").Inc()
		return nil, models.NewAuthenticationError("Invalid credentials")
	}
	return user, nil
}

func (s *UserService) serialize(u *models.User) UserPayload {
	return UserPayload{
		ID:    u.ID,
		Email: u.Email,
		URL:   s.baseURL + "/api/v1/users/" + url.PathEscape(u.Email),
	}
}
