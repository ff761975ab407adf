package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/whyteferrari/RECALLR/internal/store"
	"github.com/whyteferrari/RECALLR/types"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id int) (types.User, error)
	GetByUsername(ctx context.Context, username string) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	GetByLogin(ctx context.Context, login string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	UpdateLastLogin(ctx context.Context, id int, at time.Time) error
}

// SignupInput is the registration form.
type SignupInput struct {
	Username        string `json:"username" validate:"required,max=100"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

// LoginInput accepts either a username or an email as Login.
type LoginInput struct {
	Login    string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserService encapsulates user use-cases.
type UserService struct {
	repo       UserRepository
	hashCost   int
	background launcher
}

// launcher runs fire-and-forget work such as the last-login update.
type launcher interface {
	Go(fn func())
}

type goroutines struct{}

func (goroutines) Go(fn func()) { go fn() }

func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo, hashCost: bcrypt.DefaultCost, background: goroutines{}}
}

func (s *UserService) GetByID(ctx context.Context, id int) (types.User, error) {
	return s.repo.GetByID(ctx, id)
}

// Signup validates the form, rejects taken usernames and emails, and stores
// the user with a bcrypt password hash.
func (s *UserService) Signup(ctx context.Context, input SignupInput) (types.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	if err := validateStruct(input, ""); err != nil {
		return types.User{}, err
	}

	if _, err := s.repo.GetByEmail(ctx, input.Email); err == nil {
		return types.User{}, fmt.Errorf("%w: email already registered", ErrConflict)
	} else if !errors.Is(err, store.ErrNotFound) {
		return types.User{}, fmt.Errorf("check email: %w", err)
	}
	if _, err := s.repo.GetByUsername(ctx, input.Username); err == nil {
		return types.User{}, fmt.Errorf("%w: username already taken", ErrConflict)
	} else if !errors.Is(err, store.ErrNotFound) {
		return types.User{}, fmt.Errorf("check username: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.hashCost)
	if err != nil {
		return types.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.Create(ctx, types.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hashed),
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return types.User{}, fmt.Errorf("%w: username or email already registered", ErrConflict)
		}
		return types.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login checks the credentials and records the login time in the background.
func (s *UserService) Login(ctx context.Context, input LoginInput) (types.User, error) {
	input.Login = strings.TrimSpace(input.Login)
	if err := validateStruct(input, ""); err != nil {
		return types.User{}, err
	}

	user, err := s.repo.GetByLogin(ctx, input.Login)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, ErrInvalidCredentials
		}
		return types.User{}, fmt.Errorf("load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return types.User{}, ErrInvalidCredentials
	}

	now := time.Now()
	bg := context.WithoutCancel(ctx)
	s.background.Go(func() {
		if err := s.repo.UpdateLastLogin(bg, user.ID, now); err != nil {
			slog.WarnContext(bg, "failed to update last login", "user_id", user.ID, "error", err)
		}
	})

	user.LastLogin = &now
	return user, nil
}
