package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"toko/internal/logging"
	"toko/internal/models"
	"toko/internal/repositories"
	"toko/internal/tokens"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// TokenManager issues and verifies signed bearer tokens.
type TokenManager interface {
	Issue(kind tokens.Kind, userID, username, email string) (string, error)
	Parse(kind tokens.Kind, tokenString string) (*tokens.Claims, error)
}

// RegisterInput is the payload of a registration request.
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Username string `json:"username" validate:"required,max=150"`
	Password string `json:"password" validate:"required"`
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Access  string
	Refresh string
	User    *models.User
}

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo repositories.UserRepository
	tokens   TokenManager
	validate *validator.Validate
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, tokens TokenManager) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		validate: NewValidator(),
	}
}

// RegisterUser validates the input, hashes the password and stores the new user.
func (s *AuthService) RegisterUser(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	if err := s.validate.Struct(in); err != nil {
		return nil, toFieldErrors(err)
	}

	taken, err := s.taken(ctx, in)
	if err != nil {
		return nil, err
	}
	if len(taken) > 0 {
		return nil, taken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:    in.Email,
		Username: in.Username,
		Password: string(hashedPassword),
		IsActive: true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if !errors.Is(err, repositories.ErrDuplicate) {
			return nil, fmt.Errorf("failed to register user: %w", err)
		}
		// A concurrent registration won the unique index after our check.
		taken, lookupErr := s.taken(ctx, in)
		if lookupErr != nil {
			return nil, lookupErr
		}
		if len(taken) == 0 {
			taken = FieldErrors{"email": emailTaken}
		}
		return nil, taken
	}

	logging.FromContext(ctx).Info("user registered", "user_id", user.ID)
	return user, nil
}

const (
	emailTaken    = "A user with that email already exists."
	usernameTaken = "A user with that username already exists."
)

// taken reports which of the input's unique fields already belong to a user.
func (s *AuthService) taken(ctx context.Context, in RegisterInput) (FieldErrors, error) {
	taken := FieldErrors{}
	if _, err := s.userRepo.GetByEmail(ctx, in.Email); err == nil {
		taken["email"] = emailTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	if _, err := s.userRepo.GetByUsername(ctx, in.Username); err == nil {
		taken["username"] = usernameTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	return taken, nil
}

// LoginUser checks the credentials and issues an access and a refresh token.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required: %w", ErrUnauthorized)
	}

	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("account is disabled: %w", ErrUnauthorized)
	}

	access, err := s.tokens.Issue(tokens.Access, user.ID, user.Username, user.Email)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.Issue(tokens.Refresh, user.ID, user.Username, user.Email)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Access: access, Refresh: refresh, User: user}, nil
}

// RefreshAccessToken exchanges a valid refresh token for a new access token.
func (s *AuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.Parse(tokens.Refresh, refreshToken)
	if err != nil {
		return "", fmt.Errorf("%v: %w", err, ErrUnauthorized)
	}

	user, err := s.activeUser(ctx, claims.Subject)
	if err != nil {
		return "", err
	}
	return s.tokens.Issue(tokens.Access, user.ID, user.Username, user.Email)
}

// Authenticate verifies an access token and returns the caller's identity.
func (s *AuthService) Authenticate(accessToken string) (Identity, error) {
	claims, err := s.tokens.Parse(tokens.Access, accessToken)
	if err != nil {
		return Identity{}, fmt.Errorf("%v: %w", err, ErrUnauthorized)
	}
	return Identity{
		UserID:   claims.Subject,
		Username: claims.Username,
		Email:    claims.Email,
	}, nil
}

// CurrentUser returns the profile of the authenticated caller.
func (s *AuthService) CurrentUser(ctx context.Context, id Identity) (*models.User, error) {
	return s.activeUser(ctx, id.UserID)
}

func (s *AuthService) activeUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("user no longer exists: %w", ErrUnauthorized)
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, fmt.Errorf("account is disabled: %w", ErrUnauthorized)
	}
	return user, nil
}
